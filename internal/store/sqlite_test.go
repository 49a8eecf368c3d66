package store_test

import (
	"context"
	"reflect"
	"testing"

	"tikvault/internal/store"
	"tikvault/internal/testsupport"
)

func seedAuthor(t *testing.T, st store.Store, id string) {
	t.Helper()
	err := st.UpsertAuthor(context.Background(), &store.AuthorRecord{
		ID:        id,
		Handles:   []string{"handle_" + id},
		Nicknames: []string{"Nick " + id},
	})
	if err != nil {
		t.Fatalf("UpsertAuthor: %v", err)
	}
}

func seedVideo(t *testing.T, st store.Store, video store.VideoRecord) {
	t.Helper()
	if err := st.UpsertVideo(context.Background(), &video); err != nil {
		t.Fatalf("UpsertVideo: %v", err)
	}
}

func TestAuthorRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	author := &store.AuthorRecord{
		ID:            "a1",
		Handles:       []string{"newhandle", "oldhandle"},
		Nicknames:     []string{"New Name", "Old Name"},
		FollowerCount: 10,
		HeartCount:    20,
		VideoCount:    3,
	}
	if err := st.UpsertAuthor(ctx, author); err != nil {
		t.Fatalf("UpsertAuthor: %v", err)
	}

	got, err := st.GetAuthor(ctx, "a1")
	if err != nil {
		t.Fatalf("GetAuthor: %v", err)
	}
	if got == nil {
		t.Fatal("GetAuthor returned nil")
	}
	if !reflect.DeepEqual(got, author) {
		t.Fatalf("GetAuthor = %+v, want %+v", got, author)
	}
	if got.Handle() != "newhandle" || got.Nickname() != "New Name" {
		t.Fatalf("Handle/Nickname = %q/%q", got.Handle(), got.Nickname())
	}

	missing, err := st.GetAuthor(ctx, "nope")
	if err != nil {
		t.Fatalf("GetAuthor missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("GetAuthor missing = %+v, want nil", missing)
	}
}

func TestVideoUpsertPreservesUploadState(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seedAuthor(t, st, "a1")
	length := 42.5
	seedVideo(t, st, store.VideoRecord{
		ID:            "v1",
		AuthorID:      "a1",
		CreateTime:    1000,
		Description:   "first #tag",
		LengthSeconds: &length,
		FilePath:      "data/videos/v1.mp4",
	})

	marked, err := st.MarkUploaded(ctx, "v1")
	if err != nil || !marked {
		t.Fatalf("MarkUploaded = (%v, %v), want (true, nil)", marked, err)
	}

	// Reimport refreshes fields but keeps the uploaded flag.
	seedVideo(t, st, store.VideoRecord{
		ID:          "v1",
		AuthorID:    "a1",
		CreateTime:  1000,
		Description: "updated",
	})

	got, err := st.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if !got.Uploaded {
		t.Fatal("reimport reset the uploaded flag")
	}
	if got.UploadDate == nil {
		t.Fatal("upload date missing after reimport")
	}
	if got.Description != "updated" {
		t.Fatalf("Description = %q, want refreshed", got.Description)
	}
}

func TestMarkUploadedIdempotent(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seedVideo(t, st, store.VideoRecord{ID: "v1", CreateTime: 1})

	first, err := st.MarkUploaded(ctx, "v1")
	if err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	second, err := st.MarkUploaded(ctx, "v1")
	if err != nil {
		t.Fatalf("MarkUploaded again: %v", err)
	}
	missing, err := st.MarkUploaded(ctx, "absent")
	if err != nil {
		t.Fatalf("MarkUploaded absent: %v", err)
	}
	if !first || second || missing {
		t.Fatalf("MarkUploaded sequence = (%v, %v, %v), want (true, false, false)", first, second, missing)
	}
}

func TestNextPendingOrdering(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seedVideo(t, st, store.VideoRecord{ID: "newer", CreateTime: 2000})
	seedVideo(t, st, store.VideoRecord{ID: "older", CreateTime: 1000})
	for _, id := range []string{"newer", "older"} {
		if _, err := st.MarkLiked(ctx, id); err != nil {
			t.Fatalf("MarkLiked: %v", err)
		}
	}

	next, err := st.NextPending(ctx, store.Selection{Source: store.SourceLiked})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if next == nil || next.ID != "older" {
		t.Fatalf("NextPending = %+v, want oldest first", next)
	}

	if _, err := st.MarkUploaded(ctx, "older"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	next, err = st.NextPending(ctx, store.Selection{Source: store.SourceLiked})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if next == nil || next.ID != "newer" {
		t.Fatalf("NextPending after upload = %+v, want newer", next)
	}

	if _, err := st.MarkUploaded(ctx, "newer"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	next, err = st.NextPending(ctx, store.Selection{Source: store.SourceLiked})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if next != nil {
		t.Fatalf("NextPending drained = %+v, want nil", next)
	}
}

func TestNextPendingSourceFilters(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seedAuthor(t, st, "mine")
	seedVideo(t, st, store.VideoRecord{ID: "liked", CreateTime: 1})
	seedVideo(t, st, store.VideoRecord{ID: "marked", CreateTime: 2})
	seedVideo(t, st, store.VideoRecord{ID: "own", AuthorID: "mine", CreateTime: 3})

	if _, err := st.MarkLiked(ctx, "liked"); err != nil {
		t.Fatalf("MarkLiked: %v", err)
	}
	if _, err := st.MarkBookmarked(ctx, "marked"); err != nil {
		t.Fatalf("MarkBookmarked: %v", err)
	}
	if err := st.UpsertUser(ctx, &store.UserRecord{ID: "mine", UniqueID: "me"}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	tests := []struct {
		name string
		sel  store.Selection
		want string
	}{
		{"liked", store.Selection{Source: store.SourceLiked}, "liked"},
		{"bookmarked", store.Selection{Source: store.SourceBookmarked}, "marked"},
		{"created by archive user", store.Selection{Source: store.SourceCreated}, "own"},
		{"created by author id", store.Selection{Source: store.SourceCreated, AuthorID: "mine"}, "own"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.NextPending(ctx, tt.sel)
			if err != nil {
				t.Fatalf("NextPending: %v", err)
			}
			if got == nil || got.ID != tt.want {
				t.Fatalf("NextPending = %+v, want id %q", got, tt.want)
			}
		})
	}

	got, err := st.NextPending(ctx, store.Selection{Source: store.SourceCreated, AuthorID: "someone-else"})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if got != nil {
		t.Fatalf("NextPending foreign author = %+v, want nil", got)
	}
}

func TestNextPendingLengthCeiling(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	long := 120.0
	short := 30.0
	seedVideo(t, st, store.VideoRecord{ID: "long", CreateTime: 1, LengthSeconds: &long})
	seedVideo(t, st, store.VideoRecord{ID: "short", CreateTime: 2, LengthSeconds: &short})
	seedVideo(t, st, store.VideoRecord{ID: "unknown", CreateTime: 3})
	for _, id := range []string{"long", "short", "unknown"} {
		if _, err := st.MarkLiked(ctx, id); err != nil {
			t.Fatalf("MarkLiked: %v", err)
		}
	}

	sel := store.Selection{Source: store.SourceLiked, MaxLengthSeconds: 60}
	got, err := st.NextPending(ctx, sel)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if got == nil || got.ID != "short" {
		t.Fatalf("NextPending = %+v, want short video", got)
	}

	if _, err := st.MarkUploaded(ctx, "short"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	got, err = st.NextPending(ctx, sel)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if got == nil || got.ID != "unknown" {
		t.Fatalf("NextPending = %+v, want unknown-length video to pass", got)
	}

	// Zero disables the ceiling.
	got, err = st.NextPending(ctx, store.Selection{Source: store.SourceLiked})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if got == nil || got.ID != "long" {
		t.Fatalf("NextPending unfiltered = %+v, want oldest remaining", got)
	}
}

func TestMarksReportMissingVideos(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seedVideo(t, st, store.VideoRecord{ID: "v1", CreateTime: 1})

	found, err := st.MarkLiked(ctx, "v1")
	if err != nil || !found {
		t.Fatalf("MarkLiked existing = (%v, %v)", found, err)
	}
	found, err = st.MarkLiked(ctx, "ghost")
	if err != nil || found {
		t.Fatalf("MarkLiked missing = (%v, %v), want (false, nil)", found, err)
	}

	seedAuthor(t, st, "a1")
	found, err = st.AddFollowing(ctx, "a1")
	if err != nil || !found {
		t.Fatalf("AddFollowing existing = (%v, %v)", found, err)
	}
	found, err = st.AddFollowing(ctx, "ghost")
	if err != nil || found {
		t.Fatalf("AddFollowing missing = (%v, %v), want (false, nil)", found, err)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := st.SetMetadata(ctx, "schema_version", "3"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := st.SetMetadata(ctx, "schema_version", "4"); err != nil {
		t.Fatalf("SetMetadata update: %v", err)
	}

	got, err := st.Metadata(ctx, "schema_version")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if got != "4" {
		t.Fatalf("Metadata = %q, want %q", got, "4")
	}

	got, err = st.Metadata(ctx, "absent")
	if err != nil {
		t.Fatalf("Metadata absent: %v", err)
	}
	if got != "" {
		t.Fatalf("Metadata absent = %q, want empty", got)
	}
}

func TestStats(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	seedAuthor(t, st, "a1")
	seedVideo(t, st, store.VideoRecord{ID: "v1", CreateTime: 1})
	seedVideo(t, st, store.VideoRecord{ID: "v2", CreateTime: 2})
	if _, err := st.MarkLiked(ctx, "v1"); err != nil {
		t.Fatalf("MarkLiked: %v", err)
	}
	if _, err := st.MarkLiked(ctx, "v2"); err != nil {
		t.Fatalf("MarkLiked: %v", err)
	}
	if _, err := st.MarkUploaded(ctx, "v1"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	if _, err := st.AddFollowing(ctx, "a1"); err != nil {
		t.Fatalf("AddFollowing: %v", err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Authors != 1 || stats.Videos != 2 || stats.Following != 1 {
		t.Fatalf("Stats = %+v", stats)
	}
	liked := stats.Sources[store.SourceLiked]
	if liked.Pending != 1 || liked.Uploaded != 1 {
		t.Fatalf("liked stats = %+v, want 1 pending 1 uploaded", liked)
	}
}
