package archive_test

import (
	"context"
	"testing"

	"tikvault/internal/archive"
	"tikvault/internal/media"
	"tikvault/internal/store"
	"tikvault/internal/testsupport"
)

func sampleExport() *archive.Export {
	return &archive.Export{
		SchemaVersion: 3,
		Authors: map[string]archive.Author{
			"a1": {UniqueIDs: []string{"creator"}, Nicknames: []string{"Creator"}, VideoCount: 2},
			"a2": {UniqueIDs: []string{"other"}},
		},
		Videos: map[string]archive.Video{
			"v1": {AuthorID: "a1", CreateTime: 1000, DiggCount: 5},
			"v2": {AuthorID: "a1", CreateTime: 2000},
			"v3": {AuthorID: "a2", CreateTime: 3000},
		},
		VideoDescriptions: map[string]string{
			"v1": "first video #cats",
			"v2": "second video",
		},
		Likes:      archive.VideoList{OfficialList: []string{"v1", "missing"}},
		Bookmarked: archive.VideoList{OfficialList: []string{"v2"}},
		Following:  archive.AuthorList{OfficialAuthorList: []string{"a1", "ghost"}},
		User:       archive.User{ID: "a1", UniqueID: "creator", Nickname: "Creator"},
	}
}

func TestImporterRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.WriteVideoFile(t, cfg.Paths.ArchiveDir, "v1")

	probed := map[string]bool{}
	probe := func(ctx context.Context, path string) (media.Info, error) {
		probed[path] = true
		return media.Info{DurationSeconds: 12.5, Width: 720, Height: 1280}, nil
	}

	importer := archive.NewImporter(st, cfg.Paths.ArchiveDir, probe, nil)
	summary, err := importer.Run(context.Background(), sampleExport())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Authors != 2 || summary.Videos != 3 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.VideosWithFile != 1 || summary.VideosWithLength != 1 {
		t.Fatalf("file/length summary = %+v, want one located and probed", summary)
	}
	if summary.Liked != 1 || summary.LikedMissing != 1 {
		t.Fatalf("liked summary = %+v", summary)
	}
	if summary.Bookmarked != 1 || summary.Following != 1 || summary.FollowingMissing != 1 {
		t.Fatalf("marks summary = %+v", summary)
	}
	if !summary.UserImported {
		t.Fatal("user not imported")
	}
	if len(probed) != 1 {
		t.Fatalf("probed %d files, want 1", len(probed))
	}

	ctx := context.Background()
	video, err := st.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if video.Description != "first video #cats" {
		t.Fatalf("description = %q", video.Description)
	}
	if video.LengthSeconds == nil || *video.LengthSeconds != 12.5 {
		t.Fatalf("length = %v, want 12.5", video.LengthSeconds)
	}
	if !video.Liked || video.Bookmarked {
		t.Fatalf("marks = liked=%v bookmarked=%v", video.Liked, video.Bookmarked)
	}
	if video.FilePath == "" {
		t.Fatal("file path not recorded")
	}

	version, err := st.Metadata(ctx, "schema_version")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if version != "3" {
		t.Fatalf("schema_version = %q, want %q", version, "3")
	}
	session, err := st.Metadata(ctx, "import_session")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if session == "" {
		t.Fatal("import_session not recorded")
	}
}

func TestImporterRerunPreservesUploadState(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	importer := archive.NewImporter(st, cfg.Paths.ArchiveDir, nil, nil)
	ctx := context.Background()
	export := sampleExport()

	if _, err := importer.Run(ctx, export); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := st.MarkUploaded(ctx, "v1"); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}
	if _, err := importer.Run(ctx, export); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	video, err := st.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if !video.Uploaded {
		t.Fatal("reimport reset the uploaded flag")
	}

	next, err := st.NextPending(ctx, store.Selection{Source: store.SourceLiked})
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if next != nil {
		t.Fatalf("NextPending = %+v, want nil after v1 uploaded", next)
	}
}
