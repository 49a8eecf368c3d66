package archive

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"tikvault/internal/logging"
	"tikvault/internal/media"
	"tikvault/internal/store"
)

// Prober measures a located video file. It matches media.Probe.
type Prober func(ctx context.Context, path string) (media.Info, error)

// Importer loads a decoded export into the store, locating and probing the
// video files under the archive root along the way.
type Importer struct {
	store       store.Store
	archiveRoot string
	probe       Prober
	logger      *slog.Logger
}

// NewImporter constructs an importer. A nil prober skips length probing;
// videos are still imported with their file path when one is found.
func NewImporter(st store.Store, archiveRoot string, probe Prober, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{
		store:       st,
		archiveRoot: archiveRoot,
		probe:       probe,
		logger:      logger,
	}
}

// Summary reports what one import run accomplished.
type Summary struct {
	Authors           int
	Videos            int
	VideosWithLength  int
	VideosWithFile    int
	UserImported      bool
	Liked             int
	LikedMissing      int
	Bookmarked        int
	BookmarkedMissing int
	Following         int
	FollowingMissing  int
}

// Run imports the export in dependency order: authors, videos, user, liked
// marks, bookmarked marks, following, then metadata.
func (imp *Importer) Run(ctx context.Context, export *Export) (Summary, error) {
	var summary Summary

	if err := imp.importAuthors(ctx, export, &summary); err != nil {
		return summary, err
	}
	if err := imp.importVideos(ctx, export, &summary); err != nil {
		return summary, err
	}
	if err := imp.importUser(ctx, export, &summary); err != nil {
		return summary, err
	}
	if err := imp.importMarks(ctx, export, &summary); err != nil {
		return summary, err
	}
	if err := imp.importFollowing(ctx, export, &summary); err != nil {
		return summary, err
	}
	if err := imp.saveMetadata(ctx, export); err != nil {
		return summary, err
	}
	return summary, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (imp *Importer) importAuthors(ctx context.Context, export *Export, summary *Summary) error {
	for _, id := range sortedKeys(export.Authors) {
		if id == "" {
			continue
		}
		author := export.Authors[id]
		record := &store.AuthorRecord{
			ID:            id,
			Handles:       author.UniqueIDs,
			Nicknames:     author.Nicknames,
			FollowerCount: author.FollowerCount,
			HeartCount:    author.HeartCount,
			VideoCount:    author.VideoCount,
		}
		if err := imp.store.UpsertAuthor(ctx, record); err != nil {
			return fmt.Errorf("import author %s: %w", id, err)
		}
		summary.Authors++
	}
	imp.logger.Info("authors imported", "count", summary.Authors)
	return nil
}

func (imp *Importer) importVideos(ctx context.Context, export *Export, summary *Summary) error {
	for _, id := range sortedKeys(export.Videos) {
		if id == "" {
			continue
		}
		video := export.Videos[id]
		record := &store.VideoRecord{
			ID:          id,
			AuthorID:    video.AuthorID,
			CreateTime:  video.CreateTime,
			DiggCount:   video.DiggCount,
			PlayCount:   video.PlayCount,
			AudioID:     video.AudioID,
			Size:        video.Size.String(),
			Description: export.VideoDescriptions[id],
		}

		if path, ok := media.Locate(imp.archiveRoot, id); ok {
			record.FilePath = path
			summary.VideosWithFile++
			if imp.probe != nil {
				info, err := imp.probe(ctx, path)
				switch {
				case err != nil:
					imp.logger.Warn("probe failed", "video_id", id, "path", path, "error", err)
				case info.HasDuration():
					duration := info.DurationSeconds
					record.LengthSeconds = &duration
					summary.VideosWithLength++
				}
			}
		}

		if err := imp.store.UpsertVideo(ctx, record); err != nil {
			return fmt.Errorf("import video %s: %w", id, err)
		}
		summary.Videos++
	}
	imp.logger.Info("videos imported",
		"count", summary.Videos,
		"with_file", summary.VideosWithFile,
		"with_length", summary.VideosWithLength)
	return nil
}

func (imp *Importer) importUser(ctx context.Context, export *Export, summary *Summary) error {
	if export.User.ID == "" && export.User.UniqueID == "" {
		return nil
	}
	record := &store.UserRecord{
		ID:       export.User.ID,
		UniqueID: export.User.UniqueID,
		Nickname: export.User.Nickname,
	}
	if err := imp.store.UpsertUser(ctx, record); err != nil {
		return fmt.Errorf("import user: %w", err)
	}
	summary.UserImported = true
	imp.logger.Info("user imported", "handle", export.User.UniqueID)
	return nil
}

func (imp *Importer) importMarks(ctx context.Context, export *Export, summary *Summary) error {
	for _, id := range export.Likes.OfficialList {
		if id == "" {
			continue
		}
		found, err := imp.store.MarkLiked(ctx, id)
		if err != nil {
			return fmt.Errorf("mark liked %s: %w", id, err)
		}
		if found {
			summary.Liked++
		} else {
			summary.LikedMissing++
			imp.logger.Warn("liked video not in export", "video_id", id)
		}
	}

	for _, id := range export.Bookmarked.OfficialList {
		if id == "" {
			continue
		}
		found, err := imp.store.MarkBookmarked(ctx, id)
		if err != nil {
			return fmt.Errorf("mark bookmarked %s: %w", id, err)
		}
		if found {
			summary.Bookmarked++
		} else {
			summary.BookmarkedMissing++
			imp.logger.Warn("bookmarked video not in export", "video_id", id)
		}
	}

	imp.logger.Info("marks imported",
		"liked", summary.Liked,
		"bookmarked", summary.Bookmarked)
	return nil
}

func (imp *Importer) importFollowing(ctx context.Context, export *Export, summary *Summary) error {
	for _, id := range export.Following.OfficialAuthorList {
		if id == "" {
			continue
		}
		found, err := imp.store.AddFollowing(ctx, id)
		if err != nil {
			return fmt.Errorf("add following %s: %w", id, err)
		}
		if found {
			summary.Following++
		} else {
			summary.FollowingMissing++
			imp.logger.Warn("followed author not in export", "author_id", id)
		}
	}
	imp.logger.Info("following imported", "count", summary.Following)
	return nil
}

func (imp *Importer) saveMetadata(ctx context.Context, export *Export) error {
	entries := map[string]string{
		"schema_version": strconv.Itoa(export.SchemaVersion),
		"import_session": uuid.NewString(),
	}
	if !export.ModTime.IsZero() {
		entries["import_timestamp"] = strconv.FormatInt(export.ModTime.Unix(), 10)
	} else {
		entries["import_timestamp"] = strconv.FormatInt(time.Now().Unix(), 10)
	}
	for _, key := range sortedKeys(entries) {
		if err := imp.store.SetMetadata(ctx, key, entries[key]); err != nil {
			return fmt.Errorf("save metadata %s: %w", key, err)
		}
	}
	return nil
}
