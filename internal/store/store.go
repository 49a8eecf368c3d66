package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tikvault/internal/config"
)

// Store is the storage surface the importer and uploader operate against.
type Store interface {
	// Import upserts. Reimporting the same export is a no-op beyond
	// refreshing counters; the uploaded flag is never reset.
	UpsertAuthor(ctx context.Context, author *AuthorRecord) error
	UpsertVideo(ctx context.Context, video *VideoRecord) error
	UpsertUser(ctx context.Context, user *UserRecord) error
	// MarkLiked and MarkBookmarked flag an already-imported video and
	// report whether the video existed.
	MarkLiked(ctx context.Context, videoID string) (bool, error)
	MarkBookmarked(ctx context.Context, videoID string) (bool, error)
	// AddFollowing records a followed author and reports whether the
	// author existed.
	AddFollowing(ctx context.Context, authorID string) (bool, error)
	SetMetadata(ctx context.Context, key, value string) error
	Metadata(ctx context.Context, key string) (string, error)

	GetAuthor(ctx context.Context, id string) (*AuthorRecord, error)
	GetVideo(ctx context.Context, id string) (*VideoRecord, error)

	// NextPending returns the pending video with the smallest createTime
	// matching the selection, or nil when nothing matches.
	NextPending(ctx context.Context, sel Selection) (*VideoRecord, error)
	// MarkUploaded flips a video to uploaded and stamps the upload time.
	// Idempotent: the first call returns true, later calls return false.
	MarkUploaded(ctx context.Context, videoID string) (bool, error)

	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Open connects to the configured backend and applies migrations.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Database.Backend {
	case config.BackendSQLite:
		return OpenSQLite(cfg)
	case config.BackendPostgres:
		return OpenPostgres(cfg)
	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Database.Backend)
	}
}

func encodeStringList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(encoded), nil
}

func decodeStringList(value sql.NullString) []string {
	if !value.Valid || value.String == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(value.String), &values); err != nil {
		// Legacy rows may hold a bare string instead of a JSON array.
		return []string{value.String}
	}
	return values
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

const videoColumns = "id, author_id, create_time, digg_count, play_count, audio_id, size, description, uploaded, upload_date, length_seconds, file_path, is_liked, is_bookmarked"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(scanner rowScanner) (*VideoRecord, error) {
	var (
		id            string
		authorID      sql.NullString
		createTime    sql.NullInt64
		diggCount     sql.NullInt64
		playCount     sql.NullInt64
		audioID       sql.NullString
		size          sql.NullString
		description   sql.NullString
		uploaded      bool
		uploadDateRaw any
		lengthSeconds sql.NullFloat64
		filePath      sql.NullString
		liked         bool
		bookmarked    bool
	)

	if err := scanner.Scan(
		&id,
		&authorID,
		&createTime,
		&diggCount,
		&playCount,
		&audioID,
		&size,
		&description,
		&uploaded,
		&uploadDateRaw,
		&lengthSeconds,
		&filePath,
		&liked,
		&bookmarked,
	); err != nil {
		return nil, err
	}

	video := &VideoRecord{
		ID:          id,
		AuthorID:    authorID.String,
		CreateTime:  createTime.Int64,
		DiggCount:   diggCount.Int64,
		PlayCount:   playCount.Int64,
		AudioID:     audioID.String,
		Size:        size.String,
		Description: description.String,
		Uploaded:    uploaded,
		FilePath:    filePath.String,
		Liked:       liked,
		Bookmarked:  bookmarked,
	}
	if lengthSeconds.Valid {
		v := lengthSeconds.Float64
		video.LengthSeconds = &v
	}
	if parsed, ok := parseUploadDate(uploadDateRaw); ok {
		video.UploadDate = &parsed
	}
	return video, nil
}

// parseUploadDate handles both storage shapes: sqlite holds an RFC3339 text
// column, postgres hands back a time.Time.
func parseUploadDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case string:
		if v == "" {
			return time.Time{}, false
		}
		if t, err := parseTimeString(v); err == nil {
			return t, true
		}
	case []byte:
		return parseUploadDate(string(v))
	}
	return time.Time{}, false
}

func scanAuthor(scanner rowScanner) (*AuthorRecord, error) {
	var (
		id            string
		handles       sql.NullString
		nicknames     sql.NullString
		followerCount sql.NullInt64
		heartCount    sql.NullInt64
		videoCount    sql.NullInt64
	)
	if err := scanner.Scan(&id, &handles, &nicknames, &followerCount, &heartCount, &videoCount); err != nil {
		return nil, err
	}
	return &AuthorRecord{
		ID:            id,
		Handles:       decodeStringList(handles),
		Nicknames:     decodeStringList(nicknames),
		FollowerCount: followerCount.Int64,
		HeartCount:    heartCount.Int64,
		VideoCount:    videoCount.Int64,
	}, nil
}

func parseTimeString(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
