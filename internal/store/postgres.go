package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"tikvault/internal/config"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS authors (
    id TEXT PRIMARY KEY,
    unique_ids JSONB,
    nicknames JSONB,
    follower_count BIGINT NOT NULL DEFAULT 0,
    heart_count BIGINT NOT NULL DEFAULT 0,
    video_count BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS videos (
    id TEXT PRIMARY KEY,
    author_id TEXT REFERENCES authors (id),
    create_time BIGINT NOT NULL DEFAULT 0,
    digg_count BIGINT NOT NULL DEFAULT 0,
    play_count BIGINT NOT NULL DEFAULT 0,
    audio_id TEXT,
    size TEXT,
    description TEXT,
    uploaded BOOLEAN NOT NULL DEFAULT FALSE,
    upload_date TIMESTAMPTZ,
    length_seconds DOUBLE PRECISION,
    file_path TEXT,
    is_liked BOOLEAN NOT NULL DEFAULT FALSE,
    is_bookmarked BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS following (
    author_id TEXT PRIMARY KEY REFERENCES authors (id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS archive_user (
    id TEXT PRIMARY KEY,
    unique_id TEXT,
    nickname TEXT
);

CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT
);

CREATE INDEX IF NOT EXISTS idx_videos_pending ON videos (uploaded, create_time);
`

// PostgresStore implements Store on a postgres database through the pgx
// stdlib driver.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the configured postgres database and applies the schema.
func OpenPostgres(cfg *config.Config) (*PostgresStore, error) {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Database.User, cfg.Database.Password),
		Host:   cfg.Database.Host + ":" + strconv.Itoa(cfg.Database.Port),
		Path:   "/" + cfg.Database.Name,
	}

	db, err := sql.Open("pgx", dsn.String())
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UpsertAuthor inserts or refreshes an author row.
func (s *PostgresStore) UpsertAuthor(ctx context.Context, author *AuthorRecord) error {
	if author == nil || author.ID == "" {
		return errors.New("author id is required")
	}
	handles, err := encodeStringList(author.Handles)
	if err != nil {
		return err
	}
	nicknames, err := encodeStringList(author.Nicknames)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO authors (id, unique_ids, nicknames, follower_count, heart_count, video_count)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (id) DO UPDATE SET
             unique_ids = excluded.unique_ids,
             nicknames = excluded.nicknames,
             follower_count = excluded.follower_count,
             heart_count = excluded.heart_count,
             video_count = excluded.video_count`,
		author.ID,
		handles,
		nicknames,
		author.FollowerCount,
		author.HeartCount,
		author.VideoCount,
	)
	if err != nil {
		return fmt.Errorf("upsert author: %w", err)
	}
	return nil
}

// UpsertVideo inserts or refreshes a video row. The uploaded flag and upload
// date are preserved on reimport.
func (s *PostgresStore) UpsertVideo(ctx context.Context, video *VideoRecord) error {
	if video == nil || video.ID == "" {
		return errors.New("video id is required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO videos (id, author_id, create_time, digg_count, play_count, audio_id, size, description, uploaded, length_seconds, file_path)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $10)
         ON CONFLICT (id) DO UPDATE SET
             author_id = excluded.author_id,
             create_time = excluded.create_time,
             digg_count = excluded.digg_count,
             play_count = excluded.play_count,
             audio_id = excluded.audio_id,
             size = excluded.size,
             description = excluded.description,
             length_seconds = excluded.length_seconds,
             file_path = excluded.file_path`,
		video.ID,
		nullableString(video.AuthorID),
		video.CreateTime,
		video.DiggCount,
		video.PlayCount,
		nullableString(video.AudioID),
		nullableString(video.Size),
		video.Description,
		nullableFloat(video.LengthSeconds),
		nullableString(video.FilePath),
	)
	if err != nil {
		return fmt.Errorf("upsert video: %w", err)
	}
	return nil
}

// UpsertUser inserts or refreshes the archive owner row.
func (s *PostgresStore) UpsertUser(ctx context.Context, user *UserRecord) error {
	if user == nil || user.ID == "" {
		return errors.New("user id is required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO archive_user (id, unique_id, nickname) VALUES ($1, $2, $3)
         ON CONFLICT (id) DO UPDATE SET unique_id = excluded.unique_id, nickname = excluded.nickname`,
		user.ID,
		nullableString(user.UniqueID),
		nullableString(user.Nickname),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// MarkLiked flags a video as liked and reports whether it existed.
func (s *PostgresStore) MarkLiked(ctx context.Context, videoID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE videos SET is_liked = TRUE WHERE id = $1`, videoID)
	if err != nil {
		return false, fmt.Errorf("mark liked: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// MarkBookmarked flags a video as bookmarked and reports whether it existed.
func (s *PostgresStore) MarkBookmarked(ctx context.Context, videoID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE videos SET is_bookmarked = TRUE WHERE id = $1`, videoID)
	if err != nil {
		return false, fmt.Errorf("mark bookmarked: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// AddFollowing records a followed author and reports whether the author existed.
func (s *PostgresStore) AddFollowing(ctx context.Context, authorID string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO following (author_id)
         SELECT id FROM authors WHERE id = $1
         ON CONFLICT (author_id) DO NOTHING`,
		authorID,
	)
	if err != nil {
		return false, fmt.Errorf("add following: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return true, nil
	}
	// Either the author is unknown or the row already existed.
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM authors WHERE id = $1`, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check author: %w", err)
	}
	return exists > 0, nil
}

// SetMetadata stores a key/value pair, replacing any previous value.
func (s *PostgresStore) SetMetadata(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO metadata (key, value) VALUES ($1, $2)
         ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key,
		value,
	)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}

// Metadata fetches a stored value, or empty when the key is absent.
func (s *PostgresStore) Metadata(ctx context.Context, key string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata: %w", err)
	}
	return value.String, nil
}

// GetAuthor fetches an author by identifier, or nil when absent.
func (s *PostgresStore) GetAuthor(ctx context.Context, id string) (*AuthorRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, unique_ids, nicknames, follower_count, heart_count, video_count FROM authors WHERE id = $1`,
		id,
	)
	author, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return author, nil
}

// GetVideo fetches a video by identifier, or nil when absent.
func (s *PostgresStore) GetVideo(ctx context.Context, id string) (*VideoRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// NextPending returns the oldest pending video matching the selection.
func (s *PostgresStore) NextPending(ctx context.Context, sel Selection) (*VideoRecord, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE uploaded = FALSE`
	var args []any
	arg := func(value any) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	switch sel.Source {
	case SourceLiked:
		query += ` AND is_liked = TRUE`
	case SourceBookmarked:
		query += ` AND is_bookmarked = TRUE`
	case SourceCreated:
		if sel.AuthorID != "" {
			query += ` AND author_id = ` + arg(sel.AuthorID)
		} else {
			query += ` AND author_id IN (SELECT id FROM archive_user)`
		}
	default:
		return nil, fmt.Errorf("unknown selection source %q", sel.Source)
	}

	if sel.MaxLengthSeconds > 0 {
		query += ` AND (length_seconds IS NULL OR length_seconds <= ` + arg(sel.MaxLengthSeconds) + `)`
	}

	query += ` ORDER BY create_time ASC LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next pending: %w", err)
	}
	return video, nil
}

// MarkUploaded flips a pending video to uploaded. Calling it again is a no-op.
func (s *PostgresStore) MarkUploaded(ctx context.Context, videoID string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE videos SET uploaded = TRUE, upload_date = $1 WHERE id = $2 AND uploaded = FALSE`,
		time.Now().UTC(),
		videoID,
	)
	if err != nil {
		return false, fmt.Errorf("mark uploaded: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats aggregates archive counts for status output.
func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Sources: make(map[Source]SourceStats)}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(1) FROM authors`, &stats.Authors},
		{`SELECT COUNT(1) FROM videos`, &stats.Videos},
		{`SELECT COUNT(1) FROM following`, &stats.Following},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return Stats{}, fmt.Errorf("archive stats: %w", err)
		}
	}

	sourceClauses := map[Source]string{
		SourceLiked:      `is_liked = TRUE`,
		SourceBookmarked: `is_bookmarked = TRUE`,
		SourceCreated:    `author_id IN (SELECT id FROM archive_user)`,
	}
	for source, clause := range sourceClauses {
		var pending, uploaded int
		query := `SELECT
            COUNT(CASE WHEN uploaded = FALSE THEN 1 END),
            COUNT(CASE WHEN uploaded = TRUE THEN 1 END)
            FROM videos WHERE ` + clause
		if err := s.db.QueryRowContext(ctx, query).Scan(&pending, &uploaded); err != nil {
			return Stats{}, fmt.Errorf("source stats: %w", err)
		}
		stats.Sources[source] = SourceStats{Pending: pending, Uploaded: uploaded}
	}
	return stats, nil
}
