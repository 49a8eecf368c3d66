package store

import (
	"strings"
	"time"
)

// Source selects which slice of the archive upload runs draw from.
type Source string

const (
	// SourceLiked selects videos carrying the liked marker.
	SourceLiked Source = "liked"
	// SourceBookmarked selects videos carrying the bookmarked marker.
	SourceBookmarked Source = "bookmarked"
	// SourceCreated selects videos belonging to an author, or to any
	// archive-owned author when no author id is given.
	SourceCreated Source = "created"
)

// ParseSource converts a string into a known Source.
func ParseSource(value string) (Source, bool) {
	normalized := Source(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case SourceLiked, SourceBookmarked, SourceCreated:
		return normalized, true
	}
	return "", false
}

// Selection narrows NextPending to a slice of the archive.
type Selection struct {
	Source Source
	// AuthorID applies only to SourceCreated.
	AuthorID string
	// MaxLengthSeconds excludes candidates with a known length above the
	// ceiling. Zero disables the filter; unknown lengths always pass.
	MaxLengthSeconds float64
}

// VideoRecord is one imported video. Created by bulk import, mutated only
// by MarkUploaded, never deleted.
type VideoRecord struct {
	ID            string
	AuthorID      string
	CreateTime    int64
	DiggCount     int64
	PlayCount     int64
	AudioID       string
	Size          string
	Description   string
	Uploaded      bool
	UploadDate    *time.Time
	LengthSeconds *float64
	FilePath      string
	Liked         bool
	Bookmarked    bool
}

// AuthorRecord is one imported creator. Handles and nicknames are ordered
// history, newest first in the export.
type AuthorRecord struct {
	ID            string
	Handles       []string
	Nicknames     []string
	FollowerCount int64
	HeartCount    int64
	VideoCount    int64
}

// Handle returns the most recent handle, or empty.
func (a *AuthorRecord) Handle() string {
	if a == nil || len(a.Handles) == 0 {
		return ""
	}
	return a.Handles[0]
}

// Nickname returns the most recent display name, falling back to the handle.
func (a *AuthorRecord) Nickname() string {
	if a == nil {
		return ""
	}
	if len(a.Nicknames) > 0 && a.Nicknames[0] != "" {
		return a.Nicknames[0]
	}
	return a.Handle()
}

// UserRecord identifies the archive owner.
type UserRecord struct {
	ID       string
	UniqueID string
	Nickname string
}

// SourceStats counts pending and uploaded videos for one source.
type SourceStats struct {
	Pending  int
	Uploaded int
}

// Stats aggregates archive counts for status output.
type Stats struct {
	Authors   int
	Videos    int
	Following int
	Sources   map[Source]SourceStats
}
