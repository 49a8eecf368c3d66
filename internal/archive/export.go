package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Export is the decoded facts.json document. Map keys are the TikTok
// numeric ids, kept as strings throughout.
type Export struct {
	SchemaVersion     int               `json:"schemaVersion"`
	Authors           map[string]Author `json:"authors"`
	Videos            map[string]Video  `json:"videos"`
	VideoDescriptions map[string]string `json:"videoDescriptions"`
	Likes             VideoList         `json:"likes"`
	Bookmarked        VideoList         `json:"bookmarked"`
	Following         AuthorList        `json:"following"`
	User              User              `json:"user"`

	// ModTime is the facts.json file modification time, recorded as the
	// import timestamp. Zero when the export was not read from disk.
	ModTime time.Time `json:"-"`
}

// Author is one creator entry. Handle and nickname histories are ordered
// newest first.
type Author struct {
	UniqueIDs     []string `json:"uniqueIds"`
	Nicknames     []string `json:"nicknames"`
	FollowerCount int64    `json:"followerCount"`
	HeartCount    int64    `json:"heartCount"`
	VideoCount    int64    `json:"videoCount"`
}

// Video is one video entry. The description lives in the separate
// videoDescriptions map.
type Video struct {
	AuthorID   string      `json:"authorId"`
	CreateTime int64       `json:"createTime"`
	DiggCount  int64       `json:"diggCount"`
	PlayCount  int64       `json:"playCount"`
	AudioID    string      `json:"audioId"`
	Size       json.Number `json:"size"`
}

// VideoList wraps the official id list for likes and bookmarks.
type VideoList struct {
	OfficialList []string `json:"officialList"`
}

// AuthorList wraps the official author id list for following.
type AuthorList struct {
	OfficialAuthorList []string `json:"officialAuthorList"`
}

// User identifies the archive owner.
type User struct {
	ID       string `json:"id"`
	UniqueID string `json:"uniqueId"`
	Nickname string `json:"nickname"`
}

// DefaultFactsPath returns the facts.json location inside an archive root.
func DefaultFactsPath(archiveRoot string) string {
	return filepath.Join(archiveRoot, "data", ".appdata", "facts.json")
}

// LoadExport reads and decodes a facts.json file.
func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("decode export %s: %w", path, err)
	}
	if info, err := os.Stat(path); err == nil {
		export.ModTime = info.ModTime()
	}
	return &export, nil
}
