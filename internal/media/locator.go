package media

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// candidateDirs are the known video locations inside an export, relative to
// the archive root, in the order they are probed.
var candidateDirs = []string{
	filepath.Join("data", "videos"),
	"videos",
	filepath.Join("data", "Likes", "videos"),
	filepath.Join("data", "Favorites", "videos"),
	filepath.Join("data", "Followed", "videos"),
}

// Locate returns the path of the video with the given id inside the archive
// root, or false when no file exists. Candidate directories are checked
// first; a recursive walk of the whole archive is the last resort.
func Locate(archiveRoot, videoID string) (string, bool) {
	if archiveRoot == "" || videoID == "" {
		return "", false
	}
	filename := videoID + ".mp4"

	for _, dir := range candidateDirs {
		candidate := filepath.Join(archiveRoot, dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	var found string
	walkErr := filepath.WalkDir(archiveRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.IsDir() && entry.Name() == filename {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil || found == "" {
		return "", false
	}
	return found, true
}

// Resolve turns a stored file path into an absolute path under the archive
// root and reports whether the file exists. Absolute stored paths are used
// as-is.
func Resolve(archiveRoot, storedPath string) (string, bool) {
	trimmed := strings.TrimSpace(storedPath)
	if trimmed == "" {
		return "", false
	}
	path := trimmed
	if !filepath.IsAbs(path) {
		path = filepath.Join(archiveRoot, path)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path, false
	}
	return path, true
}
