package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and lock file configuration.
type Paths struct {
	ArchiveDir string `toml:"archive_dir"`
	LogDir     string `toml:"log_dir"`
	LockFile   string `toml:"lock_file"`
}

// Database selects and configures the storage backend.
type Database struct {
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Name       string `toml:"name"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
}

// Bluesky contains credentials and connection settings for the publish API.
type Bluesky struct {
	Host           string `toml:"host"`
	Identifier     string `toml:"identifier"`
	Password       string `toml:"password"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLM contains settings for optional hashtag refinement.
type LLM struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	MaxTags        int    `toml:"max_tags"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Upload controls candidate selection for publish runs.
type Upload struct {
	// Source is one of "liked", "bookmarked", or "created".
	Source string `toml:"source"`
	// AuthorID narrows "created" selection to a single author. When empty,
	// any author recorded in the archive user table qualifies.
	AuthorID string `toml:"author_id"`
	// MaxVideoLength excludes candidates longer than this many seconds.
	// Zero disables the filter. Records without a known length always pass.
	MaxVideoLength float64 `toml:"max_video_length"`
	// FFprobeBinary overrides the ffprobe executable used for media probing.
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tikvault.
//
// Configuration sections by subsystem:
//   - Paths: archive root, log directory, upload lock file
//   - Database: sqlite or postgres storage backend
//   - Bluesky: publish API host and credentials
//   - LLM: optional hashtag refinement connection settings
//   - Upload: candidate selection source and filters
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Database Database `toml:"database"`
	Bluesky  Bluesky  `toml:"bluesky"`
	LLM      LLM      `toml:"llm"`
	Upload   Upload   `toml:"upload"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tikvault/config.toml")
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ against the home directory and makes the
// path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	if env := strings.TrimSpace(os.Getenv("TIKVAULT_CONFIG")); env != "" {
		return resolveConfigPath(env)
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tikvault.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.ArchiveDir,
		&c.Paths.LogDir,
		&c.Paths.LockFile,
		&c.Database.SQLitePath,
	} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Database.Backend = strings.ToLower(strings.TrimSpace(c.Database.Backend))
	c.Upload.Source = strings.ToLower(strings.TrimSpace(c.Upload.Source))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Bluesky.Password == "" {
		c.Bluesky.Password = strings.TrimSpace(os.Getenv("BLUESKY_PASSWORD"))
	}
	if c.Bluesky.Identifier == "" {
		c.Bluesky.Identifier = strings.TrimSpace(os.Getenv("BLUESKY_IDENTIFIER"))
	}
	if c.Database.Password == "" {
		c.Database.Password = strings.TrimSpace(os.Getenv("TIKVAULT_DB_PASSWORD"))
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = strings.TrimSpace(os.Getenv("TIKVAULT_LLM_API_KEY"))
	}
	return nil
}

// EnsureDirectories creates the directories the tool writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Database.Backend == BackendSQLite && c.Database.SQLitePath != "" {
		dirs = append(dirs, filepath.Dir(c.Database.SQLitePath))
	}
	if c.Paths.LockFile != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.LockFile))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}
