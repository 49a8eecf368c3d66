package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable for any command.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateBluesky checks the publish credentials. Only the upload command
// requires them, so this runs separately from Validate.
func (c *Config) ValidateBluesky() error {
	if strings.TrimSpace(c.Bluesky.Identifier) == "" {
		return errors.New("bluesky.identifier is required. Set it in the config or export BLUESKY_IDENTIFIER")
	}
	if strings.TrimSpace(c.Bluesky.Password) == "" {
		return errors.New("bluesky.password is required. Set it in the config or export BLUESKY_PASSWORD")
	}
	if strings.TrimSpace(c.Bluesky.Host) == "" {
		return errors.New("bluesky.host must be set")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Backend {
	case BackendSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("database.sqlite_path must be set when database.backend is sqlite")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Database.Host) == "" {
			return errors.New("database.host must be set when database.backend is postgres")
		}
		if strings.TrimSpace(c.Database.Name) == "" {
			return errors.New("database.name must be set when database.backend is postgres")
		}
		if strings.TrimSpace(c.Database.User) == "" {
			return errors.New("database.user must be set when database.backend is postgres")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("database.port %d is out of range", c.Database.Port)
		}
	default:
		return fmt.Errorf("database.backend must be %q or %q, got %q", BackendSQLite, BackendPostgres, c.Database.Backend)
	}
	return nil
}

func (c *Config) validateUpload() error {
	switch c.Upload.Source {
	case "liked", "bookmarked", "created":
	default:
		return fmt.Errorf("upload.source must be one of liked, bookmarked, created, got %q", c.Upload.Source)
	}
	if c.Upload.MaxVideoLength < 0 {
		return errors.New("upload.max_video_length must not be negative")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.LLM.Enabled {
		return nil
	}
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm.api_key must be set when llm.enabled is true. Set it in the config or export TIKVAULT_LLM_API_KEY")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model must be set when llm.enabled is true")
	}
	if c.LLM.MaxTags <= 0 {
		return errors.New("llm.max_tags must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
