package config

const (
	// BackendSQLite selects the embedded sqlite storage backend.
	BackendSQLite = "sqlite"
	// BackendPostgres selects the postgres storage backend.
	BackendPostgres = "postgres"

	defaultLogDir         = "~/.local/share/tikvault/logs"
	defaultLockFile       = "~/.local/share/tikvault/upload.lock"
	defaultSQLitePath     = "~/.local/share/tikvault/tikvault.db"
	defaultPostgresPort   = 5432
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultBlueskyHost    = "https://bsky.social"
	defaultBlueskyTimeout = 120
	defaultLLMBaseURL     = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMMaxTags     = 5
	defaultLLMTimeout     = 30
	defaultUploadSource   = "liked"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			LockFile: defaultLockFile,
		},
		Database: Database{
			Backend:    BackendSQLite,
			SQLitePath: defaultSQLitePath,
			Port:       defaultPostgresPort,
		},
		Bluesky: Bluesky{
			Host:           defaultBlueskyHost,
			TimeoutSeconds: defaultBlueskyTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			MaxTags:        defaultLLMMaxTags,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Upload: Upload{
			Source: defaultUploadSource,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
