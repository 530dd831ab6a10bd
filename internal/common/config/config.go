// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	API      APIConfig               `mapstructure:"api"`
	Session  SessionConfig           `mapstructure:"session"`
	Database DatabaseConfig          `mapstructure:"database"`
	Drafts   DraftsConfig            `mapstructure:"drafts"`
	Uploads  UploadsConfig           `mapstructure:"uploads"`
	Screens  map[string]ScreenConfig `mapstructure:"screens"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
	Bridge   BridgeConfig            `mapstructure:"bridge"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig holds settings for the remote administration backend.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds, per call
	UserAgent      string `mapstructure:"user_agent"`
	Locale         string `mapstructure:"locale"` // "en" or "ar"
}

// SessionConfig holds settings for the persisted login session.
type SessionConfig struct {
	Dir string `mapstructure:"dir"` // directory holding the session file
}

// SessionKey derives the storage key for the persisted session from the
// app name/version pair, matching what the backend issues tokens against.
func SessionKey(app AppConfig) string {
	return fmt.Sprintf("%s_%s_session", app.Name, app.Version)
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// DraftsConfig holds settings for the local draft image cache.
type DraftsConfig struct {
	Backend string `mapstructure:"backend"` // "file", "redis" or "memory"
	Path    string `mapstructure:"path"`    // blob path for the file backend
	TTL     int    `mapstructure:"ttl"`     // seconds, redis backend only
}

// UploadsConfig holds settings for image handling in the option composer.
type UploadsConfig struct {
	MaxImages      int `mapstructure:"max_images"`
	ThumbnailWidth int `mapstructure:"thumbnail_width"` // pixels, preview downscale
}

// ScreenConfig holds the core settings applicable to every console screen.
type ScreenConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	PageSize       int  `mapstructure:"page_size"`
	DebounceMillis int  `mapstructure:"debounce_ms"` // search-driven fetches
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds settings for the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// BridgeConfig holds settings for the local screen-service API the console
// front end connects to.
type BridgeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}
