// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like CONSOLE_API_BASE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when absent
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// Direct override if config values are still empty after expansion
func overrideEmptyConfig(cfg *Config) {
	if cfg.API.BaseURL == "" {
		if val := os.Getenv("CONSOLE_API_BASE_URL"); val != "" {
			cfg.API.BaseURL = val
		}
	}
	if cfg.Session.Dir == "" {
		if val := os.Getenv("CONSOLE_SESSION_DIR"); val != "" {
			cfg.Session.Dir = val
		}
	}
	if cfg.Database.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Database.Redis.Address = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "partner-console"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0"
	}

	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30000
	}
	if cfg.API.RequestTimeout == 0 {
		cfg.API.RequestTimeout = 30000
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = fmt.Sprintf("%s/%s", cfg.App.Name, cfg.App.Version)
	}
	if cfg.API.Locale == "" {
		cfg.API.Locale = "en"
	}

	if cfg.Session.Dir == "" {
		cfg.Session.Dir = "."
	}

	if cfg.Drafts.Backend == "" {
		cfg.Drafts.Backend = "file"
	}
	if cfg.Drafts.Path == "" {
		cfg.Drafts.Path = "drafts.json"
	}
	if cfg.Drafts.TTL == 0 {
		cfg.Drafts.TTL = 7 * 24 * 3600
	}

	if cfg.Uploads.MaxImages == 0 {
		cfg.Uploads.MaxImages = 8
	}
	if cfg.Uploads.ThumbnailWidth == 0 {
		cfg.Uploads.ThumbnailWidth = 320
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9106"
	}
	if cfg.Bridge.Address == "" {
		cfg.Bridge.Address = "127.0.0.1:9107"
	}

	for key, screen := range cfg.Screens {
		if screen.PageSize == 0 {
			screen.PageSize = 20
		}
		if screen.DebounceMillis == 0 {
			screen.DebounceMillis = 300
		}
		cfg.Screens[key] = screen
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if cfg.Drafts.Backend == "redis" && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required for the redis draft backend")
	}

	switch cfg.Drafts.Backend {
	case "file", "redis", "memory":
	default:
		return fmt.Errorf("drafts.backend must be one of file, redis, memory")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetScreenConfig retrieves screen-specific configuration with fallback to defaults
func GetScreenConfig(cfg *Config, screenName string) ScreenConfig {
	if screen, exists := cfg.Screens[screenName]; exists {
		return screen
	}

	return ScreenConfig{
		Enabled:        true,
		PageSize:       20,
		DebounceMillis: 300,
	}
}

// IsScreenEnabled checks if a specific screen is enabled
func IsScreenEnabled(cfg *Config, screenName string) bool {
	if screen, exists := cfg.Screens[screenName]; exists {
		return screen.Enabled
	}
	return true
}
