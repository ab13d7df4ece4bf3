package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GatewayConfig holds connection settings for the remote data service.
type GatewayConfig struct {
	// URL is the root URL of the backend project
	// (e.g., https://abcdefgh.supabase.co).
	URL string `mapstructure:"url" yaml:"url"`

	// AnonKey is the public API key sent with every request.
	AnonKey string `mapstructure:"anon_key" yaml:"anon_key"`

	// Offline switches the client to the local sqlite gateway.
	Offline bool `mapstructure:"offline" yaml:"offline"`

	// OfflinePath is the sqlite database path used in offline mode.
	OfflinePath string `mapstructure:"offline_path" yaml:"offline_path"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// PageSize is the list page size used for every paginated query.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// RefreshIntervalSec is how often stale cache entries are refetched.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Gateway GatewayConfig `mapstructure:"gateway" yaml:"gateway"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/demaze/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "demaze", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Gateway: GatewayConfig{
			Offline:     true,
			OfflinePath: filepath.Join(filepath.Dir(DefaultConfigPath()), "demaze.db"),
		},
		Display: DisplayConfig{
			Theme:              "default",
			PageSize:           5,
			RefreshIntervalSec: 60,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("display.theme", "default")
	v.SetDefault("display.page_size", 5)
	v.SetDefault("display.refresh_interval_sec", 60)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// An unset remote URL means there is nothing to connect to; fall back
	// to the local gateway rather than failing at startup.
	if cfg.Gateway.URL == "" {
		cfg.Gateway.Offline = true
	}
	if cfg.Gateway.OfflinePath == "" {
		cfg.Gateway.OfflinePath = filepath.Join(filepath.Dir(path), "demaze.db")
	}
	if cfg.Display.PageSize <= 0 {
		cfg.Display.PageSize = 5
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("gateway", cfg.Gateway)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
