package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the client's settings, read from
// $XDG_CONFIG_HOME/cowork/config.yaml with COWORK_* env overrides.
type Config struct {
	ServerURL string
	LogLevel  string
	DataDir   string
}

// Load reads the config file (if present), applies env overrides and
// defaults, and ensures the data directory exists.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "cowork"))
	}
	v.SetEnvPrefix("cowork")
	v.AutomaticEnv()

	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", defaultDataDir())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		ServerURL: v.GetString("server_url"),
		LogLevel:  v.GetString("log_level"),
		DataDir:   v.GetString("data_dir"),
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SessionPath is the durable session slot location
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.db")
}

// LogPath is the log file location; the terminal itself belongs to the UI
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "cowork.log")
}

// defaultDataDir follows XDG with a home-directory fallback
func defaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "cowork")
}
