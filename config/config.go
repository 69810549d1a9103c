package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration. Values are loaded by Viper
// from a .env file and/or environment variables.
type Config struct {
	// ClientDir is the root of the client installation (authoritative side).
	ClientDir string `mapstructure:"CLIENT_DIR"`
	// ServerDir is the root of the server installation (reconciliation target).
	ServerDir string `mapstructure:"SERVER_DIR"`
	// CacheDir is where the jar metadata cache and the history database live.
	CacheDir string `mapstructure:"CACHE_DIR"`
	// CacheEnabled gates whether the jar cache is constructed at all.
	CacheEnabled bool `mapstructure:"CACHE_ENABLED"`
	// CacheMaxSizeMB bounds the jar cache size in megabytes.
	CacheMaxSizeMB int `mapstructure:"CACHE_MAX_SIZE_MB"`
	// CacheTTLHours ages jar cache entries out.
	CacheTTLHours int `mapstructure:"CACHE_TTL_HOURS"`
	// ParallelScan toggles concurrent jar downloads during scans.
	ParallelScan bool `mapstructure:"PARALLEL_SCAN"`
	// ProfilePath points at a TOML compatibility profile. Empty means the
	// default profile under the cache directory.
	ProfilePath string `mapstructure:"COMPAT_PROFILE"`
	// DatabasePath is derived, not read from the environment.
	DatabasePath string `mapstructure:"-"`
}

// LoadConfig reads configuration from a .env file in path and from the
// environment. Invalid settings are reported here, before any scan begins.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("fatal error config file: %w", err)
		}
	}
	viper.AutomaticEnv()

	for _, key := range []string{
		"CLIENT_DIR", "SERVER_DIR", "CACHE_DIR",
		"CACHE_ENABLED", "CACHE_MAX_SIZE_MB", "CACHE_TTL_HOURS",
		"PARALLEL_SCAN", "COMPAT_PROFILE",
	} {
		if err := viper.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("unable to bind %s env var: %w", key, err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	processConfigDefaults(&config)
	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}

	config.DatabasePath = filepath.Join(config.CacheDir, "mc-link.db")
	return config, nil
}

// processConfigDefaults fills unset values with their defaults. Boolean
// settings are read back from Viper as strings because env parsing does not
// distinguish "unset" from "false".
func processConfigDefaults(config *Config) {
	if config.CacheDir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			config.CacheDir = filepath.Join(base, "mc-link")
		} else {
			config.CacheDir = ".mc-link-cache"
		}
	}
	if config.CacheMaxSizeMB <= 0 {
		config.CacheMaxSizeMB = 512
	}
	if config.CacheTTLHours <= 0 {
		config.CacheTTLHours = 24
	}
	config.CacheEnabled = boolSetting("CACHE_ENABLED", true)
	config.ParallelScan = boolSetting("PARALLEL_SCAN", true)
}

func boolSetting(key string, defaultValue bool) bool {
	raw := viper.GetString(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// validateAndEnsureDirectories checks required settings and creates the
// cache directory. Installation roots must already exist; creating them
// here would mask a mistyped path.
func validateAndEnsureDirectories(config *Config) error {
	if config.ClientDir == "" {
		return fmt.Errorf("CLIENT_DIR is required")
	}
	if info, err := os.Stat(config.ClientDir); err != nil {
		return fmt.Errorf("CLIENT_DIR %s is not usable: %w", config.ClientDir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("CLIENT_DIR %s is not a directory", config.ClientDir)
	}

	if config.ServerDir != "" {
		if info, err := os.Stat(config.ServerDir); err != nil {
			return fmt.Errorf("SERVER_DIR %s is not usable: %w", config.ServerDir, err)
		} else if !info.IsDir() {
			return fmt.Errorf("SERVER_DIR %s is not a directory", config.ServerDir)
		}
	}

	if err := os.MkdirAll(config.CacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", config.CacheDir, err)
	}
	return nil
}
