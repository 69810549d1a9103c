package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.CacheDir == "" {
			t.Error("Expected CacheDir to have a default value")
		}
		if cfg.CacheMaxSizeMB != 512 {
			t.Errorf("Expected CacheMaxSizeMB to be 512, got %d", cfg.CacheMaxSizeMB)
		}
		if cfg.CacheTTLHours != 24 {
			t.Errorf("Expected CacheTTLHours to be 24, got %d", cfg.CacheTTLHours)
		}
		if !cfg.CacheEnabled {
			t.Error("Expected CacheEnabled to default to true")
		}
		if !cfg.ParallelScan {
			t.Error("Expected ParallelScan to default to true")
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{
			CacheDir:       "/tmp/custom-cache",
			CacheMaxSizeMB: 64,
			CacheTTLHours:  6,
		}
		processConfigDefaults(&cfg)

		if cfg.CacheDir != "/tmp/custom-cache" {
			t.Errorf("Expected CacheDir to stay custom, got %s", cfg.CacheDir)
		}
		if cfg.CacheMaxSizeMB != 64 {
			t.Errorf("Expected CacheMaxSizeMB to stay 64, got %d", cfg.CacheMaxSizeMB)
		}
		if cfg.CacheTTLHours != 6 {
			t.Errorf("Expected CacheTTLHours to stay 6, got %d", cfg.CacheTTLHours)
		}
	})

	t.Run("boolean settings read from viper", func(t *testing.T) {
		viper.Reset()
		viper.Set("CACHE_ENABLED", "false")
		viper.Set("PARALLEL_SCAN", "false")
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.CacheEnabled {
			t.Error("Expected CacheEnabled to be false")
		}
		if cfg.ParallelScan {
			t.Error("Expected ParallelScan to be false")
		}
	})

	t.Run("unparseable boolean falls back to default", func(t *testing.T) {
		viper.Reset()
		viper.Set("CACHE_ENABLED", "maybe")
		cfg := Config{}
		processConfigDefaults(&cfg)

		if !cfg.CacheEnabled {
			t.Error("Expected CacheEnabled to fall back to true")
		}
	})
}

func TestValidateAndEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing client dir setting", func(t *testing.T) {
		cfg := Config{CacheDir: filepath.Join(tmpDir, "cache")}
		err := validateAndEnsureDirectories(&cfg)
		if err == nil {
			t.Error("Expected error for missing CLIENT_DIR")
		}
	})

	t.Run("nonexistent client dir", func(t *testing.T) {
		cfg := Config{
			ClientDir: filepath.Join(tmpDir, "nope"),
			CacheDir:  filepath.Join(tmpDir, "cache"),
		}
		err := validateAndEnsureDirectories(&cfg)
		if err == nil {
			t.Error("Expected error for nonexistent CLIENT_DIR")
		}
		if err != nil && !strings.Contains(err.Error(), "CLIENT_DIR") {
			t.Errorf("Error does not name the setting: %v", err)
		}
	})

	t.Run("nonexistent server dir", func(t *testing.T) {
		cfg := Config{
			ClientDir: tmpDir,
			ServerDir: filepath.Join(tmpDir, "nope"),
			CacheDir:  filepath.Join(tmpDir, "cache"),
		}
		if err := validateAndEnsureDirectories(&cfg); err == nil {
			t.Error("Expected error for nonexistent SERVER_DIR")
		}
	})

	t.Run("server dir is optional", func(t *testing.T) {
		cfg := Config{
			ClientDir: tmpDir,
			CacheDir:  filepath.Join(tmpDir, "cache"),
		}
		if err := validateAndEnsureDirectories(&cfg); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	})

	t.Run("creates cache directory", func(t *testing.T) {
		cacheDir := filepath.Join(tmpDir, "fresh-cache")
		cfg := Config{ClientDir: tmpDir, CacheDir: cacheDir}
		if err := validateAndEnsureDirectories(&cfg); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !dirExists(cacheDir) {
			t.Error("Cache directory was not created")
		}
	})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
