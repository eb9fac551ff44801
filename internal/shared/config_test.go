package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Catalog.BaseURL != "http://localhost:3000" {
			t.Errorf("expected catalog base URL http://localhost:3000, got %s", config.Catalog.BaseURL)
		}

		if config.Catalog.Timeout.Duration != 0 {
			t.Errorf("expected no catalog timeout, got %s", config.Catalog.Timeout)
		}

		if config.Database.Path != "./rentx.db" {
			t.Errorf("expected database path ./rentx.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "127.0.0.1:3000" {
			t.Errorf("expected server addr 127.0.0.1:3000, got %s", config.Server.Addr())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Catalog.BaseURL != DefaultConfig().Catalog.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[catalog]
base_url = "http://rentals.internal:4000"
timeout = "15s"

[server]
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Catalog.BaseURL != "http://rentals.internal:4000" {
			t.Errorf("expected base URL http://rentals.internal:4000, got %s", config.Catalog.BaseURL)
		}

		if config.Catalog.Timeout.Duration != 15*time.Second {
			t.Errorf("expected timeout 15s, got %s", config.Catalog.Timeout)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Database.Path != "./rentx.db" {
			t.Errorf("expected default database path to survive partial config, got %s", config.Database.Path)
		}
	})

	t.Run("LoadConfig Rejects Invalid Values", func(t *testing.T) {
		tt := []struct {
			name string
			body string
		}{
			{name: "relative base url", body: "[catalog]\nbase_url = \"localhost\"\n"},
			{name: "bad log level", body: "[log]\nlevel = \"chatty\"\n"},
			{name: "port out of range", body: "[server]\nport = 70000\n"},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tc.body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if err == nil {
					t.Fatal("expected error for invalid config")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig Bad Duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[catalog]\ntimeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for unparseable duration")
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
