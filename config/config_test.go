package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Extract.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Extract.Workers)
	}
	if cfg.Parse.CacheSize != 1000 {
		t.Errorf("expected CacheSize=1000, got %d", cfg.Parse.CacheSize)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected Format=json, got %s", cfg.Output.Format)
	}
	if cfg.Output.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Output.TopK)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "apidoc.yaml")

	content := `
extract:
  workers: 8
output:
  format: text
  top_k: 3
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Extract.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Extract.Workers)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected Format=text, got %s", cfg.Output.Format)
	}
	if cfg.Output.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Output.TopK)
	}
	if cfg.Parse.CacheSize != 1000 {
		t.Errorf("unset values should keep defaults, got CacheSize=%d", cfg.Parse.CacheSize)
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "apidoc.toml")

	content := `
[extract]
workers = 2
excludes = ["**/gen/**"]

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Extract.Workers != 2 {
		t.Errorf("expected Workers=2, got %d", cfg.Extract.Workers)
	}
	if len(cfg.Extract.Excludes) != 1 || cfg.Extract.Excludes[0] != "**/gen/**" {
		t.Errorf("unexpected excludes %v", cfg.Extract.Excludes)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"zero workers", "apidoc.yaml", "extract:\n  workers: 0\n"},
		{"unknown format", "apidoc.yaml", "output:\n  format: xml\n"},
		{"malformed toml", "apidoc.toml", "[extract\nworkers = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDataDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, DataDir, "config.yaml")

	content := `
parse:
  cache_size: 50
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Parse.CacheSize != 50 {
		t.Errorf("expected CacheSize=50, got %d", cfg.Parse.CacheSize)
	}
}

func TestLoadFromDir_Defaults(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Extract.Workers != DefaultConfig().Extract.Workers {
		t.Error("expected defaults when no config file exists")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"apidoc.yaml", "apidoc.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.Output.TopK = 42

			if err := cfg.Save(path); err != nil {
				t.Fatalf("save: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if loaded.Output.TopK != 42 {
				t.Errorf("expected TopK=42, got %d", loaded.Output.TopK)
			}
		})
	}
}

func TestDBPath(t *testing.T) {
	path := DBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".apidoc", "docs.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
