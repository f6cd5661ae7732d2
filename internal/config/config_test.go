package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.Port != 8080 {
		t.Fatalf("default port: got %d", cfg.API.Port)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("default model: got %q", cfg.LLM.Model)
	}
	if cfg.Provider.BaseURL != "https://www.alphavantage.co/query" {
		t.Fatalf("default provider url: got %q", cfg.Provider.BaseURL)
	}
	if cfg.Store.Path == "" {
		t.Fatal("store path must have a default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
provider:
  api_key: file-key
api:
  port: 9999
news:
  sources:
    - name: test feed
      url: http://example.com/rss
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.APIKey != "file-key" {
		t.Fatalf("provider key: got %q", cfg.Provider.APIKey)
	}
	if cfg.API.Port != 9999 {
		t.Fatalf("port: got %d", cfg.API.Port)
	}
	if len(cfg.News.Sources) != 1 || cfg.News.Sources[0].Name != "test feed" {
		t.Fatalf("news sources: %+v", cfg.News.Sources)
	}
	// Defaults still apply for unset keys.
	if cfg.API.Host != "0.0.0.0" {
		t.Fatalf("host default: got %q", cfg.API.Host)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("FOREXBOT_PROVIDER_API_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.APIKey != "env-key" {
		t.Fatalf("env override: got %q", cfg.Provider.APIKey)
	}
}
