package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := defaults()
	if c.Port != "4567" {
		t.Errorf("default port = %q, want 4567", c.Port)
	}
	if c.ResultsPerPage != 20 {
		t.Errorf("default results per page = %d, want 20", c.ResultsPerPage)
	}
	if c.SecureCookies {
		t.Error("secure cookies should default to off")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "port: \"9000\"\nresults_per_page: 50\nallowed_origins:\n  - https://forum.example\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	old := App
	defer func() { App = old }()
	App = defaults()

	Load(path)

	if App.Port != "9000" {
		t.Errorf("port = %q, want 9000", App.Port)
	}
	if App.ResultsPerPage != 50 {
		t.Errorf("results per page = %d, want 50", App.ResultsPerPage)
	}
	if len(App.AllowedOrigins) != 1 || App.AllowedOrigins[0] != "https://forum.example" {
		t.Errorf("allowed origins = %v", App.AllowedOrigins)
	}
}

func TestEnvOverrides(t *testing.T) {
	old := App
	defer func() { App = old }()
	App = defaults()

	t.Setenv("PORT", "8123")
	t.Setenv("SECURE_COOKIES", "true")

	Load(filepath.Join(t.TempDir(), "missing.yaml"))

	if App.Port != "8123" {
		t.Errorf("port = %q, want env override 8123", App.Port)
	}
	if !App.SecureCookies {
		t.Error("secure cookies should be on via env override")
	}
}
