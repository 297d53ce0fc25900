package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"shelf/internal/config"
)

func TestLoadDefaultConfigUsesEnvAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "shelf")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.StateDB != filepath.Join(wantData, "state.db") {
		t.Fatalf("unexpected state db: %q", cfg.Paths.StateDB)
	}
	if cfg.Storage.File != filepath.Join(wantData, "contents.json") {
		t.Fatalf("unexpected storage file: %q", cfg.Storage.File)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if !cfg.CatalogEnabled() {
		t.Fatal("expected catalog to be enabled with an api key")
	}
	if cfg.Undo.TTLSeconds != 10 {
		t.Fatalf("expected default undo ttl 10, got %d", cfg.Undo.TTLSeconds)
	}
}

func TestLoadReadsTOMLOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	custom := config.Default()
	custom.Paths.DataDir = filepath.Join(dir, "data")
	custom.Storage.Backend = "gist"
	custom.Storage.GistID = "abc123"
	custom.Storage.GitHubToken = "token"
	custom.Library.DefaultSections = []string{" Movies ", "", "Series"}
	custom.Undo.TTLSeconds = 30

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Storage.Backend != config.BackendGist || cfg.Storage.GistID != "abc123" {
		t.Fatalf("unexpected storage: %#v", cfg.Storage)
	}
	if got := strings.Join(cfg.Library.DefaultSections, ","); got != "Movies,Series" {
		t.Fatalf("unexpected default sections: %q", got)
	}
	if cfg.Undo.TTLSeconds != 30 {
		t.Fatalf("expected undo ttl 30, got %d", cfg.Undo.TTLSeconds)
	}
}

func TestLoadReadsDotEnvNextToConfig(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	os.Unsetenv("GITHUB_TOKEN")
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"gist\"\ngist_id = \"g1\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_TOKEN=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("GITHUB_TOKEN") })

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage.GitHubToken != "from-dotenv" {
		t.Fatalf("expected token from .env, got %q", cfg.Storage.GitHubToken)
	}
}

func TestValidateRejectsGistWithoutToken(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendGist
	cfg.Storage.GistID = "abc"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error without github token")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "s3"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}
