package testsupport

import (
	"path/filepath"
	"testing"

	"shelf/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The catalog is disabled unless WithTMDBKey is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDB = filepath.Join(base, "data", "state.db")
	cfgVal.Storage.Backend = config.BackendFile
	cfgVal.Storage.File = filepath.Join(base, "data", "contents.json")
	cfgVal.TMDB.APIKey = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = key
	}
}

// WithTMDBBaseURL points the catalog at a test server.
func WithTMDBBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = url
	}
}

// WithGist switches the document backend to a gist served by baseURL.
func WithGist(id, token, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Backend = config.BackendGist
		b.cfg.Storage.GistID = id
		b.cfg.Storage.GitHubToken = token
		b.cfg.Storage.GistBaseURL = baseURL
	}
}

// WithDefaultSections replaces the seeded section names.
func WithDefaultSections(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Library.DefaultSections = names
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
