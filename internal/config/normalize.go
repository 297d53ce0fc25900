package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeLibrary()
	c.normalizeLogging()
	if c.Undo.TTLSeconds <= 0 {
		c.Undo.TTLSeconds = defaultUndoTTLSeconds
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDB) == "" {
		c.Paths.StateDB = filepath.Join(c.Paths.DataDir, defaultStateDBName)
	}
	if c.Paths.StateDB, err = expandPath(c.Paths.StateDB); err != nil {
		return fmt.Errorf("paths.state_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultStorageBackend
	}
	if strings.TrimSpace(c.Storage.File) == "" {
		c.Storage.File = filepath.Join(c.Paths.DataDir, defaultDocumentName)
	}
	var err error
	if c.Storage.File, err = expandPath(c.Storage.File); err != nil {
		return fmt.Errorf("storage.file: %w", err)
	}
	if c.Storage.GistID == "" {
		c.Storage.GistID = os.Getenv("SHELF_GIST_ID")
	}
	if c.Storage.GitHubToken == "" {
		c.Storage.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	c.Storage.GistID = strings.TrimSpace(c.Storage.GistID)
	c.Storage.GitHubToken = strings.TrimSpace(c.Storage.GitHubToken)
	c.Storage.GistBaseURL = strings.TrimRight(strings.TrimSpace(c.Storage.GistBaseURL), "/")
	if c.Storage.GistBaseURL == "" {
		c.Storage.GistBaseURL = defaultGistBaseURL
	}
	if strings.TrimSpace(c.Storage.GistFile) == "" {
		c.Storage.GistFile = defaultGistFile
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if strings.TrimSpace(c.TMDB.ImageBaseURL) == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBase
	}
	if c.TMDB.ResultLimit <= 0 {
		c.TMDB.ResultLimit = defaultTMDBResultLimit
	}
}

func (c *Config) normalizeLibrary() {
	sections := make([]string, 0, len(c.Library.DefaultSections))
	for _, name := range c.Library.DefaultSections {
		if name = strings.TrimSpace(name); name != "" {
			sections = append(sections, name)
		}
	}
	c.Library.DefaultSections = sections
	c.Library.Collation = strings.TrimSpace(c.Library.Collation)
	if c.Library.Collation == "" {
		c.Library.Collation = defaultCollation
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
