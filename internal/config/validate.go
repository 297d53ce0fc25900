package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.File == "" {
			return errors.New("storage.file must be set for the file backend")
		}
	case BackendGist:
		if c.Storage.GistID == "" {
			return errors.New("storage.gist_id is required for the gist backend (or set SHELF_GIST_ID)")
		}
		if c.Storage.GitHubToken == "" {
			return errors.New("storage.github_token is required for the gist backend (or set GITHUB_TOKEN)")
		}
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (expected file|gist)", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.ResultLimit > 20 {
		return errors.New("tmdb.result_limit must be at most 20")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if _, err := language.Parse(c.Library.Collation); err != nil {
		return fmt.Errorf("library.collation: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
