package blob

import (
	"context"
	"fmt"
	"log/slog"

	"shelf/internal/config"
	"shelf/internal/library"
)

// Store gets and puts the whole library document.
type Store interface {
	Get(ctx context.Context) (*library.Document, error)
	Put(ctx context.Context, doc *library.Document) error
}

// FromConfig builds the store selected by cfg.Storage.Backend.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendGist:
		gist, err := NewGistStore(cfg.Storage.GistID, cfg.Storage.GitHubToken,
			WithGistBaseURL(cfg.Storage.GistBaseURL),
			WithGistFile(cfg.Storage.GistFile),
			WithGistLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return gist, nil
	case config.BackendFile, "":
		return NewFileStore(cfg.Storage.File, WithFileLogger(logger), WithBackup(true)), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
