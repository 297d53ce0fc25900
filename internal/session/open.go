package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shelf/internal/blob"
	"shelf/internal/config"
	"shelf/internal/enrich"
	"shelf/internal/kv"
	"shelf/internal/logging"
	"shelf/internal/tmdb"
)

// Open builds a session from configuration: the blob backend, the sqlite
// state database and, when an api key is set, the TMDB catalog. Close
// releases the state database.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	blobs, err := blob.FromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	state, err := kv.OpenFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	opts := []Option{
		WithStateStore(state),
		WithLogger(logger),
		WithDefaultSections(cfg.Library.DefaultSections...),
		WithCollation(cfg.Library.Collation),
		WithUndoTTL(time.Duration(cfg.Undo.TTLSeconds) * time.Second),
	}
	if cfg.CatalogEnabled() {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
		if err != nil {
			_ = state.Close()
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		catalog := tmdb.NewCatalog(client, cfg.TMDB.ImageBaseURL, cfg.TMDB.ResultLimit)
		opts = append(opts, WithEnricher(enrich.New(catalog,
			enrich.WithLogger(logger),
			enrich.WithResultLimit(cfg.TMDB.ResultLimit),
		)))
	}

	s, err := New(ctx, blobs, opts...)
	if err != nil {
		_ = state.Close()
		return nil, err
	}
	s.closers = append(s.closers, state.Close)
	return s, nil
}
