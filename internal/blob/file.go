package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"shelf/internal/fileutil"
	"shelf/internal/library"
	"shelf/internal/logging"
)

const lockRetryDelay = 50 * time.Millisecond

// FileStore keeps the document in a local JSON file.
type FileStore struct {
	path   string
	lock   *flock.Flock
	backup bool
	logger *slog.Logger
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger.
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBackup keeps the previous document as "<path>.bak" on every write.
func WithBackup(enabled bool) FileOption {
	return func(s *FileStore) {
		s.backup = enabled
	}
}

// NewFileStore returns a store for path. The lock file lives beside it.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "blob")
	return s
}

// Path returns the document path.
func (s *FileStore) Path() string {
	return s.path
}

// Get reads the document. A missing file is an empty document.
func (s *FileStore) Get(ctx context.Context) (*library.Document, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return &library.Document{}, nil
	}
	locked, err := s.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire read lock: %w", err)
	}
	if locked {
		defer func() { _ = s.lock.Unlock() }()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &library.Document{}, nil
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := library.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.logger.Debug("document loaded",
		logging.String("path", s.path),
		logging.Int("sections", len(doc.Sections)),
	)
	return doc, nil
}

// Put replaces the document atomically under an exclusive lock.
func (s *FileStore) Put(ctx context.Context, doc *library.Document) error {
	data, err := library.EncodeDocument(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire write lock: %w", err)
	}
	if !locked {
		return errors.New("document is locked by another process")
	}
	defer func() { _ = s.lock.Unlock() }()

	if s.backup {
		if err := fileutil.CopyFile(s.path, s.path+".bak"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("document backup skipped", logging.Error(err))
		}
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
