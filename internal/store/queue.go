package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/ctxutil"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/flock"
)

// queueDocument is the on-disk shape of the task queue cache. YAML keeps the
// file hand-inspectable; the cache is rebuildable, so a corrupted document is
// discarded, not repaired.
type queueDocument struct {
	SchemaVersion int                 `yaml:"schema_version"`
	Entries       []domain.QueueEntry `yaml:"entries"`
}

// queuePath returns the path of the queue cache document.
func (s *FileStore) queuePath() string {
	return filepath.Join(s.home, constants.QueueFileName)
}

// readQueue loads the cached entries, returning nil when no cache exists or
// the document fails to parse (the queue package rehydrates either way).
func (s *FileStore) readQueue() []domain.QueueEntry {
	data, err := os.ReadFile(s.queuePath()) // #nosec G304 -- path is store-internal
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return nil
	}
	var doc queueDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc.Entries
}

// writeQueue persists the entries atomically (temp file, then rename).
func (s *FileStore) writeQueue(entries []domain.QueueEntry) error {
	doc := queueDocument{SchemaVersion: constants.SchemaVersion, Entries: entries}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return emberrors.Wrap(err, "failed to marshal queue")
	}

	tmp, err := os.CreateTemp(s.home, ".tmp-queue-*")
	if err != nil {
		return emberrors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return emberrors.Wrap(err, "failed to write queue")
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return emberrors.Wrap(err, "failed to set queue permissions")
	}
	if err := os.Rename(tmpName, s.queuePath()); err != nil {
		_ = os.Remove(tmpName)
		return emberrors.Wrap(err, "failed to replace queue")
	}
	return nil
}

// LoadQueue reads the cached task queue entries.
func (s *FileStore) LoadQueue(ctx context.Context) ([]domain.QueueEntry, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	return s.readQueue(), nil
}

// UpdateQueue applies fn under an exclusive file lock and persists the result
// atomically, so skip counts accumulated across sessions are never lost to a
// concurrent writer.
func (s *FileStore) UpdateQueue(ctx context.Context, fn func([]domain.QueueEntry) ([]domain.QueueEntry, error)) ([]domain.QueueEntry, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	release, err := flock.Acquire(ctx, s.queuePath()+".lock")
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to lock queue")
	}
	defer release()

	entries, err := fn(s.readQueue())
	if err != nil {
		return nil, err
	}
	if err := s.writeQueue(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure FileStore satisfies Store.
var _ Store = (*FileStore)(nil)
