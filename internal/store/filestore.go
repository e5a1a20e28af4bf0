package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emberflow/ember/internal/constants"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750 // Secure directory permissions
	filePerm = 0o600 // Secure file permissions
)

// FileStore implements Store using JSON records on the local filesystem.
//
// Layout under the ember home (usually ~/.ember):
//
//	goals/<goal-id>/goal.json
//	goals/<goal-id>/tasks/<task-id>/task.json
//	goals/<goal-id>/tasks/<task-id>/units/<unit-id>.json
//	planner.json
//	queue.yaml
//
// The directory-per-parent layout makes "list children of X" a single
// directory read, and cascade delete a single RemoveAll.
type FileStore struct {
	home string
}

// NewFileStore creates a FileStore rooted at home. If home is empty, the
// default ~/.ember directory is used.
func NewFileStore(home string) (*FileStore, error) {
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", emberrors.ErrStoreUnavailable, err)
		}
		home = filepath.Join(userHome, constants.EmberHome)
	}
	if err := os.MkdirAll(filepath.Join(home, constants.GoalsDir), dirPerm); err != nil {
		return nil, fmt.Errorf("%w: %w", emberrors.ErrStoreUnavailable, err)
	}
	return &FileStore{home: home}, nil
}

// Home returns the absolute path of the store's data directory.
func (s *FileStore) Home() string {
	return s.home
}

// goalsDir returns the directory that holds all goal records.
func (s *FileStore) goalsDir() string {
	return filepath.Join(s.home, constants.GoalsDir)
}

// goalDir returns the directory for one goal.
func (s *FileStore) goalDir(goalID string) string {
	return filepath.Join(s.goalsDir(), goalID)
}

// taskDir returns the directory for one task under its goal.
func (s *FileStore) taskDir(goalID, taskID string) string {
	return filepath.Join(s.goalDir(goalID), constants.TasksDir, taskID)
}

// unitPath returns the record path for one work unit.
func (s *FileStore) unitPath(goalID, taskID, unitID string) string {
	return filepath.Join(s.taskDir(goalID, taskID), constants.UnitsDir, unitID+".json")
}

// writeJSON marshals v and writes it atomically: temp file in the target
// directory, fsync, then rename. A crash mid-write never corrupts a record.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return emberrors.Wrap(err, "failed to marshal record")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
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
		return emberrors.Wrap(err, "failed to write temp file")
	}

	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return emberrors.Wrap(err, "failed to set record permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return emberrors.Wrap(err, "failed to replace record")
	}
	return nil
}

// readJSON reads the record at path into v. Returns os.ErrNotExist unchanged
// so callers can map it to the right sentinel.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is store-internal
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return emberrors.Wrapf(err, "failed to parse record %s", filepath.Base(path))
	}
	return nil
}
