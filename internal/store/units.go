package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/ctxutil"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// findUnitPath locates a work unit's record by scanning task directories.
func (s *FileStore) findUnitPath(unitID string) (string, error) {
	goalEntries, err := os.ReadDir(s.goalsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", emberrors.ErrWorkUnitNotFound
		}
		return "", fmt.Errorf("%w: %w", emberrors.ErrStoreUnavailable, err)
	}
	for _, goalEntry := range goalEntries {
		if !goalEntry.IsDir() {
			continue
		}
		tasksDir := filepath.Join(s.goalDir(goalEntry.Name()), constants.TasksDir)
		taskEntries, err := os.ReadDir(tasksDir)
		if err != nil {
			continue
		}
		for _, taskEntry := range taskEntries {
			if !taskEntry.IsDir() {
				continue
			}
			path := s.unitPath(goalEntry.Name(), taskEntry.Name(), unitID)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", emberrors.ErrWorkUnitNotFound
}

// CreateWorkUnit persists a new work unit under its task.
func (s *FileStore) CreateWorkUnit(ctx context.Context, unit *domain.WorkUnit) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if unit == nil {
		return fmt.Errorf("failed to create work unit: unit %w", emberrors.ErrEmptyValue)
	}
	if unit.ID == "" || unit.TaskID == "" {
		return fmt.Errorf("failed to create work unit: unit ID and task ID %w", emberrors.ErrEmptyValue)
	}

	taskDir, err := s.findTaskDir(unit.TaskID)
	if err != nil {
		return fmt.Errorf("failed to create work unit '%s': %w", unit.ID, err)
	}
	path := filepath.Join(taskDir, constants.UnitsDir, unit.ID+".json")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("failed to create work unit '%s': %w", unit.ID, emberrors.ErrWorkUnitExists)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return emberrors.Wrap(err, "failed to create units directory")
	}

	unit.SchemaVersion = constants.SchemaVersion
	return emberrors.Wrapf(writeJSON(path, unit), "failed to create work unit '%s'", unit.ID)
}

// GetWorkUnit retrieves a work unit by id.
func (s *FileStore) GetWorkUnit(ctx context.Context, id string) (*domain.WorkUnit, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	path, err := s.findUnitPath(id)
	if err != nil {
		return nil, fmt.Errorf("work unit '%s': %w", id, err)
	}
	var unit domain.WorkUnit
	if err := readJSON(path, &unit); err != nil {
		return nil, emberrors.Wrapf(err, "failed to load work unit '%s'", id)
	}
	return &unit, nil
}

// UpdateWorkUnit saves the work unit state.
func (s *FileStore) UpdateWorkUnit(ctx context.Context, unit *domain.WorkUnit) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if unit == nil || unit.ID == "" {
		return fmt.Errorf("failed to update work unit: unit ID %w", emberrors.ErrEmptyValue)
	}
	path, err := s.findUnitPath(unit.ID)
	if err != nil {
		return fmt.Errorf("work unit '%s': %w", unit.ID, err)
	}
	return emberrors.Wrapf(writeJSON(path, unit), "failed to update work unit '%s'", unit.ID)
}

// DeleteWorkUnit removes a work unit. Deleting an absent unit is a no-op.
func (s *FileStore) DeleteWorkUnit(ctx context.Context, id string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	path, err := s.findUnitPath(id)
	if err != nil {
		if errors.Is(err, emberrors.ErrWorkUnitNotFound) {
			return nil
		}
		return err
	}
	return emberrors.Wrapf(os.Remove(path), "failed to delete work unit '%s'", id)
}

// ListWorkUnitsByTask returns the task's work units in insertion order
// (creation time, then id for same-batch ties).
func (s *FileStore) ListWorkUnitsByTask(ctx context.Context, taskID string) ([]*domain.WorkUnit, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	taskDir, err := s.findTaskDir(taskID)
	if err != nil {
		if errors.Is(err, emberrors.ErrTaskNotFound) {
			return nil, nil
		}
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(taskDir, constants.UnitsDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", emberrors.ErrStoreUnavailable, err)
	}

	units := make([]*domain.WorkUnit, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		var unit domain.WorkUnit
		if err := readJSON(filepath.Join(taskDir, constants.UnitsDir, entry.Name()), &unit); err != nil {
			continue // partial write, skip defensively
		}
		units = append(units, &unit)
	}

	sort.SliceStable(units, func(i, j int) bool {
		if !units[i].CreatedAt.Equal(units[j].CreatedAt) {
			return units[i].CreatedAt.Before(units[j].CreatedAt)
		}
		return units[i].ID < units[j].ID
	})
	return units, nil
}
