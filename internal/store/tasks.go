package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/ctxutil"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// findTaskDir locates a task's directory by scanning goal directories.
// The store is single-user and small, so a scan beats maintaining an index
// that could drift from the records.
func (s *FileStore) findTaskDir(taskID string) (string, error) {
	goalEntries, err := os.ReadDir(s.goalsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", emberrors.ErrTaskNotFound
		}
		return "", fmt.Errorf("%w: %w", emberrors.ErrStoreUnavailable, err)
	}
	for _, goalEntry := range goalEntries {
		if !goalEntry.IsDir() {
			continue
		}
		dir := s.taskDir(goalEntry.Name(), taskID)
		if _, err := os.Stat(filepath.Join(dir, constants.TaskFileName)); err == nil {
			return dir, nil
		}
	}
	return "", emberrors.ErrTaskNotFound
}

// CreateTask persists a new task under its goal.
func (s *FileStore) CreateTask(ctx context.Context, task *domain.Task) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("failed to create task: task %w", emberrors.ErrEmptyValue)
	}
	if task.ID == "" || task.GoalID == "" {
		return fmt.Errorf("failed to create task: task ID and goal ID %w", emberrors.ErrEmptyValue)
	}
	if _, err := s.GetGoal(ctx, task.GoalID); err != nil {
		return emberrors.Wrap(err, "failed to create task")
	}

	dir := s.taskDir(task.GoalID, task.ID)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("failed to create task '%s': %w", task.ID, emberrors.ErrTaskExists)
	}
	if err := os.MkdirAll(filepath.Join(dir, constants.UnitsDir), dirPerm); err != nil {
		return emberrors.Wrap(err, "failed to create task directory")
	}

	task.SchemaVersion = constants.SchemaVersion
	if task.State == "" {
		task.State = constants.TaskStateActive
	}
	if err := writeJSON(filepath.Join(dir, constants.TaskFileName), task); err != nil {
		_ = os.RemoveAll(dir)
		return emberrors.Wrapf(err, "failed to create task '%s'", task.ID)
	}
	return nil
}

// GetTask retrieves a task by id.
func (s *FileStore) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	dir, err := s.findTaskDir(id)
	if err != nil {
		return nil, fmt.Errorf("task '%s': %w", id, err)
	}
	var task domain.Task
	if err := readJSON(filepath.Join(dir, constants.TaskFileName), &task); err != nil {
		return nil, emberrors.Wrapf(err, "failed to load task '%s'", id)
	}
	return &task, nil
}

// UpdateTask saves the task state.
func (s *FileStore) UpdateTask(ctx context.Context, task *domain.Task) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if task == nil || task.ID == "" || task.GoalID == "" {
		return fmt.Errorf("failed to update task: task ID and goal ID %w", emberrors.ErrEmptyValue)
	}
	path := filepath.Join(s.taskDir(task.GoalID, task.ID), constants.TaskFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("task '%s': %w", task.ID, emberrors.ErrTaskNotFound)
	}
	return emberrors.Wrapf(writeJSON(path, task), "failed to update task '%s'", task.ID)
}

// DeleteTask removes a task and its work units.
func (s *FileStore) DeleteTask(ctx context.Context, id string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	dir, err := s.findTaskDir(id)
	if err != nil {
		if errors.Is(err, emberrors.ErrTaskNotFound) {
			return nil
		}
		return err
	}
	return emberrors.Wrapf(os.RemoveAll(dir), "failed to delete task '%s'", id)
}

// ListTasksByGoal returns the goal's tasks sorted by Order then creation time.
// Deleted tombstones are filtered.
func (s *FileStore) ListTasksByGoal(ctx context.Context, goalID string) ([]*domain.Task, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.goalDir(goalID), constants.TasksDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", emberrors.ErrStoreUnavailable, err)
	}

	tasks := make([]*domain.Task, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var task domain.Task
		path := filepath.Join(s.taskDir(goalID, entry.Name()), constants.TaskFileName)
		if err := readJSON(path, &task); err != nil {
			continue // partial write, skip defensively
		}
		if task.State == constants.TaskStateDeleted {
			continue
		}
		tasks = append(tasks, &task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}
