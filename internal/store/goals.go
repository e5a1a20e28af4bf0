package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/ctxutil"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// maxConcurrentReads bounds parallel record reads during listings.
const maxConcurrentReads = 16

// CreateGoal persists a new goal.
func (s *FileStore) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if goal == nil {
		return fmt.Errorf("failed to create goal: goal %w", emberrors.ErrEmptyValue)
	}
	if goal.ID == "" {
		return fmt.Errorf("failed to create goal: goal ID %w", emberrors.ErrEmptyValue)
	}

	dir := s.goalDir(goal.ID)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("failed to create goal '%s': %w", goal.ID, emberrors.ErrGoalExists)
	}
	if err := os.MkdirAll(filepath.Join(dir, constants.TasksDir), dirPerm); err != nil {
		return emberrors.Wrap(err, "failed to create goal directory")
	}

	goal.SchemaVersion = constants.SchemaVersion
	if err := writeJSON(filepath.Join(dir, constants.GoalFileName), goal); err != nil {
		_ = os.RemoveAll(dir)
		return emberrors.Wrapf(err, "failed to create goal '%s'", goal.ID)
	}
	return nil
}

// GetGoal retrieves a goal by id.
func (s *FileStore) GetGoal(ctx context.Context, id string) (*domain.Goal, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	var goal domain.Goal
	err := readJSON(filepath.Join(s.goalDir(id), constants.GoalFileName), &goal)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("goal '%s': %w", id, emberrors.ErrGoalNotFound)
	}
	if err != nil {
		return nil, emberrors.Wrapf(err, "failed to load goal '%s'", id)
	}
	return &goal, nil
}

// UpdateGoal saves the goal state.
func (s *FileStore) UpdateGoal(ctx context.Context, goal *domain.Goal) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if goal == nil || goal.ID == "" {
		return fmt.Errorf("failed to update goal: goal ID %w", emberrors.ErrEmptyValue)
	}
	path := filepath.Join(s.goalDir(goal.ID), constants.GoalFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("goal '%s': %w", goal.ID, emberrors.ErrGoalNotFound)
	}
	return emberrors.Wrapf(writeJSON(path, goal), "failed to update goal '%s'", goal.ID)
}

// DeleteGoal removes a goal and cascades to its tasks and work units.
// Deleting an absent goal is a no-op.
func (s *FileStore) DeleteGoal(ctx context.Context, id string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("failed to delete goal: goal ID %w", emberrors.ErrEmptyValue)
	}
	return emberrors.Wrapf(os.RemoveAll(s.goalDir(id)), "failed to delete goal '%s'", id)
}

// ListGoals returns all goals sorted by creation time (oldest first).
// Unreadable records are skipped; a planning pass never aborts on one bad file.
func (s *FileStore) ListGoals(ctx context.Context) ([]*domain.Goal, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.goalsDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", emberrors.ErrStoreUnavailable, err)
	}

	var (
		mu    sync.Mutex
		goals []*domain.Goal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		g.Go(func() error {
			goal, err := s.GetGoal(gctx, id)
			if err != nil {
				// Partial writes or stray directories are filtered, not fatal.
				return nil //nolint:nilerr // unreadable records are skipped
			}
			mu.Lock()
			goals = append(goals, goal)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].ID < goals[j].ID
		}
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})
	return goals, nil
}

// ListActiveGoals returns goals with status active, oldest first.
func (s *FileStore) ListActiveGoals(ctx context.Context) ([]*domain.Goal, error) {
	goals, err := s.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	active := goals[:0:0]
	for _, g := range goals {
		if g.IsActive() {
			active = append(active, g)
		}
	}
	return active, nil
}
