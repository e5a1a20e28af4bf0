package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/ctxutil"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/flock"
)

// plannerStatePath returns the path of the planner state record.
func (s *FileStore) plannerStatePath() string {
	return filepath.Join(s.home, constants.PlannerStateFileName)
}

// defaultPlannerState returns the cold-start planner state.
func defaultPlannerState() *domain.PlannerState {
	return &domain.PlannerState{
		DailyTarget:   constants.InitialDailyUnits,
		SchemaVersion: constants.SchemaVersion,
	}
}

// readPlannerState loads the state record, falling back to defaults when the
// file does not exist yet.
func (s *FileStore) readPlannerState() (*domain.PlannerState, error) {
	var state domain.PlannerState
	err := readJSON(s.plannerStatePath(), &state)
	if errors.Is(err, os.ErrNotExist) {
		return defaultPlannerState(), nil
	}
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to load planner state")
	}
	if state.DailyTarget < constants.MinDailyUnits || state.DailyTarget > constants.MaxDailyUnits {
		// A hand-edited or corrupted target resets to the safe default
		// rather than poisoning the ratchet.
		state.DailyTarget = constants.InitialDailyUnits
	}
	return &state, nil
}

// LoadPlannerState reads the adaptive planner state.
func (s *FileStore) LoadPlannerState(ctx context.Context) (*domain.PlannerState, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	return s.readPlannerState()
}

// UpdatePlannerState applies fn under an exclusive file lock and persists the
// result atomically. The target is a ratchet with memory: it must be
// read-then-conditionally-written, never recomputed from scratch.
func (s *FileStore) UpdatePlannerState(ctx context.Context, fn func(*domain.PlannerState) error) (*domain.PlannerState, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	release, err := flock.Acquire(ctx, s.plannerStatePath()+".lock")
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to lock planner state")
	}
	defer release()

	state, err := s.readPlannerState()
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	state.SchemaVersion = constants.SchemaVersion
	if err := writeJSON(s.plannerStatePath(), state); err != nil {
		return nil, emberrors.Wrap(err, "failed to save planner state")
	}
	return state, nil
}
