package decompose

import (
	"strings"

	"github.com/emberflow/ember/internal/constants"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// Validate checks a breakdown against the accepted shape: task count within
// bounds, every task titled with at least one unit, every estimate positive.
// All failures map to ErrInvalidBreakdown so retry logic can treat them
// uniformly.
func Validate(b *Breakdown) error {
	if b == nil {
		return emberrors.ErrInvalidBreakdown
	}
	if len(b.Tasks) < constants.DecomposeMinTasks || len(b.Tasks) > constants.DecomposeMaxTasks {
		return emberrors.Wrapf(emberrors.ErrInvalidBreakdown,
			"expected %d-%d tasks, got %d", constants.DecomposeMinTasks, constants.DecomposeMaxTasks, len(b.Tasks))
	}
	for i, task := range b.Tasks {
		if strings.TrimSpace(task.Title) == "" {
			return emberrors.Wrapf(emberrors.ErrInvalidBreakdown, "task %d has no title", i+1)
		}
		if task.EstimatedTotalMinutes < 0 {
			return emberrors.Wrapf(emberrors.ErrInvalidBreakdown, "task %q has a negative estimate", task.Title)
		}
		if len(task.Units) == 0 {
			return emberrors.Wrapf(emberrors.ErrInvalidBreakdown, "task %q has no work units", task.Title)
		}
		for _, unit := range task.Units {
			if strings.TrimSpace(unit.Title) == "" {
				return emberrors.Wrapf(emberrors.ErrInvalidBreakdown, "task %q has an untitled unit", task.Title)
			}
			if unit.EstimatedMinutes <= 0 {
				return emberrors.Wrapf(emberrors.ErrInvalidBreakdown,
					"unit %q has a non-positive estimate", unit.Title)
			}
		}
	}
	return nil
}
