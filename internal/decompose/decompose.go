// Package decompose turns a free-text goal into a structured breakdown of
// tasks and work units, using an external AI CLI when one is available and a
// deterministic local template when it is not. Decomposition never fails the
// user: an unreachable or misbehaving backend degrades to the template.
package decompose

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
)

// Breakdown is a validated goal decomposition ready to materialize.
type Breakdown struct {
	// Tasks holds the proposed tasks in progression order.
	Tasks []TaskDraft `json:"tasks"`

	// Source names what produced the breakdown ("ai" or "template").
	Source string `json:"source"`
}

// TaskDraft is one proposed task.
type TaskDraft struct {
	// Title is the milestone the task represents.
	Title string `json:"title"`

	// EstimatedTotalMinutes is the expected total effort. Zero derives the
	// estimate from the unit sum.
	EstimatedTotalMinutes int `json:"estimated_total_minutes"`

	// Units are the task's atomic actions, in order.
	Units []UnitDraft `json:"units"`
}

// UnitDraft is one proposed work unit.
type UnitDraft struct {
	// Title is the concrete action to take.
	Title string `json:"title"`

	// Kind classifies the unit; unknown values fall back to practice.
	Kind string `json:"kind"`

	// EstimatedMinutes is the expected effort for this unit.
	EstimatedMinutes int `json:"estimated_minutes"`

	// CapabilityID optionally marks the underlying skill for dedup.
	CapabilityID string `json:"capability_id,omitempty"`

	// FirstAction is an optional sub-two-minute activation step.
	FirstAction string `json:"first_action,omitempty"`

	// SuccessSignal is an optional observable completion criterion.
	SuccessSignal string `json:"success_signal,omitempty"`
}

// Service produces breakdowns for goals.
type Service interface {
	// Decompose proposes a breakdown for the goal.
	Decompose(ctx context.Context, goal *domain.Goal) (*Breakdown, error)
}

// Decomposer is the production Service: it asks the configured runner and
// falls back to the local template when the runner cannot deliver a valid
// breakdown.
type Decomposer struct {
	runner Service
	logger zerolog.Logger
}

// NewDecomposer wraps the runner with template fallback. A nil runner (AI
// disabled) always uses the template.
func NewDecomposer(runner Service, logger zerolog.Logger) *Decomposer {
	return &Decomposer{runner: runner, logger: logger}
}

// Decompose returns the runner's breakdown, or the deterministic template
// when the runner is absent or fails. The error return exists to satisfy
// Service; it is always nil.
func (d *Decomposer) Decompose(ctx context.Context, goal *domain.Goal) (*Breakdown, error) {
	if d.runner != nil {
		b, err := d.runner.Decompose(ctx, goal)
		if err == nil {
			return b, nil
		}
		d.logger.Warn().Err(err).Str("goal_id", goal.ID).Msg("decomposition backend failed, using local template")
	}
	return TemplateBreakdown(goal), nil
}

// kindOrDefault maps a draft kind string to a valid work unit kind.
func kindOrDefault(s string) constants.WorkUnitKind {
	k := constants.WorkUnitKind(s)
	if k.IsValid() {
		return k
	}
	return constants.KindPractice
}
