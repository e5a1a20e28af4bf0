// Package score computes deterministic priorities for schedulable work.
//
// Scoring is a weighted combination of three independent, individually
// normalized signals: soft target-date urgency, reservoir progression, and
// rotation fairness. The weights encode product philosophy, not tuning: a
// soft step function avoids last-minute panic spikes, progression favors
// continuing what was started without rewarding near-completion (that bias
// lives in momentum, keeping the signals decomposable), and fairness floats
// neglected goals upward with a hard one-week cap.
//
// All functions are pure: "now" is a parameter, never read from the system
// clock. They are total over their documented domain; nil candidates and
// negative minutes are programmer-contract violations and panic.
package score

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
)

// Factor weights. They sum to 1 so raw scores stay comparable across plans.
const (
	urgencyWeight     = 0.4
	progressionWeight = 0.3
	rotationWeight    = 0.3
)

// rotationCapDays caps the fairness signal so a single long-neglected goal
// cannot dominate every plan.
const rotationCapDays = 7

// Candidate bundles a work unit with its parents for scoring.
type Candidate struct {
	Unit *domain.WorkUnit
	Task *domain.Task
	Goal *domain.Goal

	// Effort, when set, is the task's perceived effort tier from the queue
	// cache. Skip feedback only ever lowers it, so it can sit below what the
	// raw minutes imply.
	Effort constants.EffortLevel
}

// RemainingMinutes returns the candidate's unworked effort.
func (c Candidate) RemainingMinutes() int {
	return c.Unit.RemainingMinutes()
}

// IsHeavy reports whether the candidate counts against the heavy cap and
// sorts into the heavy bucket. A perceived effort tier, when known, overrides
// the raw 90-minute boundary: a task downgraded by skip feedback stops
// reading as heavy even though its minutes have not moved.
func (c Candidate) IsHeavy() bool {
	if c.Effort != "" {
		return c.Effort == constants.EffortHeavy
	}
	return c.Unit.IsHeavy()
}

// Score returns the candidate's priority on a roughly 0-100 scale.
// Missing optional fields (target date, complexity, phase) degrade to
// documented neutral defaults, never to an error.
func Score(c Candidate, now time.Time) float64 {
	mustBeValid(c)
	u := urgency(c.Goal, now)
	p := progression(c.Task)
	r := rotation(c.Goal, now)
	return 100 * (urgencyWeight*u + progressionWeight*p + rotationWeight*r)
}

// Density returns score per remaining minute, the ordering key within a
// light/heavy bucket. Value density keeps short high-value items from being
// crowded out by long high-score ones. Zero-remaining candidates (possible
// only transiently, between completion and refresh) get the raw score.
func Density(c Candidate, now time.Time) float64 {
	s := Score(c, now)
	m := c.RemainingMinutes()
	if m <= 0 {
		return s
	}
	return s / float64(m)
}

// Sort orders candidates for greedy selection: light bucket before heavy
// regardless of score (gentle-ease-in policy), then descending value density
// within each bucket. The sort is stable, so equal-density candidates keep
// their incoming order and the result is deterministic.
func Sort(candidates []Candidate, now time.Time) {
	sort.SliceStable(candidates, func(i, j int) bool {
		hi, hj := candidates[i].IsHeavy(), candidates[j].IsHeavy()
		if hi != hj {
			return !hi
		}
		return Density(candidates[i], now) > Density(candidates[j], now)
	})
}

// urgency maps days-until-target onto a soft step function in [0,1].
// No target date is neutral 0.5.
func urgency(goal *domain.Goal, now time.Time) float64 {
	days, ok := goal.DaysUntilTarget(now)
	if !ok {
		return 0.5
	}
	switch {
	case days < 0:
		return 1.0
	case days <= 7:
		return 0.9
	case days <= 14:
		return 0.7
	case days <= 30:
		return 0.5
	default:
		return 0.3
	}
}

// progression returns remaining/total for the parent reservoir. A fresh task
// and a half-done task of equal remaining minutes score identically; between
// two equal-capacity tasks, the more complete one is deliberately NOT
// preferred here.
func progression(task *domain.Task) float64 {
	if task.EstimatedTotalMinutes <= 0 {
		return 0
	}
	return float64(task.RemainingMinutes()) / float64(task.EstimatedTotalMinutes)
}

// rotation returns min(daysSinceGoalUpdate/7, 1).
func rotation(goal *domain.Goal, now time.Time) float64 {
	if goal.UpdatedAt.IsZero() {
		return 1
	}
	days := clock.DaysBetween(goal.UpdatedAt, now)
	if days < 0 {
		days = 0
	}
	return math.Min(float64(days)/rotationCapDays, 1)
}

// mustBeValid panics on programmer-contract violations. Everything else
// in this package is total.
func mustBeValid(c Candidate) {
	if c.Unit == nil || c.Task == nil || c.Goal == nil {
		panic("score: candidate must carry a work unit, task, and goal")
	}
	if c.Unit.EstimatedTotalMinutes < 0 || c.Unit.CompletedMinutes < 0 ||
		c.Task.EstimatedTotalMinutes < 0 || c.Task.CompletedMinutes < 0 {
		panic(fmt.Sprintf("score: negative minutes on %s", c.Unit.ID))
	}
}
