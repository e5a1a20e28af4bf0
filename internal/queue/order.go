package queue

import (
	"sort"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
)

// Positions maps each queued task to its index in the cache. Selection uses
// this to honor skip rotation: an entry rotated to the back stays at the back
// of its goal's ordering too.
func Positions(entries []domain.QueueEntry) map[string]int {
	if len(entries) == 0 {
		return nil
	}
	pos := make(map[string]int, len(entries))
	for i, e := range entries {
		pos[e.TaskID] = i
	}
	return pos
}

// Efforts maps each queued task to its perceived effort tier, which skip
// feedback may have downgraded below what the task's minutes imply.
func Efforts(entries []domain.QueueEntry) map[string]constants.EffortLevel {
	if len(entries) == 0 {
		return nil
	}
	efforts := make(map[string]constants.EffortLevel, len(entries))
	for _, e := range entries {
		efforts[e.TaskID] = e.Effort
	}
	return efforts
}

// OrderTasks sorts tasks in place by their queue position. Tasks the cache
// does not know yet keep their incoming order behind the queued ones, which
// is where rehydration would place them. An empty position map leaves the
// incoming order untouched.
func OrderTasks(tasks []*domain.Task, positions map[string]int) {
	if len(positions) == 0 {
		return
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		pi, iKnown := positions[tasks[i].ID]
		pj, jKnown := positions[tasks[j].ID]
		if iKnown != jKnown {
			return iKnown
		}
		if !iKnown {
			return false
		}
		return pi < pj
	})
}
