package decompose

import (
	"fmt"
	"strings"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
)

// buildPrompt renders the decomposition request. The response contract is
// strict JSON so the parser can stay dumb.
func buildPrompt(goal *domain.Goal) string {
	var sb strings.Builder
	sb.WriteString("Break the following personal goal into concrete tasks and work units.\n\n")
	fmt.Fprintf(&sb, "Goal: %s\n", goal.Title)
	if goal.TargetDate != nil {
		fmt.Fprintf(&sb, "Target date: %s\n", goal.TargetDate.Format("2006-01-02"))
	}
	if goal.Lifelong {
		sb.WriteString("This is an ongoing practice with no end date.\n")
	}
	fmt.Fprintf(&sb, `
Respond with a single JSON object and nothing else:

{
  "tasks": [
    {
      "title": "milestone name",
      "estimated_total_minutes": 120,
      "units": [
        {
          "title": "one concrete action",
          "kind": "study|practice|build|review|explore",
          "estimated_minutes": 30,
          "capability_id": "optional skill slug",
          "first_action": "optional first physical step under two minutes",
          "success_signal": "optional observable done criterion"
        }
      ]
    }
  ]
}

Rules:
- Between %d and %d tasks, each with at least one unit.
- Every estimate is a positive number of minutes.
- Order tasks and units so earlier ones unblock later ones.
- Give two units the same capability_id only if they train the same skill.
`, constants.DecomposeMinTasks, constants.DecomposeMaxTasks)
	return sb.String()
}
