package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSkipCmd records a skip on a task and surfaces whatever the skip
// pattern suggests: a lighter framing of the work, or a gentler deadline.
func newSkipCmd(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "skip <task-id>",
		Short: "Skip a task for now and send it to the back of the line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}

			outcome, err := d.queue.HandleSkip(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if ac.flags.JSONMode() {
				return d.out.JSON(outcome)
			}

			d.out.Success("skipped; it will come back around later")
			if outcome.Downgraded {
				d.out.Info(fmt.Sprintf("this one keeps getting passed over — it now counts as %s work, so smaller bites of it will show up", outcome.Entry.Effort))
			}
			if outcome.SuggestExtension {
				msg := fmt.Sprintf("skipped %d times and its goal is struggling too; consider moving the target out %d days",
					outcome.Entry.SkipCount, outcome.ExtensionDays)
				if outcome.ProposedTarget != nil {
					msg += fmt.Sprintf(" (to %s)", outcome.ProposedTarget.Format("2006-01-02"))
				}
				d.out.Warning(msg)
				d.out.Info("nothing changes unless you move the date yourself")
			}
			return nil
		},
	}
}
