package cli

import (
	"github.com/spf13/cobra"

	"github.com/emberflow/ember/internal/tui"
)

// newNextCmd surfaces a single step from the goal with the most momentum.
func newNextCmd(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show one step to do right now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}

			sl, err := ac.builder(d, ac.slotStrategy(d)).Next(cmd.Context(), nil)
			if err != nil {
				return err
			}
			if sl == nil {
				if ac.flags.JSONMode() {
					return d.out.JSON(map[string]any{"slice": nil})
				}
				d.out.Info("Nothing pending. Add a goal or enjoy the quiet.")
				return nil
			}
			if ac.flags.JSONMode() {
				return d.out.JSON(sl)
			}
			tui.RenderSlice(cmd.OutOrStdout(), sl)
			return nil
		},
	}
}
