package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/decompose"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/tui"
)

// newGoalCmd groups goal lifecycle subcommands.
func newGoalCmd(ac *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals",
	}
	cmd.AddCommand(
		newGoalAddCmd(ac),
		newGoalListCmd(ac),
		newGoalPauseCmd(ac),
		newGoalResumeCmd(ac),
		newGoalDropCmd(ac),
	)
	return cmd
}

func newGoalAddCmd(ac *appContext) *cobra.Command {
	var (
		byDate   string
		lifelong bool
		noPlan   bool
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a goal and break it into daily-sized steps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}

			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				if !tui.IsInteractive() {
					return fmt.Errorf("%w: a goal title is required", emberrors.ErrEmptyValue)
				}
				if title, byDate, lifelong, err = goalForm(); err != nil {
					return err
				}
			}

			goal := &domain.Goal{
				ID:            domain.NewGoalID(),
				Title:         title,
				Lifelong:      lifelong,
				Status:        constants.GoalStatusActive,
				CreatedAt:     d.clock.Now(),
				UpdatedAt:     d.clock.Now(),
				SchemaVersion: constants.SchemaVersion,
			}
			if byDate != "" {
				target, err := time.Parse("2006-01-02", byDate)
				if err != nil {
					return fmt.Errorf("invalid argument: --by must be YYYY-MM-DD: %w", err)
				}
				goal.TargetDate = &target
			}

			ctx := cmd.Context()
			if err := d.store.CreateGoal(ctx, goal); err != nil {
				return err
			}
			ac.logger.Info().Str("goal_id", goal.ID).Msg("goal created")

			if !noPlan {
				b, err := ac.decomposer().Decompose(ctx, goal)
				if err != nil {
					return err
				}
				if _, err := decompose.Apply(ctx, d.store, d.clock, goal, b); err != nil {
					return err
				}
				if _, err := d.queue.Rehydrate(ctx); err != nil {
					return err
				}
				if b.Source == "template" {
					d.out.Warning("used the built-in breakdown template; edit steps with `ember breakdown`")
				}
			}

			if ac.flags.JSONMode() {
				return d.out.JSON(goal)
			}
			d.out.Success(fmt.Sprintf("added %q (%s)", goal.Title, goal.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&byDate, "by", "", "soft target date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&lifelong, "lifelong", false, "ongoing practice with no end date")
	cmd.Flags().BoolVar(&noPlan, "no-breakdown", false, "create the goal without decomposing it")
	cmd.MarkFlagsMutuallyExclusive("by", "lifelong")
	return cmd
}

// goalForm collects goal fields interactively.
func goalForm() (title, byDate string, lifelong bool, err error) {
	tui.CheckNoColor()
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("What are you working toward?").
			Placeholder("learn conversational Spanish").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("a goal needs a title")
				}
				return nil
			}).
			Value(&title),
		huh.NewInput().
			Title("Target date (YYYY-MM-DD, empty for none)").
			Validate(func(s string) error {
				if s == "" {
					return nil
				}
				_, parseErr := time.Parse("2006-01-02", s)
				return parseErr
			}).
			Value(&byDate),
		huh.NewConfirm().
			Title("Is this an ongoing practice rather than a finishable goal?").
			Value(&lifelong),
	))
	if err = form.Run(); err != nil {
		return "", "", false, err
	}
	if lifelong {
		byDate = ""
	}
	return strings.TrimSpace(title), byDate, lifelong, nil
}

func newGoalListCmd(ac *appContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}
			goals, err := d.store.ListGoals(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				active := goals[:0]
				for _, g := range goals {
					if g.IsActive() {
						active = append(active, g)
					}
				}
				goals = active
			}
			if ac.flags.JSONMode() {
				return d.out.JSON(goals)
			}
			if len(goals) == 0 {
				d.out.Info("no goals yet; start one with `ember goal add`")
				return nil
			}
			table := tui.NewTable(cmd.OutOrStdout(), []tui.TableColumn{
				{Name: "ID", Width: 13},
				{Name: "STATUS", Width: 8},
				{Name: "TARGET", Width: 10},
				{Name: "TITLE", Width: 40},
			})
			table.WriteHeader()
			for _, g := range goals {
				target := "-"
				switch {
				case g.Lifelong:
					target = "lifelong"
				case g.TargetDate != nil:
					target = g.TargetDate.Format("2006-01-02")
				}
				table.WriteRow(g.ID, g.Status.String(), target, g.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include paused and drained goals")
	return cmd
}

func newGoalPauseCmd(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "pause <goal-id>",
		Short: "Pause a goal, removing it from daily planning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setGoalStatus(ac, cmd, args[0], constants.GoalStatusPaused, "paused")
		},
	}
}

func newGoalResumeCmd(ac *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <goal-id>",
		Short: "Resume a paused goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setGoalStatus(ac, cmd, args[0], constants.GoalStatusActive, "resumed")
		},
	}
}

// setGoalStatus transitions a goal and refreshes the queue cache.
func setGoalStatus(ac *appContext, cmd *cobra.Command, goalID string, status constants.GoalStatus, verb string) error {
	d, err := ac.open(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	goal, err := d.store.GetGoal(ctx, goalID)
	if err != nil {
		return err
	}
	goal.Status = status
	goal.UpdatedAt = d.clock.Now()
	if err := d.store.UpdateGoal(ctx, goal); err != nil {
		return err
	}
	if _, err := d.queue.Rehydrate(ctx); err != nil {
		return err
	}
	if ac.flags.JSONMode() {
		return d.out.JSON(goal)
	}
	d.out.Success(fmt.Sprintf("%s %q", verb, goal.Title))
	return nil
}

func newGoalDropCmd(ac *appContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "drop <goal-id>",
		Short: "Delete a goal and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := ac.open(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			goal, err := d.store.GetGoal(ctx, args[0])
			if err != nil {
				return err
			}
			if !force && tui.IsInteractive() {
				var confirmed bool
				confirm := huh.NewConfirm().
					Title(fmt.Sprintf("Delete %q and all its tasks?", goal.Title)).
					Value(&confirmed)
				if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
					return err
				}
				if !confirmed {
					d.out.Info("kept it")
					return nil
				}
			}
			if err := d.store.DeleteGoal(ctx, goal.ID); err != nil {
				return err
			}
			if _, err := d.queue.Rehydrate(ctx); err != nil {
				return err
			}
			ac.logger.Info().Str("goal_id", goal.ID).Msg("goal deleted")
			d.out.Success(fmt.Sprintf("dropped %q", goal.Title))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
