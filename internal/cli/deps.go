package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/emberflow/ember/internal/allocate"
	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/config"
	"github.com/emberflow/ember/internal/decompose"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/momentum"
	"github.com/emberflow/ember/internal/pace"
	"github.com/emberflow/ember/internal/plan"
	"github.com/emberflow/ember/internal/queue"
	"github.com/emberflow/ember/internal/store"
	"github.com/emberflow/ember/internal/tui"
)

// appContext carries state initialized by the root command's
// PersistentPreRunE into subcommand handlers.
type appContext struct {
	flags  *GlobalFlags
	cfg    *config.Config
	logger zerolog.Logger
}

// deps bundles the wired engine components a command needs.
type deps struct {
	store   *store.FileStore
	clock   clock.Clock
	tracker *momentum.Tracker
	pace    *pace.Controller
	queue   *queue.Manager
	out     tui.Output
}

// open wires the engine against the configured data directory. Output goes
// to the command's writer so tests can capture it.
func (ac *appContext) open(cmd *cobra.Command) (*deps, error) {
	dataDir, err := ac.cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	s, err := store.NewFileStore(dataDir)
	if err != nil {
		return nil, emberrors.Wrap(err, "failed to open data directory")
	}

	c := clock.RealClock{}
	return &deps{
		store:   s,
		clock:   c,
		tracker: momentum.NewTracker(s, c, ac.logger),
		pace:    pace.NewController(s, c, ac.logger),
		queue:   queue.NewManager(s, c, ac.logger),
		out:     tui.NewOutput(cmd.OutOrStdout(), ac.flags.JSONMode()),
	}, nil
}

// builder assembles a plan builder over the chosen strategy.
func (ac *appContext) builder(d *deps, strategy allocate.Strategy) *plan.Builder {
	return plan.NewBuilder(d.store, d.tracker, d.pace, strategy, d.clock, ac.logger)
}

// slotStrategy is the default daily strategy.
func (ac *appContext) slotStrategy(d *deps) allocate.Strategy {
	return allocate.NewSlotAllocator(d.store, d.tracker, d.clock, ac.logger)
}

// timeStrategy is the minutes-budgeted strategy, tuned from config.
func (ac *appContext) timeStrategy(d *deps) allocate.Strategy {
	return allocate.NewTimeAllocator(d.store, d.clock, ac.logger, allocate.TimeOptions{
		HeavyCap:  ac.cfg.Planner.HeavyCap,
		MaxSlices: ac.cfg.Planner.MaxSlices,
		MinSlices: ac.cfg.Planner.MinSlices,
	})
}

// decomposer builds the goal decomposition service: the configured AI CLI
// when enabled, template-only otherwise.
func (ac *appContext) decomposer() *decompose.Decomposer {
	var runner decompose.Service
	if ac.cfg.AI.Enabled {
		runner = decompose.NewCLIRunner(decompose.RunnerOptions{
			Command: ac.cfg.AI.Command,
			Args:    ac.cfg.AI.Args,
			Timeout: ac.cfg.AI.Timeout,
		}, nil, ac.logger)
	}
	return decompose.NewDecomposer(runner, ac.logger)
}
