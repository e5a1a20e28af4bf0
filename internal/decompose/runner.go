package decompose

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/ctxutil"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
)

// CommandExecutor abstracts subprocess execution so tests can stub the AI
// CLI. The production implementation runs the command for real.
type CommandExecutor interface {
	// Execute runs the command and returns stdout, stderr, and any error.
	Execute(ctx context.Context, cmd *exec.Cmd) (stdout, stderr []byte, err error)
}

// DefaultExecutor runs commands with the operating system.
type DefaultExecutor struct{}

// Execute runs the command and captures its output.
func (e *DefaultExecutor) Execute(_ context.Context, cmd *exec.Cmd) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// RunnerOptions configures the CLI-backed decomposition runner.
type RunnerOptions struct {
	// Command is the AI CLI binary, e.g. "claude".
	Command string

	// Args precede the prompt on the command line.
	Args []string

	// Timeout bounds one invocation. Zero uses the default.
	Timeout time.Duration

	// MaxAttempts bounds invalid-response retries. Zero uses the default.
	MaxAttempts int
}

// withDefaults fills unset options.
func (o RunnerOptions) withDefaults() RunnerOptions {
	if o.Timeout <= 0 {
		o.Timeout = constants.DefaultDecomposeTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = constants.DecomposeMaxAttempts
	}
	return o
}

// CLIRunner invokes an external AI CLI to decompose goals. Responses must be
// a single JSON document matching the Breakdown shape; malformed or
// out-of-shape responses are retried up to MaxAttempts, then reported as
// ErrDecomposeFailed for the caller's fallback to absorb.
type CLIRunner struct {
	opts     RunnerOptions
	executor CommandExecutor
	logger   zerolog.Logger
}

// NewCLIRunner creates the subprocess-backed runner. A nil executor uses the
// real DefaultExecutor.
func NewCLIRunner(opts RunnerOptions, executor CommandExecutor, logger zerolog.Logger) *CLIRunner {
	if executor == nil {
		executor = &DefaultExecutor{}
	}
	return &CLIRunner{opts: opts.withDefaults(), executor: executor, logger: logger}
}

// Decompose invokes the CLI and validates its response.
func (r *CLIRunner) Decompose(ctx context.Context, goal *domain.Goal) (*Breakdown, error) {
	prompt := buildPrompt(goal)

	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, err
		}
		b, err := r.invoke(ctx, prompt)
		if err == nil {
			b.Source = "ai"
			return b, nil
		}
		lastErr = err
		r.logger.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", r.opts.MaxAttempts).
			Str("goal_id", goal.ID).
			Msg("decomposition attempt failed")
	}
	return nil, emberrors.Wrap(lastErr, emberrors.ErrDecomposeFailed.Error())
}

// invoke runs one CLI attempt.
func (r *CLIRunner) invoke(ctx context.Context, prompt string) (*Breakdown, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	args := append(append([]string{}, r.opts.Args...), prompt)
	cmd := exec.CommandContext(runCtx, r.opts.Command, args...) // #nosec G204 -- command comes from user config
	stdout, stderr, err := r.executor.Execute(runCtx, cmd)
	if err != nil {
		if len(stderr) > 0 {
			return nil, emberrors.Wrapf(err, "%s failed: %s", r.opts.Command, firstLine(stderr))
		}
		return nil, emberrors.Wrapf(err, "%s failed", r.opts.Command)
	}

	var b Breakdown
	if err := json.Unmarshal(extractJSON(stdout), &b); err != nil {
		return nil, emberrors.Wrap(err, "invalid JSON in decomposition response")
	}
	if err := Validate(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// extractJSON trims any prose surrounding the first top-level JSON object.
// AI CLIs sometimes wrap output in text or code fences despite instructions.
func extractJSON(out []byte) []byte {
	start := bytes.IndexByte(out, '{')
	end := bytes.LastIndexByte(out, '}')
	if start < 0 || end < start {
		return out
	}
	return out[start : end+1]
}

// firstLine returns the first non-empty line of output, for error messages.
func firstLine(out []byte) string {
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Ensure CLIRunner satisfies Service.
var _ Service = (*CLIRunner)(nil)
