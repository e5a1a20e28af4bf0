package decompose

import (
	"context"
	"encoding/json"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberflow/ember/internal/clock"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/domain"
	emberrors "github.com/emberflow/ember/internal/errors"
	"github.com/emberflow/ember/internal/testutil"
)

// mockExecutor replays canned responses, one per invocation.
type mockExecutor struct {
	responses []mockResponse
	calls     int
}

type mockResponse struct {
	stdout []byte
	stderr []byte
	err    error
}

func (m *mockExecutor) Execute(_ context.Context, _ *exec.Cmd) ([]byte, []byte, error) {
	if m.calls >= len(m.responses) {
		return nil, nil, assert.AnError
	}
	r := m.responses[m.calls]
	m.calls++
	return r.stdout, r.stderr, r.err
}

func testGoal() *domain.Goal {
	return &domain.Goal{ID: "goal-t", Title: "learn the piano", Status: constants.GoalStatusActive}
}

func validResponse(t *testing.T) []byte {
	t.Helper()
	b := Breakdown{Tasks: make([]TaskDraft, 3)}
	for i := range b.Tasks {
		b.Tasks[i] = TaskDraft{
			Title:                 "phase " + string(rune('1'+i)),
			EstimatedTotalMinutes: 60,
			Units: []UnitDraft{
				{Title: "do a thing", Kind: "practice", EstimatedMinutes: 30},
				{Title: "do another", Kind: "study", EstimatedMinutes: 30},
			},
		}
	}
	out, err := json.Marshal(b)
	require.NoError(t, err)
	return out
}

func TestCLIRunner_ValidResponse(t *testing.T) {
	t.Parallel()
	mock := &mockExecutor{responses: []mockResponse{{stdout: validResponse(t)}}}
	r := NewCLIRunner(RunnerOptions{Command: "claude"}, mock, zerolog.Nop())

	b, err := r.Decompose(context.Background(), testGoal())
	require.NoError(t, err)
	require.Len(t, b.Tasks, 3)
	assert.Equal(t, "ai", b.Source)
	assert.Equal(t, 1, mock.calls)
}

func TestCLIRunner_ProseWrappedJSON(t *testing.T) {
	t.Parallel()
	wrapped := append([]byte("Here is the breakdown:\n```json\n"), validResponse(t)...)
	wrapped = append(wrapped, []byte("\n```\nGood luck!")...)
	mock := &mockExecutor{responses: []mockResponse{{stdout: wrapped}}}
	r := NewCLIRunner(RunnerOptions{Command: "claude"}, mock, zerolog.Nop())

	b, err := r.Decompose(context.Background(), testGoal())
	require.NoError(t, err)
	assert.Len(t, b.Tasks, 3)
}

func TestCLIRunner_RetriesThenFails(t *testing.T) {
	t.Parallel()
	mock := &mockExecutor{responses: []mockResponse{
		{stdout: []byte("not json at all")},
		{stdout: []byte(`{"tasks": []}`)},
	}}
	r := NewCLIRunner(RunnerOptions{Command: "claude"}, mock, zerolog.Nop())

	_, err := r.Decompose(context.Background(), testGoal())
	require.Error(t, err)
	assert.Equal(t, constants.DecomposeMaxAttempts, mock.calls)
}

func TestCLIRunner_RecoversOnSecondAttempt(t *testing.T) {
	t.Parallel()
	mock := &mockExecutor{responses: []mockResponse{
		{err: assert.AnError, stderr: []byte("rate limited")},
		{stdout: validResponse(t)},
	}}
	r := NewCLIRunner(RunnerOptions{Command: "claude"}, mock, zerolog.Nop())

	b, err := r.Decompose(context.Background(), testGoal())
	require.NoError(t, err)
	assert.Len(t, b.Tasks, 3)
	assert.Equal(t, 2, mock.calls)
}

func TestDecomposer_FallsBackToTemplate(t *testing.T) {
	t.Parallel()

	t.Run("runner failure", func(t *testing.T) {
		t.Parallel()
		mock := &mockExecutor{responses: []mockResponse{
			{err: assert.AnError}, {err: assert.AnError},
		}}
		runner := NewCLIRunner(RunnerOptions{Command: "claude"}, mock, zerolog.Nop())
		d := NewDecomposer(runner, zerolog.Nop())

		b, err := d.Decompose(context.Background(), testGoal())
		require.NoError(t, err, "backend failure never reaches the user")
		assert.Equal(t, "template", b.Source)
		require.NoError(t, Validate(b), "the template satisfies its own shape rules")
	})

	t.Run("no runner configured", func(t *testing.T) {
		t.Parallel()
		d := NewDecomposer(nil, zerolog.Nop())
		b, err := d.Decompose(context.Background(), testGoal())
		require.NoError(t, err)
		assert.Equal(t, "template", b.Source)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *Breakdown {
		var b Breakdown
		require.NoError(t, json.Unmarshal(validResponse(t), &b))
		return &b
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(base()))
	})
	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, Validate(nil), emberrors.ErrInvalidBreakdown)
	})
	t.Run("too few tasks", func(t *testing.T) {
		b := base()
		b.Tasks = b.Tasks[:1]
		assert.ErrorIs(t, Validate(b), emberrors.ErrInvalidBreakdown)
	})
	t.Run("too many tasks", func(t *testing.T) {
		b := base()
		for len(b.Tasks) <= constants.DecomposeMaxTasks {
			b.Tasks = append(b.Tasks, b.Tasks[0])
		}
		assert.ErrorIs(t, Validate(b), emberrors.ErrInvalidBreakdown)
	})
	t.Run("task without units", func(t *testing.T) {
		b := base()
		b.Tasks[1].Units = nil
		assert.ErrorIs(t, Validate(b), emberrors.ErrInvalidBreakdown)
	})
	t.Run("zero minute unit", func(t *testing.T) {
		b := base()
		b.Tasks[2].Units[0].EstimatedMinutes = 0
		assert.ErrorIs(t, Validate(b), emberrors.ErrInvalidBreakdown)
	})
	t.Run("untitled task", func(t *testing.T) {
		b := base()
		b.Tasks[0].Title = "  "
		assert.ErrorIs(t, Validate(b), emberrors.ErrInvalidBreakdown)
	})
}

func TestApply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := testutil.TempStore(t)
	c := clock.At(testutil.BaseTime)

	goal := testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-a", Title: "learn the piano"})
	b := TemplateBreakdown(goal)

	created, err := Apply(ctx, s, c, goal, b)
	require.NoError(t, err)
	require.Len(t, created, len(b.Tasks))

	tasks, err := s.ListTasksByGoal(ctx, goal.ID)
	require.NoError(t, err)
	require.Len(t, tasks, len(b.Tasks))
	for i, task := range tasks {
		assert.Equal(t, i, task.Order)
		assert.Equal(t, b.Tasks[i].Title, task.Title)

		units, err := s.ListWorkUnitsByTask(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, units, len(b.Tasks[i].Units))
		for j, unit := range units {
			assert.Equal(t, b.Tasks[i].Units[j].Title, unit.Title, "unit insertion order survives the store")
		}
	}

	// A second breakdown appends after the existing tasks.
	more, err := Apply(ctx, s, c, goal, b)
	require.NoError(t, err)
	assert.Equal(t, len(b.Tasks), more[0].Order)
}

func TestApply_RejectsInvalid(t *testing.T) {
	t.Parallel()
	s := testutil.TempStore(t)
	goal := testutil.SeedGoal(t, s, testutil.GoalSpec{ID: "goal-bad"})

	_, err := Apply(context.Background(), s, clock.At(testutil.BaseTime), goal, &Breakdown{})
	assert.ErrorIs(t, err, emberrors.ErrInvalidBreakdown)
}
