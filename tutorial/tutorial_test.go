package tutorial

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

func TestRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())

	ctx := WithRunID(context.Background(), id)
	assert.Equal(t, id, RunIDFrom(ctx))
	assert.Empty(t, RunIDFrom(context.Background()))
}

func TestExpect(t *testing.T) {
	keyErr := errors.Wrap(&errors.KeyError{Op: "Loc", Label: "-1"}, "lookup")

	assert.True(t, Expect[*errors.KeyError]()(keyErr))
	assert.False(t, Expect[*errors.IndexError]()(keyErr))
	assert.False(t, Expect[*errors.KeyError]()(errors.New("plain")))
}

func TestRunSteps(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	var out bytes.Buffer
	var ran []string

	steps := []Step{
		{Name: "first", Run: func(_ context.Context, w io.Writer) error {
			ran = append(ran, "first")
			return Print(w, "hello")
		}},
		{
			Name: "expected",
			Run: func(context.Context, io.Writer) error {
				ran = append(ran, "expected")
				return &errors.KeyError{Op: "Loc", Label: "-1"}
			},
			Expect: Expect[*errors.KeyError](),
		},
		{Name: "last", Run: func(context.Context, io.Writer) error {
			ran = append(ran, "last")
			return nil
		}},
	}

	ctx := WithRunID(context.Background(), "run-1")
	report := &Report{}
	require.NoError(t, RunSteps(ctx, logger, &out, report, steps))

	assert.Equal(t, []string{"first", "expected", "last"}, ran)
	assert.Equal(t, "run-1", report.RunID)
	require.Len(t, report.Steps, 3)
	assert.True(t, report.Steps[1].Expected)
	assert.Len(t, report.Failed(), 1)

	text := out.String()
	assert.Contains(t, text, "== first ==\nhello\n")
	assert.Contains(t, text, "== expected ==\nerror: ")
	assert.True(t, logger.ContainsField(log.StepKey, "expected"))
	assert.True(t, logger.ContainsMessage("Step failed as expected"))
}

func TestRunSteps_UnexpectedErrorStops(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	boom := errors.New("boom")
	called := false

	steps := []Step{
		{
			Name:   "fails",
			Run:    func(context.Context, io.Writer) error { return boom },
			Expect: Expect[*errors.KeyError](),
		},
		{Name: "never", Run: func(context.Context, io.Writer) error {
			called = true
			return nil
		}},
	}

	report := &Report{}
	err := RunSteps(context.Background(), logger, io.Discard, report, steps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, called)
	require.Len(t, report.Steps, 1)
	assert.False(t, report.Steps[0].Expected)
	assert.True(t, logger.ContainsMessage("Step failed"))
}

func TestRunSteps_PanicBecomesError(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	steps := []Step{
		{Name: "panics", Run: func(context.Context, io.Writer) error {
			panic("index out of range")
		}},
	}

	report := &Report{}
	err := RunSteps(context.Background(), logger, io.Discard, report, steps)
	require.Error(t, err)

	var pe *errors.PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "step panics", pe.Operation)
	require.Len(t, report.Steps, 1)
	assert.False(t, report.Steps[0].Expected)
}

func TestRunSteps_Cancelled(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	steps := []Step{{Name: "skipped", Run: func(context.Context, io.Writer) error {
		t.Fatal("step must not run")
		return nil
	}}}
	err := RunSteps(ctx, logger, io.Discard, &Report{}, steps)
	assert.True(t, errors.Is(err, context.Canceled))
}
