// Package tutorial runs the two walkthroughs as ordered, logged steps.
//
// Each step prints a "== name ==" header and its output to the writer given
// to RunSteps. A step may declare the error it is expected to fail with; such
// failures are printed and the run moves on, every other error stops it.
package tutorial

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/scigo-labs/pkg/errors"
	"github.com/YuminosukeSato/scigo-labs/pkg/log"
)

type runIDKey struct{}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID stores id in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFrom returns the run ID stored in ctx, or "" when there is none.
func RunIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// Step is one unit of a walkthrough.
type Step struct {
	Name string
	Run  func(ctx context.Context, w io.Writer) error
	// Expect reports whether err is the failure this step demonstrates.
	// nil means any error is fatal.
	Expect func(err error) bool
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name     string
	Err      error
	Expected bool
	Duration time.Duration
}

// Report summarizes a finished run.
type Report struct {
	RunID   string
	Steps   []StepResult
	Outputs []string
}

// AddOutput records a file written by the run.
func (r *Report) AddOutput(path string) {
	r.Outputs = append(r.Outputs, path)
}

// Failed returns the steps that ended with an error.
func (r *Report) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Expect matches errors whose chain contains a T.
//
//	Step{Name: "loc_negative", Run: ..., Expect: tutorial.Expect[*errors.KeyError]()}
func Expect[T error]() func(error) bool {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// RunSteps executes steps in order and appends their results to report.
// ctx is checked before every step. A panicking step fails with a
// *errors.PanicError.
func RunSteps(ctx context.Context, logger log.Logger, w io.Writer, report *Report, steps []Step) error {
	if report.RunID == "" {
		report.RunID = RunIDFrom(ctx)
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "before step %q", step.Name)
		}

		fmt.Fprintf(w, "== %s ==\n", step.Name)
		start := time.Now()
		err := errors.SafeExecute("step "+step.Name, func() error {
			return step.Run(ctx, w)
		})
		res := StepResult{Name: step.Name, Err: err, Duration: time.Since(start)}

		switch {
		case err == nil:
			logger.Debug("Step finished",
				log.StepKey, step.Name,
				log.DurationMsKey, res.Duration.Milliseconds(),
			)
		case step.Expect != nil && step.Expect(err):
			res.Expected = true
			fmt.Fprintf(w, "error: %v\n", err)
			logger.Info("Step failed as expected",
				err,
				log.StepKey, step.Name,
				log.ErrorTypeKey, fmt.Sprintf("%T", errors.UnwrapAll(err)),
			)
		default:
			report.Steps = append(report.Steps, res)
			logger.Error("Step failed", err, log.StepKey, step.Name)
			return errors.Wrapf(err, "step %q", step.Name)
		}
		report.Steps = append(report.Steps, res)
		fmt.Fprintln(w)
	}
	return nil
}

// Print writes v followed by a newline. Values with a String method use it.
func Print(w io.Writer, v interface{}) error {
	_, err := fmt.Fprintln(w, v)
	return err
}
