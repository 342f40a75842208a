// Package orchestrator fans application workflows out over household members
// and aggregates their outcomes.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/skoirala/nepse-agent/internal/types"
)

// Runner executes one member's workflow to a terminal outcome. The
// production implementation owns a browser session per call; tests
// substitute fakes.
type Runner interface {
	Run(ctx context.Context, m types.MemberRecord) types.WorkflowOutcome
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, m types.MemberRecord) types.WorkflowOutcome

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, m types.MemberRecord) types.WorkflowOutcome {
	return f(ctx, m)
}

// Report aggregates every member's terminal outcome. Each requested member
// appears exactly once.
type Report struct {
	Outcomes []types.WorkflowOutcome
}

// Counts tallies outcomes per status.
func (r Report) Counts() map[types.Status]int {
	counts := make(map[types.Status]int, len(r.Outcomes))
	for _, o := range r.Outcomes {
		counts[o.Status]++
	}
	return counts
}

// AllSucceeded reports whether every workflow ended applied or
// already-applied. This decides the process exit status.
func (r Report) AllSucceeded() bool {
	if len(r.Outcomes) == 0 {
		return false
	}
	for _, o := range r.Outcomes {
		if !o.Status.Succeeded() {
			return false
		}
	}
	return true
}

// RunSequential runs one workflow at a time, outcomes in member order.
// Cancellation marks the remaining members aborted without starting them.
func RunSequential(ctx context.Context, r Runner, members []types.MemberRecord) Report {
	report := Report{Outcomes: make([]types.WorkflowOutcome, 0, len(members))}
	for _, m := range members {
		if ctx.Err() != nil {
			report.Outcomes = append(report.Outcomes, abortedOutcome(m, "cancelled before start"))
			continue
		}
		report.Outcomes = append(report.Outcomes, safeRun(ctx, r, m))
	}
	return report
}

// RunConcurrent runs every member's workflow at once, one session each.
// A failure or panic in one workflow never aborts its siblings; outcomes
// come back in member order regardless of finish order.
func RunConcurrent(ctx context.Context, r Runner, members []types.MemberRecord) Report {
	outcomes := make([]types.WorkflowOutcome, len(members))

	var g errgroup.Group
	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			outcomes[i] = safeRun(ctx, r, m)
			return nil
		})
	}
	_ = g.Wait()

	return Report{Outcomes: outcomes}
}

// safeRun converts a panicking workflow into that member's aborted outcome.
func safeRun(ctx context.Context, r Runner, m types.MemberRecord) (out types.WorkflowOutcome) {
	defer func() {
		if p := recover(); p != nil {
			out = abortedOutcome(m, fmt.Sprintf("workflow panicked: %v", p))
		}
	}()
	return r.Run(ctx, m)
}

func abortedOutcome(m types.MemberRecord, message string) types.WorkflowOutcome {
	return types.WorkflowOutcome{
		RunID:   uuid.New(),
		Member:  m.Name,
		Status:  types.StatusAborted,
		Message: message,
	}
}
