package workflow

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoirala/nepse-agent/internal/logger"
	"github.com/skoirala/nepse-agent/internal/types"
)

type countingCloser struct {
	n int32
}

func (c *countingCloser) Close() error {
	atomic.AddInt32(&c.n, 1)
	return nil
}

func workflowMember() types.MemberRecord {
	return types.MemberRecord{
		Name:           "Ram",
		DPID:           "13700",
		Username:       "01234567",
		Password:       "secret-pass",
		TransactionPIN: "4321",
		Kitta:          10,
		CRN:            "02-R00123456",
	}
}

// scripted returns a stage that replays the given results in order and
// counts its invocations.
func scripted(name string, calls *int32, results ...StageResult) Stage {
	var i int32
	return Stage{Name: name, Run: func(context.Context, Driver, types.MemberRecord) StageResult {
		atomic.AddInt32(calls, 1)
		idx := atomic.AddInt32(&i, 1) - 1
		if int(idx) >= len(results) {
			idx = int32(len(results) - 1)
		}
		return results[idx]
	}}
}

func okStage(name string, calls *int32) Stage {
	return scripted(name, calls, OK())
}

func newTestWorkflow(t *testing.T, stages []Stage) *Workflow {
	t.Helper()
	return New(Options{
		Stages:       stages,
		Log:          logger.NewTestLogger(t),
		StageTimeout: time.Second,
		RetryBound:   2,
		RetryBackoff: time.Millisecond,
	})
}

func TestRunAllStagesSucceed(t *testing.T) {
	var a, b, c int32
	closer := &countingCloser{}
	w := newTestWorkflow(t, []Stage{okStage("login", &a), okStage("select_form", &b), okStage("confirm", &c)})

	out := w.Run(context.Background(), nil, closer, workflowMember())

	assert.Equal(t, types.StatusApplied, out.Status)
	assert.Equal(t, 3, out.StagesDone)
	assert.Equal(t, "Ram", out.Member)
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, int32(1), closer.n)
	assert.Equal(t, int32(1), a)
	assert.Equal(t, int32(1), b)
	assert.Equal(t, int32(1), c)
}

func TestRunAlreadyAppliedIsTerminalWithoutRetry(t *testing.T) {
	var login, form, later int32
	stages := []Stage{
		okStage("login", &login),
		scripted("select_form", &form, Fatal(&BusinessStateError{Kind: AlreadyApplied, Message: "existing application"})),
		okStage("select_dp", &later),
	}
	w := newTestWorkflow(t, stages)

	out := w.Run(context.Background(), nil, &countingCloser{}, workflowMember())

	assert.Equal(t, types.StatusAlreadyApplied, out.Status)
	assert.Equal(t, 1, out.StagesDone)
	assert.Equal(t, int32(1), form, "business states are never retried")
	assert.Zero(t, later, "later stages must not run")
}

func TestRunAuthFailureNotRetried(t *testing.T) {
	var login int32
	stages := []Stage{
		scripted("login", &login, Fatal(&AuthenticationError{Member: "Ram", Message: "invalid username or password"})),
	}
	w := newTestWorkflow(t, stages)

	out := w.Run(context.Background(), nil, &countingCloser{}, workflowMember())

	assert.Equal(t, types.StatusAuthFailed, out.Status)
	assert.Equal(t, int32(1), login)
	assert.Zero(t, out.StagesDone)
}

func TestRunRetriesTransientThenSucceeds(t *testing.T) {
	var form int32
	stages := []Stage{
		scripted("select_form", &form,
			Retry(&TransientNavigationError{Op: "wait"}),
			Retry(&TransientNavigationError{Op: "wait"}),
			OK()),
	}
	w := newTestWorkflow(t, stages)

	out := w.Run(context.Background(), nil, &countingCloser{}, workflowMember())

	assert.Equal(t, types.StatusApplied, out.Status)
	assert.Equal(t, int32(3), form, "two retries then success")
}

func TestRunRetryExhaustionAborts(t *testing.T) {
	var form int32
	stages := []Stage{
		scripted("select_form", &form, Retry(&TransientNavigationError{Op: "wait"})),
	}
	closer := &countingCloser{}
	w := newTestWorkflow(t, stages)

	out := w.Run(context.Background(), nil, closer, workflowMember())

	assert.Equal(t, types.StatusAborted, out.Status)
	assert.Equal(t, int32(3), form, "initial attempt plus two retries")
	assert.Contains(t, out.Message, "select_form")
	assert.Equal(t, int32(1), closer.n)
}

func TestRunIndeterminateNeverSuccess(t *testing.T) {
	var confirm int32
	stages := []Stage{
		scripted("confirm_submit", &confirm, Fatal(&IndeterminateOutcomeError{Message: "no confirmation"})),
	}
	w := newTestWorkflow(t, stages)

	out := w.Run(context.Background(), nil, &countingCloser{}, workflowMember())

	assert.Equal(t, types.StatusIndeterminate, out.Status)
	assert.False(t, out.Status.Succeeded())
}

func TestRunPanicRetriedOnceThenFatal(t *testing.T) {
	t.Run("single panic recovers", func(t *testing.T) {
		var calls int32
		stage := Stage{Name: "login", Run: func(context.Context, Driver, types.MemberRecord) StageResult {
			if atomic.AddInt32(&calls, 1) == 1 {
				panic("selector gone")
			}
			return OK()
		}}
		w := newTestWorkflow(t, []Stage{stage})

		out := w.Run(context.Background(), nil, &countingCloser{}, workflowMember())
		assert.Equal(t, types.StatusApplied, out.Status)
		assert.Equal(t, int32(2), calls)
	})

	t.Run("second panic is fatal", func(t *testing.T) {
		var calls int32
		stage := Stage{Name: "login", Run: func(context.Context, Driver, types.MemberRecord) StageResult {
			atomic.AddInt32(&calls, 1)
			panic("selector gone")
		}}
		closer := &countingCloser{}
		w := newTestWorkflow(t, []Stage{stage})

		out := w.Run(context.Background(), nil, closer, workflowMember())
		assert.Equal(t, types.StatusAborted, out.Status)
		assert.Equal(t, int32(2), calls)
		assert.Equal(t, int32(1), closer.n, "session still closed after panics")
	})
}

func TestRunCancellationAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	stage := Stage{Name: "login", Run: func(ctx context.Context, _ Driver, _ types.MemberRecord) StageResult {
		atomic.AddInt32(&calls, 1)
		cancel()
		return Retry(&TransientNavigationError{Op: "wait", Cause: ctx.Err()})
	}}
	closer := &countingCloser{}
	w := newTestWorkflow(t, []Stage{stage})

	out := w.Run(ctx, nil, closer, workflowMember())

	assert.Equal(t, types.StatusAborted, out.Status)
	assert.Contains(t, out.Message, "cancelled")
	assert.Equal(t, int32(1), closer.n)
}

func TestRunInvalidMemberNeverTouchesPortal(t *testing.T) {
	var calls int32
	w := newTestWorkflow(t, []Stage{okStage("login", &calls)})

	bad := workflowMember()
	bad.TransactionPIN = "1"
	out := w.Run(context.Background(), nil, &countingCloser{}, bad)

	assert.Equal(t, types.StatusAborted, out.Status)
	assert.Zero(t, calls)
}

func TestRunEmitsProgressEvents(t *testing.T) {
	var events []types.ProgressEvent
	var a, b int32
	w := New(Options{
		Stages:       []Stage{okStage("login", &a), okStage("select_form", &b)},
		Reporter:     ReporterFunc(func(e types.ProgressEvent) { events = append(events, e) }),
		Log:          logger.NewTestLogger(t),
		StageTimeout: time.Second,
		RetryBackoff: time.Millisecond,
	})

	out := w.Run(context.Background(), nil, &countingCloser{}, workflowMember())
	require.Equal(t, types.StatusApplied, out.Status)

	// Entering and leaving each of the two stages, plus the terminal event.
	require.Len(t, events, 5)
	assert.Equal(t, 0.0, events[0].Percent)
	assert.Equal(t, 50.0, events[1].Percent)
	assert.Equal(t, 100.0, events[3].Percent)
	last := events[len(events)-1]
	assert.True(t, last.Done)
	assert.Equal(t, 100.0, last.Percent)
	for _, e := range events {
		assert.Equal(t, "Ram", e.Member)
		assert.Equal(t, 2, e.StageCount)
	}
}

func TestTerminalForClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.Status
	}{
		{"already applied", &BusinessStateError{Kind: AlreadyApplied}, types.StatusAlreadyApplied},
		{"no shares", &BusinessStateError{Kind: NoSharesAvailable}, types.StatusNoShares},
		{"auth", &AuthenticationError{Member: "Ram"}, types.StatusAuthFailed},
		{"indeterminate", &IndeterminateOutcomeError{Message: "x"}, types.StatusIndeterminate},
		{"cancelled", context.Canceled, types.StatusAborted},
		{"configuration", &ConfigurationError{Field: "dp_value"}, types.StatusAborted},
		{"plain", errors.New("boom"), types.StatusAborted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := terminalFor(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
