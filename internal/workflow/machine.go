package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/skoirala/nepse-agent/internal/logger"
	"github.com/skoirala/nepse-agent/internal/types"
)

// Options configures one Workflow.
type Options struct {
	// Stages run in order. Defaults to nothing; callers pass Portal.Stages()
	// in production and scripted stages in tests.
	Stages []Stage
	// Reporter receives progress events. Defaults to a no-op.
	Reporter Reporter
	// Log receives stage-level diagnostics. Defaults to a no-op.
	Log logger.Logger
	// StageTimeout bounds each stage attempt.
	StageTimeout time.Duration
	// RetryBound is the number of extra attempts after a retryable failure.
	RetryBound int
	// RetryBackoff is the pause before re-entering a failed stage.
	RetryBackoff time.Duration
}

// Workflow runs the staged application for a single member.
type Workflow struct {
	stages   []Stage
	reporter Reporter
	log      logger.Logger
	timeout  time.Duration
	retries  int
	backoff  time.Duration
}

// New builds a Workflow, filling unset options with defaults.
func New(opts Options) *Workflow {
	w := &Workflow{
		stages:   opts.Stages,
		reporter: opts.Reporter,
		log:      opts.Log,
		timeout:  opts.StageTimeout,
		retries:  opts.RetryBound,
		backoff:  opts.RetryBackoff,
	}
	if w.reporter == nil {
		w.reporter = NopReporter()
	}
	if w.log == nil {
		w.log = logger.NewNop()
	}
	if w.timeout <= 0 {
		w.timeout = 45 * time.Second
	}
	if w.backoff <= 0 {
		w.backoff = 500 * time.Millisecond
	}
	return w
}

// Run drives the member through every stage and returns the terminal
// outcome. The session is closed exactly once on every terminal path,
// panics included.
func (w *Workflow) Run(ctx context.Context, d Driver, session io.Closer, m types.MemberRecord) types.WorkflowOutcome {
	runID := uuid.New()
	start := time.Now()
	log := w.log.WithFields(map[string]interface{}{"member": m.Name, "run_id": runID.String()})

	defer func() {
		if session != nil {
			_ = session.Close()
		}
	}()

	outcome := types.WorkflowOutcome{RunID: runID, Member: m.Name}
	finish := func(status types.Status, message string, done int) types.WorkflowOutcome {
		outcome.Status = status
		outcome.Message = message
		outcome.StagesDone = done
		outcome.Elapsed = time.Since(start)
		w.emit(m.Name, runID, len(w.stages), done, string(status), true)
		log.Info("workflow finished", map[string]interface{}{
			"status": status, "stages_done": done, "elapsed": outcome.Elapsed.String(),
		})
		return outcome
	}

	if err := m.Validate(); err != nil {
		return finish(types.StatusAborted, err.Error(), 0)
	}

	total := len(w.stages)
	for i, stage := range w.stages {
		attempts := 0
		panicked := false

		for {
			if err := ctx.Err(); err != nil {
				return finish(types.StatusAborted, "cancelled before "+stage.Name, i)
			}

			w.emit(m.Name, runID, total, i, "entering "+stage.Name, false)
			log.Debug("stage attempt", map[string]interface{}{
				"stage": stage.Name, "attempt": attempts + 1,
			})

			res := w.runStage(ctx, stage, d, m, &panicked)

			if res.Status == StageOK {
				w.emit(m.Name, runID, total, i+1, "completed "+stage.Name, false)
				break
			}

			if res.Status == StageFatal {
				status, message := terminalFor(res.Err)
				if status == types.StatusAborted {
					message = stage.Name + ": " + message
				}
				return finish(status, message, i)
			}

			// Retryable. Cancellation beats the retry budget.
			if errors.Is(res.Err, context.Canceled) || ctx.Err() != nil {
				return finish(types.StatusAborted, "cancelled during "+stage.Name, i)
			}
			attempts++
			if attempts > w.retries {
				return finish(types.StatusAborted,
					fmt.Sprintf("%s failed after %d attempts: %v", stage.Name, attempts, res.Err), i)
			}

			log.Warn("stage retrying", map[string]interface{}{
				"stage": stage.Name, "attempt": attempts, "error": res.Err.Error(),
			})
			select {
			case <-ctx.Done():
				return finish(types.StatusAborted, "cancelled during "+stage.Name, i)
			case <-time.After(w.backoff):
			}
		}
	}

	return finish(types.StatusApplied, "application confirmed", total)
}

// runStage runs one attempt under the stage timeout, containing panics. The
// first panic in a stage counts as retryable, a second is fatal.
func (w *Workflow) runStage(ctx context.Context, stage Stage, d Driver, m types.MemberRecord, panicked *bool) (res StageResult) {
	stageCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("stage %s panicked: %v", stage.Name, r)
			w.log.Error("stage panic recovered", map[string]interface{}{
				"member": m.Name, "stage": stage.Name, "panic": fmt.Sprint(r),
			})
			if *panicked {
				res = Fatal(err)
				return
			}
			*panicked = true
			res = Retry(err)
		}
	}()

	return stage.Run(stageCtx, d, m)
}

// terminalFor maps a fatal stage error to the outcome status and message.
func terminalFor(err error) (types.Status, string) {
	var biz *BusinessStateError
	if errors.As(err, &biz) {
		switch biz.Kind {
		case AlreadyApplied:
			return types.StatusAlreadyApplied, biz.Message
		case NoSharesAvailable:
			return types.StatusNoShares, biz.Message
		}
	}
	var auth *AuthenticationError
	if errors.As(err, &auth) {
		return types.StatusAuthFailed, auth.Error()
	}
	var ind *IndeterminateOutcomeError
	if errors.As(err, &ind) {
		return types.StatusIndeterminate, ind.Message
	}
	if errors.Is(err, context.Canceled) {
		return types.StatusAborted, "cancelled"
	}
	if err == nil {
		return types.StatusAborted, "stage failed"
	}
	return types.StatusAborted, err.Error()
}

func (w *Workflow) emit(member string, runID uuid.UUID, total, done int, message string, terminal bool) {
	percent := 100.0
	if total > 0 {
		percent = float64(done) / float64(total) * 100
	}
	stage := ""
	if done < total && done >= 0 && len(w.stages) == total && total > 0 {
		stage = w.stages[min(done, total-1)].Name
	}
	w.reporter.Report(types.ProgressEvent{
		Member:     member,
		RunID:      runID.String(),
		Stage:      stage,
		StageIndex: done,
		StageCount: total,
		Message:    message,
		Percent:    percent,
		Done:       terminal,
	})
}
