package workflow

import (
	"context"

	"github.com/skoirala/nepse-agent/internal/types"
)

// StageStatus tags how a stage attempt ended.
type StageStatus int

const (
	// StageOK: the stage completed and the workflow advances.
	StageOK StageStatus = iota
	// StageRetry: a transient failure; the stage may be re-entered within
	// the retry budget.
	StageRetry
	// StageFatal: the workflow stops here. The error decides the outcome
	// status.
	StageFatal
)

// StageResult is the single return value of a stage attempt.
type StageResult struct {
	Status StageStatus
	Err    error
}

// OK reports a completed stage.
func OK() StageResult {
	return StageResult{Status: StageOK}
}

// Retry reports a transient failure.
func Retry(err error) StageResult {
	return StageResult{Status: StageRetry, Err: err}
}

// Fatal reports a terminal failure.
func Fatal(err error) StageResult {
	return StageResult{Status: StageFatal, Err: err}
}

// FromError classifies err by its type: nil is OK, retryable errors ask for
// a retry, everything else is fatal.
func FromError(err error) StageResult {
	switch {
	case err == nil:
		return OK()
	case IsRetryable(err):
		return Retry(err)
	default:
		return Fatal(err)
	}
}

// StageFunc runs one stage against the portal.
type StageFunc func(ctx context.Context, d Driver, m types.MemberRecord) StageResult

// Stage pairs a stage with its display name, in workflow order.
type Stage struct {
	Name string
	Run  StageFunc
}
