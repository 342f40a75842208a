package types

import (
	"time"

	"github.com/google/uuid"
)

// Status is the terminal classification of one member's application workflow.
type Status string

const (
	// StatusApplied means the portal confirmed the application.
	StatusApplied Status = "applied"
	// StatusAlreadyApplied means the portal reported an existing application
	// for this member and issue. A successful no-op, not an error.
	StatusAlreadyApplied Status = "already_applied"
	// StatusAuthFailed means the portal rejected the member's credentials.
	StatusAuthFailed Status = "auth_failed"
	// StatusNoShares means no open issue was available to apply for.
	StatusNoShares Status = "no_shares_available"
	// StatusAborted means the workflow stopped before a business outcome:
	// cancellation, retry exhaustion, or a fatal stage failure.
	StatusAborted Status = "aborted"
	// StatusIndeterminate means the final submission was sent but no
	// confirmation was observed. The application may or may not exist on the
	// portal; the member must verify manually.
	StatusIndeterminate Status = "indeterminate"
)

// Succeeded reports whether the status counts as success for the process
// exit code. Indeterminate never does.
func (s Status) Succeeded() bool {
	return s == StatusApplied || s == StatusAlreadyApplied
}

// WorkflowOutcome is the per-member result recorded by the orchestrator.
type WorkflowOutcome struct {
	RunID      uuid.UUID     `json:"run_id"`
	Member     string        `json:"member"`
	Status     Status        `json:"status"`
	Message    string        `json:"message,omitempty"`
	StagesDone int           `json:"stages_done"`
	Elapsed    time.Duration `json:"elapsed"`
}

// ProgressEvent is emitted entering and leaving every workflow stage.
type ProgressEvent struct {
	Member     string  `json:"member"`
	RunID      string  `json:"run_id,omitempty"`
	Stage      string  `json:"stage"`
	StageIndex int     `json:"stage_index"`
	StageCount int     `json:"stage_count"`
	Message    string  `json:"message"`
	Percent    float64 `json:"percent"`
	Done       bool    `json:"done"`
}
