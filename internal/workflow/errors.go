package workflow

import "fmt"

// retryable is implemented by errors that a stage may recover from by
// re-running. Everything else aborts the workflow.
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err asks for the stage to be re-entered.
func IsRetryable(err error) bool {
	if r, ok := err.(retryable); ok {
		return r.Retryable()
	}
	return false
}

// AuthenticationError means the portal rejected the member's credentials.
// Never retried: repeating a bad password only risks an account lockout.
type AuthenticationError struct {
	Member  string
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %s", e.Member, e.Message)
}

func (e *AuthenticationError) Retryable() bool { return false }

// ConfigurationError means the stored record does not match what the portal
// rendered (unknown DP id, rejected CRN). Fixing the record is the remedy,
// not retrying.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Field, e.Message)
}

func (e *ConfigurationError) Retryable() bool { return false }

// BusinessKind distinguishes portal-reported business states.
type BusinessKind string

const (
	// AlreadyApplied: the portal shows an existing application for this
	// member and issue. Terminal, and not a failure.
	AlreadyApplied BusinessKind = "already_applied"
	// NoSharesAvailable: no open issue to apply for.
	NoSharesAvailable BusinessKind = "no_shares_available"
)

// BusinessStateError carries a state the portal reported about the
// application itself rather than about the automation.
type BusinessStateError struct {
	Kind    BusinessKind
	Message string
}

func (e *BusinessStateError) Error() string {
	return fmt.Sprintf("portal state %s: %s", e.Kind, e.Message)
}

func (e *BusinessStateError) Retryable() bool { return false }

// TransientNavigationError covers timeouts, slow renders, and flaky
// navigation. Retried within the stage budget.
type TransientNavigationError struct {
	Op    string
	Cause error
}

func (e *TransientNavigationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("navigation failed during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("navigation failed during %s", e.Op)
}

func (e *TransientNavigationError) Unwrap() error { return e.Cause }

func (e *TransientNavigationError) Retryable() bool { return true }

// IndeterminateOutcomeError means the final submission was sent but no
// confirmation was observed. Retrying could double-submit, and the outcome
// must never be reported as success.
type IndeterminateOutcomeError struct {
	Message string
}

func (e *IndeterminateOutcomeError) Error() string {
	return fmt.Sprintf("submission outcome unknown: %s", e.Message)
}

func (e *IndeterminateOutcomeError) Retryable() bool { return false }
