// Package types holds the shared value types passed between the store, the
// workflow engine, and the CLI.
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MemberRecord holds one household member's Meroshare identity and the
// application parameters used when applying for an issue. Records are passed
// by value into workflows and are never mutated by the engine.
type MemberRecord struct {
	Name           string `json:"name" validate:"required"`
	DPID           string `json:"dp_value" validate:"required,numeric"`
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required"`
	TransactionPIN string `json:"transaction_pin" validate:"required,numeric,len=4"`
	Kitta          int    `json:"applied_kitta" validate:"required,gte=10"`
	CRN            string `json:"crn_number" validate:"required"`
}

// ValidationError reports which member failed validation and why.
type ValidationError struct {
	Member string
	Cause  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid member record %q: %v", e.Member, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Validate checks the record against its field constraints. It is called
// before any workflow starts so a bad record never reaches the portal.
func (m MemberRecord) Validate() error {
	if err := validate.Struct(m); err != nil {
		return &ValidationError{Member: m.Name, Cause: err}
	}
	return nil
}
