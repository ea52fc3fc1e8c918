// errors/policy_errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrPolicyNotLoaded   = errors.New("no policy document loaded")
	ErrInvalidPolicyData = errors.New("invalid policy data")
	ErrInvalidContext    = errors.New("invalid evaluation context")
	ErrCacheOperation    = errors.New("cache operation failed")
	ErrAuditOperation    = errors.New("audit operation failed")
	ErrInternalServer    = errors.New("internal server error")
)

// Error codes carried on ValidationError, matching the wire-level codes
// the protocol assigns to policy document rejection.
const (
	CodeInvalidPolicy        = "E_INVALID_POLICY"
	CodeInvalidPolicyVersion = "E_INVALID_POLICY_VERSION"
	CodeInvalidPolicyEnum    = "E_INVALID_POLICY_ENUM"
)

// ValidationError reports a policy document that failed validation.
type ValidationError struct {
	Code    string
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
