// errors/purpose_errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPurposeToken = errors.New("invalid purpose token")
	ErrReservedPurpose     = errors.New("reserved purpose token sent on the wire")
)

// CodeUnknownProfile is the error code for an enforcement profile lookup miss.
const CodeUnknownProfile = "E_UNKNOWN_PROFILE"

// UnknownProfileError reports a lookup of an enforcement profile id that
// does not exist. Lookup misses are hard failures, never a fallback to the
// default profile.
type UnknownProfileError struct {
	ID string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("%s: unknown enforcement profile: %q", CodeUnknownProfile, e.ID)
}
