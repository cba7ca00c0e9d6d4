package negotiator

import (
	"fmt"
	"strings"
)

// AttemptError captures one identity's failure.
type AttemptError struct {
	Identity string
	Err      error
}

// AllIdentitiesFailedError is returned when no identity produced a
// usable player response. Attempts preserve trial order, so the last
// entry is the last identity's diagnostic.
type AllIdentitiesFailedError struct {
	Attempts []AttemptError
}

func (e *AllIdentitiesFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all identities failed"
	}
	last := e.Attempts[len(e.Attempts)-1]
	return fmt.Sprintf("all identities failed after %d attempt(s), last (%s): %v",
		len(e.Attempts), last.Identity, last.Err)
}

// Last returns the final identity's failure.
func (e *AllIdentitiesFailedError) Last() AttemptError {
	if len(e.Attempts) == 0 {
		return AttemptError{}
	}
	return e.Attempts[len(e.Attempts)-1]
}

// HTTPStatusError indicates a non-200 player endpoint response.
type HTTPStatusError struct {
	Identity   string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("player endpoint status=%d identity=%s", e.StatusCode, e.Identity)
}

// PlayabilityError indicates the payload decoded but the platform
// declined playback for this identity.
type PlayabilityError struct {
	Identity string
	Status   string
	Reason   string
}

func (e *PlayabilityError) Error() string {
	return fmt.Sprintf("unplayable status=%s identity=%s reason=%s", e.Status, e.Identity, e.Reason)
}

func (e *PlayabilityError) text() string {
	return strings.ToUpper(e.Status + " " + e.Reason)
}

func (e *PlayabilityError) RequiresLogin() bool {
	s := e.text()
	return strings.Contains(s, "LOGIN") || strings.Contains(s, "SIGN IN")
}

func (e *PlayabilityError) IsAgeRestricted() bool {
	return strings.Contains(e.text(), "AGE")
}

func (e *PlayabilityError) IsGeoRestricted() bool {
	s := e.text()
	return strings.Contains(s, "COUNTRY") ||
		strings.Contains(s, "REGION") ||
		strings.Contains(s, "LOCATION")
}

func (e *PlayabilityError) IsUnavailable() bool {
	s := e.text()
	return strings.Contains(s, "UNAVAILABLE") ||
		strings.Contains(s, "PRIVATE") ||
		strings.Contains(s, "DELETED")
}

// IsRestricted reports an explicit platform-side block, as opposed to
// a generic extraction failure.
func (e *PlayabilityError) IsRestricted() bool {
	return e.RequiresLogin() || e.IsAgeRestricted() || e.IsGeoRestricted() || e.IsUnavailable()
}
