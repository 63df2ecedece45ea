package registry

import "fmt"

// NotFoundError returns a new ErrNotFound.
func NotFoundError(name string) error {
	return ErrNotFound{name}
}

// ErrNotFound is the error returned when the requested flow is not
// registered. Distinct from other failures so callers can map it to a
// "unknown flow" outcome.
type ErrNotFound struct {
	name string
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("unknown flow: %s", err.name)
}

// IsNotFound returns true if the given error is an ErrNotFound.
func IsNotFound(err error) bool {
	_, isNotFound := err.(ErrNotFound)
	return isNotFound
}
