package client

import "fmt"

// HTTPError is an HTTP Error.
type HTTPError struct {
	Message interface{} `json:"message"`
}

func (err HTTPError) Error() string {
	return fmt.Sprintf("%v", err.Message)
}

// ErrNotFound is the error returned when the requested flow is not known to
// the server.
type ErrNotFound struct {
	what string
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", err.what)
}

// IsNotFound returns true if the given error is an ErrNotFound.
func IsNotFound(err error) bool {
	_, isNotFound := err.(ErrNotFound)
	return isNotFound
}
