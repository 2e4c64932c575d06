package directory

import "errors"

var (
	ErrNotFound       = errors.New("employee not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrIDSpaceBusy    = errors.New("employee id generation exhausted retries")
)
