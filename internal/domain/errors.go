package domain

import "errors"

// Error kinds shared by every boundary. Component errors wrap one of these so
// callers can classify with errors.Is.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrMalformedEvent = errors.New("malformed event")
	ErrNotFound       = errors.New("not found")
)
