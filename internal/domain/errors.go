package domain

import "errors"

// Error kinds shared across services. Services wrap these with context via
// fmt.Errorf("...: %w", ...); the HTTP layer maps them to status codes with
// errors.Is.
var (
	// ErrNotAuthorized means the caller does not own the target resource
	// or presented invalid credentials.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidArgument means a request field is missing or out of range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means the referenced job, application, user, or company
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness invariant would be violated, such as
	// a second application for the same (user, job) pair.
	ErrConflict = errors.New("conflict")

	// ErrUpstreamUnavailable means an outbound dependency (scorer, mail
	// transport) failed. Batch operations log it per item and continue.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
