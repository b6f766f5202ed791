package apperrors

import "errors"

// Sentinel errors for the failure cases the API distinguishes. Services wrap
// these with fmt.Errorf("...: %w", ...) and handlers match with errors.Is.
var (
	// ErrDataUnavailable means the health sample store has no data for the
	// requested range, or access to it was denied.
	ErrDataUnavailable = errors.New("health data unavailable")

	// ErrUnsupportedInterval means the requested bucketing granularity is not
	// one of hour/day/month.
	ErrUnsupportedInterval = errors.New("unsupported interval")

	// ErrAlreadyActive means the user already holds an active instance of the
	// challenge template they tried to join.
	ErrAlreadyActive = errors.New("challenge already active")

	// ErrRemoteRead / ErrRemoteWrite wrap document store I/O failures.
	ErrRemoteRead  = errors.New("remote read failed")
	ErrRemoteWrite = errors.New("remote write failed")

	// ErrAuthenticationRequired means no signed-in user was found on the request.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrNotFound means the referenced document does not exist.
	ErrNotFound = errors.New("not found")
)
