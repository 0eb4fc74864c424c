package backend

import "errors"

// Sentinel errors returned by the backend client. Callers match them with
// errors.Is; the session layer normalizes them into its own taxonomy.
var (
	ErrUnavailable        = errors.New("backend unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrNotFound           = errors.New("not found")
)
