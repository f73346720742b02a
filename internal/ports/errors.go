package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure errors with these values so callers can use errors.Is.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Price Source Errors
	ErrPriceUnavailable     = errors.New("no price available for ticker")
	ErrConnectionFailed     = errors.New("failed to connect to the price source")
	ErrRateLimited          = errors.New("price source rate limit exceeded")
	ErrAuthenticationFailed = errors.New("price source authentication failed (check API keys)")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrDeleteFailed = errors.New("database delete failed")
)
