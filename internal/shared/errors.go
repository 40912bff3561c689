package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication and token errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidGrant     = fmt.Errorf("invalid authorization grant")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")
	ErrStateMismatch    = fmt.Errorf("state parameter mismatch")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Storage errors
	ErrRepository = fmt.Errorf("repository error")
	ErrNotFound   = fmt.Errorf("record not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
