package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Credential lifecycle errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidGrant     = fmt.Errorf("authorization code rejected")
	ErrRequestFailed    = fmt.Errorf("token request failed")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")

	// API and service errors
	ErrAPIRequest = fmt.Errorf("API request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
