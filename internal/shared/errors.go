package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrTokenExpired = fmt.Errorf("access token expired")

	// API and catalog errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrTrackNotFound     = fmt.Errorf("track not found")
	ErrMalformedResponse = fmt.Errorf("malformed API response")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
