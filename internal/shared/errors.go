package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig     = fmt.Errorf("configuration not found")
	ErrInvalidConfig     = fmt.Errorf("invalid configuration")
	ErrUnsupportedDriver = fmt.Errorf("unsupported database driver")

	// Persistence errors
	ErrPoolExhausted    = fmt.Errorf("connection pool exhausted")
	ErrPoolClosed       = fmt.Errorf("connection pool closed")
	ErrUnknownProcedure = fmt.Errorf("unknown procedure")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRateLimited        = fmt.Errorf("rate limit exceeded")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
