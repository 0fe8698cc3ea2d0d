package core

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone    ErrorCategory = iota // No error
	ErrCategoryLookup                       // Element or control not found
	ErrCategoryState                        // Element found but not in the required state (not scrollable, stale)
	ErrCategoryUsage                        // Precondition violated by the caller
	ErrCategoryDriver                       // Driver or script failure
	ErrCategoryConfig                       // Invalid configuration
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryLookup:
		return "lookup"
	case ErrCategoryState:
		return "state"
	case ErrCategoryUsage:
		return "usage"
	case ErrCategoryDriver:
		return "driver"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}
