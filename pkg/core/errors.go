package core

import (
	"fmt"
	"sort"
	"strings"
)

// ControlError is a structured error raised by a page-object control.
type ControlError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: element_not_found, not_scrollable, etc.
	Control  string                 // Name of the control that raised it
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context (ordinals, locator)
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *ControlError) Error() string {
	var b strings.Builder
	if e.Control != "" {
		b.WriteString(e.Control)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Details[k])
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ControlError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a ControlError with the same code, so that
// errors.Is(err, ErrNotScrollable) holds for copies made by the With* methods.
func (e *ControlError) Is(target error) bool {
	t, ok := target.(*ControlError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

func (e *ControlError) clone() *ControlError {
	c := *e
	return &c
}

// WithCause returns a copy of the error with the given cause
func (e *ControlError) WithCause(cause error) *ControlError {
	c := e.clone()
	c.Cause = cause
	return c
}

// WithMessage returns a copy of the error with a custom message
func (e *ControlError) WithMessage(msg string) *ControlError {
	c := e.clone()
	c.Message = msg
	return c
}

// WithControl returns a copy of the error attributed to the named control
func (e *ControlError) WithControl(name string) *ControlError {
	c := e.clone()
	c.Control = name
	return c
}

// WithDetails returns a copy of the error with additional details
func (e *ControlError) WithDetails(details map[string]interface{}) *ControlError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	c := e.clone()
	c.Details = merged
	return c
}

// Predefined errors
var (
	// Lookup errors
	ErrElementNotFound = &ControlError{
		Category: ErrCategoryLookup,
		Code:     "element_not_found",
		Message:  "element not found",
	}
	ErrControlNotFound = &ControlError{
		Category: ErrCategoryLookup,
		Code:     "control_not_found",
		Message:  "control root element not found",
	}
	ErrCellText = &ControlError{
		Category: ErrCategoryLookup,
		Code:     "cell_text_unavailable",
		Message:  "could not get cell text",
	}

	// State errors
	ErrNotScrollable = &ControlError{
		Category: ErrCategoryState,
		Code:     "not_scrollable",
		Message:  "grid doesn't have scroll",
	}
	ErrStaleElement = &ControlError{
		Category: ErrCategoryState,
		Code:     "stale_element",
		Message:  "element is no longer attached to the document",
	}

	// Usage errors
	ErrInvalidOrdinal = &ControlError{
		Category: ErrCategoryUsage,
		Code:     "invalid_ordinal",
		Message:  "ordinals are 1-based and must be at least 1",
	}
	ErrNotSupported = &ControlError{
		Category: ErrCategoryUsage,
		Code:     "not_supported",
		Message:  "operation not supported by this control",
	}
	ErrInvalidLocator = &ControlError{
		Category: ErrCategoryUsage,
		Code:     "invalid_locator",
		Message:  "invalid locator",
	}

	// Driver errors
	ErrScriptResult = &ControlError{
		Category: ErrCategoryDriver,
		Code:     "script_result",
		Message:  "unexpected script result",
	}
	ErrForeignElement = &ControlError{
		Category: ErrCategoryDriver,
		Code:     "foreign_element",
		Message:  "element belongs to a different driver",
	}

	// Config errors
	ErrInvalidConfig = &ControlError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
	ErrUnknownDriver = &ControlError{
		Category: ErrCategoryConfig,
		Code:     "unknown_driver",
		Message:  "unknown driver",
	}
)

// NewControlError creates a new ControlError with the given parameters
func NewControlError(category ErrorCategory, code, message string) *ControlError {
	return &ControlError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
