// Package browser drives a single headless Chrome session against the ECMS portal.
package browser

import "fmt"

// BootstrapError means no guest session could be established. It is fatal to a run.
type BootstrapError struct {
	URL     string
	Message string
	Cause   error
}

func (e *BootstrapError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bootstrap error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("bootstrap error for %s: %s", e.URL, e.Message)
}

func (e *BootstrapError) Unwrap() error {
	return e.Cause
}

// Error represents a failed browser action against a page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("browser error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("browser error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
