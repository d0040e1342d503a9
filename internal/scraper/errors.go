package scraper

import "fmt"

// Error represents a failure that ends a run.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("scrape error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("scrape error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
