package ingestion

import "fmt"

// ValidationError reports a form field that cannot be used for a run
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
