package sqltemplate

import "fmt"

// TemplateError represents a failure to load or render the SQL asset
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// BindError represents a named parameter with no value
type BindError struct {
	Name string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind error: no value for parameter :%s", e.Name)
}
