package schema

import "errors"

// ErrInvalidSchema is the sentinel wrapped by ValidationError when a config,
// agentinfo or container document fails structural validation.
var ErrInvalidSchema = errors.New("schema: document failed structural validation")

// ValidationError carries the gojsonschema-reported detail alongside the
// ErrInvalidSchema sentinel so callers can both errors.Is against it and
// print the underlying reasons.
type ValidationError struct {
	Document string // "config", "agentinfo" or "container"
	Reasons  []string
}

func (e *ValidationError) Error() string {
	msg := "schema: " + e.Document + " failed validation"
	for _, r := range e.Reasons {
		msg += "; " + r
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidSchema }
