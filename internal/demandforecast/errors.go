package demandforecast

import "fmt"

// EncodingError means a validated value has no code in its table.
// The code tables and request validation are out of sync.
type EncodingError struct {
	Field string
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("no code for %s %q: code tables are out of sync with request validation", e.Field, e.Value)
}

// InferenceError wraps a failed or unusable model call
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
