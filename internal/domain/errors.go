package domain

import "fmt"

// ValidationError reports a request field outside its allowed domain
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// TelemetryUnavailableError reports a failed or malformed gateway fetch.
// No partial estimate is produced when this is returned.
type TelemetryUnavailableError struct {
	Source string
	Reason string
	Err    error
}

func (e *TelemetryUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("telemetry %s unavailable: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("telemetry %s unavailable: %s", e.Source, e.Reason)
}

func (e *TelemetryUnavailableError) Unwrap() error {
	return e.Err
}

// MissingFeatureError reports an incomplete observation handed to feature construction
type MissingFeatureError struct {
	Field string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing feature: %s", e.Field)
}

// ModelUnavailableError reports an absent or unloadable model artifact
type ModelUnavailableError struct {
	Model string
	Err   error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s model unavailable: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("%s model unavailable", e.Model)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Err
}
