package processor

import "fmt"

// ConfigurationError marks an invalid or missing model setting. It is raised
// during setup, before any data is read or any run executes.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Key, e.Reason)
}

// DataConsistencyError marks an internal row or column misalignment, e.g. a
// sample column growing by the wrong amount or identifiers diverging from
// feature rows after a split. It is never recoverable.
type DataConsistencyError struct {
	Detail string
}

func (e *DataConsistencyError) Error() string {
	return fmt.Sprintf("data consistency violated: %s", e.Detail)
}

// UnsupportedFormatError marks a variable whose time axis matches neither of
// the supported encodings.
type UnsupportedFormatError struct {
	Variable string
	Detail   string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported time encoding for variable %s: %s", e.Variable, e.Detail)
}

// RunFailure wraps a classifier fit or predict failure inside a single
// evaluation run. The evaluation loop aborts when it occurs.
type RunFailure struct {
	Run int
	Err error
}

func (e *RunFailure) Error() string {
	return fmt.Sprintf("run %d failed: %v", e.Run, e.Err)
}

func (e *RunFailure) Unwrap() error {
	return e.Err
}
