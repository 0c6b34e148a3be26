package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when no image file or data URL is specified.
	ErrNoInput = errors.New("no input specified: provide an image file path or a data URL")

	// ErrNonPositiveMaxDim is returned when the maximum dimension is zero
	// or negative. The bounder requires a positive bound.
	ErrNonPositiveMaxDim = errors.New("invalid max dimension: must be positive")

	// ErrUnsupportedOutputFormat is returned when the requested output
	// format is not png or jpeg. There is no fallback format.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format: must be png or jpeg")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
