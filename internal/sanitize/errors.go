package sanitize

import "errors"

// Sanitization errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at the failure sites. This allows callers
// to use errors.Is() for programmatic error handling while the sites wrap
// them with operation context. Decode and encode failures surface the
// codec package's sentinels unchanged.
var (
	// ErrInvalidMaxDim is returned when the maximum dimension is not positive.
	// A non-positive bound is a caller contract violation, not a soft input
	// problem, so it is rejected before any decoding work happens.
	ErrInvalidMaxDim = errors.New("invalid max dimension: must be positive")

	// ErrResidualMetadata is returned when the post-encode verification
	// finds EXIF or XMP signatures in the output bytes. This should never
	// happen with the stdlib encoders; if it does, the output must not be
	// treated as sanitized.
	ErrResidualMetadata = errors.New("residual metadata detected in encoded output")

	// ErrReadInput is returned when the input file cannot be read.
	ErrReadInput = errors.New("failed to read input file")

	// ErrWriteOutput is returned when the sanitized bytes cannot be written
	// to the target location.
	ErrWriteOutput = errors.New("failed to write sanitized output")
)
