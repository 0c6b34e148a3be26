package codec

import "errors"

// Codec errors.
//
// Design decision: We use package-level sentinel errors so callers can
// classify failures with errors.Is() while the call sites wrap them with
// operation context (byte length, requested format) via fmt.Errorf.
var (
	// ErrDecode is returned when the input bytes are not a recognized or
	// parseable image container.
	ErrDecode = errors.New("decode failed: not a recognized image")

	// ErrEncode is returned when the encoder rejects the buffer.
	ErrEncode = errors.New("encode failed")

	// ErrUnsupportedFormat is returned when encoding to a format outside
	// the supported set (PNG, JPEG) is requested. There is no fallback:
	// silently substituting a different format would break the caller's
	// MIME expectations.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)
