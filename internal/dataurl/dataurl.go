// Package dataurl encodes and decodes the data:<mime>;base64,<payload>
// wire format used when image bytes travel as a URL string instead of a
// file.
//
// Parsing is strict: the scheme is case-sensitive, only base64 payloads
// are accepted, and the payload must decode under strict alphabet and
// padding rules. Anything else is rejected so that a malformed URL never
// silently yields truncated bytes.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidDataURL is returned when a string does not match the
// data:<mime>;base64,<payload> format or the payload is not valid base64.
var ErrInvalidDataURL = errors.New("invalid data URL: expected 'data:<mime>;base64,<data>'")

// pattern matches the accepted data URL shape. The MIME part is anything
// up to the first semicolon; the payload is everything after the comma.
// (?s) lets the payload span newlines, mirroring the original tool.
var pattern = regexp.MustCompile(`(?s)^data:([^;]+);base64,(.+)$`)

// Payload is the parsed form of a data URL.
type Payload struct {
	// MIME is the declared media type, lowercased.
	MIME string

	// Data is the decoded byte payload.
	Data []byte
}

// Parse decodes a data URL string into its MIME type and raw bytes.
// Leading and trailing whitespace around the whole URL is tolerated.
// Fails with an error wrapping ErrInvalidDataURL on any shape or
// base64 violation.
func Parse(s string) (Payload, error) {
	m := pattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Payload{}, fmt.Errorf("%w: %d chars", ErrInvalidDataURL, len(s))
	}

	data, err := base64.StdEncoding.Strict().DecodeString(m[2])
	if err != nil {
		return Payload{}, fmt.Errorf("%w: base64: %v", ErrInvalidDataURL, err)
	}

	return Payload{
		MIME: strings.ToLower(m[1]),
		Data: data,
	}, nil
}

// Format encodes bytes and a MIME type into a data URL string.
// It is total: any byte sequence and MIME string produce a valid URL,
// though MIME strings containing ';' will not round-trip through Parse.
func Format(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsDataURL reports whether the string has the accepted data URL shape,
// including the ;base64, marker. Used for input auto-detection after the
// file-path probe fails; non-base64 data URIs are not accepted, so they
// classify as neither a file nor a data URL.
func IsDataURL(s string) bool {
	return pattern.MatchString(strings.TrimSpace(s))
}
