// Package log provides logging with automatic masking of identifying
// metadata values, built on top of the standard slog package.
//
// A tool whose job is preventing metadata leaks must not leak that same
// metadata through its own log output. The MaskingHandler intercepts log
// records and masks attribute values that look like, or are keyed as,
// identifying image metadata:
//   - GPS coordinates and location fields
//   - device serial numbers
//   - author, artist, and copyright names
//
// The pipeline itself only logs structural facts (byte counts,
// dimensions, formats); the masking is a second line of defense for
// verbose or future log sites.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Info("inspected image",
//	    "gps", "48.8566,2.3522", // masked
//	    "width", 2048,
//	)
//	slog.SetDefault(logger)
package log
