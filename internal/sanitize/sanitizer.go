package sanitize

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/imgscrub/imgscrub/internal/codec"
	"github.com/imgscrub/imgscrub/internal/dataurl"
)

// DefaultMaxDim is the default bound on the output's long edge.
// 2048 keeps outputs usable for web publication while removing the
// original sensor resolution as a fingerprint.
const DefaultMaxDim = 2048

// Output is the terminal artifact of a sanitize run: the encoded bytes
// and their MIME type. Immutable once produced.
type Output struct {
	// Data is the sanitized, re-encoded image.
	Data []byte

	// MIME is the media type of Data.
	MIME string
}

// Sanitizer orchestrates the pipeline: decode, normalize, bound, strip,
// encode, verify. A Sanitizer is stateless between calls and safe for
// concurrent use; each call builds its own buffer and pipeline run.
type Sanitizer struct {
	// logger is used for structured logging across the run.
	logger *slog.Logger

	// verify enables the post-encode residual metadata check.
	verify bool
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithLogger sets a custom logger. If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sanitizer) {
		s.logger = logger
	}
}

// WithVerification toggles the post-encode residual metadata scan.
// Enabled by default; disabling it is only intended for tests that
// exercise individual stages.
func WithVerification(verify bool) Option {
	return func(s *Sanitizer) {
		s.verify = verify
	}
}

// New creates a Sanitizer with the given options.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{verify: true}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// SanitizeBytes runs the full pipeline on raw image bytes.
// The result is re-encoded in the requested format with an empty metadata
// container; maxDim bounds the long edge. Errors from subcomponents
// propagate unchanged: decode failures, encode failures, invalid
// configuration, and verification failures all abort the operation.
func (s *Sanitizer) SanitizeBytes(ctx context.Context, data []byte, format codec.Format, maxDim int) (Output, error) {
	if maxDim <= 0 {
		return Output{}, fmt.Errorf("%w: %d", ErrInvalidMaxDim, maxDim)
	}

	s.logger.Info("sanitize start",
		"bytes", len(data),
		"format", string(format),
		"max_dim", maxDim,
	)

	buf, err := codec.Decode(data)
	if err != nil {
		return Output{}, err
	}

	pipeline := NewPipeline(
		[]Stage{
			NewNormalizeStage(),
			NewBoundStage(maxDim),
			NewStripStage(),
		},
		WithPipelineLogger(s.logger),
	)

	buf, err = pipeline.Run(ctx, buf)
	if err != nil {
		return Output{}, err
	}

	encoded, err := codec.Encode(buf, format)
	if err != nil {
		return Output{}, err
	}

	if s.verify {
		if err := VerifyClean(encoded); err != nil {
			return Output{}, err
		}
	}

	out := Output{Data: encoded, MIME: format.MIME()}
	s.logger.Info("sanitize done",
		"bytes_in", len(data),
		"bytes_out", len(out.Data),
		"mime", out.MIME,
		"width", buf.Width,
		"height", buf.Height,
	)
	return out, nil
}

// SanitizeDataURL sanitizes an image carried in a data URL and returns a
// new data URL with the sanitized bytes. The declared input MIME type is
// ignored; the container format is detected from the bytes themselves.
func (s *Sanitizer) SanitizeDataURL(ctx context.Context, dataURL string, format codec.Format, maxDim int) (string, error) {
	payload, err := dataurl.Parse(dataURL)
	if err != nil {
		return "", err
	}

	out, err := s.SanitizeBytes(ctx, payload.Data, format, maxDim)
	if err != nil {
		return "", err
	}

	return dataurl.Format(out.Data, out.MIME), nil
}

// SanitizeFileToTemp sanitizes the image at path and persists the result
// as an anonymized file in the system temp directory. Returns the path
// to the sanitized file; the caller owns its deletion.
func (s *Sanitizer) SanitizeFileToTemp(ctx context.Context, path string, format codec.Format, maxDim int) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrReadInput, path, err)
	}

	out, err := s.SanitizeBytes(ctx, raw, format, maxDim)
	if err != nil {
		return "", err
	}

	file, err := Persist(out, os.TempDir(), s.logger)
	if err != nil {
		return "", err
	}
	return file.Path, nil
}

// WithSanitizedTemp sanitizes the image at path into an anonymized temp
// file, invokes fn with the file's path, and removes the file before
// returning, whether fn succeeds, fails, or panics.
// A deletion failure because the file is already gone is swallowed: the
// post-condition (file no longer present) already holds.
func (s *Sanitizer) WithSanitizedTemp(ctx context.Context, path string, format codec.Format, maxDim int, fn func(tmpPath string) error) error {
	tmpPath, err := s.SanitizeFileToTemp(ctx, path, format, maxDim)
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("failed to remove sanitized temp file",
				"path", tmpPath,
				"error", rmErr,
			)
		}
	}()

	return fn(tmpPath)
}

// VerifyClean scans encoded output for residual metadata signatures.
// It looks for an extractable EXIF block and for XMP byte patterns;
// either one means the encoder reintroduced structural metadata and the
// output must not be published. This is the defense-in-depth check behind
// the stripper: the stripper clears the decoder's container, VerifyClean
// distrusts the encoder.
func VerifyClean(encoded []byte) error {
	if raw, err := exif.SearchAndExtractExif(encoded); err == nil && len(raw) > 0 {
		return fmt.Errorf("%w: exif block of %d bytes", ErrResidualMetadata, len(raw))
	}
	if codec.HasXMP(encoded) {
		return fmt.Errorf("%w: xmp signature", ErrResidualMetadata)
	}
	return nil
}
