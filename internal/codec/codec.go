package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"strings"

	// Register stdlib decoders. GIF is decode-only here; sanitized output
	// is always PNG or JPEG.
	_ "image/gif"

	// Register extended decoders from golang.org/x/image.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is the fixed quality level for JPEG output.
// 90 keeps visible quality high while re-encoding away any
// container-level data from the original.
const JPEGQuality = 90

// Format identifies an output encoding.
//
// Design decision: Format is a string type rather than iota constants
// because unsupported formats must survive round-trips for error context
// and MIME guessing ("tiff" requested -> error names "tiff").
type Format string

// Supported output formats.
const (
	// FormatPNG encodes lossless PNG output.
	FormatPNG Format = "png"

	// FormatJPEG encodes JPEG output at JPEGQuality.
	FormatJPEG Format = "jpeg"
)

// ParseFormat normalizes a user-supplied format name.
// "jpg" is folded into FormatJPEG; unknown names pass through lowercased
// so that Encode can report them and MIME() can still take a guess.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "png", "":
		return FormatPNG
	case "jpg", "jpeg":
		return FormatJPEG
	default:
		return Format(strings.ToLower(s))
	}
}

// MIME returns the MIME type for the format.
// PNG and JPEG map directly; anything else is a best-effort guess from
// file-extension convention, defaulting to application/octet-stream.
func (f Format) MIME() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	default:
		if t := mime.TypeByExtension("." + string(f)); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}

// ExtensionForMIME maps a MIME type to the output file extension.
// The sanitizer only produces image/png and image/jpeg; everything else
// falls back to .jpg to match the original tool's behavior.
func ExtensionForMIME(mimeType string) string {
	if mimeType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

// ColorMode enumerates the pixel layouts the pipeline distinguishes.
// Only ModeRGB and ModeGray are safe outputs; the normalizer collapses
// everything else.
type ColorMode string

// Color modes.
const (
	ModeRGB       ColorMode = "rgb"
	ModeGray      ColorMode = "gray"
	ModeRGBA      ColorMode = "rgba"
	ModeGrayAlpha ColorMode = "gray+alpha"
	ModePaletted  ColorMode = "paletted"
	ModeCMYK      ColorMode = "cmyk"
	ModeOther     ColorMode = "other"
)

// Safe reports whether the mode is in the sanitizer's allowed output set.
func (m ColorMode) Safe() bool {
	return m == ModeRGB || m == ModeGray
}

// modeOf classifies a decoded image's pixel layout.
func modeOf(img image.Image) ColorMode {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		// Alpha-capable layouts count as RGBA even when the channel is
		// fully opaque; the normalizer flattens them unconditionally.
		return ModeRGBA
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.YCbCr:
		// JPEG pixel data. No alpha channel, so it counts as RGB and the
		// normalizer passes it through; both encoders accept it directly.
		return ModeRGB
	case *image.Paletted:
		return ModePaletted
	case *image.CMYK:
		return ModeCMYK
	case *image.Alpha, *image.Alpha16:
		return ModeGrayAlpha
	default:
		return ModeOther
	}
}

// Buffer is the in-memory representation flowing through the pipeline.
// Ownership transfers stage to stage; no two goroutines may hold the same
// Buffer. The metadata container is private to the Buffer (Decode builds
// it fresh), so the stripper may clear it in place.
type Buffer struct {
	// Pixels is the decoded pixel data. Stages replace this field rather
	// than mutating the underlying image.
	Pixels image.Image

	// Mode is the pixel layout classification of Pixels.
	Mode ColorMode

	// Width and Height are the pixel dimensions of Pixels.
	Width  int
	Height int

	// SourceFormat is the container format the bytes were decoded from
	// ("png", "jpeg", "webp", ...). Informational only.
	SourceFormat string

	// Metadata is the ancillary metadata extracted from the container.
	Metadata Metadata
}

// Clone returns a copy of the buffer with a deep-copied metadata
// container. Pixel data is shared: stages treat it as immutable.
func (b *Buffer) Clone() *Buffer {
	clone := *b
	clone.Metadata = b.Metadata.Clone()
	return &clone
}

// Decode parses image bytes into a Buffer.
// The pixel data is fully materialized and the metadata container is
// extracted from the raw container bytes, so the input slice can be
// discarded afterwards. Fails with an error wrapping ErrDecode when the
// bytes are not a parseable image.
func Decode(data []byte) (*Buffer, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %v", ErrDecode, len(data), err)
	}

	bounds := img.Bounds()
	return &Buffer{
		Pixels:       img,
		Mode:         modeOf(img),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		SourceFormat: format,
		Metadata:     ExtractMetadata(data, format),
	}, nil
}

// Encode serializes the buffer's pixels into the requested format.
// Only PNG and JPEG are supported; both stdlib encode calls are incapable
// of attaching ancillary metadata, which is the point. The buffer's
// metadata container is intentionally ignored here: stripping is the
// pipeline's job, and the encoder could not write it even if present.
func Encode(buf *Buffer, format Format) ([]byte, error) {
	var out bytes.Buffer
	switch format {
	case FormatPNG:
		if err := png.Encode(&out, buf.Pixels); err != nil {
			return nil, fmt.Errorf("%w: png %dx%d: %v", ErrEncode, buf.Width, buf.Height, err)
		}
	case FormatJPEG:
		if err := jpeg.Encode(&out, buf.Pixels, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("%w: jpeg %dx%d: %v", ErrEncode, buf.Width, buf.Height, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q (mime %s)", ErrUnsupportedFormat, format, format.MIME())
	}
	return out.Bytes(), nil
}
