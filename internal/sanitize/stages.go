package sanitize

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/nfnt/resize"

	"github.com/imgscrub/imgscrub/internal/codec"
)

// NormalizeStage collapses the pixel layout into the safe output set.
// RGB and grayscale buffers pass through unchanged; everything else
// (alpha-carrying, paletted, CMYK, exotic layouts) is converted to RGB
// with the alpha channel discarded.
//
// Alpha channels and palettes can retain compositing artifacts or palette
// ordering that fingerprints the producing software, so they are removed
// as a class rather than inspected individually.
type NormalizeStage struct{}

// NewNormalizeStage creates a color-mode normalization stage.
func NewNormalizeStage() *NormalizeStage {
	return &NormalizeStage{}
}

// Name returns the stage name.
func (s *NormalizeStage) Name() string {
	return "normalize"
}

// Apply converts the buffer to a safe color mode.
// Conversion is defined for every decodable image; this stage cannot fail.
func (s *NormalizeStage) Apply(_ context.Context, buf *codec.Buffer) (*codec.Buffer, error) {
	if buf.Mode.Safe() {
		return buf, nil
	}

	bounds := buf.Pixels.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), buf.Pixels, bounds.Min, draw.Src)

	// Force the alpha channel opaque. draw.Src premultiplies
	// transparent pixels toward black; the channel itself must not
	// survive into the output.
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xFF
	}

	buf.Pixels = dst
	buf.Mode = codec.ModeRGB
	return buf, nil
}

// BoundStage enforces a maximum dimension via aspect-ratio-preserving
// downscale. Images already within the bound pass through untouched.
type BoundStage struct {
	// maxDim is the inclusive bound on max(width, height).
	maxDim int
}

// NewBoundStage creates a dimension bounding stage.
// The caller validates maxDim before building the pipeline; see
// Sanitizer.validate.
func NewBoundStage(maxDim int) *BoundStage {
	return &BoundStage{maxDim: maxDim}
}

// Name returns the stage name.
func (s *BoundStage) Name() string {
	return "bound"
}

// Apply downscales the buffer when its long edge exceeds the bound.
// Both dimensions are scaled by the same factor and rounded to the
// nearest integer, clamped to at least one pixel. Lanczos3 resampling
// avoids the aliasing a naive nearest-neighbor scale would introduce.
func (s *BoundStage) Apply(_ context.Context, buf *codec.Buffer) (*codec.Buffer, error) {
	if s.maxDim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxDim, s.maxDim)
	}

	longEdge := max(buf.Width, buf.Height)
	if longEdge <= s.maxDim {
		return buf, nil
	}

	scale := float64(s.maxDim) / float64(longEdge)
	newW := max(int(math.Round(float64(buf.Width)*scale)), 1)
	newH := max(int(math.Round(float64(buf.Height)*scale)), 1)

	buf.Pixels = resize.Resize(uint(newW), uint(newH), buf.Pixels, resize.Lanczos3)
	buf.Width = newW
	buf.Height = newH
	return buf, nil
}

// StripStage clears the entire ancillary metadata container.
//
// This is the security-critical transform. The policy is allow-nothing:
// every entry is removed regardless of its key, because the set of
// sensitive fields is not enumerable in advance (EXIF, XMP, and ICC
// evolve, and third-party encoders inject free-form chunks). The clear
// mutates in place, which is safe because Decode builds the container
// fresh for every call; no external reference can alias it.
type StripStage struct{}

// NewStripStage creates a metadata stripping stage.
func NewStripStage() *StripStage {
	return &StripStage{}
}

// Name returns the stage name.
func (s *StripStage) Name() string {
	return "strip"
}

// Apply empties the metadata container. Post-condition: IsEmpty().
func (s *StripStage) Apply(_ context.Context, buf *codec.Buffer) (*codec.Buffer, error) {
	buf.Metadata.Clear()
	return buf, nil
}
