// Package inspect builds metadata inspection reports from image bytes.
//
// The inspector is the diagnostic counterpart to the sanitizer: it
// decodes an image, enumerates the metadata the container carries (EXIF
// tags, ICC profile, textual chunks, XMP packets), classifies each leak
// by severity, and fingerprints the bytes with a sha256 digest. Running
// it before and after sanitization demonstrates the zero-residual-
// metadata property on real files.
package inspect
