// Package codec adapts the imaging libraries behind a small decode/encode
// surface so the sanitization pipeline stays library-agnostic.
//
// Decoding produces a Buffer: fully materialized pixels plus an ancillary
// metadata container extracted from the raw bytes (EXIF block, ICC profile,
// XMP packet, textual chunks, application chunks). The container is built
// fresh on every decode, so callers own it exclusively and may clear it in
// place without copying first.
//
// Encoding supports PNG and JPEG through the standard library encoders.
// This is a deliberate guarantee, not a limitation: neither encoder exposes
// any API for attaching ancillary metadata, so an encoded output cannot
// carry EXIF, ICC, or text chunks even by programming mistake.
//
// Registered decoders: PNG, JPEG, GIF (standard library) and WebP, BMP,
// TIFF (golang.org/x/image).
package codec
