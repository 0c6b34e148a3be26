// Package main provides the entry point for the imgscrub CLI.
//
// imgscrub strips identifying metadata (EXIF, ICC profiles, XMP, textual
// chunks) from raster images by re-encoding the pixel data, and inspects
// images for the metadata they carry.
//
// Usage:
//
//	imgscrub sanitize <image-file|data-url>
//	imgscrub inspect <image-file|data-url> [--sanitize]
//
// See --help for all available options.
package main

// main is the entry point for imgscrub.
func main() {
	Execute()
}
