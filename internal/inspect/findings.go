package inspect

import "github.com/imgscrub/imgscrub/internal/model"

// classifyEXIFTag maps an EXIF tag onto a severity-classified finding.
// Tags outside the known leak classes produce no finding; they are still
// counted and, with WithFullEXIF, listed in the report's tag map.
func classifyEXIFTag(tagName, value string, report *model.InspectionReport) {
	switch tagName {
	// GPS coordinates - the location where the image was taken
	case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef", "GPSInfo":
		report.AddFinding("exif_gps", "GPS Coordinates in EXIF", tagName+": "+value)

	// Device serial numbers - unique device identifiers
	case "SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber":
		report.AddFinding("exif_serial", "Device Serial Number in EXIF", tagName+": "+value)

	// Author and copyright - identity disclosure
	case "Artist", "Author", "Copyright", "XPAuthor":
		report.AddFinding("exif_author", "Author/Copyright in EXIF", tagName+": "+value)

	// Camera identification
	case "Make", "Model":
		report.AddFinding("exif_camera", "Camera Information in EXIF", tagName+": "+value)

	// Host computer name
	case "HostComputer":
		report.AddFinding("exif_host_computer", "Host Computer in EXIF", tagName+": "+value)

	// Software and OS fingerprints
	case "Software", "ProcessingSoftware":
		report.AddFinding("exif_software", "Software Information in EXIF", tagName+": "+value)

	// Timestamps - timezone and activity patterns
	case "DateTime", "DateTimeOriginal", "DateTimeDigitized":
		report.AddFinding("exif_datetime", "Timestamp in EXIF", tagName+": "+value)
	}
}
