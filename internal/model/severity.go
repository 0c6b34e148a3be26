package model

// Severity represents the privacy risk level of a metadata finding.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates informational findings with no direct privacy impact.
	// Examples: image format details, pixel dimensions.
	SeverityInfo Severity = iota

	// SeverityLow indicates minor leaks with limited impact.
	// Examples: editing software names, embedded timestamps.
	// These could be used for correlation but require additional data.
	SeverityLow

	// SeverityMedium indicates moderate leaks that warrant attention.
	// Examples: camera make/model, textual comment chunks, XMP packets.
	// These provide device or workflow clues that narrow down the source.
	SeverityMedium

	// SeverityHigh indicates serious leaks that significantly risk identification.
	// Examples: device serial numbers, author/copyright names.
	// These are unique or near-unique identifiers of a person or device.
	SeverityHigh

	// SeverityCritical indicates leaks that likely identify the source directly.
	// Examples: embedded GPS coordinates.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// FindingInfo contains metadata about a finding type including severity,
// impact description, and remediation recommendation.
type FindingInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping ensures consistent risk assessment across the application.
//
// Design decision: We use a map rather than embedding severity in each finding
// site because it provides a single source of truth for risk levels and makes
// it easy to generate severity documentation.
var findingInfoMapping = map[string]FindingInfo{
	// CRITICAL - direct source identification
	"exif_gps": {
		Severity:       SeverityCritical,
		Impact:         "GPS coordinates in EXIF reveal the exact location where the image was taken.",
		Recommendation: "Sanitize the image before publishing; coordinates survive casual cropping and editing.",
	},

	// HIGH - unique or near-unique identifiers
	"exif_serial": {
		Severity:       SeverityHigh,
		Impact:         "A device serial number is a unique identifier that links every photo taken with the same device.",
		Recommendation: "Sanitize the image. Check other published images for the same serial number.",
	},
	"exif_author": {
		Severity:       SeverityHigh,
		Impact:         "Author or copyright fields typically contain a real name or organization.",
		Recommendation: "Sanitize the image and review camera/editor settings that inject owner information.",
	},

	// MEDIUM - device and workflow clues
	"exif_camera": {
		Severity:       SeverityMedium,
		Impact:         "Camera make and model narrow down the device used and can correlate image sets.",
		Recommendation: "Sanitize the image before publishing.",
	},
	"exif_host_computer": {
		Severity:       SeverityMedium,
		Impact:         "The host computer name reveals the machine used to process the image.",
		Recommendation: "Sanitize the image and rename identifying hostnames.",
	},
	"xmp_packet": {
		Severity:       SeverityMedium,
		Impact:         "XMP packets carry free-form editing history, author data, and document identifiers.",
		Recommendation: "Sanitize the image; re-encoding removes the packet entirely.",
	},
	"text_chunk": {
		Severity:       SeverityMedium,
		Impact:         "Textual chunks can contain arbitrary comments, software fingerprints, or identifiers.",
		Recommendation: "Sanitize the image; text chunks are dropped during re-encoding.",
	},

	// LOW - correlation material
	"exif_present": {
		Severity:       SeverityLow,
		Impact:         "An EXIF block is present but could not be parsed. Its contents are unknown and may include any of the above.",
		Recommendation: "Sanitize the image; re-encoding removes the block regardless of its contents.",
	},
	"exif_software": {
		Severity:       SeverityLow,
		Impact:         "Software tags fingerprint the editing tools and operating system used.",
		Recommendation: "Sanitize the image before publishing.",
	},
	"exif_datetime": {
		Severity:       SeverityLow,
		Impact:         "Embedded timestamps can reveal timezone and activity patterns.",
		Recommendation: "Sanitize the image; filesystem timestamps are reset as well.",
	},
	"icc_profile": {
		Severity:       SeverityLow,
		Impact:         "ICC profiles fingerprint the capture or editing device's color pipeline.",
		Recommendation: "Sanitize the image; the profile is not needed for display in sRGB contexts.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess risk.",
	}
}
