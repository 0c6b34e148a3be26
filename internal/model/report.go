package model

import "time"

// InspectionReport describes the metadata content of a single image.
// It is produced by the inspector and consumed by the report writers
// and the history database.
type InspectionReport struct {
	// === Source Information ===

	// Source is a short description of where the bytes came from:
	// a file basename or "<data-url>".
	Source string `json:"source"`

	// DateInspected is the timestamp when the inspection was performed.
	DateInspected time.Time `json:"date_inspected"`

	// === Structural Information ===

	// Format is the detected container format ("png", "jpeg", "webp", ...).
	Format string `json:"format"`

	// Mode is the color mode of the decoded pixels ("rgb", "gray", ...).
	Mode string `json:"mode"`

	// Width and Height are the pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// SizeBytes is the encoded byte length.
	SizeBytes int `json:"size_bytes"`

	// SHA256 is the hex digest of the encoded bytes.
	SHA256 string `json:"sha256"`

	// === Metadata Presence ===

	// EXIFPresent is true if an EXIF block was found in the container.
	EXIFPresent bool `json:"exif_present"`

	// EXIFCount is the number of EXIF tags parsed.
	EXIFCount int `json:"exif_count"`

	// EXIFTags holds parsed EXIF tags by name. Depending on inspector
	// options this is either the identifying subset or the full map.
	EXIFTags map[string]string `json:"exif_tags,omitempty"`

	// ICCProfilePresent is true if an ICC color profile is embedded.
	ICCProfilePresent bool `json:"icc_profile_present"`

	// ICCProfileBytes is the length of the embedded profile, 0 if absent.
	ICCProfileBytes int `json:"icc_profile_bytes"`

	// ICCProfileSHA256 is the hex digest of the profile bytes, empty if absent.
	ICCProfileSHA256 string `json:"icc_profile_sha256,omitempty"`

	// TextKeys lists the keywords of textual chunks found in the container.
	TextKeys []string `json:"text_keys,omitempty"`

	// XMPPresent is true if an XMP packet signature was found in the bytes.
	// This is a heuristic byte-pattern check, not a full XMP parse.
	XMPPresent bool `json:"xmp_present"`

	// === Findings ===

	// Findings lists the severity-classified privacy leaks detected.
	Findings []Finding `json:"findings,omitempty"`
}

// Finding represents a single detected privacy leak.
type Finding struct {
	// Type is the finding type identifier.
	// This maps to the findingInfoMapping in severity.go.
	Type string `json:"type"`

	// Severity is the risk level.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides more detail about the finding.
	Description string `json:"description,omitempty"`

	// Value is the offending metadata field, already masked where needed.
	Value string `json:"value,omitempty"`
}

// NewInspectionReport creates a report for the given source with the
// inspection timestamp set to now.
func NewInspectionReport(source string) *InspectionReport {
	return &InspectionReport{
		Source:        source,
		DateInspected: time.Now().UTC(),
	}
}

// AddFinding appends a finding of the given type, filling severity
// information from the central mapping.
func (r *InspectionReport) AddFinding(findingType, title, value string) {
	info := GetFindingInfo(findingType)
	r.Findings = append(r.Findings, Finding{
		Type:         findingType,
		Severity:     info.Severity,
		SeverityText: info.Severity.String(),
		Title:        title,
		Description:  info.Impact,
		Value:        value,
	})
}

// HasFindings reports whether any privacy leaks were detected.
func (r *InspectionReport) HasFindings() bool {
	return len(r.Findings) > 0
}

// Clean reports whether the image carries no structural metadata at all.
// This is the post-condition the sanitizer guarantees.
func (r *InspectionReport) Clean() bool {
	return !r.EXIFPresent && !r.ICCProfilePresent && !r.XMPPresent && len(r.TextKeys) == 0
}

// CountBySeverity returns the number of findings at the given severity.
func (r *InspectionReport) CountBySeverity(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// MaxSeverity returns the highest severity among the findings.
// Returns SeverityInfo when there are no findings.
func (r *InspectionReport) MaxSeverity() Severity {
	max := SeverityInfo
	for _, f := range r.Findings {
		if f.Severity > max {
			max = f.Severity
		}
	}
	return max
}

// FileStat describes the filesystem identity of an image file.
// For sanitized outputs these values are part of the anonymization
// contract: randomized basename, fixed timestamps, fixed mode.
type FileStat struct {
	// Basename is the file name without directory.
	Basename string `json:"basename"`

	// Dir is the containing directory.
	Dir string `json:"dir"`

	// SizeBytes is the file size.
	SizeBytes int64 `json:"size_bytes"`

	// Mode is the permission bits in octal string form, e.g. "0644".
	Mode string `json:"mode"`

	// ModTime is the modification time in UTC.
	ModTime time.Time `json:"mtime"`
}

// ComparisonReport pairs a before/after inspection around a sanitize run.
// It is what the diagnostic tool emits for `inspect --sanitize`.
type ComparisonReport struct {
	// Source describes the input.
	Source string `json:"source"`

	// SourceFile is the stat of the input file, nil for data-URL input.
	SourceFile *FileStat `json:"source_file,omitempty"`

	// Before is the inspection of the original bytes.
	Before *InspectionReport `json:"before"`

	// After is the inspection of the sanitized bytes, nil if the
	// sanitize step was not run.
	After *InspectionReport `json:"after,omitempty"`

	// SanitizedFile is the stat of the sanitized temp file.
	SanitizedFile *FileStat `json:"sanitized_file,omitempty"`

	// SanitizedMIME is the MIME type of the sanitized output.
	SanitizedMIME string `json:"sanitized_mime,omitempty"`
}

// Sanitized reports whether the comparison includes an after-state.
func (c *ComparisonReport) Sanitized() bool {
	return c.After != nil
}
