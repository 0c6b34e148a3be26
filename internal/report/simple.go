package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/imgscrub/imgscrub/internal/model"
)

// SimpleWriter outputs reports in a human-readable text format.
// This is the default output for terminal use.
type SimpleWriter struct {
	baseWriter

	// showEmpty includes metadata sections even when nothing was found.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty includes sections for absent metadata in the output.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the inspection report as human-readable text.
func (w *SimpleWriter) Write(report *model.InspectionReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeStructure(&sb, report)
	w.writeMetadata(&sb, report)
	w.writeFindings(&sb, report)

	return io.WriteString(w.output, sb.String())
}

// WriteComparison outputs the before/after comparison as text.
func (w *SimpleWriter) WriteComparison(report *model.ComparisonReport) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Source: %s\n", report.Source)
	if report.SourceFile != nil {
		sb.WriteString("\n-- SOURCE FILE --\n")
		w.writeFileStat(&sb, report.SourceFile)
	}

	sb.WriteString("\n-- BEFORE --\n")
	w.writeStructure(&sb, report.Before)
	w.writeMetadata(&sb, report.Before)
	w.writeFindings(&sb, report.Before)

	if report.Sanitized() {
		if report.SanitizedFile != nil {
			sb.WriteString("\n-- SANITIZED FILE --\n")
			w.writeFileStat(&sb, report.SanitizedFile)
		}
		sb.WriteString("\n-- AFTER --\n")
		w.writeStructure(&sb, report.After)
		w.writeMetadata(&sb, report.After)
		fmt.Fprintf(&sb, "\nsanitized_mime: %s\n", report.SanitizedMIME)
		if report.After.Clean() {
			sb.WriteString("verdict: clean (no residual metadata)\n")
		} else {
			sb.WriteString("verdict: NOT CLEAN - residual metadata present\n")
		}
	}

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report banner.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.InspectionReport) {
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString("IMGSCRUB INSPECTION REPORT\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(sb, "Source: %s\n", report.Source)
	fmt.Fprintf(sb, "Date:   %s\n\n", report.DateInspected.Format("2006-01-02 15:04:05 MST"))
}

// writeStructure writes format, mode, dimensions, and fingerprint.
func (w *SimpleWriter) writeStructure(sb *strings.Builder, report *model.InspectionReport) {
	fmt.Fprintf(sb, "format : %s\n", report.Format)
	fmt.Fprintf(sb, "mode   : %s\n", report.Mode)
	fmt.Fprintf(sb, "size   : %dx%d (%d bytes)\n", report.Width, report.Height, report.SizeBytes)
	fmt.Fprintf(sb, "sha256 : %s\n", report.SHA256)
}

// writeMetadata writes the metadata presence section.
func (w *SimpleWriter) writeMetadata(sb *strings.Builder, report *model.InspectionReport) {
	sb.WriteString("\nMetadata:\n")

	fmt.Fprintf(sb, "  exif_present        : %t", report.EXIFPresent)
	if report.EXIFPresent {
		fmt.Fprintf(sb, " (%d tags)", report.EXIFCount)
	}
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  icc_profile_present : %t", report.ICCProfilePresent)
	if report.ICCProfilePresent {
		fmt.Fprintf(sb, " (%d bytes, sha256 %s)", report.ICCProfileBytes, shortDigest(report.ICCProfileSHA256))
	}
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  xmp_present         : %t\n", report.XMPPresent)

	if len(report.TextKeys) > 0 {
		fmt.Fprintf(sb, "  text_keys           : %s\n", strings.Join(report.TextKeys, ", "))
	} else if w.showEmpty {
		sb.WriteString("  text_keys           : (none)\n")
	}

	if len(report.EXIFTags) > 0 {
		sb.WriteString("\nEXIF tags:\n")
		width := 0
		for name := range report.EXIFTags {
			width = max(width, len(name))
		}
		for _, name := range sortedKeys(report.EXIFTags) {
			fmt.Fprintf(sb, "  %-*s : %s\n", width, name, report.EXIFTags[name])
		}
	}
}

// writeFindings writes the severity-classified findings section.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.InspectionReport) {
	if !report.HasFindings() {
		sb.WriteString("\nNo privacy findings detected.\n")
		return
	}

	sb.WriteString("\nFindings:\n")
	for _, severity := range []model.Severity{
		model.SeverityCritical,
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityLow,
		model.SeverityInfo,
	} {
		for _, f := range report.Findings {
			if f.Severity != severity {
				continue
			}
			fmt.Fprintf(sb, "  %s %-8s %s", w.severityIndicator(severity), f.SeverityText, f.Title)
			if f.Value != "" {
				fmt.Fprintf(sb, " [%s]", f.Value)
			}
			sb.WriteString("\n")
		}
	}
}

// writeFileStat writes a filesystem identity section.
func (w *SimpleWriter) writeFileStat(sb *strings.Builder, stat *model.FileStat) {
	fmt.Fprintf(sb, "basename : %s\n", stat.Basename)
	fmt.Fprintf(sb, "dir      : %s\n", stat.Dir)
	fmt.Fprintf(sb, "size     : %d bytes\n", stat.SizeBytes)
	fmt.Fprintf(sb, "mode     : %s\n", stat.Mode)
	fmt.Fprintf(sb, "mtime    : %s\n", stat.ModTime.Format("2006-01-02T15:04:05Z07:00"))
}

// severityIndicator returns a terminal marker for the severity level.
func (w *SimpleWriter) severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "[!!]"
	case model.SeverityHigh:
		return "[! ]"
	case model.SeverityMedium:
		return "[* ]"
	case model.SeverityLow:
		return "[- ]"
	default:
		return "[  ]"
	}
}

// shortDigest abbreviates a hex digest for terminal output.
func shortDigest(digest string) string {
	if len(digest) > 16 {
		return digest[:16] + "..."
	}
	return digest
}

// sortedKeys returns the map keys in sorted order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
