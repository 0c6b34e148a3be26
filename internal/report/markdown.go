package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/imgscrub/imgscrub/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation: type-safe tables and GitHub-flavored markdown alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the inspection report in Markdown format.
func (w *MarkdownWriter) Write(report *model.InspectionReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Image Inspection Report")
	md.PlainText("")
	w.writeOverview(md, report)
	w.writeMetadataTable(md, report)
	w.writeFindings(md, report)
	w.writeAlert(md, report)

	return len(md.String()), md.Build()
}

// WriteComparison outputs the before/after comparison in Markdown format.
func (w *MarkdownWriter) WriteComparison(report *model.ComparisonReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Sanitization Report")
	md.PlainText("")
	md.PlainTextf("Source: `%s`", report.Source)
	md.PlainText("")

	md.H2("Before")
	md.PlainText("")
	w.writeOverview(md, report.Before)
	w.writeMetadataTable(md, report.Before)
	w.writeFindings(md, report.Before)

	if report.Sanitized() {
		md.H2("After")
		md.PlainText("")
		w.writeOverview(md, report.After)
		w.writeMetadataTable(md, report.After)

		if report.SanitizedFile != nil {
			md.H2("Sanitized File")
			md.PlainText("")
			md.Table(markdown.TableSet{
				Header: []string{"Property", "Value"},
				Rows: [][]string{
					{"Basename", "`" + report.SanitizedFile.Basename + "`"},
					{"Size", strconv.FormatInt(report.SanitizedFile.SizeBytes, 10) + " bytes"},
					{"Mode", report.SanitizedFile.Mode},
					{"Modified", report.SanitizedFile.ModTime.Format("2006-01-02T15:04:05Z07:00")},
					{"MIME", report.SanitizedMIME},
				},
			})
			md.PlainText("")
		}

		if report.After.Clean() {
			md.Tip("No residual metadata detected in the sanitized output.")
		} else {
			md.Cautionf("Residual metadata detected after sanitization: %d findings.", len(report.After.Findings))
		}
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

// writeOverview writes the structural information table.
func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, report *model.InspectionReport) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Format", report.Format},
			{"Mode", report.Mode},
			{"Dimensions", strconv.Itoa(report.Width) + "x" + strconv.Itoa(report.Height)},
			{"Size", strconv.Itoa(report.SizeBytes) + " bytes"},
			{"SHA-256", "`" + report.SHA256 + "`"},
		},
	})
	md.PlainText("")
}

// writeMetadataTable writes the metadata presence table.
func (w *MarkdownWriter) writeMetadataTable(md *markdown.Markdown, report *model.InspectionReport) {
	exif := "no"
	if report.EXIFPresent {
		exif = "yes (" + strconv.Itoa(report.EXIFCount) + " tags)"
	}
	icc := "no"
	if report.ICCProfilePresent {
		icc = "yes (" + strconv.Itoa(report.ICCProfileBytes) + " bytes)"
	}
	xmp := "no"
	if report.XMPPresent {
		xmp = "yes"
	}
	text := "none"
	if len(report.TextKeys) > 0 {
		text = strings.Join(report.TextKeys, ", ")
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metadata", "Present"},
		Rows: [][]string{
			{"EXIF", exif},
			{"ICC profile", icc},
			{"XMP", xmp},
			{"Text chunks", text},
		},
	})
	md.PlainText("")
}

// writeFindings writes the findings table, grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.InspectionReport) {
	md.H2("Findings")
	md.PlainText("")

	if !report.HasFindings() {
		md.PlainText("No privacy findings detected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Findings))
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
			rows = append(rows, []string{f.SeverityText, f.Title, f.Value})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Finding", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the worst finding.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.InspectionReport) {
	switch {
	case report.CountBySeverity(model.SeverityCritical) > 0:
		md.Cautionf(
			"%d critical finding(s): this image reveals the location where it was taken.",
			report.CountBySeverity(model.SeverityCritical),
		)
	case report.CountBySeverity(model.SeverityHigh) > 0:
		md.Warningf(
			"%d high severity finding(s): this image carries unique identifiers.",
			report.CountBySeverity(model.SeverityHigh),
		)
	case report.HasFindings():
		md.Note("Metadata found. Sanitize before publishing.")
	default:
		md.Tip("No structural metadata detected.")
	}
	md.PlainText("")
}
