package report

import (
	"strings"
	"testing"

	"github.com/imgscrub/imgscrub/internal/model"
)

func TestMarkdownWriterWrite(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	if _, err := NewMarkdownWriter(&sb).Write(sampleReport()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := sb.String()
	for _, want := range []string{
		"# Image Inspection Report",
		"## Findings",
		"Format",
		"GPS Coordinates in EXIF",
		"CRITICAL",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriterCleanAlert(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	if _, err := NewMarkdownWriter(&sb).Write(cleanReport()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(sb.String(), "No structural metadata detected.") {
		t.Errorf("expected clean tip, got:\n%s", sb.String())
	}
}

func TestMarkdownWriterComparison(t *testing.T) {
	t.Parallel()

	comparison := &model.ComparisonReport{
		Source: "photo.png",
		Before: sampleReport(),
		After:  cleanReport(),
		SanitizedFile: &model.FileStat{
			Basename:  "img_8b1a9953.png",
			Dir:       "/tmp",
			SizeBytes: 900,
			Mode:      "0644",
		},
		SanitizedMIME: "image/png",
	}

	var sb strings.Builder
	if _, err := NewMarkdownWriter(&sb).WriteComparison(comparison); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := sb.String()
	for _, want := range []string{
		"# Sanitization Report",
		"## Before",
		"## After",
		"## Sanitized File",
		"img_8b1a9953.png",
		"No residual metadata detected",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
