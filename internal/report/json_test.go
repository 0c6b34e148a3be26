package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/imgscrub/imgscrub/internal/model"
)

func TestJSONWriterWrite(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	if _, err := NewJSONWriter(&sb).Write(sampleReport()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := sb.String()
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline")
	}

	var decoded model.InspectionReport
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Source != "photo.png" {
		t.Errorf("expected source photo.png, got %q", decoded.Source)
	}
	if len(decoded.Findings) != 3 {
		t.Errorf("expected 3 findings, got %d", len(decoded.Findings))
	}
}

func TestJSONWriterPrettyPrint(t *testing.T) {
	t.Parallel()

	var compact, pretty strings.Builder
	if _, err := NewJSONWriter(&compact).Write(cleanReport()); err != nil {
		t.Fatalf("compact write failed: %v", err)
	}
	if _, err := NewJSONWriter(&pretty, WithPrettyPrint()).Write(cleanReport()); err != nil {
		t.Fatalf("pretty write failed: %v", err)
	}

	if strings.Count(compact.String(), "\n") != 1 {
		t.Error("expected compact output on a single line")
	}
	if strings.Count(pretty.String(), "\n") <= 1 {
		t.Error("expected pretty output on multiple lines")
	}
}

func TestJSONWriterComparison(t *testing.T) {
	t.Parallel()

	comparison := &model.ComparisonReport{
		Source: "photo.png",
		Before: sampleReport(),
		After:  cleanReport(),
	}

	var sb strings.Builder
	if _, err := NewJSONWriter(&sb).WriteComparison(comparison); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded model.ComparisonReport
	if err := json.Unmarshal([]byte(sb.String()), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Before == nil || decoded.After == nil {
		t.Error("expected both before and after states in the output")
	}
}
