package inspect

import (
	"testing"

	"github.com/imgscrub/imgscrub/internal/model"
)

func TestClassifyEXIFTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tagName      string
		wantType     string
		wantSeverity model.Severity
	}{
		{"GPSLatitude", "exif_gps", model.SeverityCritical},
		{"GPSLongitude", "exif_gps", model.SeverityCritical},
		{"GPSInfo", "exif_gps", model.SeverityCritical},
		{"SerialNumber", "exif_serial", model.SeverityHigh},
		{"BodySerialNumber", "exif_serial", model.SeverityHigh},
		{"LensSerialNumber", "exif_serial", model.SeverityHigh},
		{"Artist", "exif_author", model.SeverityHigh},
		{"Copyright", "exif_author", model.SeverityHigh},
		{"Make", "exif_camera", model.SeverityMedium},
		{"Model", "exif_camera", model.SeverityMedium},
		{"HostComputer", "exif_host_computer", model.SeverityMedium},
		{"Software", "exif_software", model.SeverityLow},
		{"ProcessingSoftware", "exif_software", model.SeverityLow},
		{"DateTimeOriginal", "exif_datetime", model.SeverityLow},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.tagName, func(t *testing.T) {
			t.Parallel()

			report := model.NewInspectionReport("test")
			classifyEXIFTag(tt.tagName, "value", report)

			if len(report.Findings) != 1 {
				t.Fatalf("expected one finding, got %d", len(report.Findings))
			}
			f := report.Findings[0]
			if f.Type != tt.wantType {
				t.Errorf("expected type %q, got %q", tt.wantType, f.Type)
			}
			if f.Severity != tt.wantSeverity {
				t.Errorf("expected severity %v, got %v", tt.wantSeverity, f.Severity)
			}
		})
	}
}

func TestClassifyEXIFTagIgnoresNeutralTags(t *testing.T) {
	t.Parallel()

	neutral := []string{"ExposureTime", "FNumber", "ISOSpeedRatings", "Orientation"}
	for _, tag := range neutral {
		report := model.NewInspectionReport("test")
		classifyEXIFTag(tag, "value", report)
		if len(report.Findings) != 0 {
			t.Errorf("tag %s: expected no finding, got %d", tag, len(report.Findings))
		}
	}
}
