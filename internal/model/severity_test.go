package model

import "testing"

func TestSeverityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityInfo, "INFO"},
		{SeverityLow, "LOW"},
		{SeverityMedium, "MEDIUM"},
		{SeverityHigh, "HIGH"},
		{SeverityCritical, "CRITICAL"},
		{Severity(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	// Comparisons and sorting rely on the numeric ordering.
	if !(SeverityInfo < SeverityLow && SeverityLow < SeverityMedium &&
		SeverityMedium < SeverityHigh && SeverityHigh < SeverityCritical) {
		t.Error("severity levels must be strictly increasing")
	}
}

func TestGetSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		findingType string
		want        Severity
	}{
		{"exif_gps", SeverityCritical},
		{"exif_serial", SeverityHigh},
		{"exif_author", SeverityHigh},
		{"exif_camera", SeverityMedium},
		{"exif_host_computer", SeverityMedium},
		{"xmp_packet", SeverityMedium},
		{"text_chunk", SeverityMedium},
		{"exif_software", SeverityLow},
		{"exif_datetime", SeverityLow},
		{"icc_profile", SeverityLow},
		{"exif_present", SeverityLow},
		{"nonexistent_type", SeverityInfo},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.findingType, func(t *testing.T) {
			t.Parallel()
			if got := GetSeverity(tt.findingType); got != tt.want {
				t.Errorf("GetSeverity(%q) = %v, want %v", tt.findingType, got, tt.want)
			}
		})
	}
}

func TestGetFindingInfo(t *testing.T) {
	t.Parallel()

	t.Run("known type has impact and recommendation", func(t *testing.T) {
		t.Parallel()
		info := GetFindingInfo("exif_gps")
		if info.Impact == "" || info.Recommendation == "" {
			t.Error("expected a fully populated FindingInfo for exif_gps")
		}
	})

	t.Run("unknown type gets a manual-review default", func(t *testing.T) {
		t.Parallel()
		info := GetFindingInfo("made_up_type")
		if info.Severity != SeverityInfo {
			t.Errorf("expected info severity, got %v", info.Severity)
		}
		if info.Impact == "" {
			t.Error("expected a default impact description")
		}
	})
}
