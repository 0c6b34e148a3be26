package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestMaskingHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{"gps key", "gps"},
		{"latitude key", "latitude"},
		{"serial key", "serial_number"},
		{"artist key", "artist"},
		{"copyright key", "copyright"},
		{"host computer key", "host_computer"},
		{"composite serial key", "device_serial"},
		{"uppercase key", "GPS_Latitude"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

			logger.Info("metadata found", tt.key, "secret-value")

			out := buf.String()
			if strings.Contains(out, "secret-value") {
				t.Errorf("sensitive value leaked into log output: %s", out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask marker in output: %s", out)
			}
		})
	}
}

func TestMaskingHandlerMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{"decimal coordinates", "48.8566,2.3522"},
		{"coordinates with space", "48.8566, -2.3522"},
		{"exif rational gps", "48/1 51/1 2423/100"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

			logger.Info("tag", "value", tt.value)

			if strings.Contains(buf.String(), tt.value) {
				t.Errorf("coordinate-like value leaked into log output: %s", buf.String())
			}
		})
	}
}

func TestMaskingHandlerPassesNormalAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("sanitize done", "bytes_out", 1234, "mime", "image/png")

	out := buf.String()
	if !strings.Contains(out, "1234") || !strings.Contains(out, "image/png") {
		t.Errorf("expected normal attributes to pass through: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("unexpected masking of normal attributes: %s", out)
	}
}

func TestMaskingHandlerMasksGroupedAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("exif", slog.Group("tags", slog.String("artist", "Jane Doe")))

	out := buf.String()
	if strings.Contains(out, "Jane Doe") {
		t.Errorf("grouped sensitive value leaked: %s", out)
	}
}

func TestMaskingHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewMaskingHandler(slog.NewTextHandler(&buf, nil)))

	logger.With("gps", "48.85,2.35").Info("scan")

	if strings.Contains(buf.String(), "48.85") {
		t.Errorf("With-attached sensitive value leaked: %s", buf.String())
	}
}

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	t.Run("non-verbose suppresses info", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, false)

		logger.Info("should not appear")
		logger.Warn("should appear")

		out := buf.String()
		if strings.Contains(out, "should not appear") {
			t.Error("info logged despite warn level")
		}
		if !strings.Contains(out, "should appear") {
			t.Error("warn suppressed unexpectedly")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, true)

		logger.Debug("debug detail")

		if !strings.Contains(buf.String(), "debug detail") {
			t.Error("debug suppressed in verbose mode")
		}
	})
}

func TestNewJSONLoggerOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, true)

	logger.Info("event", "latitude", "48.85")

	out := buf.String()
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("expected JSON output, got: %s", out)
	}
	if strings.Contains(out, "48.85") {
		t.Errorf("sensitive value leaked in JSON output: %s", out)
	}
}
