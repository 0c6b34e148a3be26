package config

import (
	"errors"
	"testing"
)

// TestNewConfig verifies the built-in defaults. Changes to defaults are
// intentional decisions; this test makes accidental changes visible.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Format is png", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != "png" {
			t.Errorf("expected Format to be 'png', got '%s'", cfg.Format)
		}
	})

	t.Run("default MaxDim is 2048", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxDim != 2048 {
			t.Errorf("expected MaxDim to be 2048, got %d", cfg.MaxDim)
		}
	})

	t.Run("default DBDir is the XDG data directory", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != DefaultDBDir() {
			t.Errorf("expected DBDir to be %s, got %s", DefaultDBDir(), cfg.DBDir)
		}
	})

	t.Run("default EmitDataURL is false", func(t *testing.T) {
		t.Parallel()
		if cfg.EmitDataURL {
			t.Error("expected EmitDataURL to be false")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Inputs = []string{"photo.png"}
		return cfg
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		if err := validConfig().Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty inputs returns ErrNoInput", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Inputs = nil

		if err := cfg.Validate(); !errors.Is(err, ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})

	t.Run("zero max dim returns ErrNonPositiveMaxDim", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxDim = 0

		if err := cfg.Validate(); !errors.Is(err, ErrNonPositiveMaxDim) {
			t.Errorf("expected ErrNonPositiveMaxDim, got %v", err)
		}
	})

	t.Run("negative max dim returns ErrNonPositiveMaxDim", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxDim = -1

		if err := cfg.Validate(); !errors.Is(err, ErrNonPositiveMaxDim) {
			t.Errorf("expected ErrNonPositiveMaxDim, got %v", err)
		}
	})

	t.Run("jpg alias is a valid format", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Format = "jpg"

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("uppercase format is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Format = "PNG"

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("webp output returns ErrUnsupportedOutputFormat", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Format = "webp"

		if err := cfg.Validate(); !errors.Is(err, ErrUnsupportedOutputFormat) {
			t.Errorf("expected ErrUnsupportedOutputFormat, got %v", err)
		}
	})

	t.Run("json and markdown together returns ErrConflictingReportFormats", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true

		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}

func TestApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("file defaults overlay built-in defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{Defaults: Defaults{Format: "jpeg", MaxDim: 1600, DBDir: "/srv/imgscrub"}})

		if cfg.Format != "jpeg" {
			t.Errorf("expected format jpeg, got %q", cfg.Format)
		}
		if cfg.MaxDim != 1600 {
			t.Errorf("expected max dim 1600, got %d", cfg.MaxDim)
		}
		if cfg.DBDir != "/srv/imgscrub" {
			t.Errorf("expected db dir /srv/imgscrub, got %q", cfg.DBDir)
		}
	})

	t.Run("file defaults replace prior values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Format = "jpeg"
		cfg.MaxDim = 512

		cfg.ApplyFile(&File{Defaults: Defaults{Format: "png", MaxDim: 1600}})

		if cfg.Format != "png" {
			t.Errorf("expected file value png, got %q", cfg.Format)
		}
		if cfg.MaxDim != 1600 {
			t.Errorf("expected file value 1600, got %d", cfg.MaxDim)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil)

		if cfg.Format != DefaultFormat || cfg.MaxDim != DefaultMaxDim {
			t.Error("expected defaults to be untouched")
		}
	})

	t.Run("empty file fields are ignored", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{})

		if cfg.Format != DefaultFormat || cfg.MaxDim != DefaultMaxDim {
			t.Error("expected defaults to be untouched")
		}
	})
}
