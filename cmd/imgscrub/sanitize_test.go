package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/imgscrub/imgscrub/internal/config"
	"github.com/imgscrub/imgscrub/internal/sanitize"
)

// encodeTestPNG builds a small opaque PNG in memory.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

// TestNewSanitizeCmd tests the sanitize command creation.
func TestNewSanitizeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewSanitizeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "sanitize [image-file|data-url]" {
			t.Errorf("unexpected use: %q", cmd.Use)
		}
	})

	t.Run("has format flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.Shorthand != "f" {
			t.Errorf("expected shorthand 'f', got %q", flag.Shorthand)
		}
		if flag.DefValue != config.DefaultFormat {
			t.Errorf("expected default %q, got %q", config.DefaultFormat, flag.DefValue)
		}
	})

	t.Run("has max-dim flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-dim")
		if flag == nil {
			t.Fatal("expected max-dim flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("output") == nil {
			t.Error("expected output flag")
		}
	})

	t.Run("has data-url flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("data-url") == nil {
			t.Error("expected data-url flag")
		}
	})
}

func TestBuildSanitizeConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewSanitizeCmd()
		cfg, err := buildSanitizeConfig(cmd, []string{"photo.png"})
		if err != nil {
			t.Fatalf("failed to build config: %v", err)
		}

		if cfg.Format != config.DefaultFormat {
			t.Errorf("expected format %q, got %q", config.DefaultFormat, cfg.Format)
		}
		if cfg.MaxDim != config.DefaultMaxDim {
			t.Errorf("expected max dim %d, got %d", config.DefaultMaxDim, cfg.MaxDim)
		}
		if cfg.EmitDataURL {
			t.Error("expected data URL emission disabled by default")
		}
		if len(cfg.Inputs) != 1 || cfg.Inputs[0] != "photo.png" {
			t.Errorf("unexpected inputs: %v", cfg.Inputs)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewSanitizeCmd()
		if err := cmd.Flags().Set("format", "jpeg"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}
		if err := cmd.Flags().Set("max-dim", "512"); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		cfg, err := buildSanitizeConfig(cmd, []string{"photo.png"})
		if err != nil {
			t.Fatalf("failed to build config: %v", err)
		}

		if cfg.Format != "jpeg" {
			t.Errorf("expected format 'jpeg', got %q", cfg.Format)
		}
		if cfg.MaxDim != 512 {
			t.Errorf("expected max dim 512, got %d", cfg.MaxDim)
		}
	})

	t.Run("config file overrides unset flags", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".imgscrub")
		yml := "defaults:\n  format: jpeg\n  max_dim: 1600\n"
		if err := os.WriteFile(path, []byte(yml), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewSanitizeCmd()
		if err := cmd.Flags().Set("config", path); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		cfg, err := buildSanitizeConfig(cmd, []string{"photo.png"})
		if err != nil {
			t.Fatalf("failed to build config: %v", err)
		}

		if cfg.Format != "jpeg" {
			t.Errorf("expected file value 'jpeg', got %q", cfg.Format)
		}
		if cfg.MaxDim != 1600 {
			t.Errorf("expected file value 1600, got %d", cfg.MaxDim)
		}
	})

	t.Run("explicit flag beats config file even at default value", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".imgscrub")
		yml := "defaults:\n  format: jpeg\n  max_dim: 1600\n"
		if err := os.WriteFile(path, []byte(yml), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewSanitizeCmd()
		if err := cmd.Flags().Set("config", path); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}
		if err := cmd.Flags().Set("format", config.DefaultFormat); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		cfg, err := buildSanitizeConfig(cmd, []string{"photo.png"})
		if err != nil {
			t.Fatalf("failed to build config: %v", err)
		}

		if cfg.Format != config.DefaultFormat {
			t.Errorf("expected explicit flag value %q, got %q", config.DefaultFormat, cfg.Format)
		}
		if cfg.MaxDim != 1600 {
			t.Errorf("expected untouched file value 1600, got %d", cfg.MaxDim)
		}
	})

	t.Run("missing explicit config file fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewSanitizeCmd()
		missing := filepath.Join(t.TempDir(), "no-such.yml")
		if err := cmd.Flags().Set("config", missing); err != nil {
			t.Fatalf("failed to set flag: %v", err)
		}

		if _, err := buildSanitizeConfig(cmd, []string{"photo.png"}); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestWriteOutputFile(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("applies anonymization contract", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "clean.png")
		out := sanitize.Output{Data: []byte("sanitized"), MIME: "image/png"}

		if err := writeOutputFile(path, out, logger); err != nil {
			t.Fatalf("failed to write output: %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("failed to stat output: %v", err)
		}
		if info.Mode().Perm() != sanitize.OutputFileMode {
			t.Errorf("expected mode %v, got %v", sanitize.OutputFileMode, info.Mode().Perm())
		}
		if !info.ModTime().Equal(sanitize.FixedTimestamp) {
			t.Errorf("expected fixed timestamp, got %v", info.ModTime())
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if string(data) != "sanitized" {
			t.Errorf("unexpected content %q", data)
		}
	})
}

func TestSanitizeCommandEndToEnd(t *testing.T) {
	t.Parallel()

	t.Run("file to explicit output", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "in.png")
		out := filepath.Join(dir, "out.png")
		if err := os.WriteFile(in, encodeTestPNG(t, 16, 8), 0600); err != nil {
			t.Fatalf("failed to write input: %v", err)
		}

		root := NewRootCmd()
		root.SetArgs([]string{"sanitize", "--output", out, in})
		if err := root.Execute(); err != nil {
			t.Fatalf("sanitize command failed: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Error("expected PNG output")
		}
	})

	t.Run("invalid max dim fails", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		root.SetArgs([]string{"sanitize", "--max-dim", "0", "photo.png"})
		if err := root.Execute(); err == nil {
			t.Error("expected a configuration error")
		}
	})
}
