package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "imgscrub" {
			t.Errorf("expected use 'imgscrub', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has log-json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.PersistentFlags().Lookup("log-json") == nil {
			t.Fatal("expected log-json flag")
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		hasSanitize := false
		hasInspect := false
		hasHistory := false
		hasVersion := false
		for _, sub := range cmd.Commands() {
			switch sub.Name() {
			case "sanitize":
				hasSanitize = true
			case "inspect":
				hasInspect = true
			case "history":
				hasHistory = true
			case "version":
				hasVersion = true
			}
		}
		if !hasSanitize {
			t.Error("expected sanitize subcommand")
		}
		if !hasInspect {
			t.Error("expected inspect subcommand")
		}
		if !hasHistory {
			t.Error("expected history subcommand")
		}
		if !hasVersion {
			t.Error("expected version subcommand")
		}
	})
}

func TestResolveInput(t *testing.T) {
	t.Parallel()

	t.Run("existing file resolves to file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "photo.png")
		if err := os.WriteFile(path, []byte{1}, 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		isFile, err := resolveInput(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !isFile {
			t.Error("expected file classification")
		}
	})

	t.Run("data URL resolves to data URL", func(t *testing.T) {
		t.Parallel()

		isFile, err := resolveInput("data:image/png;base64,AAAA")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if isFile {
			t.Error("expected data URL classification")
		}
	})

	t.Run("neither fails", func(t *testing.T) {
		t.Parallel()

		if _, err := resolveInput(filepath.Join(t.TempDir(), "missing.png")); err == nil {
			t.Error("expected an error for an unresolvable input")
		}
	})
}
