package sanitize

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestRandomBasename(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^img_[0-9a-f]{8}\.png$`)

	name, err := randomBasename(".png")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !pattern.MatchString(name) {
		t.Errorf("basename %q does not match img_<8 hex>.png", name)
	}

	other, err := randomBasename(".png")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if name == other {
		t.Error("two generated names should differ")
	}
}

func TestPersist(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := Output{Data: []byte("sanitized bytes"), MIME: "image/png"}

	file, err := Persist(out, dir, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if filepath.Dir(file.Path) != dir {
		t.Errorf("expected file in %s, got %s", dir, file.Path)
	}
	if file.MIME != "image/png" {
		t.Errorf("expected MIME image/png, got %q", file.MIME)
	}
	if len(file.Warnings) != 0 {
		t.Errorf("expected no warnings on a writable filesystem, got %v", file.Warnings)
	}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		t.Fatalf("failed to read persisted file: %v", err)
	}
	if string(data) != "sanitized bytes" {
		t.Error("persisted content differs from output data")
	}

	info, err := os.Stat(file.Path)
	if err != nil {
		t.Fatalf("failed to stat persisted file: %v", err)
	}
	if info.Mode().Perm() != OutputFileMode {
		t.Errorf("expected mode %#o, got %#o", OutputFileMode, info.Mode().Perm())
	}
	if !info.ModTime().Equal(FixedTimestamp) {
		t.Errorf("expected mtime %v, got %v", FixedTimestamp, info.ModTime())
	}
}

func TestPersistJPEGExtension(t *testing.T) {
	t.Parallel()

	file, err := Persist(Output{Data: []byte{0xFF}, MIME: "image/jpeg"}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if filepath.Ext(file.Path) != ".jpg" {
		t.Errorf("expected .jpg extension, got %q", filepath.Ext(file.Path))
	}
}

// TestPersistCollisionRetry pins the name source to force basename
// collisions. Not parallel: it swaps the package-level generator.
func TestPersistCollisionRetry(t *testing.T) {
	original := randomBasename
	defer func() { randomBasename = original }()

	t.Run("retries until a free name is found", func(t *testing.T) {
		dir := t.TempDir()
		taken := filepath.Join(dir, "img_aaaaaaaa.png")
		if err := os.WriteFile(taken, []byte{1}, 0600); err != nil {
			t.Fatalf("failed to pre-create colliding file: %v", err)
		}

		names := []string{"img_aaaaaaaa.png", "img_bbbbbbbb.png"}
		calls := 0
		randomBasename = func(ext string) (string, error) {
			name := names[calls]
			calls++
			return name, nil
		}

		file, err := Persist(Output{Data: []byte("clean"), MIME: "image/png"}, dir, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if filepath.Base(file.Path) != "img_bbbbbbbb.png" {
			t.Errorf("expected the second name to be used, got %q", filepath.Base(file.Path))
		}
		if calls != 2 {
			t.Errorf("expected 2 name generations, got %d", calls)
		}

		data, err := os.ReadFile(taken)
		if err != nil {
			t.Fatalf("failed to read pre-created file: %v", err)
		}
		if len(data) != 1 || data[0] != 1 {
			t.Error("expected the colliding file to be left untouched")
		}
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		dir := t.TempDir()
		taken := filepath.Join(dir, "img_cccccccc.png")
		if err := os.WriteFile(taken, []byte{1}, 0600); err != nil {
			t.Fatalf("failed to pre-create colliding file: %v", err)
		}

		calls := 0
		randomBasename = func(ext string) (string, error) {
			calls++
			return "img_cccccccc.png", nil
		}

		_, err := Persist(Output{Data: []byte("clean"), MIME: "image/png"}, dir, nil)
		if !errors.Is(err, ErrWriteOutput) {
			t.Fatalf("expected ErrWriteOutput, got %v", err)
		}
		if calls != persistMaxAttempts {
			t.Errorf("expected %d attempts, got %d", persistMaxAttempts, calls)
		}
	})
}

func TestPersistMissingDirectory(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "does", "not", "exist")
	_, err := Persist(Output{Data: []byte{1}, MIME: "image/png"}, missing, nil)
	if err == nil {
		t.Error("expected an error when the target directory does not exist")
	}
}
