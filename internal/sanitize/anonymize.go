package sanitize

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/imgscrub/imgscrub/internal/codec"
)

// Anonymization constants. These values are part of the output contract:
// any file produced by Persist has this shape, so nothing about the file's
// identity relates to the input or to the moment of sanitization.
const (
	// OutputFileMode is the fixed permission set for sanitized files:
	// owner read/write, group and other read, no execute anywhere.
	OutputFileMode fs.FileMode = 0o644

	// filenameRandomBytes is the entropy of the randomized basename.
	// 4 bytes (8 hex chars, 32 bits) makes collisions negligible for a
	// temp directory; creation still uses O_EXCL and retries on the
	// collisions that remain.
	filenameRandomBytes = 4

	// persistMaxAttempts bounds the collision retry loop.
	persistMaxAttempts = 4
)

// FixedTimestamp is the constant instant written to atime and mtime of
// every sanitized file: 2000-01-01T00:00:00Z. A fixed value, unlike the
// current time, reveals nothing about when sanitization happened.
var FixedTimestamp = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// AnonymizedFile describes a persisted sanitized image.
type AnonymizedFile struct {
	// Path is the absolute path of the written file.
	Path string

	// MIME is the media type of the file's content.
	MIME string

	// Warnings lists the best-effort resets that failed (timestamps,
	// permissions). A non-empty list does not invalidate the file: the
	// sanitized bytes were written successfully.
	Warnings []string
}

// randomBasename returns a randomized, non-identifying filename like
// "img_8b1a9953.png". The name carries no timestamp and no relation to
// the input name. Declared as a variable so tests can pin the generated
// name sequence and exercise the collision retry path.
var randomBasename = func(ext string) (string, error) {
	buf := make([]byte, filenameRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random filename: %w", err)
	}
	return "img_" + hex.EncodeToString(buf) + ext, nil
}

// Persist writes sanitized output into targetDir under a randomized
// basename, then resets the file's timestamps and permission bits to
// fixed values.
//
// The resets are best-effort: the sanitized bytes are already safely on
// disk, so a filesystem that refuses utimes or chmod downgrades
// to a logged warning instead of failing the operation. Everything before
// that point (name generation, exclusive create, write) is fatal.
func Persist(out Output, targetDir string, logger *slog.Logger) (*AnonymizedFile, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ext := codec.ExtensionForMIME(out.MIME)

	var path string
	var f *os.File
	for attempt := 0; ; attempt++ {
		name, err := randomBasename(ext)
		if err != nil {
			return nil, err
		}
		path = filepath.Join(targetDir, name)

		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, OutputFileMode)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) || attempt+1 >= persistMaxAttempts {
			return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
		}
	}

	if _, err := f.Write(out.Data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteOutput, path, err)
	}

	file := &AnonymizedFile{Path: path, MIME: out.MIME}

	if err := os.Chtimes(path, FixedTimestamp, FixedTimestamp); err != nil {
		warn := fmt.Sprintf("timestamp reset failed: %v", err)
		file.Warnings = append(file.Warnings, warn)
		logger.Warn("anonymize warning", "path", filepath.Base(path), "warning", warn)
	}
	if err := os.Chmod(path, OutputFileMode); err != nil {
		warn := fmt.Sprintf("permission reset failed: %v", err)
		file.Warnings = append(file.Warnings, warn)
		logger.Warn("anonymize warning", "path", filepath.Base(path), "warning", warn)
	}

	logger.Info("sanitized file written",
		"basename", filepath.Base(path),
		"bytes", len(out.Data),
		"mime", out.MIME,
	)
	return file, nil
}
