package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultFormat is the default output encoding. PNG is lossless, so
	// re-sanitizing an already-clean image never degrades pixel data.
	DefaultFormat = "png"

	// DefaultMaxDim bounds the output's long edge. 2048 keeps images
	// usable for web publication while discarding the original sensor
	// resolution as a device fingerprint.
	DefaultMaxDim = 2048

	// AppName is the application name used for XDG directory paths.
	AppName = "imgscrub"
)

// Config holds all configuration options for imgscrub.
// This struct is populated from CLI flags and the optional config file,
// and passed through the application via dependency injection rather
// than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Format is the output encoding: "png" or "jpeg".
	Format string

	// MaxDim is the inclusive bound on the output's long edge in pixels.
	MaxDim int

	// OutputPath is an explicit output file path for sanitize. When
	// empty, the result goes to an anonymized file in the temp directory.
	OutputPath string

	// EmitDataURL makes sanitize print a data URL to stdout instead of
	// writing a file.
	EmitDataURL bool

	// Sanitize runs the sanitizer during inspect and reports before/after.
	Sanitize bool

	// FullEXIF includes the full EXIF tag map in inspection reports
	// instead of the identifying subset.
	FullEXIF bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output to JSON format.
	LogJSON bool

	// JSONReport emits the report as JSON instead of human-readable text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport emits the report as GitHub Flavored Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Save persists inspection reports to the history database.
	Save bool

	// Cleanup deletes the sanitized temp file after reporting on it.
	Cleanup bool

	// DBDir is the directory for the history database.
	// Defaults to the XDG data directory (~/.local/share/imgscrub on Linux).
	DBDir string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .imgscrub in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// Inputs is the list of image file paths or data URLs to process.
	Inputs []string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Format: DefaultFormat,
		MaxDim: DefaultMaxDim,
		DBDir:  DefaultDBDir(),
	}
}

// DefaultDBDir returns the default history database directory.
func DefaultDBDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration for consistency.
// It returns the first violation found as one of the package's sentinel
// errors.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	if c.MaxDim <= 0 {
		return ErrNonPositiveMaxDim
	}
	switch strings.ToLower(c.Format) {
	case "png", "jpg", "jpeg":
	default:
		return ErrUnsupportedOutputFormat
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ApplyFile overlays the defaults from a loaded config file onto the
// built-in defaults. Flags always win: callers apply the file first and
// then copy in only the flags the user explicitly set.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Defaults.Format != "" {
		c.Format = f.Defaults.Format
	}
	if f.Defaults.MaxDim > 0 {
		c.MaxDim = f.Defaults.MaxDim
	}
	if f.Defaults.DBDir != "" {
		c.DBDir = f.Defaults.DBDir
	}
}
