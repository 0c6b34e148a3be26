package inspect

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/imgscrub/imgscrub/internal/codec"
	"github.com/imgscrub/imgscrub/internal/model"
)

// identifyingTags is the EXIF subset reported by default: the fields
// that most directly identify a person, device, place, or time.
var identifyingTags = map[string]bool{
	"DateTime":          true,
	"DateTimeOriginal":  true,
	"DateTimeDigitized": true,
	"Make":              true,
	"Model":             true,
	"Software":          true,
	"Artist":            true,
	"Copyright":         true,
	"GPSInfo":           true,
	"GPSLatitude":       true,
	"GPSLatitudeRef":    true,
	"GPSLongitude":      true,
	"GPSLongitudeRef":   true,
}

// Inspector extracts and classifies image metadata.
type Inspector struct {
	// exifFull includes every parsed EXIF tag in the report instead of
	// the identifying subset.
	exifFull bool

	// logger for structured logging.
	logger *slog.Logger
}

// InspectorOption configures an Inspector.
type InspectorOption func(*Inspector)

// WithFullEXIF includes the full EXIF tag map in reports.
func WithFullEXIF(full bool) InspectorOption {
	return func(i *Inspector) {
		i.exifFull = full
	}
}

// WithInspectorLogger sets a custom logger for the inspector.
func WithInspectorLogger(logger *slog.Logger) InspectorOption {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// NewInspector creates an Inspector with the given options.
func NewInspector(opts ...InspectorOption) *Inspector {
	i := &Inspector{}

	for _, opt := range opts {
		opt(i)
	}

	if i.logger == nil {
		i.logger = slog.Default()
	}

	return i
}

// InspectBytes decodes image bytes and returns a full inspection report.
// The source string is recorded verbatim (a basename or "<data-url>").
func (i *Inspector) InspectBytes(data []byte, source string) (*model.InspectionReport, error) {
	buf, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(data)

	report := model.NewInspectionReport(source)
	report.Format = buf.SourceFormat
	report.Mode = string(buf.Mode)
	report.Width = buf.Width
	report.Height = buf.Height
	report.SizeBytes = len(data)
	report.SHA256 = hex.EncodeToString(digest[:])

	i.collectEXIF(buf.Metadata.EXIF, report)
	i.collectICC(buf.Metadata.ICCProfile, report)
	i.collectText(buf.Metadata, report)

	report.XMPPresent = codec.HasXMP(data)
	if report.XMPPresent {
		report.AddFinding("xmp_packet", "XMP Packet Embedded", "")
	}

	i.logger.Debug("inspection complete",
		"source", source,
		"format", report.Format,
		"exif_count", report.EXIFCount,
		"findings", len(report.Findings),
	)
	return report, nil
}

// InspectFile reads and inspects the image at path, returning the report
// together with the file's filesystem identity.
func (i *Inspector) InspectFile(path string) (*model.InspectionReport, *model.FileStat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	report, err := i.InspectBytes(data, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	stat, err := FileStat(path)
	if err != nil {
		return nil, nil, err
	}
	return report, stat, nil
}

// FileStat captures the filesystem identity of a file: the attributes
// the anonymizer normalizes on sanitized outputs.
func FileStat(path string) (*model.FileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &model.FileStat{
		Basename:  filepath.Base(path),
		Dir:       filepath.Dir(path),
		SizeBytes: info.Size(),
		Mode:      fmt.Sprintf("%#o", info.Mode().Perm()),
		ModTime:   info.ModTime().UTC(),
	}, nil
}

// collectEXIF parses the raw EXIF block and fills tag data and findings.
func (i *Inspector) collectEXIF(raw []byte, report *model.InspectionReport) {
	if len(raw) == 0 {
		return
	}

	entries, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		// An unparseable block is still a present block.
		report.EXIFPresent = true
		report.AddFinding("exif_present", "Unparseable EXIF Block", fmt.Sprintf("%d bytes", len(raw)))
		return
	}

	report.EXIFPresent = len(entries) > 0
	report.EXIFCount = len(entries)
	report.EXIFTags = make(map[string]string)

	for _, entry := range entries {
		if i.exifFull || identifyingTags[entry.TagName] {
			report.EXIFTags[entry.TagName] = entry.Formatted
		}
		classifyEXIFTag(entry.TagName, entry.Formatted, report)
	}

	if len(report.EXIFTags) == 0 {
		report.EXIFTags = nil
	}
}

// collectICC records ICC profile presence and fingerprint.
func (i *Inspector) collectICC(profile []byte, report *model.InspectionReport) {
	if len(profile) == 0 {
		return
	}

	report.ICCProfilePresent = true
	report.ICCProfileBytes = len(profile)
	digest := sha256.Sum256(profile)
	report.ICCProfileSHA256 = hex.EncodeToString(digest[:])
	report.AddFinding("icc_profile", "ICC Color Profile Embedded",
		fmt.Sprintf("%d bytes", len(profile)))
}

// collectText records textual and application chunks.
func (i *Inspector) collectText(md codec.Metadata, report *model.InspectionReport) {
	for key := range md.Text {
		report.TextKeys = append(report.TextKeys, key)
		report.AddFinding("text_chunk", "Textual Chunk: "+key, md.Text[key])
	}
	for key := range md.Chunks {
		report.TextKeys = append(report.TextKeys, key)
		report.AddFinding("text_chunk", "Application Chunk: "+key,
			fmt.Sprintf("%d bytes", len(md.Chunks[key])))
	}
	sort.Strings(report.TextKeys)
}
