package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imgscrub/imgscrub/internal/codec"
	"github.com/imgscrub/imgscrub/internal/config"
	"github.com/imgscrub/imgscrub/internal/database"
	"github.com/imgscrub/imgscrub/internal/dataurl"
	"github.com/imgscrub/imgscrub/internal/inspect"
	"github.com/imgscrub/imgscrub/internal/model"
	"github.com/imgscrub/imgscrub/internal/report"
	"github.com/imgscrub/imgscrub/internal/sanitize"
)

// dataURLSource labels data-URL inputs in reports, where there is no
// file name to show.
const dataURLSource = "<data-url>"

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [image-file|data-url]",
		Short: "Report the identifying metadata an image carries",
		Long: `Inspect decodes an image and reports the metadata it carries: EXIF tags,
ICC color profiles, XMP packets, and textual chunks, each classified by
how strongly it identifies a person, device, place, or time.

With --sanitize the image is additionally run through the sanitizer and
the report shows the before and after states side by side, including the
filesystem identity of the sanitized temp file.

Examples:
  # Inspect a photo
  imgscrub inspect vacation.jpg

  # Show every EXIF tag, not just the identifying subset
  imgscrub inspect --exif-full vacation.jpg

  # Sanitize and compare before/after
  imgscrub inspect --sanitize vacation.jpg

  # Sanitize, compare, and delete the sanitized temp file afterwards
  imgscrub inspect --sanitize --cleanup vacation.jpg

  # JSON report saved to history
  imgscrub inspect --json --save vacation.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().BoolP("sanitize", "s", false,
		"Run the sanitizer and report before/after states")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output encoding for the sanitize step: png or jpeg")
	cmd.Flags().IntP("max-dim", "d", config.DefaultMaxDim,
		"Inclusive bound on the sanitized output's long edge in pixels")
	cmd.Flags().Bool("exif-full", false,
		"Report every parsed EXIF tag instead of the identifying subset")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("save", false,
		"Save the inspection report to the history database")
	cmd.Flags().Bool("cleanup", false,
		"Delete the sanitized temp file after reporting (requires --sanitize)")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .imgscrub in current or home directory)")

	return cmd
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildInspectConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runInspect(ctx, cfg, logger)
}

// buildInspectConfig creates a Config from cobra command flags.
// The config file is applied first; flags the user explicitly set
// override it, even when the flag value equals the built-in default.
func buildInspectConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	cfg.Sanitize, err = cmd.Flags().GetBool("sanitize")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("format") {
		cfg.Format, err = cmd.Flags().GetString("format")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("max-dim") {
		cfg.MaxDim, err = cmd.Flags().GetInt("max-dim")
		if err != nil {
			return nil, err
		}
	}

	cfg.FullEXIF, err = cmd.Flags().GetBool("exif-full")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Save, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.Cleanup, err = cmd.Flags().GetBool("cleanup")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("db-dir") {
		cfg.DBDir, err = cmd.Flags().GetString("db-dir")
		if err != nil {
			return nil, err
		}
	}

	cfg.Inputs = args

	return cfg, nil
}

// runInspect executes the inspection.
func runInspect(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	input := cfg.Inputs[0]

	inspector := inspect.NewInspector(
		inspect.WithFullEXIF(cfg.FullEXIF),
		inspect.WithInspectorLogger(logger),
	)

	isFile, err := resolveInput(input)
	if err != nil {
		return err
	}

	comparison := &model.ComparisonReport{}

	var raw []byte
	if isFile {
		comparison.Source = filepath.Base(input)
		before, stat, err := inspector.InspectFile(input)
		if err != nil {
			return err
		}
		comparison.Before = before
		comparison.SourceFile = stat

		raw, err = os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", input, err)
		}
	} else {
		comparison.Source = dataURLSource
		payload, err := dataurl.Parse(input)
		if err != nil {
			return err
		}
		raw = payload.Data

		before, err := inspector.InspectBytes(raw, dataURLSource)
		if err != nil {
			return err
		}
		comparison.Before = before
	}

	if cfg.Sanitize {
		if err := runSanitizeComparison(ctx, cfg, inspector, comparison, raw, logger); err != nil {
			return err
		}
	}

	if err := outputReport(cfg, comparison); err != nil {
		return err
	}

	if cfg.Save {
		if err := saveReports(ctx, cfg, comparison, logger); err != nil {
			return err
		}
	}

	// Cleanup after reporting so the report can still show the temp file.
	if cfg.Sanitize && cfg.Cleanup && comparison.SanitizedFile != nil {
		tmpPath := filepath.Join(comparison.SanitizedFile.Dir, comparison.SanitizedFile.Basename)
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove sanitized temp file", "path", tmpPath, "error", err)
		}
	}

	return nil
}

// runSanitizeComparison runs the sanitizer on raw, persists the result
// as an anonymized temp file, and fills the after-state of the report.
func runSanitizeComparison(ctx context.Context, cfg *config.Config, inspector *inspect.Inspector, comparison *model.ComparisonReport, raw []byte, logger *slog.Logger) error {
	sanitizer := sanitize.New(sanitize.WithLogger(logger))
	format := codec.ParseFormat(cfg.Format)

	out, err := sanitizer.SanitizeBytes(ctx, raw, format, cfg.MaxDim)
	if err != nil {
		return err
	}

	file, err := sanitize.Persist(out, os.TempDir(), logger)
	if err != nil {
		return err
	}

	after, stat, err := inspector.InspectFile(file.Path)
	if err != nil {
		return err
	}

	comparison.After = after
	comparison.SanitizedFile = stat
	comparison.SanitizedMIME = file.MIME
	return nil
}

// outputReport writes the comparison report in the requested format.
func outputReport(cfg *config.Config, comparison *model.ComparisonReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list the metadata found in the image, so keep them
		// readable by the owner only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	writer := selectWriter(cfg, output)

	if comparison.Sanitized() {
		_, err := writer.WriteComparison(comparison)
		return err
	}
	_, err := writer.Write(comparison.Before)
	return err
}

// selectWriter picks the report writer for the configured format.
func selectWriter(cfg *config.Config, output *os.File) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output)
	}
}

// saveReports persists the inspection reports to the history database.
// Both states of a comparison are saved so history queries can show the
// clean/dirty progression for a source.
func saveReports(ctx context.Context, cfg *config.Config, comparison *model.ComparisonReport, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveReport(ctx, comparison.Before)
	if err != nil {
		return fmt.Errorf("failed to save inspection report: %w", err)
	}
	logger.Info("inspection report saved", "id", id, "source", comparison.Before.Source)

	if comparison.After != nil {
		id, err := db.SaveReport(ctx, comparison.After)
		if err != nil {
			return fmt.Errorf("failed to save sanitized inspection report: %w", err)
		}
		logger.Info("sanitized inspection report saved", "id", id, "source", comparison.After.Source)
	}

	return nil
}
