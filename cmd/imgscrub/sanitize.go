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
	"github.com/imgscrub/imgscrub/internal/dataurl"
	"github.com/imgscrub/imgscrub/internal/sanitize"
)

// NewSanitizeCmd creates the sanitize command.
func NewSanitizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize [image-file|data-url]",
		Short: "Strip metadata from an image and write an anonymized copy",
		Long: `Sanitize decodes an image, normalizes its color representation, bounds its
dimensions, and re-encodes the pixel data with an empty metadata container.

The input is a file path or a base64 data URL. By default a file input
produces an anonymized file (randomized name, fixed timestamp) in the
system temp directory, and a data URL input produces a sanitized data URL
on stdout.

Examples:
  # Sanitize a photo into an anonymized temp file
  imgscrub sanitize vacation.jpg

  # Sanitize to an explicit output path as JPEG
  imgscrub sanitize --format jpeg --output clean.jpg vacation.jpg

  # Bound the long edge at 1024 pixels
  imgscrub sanitize --max-dim 1024 vacation.jpg

  # Sanitize a data URL (prints a sanitized data URL)
  imgscrub sanitize "data:image/png;base64,iVBOR..."

  # Emit a data URL for a file input
  imgscrub sanitize --data-url vacation.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: runSanitizeCmd,
	}

	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Output encoding: png or jpeg")
	cmd.Flags().IntP("max-dim", "d", config.DefaultMaxDim,
		"Inclusive bound on the output's long edge in pixels")
	cmd.Flags().StringP("output", "o", "",
		"Write the sanitized image to this path instead of an anonymized temp file")
	cmd.Flags().Bool("data-url", false,
		"Print the sanitized image as a base64 data URL")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .imgscrub in current or home directory)")

	return cmd
}

// runSanitizeCmd executes the sanitize command.
func runSanitizeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildSanitizeConfig(cmd, args)
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

	return runSanitize(ctx, cfg, logger)
}

// buildSanitizeConfig creates a Config from cobra command flags.
// The config file is applied first; flags the user explicitly set
// override it, even when the flag value equals the built-in default.
func buildSanitizeConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg); err != nil {
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

	cfg.OutputPath, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.EmitDataURL, err = cmd.Flags().GetBool("data-url")
	if err != nil {
		return nil, err
	}

	cfg.Inputs = args

	return cfg, nil
}

// runSanitize executes the sanitization.
func runSanitize(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	input := cfg.Inputs[0]
	format := codec.ParseFormat(cfg.Format)
	sanitizer := sanitize.New(sanitize.WithLogger(logger))

	isFile, err := resolveInput(input)
	if err != nil {
		return err
	}

	if !isFile {
		return sanitizeDataURLInput(ctx, sanitizer, cfg, input, format)
	}
	return sanitizeFileInput(ctx, sanitizer, cfg, input, format, logger)
}

// sanitizeFileInput sanitizes an on-disk image.
func sanitizeFileInput(ctx context.Context, sanitizer *sanitize.Sanitizer, cfg *config.Config, path string, format codec.Format, logger *slog.Logger) error {
	if cfg.EmitDataURL {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		out, err := sanitizer.SanitizeBytes(ctx, raw, format, cfg.MaxDim)
		if err != nil {
			return err
		}
		fmt.Println(dataurl.Format(out.Data, out.MIME))
		return nil
	}

	if cfg.OutputPath != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		out, err := sanitizer.SanitizeBytes(ctx, raw, format, cfg.MaxDim)
		if err != nil {
			return err
		}
		if err := writeOutputFile(cfg.OutputPath, out, logger); err != nil {
			return err
		}
		fmt.Printf("Sanitized %s -> %s\n", path, cfg.OutputPath)
		return nil
	}

	tmpPath, err := sanitizer.SanitizeFileToTemp(ctx, path, format, cfg.MaxDim)
	if err != nil {
		return err
	}
	fmt.Printf("Sanitized %s -> %s\n", path, tmpPath)
	return nil
}

// sanitizeDataURLInput sanitizes an image carried in a data URL.
func sanitizeDataURLInput(ctx context.Context, sanitizer *sanitize.Sanitizer, cfg *config.Config, input string, format codec.Format) error {
	if cfg.OutputPath != "" {
		payload, err := dataurl.Parse(input)
		if err != nil {
			return err
		}
		out, err := sanitizer.SanitizeBytes(ctx, payload.Data, format, cfg.MaxDim)
		if err != nil {
			return err
		}
		if err := writeOutputFile(cfg.OutputPath, out, slog.Default()); err != nil {
			return err
		}
		fmt.Printf("Sanitized data URL -> %s\n", cfg.OutputPath)
		return nil
	}

	result, err := sanitizer.SanitizeDataURL(ctx, input, format, cfg.MaxDim)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

// writeOutputFile writes sanitized bytes to an explicit path, applying
// the same filesystem anonymization as the temp-file path: fixed
// permissions and a fixed modification timestamp. Timestamp and mode
// failures are logged, not fatal; the sanitized bytes are already safe.
func writeOutputFile(path string, out sanitize.Output, logger *slog.Logger) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, out.Data, sanitize.OutputFileMode); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if err := os.Chtimes(path, sanitize.FixedTimestamp, sanitize.FixedTimestamp); err != nil {
		logger.Warn("failed to reset output timestamp", "path", path, "error", err)
	}
	if err := os.Chmod(path, sanitize.OutputFileMode); err != nil {
		logger.Warn("failed to reset output permissions", "path", path, "error", err)
	}
	return nil
}
