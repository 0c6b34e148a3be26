package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/imgscrub/imgscrub/internal/config"
	"github.com/imgscrub/imgscrub/internal/dataurl"
	"github.com/imgscrub/imgscrub/internal/log"
)

// NewRootCmd creates the root command for imgscrub.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imgscrub",
		Short: "Strip identifying metadata from images",
		Long: `imgscrub removes identifying metadata from raster images before publication.
It decodes the image, normalizes the color representation, bounds the
dimensions, and re-encodes the pixel data so that EXIF blocks, ICC color
profiles, XMP packets, and textual chunks cannot survive into the output.

Sanitized files are written under randomized names with a fixed
modification timestamp so the output file itself carries no identity.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON instead of text")

	// Add subcommands
	cmd.AddCommand(NewSanitizeCmd())
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogJSONFlag retrieves the log-json flag from the command or its parent.
func getLogJSONFlag(cmd *cobra.Command) bool {
	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		logJSON, err = cmd.Root().PersistentFlags().GetBool("log-json")
		if err != nil {
			return false
		}
	}
	return logJSON
}

// setupLogger creates a structured logger honoring the global flags.
// All log output passes through the masking handler so identifying
// metadata values never leak into logs.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getVerboseFlag(cmd)
	if getLogJSONFlag(cmd) {
		return log.NewJSONLogger(os.Stderr, verbose)
	}
	return log.NewLogger(os.Stderr, verbose)
}

// resolveInput classifies a positional argument as either a file path or
// a data URL. File paths are probed first so an on-disk file whose name
// happens to start with "data:" still resolves to the file.
func resolveInput(input string) (isFile bool, err error) {
	if _, statErr := os.Stat(input); statErr == nil {
		return true, nil
	}
	if dataurl.IsDataURL(input) {
		return false, nil
	}
	return false, fmt.Errorf("input is neither a readable file nor a data URL: %s", input)
}

// loadConfigFile applies the optional config file to cfg.
// An explicitly specified path that does not exist is an error; the
// absence of an implicit .imgscrub file is not.
func loadConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicit {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.ApplyFile(file)
	return nil
}
