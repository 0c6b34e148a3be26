package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/imgscrub/imgscrub/internal/config"
	"github.com/imgscrub/imgscrub/internal/database"
	"github.com/imgscrub/imgscrub/internal/model"
)

// NewHistoryCmd creates the history command.
// This command displays inspection reports previously saved with
// `inspect --save`.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [source]",
		Short: "Show saved inspection reports",
		Long: `History displays inspection reports saved to the local database.

Without arguments it lists all saved records. With a source (the file
basename shown in reports) it prints every saved report for that source,
newest first, so repeated inspections of the same image show whether its
metadata situation improved.

Examples:
  # List all saved inspection records
  imgscrub history

  # Show full report history for a source
  imgscrub history vacation.jpg

  # Show a single saved report by ID
  imgscrub history --id 5

  # JSON output
  imgscrub history --json vacation.jpg`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("id", "i", 0,
		"Show the saved report with this ID (use the listing to find IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	reportID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.DefaultDBDir()
	}

	// Opening without CreateIfNotExists: reading history should not
	// spawn an empty database.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no inspection history (run 'imgscrub inspect --save' first): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if reportID > 0 {
		return showReportByID(ctx, db, reportID, jsonOutput)
	}

	if len(args) == 0 {
		return listRecords(ctx, db, jsonOutput)
	}
	return showSourceHistory(ctx, db, args[0], jsonOutput)
}

// listRecords lists all saved inspection records.
func listRecords(ctx context.Context, db *database.HistoryDB, jsonOutput bool) error {
	records, err := db.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No saved inspection records.")
		fmt.Println("\nUse 'imgscrub inspect --save <image>' to save a report.")
		return nil
	}

	fmt.Printf("Saved inspections (%d):\n\n", len(records))
	fmt.Printf("  %-6s  %-20s  %-30s  %-9s  %s\n", "ID", "Date", "Source", "Findings", "Verdict")
	fmt.Println("  " + strings.Repeat("-", 78))

	for _, rec := range records {
		fmt.Printf("  %-6d  %-20s  %-30s  %-9d  %s\n",
			rec.ID,
			rec.DateInspected.Format("2006-01-02 15:04:05"),
			truncate(rec.Source, 30),
			rec.FindingCount,
			verdict(rec),
		)
	}

	fmt.Println("\nUse 'imgscrub history <source>' to see full reports for a source.")
	return nil
}

// showSourceHistory prints every saved report for a source, newest first.
func showSourceHistory(ctx context.Context, db *database.HistoryDB, source string, jsonOutput bool) error {
	reports, err := db.GetHistory(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no saved reports for %s", source)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reports)
	}

	fmt.Printf("Inspection history for %s (%d reports):\n\n", source, len(reports))
	for _, rpt := range reports {
		printReportSummary(rpt)
	}
	return nil
}

// showReportByID prints a single saved report.
func showReportByID(ctx context.Context, db *database.HistoryDB, id int64, jsonOutput bool) error {
	rpt, err := db.GetReportByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get report %d: %w", id, err)
	}
	if rpt == nil {
		return errors.New("report not found")
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rpt)
	}

	printReportSummary(rpt)
	return nil
}

// printReportSummary prints a one-paragraph summary of a saved report.
func printReportSummary(rpt *model.InspectionReport) {
	fmt.Printf("%s  %s  %dx%d %s\n",
		rpt.DateInspected.Format("2006-01-02 15:04:05"),
		rpt.Source,
		rpt.Width, rpt.Height,
		strings.ToUpper(rpt.Format),
	)

	if rpt.Clean() {
		fmt.Println("  clean: no identifying metadata")
		fmt.Println()
		return
	}

	fmt.Printf("  findings: %s\n", formatSeverityCounts(rpt))
	for _, f := range rpt.Findings {
		fmt.Printf("  [%s] %s\n", f.SeverityText, f.Title)
	}
	fmt.Println()
}

// formatSeverityCounts renders per-severity finding counts compactly.
func formatSeverityCounts(rpt *model.InspectionReport) string {
	var parts []string
	if v := rpt.CountBySeverity(model.SeverityCritical); v > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", v))
	}
	if v := rpt.CountBySeverity(model.SeverityHigh); v > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", v))
	}
	if v := rpt.CountBySeverity(model.SeverityMedium); v > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", v))
	}
	if v := rpt.CountBySeverity(model.SeverityLow); v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}
	if v := rpt.CountBySeverity(model.SeverityInfo); v > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", v))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// verdict renders the clean flag of a listing record.
func verdict(rec database.RecordSummary) string {
	if rec.Clean {
		return "clean"
	}
	return "max " + rec.MaxSeverity.String()
}

// truncate shortens s to at most n runes for column display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
