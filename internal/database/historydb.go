package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/imgscrub/imgscrub/internal/model"
)

// HistoryDB provides SQLite-based storage for inspection reports.
// It manages connection pooling and provides methods for saving and
// querying reports.
//
// Design decision: We store the full report as a JSON blob next to a few
// indexed columns (source, severity, timestamp). The report structure
// evolves with the inspector; promoting every field to a column would
// couple the schema to it for no query we actually run.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// RecordSummary is a lightweight view of a stored report for listings.
type RecordSummary struct {
	// ID is the database row ID.
	ID int64

	// Source is the inspected file basename or "<data-url>".
	Source string

	// DateInspected is when the inspection ran.
	DateInspected time.Time

	// MaxSeverity is the worst finding severity in the report.
	MaxSeverity model.Severity

	// FindingCount is the number of findings.
	FindingCount int

	// Clean reports whether the image carried no metadata.
	Clean bool
}

// Open opens or creates a HistoryDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "imgscrub.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY on concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the schema if it does not exist.
func (hdb *HistoryDB) createTables() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS inspections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		date_inspected TEXT NOT NULL,
		max_severity INTEGER NOT NULL,
		finding_count INTEGER NOT NULL,
		clean INTEGER NOT NULL,
		report_json TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	CREATE INDEX IF NOT EXISTS idx_inspections_source ON inspections(source);
	CREATE INDEX IF NOT EXISTS idx_inspections_date ON inspections(date_inspected);
	`

	if _, err := hdb.db.ExecContext(context.Background(), schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// SaveReport persists an inspection report and returns its row ID.
func (hdb *HistoryDB) SaveReport(ctx context.Context, report *model.InspectionReport) (int64, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal report: %w", err)
	}

	clean := 0
	if report.Clean() {
		clean = 1
	}

	result, err := hdb.db.ExecContext(ctx, `
		INSERT INTO inspections (source, date_inspected, max_severity, finding_count, clean, report_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.Source,
		report.DateInspected.UTC().Format(time.RFC3339),
		int(report.MaxSeverity()),
		len(report.Findings),
		clean,
		string(data),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report ID: %w", err)
	}
	return id, nil
}

// GetReportByID retrieves a stored report by its row ID.
func (hdb *HistoryDB) GetReportByID(ctx context.Context, id int64) (*model.InspectionReport, error) {
	var data string
	err := hdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM inspections WHERE id = ?`, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no report with id %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report model.InspectionReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// GetHistory returns the stored reports for a source, newest first.
func (hdb *HistoryDB) GetHistory(ctx context.Context, source string) ([]*model.InspectionReport, error) {
	rows, err := hdb.db.QueryContext(ctx, `
		SELECT report_json FROM inspections
		WHERE source = ?
		ORDER BY date_inspected DESC`,
		source,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var reports []*model.InspectionReport
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		var report model.InspectionReport
		if err := json.Unmarshal([]byte(data), &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

// ListRecords returns summaries of all stored reports, newest first.
func (hdb *HistoryDB) ListRecords(ctx context.Context) ([]RecordSummary, error) {
	rows, err := hdb.db.QueryContext(ctx, `
		SELECT id, source, date_inspected, max_severity, finding_count, clean
		FROM inspections
		ORDER BY date_inspected DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []RecordSummary
	for rows.Next() {
		var rec RecordSummary
		var dateStr string
		var severity, clean int
		if err := rows.Scan(&rec.ID, &rec.Source, &dateStr, &severity, &rec.FindingCount, &clean); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.DateInspected = parseTimestamp(dateStr)
		rec.MaxSeverity = model.Severity(severity)
		rec.Clean = clean != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// parseTimestamp parses an RFC3339 timestamp, returning the zero time on failure.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
