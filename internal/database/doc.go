// Package database provides SQLite-based persistence for inspection
// reports. Saved reports let the history command list what has been
// inspected and show whether later inspections of the same source got
// cleaner or leakier over time.
package database
