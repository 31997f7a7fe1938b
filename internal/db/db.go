package db

import (
	"database/sql"
	"fmt"

	"osrs-flipper/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite price store.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// Try to read current version
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS items (
				id          INTEGER PRIMARY KEY,
				name        TEXT NOT NULL,
				examine     TEXT,
				members     INTEGER NOT NULL DEFAULT 0,
				trade_limit INTEGER,
				value       INTEGER,
				icon        TEXT
			);

			CREATE TABLE IF NOT EXISTS prices (
				scan_ts   INTEGER NOT NULL,
				item_id   INTEGER NOT NULL,
				high      INTEGER,
				low       INTEGER,
				high_time INTEGER,
				low_time  INTEGER,
				PRIMARY KEY (scan_ts, item_id)
			);
			CREATE INDEX IF NOT EXISTS idx_prices_scan_ts ON prices(scan_ts);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1 (items, prices)")
	}

	if version < 2 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS scan_history (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp      TEXT NOT NULL,
				strategy       TEXT NOT NULL,
				window_minutes INTEGER NOT NULL,
				count          INTEGER NOT NULL,
				top_margin     REAL NOT NULL,
				duration_ms    INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_scan_history_ts ON scan_history(timestamp);

			CREATE TABLE IF NOT EXISTS flip_results (
				id             INTEGER PRIMARY KEY AUTOINCREMENT,
				scan_id        INTEGER NOT NULL REFERENCES scan_history(id),
				item_id        INTEGER,
				name           TEXT,
				members        INTEGER,
				trade_limit    INTEGER,
				sample_count   INTEGER,
				current_high   REAL,
				current_low    REAL,
				current_spread REAL,
				avg_spread     REAL,
				max_spread     REAL,
				buy_zone       REAL,
				sell_zone      REAL,
				margin         REAL,
				roi_pct        REAL
			);
			CREATE INDEX IF NOT EXISTS idx_flip_scan ON flip_results(scan_id);

			INSERT OR IGNORE INTO schema_version (version) VALUES (2);
		`)
		if err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
		logger.Info("DB", "Applied migration v2 (scan history)")
	}

	return nil
}

// SqlDB returns the underlying *sql.DB for use by other packages.
func (d *DB) SqlDB() *sql.DB {
	return d.sql
}
