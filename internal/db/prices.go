package db

import (
	"database/sql"
	"fmt"

	"osrs-flipper/internal/engine"
	"osrs-flipper/internal/wiki"
)

// MaxScanTimestamp returns the newest scan timestamp in the prices table.
// ok is false when the table is empty (the "no data yet" state).
func (d *DB) MaxScanTimestamp() (int64, bool, error) {
	var ts sql.NullInt64
	if err := d.sql.QueryRow("SELECT MAX(scan_ts) FROM prices").Scan(&ts); err != nil {
		return 0, false, fmt.Errorf("max scan_ts: %w", err)
	}
	if !ts.Valid {
		return 0, false, nil
	}
	return ts.Int64, true, nil
}

// SamplesSince returns every price sample at or after windowStart joined to
// its item metadata. Samples missing a quote side are unusable for spread
// math and samples without a matching item row are data noise; the query
// drops both.
func (d *DB) SamplesSince(windowStart int64) ([]engine.PriceSample, error) {
	rows, err := d.sql.Query(`
		SELECT p.item_id, p.scan_ts, p.high, p.low,
		       i.name, i.members, COALESCE(i.trade_limit, 0), COALESCE(i.value, 0)
		FROM prices p
		JOIN items i ON i.id = p.item_id
		WHERE p.scan_ts >= ?
		  AND p.high IS NOT NULL
		  AND p.low IS NOT NULL
		ORDER BY p.item_id, p.scan_ts`,
		windowStart,
	)
	if err != nil {
		return nil, fmt.Errorf("samples since %d: %w", windowStart, err)
	}
	defer rows.Close()

	var samples []engine.PriceSample
	for rows.Next() {
		var s engine.PriceSample
		var members int
		if err := rows.Scan(&s.ItemID, &s.ScanTS, &s.High, &s.Low, &s.Name, &members, &s.TradeLimit, &s.BaseValue); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}
		s.Members = members != 0
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("samples since %d: %w", windowStart, err)
	}
	return samples, nil
}

// ItemCount returns the number of rows in the item catalog.
func (d *DB) ItemCount() (int64, error) {
	var n int64
	if err := d.sql.QueryRow("SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("item count: %w", err)
	}
	return n, nil
}

// UpsertItems inserts or replaces item catalog rows and returns the number
// written.
func (d *DB) UpsertItems(items []wiki.Item) (int64, error) {
	tx, err := d.sql.Begin()
	if err != nil {
		return 0, fmt.Errorf("upsert items: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO items (id, name, examine, members, trade_limit, value, icon)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("upsert items: %w", err)
	}
	defer stmt.Close()

	var n int64
	for _, it := range items {
		members := 0
		if it.Members {
			members = 1
		}
		if _, err := stmt.Exec(it.ID, it.Name, it.Examine, members, it.Limit, it.Value, it.Icon); err != nil {
			return 0, fmt.Errorf("upsert item %d: %w", it.ID, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("upsert items: %w", err)
	}
	return n, nil
}

// InsertSnapshot stores one scan's worth of quotes under the given scan
// timestamp and returns the number of rows inserted. Quotes with a missing
// side are stored as-is; the read path excludes them from analysis. Re-runs
// with the same scan timestamp are no-ops per item (INSERT OR IGNORE).
func (d *DB) InsertSnapshot(scanTS int64, quotes map[int64]wiki.Quote) (int64, error) {
	tx, err := d.sql.Begin()
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO prices (scan_ts, item_id, high, low, high_time, low_time)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	defer stmt.Close()

	var n int64
	for itemID, q := range quotes {
		res, err := stmt.Exec(scanTS, itemID, nullInt(q.High), nullInt(q.Low), nullInt(q.HighTime), nullInt(q.LowTime))
		if err != nil {
			return 0, fmt.Errorf("insert quote for item %d: %w", itemID, err)
		}
		if rows, _ := res.RowsAffected(); rows > 0 {
			n += rows
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	return n, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
