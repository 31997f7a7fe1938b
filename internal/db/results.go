package db

import (
	"time"

	"osrs-flipper/internal/engine"
)

// ScanRecord is one saved flip table computation.
type ScanRecord struct {
	ID            int64   `json:"id"`
	Timestamp     string  `json:"timestamp"`
	Strategy      string  `json:"strategy"`
	WindowMinutes int     `json:"window_minutes"`
	Count         int     `json:"count"`
	TopMargin     float64 `json:"top_margin"`
	DurationMs    int64   `json:"duration_ms"`
}

// InsertScan records a computed flip table (history row plus result rows)
// and returns the scan ID, or 0 on error. Persistence is best-effort: a
// failed save never fails the report that produced it.
func (d *DB) InsertScan(strategy string, windowMinutes int, results []engine.FlipCandidate, durationMs int64) int64 {
	tx, err := d.sql.Begin()
	if err != nil {
		return 0
	}
	defer tx.Rollback()

	var topMargin float64
	if len(results) > 0 {
		topMargin = results[0].Margin
	}
	res, err := tx.Exec(
		"INSERT INTO scan_history (timestamp, strategy, window_minutes, count, top_margin, duration_ms) VALUES (?, ?, ?, ?, ?, ?)",
		time.Now().Format(time.RFC3339), strategy, windowMinutes, len(results), topMargin, durationMs,
	)
	if err != nil {
		return 0
	}
	scanID, _ := res.LastInsertId()

	stmt, err := tx.Prepare(`
		INSERT INTO flip_results (scan_id, item_id, name, members, trade_limit, sample_count,
			current_high, current_low, current_spread, avg_spread, max_spread,
			buy_zone, sell_zone, margin, roi_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0
	}
	defer stmt.Close()

	for _, r := range results {
		members := 0
		if r.Members {
			members = 1
		}
		if _, err := stmt.Exec(scanID, r.ItemID, r.Name, members, r.TradeLimit, r.SampleCount,
			r.CurrentHigh, r.CurrentLow, r.CurrentSpread, r.AvgSpread, r.MaxSpread,
			r.BuyZone, r.SellZone, r.Margin, r.ROIPct); err != nil {
			return 0
		}
	}
	if err := tx.Commit(); err != nil {
		return 0
	}
	return scanID
}

// GetScans returns the last N saved scans (newest first).
func (d *DB) GetScans(limit int) []ScanRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT id, timestamp, strategy, window_minutes, count, top_margin, duration_ms
		 FROM scan_history ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return []ScanRecord{}
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var r ScanRecord
		rows.Scan(&r.ID, &r.Timestamp, &r.Strategy, &r.WindowMinutes, &r.Count, &r.TopMargin, &r.DurationMs)
		records = append(records, r)
	}
	if records == nil {
		return []ScanRecord{}
	}
	return records
}

// GetFlipResults returns the saved result rows for a scan, in saved order.
func (d *DB) GetFlipResults(scanID int64) []engine.FlipCandidate {
	rows, err := d.sql.Query(`
		SELECT item_id, name, members, trade_limit, sample_count,
		       current_high, current_low, current_spread, avg_spread, max_spread,
		       buy_zone, sell_zone, margin, roi_pct
		FROM flip_results WHERE scan_id = ? ORDER BY id`,
		scanID,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var results []engine.FlipCandidate
	for rows.Next() {
		var r engine.FlipCandidate
		var members int
		rows.Scan(&r.ItemID, &r.Name, &members, &r.TradeLimit, &r.SampleCount,
			&r.CurrentHigh, &r.CurrentLow, &r.CurrentSpread, &r.AvgSpread, &r.MaxSpread,
			&r.BuyZone, &r.SellZone, &r.Margin, &r.ROIPct)
		r.Members = members != 0
		results = append(results, r)
	}
	return results
}
