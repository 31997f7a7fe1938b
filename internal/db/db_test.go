package db

import (
	"database/sql"
	"testing"

	"osrs-flipper/internal/engine"
	"osrs-flipper/internal/wiki"

	_ "modernc.org/sqlite"
)

// openTestDB opens an in-memory SQLite DB and runs migrations (for testing only).
func openTestDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func ptr(v int64) *int64 { return &v }

func seedItems(t *testing.T, d *DB) {
	t.Helper()
	n, err := d.UpsertItems([]wiki.Item{
		{ID: 4151, Name: "Abyssal whip", Members: true, Limit: 70, Value: 120001},
		{ID: 2, Name: "Cannonball", Members: true, Limit: 11000, Value: 5},
	})
	if err != nil {
		t.Fatalf("UpsertItems: %v", err)
	}
	if n != 2 {
		t.Fatalf("UpsertItems wrote %d rows, want 2", n)
	}
}

func TestDB_ItemCatalogRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	count, err := d.ItemCount()
	if err != nil {
		t.Fatalf("ItemCount: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh db ItemCount = %d, want 0", count)
	}

	seedItems(t, d)

	count, err = d.ItemCount()
	if err != nil {
		t.Fatalf("ItemCount: %v", err)
	}
	if count != 2 {
		t.Errorf("ItemCount = %d, want 2", count)
	}

	// Upsert replaces, not duplicates.
	if _, err := d.UpsertItems([]wiki.Item{{ID: 4151, Name: "Abyssal whip (renamed)"}}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	count, _ = d.ItemCount()
	if count != 2 {
		t.Errorf("ItemCount after re-upsert = %d, want 2", count)
	}
}

func TestDB_MaxScanTimestamp_EmptyStore(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	_, ok, err := d.MaxScanTimestamp()
	if err != nil {
		t.Fatalf("MaxScanTimestamp: %v", err)
	}
	if ok {
		t.Error("empty store should report ok=false")
	}
}

func TestDB_InsertSnapshotAndMaxScanTimestamp(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()
	seedItems(t, d)

	n, err := d.InsertSnapshot(1000, map[int64]wiki.Quote{
		4151: {High: ptr(1200000), Low: ptr(1150000), HighTime: ptr(995), LowTime: ptr(990)},
		2:    {High: ptr(180)}, // low side missing, still stored
	})
	if err != nil {
		t.Fatalf("InsertSnapshot: %v", err)
	}
	if n != 2 {
		t.Errorf("InsertSnapshot inserted %d rows, want 2", n)
	}

	// Same scan_ts again: INSERT OR IGNORE makes it a no-op.
	n, err = d.InsertSnapshot(1000, map[int64]wiki.Quote{4151: {High: ptr(1), Low: ptr(1)}})
	if err != nil {
		t.Fatalf("InsertSnapshot repeat: %v", err)
	}
	if n != 0 {
		t.Errorf("duplicate snapshot inserted %d rows, want 0", n)
	}

	d.InsertSnapshot(1060, map[int64]wiki.Quote{4151: {High: ptr(1210000), Low: ptr(1160000)}})

	ts, ok, err := d.MaxScanTimestamp()
	if err != nil {
		t.Fatalf("MaxScanTimestamp: %v", err)
	}
	if !ok || ts != 1060 {
		t.Errorf("MaxScanTimestamp = %d/%v, want 1060/true", ts, ok)
	}
}

func TestDB_SamplesSince_DropsUnusableRows(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()
	seedItems(t, d)

	d.InsertSnapshot(1000, map[int64]wiki.Quote{
		4151: {High: ptr(100), Low: ptr(80)},
		2:    {High: ptr(180)},              // missing low: dropped on read
		9999: {High: ptr(50), Low: ptr(40)}, // no item metadata: dropped on read
	})
	d.InsertSnapshot(1060, map[int64]wiki.Quote{
		4151: {High: ptr(110), Low: ptr(90)},
	})

	samples, err := d.SamplesSince(0)
	if err != nil {
		t.Fatalf("SamplesSince: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("SamplesSince len = %d, want 2 (null-side and orphan rows dropped)", len(samples))
	}
	for _, s := range samples {
		if s.ItemID != 4151 {
			t.Errorf("unexpected item %d in result set", s.ItemID)
		}
	}
	s := samples[0]
	if s.ScanTS != 1000 || s.High != 100 || s.Low != 80 {
		t.Errorf("samples[0] = %+v", s)
	}
	if s.Name != "Abyssal whip" || !s.Members || s.TradeLimit != 70 || s.BaseValue != 120001 {
		t.Errorf("metadata not joined: %+v", s)
	}
}

func TestDB_SamplesSince_WindowBoundaryInclusive(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()
	seedItems(t, d)

	d.InsertSnapshot(500, map[int64]wiki.Quote{4151: {High: ptr(1), Low: ptr(1)}})
	d.InsertSnapshot(1000, map[int64]wiki.Quote{4151: {High: ptr(2), Low: ptr(1)}})

	samples, err := d.SamplesSince(1000)
	if err != nil {
		t.Fatalf("SamplesSince: %v", err)
	}
	if len(samples) != 1 || samples[0].ScanTS != 1000 {
		t.Errorf("window start should be inclusive, got %+v", samples)
	}
}

func TestDB_ScanPersistenceRoundTrip(t *testing.T) {
	d := openTestDB(t)
	defer d.Close()

	results := []engine.FlipCandidate{
		{
			ItemID: 4151, Name: "Abyssal whip", Members: true, TradeLimit: 70,
			SampleCount: 12, CurrentHigh: 110, CurrentLow: 90, CurrentSpread: 20,
			AvgSpread: 18.5, MaxSpread: 25, BuyZone: 82.5, SellZone: 107.5,
			Margin: 25, ROIPct: 30.3,
		},
		{ItemID: 2, Name: "Cannonball", SampleCount: 8, BuyZone: 150, SellZone: 170, Margin: 20, ROIPct: 13.33},
	}
	scanID := d.InsertScan("windowed_quantile", 240, results, 42)
	if scanID <= 0 {
		t.Fatal("InsertScan returned 0")
	}

	scans := d.GetScans(5)
	if len(scans) != 1 {
		t.Fatalf("GetScans len = %d, want 1", len(scans))
	}
	rec := scans[0]
	if rec.ID != scanID || rec.Strategy != "windowed_quantile" || rec.WindowMinutes != 240 {
		t.Errorf("scan record = %+v", rec)
	}
	if rec.Count != 2 || rec.TopMargin != 25 || rec.DurationMs != 42 {
		t.Errorf("scan record count/top/duration = %d/%v/%d", rec.Count, rec.TopMargin, rec.DurationMs)
	}

	got := d.GetFlipResults(scanID)
	if len(got) != 2 {
		t.Fatalf("GetFlipResults len = %d, want 2", len(got))
	}
	r := got[0]
	if r.ItemID != 4151 || r.Name != "Abyssal whip" || !r.Members || r.TradeLimit != 70 {
		t.Errorf("results[0] = %+v", r)
	}
	if r.BuyZone != 82.5 || r.SellZone != 107.5 || r.Margin != 25 || r.ROIPct != 30.3 {
		t.Errorf("results[0] zones/margin/roi = %v/%v/%v/%v", r.BuyZone, r.SellZone, r.Margin, r.ROIPct)
	}
	if got[1].ItemID != 2 {
		t.Errorf("saved order not preserved: %+v", got[1])
	}
}

func TestDB_LoadWindowThroughStore(t *testing.T) {
	// The DB satisfies engine.SampleSource end to end.
	d := openTestDB(t)
	defer d.Close()
	seedItems(t, d)

	d.InsertSnapshot(940, map[int64]wiki.Quote{4151: {High: ptr(100), Low: ptr(80)}})
	d.InsertSnapshot(1000, map[int64]wiki.Quote{4151: {High: ptr(110), Low: ptr(90)}})

	finder := engine.NewFinder(d)
	rows, err := finder.ComputeFlipTable(engine.FlipParams{WindowMinutes: 240, MinSamples: 2})
	if err != nil {
		t.Fatalf("ComputeFlipTable: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].BuyZone != 82.5 || rows[0].SellZone != 107.5 || rows[0].Margin != 25 {
		t.Errorf("end-to-end row = %+v", rows[0])
	}
}
