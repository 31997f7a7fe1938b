package engine

import (
	"errors"
	"testing"
)

// fakeSource is an in-memory SampleSource for engine tests. It mimics the
// store's read contract: only samples at or after the window start are
// returned, and Spread is left for the loader to derive.
type fakeSource struct {
	samples []PriceSample
	err     error
}

func (f *fakeSource) MaxScanTimestamp() (int64, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	if len(f.samples) == 0 {
		return 0, false, nil
	}
	max := f.samples[0].ScanTS
	for _, s := range f.samples[1:] {
		if s.ScanTS > max {
			max = s.ScanTS
		}
	}
	return max, true, nil
}

func (f *fakeSource) SamplesSince(windowStart int64) ([]PriceSample, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []PriceSample
	for _, s := range f.samples {
		if s.ScanTS >= windowStart {
			s.Spread = 0
			out = append(out, s)
		}
	}
	return out, nil
}

func TestLoadWindow_EmptyStore(t *testing.T) {
	got, err := LoadWindow(&fakeSource{}, 240)
	if err != nil {
		t.Fatalf("LoadWindow on empty store: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("LoadWindow on empty store returned %d samples, want 0", len(got))
	}
}

func TestLoadWindow_InvalidWindow(t *testing.T) {
	for _, w := range []int{0, -5} {
		_, err := LoadWindow(&fakeSource{}, w)
		if !errors.Is(err, ErrInvalidParams) {
			t.Errorf("LoadWindow(%d) err = %v, want ErrInvalidParams", w, err)
		}
	}
}

func TestLoadWindow_StorageFailurePropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := LoadWindow(&fakeSource{err: boom}, 60)
	if !errors.Is(err, boom) {
		t.Errorf("LoadWindow err = %v, want wrapped storage error", err)
	}
}

func TestLoadWindow_TrailingWindowAnchoredAtMaxTS(t *testing.T) {
	src := &fakeSource{samples: []PriceSample{
		{ItemID: 1, ScanTS: 1000, High: 100, Low: 80},
		{ItemID: 1, ScanTS: 4000, High: 100, Low: 80},
		{ItemID: 1, ScanTS: 7000, High: 100, Low: 80},
	}}
	// window_start = 7000 - 60*60 = 3400, so the sample at 1000 falls out.
	got, err := LoadWindow(src, 60)
	if err != nil {
		t.Fatalf("LoadWindow: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadWindow returned %d samples, want 2", len(got))
	}
	for _, s := range got {
		if s.ScanTS < 3400 {
			t.Errorf("sample at %d is outside the window", s.ScanTS)
		}
	}
}

func TestLoadWindow_DerivesSpread(t *testing.T) {
	src := &fakeSource{samples: []PriceSample{
		{ItemID: 1, ScanTS: 100, High: 110, Low: 90},
		{ItemID: 2, ScanTS: 100, High: 50, Low: 70}, // inconsistent feed, not clamped
	}}
	got, err := LoadWindow(src, 10)
	if err != nil {
		t.Fatalf("LoadWindow: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Spread != 20 {
		t.Errorf("Spread = %v, want 20", got[0].Spread)
	}
	if got[1].Spread != -20 {
		t.Errorf("negative spread = %v, want -20 (unclamped)", got[1].Spread)
	}
}

func TestLoadWindow_MonotonicInWindowLength(t *testing.T) {
	src := &fakeSource{samples: []PriceSample{
		{ItemID: 1, ScanTS: 0, High: 1, Low: 1},
		{ItemID: 1, ScanTS: 3600, High: 1, Low: 1},
		{ItemID: 1, ScanTS: 7200, High: 1, Low: 1},
	}}
	prev := -1
	for _, w := range []int{30, 60, 120, 240} {
		got, err := LoadWindow(src, w)
		if err != nil {
			t.Fatalf("LoadWindow(%d): %v", w, err)
		}
		if len(got) < prev {
			t.Errorf("window %d min returned %d samples, fewer than smaller window (%d)", w, len(got), prev)
		}
		prev = len(got)
	}
}
