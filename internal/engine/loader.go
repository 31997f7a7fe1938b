package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when flip parameters fail boundary validation.
var ErrInvalidParams = errors.New("invalid flip parameters")

// SampleSource provides read access to the price store.
type SampleSource interface {
	// MaxScanTimestamp returns the newest recorded scan timestamp.
	// ok is false when the store holds no samples.
	MaxScanTimestamp() (ts int64, ok bool, err error)
	// SamplesSince returns every sample with scan_ts >= windowStart that has
	// both quote sides present and a matching item metadata row.
	SamplesSince(windowStart int64) ([]PriceSample, error)
}

// LoadWindow returns all usable samples in the trailing window of the given
// length, anchored at the newest recorded scan. An empty store and an empty
// window are both valid no-data states and yield an empty set, not an error.
func LoadWindow(src SampleSource, windowMinutes int) ([]PriceSample, error) {
	if windowMinutes <= 0 {
		return nil, fmt.Errorf("%w: window minutes must be positive, got %d", ErrInvalidParams, windowMinutes)
	}

	maxTS, ok, err := src.MaxScanTimestamp()
	if err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}
	if !ok {
		return nil, nil
	}

	windowStart := maxTS - int64(windowMinutes)*60
	samples, err := src.SamplesSince(windowStart)
	if err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}

	// Spread is not clamped: a negative value means the feed reported
	// low > high, and downstream margin filtering discards such items.
	for i := range samples {
		samples[i].Spread = samples[i].High - samples[i].Low
	}
	return samples, nil
}
