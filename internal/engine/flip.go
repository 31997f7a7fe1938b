package engine

import (
	"fmt"
	"sort"
)

// Finder computes flip tables from a sample source. It holds no mutable
// state; every computation reads the store fresh.
type Finder struct {
	Source SampleSource
}

// NewFinder creates a Finder over the given sample source.
func NewFinder(src SampleSource) *Finder {
	return &Finder{Source: src}
}

// ComputeFlipTable loads the trailing window and returns the ranked flip
// table for the selected strategy. An empty store or an empty window yields
// an empty table, not an error. Rows are sorted by margin descending with
// item ID ascending as tie-break; currency figures are rounded to 1 decimal
// and ROI to 2 decimals after filtering and sorting, so rounding never
// changes which rows survive or their order.
func (f *Finder) ComputeFlipTable(params FlipParams) ([]FlipCandidate, error) {
	if params.WindowMinutes <= 0 {
		return nil, fmt.Errorf("%w: window minutes must be positive, got %d", ErrInvalidParams, params.WindowMinutes)
	}
	if params.MinSamples <= 0 {
		return nil, fmt.Errorf("%w: min samples must be positive, got %d", ErrInvalidParams, params.MinSamples)
	}
	strategy := params.Strategy
	if strategy == "" {
		strategy = WindowedQuantileMargin
	}
	if strategy != WindowedQuantileMargin && strategy != SnapshotMargin {
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidParams, params.Strategy)
	}

	samples, err := LoadWindow(f.Source, params.WindowMinutes)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, nil
	}

	var results []FlipCandidate
	switch strategy {
	case SnapshotMargin:
		results = aggregateSnapshot(samples)
	case WindowedQuantileMargin:
		results = aggregateWindowed(samples, params.MinSamples)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Margin != results[j].Margin {
			return results[i].Margin > results[j].Margin
		}
		return results[i].ItemID < results[j].ItemID
	})
	if params.MaxResults > 0 && len(results) > params.MaxResults {
		results = results[:params.MaxResults]
	}

	for i := range results {
		roundCandidate(&results[i])
	}
	return results, nil
}

// groupByItem splits samples per item, preserving scan order within groups.
func groupByItem(samples []PriceSample) map[int64][]PriceSample {
	groups := make(map[int64][]PriceSample)
	for _, s := range samples {
		groups[s.ItemID] = append(groups[s.ItemID], s)
	}
	return groups
}

// latestSample picks the sample with the maximum scan timestamp. On equal
// timestamps the sample with the higher high quote wins, so the choice is
// deterministic regardless of scan order.
func latestSample(group []PriceSample) PriceSample {
	latest := group[0]
	for _, s := range group[1:] {
		if s.ScanTS > latest.ScanTS || (s.ScanTS == latest.ScanTS && s.High > latest.High) {
			latest = s
		}
	}
	return latest
}

// aggregateWindowed computes per-item window statistics, quantile-based
// buy/sell zones and margin/ROI, then applies the candidate filters.
func aggregateWindowed(samples []PriceSample, minSamples int) []FlipCandidate {
	var out []FlipCandidate
	for itemID, group := range groupByItem(samples) {
		latest := latestSample(group)

		lows := make([]float64, 0, len(group))
		highs := make([]float64, 0, len(group))
		spreads := make([]float64, 0, len(group))
		maxSpread := group[0].Spread
		for _, s := range group {
			lows = append(lows, s.Low)
			highs = append(highs, s.High)
			spreads = append(spreads, s.Spread)
			if s.Spread > maxSpread {
				maxSpread = s.Spread
			}
		}
		sort.Float64s(lows)
		sort.Float64s(highs)

		buyZone := percentile(lows, 25)
		sellZone := percentile(highs, 75)
		margin := sellZone - buyZone

		if buyZone <= 0 || margin <= 0 || len(group) < minSamples {
			continue
		}

		out = append(out, FlipCandidate{
			ItemID:        itemID,
			Name:          latest.Name,
			Members:       latest.Members,
			TradeLimit:    latest.TradeLimit,
			SampleCount:   len(group),
			CurrentHigh:   latest.High,
			CurrentLow:    latest.Low,
			CurrentSpread: latest.Spread,
			AvgSpread:     mean(spreads),
			MaxSpread:     maxSpread,
			BuyZone:       buyZone,
			SellZone:      sellZone,
			Margin:        margin,
			ROIPct:        margin / buyZone * 100,
		})
	}
	return out
}

// aggregateSnapshot is the coarse legacy strategy: margin and ROI come from
// the single latest quote pair per item, with no window aggregates and no
// sample-count floor. Buy/sell zones are filled with the current low/high so
// every output row carries a usable zone pair.
func aggregateSnapshot(samples []PriceSample) []FlipCandidate {
	var out []FlipCandidate
	for itemID, group := range groupByItem(samples) {
		latest := latestSample(group)

		margin := latest.High - latest.Low
		if latest.Low <= 0 || margin <= 0 {
			continue
		}

		out = append(out, FlipCandidate{
			ItemID:        itemID,
			Name:          latest.Name,
			Members:       latest.Members,
			TradeLimit:    latest.TradeLimit,
			SampleCount:   len(group),
			CurrentHigh:   latest.High,
			CurrentLow:    latest.Low,
			CurrentSpread: latest.Spread,
			BuyZone:       latest.Low,
			SellZone:      latest.High,
			Margin:        margin,
			ROIPct:        margin / latest.Low * 100,
		})
	}
	return out
}

// roundCandidate applies presentation rounding: currency figures to 1
// decimal, ROI to 2. Filtering and sorting always run on unrounded values.
func roundCandidate(c *FlipCandidate) {
	c.CurrentHigh = round1(c.CurrentHigh)
	c.CurrentLow = round1(c.CurrentLow)
	c.CurrentSpread = round1(c.CurrentSpread)
	c.AvgSpread = round1(c.AvgSpread)
	c.MaxSpread = round1(c.MaxSpread)
	c.BuyZone = round1(c.BuyZone)
	c.SellZone = round1(c.SellZone)
	c.Margin = round1(c.Margin)
	c.ROIPct = round2(c.ROIPct)
}
