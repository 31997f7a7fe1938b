package engine

// Strategy selects how the flip table is computed.
type Strategy string

const (
	// SnapshotMargin computes margin from the latest quote pair only.
	SnapshotMargin Strategy = "snapshot"
	// WindowedQuantileMargin computes buy/sell zones from quantiles over the window.
	WindowedQuantileMargin Strategy = "windowed_quantile"
)

const (
	// DefaultWindowMinutes is the trailing window length when not specified.
	DefaultWindowMinutes = 240
	// DefaultMinSamples is the per-item sample floor for the windowed strategy.
	DefaultMinSamples = 5
)

// PriceSample is one observed quote pair for one item at one scan instant,
// joined with the item's static metadata.
type PriceSample struct {
	ItemID     int64
	ScanTS     int64 // unix seconds, the collector's scan clock
	High       float64
	Low        float64
	Spread     float64 // high - low, derived on load; may be negative
	Name       string
	Members    bool
	TradeLimit int64
	BaseValue  int64
}

// FlipParams holds the input parameters for a flip table computation.
type FlipParams struct {
	WindowMinutes int
	MinSamples    int
	Strategy      Strategy // empty = WindowedQuantileMargin
	MaxResults    int      // 0 = no limit
}

// FlipCandidate is one row of the ranked flip table.
type FlipCandidate struct {
	ItemID        int64
	Name          string
	Members       bool
	TradeLimit    int64
	SampleCount   int
	CurrentHigh   float64
	CurrentLow    float64
	CurrentSpread float64
	AvgSpread     float64
	MaxSpread     float64
	BuyZone       float64
	SellZone      float64
	Margin        float64
	ROIPct        float64
}
