// Package report renders flip tables for terminal display.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"osrs-flipper/internal/db"
	"osrs-flipper/internal/engine"
)

// FormatTable renders the ranked flip table as an aligned text table.
// Currency figures get thousands separators; ROI is shown as a percentage.
func FormatTable(rows []engine.FlipCandidate) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tP2P\tLIMIT\tN\tCUR HIGH\tCUR LOW\tSPREAD\tAVG SPR\tMAX SPR\tBUY ZONE\tSELL ZONE\tMARGIN\tROI")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.2f%%\n",
			r.Name,
			yesNo(r.Members),
			humanize.Comma(r.TradeLimit),
			r.SampleCount,
			gp(r.CurrentHigh),
			gp(r.CurrentLow),
			gp(r.CurrentSpread),
			gp(r.AvgSpread),
			gp(r.MaxSpread),
			gp(r.BuyZone),
			gp(r.SellZone),
			gp(r.Margin),
			r.ROIPct,
		)
	}
	w.Flush()
	return sb.String()
}

// FormatHistory renders saved scan records as an aligned text table,
// newest first.
func FormatHistory(scans []db.ScanRecord) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tTIME\tSTRATEGY\tWINDOW\tROWS\tTOP MARGIN\tTOOK")
	for _, s := range scans {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d min\t%d\t%s\t%d ms\n",
			s.ID,
			s.Timestamp,
			s.Strategy,
			s.WindowMinutes,
			s.Count,
			gp(s.TopMargin),
			s.DurationMs,
		)
	}
	w.Flush()
	return sb.String()
}

// gp formats a gp amount with thousands separators, keeping the single
// decimal place zone estimates carry.
func gp(v float64) string {
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return humanize.Commaf(v)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
