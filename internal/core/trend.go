package core

import "sort"

// Trends classifies the month-over-month direction for a sequence of monthly
// totals. The input must already be sorted ascending by (year, month);
// aggregation output alone carries no order guarantee, so callers sort first
// (see SortMonthlyTotals). Each emitted Trend carries the current month of
// the pair and the signed difference in cents. Fewer than two data points
// yield no trends.
func Trends(totals []MonthlyTotal) []Trend {
	if len(totals) < 2 {
		return nil
	}
	trends := make([]Trend, 0, len(totals)-1)
	for i := 1; i < len(totals); i++ {
		diff := totals[i].Total.Cents - totals[i-1].Total.Cents
		dir := Stable
		switch {
		case diff > 0:
			dir = Upward
		case diff < 0:
			dir = Downward
		}
		trends = append(trends, Trend{
			Year:       totals[i].Year,
			Month:      totals[i].Month,
			Direction:  dir,
			Difference: Money{Cents: diff},
		})
	}
	return trends
}

// SortMonthlyTotals orders totals chronologically ascending, in place.
func SortMonthlyTotals(totals []MonthlyTotal) {
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Month < totals[j].Month
	})
}
