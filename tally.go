package electclient

import "math"

//AggregateResults derives chart-ready rows from raw candidate tallies
//percentages are rounded to one decimal place; input order is preserved
//and an empty tally yields an empty result rather than a division fault
func AggregateResults(cands []Candidate) []ElectionResultRow {
	rows := make([]ElectionResultRow, 0, len(cands))

	var total int64

	for _, cnd := range cands {
		total += int64(cnd.VoteCount)
	}

	for _, cnd := range cands {
		row := ElectionResultRow{
			Name:  cnd.Name,
			Value: cnd.VoteCount,
		}

		if total > 0 {
			pct := float64(cnd.VoteCount) / float64(total) * 100
			row.Percentage = math.Round(pct*10) / 10
		}

		rows = append(rows, row)
	}

	return rows
}

//ChartSeries reduces result rows to name/value pairs for chart consumers
func ChartSeries(rows []ElectionResultRow) []ChartPoint {
	pts := make([]ChartPoint, 0, len(rows))

	for _, row := range rows {
		pts = append(pts, ChartPoint{
			Name:  row.Name,
			Value: row.Value,
		})
	}

	return pts
}
