package electclient

import "testing"

func Test_AggregateEmpty(t *testing.T) {
	rows := AggregateResults(nil)

	if len(rows) != 0 {
		t.Fatal("an empty tally should aggregate to an empty result")
	}

	rows = AggregateResults([]Candidate{})

	if len(rows) != 0 {
		t.Fatal("an empty tally should aggregate to an empty result")
	}
}

func Test_AggregatePercentages(t *testing.T) {
	rows := AggregateResults([]Candidate{
		{Name: "A", VoteCount: 3},
		{Name: "B", VoteCount: 1},
	})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Percentage != 75.0 || rows[1].Percentage != 25.0 {
		t.Fatalf("expected 75.0/25.0, got %v/%v", rows[0].Percentage, rows[1].Percentage)
	}

	if rows[0].Percentage+rows[1].Percentage != 100.0 {
		t.Fatal("percentages should sum to 100.0")
	}

	if rows[0].Value != 3 || rows[1].Value != 1 {
		t.Fatal("row values should carry the raw vote counts")
	}
}

func Test_AggregateZeroVotes(t *testing.T) {
	rows := AggregateResults([]Candidate{
		{Name: "A", VoteCount: 0},
		{Name: "B", VoteCount: 0},
	})

	for _, row := range rows {
		if row.Percentage != 0 {
			t.Fatal("a zero-vote tally should yield all-zero percentages")
		}
	}
}

func Test_AggregateRounding(t *testing.T) {
	rows := AggregateResults([]Candidate{
		{Name: "A", VoteCount: 1},
		{Name: "B", VoteCount: 1},
		{Name: "C", VoteCount: 1},
	})

	//one decimal place of display precision
	for _, row := range rows {
		if row.Percentage != 33.3 {
			t.Fatalf("expected 33.3, got %v", row.Percentage)
		}
	}
}

func Test_AggregateOrderPreserved(t *testing.T) {
	rows := AggregateResults([]Candidate{
		{Name: "Low", VoteCount: 1},
		{Name: "High", VoteCount: 9},
	})

	//no implicit sort by rank; ordering is a presentation concern
	if rows[0].Name != "Low" || rows[1].Name != "High" {
		t.Fatal("aggregation should preserve input order")
	}
}

func Test_ChartSeries(t *testing.T) {
	pts := ChartSeries([]ElectionResultRow{
		{Name: "A", Value: 3, Percentage: 75.0},
		{Name: "B", Value: 1, Percentage: 25.0},
	})

	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}

	if pts[0].Name != "A" || pts[0].Value != 3 {
		t.Fatal("chart points should carry name and value")
	}
}
