package wellness

import (
	"testing"
	"time"

	"github.com/julianstephens/dayglow/internal/models"
)

func checkin(date string, ratings ...models.Rating) models.CheckIn {
	return models.CheckIn{Date: date, Ratings: ratings}
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name string
		in   models.CheckIn
		want int
	}{
		{"empty", checkin("2026-10-14"), 0},
		{"single", checkin("2026-10-14", models.Rating{Category: models.CategoryMood, Value: 7}), 70},
		{
			"stress inverted",
			checkin("2026-10-14",
				models.Rating{Category: models.CategoryMood, Value: 8},
				models.Rating{Category: models.CategoryStress, Value: 9}),
			50, // (80 + 20) / 2
		},
		{
			"rounded",
			checkin("2026-10-14",
				models.Rating{Category: models.CategorySleep, Value: 5},
				models.Rating{Category: models.CategoryEnergy, Value: 6},
				models.Rating{Category: models.CategoryHydration, Value: 6}),
			57, // 56.67
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(tt.in); got != tt.want {
				t.Errorf("Index() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCategoryScores(t *testing.T) {
	c := checkin("2026-10-14",
		models.Rating{Category: models.CategoryHydration, Value: 1},
		models.Rating{Category: models.CategoryStress, Value: 10})

	scores := CategoryScores(c)
	if scores["hydration"] != 10 {
		t.Errorf("hydration = %v, want 10", scores["hydration"])
	}
	if scores["stress"] != 10 {
		t.Errorf("stress = %v, want 10 (inverted)", scores["stress"])
	}
}

func TestSeriesSortsByDate(t *testing.T) {
	history := []models.CheckIn{
		checkin("2026-10-13", models.Rating{Category: models.CategorySleep, Value: 6}),
		checkin("2026-10-11", models.Rating{Category: models.CategorySleep, Value: 4}),
		checkin("2026-10-12", models.Rating{Category: models.CategoryMood, Value: 9}),
	}

	got := Series(history, models.CategorySleep)
	if len(got) != 2 || got[0] != 4 || got[1] != 6 {
		t.Errorf("Series(sleep) = %v, want [4 6]", got)
	}

	idx := IndexSeries(history)
	if len(idx) != 3 || idx[0] != 40 || idx[1] != 90 || idx[2] != 60 {
		t.Errorf("IndexSeries() = %v, want [40 90 60]", idx)
	}
}

func TestStreak(t *testing.T) {
	today := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	history := []models.CheckIn{
		checkin("2026-10-14"),
		checkin("2026-10-13"),
		checkin("2026-10-12"),
		checkin("2026-10-10"),
	}
	if got := Streak(history, today); got != 3 {
		t.Errorf("Streak() = %d, want 3", got)
	}

	// Today not yet submitted: the streak through yesterday still counts.
	if got := Streak(history[1:], today); got != 2 {
		t.Errorf("Streak() without today = %d, want 2", got)
	}

	if got := Streak(nil, today); got != 0 {
		t.Errorf("Streak(nil) = %d, want 0", got)
	}
}

func TestAverage(t *testing.T) {
	values := []float64{2, 4, 6, 8}
	if got := Average(values, 2); got != 7 {
		t.Errorf("Average(last 2) = %v, want 7", got)
	}
	if got := Average(values, 10); got != 5 {
		t.Errorf("Average(all) = %v, want 5", got)
	}
	if got := Average(nil, 3); got != 0 {
		t.Errorf("Average(nil) = %v, want 0", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Errorf("Sparkline(nil) = %q", got)
	}
	if got := Sparkline([]float64{1, 8}); got != "▁█" {
		t.Errorf("Sparkline([1 8]) = %q, want ▁█", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); got != "▅▅▅" {
		t.Errorf("flat Sparkline = %q, want ▅▅▅", got)
	}
	if got := []rune(Sparkline([]float64{3, 1, 4, 1, 5, 9, 2, 6})); len(got) != 8 {
		t.Errorf("Sparkline length = %d, want 8", len(got))
	}
}
