package insights

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/dayglow/internal/models"
)

func TestLowestCategoriesSelectsAscending(t *testing.T) {
	scores := Scores{
		{Category: models.CategoryMood, Value: 80},
		{Category: models.CategorySleep, Value: 20},
		{Category: models.CategoryEnergy, Value: 50},
		{Category: models.CategoryHydration, Value: 10},
	}

	got := LowestCategories(scores, 3)

	want := []models.Category{models.CategoryHydration, models.CategorySleep, models.CategoryEnergy}
	if diff := cmp.Diff(want, got.Categories()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if got.HydrationNote != HydrationNote {
		t.Errorf("expected hydration note, got %q", got.HydrationNote)
	}
	if len(got.Lines()) != 3 {
		t.Errorf("Lines() = %v, want 3 entries", got.Lines())
	}
}

func TestLowestCategoriesOmitsHydrationNote(t *testing.T) {
	scores := ScoresFromMap(map[string]float64{"mood": 30, "sleep": 20, "hydration": 90, "energy": 40})

	got := LowestCategories(scores, 2)
	if got.HydrationNote != "" {
		t.Errorf("hydration not selected, note should be empty: %q", got.HydrationNote)
	}
	want := []models.Category{models.CategorySleep, models.CategoryMood}
	if diff := cmp.Diff(want, got.Categories()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestLowestCategoriesTiesKeepInputOrder(t *testing.T) {
	scores := Scores{
		{Category: models.CategoryGratitude, Value: 40},
		{Category: models.CategoryMood, Value: 40},
		{Category: models.CategorySleep, Value: 40},
		{Category: models.CategoryEnergy, Value: 10},
	}

	got := LowestCategories(scores, 3)
	want := []models.Category{models.CategoryEnergy, models.CategoryGratitude, models.CategoryMood}
	if diff := cmp.Diff(want, got.Categories()); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestLowestCategoriesUnknownCategoryKeepsSlot(t *testing.T) {
	scores := Scores{
		{Category: "focus", Value: 5},
		{Category: models.CategoryMood, Value: 60},
	}

	got := LowestCategories(scores, 0)
	if len(got.Tips) != 2 {
		t.Fatalf("tips = %d, want 2", len(got.Tips))
	}
	if got.Tips[0].Category != "focus" || got.Tips[0].Advice != "" {
		t.Errorf("unknown category should occupy first slot without advice: %+v", got.Tips[0])
	}
	if lines := got.Lines(); len(lines) != 1 {
		t.Errorf("Lines() should drop empty advice, got %v", lines)
	}
}

func TestScoresFromMapOrder(t *testing.T) {
	got := ScoresFromMap(map[string]float64{"zeal": 1, "hydration": 2, "mood": 3, "alpha": 4})
	want := []models.Category{models.CategoryMood, models.CategoryHydration, "alpha", "zeal"}

	var cats []models.Category
	for _, s := range got {
		cats = append(cats, s.Category)
	}
	if diff := cmp.Diff(want, cats); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOneLiner(t *testing.T) {
	tests := []struct {
		name    string
		metrics map[string]any
		want    string
	}{
		{"strongest and weakest", map[string]any{"sleep": 9, "mood": 2}, "Today's center is Sleep; support Mood for balance."},
		{"empty", map[string]any{}, ""},
		{"nil map", nil, ""},
		{"only non-numeric", map[string]any{"notes": "tired", "mood": nil}, ""},
		{"single metric", map[string]any{"energy": 6.5}, "Today's center is Energy; support Energy for balance."},
		{"unknown label falls back to key", map[string]any{"focus": 8, "hydration": json.Number("3")}, "Today's center is focus; support Hydration for balance."},
		{"ignores NaN", map[string]any{"mood": math.NaN(), "sleep": 4, "energy": int64(7)}, "Today's center is Energy; support Sleep for balance."},
		{"ties break by key", map[string]any{"sleep": 5, "mood": 5}, "Today's center is Mood; support Mood for balance."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OneLiner(tt.metrics); got != tt.want {
				t.Errorf("OneLiner() = %q, want %q", got, tt.want)
			}
		})
	}
}

func ci(date string, ratings map[models.Category]int) models.CheckIn {
	c := models.CheckIn{Date: date}
	for _, cat := range models.Categories {
		if v, ok := ratings[cat]; ok {
			c.Ratings = append(c.Ratings, models.Rating{Category: cat, Value: v})
		}
	}
	return c
}

func insightIDs(in []models.Insight) []string {
	ids := make([]string, len(in))
	for i, x := range in {
		ids[i] = x.ID
	}
	return ids
}

func TestPanelEmptyHistory(t *testing.T) {
	got := Panel(nil, time.Now())
	if len(got) != 1 || got[0].ID != "first-checkin" || got[0].CTA == nil {
		t.Fatalf("Panel(nil) = %+v", got)
	}
}

func TestPanelRules(t *testing.T) {
	now := time.Date(2026, 10, 14, 21, 0, 0, 0, time.UTC)
	history := []models.CheckIn{
		ci("2026-10-11", map[models.Category]int{models.CategoryMood: 8, models.CategorySleep: 4}),
		ci("2026-10-12", map[models.Category]int{models.CategoryMood: 6, models.CategorySleep: 3}),
		ci("2026-10-13", map[models.Category]int{models.CategoryMood: 4, models.CategorySleep: 5, models.CategoryHydration: 2}),
	}

	got := Panel(history, now)
	want := []string{"sleep-low", "mood-declining", "checkin-missing", "focus-hydration", "streak"}
	if diff := cmp.Diff(want, insightIDs(got)); diff != "" {
		t.Errorf("insight ids mismatch (-want +got):\n%s", diff)
	}
	for _, in := range got {
		if !in.Severity.Valid() {
			t.Errorf("insight %s has invalid severity %q", in.ID, in.Severity)
		}
	}
}

func TestPanelHealthyHistory(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	history := []models.CheckIn{
		ci("2026-10-14", map[models.Category]int{models.CategoryMood: 9, models.CategorySleep: 9, models.CategoryEnergy: 7}),
	}

	got := Panel(history, now)
	want := []string{"focus-energy"}
	if diff := cmp.Diff(want, insightIDs(got)); diff != "" {
		t.Errorf("insight ids mismatch (-want +got):\n%s", diff)
	}
}
