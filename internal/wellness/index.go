// Package wellness computes the Wellness Index, per-category scores, trend
// series and check-in streaks from stored check-ins.
package wellness

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/models"
)

// normalize maps a 1-10 rating onto 0-100 where higher is better.
// Stress is rated high-is-bad, so it is inverted first.
func normalize(cat models.Category, value int) float64 {
	v := value
	if cat == models.CategoryStress {
		v = constants.MaxRating + constants.MinRating - value
	}
	return float64(v) * 100 / constants.MaxRating
}

// CategoryScores returns each rated category on a 0-100 scale.
func CategoryScores(c models.CheckIn) map[string]float64 {
	scores := make(map[string]float64, len(c.Ratings))
	for _, r := range c.Ratings {
		scores[string(r.Category)] = normalize(r.Category, r.Value)
	}
	return scores
}

// Index is the mean category score rounded to the nearest integer, 0 when
// the check-in has no ratings.
func Index(c models.CheckIn) int {
	if len(c.Ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range c.Ratings {
		sum += normalize(r.Category, r.Value)
	}
	return int(math.Round(sum / float64(len(c.Ratings))))
}

// SortByDate orders check-ins oldest first.
func SortByDate(history []models.CheckIn) []models.CheckIn {
	sorted := slices.Clone(history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	return sorted
}

// Series returns the rating history for one category, oldest first.
// Days without that category rated are skipped.
func Series(history []models.CheckIn, cat models.Category) []float64 {
	var values []float64
	for _, c := range SortByDate(history) {
		if v, ok := c.Rating(cat); ok {
			values = append(values, float64(v))
		}
	}
	return values
}

// IndexSeries returns the Wellness Index per check-in, oldest first.
func IndexSeries(history []models.CheckIn) []float64 {
	sorted := SortByDate(history)
	values := make([]float64, len(sorted))
	for i, c := range sorted {
		values[i] = float64(Index(c))
	}
	return values
}

// Streak counts consecutive days with a check-in ending today, or ending
// yesterday when today has not been submitted yet.
func Streak(history []models.CheckIn, today time.Time) int {
	days := make(map[string]bool, len(history))
	for _, c := range history {
		days[c.Date] = true
	}

	day := today
	if !days[day.Format(constants.DateFormat)] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for days[day.Format(constants.DateFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// Average returns the mean of the last n values, or of all when n exceeds the length.
func Average(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > 0 && n < len(values) {
		values = values[len(values)-n:]
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
