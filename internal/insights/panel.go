package insights

import (
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/wellness"
)

const (
	lowSleepThreshold = 5.0
	recentWindow      = 7
	streakCelebration = 3
)

// Panel builds the insight list shown next to the Wellness Index.
// Insights are ordered warn, tip, info and are stable within a severity.
func Panel(history []models.CheckIn, now time.Time) []models.Insight {
	sorted := wellness.SortByDate(history)
	today := now.Format(constants.DateFormat)

	var out []models.Insight

	if len(sorted) == 0 {
		return []models.Insight{{
			ID:       "first-checkin",
			Severity: models.SeverityInfo,
			Title:    "Start your first check-in",
			Body:     "A minute a day is enough to surface patterns in sleep, mood and energy.",
			CTA:      &models.CTA{Label: "Check in now", Action: "dayglow checkin"},
		}}
	}

	latest := sorted[len(sorted)-1]

	if latest.Date != today {
		out = append(out, models.Insight{
			ID:       "checkin-missing",
			Severity: models.SeverityTip,
			Title:    "No check-in yet today",
			Body:     fmt.Sprintf("Your last check-in was on %s.", latest.Date),
			CTA:      &models.CTA{Label: "Check in now", Action: "dayglow checkin"},
		})
	}

	sleep := wellness.Series(sorted, models.CategorySleep)
	if len(sleep) > 0 {
		if avg := wellness.Average(sleep, recentWindow); avg < lowSleepThreshold {
			out = append(out, models.Insight{
				ID:       "sleep-low",
				Severity: models.SeverityWarn,
				Title:    "Sleep has been running low",
				Body:     fmt.Sprintf("Your recent sleep rating averages %.1f out of %d.", avg, constants.MaxRating),
			})
		}
	}

	mood := wellness.Series(sorted, models.CategoryMood)
	if n := len(mood); n >= 3 && mood[n-1] < mood[n-2] && mood[n-2] < mood[n-3] {
		out = append(out, models.Insight{
			ID:       "mood-declining",
			Severity: models.SeverityWarn,
			Title:    "Mood is trending down",
			Body:     "Your mood rating dropped on each of your last three check-ins. Consider reaching out to someone you trust.",
			CTA:      &models.CTA{Label: "Open community", Action: "dayglow inbox"},
		})
	}

	steps := LowestCategories(ScoresFromMap(wellness.CategoryScores(latest)), 1)
	if len(steps.Tips) == 1 && steps.Tips[0].Advice != "" {
		lowest := steps.Tips[0]
		out = append(out, models.Insight{
			ID:       "focus-" + string(lowest.Category),
			Severity: models.SeverityTip,
			Title:    "Focus on " + Label(string(lowest.Category)),
			Body:     lowest.Advice,
		})
	}

	if streak := wellness.Streak(sorted, now); streak >= streakCelebration {
		out = append(out, models.Insight{
			ID:       "streak",
			Severity: models.SeverityInfo,
			Title:    fmt.Sprintf("%d-day streak", streak),
			Body:     "Consistency is what makes trends meaningful. Keep it going.",
		})
	}

	slices.SortStableFunc(out, func(a, b models.Insight) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})
	return out
}
