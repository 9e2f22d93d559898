// Package insights turns check-in scores into short advice: the lowest
// categories with a tip each, a one-sentence summary, and a panel of
// severity-tagged insights built from recent history.
package insights

import (
	"slices"
	"sort"

	"github.com/julianstephens/dayglow/internal/models"
)

// DefaultLimit is how many categories LowestCategories returns when no limit is given.
const DefaultLimit = 3

// HydrationNote is appended whenever hydration is among the selected categories.
const HydrationNote = "Hydration affects focus, mood and energy more than most people expect. " +
	"Even mild dehydration can feel like fatigue, so a glass of water is often the quickest reset available."

var tips = map[models.Category]string{
	models.CategoryMood:       "Step outside for ten minutes of daylight, or message someone who usually makes you laugh.",
	models.CategorySleep:      "Aim for a consistent bedtime tonight and put screens away thirty minutes before it.",
	models.CategoryEnergy:     "Take a short walk or stretch break; movement restores energy faster than caffeine.",
	models.CategoryHydration:  "Keep a water bottle in sight and refill it with every meal.",
	models.CategoryConnection: "Reach out to one person today, even with a short message.",
	models.CategoryGratitude:  "Write down three small things that went right today.",
	models.CategoryMovement:   "Fit in a brief workout or a brisk walk before the day ends.",
	models.CategoryStress:     "Try four slow breaths: in for four, hold for four, out for six.",
}

// TipFor returns the advice for a category and whether it exists.
func TipFor(cat models.Category) (string, bool) {
	tip, ok := tips[cat]
	return tip, ok
}

// Score is a single category score, usually on a 0-100 scale.
type Score struct {
	Category models.Category
	Value    float64
}

// Scores is an ordered list of category scores. Ties during selection keep this order.
type Scores []Score

// ScoresFromMap orders a score map by canonical category order, then by name
// for categories outside the built-in set.
func ScoresFromMap(m map[string]float64) Scores {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := canonicalRank(keys[i]), canonicalRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	scores := make(Scores, 0, len(keys))
	for _, k := range keys {
		scores = append(scores, Score{Category: models.Category(k), Value: m[k]})
	}
	return scores
}

func canonicalRank(key string) int {
	if i := slices.Index(models.Categories, models.Category(key)); i >= 0 {
		return i
	}
	return len(models.Categories)
}

// Tip pairs a low-scoring category with its advice. Advice is empty for
// categories the tip table does not cover.
type Tip struct {
	Category models.Category
	Score    float64
	Advice   string
}

// NextSteps is the result of LowestCategories.
type NextSteps struct {
	Tips          []Tip
	HydrationNote string
}

// Lines returns the advice strings in order, skipping categories without advice.
func (n NextSteps) Lines() []string {
	var lines []string
	for _, t := range n.Tips {
		if t.Advice != "" {
			lines = append(lines, t.Advice)
		}
	}
	return lines
}

// Categories returns the selected categories in order.
func (n NextSteps) Categories() []models.Category {
	cats := make([]models.Category, len(n.Tips))
	for i, t := range n.Tips {
		cats[i] = t.Category
	}
	return cats
}

// LowestCategories selects the limit lowest-scoring categories in ascending
// order. Equal scores keep their input order.
func LowestCategories(scores Scores, limit int) NextSteps {
	if limit <= 0 {
		limit = DefaultLimit
	}

	sorted := slices.Clone(scores)
	slices.SortStableFunc(sorted, func(a, b Score) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		default:
			return 0
		}
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	var out NextSteps
	for _, s := range sorted {
		advice, _ := TipFor(s.Category)
		out.Tips = append(out.Tips, Tip{Category: s.Category, Score: s.Value, Advice: advice})
		if s.Category == models.CategoryHydration {
			out.HydrationNote = HydrationNote
		}
	}
	return out
}
