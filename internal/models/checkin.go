package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
)

// Category names a wellness dimension rated in a check-in.
type Category string

const (
	CategoryMood       Category = "mood"
	CategorySleep      Category = "sleep"
	CategoryEnergy     Category = "energy"
	CategoryHydration  Category = "hydration"
	CategoryConnection Category = "connection"
	CategoryGratitude  Category = "gratitude"
	CategoryMovement   Category = "movement"
	CategoryStress     Category = "stress"
)

// Categories lists the built-in categories in canonical display order.
var Categories = []Category{
	CategoryMood,
	CategorySleep,
	CategoryEnergy,
	CategoryHydration,
	CategoryConnection,
	CategoryGratitude,
	CategoryMovement,
	CategoryStress,
}

// IsKnown reports whether c is one of the built-in categories.
func (c Category) IsKnown() bool {
	return slices.Contains(Categories, c)
}

// Rating is one category value within a check-in.
type Rating struct {
	Category Category `json:"category"`
	Value    int      `json:"value"`
}

// CheckIn represents a single day's wellness record
type CheckIn struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"` // YYYY-MM-DD format
	Ratings   []Rating   `json:"ratings"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	SyncedAt  *time.Time `json:"synced_at,omitempty"`
	RemoteID  string     `json:"remote_id,omitempty"`
}

// Rating returns the value recorded for a category.
func (c CheckIn) Rating(cat Category) (int, bool) {
	for _, r := range c.Ratings {
		if r.Category == cat {
			return r.Value, true
		}
	}
	return 0, false
}

// RatingMap returns the ratings keyed by category name.
func (c CheckIn) RatingMap() map[string]int {
	m := make(map[string]int, len(c.Ratings))
	for _, r := range c.Ratings {
		m[string(r.Category)] = r.Value
	}
	return m
}

// Synced reports whether the check-in has been pushed to the backend.
func (c CheckIn) Synced() bool {
	return c.SyncedAt != nil
}

// Validate checks the date format and rating bounds.
func (c CheckIn) Validate() error {
	if _, err := time.Parse(constants.DateFormat, c.Date); err != nil {
		return fmt.Errorf("invalid check-in date %q: expected YYYY-MM-DD", c.Date)
	}
	if len(c.Ratings) == 0 {
		return fmt.Errorf("check-in has no ratings")
	}
	seen := make(map[Category]bool, len(c.Ratings))
	for _, r := range c.Ratings {
		if r.Category == "" {
			return fmt.Errorf("rating has empty category")
		}
		if seen[r.Category] {
			return fmt.Errorf("duplicate rating for %s", r.Category)
		}
		seen[r.Category] = true
		if r.Value < constants.MinRating || r.Value > constants.MaxRating {
			return fmt.Errorf("rating for %s must be between %d and %d, got %d",
				r.Category, constants.MinRating, constants.MaxRating, r.Value)
		}
	}
	return nil
}
