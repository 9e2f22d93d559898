package models

import (
	"strings"
	"testing"
)

func TestCheckInValidate(t *testing.T) {
	tests := []struct {
		name    string
		checkin CheckIn
		wantErr string
	}{
		{
			name: "valid",
			checkin: CheckIn{Date: "2026-10-14", Ratings: []Rating{
				{Category: CategoryMood, Value: 7},
				{Category: CategorySleep, Value: 10},
			}},
		},
		{
			name:    "bad date",
			checkin: CheckIn{Date: "14/10/2026", Ratings: []Rating{{Category: CategoryMood, Value: 5}}},
			wantErr: "invalid check-in date",
		},
		{
			name:    "no ratings",
			checkin: CheckIn{Date: "2026-10-14"},
			wantErr: "no ratings",
		},
		{
			name:    "out of range",
			checkin: CheckIn{Date: "2026-10-14", Ratings: []Rating{{Category: CategoryMood, Value: 11}}},
			wantErr: "between 1 and 10",
		},
		{
			name: "duplicate",
			checkin: CheckIn{Date: "2026-10-14", Ratings: []Rating{
				{Category: CategoryMood, Value: 3},
				{Category: CategoryMood, Value: 4},
			}},
			wantErr: "duplicate rating",
		},
		{
			name:    "custom category allowed",
			checkin: CheckIn{Date: "2026-10-14", Ratings: []Rating{{Category: "focus", Value: 4}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.checkin.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckInRatingLookup(t *testing.T) {
	c := CheckIn{Ratings: []Rating{{Category: CategoryHydration, Value: 4}}}

	if v, ok := c.Rating(CategoryHydration); !ok || v != 4 {
		t.Errorf("Rating(hydration) = %d, %v; want 4, true", v, ok)
	}
	if _, ok := c.Rating(CategoryMood); ok {
		t.Error("Rating(mood) reported present")
	}
	if m := c.RatingMap(); m["hydration"] != 4 || len(m) != 1 {
		t.Errorf("RatingMap() = %v", m)
	}
}

func TestParseSeverity(t *testing.T) {
	for _, s := range []string{"info", "tip", "warn"} {
		if _, err := ParseSeverity(s); err != nil {
			t.Errorf("ParseSeverity(%q) returned error: %v", s, err)
		}
	}
	if _, err := ParseSeverity("critical"); err == nil {
		t.Error("ParseSeverity(critical) should fail")
	}
	if SeverityWarn.Rank() >= SeverityTip.Rank() || SeverityTip.Rank() >= SeverityInfo.Rank() {
		t.Error("severity ranks must order warn < tip < info")
	}
}

func TestSettingsRoundTripThroughMap(t *testing.T) {
	want := DefaultSettings()
	want.DisplayName = "sam"

	got, err := MapToSettings(SettingsToMap(want))
	if err != nil {
		t.Fatalf("MapToSettings failed: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := MapToSettings(map[string]string{"tips_limit": "many"}); err == nil {
		t.Error("expected parse error for non-numeric tips_limit")
	}
}
