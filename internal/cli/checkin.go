package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dayglow/internal/insights"
	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/wellness"
)

type CheckinCmd struct {
	Date        string `help:"Check-in date (YYYY-MM-DD or 'today')." default:"today"`
	Mood        int    `help:"Mood rating (1-10)."`
	Sleep       int    `help:"Sleep rating (1-10)."`
	Energy      int    `help:"Energy rating (1-10)."`
	Hydration   int    `help:"Hydration rating (1-10)."`
	Connection  int    `help:"Connection rating (1-10)."`
	Gratitude   int    `help:"Gratitude rating (1-10)."`
	Movement    int    `help:"Movement rating (1-10)."`
	Stress      int    `help:"Stress rating (1-10, higher is more stressed)."`
	Notes       string `help:"Free-text notes."`
	Interactive bool   `short:"i" help:"Fill in the check-in with a form. Implied when no rating flags are given."`
}

func (c *CheckinCmd) flagRatings() []models.Rating {
	values := map[models.Category]int{
		models.CategoryMood:       c.Mood,
		models.CategorySleep:      c.Sleep,
		models.CategoryEnergy:     c.Energy,
		models.CategoryHydration:  c.Hydration,
		models.CategoryConnection: c.Connection,
		models.CategoryGratitude:  c.Gratitude,
		models.CategoryMovement:   c.Movement,
		models.CategoryStress:     c.Stress,
	}
	var ratings []models.Rating
	for _, cat := range models.Categories {
		if v := values[cat]; v != 0 {
			ratings = append(ratings, models.Rating{Category: cat, Value: v})
		}
	}
	return ratings
}

// form prompts for every category, prefilled from flags or the middle of the scale.
func (c *CheckinCmd) form(ratings []models.Rating) ([]models.Rating, string, error) {
	values := make([]int, len(models.Categories))
	prefill := map[models.Category]int{}
	for _, r := range ratings {
		prefill[r.Category] = r.Value
	}

	var fields []huh.Field
	for i, cat := range models.Categories {
		values[i] = 5
		if v, ok := prefill[cat]; ok {
			values[i] = v
		}
		fields = append(fields, huh.NewSelect[int]().
			Title(insights.Label(string(cat))).
			Options(ratingOptions()...).
			Value(&values[i]))
	}
	notes := c.Notes
	form := huh.NewForm(
		huh.NewGroup(fields[:4]...),
		huh.NewGroup(fields[4:]...),
		huh.NewGroup(huh.NewText().Title("Notes").Value(&notes)),
	)
	if err := runForm(form); err != nil {
		return nil, "", err
	}

	out := make([]models.Rating, len(models.Categories))
	for i, cat := range models.Categories {
		out[i] = models.Rating{Category: cat, Value: values[i]}
	}
	return out, strings.TrimSpace(notes), nil
}

func (c *CheckinCmd) Run(ctx *Context) error {
	date, err := parseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}

	ratings, notes := c.flagRatings(), c.Notes
	if c.Interactive || len(ratings) == 0 {
		if ratings, notes, err = c.form(ratings); err != nil {
			return err
		}
	}

	res, err := ctx.Checkins().Submit(ctx.context(), models.CheckIn{
		Date:    date,
		Ratings: ratings,
		Notes:   notes,
	})
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	ctx.printf("%s Check-in saved for %s\n", okStyle.Render("✓"), res.CheckIn.Date)
	ctx.printf("Wellness index: %s\n", headerStyle.Render(fmt.Sprint(res.Index)))
	if !res.Synced {
		ctx.println(mutedStyle.Render("Not synced yet. Run 'dayglow sync' once you are online."))
	}
	for _, b := range res.Badges {
		ctx.printf("Badge earned: %s\n", b)
	}

	metrics := map[string]any{}
	for k, v := range wellness.CategoryScores(res.CheckIn) {
		metrics[k] = v
	}
	if line := insights.OneLiner(metrics); line != "" {
		ctx.println()
		ctx.println(line)
	}
	return nil
}
