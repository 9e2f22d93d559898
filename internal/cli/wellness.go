package cli

import (
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/dayglow/internal/insights"
	"github.com/julianstephens/dayglow/internal/models"
	"github.com/julianstephens/dayglow/internal/storage"
	"github.com/julianstephens/dayglow/internal/wellness"
)

type IndexCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *IndexCmd) Run(ctx *Context) error {
	date, err := parseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}
	checkin, err := ctx.Store.GetCheckIn(date)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no check-in for %s", date)
	}
	if err != nil {
		return err
	}

	ctx.printf("%s %s\n", headerStyle.Render("Wellness index"), mutedStyle.Render(date))
	ctx.printf("  %d / 100\n\n", wellness.Index(checkin))
	scores := wellness.CategoryScores(checkin)
	for _, s := range insights.ScoresFromMap(scores) {
		ctx.printf("  %-11s %3.0f\n", insights.Label(string(s.Category)), s.Value)
	}
	return nil
}

type TrendsCmd struct {
	Days int `help:"Number of days to include." default:"14"`
}

func (c *TrendsCmd) Run(ctx *Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("--days must be positive")
	}
	from, to := ctx.window(c.Days)
	history, err := ctx.Store.ListCheckIns(from, to)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		ctx.printf("No check-ins between %s and %s.\n", from, to)
		return nil
	}

	ctx.printf("%s %s\n\n", headerStyle.Render("Trends"), mutedStyle.Render(from+" to "+to))
	index := wellness.IndexSeries(history)
	ctx.printf("  %-11s %-*s avg %3.0f\n", "Index", c.Days, wellness.Sparkline(index), wellness.Average(index, 0))
	for _, cat := range models.Categories {
		series := wellness.Series(history, cat)
		if len(series) == 0 {
			continue
		}
		ctx.printf("  %-11s %-*s avg %4.1f\n",
			insights.Label(string(cat)), c.Days, wellness.Sparkline(series), wellness.Average(series, 0))
	}

	all, err := ctx.Store.ListCheckIns("", to)
	if err != nil {
		return err
	}
	ctx.printf("\nStreak: %d day(s)\n", wellness.Streak(all, ctx.now().In(ctx.Location())))
	return nil
}

const dashboardNote = "Insights are built from your own check-ins on this device. " +
	"They are prompts for reflection, not medical advice."

type InsightsCmd struct {
	Days int `help:"Days of history to consider." default:"30"`
}

func (c *InsightsCmd) Run(ctx *Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("--days must be positive")
	}
	from, to := ctx.window(c.Days)
	history, err := ctx.Store.ListCheckIns(from, to)
	if err != nil {
		return err
	}
	tracker := ctx.Tracker()
	if seen, err := tracker.NoteSeen(); err == nil && !seen {
		ctx.println(mutedStyle.Render(dashboardNote))
		ctx.println()
		if err := tracker.MarkNoteSeen(); err != nil {
			return err
		}
	}
	for _, in := range insights.Panel(history, ctx.now().In(ctx.Location())) {
		body := headerStyle.Render(in.Title) + "\n" + in.Body
		if in.CTA != nil {
			body += "\n" + mutedStyle.Render(in.CTA.Label+": "+in.CTA.Action)
		}
		ctx.println(card(in.Severity).Render(body))
	}
	return nil
}

type TipsCmd struct {
	Date  string `help:"Use the check-in from this date instead of the latest."`
	Limit int    `help:"Number of categories to suggest. Defaults to the tips_limit setting."`
}

func (c *TipsCmd) Run(ctx *Context) error {
	checkin, err := c.source(ctx)
	if err != nil {
		return err
	}

	limit := c.Limit
	if limit <= 0 {
		if settings, err := ctx.Store.GetSettings(); err == nil {
			limit = settings.TipsLimit
		}
	}

	scores := wellness.CategoryScores(checkin)
	metrics := make(map[string]any, len(scores))
	for k, v := range scores {
		metrics[k] = v
	}
	if line := insights.OneLiner(metrics); line != "" {
		ctx.println(line)
		ctx.println()
	}

	steps := insights.LowestCategories(insights.ScoresFromMap(scores), limit)
	ctx.println(headerStyle.Render("Next steps"))
	for _, t := range steps.Tips {
		label := insights.Label(string(t.Category))
		if t.Advice == "" {
			ctx.printf("  • %s (%d)\n", label, int(math.Round(t.Score)))
			continue
		}
		ctx.printf("  • %s: %s\n", label, t.Advice)
	}
	if steps.HydrationNote != "" {
		ctx.println()
		ctx.println(mutedStyle.Render(steps.HydrationNote))
	}
	return nil
}

func (c *TipsCmd) source(ctx *Context) (models.CheckIn, error) {
	if c.Date != "" {
		date, err := parseDate(c.Date, ctx.Today())
		if err != nil {
			return models.CheckIn{}, err
		}
		checkin, err := ctx.Store.GetCheckIn(date)
		if errors.Is(err, storage.ErrNotFound) {
			return models.CheckIn{}, fmt.Errorf("no check-in for %s", date)
		}
		return checkin, err
	}
	history, err := ctx.Store.ListCheckIns("", ctx.Today())
	if err != nil {
		return models.CheckIn{}, err
	}
	if len(history) == 0 {
		return models.CheckIn{}, fmt.Errorf("no check-ins yet, run 'dayglow checkin' first")
	}
	return history[len(history)-1], nil
}
