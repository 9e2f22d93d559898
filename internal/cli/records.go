package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/dayglow/internal/backend"
	"github.com/julianstephens/dayglow/internal/models"
)

type GratitudeCmd struct {
	Add  GratitudeAddCmd  `cmd:"" help:"Record something you are grateful for."`
	List GratitudeListCmd `cmd:"" help:"List recent gratitude entries." default:"1"`
}

type GratitudeAddCmd struct {
	Text string `arg:"" help:"What you are grateful for."`
	Date string `help:"Entry date (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *GratitudeAddCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(c.Text)
	if text == "" {
		return fmt.Errorf("gratitude entry cannot be empty")
	}
	date, err := parseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}
	if _, err := client.PositiveEntries().Create(ctx.context(), models.PositiveEntry{Text: text, Date: date}); err != nil {
		return fmt.Errorf("failed to save gratitude entry: %w", err)
	}
	ctx.printf("%s Saved for %s\n", okStyle.Render("✓"), date)
	return nil
}

type GratitudeListCmd struct {
	Limit int `help:"Number of entries to show." default:"10"`
}

func (c *GratitudeListCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	entries, err := client.PositiveEntries().List(ctx.context(), backend.ListOptions{Sort: "-date", Limit: c.Limit})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.println("No gratitude entries yet.")
		return nil
	}
	for _, e := range entries {
		ctx.printf("%s  %s\n", mutedStyle.Render(e.Date), e.Text)
	}
	return nil
}

var flowLevels = []string{models.FlowNone, models.FlowLight, models.FlowMedium, models.FlowHeavy}

type CycleCmd struct {
	Log  CycleLogCmd  `cmd:"" help:"Log a cycle day."`
	List CycleListCmd `cmd:"" help:"List recent cycle logs." default:"1"`
}

type CycleLogCmd struct {
	Flow     string   `arg:"" enum:"none,light,medium,heavy" help:"Flow level (none, light, medium, heavy)."`
	Date     string   `help:"Log date (YYYY-MM-DD or 'today')." default:"today"`
	Symptoms []string `help:"Comma-separated symptoms." sep:","`
	Notes    string   `help:"Free-text notes."`
}

func (c *CycleLogCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	if !slices.Contains(flowLevels, c.Flow) {
		return fmt.Errorf("invalid flow %q: must be one of %s", c.Flow, strings.Join(flowLevels, ", "))
	}
	date, err := parseDate(c.Date, ctx.Today())
	if err != nil {
		return err
	}
	var symptoms []string
	for _, s := range c.Symptoms {
		if s = strings.TrimSpace(s); s != "" {
			symptoms = append(symptoms, s)
		}
	}
	_, err = client.CycleLogs().Create(ctx.context(), models.CycleLog{
		Date:     date,
		Flow:     c.Flow,
		Symptoms: symptoms,
		Notes:    strings.TrimSpace(c.Notes),
	})
	if err != nil {
		return fmt.Errorf("failed to save cycle log: %w", err)
	}
	ctx.printf("%s Cycle log saved for %s\n", okStyle.Render("✓"), date)
	return nil
}

type CycleListCmd struct {
	Limit int `help:"Number of logs to show." default:"14"`
}

func (c *CycleListCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	logs, err := client.CycleLogs().List(ctx.context(), backend.ListOptions{Sort: "-date", Limit: c.Limit})
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		ctx.println("No cycle logs yet.")
		return nil
	}
	for _, l := range logs {
		line := fmt.Sprintf("%s  %-6s", l.Date, l.Flow)
		if len(l.Symptoms) > 0 {
			line += "  " + strings.Join(l.Symptoms, ", ")
		}
		ctx.println(line)
	}
	return nil
}

type BadgesCmd struct{}

func (c *BadgesCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	earned, err := client.UserBadges().List(ctx.context(), backend.ListOptions{Sort: "-awarded_at"})
	if err != nil {
		return err
	}
	if len(earned) == 0 {
		ctx.println("No badges yet. Keep checking in!")
		return nil
	}
	catalog, err := client.Badges().List(ctx.context(), backend.ListOptions{})
	if err != nil {
		return err
	}
	names := make(map[string]models.Badge, len(catalog))
	for _, b := range catalog {
		names[b.Code] = b
	}
	for _, ub := range earned {
		name, desc := ub.BadgeCode, ""
		if b, ok := names[ub.BadgeCode]; ok {
			name, desc = b.Name, b.Description
		}
		ctx.printf("%s %s %s\n", headerStyle.Render(name), mutedStyle.Render(ub.AwardedAt.Format("2006-01-02")), desc)
	}
	return nil
}
