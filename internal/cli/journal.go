package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dayglow/internal/backend"
	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/models"
)

type JournalCmd struct {
	Add  JournalAddCmd  `cmd:"" help:"Write a journal entry."`
	List JournalListCmd `cmd:"" help:"List recent journal entries." default:"1"`
}

type JournalAddCmd struct {
	Content string `arg:"" help:"Entry text."`
	Title   string `help:"Optional title."`
	Mood    int    `help:"Optional mood rating (1-10)."`
}

func (c *JournalAddCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	content := strings.TrimSpace(c.Content)
	if content == "" {
		return fmt.Errorf("journal entry cannot be empty")
	}
	if c.Mood != 0 && (c.Mood < constants.MinRating || c.Mood > constants.MaxRating) {
		return fmt.Errorf("mood must be between %d and %d", constants.MinRating, constants.MaxRating)
	}

	entry, err := client.JournalEntries().Create(ctx.context(), models.JournalEntry{
		Title:   strings.TrimSpace(c.Title),
		Content: content,
		Mood:    c.Mood,
	})
	if err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	ctx.printf("%s Journal entry saved (%s)\n", okStyle.Render("✓"), entry.ID)
	return nil
}

type JournalListCmd struct {
	Limit int `help:"Number of entries to show." default:"10"`
}

func (c *JournalListCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	entries, err := client.JournalEntries().List(ctx.context(), backend.ListOptions{Sort: "-created_date", Limit: c.Limit})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.println("No journal entries yet.")
		return nil
	}
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "Untitled"
		}
		ctx.printf("%s %s\n", headerStyle.Render(title), mutedStyle.Render(e.CreatedDate.Format(constants.DateFormat)))
		if e.Mood != 0 {
			ctx.printf("  mood %d/%d\n", e.Mood, constants.MaxRating)
		}
		ctx.printf("  %s\n\n", e.Content)
	}
	return nil
}
