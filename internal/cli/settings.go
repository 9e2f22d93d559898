package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/dayglow/internal/constants"
	"github.com/julianstephens/dayglow/internal/models"
)

type SettingsCmd struct {
	ReminderTime         *string `help:"Daily reminder time (HH:MM)."`
	NotificationsEnabled *bool   `help:"Enable or disable reminders and desktop notifications." negatable:""`
	TipsLimit            *int    `help:"Number of categories suggested by 'dayglow tips'."`
	Timezone             *string `help:"IANA timezone name, or 'Local'."`
	DisplayName          *string `help:"Name shown on community messages. Also updates your profile when logged in."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated, err := c.apply(&settings)
	if err != nil {
		return err
	}
	if !updated {
		printSettings(ctx, settings)
		return nil
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if c.DisplayName != nil && ctx.Backend != nil && ctx.Backend.HasToken() {
		if _, err := ctx.Backend.Auth().UpdateMe(ctx.context(), map[string]any{"display_name": settings.DisplayName}); err != nil {
			ctx.Toasts.Warn("Display name saved locally but not on your profile: %v", err)
		}
	}
	ctx.println("Settings updated successfully.")
	return nil
}

func (c *SettingsCmd) apply(s *models.Settings) (bool, error) {
	updated := false
	if c.ReminderTime != nil {
		if _, err := time.Parse(constants.TimeFormat, *c.ReminderTime); err != nil {
			return false, fmt.Errorf("invalid reminder time %q: expected HH:MM", *c.ReminderTime)
		}
		s.ReminderTime = *c.ReminderTime
		updated = true
	}
	if c.NotificationsEnabled != nil {
		s.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.TipsLimit != nil {
		if *c.TipsLimit < 1 || *c.TipsLimit > len(models.Categories) {
			return false, fmt.Errorf("tips limit must be between 1 and %d", len(models.Categories))
		}
		s.TipsLimit = *c.TipsLimit
		updated = true
	}
	if c.Timezone != nil {
		if _, err := time.LoadLocation(*c.Timezone); err != nil {
			return false, fmt.Errorf("invalid timezone %q: %w", *c.Timezone, err)
		}
		s.Timezone = *c.Timezone
		updated = true
	}
	if c.DisplayName != nil {
		s.DisplayName = *c.DisplayName
		updated = true
	}
	return updated, nil
}

func printSettings(ctx *Context, s models.Settings) {
	ctx.println("Current Settings:")
	ctx.printf("  Reminder Time:         %s\n", s.ReminderTime)
	ctx.printf("  Notifications Enabled: %v\n", s.NotificationsEnabled)
	ctx.printf("  Tips Limit:            %d\n", s.TipsLimit)
	ctx.printf("  Timezone:              %s\n", s.Timezone)
	ctx.printf("  Display Name:          %s\n", s.DisplayName)
}
