package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/dayglow/internal/keyring"
)

type LoginCmd struct {
	Email    string `arg:"" optional:"" help:"Account email."`
	Password string `env:"DAYGLOW_PASSWORD" help:"Account password. Prompted for when omitted."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(false)
	if err != nil {
		return err
	}

	email, password := c.Email, c.Password
	if email == "" || password == "" {
		var fields []huh.Field
		if email == "" {
			fields = append(fields, huh.NewInput().Title("Email").Value(&email).Validate(required("email")))
		}
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(required("password")))
		if err := runForm(huh.NewForm(huh.NewGroup(fields...))); err != nil {
			return err
		}
	}

	token, user, err := client.Auth().Login(ctx.context(), strings.TrimSpace(email), password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := keyring.SetToken(token); err != nil {
		return fmt.Errorf("logged in but could not store the token: %w", err)
	}
	ctx.printf("%s Logged in as %s\n", okStyle.Render("✓"), user.Email)
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := keyring.DeleteToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	if ctx.Backend != nil {
		ctx.Backend.SetToken("")
	}
	ctx.println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	client, err := ctx.RequireBackend(true)
	if err != nil {
		return err
	}
	user, err := client.Auth().Me(ctx.context())
	if err != nil {
		return err
	}
	name := user.DisplayName
	if name == "" {
		name = user.FullName
	}
	ctx.printf("%s <%s>\n", name, user.Email)
	ctx.printf("  id:     %s\n", user.ID)
	if user.Role != "" {
		ctx.printf("  role:   %s\n", user.Role)
	}
	if !user.CreatedDate.IsZero() {
		ctx.printf("  joined: %s\n", user.CreatedDate.Format("2006-01-02"))
	}
	return nil
}
