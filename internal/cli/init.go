package cli

import (
	"fmt"
	"os"
)

type InitCmd struct {
	Force bool `help:"Delete an existing sqlite database before initializing."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		if s, err := ctx.SQLite(); err == nil {
			path := s.GetConfigPath()
			if _, err := os.Stat(path); err == nil {
				if err := ctx.Store.Close(); err != nil {
					return fmt.Errorf("failed to close existing database: %w", err)
				}
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
				ctx.printf("Deleted existing database at: %s\n", path)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to access existing database: %w", err)
			}
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized dayglow storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
