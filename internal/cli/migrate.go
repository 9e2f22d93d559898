package cli

import "fmt"

type MigrateCmd struct {
	Status bool `help:"Show the schema version without applying anything."`
}

func (c *MigrateCmd) Run(ctx *Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return fmt.Errorf("store does not support migrations")
	}
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	runner := m.Migrations()

	st, err := runner.Status()
	if err != nil {
		return err
	}
	if c.Status {
		ctx.printf("Schema version %d of %d, %d pending\n", st.Current, st.Latest, len(st.Pending))
		for _, p := range st.Pending {
			ctx.printf("  %03d_%s\n", p.Version, p.Name)
		}
		return nil
	}

	count, err := runner.Apply()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if count == 0 {
		ctx.println("No migrations to apply. Database is up to date.")
	} else {
		ctx.printf("Successfully applied %d migration(s).\n", count)
	}
	return nil
}
