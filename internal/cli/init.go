package cli

import (
	"fmt"
	"os"
)

type InitCmd struct {
	Force bool `help:"Delete the existing database before initializing."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	defer ctx.Store.Close()

	rec, err := ctx.Players().Load()
	if err != nil {
		return err
	}
	ctx.printf("Initialized arise storage at: %s\n", ctx.Store.GetConfigPath())
	ctx.printf("Hunter %q is level %d.\n", rec.Name, rec.Level)
	return nil
}
