package cli

import (
	"fmt"

	"github.com/julianstephens/arise/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer ctx.Store.Close()

	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return fmt.Errorf("migrate command only supports SQLite storage")
	}

	count, err := sqliteStore.Migrate(func(msg string) {
		ctx.println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.println("No migrations to apply. Database is up to date.")
	} else {
		ctx.printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
