package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/arise/internal/backup"
	"github.com/julianstephens/arise/internal/constants"
	"github.com/julianstephens/arise/internal/lock"
	"github.com/julianstephens/arise/internal/storage"
	"github.com/julianstephens/arise/internal/utils"
	"github.com/julianstephens/arise/internal/validation"
)

type DoctorCmd struct {
	Fix bool `help:"Repair fixable problems in the player record."`
}

// checkWarning is a check result that is reported but does not fail doctor.
type checkWarning struct{ msg string }

func (w checkWarning) Error() string { return w.msg }

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, err error) {
		var w checkWarning
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", name)
		case errors.As(err, &w):
			ctx.printf("⚠ %s: WARNING\n", name)
			ctx.printf("   %s\n", w.msg)
		default:
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	}

	dbErr := checkDBReachable(ctx)
	report("Database reachable", dbErr)
	if dbErr == nil {
		defer ctx.Store.Close()
		report("Schema version", checkSchemaVersion(ctx))
		report("Migrations complete", checkMigrationsComplete(ctx))
		report("Application tag", checkAppTag(ctx))
		report("Backups present", checkBackupsPresent(ctx))
		report("Process lock", checkLock(ctx))
		report("Player record", cmd.checkPlayerRecord(ctx))
	} else {
		ctx.println("⊘ Player record: SKIPPED (database not reachable)")
	}
	report("Clock/timezone", checkClockTimezone(ctx, dbErr == nil))

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func warning(format string, args ...interface{}) error {
	return checkWarning{msg: fmt.Sprintf(format, args...)}
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		// JSON store doesn't have schema version
		return nil
	}
	current, latest, err := sqliteStore.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}
	current, latest, err := sqliteStore.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'arise migrate')", current, latest)
	}
	return nil
}

func checkAppTag(ctx *Context) error {
	sqliteStore, ok := ctx.Store.(*storage.SQLiteStore)
	if !ok {
		return nil
	}
	tag, err := sqliteStore.AppTag()
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}
	switch tag {
	case constants.AppName:
		return nil
	case "":
		return warning("database has no application tag")
	default:
		return fmt.Errorf("database belongs to %q, not %s", tag, constants.AppName)
	}
}

func checkBackupsPresent(ctx *Context) error {
	if _, ok := ctx.Store.(*storage.SQLiteStore); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return warning("no backups found - consider creating one with 'arise backup create'")
	}
	return nil
}

func checkLock(ctx *Context) error {
	if pid, alive := lock.Owner(ctx.dataDir()); alive && pid != os.Getpid() {
		return warning("data directory is in use by arise (pid %d)", pid)
	}
	return nil
}

func (cmd *DoctorCmd) checkPlayerRecord(ctx *Context) error {
	players := ctx.Players()
	rec, found, err := players.LoadRaw()
	if errors.Is(err, storage.ErrStorageUnavailable) {
		return err
	}
	if err != nil {
		return fmt.Errorf("player record is unreadable and will be replaced on next start: %w", err)
	}
	if !found {
		return warning("no player record yet; one is created on first start")
	}

	today := ""
	if now, err := currentTime(ctx); err == nil {
		today = utils.DayKey(now)
	}
	result := validation.New().ValidateRecord(rec, today)
	if !result.HasConflicts() {
		return nil
	}
	ctx.printf("%s", result.FormatReport())

	if cmd.Fix {
		l, err := lock.Acquire(ctx.dataDir())
		if err != nil {
			return fmt.Errorf("cannot repair record: %w", err)
		}
		defer l.Release()

		actions, err := validation.AutoFix(result.Conflicts, rec, storage.Normalize, players.Save)
		if err != nil {
			return err
		}
		for _, a := range actions {
			ctx.printf("   %s\n", a.Action)
		}
		if len(actions) == len(result.Conflicts) {
			return nil
		}
		return fmt.Errorf("%d problem(s) cannot be repaired automatically", len(result.Conflicts)-len(actions))
	}

	if n := len(result.Fixable()); n > 0 {
		return fmt.Errorf("%d problem(s) found, %d repairable with 'arise doctor --fix'", len(result.Conflicts), n)
	}
	return fmt.Errorf("%d problem(s) found", len(result.Conflicts))
}

// currentTime returns now in the configured timezone.
func currentTime(ctx *Context) (time.Time, error) {
	settings, err := ctx.Players().Settings()
	if err != nil {
		return time.Time{}, err
	}
	return utils.NowInTimezone(settings.Timezone)
}

func checkClockTimezone(ctx *Context, haveStore bool) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !haveStore {
		return nil
	}

	settings, err := ctx.Players().Settings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("configured timezone %q is unknown", settings.Timezone)
	}
	if _, offset := now.Zone(); offset == 0 && settings.Timezone == constants.DefaultTimezone && now.Location() == time.UTC {
		ctx.println("   Note: timezone is UTC")
	}
	return nil
}
