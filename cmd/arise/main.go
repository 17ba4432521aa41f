package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/arise/internal/cli"
	"github.com/julianstephens/arise/internal/constants"
	"github.com/julianstephens/arise/internal/errors"
	"github.com/julianstephens/arise/internal/logger"
	"github.com/julianstephens/arise/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database path. A path ending in .json uses a JSON file instead of SQLite." type:"path" default:"~/.config/arise/arise.db" env:"ARISE_CONFIG"`
	Debug    bool   `help:"Enable debug logging to stderr." env:"ARISE_DEBUG"`
	LogLevel string `help:"Log file level (debug, info, warn, error)." env:"ARISE_LOG_LEVEL"`

	Init         cli.InitCmd         `cmd:"" help:"Initialize arise storage."`
	Tui          cli.TuiCmd          `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status       cli.StatusCmd       `cmd:"" help:"Show the hunter card."`
	Quests       cli.QuestsCmd       `cmd:"" help:"List today's quests."`
	Complete     cli.CompleteCmd     `cmd:"" help:"Complete a quest."`
	Rename       cli.RenameCmd       `cmd:"" help:"Rename your hunter."`
	Achievements cli.AchievementsCmd `cmd:"" help:"List achievements."`
	History      cli.HistoryCmd      `cmd:"" help:"Show cleared days."`
	Settings     cli.SettingsCmd     `cmd:"" help:"Manage application settings."`
	Backup       cli.BackupCmd       `cmd:"" help:"Manage database backups."`
	Doctor       cli.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Migrate      cli.MigrateCmd      `cmd:"" help:"Run database migrations."`
	DebugCmd     cli.DebugCmd        `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Offline-first daily fitness quests with levels, streaks and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
		Level:     CLI.LogLevel,
	}); err != nil {
		// Logging is optional; the command still runs
		fmt.Fprintln(os.Stderr, errors.Warning(err))
	}
	logger.Debug("Starting", "command", ctx.Command(), "config", CLI.Config)

	var store storage.Provider
	if strings.HasSuffix(strings.ToLower(CLI.Config), ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Store: store,
		Debug: CLI.Debug,
	}

	errors.Fatal(ctx.Run(appCtx))
}
