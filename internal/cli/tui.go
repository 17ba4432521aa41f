package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/arise/internal/logger"
	"github.com/julianstephens/arise/internal/scheduler"
	"github.com/julianstephens/arise/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// Session notices are shown inside the TUI instead
	ctx.Out = io.Discard
	logger.FileOnly()
	sess, err := ctx.StartSession(true)
	if err != nil {
		return err
	}
	defer ctx.Close()

	if !sess.ReadOnly {
		ctx.PerformAutomaticBackup()
	}

	settings, _ := ctx.Players().Settings()
	model := tui.NewModel(sess.Engine, tui.Options{
		ReadOnly:   sess.ReadOnly,
		LoginBonus: settings.LoginBonus,
		Debug:      ctx.Debug,
		Activation: &sess.Activation,
		Login:      sess.Login,
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	sched, err := scheduler.New(sess.Engine.Location(), logger.Get())
	if err != nil {
		logger.Warn("Midnight rollover disabled", "error", err)
	} else {
		if err := sched.OnNewDay(func() { p.Send(tui.NewDayMsg{}) }); err != nil {
			logger.Warn("Midnight rollover disabled", "error", err)
		}
		sched.Start()
		defer func() {
			if err := sched.Stop(); err != nil {
				logger.Warn("Failed to stop scheduler", "error", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
