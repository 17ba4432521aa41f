package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/arise/internal/engine"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/tui/components/history"
	"github.com/julianstephens/arise/internal/tui/components/questlist"
)

type Tab int

const (
	TabQuests Tab = iota
	TabHunter
	TabAchievements
	TabHistory
	numTabs
)

var tabTitles = [numTabs]string{"Quests", "Hunter", "Achievements", "History"}

type SessionState int

const (
	StateNormal SessionState = iota
	StateRename
	StateConfirmNewDay
)

const historyDays = 30

type RenameFormModel struct {
	Name string
}

type ConfirmFormModel struct {
	Confirm bool
}

// Options configure a Model.
type Options struct {
	// ReadOnly disables every action that would change the record.
	ReadOnly bool
	// LoginBonus claims the daily login bonus whenever a new day starts.
	LoginBonus bool
	// Debug enables the force-new-day key.
	Debug bool
	// Activation and Login are shown as notices on the first frame.
	Activation *engine.Activation
	Login      engine.Gain
}

// NewDayMsg tells the model that local midnight has passed.
type NewDayMsg struct{}

// TickMsg drives the reset countdown and notice expiry.
type TickMsg time.Time

// applyCompletionMsg delivers a paced completion back to Update.
type applyCompletionMsg struct {
	pending engine.PendingCompletion
}

type Model struct {
	engine *engine.Engine
	opts   Options

	state      SessionState
	tab        Tab
	keys       KeyMap
	help       help.Model
	questList  questlist.Model
	history    history.Model
	xpBar      progress.Model
	fatigueBar progress.Model

	form        *huh.Form
	renameForm  *RenameFormModel
	confirmForm *ConfirmFormModel

	record         models.PlayerRecord
	pending        map[string]bool
	notices        []notice
	storageWarning string
	now            time.Time

	quitting bool
	width    int
	height   int
}

func NewModel(e *engine.Engine, opts Options) Model {
	m := Model{
		engine:     e,
		opts:       opts,
		state:      StateNormal,
		tab:        TabQuests,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		questList:  questlist.New(nil, 0, 0),
		history:    history.New(0, 0),
		xpBar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		fatigueBar: progress.New(progress.WithGradient("#fbbf24", "#ff0000"), progress.WithWidth(30)),
		pending:    make(map[string]bool),
		now:        e.Now(),
	}
	m.keys.NewDay.SetEnabled(opts.Debug && !opts.ReadOnly)
	m.keys.Rename.SetEnabled(!opts.ReadOnly)
	m.keys.Complete.SetEnabled(!opts.ReadOnly)
	if opts.Activation != nil {
		m.notifyActivation(*opts.Activation)
	}
	m.notifyGain("🎁 Daily login bonus", opts.Login)
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.NextTab, m.keys.Quit, m.keys.Help}
	switch m.tab {
	case TabQuests:
		keys = append(keys, m.keys.Complete)
	case TabHunter:
		keys = append(keys, m.keys.Rename)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.NextTab, m.keys.PrevTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Select}
	actions := []key.Binding{m.keys.Complete, m.keys.Rename, m.keys.NewDay}
	return [][]key.Binding{global, navigation, actions}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// refresh re-reads the engine state into the view models.
func (m *Model) refresh() {
	m.record = m.engine.Snapshot()
	m.questList.SetQuests(m.record.DailyQuests, m.pending)
	buckets := engine.HistoryBuckets(m.record, m.engine.Today(), historyDays)
	m.history.SetHistory(buckets, len(m.record.History), m.record.BestStreak)
	if m.engine.Degraded() && m.storageWarning == "" {
		m.storageWarning = "⚠ Storage unavailable: progress is not being saved"
	}
}

// storageFailed records the first storage error reported by the engine.
func (m *Model) storageFailed(err error) {
	if err == nil {
		return
	}
	m.storageWarning = fmt.Sprintf("⚠ Storage unavailable: progress is not being saved (%v)", err)
}

// startNewDay activates the engine after midnight.
func (m *Model) startNewDay() {
	act, err := m.engine.Activate()
	m.storageFailed(err)
	m.notifyActivation(act)
	if m.opts.LoginBonus && !m.opts.ReadOnly {
		gain, err := m.engine.ClaimLoginBonus()
		m.storageFailed(err)
		m.notifyGain("🎁 Daily login bonus", gain)
	}
	m.refresh()
}

// beginCompletion accepts a completion and schedules its application after
// engine.CompletionDelay.
func (m *Model) beginCompletion(id string) tea.Cmd {
	if m.opts.ReadOnly {
		m.notify(warningStyle, "Read-only session: another arise process owns the data")
		return nil
	}
	if m.pending[id] {
		return nil
	}
	p, ok := m.engine.BeginCompletion(id)
	if !ok {
		return nil
	}
	m.pending[id] = true
	m.questList.SetQuests(m.record.DailyQuests, m.pending)
	return tea.Tick(engine.CompletionDelay, func(time.Time) tea.Msg {
		return applyCompletionMsg{pending: p}
	})
}

func (m *Model) applyCompletion(p engine.PendingCompletion) {
	delete(m.pending, p.QuestID)
	c, err := m.engine.ApplyCompletion(p)
	m.storageFailed(err)
	m.notifyCompletion(c)
	m.refresh()
}

func newRenameForm(fm *RenameFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hunter Name").
				CharLimit(40).
				Value(&fm.Name).
				Validate(func(s string) error {
					if _, ok := engine.NormalizeName(s); !ok {
						return fmt.Errorf("name must be 1-20 characters")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func newConfirmNewDayForm(fm *ConfirmFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Start a new day now?").
				Description("Today's quests are replaced and the streak is re-evaluated.").
				Affirmative("Yes").
				Negative("No").
				Value(&fm.Confirm),
		),
	).WithTheme(huh.ThemeDracula())
}
