package tui

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/engine"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/storage"
	"github.com/julianstephens/arise/internal/tui/components/questlist"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestModel(t *testing.T, store engine.Store, opts Options) (Model, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)}
	if store == nil {
		store = storage.NewPlayerStore(storage.NewMemoryStore())
	}
	e := engine.New(store,
		engine.WithClock(clock.now),
		engine.WithLocation(time.UTC),
		engine.WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	act, _ := e.Activate()
	opts.Activation = &act
	return NewModel(e, opts), clock
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// beginAndApply completes a quest through the paced path.
func beginAndApply(t *testing.T, m Model, id string) Model {
	t.Helper()
	m, cmd := update(t, m, questlist.CompleteQuestMsg{ID: id})
	if cmd == nil {
		t.Fatalf("expected a pacing command for quest %s", id)
	}
	p, ok := m.engine.BeginCompletion(id)
	if !ok {
		t.Fatalf("quest %s should still be pending", id)
	}
	m, _ = update(t, m, applyCompletionMsg{pending: p})
	return m
}

func TestNewModel_ShowsFirstRun(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})

	if len(m.record.DailyQuests) != 4 {
		t.Fatalf("expected 4 quests, got %d", len(m.record.DailyQuests))
	}
	if len(m.notices) == 0 || !strings.Contains(m.notices[0].text, "Welcome") {
		t.Errorf("expected a welcome notice, got %+v", m.notices)
	}
	if view := m.View(); !strings.Contains(view, "Daily Quests") {
		t.Errorf("quests tab not rendered:\n%s", view)
	}
}

func TestModel_CompletionIsPaced(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})
	id := m.record.DailyQuests[0].ID

	m, cmd := update(t, m, questlist.CompleteQuestMsg{ID: id})
	if cmd == nil {
		t.Fatal("expected a pacing command")
	}
	if !m.pending[id] {
		t.Error("quest should be pending")
	}
	if m.engine.Snapshot().DailyQuests[0].Completed {
		t.Error("quest must not complete before the delay elapses")
	}

	// A second request while pending is ignored
	if _, cmd := update(t, m, questlist.CompleteQuestMsg{ID: id}); cmd != nil {
		t.Error("expected no command for a quest that is already pending")
	}

	p, _ := m.engine.BeginCompletion(id)
	m, _ = update(t, m, applyCompletionMsg{pending: p})
	if !m.record.DailyQuests[0].Completed {
		t.Error("quest should be completed after apply")
	}
	if m.pending[id] {
		t.Error("pending flag should be cleared")
	}
	if m.record.Experience == 0 {
		t.Error("expected experience to be awarded")
	}

	// Applying the same pending completion again changes nothing
	xp := m.record.Experience
	m, _ = update(t, m, applyCompletionMsg{pending: p})
	if m.record.Experience != xp {
		t.Errorf("double apply awarded experience: %d -> %d", xp, m.record.Experience)
	}
}

func TestModel_EnterKeyRequestsCompletion(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected enter to produce a command")
	}
	msg, ok := cmd().(questlist.CompleteQuestMsg)
	if !ok {
		t.Fatalf("expected CompleteQuestMsg, got %T", cmd())
	}
	if msg.ID != m.record.DailyQuests[0].ID {
		t.Errorf("expected first quest to be selected, got %s", msg.ID)
	}
}

func TestModel_ClearingAllQuests(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})
	for _, q := range m.record.DailyQuests {
		m = beginAndApply(t, m, q.ID)
	}

	if !m.record.AllQuestsCompleted() {
		t.Fatal("expected all quests completed")
	}
	if m.record.Streak != 1 || len(m.record.History) != 1 {
		t.Errorf("expected streak 1 and one history entry, got streak %d history %d", m.record.Streak, len(m.record.History))
	}

	var cleared, achievement bool
	for _, n := range m.notices {
		cleared = cleared || strings.Contains(n.text, "ALL DAILY QUESTS CLEARED")
		achievement = achievement || strings.Contains(n.text, "Achievement unlocked")
	}
	if !cleared || !achievement {
		t.Errorf("expected clear and achievement notices, got %+v", m.notices)
	}
}

func TestModel_PendingCompletionDroppedAfterNewDay(t *testing.T) {
	m, clock := newTestModel(t, nil, Options{})
	id := m.record.DailyQuests[0].ID

	m, _ = update(t, m, questlist.CompleteQuestMsg{ID: id})
	p, _ := m.engine.BeginCompletion(id)

	clock.t = clock.t.AddDate(0, 0, 1)
	m, _ = update(t, m, NewDayMsg{})
	if m.record.LastResetDate != "2024-05-02" {
		t.Fatalf("expected rollover to 2024-05-02, got %s", m.record.LastResetDate)
	}

	m, _ = update(t, m, applyCompletionMsg{pending: p})
	if m.record.Experience != 0 {
		t.Errorf("stale completion awarded %d XP", m.record.Experience)
	}
	if m.record.CompletedCount() != 0 {
		t.Error("stale completion marked a new quest complete")
	}
}

func TestModel_TickRollsOverMissedMidnight(t *testing.T) {
	m, clock := newTestModel(t, nil, Options{})
	before := m.record.DailyQuests[0].ID

	clock.t = clock.t.AddDate(0, 0, 1)
	m, cmd := update(t, m, TickMsg(clock.t))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.record.LastResetDate != "2024-05-02" {
		t.Errorf("expected rollover on tick, got %s", m.record.LastResetDate)
	}
	if m.record.DailyQuests[0].ID == before {
		t.Error("expected a new quest batch")
	}
}

func TestModel_NoticesExpire(t *testing.T) {
	m, clock := newTestModel(t, nil, Options{})
	if len(m.notices) == 0 {
		t.Fatal("expected notices after first activation")
	}

	m, _ = update(t, m, TickMsg(clock.t.Add(noticeTTL+time.Second)))
	if len(m.notices) != 0 {
		t.Errorf("expected notices to expire, got %d", len(m.notices))
	}
}

func TestModel_TabNavigation(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	want := []Tab{TabHunter, TabAchievements, TabHistory, TabQuests}
	for _, tab := range want {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.tab != tab {
			t.Fatalf("expected tab %d, got %d", tab, m.tab)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.tab != TabHistory {
		t.Errorf("expected shift+tab to wrap to history, got %d", m.tab)
	}
	if view := m.View(); !strings.Contains(view, "Cleared 0 of the last 30 days") {
		t.Errorf("history tab not rendered:\n%s", view)
	}
}

func TestModel_RenameOpensForm(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})

	// Rename is only bound on the hunter tab
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.state != StateNormal {
		t.Fatal("rename should not open outside the hunter tab")
	}

	m.tab = TabHunter
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.state != StateRename || m.form == nil {
		t.Fatal("expected rename form")
	}
	if m.renameForm.Name != "Hunter" {
		t.Errorf("expected form prefilled with current name, got %q", m.renameForm.Name)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateNormal {
		t.Error("esc should close the form")
	}
}

func TestModel_ReadOnly(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{ReadOnly: true})
	id := m.record.DailyQuests[0].ID

	m, cmd := update(t, m, questlist.CompleteQuestMsg{ID: id})
	if cmd != nil || m.pending[id] {
		t.Error("read-only model must not start completions")
	}
	if !strings.Contains(m.View(), "Read-only") {
		t.Error("expected read-only banner")
	}
}

type failingStore struct{}

var errDisk = errors.New("disk full")

func (failingStore) Load() (models.PlayerRecord, error) { return catalog.NewRecord(), errDisk }
func (failingStore) Save(models.PlayerRecord) error     { return errDisk }
func (failingStore) LastLoginDate() (string, error)     { return "", nil }
func (failingStore) SetLastLoginDate(string) error      { return errDisk }

func TestModel_StorageBanner(t *testing.T) {
	m, _ := newTestModel(t, failingStore{}, Options{})

	if m.storageWarning == "" {
		t.Fatal("expected a storage warning")
	}
	if !strings.Contains(m.View(), "progress is not being saved") {
		t.Error("expected storage banner in view")
	}

	// Play continues in memory
	m = beginAndApply(t, m, m.record.DailyQuests[0].ID)
	if !m.record.DailyQuests[0].Completed {
		t.Error("completion should apply in memory")
	}
}
