package questlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
)

// CompleteQuestMsg asks the parent model to complete a quest.
type CompleteQuestMsg struct {
	ID string
}

type Item struct {
	Quest   models.Quest
	Pending bool
}

func (i Item) Title() string {
	icon := "⚔️"
	if ex, ok := catalog.Exercise(i.Quest.ExerciseType); ok {
		icon = ex.Icon
	}
	switch {
	case i.Quest.Completed:
		return "✓ " + icon + " " + i.Quest.Name
	case i.Pending:
		return "… " + icon + " " + i.Quest.Name
	default:
		return "  " + icon + " " + i.Quest.Name
	}
}

func (i Item) Description() string {
	tier := catalog.Tier(i.Quest.DifficultyTier)
	desc := fmt.Sprintf("%s | %d %s | +%d XP", tier.Label, i.Quest.TargetValue, i.Quest.Unit, i.Quest.ExperienceReward)
	if i.Quest.Completed {
		desc += " | done"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Quest.Name }

type KeyMap struct {
	Complete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Complete: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "complete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(quests []models.Quest, width, height int) Model {
	l := list.New(items(quests, nil), list.NewDefaultDelegate(), width, height)
	l.Title = "Daily Quests"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Complete}
	}

	return Model{list: l, keys: keys}
}

func items(quests []models.Quest, pending map[string]bool) []list.Item {
	out := make([]list.Item, len(quests))
	for i, q := range quests {
		out[i] = Item{Quest: q, Pending: pending[q.ID]}
	}
	return out
}

// SetQuests replaces the list content. The selection is kept by position.
func (m *Model) SetQuests(quests []models.Quest, pending map[string]bool) {
	m.list.SetItems(items(quests, pending))
}

// Selected returns the highlighted quest.
func (m Model) Selected() (models.Quest, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Quest, true
	}
	return models.Quest{}, false
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Complete) {
		if i, ok := m.list.SelectedItem().(Item); ok && !i.Quest.Completed && !i.Pending {
			id := i.Quest.ID
			return m, func() tea.Msg { return CompleteQuestMsg{ID: id} }
		}
		return m, nil
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No quests today."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
