package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/arise/internal/tui/components/questlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Engine messages are handled in every state
	switch msg := msg.(type) {
	case TickMsg:
		m.now = time.Time(msg)
		m.expireNotices()
		if m.engine.Today() != m.record.LastResetDate {
			// Backstop for a missed midnight job (suspend, clock change)
			m.startNewDay()
		}
		return m, tick()

	case NewDayMsg:
		m.startNewDay()
		return m, nil

	case applyCompletionMsg:
		m.applyCompletion(msg.pending)
		return m, nil

	case questlist.CompleteQuestMsg:
		return m, m.beginCompletion(msg.ID)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.questList.SetSize(msg.Width-4, msg.Height-10)
		m.history.SetSize(msg.Width-4, msg.Height-10)
		barWidth := min(40, max(10, msg.Width-30))
		m.xpBar.Width = barWidth
		m.fatigueBar.Width = barWidth
		return m, nil
	}

	switch m.state {
	case StateRename:
		return m.updateRenameForm(msg)
	case StateConfirmNewDay:
		return m.updateConfirmForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % numTabs
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab - 1 + numTabs) % numTabs
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Rename) && m.tab == TabHunter:
			m.renameForm = &RenameFormModel{Name: m.record.Name}
			m.form = newRenameForm(m.renameForm)
			m.state = StateRename
			return m, m.form.Init()
		case key.Matches(msg, m.keys.NewDay):
			m.confirmForm = &ConfirmFormModel{}
			m.form = newConfirmNewDayForm(m.confirmForm)
			m.state = StateConfirmNewDay
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabQuests:
		m.questList, cmd = m.questList.Update(msg)
	case TabHistory:
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

// updateForm forwards msg to the active form. done is true once the form was
// submitted or aborted; esc aborts.
func (m *Model) updateForm(msg tea.Msg) (tea.Cmd, bool, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return nil, true, false
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return cmd, true, true
	case huh.StateAborted:
		return cmd, true, false
	}
	return cmd, false, false
}

func (m Model) updateRenameForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, done, submitted := m.updateForm(msg)
	if !done {
		return m, cmd
	}
	if submitted {
		changed, err := m.engine.Rename(m.renameForm.Name)
		m.storageFailed(err)
		if changed {
			m.refresh()
			m.notify(successStyle, "Hunter renamed to %s", m.record.Name)
		}
	}
	m.state = StateNormal
	m.form = nil
	return m, nil
}

func (m Model) updateConfirmForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, done, submitted := m.updateForm(msg)
	if !done {
		return m, cmd
	}
	if submitted && m.confirmForm.Confirm {
		act, err := m.engine.ForceNewDay()
		m.storageFailed(err)
		m.notifyActivation(act)
		m.refresh()
	}
	m.state = StateNormal
	m.form = nil
	return m, nil
}
