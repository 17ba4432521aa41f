package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/arise/internal/engine"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	clearedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00d4ff")).
			Bold(true)

	missedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			MarginTop(1)
)

type Model struct {
	viewport   viewport.Model
	buckets    []engine.DayBucket
	total      int
	bestStreak int
	width      int
	height     int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetHistory replaces the chart data. total is the number of cleared days
// ever recorded.
func (m *Model) SetHistory(buckets []engine.DayBucket, total, bestStreak int) {
	m.buckets = buckets
	m.total = total
	m.bestStreak = bestStreak
	m.Render()
}

// Render draws one row per week, oldest first.
func (m *Model) Render() {
	if len(m.buckets) == 0 {
		m.viewport.SetContent("No history yet.")
		return
	}

	var b strings.Builder
	for i := 0; i < len(m.buckets); i += 7 {
		end := min(i+7, len(m.buckets))
		cells := make([]string, 0, 7)
		for _, d := range m.buckets[i:end] {
			if d.Cleared {
				cells = append(cells, clearedStyle.Render("■"))
			} else {
				cells = append(cells, missedStyle.Render("□"))
			}
		}
		b.WriteString(dateStyle.Render(m.buckets[i].Date))
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}

	b.WriteString(summaryStyle.Render(fmt.Sprintf("Cleared %d of the last %d days · %d total · best streak %d",
		engine.ClearedDays(m.buckets), len(m.buckets), m.total, m.bestStreak)))
	m.viewport.SetContent(b.String())
}
