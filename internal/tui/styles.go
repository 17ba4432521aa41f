package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/arise/internal/catalog"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	levelUpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	quoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true).
			MarginTop(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func rankStyle(r catalog.Rank) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(r.Color)).
		Padding(0, 1).
		Bold(true)
}

func rarityStyle(r catalog.Rarity) lipgloss.Style {
	color := "250"
	switch r {
	case catalog.RarityRare:
		color = "#00d4ff"
	case catalog.RarityEpic:
		color = "#8b5cf6"
	case catalog.RarityLegendary:
		color = "#fbbf24"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
