package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateRename, StateConfirmNewDay:
		content = docStyle.Render(m.form.View())
	default:
		switch m.tab {
		case TabQuests:
			content = m.viewQuests()
		case TabHunter:
			content = m.viewHunter()
		case TabAchievements:
			content = m.viewAchievements()
		case TabHistory:
			content = docStyle.Render(m.history.View())
		}
	}

	parts := []string{m.viewTabs()}
	if banner := m.viewBanner(); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, content)
	if notices := m.viewNotices(); notices != "" {
		parts = append(parts, notices)
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.tab == Tab(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewBanner() string {
	var lines []string
	if m.storageWarning != "" {
		lines = append(lines, dangerStyle.Render(m.storageWarning))
	}
	if m.opts.ReadOnly {
		lines = append(lines, warningStyle.Render("Read-only: another arise process owns the data directory"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewNotices() string {
	if len(m.notices) == 0 {
		return ""
	}
	lines := make([]string, len(m.notices))
	for i, n := range m.notices {
		lines[i] = n.style.Render(n.text)
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n"))
}

func (m Model) viewQuests() string {
	header := fmt.Sprintf("Daily Quests  %d/%d  ·  resets in %s",
		m.record.CompletedCount(), len(m.record.DailyQuests),
		utils.FormatCountdown(utils.UntilMidnight(m.now.In(m.engine.Location()))))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(header),
		"",
		m.questList.View(),
	))
}

func (m Model) viewHunter() string {
	rec := m.record
	rank := catalog.RankFor(rec.Level)
	next := catalog.ExperienceToNext(rec.Level)

	title := lipgloss.JoinHorizontal(lipgloss.Center,
		headerStyle.Render(rec.Name),
		"  ",
		rankStyle(rank).Render(rank.Name+"-Rank"),
		"  ",
		mutedStyle.Render(fmt.Sprintf("Level %d", rec.Level)),
	)

	xp := lipgloss.JoinHorizontal(lipgloss.Center,
		mutedStyle.Width(9).Render("XP"),
		m.xpBar.ViewAs(ratio(rec.Experience, next)),
		mutedStyle.Render(fmt.Sprintf("  %d/%d", rec.Experience, next)),
	)
	fatigue := lipgloss.JoinHorizontal(lipgloss.Center,
		mutedStyle.Width(9).Render("Fatigue"),
		m.fatigueBar.ViewAs(ratio(rec.Fatigue, catalog.MaxFatigue)),
		mutedStyle.Render(fmt.Sprintf("  %d/%d", rec.Fatigue, catalog.MaxFatigue)),
	)

	stats := fmt.Sprintf("STR %d   END %d   AGI %d   VIT %d",
		rec.Stats.Strength, rec.Stats.Endurance, rec.Stats.Agility, rec.Stats.Vitality)
	streak := fmt.Sprintf("🔥 Streak %d days   Best %d   Cleared days %d",
		rec.Streak, rec.BestStreak, len(rec.History))

	card := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", xp, fatigue, "", stats, streak,
	))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		card,
		quoteStyle.Render(fmt.Sprintf("%q", catalog.QuoteFor(m.now.In(m.engine.Location()).Weekday()))),
	))
}

func (m Model) viewAchievements() string {
	rec := m.record
	all := catalog.Achievements()

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Achievements  %d/%d", len(rec.EarnedAchievements), len(all))))
	b.WriteString("\n\n")
	for _, a := range catalog.SortForDisplay(all, rec.HasAchievement) {
		if rec.HasAchievement(a.ID) {
			b.WriteString(rarityStyle(a.Rarity).Render(fmt.Sprintf("%s %-20s %-10s", a.Icon, a.Name, a.Rarity)))
			b.WriteString(" " + a.Description)
		} else {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("🔒 %-20s %-10s %s", a.Name, a.Rarity, a.Description)))
		}
		b.WriteString("\n")
	}
	return docStyle.Render(b.String())
}

func ratio(cur, total int) float64 {
	if total <= 0 {
		return 0
	}
	return min(1, max(0, float64(cur)/float64(total)))
}
