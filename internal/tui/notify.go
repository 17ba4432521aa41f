package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/engine"
)

const (
	noticeTTL  = 5 * time.Second
	maxNotices = 6
)

type notice struct {
	text    string
	style   lipgloss.Style
	expires time.Time
}

func (m *Model) notify(style lipgloss.Style, format string, args ...interface{}) {
	m.notices = append(m.notices, notice{
		text:    fmt.Sprintf(format, args...),
		style:   style,
		expires: m.now.Add(noticeTTL),
	})
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func (m *Model) expireNotices() {
	kept := m.notices[:0]
	for _, n := range m.notices {
		if m.now.Before(n.expires) {
			kept = append(kept, n)
		}
	}
	m.notices = kept
}

func (m *Model) notifyActivation(act engine.Activation) {
	r := act.Rollover
	switch {
	case r.FirstRun:
		m.notify(successStyle, "Welcome, Hunter. Your first quests await.")
	case r.StreakBroken():
		m.notify(dangerStyle, "💔 Streak lost (was %d days)", r.PreviousStreak)
	case r.StreakChanged():
		m.notify(successStyle, "🔥 Streak: %d days", r.Streak)
	}
	if act.QuestsGenerated && !r.FirstRun {
		m.notify(headerStyle, "New daily quests have arrived")
	}
	m.notifyLevelUps(act.LevelUps)
	m.notifyAchievements(act.Achievements)
}

func (m *Model) notifyCompletion(c engine.Completion) {
	if !c.Applied {
		return
	}
	m.notify(successStyle, "✓ %s complete: +%d XP", c.Quest.Name, c.ExperienceAwarded)
	if c.AllCleared {
		m.notify(levelUpStyle, "🎉 ALL DAILY QUESTS CLEARED")
		if c.StreakStarted {
			m.notify(successStyle, "🔥 Streak started: 1 day")
		}
	}
	m.notifyLevelUps(c.LevelUps)
	m.notifyAchievements(c.Achievements)
}

func (m *Model) notifyGain(label string, g engine.Gain) {
	if !g.Applied {
		return
	}
	m.notify(successStyle, "%s: +%d XP", label, g.Amount)
	m.notifyLevelUps(g.LevelUps)
	m.notifyAchievements(g.Achievements)
}

func (m *Model) notifyLevelUps(ups []engine.LevelUp) {
	for _, up := range ups {
		m.notify(levelUpStyle, "⬆️  LEVEL UP! Level %d", up.Level)
		if up.RankUp {
			m.notify(rankStyle(up.Rank), "RANK UP: %s-Rank", up.Rank.Name)
		}
	}
}

func (m *Model) notifyAchievements(list []catalog.Achievement) {
	for _, a := range list {
		m.notify(rarityStyle(a.Rarity), "%s Achievement unlocked: %s", a.Icon, a.Name)
	}
}
