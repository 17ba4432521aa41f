package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/utils"
)

const barWidth = 20

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	sess, err := ctx.StartSession(true)
	if err != nil {
		return err
	}
	defer ctx.Close()

	e := sess.Engine
	rec := e.Snapshot()
	rank := e.Rank()
	next := e.ExperienceToNext()
	now := e.Now()

	ctx.println()
	ctx.printf("%s  Lv. %d  [%s-Rank]\n", rec.Name, rec.Level, rank.Name)
	ctx.printf("XP       %s  %d/%d\n", bar(rec.Experience, next, barWidth), rec.Experience, next)
	ctx.printf("Fatigue  %s  %d/%d\n", bar(rec.Fatigue, catalog.MaxFatigue, barWidth), rec.Fatigue, catalog.MaxFatigue)
	ctx.printf("STR %d  END %d  AGI %d  VIT %d\n",
		rec.Stats.Strength, rec.Stats.Endurance, rec.Stats.Agility, rec.Stats.Vitality)
	ctx.printf("Streak   %d days (best %d)\n", rec.Streak, rec.BestStreak)
	ctx.printf("Cleared  %s\n", lastCleared(rec.History, e.Today()))
	ctx.printf("Quests   %d/%d done, reset in %s\n",
		rec.CompletedCount(), len(rec.DailyQuests), utils.FormatCountdown(utils.UntilMidnight(now)))
	ctx.printf("Badges   %d/%d\n", len(rec.EarnedAchievements), len(catalog.Achievements()))
	ctx.println()
	ctx.printf("%q\n", catalog.QuoteFor(now.Weekday()))
	if sess.ReadOnly {
		ctx.println("\n(read-only: another arise process holds the data directory)")
	}
	return nil
}

// lastCleared describes the most recent fully cleared day relative to today.
func lastCleared(history []models.HistoryEntry, today string) string {
	latest := ""
	for _, h := range history {
		if h.Date > latest {
			latest = h.Date
		}
	}
	if latest == "" {
		return "never"
	}
	n, err := utils.DaysBetween(latest, today)
	switch {
	case err != nil:
		return latest
	case n <= 0:
		return "today"
	case n == 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", n)
	}
}

// bar renders cur/total as a fixed-width text gauge.
func bar(cur, total, width int) string {
	filled := 0
	if total > 0 {
		filled = cur * width / total
	}
	filled = max(0, min(width, filled))
	return fmt.Sprintf("[%s%s]", strings.Repeat("█", filled), strings.Repeat("░", width-filled))
}
