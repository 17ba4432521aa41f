package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
)

// shortIDLen is how much of a quest id the listing shows.
const shortIDLen = 8

type QuestsCmd struct{}

func (c *QuestsCmd) Run(ctx *Context) error {
	sess, err := ctx.StartSession(true)
	if err != nil {
		return err
	}
	defer ctx.Close()

	rec := sess.Engine.Snapshot()
	ctx.printf("Daily quests for %s (%d/%d done)\n\n", sess.Activation.Today, rec.CompletedCount(), len(rec.DailyQuests))
	printQuests(ctx, rec.DailyQuests)
	if rec.AllQuestsCompleted() {
		ctx.println("\nAll quests cleared. Rest up, Hunter.")
	}
	return nil
}

func printQuests(ctx *Context, quests []models.Quest) {
	if len(quests) == 0 {
		ctx.println("No quests.")
		return
	}
	for i, q := range quests {
		check := " "
		if q.Completed {
			check = "✓"
		}
		tier := catalog.Tier(q.DifficultyTier)
		ctx.printf("  %d. [%s] %-8s %-16s %4d %-4s  +%d XP  %s\n",
			i+1, check, tier.Label, q.Name, q.TargetValue, q.Unit, q.ExperienceReward, shortID(q.ID))
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// resolveQuest accepts a 1-based index, a full id or a unique id prefix. A
// short number is an index when it is in range and an id prefix otherwise.
func resolveQuest(quests []models.Quest, ref string) (models.Quest, error) {
	ref = strings.TrimSpace(ref)
	n, err := strconv.Atoi(ref)
	isIndex := err == nil && len(ref) <= 2
	if isIndex && n >= 1 && n <= len(quests) {
		return quests[n-1], nil
	}

	var matches []models.Quest
	for _, q := range quests {
		if q.ID == ref {
			return q, nil
		}
		if ref != "" && strings.HasPrefix(q.ID, ref) {
			matches = append(matches, q)
		}
	}
	switch len(matches) {
	case 0:
		if isIndex {
			return models.Quest{}, fmt.Errorf("no quest #%d (have %d)", n, len(quests))
		}
		return models.Quest{}, fmt.Errorf("no quest matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Quest{}, fmt.Errorf("quest id %q is ambiguous", ref)
	}
}

type CompleteCmd struct {
	Quest string `arg:"" help:"Quest number from 'arise quests', or its id or a unique id prefix. Numbers 1-4 always pick by position."`
}

func (c *CompleteCmd) Run(ctx *Context) error {
	sess, err := ctx.StartSession(false)
	if err != nil {
		return err
	}
	defer ctx.Close()

	q, err := resolveQuest(sess.Engine.Snapshot().DailyQuests, c.Quest)
	if err != nil {
		return err
	}

	res, err := sess.Engine.CompleteQuest(q.ID)
	if err != nil {
		ctx.warn(err)
	}
	if !res.Applied {
		ctx.printf("%s is already complete.\n", q.Name)
		return nil
	}

	ctx.printf("✓ %s complete: +%d XP\n", res.Quest.Name, res.ExperienceAwarded)
	if res.StreakBonus > 0 {
		ctx.printf("🔥 Includes streak bonus of %d XP\n", res.StreakBonus)
	}
	if res.AllCleared {
		ctx.println("🎉 All daily quests cleared!")
		if res.StreakStarted {
			ctx.println("🔥 Streak started: 1 day")
		}
	}
	ctx.printLevelUps(res.LevelUps)
	ctx.printAchievements(res.Achievements)
	return nil
}
