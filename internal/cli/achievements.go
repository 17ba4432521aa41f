package cli

import (
	"github.com/julianstephens/arise/internal/catalog"
)

type AchievementsCmd struct {
	Earned bool `help:"Only show earned achievements."`
}

func (c *AchievementsCmd) Run(ctx *Context) error {
	sess, err := ctx.StartSession(true)
	if err != nil {
		return err
	}
	defer ctx.Close()

	rec := sess.Engine.Snapshot()
	all := catalog.Achievements()
	ctx.printf("Achievements: %d/%d earned\n\n", len(rec.EarnedAchievements), len(all))

	for _, a := range catalog.SortForDisplay(all, rec.HasAchievement) {
		earned := rec.HasAchievement(a.ID)
		if c.Earned && !earned {
			continue
		}
		icon := "🔒"
		if earned {
			icon = a.Icon
		}
		ctx.printf("  %s %-20s %-10s %s\n", icon, a.Name, a.Rarity, a.Description)
	}
	return nil
}
