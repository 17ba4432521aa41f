package engine

import (
	"math"

	"github.com/julianstephens/arise/internal/catalog"
)

// applyLeveling converts surplus experience into levels, one LevelUp per
// level gained in ascending order.
func (e *Engine) applyLeveling() []LevelUp {
	var ups []LevelUp
	for e.rec.Experience >= catalog.ExperienceToNext(e.rec.Level) {
		e.rec.Experience -= catalog.ExperienceToNext(e.rec.Level)
		oldRank := catalog.RankFor(e.rec.Level)
		before := e.rec.Stats

		e.rec.Level++
		e.rec.Stats = e.rec.Stats.Add(catalog.StatIncreasePerLevel)

		rank := catalog.RankFor(e.rec.Level)
		ups = append(ups, LevelUp{
			Level:  e.rec.Level,
			Before: before,
			After:  e.rec.Stats,
			RankUp: rank.Name != oldRank.Name,
			Rank:   rank,
		})
	}
	if len(ups) > 0 {
		e.logger.Info("Leveled up", "level", e.rec.Level, "levels", len(ups))
	}
	return ups
}

// addExperience awards n experience and runs leveling and achievements.
// The total saturates at math.MaxInt.
func (e *Engine) addExperience(n int) ([]LevelUp, []catalog.Achievement) {
	e.rec.Experience += min(n, math.MaxInt-e.rec.Experience)
	ups := e.applyLeveling()
	return ups, e.evaluateAchievements()
}
