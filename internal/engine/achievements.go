package engine

import "github.com/julianstephens/arise/internal/catalog"

// evaluateAchievements earns every achievement whose check now passes and
// returns them in catalog order. Earned achievements are never removed.
func (e *Engine) evaluateAchievements() []catalog.Achievement {
	var unlocked []catalog.Achievement
	rec := e.rec.Clone()
	for _, a := range catalog.Achievements() {
		if e.rec.HasAchievement(a.ID) {
			continue
		}
		if a.Check(rec) {
			unlocked = append(unlocked, a)
		}
	}
	for _, a := range unlocked {
		e.rec.EarnedAchievements = append(e.rec.EarnedAchievements, a.ID)
		e.logger.Info("Achievement unlocked", "id", a.ID)
	}
	return unlocked
}
