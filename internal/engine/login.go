package engine

import "github.com/julianstephens/arise/internal/catalog"

// ClaimLoginBonus awards the daily login bonus if it has not been claimed
// today. The claim date lives under its own storage key.
func (e *Engine) ClaimLoginBonus() (Gain, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs errorOnce
	errs.add(e.ensureLoaded())
	if e.lastLogin == nil {
		day, err := e.store.LastLoginDate()
		if err != nil {
			errs.add(e.storageFailed(err))
		}
		e.lastLogin = &day
	}

	today := e.Today()
	if *e.lastLogin == today {
		return Gain{}, errs.err
	}
	*e.lastLogin = today
	if !e.memoryOnly {
		if err := e.store.SetLastLoginDate(today); err != nil {
			errs.add(e.storageFailed(err))
		}
	}

	g := Gain{Applied: true, Amount: catalog.DailyLoginBonusXP}
	g.LevelUps, g.Achievements = e.addExperience(g.Amount)
	errs.add(e.persist())

	e.logger.Info("Login bonus claimed", "xp", g.Amount)
	return g, errs.err
}
