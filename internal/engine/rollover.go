package engine

import (
	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/utils"
)

// Rollover starts a new calendar day if the last reset happened on another
// day. Calling it again on the same day changes nothing.
func (e *Engine) Rollover() (RolloverResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var errs errorOnce
	errs.add(e.ensureLoaded())
	res, err := e.rollover(e.Today())
	errs.add(err)
	return res, errs.err
}

func (e *Engine) rollover(today string) (RolloverResult, error) {
	res := RolloverResult{
		PreviousStreak: e.rec.Streak,
		Streak:         e.rec.Streak,
	}
	if e.rec.LastResetDate == today {
		return res, nil
	}

	res.RolledOver = true
	if e.rec.LastResetDate == "" {
		res.FirstRun = true
	} else {
		// History is the ledger of cleared days, so the streak survives any
		// number of missed activations as long as yesterday was cleared.
		yesterday, err := utils.AddDays(today, -1)
		if err == nil && e.rec.HasHistory(yesterday) {
			e.rec.Streak++
		} else {
			e.rec.Streak = 0
		}
		e.rec.BestStreak = max(e.rec.BestStreak, e.rec.Streak)
	}
	res.Streak = e.rec.Streak

	e.rec.DailyQuests = []models.Quest{}
	e.rec.LastResetDate = today

	before := e.rec.Fatigue
	e.rec.Fatigue = max(0, e.rec.Fatigue-catalog.FatigueRecoveryPerDay)
	res.FatigueRecovered = before - e.rec.Fatigue

	e.logger.Info("Day rolled over", "today", today, "streak", res.Streak, "previous", res.PreviousStreak)
	return res, e.persist()
}

// Activate runs a rollover, generates today's quests when none exist and
// evaluates achievements. It is what every session does first.
func (e *Engine) Activate() (Activation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs errorOnce
	errs.add(e.ensureLoaded())

	today := e.Today()
	act := Activation{Today: today}

	res, err := e.rollover(today)
	errs.add(err)
	act.Rollover = res

	generated, err := e.generateQuests()
	errs.add(err)
	act.QuestsGenerated = generated

	// A record loaded with more experience than its level allows is settled here.
	act.LevelUps = e.applyLeveling()
	act.Achievements = e.evaluateAchievements()
	if len(act.LevelUps) > 0 || len(act.Achievements) > 0 {
		errs.add(e.persist())
	}

	return act, errs.err
}

// errorOnce keeps the first non-nil error.
type errorOnce struct{ err error }

func (o *errorOnce) add(err error) {
	if o.err == nil {
		o.err = err
	}
}
