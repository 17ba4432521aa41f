package engine

import (
	"math"

	"github.com/julianstephens/arise/internal/utils"
)

// ForceNewDay makes the next rollover treat today as a new day and activates.
// Streak rules apply as usual: today's rollover looks at yesterday's history.
func (e *Engine) ForceNewDay() (Activation, error) {
	e.mu.Lock()
	loadErr := e.ensureLoaded()
	yesterday, err := utils.AddDays(e.Today(), -1)
	if err == nil {
		e.rec.LastResetDate = yesterday
	}
	e.logger.Warn("Forcing a new day")
	e.mu.Unlock()

	act, err := e.Activate()
	if loadErr != nil {
		err = loadErr
	}
	return act, err
}

// AddExperience awards n experience directly. Non-positive amounts are ignored.
func (e *Engine) AddExperience(n int) (Gain, error) {
	if n <= 0 {
		return Gain{}, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var errs errorOnce
	errs.add(e.ensureLoaded())
	n = min(n, math.MaxInt-e.rec.Experience)
	g := Gain{Applied: true, Amount: n}
	g.LevelUps, g.Achievements = e.addExperience(n)
	errs.add(e.persist())
	return g, errs.err
}
