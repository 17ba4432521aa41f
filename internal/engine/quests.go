package engine

import (
	"github.com/google/uuid"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
)

// GenerateQuests fills an empty quest list with today's batch. It reports
// whether a batch was generated.
func (e *Engine) GenerateQuests() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var errs errorOnce
	errs.add(e.ensureLoaded())
	ok, err := e.generateQuests()
	errs.add(err)
	return ok, errs.err
}

func (e *Engine) generateQuests() (bool, error) {
	if len(e.rec.DailyQuests) > 0 {
		return false, nil
	}

	types := e.pickExercises(catalog.QuestsPerDay)
	if len(types) == 0 {
		return false, nil
	}

	quests := make([]models.Quest, 0, len(types))
	for i, ex := range types {
		tier := catalog.TierPattern[i]
		quests = append(quests, models.Quest{
			ID:               uuid.NewString(),
			ExerciseType:     ex.ID,
			Name:             ex.Name,
			DifficultyTier:   tier,
			TargetValue:      catalog.ScaledTarget(ex.BaseDifficulty, e.rec.Level),
			Unit:             ex.Unit,
			ExperienceReward: catalog.ScaledReward(ex.BaseReward, tier),
			FatigueDelta:     ex.FatigueDelta,
			StatBonus:        ex.StatBonus,
		})
	}
	e.rec.DailyQuests = quests

	e.logger.Debug("Generated quests", "count", len(quests), "level", e.rec.Level)
	return true, e.persist()
}

// pickExercises samples n exercise types without repetition. When the
// catalog has fewer than n types the remainder repeats at random.
func (e *Engine) pickExercises(n int) []catalog.ExerciseType {
	all := e.exercises()
	if len(all) == 0 {
		return nil
	}
	picked := make([]catalog.ExerciseType, 0, n)
	for _, i := range e.rng.Perm(len(all)) {
		if len(picked) == n {
			break
		}
		picked = append(picked, all[i])
	}
	for len(picked) < n {
		picked = append(picked, all[e.rng.IntN(len(all))])
	}
	return picked
}
