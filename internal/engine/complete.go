package engine

import "github.com/julianstephens/arise/internal/catalog"

// BeginCompletion validates a completion request without changing anything.
// ok is false when the quest is unknown or already done. The returned
// PendingCompletion is applied later with ApplyCompletion.
func (e *Engine) BeginCompletion(questID string) (PendingCompletion, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoaded(); err != nil {
		e.logger.Debug("Continuing without storage", "error", err)
	}

	i := e.rec.FindQuest(questID)
	if i < 0 || e.rec.DailyQuests[i].Completed {
		return PendingCompletion{}, false
	}
	return PendingCompletion{QuestID: questID, Quest: e.rec.DailyQuests[i]}, true
}

// ApplyCompletion performs a completion accepted by BeginCompletion. The quest
// is looked up again, so a pending completion that lost a race with another
// one, or whose day rolled over, applies nothing.
func (e *Engine) ApplyCompletion(p PendingCompletion) (Completion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.completeQuest(p.QuestID)
}

// CompleteQuest completes a quest immediately. Unknown and already completed
// ids are ignored.
func (e *Engine) CompleteQuest(questID string) (Completion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var errs errorOnce
	errs.add(e.ensureLoaded())
	c, err := e.completeQuest(questID)
	errs.add(err)
	return c, errs.err
}

func (e *Engine) completeQuest(questID string) (Completion, error) {
	i := e.rec.FindQuest(questID)
	if i < 0 || e.rec.DailyQuests[i].Completed {
		return Completion{}, nil
	}

	q := &e.rec.DailyQuests[i]
	q.Completed = true

	c := Completion{Applied: true, Quest: *q}
	if e.rec.Streak > 0 {
		c.StreakBonus = catalog.StreakBonusXP
	}
	c.ExperienceAwarded = q.ExperienceReward + c.StreakBonus
	e.rec.Fatigue = min(max(e.rec.Fatigue+q.FatigueDelta, 0), catalog.MaxFatigue)

	if e.rec.AllQuestsCompleted() {
		c.AllCleared = true
		e.recordClear(&c)
	}

	e.rec.Experience += c.ExperienceAwarded
	c.LevelUps = e.applyLeveling()
	c.Achievements = e.evaluateAchievements()

	e.logger.Info("Quest completed", "quest", q.ExerciseType, "tier", q.DifficultyTier, "xp", c.ExperienceAwarded)
	return c, e.persist()
}

// recordClear writes today's history entry once and starts a streak that is
// still at zero.
func (e *Engine) recordClear(c *Completion) {
	today := e.Today()
	if !e.rec.HasHistory(today) {
		e.rec.History = append(e.rec.History, historyEntry(today, len(e.rec.DailyQuests)))
	}
	if e.rec.Streak == 0 {
		e.rec.Streak = 1
		e.rec.BestStreak = max(e.rec.BestStreak, 1)
		c.StreakStarted = true
	}
}
