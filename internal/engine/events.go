package engine

import (
	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
)

// LevelUp describes one level gained.
type LevelUp struct {
	Level  int
	Before models.Stats
	After  models.Stats
	RankUp bool
	Rank   catalog.Rank
}

// RolloverResult describes what a day rollover changed.
type RolloverResult struct {
	RolledOver       bool
	FirstRun         bool
	PreviousStreak   int
	Streak           int
	FatigueRecovered int
}

// StreakChanged reports whether the rollover moved the streak.
func (r RolloverResult) StreakChanged() bool {
	return r.RolledOver && r.PreviousStreak != r.Streak
}

// StreakBroken reports whether a running streak was reset to zero.
func (r RolloverResult) StreakBroken() bool {
	return r.PreviousStreak > 0 && r.Streak == 0
}

// Activation is the result of opening the app for a session.
type Activation struct {
	Today           string
	Rollover        RolloverResult
	QuestsGenerated bool
	LevelUps        []LevelUp
	Achievements    []catalog.Achievement
}

// PendingCompletion is an accepted but not yet applied quest completion.
type PendingCompletion struct {
	QuestID string
	Quest   models.Quest
}

// Completion describes an applied quest completion. Applied is false when
// the quest was unknown or already completed.
type Completion struct {
	Applied           bool
	Quest             models.Quest
	ExperienceAwarded int
	StreakBonus       int
	AllCleared        bool
	StreakStarted     bool
	LevelUps          []LevelUp
	Achievements      []catalog.Achievement
}

// Gain is the result of an experience award outside quest completion.
type Gain struct {
	Applied      bool
	Amount       int
	LevelUps     []LevelUp
	Achievements []catalog.Achievement
}
