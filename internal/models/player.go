package models

import "slices"

// CurrentVersion is the schema version written with every saved record.
const CurrentVersion = 2

type Tier string

const (
	TierNormal  Tier = "normal"
	TierHard    Tier = "hard"
	TierExtreme Tier = "extreme"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierNormal, TierHard, TierExtreme:
		return true
	default:
		return false
	}
}

// Stats are the four attribute counters raised on every level-up.
type Stats struct {
	Strength  int `json:"str"`
	Endurance int `json:"end"`
	Agility   int `json:"agi"`
	Vitality  int `json:"vit"`
}

// Add returns s with delta added to every attribute.
func (s Stats) Add(delta int) Stats {
	return Stats{
		Strength:  s.Strength + delta,
		Endurance: s.Endurance + delta,
		Agility:   s.Agility + delta,
		Vitality:  s.Vitality + delta,
	}
}

// Quest is one exercise task for the current day.
type Quest struct {
	ID               string `json:"id"`
	ExerciseType     string `json:"type"`
	Name             string `json:"name,omitempty"`
	DifficultyTier   Tier   `json:"difficultyTier"`
	TargetValue      int    `json:"difficulty"`
	Unit             string `json:"unit,omitempty"`
	ExperienceReward int    `json:"xpReward"`
	FatigueDelta     int    `json:"fatigueRegen"`
	StatBonus        string `json:"statBonus,omitempty"`
	Completed        bool   `json:"completed"`
}

// HistoryEntry records a fully cleared day.
type HistoryEntry struct {
	Date       string `json:"date"` // YYYY-MM-DD format
	QuestsDone int    `json:"questsDone"`
}

// PlayerRecord is the single persisted entity.
type PlayerRecord struct {
	Version            int            `json:"version"`
	Name               string         `json:"name"`
	Level              int            `json:"level"`
	Experience         int            `json:"xp"`
	Stats              Stats          `json:"stats"`
	Fatigue            int            `json:"fatigue"`
	DailyQuests        []Quest        `json:"dailyQuests"`
	LastResetDate      string         `json:"lastQuestReset"` // YYYY-MM-DD, empty before the first rollover
	Streak             int            `json:"streak"`
	BestStreak         int            `json:"bestStreak"`
	History            []HistoryEntry `json:"history"`
	EarnedAchievements []string       `json:"earnedAchievements"`
}

// HasHistory reports whether a cleared-day entry exists for date.
func (p PlayerRecord) HasHistory(date string) bool {
	for _, h := range p.History {
		if h.Date == date {
			return true
		}
	}
	return false
}

// HasAchievement reports whether id was already earned.
func (p PlayerRecord) HasAchievement(id string) bool {
	for _, a := range p.EarnedAchievements {
		if a == id {
			return true
		}
	}
	return false
}

// AllQuestsCompleted reports whether a full batch exists and every quest in it is done.
func (p PlayerRecord) AllQuestsCompleted() bool {
	if len(p.DailyQuests) == 0 {
		return false
	}
	for _, q := range p.DailyQuests {
		if !q.Completed {
			return false
		}
	}
	return true
}

// CompletedCount returns how many of today's quests are done.
func (p PlayerRecord) CompletedCount() int {
	n := 0
	for _, q := range p.DailyQuests {
		if q.Completed {
			n++
		}
	}
	return n
}

// FindQuest returns the index of the quest with the given id, or -1.
func (p PlayerRecord) FindQuest(id string) int {
	for i, q := range p.DailyQuests {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can't alias the engine's slices.
func (p PlayerRecord) Clone() PlayerRecord {
	c := p
	c.DailyQuests = slices.Clone(p.DailyQuests)
	c.History = slices.Clone(p.History)
	c.EarnedAchievements = slices.Clone(p.EarnedAchievements)
	return c
}
