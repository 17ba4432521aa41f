// Package catalog holds the static game data: the experience curve, the rank
// ladder, difficulty tiers, exercise types and achievements. Nothing in here
// keeps state.
package catalog

import (
	"math"

	"github.com/julianstephens/arise/internal/models"
)

const (
	// ExperienceBase and ExperienceGrowth define ExperienceToNext: floor(base * growth^(level-1)).
	ExperienceBase   = 100.0
	ExperienceGrowth = 1.15

	BaseStat             = 10
	StatIncreasePerLevel = 2

	MaxFatigue            = 100
	FatigueRecoveryPerDay = 30

	StreakBonusXP     = 15
	DailyLoginBonusXP = 50

	QuestsPerDay = 4

	// Tenths of base difficulty added to a quest target per level above 1.
	targetScaleTenthsPerLevel = 1

	// experienceCap bounds the curve well below int overflow.
	experienceCap = 1 << 62
)

// TierPattern is the fixed tier assignment for a day's quests, in generation order.
var TierPattern = [QuestsPerDay]models.Tier{
	models.TierNormal,
	models.TierNormal,
	models.TierHard,
	models.TierExtreme,
}

// ExperienceToNext returns the experience needed to advance from level to level+1.
// Levels below 1 are treated as 1.
func ExperienceToNext(level int) int {
	if level < 1 {
		level = 1
	}
	v := ExperienceBase * math.Pow(ExperienceGrowth, float64(level-1))
	// 100 * 1.15 is 114.99999999999999 in binary floating point; the epsilon
	// keeps exact products on the right side of the floor.
	v = math.Floor(v + 1e-9)
	if v >= experienceCap {
		return experienceCap
	}
	return int(v)
}

// TotalExperienceFor returns the cumulative experience needed to reach level from level 1.
func TotalExperienceFor(level int) int {
	total := 0
	for l := 1; l < level; l++ {
		total += ExperienceToNext(l)
	}
	return total
}

// Rank is a coarse title derived from level.
type Rank struct {
	Name     string
	MinLevel int
	Color    string
}

var ranks = []Rank{
	{Name: "E", MinLevel: 1, Color: "#ff6b00"},
	{Name: "D", MinLevel: 10, Color: "#ffa500"},
	{Name: "C", MinLevel: 25, Color: "#ffdd00"},
	{Name: "B", MinLevel: 45, Color: "#00ff00"},
	{Name: "A", MinLevel: 70, Color: "#00d4ff"},
	{Name: "S", MinLevel: 100, Color: "#ff00ff"},
}

// Ranks returns the rank ladder ordered by MinLevel ascending.
func Ranks() []Rank {
	return append([]Rank(nil), ranks...)
}

// RankFor returns the highest rank whose MinLevel is <= level.
func RankFor(level int) Rank {
	for i := len(ranks) - 1; i >= 0; i-- {
		if level >= ranks[i].MinLevel {
			return ranks[i]
		}
	}
	return ranks[0]
}

// TierInfo is display metadata for a difficulty tier.
type TierInfo struct {
	Tier       models.Tier
	Label      string
	Color      string
	Icon       string
	Multiplier float64
	// multiplierTenths keeps reward math in integers.
	multiplierTenths int
}

var tiers = map[models.Tier]TierInfo{
	models.TierNormal:  {Tier: models.TierNormal, Label: "NORMAL", Color: "#00d4ff", Icon: "⚔️", Multiplier: 1.0, multiplierTenths: 10},
	models.TierHard:    {Tier: models.TierHard, Label: "HARD", Color: "#8b5cf6", Icon: "⚡", Multiplier: 1.5, multiplierTenths: 15},
	models.TierExtreme: {Tier: models.TierExtreme, Label: "EXTREME", Color: "#fbbf24", Icon: "💀", Multiplier: 2.0, multiplierTenths: 20},
}

// Tier returns display metadata for t; unknown tiers fall back to normal.
func Tier(t models.Tier) TierInfo {
	if info, ok := tiers[t]; ok {
		return info
	}
	return tiers[models.TierNormal]
}

// TierMultiplier returns the reward multiplier for t.
func TierMultiplier(t models.Tier) float64 {
	return Tier(t).Multiplier
}

// ScaledReward returns floor(baseReward * TierMultiplier(t)).
func ScaledReward(baseReward int, t models.Tier) int {
	return baseReward * Tier(t).multiplierTenths / 10
}

// ScaledTarget returns floor(baseDifficulty * (1 + (level-1)*0.1)).
func ScaledTarget(baseDifficulty, level int) int {
	if level < 1 {
		level = 1
	}
	return baseDifficulty * (10 + (level-1)*targetScaleTenthsPerLevel) / 10
}

// NewRecord returns the record a first run starts from.
func NewRecord() models.PlayerRecord {
	return models.PlayerRecord{
		Version: models.CurrentVersion,
		Name:    "Hunter",
		Level:   1,
		Stats: models.Stats{
			Strength:  BaseStat,
			Endurance: BaseStat,
			Agility:   BaseStat,
			Vitality:  BaseStat,
		},
		DailyQuests:        []models.Quest{},
		History:            []models.HistoryEntry{},
		EarnedAchievements: []string{},
	}
}
