package catalog

import (
	"sort"

	"github.com/julianstephens/arise/internal/models"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Achievement is an unlockable badge. Check must be pure and must not look at
// EarnedAchievements.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Rarity      Rarity
	Check       func(models.PlayerRecord) bool
}

func historyAtLeast(n int) func(models.PlayerRecord) bool {
	return func(p models.PlayerRecord) bool { return len(p.History) >= n }
}

func streakAtLeast(n int) func(models.PlayerRecord) bool {
	return func(p models.PlayerRecord) bool { return p.Streak >= n }
}

func levelAtLeast(n int) func(models.PlayerRecord) bool {
	return func(p models.PlayerRecord) bool { return p.Level >= n }
}

var achievements = []Achievement{
	// First steps
	{ID: "first_quest", Name: "First Step", Description: "Complete your very first quest.", Icon: "👣", Rarity: RarityCommon, Check: historyAtLeast(1)},
	{ID: "first_day_clear", Name: "Day One", Description: "Clear all 4 quests in a single day.", Icon: "🗓️", Rarity: RarityCommon,
		Check: func(p models.PlayerRecord) bool {
			return len(p.DailyQuests) == QuestsPerDay && p.AllQuestsCompleted()
		}},

	// Streaks
	{ID: "streak_3", Name: "Hat Trick", Description: "Reach a 3-day streak.", Icon: "🔥", Rarity: RarityCommon, Check: streakAtLeast(3)},
	{ID: "streak_7", Name: "Week Warrior", Description: "Reach a 7-day streak.", Icon: "⚡", Rarity: RarityRare, Check: streakAtLeast(7)},
	{ID: "streak_14", Name: "Fortnight Fighter", Description: "Reach a 14-day streak.", Icon: "🌟", Rarity: RarityRare, Check: streakAtLeast(14)},
	{ID: "streak_30", Name: "Iron Will", Description: "Reach a 30-day streak.", Icon: "💎", Rarity: RarityLegendary, Check: streakAtLeast(30)},

	// Levels
	{ID: "level_5", Name: "Rising", Description: "Reach level 5.", Icon: "📈", Rarity: RarityCommon, Check: levelAtLeast(5)},
	{ID: "level_10", Name: "Rank D Unlocked", Description: "Reach level 10.", Icon: "🥉", Rarity: RarityCommon, Check: levelAtLeast(10)},
	{ID: "level_25", Name: "Rank C Unlocked", Description: "Reach level 25.", Icon: "🥈", Rarity: RarityRare, Check: levelAtLeast(25)},
	{ID: "level_50", Name: "Halfway Legend", Description: "Reach level 50.", Icon: "🏅", Rarity: RarityEpic, Check: levelAtLeast(50)},
	{ID: "level_100", Name: "Rank S Unlocked", Description: "Reach the legendary level 100.", Icon: "👑", Rarity: RarityLegendary, Check: levelAtLeast(100)},

	// Cleared days
	{ID: "quests_10", Name: "Warm Up", Description: "Complete 10 total quests.", Icon: "💪", Rarity: RarityCommon, Check: historyAtLeast(10)},
	{ID: "quests_50", Name: "Grinder", Description: "Complete 50 total quests.", Icon: "⚙️", Rarity: RarityRare, Check: historyAtLeast(50)},
	{ID: "quests_100", Name: "Century", Description: "Complete 100 total quests.", Icon: "🎯", Rarity: RarityEpic, Check: historyAtLeast(100)},

	// Stat milestones
	{ID: "stat_str_30", Name: "Strong Arms", Description: "Raise STR to 30.", Icon: "💪", Rarity: RarityRare,
		Check: func(p models.PlayerRecord) bool { return p.Stats.Strength >= 30 }},
	{ID: "stat_agi_30", Name: "Quick Feet", Description: "Raise AGI to 30.", Icon: "🏃", Rarity: RarityRare,
		Check: func(p models.PlayerRecord) bool { return p.Stats.Agility >= 30 }},

	{ID: "best_streak_7", Name: "Streak Master", Description: "Have a best-ever streak of 7 days.", Icon: "🔥", Rarity: RarityEpic,
		Check: func(p models.PlayerRecord) bool { return p.BestStreak >= 7 }},
}

// Achievements returns every achievement in evaluation order.
func Achievements() []Achievement {
	return append([]Achievement(nil), achievements...)
}

// AchievementByID looks up an achievement.
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// SortForDisplay orders achievements earned-first, keeping catalog order within each group.
func SortForDisplay(list []Achievement, earned func(id string) bool) []Achievement {
	out := append([]Achievement(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return earned(out[i].ID) && !earned(out[j].ID)
	})
	return out
}
