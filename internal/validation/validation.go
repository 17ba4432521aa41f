package validation

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidLevel          ConflictType = "invalid_level"
	ConflictExperienceOverflow    ConflictType = "experience_overflow"
	ConflictFatigueOutOfRange     ConflictType = "fatigue_out_of_range"
	ConflictInvalidStreak         ConflictType = "invalid_streak"
	ConflictInvalidBatchSize      ConflictType = "invalid_batch_size"
	ConflictDuplicateQuestID      ConflictType = "duplicate_quest_id"
	ConflictUnknownExercise       ConflictType = "unknown_exercise"
	ConflictInvalidTier           ConflictType = "invalid_tier"
	ConflictInvalidDate           ConflictType = "invalid_date"
	ConflictFutureDate            ConflictType = "future_date"
	ConflictDuplicateHistoryDate  ConflictType = "duplicate_history_date"
	ConflictUnknownAchievement    ConflictType = "unknown_achievement"
	ConflictDuplicateAchievement  ConflictType = "duplicate_achievement"
	ConflictInvalidName           ConflictType = "invalid_name"
	ConflictOutdatedRecordVersion ConflictType = "outdated_record_version"
)

// Conflict is one problem found in a player record.
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
	// Fixable conflicts are repaired by normalizing the record on load.
	Fixable bool
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction records a repair applied to a conflict.
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Fixable returns the conflicts that normalization repairs.
func (vr *ValidationResult) Fixable() []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Fixable {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		marker := " "
		if conflict.Fixable {
			marker = "*"
		}
		report += fmt.Sprintf("-%s %s\n", marker, conflict.Description)
	}
	return report
}

// Validator checks player records against the invariants the engine keeps.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateRecord checks a stored record. today bounds dates; pass "" to skip
// the future-date check.
func (v *Validator) ValidateRecord(rec models.PlayerRecord, today string) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	add := func(t ConflictType, fixable bool, date, format string, args ...any) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        t,
			Description: fmt.Sprintf(format, args...),
			Date:        date,
			Fixable:     fixable,
		})
	}

	if rec.Version < models.CurrentVersion {
		add(ConflictOutdatedRecordVersion, true, "", "Record version %d is older than %d", rec.Version, models.CurrentVersion)
	}

	// Profile
	if n := utf8.RuneCountInString(strings.TrimSpace(rec.Name)); n == 0 || n > 20 {
		add(ConflictInvalidName, n == 0, "", "Name %q must be 1-20 characters", rec.Name)
	}
	if rec.Level < 1 {
		add(ConflictInvalidLevel, true, "", "Level %d is below 1", rec.Level)
	} else if need := catalog.ExperienceToNext(rec.Level); rec.Experience >= need {
		add(ConflictExperienceOverflow, false, "", "Experience %d exceeds the %d needed for level %d (settled on next activation)", rec.Experience, need, rec.Level+1)
	}
	if rec.Experience < 0 {
		add(ConflictExperienceOverflow, true, "", "Experience %d is negative", rec.Experience)
	}
	if rec.Fatigue < 0 || rec.Fatigue > catalog.MaxFatigue {
		add(ConflictFatigueOutOfRange, true, "", "Fatigue %d is outside 0-%d", rec.Fatigue, catalog.MaxFatigue)
	}
	if rec.Streak < 0 || rec.BestStreak < rec.Streak {
		add(ConflictInvalidStreak, true, "", "Streak %d / best %d is inconsistent", rec.Streak, rec.BestStreak)
	}

	// Quests
	if n := len(rec.DailyQuests); n != 0 && n != catalog.QuestsPerDay {
		add(ConflictInvalidBatchSize, true, "", "Daily quest batch has %d quests, expected 0 or %d", n, catalog.QuestsPerDay)
	}
	seenIDs := make(map[string]bool)
	for _, q := range rec.DailyQuests {
		if seenIDs[q.ID] {
			add(ConflictDuplicateQuestID, true, "", "Quest id %q appears more than once", q.ID)
		}
		seenIDs[q.ID] = true
		if _, ok := catalog.Exercise(q.ExerciseType); !ok {
			add(ConflictUnknownExercise, false, "", "Quest %q has unknown exercise type %q", q.ID, q.ExerciseType)
		}
		if !q.DifficultyTier.IsValid() {
			add(ConflictInvalidTier, true, "", "Quest %q has invalid tier %q", q.ID, q.DifficultyTier)
		}
	}

	// Dates
	checkDate := func(label, d string) {
		if !utils.IsValidDate(d) {
			if _, err := utils.NormalizeDay(d); err == nil {
				add(ConflictInvalidDate, true, d, "%s %q uses the legacy date format", label, d)
			} else {
				add(ConflictInvalidDate, true, d, "%s %q is not a valid date", label, d)
			}
			return
		}
		if today != "" && d > today {
			add(ConflictFutureDate, false, d, "%s %s is in the future", label, d)
		}
	}
	if rec.LastResetDate != "" {
		checkDate("Last reset date", rec.LastResetDate)
	}

	counts := make(map[string]int)
	for _, h := range rec.History {
		checkDate("History date", h.Date)
		counts[h.Date]++
	}
	var dupDates []string
	for d, n := range counts {
		if n > 1 {
			dupDates = append(dupDates, d)
		}
	}
	sort.Strings(dupDates)
	for _, d := range dupDates {
		add(ConflictDuplicateHistoryDate, true, d, "History has %d entries for %s", counts[d], d)
	}

	// Achievements
	seenAch := make(map[string]bool)
	for _, id := range rec.EarnedAchievements {
		if seenAch[id] {
			add(ConflictDuplicateAchievement, true, "", "Achievement %q earned more than once", id)
		}
		seenAch[id] = true
		if _, ok := catalog.AchievementByID(id); !ok {
			add(ConflictUnknownAchievement, false, "", "Unknown achievement %q (kept)", id)
		}
	}

	return result
}

// AutoFix applies normalize to rec and reports one action per fixable
// conflict. save persists the repaired record.
func AutoFix(conflicts []Conflict, rec models.PlayerRecord, normalize func(models.PlayerRecord) models.PlayerRecord, save func(models.PlayerRecord) error) ([]FixAction, error) {
	var actions []FixAction
	for _, c := range conflicts {
		if !c.Fixable {
			continue
		}
		actions = append(actions, FixAction{
			Action:         "Repaired: " + c.Description,
			SourceConflict: c,
		})
	}
	if len(actions) == 0 {
		return nil, nil
	}
	if err := save(normalize(rec)); err != nil {
		return nil, fmt.Errorf("failed to save repaired record: %w", err)
	}
	return actions, nil
}
