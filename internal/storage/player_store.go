package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/constants"
	"github.com/julianstephens/arise/internal/logger"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/utils"
)

// corruptKey holds the raw bytes of a player record that could not be parsed.
const corruptKey = constants.KeyPlayer + ".corrupt"

// unparsedResetDate stands in for a stored reset date that was set but is not
// a recognizable day. It is never today, so the next rollover still runs.
const unparsedResetDate = "0001-01-01"

// PlayerStore reads and writes the player record and the small auxiliary
// keys on top of a Provider.
type PlayerStore struct {
	provider Provider
}

func NewPlayerStore(p Provider) *PlayerStore {
	return &PlayerStore{provider: p}
}

func (s *PlayerStore) Provider() Provider {
	return s.provider
}

// Load returns the stored record merged onto defaults. When no record exists
// the default one is persisted and returned. A returned error wrapping
// ErrStorageUnavailable comes with a usable record.
func (s *PlayerStore) Load() (models.PlayerRecord, error) {
	raw, err := s.provider.Get(constants.KeyPlayer)
	if err != nil {
		rec := catalog.NewRecord()
		if !errors.Is(err, ErrNotFound) {
			return rec, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		if err := s.Save(rec); err != nil {
			return rec, err
		}
		return rec, nil
	}

	rec, err := DecodeRecord(raw)
	if err != nil {
		logger.Warn("Player record is unreadable, starting fresh", "error", err)
		if setErr := s.provider.Set(corruptKey, raw); setErr != nil {
			return rec, fmt.Errorf("%w: %v", ErrStorageUnavailable, setErr)
		}
	}
	return rec, nil
}

// Save writes rec through to the provider.
func (s *PlayerStore) Save(rec models.PlayerRecord) error {
	rec.Version = models.CurrentVersion
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode player record: %w", err)
	}
	if err := s.provider.Set(constants.KeyPlayer, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// LastLoginDate returns the day the login bonus was last claimed, or "".
func (s *PlayerStore) LastLoginDate() (string, error) {
	v, err := s.provider.Get(constants.KeyLastLoginDate)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	day, err := utils.NormalizeDay(v)
	if err != nil {
		return "", nil
	}
	return day, nil
}

func (s *PlayerStore) SetLastLoginDate(day string) error {
	if err := s.provider.Set(constants.KeyLastLoginDate, day); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Settings returns the saved settings merged onto the defaults.
func (s *PlayerStore) Settings() (models.Settings, error) {
	settings := models.DefaultSettings()
	v, err := s.provider.Get(constants.KeySettings)
	if errors.Is(err, ErrNotFound) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := json.Unmarshal([]byte(v), &settings); err != nil {
		logger.Warn("Settings are unreadable, using defaults", "error", err)
		return models.DefaultSettings(), nil
	}
	if strings.TrimSpace(settings.Timezone) == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	return settings, nil
}

func (s *PlayerStore) SaveSettings(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.provider.Set(constants.KeySettings, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// DecodeRecord merges raw JSON onto a default record and normalizes the
// result. Unknown fields are ignored and fields of the wrong type keep their
// defaults. A non-nil error means raw was not JSON at all; the default record
// is returned with it.
func DecodeRecord(raw string) (models.PlayerRecord, error) {
	rec, err := decodeMerged(raw)
	if err != nil {
		return rec, err
	}
	return Normalize(rec), nil
}

func decodeMerged(raw string) (models.PlayerRecord, error) {
	rec := catalog.NewRecord()
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return catalog.NewRecord(), fmt.Errorf("failed to parse player record: %w", err)
		}
		logger.Warn("Player record has mistyped fields, keeping defaults for them", "field", typeErr.Field)
	}
	return rec, nil
}

// LoadRaw returns the stored record merged onto defaults but not normalized,
// so problems in it can be inspected. found is false when nothing is stored.
func (s *PlayerStore) LoadRaw() (rec models.PlayerRecord, found bool, err error) {
	raw, err := s.provider.Get(constants.KeyPlayer)
	if errors.Is(err, ErrNotFound) {
		return catalog.NewRecord(), false, nil
	}
	if err != nil {
		return catalog.NewRecord(), false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	rec, err = decodeMerged(raw)
	return rec, true, err
}

// Normalize repairs a decoded record so every invariant the engine relies on
// holds before the first operation runs.
func Normalize(rec models.PlayerRecord) models.PlayerRecord {
	rec = rec.Clone()
	rec.Version = models.CurrentVersion

	rec.Name = strings.TrimSpace(rec.Name)
	if rec.Name == "" {
		rec.Name = "Hunter"
	}
	if rec.Level < 1 {
		rec.Level = 1
	}
	if rec.Experience < 0 {
		rec.Experience = 0
	}
	rec.Fatigue = clamp(rec.Fatigue, 0, catalog.MaxFatigue)
	if rec.Streak < 0 {
		rec.Streak = 0
	}
	if rec.BestStreak < rec.Streak {
		rec.BestStreak = rec.Streak
	}

	if rec.LastResetDate != "" {
		day, err := utils.NormalizeDay(rec.LastResetDate)
		if err != nil {
			day = unparsedResetDate
		}
		rec.LastResetDate = day
	}

	rec.DailyQuests = normalizeQuests(rec.DailyQuests)
	rec.History = normalizeHistory(rec.History)
	rec.EarnedAchievements = dedupe(rec.EarnedAchievements)
	return rec
}

func normalizeQuests(quests []models.Quest) []models.Quest {
	if len(quests) != catalog.QuestsPerDay {
		return []models.Quest{}
	}
	seen := make(map[string]bool, len(quests))
	for i := range quests {
		q := &quests[i]
		if q.ID == "" || seen[q.ID] {
			return []models.Quest{}
		}
		seen[q.ID] = true
		if !q.DifficultyTier.IsValid() {
			q.DifficultyTier = models.TierNormal
		}
		if ex, ok := catalog.Exercise(q.ExerciseType); ok {
			if q.Name == "" {
				q.Name = ex.Name
			}
			if q.Unit == "" {
				q.Unit = ex.Unit
			}
			if q.StatBonus == "" {
				q.StatBonus = ex.StatBonus
			}
		}
	}
	return quests
}

func normalizeHistory(history []models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(history))
	seen := make(map[string]bool, len(history))
	for _, h := range history {
		day, err := utils.NormalizeDay(h.Date)
		if err != nil || seen[day] {
			continue
		}
		seen[day] = true
		h.Date = day
		if h.QuestsDone <= 0 {
			h.QuestsDone = catalog.QuestsPerDay
		}
		out = append(out, h)
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
