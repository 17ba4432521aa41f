package engine

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/storage"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) nextDay(n int) { c.t = c.t.AddDate(0, 0, n) }

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s+" 09:30", time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// newTestEngine returns an engine over a memory store seeded with rec, if given.
func newTestEngine(t *testing.T, clock *fakeClock, rec *models.PlayerRecord) (*Engine, *storage.PlayerStore) {
	t.Helper()
	players := storage.NewPlayerStore(storage.NewMemoryStore())
	if rec != nil {
		if err := players.Save(*rec); err != nil {
			t.Fatalf("seeding store failed: %v", err)
		}
	}
	e := New(players,
		WithClock(clock.now),
		WithLocation(time.UTC),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	return e, players
}

func mustActivate(t *testing.T, e *Engine) Activation {
	t.Helper()
	act, err := e.Activate()
	if err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	return act
}

func completeAll(t *testing.T, e *Engine) []Completion {
	t.Helper()
	var out []Completion
	for _, q := range e.Snapshot().DailyQuests {
		c, err := e.CompleteQuest(q.ID)
		if err != nil {
			t.Fatalf("CompleteQuest failed: %v", err)
		}
		out = append(out, c)
	}
	return out
}

func TestFirstActivation(t *testing.T) {
	clock := &fakeClock{t: day("2024-05-01")}
	e, players := newTestEngine(t, clock, nil)

	act := mustActivate(t, e)
	if !act.Rollover.FirstRun || !act.QuestsGenerated {
		t.Errorf("expected first run with generated quests, got %+v", act)
	}
	if act.Rollover.StreakChanged() {
		t.Error("first run should not change the streak")
	}

	rec := e.Snapshot()
	if len(rec.DailyQuests) != catalog.QuestsPerDay {
		t.Fatalf("expected %d quests, got %d", catalog.QuestsPerDay, len(rec.DailyQuests))
	}
	wantTiers := []models.Tier{models.TierNormal, models.TierNormal, models.TierHard, models.TierExtreme}
	types := map[string]bool{}
	ids := map[string]bool{}
	for i, q := range rec.DailyQuests {
		if q.DifficultyTier != wantTiers[i] {
			t.Errorf("quest %d: expected tier %s, got %s", i, wantTiers[i], q.DifficultyTier)
		}
		if q.Completed {
			t.Errorf("quest %d should start incomplete", i)
		}
		ex, ok := catalog.Exercise(q.ExerciseType)
		if !ok {
			t.Fatalf("quest %d has unknown type %q", i, q.ExerciseType)
		}
		if q.TargetValue != ex.BaseDifficulty {
			t.Errorf("quest %d: expected level 1 target %d, got %d", i, ex.BaseDifficulty, q.TargetValue)
		}
		if q.ExperienceReward != catalog.ScaledReward(ex.BaseReward, q.DifficultyTier) {
			t.Errorf("quest %d: unexpected reward %d", i, q.ExperienceReward)
		}
		types[q.ExerciseType] = true
		ids[q.ID] = true
	}
	if len(types) != catalog.QuestsPerDay {
		t.Errorf("expected distinct exercise types, got %v", types)
	}
	if len(ids) != catalog.QuestsPerDay {
		t.Errorf("expected unique ids, got %v", ids)
	}
	if rec.Streak != 0 || rec.LastResetDate != "2024-05-01" {
		t.Errorf("unexpected streak %d or reset date %q", rec.Streak, rec.LastResetDate)
	}

	stored, err := players.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(stored, rec) {
		t.Errorf("stored record differs from engine state:\n%+v\n%+v", stored, rec)
	}
}

func TestRolloverIdempotent(t *testing.T) {
	clock := &fakeClock{t: day("2024-05-01")}
	e, _ := newTestEngine(t, clock, nil)
	mustActivate(t, e)

	before := e.Snapshot()
	res, err := e.Rollover()
	if err != nil {
		t.Fatalf("Rollover failed: %v", err)
	}
	if res.RolledOver {
		t.Error("second rollover on the same day should be a no-op")
	}

	act := mustActivate(t, e)
	if act.QuestsGenerated {
		t.Error("quests should not regenerate on the same day")
	}
	if after := e.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("state changed on repeated rollover:\n%+v\n%+v", before, after)
	}
}

func TestRolloverStreakFromHistory(t *testing.T) {
	tests := []struct {
		name       string
		history    []string
		streak     int
		best       int
		wantStreak int
		wantBest   int
	}{
		{"yesterday cleared", []string{"2024-05-01", "2024-05-02"}, 1, 1, 2, 2},
		{"yesterday missing", []string{"2024-04-30", "2024-05-01"}, 2, 5, 0, 5},
		{"no history", nil, 0, 0, 0, 0},
		{"best streak kept", []string{"2024-05-02"}, 3, 9, 4, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := catalog.NewRecord()
			rec.LastResetDate = "2024-05-02"
			rec.Streak = tt.streak
			rec.BestStreak = tt.best
			for _, d := range tt.history {
				rec.History = append(rec.History, models.HistoryEntry{Date: d, QuestsDone: 4})
			}

			clock := &fakeClock{t: day("2024-05-03")}
			e, _ := newTestEngine(t, clock, &rec)
			res, err := e.Rollover()
			if err != nil {
				t.Fatalf("Rollover failed: %v", err)
			}
			got := e.Snapshot()
			if got.Streak != tt.wantStreak || got.BestStreak != tt.wantBest {
				t.Errorf("expected streak %d/%d, got %d/%d", tt.wantStreak, tt.wantBest, got.Streak, got.BestStreak)
			}
			if res.Streak != tt.wantStreak || res.PreviousStreak != tt.streak {
				t.Errorf("unexpected result %+v", res)
			}
			if got.LastResetDate != "2024-05-03" {
				t.Errorf("expected reset date 2024-05-03, got %q", got.LastResetDate)
			}
		})
	}
}

func TestRolloverRecoversFatigue(t *testing.T) {
	tests := []struct {
		fatigue, want int
	}{
		{50, 20},
		{30, 0},
		{10, 0},
		{0, 0},
	}
	for _, tt := range tests {
		rec := catalog.NewRecord()
		rec.LastResetDate = "2024-05-01"
		rec.Fatigue = tt.fatigue

		clock := &fakeClock{t: day("2024-05-02")}
		e, _ := newTestEngine(t, clock, &rec)
		res, _ := e.Rollover()
		if got := e.Snapshot().Fatigue; got != tt.want {
			t.Errorf("fatigue %d: expected %d, got %d", tt.fatigue, tt.want, got)
		}
		if res.FatigueRecovered != tt.fatigue-tt.want {
			t.Errorf("fatigue %d: expected %d recovered, got %d", tt.fatigue, tt.fatigue-tt.want, res.FatigueRecovered)
		}
	}
}

func TestDayScenarios(t *testing.T) {
	clock := &fakeClock{t: day("2024-05-01")}
	e, _ := newTestEngine(t, clock, nil)
	mustActivate(t, e)

	// Day 1: clear everything
	results := completeAll(t, e)
	last := results[len(results)-1]
	if !last.AllCleared || !last.StreakStarted {
		t.Errorf("expected final completion to clear the day and start a streak, got %+v", last)
	}
	rec := e.Snapshot()
	if rec.Streak != 1 || rec.BestStreak != 1 {
		t.Errorf("expected streak 1, got %d (best %d)", rec.Streak, rec.BestStreak)
	}
	if len(rec.History) != 1 || rec.History[0].Date != "2024-05-01" || rec.History[0].QuestsDone != 4 {
		t.Errorf("expected one history entry for day 1, got %+v", rec.History)
	}
	day1IDs := map[string]bool{}
	for _, q := range rec.DailyQuests {
		day1IDs[q.ID] = true
	}

	// Day 2 skipped, day 3 breaks the streak
	clock.nextDay(2)
	act := mustActivate(t, e)
	if !act.Rollover.StreakBroken() {
		t.Errorf("expected a broken streak, got %+v", act.Rollover)
	}
	rec = e.Snapshot()
	if rec.Streak != 0 || rec.BestStreak != 1 {
		t.Errorf("expected streak 0 with best 1, got %d/%d", rec.Streak, rec.BestStreak)
	}
	if len(rec.DailyQuests) != catalog.QuestsPerDay || rec.CompletedCount() != 0 {
		t.Errorf("expected a fresh batch, got %+v", rec.DailyQuests)
	}
	for _, q := range rec.DailyQuests {
		if day1IDs[q.ID] {
			t.Errorf("quest id %s reused across batches", q.ID)
		}
	}
}

func TestConsecutiveDays(t *testing.T) {
	clock := &fakeClock{t: day("2024-05-01")}
	e, _ := newTestEngine(t, clock, nil)

	for i := 0; i < 3; i++ {
		mustActivate(t, e)
		completeAll(t, e)
		clock.nextDay(1)
	}
	act := mustActivate(t, e)

	rec := e.Snapshot()
	// Day one bootstraps to 1, each rollover after a cleared day adds one
	if rec.Streak != 4 || rec.BestStreak != 4 {
		t.Errorf("expected streak 4, got %d (best %d)", rec.Streak, rec.BestStreak)
	}
	if !act.Rollover.StreakChanged() {
		t.Error("expected the rollover to report a streak change")
	}
	if len(rec.History) != 3 {
		t.Errorf("expected 3 history entries, got %d", len(rec.History))
	}
	if !rec.HasAchievement("streak_3") {
		t.Error("expected streak_3 to be earned")
	}
}

func TestDeterministicGeneration(t *testing.T) {
	types := func() []string {
		clock := &fakeClock{t: day("2024-05-01")}
		e, _ := newTestEngine(t, clock, nil)
		mustActivate(t, e)
		var out []string
		for _, q := range e.Snapshot().DailyQuests {
			out = append(out, q.ExerciseType)
		}
		return out
	}
	a, b := types(), types()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different batches: %v vs %v", a, b)
	}
}

func TestQuestTargetsScaleWithLevel(t *testing.T) {
	rec := catalog.NewRecord()
	rec.Level = 11
	clock := &fakeClock{t: day("2024-05-01")}
	e, _ := newTestEngine(t, clock, &rec)
	mustActivate(t, e)

	for _, q := range e.Snapshot().DailyQuests {
		ex, _ := catalog.Exercise(q.ExerciseType)
		if q.TargetValue != ex.BaseDifficulty*2 {
			t.Errorf("%s: expected target %d at level 11, got %d", q.ExerciseType, ex.BaseDifficulty*2, q.TargetValue)
		}
	}
}

// failingStore loads a default record and fails every write.
type failingStore struct{ saves int }

var errQuota = errors.New("quota exceeded")

func (f *failingStore) Load() (models.PlayerRecord, error) { return catalog.NewRecord(), nil }
func (f *failingStore) Save(models.PlayerRecord) error {
	f.saves++
	return errQuota
}
func (f *failingStore) LastLoginDate() (string, error) { return "", nil }
func (f *failingStore) SetLastLoginDate(string) error  { return errQuota }

func TestStorageFailureReportedOnce(t *testing.T) {
	store := &failingStore{}
	clock := &fakeClock{t: day("2024-05-01")}
	e := New(store, WithClock(clock.now), WithLocation(time.UTC))

	_, err := e.Activate()
	if !errors.Is(err, storage.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !e.Degraded() {
		t.Error("expected engine to be degraded")
	}

	// Progress continues in memory without further errors
	quests := e.Snapshot().DailyQuests
	if len(quests) != catalog.QuestsPerDay {
		t.Fatalf("expected quests in memory, got %d", len(quests))
	}
	c, err := e.CompleteQuest(quests[0].ID)
	if err != nil {
		t.Errorf("expected later failures to be silent, got %v", err)
	}
	if !c.Applied || !e.Snapshot().DailyQuests[0].Completed {
		t.Error("expected completion to apply in memory")
	}
	if _, err := e.ClaimLoginBonus(); err != nil {
		t.Errorf("expected silent failure from login bonus, got %v", err)
	}
	if store.saves < 2 {
		t.Errorf("expected saves to keep being attempted, got %d", store.saves)
	}
}

func TestLoadFailureStillActivates(t *testing.T) {
	players := storage.NewPlayerStore(&brokenProvider{})
	clock := &fakeClock{t: day("2024-05-01")}
	e := New(players, WithClock(clock.now), WithLocation(time.UTC))

	act, err := e.Activate()
	if !errors.Is(err, storage.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !act.QuestsGenerated {
		t.Error("expected quests to be generated in memory")
	}
}

// brokenProvider is a storage provider whose every read and write fails.
type brokenProvider struct{ storage.MemoryStore }

func (b *brokenProvider) Get(string) (string, error) { return "", errQuota }
func (b *brokenProvider) Set(string, string) error   { return errQuota }

// flakyProvider fails the next failGets reads, then behaves normally.
type flakyProvider struct {
	*storage.MemoryStore
	failGets int
}

func (f *flakyProvider) Get(key string) (string, error) {
	if f.failGets > 0 {
		f.failGets--
		return "", errQuota
	}
	return f.MemoryStore.Get(key)
}

func TestLoadFailureNeverOverwritesStoredRecord(t *testing.T) {
	provider := &flakyProvider{MemoryStore: storage.NewMemoryStore()}
	players := storage.NewPlayerStore(provider)

	seeded := catalog.NewRecord()
	seeded.Name = "Jin"
	seeded.Level = 42
	seeded.Streak = 9
	seeded.BestStreak = 9
	seeded.LastResetDate = "2024-04-30"
	if err := players.Save(seeded); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	provider.failGets = 1
	clock := &fakeClock{t: day("2024-05-01")}
	e := New(players, WithClock(clock.now), WithLocation(time.UTC), WithRand(rand.New(rand.NewPCG(1, 2))))

	act, err := e.Activate()
	if !errors.Is(err, storage.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if !e.Degraded() {
		t.Error("expected engine to be degraded")
	}
	if !act.QuestsGenerated {
		t.Fatal("expected quests to be generated in memory")
	}

	// Writes succeed from here on but must not reach the store.
	quests := e.Snapshot().DailyQuests
	if _, err := e.CompleteQuest(quests[0].ID); err != nil {
		t.Errorf("CompleteQuest failed: %v", err)
	}
	if g, err := e.ClaimLoginBonus(); err != nil || !g.Applied {
		t.Errorf("expected login bonus in memory, got %+v, %v", g, err)
	}
	if _, err := e.AddExperience(500); err != nil {
		t.Errorf("AddExperience failed: %v", err)
	}

	got, err := storage.NewPlayerStore(provider).Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.Name != "Jin" || got.Level != 42 || got.Streak != 9 || got.BestStreak != 9 {
		t.Errorf("stored record was overwritten: %+v", got)
	}
	if got.LastResetDate != "2024-04-30" || len(got.DailyQuests) != 0 {
		t.Errorf("stored quest state changed: reset %q, %d quests", got.LastResetDate, len(got.DailyQuests))
	}
	if last, _ := players.LastLoginDate(); last != "" {
		t.Errorf("expected no stored login date, got %q", last)
	}
}

func TestGenerateQuestsSmallPool(t *testing.T) {
	clock := &fakeClock{t: day("2024-05-01")}
	e, _ := newTestEngine(t, clock, nil)
	pool := catalog.ExerciseTypes()[:2]
	e.exercises = func() []catalog.ExerciseType { return pool }

	act := mustActivate(t, e)
	if !act.QuestsGenerated {
		t.Fatal("expected quests to be generated")
	}

	quests := e.Snapshot().DailyQuests
	if len(quests) != catalog.QuestsPerDay {
		t.Fatalf("expected %d quests, got %d", catalog.QuestsPerDay, len(quests))
	}
	seen := map[string]bool{}
	for i, q := range quests {
		if q.DifficultyTier != catalog.TierPattern[i] {
			t.Errorf("quest %d: expected tier %s, got %s", i, catalog.TierPattern[i], q.DifficultyTier)
		}
		if q.ExerciseType != pool[0].ID && q.ExerciseType != pool[1].ID {
			t.Errorf("quest %d: type %q is not in the pool", i, q.ExerciseType)
		}
		seen[q.ExerciseType] = true
	}
	if len(seen) != len(pool) {
		t.Errorf("expected every pool type to be used before repeats, got %v", seen)
	}
}

func TestGenerateQuestsEmptyPool(t *testing.T) {
	clock := &fakeClock{t: day("2024-05-01")}
	e, _ := newTestEngine(t, clock, nil)
	e.exercises = func() []catalog.ExerciseType { return nil }

	ok, err := e.GenerateQuests()
	if err != nil || ok {
		t.Errorf("expected no quests from an empty pool, got %v, %v", ok, err)
	}
}
