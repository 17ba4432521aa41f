// Package engine is the progression state machine. An Engine owns the player
// record, applies day rollovers, quest completions and level-ups to it, and
// writes every change through to its Store.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/constants"
	"github.com/julianstephens/arise/internal/logger"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/storage"
	"github.com/julianstephens/arise/internal/utils"
)

// CompletionDelay is the pause between accepting a completion and applying it.
const CompletionDelay = constants.CompletionDelay

// Store is the persistence the engine needs. *storage.PlayerStore satisfies it.
type Store interface {
	Load() (models.PlayerRecord, error)
	Save(models.PlayerRecord) error
	LastLoginDate() (string, error)
	SetLastLoginDate(day string) error
}

type Engine struct {
	mu sync.Mutex

	store Store
	rec   models.PlayerRecord

	now    func() time.Time
	loc    *time.Location
	rng    *rand.Rand
	logger *log.Logger

	loaded    bool
	degraded  bool
	lastLogin *string

	// memoryOnly is set when the stored record could not be read. Writes are
	// then skipped so the session's default record never replaces it.
	memoryOnly bool

	exercises func() []catalog.ExerciseType
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand sets the source used to pick exercises.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLocation sets the timezone that decides where a calendar day ends.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		rec:       catalog.NewRecord(),
		now:       time.Now,
		loc:       time.Local,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    logger.Get(),
		exercises: catalog.ExerciseTypes,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithPrefix("engine")
	return e
}

// Load reads the record from the store. It runs implicitly on the first
// Activate. A storage error leaves the engine running on the default record
// in memory only: nothing is written back for the rest of the session.
func (e *Engine) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.load()
}

func (e *Engine) ensureLoaded() error {
	if e.loaded {
		return nil
	}
	return e.load()
}

func (e *Engine) load() error {
	rec, err := e.store.Load()
	e.rec = rec
	e.loaded = true
	if err != nil {
		e.memoryOnly = true
		return e.storageFailed(err)
	}
	e.logger.Debug("Loaded player record", "name", rec.Name, "level", rec.Level, "lastReset", rec.LastResetDate)
	return nil
}

// persist writes the record. Only the first failure of a session is returned
// so the caller warns once; later failures are logged.
func (e *Engine) persist() error {
	if e.memoryOnly {
		return nil
	}
	if err := e.store.Save(e.rec); err != nil {
		return e.storageFailed(err)
	}
	return nil
}

func (e *Engine) storageFailed(err error) error {
	if !errors.Is(err, storage.ErrStorageUnavailable) {
		err = fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
	}
	if e.degraded {
		e.logger.Debug("Storage still unavailable", "error", err)
		return nil
	}
	e.degraded = true
	e.logger.Warn("Storage unavailable, progress will not survive a restart", "error", err)
	return err
}

// Degraded reports whether a storage failure has happened this session.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.degraded
}

// Snapshot returns a deep copy of the current record.
func (e *Engine) Snapshot() models.PlayerRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Clone()
}

// Rank returns the rank for the current level.
func (e *Engine) Rank() catalog.Rank {
	e.mu.Lock()
	defer e.mu.Unlock()
	return catalog.RankFor(e.rec.Level)
}

// ExperienceToNext returns the threshold for the current level.
func (e *Engine) ExperienceToNext() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return catalog.ExperienceToNext(e.rec.Level)
}

// Today returns the current calendar day in the engine's timezone.
func (e *Engine) Today() string {
	return utils.DayKey(e.now().In(e.loc))
}

// Now returns the engine clock in the engine's timezone.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

// Location returns the engine's timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}
