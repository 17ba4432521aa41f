package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/julianstephens/arise/internal/backup"
	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/engine"
	apperrors "github.com/julianstephens/arise/internal/errors"
	"github.com/julianstephens/arise/internal/lock"
	"github.com/julianstephens/arise/internal/logger"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/storage"
	"github.com/julianstephens/arise/internal/utils"
)

type Context struct {
	Store storage.Provider
	Debug bool

	// Out and In default to stdout and stdin.
	Out io.Writer
	In  io.Reader

	// EngineOptions are appended to the options every session engine gets.
	EngineOptions []engine.Option

	players *storage.PlayerStore
	lock    *lock.Lock
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// Players returns the player gateway over the current store.
func (c *Context) Players() *storage.PlayerStore {
	if c.players == nil || c.players.Provider() != c.Store {
		c.players = storage.NewPlayerStore(c.Store)
	}
	return c.players
}

// OpenStore loads the configured store and creates it on first run. When the
// store cannot be opened the session continues on a MemoryStore and the
// returned error, wrapping storage.ErrStorageUnavailable, says so.
func (c *Context) OpenStore() error {
	err := c.Store.Load()
	if errors.Is(err, storage.ErrNotInitialized) {
		logger.Info("Initializing storage on first run", "path", c.Store.GetConfigPath())
		err = c.Store.Init()
	}
	if err == nil {
		return nil
	}

	logger.Warn("Falling back to in-memory storage", "path", c.Store.GetConfigPath(), "error", err)
	c.Store = storage.NewMemoryStore()
	return fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
}

// isDurable reports whether the store writes to disk.
func (c *Context) isDurable() bool {
	_, mem := c.Store.(*storage.MemoryStore)
	return !mem
}

func (c *Context) dataDir() string {
	return filepath.Dir(c.Store.GetConfigPath())
}

// Session is an activated engine plus what activation produced.
type Session struct {
	Engine     *engine.Engine
	Activation engine.Activation
	Login      engine.Gain
	ReadOnly   bool
}

// StartSession opens storage, takes the data directory lock and activates the
// engine. With readOnly set a held lock is tolerated: the session then runs
// against a snapshot and never writes. Notices are printed as they happen.
func (c *Context) StartSession(readOnly bool) (*Session, error) {
	if err := c.OpenStore(); err != nil {
		c.warn(err)
	}

	sess := &Session{}
	var store engine.Store = c.Players()
	if c.isDurable() && c.lock == nil {
		l, err := lock.Acquire(c.dataDir())
		switch {
		case err == nil:
			c.lock = l
		case errors.Is(err, lock.ErrLocked) && readOnly:
			logger.Debug("Data directory locked, continuing read-only", "error", err)
			sess.ReadOnly = true
			store = snapshotStore{c.Players()}
		default:
			return nil, err
		}
	}

	settings, err := c.Players().Settings()
	if err != nil {
		logger.Warn("Failed to read settings", "error", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone in settings, using local time", "timezone", settings.Timezone, "error", err)
		loc = nil
	}

	opts := append([]engine.Option{engine.WithLocation(loc)}, c.EngineOptions...)
	sess.Engine = engine.New(store, opts...)

	act, err := sess.Engine.Activate()
	if err != nil {
		c.warn(err)
	}
	sess.Activation = act
	c.printActivation(act)

	if settings.LoginBonus && !sess.ReadOnly {
		gain, err := sess.Engine.ClaimLoginBonus()
		if err != nil {
			c.warn(err)
		}
		sess.Login = gain
		if gain.Applied {
			c.printf("🎁 Daily login bonus: +%d XP\n", gain.Amount)
			c.printLevelUps(gain.LevelUps)
			c.printAchievements(gain.Achievements)
		}
	}
	return sess, nil
}

// Close releases the lock and closes the store.
func (c *Context) Close() {
	if err := c.lock.Release(); err != nil {
		logger.Warn("Failed to release lock", "error", err)
	}
	c.lock = nil
	if err := c.Store.Close(); err != nil {
		logger.Warn("Failed to close storage", "error", err)
	}
}

// PerformAutomaticBackup creates a backup of the SQLite database.
// Failures are logged and never stop the command.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*storage.SQLiteStore); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) warn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, apperrors.Warning(err))
}

func (c *Context) printActivation(act engine.Activation) {
	r := act.Rollover
	switch {
	case r.FirstRun:
		c.println("Welcome, Hunter. Your first quests await.")
	case r.StreakBroken():
		c.printf("💔 Streak lost (was %d days).\n", r.PreviousStreak)
	case r.StreakChanged():
		c.printf("🔥 Streak: %d days\n", r.Streak)
	}
	if r.FatigueRecovered > 0 {
		c.printf("Recovered %d fatigue overnight.\n", r.FatigueRecovered)
	}
	if act.QuestsGenerated {
		c.printf("New daily quests generated for %s.\n", act.Today)
	}
	c.printLevelUps(act.LevelUps)
	c.printAchievements(act.Achievements)
}

func (c *Context) printLevelUps(ups []engine.LevelUp) {
	for _, up := range ups {
		c.printf("⬆️  LEVEL UP! You reached level %d (STR %d  END %d  AGI %d  VIT %d)\n",
			up.Level, up.After.Strength, up.After.Endurance, up.After.Agility, up.After.Vitality)
		if up.RankUp {
			c.printf("🏅 RANK UP! You are now %s-Rank\n", up.Rank.Name)
		}
	}
}

func (c *Context) printAchievements(list []catalog.Achievement) {
	for _, a := range list {
		c.printf("%s Achievement unlocked: %s (%s)\n", a.Icon, a.Name, a.Rarity)
	}
}

// snapshotStore reads through to the real store and drops every write.
type snapshotStore struct {
	players *storage.PlayerStore
}

func (s snapshotStore) Load() (models.PlayerRecord, error) {
	rec, found, err := s.players.LoadRaw()
	if errors.Is(err, storage.ErrStorageUnavailable) {
		return catalog.NewRecord(), err
	}
	if err != nil || !found {
		return catalog.NewRecord(), nil
	}
	return storage.Normalize(rec), nil
}

func (snapshotStore) Save(models.PlayerRecord) error { return nil }

func (s snapshotStore) LastLoginDate() (string, error) { return s.players.LastLoginDate() }

func (snapshotStore) SetLastLoginDate(string) error { return nil }
