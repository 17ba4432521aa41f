// Package scheduler fires a callback shortly after every local midnight so a
// long-running session rolls over to the new day without user input.
package scheduler

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"

	"github.com/julianstephens/arise/internal/constants"
)

type Scheduler struct {
	s   gocron.Scheduler
	loc *time.Location
	job gocron.Job
}

// New creates a stopped scheduler whose days end at midnight in loc.
func New(loc *time.Location, logger *log.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	opts := []gocron.SchedulerOption{gocron.WithLocation(loc)}
	if logger != nil {
		opts = append(opts, gocron.WithLogger(gocronLogger{logger.WithPrefix("scheduler")}))
	}
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{s: s, loc: loc}, nil
}

// OnNewDay registers fn to run RolloverJobOffset after each local midnight.
// Only one callback is kept; registering again replaces it.
func (s *Scheduler) OnNewDay(fn func()) error {
	offset := uint(constants.RolloverJobOffset / time.Second)
	def := gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 0, offset)))
	opts := []gocron.JobOption{
		gocron.WithName("rollover"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}

	var (
		job gocron.Job
		err error
	)
	if s.job != nil {
		job, err = s.s.Update(s.job.ID(), def, gocron.NewTask(fn), opts...)
	} else {
		job, err = s.s.NewJob(def, gocron.NewTask(fn), opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to schedule rollover: %w", err)
	}
	s.job = job
	return nil
}

// NextRollover returns when the rollover job fires next after now.
func NextRollover(now time.Time) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Add(constants.RolloverJobOffset)
	if !next.After(now) {
		next = time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Add(constants.RolloverJobOffset)
	}
	return next
}

func (s *Scheduler) Start() {
	s.s.Start()
}

// Stop shuts the scheduler down and waits for a running callback.
func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// gocronLogger adapts a charm logger to gocron.Logger.
type gocronLogger struct {
	l *log.Logger
}

func (g gocronLogger) Debug(msg string, args ...any) { g.l.Debug(msg, args...) }
func (g gocronLogger) Error(msg string, args ...any) { g.l.Error(msg, args...) }
func (g gocronLogger) Info(msg string, args ...any)  { g.l.Info(msg, args...) }
func (g gocronLogger) Warn(msg string, args ...any)  { g.l.Warn(msg, args...) }
