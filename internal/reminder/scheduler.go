// Package reminder fires due-date reminders once a day at a fixed local
// wall-clock time.
//
// A Scheduler moves through three states:
//
//	Idle --Arm--> Armed --timer--> Firing --(evaluate, notify)--> Armed
//	any  --Cancel--> Idle
//
// Fire on an Idle Scheduler evaluates once and stays Idle.
//
// Arm always replaces the pending timer, so at most one timer exists per
// Scheduler. Every arm bumps a generation number; a timer callback carrying
// an older generation returns without evaluating.
package reminder

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"myday/internal/task"
)

type State int

const (
	Idle State = iota
	Armed
	Firing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Firing:
		return "firing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const day = 24 * time.Hour

// Timer is the handle returned by a TimerFunc.
type Timer interface {
	Stop() bool
}

// TimerFunc schedules f to run once after d, like time.AfterFunc.
type TimerFunc func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Scheduler struct {
	notifier Notifier
	now      func() time.Time
	after    TimerFunc
	hour     int
	minute   int
	logger   *log.Logger

	mu    sync.Mutex
	tasks []task.Task
	state State
	timer Timer
	gen   uint64
	next  time.Time
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithFireAt sets the local time of day reminders fire. Default 09:00.
func WithFireAt(hour, minute int) Option {
	return func(s *Scheduler) {
		s.hour = hour
		s.minute = minute
	}
}

func WithTimerFunc(f TimerFunc) Option {
	return func(s *Scheduler) { s.after = f }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

func New(notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		notifier: notifier,
		now:      time.Now,
		after:    afterFunc,
		hour:     9,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return s
}

// Arm records the latest task snapshot and (re)arms the timer for the next
// occurrence of the fire time. Calling it again before the timer fires keeps
// the same target unless that target has passed.
func (s *Scheduler) Arm(tasks []task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks[:0:0], tasks...)
	s.armLocked()
}

// Cancel stops the pending timer. It is safe to call repeatedly. An
// evaluation already in progress finishes but does not re-arm.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.gen++
	s.state = Idle
	s.next = time.Time{}
}

// Fire runs the firing step now, against the latest snapshot, and re-arms
// unless the Scheduler is Idle.
func (s *Scheduler) Fire() {
	s.mu.Lock()
	if s.state == Idle {
		tasks, now := s.tasks, s.now()
		s.mu.Unlock()
		s.notifyDue(tasks, now)
		return
	}
	s.stopLocked()
	s.gen++
	gen := s.gen
	s.state = Armed
	s.mu.Unlock()

	s.fire(gen)
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Next is the instant the pending timer targets; zero when idle.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

func (s *Scheduler) armLocked() {
	s.stopLocked()

	now := s.now()
	target := NextFire(now, s.hour, s.minute)
	d := delay(now, target)
	if d != target.Sub(now) {
		s.logger.Printf("reminder: clamped non-positive delay to %s (target %s)", d, target.Format(time.RFC3339))
		target = now.Add(d)
	}

	s.gen++
	gen := s.gen
	s.next = target
	s.state = Armed
	s.timer = s.after(d, func() { s.fire(gen) })
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.state != Armed || s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.state = Firing
	s.timer = nil
	tasks := s.tasks
	now := s.now()
	s.mu.Unlock()

	s.notifyDue(tasks, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Firing && s.gen == gen {
		s.armLocked()
	}
}

func (s *Scheduler) notifyDue(tasks []task.Task, now time.Time) {
	due := Due(tasks, now)
	s.logger.Printf("reminder: firing at %s, %d of %d tasks due", now.Format(time.RFC3339), len(due), len(tasks))
	for _, t := range due {
		if s.notifier != nil {
			s.notifier.Notify(newNotification(t, now))
		}
	}
}

// Due selects the tasks that get a reminder on now's calendar date: reminder
// set, due today, neither completed nor deleted.
func Due(tasks []task.Task, now time.Time) []task.Task {
	today := task.DateOf(now)
	var out []task.Task
	for _, t := range tasks {
		if !t.HasReminder() || t.Completed || t.Deleted {
			continue
		}
		if t.Due == today {
			out = append(out, t)
		}
	}
	return out
}

// NextFire returns the next hour:minute in now's location strictly after
// now: today if not yet reached, otherwise tomorrow.
func NextFire(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	target := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = time.Date(y, m, d+1, hour, minute, 0, 0, now.Location())
	}
	return target
}

// delay is the wait from now until target, clamped to a full day when the
// clock makes it non-positive so a misfire never spins.
func delay(now, target time.Time) time.Duration {
	d := target.Sub(now)
	if d <= 0 {
		return day
	}
	return d
}
