package task

import (
	"sync"
	"time"
)

// Confirmer asks the user to approve deleting t.
type Confirmer interface {
	Confirm(t Task) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(t Task) bool

func (f ConfirmFunc) Confirm(t Task) bool { return f(t) }

// Store owns the task collection. Entries are appended and flagged but never
// removed. Listeners registered with Subscribe get a snapshot after every
// successful mutation.
type Store struct {
	mu     sync.RWMutex
	tasks  []Task
	lastID int64
	now    func() time.Time

	subMu  sync.Mutex
	subs   []subscriber
	subSeq int
}

type subscriber struct {
	id int
	fn func([]Task)
}

type Option func(*Store)

// WithClock overrides time.Now for ids and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTasks seeds the store with a previously saved collection.
func WithTasks(tasks []Task) Option {
	return func(s *Store) {
		s.tasks = append(s.tasks[:0], tasks...)
		for _, t := range tasks {
			if t.ID > s.lastID {
				s.lastID = t.ID
			}
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates a task and appends it. The collection is unchanged on error.
func (s *Store) Add(text string, category Category, due Date, reminder bool) (Task, error) {
	t, err := New(text, category, due, reminder)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	now := s.now()
	t.ID = s.nextID(now)
	t.CreatedAt = now
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	s.publish()
	return t, nil
}

// nextID is based on the creation time in milliseconds and bumped past the
// previous id when two tasks land in the same millisecond.
func (s *Store) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// ToggleComplete flips the completed flag. It returns false when id is unknown.
func (s *Store) ToggleComplete(id int64) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.mu.Unlock()

	s.publish()
	return true
}

// SoftDelete flags the task as deleted once confirm approves it. It returns
// false, without asking, for an unknown or already deleted id, and false when
// the confirmation is declined.
func (s *Store) SoftDelete(id int64, confirm Confirmer) bool {
	t, ok := s.Get(id)
	if !ok || t.Deleted {
		return false
	}
	if confirm == nil || !confirm.Confirm(t) {
		return false
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 || s.tasks[i].Deleted {
		s.mu.Unlock()
		return false
	}
	s.tasks[i].Deleted = true
	s.mu.Unlock()

	s.publish()
	return true
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

// Snapshot returns a copy of every task, deleted ones included, in insertion order.
func (s *Store) Snapshot() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. Listeners run in subscription order, outside the store
// lock, and each receives its own copy of the collection.
func (s *Store) Subscribe(fn func([]Task)) (cancel func()) {
	s.subMu.Lock()
	id := s.subSeq
	s.subSeq++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publish() {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(s.Snapshot())
	}
}

func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
