package game

import (
	"sort"
	"time"
)

type timer struct {
	key string
	due time.Time
	fn  func()
}

// Scheduler holds single-shot timers keyed by id. It never starts goroutines:
// the owning loop calls Advance with the current time and due callbacks run on
// that goroutine, in due order. Arming a key that is already pending replaces
// the earlier timer.
type Scheduler struct {
	now    func() time.Time
	timers map[string]timer
}

func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now, timers: make(map[string]timer)}
}

func (s *Scheduler) After(key string, delay time.Duration, fn func()) {
	if fn == nil {
		return
	}
	s.timers[key] = timer{key: key, due: s.now().Add(delay), fn: fn}
}

func (s *Scheduler) Cancel(key string) {
	delete(s.timers, key)
}

func (s *Scheduler) CancelAll() {
	s.timers = make(map[string]timer)
}

func (s *Scheduler) Pending(key string) bool {
	_, ok := s.timers[key]
	return ok
}

// Delay pushes every pending timer back by d. Time the owning loop spent
// paused does not count towards any timer.
func (s *Scheduler) Delay(d time.Duration) {
	if d <= 0 {
		return
	}
	for key, t := range s.timers {
		t.due = t.due.Add(d)
		s.timers[key] = t
	}
}

// Advance fires every timer due at or before now and returns how many fired.
func (s *Scheduler) Advance(now time.Time) int {
	var due []timer
	for _, t := range s.timers {
		if !t.due.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].key < due[j].key
		}
		return due[i].due.Before(due[j].due)
	})
	fired := 0
	for _, t := range due {
		// A callback fired earlier in this pass may have cancelled or re-armed it.
		cur, ok := s.timers[t.key]
		if !ok || !cur.due.Equal(t.due) {
			continue
		}
		delete(s.timers, t.key)
		t.fn()
		fired++
	}
	return fired
}
