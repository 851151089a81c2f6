package countup

import (
	"sync"
	"time"
)

// DefaultFrameInterval is the fallback cadence when no refresh-synced
// scheduler is available (roughly 60 frames per second).
const DefaultFrameInterval = 16 * time.Millisecond

// Timer represents a pending AfterFunc call that can be stopped
type Timer interface {
	Stop() bool
}

// Clock provides time-related operations.
// This interface lets tests drive the interval scheduler deterministically.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// SystemClock is the default Clock backed by the time package
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// IntervalScheduler fires frames on a fixed cadence using timers. Frames are
// spaced so that consecutive requests land at least one interval apart.
type IntervalScheduler struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	next     FrameID
	timers   map[FrameID]Timer
	lastCall time.Time
}

// NewIntervalScheduler creates a fallback scheduler. A nil clock means
// SystemClock; a non-positive interval means DefaultFrameInterval.
func NewIntervalScheduler(clock Clock, interval time.Duration) *IntervalScheduler {
	if clock == nil {
		clock = SystemClock
	}
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &IntervalScheduler{
		clock:    clock,
		interval: interval,
		timers:   make(map[FrameID]Timer),
	}
}

// RequestFrame arms a timer for the next frame slot
func (s *IntervalScheduler) RequestFrame(fn FrameFunc) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	wait := s.interval - now.Sub(s.lastCall)
	if wait < 0 {
		wait = 0
	}
	s.lastCall = now.Add(wait)

	s.next++
	id := s.next
	// The lock is held until the timer is registered, so a zero-delay timer
	// cannot observe a missing entry and drop itself.
	s.timers[id] = s.clock.AfterFunc(wait, func() {
		s.mu.Lock()
		_, live := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if live {
			fn(s.clock.Now())
		}
	})
	return id
}

// CancelFrame stops the timer for id. A timer that already fired but has
// not yet run its callback is disarmed as well.
func (s *IntervalScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending reports the number of armed frames
func (s *IntervalScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
