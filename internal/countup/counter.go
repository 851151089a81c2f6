// Package countup animates a displayed number from a start value to an end
// value over a fixed duration.
//
// A Counter writes a formatted string into its sink on every frame. Frames
// come from an injected Scheduler: a FrameQueue flushed by the host's redraw
// loop when one exists, otherwise a fixed-interval fallback. At most one frame
// is outstanding per counter, and every state-changing method cancels it
// before deciding whether to schedule another.
package countup

import (
	"math"
	"sync"
	"time"
)

// DefaultDuration is used when the requested duration is not a positive number
const DefaultDuration = 2 * time.Second

// State of a counter's state machine
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// CounterOption customises a Counter beyond the display options
type CounterOption func(*Counter)

// WithScheduler sets the frame scheduler. Without it the counter uses an
// IntervalScheduler of its own.
func WithScheduler(s Scheduler) CounterOption {
	return func(c *Counter) {
		if s != nil {
			c.sched = s
		}
	}
}

// WithClock sets the clock of the fallback interval scheduler. It has no
// effect when WithScheduler is also given.
func WithClock(clock Clock) CounterOption {
	return func(c *Counter) {
		c.clock = clock
	}
}

// Counter is an animated numeric display.
//
// All methods are safe for concurrent use. The sink is written while the
// counter's lock is held, so a sink must not call back into the counter.
type Counter struct {
	mu sync.Mutex

	write     func(string)
	mode      SinkMode
	formatter Formatter
	sched     Scheduler
	clock     Clock

	// Constructor inputs, restored by Reset and Update
	initialStart float64
	baseDuration time.Duration

	start     float64
	end       float64
	frameVal  float64
	direction Direction
	duration  time.Duration
	remaining time.Duration
	refStart  time.Time
	hasRef    bool
	paused    bool
	state     State
	text      string

	frame      FrameID
	generation uint64
	onComplete func()
}

// New creates a counter and renders start into sink without scheduling any
// frame. decimals below zero are treated as zero, a duration that is not a
// positive number becomes DefaultDuration, and a nil opts means DefaultOptions.
func New(sink any, start, end float64, decimals int, durationSeconds float64, opts *Options, extra ...CounterOption) (*Counter, error) {
	write, mode, err := resolveSink(sink)
	if err != nil {
		return nil, err
	}

	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}

	duration := durationOf(durationSeconds)

	c := &Counter{
		write:        write,
		mode:         mode,
		formatter:    NewFormatter(decimals, o),
		initialStart: start,
		baseDuration: duration,
		start:        start,
		end:          end,
		frameVal:     start,
		direction:    directionOf(start, end),
		duration:     duration,
		remaining:    duration,
	}
	for _, apply := range extra {
		apply(c)
	}
	if c.sched == nil {
		c.sched = NewIntervalScheduler(c.clock, DefaultFrameInterval)
	}

	c.print(start)
	return c, nil
}

// durationOf converts seconds to a run length. Values that are not positive
// or that round to zero fall back to DefaultDuration; huge values saturate.
func durationOf(seconds float64) time.Duration {
	if !(seconds > 0) || math.IsInf(seconds, 1) {
		return DefaultDuration
	}
	ns := seconds * float64(time.Second)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	if d := time.Duration(ns); d > 0 {
		return d
	}
	return DefaultDuration
}

// Start begins a run toward the end value. onComplete, if not nil, is called
// once each time a run finishes naturally.
func (c *Counter) Start(onComplete func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.onComplete = onComplete
	c.paused = false
	c.beginSegment()
}

// PauseResume toggles between running and paused. Resuming continues from
// the paused value over the time that was left. It does nothing while the
// counter is idle or completed.
func (c *Counter) PauseResume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Running:
		c.cancelFrame()
		c.paused = true
		c.state = Paused
	case Paused:
		c.paused = false
		c.start = c.frameVal
		c.duration = c.remaining
		c.direction = directionOf(c.start, c.end)
		c.beginSegment()
	}
}

// Reset stops the animation and shows the value given to New again. The
// counter can then be started afresh.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelFrame()
	c.paused = false
	c.hasRef = false
	c.start = c.initialStart
	c.frameVal = c.initialStart
	c.direction = directionOf(c.start, c.end)
	c.duration = c.baseDuration
	c.remaining = c.baseDuration
	c.state = Idle
	c.print(c.start)
}

// Update retargets the counter: a new run starts from the value currently on
// display toward newEnd, over the configured duration.
func (c *Counter) Update(newEnd float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelFrame()
	c.paused = false
	c.start = c.frameVal
	c.end = newEnd
	c.direction = directionOf(c.start, c.end)
	c.duration = c.baseDuration
	c.beginSegment()
}

// FormatNumber renders v with the counter's decimals and options
func (c *Counter) FormatNumber(v float64) string {
	return c.formatter.Format(v)
}

// beginSegment cancels any outstanding frame, clears the reference start and
// schedules the first tick. Callers hold c.mu.
func (c *Counter) beginSegment() {
	c.cancelFrame()
	c.hasRef = false
	c.remaining = c.duration
	c.state = Running
	c.schedule()
}

func (c *Counter) schedule() {
	gen := c.generation
	c.frame = c.sched.RequestFrame(func(now time.Time) {
		c.tick(gen, now)
	})
}

// cancelFrame drops the outstanding frame, if any, and invalidates every tick
// scheduled so far. Callers hold c.mu.
func (c *Counter) cancelFrame() {
	if c.frame != 0 {
		c.sched.CancelFrame(c.frame)
		c.frame = 0
	}
	c.generation++
}

func (c *Counter) tick(gen uint64, now time.Time) {
	c.mu.Lock()
	if gen != c.generation || c.state != Running {
		// Superseded by a cancel that raced with the scheduler
		c.mu.Unlock()
		return
	}
	c.frame = 0

	if !c.hasRef {
		c.refStart = now
		c.hasRef = true
	}
	elapsed := now.Sub(c.refStart)
	if elapsed < 0 {
		elapsed = 0
	}
	c.remaining = c.duration - elapsed

	v := interpolate(c.start, c.end, elapsed, c.duration, c.direction, c.formatter.Options.UseEasing)
	v = clampTowards(v, c.end, c.direction)
	v = roundTo(v, c.formatter.Decimals)
	c.frameVal = v
	c.print(v)

	var done func()
	if elapsed < c.duration {
		c.schedule()
	} else {
		c.state = Completed
		c.remaining = 0
		done = c.onComplete
	}
	c.mu.Unlock()

	if done != nil {
		done()
	}
}

func (c *Counter) print(v float64) {
	c.text = c.formatter.Format(v)
	c.write(c.text)
}

// Value returns the value of the most recent frame
func (c *Counter) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameVal
}

// Text returns the string most recently written to the sink
func (c *Counter) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// StartValue returns the start of the current run segment
func (c *Counter) StartValue() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start
}

// EndValue returns the current target
func (c *Counter) EndValue() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.end
}

// State returns the current state
func (c *Counter) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Direction returns the direction of the current run
func (c *Counter) Direction() Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

// Paused reports whether the counter is paused
func (c *Counter) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Duration returns the planned length of the current run segment
func (c *Counter) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// Remaining returns the time left in the current run segment as of the last frame
func (c *Counter) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Decimals returns the number of decimal places displayed
func (c *Counter) Decimals() int {
	return c.formatter.Decimals
}

// Options returns the normalized display options
func (c *Counter) Options() Options {
	return c.formatter.Options
}

// SinkMode reports how the sink is written
func (c *Counter) SinkMode() SinkMode {
	return c.mode
}

// Scheduled reports whether a frame is outstanding
func (c *Counter) Scheduled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame != 0
}
