package countup

import (
	"math"
	"time"
)

// Direction of travel between the start and end values
type Direction int

const (
	CountingUp Direction = iota
	CountingDown
)

func (d Direction) String() string {
	if d == CountingDown {
		return "down"
	}
	return "up"
}

func directionOf(start, end float64) Direction {
	if start > end {
		return CountingDown
	}
	return CountingUp
}

// easeOutExpo is Penner's exponential ease-out, scaled by 1024/1023 so that
// it reaches exactly b+c at t == d.
func easeOutExpo(t, b, c, d float64) float64 {
	return c*(-math.Pow(2, -10*t/d)+1)*1024/1023 + b
}

// interpolate computes the unclamped value at elapsed into a segment. Both
// directions share the same curve; counting down only flips the delta.
func interpolate(start, end float64, elapsed, duration time.Duration, dir Direction, easing bool) float64 {
	t := float64(elapsed) / float64(time.Millisecond)
	d := float64(duration) / float64(time.Millisecond)
	if d <= 0 {
		return end
	}

	if easing {
		if dir == CountingDown {
			return start - easeOutExpo(t, 0, start-end, d)
		}
		return easeOutExpo(t, start, end-start, d)
	}

	if dir == CountingDown {
		return start - (start-end)*(t/d)
	}
	return start + (end-start)*(t/d)
}

// clampTowards keeps v from passing end in the direction of travel
func clampTowards(v, end float64, dir Direction) float64 {
	if dir == CountingDown {
		if v < end {
			return end
		}
		return v
	}
	if v > end {
		return end
	}
	return v
}
