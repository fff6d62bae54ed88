package chart

import "time"

// Transition interpolates a value from From to To over Duration starting at
// Start, with cubic in-out easing. Transitions are fire-and-forget: starting
// a new one from Value(now) replaces whatever was running.
type Transition struct {
	From, To float64
	Start    time.Time
	Duration time.Duration
}

// Value returns the interpolated value at now.
func (t Transition) Value(now time.Time) float64 {
	if t.Duration <= 0 || !now.Before(t.Start.Add(t.Duration)) {
		return t.To
	}
	if now.Before(t.Start) {
		return t.From
	}
	p := float64(now.Sub(t.Start)) / float64(t.Duration)
	return t.From + (t.To-t.From)*easeCubicInOut(p)
}

// Running reports whether now falls before the end of the transition.
func (t Transition) Running(now time.Time) bool {
	return t.Duration > 0 && now.Before(t.Start.Add(t.Duration))
}

// retarget starts a new transition towards to from the current value.
func (t Transition) retarget(to float64, now time.Time, d time.Duration) Transition {
	return Transition{From: t.Value(now), To: to, Start: now, Duration: d}
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
