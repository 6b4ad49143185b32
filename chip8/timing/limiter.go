package timing

import "time"

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// TargetFPS is the frame rate, which is also the rate the delay and sound timers count down at.
const TargetFPS = 60

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Second / TargetFPS
}

// Kind selects a Limiter implementation by name.
type Kind string

const (
	KindNone     Kind = "none"
	KindTicker   Kind = "ticker"
	KindAdaptive Kind = "adaptive"
)

// New returns the limiter for the given kind, falling back to the adaptive one.
func New(kind Kind) Limiter {
	switch kind {
	case KindNone:
		return NewNoOpLimiter()
	case KindTicker:
		return NewTickerLimiter()
	default:
		return NewAdaptiveLimiter()
	}
}
