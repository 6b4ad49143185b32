package timing

import (
	"log/slog"
	"time"
)

const (
	// below this, sleeping is too coarse and we spin instead
	spinThreshold = 2 * time.Millisecond
	// falling further behind than this drops the backlog instead of catching up
	maxLag = 5 * time.Millisecond
	// frames between drift reports
	driftWindow = TargetFPS
)

// AdaptiveLimiter sleeps for most of the frame and spins for the last
// couple of milliseconds, resynchronising when it falls behind.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	windowStart     time.Time
	frameCounter    int64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	now := time.Now()
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   now,
		windowStart:     now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	remaining := a.nextFrameTime.Sub(now)

	switch {
	case remaining > spinThreshold:
		time.Sleep(remaining - time.Millisecond)
		spinUntil(a.nextFrameTime)
	case remaining > 0:
		spinUntil(a.nextFrameTime)
	case remaining < -maxLag:
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%driftWindow == 0 {
		elapsed := time.Since(a.windowStart)
		expected := time.Duration(driftWindow) * a.targetFrameTime
		if drift := elapsed - expected; drift.Abs() > 10*time.Millisecond {
			slog.Debug("Frame pacing drift",
				"drift_ms", drift.Milliseconds(),
				"fps", float64(driftWindow)/elapsed.Seconds())
		}
		a.windowStart = time.Now()
	}
}

func (a *AdaptiveLimiter) Reset() {
	now := time.Now()
	a.nextFrameTime = now
	a.windowStart = now
	a.frameCounter = 0
}

func spinUntil(deadline time.Time) {
	for time.Now().Before(deadline) {
	}
}
