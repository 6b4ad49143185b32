package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameDuration(t *testing.T) {
	assert.Equal(t, time.Second/60, FrameDuration())
}

func TestNew(t *testing.T) {
	assert.IsType(t, &noOpLimiter{}, New(KindNone))
	assert.IsType(t, &AdaptiveLimiter{}, New(KindAdaptive))
	assert.IsType(t, &AdaptiveLimiter{}, New(""))

	ticker := New(KindTicker)
	assert.IsType(t, &TickerLimiter{}, ticker)
	ticker.(*TickerLimiter).Stop()
}

func TestNoOpLimiter_doesNotBlock(t *testing.T) {
	limiter := NewNoOpLimiter()

	start := time.Now()
	for i := 0; i < 1000; i++ {
		limiter.WaitForNextFrame()
	}
	assert.Less(t, time.Since(start), FrameDuration())
}

func TestAdaptiveLimiter_paces(t *testing.T) {
	limiter := NewAdaptiveLimiter()

	start := time.Now()
	for i := 0; i < 3; i++ {
		limiter.WaitForNextFrame()
	}
	// first frame is due immediately, the next two wait a full frame each
	assert.GreaterOrEqual(t, time.Since(start), 2*FrameDuration())
}

func TestTickerLimiter_paces(t *testing.T) {
	limiter := NewTickerLimiter()
	defer limiter.Stop()

	start := time.Now()
	limiter.WaitForNextFrame()
	limiter.WaitForNextFrame()
	assert.GreaterOrEqual(t, time.Since(start), FrameDuration())
}

func TestTickerLimiter_resetAfterPause(t *testing.T) {
	limiter := NewTickerLimiter()
	defer limiter.Stop()

	time.Sleep(2 * FrameDuration())
	limiter.Reset()

	start := time.Now()
	limiter.WaitForNextFrame()
	assert.Greater(t, time.Since(start), FrameDuration()/2, "stale tick is discarded")
	assert.Equal(t, uint64(1), limiter.Frames())
}
