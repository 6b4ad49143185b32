package timing

import "time"

// TickerLimiter paces frames off a time.Ticker. Ticks that pile up while a
// frame runs long are dropped by the ticker, so a slow frame is never made
// up with a burst of fast ones.
type TickerLimiter struct {
	ticker *time.Ticker
	frames uint64
}

func NewTickerLimiter() *TickerLimiter {
	return &TickerLimiter{ticker: time.NewTicker(FrameDuration())}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
	t.frames++
}

// Reset restarts the cadence from now and discards a tick left over from a pause.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(FrameDuration())
	select {
	case <-t.ticker.C:
	default:
	}
}

// Frames returns how many frames have been waited for.
func (t *TickerLimiter) Frames() uint64 {
	return t.frames
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
