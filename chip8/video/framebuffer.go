package video

const (
	FramebufferWidth  = 64
	FramebufferHeight = 32
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// FrameBuffer is the monochrome display, one bool per pixel at index y*64+x.
type FrameBuffer struct {
	buffer [FramebufferSize]bool
}

// NewFrameBuffer creates a frame buffer with every pixel off.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

func (fb *FrameBuffer) GetPixel(x, y uint) bool {
	return fb.buffer[y*FramebufferWidth+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, on bool) {
	fb.buffer[y*FramebufferWidth+x] = on
}

// TogglePixel flips the pixel at (x, y) and reports whether it was on
// before the flip, i.e. whether drawing over it caused a collision.
func (fb *FrameBuffer) TogglePixel(x, y uint) bool {
	idx := y*FramebufferWidth + x
	wasOn := fb.buffer[idx]
	fb.buffer[idx] = !wasOn
	return wasOn
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	fb.buffer = [FramebufferSize]bool{}
}

// ToSlice exposes the pixels in row-major order.
func (fb *FrameBuffer) ToSlice() []bool {
	return fb.buffer[:]
}

// LitPixels counts the pixels that are on.
func (fb *FrameBuffer) LitPixels() int {
	count := 0
	for _, on := range fb.buffer {
		if on {
			count++
		}
	}
	return count
}
