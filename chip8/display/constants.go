package display

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/valerio/go-chip8/chip8/video"
)

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
	// RGBARShift is the bit shift for the red component in RGBA format
	RGBARShift = 24
	// RGBAGShift is the bit shift for the green component in RGBA format
	RGBAGShift = 16
	// RGBABShift is the bit shift for the blue component in RGBA format
	RGBABShift = 8
	// RGBAColorMask is the mask for extracting color components
	RGBAColorMask = 0xFF
	// FullAlpha is the alpha value for fully opaque pixels
	FullAlpha = 255
)

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default size in screen pixels of a single display pixel
	DefaultPixelScale = 20
	// DefaultWindowWidth is the default window width (display width * scale)
	DefaultWindowWidth = video.FramebufferWidth * DefaultPixelScale // 1280
	// DefaultWindowHeight is the default window height (display height * scale)
	DefaultWindowHeight = video.FramebufferHeight * DefaultPixelScale // 640
	// DefaultPixelOutlines draws a background colored border around every lit pixel
	DefaultPixelOutlines = true
)

// Color is a packed 0xRRGGBBAA value.
type Color uint32

const (
	DefaultForeground Color = 0x18392B00
	DefaultBackground Color = 0x000000FF
)

// RGBA unpacks the color components.
func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> RGBARShift & RGBAColorMask),
		uint8(c >> RGBAGShift & RGBAColorMask),
		uint8(c >> RGBABShift & RGBAColorMask),
		uint8(c & RGBAColorMask)
}

// Opaque converts to an image color with the alpha channel forced to fully opaque.
func (c Color) Opaque() color.RGBA {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: r, G: g, B: b, A: FullAlpha}
}

func (c Color) String() string {
	return fmt.Sprintf("0x%08X", uint32(c))
}

// ParseColor reads a color in RRGGBBAA hex form, with or without a 0x or # prefix.
func ParseColor(s string) (Color, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x"), "0X")
	if len(trimmed) != 8 {
		return 0, fmt.Errorf("invalid color %q: expected 8 hex digits (RRGGBBAA)", s)
	}

	value, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(value), nil
}

// Palette maps the two pixel states to colors.
type Palette struct {
	Foreground Color
	Background Color
}

// DefaultPalette returns the classic dark green on black palette.
func DefaultPalette() Palette {
	return Palette{Foreground: DefaultForeground, Background: DefaultBackground}
}

// ColorFor returns the color of a pixel in the given state.
func (p Palette) ColorFor(on bool) Color {
	if on {
		return p.Foreground
	}
	return p.Background
}
