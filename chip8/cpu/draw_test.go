package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/memory"
)

const spriteAddr = 0x300

// setupDraw places a DXYN at 0x200 and the sprite rows at 0x300.
func setupDraw(t *testing.T, vx, vy uint8, rows ...byte) *CPU {
	t.Helper()

	opcode := uint16(0xD120) | uint16(len(rows))
	cpu, mem, _ := newTestCPU(t, opcode)
	for i, row := range rows {
		mem.Write(spriteAddr+uint16(i), row)
	}
	cpu.i = spriteAddr
	cpu.v[1] = vx
	cpu.v[2] = vy
	return cpu
}

func lit(cpu *CPU) []pixel {
	fb := cpu.display.(interface{ GetPixel(x, y uint) bool })
	var out []pixel
	for y := uint(0); y < 32; y++ {
		for x := uint(0); x < 64; x++ {
			if fb.GetPixel(x, y) {
				out = append(out, pixel{x, y})
			}
		}
	}
	return out
}

type pixel struct{ x, y uint }

func TestDraw_blankDisplay(t *testing.T) {
	cpu := setupDraw(t, 0, 0, 0xF0)

	require.NoError(t, cpu.Step())
	assert.Equal(t, []pixel{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, lit(cpu))
	assert.Equal(t, uint8(0), cpu.V(0xF))
}

func TestDraw_collision(t *testing.T) {
	cpu := setupDraw(t, 0, 0, 0xF0)
	require.NoError(t, cpu.Step())

	// draw the same sprite again, erasing it
	cpu.pc = memory.ProgramAddress
	require.NoError(t, cpu.Step())

	assert.Empty(t, lit(cpu))
	assert.Equal(t, uint8(1), cpu.V(0xF))
}

func TestDraw_collisionIsSticky(t *testing.T) {
	// row 0 collides, row 1 does not
	cpu := setupDraw(t, 0, 0, 0x80, 0x80)
	cpu.display.TogglePixel(0, 0)

	require.NoError(t, cpu.Step())
	assert.Equal(t, uint8(1), cpu.V(0xF))
	assert.Equal(t, []pixel{{0, 1}}, lit(cpu))
}

func TestDraw_noCollisionClearsFlag(t *testing.T) {
	cpu := setupDraw(t, 10, 10, 0xFF)
	cpu.v[0xF] = 1

	require.NoError(t, cpu.Step())
	assert.Equal(t, uint8(0), cpu.V(0xF))
}

func TestDraw_clipsAtRightEdge(t *testing.T) {
	cpu := setupDraw(t, 62, 0, 0xFF)

	require.NoError(t, cpu.Step())
	assert.Equal(t, []pixel{{62, 0}, {63, 0}}, lit(cpu))
}

func TestDraw_clipsAtBottomEdge(t *testing.T) {
	cpu := setupDraw(t, 0, 30, 0x80, 0x80, 0x80, 0x80)

	require.NoError(t, cpu.Step())
	assert.Equal(t, []pixel{{0, 30}, {0, 31}}, lit(cpu))
}

func TestDraw_startPositionWraps(t *testing.T) {
	// 64+5 wraps to 5, 32+2 wraps to 2
	cpu := setupDraw(t, 69, 34, 0x80)

	require.NoError(t, cpu.Step())
	assert.Equal(t, []pixel{{5, 2}}, lit(cpu))
}

func TestDraw_usesCoordinatesFromVF(t *testing.T) {
	cpu, mem, _ := newTestCPU(t, 0xDF11)
	mem.Write(spriteAddr, 0x80)
	cpu.i = spriteAddr
	cpu.v[0xF] = 7
	cpu.v[1] = 3

	require.NoError(t, cpu.Step())
	assert.Equal(t, []pixel{{7, 3}}, lit(cpu))
	assert.Equal(t, uint8(0), cpu.V(0xF))
}

func TestDraw_fontGlyph(t *testing.T) {
	cpu, _, _ := newTestCPU(t, 0xD125)
	cpu.i = memory.FontSpriteAddress(0x1)

	require.NoError(t, cpu.Step())
	// glyph "1": 0x20 0x60 0x20 0x20 0x70
	assert.Equal(t, []pixel{
		{2, 0},
		{1, 1}, {2, 1},
		{2, 2},
		{2, 3},
		{1, 4}, {2, 4}, {3, 4},
	}, lit(cpu))
}
