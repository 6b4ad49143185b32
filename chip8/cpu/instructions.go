package cpu

import (
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/video"
)

const spriteWidth = 8

// execute dispatches on the instruction class. It reports whether the
// opcode is part of the implemented set.
func (c *CPU) execute(in Instruction) (bool, error) {
	switch in.Class {
	case 0x0:
		switch in.Opcode {
		case 0x00E0:
			c.display.Clear()
			return true, nil
		case 0x00EE:
			return true, c.ret()
		}
	case 0x1:
		c.pc = in.NNN
		return true, nil
	case 0x2:
		return true, c.call(in.NNN)
	case 0x3:
		c.skipIf(c.v[in.X] == in.NN)
		return true, nil
	case 0x4:
		c.skipIf(c.v[in.X] != in.NN)
		return true, nil
	case 0x5:
		if in.N == 0 {
			c.skipIf(c.v[in.X] == c.v[in.Y])
			return true, nil
		}
	case 0x6:
		c.v[in.X] = in.NN
		return true, nil
	case 0x7:
		c.v[in.X] += in.NN
		return true, nil
	case 0x8:
		return c.alu(in), nil
	case 0x9:
		if in.N == 0 {
			c.skipIf(c.v[in.X] != c.v[in.Y])
			return true, nil
		}
	case 0xA:
		c.i = in.NNN
		return true, nil
	case 0xD:
		c.draw(c.v[in.X], c.v[in.Y], in.N)
		return true, nil
	}

	return false, nil
}

func (c *CPU) call(address uint16) error {
	if err := c.stack.Push(c.pc); err != nil {
		return err
	}
	c.pc = address
	return nil
}

func (c *CPU) ret() error {
	address, err := c.stack.Pop()
	if err != nil {
		return err
	}
	c.pc = address
	return nil
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.advance()
	}
}

// alu handles the 8XYN register operations. VF is always written after VX.
func (c *CPU) alu(in Instruction) bool {
	vx, vy := c.v[in.X], c.v[in.Y]

	switch in.N {
	case 0x0:
		c.v[in.X] = vy
	case 0x1:
		c.v[in.X] = vx | vy
	case 0x2:
		c.v[in.X] = vx & vy
	case 0x3:
		c.v[in.X] = vx ^ vy
	case 0x4:
		sum, carry := bit.CheckedAdd(vx, vy)
		c.v[in.X] = sum
		c.setFlag(carry)
	case 0x5:
		diff, borrow := bit.CheckedSub(vx, vy)
		c.v[in.X] = diff
		c.setFlag(!borrow)
	case 0x6:
		c.v[in.X] = vx >> 1
		c.v[flagRegister] = bit.GetBitValue(0, vx)
	case 0x7:
		diff, borrow := bit.CheckedSub(vy, vx)
		c.v[in.X] = diff
		c.setFlag(!borrow)
	case 0xE:
		c.v[in.X] = vx << 1
		c.v[flagRegister] = bit.GetBitValue(7, vx)
	default:
		return false
	}

	return true
}

func (c *CPU) setFlag(cond bool) {
	if cond {
		c.v[flagRegister] = 1
	} else {
		c.v[flagRegister] = 0
	}
}

// draw XORs an 8xN sprite read from memory at I onto the display. The
// starting position wraps around the screen, the sprite itself is clipped
// at the right and bottom edges. VF is set if any lit pixel was turned off.
func (c *CPU) draw(vx, vy, rows uint8) {
	x0 := uint(vx) % video.FramebufferWidth
	y0 := uint(vy) % video.FramebufferHeight
	c.v[flagRegister] = 0

	for row := uint(0); row < uint(rows); row++ {
		y := y0 + row
		if y >= video.FramebufferHeight {
			break
		}

		sprite := c.bus.Read(c.i + uint16(row))
		for col := uint(0); col < spriteWidth; col++ {
			x := x0 + col
			if x >= video.FramebufferWidth {
				break
			}
			if !bit.IsSet(uint8(7-col), sprite) {
				continue
			}
			if c.display.TogglePixel(x, y) {
				c.v[flagRegister] = 1
			}
		}
	}
}
