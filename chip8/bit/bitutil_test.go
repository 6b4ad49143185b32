package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, uint16(0x2300), Combine(0x23, 0x00))
	assert.Equal(t, uint16(0x00EE), Combine(0x00, 0xEE))
	assert.Equal(t, uint16(0xFFFF), Combine(0xFF, 0xFF))
}

func TestLow(t *testing.T) {
	assert.Equal(t, uint8(0x25), Low(0xD125))
	assert.Equal(t, uint8(0x00), Low(0xFF00))
}

func TestNibble(t *testing.T) {
	value := uint16(0xD125)

	assert.Equal(t, uint8(0x5), Nibble(value, 0))
	assert.Equal(t, uint8(0x2), Nibble(value, 1))
	assert.Equal(t, uint8(0x1), Nibble(value, 2))
	assert.Equal(t, uint8(0xD), Nibble(value, 3))
}

func TestCheckedAdd(t *testing.T) {
	testCases := []struct {
		desc     string
		a, b     uint8
		want     uint8
		overflow bool
	}{
		{desc: "no overflow", a: 0x10, b: 0x20, want: 0x30},
		{desc: "exactly 255", a: 0xF0, b: 0x0F, want: 0xFF},
		{desc: "overflow wraps", a: 250, b: 10, want: 4, overflow: true},
		{desc: "max plus max", a: 0xFF, b: 0xFF, want: 0xFE, overflow: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got, overflow := CheckedAdd(tC.a, tC.b)
			assert.Equal(t, tC.want, got)
			assert.Equal(t, tC.overflow, overflow)
		})
	}
}

func TestCheckedSub(t *testing.T) {
	testCases := []struct {
		desc   string
		a, b   uint8
		want   uint8
		borrow bool
	}{
		{desc: "no borrow", a: 10, b: 5, want: 5},
		{desc: "equal values do not borrow", a: 7, b: 7, want: 0},
		{desc: "borrow wraps", a: 5, b: 10, want: 251, borrow: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got, borrow := CheckedSub(tC.a, tC.b)
			assert.Equal(t, tC.want, got)
			assert.Equal(t, tC.borrow, borrow)
		})
	}
}

func TestIsSet(t *testing.T) {
	assert.True(t, IsSet(7, 0x80))
	assert.False(t, IsSet(6, 0x80))
	assert.True(t, IsSet(0, 0x01))
	assert.Equal(t, uint8(1), GetBitValue(7, 0xF0))
	assert.Equal(t, uint8(0), GetBitValue(0, 0xF0))
}
