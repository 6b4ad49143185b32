package cpu

import "errors"

// StackDepth is the maximum number of nested subroutine calls.
const StackDepth = 12

var (
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")
)

// Stack is a fixed capacity LIFO of return addresses.
type Stack struct {
	entries [StackDepth]uint16
	sp      int
}

func (s *Stack) Push(address uint16) error {
	if s.sp >= StackDepth {
		return ErrStackOverflow
	}
	s.entries[s.sp] = address
	s.sp++
	return nil
}

func (s *Stack) Pop() (uint16, error) {
	if s.sp == 0 {
		return 0, ErrStackUnderflow
	}
	s.sp--
	return s.entries[s.sp], nil
}

func (s *Stack) Len() int {
	return s.sp
}

// Entries returns a copy of the stack contents, bottom first.
func (s *Stack) Entries() []uint16 {
	out := make([]uint16, s.sp)
	copy(out, s.entries[:s.sp])
	return out
}

func (s *Stack) Reset() {
	s.sp = 0
}
