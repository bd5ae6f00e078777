package vm

import "fmt"

// DefaultStackSize is the data stack capacity used when none is configured.
const DefaultStackSize = 256

// Stack is the fixed-capacity integer data stack. Underflow and overflow
// are reported errors, never panics, and a failed Pop leaves depth at 0.
type Stack struct {
	cells []int64
}

// NewStack creates a stack with the given capacity. A non-positive capacity
// falls back to DefaultStackSize.
func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultStackSize
	}
	return &Stack{cells: make([]int64, 0, capacity)}
}

// Push appends v to the top of the stack.
func (s *Stack) Push(v int64) error {
	if len(s.cells) >= cap(s.cells) {
		return fmt.Errorf("%w: capacity %d", ErrStackOverflow, cap(s.cells))
	}
	s.cells = append(s.cells, v)
	return nil
}

// Pop removes and returns the top of the stack.
func (s *Stack) Pop() (int64, error) {
	if len(s.cells) == 0 {
		return 0, ErrStackUnderflow
	}
	v := s.cells[len(s.cells)-1]
	s.cells = s.cells[:len(s.cells)-1]
	return v, nil
}

// Depth returns the number of cells on the stack.
func (s *Stack) Depth() int {
	return len(s.cells)
}

// Contents returns a copy of the stack, bottom first.
func (s *Stack) Contents() []int64 {
	out := make([]int64, len(s.cells))
	copy(out, s.cells)
	return out
}

// Reset discards all cells.
func (s *Stack) Reset() {
	s.cells = s.cells[:0]
}
