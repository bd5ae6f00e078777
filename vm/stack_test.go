package vm

import (
	"errors"
	"testing"
)

func TestStackPushPop(t *testing.T) {
	s := NewStack(8)
	for _, v := range []int64{1, 2, 3} {
		if err := s.Push(v); err != nil {
			t.Fatalf("Push(%d) returned error: %v", v, err)
		}
	}
	if s.Depth() != 3 {
		t.Fatalf("Depth = %d, want 3", s.Depth())
	}
	for _, want := range []int64{3, 2, 1} {
		got, err := s.Pop()
		if err != nil {
			t.Fatalf("Pop returned error: %v", err)
		}
		if got != want {
			t.Errorf("Pop = %d, want %d", got, want)
		}
	}
}

func TestStackUnderflow(t *testing.T) {
	s := NewStack(8)
	_, err := s.Pop()
	if !errors.Is(err, ErrStackUnderflow) {
		t.Fatalf("Pop on empty stack: err = %v, want ErrStackUnderflow", err)
	}
	if s.Depth() != 0 {
		t.Errorf("Depth after underflow = %d, want 0", s.Depth())
	}
	// The stack stays usable.
	if err := s.Push(42); err != nil {
		t.Fatalf("Push after underflow returned error: %v", err)
	}
}

func TestStackOverflow(t *testing.T) {
	s := NewStack(2)
	s.Push(1)
	s.Push(2)
	err := s.Push(3)
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("Push past capacity: err = %v, want ErrStackOverflow", err)
	}
	if s.Depth() != 2 {
		t.Errorf("Depth after overflow = %d, want 2", s.Depth())
	}
}

func TestStackContents(t *testing.T) {
	s := NewStack(8)
	s.Push(10)
	s.Push(20)
	got := s.Contents()
	if len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Errorf("Contents = %v, want [10 20]", got)
	}
	// Mutating the copy must not touch the stack.
	got[0] = 99
	v, _ := s.Pop()
	if v != 20 {
		t.Errorf("Pop = %d, want 20", v)
	}
}

func TestStackDefaultCapacity(t *testing.T) {
	s := NewStack(0)
	for i := 0; i < DefaultStackSize; i++ {
		if err := s.Push(int64(i)); err != nil {
			t.Fatalf("Push %d returned error: %v", i, err)
		}
	}
	if err := s.Push(0); !errors.Is(err, ErrStackOverflow) {
		t.Errorf("Push past default capacity: err = %v, want ErrStackOverflow", err)
	}
}
