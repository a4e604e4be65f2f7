// Package stack implements the contiguous-array operand stack spec.md 3.4
// mandates: a fixed-width cell array with a stack pointer sp that always
// points one past the top. This is a deliberate redesign away from
// original_source's linked-list Stack (runtime/src/stack.rs) — see
// DESIGN.md — while the shuffle-operation *semantics* below (rot/nip/tuck/
// pick edge cases) are carried over from that file's logic and test suite.
package stack

import (
	"fmt"

	"github.com/funvibe/seqc/internal/value"
)

// Stack is a per-strand operand stack. Not safe for concurrent use from
// more than one goroutine; a strand owns exactly one Stack at a time.
type Stack struct {
	cells []value.Value
	sp    int
}

// New returns an empty stack with the given initial capacity hint.
func New(capacityHint int) *Stack {
	if capacityHint < 8 {
		capacityHint = 8
	}
	return &Stack{cells: make([]value.Value, capacityHint)}
}

func (s *Stack) Depth() int { return s.sp }
func (s *Stack) IsEmpty() bool { return s.sp == 0 }

func (s *Stack) grow() {
	next := make([]value.Value, len(s.cells)*2)
	copy(next, s.cells)
	s.cells = next
}

// Push writes *sp and advances sp, per spec.md 3.4.
func (s *Stack) Push(v value.Value) {
	if s.sp == len(s.cells) {
		s.grow()
	}
	s.cells[s.sp] = v
	s.sp++
}

// Pop reads *(sp-1) and retreats sp. Panics on underflow — ArityUnderflow
// is a compile-time diagnostic (spec.md 4.1), so reaching an empty pop at
// runtime indicates a codegen or inference bug, not a recoverable error.
func (s *Stack) Pop() value.Value {
	if s.sp == 0 {
		panic("stack: pop on empty stack")
	}
	s.sp--
	v := s.cells[s.sp]
	s.cells[s.sp] = value.Value{}
	return v
}

// Peek returns the top value without popping it.
func (s *Stack) Peek() value.Value {
	if s.sp == 0 {
		panic("stack: peek on empty stack")
	}
	return s.cells[s.sp-1]
}

// PeekAt returns the value n cells below the top (0 = top), matching
// pick's indexing convention.
func (s *Stack) PeekAt(n int) value.Value {
	idx := s.sp - 1 - n
	if idx < 0 {
		panic(fmt.Sprintf("stack: peek depth %d exceeds stack depth %d", n, s.sp))
	}
	return s.cells[idx]
}

// Dup: ( a -- a a )
func (s *Stack) Dup() {
	top := s.Peek()
	s.Push(top.Clone())
}

// Drop: ( a -- ), releasing any heap reference the popped value owned.
func (s *Stack) Drop() {
	v := s.Pop()
	v.Release()
}

// Swap: ( a b -- b a )
func (s *Stack) Swap() {
	a := s.Pop()
	b := s.Pop()
	s.Push(a)
	s.Push(b)
}

// Over: ( a b -- a b a )
func (s *Stack) Over() {
	b := s.Pop()
	a := s.Pop()
	s.Push(a)
	s.Push(b)
	s.Push(a.Clone())
}

// Rot: ( a b c -- b c a )
func (s *Stack) Rot() {
	c := s.Pop()
	b := s.Pop()
	a := s.Pop()
	s.Push(b)
	s.Push(c)
	s.Push(a)
}

// NegRot (-rot): ( a b c -- c a b )
func (s *Stack) NegRot() {
	c := s.Pop()
	b := s.Pop()
	a := s.Pop()
	s.Push(c)
	s.Push(a)
	s.Push(b)
}

// Nip: ( a b -- b )
func (s *Stack) Nip() {
	b := s.Pop()
	a := s.Pop()
	a.Release()
	s.Push(b)
}

// Tuck: ( a b -- b a b )
func (s *Stack) Tuck() {
	b := s.Pop()
	a := s.Pop()
	s.Push(b.Clone())
	s.Push(a)
	s.Push(b)
}

// TwoDup: ( a b -- a b a b )
func (s *Stack) TwoDup() {
	b := s.Pop()
	a := s.Pop()
	s.Push(a)
	s.Push(b)
	s.Push(a.Clone())
	s.Push(b.Clone())
}

// ThreeDrop: ( a b c -- )
func (s *Stack) ThreeDrop() {
	s.Drop()
	s.Drop()
	s.Drop()
}

// Pick copies the nth-from-top item (0 = dup, 1 = over) to the top,
// matching pick_0_is_dup / pick_1_is_over from the grounding test suite.
func (s *Stack) Pick(n int) {
	v := s.PeekAt(n)
	s.Push(v.Clone())
}

// Roll moves the nth-from-top item to the top, shifting the items above it
// down by one (roll 0 is a no-op, roll 1 is swap).
func (s *Stack) Roll(n int) {
	if n == 0 {
		return
	}
	idx := s.sp - 1 - n
	if idx < 0 {
		panic(fmt.Sprintf("stack: roll depth %d exceeds stack depth %d", n, s.sp))
	}
	v := s.cells[idx]
	copy(s.cells[idx:s.sp-1], s.cells[idx+1:s.sp])
	s.cells[s.sp-1] = v
}

// CloneWithBase returns a deep, independently-owned copy of the stack
// suitable for handing to a spawned strand (spec.md 3.4, 4.4): every value
// is cloned via Value.Clone, and any arena string among them is promoted
// to a global string since it is about to cross a scheduling boundary
// (spec.md 3.3, 5).
func (s *Stack) CloneWithBase() *Stack {
	out := New(len(s.cells))
	out.sp = s.sp
	for i := 0; i < s.sp; i++ {
		v := s.cells[i].Clone()
		if v.Tag == value.TagString && !v.Str.Global {
			v.Str = v.Str.Promote()
		}
		out.cells[i] = v
	}
	return out
}

// Snapshot returns the live cells (top at the end), for diagnostics/tests
// only — callers must not mutate the returned slice.
func (s *Stack) Snapshot() []value.Value {
	return s.cells[:s.sp]
}
