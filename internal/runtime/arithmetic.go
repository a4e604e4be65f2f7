// Package runtime implements the frozen primitive catalogue spec.md 4.3
// describes: every `patch_seq_*` entry point generated code calls. Ported
// from original_source/crates/runtime/src/{arithmetic,channel,closures,
// quotations,list_ops,string_ops}.rs's operation set, adapted from the
// original's pointer-returning calling convention (Stack -> Stack) to
// internal/stack.Stack's in-place mutation model, since spec.md 3.4
// already redesigned the stack representation away from the
// reallocation-prone linked list that convention existed for.
package runtime

import (
	"fmt"

	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

// Add implements add: ( a b -- a+b ).
func Add(s *stack.Stack) { binInt(s, func(a, b int64) int64 { return a + b }) }

// Subtract implements subtract: ( a b -- a-b ).
func Subtract(s *stack.Stack) { binInt(s, func(a, b int64) int64 { return a - b }) }

// Multiply implements multiply: ( a b -- a*b ).
func Multiply(s *stack.Stack) { binInt(s, func(a, b int64) int64 { return a * b }) }

// Divide implements divide: ( a b -- a/b ). Explicit panic on division by
// zero, per spec.md 4.3.
func Divide(s *stack.Stack) {
	binInt(s, func(a, b int64) int64 {
		if b == 0 {
			panic("divide: division by zero")
		}
		return a / b
	})
}

// Mod implements mod: ( a b -- a%b ).
func Mod(s *stack.Stack) {
	binInt(s, func(a, b int64) int64 {
		if b == 0 {
			panic("mod: division by zero")
		}
		return a % b
	})
}

func Band(s *stack.Stack) { binInt(s, func(a, b int64) int64 { return a & b }) }
func Bor(s *stack.Stack)  { binInt(s, func(a, b int64) int64 { return a | b }) }
func Bxor(s *stack.Stack) { binInt(s, func(a, b int64) int64 { return a ^ b }) }
func Shl(s *stack.Stack)  { binInt(s, func(a, b int64) int64 { return a << uint64(b) }) }
func Shr(s *stack.Stack)  { binInt(s, func(a, b int64) int64 { return a >> uint64(b) }) }

func Bnot(s *stack.Stack) {
	a := s.Pop()
	s.Push(value.IntVal(^a.Int))
}

func Popcount(s *stack.Stack) {
	a := s.Pop()
	n := a.Int
	count := int64(0)
	for n != 0 {
		count += n & 1
		n = int64(uint64(n) >> 1)
	}
	s.Push(value.IntVal(count))
}

func Clz(s *stack.Stack) {
	a := s.Pop()
	n := uint64(a.Int)
	count := int64(0)
	for i := 63; i >= 0 && n&(1<<uint(i)) == 0; i-- {
		count++
	}
	s.Push(value.IntVal(count))
}

func Ctz(s *stack.Stack) {
	a := s.Pop()
	n := uint64(a.Int)
	if n == 0 {
		s.Push(value.IntVal(64))
		return
	}
	count := int64(0)
	for n&1 == 0 {
		count++
		n >>= 1
	}
	s.Push(value.IntVal(count))
}

func binInt(s *stack.Stack, f func(a, b int64) int64) {
	b := s.Pop()
	a := s.Pop()
	s.Push(value.IntVal(f(a.Int, b.Int)))
}

func cmpInt(s *stack.Stack, f func(a, b int64) bool) {
	b := s.Pop()
	a := s.Pop()
	s.Push(value.BoolVal(f(a.Int, b.Int)))
}

func Eq(s *stack.Stack)  { cmpInt(s, func(a, b int64) bool { return a == b }) }
func Neq(s *stack.Stack) { cmpInt(s, func(a, b int64) bool { return a != b }) }
func Lt(s *stack.Stack)  { cmpInt(s, func(a, b int64) bool { return a < b }) }
func Gt(s *stack.Stack)  { cmpInt(s, func(a, b int64) bool { return a > b }) }
func Lte(s *stack.Stack) { cmpInt(s, func(a, b int64) bool { return a <= b }) }
func Gte(s *stack.Stack) { cmpInt(s, func(a, b int64) bool { return a >= b }) }

func binFloat(s *stack.Stack, f func(a, b float64) float64) {
	b := s.Pop()
	a := s.Pop()
	s.Push(value.FloatVal(f(a.Float, b.Float)))
}

func cmpFloat(s *stack.Stack, f func(a, b float64) bool) {
	b := s.Pop()
	a := s.Pop()
	s.Push(value.BoolVal(f(a.Float, b.Float)))
}

func FAdd(s *stack.Stack) { binFloat(s, func(a, b float64) float64 { return a + b }) }
func FSub(s *stack.Stack) { binFloat(s, func(a, b float64) float64 { return a - b }) }
func FMul(s *stack.Stack) { binFloat(s, func(a, b float64) float64 { return a * b }) }
func FDiv(s *stack.Stack) {
	binFloat(s, func(a, b float64) float64 {
		if b == 0 {
			panic("f.div: division by zero")
		}
		return a / b
	})
}

func FEq(s *stack.Stack) { cmpFloat(s, func(a, b float64) bool { return a == b }) }
func FLt(s *stack.Stack) { cmpFloat(s, func(a, b float64) bool { return a < b }) }
func FGt(s *stack.Stack) { cmpFloat(s, func(a, b float64) bool { return a > b }) }

// IntToString implements int->string: ( n -- s ).
func IntToString(s *stack.Stack) {
	a := s.Pop()
	s.Push(value.Value{Tag: value.TagString, Str: value.NewGlobal(fmt.Sprintf("%d", a.Int))})
}

// StringToInt implements string->int: ( s -- n Bool ).
func StringToInt(s *stack.Stack) {
	a := s.Pop()
	var n int64
	_, err := fmt.Sscanf(a.Str.Value(), "%d", &n)
	if err != nil {
		s.Push(value.IntVal(0))
		s.Push(value.BoolVal(false))
		return
	}
	s.Push(value.IntVal(n))
	s.Push(value.BoolVal(true))
}

// FloatToString implements float->string: ( f -- s ).
func FloatToString(s *stack.Stack) {
	a := s.Pop()
	s.Push(value.Value{Tag: value.TagString, Str: value.NewGlobal(fmt.Sprintf("%g", a.Float))})
}

// StringToFloat implements string->float: ( s -- f Bool ).
func StringToFloat(s *stack.Stack) {
	a := s.Pop()
	var f float64
	_, err := fmt.Sscanf(a.Str.Value(), "%g", &f)
	if err != nil {
		s.Push(value.FloatVal(0))
		s.Push(value.BoolVal(false))
		return
	}
	s.Push(value.FloatVal(f))
	s.Push(value.BoolVal(true))
}
