package runtime

import (
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

func mapKeyOf(v value.Value) value.MapKey {
	switch v.Tag {
	case value.TagInt:
		return value.MapKey{Tag: value.TagInt, I: v.Int}
	case value.TagBool:
		return value.MapKey{Tag: value.TagBool, B: v.Bool}
	case value.TagString:
		return value.MapKey{Tag: value.TagString, S: v.Str.Value()}
	case value.TagSymbol:
		return value.MapKey{Tag: value.TagSymbol, S: v.Sym.Name}
	default:
		panic("map: unsupported key type " + v.Tag.String())
	}
}

// MapMake implements map.make: ( -- Map ).
func MapMake(s *stack.Stack) {
	h := value.NewHandle()
	h.MapData = value.NewMapData()
	s.Push(value.Value{Tag: value.TagMap, Heap: h})
}

// MapSet implements map.set: ( Map key value -- Map ), mutating in place
// (Map is deep-cloned on duplication, not on every mutation, per spec.md
// 3.3 — set mutates the one live handle on the stack).
func MapSet(s *stack.Stack) {
	v := s.Pop()
	k := s.Pop()
	m := s.Peek()
	m.Heap.MapData.Set(mapKeyOf(k), v)
}

// MapGet implements map.get: ( Map key -- value Bool ).
func MapGet(s *stack.Stack) {
	k := s.Pop()
	m := s.Pop()
	v, ok := m.Heap.MapData.Get(mapKeyOf(k))
	if !ok {
		s.Push(value.IntVal(0))
		s.Push(value.BoolVal(false))
		return
	}
	s.Push(v.Clone())
	s.Push(value.BoolVal(true))
}

// MapHas implements map.has?: ( Map key -- Bool ).
func MapHas(s *stack.Stack) {
	k := s.Pop()
	m := s.Pop()
	_, ok := m.Heap.MapData.Get(mapKeyOf(k))
	s.Push(value.BoolVal(ok))
}

// MapRemove implements map.remove: ( Map key -- Map ).
func MapRemove(s *stack.Stack) {
	k := s.Pop()
	m := s.Peek()
	m.Heap.MapData.Delete(mapKeyOf(k))
}

// MapSize implements map.size: ( Map -- Int ).
func MapSize(s *stack.Stack) {
	m := s.Pop()
	s.Push(value.IntVal(int64(m.Heap.MapData.Len())))
}

// MapEmpty implements map.empty?: ( Map -- Bool ).
func MapEmpty(s *stack.Stack) {
	m := s.Pop()
	s.Push(value.BoolVal(m.Heap.MapData.Len() == 0))
}
