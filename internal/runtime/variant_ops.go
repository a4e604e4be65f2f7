package runtime

import (
	"fmt"

	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

func variantOf(v value.Value) *value.VariantData {
	if v.Tag != value.TagVariant || v.Heap == nil {
		panic(fmt.Sprintf("variant op: expected Variant, got %s", v.Tag))
	}
	return v.Heap.Variant
}

// MakeN implements variant.make-0..make-4: ( f1..fN tag -- Variant ), where
// tag is an interned Symbol naming the constructor.
func MakeN(s *stack.Stack, n int) {
	tag := s.Pop()
	fields := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		fields[i] = s.Pop()
	}
	h := value.NewHandle()
	h.Variant = &value.VariantData{Tag: tag.Sym.Name, Fields: fields}
	s.Push(value.Value{Tag: value.TagVariant, Heap: h})
}

// FieldCount implements variant.field-count: ( Variant -- Int ).
func FieldCount(s *stack.Stack) {
	v := s.Pop()
	s.Push(value.IntVal(int64(len(variantOf(v).Fields))))
}

// FieldAt implements variant.at: ( Variant idx -- Variant field ), a
// non-consuming read (the variant stays live for further field access).
func FieldAt(s *stack.Stack) {
	idx := s.Pop()
	v := s.Peek()
	fields := variantOf(v).Fields
	i := int(idx.Int)
	if i < 0 || i >= len(fields) {
		panic(fmt.Sprintf("variant.at: index %d out of range (len %d)", i, len(fields)))
	}
	s.Push(fields[i].Clone())
}

// VariantTag implements variant.tag: ( Variant -- Variant Symbol ).
func VariantTag(s *stack.Stack) {
	v := s.Peek()
	s.Push(value.Value{Tag: value.TagSymbol, Sym: value.Intern(variantOf(v).Tag)})
}

// Append implements variant.append: ( Variant field -- Variant' ), treating
// the variant as an ordered sequence (spec.md 4.3's list-combinator view of
// variants).
func Append(s *stack.Stack) {
	field := s.Pop()
	v := s.Pop()
	old := variantOf(v)
	fields := make([]value.Value, len(old.Fields)+1)
	copy(fields, old.Fields)
	fields[len(old.Fields)] = field
	h := value.NewHandle()
	h.Variant = &value.VariantData{Tag: old.Tag, Fields: fields}
	s.Push(value.Value{Tag: value.TagVariant, Heap: h})
}

// Init implements variant.init: ( Variant -- Variant' ), all fields but the last.
func Init(s *stack.Stack) {
	v := s.Pop()
	old := variantOf(v)
	n := len(old.Fields)
	if n == 0 {
		panic("variant.init: empty variant")
	}
	fields := make([]value.Value, n-1)
	copy(fields, old.Fields[:n-1])
	h := value.NewHandle()
	h.Variant = &value.VariantData{Tag: old.Tag, Fields: fields}
	s.Push(value.Value{Tag: value.TagVariant, Heap: h})
}

// Last implements variant.last: ( Variant -- Variant field ), non-consuming.
func Last(s *stack.Stack) {
	v := s.Peek()
	fields := variantOf(v).Fields
	if len(fields) == 0 {
		panic("variant.last: empty variant")
	}
	s.Push(fields[len(fields)-1].Clone())
}
