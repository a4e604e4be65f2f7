package runtime

import (
	"fmt"

	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

// callWithValue invokes callable on a fresh sub-stack seeded with v,
// returning the sub-stack's single remaining value and draining any
// extras for stack hygiene, matching original_source's
// call_with_value/drain_stack pair in list_ops.rs.
func callWithValue(callable value.Value, v value.Value) value.Value {
	if callable.Tag != value.TagQuotation && callable.Tag != value.TagClosure {
		panic(fmt.Sprintf("list operation: expected Quotation or Closure, got %s", callable.Tag))
	}
	sub := stack.New(4)
	sub.Push(v)
	callable.Quot.Wrapper(sub)
	if sub.IsEmpty() {
		panic("list operation: quotation consumed element without producing result")
	}
	result := sub.Pop()
	for !sub.IsEmpty() {
		sub.Drop()
	}
	return result
}

func requireListVariant(op string, v value.Value) *value.VariantData {
	if v.Tag != value.TagVariant || v.Heap == nil {
		panic(fmt.Sprintf("%s: expected Variant (list), got %s", op, v.Tag))
	}
	return v.Heap.Variant
}

// ListMap implements list.map: ( Variant Quotation -- Variant ), quotation
// effect ( elem -- elem' ).
func ListMap(s *stack.Stack) {
	callable := s.Pop()
	list := s.Pop()
	data := requireListVariant("list.map", list)
	results := make([]value.Value, len(data.Fields))
	for i, field := range data.Fields {
		results[i] = callWithValue(callable, field.Clone())
	}
	h := value.NewHandle()
	h.Variant = &value.VariantData{Tag: data.Tag, Fields: results}
	s.Push(value.Value{Tag: value.TagVariant, Heap: h})
}

// ListFilter implements list.filter: ( Variant Quotation -- Variant ),
// quotation effect ( elem -- Int ); elements are kept when the result is
// non-zero.
func ListFilter(s *stack.Stack) {
	callable := s.Pop()
	list := s.Pop()
	data := requireListVariant("list.filter", list)
	results := make([]value.Value, 0, len(data.Fields))
	for _, field := range data.Fields {
		result := callWithValue(callable, field.Clone())
		if result.Tag != value.TagInt {
			panic(fmt.Sprintf("list.filter: quotation must return Int, got %s", result.Tag))
		}
		if result.Int != 0 {
			results = append(results, field.Clone())
		}
	}
	h := value.NewHandle()
	h.Variant = &value.VariantData{Tag: data.Tag, Fields: results}
	s.Push(value.Value{Tag: value.TagVariant, Heap: h})
}

// ListFold implements list.fold: ( Variant init Quotation -- result ),
// quotation effect ( acc elem -- acc' ), left fold.
func ListFold(s *stack.Stack) {
	callable := s.Pop()
	init := s.Pop()
	list := s.Pop()
	data := requireListVariant("list.fold", list)

	acc := init
	for _, field := range data.Fields {
		if callable.Tag != value.TagQuotation && callable.Tag != value.TagClosure {
			panic(fmt.Sprintf("list.fold: expected Quotation or Closure, got %s", callable.Tag))
		}
		sub := stack.New(4)
		sub.Push(acc)
		sub.Push(field.Clone())
		callable.Quot.Wrapper(sub)
		if sub.IsEmpty() {
			panic("list.fold: quotation consumed inputs without producing result")
		}
		acc = sub.Pop()
		for !sub.IsEmpty() {
			sub.Drop()
		}
	}
	s.Push(acc)
}

// ListEach implements list.each: ( Variant Quotation -- ), quotation
// effect ( elem -- ), invoked once per element for its side effect.
func ListEach(s *stack.Stack) {
	callable := s.Pop()
	list := s.Pop()
	data := requireListVariant("list.each", list)
	if callable.Tag != value.TagQuotation && callable.Tag != value.TagClosure {
		panic(fmt.Sprintf("list.each: expected Quotation or Closure, got %s", callable.Tag))
	}
	for _, field := range data.Fields {
		sub := stack.New(4)
		sub.Push(field.Clone())
		callable.Quot.Wrapper(sub)
		for !sub.IsEmpty() {
			sub.Drop()
		}
	}
}

// ListLength implements list.length: ( Variant -- Int ).
func ListLength(s *stack.Stack) {
	v := s.Pop()
	data := requireListVariant("list.length", v)
	s.Push(value.IntVal(int64(len(data.Fields))))
}

// ListEmpty implements list.empty?: ( Variant -- Bool ).
func ListEmpty(s *stack.Stack) {
	v := s.Pop()
	data := requireListVariant("list.empty?", v)
	s.Push(value.BoolVal(len(data.Fields) == 0))
}
