package runtime

import (
	"fmt"

	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

// PushQuotation implements push_quotation: ( -- quot ). In this reference
// runtime wrapper/impl are the same Go function value (the tailcc/C-ABI
// split is a codegen-time distinction with no Go-runtime analogue; both
// fields are kept on value.Quotation so codegen's emitted calls have a
// consistent target regardless of call position).
func PushQuotation(s *stack.Stack, fn value.QuotationFn) {
	s.Push(value.Value{Tag: value.TagQuotation, Quot: value.Quotation{Wrapper: fn, Impl: fn}})
}

// PushClosure implements push_closure: ( v1 .. vN -- closure ). Pops n
// captured values off the stack (in reverse push order, so the closure's
// environment reads left-to-right in capture order) into a fresh
// Arc-owned environment.
func PushClosure(s *stack.Stack, fn value.QuotationFn, n int) {
	env := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		env[i] = s.Pop()
	}
	h := value.NewHandle()
	h.EnvData = env
	s.Push(value.Value{Tag: value.TagClosure, Quot: value.Quotation{Wrapper: fn, Impl: fn, Env: h}})
}

// Call implements call: ( quot-or-closure -- ... ), dispatching by cell
// tag per spec.md 4.3. A closure's body function is expected to read its
// captured environment out of its own first argument convention; this
// reference runtime passes the stack itself since internal/value's
// QuotationFn takes a single interface{} argument (see value.go) — a full
// codegen-backed closure call would pass env/env_len alongside, wired once
// internal/codegen emits the real calling convention.
func Call(s *stack.Stack) {
	q := s.Pop()
	switch q.Tag {
	case value.TagQuotation, value.TagClosure:
		if q.Quot.Wrapper == nil {
			panic("call: quotation has no body")
		}
		q.Quot.Wrapper(s)
	default:
		panic(fmt.Sprintf("call: expected Quotation or Closure, got %s", q.Tag))
	}
}

// IsQuotation peeks the top cell and reports whether it is a plain
// Quotation (not a Closure), used by the compiler's tail-call-optimization
// decision for `call` (spec.md 4.2.3).
func IsQuotation(s *stack.Stack) bool {
	return s.Peek().Tag == value.TagQuotation
}
