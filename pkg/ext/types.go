// Package ext is the public FFI surface a host Go binary uses to provide
// an `ffi:name` include's primitive words, mirroring the teacher's
// pkg/ext's role as the boundary third-party extension code links
// against without importing internal/* directly.
//
// Type aliases re-export internal/value and internal/stack's types so an
// extension author never needs an internal/ import path in their own
// module; RegisterExtBuiltins mirrors the teacher's
// evaluator.RegisterExtBuiltins call convention, translated from
// name→Object builtins to name→Primitive stack operations.
package ext

import (
	"fmt"

	"github.com/funvibe/seqc/internal/runtime"
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

// Re-exported types an extension author's code operates on.
type (
	Value     = value.Value
	Tag       = value.Tag
	Stack     = stack.Stack
	Primitive = runtime.Primitive
	Handle    = value.Handle
)

// RegisterExtBuiltins registers the primitive words an `ffi:name` include
// resolves to, keyed by the module's name (the text after "ffi:"). Call
// this from an init() in the extension's own package before the host
// binary builds any internal/interp.Interpreter.
func RegisterExtBuiltins(name string, builtins map[string]Primitive) {
	runtime.RegisterExtBuiltins(name, builtins)
}

// NewError panics with a formatted message, matching
// internal/interp's convention of panicking on primitive misuse rather
// than threading a Go error return through value.QuotationFn's
// interface{}-stack signature.
func NewError(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

// Constructors mirroring internal/value's own (IntVal, FloatVal,
// BoolVal), plus String/Variant forms not exported at top level there.
func NewInt(n int64) Value     { return value.IntVal(n) }
func NewFloat(f float64) Value { return value.FloatVal(f) }
func NewBool(b bool) Value     { return value.BoolVal(b) }

func NewString(s string) Value {
	return Value{Tag: value.TagString, Str: value.NewGlobal(s)}
}

// NewVariant builds a Variant cell tagged tag with the given fields, the
// same shape variant.make-N produces (internal/runtime/variant_ops.go).
func NewVariant(tag string, fields ...Value) Value {
	h := value.NewHandle()
	h.Variant = &value.VariantData{Tag: tag, Fields: fields}
	return Value{Tag: value.TagVariant, Heap: h}
}

// ToSeq converts a handful of common Go types to their Value
// representation, for extension authors translating a host API's return
// values onto the stack. Anything not covered here is almost certainly
// best expressed through NewVariant or NewString by hand, so no generic
// reflection-based fallback is attempted.
func ToSeq(v interface{}) Value {
	switch x := v.(type) {
	case int:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case float64:
		return NewFloat(x)
	case bool:
		return NewBool(x)
	case string:
		return NewString(x)
	default:
		NewError("ext.ToSeq: unsupported Go type %T", v)
		return Value{}
	}
}
