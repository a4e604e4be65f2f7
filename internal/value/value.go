// Package value implements the tagged runtime value representation shared
// by internal/stack, internal/runtime, and internal/sched. It models the
// spec's 40-byte tagged slot conceptually (Go cannot force the exact byte
// width) while keeping the same discriminant set and heap-ownership rules.
// This is the representation internal/runtime's primitives and the
// interpretive `seqc run` pipeline operate on directly; the tagged vs.
// NaN-boxed choice in spec.md 3.3 is instead a compiled-output concern,
// selected at codegen time through internal/codegen's Emitter interface
// (internal/codegen/tagged, internal/codegen/nanbox) rather than through a
// second representation of this package's Value type.
package value

import "fmt"

// Tag is the discriminant fixed across runtime and codegen.
type Tag byte

const (
	TagInt       Tag = 0
	TagFloat     Tag = 1
	TagBool      Tag = 2
	TagString    Tag = 3
	TagVariant   Tag = 4
	TagMap       Tag = 5
	TagQuotation Tag = 6
	TagClosure   Tag = 7
	TagChannel   Tag = 8
	TagWeaveCtx  Tag = 9
	TagSymbol    Tag = 10
)

var tagNames = map[Tag]string{
	TagInt: "Int", TagFloat: "Float", TagBool: "Bool", TagString: "String",
	TagVariant: "Variant", TagMap: "Map", TagQuotation: "Quotation",
	TagClosure: "Closure", TagChannel: "Channel", TagWeaveCtx: "WeaveCtx",
	TagSymbol: "Symbol",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tag(%d)", byte(t))
}

// Value is one operand-stack cell. Only the field matching Tag is valid;
// this mirrors the tagged encoding's fixed discriminant-determines-layout
// invariant (spec.md 3.3: "Mismatch is a compile-error-level bug" — in Go,
// each payload has its own field, so reading the wrong field yields that
// field's zero value rather than reinterpreted bytes; it does not panic).
type Value struct {
	Tag   Tag
	Int   int64
	Float float64
	Bool  bool
	Str   Str
	// Heap is the reference-counted handle for Variant, Channel, WeaveCtx,
	// and Map (Map is deep-cloned rather than shared, but still carried as
	// a Handle so Drop/clone bookkeeping is uniform).
	Heap *Handle
	// Quot is set for Quotation/Closure cells.
	Quot Quotation
	// Sym is set for Symbol cells: interned symbols share a pointer for
	// O(1) equality; runtime-created ones degrade to string comparison.
	Sym Symbol
}

// Quotation carries the dual function-pointer pair spec.md 3.3 requires:
// Wrapper is the C-ABI entry used by runtime calls (patch_seq_call),
// Impl is the tailcc musttail target for tail-position invocations emitted
// by codegen. In the Go reference runtime both are represented as Go
// function values operating on *stack.Stack; codegen emits the LLVM-level
// pointer pair independently (internal/codegen/emitter.go).
type Quotation struct {
	Wrapper QuotationFn
	Impl    QuotationFn
	// Env is non-nil for a Closure: the refcounted captured environment.
	Env *Handle
}

// QuotationFn is the Go-runtime shape of a compiled or interpreted word
// body: it receives the stack it should mutate in place (by interface to
// avoid an import cycle with internal/stack) and returns nothing, matching
// internal/stack.Stack's in-place Push/Pop model rather than the original
// pointer-returning convention that reallocation-prone stack required. The
// concrete stack type is internal/stack.Stack, type-asserted at call sites
// in internal/runtime.
type QuotationFn func(s interface{})

func IntVal(n int64) Value     { return Value{Tag: TagInt, Int: n} }
func FloatVal(f float64) Value { return Value{Tag: TagFloat, Float: f} }
func BoolVal(b bool) Value     { return Value{Tag: TagBool, Bool: b} }

func (v Value) IsHeap() bool {
	switch v.Tag {
	case TagVariant, TagChannel, TagWeaveCtx, TagMap:
		return true
	default:
		return false
	}
}

// Clone returns the value as it should appear after a stack duplication,
// applying spec.md 3.3's heap-ownership rules: POD values copy bitwise,
// Arc-style handles bump a refcount, Map deep-clones, Closure environments
// bump their Arc refcount, Symbol is O(1) for interned symbols.
func (v Value) Clone() Value {
	switch v.Tag {
	case TagString:
		return Value{Tag: TagString, Str: v.Str.Clone()}
	case TagVariant, TagChannel, TagWeaveCtx:
		if v.Heap != nil {
			v.Heap.Retain()
		}
		return v
	case TagMap:
		if v.Heap != nil {
			return Value{Tag: TagMap, Heap: v.Heap.DeepCloneMap()}
		}
		return v
	case TagClosure:
		if v.Quot.Env != nil {
			v.Quot.Env.Retain()
		}
		return v
	default:
		return v
	}
}

// Release drops one reference to a value's heap handle, if it has one.
// Called whenever a cell is popped and discarded without being re-pushed
// elsewhere (the resource/ownership side of a `drop`).
func (v Value) Release() {
	switch v.Tag {
	case TagVariant, TagChannel, TagWeaveCtx, TagMap:
		if v.Heap != nil {
			v.Heap.Release()
		}
	case TagClosure:
		if v.Quot.Env != nil {
			v.Quot.Env.Release()
		}
	}
}

func (v Value) String() string {
	switch v.Tag {
	case TagInt:
		return fmt.Sprintf("%d", v.Int)
	case TagFloat:
		return fmt.Sprintf("%g", v.Float)
	case TagBool:
		return fmt.Sprintf("%t", v.Bool)
	case TagString:
		return v.Str.Value()
	case TagSymbol:
		return "#" + v.Sym.Name
	default:
		return v.Tag.String()
	}
}
