// Package types implements the row-polymorphic type system for stack effects:
// concrete value types, stack types (rows), effects, substitutions, and
// unification. Adapted from the teacher's internal/typesystem, generalized
// from structural/nominal value-type unification to stack-effect unification.
package types

import "fmt"

// Type is a concrete value type or a unification variable.
type Type interface {
	typeNode()
	String() string
}

type TVar struct{ Name string }

type TInt struct{}
type TFloat struct{}
type TBool struct{}
type TString struct{}
type TSymbol struct{}

// TVariant is a reference to a union's tag space; Union is the union name,
// or "" for an unresolved/generic variant (field types are not tracked
// per-tag here — field arity/types are checked structurally at each
// variant.make-N / field-at call site against the UnionDef table).
type TVariant struct{ Union string }

type TMap struct {
	Key   Type
	Value Type
}

type TChannel struct{ Elem Type }
type TWeaveCtx struct{ Elem Type }

// TQuotation is a first-class code block's type: the effect it performs
// when called.
type TQuotation struct{ Effect *Effect }

// TClosure is a quotation type paired with a captured-environment marker;
// closures and quotations unify against each other (call is polymorphic
// over both) but are distinct types for codegen's dual-pointer decision.
type TClosure struct{ Effect *Effect }

func (TVar) typeNode()      {}
func (TInt) typeNode()      {}
func (TFloat) typeNode()    {}
func (TBool) typeNode()     {}
func (TString) typeNode()   {}
func (TSymbol) typeNode()   {}
func (TVariant) typeNode()  {}
func (TMap) typeNode()      {}
func (TChannel) typeNode()  {}
func (TWeaveCtx) typeNode() {}
func (TQuotation) typeNode() {}
func (TClosure) typeNode()  {}

func (t TVar) String() string   { return t.Name }
func (TInt) String() string     { return "Int" }
func (TFloat) String() string   { return "Float" }
func (TBool) String() string    { return "Bool" }
func (TString) String() string  { return "String" }
func (TSymbol) String() string  { return "Symbol" }
func (t TVariant) String() string {
	if t.Union == "" {
		return "Variant"
	}
	return t.Union
}
func (t TMap) String() string { return fmt.Sprintf("Map<%s,%s>", t.Key, t.Value) }
func (t TChannel) String() string  { return fmt.Sprintf("Channel<%s>", t.Elem) }
func (t TWeaveCtx) String() string { return fmt.Sprintf("WeaveCtx<%s>", t.Elem) }
func (t TQuotation) String() string {
	if t.Effect == nil {
		return "Quotation"
	}
	return fmt.Sprintf("Quotation%s", t.Effect)
}
func (t TClosure) String() string {
	if t.Effect == nil {
		return "Closure"
	}
	return fmt.Sprintf("Closure%s", t.Effect)
}
