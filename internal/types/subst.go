package types

// Subst maps type-variable names to Types and row-variable names to
// StackTypes. Applying a Subst is a straightforward recursive traversal;
// Compose path-compresses so repeated application stays close to linear,
// per the row-polymorphism design note: "avoid building cyclic substitution
// chains."
type Subst struct {
	Types Map1
	Rows  Map2
}

type Map1 map[string]Type
type Map2 map[string]StackType

// Empty returns a no-op substitution.
func Empty() Subst { return Subst{} }

// ApplyType substitutes type variables within t.
func (s Subst) ApplyType(t Type) Type {
	switch v := t.(type) {
	case TVar:
		if bound, ok := s.Types[v.Name]; ok {
			// Path compression: keep following until fixpoint, flattening
			// any chain of variable-to-variable bindings.
			return s.ApplyType(bound)
		}
		return v
	case TMap:
		return TMap{Key: s.ApplyType(v.Key), Value: s.ApplyType(v.Value)}
	case TChannel:
		return TChannel{Elem: s.ApplyType(v.Elem)}
	case TWeaveCtx:
		return TWeaveCtx{Elem: s.ApplyType(v.Elem)}
	case TQuotation:
		return TQuotation{Effect: s.ApplyEffect(v.Effect)}
	case TClosure:
		return TClosure{Effect: s.ApplyEffect(v.Effect)}
	default:
		return t
	}
}

// ApplyStack substitutes row and type variables within a stack type.
func (s Subst) ApplyStack(st StackType) StackType {
	switch v := st.(type) {
	case RowVar:
		if bound, ok := s.Rows[v.Name]; ok {
			return s.ApplyStack(bound)
		}
		return v
	case Cons:
		return Cons{Rest: s.ApplyStack(v.Rest), Top: s.ApplyType(v.Top)}
	default:
		return st
	}
}

// ApplyEffect substitutes within both sides of an effect. Returns nil for a
// nil effect (quotations whose body could not be inferred due to an earlier
// error carry a nil Effect rather than a placeholder).
func (s Subst) ApplyEffect(e *Effect) *Effect {
	if e == nil {
		return nil
	}
	return &Effect{Inputs: s.ApplyStack(e.Inputs), Outputs: s.ApplyStack(e.Outputs)}
}

// Compose returns a substitution equivalent to applying s1 then s2.
func Compose(s1, s2 Subst) Subst {
	out := Subst{Types: Map1{}, Rows: Map2{}}
	for k, v := range s1.Types {
		out.Types[k] = s2.ApplyType(v)
	}
	for k, v := range s2.Types {
		if _, exists := out.Types[k]; !exists {
			out.Types[k] = v
		}
	}
	for k, v := range s1.Rows {
		out.Rows[k] = s2.ApplyStack(v)
	}
	for k, v := range s2.Rows {
		if _, exists := out.Rows[k]; !exists {
			out.Rows[k] = v
		}
	}
	return out
}

func bindType(name string, t Type) Subst {
	return Subst{Types: Map1{name: t}, Rows: Map2{}}
}

func bindRow(name string, st StackType) Subst {
	return Subst{Types: Map1{}, Rows: Map2{name: st}}
}
