package types

import "fmt"

// Resolver lets Unify look up alias/union definitions it does not resolve
// locally, mirroring the teacher's typesystem.Resolver for nominal/alias
// types generalized here to variant union tags.
type Resolver interface {
	ResolveUnion(name string) (UnionInfo, bool)
}

type UnionInfo struct {
	Name         string
	Constructors map[string]int // tag -> field arity
}

// UnifyError classifies a unification failure into the kinds spec.md 4.1
// names as surfaced diagnostics.
type UnifyError struct {
	Kind string // TypeMismatch | OccursCheck
	Msg  string
}

func (e *UnifyError) Error() string { return e.Msg }

func typeMismatch(format string, args ...interface{}) error {
	return &UnifyError{Kind: "TypeMismatch", Msg: fmt.Sprintf(format, args...)}
}

func occursCheckError(format string, args ...interface{}) error {
	return &UnifyError{Kind: "OccursCheck", Msg: fmt.Sprintf(format, args...)}
}

// typePair and stackPair back the co-induction cycle guard: if unification
// revisits a pair of types it is already unifying (possible once recursive
// variant unions are involved), it assumes success rather than looping
// forever, matching the teacher's unifyInternal co-induction step.
type typePair struct{ a, b Type }
type stackPair struct{ a, b StackType }

// Unify unifies two concrete types, returning the substitution that makes
// them equal.
func Unify(t1, t2 Type, resolver Resolver) (Subst, error) {
	return unifyTypes(t1, t2, nil, resolver)
}

// UnifyStacks unifies two stack types: tops pairwise until one side reaches
// its row variable, which is then bound to the remaining tail of the other
// side (with an occurs check against that tail).
func UnifyStacks(s1, s2 StackType, resolver Resolver) (Subst, error) {
	return unifyStacksInternal(s1, s2, nil, nil, resolver)
}

// UnifyEffects composes effect e1 with e2 by unifying e1's outputs with
// e2's inputs, per spec.md 4.1, returning the substitution plus the
// composed effect (substituted e1.Inputs -- substituted e2.Outputs).
func UnifyEffects(e1, e2 *Effect, resolver Resolver) (Subst, *Effect, error) {
	s, err := UnifyStacks(e1.Outputs, e2.Inputs, resolver)
	if err != nil {
		return Subst{}, nil, err
	}
	composed := &Effect{
		Inputs:  s.ApplyStack(e1.Inputs),
		Outputs: s.ApplyStack(e2.Outputs),
	}
	return s, composed, nil
}

func unifyTypes(t1, t2 Type, visited []typePair, resolver Resolver) (Subst, error) {
	for _, p := range visited {
		if sameType(p.a, t1) && sameType(p.b, t2) {
			return Empty(), nil
		}
	}
	visited = append(visited, typePair{t1, t2})

	if v, ok := t1.(TVar); ok {
		return bindVar(v, t2)
	}
	if v, ok := t2.(TVar); ok {
		return bindVar(v, t1)
	}

	switch a := t1.(type) {
	case TInt:
		if _, ok := t2.(TInt); ok {
			return Empty(), nil
		}
	case TFloat:
		if _, ok := t2.(TFloat); ok {
			return Empty(), nil
		}
	case TBool:
		if _, ok := t2.(TBool); ok {
			return Empty(), nil
		}
	case TString:
		if _, ok := t2.(TString); ok {
			return Empty(), nil
		}
	case TSymbol:
		if _, ok := t2.(TSymbol); ok {
			return Empty(), nil
		}
	case TVariant:
		if b, ok := t2.(TVariant); ok {
			if a.Union == "" || b.Union == "" || a.Union == b.Union {
				return Empty(), nil
			}
			if resolver != nil {
				if _, aok := resolver.ResolveUnion(a.Union); aok {
					if _, bok := resolver.ResolveUnion(b.Union); bok && a.Union != b.Union {
						return Subst{}, typeMismatch("variant union mismatch: %s vs %s", a.Union, b.Union)
					}
				}
			}
			return Subst{}, typeMismatch("variant union mismatch: %s vs %s", a.Union, b.Union)
		}
	case TMap:
		if b, ok := t2.(TMap); ok {
			s1, err := unifyTypes(a.Key, b.Key, visited, resolver)
			if err != nil {
				return Subst{}, err
			}
			s2, err := unifyTypes(s1.ApplyType(a.Value), s1.ApplyType(b.Value), visited, resolver)
			if err != nil {
				return Subst{}, err
			}
			return Compose(s1, s2), nil
		}
	case TChannel:
		if b, ok := t2.(TChannel); ok {
			return unifyTypes(a.Elem, b.Elem, visited, resolver)
		}
	case TWeaveCtx:
		if b, ok := t2.(TWeaveCtx); ok {
			return unifyTypes(a.Elem, b.Elem, visited, resolver)
		}
	case TQuotation:
		if b, ok := t2.(TQuotation); ok {
			return unifyEffectPtrs(a.Effect, b.Effect, visited, resolver)
		}
		if b, ok := t2.(TClosure); ok {
			return unifyEffectPtrs(a.Effect, b.Effect, visited, resolver)
		}
	case TClosure:
		if b, ok := t2.(TClosure); ok {
			return unifyEffectPtrs(a.Effect, b.Effect, visited, resolver)
		}
		if b, ok := t2.(TQuotation); ok {
			return unifyEffectPtrs(a.Effect, b.Effect, visited, resolver)
		}
	}
	return Subst{}, typeMismatch("cannot unify %s with %s", t1, t2)
}

func unifyEffectPtrs(a, b *Effect, visited []typePair, resolver Resolver) (Subst, error) {
	if a == nil || b == nil {
		return Empty(), nil
	}
	s1, err := unifyStacksInternal(a.Inputs, b.Inputs, nil, nil, resolver)
	if err != nil {
		return Subst{}, err
	}
	s2, err := unifyStacksInternal(s1.ApplyStack(a.Outputs), s1.ApplyStack(b.Outputs), nil, nil, resolver)
	if err != nil {
		return Subst{}, err
	}
	return Compose(s1, s2), nil
}

func bindVar(v TVar, t Type) (Subst, error) {
	if same, ok := t.(TVar); ok && same.Name == v.Name {
		return Empty(), nil
	}
	if occursInType(v.Name, t) {
		return Subst{}, occursCheckError("occurs check: %s occurs in %s", v.Name, t)
	}
	return bindType(v.Name, t), nil
}

func occursInType(name string, t Type) bool {
	switch v := t.(type) {
	case TVar:
		return v.Name == name
	case TMap:
		return occursInType(name, v.Key) || occursInType(name, v.Value)
	case TChannel:
		return occursInType(name, v.Elem)
	case TWeaveCtx:
		return occursInType(name, v.Elem)
	case TQuotation:
		return occursInEffect(name, v.Effect)
	case TClosure:
		return occursInEffect(name, v.Effect)
	default:
		return false
	}
}

func occursInEffect(name string, e *Effect) bool {
	if e == nil {
		return false
	}
	return occursInStack(name, e.Inputs) || occursInStack(name, e.Outputs)
}

func occursInStack(name string, s StackType) bool {
	switch v := s.(type) {
	case Cons:
		return occursInType(name, v.Top) || occursInStack(name, v.Rest)
	default:
		return false
	}
}

func occursRowInStack(name string, s StackType) bool {
	switch v := s.(type) {
	case RowVar:
		return v.Name == name
	case Cons:
		return occursRowInStack(name, v.Rest)
	default:
		return false
	}
}

func unifyStacksInternal(s1, s2 StackType, visited []stackPair, tvisited []typePair, resolver Resolver) (Subst, error) {
	for _, p := range visited {
		if sameStack(p.a, s1) && sameStack(p.b, s2) {
			return Empty(), nil
		}
	}
	visited = append(visited, stackPair{s1, s2})

	r1, isRow1 := s1.(RowVar)
	r2, isRow2 := s2.(RowVar)

	switch {
	case isRow1 && isRow2:
		if r1.Name == r2.Name {
			return Empty(), nil
		}
		return bindRow(r1.Name, r2), nil
	case isRow1:
		if occursRowInStack(r1.Name, s2) {
			return Subst{}, occursCheckError("occurs check: row %s occurs in %s", r1.Name, s2)
		}
		return bindRow(r1.Name, s2), nil
	case isRow2:
		if occursRowInStack(r2.Name, s1) {
			return Subst{}, occursCheckError("occurs check: row %s occurs in %s", r2.Name, s1)
		}
		return bindRow(r2.Name, s1), nil
	}

	c1, ok1 := s1.(Cons)
	c2, ok2 := s2.(Cons)
	if !ok1 || !ok2 {
		return Subst{}, typeMismatch("stack shape mismatch: %s vs %s", s1, s2)
	}

	sTop, err := unifyTypes(c1.Top, c2.Top, tvisited, resolver)
	if err != nil {
		return Subst{}, err
	}
	sRest, err := unifyStacksInternal(sTop.ApplyStack(c1.Rest), sTop.ApplyStack(c2.Rest), visited, tvisited, resolver)
	if err != nil {
		return Subst{}, err
	}
	return Compose(sTop, sRest), nil
}

func sameType(a, b Type) bool {
	return fmt.Sprintf("%T:%s", a, a) == fmt.Sprintf("%T:%s", b, b)
}

func sameStack(a, b StackType) bool {
	return fmt.Sprintf("%T:%s", a, a) == fmt.Sprintf("%T:%s", b, b)
}
