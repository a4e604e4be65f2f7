package types

import "testing"

func TestUnifyConcreteTypes(t *testing.T) {
	_, err := Unify(TInt{}, TInt{}, nil)
	if err != nil {
		t.Fatalf("Int/Int should unify: %v", err)
	}
	_, err = Unify(TInt{}, TBool{}, nil)
	if err == nil {
		t.Fatalf("Int/Bool should not unify")
	}
	if ue, ok := err.(*UnifyError); !ok || ue.Kind != "TypeMismatch" {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}
}

func TestUnifyVarBindsAndApplies(t *testing.T) {
	s, err := Unify(TVar{Name: "a"}, TInt{}, nil)
	if err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	got := s.ApplyType(TVar{Name: "a"})
	if _, ok := got.(TInt); !ok {
		t.Fatalf("expected a bound to Int, got %s", got)
	}
}

// OccursCheck: unifying a row variable with a stack that transitively
// contains it must fail with OccursCheck (testable property #2).
func TestOccursCheckOnRowVariable(t *testing.T) {
	row := RowVar{Name: "a"}
	cyclic := Cons{Rest: row, Top: TInt{}}
	_, err := UnifyStacks(row, cyclic, nil)
	if err == nil {
		t.Fatalf("expected occurs check failure")
	}
	ue, ok := err.(*UnifyError)
	if !ok || ue.Kind != "OccursCheck" {
		t.Fatalf("expected OccursCheck, got %v", err)
	}
}

func TestOccursCheckOnTypeVariable(t *testing.T) {
	tv := TVar{Name: "T"}
	cyclic := TMap{Key: TInt{}, Value: tv}
	_, err := Unify(tv, cyclic, nil)
	if err == nil {
		t.Fatalf("expected occurs check failure")
	}
	if ue, ok := err.(*UnifyError); !ok || ue.Kind != "OccursCheck" {
		t.Fatalf("expected OccursCheck, got %v", err)
	}
}

func TestUnifyStacksPairwiseThenBindsRow(t *testing.T) {
	// ( ..a Int Bool ) vs ( ..x Int Bool ): tops unify pairwise, then ..a
	// binds to ..x.
	s1 := Cons{Rest: Cons{Rest: RowVar{Name: "a"}, Top: TInt{}}, Top: TBool{}}
	s2 := Cons{Rest: Cons{Rest: RowVar{Name: "x"}, Top: TInt{}}, Top: TBool{}}
	sub, err := UnifyStacks(s1, s2, nil)
	if err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	bound, ok := sub.Rows["a"]
	if !ok {
		t.Fatalf("expected row a to be bound")
	}
	if rv, ok := bound.(RowVar); !ok || rv.Name != "x" {
		t.Fatalf("expected a bound to row x, got %v", bound)
	}
}

func TestComposeEffectsUnifiesOutputsWithInputs(t *testing.T) {
	// e1: ( ..a -- ..a Int )   e2: ( ..b Int -- ..b Int Int )
	row := RowVar{Name: "a"}
	e1 := &Effect{Inputs: row, Outputs: Cons{Rest: row, Top: TInt{}}}
	rowB := RowVar{Name: "b"}
	e2in := Cons{Rest: rowB, Top: TInt{}}
	e2out := Cons{Rest: Cons{Rest: rowB, Top: TInt{}}, Top: TInt{}}
	e2 := &Effect{Inputs: e2in, Outputs: e2out}

	_, composed, err := UnifyEffects(e1, e2, nil)
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	depth, _ := Depth(composed.Outputs)
	if depth != 2 {
		t.Fatalf("expected composed effect to produce 2 tops, got %d (%s)", depth, composed)
	}
}

// Testable property #1: composing an inferred effect with identity yields
// an equivalent scheme.
func TestComposeWithIdentityIsNoOp(t *testing.T) {
	row := RowVar{Name: "a"}
	e := &Effect{Inputs: row, Outputs: Cons{Rest: row, Top: TBool{}}}
	id := Identity("b")
	_, composed, err := UnifyEffects(e, id, nil)
	if err != nil {
		t.Fatalf("compose with identity failed: %v", err)
	}
	if composed.String() != e.String() {
		t.Fatalf("composing with identity changed the effect: %s vs %s", composed, e)
	}
}
