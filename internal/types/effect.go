package types

import "fmt"

// Effect is a word's transformation of the operand stack: Inputs consumed,
// Outputs produced. Composition of two effects unifies the Outputs of the
// first with the Inputs of the second.
type Effect struct {
	Inputs  StackType
	Outputs StackType
}

func (e *Effect) String() string {
	if e == nil {
		return "(  )"
	}
	return fmt.Sprintf("( %s -- %s )", e.Inputs, e.Outputs)
}

// Scheme is a generalized effect: the set of type/row variables that are
// free in the effect but considered universally quantified (fresh-renamed
// on every instantiation, one per word call site).
type Scheme struct {
	TypeVars []string
	RowVars  []string
	Effect   *Effect
}

// Identity is the effect of the empty word body: ( ..a -- ..a ).
func Identity(rowName string) *Effect {
	r := RowVar{Name: rowName}
	return &Effect{Inputs: r, Outputs: r}
}
