package ast

// NewProgram returns an empty Program, the starting point for an external
// frontend assembling a tree directly (no tokenizer/parser lives in this
// module; internal/testsource's reader and these constructors are the two
// ways a *Program gets built).
func NewProgram() *Program {
	return &Program{}
}

// Word appends a word definition built from name, its declared effect
// (nil for an effect-inference-only word), and body statements, returning
// the index it was inserted at.
func Word(prog *Program, name string, effect *EffectAnnotation, body ...Statement) int {
	prog.Words = append(prog.Words, WordDef{
		Name:           name,
		DeclaredEffect: effect,
		Body:           body,
	})
	return len(prog.Words) - 1
}

// Union appends a tagged-union declaration.
func Union(prog *Program, name string, constructors ...ConstructorDef) {
	prog.Unions = append(prog.Unions, UnionDef{Name: name, Constructors: constructors})
}

// AddInclude appends an include entry; inc is one of StdInclude, RelativeInclude, FfiInclude.
func AddInclude(prog *Program, inc Include) {
	prog.Includes = append(prog.Includes, inc)
}

// Effect builds an EffectAnnotation from its surface-syntax pieces, e.g.
// Effect("a", []string{"Int"}, "a", []string{"Int"}) for "( ..a Int -- ..a Int )".
func Effect(rowIn string, inputs []string, rowOut string, outputs []string) *EffectAnnotation {
	return &EffectAnnotation{RowIn: rowIn, Inputs: inputs, RowOut: rowOut, Outputs: outputs}
}

// Call is shorthand for a *WordCall statement.
func Call(name string) *WordCall { return &WordCall{Name: name} }

// Int, Float, Bool, Str are shorthand literal-statement constructors.
func Int(v int64) *IntLiteral     { return &IntLiteral{Value: v} }
func Float(v float64) *FloatLiteral { return &FloatLiteral{Value: v} }
func Bool(v bool) *BoolLiteral     { return &BoolLiteral{Value: v} }
func Str(v string) *StringLiteral { return &StringLiteral{Value: v} }
