package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/types"
)

func word(name string, body ...ast.Statement) ast.WordDef {
	return ast.WordDef{Name: name, Body: body}
}

func TestInferArithmeticComposition(t *testing.T) {
	// : main ( -- ) 3 4 add io.write-line ;  (E1's arithmetic prefix)
	prog := &ast.Program{Words: []ast.WordDef{
		word("main",
			&ast.IntLiteral{Value: 3},
			&ast.IntLiteral{Value: 4},
			&ast.WordCall{Name: "add"},
		),
	}}
	res := Infer(prog, Builtins())
	if len(res.Diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diags)
	}
	eff := res.Effects["main"]
	if eff == nil {
		t.Fatalf("expected an inferred effect for main")
	}
	depth, _ := types.Depth(eff.Outputs)
	if depth != 1 {
		t.Fatalf("expected one Int left on the stack, got depth %d (%s)", depth, eff)
	}
}

func TestInferUnknownWordDiagnostic(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("bad", &ast.WordCall{Name: "not-a-real-word"}),
	}}
	res := Infer(prog, Builtins())
	if len(res.Diags) == 0 {
		t.Fatalf("expected an unknown-word diagnostic")
	}
	if res.Diags[0].ID != "unknown-word" {
		t.Fatalf("expected unknown-word, got %s", res.Diags[0].ID)
	}
}

func TestInferIfBranchMismatchIsEffectMismatch(t *testing.T) {
	// if pushes an Int on one branch and a String on the other: this must
	// surface as an effect-mismatch diagnostic rather than silently picking
	// one branch's type.
	prog := &ast.Program{Words: []ast.WordDef{
		word("bad",
			&ast.BoolLiteral{Value: true},
			&ast.If{
				Then: []ast.Statement{&ast.IntLiteral{Value: 1}},
				Else: []ast.Statement{&ast.StringLiteral{Value: "x"}},
			},
		),
	}}
	res := Infer(prog, Builtins())
	if len(res.Diags) == 0 {
		t.Fatalf("expected an effect-mismatch diagnostic")
	}
}

func TestInferIfWithMissingElseIsIdentityOnElseBranch(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("maybe-inc",
			&ast.BoolLiteral{Value: true},
			&ast.If{
				Then: []ast.Statement{&ast.WordCall{Name: "dup"}, &ast.WordCall{Name: "add"}},
			},
		),
	}}
	res := Infer(prog, Builtins())
	if len(res.Diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diags)
	}
}

// chan.make followed by drop type-checks cleanly, grounding for E4.
func TestInferChanMakeThenDropIsWellTyped(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("bad",
			&ast.WordCall{Name: "chan.make"},
			&ast.WordCall{Name: "drop"},
		),
	}}
	res := Infer(prog, Builtins())
	if len(res.Diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diags)
	}
	// Note: this program is well-typed but leaks a channel resource;
	// internal/resource, not internal/infer, is responsible for flagging
	// that (E4 scenario), matching spec.md's division of labor between
	// inference and resource analysis.
}

func TestInstantiateRenamesVariablesPerCallSite(t *testing.T) {
	scheme := Builtins()["dup"]
	e1 := Instantiate(scheme)
	e2 := Instantiate(scheme)
	out1, _ := types.Depth(e1.Outputs)
	out2, _ := types.Depth(e2.Outputs)
	if out1 != out2 {
		t.Fatalf("expected structurally identical instantiations, got %s vs %s", e1, e2)
	}
	depth1, row1 := types.Depth(e1.Inputs)
	depth2, row2 := types.Depth(e2.Inputs)
	if depth1 != depth2 {
		t.Fatalf("expected same depth")
	}
	if row1 == row2 {
		t.Fatalf("expected distinct fresh row variables per instantiation")
	}
}

func TestOsExitTakesAnIntAndLeavesNothing(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("die", &ast.IntLiteral{Value: 1}, &ast.WordCall{Name: "os.exit"}),
	}}
	res := Infer(prog, Builtins())
	require.Empty(t, res.Diags)
	eff := res.Effects["die"]
	require.NotNil(t, eff)
	depth, _ := types.Depth(eff.Outputs)
	assert.Equal(t, 0, depth, "os.exit should leave the stack as it found it")
}

func TestInferMissingBuiltinIsUnknownWord(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("caller", &ast.WordCall{Name: "string.frobnicate"}),
	}}
	res := Infer(prog, Builtins())
	require.NotEmpty(t, res.Diags)
	assert.Equal(t, "unknown-word", res.Diags[0].ID)
}
