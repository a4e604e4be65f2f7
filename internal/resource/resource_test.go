package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/seqc/internal/ast"
)

func word(name string, body ...ast.Statement) *ast.WordDef {
	return &ast.WordDef{Name: name, Body: body}
}

func call(name string) *ast.WordCall { return &ast.WordCall{Name: name} }

func findDiag(a *Analyzer, id string) bool {
	for _, d := range a.Diagnostics {
		if d.ID == id {
			return true
		}
	}
	return false
}

func TestWeaveThenCancelIsClean(t *testing.T) {
	w := word("ok", call("strand.weave"), call("strand.weave-cancel"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if len(a.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics)
	}
}

func TestChanMakeThenCloseIsClean(t *testing.T) {
	w := word("ok", call("chan.make"), call("chan.close"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if len(a.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics)
	}
}

func TestWeaveDroppedWithoutCancelWarns(t *testing.T) {
	w := word("leak", call("strand.weave"), call("drop"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if !findDiag(a, "resource-leak-weavehandle") {
		t.Fatalf("expected resource-leak-weavehandle, got %v", a.Diagnostics)
	}
}

func TestChanDroppedWithoutCloseWarns(t *testing.T) {
	w := word("leak", call("chan.make"), call("drop"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if !findDiag(a, "resource-leak-channel") {
		t.Fatalf("expected resource-leak-channel, got %v", a.Diagnostics)
	}
}

func TestResourceEscapingAsReturnValueDoesNotWarn(t *testing.T) {
	w := word("make-chan", call("chan.make"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if len(a.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics for an escaping resource, got %v", a.Diagnostics)
	}
}

func TestNipDropsSecondFromTop(t *testing.T) {
	// chan.make dup nip leaves one copy live, drops the original unconsumed.
	w := word("leak", call("chan.make"), call("dup"), call("nip"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if !findDiag(a, "resource-leak-channel") {
		t.Fatalf("expected resource-leak-channel from nip, got %v", a.Diagnostics)
	}
}

func TestThreeDropWarnsForEachTrackedResource(t *testing.T) {
	w := word("leak",
		call("chan.make"), call("chan.make"), call("chan.make"),
		call("3drop"),
	)
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	count := 0
	for _, d := range a.Diagnostics {
		if d.ID == "resource-leak-channel" {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("expected 3 resource-leak-channel diagnostics, got %d (%v)", count, a.Diagnostics)
	}
}

func TestStrandSpawnConsumesAllLiveResources(t *testing.T) {
	w := word("ok",
		call("chan.make"),
		&ast.Quotation{Body: nil},
		call("strand.spawn"),
		call("drop"),
	)
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if len(a.Diagnostics) != 0 {
		t.Fatalf("expected strand.spawn to consume the live channel, got %v", a.Diagnostics)
	}
}

func TestIfBothBranchesCloseIsClean(t *testing.T) {
	w := word("ok",
		call("chan.make"),
		&ast.BoolLiteral{Value: true},
		&ast.If{
			Then: []ast.Statement{call("chan.close")},
			Else: []ast.Statement{call("chan.close")},
		},
	)
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if len(a.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics)
	}
}

func TestIfOnlyOneBranchClosesWarnsInconsistent(t *testing.T) {
	w := word("bad",
		call("chan.make"),
		&ast.BoolLiteral{Value: true},
		&ast.If{
			Then: []ast.Statement{call("chan.close")},
			Else: []ast.Statement{},
		},
	)
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if !findDiag(a, "resource-branch-inconsistent") {
		t.Fatalf("expected resource-branch-inconsistent, got %v", a.Diagnostics)
	}
}

func TestMatchArmsConsumeConsistentlyIsClean(t *testing.T) {
	w := word("ok",
		call("chan.make"),
		call("chan.make"),
		&ast.IntLiteral{Value: 0}, // stands in for the matched variant
		&ast.Match{Arms: []ast.MatchArm{
			{Pattern: ast.VariantTag{Tag: "A"}, Body: []ast.Statement{call("chan.close"), call("chan.close")}},
			{Pattern: ast.VariantTag{Tag: "B"}, Body: []ast.Statement{call("chan.close"), call("chan.close")}},
		}},
	)
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if len(a.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics)
	}
}

func TestMatchArmsInconsistentConsumptionWarns(t *testing.T) {
	w := word("bad",
		call("chan.make"),
		&ast.IntLiteral{Value: 0}, // stands in for the matched variant
		&ast.Match{Arms: []ast.MatchArm{
			{Pattern: ast.VariantTag{Tag: "A"}, Body: []ast.Statement{call("chan.close")}},
			{Pattern: ast.VariantTag{Tag: "B"}, Body: []ast.Statement{}},
		}},
	)
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if !findDiag(a, "resource-branch-inconsistent") {
		t.Fatalf("expected resource-branch-inconsistent, got %v", a.Diagnostics)
	}
}

func TestStrandResumeDoesNotConsumeHandle(t *testing.T) {
	// strand.resume keeps the handle live (conservative per the documented
	// Open Question); dropping it afterwards must still warn.
	w := word("leak", call("strand.weave"), call("strand.resume"), call("drop"), call("drop"), call("drop"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if !findDiag(a, "resource-leak-weavehandle") {
		t.Fatalf("expected resource-leak-weavehandle after strand.resume, got %v", a.Diagnostics)
	}
}

func TestUnknownWordIsIdentityOnAbstractStack(t *testing.T) {
	w := word("ok", call("chan.make"), call("some.user-word"), call("chan.close"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	if len(a.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", a.Diagnostics)
	}
}

func TestJoinIntersectsConsumedSets(t *testing.T) {
	a := NewStackState()
	r := a.PushResource(Channel, ast.SourceLoc{}, "chan.make")
	a.ConsumeResource(resourceValue(r))
	b := NewStackState()
	b.PushResource(Channel, ast.SourceLoc{}, "chan.make")

	joined := Join(a, b)
	if joined.IsConsumed(r.ID) {
		t.Fatalf("expected intersection to drop a consumed-only-on-one-side resource")
	}
}

func TestWeaveCancelClearsLeakWarning(t *testing.T) {
	w := word("ok", call("strand.weave"), call("strand.weave-cancel"))
	a := NewAnalyzer("t.seq")
	a.AnalyzeWord(w)
	assert.False(t, findDiag(a, "resource-leak-weavehandle"))
}

func TestJoinOnConsumedBothSidesStaysConsumed(t *testing.T) {
	a := NewStackState()
	r := a.PushResource(Channel, ast.SourceLoc{}, "chan.make")
	a.ConsumeResource(resourceValue(r))
	b := NewStackState()
	br := b.PushResource(Channel, ast.SourceLoc{}, "chan.make")
	require.Equal(t, r.ID, br.ID, "PushResource on a fresh StackState should assign the same first ID")
	b.ConsumeResource(resourceValue(br))

	joined := Join(a, b)
	assert.True(t, joined.IsConsumed(r.ID), "a resource consumed on every branch should stay consumed after Join")
}
