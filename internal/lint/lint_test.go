package lint

import (
	"testing"

	"github.com/funvibe/seqc/internal/ast"
)

func wc(name string) *ast.WordCall { return &ast.WordCall{Name: name} }

func testWord(body ...ast.Statement) *ast.Program {
	return &ast.Program{Words: []ast.WordDef{{Name: "test", Body: body}}}
}

func TestParseConfig(t *testing.T) {
	src := []byte(`
lint:
  - id: redundant-dup-drop
    pattern: "dup drop"
    replacement: ""
    message: "dup drop has no effect"
    severity: warning
  - id: prefer-nip
    pattern: "swap drop"
    replacement: "nip"
    message: "prefer nip"
    severity: hint
`)
	cfg, err := ParseConfig(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}
	if cfg.Rules[1].Severity != "hint" {
		t.Fatalf("expected hint severity")
	}
}

func TestCompilePattern(t *testing.T) {
	cp, err := compile(Rule{ID: "t", Pattern: "swap drop"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cp.elements) != 2 || cp.elements[0].text != "swap" || cp.elements[1].text != "drop" {
		t.Fatalf("unexpected elements: %+v", cp.elements)
	}
}

func TestCompilePatternWithWildcards(t *testing.T) {
	cp, err := compile(Rule{ID: "t", Pattern: "dup $X drop"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cp.elements) != 3 || cp.elements[1].kind != elemSingleWildcard {
		t.Fatalf("unexpected elements: %+v", cp.elements)
	}
}

func defaultLinter(t *testing.T) *Linter {
	t.Helper()
	l, err := WithDefaults()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return l
}

func TestSimpleMatch(t *testing.T) {
	l := defaultLinter(t)
	prog := testWord(&ast.IntLiteral{Value: 1}, &ast.IntLiteral{Value: 2}, wc("swap"), wc("drop"))
	ds := l.LintProgram(prog, "test.seq")
	if len(ds) != 1 || ds[0].ID != "prefer-nip" {
		t.Fatalf("expected a single prefer-nip diagnostic, got %v", ds)
	}
}

func TestNoFalsePositives(t *testing.T) {
	l := defaultLinter(t)
	prog := testWord(wc("swap"), wc("dup"))
	ds := l.LintProgram(prog, "test.seq")
	if len(ds) != 0 {
		t.Fatalf("expected no diagnostics, got %v", ds)
	}
}

func TestMultipleMatches(t *testing.T) {
	l := defaultLinter(t)
	prog := testWord(wc("swap"), wc("drop"), wc("dup"), wc("swap"), wc("drop"))
	ds := l.LintProgram(prog, "test.seq")
	if len(ds) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d (%v)", len(ds), ds)
	}
}

func TestMultiWildcardValidation(t *testing.T) {
	_, err := compile(Rule{ID: "bad", Pattern: "$... foo $..."})
	if err == nil {
		t.Fatalf("expected an error for multiple multi-wildcards")
	}
}

func TestSingleMultiWildcardAllowed(t *testing.T) {
	_, err := compile(Rule{ID: "ok", Pattern: "$... foo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLiteralBreaksPattern(t *testing.T) {
	l := defaultLinter(t)
	prog := testWord(wc("swap"), &ast.IntLiteral{Value: 0}, wc("swap"))
	ds := l.LintProgram(prog, "test.seq")
	if len(ds) != 0 {
		t.Fatalf("expected no matches (literal breaks the pattern), got %v", ds)
	}
}

func TestConsecutiveSwapSwapStillMatches(t *testing.T) {
	l := defaultLinter(t)
	prog := testWord(wc("swap"), wc("swap"))
	ds := l.LintProgram(prog, "test.seq")
	if len(ds) != 1 || ds[0].ID != "redundant-swap-swap" {
		t.Fatalf("expected redundant-swap-swap, got %v", ds)
	}
}

func TestDeepNestingLint(t *testing.T) {
	l := defaultLinter(t)
	var body []ast.Statement = []ast.Statement{&ast.BoolLiteral{Value: true}}
	inner := &ast.If{Then: []ast.Statement{&ast.IntLiteral{Value: 1}}}
	for i := 0; i < 4; i++ {
		inner = &ast.If{Then: []ast.Statement{inner}}
	}
	body = append(body, inner)
	prog := testWord(body...)
	ds := l.LintProgram(prog, "test.seq")
	found := false
	for _, d := range ds {
		if d.ID == "deep-nesting" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a deep-nesting diagnostic, got %v", ds)
	}
}

func TestAllowedLintSuppressesDiagnostic(t *testing.T) {
	l := defaultLinter(t)
	prog := &ast.Program{Words: []ast.WordDef{{
		Name:         "test",
		Body:         []ast.Statement{wc("swap"), wc("swap")},
		AllowedLints: []string{"redundant-swap-swap"},
	}}}
	ds := l.LintProgram(prog, "test.seq")
	if len(ds) != 0 {
		t.Fatalf("expected the allow-annotation to suppress the diagnostic, got %v", ds)
	}
}

func TestMatchesInsideQuotationBody(t *testing.T) {
	l := defaultLinter(t)
	prog := testWord(&ast.Quotation{Body: []ast.Statement{wc("swap"), wc("drop")}})
	ds := l.LintProgram(prog, "test.seq")
	if len(ds) != 1 || ds[0].ID != "prefer-nip" {
		t.Fatalf("expected prefer-nip inside the quotation body, got %v", ds)
	}
}
