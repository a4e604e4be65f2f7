package codegen_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/codegen"
	"github.com/funvibe/seqc/internal/codegen/nanbox"
	"github.com/funvibe/seqc/internal/codegen/tagged"
)

// goldenExpectations reads the "expect" file out of a txtar fixture under
// testdata/, one expected substring per line, blank lines ignored. Golden
// fixtures live as txtar archives rather than bare .golden files so a
// single file can carry both the human-readable rationale (the archive's
// leading comment) and the expectation list side by side.
func goldenExpectations(t *testing.T, name string) []string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading golden fixture %s: %v", name, err)
	}
	ar := txtar.Parse(raw)
	for _, f := range ar.Files {
		if f.Name != "expect" {
			continue
		}
		var lines []string
		for _, line := range strings.Split(string(f.Data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			lines = append(lines, line)
		}
		return lines
	}
	t.Fatalf("golden fixture %s has no \"expect\" file", name)
	return nil
}

func word(name string, body ...ast.Statement) ast.WordDef {
	return ast.WordDef{Name: name, Body: body}
}

func call(name string) *ast.WordCall { return &ast.WordCall{Name: name} }
func lit(n int64) *ast.IntLiteral    { return &ast.IntLiteral{Value: n} }

func TestEmitInlineArithmeticTagged(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("double-add", lit(3), lit(4), call("add")),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	if !strings.Contains(out, "define tailcc i8* @word_double_add") {
		t.Fatalf("expected tailcc definition for word, got:\n%s", out)
	}
	if !strings.Contains(out, "add i64 3, 4") {
		t.Fatalf("expected inlined add of the two virtual constants, got:\n%s", out)
	}
}

func TestEmitInlineArithmeticNanbox(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("double-add", lit(3), lit(4), call("add")),
	}}
	out := codegen.NewModule(nanbox.New()).EmitProgram(prog)
	if !strings.Contains(out, "encoding=nanbox") {
		t.Fatalf("expected nanbox header, got:\n%s", out)
	}
}

func TestMainWordUsesCCABI(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("main", lit(0)),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	if !strings.Contains(out, "define ccc i8* @word_main") {
		t.Fatalf("expected main to use C ABI, got:\n%s", out)
	}
}

func TestUserWordCallInTailPositionEmitsMusttail(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("caller", call("callee")),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	if !strings.Contains(out, "musttail call tailcc i8* @word_callee") {
		t.Fatalf("expected musttail tailcc call to callee, got:\n%s", out)
	}
	if !strings.Contains(out, "call void @seqc_yield_probe()") {
		t.Fatalf("expected a yield probe before the musttail, got:\n%s", out)
	}
}

func TestCallWordDispatchesQuotationVsClosure(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("invoke", call("call")),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	if !strings.Contains(out, "icmp eq i8") {
		t.Fatalf("expected a tag comparison for call dispatch, got:\n%s", out)
	}
	if !strings.Contains(out, "Closure: non-tail fallback") {
		t.Fatalf("expected the closure fallback comment, got:\n%s", out)
	}
}

func TestRuntimePrimitiveCallDeclaresRuntimeSymbol(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("greet", &ast.StringLiteral{Value: "hi"}, call("io.write-line")),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	if !strings.Contains(out, "declare i8* @patch_seq_io_write_line(i8* %sp)") {
		t.Fatalf("expected a declaration for the sanitized runtime symbol, got:\n%s", out)
	}
}

// TestStringLiteralEmitsAddressableGlobal is the golden-fixture regression
// test for the string-literal push path: a literal must surface as both an
// emitted @str.N global and a real getelementptr push, not a silent no-op
// that leaves the operand stack one cell short.
func TestStringLiteralEmitsAddressableGlobal(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("greet", &ast.StringLiteral{Value: "hi"}, call("io.write-line")),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	for _, want := range goldenExpectations(t, "string_literal.txtar") {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestStringLiteralStoresTagAndPointerNanbox(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("greet", &ast.StringLiteral{Value: "hi"}, call("io.write-line")),
	}}
	out := codegen.NewModule(nanbox.New()).EmitProgram(prog)
	if !strings.Contains(out, "@str.0 = private unnamed_addr constant [3 x i8]") {
		t.Fatalf("expected a string global in nanbox output, got:\n%s", out)
	}
	if !strings.Contains(out, "ptrtoint i8* getelementptr") {
		t.Fatalf("expected the literal's address to be packed via ptrtoint, got:\n%s", out)
	}
}

func TestQuotationEmitsWrapperAndImplPair(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("make-adder", &ast.Quotation{ID: 1, Body: []ast.Statement{lit(1), call("add")}}),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	if !strings.Contains(out, "define tailcc i8* @quot_1_impl") {
		t.Fatalf("expected a tailcc impl_ function for the quotation, got:\n%s", out)
	}
	if !strings.Contains(out, "define i8* @quot_1_wrapper") {
		t.Fatalf("expected a C-ABI wrapper function for the quotation, got:\n%s", out)
	}
	if !strings.Contains(out, "patch_seq_push_quotation") {
		t.Fatalf("expected push_quotation to receive both pointers, got:\n%s", out)
	}
}

func TestIfEmitsBothBranchesAndPhi(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("choose", &ast.If{
			Then: []ast.Statement{lit(1)},
			Else: []ast.Statement{lit(0)},
		}),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	for _, want := range []string{"if.then", "if.else", "if.end", "= phi i8*"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestShiftClampsOutOfRangeAmount(t *testing.T) {
	prog := &ast.Program{Words: []ast.WordDef{
		word("shift-left", lit(1), lit(99), call("shl")),
	}}
	out := codegen.NewModule(tagged.New()).EmitProgram(prog)
	if !strings.Contains(out, "icmp ult i64 99, 64") {
		t.Fatalf("expected a range check on the shift amount, got:\n%s", out)
	}
	if !strings.Contains(out, "select i1") {
		t.Fatalf("expected a select clamping out-of-range shifts to 0, got:\n%s", out)
	}
}
