// Package interp is the `seqc run` interpretive execution path (SPEC_FULL.md's
// Supplemented Features: "not named in spec.md, but necessary to exercise
// the runtime/scheduler packages and the E1/E2/E3/E6 end-to-end scenarios
// in an environment without a guaranteed LLVM toolchain"). It walks an
// already-inferred, already-linted *ast.Program directly, dispatching each
// WordCall to either a sibling user-defined word or an
// internal/runtime.Registry primitive — exactly the same primitive bodies
// internal/codegen's emitted IR calls through patch_seq_* declarations, so
// a program's observable behavior (stdout, channel traffic) is identical
// whichever path executes it.
package interp

import (
	"fmt"

	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/runtime"
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

// Interpreter holds one program's word table and the primitive registry,
// reused across every word invocation within a run.
type Interpreter struct {
	words    map[string]*ast.WordDef
	registry map[string]runtime.Primitive
}

// New indexes prog's words by name. Include resolution and inference are
// assumed to have already run; New does not itself validate the program.
// Any `ffi:name` include is resolved against
// runtime.GetExtBuiltins(name) and merged into the primitive table, so a
// host binary that registered an ffi module's Go implementations before
// running the program (pkg/ext.RegisterExtBuiltins) makes those words
// callable exactly like a built-in.
func New(prog *ast.Program) *Interpreter {
	it := &Interpreter{
		words:    make(map[string]*ast.WordDef, len(prog.Words)),
		registry: runtime.Registry(),
	}
	for i := range prog.Words {
		it.words[prog.Words[i].Name] = &prog.Words[i]
	}
	for _, inc := range prog.Includes {
		ffi, ok := inc.(ast.FfiInclude)
		if !ok {
			continue
		}
		for name, prim := range runtime.GetExtBuiltins(ffi.Name) {
			it.registry[name] = prim
		}
	}
	return it
}

// Run executes wordName's body against s, panicking (as internal/runtime's
// primitives themselves do on misuse) rather than returning an error: a
// well-typed, well-linted program should never hit one of these panics in
// practice, so they surface bugs rather than expected control flow.
func (it *Interpreter) Run(wordName string, s *stack.Stack) {
	w, ok := it.words[wordName]
	if !ok {
		panic(fmt.Sprintf("interp: unknown word %q", wordName))
	}
	it.execStatements(w.Body, s)
}

func (it *Interpreter) execStatements(stmts []ast.Statement, s *stack.Stack) {
	for _, st := range stmts {
		it.execStatement(st, s)
	}
}

func (it *Interpreter) execStatement(st ast.Statement, s *stack.Stack) {
	switch n := st.(type) {
	case *ast.IntLiteral:
		s.Push(value.IntVal(n.Value))
	case *ast.FloatLiteral:
		s.Push(value.FloatVal(n.Value))
	case *ast.BoolLiteral:
		s.Push(value.BoolVal(n.Value))
	case *ast.StringLiteral:
		s.Push(value.Value{Tag: value.TagString, Str: value.NewGlobal(n.Value)})
	case *ast.WordCall:
		it.execWordCall(n, s)
	case *ast.Quotation:
		it.pushQuotation(n, s)
	case *ast.If:
		it.execIf(n, s)
	case *ast.Match:
		it.execMatch(n, s)
	default:
		panic(fmt.Sprintf("interp: unhandled statement type %T", st))
	}
}

// execWordCall dispatches by name: a sibling compiled word runs in the
// current stack frame exactly as a tailcc-compiled `call` would, a
// registry entry runs its Go body directly, and anything else is an
// unresolved reference a prior include/inference pass should have caught.
func (it *Interpreter) execWordCall(n *ast.WordCall, s *stack.Stack) {
	if w, ok := it.words[n.Name]; ok {
		it.execStatements(w.Body, s)
		return
	}
	if prim, ok := it.registry[n.Name]; ok {
		prim(s)
		return
	}
	panic(fmt.Sprintf("interp: unresolved word %q at %s", n.Name, n.Loc))
}

// pushQuotation captures n.Body by reference (not by copying the AST) so a
// quotation invoked many times (e.g. from list.map) always sees the
// program's word table through the same Interpreter.
func (it *Interpreter) pushQuotation(n *ast.Quotation, s *stack.Stack) {
	body := n.Body
	fn := value.QuotationFn(func(raw interface{}) {
		sub, ok := raw.(*stack.Stack)
		if !ok {
			panic("interp: quotation invoked with a non-*stack.Stack argument")
		}
		it.execStatements(body, sub)
	})
	s.Push(value.Value{Tag: value.TagQuotation, Quot: value.Quotation{Wrapper: fn, Impl: fn}})
}

func (it *Interpreter) execIf(n *ast.If, s *stack.Stack) {
	cond := s.Pop()
	if cond.Tag != value.TagBool {
		panic(fmt.Sprintf("interp: if condition must be Bool, got %s at %s", cond.Tag, n.Loc))
	}
	if cond.Bool {
		it.execStatements(n.Then, s)
	} else {
		it.execStatements(n.Else, s)
	}
}

// execMatch pops the scrutinized Variant, locates the arm whose tag
// matches, and for a VariantWithBindings pattern pushes the variant's
// fields in declaration order before running the arm body — this
// interpreter has no lexical-binding environment (the language is
// concatenative throughout), so a binding name only documents which stack
// position a field lands at; the arm body references it positionally,
// same as every other word.
func (it *Interpreter) execMatch(n *ast.Match, s *stack.Stack) {
	v := s.Pop()
	if v.Tag != value.TagVariant || v.Heap == nil || v.Heap.Variant == nil {
		panic(fmt.Sprintf("interp: match scrutinee must be a Variant, got %s at %s", v.Tag, n.Loc))
	}
	data := v.Heap.Variant
	for _, arm := range n.Arms {
		tag, bindings := armTag(arm.Pattern)
		if tag != data.Tag {
			continue
		}
		if bindings {
			for _, f := range data.Fields {
				s.Push(f)
			}
		}
		it.execStatements(arm.Body, s)
		return
	}
	panic(fmt.Sprintf("interp: no match arm for tag %q at %s", data.Tag, n.Loc))
}

func armTag(p ast.Pattern) (tag string, hasBindings bool) {
	switch pat := p.(type) {
	case ast.VariantTag:
		return pat.Tag, false
	case ast.VariantWithBindings:
		return pat.Tag, true
	default:
		return "", false
	}
}
