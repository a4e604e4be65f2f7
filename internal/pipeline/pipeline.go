// Package pipeline wires internal/infer, internal/lint, internal/resource,
// and internal/codegen into the ordered stage sequence a driver (cmd/seqc,
// cmd/seqlint) runs over one already-built *ast.Program. Construction of
// that AST is out of scope here: a caller hands in a Program built through
// internal/testsource (tests) or an external frontend's builder calls.
//
// Stage order: inference runs first and records the per-word effect table
// on the Context; linting, resource analysis and codegen work from the AST
// itself and do not read that table.
package pipeline

import (
	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/codegen"
	"github.com/funvibe/seqc/internal/diag"
	"github.com/funvibe/seqc/internal/infer"
	"github.com/funvibe/seqc/internal/lint"
	"github.com/funvibe/seqc/internal/resource"
	"github.com/funvibe/seqc/internal/types"
)

// Context is the value threaded through every stage. A stage reads the
// fields earlier stages populated and appends to Diagnostics; it never
// removes what a prior stage wrote, matching the accumulate-everything
// contract Run documents below.
type Context struct {
	File    string
	Program *ast.Program

	// Effects is populated by an InferProcessor stage.
	Effects map[string]*types.Effect

	// IR is populated by a Codegen stage, empty until one runs.
	IR string

	Diagnostics []*diag.Diagnostic
}

// Processor is one pipeline stage. Process must tolerate a Context whose
// earlier stages failed (e.g. Program non-nil but Effects nil) and should
// degrade gracefully rather than panic, since a driver collecting
// diagnostics for an IDE client needs every stage's output even when an
// earlier one reported errors.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs an ordered list of stages over one Context.
type Pipeline struct {
	processors []Processor
}

// New builds a Pipeline running processors in order.
func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, always passing the previous stage's
// returned Context to the next. Stages are never skipped because an
// earlier one reported diagnostics: a caller that wants to stop at the
// first fatal diagnostic should check diag.AnyFatal(ctx.Diagnostics)
// between Run calls.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages
		// (a diagnostics-serving driver like cmd/seqlint --serve wants
		// lint and resource findings even when inference failed).
	}
	return ctx
}

// InferProcessor runs type inference and records the per-word effect
// table and any diagnostics onto the Context.
type InferProcessor struct {
	Builtins infer.Env
}

// NewInferProcessor builds an InferProcessor seeded with the catalogue
// infer.Builtins() returns, the same table internal/infer's own tests use.
func NewInferProcessor() *InferProcessor {
	return &InferProcessor{Builtins: infer.Builtins()}
}

func (p *InferProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil {
		return ctx
	}
	builtins := p.Builtins
	if builtins == nil {
		builtins = infer.Builtins()
	}
	result := infer.Infer(ctx.Program, builtins)
	ctx.Effects = result.Effects
	ctx.Diagnostics = append(ctx.Diagnostics, result.Diags...)
	return ctx
}

// LintProcessor runs the stack-effect-pattern linter over the whole
// program.
type LintProcessor struct {
	Linter *lint.Linter
}

// NewLintProcessor builds a LintProcessor running the default rule set.
// err is non-nil only if the compiled-in default patterns fail to
// compile, which would itself be a bug in the rule table.
func NewLintProcessor() (*LintProcessor, error) {
	l, err := lint.WithDefaults()
	if err != nil {
		return nil, err
	}
	return &LintProcessor{Linter: l}, nil
}

func (p *LintProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil {
		return ctx
	}
	ctx.Diagnostics = append(ctx.Diagnostics, p.Linter.LintProgram(ctx.Program, ctx.File)...)
	return ctx
}

// ResourceProcessor runs the leak/branch-consistency analyser over every
// word in the program. It owns the per-word Analyzer lifecycle itself
// since resource.Analyzer.AnalyzeWord resets its Diagnostics slice on
// each call — this stage is the thing responsible for accumulating
// across words, the analyser itself only ever reports one word at a time.
type ResourceProcessor struct{}

func (p *ResourceProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil {
		return ctx
	}
	for i := range ctx.Program.Words {
		a := resource.NewAnalyzer(ctx.File)
		a.AnalyzeWord(&ctx.Program.Words[i])
		ctx.Diagnostics = append(ctx.Diagnostics, a.Diagnostics...)
	}
	return ctx
}

// CodegenProcessor emits textual LLVM IR for the program using Emitter's
// encoding. It still runs when earlier stages reported diagnostics (the
// accumulate-everything contract), but skips emission once any fatal
// diagnostic is present: codegen over an ill-typed program has no defined
// meaning, so producing IR for it would just manufacture confusing
// secondary errors.
type CodegenProcessor struct {
	Emitter codegen.Emitter
}

func (p *CodegenProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil || diag.AnyFatal(ctx.Diagnostics) {
		return ctx
	}
	m := codegen.NewModule(p.Emitter)
	ctx.IR = m.EmitProgram(ctx.Program)
	return ctx
}
