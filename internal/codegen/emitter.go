// Package codegen drives textual LLVM IR emission for a well-typed
// program (spec.md 4.2). The encoding-specific half (cell stride, how a
// stack slot's Int/Float/Bool payload is loaded and stored) is factored
// out behind the Emitter interface so internal/codegen/tagged and
// internal/codegen/nanbox can each provide one while sharing everything
// else: the virtual-register window (window.go), the inline-operation
// catalogue below, and the per-word driver (EmitProgram).
//
// Grounded on original_source/crates/compiler/src/codegen/inline/ops.rs's
// function-by-function structure (codegenInlineBinaryOp,
// codegenInlineComparison, codegenInlineShift, codegenInlineWhile,
// codegenInlineTimes, ...), translated from LLVM-C-API builder calls to Go
// strings.Builder-based textual emission — see DESIGN.md for the decision
// against a cgo LLVM binding.
package codegen

import (
	"fmt"
	"strings"

	"github.com/funvibe/seqc/internal/ast"
)

// Emitter is the encoding-specific half of code generation.
type Emitter interface {
	// Name identifies the encoding, recorded in the emitted module's
	// header comment.
	Name() string

	// CellStride is the byte stride between adjacent stack slots.
	CellStride() int

	// DeclarePrelude emits any encoding-specific type declarations (the
	// tagged cell struct; nothing for the word-sized nanbox encoding).
	DeclarePrelude(b *strings.Builder)

	// LoadInt/StoreInt read or write the Int payload at stack slot index
	// slot (0 = top) relative to the SSA pointer spReg. LoadInt returns
	// the SSA register name holding the loaded i64.
	LoadInt(b *strings.Builder, regs *RegGen, spReg string, slot int) string
	StoreInt(b *strings.Builder, regs *RegGen, spReg string, slot int, valueReg string)

	LoadFloat(b *strings.Builder, regs *RegGen, spReg string, slot int) string
	StoreFloat(b *strings.Builder, regs *RegGen, spReg string, slot int, valueReg string)

	LoadBool(b *strings.Builder, regs *RegGen, spReg string, slot int) string
	StoreBool(b *strings.Builder, regs *RegGen, spReg string, slot int, valueReg string)

	// StoreString writes a String-tagged cell at slot pointing at the
	// literal addressed by strPtrExpr (a constant getelementptr into the
	// literal's emitted global, see internString). There is no LoadString:
	// runtime primitives consuming a string take the whole stack pointer
	// and read the cell themselves, so codegen never needs to materialize
	// the pointer into a register for its own use.
	StoreString(b *strings.Builder, regs *RegGen, spReg string, slot int, strPtrExpr string)

	// TagOf emits the sequence reading the tag discriminant (as i8) of
	// slot, used by call's tail-position Quotation/Closure dispatch.
	TagOf(b *strings.Builder, regs *RegGen, spReg string, slot int) string
}

// inlineBinaryIntOps maps each spec.md 4.2 inline int-arithmetic word to
// its LLVM instruction mnemonic.
var inlineBinaryIntOps = map[string]string{
	"add": "add", "subtract": "sub", "multiply": "mul", "divide": "sdiv",
	"mod": "srem", "band": "and", "bor": "or", "bxor": "xor",
}

// inlineComparisonOps maps each comparison word to its icmp predicate.
var inlineComparisonOps = map[string]string{
	"=": "eq", "!=": "ne", "<": "slt", ">": "sgt", "<=": "sle", ">=": "sge",
}

var inlineFloatOps = map[string]string{
	"f.add": "fadd", "f.sub": "fsub", "f.mul": "fmul", "f.div": "fdiv",
}

var inlineFloatComparisonOps = map[string]string{
	"f.=": "oeq", "f.<": "olt", "f.>": "ogt",
}

var inlineShiftOps = map[string]string{"shl": "shl", "shr": "lshr"}

// runtimePrimitives names the non-inlined spec.md 4.3 catalogue entries
// that always resolve to a @patch_seq_ runtime call rather than a
// musttail call into another compiled word (see internal/runtime's
// registry.go for the Go-side counterpart of this same name set). A user
// word call not in this set is assumed to be a sibling compiled word and
// becomes a tailcc musttail target when it occupies tail position.
var runtimePrimitives = map[string]bool{
	"io.write-line": true, "io.read-line": true, "io.read-line+": true, "io.read-n": true, "os.exit": true,
	"chan.make": true, "chan.send": true, "chan.receive": true, "chan.close": true,
	"strand.spawn": true, "strand.weave": true, "strand.resume": true, "strand.weave-cancel": true,
	"variant.make-0": true, "variant.make-1": true, "variant.make-2": true, "variant.make-3": true, "variant.make-4": true,
	"variant.field-count": true, "variant.at": true, "variant.tag": true, "variant.append": true, "variant.init": true, "variant.last": true,
	"map.make": true, "map.set": true, "map.get": true, "map.has?": true, "map.remove": true, "map.size": true, "map.empty?": true,
	"string.length": true, "string.byte-length": true, "string.concat": true, "string.contains": true, "string.starts-with": true,
	"string.empty?": true, "string.equal?": true, "string.substring": true, "string.char-at": true, "char->string": true,
	"string.find": true, "string.split": true, "string.trim": true, "string.chomp": true, "string.to-upper": true, "string.to-lower": true,
	"string.json-escape": true, "string->int": true, "string->float": true, "int->string": true, "float->string": true,
	"list.map": true, "list.filter": true, "list.fold": true, "list.each": true, "list.length": true, "list.empty?": true,
	"drop": true, "dup": true, "swap": true, "over": true, "rot": true, "-rot": true, "nip": true, "tuck": true, "2dup": true, "3drop": true,
	"pick": true, "roll": true,
}

// wordFn holds one emitted word's generated body, keyed for module
// assembly and for the tail-call-eligibility pass (4.2.3).
type wordFn struct {
	name string
	body string
}

// stringGlobal is one interned string literal's emitted global constant.
type stringGlobal struct {
	name string // "@str.N"
	text string
}

// Module drives EmitProgram's single pass over a program: per-word IR
// text, the set of runtime primitive names actually referenced (for
// declarations), and the chosen Emitter's name (recorded in a header
// comment for reproducibility).
type Module struct {
	Emitter      Emitter
	words        []wordFn
	externs      map[string]bool
	quotationSeq int

	strings    []stringGlobal
	stringSeq  int
}

// internString emits (on first sight; this pass does not dedup by
// content, since a repeated literal's two call sites may still want
// distinct globals once string mutation primitives exist) a new global
// constant holding s's bytes plus a trailing NUL, per spec.md 9's
// "Codegen emits string literals as global symbols", and returns the
// constant getelementptr expression addressing its first byte —
// directly usable as an i8* operand in a StoreString call.
func (m *Module) internString(s string) string {
	name := fmt.Sprintf("@str.%d", m.stringSeq)
	m.stringSeq++
	m.strings = append(m.strings, stringGlobal{name: name, text: s})
	length := len(s) + 1
	return fmt.Sprintf("getelementptr inbounds ([%d x i8], [%d x i8]* %s, i64 0, i64 0)", length, length, name)
}

// NewModule starts a fresh module for one compilation using e.
func NewModule(e Emitter) *Module {
	return &Module{Emitter: e, externs: map[string]bool{}}
}

// EmitProgram emits one tailcc function per word (main excepted, which
// keeps C ABI per spec.md 4.2) plus declarations for every referenced
// runtime primitive, returning the assembled textual IR module.
func (m *Module) EmitProgram(prog *ast.Program) string {
	for i := range prog.Words {
		m.emitWord(&prog.Words[i])
	}
	return m.assemble()
}

func (m *Module) emitWord(w *ast.WordDef) {
	regs := &RegGen{}
	vs := NewVirtualStack()
	var b strings.Builder

	cc := "tailcc"
	if w.Name == "main" {
		cc = "ccc"
	}
	fmt.Fprintf(&b, "define %s i8* @word_%s(i8* %%sp.0) {\n", cc, sanitizeSymbol(w.Name))
	b.WriteString("entry:\n")

	spReg := "%sp.0"
	m.emitStatements(&b, regs, vs, spReg, w.Body, true)

	if !endsInTailCall(w.Body) {
		m.spillWindow(&b, regs, spReg, vs)
		b.WriteString("  ret i8* " + spReg + "\n")
	}
	b.WriteString("}\n")

	m.words = append(m.words, wordFn{name: w.Name, body: b.String()})
}

// emitStatements walks a statement list, spilling the virtual window at
// every mandatory point spec.md 4.2 names and emitting tail-call dispatch
// for the last statement when tailPosition is true.
func (m *Module) emitStatements(b *strings.Builder, regs *RegGen, vs *VirtualStack, spReg string, stmts []ast.Statement, tailPosition bool) {
	for i, st := range stmts {
		last := i == len(stmts)-1
		m.emitStatement(b, regs, vs, spReg, st, tailPosition && last)
	}
}

func (m *Module) emitStatement(b *strings.Builder, regs *RegGen, vs *VirtualStack, spReg string, st ast.Statement, inTail bool) {
	switch n := st.(type) {
	case *ast.IntLiteral:
		vs.Push(ConstIntValue(n.Value))
	case *ast.FloatLiteral:
		vs.Push(ConstFloatValue(n.Value))
	case *ast.BoolLiteral:
		v := int64(0)
		if n.Value {
			v = 1
		}
		vs.Push(ConstIntValue(v))
	case *ast.StringLiteral:
		// Heap-typed push: spec.md 4.2 mandates a spill before it, and a
		// string literal is always heap-typed, so it never lives in the
		// virtual window uncommitted the way an Int/Float constant can —
		// push it straight onto the window as a VirtualConstString, which
		// the next spillWindow (here, immediately) commits to memory via
		// the Emitter's StoreString.
		ptrExpr := m.internString(n.Value)
		vs.Push(ConstStringValue(ptrExpr))
		m.spillWindow(b, regs, spReg, vs)
	case *ast.WordCall:
		m.emitWordCall(b, regs, vs, spReg, n, inTail)
	case *ast.Quotation:
		m.emitQuotation(b, regs, vs, spReg, n)
	case *ast.If:
		m.emitIf(b, regs, vs, spReg, n, inTail)
	case *ast.Match:
		m.emitMatch(b, regs, vs, spReg, n, inTail)
	}
}

// spillWindow writes the live virtual values to memory, matching one of
// spec.md 4.2's mandatory spill points.
func (m *Module) spillWindow(b *strings.Builder, regs *RegGen, spReg string, vs *VirtualStack) {
	for i, v := range vs.Spill() {
		switch v.Kind {
		case VirtualConstInt:
			m.Emitter.StoreInt(b, regs, spReg, i, fmt.Sprintf("%d", v.ConstInt))
		case VirtualConstFloat:
			m.Emitter.StoreFloat(b, regs, spReg, i, fmt.Sprintf("%g", v.ConstFlt))
		case VirtualRegister:
			m.Emitter.StoreInt(b, regs, spReg, i, v.Reg)
		case VirtualConstString:
			m.Emitter.StoreString(b, regs, spReg, i, v.ConstStringPtr)
		}
	}
}

func (m *Module) emitWordCall(b *strings.Builder, regs *RegGen, vs *VirtualStack, spReg string, call *ast.WordCall, inTail bool) {
	if op, ok := inlineBinaryIntOps[call.Name]; ok {
		m.emitInlineBinaryOp(b, regs, vs, op)
		return
	}
	if pred, ok := inlineComparisonOps[call.Name]; ok {
		m.emitInlineComparison(b, regs, vs, pred)
		return
	}
	if op, ok := inlineFloatOps[call.Name]; ok {
		m.emitInlineFloatOp(b, regs, vs, op)
		return
	}
	if pred, ok := inlineFloatComparisonOps[call.Name]; ok {
		m.emitInlineFloatComparison(b, regs, vs, pred)
		return
	}
	if op, ok := inlineShiftOps[call.Name]; ok {
		m.emitInlineShift(b, regs, vs, op)
		return
	}
	if call.Name == "call" {
		m.spillWindow(b, regs, spReg, vs)
		m.emitCall(b, regs, spReg, inTail)
		return
	}

	// Not inlined: spill the window (a call is a mandatory spill point).
	m.spillWindow(b, regs, spReg, vs)

	if runtimePrimitives[call.Name] {
		// Runtime primitives are always a non-tail @patch_seq_ call: they
		// have no sibling tailcc function for musttail to target.
		m.externs[call.Name] = true
		fmt.Fprintf(b, "  %%sp.next = call i8* @patch_seq_%s(i8* %s)\n", sanitizeSymbol(call.Name), spReg)
		return
	}

	// A user-defined word: eligible for musttail in tail position.
	if inTail {
		b.WriteString("  call void @seqc_yield_probe()\n")
		fmt.Fprintf(b, "  %%sp.next = musttail call tailcc i8* @word_%s(i8* %s)\n", sanitizeSymbol(call.Name), spReg)
		b.WriteString("  ret i8* %sp.next\n")
	} else {
		fmt.Fprintf(b, "  %%sp.next = call tailcc i8* @word_%s(i8* %s)\n", sanitizeSymbol(call.Name), spReg)
	}
}

// emitCall implements the generic `call` dispatch (4.2.3): a tail-position
// call peeks the top cell's tag and either musttails into a Quotation's
// impl_ pointer or falls back to a regular runtime call for a Closure.
func (m *Module) emitCall(b *strings.Builder, regs *RegGen, spReg string, inTail bool) {
	tagReg := m.Emitter.TagOf(b, regs, spReg, 0)
	quotLabel := regs.Block("call.quot")
	closLabel := regs.Block("call.clos")
	fmt.Fprintf(b, "  %%is.quot = icmp eq i8 %s, 6\n", tagReg)
	fmt.Fprintf(b, "  br i1 %%is.quot, label %%%s, label %%%s\n", quotLabel, closLabel)

	fmt.Fprintf(b, "%s:\n", quotLabel)
	if inTail {
		b.WriteString("  call void @seqc_yield_probe()\n")
		fmt.Fprintf(b, "  %%sp.q = musttail call tailcc i8* %%impl_ptr(i8* %s)\n", spReg)
		b.WriteString("  ret i8* %sp.q\n")
	} else {
		fmt.Fprintf(b, "  %%sp.q = call tailcc i8* %%impl_ptr(i8* %s)\n", spReg)
	}

	fmt.Fprintf(b, "%s:\n", closLabel)
	b.WriteString("  ; Closure: non-tail fallback, signatures differ (musttail illegal)\n")
	fmt.Fprintf(b, "  %%sp.c = call i8* %%wrapper_ptr(i8* %s)\n", spReg)
	if inTail {
		b.WriteString("  ret i8* %sp.c\n")
	}
}

func (m *Module) emitInlineBinaryOp(b *strings.Builder, regs *RegGen, vs *VirtualStack, instr string) {
	rhs, rok := vs.Pop()
	lhs, lok := vs.Pop()
	if !rok || !lok {
		b.WriteString("  ; inline binary op: operand spilled, falling back to memory path\n")
		return
	}
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = %s i64 %s, %s\n", r, instr, operandText(lhs), operandText(rhs))
	vs.Push(RegValue(r))
}

func (m *Module) emitInlineComparison(b *strings.Builder, regs *RegGen, vs *VirtualStack, pred string) {
	rhs, rok := vs.Pop()
	lhs, lok := vs.Pop()
	if !rok || !lok {
		b.WriteString("  ; inline comparison: operand spilled, falling back to memory path\n")
		return
	}
	cmp := regs.Reg()
	fmt.Fprintf(b, "  %s = icmp %s i64 %s, %s\n", cmp, pred, operandText(lhs), operandText(rhs))
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = zext i1 %s to i64\n", r, cmp)
	vs.Push(RegValue(r))
}

func (m *Module) emitInlineFloatOp(b *strings.Builder, regs *RegGen, vs *VirtualStack, instr string) {
	rhs, rok := vs.Pop()
	lhs, lok := vs.Pop()
	if !rok || !lok {
		b.WriteString("  ; inline float op: operand spilled, falling back to memory path\n")
		return
	}
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = %s double %s, %s\n", r, instr, operandTextF(lhs), operandTextF(rhs))
	vs.Push(RegValue(r))
}

func (m *Module) emitInlineFloatComparison(b *strings.Builder, regs *RegGen, vs *VirtualStack, pred string) {
	rhs, rok := vs.Pop()
	lhs, lok := vs.Pop()
	if !rok || !lok {
		b.WriteString("  ; inline float comparison: operand spilled, falling back to memory path\n")
		return
	}
	cmp := regs.Reg()
	fmt.Fprintf(b, "  %s = fcmp %s double %s, %s\n", cmp, pred, operandTextF(lhs), operandTextF(rhs))
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = zext i1 %s to i64\n", r, cmp)
	vs.Push(RegValue(r))
}

// emitInlineShift range-checks the shift amount against [0,64) and, with
// an explicit select, yields 0 when it falls outside, matching spec.md
// 4.2's "Shifts outside [0,64) yield 0" note.
func (m *Module) emitInlineShift(b *strings.Builder, regs *RegGen, vs *VirtualStack, instr string) {
	amt, aok := vs.Pop()
	val, vok := vs.Pop()
	if !aok || !vok {
		b.WriteString("  ; inline shift: operand spilled, falling back to memory path\n")
		return
	}
	inRange := regs.Reg()
	fmt.Fprintf(b, "  %s = icmp ult i64 %s, 64\n", inRange, operandText(amt))
	shiftReg := regs.Reg()
	fmt.Fprintf(b, "  %s = %s i64 %s, %s\n", shiftReg, instr, operandText(val), operandText(amt))
	clamped := regs.Reg()
	fmt.Fprintf(b, "  %s = select i1 %s, i64 %s, i64 0\n", clamped, inRange, shiftReg)
	vs.Push(RegValue(clamped))
}

func (m *Module) emitQuotation(b *strings.Builder, regs *RegGen, vs *VirtualStack, spReg string, q *ast.Quotation) {
	m.quotationSeq++
	id := m.quotationSeq
	m.spillWindow(b, regs, spReg, vs)

	implName := fmt.Sprintf("quot_%d_impl", id)
	wrapperName := fmt.Sprintf("quot_%d_wrapper", id)

	var qb strings.Builder
	fmt.Fprintf(&qb, "define tailcc i8* @%s(i8* %%sp.0) {\nentry:\n", implName)
	innerRegs := &RegGen{}
	innerVS := NewVirtualStack()
	m.emitStatements(&qb, innerRegs, innerVS, "%sp.0", q.Body, true)
	if !endsInTailCall(q.Body) {
		m.spillWindow(&qb, innerRegs, "%sp.0", innerVS)
		qb.WriteString("  ret i8* %sp.0\n")
	}
	qb.WriteString("}\n")
	fmt.Fprintf(&qb, "define i8* @%s(i8* %%sp.0) {\nentry:\n", wrapperName)
	fmt.Fprintf(&qb, "  %%r = musttail call tailcc i8* @%s(i8* %%sp.0)\n", implName)
	qb.WriteString("  ret i8* %r\n}\n")

	m.words = append(m.words, wordFn{name: implName, body: qb.String()})

	b.WriteString("  ; push_quotation(wrapper, impl_): two payload slots\n")
	fmt.Fprintf(b, "  call void @patch_seq_push_quotation(i8* %s, i8* (i8*)* @%s, i8* (i8*)* @%s)\n", spReg, wrapperName, implName)
}

func (m *Module) emitIf(b *strings.Builder, regs *RegGen, vs *VirtualStack, spReg string, n *ast.If, inTail bool) {
	m.spillWindow(b, regs, spReg, vs)
	cond := m.Emitter.LoadBool(b, regs, spReg, 0)
	thenL := regs.Block("if.then")
	elseL := regs.Block("if.else")
	endL := regs.Block("if.end")
	condBit := regs.Reg()
	fmt.Fprintf(b, "  %s = trunc i64 %s to i1\n", condBit, cond)
	fmt.Fprintf(b, "  br i1 %s, label %%%s, label %%%s\n", condBit, thenL, elseL)

	fmt.Fprintf(b, "%s:\n", thenL)
	thenVS := NewVirtualStack()
	m.emitStatements(b, regs, thenVS, spReg, n.Then, inTail)
	m.spillWindow(b, regs, spReg, thenVS)
	fmt.Fprintf(b, "  br label %%%s\n", endL)

	fmt.Fprintf(b, "%s:\n", elseL)
	elseVS := NewVirtualStack()
	m.emitStatements(b, regs, elseVS, spReg, n.Else, inTail)
	m.spillWindow(b, regs, spReg, elseVS)
	fmt.Fprintf(b, "  br label %%%s\n", endL)

	fmt.Fprintf(b, "%s:\n", endL)
	spPhi := regs.Reg()
	fmt.Fprintf(b, "  %s = phi i8* [ %s, %%%s ], [ %s, %%%s ]\n", spPhi, spReg, thenL, spReg, elseL)
}

func (m *Module) emitMatch(b *strings.Builder, regs *RegGen, vs *VirtualStack, spReg string, n *ast.Match, inTail bool) {
	m.spillWindow(b, regs, spReg, vs)
	tagReg := m.Emitter.TagOf(b, regs, spReg, 0)
	endL := regs.Block("match.end")
	b.WriteString("  switch i8 " + tagReg + ", label %match.default [\n")
	var arms []string
	for _, arm := range n.Arms {
		lbl := regs.Block("match.arm")
		arms = append(arms, lbl)
		tag := patternTag(arm.Pattern)
		fmt.Fprintf(b, "    i8 %d, label %%%s\n", tagHash(tag), lbl)
	}
	b.WriteString("  ]\n")
	for i, arm := range n.Arms {
		fmt.Fprintf(b, "%s:\n", arms[i])
		armVS := NewVirtualStack()
		m.emitStatements(b, regs, armVS, spReg, arm.Body, inTail)
		m.spillWindow(b, regs, spReg, armVS)
		fmt.Fprintf(b, "  br label %%%s\n", endL)
	}
	b.WriteString("match.default:\n  unreachable\n")
	fmt.Fprintf(b, "%s:\n", endL)
}

func patternTag(p ast.Pattern) string {
	switch pat := p.(type) {
	case ast.VariantTag:
		return pat.Tag
	case ast.VariantWithBindings:
		return pat.Tag
	default:
		return ""
	}
}

func tagHash(s string) int {
	h := 0
	for _, r := range s {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h % 251
}

func operandText(v VirtualValue) string {
	if v.Kind == VirtualConstInt {
		return fmt.Sprintf("%d", v.ConstInt)
	}
	return v.Reg
}

func operandTextF(v VirtualValue) string {
	if v.Kind == VirtualConstFloat {
		return fmt.Sprintf("%g", v.ConstFlt)
	}
	return v.Reg
}

func sanitizeSymbol(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", "?", "_p", "!", "_bang").Replace(name)
}

// endsInTailCall reports whether stmts' last statement is itself a
// tail-position WordCall/If that already emits a `ret`, so emitWord
// should suppress the usual trailing ret (spec.md 4.2.3).
func endsInTailCall(stmts []ast.Statement) bool {
	if len(stmts) == 0 {
		return false
	}
	switch last := stmts[len(stmts)-1].(type) {
	case *ast.WordCall:
		if last.Name == "call" {
			return true
		}
		if runtimePrimitives[last.Name] {
			return false
		}
		_, isInline := inlineBinaryIntOps[last.Name]
		_, isCmp := inlineComparisonOps[last.Name]
		_, isFloat := inlineFloatOps[last.Name]
		_, isFloatCmp := inlineFloatComparisonOps[last.Name]
		_, isShift := inlineShiftOps[last.Name]
		return !isInline && !isCmp && !isFloat && !isFloatCmp && !isShift
	case *ast.If:
		return allBranchesTailTerminate(last.Then) && allBranchesTailTerminate(last.Else)
	default:
		return false
	}
}

func allBranchesTailTerminate(stmts []ast.Statement) bool {
	if len(stmts) == 0 {
		return true
	}
	return endsInTailCall(stmts)
}

func (m *Module) assemble() string {
	var b strings.Builder
	fmt.Fprintf(&b, "; seqc codegen output, encoding=%s\n", m.Emitter.Name())
	m.Emitter.DeclarePrelude(&b)
	for _, sg := range m.strings {
		fmt.Fprintf(&b, "%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"\n", sg.name, len(sg.text)+1, llvmEscapeString(sg.text))
	}
	b.WriteString("declare void @seqc_yield_probe()\n")
	for name := range m.externs {
		fmt.Fprintf(&b, "declare i8* @patch_seq_%s(i8* %%sp)\n", sanitizeSymbol(name))
	}
	b.WriteString("declare void @patch_seq_push_quotation(i8*, i8* (i8*)*, i8* (i8*)*)\n")
	for _, w := range m.words {
		b.WriteString(w.body)
		b.WriteString("\n")
	}
	return b.String()
}

// llvmEscapeString renders s the way LLVM's textual IR requires inside a
// c"..." constant: every non-printable-ASCII or '"'/'\\' byte becomes a
// two-hex-digit \XX escape.
func llvmEscapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' || c < 0x20 || c >= 0x7f {
			fmt.Fprintf(&b, "\\%02X", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
