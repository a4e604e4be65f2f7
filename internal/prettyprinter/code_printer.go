// Package prettyprinter renders an *ast.Program back to seq surface
// syntax, driving cmd/seqfmt. The low-level buffer/indent/column
// bookkeeping (CodePrinter, write/writeln/writeIndent) is kept from the
// teacher's expression-language printer; every Visit* method above it was
// specific to that language's infix/prefix/pipe-chain expression AST
// (none of which exists here) and is replaced with statement-sequence
// printing for seq's concatenative word bodies.
package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/seqc/internal/ast"
)

// CodePrinter accumulates formatted source text with 4-space indentation
// and soft line-width tracking (word bodies wrap onto a new line once the
// running column would exceed lineWidth, rather than emitting one
// arbitrarily long line).
type CodePrinter struct {
	buf       bytes.Buffer
	indent    int
	lineWidth int
	column    int
}

// NewCodePrinter returns a printer with the default 100-column soft wrap.
func NewCodePrinter() *CodePrinter {
	return &CodePrinter{indent: 0, lineWidth: 100, column: 0}
}

// NewCodePrinterWithWidth returns a printer with an explicit soft wrap
// width (0 disables wrapping).
func NewCodePrinterWithWidth(width int) *CodePrinter {
	return &CodePrinter{indent: 0, lineWidth: width, column: 0}
}

func (p *CodePrinter) SetLineWidth(width int) {
	p.lineWidth = width
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
	if idx := strings.LastIndex(s, "\n"); idx != -1 {
		p.column = len(s) - idx - 1
	} else {
		p.column += len(s)
	}
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
	p.column = 0
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
	p.column = p.indent * 4
}

// wouldOverflow reports whether writing s on the current line would cross
// the soft wrap width.
func (p *CodePrinter) wouldOverflow(s string) bool {
	return p.lineWidth > 0 && p.column+len(s)+1 > p.lineWidth
}

// PrintProgram renders includes, union declarations, and word definitions
// in that order, each section separated by a blank line.
func PrintProgram(prog *ast.Program) string {
	p := NewCodePrinter()
	p.printProgram(prog)
	return p.String()
}

func (p *CodePrinter) printProgram(prog *ast.Program) {
	for _, inc := range prog.Includes {
		p.printInclude(inc)
	}
	if len(prog.Includes) > 0 {
		p.writeln()
	}
	for _, u := range prog.Unions {
		p.printUnion(u)
		p.writeln()
	}
	for i, w := range prog.Words {
		if i > 0 {
			p.writeln()
		}
		p.printWord(&w)
	}
}

func (p *CodePrinter) printInclude(inc ast.Include) {
	p.write("include ")
	switch n := inc.(type) {
	case ast.StdInclude:
		p.write("std:" + n.Name)
	case ast.RelativeInclude:
		p.write(strconv.Quote(n.Path))
	case ast.FfiInclude:
		p.write("ffi:" + n.Name)
	}
	p.writeln()
}

func (p *CodePrinter) printUnion(u ast.UnionDef) {
	p.write("union " + u.Name)
	p.writeln()
	p.indent++
	for _, c := range u.Constructors {
		p.writeIndent()
		p.write(c.Tag + " " + strconv.Itoa(c.Arity))
		p.writeln()
	}
	p.indent--
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) printWord(w *ast.WordDef) {
	if len(w.AllowedLints) > 0 {
		p.write("# seq:allow(" + strings.Join(w.AllowedLints, ", ") + ")")
		p.writeln()
	}
	p.write(": " + w.Name)
	if w.DeclaredEffect != nil {
		p.write(" (")
		p.printEffectAnnotation(*w.DeclaredEffect)
		p.write(")")
	}
	p.writeln()
	p.indent++
	p.printStatements(w.Body)
	p.indent--
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) printEffectAnnotation(eff ast.EffectAnnotation) {
	p.write("..")
	p.write(eff.RowIn)
	for _, t := range eff.Inputs {
		p.write(" " + t)
	}
	p.write(" -- ..")
	p.write(eff.RowOut)
	for _, t := range eff.Outputs {
		p.write(" " + t)
	}
}

// printStatements prints one word's body, word-wrapping at lineWidth and
// re-indenting continuation lines to the current indent level.
func (p *CodePrinter) printStatements(stmts []ast.Statement) {
	p.writeIndent()
	for i, st := range stmts {
		tok := p.statementText(st)
		if i > 0 {
			if p.wouldOverflow(" " + tok) {
				p.writeln()
				p.writeIndent()
			} else {
				p.write(" ")
			}
		}
		p.printStatement(st)
		_ = tok
	}
	p.writeln()
}

// statementText renders a short one-line form used only to decide whether
// the next statement would overflow the soft wrap width; composite
// statements (Quotation/If/Match) are measured by their first token only,
// since their own internal layout always starts a fresh indent block.
func (p *CodePrinter) statementText(st ast.Statement) string {
	switch n := st.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(n.Value, 10)
	case *ast.FloatLiteral:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *ast.BoolLiteral:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.StringLiteral:
		return strconv.Quote(n.Value)
	case *ast.WordCall:
		return n.Name
	case *ast.Quotation:
		return "["
	case *ast.If:
		return "if"
	case *ast.Match:
		return "match"
	default:
		return ""
	}
}

func (p *CodePrinter) printStatement(st ast.Statement) {
	switch n := st.(type) {
	case *ast.IntLiteral:
		p.write(strconv.FormatInt(n.Value, 10))
	case *ast.FloatLiteral:
		p.write(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.BoolLiteral:
		if n.Value {
			p.write("true")
		} else {
			p.write("false")
		}
	case *ast.StringLiteral:
		p.write(strconv.Quote(n.Value))
	case *ast.WordCall:
		p.write(n.Name)
	case *ast.Quotation:
		p.printQuotation(n)
	case *ast.If:
		p.printIf(n)
	case *ast.Match:
		p.printMatch(n)
	}
}

func (p *CodePrinter) printQuotation(n *ast.Quotation) {
	p.write("[ ")
	for i, st := range n.Body {
		if i > 0 {
			p.write(" ")
		}
		p.printStatement(st)
	}
	p.write(" ]")
}

func (p *CodePrinter) printIf(n *ast.If) {
	p.write("if")
	p.printBranchBody(n.Then)
	if len(n.Else) > 0 {
		p.writeIndent()
		p.write("else")
		p.printBranchBody(n.Else)
	}
	p.writeIndent()
	p.write("then")
}

// printBranchBody prints an If branch's body on its own indented block,
// ending with a newline so the caller's next writeIndent starts clean.
func (p *CodePrinter) printBranchBody(stmts []ast.Statement) {
	p.writeln()
	p.indent++
	if len(stmts) > 0 {
		p.printStatements(stmts)
	}
	p.indent--
}

func (p *CodePrinter) printMatch(n *ast.Match) {
	p.write("match")
	p.writeln()
	for _, arm := range n.Arms {
		p.writeIndent()
		p.write("| ")
		p.printPattern(arm.Pattern)
		p.write(" ->")
		if len(arm.Body) == 0 {
			p.writeln()
			continue
		}
		p.write(" ")
		for i, st := range arm.Body {
			if i > 0 {
				p.write(" ")
			}
			p.printStatement(st)
		}
		p.writeln()
	}
	p.writeIndent()
	p.write("end")
}

func (p *CodePrinter) printPattern(pat ast.Pattern) {
	switch n := pat.(type) {
	case ast.VariantTag:
		p.write(n.Tag)
	case ast.VariantWithBindings:
		p.write(n.Tag + "(" + strings.Join(n.Bindings, " ") + ")")
	}
}
