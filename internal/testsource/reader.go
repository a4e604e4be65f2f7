// Package testsource is a minimal hand-rolled recursive-descent reader for
// the handful of .seq fixtures exercised by internal/pipeline's end-to-end
// tests. It is explicitly test scaffolding, not a production parser:
// spec.md 1 puts the tokenizer/parser frontend out of scope, so this
// package exists only to turn a readable fixture string into the
// internal/ast tree the rest of the module actually specifies.
//
// Surface grammar (documented here since spec.md gives only two worked
// examples, section 6.1's loop/main pair and the weave snippet):
//
//	program    := (include | union | word)*
//	include    := "include" ("std:" NAME | STRING | "ffi:" NAME)
//	union      := "union" NAME (NAME INT)* ";"
//	word       := ("#" "seq:allow" "(" NAME ("," NAME)* ")")?
//	              ":" NAME ("(" effect ")")? statement* ";"
//	effect     := rowspec? type* "--" rowspec? type*
//	rowspec    := ".." NAME
//
// (an omitted input rowspec reads as "..a"; an omitted output rowspec
// reads as the input row.)
//	statement  := INT | FLOAT | "true" | "false" | STRING
//	            | "[" statement* "]"
//	            | "if" statement* ("else" statement*)? "then"
//	            | "match" arm* "end"
//	            | NAME
//	arm        := "|" NAME ("(" NAME* ")")? "->" statement*
//
// (binding lists inside a match arm's parentheses are space-separated, not
// comma-separated, since the tokenizer treats "," as ordinary token text.)
//
// Quotation and match syntax are this reader's own invention (spec.md
// names the AST shapes but gives no literal token form for them); the
// word/if/effect-annotation grammar above matches spec.md 6.1's worked
// examples exactly.
package testsource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/seqc/internal/ast"
)

type token struct {
	text string
	line int
	col  int
}

// tokenize splits src into whitespace-separated tokens, treating
// "(" ")" "[" "]" ";" as always-separate tokens and double-quoted strings
// as a single token (escapes: \" \\ \n), and dropping "#"-led comment
// lines that are not a "# seq:allow(...)" annotation (which is itself
// tokenized so the reader can see it).
func tokenize(file, src string) []token {
	var toks []token
	line, col := 1, 1
	advance := func(n int) {
		for i := 0; i < n; i++ {
			if i < len(src) && src[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
	}
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			advance(1)
			i++
		case c == '"':
			startLine, startCol := line, col
			j := i + 1
			var sb strings.Builder
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' && j+1 < len(src) {
					switch src[j+1] {
					case 'n':
						sb.WriteByte('\n')
					case '"':
						sb.WriteByte('"')
					case '\\':
						sb.WriteByte('\\')
					default:
						sb.WriteByte(src[j+1])
					}
					j += 2
					continue
				}
				sb.WriteByte(src[j])
				j++
			}
			toks = append(toks, token{text: "\"" + sb.String(), line: startLine, col: startCol})
			advance(j + 1 - i)
			i = j + 1
		case c == '#':
			j := i
			for j < len(src) && src[j] != '\n' {
				j++
			}
			lineText := src[i:j]
			if strings.Contains(lineText, "seq:allow(") {
				startLine, startCol := line, col
				toks = append(toks, token{text: lineText, line: startLine, col: startCol})
			}
			advance(j - i)
			i = j
		case c == '(' || c == ')' || c == '[' || c == ']' || c == ';':
			toks = append(toks, token{text: string(c), line: line, col: col})
			advance(1)
			i++
		default:
			j := i
			for j < len(src) && !isBoundary(src[j]) {
				j++
			}
			toks = append(toks, token{text: src[i:j], line: line, col: col})
			advance(j - i)
			i = j
		}
	}
	_ = file
	return toks
}

func isBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '[', ']', ';', '"', '#':
		return true
	default:
		return false
	}
}

// reader walks a token list, producing an *ast.Program.
type reader struct {
	file string
	toks []token
	pos  int
	errs []error
}

// Read parses src (one .seq fixture's full text) into a Program. It reports
// the first parse error as a returned error rather than a partial tree: fixtures are
// hand-written and any parse failure is a bug in the fixture, not input to
// tolerate gracefully.
func Read(file, src string) (*ast.Program, error) {
	r := &reader{file: file, toks: tokenize(file, src)}
	prog := &ast.Program{}
	var pendingAllow []string
	for !r.atEnd() {
		tok := r.peek()
		switch {
		case strings.HasPrefix(tok.text, "#"):
			pendingAllow = append(pendingAllow, parseAllowAnnotation(tok.text)...)
			r.pos++
		case tok.text == "include":
			r.pos++
			prog.Includes = append(prog.Includes, r.readInclude())
		case tok.text == "union":
			r.pos++
			prog.Unions = append(prog.Unions, r.readUnion())
		case tok.text == ":":
			r.pos++
			w := r.readWord()
			w.AllowedLints = pendingAllow
			pendingAllow = nil
			prog.Words = append(prog.Words, w)
		default:
			r.fail(tok, "unexpected top-level token %q", tok.text)
			r.pos++
		}
	}
	if len(r.errs) > 0 {
		return nil, r.errs[0]
	}
	return prog, nil
}

func parseAllowAnnotation(raw string) []string {
	start := strings.Index(raw, "seq:allow(")
	if start < 0 {
		return nil
	}
	rest := raw[start+len("seq:allow("):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(rest[:end], ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

func (r *reader) atEnd() bool { return r.pos >= len(r.toks) }

func (r *reader) peek() token {
	if r.atEnd() {
		return token{text: "<eof>"}
	}
	return r.toks[r.pos]
}

func (r *reader) next() token {
	t := r.peek()
	r.pos++
	return t
}

func (r *reader) loc(t token) ast.SourceLoc {
	return ast.SourceLoc{File: r.file, Line: t.line, Column: t.col}
}

func (r *reader) fail(t token, format string, args ...interface{}) {
	r.errs = append(r.errs, fmt.Errorf("%s: %s", r.loc(t), fmt.Sprintf(format, args...)))
}

func (r *reader) readInclude() ast.Include {
	t := r.next()
	switch {
	case strings.HasPrefix(t.text, "\"std:"):
		return ast.StdInclude{Name: strings.TrimPrefix(t.text, "\"std:")}
	case strings.HasPrefix(t.text, "std:"):
		return ast.StdInclude{Name: strings.TrimPrefix(t.text, "std:")}
	case strings.HasPrefix(t.text, "ffi:"):
		return ast.FfiInclude{Name: strings.TrimPrefix(t.text, "ffi:")}
	case strings.HasPrefix(t.text, "\""):
		return ast.RelativeInclude{Path: strings.TrimPrefix(t.text, "\"")}
	default:
		r.fail(t, "malformed include directive %q", t.text)
		return ast.RelativeInclude{Path: t.text}
	}
}

func (r *reader) readUnion() ast.UnionDef {
	nameTok := r.next()
	u := ast.UnionDef{Name: nameTok.text, Loc: r.loc(nameTok)}
	for !r.atEnd() && r.peek().text != ";" {
		tagTok := r.next()
		arityTok := r.next()
		arity, _ := strconv.Atoi(arityTok.text)
		u.Constructors = append(u.Constructors, ast.ConstructorDef{Tag: tagTok.text, Arity: arity})
	}
	if !r.atEnd() {
		r.pos++ // consume ";"
	}
	return u
}

func (r *reader) readWord() ast.WordDef {
	nameTok := r.next()
	w := ast.WordDef{Name: nameTok.text, Loc: r.loc(nameTok)}
	if !r.atEnd() && r.peek().text == "(" {
		r.pos++
		eff := r.readEffectAnnotation()
		w.DeclaredEffect = &eff
	}
	w.Body = r.readStatements(";")
	if !r.atEnd() {
		r.pos++ // consume ";"
	}
	return w
}

func (r *reader) readEffectAnnotation() ast.EffectAnnotation {
	var eff ast.EffectAnnotation
	for !r.atEnd() && r.peek().text != "--" && r.peek().text != ")" {
		t := r.next()
		if strings.HasPrefix(t.text, "..") {
			eff.RowIn = strings.TrimPrefix(t.text, "..")
		} else {
			eff.Inputs = append(eff.Inputs, t.text)
		}
	}
	if !r.atEnd() && r.peek().text == "--" {
		r.pos++
	}
	for !r.atEnd() && r.peek().text != ")" {
		t := r.next()
		if strings.HasPrefix(t.text, "..") {
			eff.RowOut = strings.TrimPrefix(t.text, "..")
		} else {
			eff.Outputs = append(eff.Outputs, t.text)
		}
	}
	if !r.atEnd() {
		r.pos++ // consume ")"
	}
	if eff.RowIn == "" {
		eff.RowIn = "a"
	}
	if eff.RowOut == "" {
		eff.RowOut = eff.RowIn
	}
	return eff
}

// readStatements reads statements until a token equal to any of stopAt is
// seen (not consumed), or end of input.
func (r *reader) readStatements(stopAt ...string) []ast.Statement {
	var stmts []ast.Statement
	for !r.atEnd() && !isOneOf(r.peek().text, stopAt) {
		stmts = append(stmts, r.readStatement())
	}
	return stmts
}

func isOneOf(s string, set []string) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}

var quotationSeq int

func (r *reader) readStatement() ast.Statement {
	t := r.next()
	loc := r.loc(t)
	switch {
	case t.text == "[":
		quotationSeq++
		body := r.readStatements("]")
		if !r.atEnd() {
			r.pos++ // consume "]"
		}
		return &ast.Quotation{ID: quotationSeq, Body: body, Loc: loc}
	case t.text == "if":
		then := r.readStatements("else", "then")
		var els []ast.Statement
		if !r.atEnd() && r.peek().text == "else" {
			r.pos++
			els = r.readStatements("then")
		}
		if !r.atEnd() && r.peek().text == "then" {
			r.pos++
		}
		return &ast.If{Then: then, Else: els, Loc: loc}
	case t.text == "match":
		var arms []ast.MatchArm
		for !r.atEnd() && r.peek().text == "|" {
			arms = append(arms, r.readMatchArm())
		}
		if !r.atEnd() && r.peek().text == "end" {
			r.pos++
		}
		return &ast.Match{Arms: arms, Loc: loc}
	case t.text == "true":
		return &ast.BoolLiteral{Value: true, Loc: loc}
	case t.text == "false":
		return &ast.BoolLiteral{Value: false, Loc: loc}
	case strings.HasPrefix(t.text, "\""):
		return &ast.StringLiteral{Value: strings.TrimPrefix(t.text, "\""), Loc: loc}
	default:
		if n, err := strconv.ParseInt(t.text, 10, 64); err == nil {
			return &ast.IntLiteral{Value: n, Loc: loc}
		}
		if f, err := strconv.ParseFloat(t.text, 64); err == nil && strings.ContainsAny(t.text, ".eE") {
			return &ast.FloatLiteral{Value: f, Loc: loc}
		}
		return &ast.WordCall{Name: t.text, Loc: loc}
	}
}

func (r *reader) readMatchArm() ast.MatchArm {
	r.pos++ // consume "|"
	tagTok := r.next()
	var pattern ast.Pattern
	if !r.atEnd() && r.peek().text == "(" {
		r.pos++
		var bindings []string
		for !r.atEnd() && r.peek().text != ")" {
			bindings = append(bindings, r.next().text)
		}
		if !r.atEnd() {
			r.pos++ // consume ")"
		}
		pattern = ast.VariantWithBindings{Tag: tagTok.text, Bindings: bindings}
	} else {
		pattern = ast.VariantTag{Tag: tagTok.text}
	}
	if !r.atEnd() && r.peek().text == "->" {
		r.pos++
	}
	body := r.readStatements("|", "end")
	return ast.MatchArm{Pattern: pattern, Body: body}
}
