// Package lint implements the pattern-based stack-effect linter spec.md
// 4.5/8 describes: a sliding-window matcher over consecutive WordCall
// sequences within a word body, configurable via rules with $X single-word
// and $... multi-word wildcards, plus a structural if/else nesting-depth
// lint. Grounded on original_source/crates/compiler/src/lint.rs, adapted
// from its TOML rule format to YAML (this corpus has no TOML library in
// its dependency graph, but gopkg.in/yaml.v3 is already a direct teacher
// dependency used elsewhere for project configuration).
package lint

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/config"
	"github.com/funvibe/seqc/internal/diag"
)

// Rule is one configured lint rule: a space-separated pattern over word
// names, an optional suggested replacement, and a severity.
type Rule struct {
	ID          string `yaml:"id"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
	Message     string `yaml:"message"`
	Severity    string `yaml:"severity"`
}

// Config is the top-level rule list, loaded from seqc.yaml's `lint:` key
// or the embedded default set.
type Config struct {
	Rules []Rule `yaml:"lint"`
}

// DefaultRules mirrors the teacher's embedded lints.toml content,
// translated to this corpus's rule set verbatim (same ids/patterns/
// messages/severities as original_source's test fixture and default
// ruleset).
var DefaultRules = []Rule{
	{ID: "redundant-dup-drop", Pattern: "dup drop", Replacement: "", Message: "`dup drop` has no effect", Severity: "warning"},
	{ID: "prefer-nip", Pattern: "swap drop", Replacement: "nip", Message: "prefer `nip` over `swap drop`", Severity: "hint"},
	{ID: "redundant-swap-swap", Pattern: "swap swap", Replacement: "", Message: "consecutive swaps cancel out", Severity: "warning"},
}

func ParseConfig(src []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(src, &c); err != nil {
		return nil, fmt.Errorf("parse lint config: %w", err)
	}
	return &c, nil
}

func DefaultConfig() *Config { return &Config{Rules: append([]Rule(nil), DefaultRules...)} }

// Merge applies user rules on top of defaults: same id replaces, new id appends.
func (c *Config) Merge(other *Config) {
	for _, r := range other.Rules {
		replaced := false
		for i := range c.Rules {
			if c.Rules[i].ID == r.ID {
				c.Rules[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			c.Rules = append(c.Rules, r)
		}
	}
}

// element is a compiled pattern token.
type elementKind int

const (
	elemWord elementKind = iota
	elemSingleWildcard
	elemMultiWildcard
)

type element struct {
	kind elementKind
	text string
}

// compiledPattern is a Rule with its pattern pre-split into elements.
type compiledPattern struct {
	rule     Rule
	elements []element
}

func compile(r Rule) (*compiledPattern, error) {
	var elems []element
	multi := 0
	for _, tok := range strings.Fields(r.Pattern) {
		switch {
		case tok == "$...":
			multi++
			elems = append(elems, element{kind: elemMultiWildcard})
		case strings.HasPrefix(tok, "$"):
			elems = append(elems, element{kind: elemSingleWildcard, text: tok})
		default:
			elems = append(elems, element{kind: elemWord, text: tok})
		}
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("empty pattern in lint rule %q", r.ID)
	}
	if multi > 1 {
		return nil, fmt.Errorf("pattern in lint rule %q has %d multi-wildcards ($...), but at most 1 is allowed", r.ID, multi)
	}
	return &compiledPattern{rule: r, elements: elems}, nil
}

// wordInfo is one position in a word body's flattened name sequence.
// Non-WordCall statements become the "<non-word>" marker so patterns never
// match across a literal or nested construct (original's own documented
// rationale, preserved here).
type wordInfo struct {
	name string
	loc  ast.SourceLoc
}

const nonWordMarker = "<non-word>"

// Linter holds compiled patterns and lints word bodies.
type Linter struct {
	patterns []*compiledPattern
}

func New(cfg *Config) (*Linter, error) {
	l := &Linter{}
	for _, r := range cfg.Rules {
		cp, err := compile(r)
		if err != nil {
			return nil, err
		}
		l.patterns = append(l.patterns, cp)
	}
	return l, nil
}

func WithDefaults() (*Linter, error) { return New(DefaultConfig()) }

// LintProgram lints every word in prog.
func (l *Linter) LintProgram(prog *ast.Program, file string) []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for i := range prog.Words {
		out = append(out, l.lintWord(&prog.Words[i], file)...)
	}
	return out
}

func (l *Linter) lintWord(w *ast.WordDef, file string) []*diag.Diagnostic {
	var local []*diag.Diagnostic

	infos := extractWordSequence(w.Body)
	for _, p := range l.patterns {
		local = append(local, l.findMatches(infos, p, w, file)...)
	}

	if depth := maxIfNestingDepth(w.Body); depth > config.DefaultMaxIfNestingDepth {
		local = append(local, &diag.Diagnostic{
			ID:       "deep-nesting",
			Severity: diag.Hint,
			Loc:      diag.Loc{File: file, Line: w.Loc.Line, Column: w.Loc.Column},
			Message:  fmt.Sprintf("deeply nested if/else (%d levels) - consider extracting to helper words", depth),
		})
	}

	local = append(local, l.lintNested(w.Body, w, file)...)

	var filtered []*diag.Diagnostic
	for _, d := range local {
		if !allowed(w.AllowedLints, d.ID) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func allowed(allowedLints []string, id string) bool {
	for _, a := range allowedLints {
		if a == id {
			return true
		}
	}
	return false
}

func extractWordSequence(stmts []ast.Statement) []wordInfo {
	out := make([]wordInfo, 0, len(stmts))
	for _, st := range stmts {
		if wc, ok := st.(*ast.WordCall); ok {
			out = append(out, wordInfo{name: wc.Name, loc: wc.Loc})
		} else {
			out = append(out, wordInfo{name: nonWordMarker, loc: st.Location()})
		}
	}
	return out
}

func (l *Linter) findMatches(infos []wordInfo, p *compiledPattern, w *ast.WordDef, file string) []*diag.Diagnostic {
	var out []*diag.Diagnostic
	if len(infos) == 0 || len(p.elements) == 0 {
		return out
	}
	i := 0
	for i < len(infos) {
		if n, ok := tryMatchAt(infos, i, p.elements); ok {
			loc := infos[i].loc
			out = append(out, &diag.Diagnostic{
				ID:            p.rule.ID,
				Severity:      severityOf(p.rule.Severity),
				Loc:           diag.Loc{File: file, Line: loc.Line, Column: loc.Column},
				Message:       p.rule.Message,
				SuggestedFix:  p.rule.Replacement,
				HasSuggestion: p.rule.Replacement != "",
			})
			i += n
		} else {
			i++
		}
	}
	return out
}

func severityOf(s string) diag.Severity {
	switch s {
	case "error":
		return diag.Error
	case "hint":
		return diag.Hint
	default:
		return diag.Warning
	}
}

// tryMatchAt attempts to match elements starting at infos[start], returning
// the matched length. The multi-wildcard case recurses over every possible
// split point, matching original's own backtracking approach (at most one
// multi-wildcard per pattern bounds this to linear-ish behavior in practice).
func tryMatchAt(infos []wordInfo, start int, elements []element) (int, bool) {
	wordIdx := start
	elemIdx := 0

	for elemIdx < len(elements) {
		switch elements[elemIdx].kind {
		case elemWord:
			if wordIdx >= len(infos) || infos[wordIdx].name != elements[elemIdx].text {
				return 0, false
			}
			wordIdx++
			elemIdx++
		case elemSingleWildcard:
			if wordIdx >= len(infos) {
				return 0, false
			}
			wordIdx++
			elemIdx++
		case elemMultiWildcard:
			elemIdx++
			if elemIdx >= len(elements) {
				return len(infos) - start, true
			}
			for tryIdx := wordIdx; tryIdx <= len(infos); tryIdx++ {
				if rest, ok := tryMatchAt(infos, tryIdx, elements[elemIdx:]); ok {
					return tryIdx - start + rest, true
				}
			}
			return 0, false
		}
	}
	return wordIdx - start, true
}

func (l *Linter) lintNested(stmts []ast.Statement, w *ast.WordDef, file string) []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, st := range stmts {
		switch n := st.(type) {
		case *ast.Quotation:
			infos := extractWordSequence(n.Body)
			for _, p := range l.patterns {
				out = append(out, l.findMatches(infos, p, w, file)...)
			}
			out = append(out, l.lintNested(n.Body, w, file)...)
		case *ast.If:
			infos := extractWordSequence(n.Then)
			for _, p := range l.patterns {
				out = append(out, l.findMatches(infos, p, w, file)...)
			}
			out = append(out, l.lintNested(n.Then, w, file)...)
			if n.Else != nil {
				einfos := extractWordSequence(n.Else)
				for _, p := range l.patterns {
					out = append(out, l.findMatches(einfos, p, w, file)...)
				}
				out = append(out, l.lintNested(n.Else, w, file)...)
			}
		case *ast.Match:
			for _, arm := range n.Arms {
				infos := extractWordSequence(arm.Body)
				for _, p := range l.patterns {
					out = append(out, l.findMatches(infos, p, w, file)...)
				}
				out = append(out, l.lintNested(arm.Body, w, file)...)
			}
		}
	}
	return out
}

// maxIfNestingDepth mirrors original's if_nesting_depth: quotations reset
// the nesting count (they are independently-linted code blocks), match
// arms do not themselves add a level but their bodies are still walked.
func maxIfNestingDepth(stmts []ast.Statement) int {
	max := 0
	for _, st := range stmts {
		if d := ifNestingDepth(st, 0); d > max {
			max = d
		}
	}
	return max
}

func ifNestingDepth(st ast.Statement, current int) int {
	switch n := st.(type) {
	case *ast.If:
		next := current + 1
		thenMax := next
		for _, s := range n.Then {
			if d := ifNestingDepth(s, next); d > thenMax {
				thenMax = d
			}
		}
		elseMax := next
		for _, s := range n.Else {
			if d := ifNestingDepth(s, next); d > elseMax {
				elseMax = d
			}
		}
		if thenMax > elseMax {
			return thenMax
		}
		return elseMax
	case *ast.Quotation:
		max := 0
		for _, s := range n.Body {
			if d := ifNestingDepth(s, 0); d > max {
				max = d
			}
		}
		return max
	case *ast.Match:
		max := current
		for _, arm := range n.Arms {
			for _, s := range arm.Body {
				if d := ifNestingDepth(s, current); d > max {
					max = d
				}
			}
		}
		return max
	default:
		return current
	}
}
