// Package diag defines the diagnostic type shared by type inference, the
// lint engine, and the resource analyzer, and formats it in
// the "file:line:col: severity [id]: message" form spec.md 6.4 requires of
// the linter driver.
package diag

import "fmt"

type Severity int

const (
	Hint Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Hint:
		return "hint"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Loc mirrors ast.SourceLoc without importing internal/ast, avoiding an
// import cycle (ast does not need to know about diagnostics).
type Loc struct {
	File   string
	Line   int
	Column int
}

func (l Loc) String() string {
	if l.File == "" {
		return "<unknown>:0:0"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Diagnostic is a plain struct implementing error, per the teacher's
// diagnostic-struct convention (evaluator.Error) rather than a chain of
// wrapped sentinel errors.
type Diagnostic struct {
	ID             string
	Severity       Severity
	Loc            Loc
	Message        string
	SuggestedFix   string
	HasSuggestion  bool
}

func (d *Diagnostic) Error() string { return d.String() }

func (d *Diagnostic) String() string {
	id := d.ID
	if id == "" {
		id = "diagnostic"
	}
	return fmt.Sprintf("%s: %s [%s]: %s", d.Loc, d.Severity, id, d.Message)
}

// Fatal reports whether this diagnostic should abort compilation, per
// spec.md 7's error taxonomy: errors abort, warnings/hints don't.
func (d *Diagnostic) Fatal() bool { return d.Severity == Error }

// AnyFatal reports whether any diagnostic in the list is severity Error.
func AnyFatal(ds []*Diagnostic) bool {
	for _, d := range ds {
		if d.Fatal() {
			return true
		}
	}
	return false
}
