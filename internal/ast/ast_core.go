// Package ast defines the program representation consumed by include resolution,
// type inference, linting, and code generation. Construction of this tree from
// source text (tokenizing, parsing) is out of scope here; callers build it
// directly or through internal/testsource's minimal reader.
package ast

// SourceLoc identifies a point in a source file for diagnostics.
type SourceLoc struct {
	File   string
	Line   int
	Column int
}

func (l SourceLoc) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return l.File + ":" + itoa(l.Line) + ":" + itoa(l.Column)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Include is one of std:<name>, "relative/path", or ffi:<name>.
type Include interface {
	includeNode()
}

type StdInclude struct{ Name string }
type RelativeInclude struct{ Path string }
type FfiInclude struct{ Name string }

func (StdInclude) includeNode()      {}
func (RelativeInclude) includeNode() {}
func (FfiInclude) includeNode()      {}

// UnionDef declares a tagged union's constructors (name + field arity each).
type UnionDef struct {
	Name         string
	Constructors []ConstructorDef
	Loc          SourceLoc
}

type ConstructorDef struct {
	Tag   string
	Arity int
}

// Program is the root AST node: includes, union definitions, and word definitions.
type Program struct {
	Includes []Include
	Unions   []UnionDef
	Words    []WordDef
}

// WordDef is one word (function) definition.
type WordDef struct {
	Name           string
	DeclaredEffect *EffectAnnotation
	Body           []Statement
	Loc            SourceLoc
	AllowedLints   []string
}

// EffectAnnotation is the surface-syntax form of a declared stack effect,
// e.g. "( ..a Int -- ..a Int )". Resolved against internal/types.Effect during
// inference; kept distinct from types.Effect since the same textual row-variable
// name in two annotations is not necessarily the same type variable until bound.
type EffectAnnotation struct {
	RowIn   string
	Inputs  []string
	RowOut  string
	Outputs []string
}

// Statement is one element of a word body.
type Statement interface {
	statementNode()
	Location() SourceLoc
}

type IntLiteral struct {
	Value int64
	Loc   SourceLoc
}

type FloatLiteral struct {
	Value float64
	Loc   SourceLoc
}

type BoolLiteral struct {
	Value bool
	Loc   SourceLoc
}

type StringLiteral struct {
	Value string
	Loc   SourceLoc
}

// WordCall invokes a word (built-in or user-defined) by name.
type WordCall struct {
	Name string
	Loc  SourceLoc
}

// Quotation is a first-class deferred code block literal. ID disambiguates
// quotations that share a textual body (needed once codegen names the pair
// of IR functions it emits per quotation).
type Quotation struct {
	ID   int
	Body []Statement
	Loc  SourceLoc
}

// If is a conditional; a nil Else is equivalent to an else of identity effect.
type If struct {
	Then []Statement
	Else []Statement
	Loc  SourceLoc
}

// Pattern is a Match arm's discriminant.
type Pattern interface {
	patternNode()
}

type VariantTag struct{ Tag string }
type VariantWithBindings struct {
	Tag      string
	Bindings []string
}

func (VariantTag) patternNode()          {}
func (VariantWithBindings) patternNode() {}

type MatchArm struct {
	Pattern Pattern
	Body    []Statement
}

type Match struct {
	Arms []MatchArm
	Loc  SourceLoc
}

func (n *IntLiteral) statementNode()    {}
func (n *FloatLiteral) statementNode()  {}
func (n *BoolLiteral) statementNode()   {}
func (n *StringLiteral) statementNode() {}
func (n *WordCall) statementNode()      {}
func (n *Quotation) statementNode()     {}
func (n *If) statementNode()            {}
func (n *Match) statementNode()         {}

func (n *IntLiteral) Location() SourceLoc    { return n.Loc }
func (n *FloatLiteral) Location() SourceLoc  { return n.Loc }
func (n *BoolLiteral) Location() SourceLoc   { return n.Loc }
func (n *StringLiteral) Location() SourceLoc { return n.Loc }
func (n *WordCall) Location() SourceLoc      { return n.Loc }
func (n *Quotation) Location() SourceLoc     { return n.Loc }
func (n *If) Location() SourceLoc            { return n.Loc }
func (n *Match) Location() SourceLoc         { return n.Loc }
