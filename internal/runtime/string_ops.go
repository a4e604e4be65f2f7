package runtime

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

func pushGlobal(s *stack.Stack, str string) {
	s.Push(value.Value{Tag: value.TagString, Str: value.NewGlobal(str)})
}

// StringLength implements string.length: ( str -- Int ), code-point count
// per spec.md 4.3's explicit wording (distinct from byte length).
func StringLength(s *stack.Stack) {
	v := s.Pop()
	s.Push(value.IntVal(int64(utf8.RuneCountInString(v.Str.Value()))))
}

// StringByteLength implements string.byte-length: ( str -- Int ).
func StringByteLength(s *stack.Stack) {
	v := s.Pop()
	s.Push(value.IntVal(int64(len(v.Str.Value()))))
}

// StringConcat implements string.concat: ( a b -- a++b ).
func StringConcat(s *stack.Stack) {
	b := s.Pop()
	a := s.Pop()
	pushGlobal(s, a.Str.Value()+b.Str.Value())
}

// StringContains implements string.contains: ( str needle -- Bool ).
func StringContains(s *stack.Stack) {
	needle := s.Pop()
	str := s.Pop()
	s.Push(value.BoolVal(strings.Contains(str.Str.Value(), needle.Str.Value())))
}

// StringStartsWith implements string.starts-with: ( str prefix -- Bool ).
func StringStartsWith(s *stack.Stack) {
	prefix := s.Pop()
	str := s.Pop()
	s.Push(value.BoolVal(strings.HasPrefix(str.Str.Value(), prefix.Str.Value())))
}

// StringEmpty implements string.empty?: ( str -- Bool ).
func StringEmpty(s *stack.Stack) {
	v := s.Pop()
	s.Push(value.BoolVal(v.Str.Value() == ""))
}

// StringEqual implements string.equal?: ( a b -- Bool ).
func StringEqual(s *stack.Stack) {
	b := s.Pop()
	a := s.Pop()
	s.Push(value.BoolVal(a.Str.Value() == b.Str.Value()))
}

// StringSubstring implements string.substring: ( str start len -- str' ),
// operating on code-point indices.
func StringSubstring(s *stack.Stack) {
	length := s.Pop()
	start := s.Pop()
	str := s.Pop()
	runes := []rune(str.Str.Value())
	lo := clampIndex(int(start.Int), len(runes))
	hi := clampIndex(lo+int(length.Int), len(runes))
	pushGlobal(s, string(runes[lo:hi]))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// StringCharAt implements string.char-at: ( str idx -- Int ), the code
// point at idx as its integer scalar value.
func StringCharAt(s *stack.Stack) {
	idx := s.Pop()
	str := s.Pop()
	runes := []rune(str.Str.Value())
	i := int(idx.Int)
	if i < 0 || i >= len(runes) {
		panic("string.char-at: index out of range")
	}
	s.Push(value.IntVal(int64(runes[i])))
}

// CharToString implements char->string: ( Int -- str ).
func CharToString(s *stack.Stack) {
	v := s.Pop()
	pushGlobal(s, string(rune(v.Int)))
}

// StringFind implements string.find: ( str needle -- Int Bool ), the
// code-point index of the first match.
func StringFind(s *stack.Stack) {
	needle := s.Pop()
	str := s.Pop()
	idx := strings.Index(str.Str.Value(), needle.Str.Value())
	if idx < 0 {
		s.Push(value.IntVal(0))
		s.Push(value.BoolVal(false))
		return
	}
	s.Push(value.IntVal(int64(utf8.RuneCountInString(str.Str.Value()[:idx]))))
	s.Push(value.BoolVal(true))
}

// StringSplit implements string.split: ( str delim -- Variant ), pushing a
// :List-tagged variant whose fields are the split parts, per
// original_source's string_ops.rs design.
func StringSplit(s *stack.Stack) {
	delim := s.Pop()
	str := s.Pop()
	parts := strings.Split(str.Str.Value(), delim.Str.Value())
	fields := make([]value.Value, len(parts))
	for i, p := range parts {
		fields[i] = value.Value{Tag: value.TagString, Str: value.NewGlobal(p)}
	}
	h := value.NewHandle()
	h.Variant = &value.VariantData{Tag: "List", Fields: fields}
	s.Push(value.Value{Tag: value.TagVariant, Heap: h})
}

// StringTrim implements string.trim: ( str -- str' ).
func StringTrim(s *stack.Stack) {
	v := s.Pop()
	pushGlobal(s, strings.TrimSpace(v.Str.Value()))
}

// StringChomp implements string.chomp: ( str -- str' ), trailing newline only.
func StringChomp(s *stack.Stack) {
	v := s.Pop()
	pushGlobal(s, strings.TrimRight(v.Str.Value(), "\r\n"))
}

// StringToUpper implements string.to-upper: ( str -- str' ), via
// golang.org/x/text/cases rather than strings.ToUpper, matching the
// teacher's ecosystem choice for locale-aware case mapping.
func StringToUpper(s *stack.Stack) {
	v := s.Pop()
	pushGlobal(s, upperCaser.String(v.Str.Value()))
}

// StringToLower implements string.to-lower: ( str -- str' ).
func StringToLower(s *stack.Stack) {
	v := s.Pop()
	pushGlobal(s, lowerCaser.String(v.Str.Value()))
}

// JSONEscape implements string.json-escape: ( str -- str' ).
func JSONEscape(s *stack.Stack) {
	v := s.Pop()
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v.Str.Value() {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	pushGlobal(s, b.String())
}
