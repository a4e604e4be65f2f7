package runtime

import "github.com/funvibe/seqc/internal/stack"

// Primitive is the Go-runtime shape every catalogue entry in the registry
// has: a function that mutates a stack in place, matching
// value.QuotationFn's calling convention.
type Primitive func(s *stack.Stack)

// Registry maps spec.md 4.3's primitive-word names to their Go
// implementations, for cmd/seqc's interpretive `seqc run` mode and for
// internal/pipeline's end-to-end test scenarios — codegen-backed programs
// call these same bodies directly rather than through this table.
func Registry() map[string]Primitive {
	return map[string]Primitive{
		"add":      Add,
		"subtract": Subtract,
		"multiply": Multiply,
		"divide":   Divide,
		"mod":      Mod,
		"band":     Band,
		"bor":      Bor,
		"bxor":     Bxor,
		"shl":      Shl,
		"shr":      Shr,
		"bnot":     Bnot,
		"popcount": Popcount,
		"clz":      Clz,
		"ctz":      Ctz,
		"=":        Eq,
		"!=":       Neq,
		"<":        Lt,
		">":        Gt,
		"<=":       Lte,
		">=":       Gte,

		"f.add": FAdd,
		"f.sub": FSub,
		"f.mul": FMul,
		"f.div": FDiv,
		"f.=":   FEq,
		"f.<":   FLt,
		"f.>":   FGt,

		"int->string":     IntToString,
		"string->int":     StringToInt,
		"float->string":   FloatToString,
		"string->float":   StringToFloat,

		"drop":    func(s *stack.Stack) { s.Drop() },
		"dup":     func(s *stack.Stack) { s.Dup() },
		"swap":    func(s *stack.Stack) { s.Swap() },
		"over":    func(s *stack.Stack) { s.Over() },
		"rot":     func(s *stack.Stack) { s.Rot() },
		"-rot":    func(s *stack.Stack) { s.NegRot() },
		"nip":     func(s *stack.Stack) { s.Nip() },
		"tuck":    func(s *stack.Stack) { s.Tuck() },
		"2dup":    func(s *stack.Stack) { s.TwoDup() },
		"3drop":   func(s *stack.Stack) { s.ThreeDrop() },
		"call":    Call,

		"io.write-line":  WriteLine,
		"io.read-line":   ReadLine,
		"io.read-line+":  ReadLinePlus,
		"io.read-n":      ReadN,
		"os.exit":        Exit,

		"chan.make":    ChanMake,
		"chan.send":    ChanSend,
		"chan.receive": ChanReceive,
		"chan.close":   ChanClose,

		"strand.spawn":        StrandSpawn,
		"strand.weave":        StrandWeave,
		"strand.resume":       StrandResume,
		"strand.weave-cancel": StrandWeaveCancel,

		"variant.make-0":      func(s *stack.Stack) { MakeN(s, 0) },
		"variant.make-1":      func(s *stack.Stack) { MakeN(s, 1) },
		"variant.make-2":      func(s *stack.Stack) { MakeN(s, 2) },
		"variant.make-3":      func(s *stack.Stack) { MakeN(s, 3) },
		"variant.make-4":      func(s *stack.Stack) { MakeN(s, 4) },
		"variant.field-count": FieldCount,
		"variant.at":          FieldAt,
		"variant.tag":         VariantTag,
		"variant.append":      Append,
		"variant.init":        Init,
		"variant.last":        Last,

		"map.make":   MapMake,
		"map.set":    MapSet,
		"map.get":    MapGet,
		"map.has?":   MapHas,
		"map.remove": MapRemove,
		"map.size":   MapSize,
		"map.empty?": MapEmpty,

		"string.length":      StringLength,
		"string.byte-length": StringByteLength,
		"string.concat":      StringConcat,
		"string.contains":    StringContains,
		"string.starts-with": StringStartsWith,
		"string.empty?":      StringEmpty,
		"string.equal?":      StringEqual,
		"string.substring":   StringSubstring,
		"string.char-at":     StringCharAt,
		"char->string":       CharToString,
		"string.find":        StringFind,
		"string.split":       StringSplit,
		"string.trim":        StringTrim,
		"string.chomp":       StringChomp,
		"string.to-upper":    StringToUpper,
		"string.to-lower":    StringToLower,
		"string.json-escape": JSONEscape,

		"list.map":    ListMap,
		"list.filter": ListFilter,
		"list.fold":   ListFold,
		"list.each":   ListEach,
		"list.length": ListLength,
		"list.empty?": ListEmpty,
	}
}
