package runtime

// PatchSeq<Name> aliases mirror original_source's `patch_seq_x` linkage-
// symbol convention, which internal/codegen's emitted IR declares and
// calls by that exact name. The bare names above (Add, StringLength, ...)
// are the primary, idiomatic-Go spellings used throughout this package
// and by internal/pipeline's interpreter; these aliases exist purely so
// codegen's declaration list and this package's symbol table agree,
// inverting original_source's `pub use patch_seq_x as x` (there the
// prefixed name is canonical and the bare name is the alias; here the
// bare name is canonical since nothing in idiomatic Go names a function
// patch_seq_add).
var (
	PatchSeqAdd        = Add
	PatchSeqSubtract   = Subtract
	PatchSeqMultiply   = Multiply
	PatchSeqDivide     = Divide
	PatchSeqMod        = Mod
	PatchSeqBand       = Band
	PatchSeqBor        = Bor
	PatchSeqBxor       = Bxor
	PatchSeqShl        = Shl
	PatchSeqShr        = Shr
	PatchSeqBnot       = Bnot
	PatchSeqPopcount   = Popcount
	PatchSeqClz        = Clz
	PatchSeqCtz        = Ctz
	PatchSeqEq         = Eq
	PatchSeqNeq        = Neq
	PatchSeqLt         = Lt
	PatchSeqGt         = Gt
	PatchSeqLte        = Lte
	PatchSeqGte        = Gte
	PatchSeqFAdd       = FAdd
	PatchSeqFSub       = FSub
	PatchSeqFMul       = FMul
	PatchSeqFDiv       = FDiv
	PatchSeqFEq        = FEq
	PatchSeqFLt        = FLt
	PatchSeqFGt        = FGt
	PatchSeqIntToString    = IntToString
	PatchSeqStringToInt    = StringToInt
	PatchSeqFloatToString  = FloatToString
	PatchSeqStringToFloat  = StringToFloat

	PatchSeqChanMake    = ChanMake
	PatchSeqChanClose   = ChanClose
	PatchSeqChanSend    = ChanSend
	PatchSeqChanReceive = ChanReceive

	PatchSeqStrandSpawn       = StrandSpawn
	PatchSeqStrandWeave       = StrandWeave
	PatchSeqStrandResume      = StrandResume
	PatchSeqStrandWeaveCancel = StrandWeaveCancel

	PatchSeqPushQuotation = PushQuotation
	PatchSeqPushClosure   = PushClosure
	PatchSeqCall          = Call

	PatchSeqFieldCount = FieldCount
	PatchSeqFieldAt    = FieldAt
	PatchSeqVariantTag = VariantTag
	PatchSeqAppend     = Append
	PatchSeqInit       = Init
	PatchSeqLast       = Last

	PatchSeqMapMake   = MapMake
	PatchSeqMapSet    = MapSet
	PatchSeqMapGet    = MapGet
	PatchSeqMapHas    = MapHas
	PatchSeqMapRemove = MapRemove
	PatchSeqMapSize   = MapSize
	PatchSeqMapEmpty  = MapEmpty

	PatchSeqStringLength     = StringLength
	PatchSeqStringByteLength = StringByteLength
	PatchSeqStringConcat     = StringConcat
	PatchSeqStringContains   = StringContains
	PatchSeqStringStartsWith = StringStartsWith
	PatchSeqStringEmpty      = StringEmpty
	PatchSeqStringEqual      = StringEqual
	PatchSeqStringSubstring  = StringSubstring
	PatchSeqStringCharAt     = StringCharAt
	PatchSeqCharToString     = CharToString
	PatchSeqStringFind       = StringFind
	PatchSeqStringSplit      = StringSplit
	PatchSeqStringTrim       = StringTrim
	PatchSeqStringChomp      = StringChomp
	PatchSeqStringToUpper    = StringToUpper
	PatchSeqStringToLower    = StringToLower
	PatchSeqJSONEscape       = JSONEscape

	PatchSeqListMap    = ListMap
	PatchSeqListFilter = ListFilter
	PatchSeqListFold   = ListFold
	PatchSeqListEach   = ListEach
	PatchSeqListLength = ListLength
	PatchSeqListEmpty  = ListEmpty

	PatchSeqWriteLine   = WriteLine
	PatchSeqReadLine    = ReadLine
	PatchSeqReadLinePlus = ReadLinePlus
	PatchSeqReadN       = ReadN
)
