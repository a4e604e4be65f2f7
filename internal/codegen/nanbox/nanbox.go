// Package nanbox implements codegen.Emitter for the 8-byte NaN-boxed
// stack cell encoding (spec.md 3.3): every slot is a single i64 word.
// Floats are stored as their raw IEEE-754 bit pattern directly; Int/Bool
// are packed by setting the top quantum-NaN bits so a payload reader can
// distinguish a packed integer from a genuine double, following the
// classic NaN-boxing scheme spec.md 3.3 names without mandating a
// specific bit layout. Grounded on the same
// original_source/crates/compiler/src/codegen/inline/ops.rs load/store
// shape as internal/codegen/tagged, with the cell stride and packing
// sequences swapped for the word-sized representation.
package nanbox

import (
	"fmt"
	"strings"

	"github.com/funvibe/seqc/internal/codegen"
)

const cellStride = 8

// quietNaNTag is the high 16 bits (sign + all-exponent-ones + quiet bit)
// that marks a slot as holding a packed non-float payload rather than a
// genuine IEEE-754 double, per the tag-in-NaN-payload convention spec.md
// 3.3's NaN-boxed row describes.
const quietNaNTag = 0xFFF8000000000000

// Emitter emits IR for the 8-byte NaN-boxed cell encoding.
type Emitter struct{}

func New() *Emitter { return &Emitter{} }

func (*Emitter) Name() string    { return "nanbox" }
func (*Emitter) CellStride() int { return cellStride }

func (*Emitter) DeclarePrelude(b *strings.Builder) {
	b.WriteString("; nanbox encoding: each stack slot is a single i64 word\n")
}

func slotPtr(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	ptr := regs.Reg()
	fmt.Fprintf(b, "  %s = getelementptr i64, i64* %s, i64 -%d\n", ptr, spReg, slot+1)
	return ptr
}

// LoadInt reads the raw word and masks off the NaN-boxing tag bits,
// yielding the packed integer payload.
func (*Emitter) LoadInt(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	ptr := slotPtr(b, regs, spReg, slot)
	word := regs.Reg()
	fmt.Fprintf(b, "  %s = load i64, i64* %s\n", word, ptr)
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = and i64 %s, %d\n", r, word, int64(^uint64(quietNaNTag)))
	return r
}

// StoreInt packs n into the payload bits under the quiet-NaN tag and
// stores the resulting word.
func (*Emitter) StoreInt(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int, valueReg string) {
	ptr := slotPtr(b, regs, spReg, slot)
	packed := regs.Reg()
	fmt.Fprintf(b, "  %s = or i64 %s, %d\n", packed, valueReg, int64(quietNaNTag))
	fmt.Fprintf(b, "  store i64 %s, i64* %s\n", packed, ptr)
}

// LoadFloat reads the raw word as a double directly: an unpacked word
// (no quiet-NaN tag bits set) is already a valid IEEE-754 bit pattern.
func (*Emitter) LoadFloat(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	ptr := slotPtr(b, regs, spReg, slot)
	word := regs.Reg()
	fmt.Fprintf(b, "  %s = load i64, i64* %s\n", word, ptr)
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = bitcast i64 %s to double\n", r, word)
	return r
}

func (*Emitter) StoreFloat(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int, valueReg string) {
	ptr := slotPtr(b, regs, spReg, slot)
	bits := regs.Reg()
	fmt.Fprintf(b, "  %s = bitcast double %s to i64\n", bits, valueReg)
	fmt.Fprintf(b, "  store i64 %s, i64* %s\n", bits, ptr)
}

func (e *Emitter) LoadBool(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	return e.LoadInt(b, regs, spReg, slot)
}

func (e *Emitter) StoreBool(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int, valueReg string) {
	e.StoreInt(b, regs, spReg, slot, valueReg)
}

// tagString is value.TagString's numeric discriminant, packed into the
// low byte the same way TagOf reads it back out; duplicated rather than
// imported for the same reason tagged.Emitter duplicates it.
const tagString = 3

// StoreString packs the literal's address into the payload bits: the
// pointer's low byte is cleared and replaced with the String
// discriminant (TagOf's low-byte truncation reads it back), then the
// quiet-NaN tag is set over the high bits exactly as StoreInt does for a
// packed integer.
func (e *Emitter) StoreString(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int, strPtrExpr string) {
	ptr := slotPtr(b, regs, spReg, slot)
	asInt := regs.Reg()
	fmt.Fprintf(b, "  %s = ptrtoint i8* %s to i64\n", asInt, strPtrExpr)
	cleared := regs.Reg()
	fmt.Fprintf(b, "  %s = and i64 %s, -256\n", cleared, asInt)
	withTag := regs.Reg()
	fmt.Fprintf(b, "  %s = or i64 %s, %d\n", withTag, cleared, tagString)
	packed := regs.Reg()
	fmt.Fprintf(b, "  %s = or i64 %s, %d\n", packed, withTag, int64(quietNaNTag))
	fmt.Fprintf(b, "  store i64 %s, i64* %s\n", packed, ptr)
}

// TagOf extracts the packed discriminant from the low bits of the
// payload (this reference encoding reserves the low byte of a packed
// non-float payload for the tag, unlike the tagged encoding's separate
// byte field).
func (e *Emitter) TagOf(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	payload := e.LoadInt(b, regs, spReg, slot)
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = trunc i64 %s to i8\n", r, payload)
	return r
}

var _ codegen.Emitter = (*Emitter)(nil)
