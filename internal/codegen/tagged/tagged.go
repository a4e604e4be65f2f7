// Package tagged implements codegen.Emitter for the 40-byte tagged stack
// cell encoding (spec.md 3.3): slot0 is a one-byte discriminant, slot1
// holds the scalar payload (or a heap pointer plus refcount metadata for
// heap-typed cells). Grounded on spec.md 3.3's tag table and
// original_source/crates/compiler/src/codegen/inline/ops.rs's
// load/store sequence shape, translated to textual IR emission.
package tagged

import (
	"fmt"
	"strings"

	"github.com/funvibe/seqc/internal/codegen"
)

const cellStride = 40

// Emitter emits IR for the tagged 40-byte cell encoding.
type Emitter struct{}

func New() *Emitter { return &Emitter{} }

func (*Emitter) Name() string      { return "tagged" }
func (*Emitter) CellStride() int   { return cellStride }

func (*Emitter) DeclarePrelude(b *strings.Builder) {
	b.WriteString("%cell = type { i8, i64, i64, i64, i64 }\n")
}

func cellPtr(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	ptr := regs.Reg()
	fmt.Fprintf(b, "  %s = getelementptr %%cell, %%cell* %s, i64 -%d\n", ptr, asCellPtr(spReg), slot+1)
	return ptr
}

func asCellPtr(spReg string) string {
	return "(%cell* " + spReg + ")"
}

func (e *Emitter) LoadInt(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	ptr := cellPtr(b, regs, spReg, slot)
	field := regs.Reg()
	fmt.Fprintf(b, "  %s = getelementptr %%cell, %%cell* %s, i32 0, i32 1\n", field, ptr)
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = load i64, i64* %s\n", r, field)
	return r
}

func (e *Emitter) StoreInt(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int, valueReg string) {
	ptr := cellPtr(b, regs, spReg, slot)
	tagField := regs.Reg()
	fmt.Fprintf(b, "  %s = getelementptr %%cell, %%cell* %s, i32 0, i32 0\n", tagField, ptr)
	b.WriteString("  store i8 0, i8* " + tagField + "\n")
	field := regs.Reg()
	fmt.Fprintf(b, "  %s = getelementptr %%cell, %%cell* %s, i32 0, i32 1\n", field, ptr)
	fmt.Fprintf(b, "  store i64 %s, i64* %s\n", valueReg, field)
}

func (e *Emitter) LoadFloat(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	intReg := e.LoadInt(b, regs, spReg, slot)
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = bitcast i64 %s to double\n", r, intReg)
	return r
}

func (e *Emitter) StoreFloat(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int, valueReg string) {
	bits := regs.Reg()
	fmt.Fprintf(b, "  %s = bitcast double %s to i64\n", bits, valueReg)
	e.StoreInt(b, regs, spReg, slot, bits)
}

func (e *Emitter) LoadBool(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	return e.LoadInt(b, regs, spReg, slot)
}

func (e *Emitter) StoreBool(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int, valueReg string) {
	e.StoreInt(b, regs, spReg, slot, valueReg)
}

// tagString is value.TagString's numeric discriminant (internal/value's
// Tag byte enum), duplicated here rather than imported to keep
// internal/codegen free of a dependency on the runtime value
// representation — codegen only ever needs the bare number.
const tagString = 3

// StoreString writes the String discriminant into slot0's tag byte and
// the literal's address (truncated to the cell's i64 payload field via
// ptrtoint) into slot1, the same two-field write StoreInt performs for
// an Int payload.
func (e *Emitter) StoreString(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int, strPtrExpr string) {
	ptr := cellPtr(b, regs, spReg, slot)
	tagField := regs.Reg()
	fmt.Fprintf(b, "  %s = getelementptr %%cell, %%cell* %s, i32 0, i32 0\n", tagField, ptr)
	fmt.Fprintf(b, "  store i8 %d, i8* %s\n", tagString, tagField)
	field := regs.Reg()
	fmt.Fprintf(b, "  %s = getelementptr %%cell, %%cell* %s, i32 0, i32 1\n", field, ptr)
	asInt := regs.Reg()
	fmt.Fprintf(b, "  %s = ptrtoint i8* %s to i64\n", asInt, strPtrExpr)
	fmt.Fprintf(b, "  store i64 %s, i64* %s\n", asInt, field)
}

func (e *Emitter) TagOf(b *strings.Builder, regs *codegen.RegGen, spReg string, slot int) string {
	ptr := cellPtr(b, regs, spReg, slot)
	tagField := regs.Reg()
	fmt.Fprintf(b, "  %s = getelementptr %%cell, %%cell* %s, i32 0, i32 0\n", tagField, ptr)
	r := regs.Reg()
	fmt.Fprintf(b, "  %s = load i8, i8* %s\n", r, tagField)
	return r
}

var _ codegen.Emitter = (*Emitter)(nil)
