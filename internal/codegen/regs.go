package codegen

import "fmt"

// RegGen hands out unique SSA register names (`%t0`, `%t1`, ...) and basic
// block labels (`<prefix>0`, `<prefix>1`, ...) for one function body, mirroring the
// monotonic counters original_source/crates/compiler/src/codegen/inline/
// ops.rs keeps per emitted function.
type RegGen struct {
	n      int
	blocks int
}

// Reg returns a fresh SSA register name.
func (r *RegGen) Reg() string {
	r.n++
	return fmt.Sprintf("%%t%d", r.n-1)
}

// Block returns a fresh basic-block label (without the trailing colon).
func (r *RegGen) Block(prefix string) string {
	r.blocks++
	return fmt.Sprintf("%s%d", prefix, r.blocks-1)
}
