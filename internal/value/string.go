package value

import "sync/atomic"

// Str is the two-representation string wrapper spec.md 3.3/9 describes:
// global strings are refcounted heap storage, arena strings are transient
// and tied to an Arena frame. Both share this layout (pointer-equivalent
// data plus a Global flag) so a Value's String field never needs a type
// switch at the primitive level.
type Str struct {
	data   *stringData
	arena  *Arena
	Global bool
}

type stringData struct {
	s    string
	refs int32
}

// NewGlobal creates a refcounted global string with one reference.
func NewGlobal(s string) Str {
	return Str{data: &stringData{s: s, refs: 1}, Global: true}
}

// NewArenaString creates a transient string bound to an arena frame. It must be
// promoted (Promote) before crossing a scheduling or scope boundary.
func NewArenaString(a *Arena, s string) Str {
	return Str{data: &stringData{s: s, refs: 1}, arena: a, Global: false}
}

func (s Str) Value() string {
	if s.data == nil {
		return ""
	}
	return s.data.s
}

// Clone implements spec.md's duplication rule: global strings bump an
// atomic refcount; arena strings are transient and cheap to re-share within
// the same frame (no refcount discipline needed until they try to escape).
func (s Str) Clone() Str {
	if s.data == nil {
		return s
	}
	if s.Global {
		atomic.AddInt32(&s.data.refs, 1)
	}
	return s
}

// Release drops one reference for a global string; a no-op for arena
// strings, matching "Drop is a no-op for arena strings" (spec.md 9).
func (s Str) Release() {
	if s.data == nil || !s.Global {
		return
	}
	atomic.AddInt32(&s.data.refs, -1)
}

// Promote converts an arena string to a global (refcounted) string. This is
// the only legal way to transfer an arena string past its owning frame
// (spec.md 3.3): called by channel send, strand spawn's stack clone, and
// closure capture.
func (s Str) Promote() Str {
	if s.Global || s.data == nil {
		return s
	}
	return NewGlobal(s.data.s)
}

// Arena is a per-strand-frame bump allocator for transient strings (e.g.
// concatenation results). Reset at strand-stack-frame boundaries; nothing
// allocated from it may be read after Reset unless it was promoted first.
type Arena struct {
	frame int64
}

func NewArena() *Arena { return &Arena{} }

// Reset invalidates every arena string allocated since the last reset.
func (a *Arena) Reset() { a.frame++ }

func (a *Arena) New(s string) Str { return NewArenaString(a, s) }
