package value

import "sync/atomic"

// Handle is the Arc-style reference-counted heap cell backing Variant,
// Channel, and WeaveCtx values (spec.md 3.3: "shared by reference-counted
// handles"). Map values also carry a Handle for uniformity, but Map.Clone
// deep-copies rather than bumping the refcount, per spec.md's "deep-cloned
// on every duplication (no sharing)" rule.
type Handle struct {
	refs    int32
	Variant *VariantData
	Channel ChannelHandle
	Weave   WeaveHandle
	MapData *MapData
	// EnvData is the captured environment for a Closure's Env handle (spec.md
	// 4.2.4: "the environment is an Arc<[Value]>").
	EnvData []Value
}

// ChannelHandle and WeaveHandle are satisfied by internal/sched's concrete
// types; kept as interfaces here to avoid value<->sched import cycles.
type ChannelHandle interface {
	ID() string
}
type WeaveHandle interface {
	ID() string
}

func NewHandle() *Handle { return &Handle{refs: 1} }

func (h *Handle) Retain() {
	if h == nil {
		return
	}
	atomic.AddInt32(&h.refs, 1)
}

// Release decrements the refcount; returns true if this call dropped it to
// zero (caller may free heap-side resources, e.g. close a channel whose
// last handle was dropped without an explicit chan.close — not performed
// automatically here since spec.md treats an un-closed-but-unreferenced
// channel as a resource the lint layer should already have flagged, not a
// place for implicit GC-like finalization).
func (h *Handle) Release() bool {
	if h == nil {
		return false
	}
	return atomic.AddInt32(&h.refs, -1) == 0
}

func (h *Handle) RefCount() int32 {
	if h == nil {
		return 0
	}
	return atomic.LoadInt32(&h.refs)
}

// VariantData is the heap object a Variant cell points to: a tag plus an
// ordered field vector (spec.md 4.2.1).
type VariantData struct {
	Tag    string
	Fields []Value
}

// DeepCloneMap returns a Handle wrapping a field-by-field deep copy of the
// receiver's MapData, implementing spec.md's "Map is deep-cloned on every
// duplication" rule. Keys and values are themselves cloned via their own
// Clone semantics since a map may hold shared heap values.
func (h *Handle) DeepCloneMap() *Handle {
	if h == nil || h.MapData == nil {
		return NewHandle()
	}
	clone := &MapData{entries: make(map[MapKey]Value, len(h.MapData.entries))}
	for k, v := range h.MapData.entries {
		clone.entries[k] = v.Clone()
	}
	return &Handle{refs: 1, MapData: clone}
}

// MapKey is the restricted key sum spec.md 3.1 allows: Int, Bool, String,
// or Symbol, any of which is comparable and so usable as a Go map key.
type MapKey struct {
	Tag Tag
	I   int64
	B   bool
	S   string
}

type MapData struct {
	entries map[MapKey]Value
}

func NewMapData() *MapData { return &MapData{entries: map[MapKey]Value{}} }

func (m *MapData) Get(k MapKey) (Value, bool) {
	v, ok := m.entries[k]
	return v, ok
}
func (m *MapData) Set(k MapKey, v Value)    { m.entries[k] = v }
func (m *MapData) Delete(k MapKey)          { delete(m.entries, k) }
func (m *MapData) Len() int                 { return len(m.entries) }
func (m *MapData) Keys() []MapKey {
	out := make([]MapKey, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}

// Symbol is an interned name: interned symbols share a pointer within one
// process for O(1) equality (spec.md 3.3); runtime-created, non-interned
// symbols compare by Name instead.
type Symbol struct {
	Name     string
	interned *internedSymbol
}

type internedSymbol struct{ name string }

var internTable = map[string]*internedSymbol{}

// Intern returns the canonical Symbol for name, creating it on first use.
func Intern(name string) Symbol {
	if existing, ok := internTable[name]; ok {
		return Symbol{Name: name, interned: existing}
	}
	sym := &internedSymbol{name: name}
	internTable[name] = sym
	return Symbol{Name: name, interned: sym}
}

// Equal implements O(1) equality for two interned symbols, falling back to
// string comparison if either is non-interned.
func (s Symbol) Equal(o Symbol) bool {
	if s.interned != nil && o.interned != nil {
		return s.interned == o.interned
	}
	return s.Name == o.Name
}
