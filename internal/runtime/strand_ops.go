package runtime

import (
	"github.com/funvibe/seqc/internal/sched"
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

// defaultScheduler is the process-wide strand scheduler, mirroring
// original_source's use of process-global statics (SPAWN_CLOSURE_REGISTRY)
// for runtime state that has exactly one instance per running program.
var defaultScheduler = sched.NewScheduler()

// Scheduler returns the process-wide scheduler, for cmd/seqc's run mode to
// call Wait on before exiting.
func Scheduler() *sched.Scheduler { return defaultScheduler }

// StrandSpawn implements strand.spawn: ( quot-or-closure -- id ). Clones
// the caller's stack (CloneWithBase, promoting arena strings) before
// starting the child, per spec.md 4.4's "deep-copies the parent's current
// stack... before starting the child".
func StrandSpawn(s *stack.Stack) {
	q := s.Pop()
	child := s.CloneWithBase()
	env := closureEnv(q)
	id := defaultScheduler.SpawnStrand(q.Quot.Wrapper, env, child)
	s.Push(value.Value{Tag: value.TagString, Str: value.NewGlobal(id)})
}

// StrandWeave implements strand.weave: ( quot-or-closure -- WeaveCtx ).
// Spawns the quotation as a child strand with the paired Weave available
// to it (through weaveEnv, a reserved first environment slot the child's
// generated body reads to call WeaveYield) and returns the parent-side
// handle, a freshly-IDed tracked resource per spec.md 4.5.
func StrandWeave(s *stack.Stack) {
	q := s.Pop()
	w := sched.NewWeave()
	child := s.CloneWithBase()
	env := append([]value.Value{weaveHandleValue(w)}, closureEnv(q)...)
	defaultScheduler.SpawnStrand(q.Quot.Wrapper, env, child)

	h := value.NewHandle()
	h.Weave = w
	s.Push(value.Value{Tag: value.TagWeaveCtx, Heap: h})
}

// StrandResume implements strand.resume: ( WeaveCtx -- WeaveCtx value Bool
// ), a non-consuming peek per spec.md 4.5's resource-analysis rule (the
// handle remains live on the stack for a subsequent resume).
func StrandResume(s *stack.Stack) {
	top := s.Peek()
	w, ok := weaveOf(top)
	if !ok {
		s.Push(value.IntVal(0))
		s.Push(value.BoolVal(false))
		return
	}
	v, ok := w.Resume()
	s.Push(v)
	s.Push(value.BoolVal(ok))
}

// StrandWeaveCancel implements strand.weave-cancel: ( WeaveCtx -- ).
// Drops the parent-side handle, causing the child's next yield/receive to
// observe failure (spec.md 4.4, 5).
func StrandWeaveCancel(s *stack.Stack) {
	v := s.Pop()
	if w, ok := weaveOf(v); ok {
		w.Cancel()
	}
	if v.Heap != nil {
		v.Heap.Release()
	}
}

// WeaveYield is the child-side counterpart a spawned quotation's generated
// body calls at each of its own suspension points (the per-yield analogue
// of strand.weave's parent-side resume). Not itself named in spec.md's
// catalogue of parent-visible words — it is the mechanism strand.weave's
// description implies a child must have to participate in the protocol,
// modeled here after the paired-channel description in spec.md 4.4 rather
// than drawn from a specific source line.
func WeaveYield(w *sched.Weave, v value.Value) (value.Value, bool) {
	return w.ChildYield(v)
}

func weaveHandleValue(w *sched.Weave) value.Value {
	h := value.NewHandle()
	h.Weave = w
	return value.Value{Tag: value.TagWeaveCtx, Heap: h}
}

func weaveOf(v value.Value) (*sched.Weave, bool) {
	if v.Tag != value.TagWeaveCtx || v.Heap == nil {
		return nil, false
	}
	w, ok := v.Heap.Weave.(*sched.Weave)
	return w, ok
}

// closureEnv returns a Closure's captured environment, or nil for a plain
// Quotation (no capture).
func closureEnv(q value.Value) []value.Value {
	if q.Tag != value.TagClosure || q.Quot.Env == nil {
		return nil
	}
	return q.Quot.Env.EnvData
}
