package sched

import (
	"github.com/google/uuid"

	"github.com/funvibe/seqc/internal/value"
)

// resumeMsg is one value handed from parent to child (or vice versa)
// across a weave's paired channels, alongside whether the handle is still
// live (spec.md 4.4: a resume failure means "the handle is exhausted").
type resumeMsg struct {
	val value.Value
	ok  bool
}

// Weave is the paired-channel coroutine context backing strand.weave /
// strand.resume / strand.weave-cancel. The parent holds the Weave value
// returned by strand.weave; the child strand (started by strand.spawn with
// this same Weave captured in its environment) reads from toChild and
// writes to toParent. Grounded on spec.md 4.4's "implemented on top of a
// paired-channel WeaveCtx" description (original_source's scheduler.rs,
// the file documenting the concrete mechanism, was not included in this
// corpus's filtered source set, so the channel-pair shape is derived
// directly from spec.md's own stated semantics rather than translated
// from Rust).
type Weave struct {
	id       string
	toChild  chan resumeMsg
	toParent chan resumeMsg
	canceled chan struct{}
}

func NewWeave() *Weave {
	return &Weave{
		id:       uuid.NewString(),
		toChild:  make(chan resumeMsg, 1),
		toParent: make(chan resumeMsg, 1),
		canceled: make(chan struct{}),
	}
}

func (w *Weave) ID() string { return w.id }

// Resume implements strand.resume from the parent side: ( WeaveCtx --
// WeaveCtx value Bool ). Sends nothing of its own (resume only reads);
// the parent's counterpart call is ChildYield from the child side.
func (w *Weave) Resume() (value.Value, bool) {
	select {
	case m, open := <-w.toParent:
		if !open {
			return value.Value{}, false
		}
		return m.val, m.ok
	case <-w.canceled:
		return value.Value{}, false
	}
}

// ChildYield implements the child side of strand.weave: the spawned strand
// sends v to the parent and then blocks waiting for the parent's next
// resume value. Returns ok=false if the weave was cancelled while waiting.
func (w *Weave) ChildYield(v value.Value) (value.Value, bool) {
	select {
	case w.toParent <- resumeMsg{val: v, ok: true}:
	case <-w.canceled:
		return value.Value{}, false
	}
	select {
	case m, open := <-w.toChild:
		if !open {
			return value.Value{}, false
		}
		return m.val, m.ok
	case <-w.canceled:
		return value.Value{}, false
	}
}

// ChildComplete sends the child's final value with ok=false, matching
// spec.md 4.4: "when a child completes normally, strand.resume returns
// (_, _, false) to the parent, signalling that the handle is exhausted."
func (w *Weave) ChildComplete(final value.Value) {
	select {
	case w.toParent <- resumeMsg{val: final, ok: false}:
	case <-w.canceled:
	}
}

// Cancel implements strand.weave-cancel: drops the parent-side handle so
// the child's next receive observes failure. Idempotent.
func (w *Weave) Cancel() {
	select {
	case <-w.canceled:
	default:
		close(w.canceled)
	}
}

var _ value.WeaveHandle = (*Weave)(nil)
