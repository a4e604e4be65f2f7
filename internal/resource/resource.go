// Package resource implements the data-flow resource-leak detector spec.md
// 4.5/8/9 describes: abstract interpretation of a word body tracking
// channel and weave handles through stack shuffles and branches. Translated
// method-for-method from original_source/crates/compiler/src/
// resource_lint.rs, including its branch-join semantics and test suite.
package resource

import (
	"fmt"

	"golang.org/x/exp/maps"

	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/diag"
)

// Kind is a tracked resource's category.
type Kind int

const (
	WeaveHandle Kind = iota
	Channel
)

func (k Kind) name() string {
	if k == WeaveHandle {
		return "WeaveHandle"
	}
	return "Channel"
}

func (k Kind) cleanupSuggestion() string {
	if k == WeaveHandle {
		return "cancel it with strand.weave-cancel"
	}
	return "close it with chan.close"
}

// TrackedResource is one resource-creating call site's abstract value.
type TrackedResource struct {
	Kind       Kind
	ID         int
	CreatedLoc ast.SourceLoc
	CreatedBy  string
}

// StackValue is either a tracked resource or an opaque unknown value.
type StackValue struct {
	IsResource bool
	Resource   TrackedResource
}

func unknown() StackValue { return StackValue{} }
func resourceValue(r TrackedResource) StackValue { return StackValue{IsResource: true, Resource: r} }

// StackState is the abstract interpreter's state: the abstract stack plus
// the set of resource IDs known to have been properly consumed.
type StackState struct {
	Stack    []StackValue
	Consumed map[int]bool
	NextID   int
}

func NewStackState() *StackState {
	return &StackState{Consumed: map[int]bool{}}
}

func (s *StackState) Clone() *StackState {
	out := &StackState{
		Stack:    append([]StackValue(nil), s.Stack...),
		Consumed: maps.Clone(s.Consumed),
		NextID:   s.NextID,
	}
	if out.Consumed == nil {
		out.Consumed = map[int]bool{}
	}
	return out
}

func (s *StackState) PushUnknown() { s.Stack = append(s.Stack, unknown()) }

func (s *StackState) PushResource(kind Kind, loc ast.SourceLoc, createdBy string) TrackedResource {
	r := TrackedResource{Kind: kind, ID: s.NextID, CreatedLoc: loc, CreatedBy: createdBy}
	s.NextID++
	s.Stack = append(s.Stack, resourceValue(r))
	return r
}

func (s *StackState) Depth() int { return len(s.Stack) }

func (s *StackState) Pop() (StackValue, bool) {
	if len(s.Stack) == 0 {
		return StackValue{}, false
	}
	v := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return v, true
}

func (s *StackState) Peek() (StackValue, bool) {
	if len(s.Stack) == 0 {
		return StackValue{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

func (s *StackState) ConsumeResource(v StackValue) {
	if v.IsResource {
		s.Consumed[v.Resource.ID] = true
	}
}

func (s *StackState) IsConsumed(id int) bool { return s.Consumed[id] }

// RemainingResources returns the tracked resources still on the abstract
// stack that have not been marked consumed (escape analysis treats these
// as returned to the caller, not leaked — spec.md 4.5).
func (s *StackState) RemainingResources() []TrackedResource {
	var out []TrackedResource
	for _, v := range s.Stack {
		if v.IsResource && !s.Consumed[v.Resource.ID] {
			out = append(out, v.Resource)
		}
	}
	return out
}

// BranchMergeResult reports whether two branches handled a resource
// inconsistently (consumed in one, not the other).
type BranchMergeResult struct {
	Inconsistent bool
}

// Merge reports inconsistency between two post-branch states without
// mutating either (used to emit the resource-branch-inconsistent
// diagnostic); Join (below) is the actual conservative lattice join used to
// continue analysis past the branch.
func Merge(a, b *StackState) BranchMergeResult {
	for id := range a.Consumed {
		if !b.Consumed[id] {
			if idStillTracked(a, id) || idStillTracked(b, id) {
				return BranchMergeResult{Inconsistent: true}
			}
		}
	}
	for id := range b.Consumed {
		if !a.Consumed[id] {
			if idStillTracked(a, id) || idStillTracked(b, id) {
				return BranchMergeResult{Inconsistent: true}
			}
		}
	}
	return BranchMergeResult{}
}

func idStillTracked(s *StackState, id int) bool {
	for _, v := range s.Stack {
		if v.IsResource && v.Resource.ID == id {
			return true
		}
	}
	return false
}

// Join conservatively merges two branch-end states into the continuation's
// starting state: union of resources present in either branch (by stack
// position when shapes match, else by falling back to unknowns — see
// joinStacks), intersection of consumed sets, NextID = max.
func Join(a, b *StackState) *StackState {
	out := &StackState{Consumed: map[int]bool{}}
	for id := range a.Consumed {
		if b.Consumed[id] {
			out.Consumed[id] = true
		}
	}
	out.Stack = joinStacks(a.Stack, b.Stack)
	out.NextID = a.NextID
	if b.NextID > out.NextID {
		out.NextID = b.NextID
	}
	return out
}

func joinStacks(a, b []StackValue) []StackValue {
	if len(a) != len(b) {
		// Shape mismatch past analysis imprecision (e.g. arms that push
		// different bindings counts due to an already-reported error):
		// degrade to the shorter length of unknowns rather than guessing.
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		out := make([]StackValue, n)
		for i := range out {
			out[i] = unknown()
		}
		return out
	}
	out := make([]StackValue, len(a))
	for i := range a {
		switch {
		case a[i].IsResource:
			out[i] = a[i]
		case b[i].IsResource:
			out[i] = b[i]
		default:
			out[i] = unknown()
		}
	}
	return out
}

// Analyzer walks word bodies and accumulates diagnostics.
type Analyzer struct {
	Diagnostics []*diag.Diagnostic
	File        string
}

func NewAnalyzer(file string) *Analyzer {
	return &Analyzer{File: file}
}

// AnalyzeWord analyzes one word body from a fresh empty state. Resources
// still tracked (and unconsumed) at the end are deemed returned to the
// caller (escape analysis) and do not warn, per spec.md 4.5.
func (a *Analyzer) AnalyzeWord(w *ast.WordDef) {
	a.Diagnostics = nil
	state := NewStackState()
	a.analyzeStatements(w.Body, state)
	// Remaining tracked resources escape to the caller; no warning.
}

func (a *Analyzer) analyzeStatements(stmts []ast.Statement, state *StackState) {
	for _, st := range stmts {
		a.analyzeStatement(st, state)
	}
}

func (a *Analyzer) analyzeStatement(st ast.Statement, state *StackState) {
	switch n := st.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.StringLiteral:
		state.PushUnknown()
	case *ast.WordCall:
		a.analyzeWordCall(n, state)
	case *ast.Quotation:
		// Quotation literals are opaque at this analysis layer (their body
		// is analyzed independently when/if they are themselves a word);
		// pushing the quotation itself is not a tracked resource.
		state.PushUnknown()
	case *ast.If:
		a.analyzeIf(n, state)
	case *ast.Match:
		a.analyzeMatch(n, state)
	}
}

// analyzeWordCall is the full per-word-name dispatch table ported from
// resource_lint.rs's analyze_word_call.
func (a *Analyzer) analyzeWordCall(n *ast.WordCall, state *StackState) {
	switch n.Name {
	case "strand.weave":
		state.PushResource(WeaveHandle, n.Loc, n.Name)
	case "chan.make":
		state.PushResource(Channel, n.Loc, n.Name)
	case "strand.weave-cancel":
		a.consumeTopIfKind(state, WeaveHandle)
	case "chan.close":
		a.consumeTopIfKind(state, Channel)
	case "strand.resume":
		// ( handle -- handle value bool ); does not consume — a known
		// imprecision (spec.md 9's documented Open Question: a `false`
		// result means the child completed, but the analyzer cannot see
		// that statically and conservatively keeps the handle live).
		v, ok := state.Pop()
		if !ok {
			return
		}
		state.Stack = append(state.Stack, v)
		state.PushUnknown()
		state.PushUnknown()
	case "drop":
		v, ok := state.Pop()
		if ok && v.IsResource && !state.IsConsumed(v.Resource.ID) {
			a.emitDropWarning(v.Resource)
		}
	case "nip":
		b, ok1 := state.Pop()
		v, ok2 := state.Pop()
		if ok2 && v.IsResource && !state.IsConsumed(v.Resource.ID) {
			a.emitDropWarning(v.Resource)
		}
		if ok1 {
			state.Stack = append(state.Stack, b)
		}
	case "3drop":
		for i := 0; i < 3; i++ {
			v, ok := state.Pop()
			if ok && v.IsResource && !state.IsConsumed(v.Resource.ID) {
				a.emitDropWarning(v.Resource)
			}
		}
	case "dup":
		if v, ok := state.Peek(); ok {
			state.Stack = append(state.Stack, v)
		}
	case "swap":
		n := len(state.Stack)
		if n >= 2 {
			state.Stack[n-1], state.Stack[n-2] = state.Stack[n-2], state.Stack[n-1]
		}
	case "over":
		n := len(state.Stack)
		if n >= 2 {
			state.Stack = append(state.Stack, state.Stack[n-2])
		}
	case "rot":
		n := len(state.Stack)
		if n >= 3 {
			a, b, c := state.Stack[n-3], state.Stack[n-2], state.Stack[n-1]
			state.Stack[n-3], state.Stack[n-2], state.Stack[n-1] = b, c, a
		}
	case "tuck":
		n := len(state.Stack)
		if n >= 2 {
			state.Stack = append(state.Stack, StackValue{})
			copy(state.Stack[n-1:], state.Stack[n-2:n])
			state.Stack[n-2] = state.Stack[n]
		}
	case "2dup":
		n := len(state.Stack)
		if n >= 2 {
			state.Stack = append(state.Stack, state.Stack[n-2], state.Stack[n-1])
		}
	case "pick", "roll":
		state.PushUnknown()
	case "chan.send", "chan.receive":
		// Use-without-consume: the analysis leaves the channel handle and
		// any sent value on the abstract stack (a later chan.close or drop
		// of the handle is still tracked) and pushes one unknown result;
		// the runtime words themselves pop their operands.
		state.PushUnknown()
	case "strand.spawn":
		// All tracked resources currently on the abstract stack transfer
		// ownership to the child (spec.md 4.5, testable property #11).
		for i := range state.Stack {
			state.ConsumeResource(state.Stack[i])
		}
		state.Pop() // the quotation/closure argument
		state.PushUnknown()
	default:
		// Unknown/user-defined/FFI words are treated as identity on the
		// abstract stack: a documented under-approximation (spec.md 4.5).
	}
}

func (a *Analyzer) consumeTopIfKind(state *StackState, kind Kind) {
	v, ok := state.Pop()
	if !ok {
		return
	}
	if v.IsResource && v.Resource.Kind == kind {
		state.ConsumeResource(v)
	}
}

func (a *Analyzer) analyzeIf(n *ast.If, state *StackState) {
	state.Pop() // the Bool condition

	thenState := state.Clone()
	a.analyzeStatements(n.Then, thenState)

	elseState := state.Clone()
	if n.Else != nil {
		a.analyzeStatements(n.Else, elseState)
	}

	if Merge(thenState, elseState).Inconsistent {
		a.emitBranchInconsistencyWarning(n.Loc)
	}

	*state = *Join(thenState, elseState)
}

func (a *Analyzer) analyzeMatch(n *ast.Match, state *StackState) {
	state.Pop() // the matched variant

	var armStates []*StackState
	for _, arm := range n.Arms {
		armState := state.Clone()
		bindings := 0
		if vb, ok := arm.Pattern.(ast.VariantWithBindings); ok {
			bindings = len(vb.Bindings)
		}
		for i := 0; i < bindings; i++ {
			armState.PushUnknown()
		}
		a.analyzeStatements(arm.Body, armState)
		armStates = append(armStates, armState)
	}
	if len(armStates) == 0 {
		return
	}

	for i := 1; i < len(armStates); i++ {
		if Merge(armStates[0], armStates[i]).Inconsistent {
			a.emitBranchInconsistencyWarning(n.Loc)
		}
	}

	acc := armStates[0]
	for _, s := range armStates[1:] {
		acc = Join(acc, s)
	}
	*state = *acc
}

func (a *Analyzer) emitDropWarning(r TrackedResource) {
	a.Diagnostics = append(a.Diagnostics, &diag.Diagnostic{
		ID:       fmt.Sprintf("resource-leak-%s", lowerKind(r.Kind)),
		Severity: diag.Warning,
		Loc:      diag.Loc{File: a.File, Line: r.CreatedLoc.Line, Column: r.CreatedLoc.Column},
		Message:  fmt.Sprintf("%s created at line %d dropped without cleanup - %s", r.Kind.name(), r.CreatedLoc.Line, r.Kind.cleanupSuggestion()),
	})
}

func (a *Analyzer) emitBranchInconsistencyWarning(loc ast.SourceLoc) {
	a.Diagnostics = append(a.Diagnostics, &diag.Diagnostic{
		ID:       "resource-branch-inconsistent",
		Severity: diag.Warning,
		Loc:      diag.Loc{File: a.File, Line: loc.Line, Column: loc.Column},
		Message:  "a tracked resource is consumed in one branch but not the other",
	})
}

func lowerKind(k Kind) string {
	if k == WeaveHandle {
		return "weavehandle"
	}
	return "channel"
}
