// Package infer implements row-polymorphic Hindley-Milner inference over
// stack effects (spec.md 4.1): a standard Algorithm W adapted so that
// composition of two effects unifies the first's outputs with the second's
// inputs, and each literal/word-call/quotation/If/Match contributes its own
// local effect to that composition. Grounded in approach on the teacher's
// internal/analyzer/inference*.go split-by-concern layout, generalized from
// expression typing to stack-effect typing.
package infer

import (
	"fmt"
	"sync/atomic"

	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/diag"
	"github.com/funvibe/seqc/internal/types"
)

var freshCounter int64

func freshName(prefix string) string {
	n := atomic.AddInt64(&freshCounter, 1)
	return fmt.Sprintf("%s%d", prefix, n)
}

// Env maps word names (builtins and user-defined) to generalized schemes.
type Env map[string]*types.Scheme

// Result is the public contract: either a fully-inferred effect table, or a
// non-empty diagnostic list.
type Result struct {
	Effects map[string]*types.Effect
	Diags   []*diag.Diagnostic
}

// Infer infers stack effects for every word in prog, given a table of
// builtin schemes. Recursive and mutually-recursive word groups are
// supported by assigning each word a fresh scheme variable before any body
// is inferred (spec.md 4.1).
func Infer(prog *ast.Program, builtins Env) *Result {
	env := make(Env, len(builtins)+len(prog.Words))
	for k, v := range builtins {
		env[k] = v
	}

	placeholders := map[string]*types.Effect{}
	for _, w := range prog.Words {
		row := types.RowVar{Name: freshName("r")}
		row2 := types.RowVar{Name: freshName("r")}
		eff := &types.Effect{Inputs: row, Outputs: row2}
		placeholders[w.Name] = eff
		env[w.Name] = &types.Scheme{RowVars: []string{row.Name, row2.Name}, Effect: eff}
	}

	var diags []*diag.Diagnostic
	final := map[string]*types.Effect{}

	for _, w := range prog.Words {
		inf := &inferer{env: env}
		bodyEffect, ds := inf.inferBody(w.Body)
		diags = append(diags, ds...)
		if bodyEffect == nil {
			continue
		}

		placeholder := placeholders[w.Name]
		sub, err := types.UnifyStacks(placeholder.Inputs, bodyEffect.Inputs, nil)
		if err == nil {
			var sub2 types.Subst
			sub2, err = types.UnifyStacks(sub.ApplyStack(placeholder.Outputs), sub.ApplyStack(bodyEffect.Outputs), nil)
			if err == nil {
				sub = types.Compose(sub, sub2)
			}
		}
		if err != nil {
			diags = append(diags, &diag.Diagnostic{
				ID: "effect-mismatch", Severity: diag.Error,
				Loc:     loc(w.Loc),
				Message: fmt.Sprintf("word %q: declared/recursive effect does not match inferred body effect: %v", w.Name, err),
			})
			continue
		}
		resolved := sub.ApplyEffect(bodyEffect)
		final[w.Name] = resolved
		env[w.Name] = generalize(resolved, env)
	}

	return &Result{Effects: final, Diags: diags}
}

func loc(l ast.SourceLoc) diag.Loc {
	return diag.Loc{File: l.File, Line: l.Line, Column: l.Column}
}

// generalize closes an effect over every type/row variable free in it,
// without excluding those free elsewhere in env (a coarse but sound approximation: a
// production implementation would compute the environment's free-variable
// set precisely; here we generalize over every variable in the effect,
// which is sound for this corpus's non-shadowing word-scoping model since
// word bodies do not reference the generalized word's own variables beyond
// the placeholder scheme already unified above).
func generalize(e *types.Effect, env Env) *types.Scheme {
	tvs := map[string]bool{}
	rvs := map[string]bool{}
	collectVars(e.Inputs, tvs, rvs)
	collectVars(e.Outputs, tvs, rvs)
	s := &types.Scheme{Effect: e}
	for k := range tvs {
		s.TypeVars = append(s.TypeVars, k)
	}
	for k := range rvs {
		s.RowVars = append(s.RowVars, k)
	}
	return s
}

func collectVars(s types.StackType, tvs, rvs map[string]bool) {
	switch v := s.(type) {
	case types.RowVar:
		rvs[v.Name] = true
	case types.Cons:
		collectTypeVars(v.Top, tvs, rvs)
		collectVars(v.Rest, tvs, rvs)
	}
}

func collectTypeVars(t types.Type, tvs, rvs map[string]bool) {
	switch v := t.(type) {
	case types.TVar:
		tvs[v.Name] = true
	case types.TMap:
		collectTypeVars(v.Key, tvs, rvs)
		collectTypeVars(v.Value, tvs, rvs)
	case types.TChannel:
		collectTypeVars(v.Elem, tvs, rvs)
	case types.TWeaveCtx:
		collectTypeVars(v.Elem, tvs, rvs)
	case types.TQuotation:
		if v.Effect != nil {
			collectVars(v.Effect.Inputs, tvs, rvs)
			collectVars(v.Effect.Outputs, tvs, rvs)
		}
	case types.TClosure:
		if v.Effect != nil {
			collectVars(v.Effect.Inputs, tvs, rvs)
			collectVars(v.Effect.Outputs, tvs, rvs)
		}
	}
}

// Instantiate renames every bound variable in a scheme with fresh names,
// producing a monomorphic instance for one call site (spec.md 4.1: "each
// word call pulls in a fresh instance of that word's declared/inferred
// scheme with all type and row variables renamed").
func Instantiate(s *types.Scheme) *types.Effect {
	if s.Effect == nil {
		return nil
	}
	sub := types.Subst{Types: types.Map1{}, Rows: types.Map2{}}
	for _, tv := range s.TypeVars {
		sub.Types[tv] = types.TVar{Name: freshName("t")}
	}
	for _, rv := range s.RowVars {
		sub.Rows[rv] = types.RowVar{Name: freshName("r")}
	}
	return sub.ApplyEffect(s.Effect)
}
