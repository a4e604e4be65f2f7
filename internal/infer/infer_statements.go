package infer

import (
	"fmt"

	"github.com/funvibe/seqc/internal/ast"
	"github.com/funvibe/seqc/internal/diag"
	"github.com/funvibe/seqc/internal/types"
)

type inferer struct {
	env      Env
	quotID   int
}

// inferBody infers the composed effect of a statement sequence starting
// from a fresh row variable, per spec.md 4.1's composition rule: each
// statement's local effect is unified with the accumulator's outputs.
func (inf *inferer) inferBody(stmts []ast.Statement) (*types.Effect, []*diag.Diagnostic) {
	row := types.RowVar{Name: freshName("r")}
	acc := types.Identity(row.Name)
	var diags []*diag.Diagnostic

	for _, st := range stmts {
		next, ds := inf.inferStatement(st)
		diags = append(diags, ds...)
		if next == nil {
			continue
		}
		_, composed, err := types.UnifyEffects(acc, next, nil)
		if err != nil {
			diags = append(diags, effectDiag(st.Location(), err))
			continue
		}
		acc = composed
	}
	return acc, diags
}

func effectDiag(loc ast.SourceLoc, err error) *diag.Diagnostic {
	kind := "effect-mismatch"
	if ue, ok := err.(*types.UnifyError); ok {
		switch ue.Kind {
		case "OccursCheck":
			kind = "occurs-check"
		case "TypeMismatch":
			kind = "type-mismatch"
		}
	}
	return &diag.Diagnostic{
		ID: kind, Severity: diag.Error,
		Loc:     diag.Loc{File: loc.File, Line: loc.Line, Column: loc.Column},
		Message: err.Error(),
	}
}

func (inf *inferer) inferStatement(st ast.Statement) (*types.Effect, []*diag.Diagnostic) {
	switch n := st.(type) {
	case *ast.IntLiteral:
		return pushOne(types.TInt{}), nil
	case *ast.FloatLiteral:
		return pushOne(types.TFloat{}), nil
	case *ast.BoolLiteral:
		return pushOne(types.TBool{}), nil
	case *ast.StringLiteral:
		return pushOne(types.TString{}), nil
	case *ast.WordCall:
		scheme, ok := inf.env[n.Name]
		if !ok {
			return nil, []*diag.Diagnostic{{
				ID: "unknown-word", Severity: diag.Error,
				Loc:     diag.Loc{File: n.Loc.File, Line: n.Loc.Line, Column: n.Loc.Column},
				Message: fmt.Sprintf("unknown word: %s", n.Name),
			}}
		}
		eff := Instantiate(scheme)
		if eff == nil {
			return nil, nil
		}
		return eff, nil
	case *ast.Quotation:
		bodyEff, ds := inf.inferBody(n.Body)
		if bodyEff == nil {
			return nil, ds
		}
		return pushOne(types.TQuotation{Effect: bodyEff}), ds
	case *ast.If:
		return inf.inferIf(n)
	case *ast.Match:
		return inf.inferMatch(n)
	default:
		return nil, []*diag.Diagnostic{{
			ID: "internal", Severity: diag.Error,
			Message: fmt.Sprintf("infer: unhandled statement type %T", st),
		}}
	}
}

// pushOne returns the effect of a literal: ( ..a -- ..a T ).
func pushOne(t types.Type) *types.Effect {
	row := types.RowVar{Name: freshName("r")}
	return &types.Effect{Inputs: row, Outputs: types.Push(row, t)}
}

// inferIf infers `If`: both branches consume the leading Bool (spec.md
// 4.1) and must unify to identical output stacks; a missing Else behaves
// as an identity effect on the post-Bool-pop stack.
func (inf *inferer) inferIf(n *ast.If) (*types.Effect, []*diag.Diagnostic) {
	var diags []*diag.Diagnostic

	row := types.RowVar{Name: freshName("r")}
	condIn := types.Push(row, types.TBool{})

	thenEff, ds := inf.inferBody(n.Then)
	diags = append(diags, ds...)

	var elseEff *types.Effect
	if n.Else == nil {
		elseEff = types.Identity(freshName("r"))
	} else {
		elseEff, ds = inf.inferBody(n.Else)
		diags = append(diags, ds...)
	}
	if thenEff == nil || elseEff == nil {
		return nil, diags
	}

	subThen, err := types.UnifyStacks(row, thenEff.Inputs, nil)
	if err != nil {
		diags = append(diags, effectDiag(n.Loc, err))
		return nil, diags
	}
	subElse, err := types.UnifyStacks(subThen.ApplyStack(row), elseEff.Inputs, nil)
	if err != nil {
		diags = append(diags, effectDiag(n.Loc, err))
		return nil, diags
	}
	sub := types.Compose(subThen, subElse)

	outSub, err := types.UnifyStacks(sub.ApplyStack(thenEff.Outputs), sub.ApplyStack(elseEff.Outputs), nil)
	if err != nil {
		diags = append(diags, &diag.Diagnostic{
			ID: "effect-mismatch", Severity: diag.Error,
			Loc:     diag.Loc{File: n.Loc.File, Line: n.Loc.Line, Column: n.Loc.Column},
			Message: fmt.Sprintf("if/else branches produce different stacks: %v", err),
		})
		return nil, diags
	}
	sub = types.Compose(sub, outSub)

	return &types.Effect{
		Inputs:  sub.ApplyStack(condIn),
		Outputs: sub.ApplyStack(thenEff.Outputs),
	}, diags
}

// inferMatch infers `Match`: pops the matched value, then unifies the
// bodies of all arms; each arm's pattern pushes its constructor's field
// types (modeled here as fresh type variables, one per binding, since
// per-union field types are resolved at the lint/codegen boundary against
// the UnionDef table rather than threaded through inference).
func (inf *inferer) inferMatch(n *ast.Match) (*types.Effect, []*diag.Diagnostic) {
	var diags []*diag.Diagnostic
	if len(n.Arms) == 0 {
		return nil, []*diag.Diagnostic{{ID: "internal", Severity: diag.Error, Message: "match with no arms"}}
	}

	row := types.RowVar{Name: freshName("r")}
	matchedIn := types.Push(row, types.TVariant{})

	var armEffects []*types.Effect
	for _, arm := range n.Arms {
		bindings := 0
		if vb, ok := arm.Pattern.(ast.VariantWithBindings); ok {
			bindings = len(vb.Bindings)
		}
		armRow := types.RowVar{Name: freshName("r")}
		var armIn types.StackType = armRow
		for i := 0; i < bindings; i++ {
			armIn = types.Push(armIn, types.TVar{Name: freshName("t")})
		}
		bodyEff, ds := inf.inferBody(arm.Body)
		diags = append(diags, ds...)
		if bodyEff == nil {
			continue
		}
		sub, err := types.UnifyStacks(armIn, bodyEff.Inputs, nil)
		if err != nil {
			diags = append(diags, effectDiag(n.Loc, err))
			continue
		}
		armEffects = append(armEffects, &types.Effect{
			Inputs:  sub.ApplyStack(armRow),
			Outputs: sub.ApplyStack(bodyEff.Outputs),
		})
	}
	if len(armEffects) == 0 {
		return nil, diags
	}

	acc := armEffects[0]
	for _, e := range armEffects[1:] {
		subIn, err := types.UnifyStacks(acc.Inputs, e.Inputs, nil)
		if err != nil {
			diags = append(diags, effectDiag(n.Loc, err))
			continue
		}
		subOut, err := types.UnifyStacks(subIn.ApplyStack(acc.Outputs), subIn.ApplyStack(e.Outputs), nil)
		if err != nil {
			diags = append(diags, &diag.Diagnostic{
				ID: "effect-mismatch", Severity: diag.Error,
				Loc:     diag.Loc{File: n.Loc.File, Line: n.Loc.Line, Column: n.Loc.Column},
				Message: fmt.Sprintf("match arms produce different stacks: %v", err),
			})
			continue
		}
		sub := types.Compose(subIn, subOut)
		acc = &types.Effect{Inputs: sub.ApplyStack(acc.Inputs), Outputs: sub.ApplyStack(acc.Outputs)}
	}

	rowSub, err := types.UnifyStacks(row, acc.Inputs, nil)
	if err != nil {
		diags = append(diags, effectDiag(n.Loc, err))
		return nil, diags
	}
	return &types.Effect{
		Inputs:  rowSub.ApplyStack(matchedIn),
		Outputs: rowSub.ApplyStack(acc.Outputs),
	}, diags
}
