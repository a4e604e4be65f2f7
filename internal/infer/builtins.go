package infer

import "github.com/funvibe/seqc/internal/types"

// sig is a small helper for hand-writing a builtin's generalized scheme:
// rowName is the scheme's row variable, ins/outs are the concrete types
// pushed/popped relative to it (left-to-right, bottom-to-top).
func sig(rowName string, ins, outs []types.Type, typeVars ...string) *types.Scheme {
	row := types.RowVar{Name: rowName}
	var in types.StackType = row
	for _, t := range ins {
		in = types.Push(in, t)
	}
	var out types.StackType = row
	for _, t := range outs {
		out = types.Push(out, t)
	}
	return &types.Scheme{
		RowVars:  []string{rowName},
		TypeVars: typeVars,
		Effect:   &types.Effect{Inputs: in, Outputs: out},
	}
}

// Builtins returns the scheme table for the primitive catalogue spec.md 4.3
// names. This is not the full stdlib (out of scope, resolved via
// internal/include) but the inline-opcode and runtime-primitive surface
// inference must know about to type-check a program at all.
func Builtins() Env {
	b := Env{}
	i, f, bo, s := types.TInt{}, types.TFloat{}, types.TBool{}, types.TString{}

	for _, name := range []string{"add", "subtract", "multiply", "divide", "mod", "band", "bor", "bxor", "shl", "shr"} {
		b[name] = sig("a", []types.Type{i, i}, []types.Type{i})
	}
	for _, name := range []string{"=", "<", ">", "<=", ">=", "!="} {
		b[name] = sig("a", []types.Type{i, i}, []types.Type{bo})
	}
	for _, name := range []string{"f.add", "f.sub", "f.mul", "f.div"} {
		b[name] = sig("a", []types.Type{f, f}, []types.Type{f})
	}
	for _, name := range []string{"f.=", "f.<", "f.>"} {
		b[name] = sig("a", []types.Type{f, f}, []types.Type{bo})
	}
	b["bnot"] = sig("a", []types.Type{i}, []types.Type{i})
	b["popcount"] = sig("a", []types.Type{i}, []types.Type{i})
	b["clz"] = sig("a", []types.Type{i}, []types.Type{i})
	b["ctz"] = sig("a", []types.Type{i}, []types.Type{i})

	b["drop"] = sig("a", []types.Type{types.TVar{Name: "T"}}, nil, "T")
	b["dup"] = sig("a", []types.Type{types.TVar{Name: "T"}}, []types.Type{types.TVar{Name: "T"}, types.TVar{Name: "T"}}, "T")
	b["swap"] = dualPoly("a", "T", "U")
	b["nip"] = sig("a", []types.Type{types.TVar{Name: "T"}, types.TVar{Name: "U"}}, []types.Type{types.TVar{Name: "U"}}, "T", "U")

	b["io.write-line"] = sig("a", []types.Type{s}, nil)
	b["io.read-line"] = sig("a", nil, []types.Type{s})
	b["os.exit"] = sig("a", []types.Type{i}, nil)

	b["chan.make"] = sig("a", nil, []types.Type{types.TChannel{Elem: types.TVar{Name: "T"}}}, "T")
	b["chan.send"] = sig("a", []types.Type{types.TVar{Name: "T"}, types.TChannel{Elem: types.TVar{Name: "T"}}}, []types.Type{bo}, "T")
	b["chan.receive"] = sig("a", []types.Type{types.TChannel{Elem: types.TVar{Name: "T"}}}, []types.Type{types.TVar{Name: "T"}, bo}, "T")
	b["chan.close"] = sig("a", []types.Type{types.TChannel{Elem: types.TVar{Name: "T"}}}, nil, "T")

	b["strand.spawn"] = sig("a", []types.Type{types.TQuotation{}}, []types.Type{s})

	b["string.split"] = sig("a", []types.Type{s, s}, []types.Type{types.TVariant{}})
	b["variant.field-count"] = sig("a", []types.Type{types.TVariant{}}, []types.Type{i})
	b["int->string"] = sig("a", []types.Type{i}, []types.Type{s})
	b["string->int"] = sig("a", []types.Type{s}, []types.Type{i, bo})

	b["call"] = sig("a", []types.Type{types.TQuotation{}}, nil)

	return b
}

func dualPoly(rowName, tv1, tv2 string) *types.Scheme {
	row := types.RowVar{Name: rowName}
	t1, t2 := types.TVar{Name: tv1}, types.TVar{Name: tv2}
	in := types.Push(types.Push(row, t1), t2)
	out := types.Push(types.Push(row, t2), t1)
	return &types.Scheme{RowVars: []string{rowName}, TypeVars: []string{tv1, tv2}, Effect: &types.Effect{Inputs: in, Outputs: out}}
}
