package lintsvc

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/seqc/internal/diag"
	"github.com/funvibe/seqc/internal/infer"
	"github.com/funvibe/seqc/internal/lint"
	"github.com/funvibe/seqc/internal/resource"
	"github.com/funvibe/seqc/internal/testsource"
)

// Server runs the same Infer/Lint/Resource passes cmd/seqlint's default
// mode runs per-invocation, but against a client-supplied {path, source}
// pair carried over the wire instead of a freshly read file, so a caller
// can re-lint an unsaved editor buffer.
type Server struct {
	Linter   *lint.Linter
	Builtins infer.Env
}

// NewServer builds a Server with the linter's default rule set.
func NewServer() (*Server, error) {
	l, err := lint.WithDefaults()
	if err != nil {
		return nil, err
	}
	return &Server{Linter: l, Builtins: infer.Builtins()}, nil
}

func (s *Server) Lint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	path := fields["path"].GetStringValue()
	source := fields["source"].GetStringValue()
	if path == "" {
		return nil, fmt.Errorf("lintsvc: request missing required field \"path\"")
	}

	prog, err := testsource.Read(path, source)
	if err != nil {
		return diagnosticsToStruct([]*diag.Diagnostic{{
			ID:       "parse-error",
			Severity: diag.Error,
			Loc:      diag.Loc{File: path},
			Message:  err.Error(),
		}})
	}

	var ds []*diag.Diagnostic
	ds = append(ds, infer.Infer(prog, s.Builtins).Diags...)
	ds = append(ds, s.Linter.LintProgram(prog, path)...)
	for i := range prog.Words {
		a := resource.NewAnalyzer(path)
		a.AnalyzeWord(&prog.Words[i])
		ds = append(ds, a.Diagnostics...)
	}
	return diagnosticsToStruct(ds)
}
