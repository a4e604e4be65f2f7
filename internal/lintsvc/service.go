// Package lintsvc is the gRPC diagnostics seam SPEC_FULL.md's DOMAIN STACK
// section assigns to google.golang.org/grpc, google.golang.org/protobuf,
// and github.com/jhump/protoreflect: a "--serve" mode for cmd/seqlint that
// streams internal/infer, internal/lint, and internal/resource diagnostics
// to a long-lived client instead of the file-at-a-time CLI invocation
// cmd/seqlint's default mode uses, the natural next layer above a plain
// linter without reimplementing the teacher's full LSP textDocument/*
// protocol.
//
// Request and response payloads are carried as google.golang.org/protobuf's
// structpb.Struct rather than hand-generated message types: structpb ships
// already compiled inside the protobuf module, so the wire format is real
// protobuf (not a JSON-over-grpc shortcut) without needing a protoc run to
// produce FileRequest/LintResponse Go types from diagnostics.proto — the
// .proto file documents the wire contract protoc would otherwise generate
// these types from.
package lintsvc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/seqc/internal/diag"
)

// DiagnosticsServiceServer is implemented by server.go's Server.
type DiagnosticsServiceServer interface {
	Lint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc is registered against a *grpc.Server in place of the
// protoc-gen-go-grpc-generated descriptor diagnostics.proto would normally
// produce; its ServiceName/MethodName strings match the .proto source
// exactly so a generated client stub (or grpcurl) addresses the same RPC.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "lintsvc.DiagnosticsService",
	HandlerType: (*DiagnosticsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Lint", Handler: lintHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/lintsvc/diagnostics.proto",
}

func lintHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DiagnosticsServiceServer).Lint(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/lintsvc.DiagnosticsService/Lint"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DiagnosticsServiceServer).Lint(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterDiagnosticsServiceServer wires srv into s, matching the
// protoc-gen-go-grpc RegisterXxxServer naming convention.
func RegisterDiagnosticsServiceServer(s *grpc.Server, srv DiagnosticsServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// diagnosticsToStruct converts internal/diag's plain structs to the
// structpb.Struct wire shape diagnostics.proto's Diagnostic/LintResponse
// messages describe.
func diagnosticsToStruct(ds []*diag.Diagnostic) (*structpb.Struct, error) {
	list := make([]interface{}, 0, len(ds))
	for _, d := range ds {
		list = append(list, map[string]interface{}{
			"id":       d.ID,
			"severity": d.Severity.String(),
			"file":     d.Loc.File,
			"line":     float64(d.Loc.Line),
			"column":   float64(d.Loc.Column),
			"message":  d.Message,
		})
	}
	out, err := structpb.NewStruct(map[string]interface{}{
		"diagnostics": list,
		"has_fatal":   diag.AnyFatal(ds),
	})
	if err != nil {
		return nil, fmt.Errorf("lintsvc: encoding diagnostics: %w", err)
	}
	return out, nil
}
