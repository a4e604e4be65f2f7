// Command seqlint runs the stack-effect-pattern linter and resource-leak
// analyser over one or more .seq files and prints diagnostics in
// spec.md 6.4's "file:line:col: severity [id]: message" form, colorized
// when stdout is a terminal.
//
// Color-support detection (NO_COLOR, TERM=dumb, isatty) is grounded on
// internal/evaluator/builtins_term.go's detectColorLevel, translated from
// a 0/1/256/16777216 color-depth scale (funxy's terminal builtins support
// 256-color and truecolor output) down to the on/off distinction a plain
// diagnostic line needs.
//
// `seqlint --serve [addr]` instead starts internal/lintsvc's
// DiagnosticsService over gRPC, for an editor integration that wants to
// re-lint a buffer per keystroke without re-spawning this process;
// `seqlint --describe` parses diagnostics.proto directly to print its
// service shape.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/mattn/go-isatty"
	"google.golang.org/grpc"

	"github.com/funvibe/seqc/internal/config"
	"github.com/funvibe/seqc/internal/diag"
	"github.com/funvibe/seqc/internal/infer"
	"github.com/funvibe/seqc/internal/lint"
	"github.com/funvibe/seqc/internal/lintsvc"
	"github.com/funvibe/seqc/internal/resource"
	"github.com/funvibe/seqc/internal/testsource"
)

func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func severityColor(s diag.Severity) string {
	switch s {
	case diag.Error:
		return "\x1b[31m" // red
	case diag.Warning:
		return "\x1b[33m" // yellow
	default:
		return "\x1b[36m" // cyan, for Hint
	}
}

const colorReset = "\x1b[0m"

func printDiagnostic(d *diag.Diagnostic, colorize bool) {
	if !colorize {
		fmt.Println(d.String())
		return
	}
	fmt.Printf("%s: %s%s%s [%s]: %s\n", d.Loc, severityColor(d.Severity), d.Severity, colorReset, d.ID, d.Message)
}

// handleServe starts the DiagnosticsService gRPC listener described in
// internal/lintsvc/diagnostics.proto, the editor-integration seam that
// replaces a full language server here. addr is a "host:port" or ":0" for
// an OS-assigned port (logged to stderr so a wrapping editor plugin can
// read it back from the child process's output).
func handleServe(addr string) int {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seqlint: %s\n", err)
		return config.ExitInternalCompiler
	}
	srv, err := lintsvc.NewServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "seqlint: %s\n", err)
		return config.ExitInternalCompiler
	}
	gs := grpc.NewServer()
	lintsvc.RegisterDiagnosticsServiceServer(gs, srv)
	fmt.Fprintf(os.Stderr, "seqlint: serving DiagnosticsService on %s\n", lis.Addr())
	if err := gs.Serve(lis); err != nil {
		fmt.Fprintf(os.Stderr, "seqlint: %s\n", err)
		return config.ExitInternalCompiler
	}
	return config.ExitSuccess
}

// handleDescribe parses diagnostics.proto directly (no protoc invocation,
// protoparse's own headline feature) and prints its service/message
// shape, for `seqlint --describe` debugging without a running
// server.
func handleDescribe(protoPath string) int {
	parser := protoparse.Parser{ImportPaths: []string{"internal/lintsvc"}}
	fds, err := parser.ParseFiles("diagnostics.proto")
	if err != nil {
		fmt.Fprintf(os.Stderr, "seqlint: describing %s: %s\n", protoPath, err)
		return config.ExitInternalCompiler
	}
	for _, fd := range fds {
		for _, svc := range fd.GetServices() {
			fmt.Printf("service %s\n", svc.GetFullyQualifiedName())
			for _, m := range svc.GetMethods() {
				fmt.Printf("  rpc %s(%s) returns (%s)\n", m.GetName(), m.GetInputType().GetName(), m.GetOutputType().GetName())
			}
		}
	}
	return config.ExitSuccess
}

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "--describe" {
		os.Exit(handleDescribe("internal/lintsvc/diagnostics.proto"))
	}
	if len(os.Args) >= 2 && os.Args[1] == "--serve" {
		addr := ":0"
		if len(os.Args) >= 3 {
			addr = os.Args[2]
		}
		os.Exit(handleServe(addr))
	}
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: seqlint <file.seq> [file2.seq ...] | seqlint --serve [addr] | seqlint --describe")
		os.Exit(config.ExitInternalCompiler)
	}

	linter, err := lint.WithDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "seqlint: default rule set failed to compile: %s\n", err)
		os.Exit(config.ExitInternalCompiler)
	}
	builtins := infer.Builtins()
	colorize := colorEnabled()

	hasFatal := false
	for _, path := range os.Args[1:] {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seqlint: %s\n", err)
			hasFatal = true
			continue
		}
		prog, err := testsource.Read(path, string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "seqlint: %s\n", err)
			hasFatal = true
			continue
		}

		var ds []*diag.Diagnostic
		ds = append(ds, infer.Infer(prog, builtins).Diags...)
		ds = append(ds, linter.LintProgram(prog, path)...)
		for i := range prog.Words {
			a := resource.NewAnalyzer(path)
			a.AnalyzeWord(&prog.Words[i])
			ds = append(ds, a.Diagnostics...)
		}

		for _, d := range ds {
			printDiagnostic(d, colorize)
		}
		if diag.AnyFatal(ds) {
			hasFatal = true
		}
	}

	if hasFatal {
		os.Exit(config.ExitDiagnosticErrors)
	}
	os.Exit(config.ExitSuccess)
}
