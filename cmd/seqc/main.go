// Command seqc is the seq compiler/runtime driver (spec.md 6.4). It
// mirrors the teacher CLI's plain os.Args dispatch (a chain of
// handleX(args) int functions rather than a flag-parsing library —
// cmd/funxy/main.go's isSourceFile/handleTest/handleHelp shape), adapted
// to seqc's own subcommands: `build` emits LLVM IR, `run` always executes
// interpretively, and bare `seqc <file>` auto-selects between the two per
// spec.md 6.4's toolchain-fallback rule.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/funvibe/seqc/internal/codegen/tagged"
	"github.com/funvibe/seqc/internal/config"
	"github.com/funvibe/seqc/internal/diag"
	"github.com/funvibe/seqc/internal/interp"
	"github.com/funvibe/seqc/internal/pipeline"
	"github.com/funvibe/seqc/internal/runtime"
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/testsource"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(config.ExitInternalCompiler)
	}

	switch os.Args[1] {
	case "-help", "--help", "help":
		printUsage()
		os.Exit(config.ExitSuccess)
	case "build":
		os.Exit(handleBuild(os.Args[2:]))
	case "run":
		os.Exit(handleRun(os.Args[2:]))
	default:
		os.Exit(handleDefault(os.Args[1:]))
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: seqc <file.seq>")
	fmt.Fprintln(os.Stderr, "       seqc build <file.seq> [-o out.ll] [-verbose]")
	fmt.Fprintln(os.Stderr, "       seqc run <file.seq>")
}

func readProgram(path string) (*pipeline.Context, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// testsource.Read is documented test scaffolding (internal/testsource's
	// package doc), reused here as the only reader this module ships —
	// spec.md 1 puts a production tokenizer/parser out of scope, and
	// SPEC_FULL.md 3.2 expects an external frontend to build the
	// *ast.Program through internal/ast's builder API instead. Swapping in
	// a real frontend means replacing this one call.
	prog, err := testsource.Read(path, string(src))
	if err != nil {
		return nil, err
	}
	return &pipeline.Context{File: path, Program: prog}, nil
}

func fullPipeline() *pipeline.Pipeline {
	lintStage, err := pipeline.NewLintProcessor()
	if err != nil {
		// DefaultRules failing to compile is a bug in the rule table, not
		// a condition a driver can recover from at runtime.
		panic(err)
	}
	return pipeline.New(
		pipeline.NewInferProcessor(),
		lintStage,
		&pipeline.ResourceProcessor{},
		&pipeline.CodegenProcessor{Emitter: tagged.New()},
	)
}

func reportDiagnostics(ds []*diag.Diagnostic) {
	for _, d := range ds {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func handleBuild(args []string) int {
	if len(args) < 1 {
		printUsage()
		return config.ExitInternalCompiler
	}
	path := args[0]
	outPath := ""
	verbose := false
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 < len(args) {
				outPath = args[i+1]
				i++
			}
		case "-verbose":
			verbose = true
		}
	}

	start := time.Now()
	ctx, err := readProgram(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seqc build: %s\n", err)
		return config.ExitInternalCompiler
	}
	ctx = fullPipeline().Run(ctx)
	reportDiagnostics(ctx.Diagnostics)
	if diag.AnyFatal(ctx.Diagnostics) {
		return config.ExitDiagnosticErrors
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "seqc build: emitted %s of IR in %s\n",
			humanize.Bytes(uint64(len(ctx.IR))), time.Since(start).Round(time.Microsecond))
	}

	if outPath == "" {
		fmt.Print(ctx.IR)
		return config.ExitSuccess
	}
	if err := os.WriteFile(outPath, []byte(ctx.IR), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "seqc build: writing %s: %s\n", outPath, err)
		return config.ExitInternalCompiler
	}
	if verbose {
		if info, statErr := os.Stat(outPath); statErr == nil {
			fmt.Fprintf(os.Stderr, "seqc build: wrote %s to %s\n", humanize.Bytes(uint64(info.Size())), outPath)
		}
	}
	return config.ExitSuccess
}

func handleRun(args []string) int {
	if len(args) < 1 {
		printUsage()
		return config.ExitInternalCompiler
	}
	path := args[0]

	ctx, err := readProgram(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seqc run: %s\n", err)
		return config.ExitInternalCompiler
	}

	lintStage, lerr := pipeline.NewLintProcessor()
	if lerr != nil {
		panic(lerr)
	}
	ctx = pipeline.New(pipeline.NewInferProcessor(), lintStage, &pipeline.ResourceProcessor{}).Run(ctx)
	reportDiagnostics(ctx.Diagnostics)
	if diag.AnyFatal(ctx.Diagnostics) {
		return config.ExitDiagnosticErrors
	}

	it := interp.New(ctx.Program)
	it.Run("main", stack.New(64))
	if err := runtime.Scheduler().Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "seqc run: strand error: %s\n", err)
		return config.ExitInternalCompiler
	}
	return config.ExitSuccess
}

// handleDefault implements spec.md 6.4's toolchain-fallback rule for a
// bare `seqc <file>` invocation: look for a usable LLVM toolchain (clang
// on PATH) and, absent one, fall back to the interpretive run path,
// logging the fallback. This module has no compiled-runtime object file
// to link the emitted IR against even when clang is present, so for now
// the fallback always fires; the LookPath probe is kept as the documented
// decision point a real toolchain integration would key off of.
func handleDefault(args []string) int {
	if len(args) < 1 {
		printUsage()
		return config.ExitInternalCompiler
	}
	if _, err := exec.LookPath("clang"); err != nil {
		fmt.Fprintln(os.Stderr, "seqc: no LLVM toolchain configured, falling back to interpretive execution (seqc run)")
	} else {
		fmt.Fprintln(os.Stderr, "seqc: clang found but compiled-binary linking is not wired up yet, falling back to interpretive execution (seqc run)")
	}
	return handleRun(args)
}
