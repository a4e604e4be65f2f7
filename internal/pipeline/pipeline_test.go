package pipeline_test

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/funvibe/seqc/internal/codegen/tagged"
	"github.com/funvibe/seqc/internal/diag"
	"github.com/funvibe/seqc/internal/interp"
	"github.com/funvibe/seqc/internal/pipeline"
	"github.com/funvibe/seqc/internal/sched"
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/testsource"
	"github.com/funvibe/seqc/internal/value"
)

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	lintStage, err := pipeline.NewLintProcessor()
	if err != nil {
		t.Fatalf("NewLintProcessor: %v", err)
	}
	return pipeline.New(
		pipeline.NewInferProcessor(),
		lintStage,
		&pipeline.ResourceProcessor{},
		&pipeline.CodegenProcessor{Emitter: tagged.New()},
	)
}

func hasDiag(ds []*diag.Diagnostic, id string) bool {
	for _, d := range ds {
		if d.ID == id {
			return true
		}
	}
	return false
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written to it. Needed because io.write-line (internal/runtime
// io_ops.go) writes to os.Stdout directly rather than through an injectable
// writer, matching original_source's process-global stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	old := os.Stdout
	os.Stdout = w
	done := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()
	fn()
	w.Close()
	os.Stdout = old
	return <-done
}

// E1: arithmetic inline composition. Source matches spec's worked example
// with int->string made explicit, since io.write-line's declared effect
// (infer/builtins.go) takes a String, not an Int — the literal spec source
// relies on an implicit numeric-to-string coercion this type system does
// not perform.
func TestE1ArithmeticInlineComposition(t *testing.T) {
	src := `: main ( -- ) 3 4 add int->string io.write-line ;`
	prog, err := testsource.Read("e1.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ctx := newPipeline(t).Run(&pipeline.Context{File: "e1.seq", Program: prog})
	if diag.AnyFatal(ctx.Diagnostics) {
		t.Fatalf("unexpected fatal diagnostics: %v", ctx.Diagnostics)
	}
	if ctx.IR == "" {
		t.Fatalf("expected non-empty emitted IR")
	}

	out := captureStdout(t, func() {
		interp.New(prog).Run("main", stack.New(8))
	})
	if out != "7\n" {
		t.Fatalf("expected stdout %q, got %q", "7\n", out)
	}
}

// E2: tail recursion. The interpretive path inlines a sibling word's body
// through ordinary Go call recursion (internal/interp's execWordCall), so
// it has no constant-stack-space guarantee of its own — that property is
// codegen's (spec.md 4.2's musttail convention). This test exercises a
// depth well within the interpreter's comfortable recursion budget and
// checks the pipeline accepts the program and infers it without error;
// the constant-stack-space property itself belongs to internal/codegen's
// own tail-call tests (codegen_test.go's tailcc-emission assertions).
func TestE2TailRecursionTypechecksAndRuns(t *testing.T) {
	src := `: loop ( Int -- Int ) dup 0 = if else 1 subtract loop then ;
: main ( -- ) 2000 loop drop ;`
	prog, err := testsource.Read("e2.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ctx := newPipeline(t).Run(&pipeline.Context{File: "e2.seq", Program: prog})
	if diag.AnyFatal(ctx.Diagnostics) {
		t.Fatalf("unexpected fatal diagnostics: %v", ctx.Diagnostics)
	}
	if _, ok := ctx.Effects["loop"]; !ok {
		t.Fatalf("expected an inferred effect for loop, got %v", ctx.Effects)
	}

	s := stack.New(8)
	interp.New(prog).Run("main", s)
	if !s.IsEmpty() {
		t.Fatalf("expected empty stack after main, depth=%d", s.Depth())
	}
}

// E3: channel fan-out. Expressing multi-strand orchestration (a sender
// plus three counting receivers, synchronized back to the test) in
// testsource's grammar would need closures the reader does not support,
// so this drives internal/sched's Channel/goroutine primitives directly —
// the same exactly-once delivery contract internal/sched's own
// TestChannelExactlyOnceDeliveryAcrossReceivers exercises, extended here
// to check the fan-out distribution and close-propagation properties
// spec.md's scenario names explicitly.
func TestE3ChannelFanOut(t *testing.T) {
	ch := sched.NewChannel()
	const total = 100
	const receivers = 3

	var wg sync.WaitGroup
	counts := make([]int, receivers)
	wg.Add(receivers)
	for i := 0; i < receivers; i++ {
		go func(idx int) {
			defer wg.Done()
			for {
				if _, ok := ch.Receive(); !ok {
					return
				}
				counts[idx]++
			}
		}(i)
	}

	for i := 0; i < total; i++ {
		if !ch.Send(value.IntVal(int64(i))) {
			t.Fatalf("send %d failed before close", i)
		}
	}
	ch.Close()
	wg.Wait()

	sum := 0
	for _, c := range counts {
		sum += c
		if c == total {
			t.Fatalf("a single receiver received all %d messages, expected fan-out", total)
		}
	}
	if sum != total {
		t.Fatalf("expected counts to sum to %d, got %d (%v)", total, sum, counts)
	}

	if _, ok := ch.Receive(); ok {
		t.Fatalf("expected receive after close to fail")
	}
}

// E4: resource-leak detection.
func TestE4ResourceLeakDetection(t *testing.T) {
	src := `: bad ( -- ) chan.make drop ;`
	prog, err := testsource.Read("e4.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ctx := newPipeline(t).Run(&pipeline.Context{File: "e4.seq", Program: prog})
	if !hasDiag(ctx.Diagnostics, "resource-leak-channel") {
		t.Fatalf("expected resource-leak-channel, got %v", ctx.Diagnostics)
	}
}

// E5: branch-inconsistent cleanup.
func TestE5BranchInconsistentCleanup(t *testing.T) {
	src := `: bad ( -- )
  chan.make
  true if chan.close else drop then ;`
	prog, err := testsource.Read("e5.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ctx := newPipeline(t).Run(&pipeline.Context{File: "e5.seq", Program: prog})
	if !hasDiag(ctx.Diagnostics, "resource-branch-inconsistent") && !hasDiag(ctx.Diagnostics, "resource-leak-channel") {
		t.Fatalf("expected resource-branch-inconsistent or resource-leak-channel, got %v", ctx.Diagnostics)
	}
}

// E6: string split.
func TestE6StringSplit(t *testing.T) {
	src := `: main ( -- ) "a,b,c" "," string.split variant.field-count int->string io.write-line ;`
	prog, err := testsource.Read("e6.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	ctx := newPipeline(t).Run(&pipeline.Context{File: "e6.seq", Program: prog})
	if diag.AnyFatal(ctx.Diagnostics) {
		t.Fatalf("unexpected fatal diagnostics: %v", ctx.Diagnostics)
	}

	out := captureStdout(t, func() {
		interp.New(prog).Run("main", stack.New(8))
	})
	if out != "3\n" {
		t.Fatalf("expected stdout %q, got %q", "3\n", out)
	}
}
