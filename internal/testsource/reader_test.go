package testsource

import "testing"

func TestReadLoopExample(t *testing.T) {
	src := `: loop ( Int -- Int ) dup 0 = if else 1 subtract loop then ;
: main ( -- ) 1000000 loop drop ;`
	prog, err := Read("loop.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(prog.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(prog.Words))
	}
	if prog.Words[0].Name != "loop" || prog.Words[1].Name != "main" {
		t.Fatalf("unexpected word names: %+v", prog.Words)
	}
	if prog.Words[0].DeclaredEffect == nil || prog.Words[0].DeclaredEffect.RowIn != "a" {
		t.Fatalf("expected row variable a in loop's effect, got %+v", prog.Words[0].DeclaredEffect)
	}
}

func TestReadIncludesAndUnion(t *testing.T) {
	src := `include std:io
include "helpers.seq"
include ffi:native
union Option
  Some 1
  None 0
;
: main ( -- ) ;`
	prog, err := Read("prog.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(prog.Includes) != 3 {
		t.Fatalf("expected 3 includes, got %d", len(prog.Includes))
	}
	if len(prog.Unions) != 1 || len(prog.Unions[0].Constructors) != 2 {
		t.Fatalf("expected one union with two constructors, got %+v", prog.Unions)
	}
}

func TestReadQuotationAndMatch(t *testing.T) {
	src := `: apply-one ( -- )
  [ 1 add ] call
  match
  | Some(x) -> x
  | None -> 0
  end
;`
	prog, err := Read("q.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(prog.Words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(prog.Words))
	}
	if len(prog.Words[0].Body) != 3 {
		t.Fatalf("expected 3 statements (quotation, call, match), got %d: %+v",
			len(prog.Words[0].Body), prog.Words[0].Body)
	}
}

func TestReadLintAllowAnnotation(t *testing.T) {
	src := `# seq:allow(redundant-dup-drop, prefer-nip)
: noisy ( -- ) dup drop ;`
	prog, err := Read("allow.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(prog.Words) != 1 || len(prog.Words[0].AllowedLints) != 2 {
		t.Fatalf("expected one word with two allowed lint ids, got %+v", prog.Words)
	}
}
