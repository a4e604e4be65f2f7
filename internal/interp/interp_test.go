package interp_test

import (
	"testing"

	"github.com/funvibe/seqc/internal/interp"
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/testsource"
	"github.com/funvibe/seqc/internal/value"
)

func TestRunLoopExample(t *testing.T) {
	src := `: loop ( Int -- Int ) dup 0 = if else 1 subtract loop then ;
: main ( -- ) 5 loop drop ;`
	prog, err := testsource.Read("loop.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	it := interp.New(prog)
	s := stack.New(8)
	it.Run("main", s)
	if !s.IsEmpty() {
		t.Fatalf("expected empty stack after main, depth=%d", s.Depth())
	}
}

func TestRunQuotationCall(t *testing.T) {
	src := `: main ( -- ) 3 [ 4 add ] call ;`
	prog, err := testsource.Read("q.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	it := interp.New(prog)
	s := stack.New(8)
	it.Run("main", s)
	top := s.Pop()
	if top.Tag != value.TagInt || top.Int != 7 {
		t.Fatalf("expected Int 7, got %+v", top)
	}
}

func TestRunMatchWithBindings(t *testing.T) {
	src := `union Pair
  Of 2
;
: handle ( -- ) match | Of(a b) -> add end ;`
	prog, err := testsource.Read("m.seq", src)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	it := interp.New(prog)
	s := stack.New(8)
	h := value.NewHandle()
	h.Variant = &value.VariantData{Tag: "Of", Fields: []value.Value{value.IntVal(1), value.IntVal(2)}}
	s.Push(value.Value{Tag: value.TagVariant, Heap: h})
	it.Run("handle", s)
	top := s.Pop()
	if top.Tag != value.TagInt || top.Int != 3 {
		t.Fatalf("expected Int 3, got %+v", top)
	}
}
