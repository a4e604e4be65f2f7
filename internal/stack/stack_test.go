package stack

import (
	"testing"

	"github.com/funvibe/seqc/internal/value"
)

func ints(s *Stack) []int64 {
	snap := s.Snapshot()
	out := make([]int64, len(snap))
	for i, v := range snap {
		out[i] = v.Int
	}
	return out
}

func eq(t *testing.T, got, want []int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("depth mismatch: got %v want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %v want %v", i, got, want)
		}
	}
}

func TestPushPop(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(42))
	v := s.Pop()
	if v.Int != 42 {
		t.Fatalf("expected 42, got %d", v.Int)
	}
	if !s.IsEmpty() {
		t.Fatalf("expected empty stack after pop")
	}
}

func TestMultipleValues(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Push(value.IntVal(3))
	eq(t, ints(s), []int64{1, 2, 3})
}

func TestPeek(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(7))
	if s.Peek().Int != 7 {
		t.Fatalf("peek should not consume")
	}
	if s.Depth() != 1 {
		t.Fatalf("peek should not change depth")
	}
}

func TestDup(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(5))
	s.Dup()
	eq(t, ints(s), []int64{5, 5})
}

func TestDrop(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Drop()
	eq(t, ints(s), []int64{1})
}

func TestSwap(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Swap()
	eq(t, ints(s), []int64{2, 1})
}

func TestOver(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Over()
	eq(t, ints(s), []int64{1, 2, 1})
}

func TestRot(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Push(value.IntVal(3))
	s.Rot()
	eq(t, ints(s), []int64{2, 3, 1})
}

func TestNip(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Nip()
	eq(t, ints(s), []int64{2})
}

func TestTuck(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Tuck()
	eq(t, ints(s), []int64{2, 1, 2})
}

func TestPick0IsDup(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(9))
	s.Pick(0)
	eq(t, ints(s), []int64{9, 9})
}

func TestPick1IsOver(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Pick(1)
	eq(t, ints(s), []int64{1, 2, 1})
}

func TestPickDeep(t *testing.T) {
	s := New(8)
	for i := int64(1); i <= 5; i++ {
		s.Push(value.IntVal(i))
	}
	s.Pick(4) // deepest remaining item is 1
	eq(t, ints(s), []int64{1, 2, 3, 4, 5, 1})
}

func TestRollIsSwapAtOne(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Roll(1)
	eq(t, ints(s), []int64{2, 1})
}

func TestRollZeroIsNoop(t *testing.T) {
	s := New(4)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Roll(0)
	eq(t, ints(s), []int64{1, 2})
}

func TestRollDeep(t *testing.T) {
	s := New(8)
	for i := int64(1); i <= 4; i++ {
		s.Push(value.IntVal(i))
	}
	s.Roll(3) // moves the 1 to the top, shifting 2,3,4 down
	eq(t, ints(s), []int64{2, 3, 4, 1})
}

// The critical shuffle-pattern regression from the original stack test
// suite: "rot swap rot rot swap" must be a fixed, reproducible permutation.
func TestCriticalShufflePattern(t *testing.T) {
	s := New(8)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.Push(value.IntVal(3))
	s.Rot()
	s.Swap()
	s.Rot()
	s.Rot()
	s.Swap()
	eq(t, ints(s), []int64{3, 1, 2})
}

func TestTwoDupAndThreeDrop(t *testing.T) {
	s := New(8)
	s.Push(value.IntVal(1))
	s.Push(value.IntVal(2))
	s.TwoDup()
	eq(t, ints(s), []int64{1, 2, 1, 2})
	s.ThreeDrop()
	eq(t, ints(s), []int64{1})
}

// Testable property #7: push then pop round-trips sp and the value.
func TestPushPopRoundTrip(t *testing.T) {
	s := New(4)
	before := s.Depth()
	v := value.IntVal(123)
	s.Push(v)
	got := s.Pop()
	if s.Depth() != before {
		t.Fatalf("sp did not round-trip: before=%d after=%d", before, s.Depth())
	}
	if got.Int != v.Int {
		t.Fatalf("value did not round-trip: got %d want %d", got.Int, v.Int)
	}
}

func TestCloneWithBasePromotesArenaStrings(t *testing.T) {
	s := New(4)
	arena := value.NewArena()
	s.Push(value.Value{Tag: value.TagString, Str: arena.New("hello")})
	clone := s.CloneWithBase()
	got := clone.Peek()
	if !got.Str.Global {
		t.Fatalf("expected arena string to be promoted to global on stack clone")
	}
	if got.Str.Value() != "hello" {
		t.Fatalf("expected value to survive promotion, got %q", got.Str.Value())
	}
}
