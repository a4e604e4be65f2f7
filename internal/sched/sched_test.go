package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/seqc/internal/value"
)

func TestChannelSendReceiveRoundTrip(t *testing.T) {
	ch := NewChannel()
	go func() {
		if !ch.Send(value.IntVal(42)) {
			t.Error("expected send to succeed")
		}
	}()
	v, ok := ch.Receive()
	if !ok || v.Int != 42 {
		t.Fatalf("expected (42, true), got (%v, %v)", v, ok)
	}
}

func TestChannelCloseCausesReceiveFailure(t *testing.T) {
	ch := NewChannel()
	ch.Close()
	if ch.Send(value.IntVal(1)) {
		t.Fatalf("expected send on a closed channel to fail")
	}
	_, ok := ch.Receive()
	if ok {
		t.Fatalf("expected receive on a closed, empty channel to fail")
	}
}

func TestChannelExactlyOnceDeliveryAcrossReceivers(t *testing.T) {
	ch := NewChannel()
	const n = 20
	results := make(chan int64, n)
	for i := 0; i < 4; i++ {
		go func() {
			for {
				v, ok := ch.Receive()
				if !ok {
					return
				}
				results <- v.Int
			}
		}()
	}
	for i := int64(0); i < n; i++ {
		ch.Send(value.IntVal(i))
	}
	seen := map[int64]bool{}
	for i := 0; i < n; i++ {
		select {
		case v := <-results:
			if seen[v] {
				t.Fatalf("value %d delivered more than once", v)
			}
			seen[v] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d", i)
		}
	}
}

func TestWeaveResumeYieldRoundTrip(t *testing.T) {
	w := NewWeave()
	go func() {
		v, ok := w.ChildYield(value.IntVal(1))
		if !ok || v.Int != 99 {
			t.Errorf("expected child to receive (99, true), got (%v, %v)", v, ok)
		}
		w.ChildComplete(value.IntVal(2))
	}()

	v, ok := w.Resume()
	if !ok || v.Int != 1 {
		t.Fatalf("expected parent's first resume to get (1, true), got (%v, %v)", v, ok)
	}
	w.toChild <- resumeMsg{val: value.IntVal(99), ok: true}

	v, ok = w.Resume()
	if ok {
		t.Fatalf("expected child completion to report ok=false, got value %v", v)
	}
	if v.Int != 2 {
		t.Fatalf("expected the final value to be delivered alongside ok=false, got %v", v)
	}
}

func TestWeaveCancelUnblocksResume(t *testing.T) {
	w := NewWeave()
	w.Cancel()
	_, ok := w.Resume()
	if ok {
		t.Fatalf("expected a cancelled weave's resume to report ok=false")
	}
}

func TestSchedulerSpawnAndWait(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 1)
	fn := value.QuotationFn(func(stackArg interface{}) {
		ran <- struct{}{}
	})
	s.SpawnStrand(fn, nil, nil)
	if err := s.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-ran:
	default:
		t.Fatalf("expected the spawned strand to have run")
	}
}

func TestCoroutineMutexReentrantLockPanics(t *testing.T) {
	m := newCoroutineMutex()
	m.Lock()
	defer m.Unlock()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a re-entrant lock to panic")
		}
	}()
	m.Lock()
}

func TestChannelIDsAreDistinct(t *testing.T) {
	a, b := NewChannel(), NewChannel()
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestChannelCloseIsIdempotent(t *testing.T) {
	ch := NewChannel()
	ch.Close()
	assert.NotPanics(t, func() { ch.Close() })
}

func TestSchedulerWaitWithNoStrandsReturnsNil(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Wait())
}

func TestSchedulerRunsMultipleStrandsConcurrently(t *testing.T) {
	s := NewScheduler()
	const n = 5
	done := make(chan int, n)
	for i := 0; i < n; i++ {
		i := i
		fn := value.QuotationFn(func(stackArg interface{}) {
			done <- i
		})
		s.SpawnStrand(fn, nil, nil)
	}
	require.NoError(t, s.Wait())
	assert.Len(t, done, n)
}
