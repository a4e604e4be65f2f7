package sched

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/petermattis/goid"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/seqc/internal/value"
)

// Scheduler supervises the strand pool. Unlike original_source's May-based
// runtime, which must hand-schedule a fixed number of worker OS threads
// over many cooperative strands, this reference runtime lets each strand
// be its own goroutine — Go's own scheduler already provides the M:N
// multiplexing spec.md 4.4 asks for, so Scheduler's job narrows to
// bookkeeping (live strand count, first-panic propagation, clean
// shutdown) rather than cooperative run-queue management.
type Scheduler struct {
	group   *errgroup.Group
	stdout  *coroutineMutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{group: &errgroup.Group{}, stdout: newCoroutineMutex()}
}

// SpawnStrand implements strand.spawn: ( stackClone quotation-or-closure
// -- id ). It registers fn/env in the spawn-closure registry (matching
// quotations.rs's trampoline design so a spawned strand retrieves its own
// closure data rather than having it passed as a typed Go closure
// argument, keeping the Go runtime's spawn path shaped like the call
// convention codegen will eventually emit), then starts the strand as a
// goroutine supervised by the scheduler's errgroup.
//
// stackClone is the child's already-cloned stack (via stack.CloneWithBase,
// performed by the caller before calling SpawnStrand — internal/sched does
// not import internal/stack to avoid a dependency cycle with
// internal/runtime, which sits between the two).
func (s *Scheduler) SpawnStrand(fn value.QuotationFn, env []value.Value, stackClone interface{}) string {
	spawnID := registerSpawn(fn, env)
	guard := newSpawnRegistryGuard(spawnID)

	s.group.Go(func() (err error) {
		defer guard.release()
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("strand %s: panic: %v", spawnID, r)
			}
		}()
		entry, ok := takeSpawn(spawnID)
		if !ok {
			return fmt.Errorf("strand %s: spawn registry entry missing", spawnID)
		}
		guard.disarm()
		entry.fn(stackClone)
		return nil
	})

	return spawnID
}

// Wait blocks until every spawned strand has completed, returning the
// first error/panic any strand's goroutine returned (errgroup semantics),
// matching original_source's wait_all_strands test helper.
func (s *Scheduler) Wait() error { return s.group.Wait() }

// Stdout returns the scheduler-wide coroutine-aware stdout mutex (spec.md
// 5: "stdout writes are serialised by a coroutine-aware mutex").
func (s *Scheduler) Stdout() *coroutineMutex { return s.stdout }

// coroutineMutex serialises stdout writes across strands. It is a plain
// sync.Mutex functionally (Go's goroutines already cooperatively yield on
// contention, unlike an OS-thread mutex), but additionally uses
// petermattis/goid to detect same-goroutine re-entrant Lock calls and
// report them as a diagnostic rather than silently deadlocking — useful
// since a strand that recursively calls io.write-line through nested
// quotation invocation would otherwise hang with no indication why.
type coroutineMutex struct {
	mu      sync.Mutex
	holder  int64
	holding bool
}

func newCoroutineMutex() *coroutineMutex { return &coroutineMutex{} }

func (m *coroutineMutex) Lock() {
	gid := goid.Get()
	if m.holding && m.holder == gid {
		panic(fmt.Sprintf("stdout mutex: goroutine %d attempted a re-entrant lock", gid))
	}
	m.mu.Lock()
	m.holder = gid
	m.holding = true
}

func (m *coroutineMutex) Unlock() {
	m.holding = false
	m.mu.Unlock()
}

// WeaveSpawnID is a convenience UUID generator shared by strand.weave's
// caller, kept here rather than in weave.go since it is only needed at the
// scheduler boundary where a weave is first handed to a spawned child.
func WeaveSpawnID() string { return uuid.NewString() }
