package sched

import (
	"sync"

	"github.com/google/uuid"

	"github.com/funvibe/seqc/internal/value"
)

// closureEntry mirrors original_source's ClosureEntry: a word body to run
// plus the captured environment it closes over. fn is the Go-runtime
// stand-in for the Rust (fn_ptr, env) pair — codegen/runtime wiring binds
// fn to the quotation's Wrapper at spawn time.
type closureEntry struct {
	fn  value.QuotationFn
	env []value.Value
}

// spawnRegistry is the mutex-guarded equivalent of quotations.rs's
// SPAWN_CLOSURE_REGISTRY: a global map from spawn ID to the closure data a
// newly-started strand goroutine retrieves before running. Existing as a
// registry (rather than passing the closure directly to the new goroutine)
// matches the original's own rationale: the spawn operation is
// transactional, and a guard must be able to clean up the environment if
// the child never starts.
var spawnRegistry = struct {
	mu      sync.Mutex
	entries map[string]closureEntry
}{entries: map[string]closureEntry{}}

// registerSpawn stores a closure for retrieval by its trampoline goroutine
// and returns the spawn ID.
func registerSpawn(fn value.QuotationFn, env []value.Value) string {
	id := uuid.NewString()
	spawnRegistry.mu.Lock()
	spawnRegistry.entries[id] = closureEntry{fn: fn, env: env}
	spawnRegistry.mu.Unlock()
	return id
}

// takeSpawn removes and returns the closure registered under id.
func takeSpawn(id string) (closureEntry, bool) {
	spawnRegistry.mu.Lock()
	defer spawnRegistry.mu.Unlock()
	e, ok := spawnRegistry.entries[id]
	if ok {
		delete(spawnRegistry.entries, id)
	}
	return e, ok
}

// spawnRegistryGuard is the RAII-guard equivalent of SpawnRegistryGuard:
// cleans up a registered closure if the child strand's goroutine never
// reaches the point where it would otherwise call takeSpawn itself (e.g.
// the scheduler's worker pool is shutting down before the goroutine runs).
type spawnRegistryGuard struct {
	id      string
	armed   bool
}

func newSpawnRegistryGuard(id string) *spawnRegistryGuard {
	return &spawnRegistryGuard{id: id, armed: true}
}

// disarm marks that the strand successfully started and will retrieve its
// own closure, so Release should not also clean it up.
func (g *spawnRegistryGuard) disarm() { g.armed = false }

// release is the guard's Drop equivalent, called via defer at every exit
// path of spawnStrand.
func (g *spawnRegistryGuard) release() {
	if !g.armed {
		return
	}
	spawnRegistry.mu.Lock()
	delete(spawnRegistry.entries, g.id)
	spawnRegistry.mu.Unlock()
}
