package runtime

import "sync"

// extBuiltinsRegistry is a global registry for ffi: module builtins,
// grounded on internal/evaluator/ext_registry.go's extBuiltinsRegistry:
// same name→map[string]Object-of-builtins shape, translated to
// name→map[string]Primitive here since an ffi: module contributes
// primitive words rather than evaluator objects. Registration happens
// once at startup (by a host binary's init() before running any
// program), reads happen from every Interpreter built afterward.
var extBuiltinsRegistry = struct {
	mu       sync.RWMutex
	registry map[string]map[string]Primitive
}{
	registry: make(map[string]map[string]Primitive),
}

// RegisterExtBuiltins registers the primitive words an `ffi:name` include
// resolves to. name is the module name as written after the "ffi:"
// prefix (internal/include's FfiInclude.Name); builtins maps each
// primitive's full dotted word name (e.g. "redis.get") to its
// implementation.
func RegisterExtBuiltins(name string, builtins map[string]Primitive) {
	extBuiltinsRegistry.mu.Lock()
	defer extBuiltinsRegistry.mu.Unlock()
	extBuiltinsRegistry.registry[name] = builtins
}

// GetExtBuiltins returns the registered builtins for an ffi: module, or
// nil if nothing registered under that name.
func GetExtBuiltins(name string) map[string]Primitive {
	extBuiltinsRegistry.mu.RLock()
	defer extBuiltinsRegistry.mu.RUnlock()
	return extBuiltinsRegistry.registry[name]
}

// IsExtModuleRegistered reports whether name has registered builtins.
func IsExtModuleRegistered(name string) bool {
	extBuiltinsRegistry.mu.RLock()
	defer extBuiltinsRegistry.mu.RUnlock()
	_, ok := extBuiltinsRegistry.registry[name]
	return ok
}

// ClearExtBuiltins removes every registered ffi: module. Used for test
// isolation between cases that register their own fake modules.
func ClearExtBuiltins() {
	extBuiltinsRegistry.mu.Lock()
	defer extBuiltinsRegistry.mu.Unlock()
	extBuiltinsRegistry.registry = make(map[string]map[string]Primitive)
}
