package domain

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Continuation delivers the eventual result of an async host call back to
// the suspended program. Implementations must tolerate being called after
// the run was cancelled; the engine discards late results.
type Continuation func(result any)

// SyncFunc is a host function that produces its result before returning.
// The program resumes immediately with the returned value.
type SyncFunc func(ctx context.Context, args []any) (any, error)

// AsyncFunc is a host function that completes later. The implementation
// arranges for resume to be called once with the result; the program stays
// suspended until then.
type AsyncFunc func(ctx context.Context, args []any, resume Continuation) error

// APITable is the explicit set of host functions a program may call. Nothing
// outside the table is reachable from the sandbox. The zero value is not
// usable; create tables with NewAPITable.
type APITable struct {
	mu    sync.RWMutex
	sync  map[string]SyncFunc
	async map[string]AsyncFunc
}

// NewAPITable creates an empty table.
func NewAPITable() *APITable {
	return &APITable{
		sync:  make(map[string]SyncFunc),
		async: make(map[string]AsyncFunc),
	}
}

// RegisterSync exposes a synchronous host function under name.
// Registering a name twice overwrites the previous binding.
func (t *APITable) RegisterSync(name string, fn SyncFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.async, name)
	t.sync[name] = fn
}

// RegisterAsync exposes an asynchronous host function under name.
func (t *APITable) RegisterAsync(name string, fn AsyncFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sync, name)
	t.async[name] = fn
}

// Sync looks up a synchronous binding.
func (t *APITable) Sync(name string) (SyncFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.sync[name]
	return fn, ok
}

// Async looks up an asynchronous binding.
func (t *APITable) Async(name string) (AsyncFunc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn, ok := t.async[name]
	return fn, ok
}

// Has reports whether name is bound, regardless of kind.
func (t *APITable) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, s := t.sync[name]
	_, a := t.async[name]
	return s || a
}

// Names returns every bound name, sorted.
func (t *APITable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.sync)+len(t.async))
	for n := range t.sync {
		names = append(names, n)
	}
	for n := range t.async {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every required name is bound. It fails on the first
// missing binding so a broken program is rejected before it starts.
func (t *APITable) Validate(required []string) error {
	for _, name := range required {
		if !t.Has(name) {
			return fmt.Errorf("%w: %s", ErrMissingBinding, name)
		}
	}
	return nil
}
