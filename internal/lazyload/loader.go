// Package lazyload defers construction of heavy modules (the markdown
// renderer, the highlighter) until first use, deduplicating concurrent
// requests so each module is built exactly once.
package lazyload

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// moduleState is the lifecycle of a registered module.
type moduleState int

const (
	stateUnloaded moduleState = iota
	stateLoading
	stateLoaded
)

// LoadFunc builds a module. It runs at most once per successful load.
type LoadFunc func(ctx context.Context) (any, error)

// Handle is the deferred result of a load. Every caller that requested
// the module while it was in flight holds the same handle.
type Handle struct {
	done chan struct{}
	val  any
	err  error
}

// Await blocks until the load completes or ctx is done, and returns the
// module value.
func (h *Handle) Await(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.val, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ready returns a pre-resolved handle.
func ready(val any) *Handle {
	h := &Handle{done: make(chan struct{}), val: val}
	close(h.done)
	return h
}

type module struct {
	state    moduleState
	loadFn   LoadFunc
	inflight *Handle // set while state == stateLoading
	value    any     // set once state == stateLoaded
}

// Loader is a keyed registry of lazily-built modules. All state is
// guarded by a single mutex; the loader itself never blocks a caller —
// callers await the returned handle.
type Loader struct {
	mu      sync.Mutex
	modules map[string]*module
}

// New creates an empty loader.
func New() *Loader {
	return &Loader{modules: make(map[string]*module)}
}

// Register makes a module available under the given name. Registering a
// name twice replaces the load function only if the module has not been
// loaded yet.
func (l *Loader) Register(name string, fn LoadFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.modules[name]
	if !ok {
		l.modules[name] = &module{state: stateUnloaded, loadFn: fn}
		return
	}
	if m.state == stateUnloaded {
		m.loadFn = fn
	}
}

// Load returns a handle for the named module, starting the load if
// nothing is in flight. Concurrent callers receive the same handle; a
// successful load pins the value as the permanent singleton; a failed
// load resets the module so a later call can retry.
func (l *Loader) Load(ctx context.Context, name string) (*Handle, error) {
	l.mu.Lock()
	m, ok := l.modules[name]
	if !ok {
		l.mu.Unlock()
		return nil, fmt.Errorf("lazyload: unknown module %q", name)
	}

	switch m.state {
	case stateLoaded:
		l.mu.Unlock()
		return ready(m.value), nil
	case stateLoading:
		h := m.inflight
		l.mu.Unlock()
		return h, nil
	}

	// Begin the load. The handle is stored before the goroutine starts
	// so every caller arriving before resolution shares it.
	h := &Handle{done: make(chan struct{})}
	m.state = stateLoading
	m.inflight = h
	fn := m.loadFn
	l.mu.Unlock()

	go func() {
		val, err := fn(ctx)

		l.mu.Lock()
		if err != nil {
			// Allow retry from scratch.
			m.state = stateUnloaded
			m.inflight = nil
			log.Printf("lazyload: module %q failed to load: %v", name, err)
		} else {
			m.state = stateLoaded
			m.value = val
			m.inflight = nil
		}
		l.mu.Unlock()

		h.val = val
		h.err = err
		close(h.done)
	}()

	return h, nil
}

// IsLoaded reports whether the named module has finished loading.
func (l *Loader) IsLoaded(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.modules[name]
	return ok && m.state == stateLoaded
}

// Reset drops all loaded values and in-flight markers, returning every
// module to the unloaded state. Intended for tests and the preview
// tooling; in-flight handles still resolve for their awaiters.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.modules {
		m.state = stateUnloaded
		m.inflight = nil
		m.value = nil
	}
}
