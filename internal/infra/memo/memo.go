// Package memo provides version-tracked cells and lazily recomputed
// derivations over them.
package memo

import "sync"

// Source is anything whose changes can be observed through a version counter.
type Source interface {
	Version() uint64
}

// Cell holds a mutable value. Every write bumps its version.
type Cell[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
}

func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value, version: 1}
}

func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	c.value = value
	c.version++
	c.mu.Unlock()
}

// Update replaces the value with fn(current) atomically.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	c.value = fn(c.value)
	c.version++
	c.mu.Unlock()
}

func (c *Cell[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Computed caches the result of fn and recomputes it on read when any
// dependency reports a version different from the one seen last time.
type Computed[T any] struct {
	mu      sync.Mutex
	fn      func() T
	deps    []Source
	seen    []uint64
	value   T
	valid   bool
	version uint64
}

func NewComputed[T any](fn func() T, deps ...Source) *Computed[T] {
	return &Computed[T]{
		fn:   fn,
		deps: deps,
		seen: make([]uint64, len(deps)),
	}
}

func (c *Computed[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
	return c.value
}

// Version reports the number of recomputations, refreshing first so that a
// dependent computation notices upstream changes.
func (c *Computed[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
	return c.version
}

func (c *Computed[T]) refreshLocked() {
	versions := make([]uint64, len(c.deps))
	stale := !c.valid
	for i, dep := range c.deps {
		versions[i] = dep.Version()
		if versions[i] != c.seen[i] {
			stale = true
		}
	}
	if !stale {
		return
	}
	c.value = c.fn()
	c.seen = versions
	c.valid = true
	c.version++
}
