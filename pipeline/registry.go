package pipeline

import "sort"

type prioritizedItem[T any] struct {
	name     string
	priority float64
	item     T
}

// Registry is an ordered list of named passes. Passes run in descending
// priority order; equal priorities keep registration order. Registering a
// name that already exists replaces the previous entry.
type Registry[T any] struct {
	items []prioritizedItem[T]
}

// Register adds item under name at the given priority.
func (r *Registry[T]) Register(name string, item T, priority float64) {
	r.Deregister(name)
	r.items = append(r.items, prioritizedItem[T]{name: name, priority: priority, item: item})
	sort.SliceStable(r.items, func(i, j int) bool {
		return r.items[i].priority > r.items[j].priority
	})
}

// Deregister removes the pass registered under name. It reports whether a
// pass was removed.
func (r *Registry[T]) Deregister(name string) bool {
	for i, entry := range r.items {
		if entry.name == name {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether a pass is registered under name.
func (r *Registry[T]) Contains(name string) bool {
	return r.IndexOf(name) >= 0
}

// IndexOf returns the position of name in priority order, or -1.
func (r *Registry[T]) IndexOf(name string) int {
	for i, entry := range r.items {
		if entry.name == name {
			return i
		}
	}
	return -1
}

// PriorityAt returns the priority of the pass at index.
func (r *Registry[T]) PriorityAt(index int) float64 {
	return r.items[index].priority
}

// Len returns the number of registered passes.
func (r *Registry[T]) Len() int {
	return len(r.items)
}

// Items returns the passes in the order they run.
func (r *Registry[T]) Items() []T {
	items := make([]T, len(r.items))
	for i, entry := range r.items {
		items[i] = entry.item
	}
	return items
}
