// Package rulelist provides the persistent, append-only storage backing
// schema rule and branch lists. Append is O(1) and never copies or mutates,
// so every earlier holder of a list keeps its original contents; the flat
// execution slice is built lazily on first use and cached per node.
package rulelist

import "sync"

type node[E any] struct {
	elem E
	prev *node[E]
	n    int // length of the list ending at this node

	once sync.Once
	flat []E
}

// List is an immutable ordered collection. The zero value is the empty list.
// Lists are safe for concurrent use: append creates new nodes only, and the
// flatten cache is guarded by sync.Once.
type List[E any] struct {
	tail *node[E]
}

// Append returns a new list with e at the end. The receiver is unchanged and
// keeps sharing its nodes with the result.
func (l List[E]) Append(e E) List[E] {
	n := 1
	if l.tail != nil {
		n = l.tail.n + 1
	}
	return List[E]{tail: &node[E]{elem: e, prev: l.tail, n: n}}
}

// Len returns the number of elements.
func (l List[E]) Len() int {
	if l.tail == nil {
		return 0
	}
	return l.tail.n
}

// Items returns the elements in insertion order. The slice is built by one
// walk on first use and cached on the tail node; callers must not modify it.
func (l List[E]) Items() []E {
	t := l.tail
	if t == nil {
		return nil
	}
	t.once.Do(func() {
		out := make([]E, t.n)
		for nd := t; nd != nil; nd = nd.prev {
			out[nd.n-1] = nd.elem
		}
		t.flat = out
	})
	return t.flat
}
