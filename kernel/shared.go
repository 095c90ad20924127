package kernel

import "sync/atomic"

// Latest publishes immutable values from one writer to any number of readers.
//
// Store swaps in a fully built value; readers see either the previous value or
// the new one, never a partial one, and never block. Values must not be
// mutated after Store.
type Latest[T any] struct {
	cur atomic.Pointer[published[T]]
	seq atomic.Uint64
}

type published[T any] struct {
	v   *T
	seq uint64
}

// Store publishes v and returns its sequence number (1 for the first value).
func (l *Latest[T]) Store(v *T) uint64 {
	seq := l.seq.Add(1)
	l.cur.Store(&published[T]{v: v, seq: seq})
	return seq
}

// Load returns the current value, or nil if nothing was published.
func (l *Latest[T]) Load() *T {
	v, _ := l.LoadSeq()
	return v
}

// LoadSeq returns the current value together with its sequence number.
// The sequence is 0 while nothing was published.
func (l *Latest[T]) LoadSeq() (*T, uint64) {
	p := l.cur.Load()
	if p == nil {
		return nil, 0
	}
	return p.v, p.seq
}
