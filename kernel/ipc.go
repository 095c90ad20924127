package kernel

import "sync/atomic"

const mailboxSlots = 8

// Mailbox is a fixed-size single-producer, single-consumer queue.
// It never allocates and never blocks: TrySend reports a full queue and
// TryRecv an empty one.
type Mailbox[T any] struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots [mailboxSlots]T
}

// TrySend enqueues v, returning false if the mailbox is full.
// Only one goroutine may send.
func (mb *Mailbox[T]) TrySend(v T) bool {
	head := mb.head.Load()
	tail := mb.tail.Load()
	if head-tail >= mailboxSlots {
		return false
	}

	mb.slots[head%mailboxSlots] = v
	// Publish the slot only after it is written.
	mb.head.Store(head + 1)
	return true
}

// TryRecv dequeues one value, returning false if empty.
// Only one goroutine may receive.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	tail := mb.tail.Load()
	head := mb.head.Load()
	if tail == head {
		var zero T
		return zero, false
	}

	v := mb.slots[tail%mailboxSlots]
	mb.tail.Store(tail + 1)
	return v, true
}

// Drain receives every queued value, calling fn for each in FIFO order, and
// returns how many were received.
func (mb *Mailbox[T]) Drain(fn func(T)) int {
	n := 0
	for {
		v, ok := mb.TryRecv()
		if !ok {
			return n
		}
		n++
		if fn != nil {
			fn(v)
		}
	}
}

// Len returns the number of queued values.
func (mb *Mailbox[T]) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}

// Cap returns the mailbox capacity.
func (mb *Mailbox[T]) Cap() int { return mailboxSlots }
