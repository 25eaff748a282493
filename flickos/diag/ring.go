// Package diag carries diagnostic lines from the scheduler and its tasks
// to the board's log sink.
//
// The ring is bounded and never blocks the producer: when the sink cannot
// keep up, lines are dropped and counted. Losing diagnostics is never
// fatal to the core.
package diag

import (
	"sync"

	"flick/flickos/internal/textbuf"
	"flick/hal"
)

const ringSlots = 32

// Ring is a bounded queue of diagnostic lines.
type Ring struct {
	mu    sync.Mutex
	head  uint8
	tail  uint8
	slots [ringSlots]textbuf.Line
	drops uint32
}

// NewRing creates an empty diagnostic ring.
func NewRing() *Ring {
	return &Ring{}
}

// Push enqueues a line. It reports false and counts a drop when the ring
// is full.
func (r *Ring) Push(l textbuf.Line) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.head-r.tail >= ringSlots {
		r.drops++
		return false
	}
	r.slots[r.head%ringSlots] = l
	r.head++
	return true
}

// PushString enqueues a literal message.
//
// The message must fit in a textbuf.Line; a longer message is a
// programming error and panics with textbuf.ErrOverflow.
func (r *Ring) PushString(s string) bool {
	l, err := textbuf.Compose(s)
	if err != nil {
		panic(err)
	}
	return r.Push(l)
}

// Pop dequeues the oldest line.
func (r *Ring) Pop() (textbuf.Line, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tail == r.head {
		return textbuf.Line{}, false
	}
	l := r.slots[r.tail%ringSlots]
	r.tail++
	return l, true
}

// Drops returns the number of lines dropped so far.
func (r *Ring) Drops() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.drops
}

// Drain writes all queued lines to log and returns how many were written.
func (r *Ring) Drain(log hal.Logger) int {
	n := 0
	for {
		l, ok := r.Pop()
		if !ok {
			return n
		}
		if log != nil {
			log.WriteLineBytes(l.Bytes())
		}
		n++
	}
}
