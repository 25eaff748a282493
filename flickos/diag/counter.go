package diag

import "flick/flickos/internal/textbuf"

// Count formats "<prefix><v>" for invocation and cycle counters.
//
// Overflow of the fixed line capacity is a programming-contract violation
// and panics with textbuf.ErrOverflow; the scheduler's panic policy decides
// whether that aborts the task or halts the device.
func Count(prefix string, v uint32) textbuf.Line {
	l, err := textbuf.Compose(prefix)
	if err != nil {
		panic(err)
	}
	n := textbuf.Uint(v)
	if err := l.AppendLine(&n); err != nil {
		panic(err)
	}
	return l
}
