// Package ringidle is the idle loop: the lowest-priority activity, an
// unbounded ring animation that runs whenever nothing else is runnable.
package ringidle

import (
	"time"

	"flick/flickos/diag"
	"flick/flickos/internal/textbuf"
	"flick/flickos/kernel"
	"flick/hal"
)

// FrameDuration is the per-step display period.
const FrameDuration = 250 * time.Millisecond

// Steps is the 8-position traversal, (row, col) per step. The order is a
// fixture; do not re-derive it.
var Steps = [8][2]int{
	{1, 1}, {1, 2}, {1, 3}, {2, 3}, {3, 3}, {3, 2}, {3, 1}, {2, 1},
}

// Task draws one lit cell per step, clearing it before the next, and
// counts a cycle per full traversal. Run never returns; if it did, the
// device would have no further defined behavior.
type Task struct {
	display *kernel.Resource[hal.Matrix]
	timer   *kernel.Resource[hal.Timer]
	ring    *diag.Ring
	frame   time.Duration

	cycles uint32
}

// New creates the idle task.
func New(display *kernel.Resource[hal.Matrix], timer *kernel.Resource[hal.Timer], ring *diag.Ring) *Task {
	return &Task{display: display, timer: timer, ring: ring, frame: FrameDuration}
}

// SetFrameDuration overrides the frame period. Test hook.
func (t *Task) SetFrameDuration(d time.Duration) { t.frame = d }

// Cycles returns the idle-cycle count.
func (t *Task) Cycles() uint32 { return t.cycles }

func (t *Task) Run(c *kernel.Context) {
	t.ring.PushString("idling...")

	// The key is write-once shared state, read without locking.
	l, err := textbuf.Compose("The key is: ", c.Key())
	if err != nil {
		panic(err)
	}
	t.ring.Push(l)

	for {
		for _, step := range Steps {
			var g hal.Grid
			g[step[0]][step[1]] = true

			kernel.Lock(c, t.display, func(m hal.Matrix) {
				kernel.Lock(c, t.timer, func(tm hal.Timer) {
					m.Show(tm, g, t.frame)
				})
			})

			c.Poll()
		}
		t.cycles++
		t.ring.Push(diag.Count("Idle count: ", t.cycles))
	}
}
