// Package sweep holds the button-triggered animation tasks: five frames
// sweeping a full line of LEDs across the matrix.
package sweep

import (
	"time"

	"flick/flickos/diag"
	"flick/flickos/kernel"
	"flick/hal"
)

// Fill selects the sweep orientation. The coordinate order is a fixture:
// channel A sweeps columns, channel B sweeps rows.
type Fill uint8

const (
	Columns Fill = iota
	Rows
)

// FrameDuration is the per-frame display period.
const FrameDuration = 400 * time.Millisecond

// Task renders one sweep per activation: frame i lights line i in full,
// cleared before the next frame.
type Task struct {
	fill    Fill
	prefix  string
	display *kernel.Resource[hal.Matrix]
	timer   *kernel.Resource[hal.Timer]
	ring    *diag.Ring
	frame   time.Duration

	count uint32
}

// New creates a sweep task. prefix is the count-message prefix logged on
// each activation ("Task A count: ").
func New(fill Fill, prefix string, display *kernel.Resource[hal.Matrix], timer *kernel.Resource[hal.Timer], ring *diag.Ring) *Task {
	return &Task{
		fill:    fill,
		prefix:  prefix,
		display: display,
		timer:   timer,
		ring:    ring,
		frame:   FrameDuration,
	}
}

// SetFrameDuration overrides the frame period. Test hook.
func (s *Task) SetFrameDuration(d time.Duration) { s.frame = d }

// Count returns the task invocation count.
func (s *Task) Count() uint32 { return s.count }

func (s *Task) Run(c *kernel.Context) {
	s.count++
	s.ring.Push(diag.Count(s.prefix, s.count))

	for i := 0; i < hal.MatrixSize; i++ {
		var g hal.Grid
		for j := 0; j < hal.MatrixSize; j++ {
			if s.fill == Columns {
				g[j][i] = true
			} else {
				g[i][j] = true
			}
		}

		kernel.Lock2(c, s.display, s.timer, func(m hal.Matrix, t hal.Timer) {
			m.Show(t, g, s.frame)
		})

		// Yield point between frames: strictly-higher-priority work runs
		// here, outside the locked section.
		c.Poll()
	}
}
