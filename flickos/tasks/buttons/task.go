// Package buttons is the interrupt handler task: it translates the shared
// button interrupt into per-channel software task activations.
package buttons

import (
	"flick/flickos/diag"
	"flick/flickos/internal/textbuf"
	"flick/flickos/kernel"
	"flick/hal"
)

// ChannelBinding maps one edge-detect channel to the task it activates.
type ChannelBinding struct {
	Name string // "A", "B"
	Task kernel.TaskID
}

// Task decodes which channels fired, clears each event exactly once, and
// spawns the bound task. It runs at the highest priority, never blocks,
// and never touches the display or timer: only event inspection and slot
// bookkeeping, so its execution time stays bounded.
type Task struct {
	chans *kernel.Resource[[]hal.Button]
	bind  []ChannelBinding
	ring  *diag.Ring

	invocations uint32
}

// New creates the handler. bind[i] corresponds to channel i of the locked
// button set.
func New(chans *kernel.Resource[[]hal.Button], bind []ChannelBinding, ring *diag.Ring) *Task {
	return &Task{chans: chans, bind: bind, ring: ring}
}

// Invocations returns the total handler invocation count.
func (t *Task) Invocations() uint32 { return t.invocations }

func (t *Task) Run(c *kernel.Context) {
	t.invocations++
	t.ring.Push(diag.Count("button pressed count: ", t.invocations))

	kernel.Lock(c, t.chans, func(bs []hal.Button) {
		for i, b := range bs {
			if i >= len(t.bind) {
				break
			}
			if !b.Triggered() {
				continue
			}

			l, err := textbuf.Compose("Button ", t.bind[i].Name, " pressed")
			if err != nil {
				panic(err)
			}
			t.ring.Push(l)

			b.Clear()
			if res := c.Spawn(t.bind[i].Task); res != kernel.SpawnOK {
				// Slot occupied: the event is dropped, never merged
				// into the running instance.
				t.ring.PushString("failed to spawn task!")
			}
		}
	})
}
