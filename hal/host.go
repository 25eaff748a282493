//go:build !tinygo

package hal

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-colorable"
)

type hostHAL struct {
	logger *hostLogger
	mat    *hostMatrix
	t      *hostTimer
	btns   []*hostButton
}

// New returns a simulated board: two button channels, an in-memory
// matrix, and a stdout log sink.
func New() HAL {
	h := &hostHAL{
		logger: &hostLogger{w: colorable.NewColorableStdout()},
		mat:    &hostMatrix{},
		t:      &hostTimer{},
		btns: []*hostButton{
			{name: "A"},
			{name: "B"},
		},
	}
	return h
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) Matrix() Matrix { return h.mat }
func (h *hostHAL) Timer() Timer   { return h.t }

func (h *hostHAL) Button(ch int) Button {
	if ch < 0 || ch >= len(h.btns) {
		return nil
	}
	return h.btns[ch]
}

func (h *hostHAL) ButtonCount() int { return len(h.btns) }

// SetPollHook installs the scheduling point the timer hits while a frame
// period elapses. Wiring-time only.
func (h *hostHAL) SetPollHook(fn func()) { h.t.poll = fn }

// SetRaiseIRQ installs the simulated interrupt line shared by all button
// channels. Wiring-time only.
func (h *hostHAL) SetRaiseIRQ(fn func()) {
	for _, b := range h.btns {
		b.raise = fn
	}
}

// Edge injects a falling edge on a channel (keyboard 'a'/'b' on host).
func (h *hostHAL) Edge(ch int) {
	if ch < 0 || ch >= len(h.btns) {
		return
	}
	h.btns[ch].Edge()
}

// Snapshot returns the most recently shown frame, for the window renderer.
func (h *hostHAL) Snapshot() Grid { return h.mat.Snapshot() }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, s)
	l.w.Write([]byte{'\n'})
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostMatrix struct {
	mu sync.Mutex
	g  Grid
}

func (m *hostMatrix) Show(t Timer, g Grid, d time.Duration) {
	m.mu.Lock()
	m.g = g
	m.mu.Unlock()
	if t != nil {
		t.Delay(d)
	}
}

func (m *hostMatrix) Snapshot() Grid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.g
}

// hostTimer sleeps in short slices and hits the poll hook between them,
// so pended interrupts are serviced while a frame period elapses.
type hostTimer struct {
	poll func()
	now  func() time.Time // injected clock for tests
}

func (t *hostTimer) Delay(d time.Duration) {
	const slice = 4 * time.Millisecond

	now := t.now
	if now == nil {
		now = time.Now
	}
	deadline := now().Add(d)

	for {
		if t.poll != nil {
			t.poll()
		}
		remain := deadline.Sub(now())
		if remain <= 0 {
			return
		}
		if remain > slice {
			remain = slice
		}
		time.Sleep(remain)
	}
}

type hostButton struct {
	name  string
	trig  atomic.Bool
	raise func()
}

// Edge latches the triggered flag and raises the shared interrupt line.
// Safe from any goroutine.
func (b *hostButton) Edge() {
	b.trig.Store(true)
	if b.raise != nil {
		b.raise()
	}
}

func (b *hostButton) Triggered() bool { return b.trig.Load() }
func (b *hostButton) Clear()          { b.trig.Store(false) }
