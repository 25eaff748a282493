package sweep

import (
	"testing"
	"time"

	"flick/flickos/diag"
	"flick/flickos/kernel"
	"flick/hal"
)

type fakeMatrix struct {
	frames []hal.Grid
	onShow func()
}

func (m *fakeMatrix) Show(t hal.Timer, g hal.Grid, d time.Duration) {
	m.frames = append(m.frames, g)
	if m.onShow != nil {
		m.onShow()
	}
	if t != nil {
		t.Delay(d)
	}
}

type fakeTimer struct {
	delays []time.Duration
}

func (t *fakeTimer) Delay(d time.Duration) { t.delays = append(t.delays, d) }

func lineGrid(fill Fill, i int) hal.Grid {
	var g hal.Grid
	for j := 0; j < hal.MatrixSize; j++ {
		if fill == Columns {
			g[j][i] = true
		} else {
			g[i][j] = true
		}
	}
	return g
}

func runSweep(t *testing.T, fill Fill) (*fakeMatrix, *fakeTimer, []string) {
	t.Helper()

	k := kernel.New()
	ring := diag.NewRing()
	fm := &fakeMatrix{}
	ft := &fakeTimer{}

	display := kernel.NewResource[hal.Matrix]("display", fm)
	timer := kernel.NewResource[hal.Timer]("timer", ft)

	task := New(fill, "Task A count: ", display, timer, ring)
	id, err := k.AddTask("button_a_action", 1, task)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := k.BindResources([]kernel.Binding{
		{Resource: display, Tasks: []kernel.TaskID{id}},
		{Resource: timer, Tasks: []kernel.TaskID{id}},
	}); err != nil {
		t.Fatalf("BindResources: %v", err)
	}

	fm.onShow = func() {
		if !display.Held() || !timer.Held() {
			t.Error("expected display and timer locked during Show")
		}
	}

	if res := k.Spawn(id); res != kernel.SpawnOK {
		t.Fatalf("expected SpawnOK, got %s", res)
	}
	k.Dispatch()

	var lines []string
	for {
		l, ok := ring.Pop()
		if !ok {
			break
		}
		lines = append(lines, l.String())
	}
	return fm, ft, lines
}

func TestColumnSweepFrames(t *testing.T) {
	fm, ft, lines := runSweep(t, Columns)

	if len(fm.frames) != hal.MatrixSize {
		t.Fatalf("expected %d frames, got %d", hal.MatrixSize, len(fm.frames))
	}
	for i, g := range fm.frames {
		if g != lineGrid(Columns, i) {
			t.Fatalf("frame %d: expected column %d lit, got %v", i, i, g)
		}
	}
	for i, d := range ft.delays {
		if d != FrameDuration {
			t.Fatalf("frame %d: expected duration %v, got %v", i, FrameDuration, d)
		}
	}
	if len(lines) != 1 || lines[0] != "Task A count: 1" {
		t.Fatalf("expected exactly one count line with value 1, got %v", lines)
	}
}

func TestRowSweepFrames(t *testing.T) {
	fm, _, _ := runSweep(t, Rows)

	for i, g := range fm.frames {
		if g != lineGrid(Rows, i) {
			t.Fatalf("frame %d: expected row %d lit, got %v", i, i, g)
		}
	}
}

func TestCountIncrementsPerActivation(t *testing.T) {
	k := kernel.New()
	ring := diag.NewRing()
	display := kernel.NewResource[hal.Matrix]("display", &fakeMatrix{})
	timer := kernel.NewResource[hal.Timer]("timer", &fakeTimer{})

	task := New(Rows, "Task B count: ", display, timer, ring)
	id, err := k.AddTask("button_b_action", 2, task)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := k.BindResources([]kernel.Binding{
		{Resource: display, Tasks: []kernel.TaskID{id}},
		{Resource: timer, Tasks: []kernel.TaskID{id}},
	}); err != nil {
		t.Fatalf("BindResources: %v", err)
	}

	k.Spawn(id)
	k.Dispatch()
	k.Spawn(id)
	k.Dispatch()

	if task.Count() != 2 {
		t.Fatalf("expected 2 activations, got %d", task.Count())
	}

	var last string
	for {
		l, ok := ring.Pop()
		if !ok {
			break
		}
		last = l.String()
	}
	if last != "Task B count: 2" {
		t.Fatalf("expected final count line %q, got %q", "Task B count: 2", last)
	}
}
