package kernel

import "testing"

type funcTask struct {
	f func(*Context)
}

func (t funcTask) Run(c *Context) {
	if t.f != nil {
		t.f(c)
	}
}

func addTask(t *testing.T, k *Kernel, name string, prio Priority, f func(*Context)) TaskID {
	t.Helper()
	id, err := k.AddTask(name, prio, funcTask{f: f})
	if err != nil {
		t.Fatalf("AddTask(%s): %v", name, err)
	}
	return id
}

func TestSpawnDispatchRunsOnce(t *testing.T) {
	k := New()
	runs := 0
	id := addTask(t, k, "worker", 1, func(*Context) { runs++ })

	if res := k.Spawn(id); res != SpawnOK {
		t.Fatalf("expected SpawnOK, got %s", res)
	}
	k.Dispatch()

	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}
	if st := k.State(id); st != TaskIdle {
		t.Fatalf("expected idle after completion, got %s", st)
	}
}

func TestSpacedSpawnsEachActivate(t *testing.T) {
	k := New()
	runs := 0
	id := addTask(t, k, "worker", 1, func(*Context) { runs++ })

	for i := 0; i < 5; i++ {
		if res := k.Spawn(id); res != SpawnOK {
			t.Fatalf("spawn %d: expected SpawnOK, got %s", i, res)
		}
		k.Dispatch()
	}
	if runs != 5 {
		t.Fatalf("expected 5 runs, got %d", runs)
	}
}

func TestSpawnQueueFullWhilePending(t *testing.T) {
	k := New()
	runs := 0
	id := addTask(t, k, "worker", 1, func(*Context) { runs++ })

	if res := k.Spawn(id); res != SpawnOK {
		t.Fatalf("expected SpawnOK, got %s", res)
	}
	if res := k.Spawn(id); res != SpawnErrQueueFull {
		t.Fatalf("expected SpawnErrQueueFull, got %s", res)
	}
	k.Dispatch()

	if runs != 1 {
		t.Fatalf("expected 1 run after dropped event, got %d", runs)
	}
}

func TestSpawnQueueFullWhileRunning(t *testing.T) {
	k := New()
	var res SpawnResult
	var id TaskID
	id = addTask(t, k, "worker", 1, func(c *Context) {
		// The slot stays occupied until the instance completes.
		res = c.Spawn(id)
	})

	k.Spawn(id)
	k.Dispatch()

	if res != SpawnErrQueueFull {
		t.Fatalf("expected SpawnErrQueueFull from a live instance, got %s", res)
	}
}

func TestSpawnUnknownTask(t *testing.T) {
	k := New()
	if res := k.Spawn(5); res != SpawnErrUnknownTask {
		t.Fatalf("expected SpawnErrUnknownTask, got %s", res)
	}
}

func TestHigherPriorityPreemptsAtPoll(t *testing.T) {
	k := New()
	var order []string

	high := addTask(t, k, "high", 2, func(*Context) {
		order = append(order, "high")
	})
	low := addTask(t, k, "low", 1, func(c *Context) {
		order = append(order, "low-start")
		k.Spawn(high)
		c.Poll()
		order = append(order, "low-end")
	})

	k.Spawn(low)
	k.Dispatch()

	want := []string{"low-start", "high", "low-end"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestEqualPriorityNeverPreempts(t *testing.T) {
	k := New()
	var order []string

	var peer TaskID
	first := addTask(t, k, "first", 1, func(c *Context) {
		order = append(order, "first-start")
		k.Spawn(peer)
		c.Poll() // equal priority must not run here
		order = append(order, "first-end")
	})
	peer = addTask(t, k, "peer", 1, func(*Context) {
		order = append(order, "peer")
	})

	k.Spawn(first)
	k.Dispatch()

	want := []string{"first-start", "first-end", "peer"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestEqualPriorityFIFOByTriggerOrder(t *testing.T) {
	k := New()
	var order []string

	a := addTask(t, k, "a", 1, func(*Context) { order = append(order, "a") })
	b := addTask(t, k, "b", 1, func(*Context) { order = append(order, "b") })

	k.Spawn(b)
	k.Spawn(a)
	k.Dispatch()

	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Fatalf("expected trigger order [b a], got %v", order)
	}
}

func TestHighestPriorityFirst(t *testing.T) {
	k := New()
	var order []string

	low := addTask(t, k, "low", 1, func(*Context) { order = append(order, "low") })
	high := addTask(t, k, "high", 3, func(*Context) { order = append(order, "high") })
	mid := addTask(t, k, "mid", 2, func(*Context) { order = append(order, "mid") })

	k.Spawn(low)
	k.Spawn(mid)
	k.Spawn(high)
	k.Dispatch()

	want := []string{"high", "mid", "low"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestPendCoalesces(t *testing.T) {
	k := New()
	runs := 0
	id := addTask(t, k, "isr", 3, func(*Context) { runs++ })
	if err := k.BindIRQ(id); err != nil {
		t.Fatalf("BindIRQ: %v", err)
	}

	k.Pend(id)
	k.Pend(id)
	k.Dispatch()

	if runs != 1 {
		t.Fatalf("expected coalesced pends to run once, got %d", runs)
	}
}

func TestPendIgnoresUnboundTask(t *testing.T) {
	k := New()
	runs := 0
	id := addTask(t, k, "worker", 1, func(*Context) { runs++ })

	k.Pend(id)
	k.Dispatch()

	if runs != 0 {
		t.Fatalf("expected unbound pend to be ignored, got %d runs", runs)
	}
}

func TestSuspendedStateDuringPoll(t *testing.T) {
	k := New()
	var seen TaskState

	var low TaskID
	high := addTask(t, k, "high", 2, func(*Context) {
		seen = k.State(low)
	})
	low = addTask(t, k, "low", 1, func(c *Context) {
		k.Spawn(high)
		c.Poll()
	})

	k.Spawn(low)
	k.Dispatch()

	if seen != TaskSuspended {
		t.Fatalf("expected suspended while awaiting, got %s", seen)
	}
}

func TestRunningStateObservable(t *testing.T) {
	k := New()
	var seen TaskState
	var id TaskID
	id = addTask(t, k, "worker", 1, func(*Context) {
		seen = k.State(id)
	})

	k.Spawn(id)
	if st := k.State(id); st != TaskPending {
		t.Fatalf("expected pending before dispatch, got %s", st)
	}
	k.Dispatch()

	if seen != TaskRunning {
		t.Fatalf("expected running inside body, got %s", seen)
	}
}

func TestAddTaskValidation(t *testing.T) {
	k := New()
	if _, err := k.AddTask("bad", 0, funcTask{}); err == nil {
		t.Fatal("expected error for priority 0")
	}
	if _, err := k.AddTask("bad", maxPriority+1, funcTask{}); err == nil {
		t.Fatal("expected error for priority above maximum")
	}
	if _, err := k.AddTask("bad", 1, nil); err == nil {
		t.Fatal("expected error for nil task")
	}
	for i := 0; i < maxTasks; i++ {
		if _, err := k.AddTask("t", 1, funcTask{}); err != nil {
			t.Fatalf("AddTask %d: %v", i, err)
		}
	}
	if _, err := k.AddTask("overflow", 1, funcTask{}); err == nil {
		t.Fatal("expected error for full task table")
	}
}

func TestRunRequiresConfiguration(t *testing.T) {
	k := New()
	if err := k.Run(nil); err == nil {
		t.Fatal("expected error for nil idle task")
	}

	k = New()
	addTask(t, k, "worker", 1, nil)
	if err := k.Run(funcTask{}); err == nil {
		t.Fatal("expected error before resources are bound")
	}
}

func TestRunReturnsWhenIdleTerminates(t *testing.T) {
	k := New()
	id := addTask(t, k, "worker", 1, nil)
	r := NewResource("scratch", 0)
	if err := k.BindResources([]Binding{{Resource: r, Tasks: []TaskID{id}}}); err != nil {
		t.Fatalf("BindResources: %v", err)
	}

	// An idle task that returns leaves the device undefined; Run reports it.
	if err := k.Run(funcTask{}); err == nil {
		t.Fatal("expected error when idle task returns")
	}
}

func TestSetKeyWriteOnce(t *testing.T) {
	k := New()
	if err := k.SetKey("hello"); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	if got := k.Key(); got != "hello" {
		t.Fatalf("expected key %q, got %q", "hello", got)
	}
	if err := k.SetKey("other"); err == nil {
		t.Fatal("expected error on second SetKey")
	}
}
