// Package kernel is a static-priority, run-to-completion scheduler with
// priority-ceiling resource locks.
//
// Tasks are registered once at startup with a fixed priority and are never
// destroyed; each has a single pending-instance slot (queue depth 1).
// Dispatch runs the highest-priority pending task; nested dispatch at poll
// points realizes preemption on a single goroutine, the way interrupt
// priority levels do on a single core. A hardware interrupt is simulated
// by Pend, which is safe to call from any goroutine; everything else must
// run on the scheduler goroutine.
package kernel

import (
	"fmt"
	"sync/atomic"
)

// Task is a run-to-completion unit of work dispatched at a fixed priority.
//
// Run must eventually return (the idle task is the one exception, wired
// via Kernel.Run). A task that never polls and never returns starves every
// lower priority; that is a programming contract, not a detected fault.
type Task interface {
	Run(*Context)
}

type taskState struct {
	task    Task
	name    string
	prio    Priority
	state   TaskState
	pendSeq uint32
	irq     bool
}

// Kernel owns the scheduler state: the task table, the interrupt pend
// register, and the current effective priority.
type Kernel struct {
	tasks     [maxTasks]taskState
	taskCount TaskID

	// pend is the interrupt pend register. Bits are set from any
	// goroutine and drained at scheduling points, so pended events
	// coalesce the way hardware pending bits do.
	pend atomic.Uint32

	current Priority // priority of the running chain, 0 while idling
	curTask TaskID   // running task, noTask while idling
	ceiling Priority // highest ceiling among held resources
	depth   int      // lock nesting depth
	seq     uint32   // FIFO stamp for same-priority dispatch

	key    string // write-once shared config value, read without locking
	keySet bool

	bound   bool
	started bool
}

// New creates a kernel with an empty task table.
func New() *Kernel {
	return &Kernel{curTask: noTask}
}

// AddTask registers a task at a fixed priority and returns its ID.
//
// Priorities are 1..7; higher runs first. Registration is only valid
// before Run.
func (k *Kernel) AddTask(name string, prio Priority, t Task) (TaskID, error) {
	if k.started {
		return 0, fmt.Errorf("kernel: task %q: registration after start", name)
	}
	if t == nil {
		return 0, fmt.Errorf("kernel: task %q: nil task", name)
	}
	if prio < 1 || prio > maxPriority {
		return 0, fmt.Errorf("kernel: task %q: priority %d out of range 1..%d", name, prio, maxPriority)
	}
	if k.taskCount >= maxTasks {
		return 0, fmt.Errorf("kernel: task %q: task table full", name)
	}

	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{task: t, name: name, prio: prio}
	return id, nil
}

// BindIRQ marks a task as hardware-dispatched: Pend may target it from
// interrupt (or simulated interrupt) context.
func (k *Kernel) BindIRQ(id TaskID) error {
	if id >= k.taskCount {
		return fmt.Errorf("kernel: bind irq: unknown task %d", id)
	}
	k.tasks[id].irq = true
	return nil
}

// SetKey sets the write-once shared configuration value.
//
// Reading it unlocked from any task is the one sanctioned exception to
// the lock discipline, valid only because the value never changes after
// startup.
func (k *Kernel) SetKey(s string) error {
	if k.keySet {
		return fmt.Errorf("kernel: key already set")
	}
	k.key = s
	k.keySet = true
	return nil
}

// Pend raises the simulated interrupt line for an IRQ-bound task.
//
// Safe from any goroutine. Pending an already-pending or running task
// coalesces silently, matching hardware pend-bit semantics; software
// activations with queue-full reporting go through Spawn instead.
func (k *Kernel) Pend(id TaskID) {
	if id >= k.taskCount || !k.tasks[id].irq {
		return
	}
	bit := uint32(1) << id
	for {
		old := k.pend.Load()
		if k.pend.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

// Spawn queues one pending instance of a task.
//
// Scheduler goroutine only. The slot stays occupied until the instance
// completes; a spawn against an occupied slot fails with
// SpawnErrQueueFull and the event is dropped, never merged.
func (k *Kernel) Spawn(id TaskID) SpawnResult {
	if id >= k.taskCount {
		return SpawnErrUnknownTask
	}
	st := &k.tasks[id]
	if st.state != TaskIdle {
		return SpawnErrQueueFull
	}
	st.state = TaskPending
	k.seq++
	st.pendSeq = k.seq
	return SpawnOK
}

// State reports the lifecycle state of a task instance.
func (k *Kernel) State(id TaskID) TaskState {
	if id >= k.taskCount {
		return TaskIdle
	}
	return k.tasks[id].state
}

// Key returns the write-once shared configuration value.
func (k *Kernel) Key() string { return k.key }

// Dispatch runs pending tasks until none remain above the idle priority.
//
// Scheduler goroutine only. Run calls this; tests drive it directly.
func (k *Kernel) Dispatch() { k.dispatch(0) }

// Run validates the configuration and enters the idle task, which must
// never return. It returns an error only on a startup misconfiguration,
// or after the idle task returns, at which point the device has no
// further defined behavior.
func (k *Kernel) Run(idle Task) error {
	if idle == nil {
		return fmt.Errorf("kernel: nil idle task")
	}
	if !k.bound {
		return fmt.Errorf("kernel: resources not bound")
	}
	if k.taskCount == 0 {
		return fmt.Errorf("kernel: no tasks registered")
	}
	k.started = true

	k.dispatch(0)
	if err := k.runIdle(idle); err != nil {
		return err
	}
	return fmt.Errorf("kernel: idle task returned")
}

// runIdle enters the idle task under the same panic capture as registered
// tasks. There is no instance to abort to below idle, so under the
// abort-task policy a panicking idle loop ends scheduling with an error;
// under the halt policy it re-raises after reporting.
func (k *Kernel) runIdle(idle Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			triggerPanic(PanicInfo{Task: noTask, Name: "idle", Value: r})
			if haltOnPanic.Load() {
				panic(r)
			}
			err = fmt.Errorf("kernel: idle task panicked: %v", r)
		}
	}()

	idle.Run(&Context{k: k, id: noTask})
	return nil
}

// Yield is a scheduling point: pending tasks with a priority strictly
// above the current effective priority run before it returns.
//
// Called by Context.Poll and by peripheral delay hooks while a task
// awaits a frame. Outside locked sections the waiting task is marked
// suspended for the duration.
func (k *Kernel) Yield() {
	id := k.curTask
	if id != noTask && k.depth == 0 {
		st := &k.tasks[id]
		st.state = TaskSuspended
		k.dispatch(k.current)
		st.state = TaskRunning
		return
	}
	k.dispatch(k.current)
}

func (k *Kernel) drainPend() {
	bits := k.pend.Swap(0)
	if bits == 0 {
		return
	}
	for id := TaskID(0); id < k.taskCount; id++ {
		if bits&(1<<id) == 0 {
			continue
		}
		st := &k.tasks[id]
		if st.state != TaskIdle {
			continue // already pending or live: hardware bits coalesce
		}
		st.state = TaskPending
		k.seq++
		st.pendSeq = k.seq
	}
}

// pick selects the next task to run: highest priority strictly above both
// `above` and the current lock ceiling, FIFO by pend order within a
// priority level.
func (k *Kernel) pick(above Priority) (TaskID, bool) {
	floor := above
	if k.ceiling > floor {
		floor = k.ceiling
	}

	best := noTask
	for id := TaskID(0); id < k.taskCount; id++ {
		st := &k.tasks[id]
		if st.state != TaskPending || st.prio <= floor {
			continue
		}
		if best == noTask {
			best = id
			continue
		}
		b := &k.tasks[best]
		if st.prio > b.prio || (st.prio == b.prio && st.pendSeq < b.pendSeq) {
			best = id
		}
	}
	return best, best != noTask
}

func (k *Kernel) dispatch(above Priority) {
	for {
		k.drainPend()
		id, ok := k.pick(above)
		if !ok {
			return
		}
		k.runTask(id)
	}
}

func (k *Kernel) runTask(id TaskID) {
	st := &k.tasks[id]
	st.state = TaskRunning

	prevPrio := k.current
	prevTask := k.curTask
	k.current = st.prio
	k.curTask = id

	defer func() {
		k.current = prevPrio
		k.curTask = prevTask
		st.state = TaskIdle

		if r := recover(); r != nil {
			triggerPanic(PanicInfo{Task: id, Name: st.name, Value: r})
			if haltOnPanic.Load() {
				panic(r)
			}
			// Abort-task policy: the instance is gone, the slot is
			// free, scheduling continues.
		}
	}()

	st.task.Run(&Context{k: k, id: id})
}
