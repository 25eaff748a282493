package kernel

// TaskID identifies a registered task.
type TaskID uint8

// Priority is a static dispatch priority. Higher values preempt lower
// ones. Registered tasks use 1..maxPriority; the idle loop runs at an
// effective priority of 0 and is not a registered task.
type Priority uint8

const (
	maxTasks    = 8
	maxPriority = 7

	noTask TaskID = 0xFF
)

// TaskState tracks the single instance of a task through its lifecycle.
type TaskState uint8

const (
	// TaskIdle: no pending or live instance.
	TaskIdle TaskState = iota
	// TaskPending: an instance is queued and waiting for dispatch.
	TaskPending
	// TaskRunning: the instance owns the processor.
	TaskRunning
	// TaskSuspended: the instance yielded at a poll point and is waiting
	// for a peripheral operation while higher priorities may run.
	TaskSuspended
)

func (s TaskState) String() string {
	switch s {
	case TaskIdle:
		return "idle"
	case TaskPending:
		return "pending"
	case TaskRunning:
		return "running"
	case TaskSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// SpawnResult describes the outcome of a spawn attempt.
type SpawnResult uint8

const (
	SpawnOK SpawnResult = iota
	// SpawnErrQueueFull: the task's single pending-instance slot is
	// occupied (a previous instance has not completed). The event is
	// dropped.
	SpawnErrQueueFull
	SpawnErrUnknownTask
)

func (r SpawnResult) String() string {
	switch r {
	case SpawnOK:
		return "ok"
	case SpawnErrQueueFull:
		return "queue full"
	case SpawnErrUnknownTask:
		return "unknown task"
	default:
		return "unknown"
	}
}
