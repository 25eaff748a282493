package kernel

// Context provides task-local access to scheduler operations. The idle
// loop receives a context as well, with no registered task behind it.
type Context struct {
	k  *Kernel
	id TaskID
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.id }

// Name returns the current task name, or "idle" for the idle loop.
func (c *Context) Name() string {
	if c.id == noTask {
		return "idle"
	}
	return c.k.tasks[c.id].name
}

// Spawn queues one pending instance of another task.
//
// The interrupt handler uses this to activate the animation task bound to
// a triggered channel.
func (c *Context) Spawn(id TaskID) SpawnResult {
	return c.k.Spawn(id)
}

// Poll is an explicit yield point: any pending strictly-higher-priority
// task runs before Poll returns. Lower and equal priorities stay blocked.
func (c *Context) Poll() {
	c.k.Yield()
}

// Key returns the write-once shared configuration value. Reading it
// without a lock is sanctioned because it never mutates after startup.
func (c *Context) Key() string { return c.k.key }
