package kernel

// Lockable is the binding-table view of a resource: its name and its
// statically computed priority ceiling. Only resources created by
// NewResource satisfy it.
type Lockable interface {
	Name() string
	Ceiling() Priority
	setCeiling(Priority)
}

// Resource owns a shared peripheral handle behind the priority-ceiling
// protocol. The handle is reachable only inside Lock bodies; there is no
// unlocked accessor.
type Resource[T any] struct {
	name    string
	ceiling Priority
	held    bool
	v       T
}

// NewResource wraps a peripheral handle. The ceiling is assigned later by
// Kernel.BindResources from the static task/resource binding table.
func NewResource[T any](name string, v T) *Resource[T] {
	return &Resource[T]{name: name, v: v}
}

// Name returns the resource name.
func (r *Resource[T]) Name() string { return r.name }

// Ceiling returns the static priority ceiling: the maximum priority of
// any task that ever locks this resource.
func (r *Resource[T]) Ceiling() Priority { return r.ceiling }

// Held reports whether a lock body is currently executing.
func (r *Resource[T]) Held() bool { return r.held }

func (r *Resource[T]) setCeiling(p Priority) { r.ceiling = p }

// Lock runs body with exclusive access to the resource handle.
//
// The current ceiling is raised to the resource's ceiling for the
// duration, so no task that could ever touch the resource can be
// dispatched; it is unconditionally restored on every exit path. There is
// no waiting: the cost of a lock is the mask and unmask, O(1).
func Lock[T any](c *Context, r *Resource[T], body func(T)) {
	if r.held {
		panic("kernel: resource " + r.name + " locked twice in one acquisition")
	}

	k := c.k
	prev := k.ceiling
	if r.ceiling > k.ceiling {
		k.ceiling = r.ceiling
	}
	k.depth++
	r.held = true
	defer func() {
		r.held = false
		k.depth--
		k.ceiling = prev
	}()

	body(r.v)
}

// Lock2 acquires two resources in one scoped acquisition.
//
// Nesting is deadlock-free by construction: the effective ceiling is the
// maximum across held resources and no task ever waits for a lock.
func Lock2[T, U any](c *Context, r *Resource[T], s *Resource[U], body func(T, U)) {
	Lock(c, r, func(v T) {
		Lock(c, s, func(w U) {
			body(v, w)
		})
	})
}
