package kernel

import "fmt"

// Binding declares the full set of registered tasks that ever lock a
// resource. The table is fixed at wiring time and is the sole source of
// each resource's priority ceiling; ceilings are never recomputed while
// the scheduler runs.
//
// The idle loop may also lock any resource. It runs at effective priority
// 0 and therefore never raises a ceiling, so it does not appear in the
// table.
type Binding struct {
	Resource Lockable
	Tasks    []TaskID
}

// BindResources computes and assigns every resource's ceiling from the
// binding table and validates the configuration. Any failure here is
// fatal: the device must not proceed to scheduling.
func (k *Kernel) BindResources(bindings []Binding) error {
	if k.started {
		return fmt.Errorf("kernel: binding after start")
	}

	for _, b := range bindings {
		if b.Resource == nil {
			return fmt.Errorf("kernel: binding with nil resource")
		}
		if len(b.Tasks) == 0 {
			return fmt.Errorf("kernel: resource %q: no accessor tasks", b.Resource.Name())
		}

		var ceil Priority
		for _, id := range b.Tasks {
			if id >= k.taskCount {
				return fmt.Errorf("kernel: resource %q: unknown task %d", b.Resource.Name(), id)
			}
			if p := k.tasks[id].prio; p > ceil {
				ceil = p
			}
		}
		b.Resource.setCeiling(ceil)
	}

	k.bound = true
	return nil
}
