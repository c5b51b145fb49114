package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ResourcePool models a bank of identical servers (document-check desks,
// registration counters). Units are granted one at a time; when none is free
// the caller joins a FIFO queue and is resumed, already holding its unit, as
// soon as one is released.
//
// Invariant: 0 <= InUse <= Capacity at every point of a run.
type ResourcePool struct {
	Name     string
	Capacity int
	InUse    int

	// MaxQueueLen is the longest the waiter queue has been.
	MaxQueueLen int
	// Grants counts units handed out, immediate or after waiting.
	Grants int

	sched   *Scheduler
	waiters WaitQueue

	// busy-time integral for utilization
	busyArea   float64
	lastChange float64
}

// NewResourcePool creates a pool bound to sched. Panics on capacity < 1;
// configurations are validated before any pool is built.
func NewResourcePool(sched *Scheduler, name string, capacity int) *ResourcePool {
	if sched == nil {
		panic("NewResourcePool: scheduler must not be nil")
	}
	if capacity < 1 {
		panic(fmt.Sprintf("NewResourcePool: pool %q needs a positive capacity, got %d", name, capacity))
	}
	return &ResourcePool{
		Name:       name,
		Capacity:   capacity,
		sched:      sched,
		lastChange: sched.Now(),
	}
}

// Acquire requests one unit for p. If a unit is free it is granted at once and
// Acquire returns true: the caller continues without suspending. Otherwise p is
// queued, Acquire returns false, and the caller must return control to the
// scheduler; p.Resume runs later with the unit already granted.
func (rp *ResourcePool) Acquire(p Process) bool {
	now := rp.sched.Now()
	if rp.InUse < rp.Capacity {
		rp.accumulate(now)
		rp.InUse++
		rp.Grants++
		if o := rp.sched.Observer(); o != nil {
			o.Granted(rp, now, false)
		}
		return true
	}
	rp.waiters.Enqueue(p)
	if n := rp.waiters.Len(); n > rp.MaxQueueLen {
		rp.MaxQueueLen = n
	}
	if o := rp.sched.Observer(); o != nil {
		o.Enqueued(rp, now)
	}
	return false
}

// Release returns one unit. If processes are waiting, the earliest one is
// granted the freed unit and scheduled to resume at the current time.
// Panics when nothing is held.
func (rp *ResourcePool) Release() {
	if rp.InUse == 0 {
		panic(fmt.Sprintf("Release: pool %q has no unit in use", rp.Name))
	}
	now := rp.sched.Now()
	rp.accumulate(now)
	rp.InUse--
	if o := rp.sched.Observer(); o != nil {
		o.Released(rp, now)
	}

	next := rp.waiters.Dequeue()
	if next == nil {
		return
	}
	rp.InUse++
	rp.Grants++
	if o := rp.sched.Observer(); o != nil {
		o.Granted(rp, now, true)
	}
	rp.sched.Schedule(0, next)
	logrus.Tracef("[t=%10.4f] %s: unit handed to waiter, %d still queued", now, rp.Name, rp.waiters.Len())
}

// QueueLen returns the number of processes waiting for a unit.
func (rp *ResourcePool) QueueLen() int {
	return rp.waiters.Len()
}

// Utilization returns the time-averaged fraction of capacity in use over
// [0, now]. Units held by processes abandoned at the horizon still count
// until now.
func (rp *ResourcePool) Utilization(now float64) float64 {
	if now <= 0 {
		return 0
	}
	area := rp.busyArea
	if now > rp.lastChange {
		area += float64(rp.InUse) * (now - rp.lastChange)
	}
	return area / (float64(rp.Capacity) * now)
}

func (rp *ResourcePool) accumulate(now float64) {
	if now > rp.lastChange {
		rp.busyArea += float64(rp.InUse) * (now - rp.lastChange)
		rp.lastChange = now
	}
}
