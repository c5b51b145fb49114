// sim/scheduler.go
package sim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// EventQueue implements heap.Interface and orders events by due time, then by
// insertion sequence so that simultaneous events run in FIFO order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []Event

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].Due != eq[j].Due {
		return eq[i].Due < eq[j].Due
	}
	return eq[i].Seq < eq[j].Seq
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	old[n-1] = Event{}
	*eq = old[0 : n-1]
	return item
}

// Scheduler is the sole driver of virtual time. It holds the clock and the
// queue of pending resumptions and runs them one at a time.
//
// Thread-safety: NOT thread-safe. A run is a single logical thread of control.
type Scheduler struct {
	// Clock is the current virtual time in minutes. It only moves forward.
	Clock float64
	// EventQueue holds every pending resumption
	EventQueue EventQueue
	// Executed counts events that were popped and resumed
	Executed int
	// Discarded counts events dropped by the horizon cutoff
	Discarded int

	observer Observer
	nextSeq  uint64
}

// NewScheduler returns a scheduler at time zero with an empty queue.
func NewScheduler() *Scheduler {
	return &Scheduler{
		EventQueue: make(EventQueue, 0),
	}
}

// SetObserver installs o to receive execution and pool callbacks. A nil
// observer disables them.
func (s *Scheduler) SetObserver(o Observer) {
	s.observer = o
}

// Observer returns the installed observer, or nil.
func (s *Scheduler) Observer() Observer {
	return s.observer
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 {
	return s.Clock
}

// Pending returns the number of events waiting in the queue.
func (s *Scheduler) Pending() int {
	return len(s.EventQueue)
}

// Schedule registers p to resume delay minutes from now.
// Panics on a negative or non-finite delay: the clock cannot move backwards.
func (s *Scheduler) Schedule(delay float64, p Process) {
	if p == nil {
		panic("Schedule: process must not be nil")
	}
	if delay < 0 || math.IsNaN(delay) || math.IsInf(delay, 0) {
		panic(fmt.Sprintf("Schedule: invalid delay %v at clock %v", delay, s.Clock))
	}
	s.nextSeq++
	heap.Push(&s.EventQueue, Event{
		Due:     s.Clock + delay,
		Seq:     s.nextSeq,
		Process: p,
	})
}

// RunUntil resumes pending events in (due time, insertion order) while the
// earliest one is due at or before horizon. Events beyond the horizon are
// discarded without running: the cutoff is hard, not a graceful drain.
func (s *Scheduler) RunUntil(horizon float64) {
	for len(s.EventQueue) > 0 {
		if s.EventQueue[0].Due > horizon {
			break
		}
		// get the next event to be simulated
		ev := heap.Pop(&s.EventQueue).(Event)
		// advance the clock
		s.Clock = ev.Due
		s.Executed++
		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			logrus.Tracef("[t=%10.4f] Resuming %T (seq %d)", s.Clock, ev.Process, ev.Seq)
		}
		if s.observer != nil {
			s.observer.EventExecuted(ev)
		}
		// process the event
		ev.Process.Resume(s)
	}
	s.Discarded += len(s.EventQueue)
	s.EventQueue = s.EventQueue[:0]
	logrus.Debugf("[t=%10.4f] Horizon %.4f reached: %d events executed, %d discarded",
		s.Clock, horizon, s.Executed, s.Discarded)
}
