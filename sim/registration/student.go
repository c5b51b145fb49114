package registration

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/regsim/sim"
)

// stage is the student's position in the two-stage flow. Each value names
// what the student does the next time it is resumed.
type stage int

const (
	stageArrived           stage = iota // about to request a document-check desk
	stageDocCheckGranted                // holds a desk, about to start the check
	stageDocCheckDone                   // check finished, about to free the desk and queue for a counter
	stageRegistrationGranted            // holds a counter, about to record its wait and start service
	stageServiceDone                    // service finished, about to free the counter
	stageDone                           // left the system
)

func (s stage) String() string {
	switch s {
	case stageArrived:
		return "arrived"
	case stageDocCheckGranted:
		return "doc_check_granted"
	case stageDocCheckDone:
		return "doc_check_done"
	case stageRegistrationGranted:
		return "registration_granted"
	case stageServiceDone:
		return "service_done"
	case stageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Student is one entity flowing through document check and then registration.
// It implements sim.Process as an explicit state machine: every Resume runs
// until the next suspension point (a timed delay or a blocked acquire).
//
// Only the registration wait is recorded; the document-check wait is not
// tracked.
type Student struct {
	ID              int
	ArrivalTime     float64
	Stage1Start     float64 // time the student asked for a document-check desk
	Stage2WaitStart float64 // time the student joined the registration queue
	Stage2Wait      float64 // minutes between joining the queue and reaching a counter

	stage stage
	model *Model
}

func newStudent(id int, now float64, m *Model) *Student {
	return &Student{
		ID:          id,
		ArrivalTime: now,
		stage:       stageArrived,
		model:       m,
	}
}

// Done reports whether the student has left the system.
func (st *Student) Done() bool {
	return st.stage == stageDone
}

// Resume advances the student to its next suspension point.
func (st *Student) Resume(s *sim.Scheduler) {
	m := st.model
	for {
		switch st.stage {
		case stageArrived:
			st.Stage1Start = s.Now()
			st.stage = stageDocCheckGranted
			if !m.docCheck.Acquire(st) {
				return
			}

		case stageDocCheckGranted:
			st.stage = stageDocCheckDone
			s.Schedule(m.docCheckTimes.SampleExponential(m.cfg.AvgDocCheckMinutes), st)
			return

		case stageDocCheckDone:
			m.docCheck.Release()
			st.Stage2WaitStart = s.Now()
			st.stage = stageRegistrationGranted
			if !m.registration.Acquire(st) {
				return
			}

		case stageRegistrationGranted:
			st.Stage2Wait = s.Now() - st.Stage2WaitStart
			m.collector.Record(st.Stage2Wait)
			st.stage = stageServiceDone
			s.Schedule(m.serviceTimes.SampleExponential(m.cfg.AvgServiceMinutes), st)
			return

		case stageServiceDone:
			m.registration.Release()
			st.stage = stageDone
			m.completed++
			logrus.Tracef("[t=%10.4f] student %d left after waiting %.4f min", s.Now(), st.ID, st.Stage2Wait)
			return

		default:
			panic("Resume: student " + st.stage.String() + " has nothing left to do")
		}
	}
}
