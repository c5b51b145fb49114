package trace

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inference-sim/regsim/sim"
	"github.com/inference-sim/regsim/sim/registration"
)

var _ = Describe("SimulationTrace", func() {
	var (
		sched *sim.Scheduler
		pool  *sim.ResourcePool
		noop  sim.Process
	)

	BeforeEach(func() {
		sched = sim.NewScheduler()
		pool = sim.NewResourcePool(sched, "counter", 1)
		noop = sim.ProcessFunc(func(*sim.Scheduler) {})
	})

	It("should record nothing at level none", func() {
		st := NewSimulationTrace(TraceConfig{Level: TraceLevelNone, Run: "r"})
		sched.SetObserver(st)

		pool.Acquire(noop)
		pool.Release()

		Expect(st.Pools).To(BeEmpty())
		Expect(st.Events).To(BeEmpty())
	})

	It("should record pool activity with the state after each operation", func() {
		st := NewSimulationTrace(TraceConfig{Level: TraceLevelPools, Run: "counters=1"})
		sched.SetObserver(st)

		Expect(pool.Acquire(noop)).To(BeTrue())
		Expect(pool.Acquire(noop)).To(BeFalse())
		pool.Release()

		Expect(st.Pools).To(HaveLen(4))
		Expect(st.Pools[0].Kind).To(Equal(KindGranted))
		Expect(st.Pools[0].InUse).To(Equal(1))
		Expect(st.Pools[1].Kind).To(Equal(KindEnqueued))
		Expect(st.Pools[1].QueueLen).To(Equal(1))
		Expect(st.Pools[2].Kind).To(Equal(KindReleased))
		Expect(st.Pools[2].InUse).To(Equal(0))
		Expect(st.Pools[3].Kind).To(Equal(KindGrantedAfterWait))
		Expect(st.Pools[3].InUse).To(Equal(1))
		Expect(st.Pools[3].QueueLen).To(Equal(0))
		for i, r := range st.Pools {
			Expect(r.Seq).To(Equal(i))
			Expect(r.Run).To(Equal("counters=1"))
			Expect(r.Pool).To(Equal("counter"))
		}
		Expect(st.Grants("counter")).To(Equal([]float64{0, 0}))
		Expect(st.Events).To(BeEmpty())
	})

	It("should record executed events only at level events", func() {
		st := NewSimulationTrace(TraceConfig{Level: TraceLevelEvents, Run: "r"})
		sched.SetObserver(st)
		sched.Schedule(2, noop)
		sched.Schedule(1, noop)

		sched.RunUntil(10)

		Expect(st.Executed).To(Equal(2))
		Expect(st.Events).To(HaveLen(2))
		Expect(st.Events[0].Clock).To(Equal(1.0))
		Expect(st.Events[0].Seq).To(Equal(uint64(2)))
		Expect(st.Events[1].Clock).To(Equal(2.0))
		Expect(st.Events[0].Process).To(Equal("sim.ProcessFunc"))
	})

	It("should count executed events at every level", func() {
		st := NewSimulationTrace(TraceConfig{Level: TraceLevelPools})
		sched.SetObserver(st)
		sched.Schedule(1, noop)

		sched.RunUntil(10)

		Expect(st.Executed).To(Equal(1))
		Expect(st.Events).To(BeEmpty())
	})

	It("should validate trace level names", func() {
		Expect(IsValidTraceLevel("none")).To(BeTrue())
		Expect(IsValidTraceLevel("pools")).To(BeTrue())
		Expect(IsValidTraceLevel("events")).To(BeTrue())
		Expect(IsValidTraceLevel("")).To(BeTrue())
		Expect(IsValidTraceLevel("decisions")).To(BeFalse())
	})

	It("should label runs by counter count", func() {
		Expect(RunLabel(12)).To(Equal("counters=12"))
	})
})

var _ = Describe("Summarize", func() {
	It("should be safe on a nil trace", func() {
		s := Summarize(nil)
		Expect(s.Executed).To(Equal(0))
		Expect(s.Pools).To(BeEmpty())
		Expect(s.PoolNames()).To(BeEmpty())
	})

	It("should aggregate records per pool", func() {
		st := NewSimulationTrace(TraceConfig{Level: TraceLevelPools})
		st.Pools = []PoolRecord{
			{Pool: "registration", Kind: KindGranted, InUse: 1, Capacity: 2},
			{Pool: "registration", Kind: KindGranted, InUse: 2, Capacity: 2},
			{Pool: "registration", Kind: KindEnqueued, InUse: 2, Capacity: 2, QueueLen: 1},
			{Pool: "registration", Kind: KindReleased, InUse: 1, Capacity: 2, QueueLen: 1},
			{Pool: "registration", Kind: KindGrantedAfterWait, InUse: 2, Capacity: 2},
			{Pool: "doc_check", Kind: KindGranted, InUse: 3, Capacity: 2},
		}

		s := Summarize(st)

		Expect(s.PoolNames()).To(Equal([]string{"doc_check", "registration"}))
		reg := s.Pools["registration"]
		Expect(reg.Grants).To(Equal(3))
		Expect(reg.GrantsAfterWait).To(Equal(1))
		Expect(reg.Enqueues).To(Equal(1))
		Expect(reg.Releases).To(Equal(1))
		Expect(reg.MaxInUse).To(Equal(2))
		Expect(reg.MaxQueueLen).To(Equal(1))
		Expect(reg.CapacityViolations).To(Equal(0))
		Expect(s.Pools["doc_check"].CapacityViolations).To(Equal(1))
	})

	It("should find no capacity violations in a full registration day", func() {
		cfg := registration.DefaultConfig()
		cfg.HorizonMinutes = 180
		st := NewSimulationTrace(TraceConfig{Level: TraceLevelPools, Run: RunLabel(cfg.RegistrationCapacity)})

		res, err := registration.Simulate(cfg, registration.WithObserver(st))
		Expect(err).NotTo(HaveOccurred())

		s := Summarize(st)
		Expect(s.Executed).To(Equal(res.EventsExecuted))
		for _, name := range s.PoolNames() {
			Expect(s.Pools[name].CapacityViolations).To(Equal(0), name)
		}
		reg := s.Pools[registration.PoolRegistration]
		Expect(reg.MaxInUse).To(Equal(cfg.RegistrationCapacity))
		Expect(reg.Grants).To(Equal(res.Recorded))
		Expect(reg.MaxQueueLen).To(Equal(res.MaxRegistrationQueue))
		Expect(s.Pools[registration.PoolDocCheck].MaxInUse).To(BeNumerically("<=", cfg.DocCheckCapacity))
		for _, g := range st.Grants(registration.PoolRegistration) {
			Expect(g).To(BeNumerically("<=", cfg.HorizonMinutes))
		}
	})
})
