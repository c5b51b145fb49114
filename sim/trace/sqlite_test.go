package trace

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SQLiteWriter", func() {
	var (
		dir string
		st  *SimulationTrace
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		st = NewSimulationTrace(TraceConfig{Level: TraceLevelEvents, Run: "counters=3"})
		st.Pools = []PoolRecord{
			{Run: "counters=3", Seq: 0, Clock: 1.5, Pool: "doc_check", Kind: KindGranted, InUse: 1, Capacity: 5},
			{Run: "counters=3", Seq: 1, Clock: 3.25, Pool: "doc_check", Kind: KindReleased, InUse: 0, Capacity: 5},
		}
		st.Events = []EventRecord{{Run: "counters=3", Seq: 1, Clock: 1.5, Process: "*registration.Student"}}
	})

	It("should append the sqlite3 suffix and refuse to overwrite", func() {
		w, err := NewSQLiteWriter(filepath.Join(dir, "trace"))
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Path()).To(Equal(filepath.Join(dir, "trace.sqlite3")))
		Expect(w.Close()).To(Succeed())

		_, err = NewSQLiteWriter(filepath.Join(dir, "trace.sqlite3"))
		Expect(err).To(MatchError(ContainSubstring("already exists")))
	})

	It("should store records per run", func() {
		w, err := NewSQLiteWriter(filepath.Join(dir, "runs.sqlite3"))
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = w.Close() }()

		other := NewSimulationTrace(TraceConfig{Level: TraceLevelPools, Run: "counters=10"})
		other.Pools = []PoolRecord{{Run: "counters=10", Pool: "registration", Kind: KindGranted, InUse: 1, Capacity: 10}}

		Expect(w.Write(st)).To(Succeed())
		Expect(w.Write(other)).To(Succeed())
		Expect(w.Write(nil)).To(Succeed())
		Expect(w.Flush()).To(Succeed())

		Expect(w.CountPoolRecords("")).To(Equal(3))
		Expect(w.CountPoolRecords("counters=3")).To(Equal(2))
		Expect(w.CountPoolRecords("counters=10")).To(Equal(1))
	})

	It("should flush in batches", func() {
		w, err := NewSQLiteWriter(filepath.Join(dir, "batch.sqlite3"))
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = w.Close() }()
		w.batchSize = 2

		Expect(w.Write(st)).To(Succeed())

		Expect(w.pools).To(BeEmpty())
		Expect(w.events).To(BeEmpty())
		Expect(w.CountPoolRecords("")).To(Equal(2))
	})

	It("should flush on close and reject writes afterwards", func() {
		path := filepath.Join(dir, "close.sqlite3")
		w, err := NewSQLiteWriter(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Write(st)).To(Succeed())

		Expect(w.Close()).To(Succeed())
		Expect(w.Close()).To(Succeed())
		Expect(w.Write(st)).To(MatchError(ContainSubstring("closed")))
		_, err = w.CountPoolRecords("")
		Expect(err).To(HaveOccurred())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})
})
