package tracing

import (
	"context"
	"errors"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/casesim/datarecording"
)

var _ = Describe("DBTracer", func() {
	var (
		path     string
		recorder datarecording.DataRecorder
		tracer   *DBTracer
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "trace")
		recorder = datarecording.New(path)
		tracer = NewDBTracer(recorder)
	})

	It("should create its tables", func() {
		Expect(recorder.ListTables()).To(ContainElements(CycleTable, EditTable))
		Expect(recorder.Close()).To(Succeed())
	})

	It("should store events", func() {
		tracer.TraceCycle(CycleEvent{
			Time:      1e-9,
			Case:      "C",
			Cycle:     3,
			Phase:     "select",
			Candidate: "R1",
			Err:       errors.New("broken"),
		})
		tracer.TraceEdit(EditEvent{
			Container: "C",
			Step:      "port added",
			Entity:    "R1",
			Origin:    "C",
			Item:      "x",
		})
		Expect(recorder.Close()).To(Succeed())

		reader := datarecording.NewReader(path + ".sqlite3")
		defer reader.Close()

		reader.MapTable(CycleTable, CycleEntry{})
		reader.MapTable(EditTable, EditEntry{})

		cycles, _, err := reader.Query(
			context.Background(), CycleTable, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(cycles).To(HaveLen(1))
		Expect(*cycles[0].(*CycleEntry)).To(Equal(CycleEntry{
			Time:      1e-9,
			Case:      "C",
			Cycle:     3,
			Phase:     "select",
			Candidate: "R1",
			Error:     "broken",
		}))

		edits, total, err := reader.Query(
			context.Background(), EditTable, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(1))
		Expect(edits[0].(*EditEntry).Item).To(Equal("x"))
	})
})
