package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/casesim/caseactor"
	"github.com/sarchlab/casesim/modeling"
	"github.com/sarchlab/casesim/sim"
)

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		engine *sim.SerialEngine
		c      *caseactor.Case
		router http.Handler
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		engine = sim.NewSerialEngine()

		m = NewMonitor()
		m.RegisterEngine(engine)

		c = caseactor.NewCase("C", caseactor.NewSequence("R1", ""))
		_, err := c.NewRefinement("R1", nil)
		Expect(err).NotTo(HaveOccurred())
		m.RegisterCase(c)

		router = m.Router()
	})

	It("should fall back to a random port", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))

		m.WithPortNumber(8080)
		Expect(m.portNumber).To(Equal(8080))
	})

	It("should list cases", func() {
		rec := get("/api/list_components")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`["C"]`))
	})

	It("should report the current time", func() {
		rec := get("/api/now")

		Expect(rec.Body.String()).To(MatchJSON(`{"now": 0}`))
	})

	It("should describe the structure of a case", func() {
		_, err := c.AddPort("x", modeling.Input)
		Expect(err).NotTo(HaveOccurred())

		rec := get("/api/structure/C")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var d map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &d)).To(Succeed())
		Expect(d["name"]).To(Equal("C"))
		Expect(d["relations"]).To(ConsistOf("xRelation"))
	})

	It("should return 404 for unknown cases", func() {
		Expect(get("/api/structure/D").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/component/D").Code).To(Equal(http.StatusNotFound))
	})

	It("should serialize case details", func() {
		rec := get("/api/component/C")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should reject malformed field requests", func() {
		rec := get("/api/field/notjson")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should export metrics", func() {
		_, _ = c.Select()
		_ = c.Run()
		_, _ = c.Finalize()
		c.Reset()
		_, _ = c.Select()

		rec := get("/metrics")

		Expect(rec.Code).To(Equal(http.StatusOK))
		body := rec.Body.String()
		Expect(body).To(ContainSubstring(
			`casesim_case_candidate_runs_total{candidate="R1",case="C"} 1`))
		Expect(body).To(ContainSubstring(
			`casesim_case_phases_total{case="C",phase="skip"} 1`))
	})

	It("should export structural activity", func() {
		_, err := c.AddPort("x", modeling.Input)
		Expect(err).NotTo(HaveOccurred())

		body := get("/metrics").Body.String()

		Expect(body).To(ContainSubstring(
			`casesim_structure_edit_steps_total{container="C",propagated="true",step="port added"} 1`))
		Expect(body).To(ContainSubstring(
			`casesim_structure_version{container="C"}`))
	})

	It("should track cycles", func() {
		bar := m.TrackCycles(2)

		_, _ = c.Select()
		_ = c.Run()
		_, _ = c.Finalize()
		c.Reset()
		_, _ = c.Select()

		Expect(bar.Done()).To(BeTrue())

		var bars []map[string]any
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("Cycles"))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 2))
		Expect(bars[0]["skipped"]).To(BeNumerically("==", 1))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(MatchJSON(`[]`))
	})

	It("should report resources", func() {
		rec := get("/api/resource")

		var rsp resourceRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should collect a cpu profile", func() {
		m.profileDuration = 10 * time.Millisecond

		rec := get("/api/profile")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("SampleType"))
	})

	It("should pause and continue the engine", func() {
		Expect(get("/api/pause").Code).To(Equal(http.StatusOK))
		Expect(get("/api/continue").Code).To(Equal(http.StatusOK))
	})

	It("should serve the web page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("casesim monitor"))
	})
})
