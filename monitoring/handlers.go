package monitoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/sarchlab/casesim/caseactor"
	"github.com/sarchlab/casesim/sim"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// apiHandler adapts a handler that returns an error. Errors carrying a
// status are answered with it, all others with 500.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string {
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func withStatus(status int, err error) error {
	return &statusError{status: status, err: err}
}

func (h apiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h(w, r)
	if err == nil {
		return
	}

	status := http.StatusInternalServerError

	var se *statusError
	if errors.As(err, &se) {
		status = se.status
	}

	log.Debug().
		Err(err).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("monitor request failed")

	http.Error(w, "Error: "+err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)

	return err
}

func (m *Monitor) caseOrNotFound(name string) (*caseactor.Case, error) {
	c, ok := m.findCase(name)
	if !ok {
		return nil, withStatus(http.StatusNotFound,
			fmt.Errorf("case %q not found", name))
	}

	return c, nil
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) error {
	m.engine.Pause()
	w.WriteHeader(http.StatusOK)

	return nil
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) error {
	m.engine.Continue()
	w.WriteHeader(http.StatusOK)

	return nil
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) error {
	var now sim.VTimeInSec
	if m.engine != nil {
		now = m.engine.CurrentTime()
	}

	return writeJSON(w, map[string]sim.VTimeInSec{"now": now})
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, m.caseNames())
}

func (m *Monitor) componentDetails(w http.ResponseWriter, r *http.Request) error {
	c, err := m.caseOrNotFound(mux.Vars(r)["name"])
	if err != nil {
		return err
	}

	s := goseth.NewSerializer()
	s.SetRoot(c)
	s.SetMaxDepth(1)

	return s.Serialize(w)
}

// fieldQuery selects one field of a case, as a dot-separated path.
type fieldQuery struct {
	Case  string `json:"comp_name,omitempty"`
	Field string `json:"field_name,omitempty"`
}

func (m *Monitor) fieldValue(w http.ResponseWriter, r *http.Request) error {
	var q fieldQuery
	if err := json.Unmarshal([]byte(mux.Vars(r)["json"]), &q); err != nil {
		return withStatus(http.StatusBadRequest, err)
	}

	c, err := m.caseOrNotFound(q.Case)
	if err != nil {
		return err
	}

	s := goseth.NewSerializer()
	s.SetRoot(c)
	s.SetMaxDepth(1)

	if err := s.SetEntryPoint(strings.Split(q.Field, ".")); err != nil {
		return withStatus(http.StatusBadRequest, err)
	}

	return s.Serialize(w)
}

func (m *Monitor) describeCase(w http.ResponseWriter, r *http.Request) error {
	c, err := m.caseOrNotFound(mux.Vars(r)["name"])
	if err != nil {
		return err
	}

	return writeJSON(w, c.Describe())
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, m.progressSnapshots())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return err
	}

	mem, err := p.MemoryInfo()
	if err != nil {
		return err
	}

	return writeJSON(w, resourceRsp{CPUPercent: cpuPercent, MemorySize: mem.RSS})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) error {
	var buf bytes.Buffer

	if err := pprof.StartCPUProfile(&buf); err != nil {
		return withStatus(http.StatusConflict, err)
	}

	time.Sleep(m.profileDuration)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		return err
	}

	return writeJSON(w, prof)
}
