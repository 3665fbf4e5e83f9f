// Package monitoring turns a running simulation into a web server that can
// be inspected and controlled from a browser.
package monitoring

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/sarchlab/casesim/caseactor"
	"github.com/sarchlab/casesim/monitoring/web"
	"github.com/sarchlab/casesim/sim"
	"github.com/sarchlab/casesim/tracing"
)

// Monitor serves the state of registered cases over HTTP and lets a browser
// pause and continue the engine.
type Monitor struct {
	engine     sim.Engine
	portNumber int

	casesLock sync.RWMutex
	cases     map[string]*caseactor.Case
	caseOrder []string

	registry *prometheus.Registry
	metrics  *metricsTracer

	barsLock sync.Mutex
	bars     []*ProgressBar

	profileDuration time.Duration
}

// NewMonitor creates a monitor with an empty metrics registry.
func NewMonitor() *Monitor {
	m := &Monitor{
		cases:           make(map[string]*caseactor.Case),
		registry:        prometheus.NewRegistry(),
		profileDuration: time.Second,
	}

	m.metrics = newMetricsTracer(m.registry)
	m.metrics.version = m.caseVersion

	return m
}

// WithPortNumber sets the port to listen on. Privileged ports are refused
// and replaced by a random one.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		if portNumber != 0 {
			log.Warn().
				Int("port", portNumber).
				Msg("monitor port not allowed, using a random port")
		}

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEngine sets the engine that the pause and continue endpoints
// control.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterCase makes a case visible to the monitor and exports its activity
// as metrics.
func (m *Monitor) RegisterCase(c *caseactor.Case) {
	m.casesLock.Lock()
	if _, ok := m.cases[c.Name()]; !ok {
		m.caseOrder = append(m.caseOrder, c.Name())
	}
	m.cases[c.Name()] = c
	m.casesLock.Unlock()

	tracing.CollectTrace(c, m.metrics, m.engine)
}

func (m *Monitor) findCase(name string) (*caseactor.Case, bool) {
	m.casesLock.RLock()
	defer m.casesLock.RUnlock()

	c, ok := m.cases[name]

	return c, ok
}

func (m *Monitor) caseNames() []string {
	m.casesLock.RLock()
	defer m.casesLock.RUnlock()

	return append([]string(nil), m.caseOrder...)
}

func (m *Monitor) caseVersion(name string) uint64 {
	c, ok := m.findCase(name)
	if !ok {
		return 0
	}

	return c.Version()
}

// TrackCycles creates a bar that advances with every finalized or skipped
// cycle of any registered case.
func (m *Monitor) TrackCycles(total uint64) *ProgressBar {
	bar := m.CreateProgressBar("Cycles", total)
	m.metrics.progress = bar.Advance

	return bar
}

// CreateProgressBar creates a bar that is listed until it is completed.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        sim.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.barsLock.Lock()
	m.bars = append(m.bars, bar)
	m.barsLock.Unlock()

	return bar
}

// CompleteProgressBar stops listing a bar.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.barsLock.Lock()
	defer m.barsLock.Unlock()

	for i, b := range m.bars {
		if b == pb {
			m.bars = append(m.bars[:i], m.bars[i+1:]...)
			return
		}
	}
}

func (m *Monitor) progressSnapshots() []*ProgressBar {
	m.barsLock.Lock()
	defer m.barsLock.Unlock()

	snapshots := make([]*ProgressBar, 0, len(m.bars))
	for _, b := range m.bars {
		snapshots = append(snapshots, b.snapshot())
	}

	return snapshots
}

// Router returns the HTTP handler of the monitor.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/pause", apiHandler(m.pauseEngine))
	api.Handle("/continue", apiHandler(m.continueEngine))
	api.Handle("/now", apiHandler(m.now))
	api.Handle("/list_components", apiHandler(m.listComponents))
	api.Handle("/component/{name}", apiHandler(m.componentDetails))
	api.Handle("/field/{json}", apiHandler(m.fieldValue))
	api.Handle("/structure/{name}", apiHandler(m.describeCase))
	api.Handle("/progress", apiHandler(m.listProgressBars))
	api.Handle("/resource", apiHandler(m.listResources))
	api.Handle("/profile", apiHandler(m.collectProfile))

	r.Handle("/metrics",
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer serves the monitor in the background and returns the port it
// listens on.
func (m *Monitor) StartServer() int {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		log.Panic().Err(err).Msg("monitor cannot listen")
	}

	port := listener.Addr().(*net.TCPAddr).Port

	log.Info().
		Str("url", "http://localhost:"+strconv.Itoa(port)).
		Msg("monitoring simulation")

	server := &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("monitor server stopped")
		}
	}()

	return port
}
