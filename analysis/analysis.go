// Package analysis summarizes the cycles and structural edits stored in a
// recording.
package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/sarchlab/casesim/datarecording"
	"github.com/sarchlab/casesim/tracing"
)

// Entry is a single metric of a case or of one of its candidates.
type Entry struct {
	Case      string
	Candidate string
	What      string
	Value     float64
	Unit      string
}

// Metric names.
const (
	MetricCycles      = "cycles"
	MetricSkipped     = "skipped"
	MetricSelected    = "selected"
	MetricNotReady    = "not_ready"
	MetricRuns        = "runs"
	MetricErrors      = "errors"
	MetricStops       = "stop_requests"
	MetricUtilization = "utilization"
	MetricEditSteps   = "edit_steps"
)

// A Backend receives the entries produced by an Analyzer.
type Backend interface {
	AddDataEntry(entry Entry)
	Flush() error
}

// Analyzer reads a recording and reports per-case and per-candidate metrics.
type Analyzer struct {
	reader  datarecording.DataReader
	backend Backend
}

// NewAnalyzer creates an Analyzer that reads from the reader and writes to
// the backend.
func NewAnalyzer(
	reader datarecording.DataReader,
	backend Backend,
) *Analyzer {
	reader.MapTable(tracing.CycleTable, tracing.CycleEntry{})
	reader.MapTable(tracing.EditTable, tracing.EditEntry{})

	return &Analyzer{
		reader:  reader,
		backend: backend,
	}
}

type candidateStats struct {
	selected uint64
	notReady uint64
	runs     uint64
	errors   uint64
	stops    uint64
}

type caseStats struct {
	cycles     map[uint64]bool
	skipped    uint64
	candidates map[string]*candidateStats
	editSteps  map[string]uint64
}

func newCaseStats() *caseStats {
	return &caseStats{
		cycles:     make(map[uint64]bool),
		candidates: make(map[string]*candidateStats),
		editSteps:  make(map[string]uint64),
	}
}

func (s *caseStats) candidate(name string) *candidateStats {
	c, ok := s.candidates[name]
	if !ok {
		c = &candidateStats{}
		s.candidates[name] = c
	}

	return c
}

// Analyze reads every recorded event, sends the entries to the backend and
// flushes it. The entries are also returned, ordered by case and candidate.
func (a *Analyzer) Analyze(ctx context.Context) ([]Entry, error) {
	stats := make(map[string]*caseStats)

	get := func(name string) *caseStats {
		s, ok := stats[name]
		if !ok {
			s = newCaseStats()
			stats[name] = s
		}

		return s
	}

	cycles, _, err := datarecording.QueryAs[tracing.CycleEntry](
		ctx, a.reader, tracing.CycleTable,
		datarecording.QueryParams{OrderBy: "Time ASC"})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tracing.CycleTable, err)
	}

	for i := range cycles {
		countCycle(get, &cycles[i])
	}

	edits, _, err := datarecording.QueryAs[tracing.EditEntry](
		ctx, a.reader, tracing.EditTable, datarecording.QueryParams{})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tracing.EditTable, err)
	}

	for _, e := range edits {
		get(e.Container).editSteps[e.Step]++
	}

	entries := report(stats)

	for _, e := range entries {
		a.backend.AddDataEntry(e)
	}

	if err := a.backend.Flush(); err != nil {
		return nil, err
	}

	return entries, nil
}

func countCycle(get func(string) *caseStats, e *tracing.CycleEntry) {
	s := get(e.Case)
	s.cycles[e.Cycle] = true

	switch e.Phase {
	case "skip":
		s.skipped++
		return
	case "select":
		c := s.candidate(e.Candidate)
		c.selected++

		if !e.Ready {
			c.notReady++
		}
	case "run":
		c := s.candidate(e.Candidate)
		if e.Error == "" {
			c.runs++
		}
	case "finalize":
		if !e.Continue {
			s.candidate(e.Candidate).stops++
		}
	}

	if e.Error != "" && e.Candidate != "" {
		s.candidate(e.Candidate).errors++
	}
}

func report(stats map[string]*caseStats) []Entry {
	var entries []Entry

	for _, caseName := range sortedKeys(stats) {
		s := stats[caseName]
		cycles := float64(len(s.cycles))

		entries = append(entries,
			Entry{Case: caseName, What: MetricCycles, Value: cycles, Unit: "cycle"},
			Entry{Case: caseName, What: MetricSkipped,
				Value: float64(s.skipped), Unit: "cycle"},
		)

		for _, name := range sortedKeys(s.candidates) {
			c := s.candidates[name]

			utilization := 0.0
			if cycles > 0 {
				utilization = float64(c.runs) / cycles
			}

			entries = append(entries,
				Entry{caseName, name, MetricSelected, float64(c.selected), "cycle"},
				Entry{caseName, name, MetricNotReady, float64(c.notReady), "cycle"},
				Entry{caseName, name, MetricRuns, float64(c.runs), "cycle"},
				Entry{caseName, name, MetricErrors, float64(c.errors), "count"},
				Entry{caseName, name, MetricStops, float64(c.stops), "count"},
				Entry{caseName, name, MetricUtilization, utilization, "ratio"},
			)
		}

		for _, step := range sortedKeys(s.editSteps) {
			entries = append(entries, Entry{
				Case:  caseName,
				What:  MetricEditSteps + ":" + step,
				Value: float64(s.editSteps[step]),
				Unit:  "count",
			})
		}
	}

	return entries
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
