package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVBackend is a Backend that writes entries as CSV rows.
type CSVBackend struct {
	csvWriter *csv.Writer
	err       error
}

// NewCSVBackend creates a CSVBackend and writes the header row.
func NewCSVBackend(w io.Writer) *CSVBackend {
	b := &CSVBackend{csvWriter: csv.NewWriter(w)}

	header := []string{"Case", "Candidate", "What", "Value", "Unit"}
	b.err = b.csvWriter.Write(header)

	return b
}

// AddDataEntry adds a row. The first write error is kept and returned by
// Flush.
func (b *CSVBackend) AddDataEntry(entry Entry) {
	if b.err != nil {
		return
	}

	b.err = b.csvWriter.Write([]string{
		entry.Case,
		entry.Candidate,
		entry.What,
		fmt.Sprintf("%.6f", entry.Value),
		entry.Unit,
	})
}

// Flush flushes the CSV writer.
func (b *CSVBackend) Flush() error {
	if b.err != nil {
		return b.err
	}

	b.csvWriter.Flush()

	return b.csvWriter.Error()
}

// MemoryBackend keeps entries in memory.
type MemoryBackend struct {
	Entries []Entry
}

// AddDataEntry appends the entry.
func (b *MemoryBackend) AddDataEntry(entry Entry) {
	b.Entries = append(b.Entries, entry)
}

// Flush does nothing.
func (b *MemoryBackend) Flush() error {
	return nil
}

// Find returns the entry of a metric, if present.
func (b *MemoryBackend) Find(caseName, candidate, what string) (Entry, bool) {
	for _, e := range b.Entries {
		if e.Case == caseName && e.Candidate == candidate && e.What == what {
			return e, true
		}
	}

	return Entry{}, false
}
