package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar counts the cycles finished by the registered cases.
type ProgressBar struct {
	lock sync.Mutex

	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Skipped   uint64    `json:"skipped"`
}

// Advance counts one more finished cycle. Skipped cycles are also counted
// on their own.
func (b *ProgressBar) Advance(skipped bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.Finished++

	if skipped {
		b.Skipped++
	}
}

// Done tells whether the total has been reached. A bar without a total is
// never done.
func (b *ProgressBar) Done() bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.Total > 0 && b.Finished >= b.Total
}

// snapshot copies the bar under its lock for encoding.
func (b *ProgressBar) snapshot() *ProgressBar {
	b.lock.Lock()
	defer b.lock.Unlock()

	return &ProgressBar{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
		Skipped:   b.Skipped,
	}
}
