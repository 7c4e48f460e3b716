package history

import "time"

// Run statuses recorded after an enhancement finishes.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Record is one archived enhancement run.
type Record struct {
	ID           string
	Input        string
	Output       string
	Speed        float64
	VideoFilters string
	AudioFilters string
	CRF          int
	Preset       string
	DurationMS   int64
	Status       string
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Elapsed reports the wall-clock time the run took.
func (r Record) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
