// Package performance records wall-clock laps between the stages of a
// batch run and logs the breakdown when the run finishes.
package performance

import (
	"log/slog"
	"time"
)

// Stage is one recorded lap.
type Stage struct {
	Name     string
	Duration time.Duration
}

// Tracker measures the time spent in each stage of a single run. It is
// not safe for concurrent use; the run loop marks stages sequentially.
type Tracker struct {
	start  time.Time
	last   time.Time
	stages []Stage
}

// NewTracker starts the clock.
func NewTracker() *Tracker {
	now := time.Now()
	return &Tracker{start: now, last: now}
}

// Mark closes the current lap under name. A stage that was skipped
// still gets a mark and shows up as a near-zero lap.
func (t *Tracker) Mark(name string) {
	now := time.Now()
	t.stages = append(t.stages, Stage{Name: name, Duration: now.Sub(t.last)})
	t.last = now
}

// Stages returns the recorded laps in mark order.
func (t *Tracker) Stages() []Stage {
	return t.stages
}

// Total returns the time elapsed since the tracker was created.
func (t *Tracker) Total() time.Duration {
	return time.Since(t.start)
}

// LogSummary writes the per-stage breakdown through log.
func (t *Tracker) LogSummary(log *slog.Logger) {
	total := t.Total()
	if total <= 0 || len(t.stages) == 0 {
		return
	}
	for _, s := range t.stages {
		log.Info("stage timing",
			"stage", s.Name,
			"duration", s.Duration,
			"share_percent", float64(s.Duration)/float64(total)*100)
	}
	log.Info("run timing", "total", total, "stages", len(t.stages))
}
