// Package observ measures how long the stages of a luedit command take
// (read, parse, edit, write) for `--timings`.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stage is one measured step of a command.
type Stage struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects stages. Safe for concurrent use.
type Timer struct {
	mu     sync.Mutex
	stages []Stage
}

func NewTimer() *Timer { return &Timer{stages: make([]Stage, 0, 8)} }

// Begin starts a stage and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages = append(t.stages, Stage{Name: name, Start: time.Now()})
	return len(t.stages) - 1
}

// End finishes the stage idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.stages) {
		return
	}
	s := &t.stages[idx]
	s.Dur = time.Since(s.Start)
	s.Note = note
}

// Measure runs fn as a stage named name. The note is fn's error text, if any.
func (t *Timer) Measure(name string, fn func() error) error {
	idx := t.Begin(name)
	err := fn()
	note := ""
	if err != nil {
		note = err.Error()
	}
	t.End(idx, note)
	return err
}

// StageReport is the serialisable form of a Stage.
type StageReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

// Report returns the stages in start order with their sum.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stages) == 0 {
		return Report{}
	}
	r := Report{Stages: make([]StageReport, len(t.stages))}
	var total time.Duration
	for i, s := range t.stages {
		total += s.Dur
		r.Stages[i] = StageReport{Name: s.Name, DurationMS: millis(s.Dur), Note: s.Note}
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders Report as an aligned table.
func (t *Timer) Summary() string {
	r := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, s := range r.Stages {
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", s.Name, s.DurationMS)
		if s.Note != "" {
			sb.WriteString("  // " + s.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
