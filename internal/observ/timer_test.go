package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	if r := tm.Report(); len(r.Stages) != 0 || r.TotalMS != 0 {
		t.Fatalf("empty timer report = %+v", r)
	}

	idx := tm.Begin("read")
	tm.End(idx, "3 files")
	tm.End(42, "ignored")
	err := tm.Measure("parse", func() error { return errors.New("boom") })
	if err == nil || err.Error() != "boom" {
		t.Fatalf("Measure must return fn's error, got %v", err)
	}

	r := tm.Report()
	if len(r.Stages) != 2 {
		t.Fatalf("stages = %d", len(r.Stages))
	}
	if r.Stages[0].Note != "3 files" || r.Stages[1].Note != "boom" {
		t.Errorf("notes = %q, %q", r.Stages[0].Note, r.Stages[1].Note)
	}
	if r.TotalMS < r.Stages[0].DurationMS {
		t.Errorf("total %f below stage %f", r.TotalMS, r.Stages[0].DurationMS)
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "read", "// 3 files", "parse", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary misses %q:\n%s", want, sum)
		}
	}
}
