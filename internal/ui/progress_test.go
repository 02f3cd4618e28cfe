package ui

import (
	"strings"
	"testing"

	"luedit/internal/batch"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.lu", 20, "short.lu"},
		{"intents/very-long-name.lu", 10, "intents..."},
		{"abcdef", 3, "abc"},
		{"世界世界", 5, "世..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestProgressModelEvents(t *testing.T) {
	events := make(chan batch.Event)
	m := NewProgressModel("diagnosing", []string{"a.lu", "b.lu"}, events).(*progressModel)

	m.applyEvent(batch.Event{File: "a.lu", Stage: batch.StageParse, Status: batch.StatusDone})
	m.applyEvent(batch.Event{File: "b.lu", Stage: batch.StageParse, Status: batch.StatusWorking})
	m.applyEvent(batch.Event{File: "unknown.lu", Stage: batch.StageParse, Status: batch.StatusDone})

	if got := m.percent(); got != 0.75 {
		t.Errorf("percent = %v, want 0.75", got)
	}
	view := m.View()
	for _, want := range []string{"diagnosing", "ok", "parsing", "a.lu", "b.lu"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}

	m.Update(doneMsg{})
	if !strings.Contains(m.View(), "done: diagnosing") {
		t.Errorf("done header missing:\n%s", m.View())
	}
}
