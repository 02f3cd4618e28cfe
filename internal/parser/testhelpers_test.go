package parser

import (
	"fmt"
	"strings"
	"testing"

	"luedit/internal/diag"
)

func errorsSummary(res *Resource) string {
	if len(res.Errors) == 0 {
		return "<none>"
	}
	lines := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		lines[i] = fmt.Sprintf("[%s %s] %s", e.Severity, e.Code.ID(), e.Message)
	}
	return strings.Join(lines, "; ")
}

func requireCodes(t *testing.T, res *Resource, want ...diag.Code) {
	t.Helper()
	if len(res.Errors) != len(want) {
		t.Fatalf("expected %d findings, got %s", len(want), errorsSummary(res))
	}
	for i, code := range want {
		if res.Errors[i].Code != code {
			t.Fatalf("finding %d: expected %s, got %s", i, code.ID(), errorsSummary(res))
		}
	}
}

func requireClean(t *testing.T, res *Resource) {
	t.Helper()
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected findings: %s", errorsSummary(res))
	}
}
