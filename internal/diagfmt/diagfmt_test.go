package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"luedit/internal/diag"
	"luedit/internal/source"
)

const sample = "# Greeting\r\n- hi\r\noops\r\n"

func sampleFile() *source.File {
	return source.NewFile("a.lu", []byte(sample), 0)
}

func sampleDiags() []diag.Diagnostic {
	return []diag.Diagnostic{
		diag.NewError(diag.SynInvalidBodyLine, source.LineRange(3, 4), "invalid line"),
		diag.New(diag.SevWarning, diag.StructNoUtterances, source.Range{}, "no utterances"),
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleFile(), sampleDiags(), PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "a.lu: WARNING STR2001: no utterances\n" +
		"a.lu:3:1: ERROR SYN1002: invalid line\n" +
		"3 | oops\n" +
		"  | ^~~~\n"
	if got := buf.String(); got != want {
		t.Errorf("Pretty mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestPrettyContext(t *testing.T) {
	var buf bytes.Buffer
	diags := sampleDiags()[:1]
	if err := Pretty(&buf, sampleFile(), diags, PrettyOpts{Context: 1}); err != nil {
		t.Fatal(err)
	}
	want := "a.lu:3:1: ERROR SYN1002: invalid line\n" +
		"2 | - hi\n" +
		"3 | oops\n" +
		"  | ^~~~\n"
	if got := buf.String(); got != want {
		t.Errorf("Pretty mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestCaret(t *testing.T) {
	tests := []struct {
		name string
		text string
		rng  source.Range
		pad  string
		mark string
	}{
		{
			name: "whole line",
			text: "oops",
			rng:  source.LineRange(1, 4),
			pad:  "",
			mark: "^~~~",
		},
		{
			name: "tab and wide runes",
			text: "\tfoo 世界",
			rng: source.Range{
				Start: source.Position{Line: 1, Character: 5},
				End:   source.Position{Line: 1, Character: 11},
			},
			pad:  "\t    ",
			mark: "^~~~",
		},
		{
			name: "multi-line range runs to end of line",
			text: "- {a",
			rng: source.Range{
				Start: source.Position{Line: 1, Character: 2},
				End:   source.Position{Line: 2, Character: 0},
			},
			pad:  "  ",
			mark: "^~",
		},
		{
			name: "empty range",
			text: "abc",
			rng:  source.Range{Start: source.Position{Line: 1, Character: 3}, End: source.Position{Line: 1, Character: 3}},
			pad:  "   ",
			mark: "^",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad, mark := caret(tt.text, tt.rng)
			if pad != tt.pad || mark != tt.mark {
				t.Errorf("caret = (%q, %q), want (%q, %q)", pad, mark, tt.pad, tt.mark)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleFile(), sampleDiags(), JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 2 || out.Errors != 1 {
		t.Fatalf("count=%d errors=%d", out.Count, out.Errors)
	}
	if loc := out.Diagnostics[0].Location; loc.StartLine != 0 || loc.File != "a.lu" {
		t.Errorf("location-less diagnostic got %+v", loc)
	}
	loc := out.Diagnostics[1].Location
	if loc.StartLine != 3 || loc.StartCol != 1 || loc.EndCol != 5 {
		t.Errorf("location = %+v", loc)
	}
}

func TestJSONMaxAcrossFiles(t *testing.T) {
	out := DiagnosticsOutput{}
	opts := JSONOpts{Max: 3}
	Append(&out, sampleFile(), sampleDiags(), opts)
	Append(&out, source.NewFile("b.lu", []byte(sample), 0), sampleDiags(), opts)
	if out.Count != 3 {
		t.Fatalf("count = %d, want 3", out.Count)
	}
	if out.Diagnostics[2].Location.File != "b.lu" {
		t.Errorf("third entry from %q", out.Diagnostics[2].Location.File)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, DiagnosticsOutput{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"diagnostics": []`)) {
		t.Errorf("empty output must carry an empty array: %s", buf.String())
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, sampleFile(), sampleDiags(), PathModeBasename, ""); err != nil {
		t.Fatal(err)
	}
	want := "warning STR2001 a.lu:0:1 no utterances\nerror SYN1002 a.lu:3:1 invalid line\n"
	if buf.String() != want {
		t.Errorf("Short = %q, want %q", buf.String(), want)
	}
}
