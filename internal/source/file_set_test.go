package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("greet.lu", []byte("# Greeting\n- hi\n"), 0)
	id2 := fs.Add("greet.lu", []byte("# Greeting\n- hello\n"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d, %d", id1, id2)
	}

	latest, ok := fs.GetLatest("greet.lu")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "# Greeting\n- hi\n" {
		t.Fatalf("first version changed: %q", got)
	}
	if fs.Len() != 2 {
		t.Fatalf("Len = %d, want 2", fs.Len())
	}
}

func TestAddKeepsCRLF(t *testing.T) {
	fs := NewFileSet()
	content := []byte("# A\r\n- a\r\n\r\n# B\r\n- b")
	f := fs.Get(fs.AddVirtual("crlf.lu", content))

	if string(f.Content) != string(content) {
		t.Fatalf("content was rewritten: %q", f.Content)
	}
	if f.Flags&FileHasCRLF == 0 {
		t.Fatal("expected FileHasCRLF flag")
	}
	if f.Flags&FileVirtual == 0 {
		t.Fatal("expected FileVirtual flag")
	}
	if got := f.GetLine(2); got != "- a" {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(5); got != "- b" {
		t.Fatalf("GetLine(5) = %q", got)
	}
	if got := f.GetLine(6); got != "" {
		t.Fatalf("GetLine(6) = %q, want empty", got)
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\r\nb\r\n", 2},
		{"\n\n", 2},
	}
	for _, tt := range tests {
		f := NewFile("x.lu", []byte(tt.content), 0)
		if got := f.LineCount(); got != tt.want {
			t.Errorf("LineCount(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestLineBounds(t *testing.T) {
	f := NewFile("x.lu", []byte("# A\r\n- a\nlast"), 0)

	start, textEnd, next, ok := f.LineBounds(1)
	if !ok || start != 0 || textEnd != 3 || next != 5 {
		t.Fatalf("line 1 bounds = %d %d %d %v", start, textEnd, next, ok)
	}
	start, textEnd, next, ok = f.LineBounds(2)
	if !ok || start != 5 || textEnd != 8 || next != 9 {
		t.Fatalf("line 2 bounds = %d %d %d %v", start, textEnd, next, ok)
	}
	start, textEnd, next, ok = f.LineBounds(3)
	if !ok || start != 9 || textEnd != 13 || next != 13 {
		t.Fatalf("line 3 bounds = %d %d %d %v", start, textEnd, next, ok)
	}
	if _, _, _, ok = f.LineBounds(4); ok {
		t.Fatal("line 4 must be out of range")
	}
	if _, _, _, ok = f.LineBounds(0); ok {
		t.Fatal("line 0 must be out of range")
	}
}

func TestPositionAtRoundTrip(t *testing.T) {
	f := NewFile("x.lu", []byte("# Greeting\r\n- hi\r\n"), 0)

	pos := f.PositionAt(14)
	if pos.Line != 2 || pos.Character != 2 {
		t.Fatalf("PositionAt(14) = %s", pos)
	}
	if off := f.OffsetAt(pos); off != 14 {
		t.Fatalf("OffsetAt(%s) = %d", pos, off)
	}
	if off := f.OffsetAt(Position{Line: 1, Character: 99}); off != 10 {
		t.Fatalf("clamped offset = %d, want 10", off)
	}
	if off := f.OffsetAt(Position{}); off != 0 {
		t.Fatalf("zero position offset = %d", off)
	}
}

func TestResolveMultibyte(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("utf.lu", []byte("# Привет\n- мир"))
	start, end := fs.Resolve(Span{File: id, Start: 17, End: 23})
	if start.Line != 2 || start.Col != 3 {
		t.Fatalf("start = %+v", start)
	}
	if end.Line != 2 || end.Col != 9 {
		t.Fatalf("end = %+v", end)
	}
}

func TestLoadStripsBOMOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.lu")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("# A\r\n- a\r\n")...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "# A\r\n- a\r\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileHasCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if _, ok := fs.GetByPath(path); !ok {
		t.Fatal("GetByPath did not find loaded file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.lu")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFormatPath(t *testing.T) {
	f := NewFile("/very/long/path/to/some/project/dir/intents/greeting.lu", nil, 0)
	if got := f.FormatPath("basename", ""); got != "greeting.lu" {
		t.Fatalf("basename = %q", got)
	}
	if got := f.FormatPath("auto", ""); got != "greeting.lu" {
		t.Fatalf("auto = %q", got)
	}
	short := NewFile("a/b.lu", nil, 0)
	if got := short.FormatPath("auto", ""); got != "a/b.lu" {
		t.Fatalf("auto short = %q", got)
	}
	if got := short.FormatPath("", ""); got != "a/b.lu" {
		t.Fatalf("default = %q", got)
	}
}
