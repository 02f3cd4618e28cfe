package parser

import (
	"reflect"
	"testing"

	"luedit/internal/diag"
)

func TestSimpleIntents(t *testing.T) {
	src := "# Greeting\r\n- hi\r\n- hello\r\n\r\n# Bye\r\n- bye\r\n"
	res := Parse(src, Options{})
	requireClean(t, res)

	if len(res.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(res.Sections))
	}
	g := res.Sections[0]
	if g.Kind != SimpleIntent || g.Name != "Greeting" || g.Body != "- hi\r\n- hello" {
		t.Fatalf("unexpected first section: %+v", g)
	}
	if g.StartLine != 1 || g.EndLine != 3 {
		t.Fatalf("lines = %d..%d", g.StartLine, g.EndLine)
	}
	if got := src[g.Span.Start:g.Span.End]; got != "# Greeting\r\n- hi\r\n- hello\r\n" {
		t.Fatalf("span text = %q", got)
	}
	if !reflect.DeepEqual(g.Utterances, []string{"hi", "hello"}) {
		t.Fatalf("utterances = %q", g.Utterances)
	}

	b := res.Sections[1]
	if b.Name != "Bye" || b.StartLine != 5 || b.EndLine != 6 {
		t.Fatalf("unexpected second section: %+v", b)
	}
	if got := src[b.Span.Start:b.Span.End]; got != "# Bye\r\n- bye\r\n" {
		t.Fatalf("span text = %q", got)
	}
	if b.ID == g.ID {
		t.Fatal("section ids must differ")
	}
}

func TestLastSectionWithoutNewline(t *testing.T) {
	src := "# A\n- a"
	res := Parse(src, Options{})
	requireClean(t, res)
	s := res.Sections[0]
	if s.Body != "- a" || s.Span.End != uint32(len(src)) {
		t.Fatalf("section = %+v", s)
	}
}

func TestNestedGroup(t *testing.T) {
	src := "> !# @enableSections = true\r\n" +
		"# CheckEmail\r\n" +
		"## CheckUnread\r\n" +
		"- any new mail\r\n" +
		"\r\n" +
		"## CheckWork\r\n" +
		"- work mail\r\n" +
		"@ ml sender\r\n"
	res := Parse(src, Options{})
	requireClean(t, res)

	if !res.SectionsEnabled {
		t.Fatal("expected SectionsEnabled")
	}
	if len(res.Sections) != 2 || res.Sections[0].Kind != ModelInfo {
		t.Fatalf("unexpected sections: %+v", res.Sections)
	}
	group := res.Sections[1]
	if group.Kind != NestedIntentGroup || len(group.Children) != 2 {
		t.Fatalf("unexpected group: %+v", group)
	}
	wantBody := "## CheckUnread\r\n- any new mail\r\n\r\n## CheckWork\r\n- work mail\r\n@ ml sender"
	if group.Body != wantBody {
		t.Fatalf("group body = %q", group.Body)
	}
	work, ok := group.Child("CheckWork")
	if !ok || work.Body != "- work mail\r\n@ ml sender" || work.Level != 2 {
		t.Fatalf("child = %+v", work)
	}
	if !reflect.DeepEqual(work.Entities, []string{"sender"}) {
		t.Fatalf("entities = %q", work.Entities)
	}
	unread, _ := group.Child("CheckUnread")
	if unread.StartLine != 3 || unread.EndLine != 4 {
		t.Fatalf("child lines = %d..%d", unread.StartLine, unread.EndLine)
	}
	if _, ok := group.Child("Missing"); ok {
		t.Fatal("unexpected child")
	}
}

func TestNestedGroupWithoutDirective(t *testing.T) {
	res := Parse("# P\n## C\n- c\n", Options{})
	requireCodes(t, res, diag.StructSectionsDisabled)
	if res.Errors[0].Severity != SeverityInformation {
		t.Fatalf("severity = %s", res.Errors[0].Severity)
	}
	if res.Sections[0].Kind != NestedIntentGroup {
		t.Fatal("group must still be structural")
	}
}

func TestModelInfoOnlyBeforeFirstHeading(t *testing.T) {
	res := Parse("> !# @app.name = Bot\n> note\n# A\n- a\n> !# @late = 1\n", Options{})
	requireClean(t, res)
	if len(res.Sections) != 2 {
		t.Fatalf("sections = %d", len(res.Sections))
	}
	mi := res.Sections[0]
	if mi.Kind != ModelInfo || mi.Name != "app.name" || mi.Body != "> !# @app.name = Bot" {
		t.Fatalf("model info = %+v", mi)
	}
	if res.Sections[1].EndLine != 5 {
		t.Fatalf("directive inside a section belongs to it, end line = %d", res.Sections[1].EndLine)
	}
	if len(res.Intents()) != 1 {
		t.Fatalf("Intents = %d", len(res.Intents()))
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"outside section", "- hi\n# A\n- a\n", []diag.Code{diag.SynContentOutsideSection}},
		{"orphan child", "## C\n- c\n", []diag.Code{diag.SynOrphanChild, diag.SynContentOutsideSection}},
		{"empty heading", "#\n- a\n", []diag.Code{diag.SynInvalidHeading}},
		{"invalid body line", "# A\n- a\nhello\n", []diag.Code{diag.SynInvalidBodyLine}},
		{"deep heading", "# A\n- a\n### deep\n", []diag.Code{diag.SynInvalidBodyLine}},
		{"braces", "# A\n- {a\n", []diag.Code{diag.SynUnbalancedBraces}},
		{"bad entity", "# A\n- a\n@ ml\n", []diag.Code{diag.SynInvalidEntity}},
		{"no utterances", "# A\n> only a comment\n", []diag.Code{diag.StructNoUtterances}},
		{"duplicate", "# A\n- a\n# A\n- b\n", []diag.Code{diag.StructDuplicateSection}},
		{"text before child", "> !# @enableSections = true\n# P\n- p\n## C\n- c\n", []diag.Code{diag.SynTextBeforeChild}},
		{"duplicate child", "> !# @enableSections = true\n# P\n## C\n- a\n## C\n- b\n", []diag.Code{diag.StructDuplicateChild}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCodes(t, Parse(tt.src, Options{}), tt.want...)
		})
	}
}

func TestDiagnosticRanges(t *testing.T) {
	res := Parse("# A\n- a\nhello there\n- {x\n", Options{})
	requireCodes(t, res, diag.SynInvalidBodyLine, diag.SynUnbalancedBraces)

	line := res.Errors[0].Range
	if line == nil || line.Start.Line != 3 || line.Start.Character != 0 || line.End.Character != 11 {
		t.Fatalf("invalid line range = %v", line)
	}
	brace := res.Errors[1].Range
	if brace == nil || brace.Start.Line != 4 || brace.Start.Character != 2 || brace.End.Character != 4 {
		t.Fatalf("brace range = %v", brace)
	}
	if res.Errors[0].Severity != SeverityError {
		t.Fatalf("severity = %s", res.Errors[0].Severity)
	}
}

func TestMaxErrors(t *testing.T) {
	res := Parse("a\nb\nc\nd\n", Options{MaxErrors: 2})
	requireCodes(t, res, diag.SynContentOutsideSection, diag.SynContentOutsideSection, diag.SynTooManyErrors)
	if res.Errors[2].Range != nil {
		t.Fatal("summary error has no location")
	}
}

func TestEmptyAndMalformedInputs(t *testing.T) {
	inputs := []string{
		"", "\n", "\r\n\r\n", "#", "##", "# ", "\r", "- \\", "@", ">", "}{", "# A\r", "\xff\xfe# x",
	}
	for _, in := range inputs {
		res := Parse(in, Options{})
		if res == nil || res.Content != in {
			t.Fatalf("Parse(%q) lost content", in)
		}
	}
	if res := Parse("", Options{}); len(res.Sections) != 0 || len(res.Errors) != 0 {
		t.Fatalf("empty input: %+v", res)
	}
}

func TestSectionLookup(t *testing.T) {
	res := Parse("# A\n- a\n# B\n- b\n", Options{})
	s, ok := res.Section(res.Sections[1].ID)
	if !ok || s.Name != "B" {
		t.Fatalf("Section lookup = %+v, %v", s, ok)
	}
	if _, ok := res.Section("nope"); ok {
		t.Fatal("unexpected section")
	}
	if res.HasErrors() {
		t.Fatal("unexpected errors")
	}
}

func TestEntityName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ml name", "name", true},
		{"list color =", "color", true},
		{"prebuilt number hasRoles r1", "number", true},
		{"ml address:street", "address", true},
		{"ml", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := entityName(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("entityName(%q) = %q, %v", tt.in, got, ok)
		}
	}
}
