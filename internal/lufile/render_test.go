package lufile

import (
	"strings"
	"testing"

	"luedit/internal/parser"
)

func TestRenderIntent(t *testing.T) {
	tests := []struct {
		name   string
		intent *IntentSection
		level  int
		enable bool
		want   string
	}{
		{"nil", nil, 1, false, ""},
		{"zero", &IntentSection{}, 1, false, ""},
		{"no body", &IntentSection{Name: "A"}, 1, false, ""},
		{"no body with directive", &IntentSection{Name: "A"}, 1, true, "> !# @enableSections = true\r\n"},
		{"simple", &IntentSection{Name: " Greeting ", Body: "- hi\n- hello"}, 1, false, "# Greeting\r\n- hi\r\n- hello"},
		{"level two", &IntentSection{Name: "Child", Body: "- c"}, 2, false, "## Child\r\n- c"},
		{"composite", &IntentSection{Name: "Parent/Child", Body: "- c"}, 2, false, "## Child\r\n- c"},
		{"directive", &IntentSection{Name: "A", Body: "- a"}, 1, true, "> !# @enableSections = true\r\n# A\r\n- a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderIntent(tt.intent, tt.level, tt.enable); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderIntentsBlankLineJoin(t *testing.T) {
	got := RenderIntents([]IntentSection{
		{Name: "A", Body: "- a"},
		{Name: "B", Body: "- b"},
	}, 2)
	if want := "## A\r\n- a\r\n\r\n## B\r\n- b"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if RenderIntents(nil, 1) != "" {
		t.Fatal("no intents render nothing")
	}
}

func TestEscapeBody(t *testing.T) {
	tests := []struct {
		body  string
		level int
		want  string
	}{
		{"# trap", 1, `- \# trap`},
		{"  #trap", 1, `  - \#trap`},
		{"## deeper", 1, "## deeper"},
		{"#", 1, "#"},
		{"## child", 2, `- \## child`},
		{"# top", 2, "# top"},
		{"- a\r\n# b\nc", 1, "- a\r\n- \\# b\r\nc"},
	}
	for _, tt := range tests {
		if got := EscapeBody(tt.body, tt.level); got != tt.want {
			t.Errorf("EscapeBody(%q, %d) = %q, want %q", tt.body, tt.level, got, tt.want)
		}
	}
}

func TestEscapedBodyStaysInOneSection(t *testing.T) {
	text := RenderIntent(&IntentSection{Name: "Trap", Body: "- safe\r\n# trap"}, 1, false)
	res := parser.Parse(text, parser.Options{})
	if len(res.Intents()) != 1 {
		t.Fatalf("expected one section, got %d", len(res.Intents()))
	}
	if body := res.Intents()[0].Body; !strings.Contains(body, "# trap") {
		t.Fatalf("body lost the literal line: %q", body)
	}
}
