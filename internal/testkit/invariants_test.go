package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"luedit/internal/lexer"
	"luedit/internal/lufile"
	"luedit/internal/parser"
	"luedit/internal/source"
	"luedit/internal/token"
)

func fixtures(t *testing.T) map[string]string {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("..", "..", "testdata", "lu", "*.lu"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixtures found")
	}
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		// #nosec G304 -- path comes from repository testdata
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		out[filepath.Base(p)] = string(data)
	}
	return out
}

func TestFixturesHoldInvariants(t *testing.T) {
	for name, content := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			file := source.NewFile(name, []byte(content), source.FileVirtual)
			if err := CheckTokenInvariants(file, lexer.All(file, lexer.Options{})); err != nil {
				t.Fatalf("tokens: %v", err)
			}
			res := parser.Parse(content, parser.Options{Path: name})
			if err := CheckResourceInvariants(res); err != nil {
				t.Fatalf("resource: %v", err)
			}
			if err := CheckDocumentInvariants(lufile.FromResource(name, res)); err != nil {
				t.Fatalf("document: %v", err)
			}
		})
	}
}

func TestEditsHoldInvariants(t *testing.T) {
	content := fixtures(t)["nested.lu"]
	steps := []func(string) (*lufile.Document, error){
		func(c string) (*lufile.Document, error) {
			return lufile.AddIntent("n.lu", c, lufile.IntentSection{Name: "Booking/Car", Body: "- rent a car"})
		},
		func(c string) (*lufile.Document, error) {
			return lufile.RemoveIntent("n.lu", c, "Booking/Flight")
		},
		func(c string) (*lufile.Document, error) {
			return lufile.AddIntent("n.lu", c, lufile.IntentSection{Name: "Extra", Body: "- more"})
		},
		func(c string) (*lufile.Document, error) {
			return lufile.RemoveIntent("n.lu", c, "Help")
		},
	}
	for i, step := range steps {
		doc, err := step(content)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if err := CheckDocumentInvariants(doc); err != nil {
			t.Fatalf("step %d: %v\n%s", i, err, doc.Content)
		}
		if err := CheckResourceInvariants(parser.Parse(doc.Content, parser.Options{})); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		content = doc.Content
	}
	if !strings.Contains(content, "## Car") || strings.Contains(content, "## Flight") {
		t.Errorf("unexpected result:\n%s", content)
	}
}

func TestDocumentInvariantViolations(t *testing.T) {
	doc := lufile.Parse("a.lu", "# G\r\n## A\r\n- a\r\n")
	if err := CheckDocumentInvariants(doc); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	broken := *doc
	broken.Intents = broken.Intents[:1]
	if err := CheckDocumentInvariants(&broken); err == nil {
		t.Error("missing flattened child not detected")
	}

	renamed := *doc
	renamed.Intents = append([]lufile.IntentSection(nil), doc.Intents...)
	renamed.Intents[1].Name = "G/B"
	if err := CheckDocumentInvariants(&renamed); err == nil {
		t.Error("misnamed flattened child not detected")
	}

	empty := lufile.Document{ID: "e.lu", Empty: true, Intents: []lufile.IntentSection{{Name: "X"}}}
	if err := CheckDocumentInvariants(&empty); err == nil {
		t.Error("empty document with intents not detected")
	}
}

func TestTokenInvariantViolations(t *testing.T) {
	file := source.NewFile("a.lu", []byte("# A\n- a\n"), source.FileVirtual)
	toks := lexer.All(file, lexer.Options{})
	if err := CheckTokenInvariants(file, toks); err != nil {
		t.Fatalf("valid stream rejected: %v", err)
	}
	if err := CheckTokenInvariants(file, toks[:len(toks)-1]); err == nil {
		t.Error("missing EOF not detected")
	}
	skipped := append([]token.Token(nil), toks[1:]...)
	if err := CheckTokenInvariants(file, skipped); err == nil {
		t.Error("gap not detected")
	}
}
