package lufile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromResourceFlattensChildren(t *testing.T) {
	doc := Parse("doc", nestedDoc)
	parent, ok := doc.Intent("P")
	if !ok {
		t.Fatalf("intents = %v", names(doc))
	}
	for _, child := range parent.Children {
		flat, ok := doc.Intent(JoinName("P", child.Name))
		if !ok {
			t.Fatalf("child %q is not flattened", child.Name)
		}
		flat.Name = child.Name
		if diff := cmp.Diff(child, flat, equateEmpty); diff != "" {
			t.Fatalf("flattened child differs (-tree +flat):\n%s", diff)
		}
	}
	if parent.Entities != nil {
		t.Fatalf("group entities = %v", parent.Entities)
	}
}

func TestEmptyFlag(t *testing.T) {
	if !Parse("doc", "").Empty {
		t.Fatal("empty content is empty")
	}
	if !Parse("doc", "\r\n> just a comment\r\n").Empty {
		t.Fatal("comments alone produce no sections")
	}
	if Parse("doc", "> !# @enableSections = true\r\n").Empty {
		t.Fatal("model info is a section")
	}
}

func TestDocumentHasErrors(t *testing.T) {
	if Parse("doc", "# A\r\n- a\r\n").HasErrors() {
		t.Fatal("clean document")
	}
	doc := Parse("doc", "stray line\r\n# A\r\n- a\r\n")
	if !doc.HasErrors() {
		t.Fatal("stray line is an error")
	}
	if doc.Diagnostics[0].Source != "doc" {
		t.Fatalf("source = %q", doc.Diagnostics[0].Source)
	}
}

func TestIsEmptyIntent(t *testing.T) {
	var nilIntent *IntentSection
	if !nilIntent.IsEmpty() || !(&IntentSection{}).IsEmpty() {
		t.Fatal("nil and zero intents are empty")
	}
	if (&IntentSection{Name: "A"}).IsEmpty() {
		t.Fatal("named intent is not empty")
	}
}

func TestTopLevelSkipsFlattenedChildren(t *testing.T) {
	doc := Parse("a.lu", "# Group\r\n## A\r\n- a\r\n## B\r\n- b\r\n# Simple\r\n- s\r\n")
	if len(doc.Intents) != 4 {
		t.Fatalf("intents = %d, want 4", len(doc.Intents))
	}
	top := doc.TopLevel()
	if len(top) != 2 || top[0].Name != "Group" || top[1].Name != "Simple" {
		t.Fatalf("TopLevel = %+v", top)
	}
	if len(top[0].Children) != 2 {
		t.Errorf("group children = %d, want 2", len(top[0].Children))
	}
}
