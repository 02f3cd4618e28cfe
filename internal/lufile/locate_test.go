package lufile

import (
	"errors"
	"testing"

	"luedit/internal/parser"
)

func TestSplitName(t *testing.T) {
	parent, child, nested, err := SplitName("CheckEmail/CheckUnread")
	if err != nil || !nested || parent != "CheckEmail" || child != "CheckUnread" {
		t.Fatalf("SplitName = %q %q %v %v", parent, child, nested, err)
	}
	parent, child, nested, err = SplitName("Greeting")
	if err != nil || nested || parent != "Greeting" || child != "" {
		t.Fatalf("SplitName = %q %q %v %v", parent, child, nested, err)
	}
	if _, _, _, err = SplitName("a/b/c"); !errors.Is(err, ErrUnsupportedName) {
		t.Fatalf("deep name err = %v", err)
	}
	for _, name := range []string{"A/", "/C", "/"} {
		if _, _, _, err = SplitName(name); !errors.Is(err, ErrUnsupportedName) {
			t.Fatalf("SplitName(%q) err = %v, want ErrUnsupportedName", name, err)
		}
	}
}

func TestFindSectionSkipsModelInfo(t *testing.T) {
	res := parser.Parse("> !# @A = 1\r\n# A\r\n- a\r\n", parser.Options{})
	s, ok := FindSection(res, "A")
	if !ok || s.Kind != parser.SimpleIntent {
		t.Fatalf("FindSection = %+v, %v", s, ok)
	}
	if _, ok := FindSection(res, "missing"); ok {
		t.Fatal("missing section found")
	}
}

func TestFindChild(t *testing.T) {
	res := parser.Parse("# P\r\n## C\r\n- c\r\n# S\r\n- s\r\n", parser.Options{})
	group, child, ok := FindChild(res, "P", "C")
	if !ok || group.Name != "P" || child.Name != "C" {
		t.Fatalf("FindChild = %+v %+v %v", group, child, ok)
	}
	if _, _, ok := FindChild(res, "P", "X"); ok {
		t.Fatal("missing child found")
	}
	if _, _, ok := FindChild(res, "S", "C"); ok {
		t.Fatal("simple intent has no children")
	}
	if _, _, ok := FindChild(res, "X", "C"); ok {
		t.Fatal("missing parent found")
	}
}
