package lufile

import (
	"errors"
	"fmt"
	"strings"

	"luedit/internal/parser"
)

// NameSeparator splits composite intent names.
const NameSeparator = "/"

// ErrUnsupportedName is returned for names nested deeper than one level
// and for composite names with an empty part.
var ErrUnsupportedName = errors.New("unsupported intent name")

// SplitName splits "Parent/Child" into its parts. Plain names return
// nested == false.
func SplitName(name string) (parent, child string, nested bool, err error) {
	switch strings.Count(name, NameSeparator) {
	case 0:
		return name, "", false, nil
	case 1:
		parent, child, _ = strings.Cut(name, NameSeparator)
		if parent == "" || child == "" {
			return "", "", false, fmt.Errorf("%q: composite name has an empty part: %w", name, ErrUnsupportedName)
		}
		return parent, child, true, nil
	default:
		return "", "", false, fmt.Errorf("%q: only one level of nesting is supported: %w", name, ErrUnsupportedName)
	}
}

// JoinName builds the composite name of a nested child.
func JoinName(parent, child string) string {
	return parent + NameSeparator + child
}

// displayName is the part of a name a heading shows.
func displayName(name string) string {
	if !strings.Contains(name, NameSeparator) {
		return name
	}
	return strings.Split(name, NameSeparator)[1]
}

// FindSection returns the first top-level intent section named name.
// Model info sections are never matched.
func FindSection(res *parser.Resource, name string) (*parser.Section, bool) {
	for _, s := range res.Sections {
		if s.IsIntent() && s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// FindChild returns the nested group named parent and its child named child.
// ok is false when the group or the child is missing.
func FindChild(res *parser.Resource, parent, child string) (group, sec *parser.Section, ok bool) {
	group, found := FindSection(res, parent)
	if !found || group.Kind != parser.NestedIntentGroup {
		return nil, nil, false
	}
	sec, found = group.Child(child)
	if !found {
		return group, nil, false
	}
	return group, sec, true
}
