package lufile

import (
	"errors"
	"fmt"
	"strings"

	"luedit/internal/parser"
	"luedit/internal/section"
)

// ErrIntentNotFound is returned by ReplaceIntent when the target is missing.
var ErrIntentNotFound = errors.New("intent not found")

// ErrNotGroup is returned when a composite name points into a plain intent
// that has a body of its own.
var ErrNotGroup = errors.New("intent is not a nested group")

// UpdateIntent adds, updates or deletes the intent called name.
//
// An empty intent deletes; deleting a missing intent returns the document
// of the unchanged content. For "Parent/Child" the whole parent section is
// re-rendered from its children with the child replaced, appended or
// removed; a missing parent is created and lines before the first child
// are kept. Plain names replace the section in place or append a new one
// at the end of the document.
//
// Errors: ErrUnsupportedName, and ErrNotGroup when the parent is a plain
// intent with a body.
func UpdateIntent(id, content, name string, intent *IntentSection) (*Document, error) {
	parent, child, nested, err := SplitName(name)
	if err != nil {
		return nil, err
	}
	res := parse(id, content)

	if intent.IsEmpty() {
		if !nested {
			return deleteTopLevel(id, res, name)
		}
		if _, _, ok := FindChild(res, parent, child); !ok {
			return FromResource(id, res), nil
		}
	}

	var (
		target *parser.Section
		found  bool
		text   string
	)
	if nested {
		target, found = FindSection(res, parent)
		if found {
			if target.Kind == parser.SimpleIntent && strings.TrimSpace(target.Body) != "" {
				return nil, fmt.Errorf("update intent %q: %q: %w", name, parent, ErrNotGroup)
			}
			children := updateInSections(childIntents(target), child, intent)
			body := RenderIntents(children, 2)
			if pre := groupPreamble(res, target); pre != "" {
				body = strings.TrimSuffix(pre+NewLine+body, NewLine)
			}
			text = RenderIntent(&IntentSection{Name: target.Name, Body: body}, 1, false)
		} else {
			text = RenderIntent(&IntentSection{Name: parent, Body: RenderIntent(intent, 2, false)}, 1, false)
		}
	} else {
		target, found = FindSection(res, name)
		text = RenderIntent(intent, 1, false)
	}

	op := section.NewOperator(res, parseOptions(id))
	if found {
		out, err := op.UpdateSection(target.ID, text)
		if err != nil {
			return nil, fmt.Errorf("update intent %q: %w", name, err)
		}
		return FromResource(id, out), nil
	}
	if text == "" {
		// нечего добавлять
		return FromResource(id, res), nil
	}
	return FromResource(id, op.AddSection(NewLine+text)), nil
}

// AddIntent adds or updates intent under its own name. A composite name
// locates the parent; the child part becomes the heading.
func AddIntent(id, content string, intent IntentSection) (*Document, error) {
	name := intent.Name
	payload := IntentSection{
		Name:     displayName(intent.Name),
		Body:     intent.Body,
		Entities: intent.Entities,
	}
	return UpdateIntent(id, content, name, &payload)
}

// RemoveIntent deletes the intent called name. Missing intents are a no-op.
func RemoveIntent(id, content, name string) (*Document, error) {
	_, _, nested, err := SplitName(name)
	if err != nil {
		return nil, err
	}
	if nested {
		return UpdateIntent(id, content, name, nil)
	}
	return deleteTopLevel(id, parse(id, content), name)
}

// ReplaceIntent updates an intent that must already exist. It returns
// ErrIntentNotFound instead of adding a missing intent.
func ReplaceIntent(id, content, name string, intent IntentSection) (*Document, error) {
	parent, child, nested, err := SplitName(name)
	if err != nil {
		return nil, err
	}
	res := parse(id, content)
	if nested {
		_, _, found := FindChild(res, parent, child)
		if !found {
			return nil, fmt.Errorf("replace %q: %w", name, ErrIntentNotFound)
		}
	} else if _, found := FindSection(res, name); !found {
		return nil, fmt.Errorf("replace %q: %w", name, ErrIntentNotFound)
	}
	return UpdateIntent(id, content, name, &intent)
}

func deleteTopLevel(id string, res *parser.Resource, name string) (*Document, error) {
	target, ok := FindSection(res, name)
	if !ok {
		return FromResource(id, res), nil
	}
	out, err := section.NewOperator(res, parseOptions(id)).DeleteSection(target.ID)
	if err != nil {
		return nil, fmt.Errorf("remove intent %q: %w", name, err)
	}
	return FromResource(id, out), nil
}

// updateInSections replaces the section called name, appends it when
// absent, or drops it when intent is empty.
func updateInSections(sections []IntentSection, name string, intent *IntentSection) []IntentSection {
	if intent.IsEmpty() {
		out := sections[:0]
		for _, s := range sections {
			if s.Name != name {
				out = append(out, s)
			}
		}
		return out
	}
	for i := range sections {
		if sections[i].Name == name {
			sections[i] = *intent
			return sections
		}
	}
	return append(sections, *intent)
}

func childIntents(group *parser.Section) []IntentSection {
	out := make([]IntentSection, 0, len(group.Children))
	for _, c := range group.Children {
		out = append(out, intentFrom(c))
	}
	return out
}

// groupPreamble returns the lines between the heading of group and its
// first child, without trailing line breaks.
func groupPreamble(res *parser.Resource, group *parser.Section) string {
	if group.Kind != parser.NestedIntentGroup || len(group.Children) == 0 {
		return ""
	}
	_, _, next, ok := res.File.LineBounds(group.StartLine)
	first := group.Children[0].Span.Start
	if !ok || next >= first {
		return ""
	}
	return strings.TrimRight(string(res.File.Content[next:first]), "\r\n")
}

func parseOptions(id string) parser.Options {
	return parser.Options{Path: id}
}

func parse(id, content string) *parser.Resource {
	return parser.Parse(content, parseOptions(id))
}
