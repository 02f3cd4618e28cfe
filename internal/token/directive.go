package token

import "strings"

// DirectivePrefix starts every model directive line.
const DirectivePrefix = "> !#"

// EnableSectionsDirective turns on nested intent groups for a document.
const EnableSectionsDirective = "> !# @enableSections = true"

// ParseDirective splits "> !# @name = value" into name and value.
// ok is false when text is not a directive.
func ParseDirective(text string) (name, value string, ok bool) {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, DirectivePrefix) {
		return "", "", false
	}
	s = strings.TrimSpace(s[len(DirectivePrefix):])
	if !strings.HasPrefix(s, "@") {
		return "", "", false
	}
	s = s[1:]
	name, value, found := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	if found {
		value = strings.TrimSpace(value)
	}
	return name, value, true
}
