package parser

import "strings"

// entityName extracts the entity name from "<type> <name> [= ...]".
func entityName(def string) (string, bool) {
	def, _, _ = strings.Cut(def, "=")
	fields := strings.Fields(def)
	if len(fields) < 2 {
		return "", false
	}
	name := fields[1]
	if i := strings.IndexAny(name, ":;"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return name, true
}
