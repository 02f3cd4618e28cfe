package token

// Kind represents the category of a source line.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Blank is an empty or whitespace-only line.
	Blank
	// Heading is "# Name" (level 1), "## Name" (level 2) and deeper.
	Heading
	// Utterance is a list item starting with '-', '*' or '+'.
	Utterance
	// Comment is a line starting with '>'.
	Comment
	// Directive is a comment of the form "> !# @name = value".
	Directive
	// EntityDef is a line starting with '@'.
	EntityDef
	// Text is any other line; the parser reports it inside section bodies.
	Text
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Blank:     "Blank",
	Heading:   "Heading",
	Utterance: "Utterance",
	Comment:   "Comment",
	Directive: "Directive",
	EntityDef: "EntityDef",
	Text:      "Text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
