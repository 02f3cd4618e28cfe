package parser

import (
	"fmt"

	"luedit/internal/diag"
	"luedit/internal/source"
)

// checkStructure emits document-level warnings once all sections are known.
func (p *Parser) checkStructure() {
	seen := make(map[string]int)
	for _, s := range p.res.Sections {
		if !s.IsIntent() {
			continue
		}
		if s.Name != "" {
			if first, dup := seen[s.Name]; dup {
				p.warn(diag.StructDuplicateSection, headingRange(s),
					fmt.Sprintf("section %q is already defined at line %d", s.Name, first))
			} else {
				seen[s.Name] = s.StartLine
			}
		}

		switch s.Kind {
		case SimpleIntent:
			p.checkUtterances(s)
		case NestedIntentGroup:
			if !p.res.SectionsEnabled {
				p.info(diag.StructSectionsDisabled, headingRange(s),
					fmt.Sprintf("nested section %q is used without '> !# @enableSections = true'", s.Name))
			}
			children := make(map[string]bool, len(s.Children))
			for _, c := range s.Children {
				if c.Name != "" && children[c.Name] {
					p.warn(diag.StructDuplicateChild, headingRange(c),
						fmt.Sprintf("child %q is defined twice in %q", c.Name, s.Name))
				}
				children[c.Name] = true
				p.checkUtterances(c)
			}
		}
	}
}

func (p *Parser) checkUtterances(s *Section) {
	if len(s.Utterances) == 0 && s.Name != "" {
		p.warn(diag.StructNoUtterances, headingRange(s),
			fmt.Sprintf("intent %q has no utterances", s.Name))
	}
}

func headingRange(s *Section) source.Range {
	return source.Range{
		Start: source.Position{Line: s.StartLine},
		End:   source.Position{Line: s.StartLine, Character: s.Level + 1 + len(s.Name)},
	}
}
