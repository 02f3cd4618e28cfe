package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксис LU
	SynInfo                  Code = 1000
	SynInvalidHeading        Code = 1001
	SynInvalidBodyLine       Code = 1002
	SynUnbalancedBraces      Code = 1003
	SynContentOutsideSection Code = 1004
	SynOrphanChild           Code = 1005
	SynTextBeforeChild       Code = 1006
	SynInvalidEntity         Code = 1007
	SynTooManyErrors         Code = 1099

	// Структурные предупреждения
	StructInfo             Code = 2000
	StructNoUtterances     Code = 2001
	StructDuplicateSection Code = 2002
	StructDuplicateChild   Code = 2003
	StructSectionsDisabled Code = 2004
	StructEmptyNestedGroup Code = 2005

	// Правки
	EditInfo             Code = 3000
	EditNotSingleSection Code = 3001
	EditNameMismatch     Code = 3002
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	SynInfo:                  "Syntax information",
	SynInvalidHeading:        "Invalid section heading",
	SynInvalidBodyLine:       "Invalid line in section body",
	SynUnbalancedBraces:      "Unbalanced braces in utterance",
	SynContentOutsideSection: "Content outside of any section",
	SynOrphanChild:           "Child heading without a parent section",
	SynTextBeforeChild:       "Text before the first child of a nested group",
	SynInvalidEntity:         "Invalid entity definition",
	SynTooManyErrors:         "Too many errors",
	StructInfo:               "Structure information",
	StructNoUtterances:       "Intent has no utterances",
	StructDuplicateSection:   "Duplicate section name",
	StructDuplicateChild:     "Duplicate child name in nested group",
	StructSectionsDisabled:   "Nested sections used without enableSections",
	StructEmptyNestedGroup:   "Nested group has no children",
	EditInfo:                 "Edit information",
	EditNotSingleSection:     "Edited text must be exactly one section",
	EditNameMismatch:         "Edited section name does not match",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("STR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EDT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
