package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Препроцессор / директивы
	PPInfo               Code = 2000
	PPExplicitError      Code = 2001 // #error reached in an active region
	PPMalformedDirective Code = 2002 // unbalanced or invalid conditional chain
	PPUnknownDirective   Code = 2003
	PPBadCondition       Code = 2004 // unparsable #if expression

	// Семантические (символы и перегрузки)
	SemaInfo                Code = 3000
	SemaDuplicateDefinition Code = 3001
	SemaUnresolvedReference Code = 3002
	SemaAmbiguousOverload   Code = 3003

	// Граф включений
	IncInfo           Code = 4000
	IncMissingInclude Code = 4001
	IncIncludeCycle   Code = 4002
	IncLoadError      Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	PPInfo:                      "Preprocessor information",
	PPExplicitError:             "Explicit #error directive",
	PPMalformedDirective:        "Malformed conditional directive",
	PPUnknownDirective:          "Unknown preprocessor directive",
	PPBadCondition:              "Unparsable preprocessor condition",
	SemaInfo:                    "Semantic information",
	SemaDuplicateDefinition:     "Conflicting redefinition",
	SemaUnresolvedReference:     "Unresolved reference",
	SemaAmbiguousOverload:       "Ambiguous overload resolution",
	IncInfo:                     "Include graph information",
	IncMissingInclude:           "Unresolvable include target",
	IncIncludeCycle:             "Include cycle detected",
	IncLoadError:                "Include target failed to load",
}

// classification slugs, стабильная часть публичного вывода
var codeClass = map[Code]string{
	PPExplicitError:         "explicit-error",
	PPMalformedDirective:    "malformed-directive",
	PPUnknownDirective:      "unknown-directive",
	PPBadCondition:          "malformed-directive",
	SemaDuplicateDefinition: "duplicate-definition",
	SemaUnresolvedReference: "unresolved-reference",
	SemaAmbiguousOverload:   "ambiguous-overload",
	IncMissingInclude:       "missing-include",
	IncIncludeCycle:         "include-cycle",
	IncLoadError:            "missing-include",
}

// ID returns the stable string form used in golden output (PP2001 etc.).
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("PP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("INC%04d", ic)
	}
	return "E0000"
}

// Class returns the classification slug for consumers that key on the
// error taxonomy rather than numeric codes.
func (c Code) Class() string {
	if s, ok := codeClass[c]; ok {
		return s
	}
	return "internal"
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
