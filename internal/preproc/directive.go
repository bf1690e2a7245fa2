package preproc

import (
	"strings"

	"metalint/internal/source"
)

// DirKind classifies a preprocessor directive line.
type DirKind uint8

const (
	DirNone DirKind = iota // не директива
	DirIf
	DirIfdef
	DirIfndef
	DirElif
	DirElse
	DirEndif
	DirDefine
	DirUndef
	DirInclude
	DirPragmaOnce
	DirPragma // любая другая #pragma
	DirError
	DirUnknown
)

// Directive is one parsed preprocessor line.
type Directive struct {
	Kind DirKind
	Span source.Span

	Cond    string // выражение для #if/#elif
	Name    string // имя для #ifdef/#ifndef/#define/#undef
	Macro   Macro  // полное определение для #define
	Target  string // путь для #include
	Angle   bool   // #include <...> против "..."
	Message string // текст #error
	Raw     string // вся строка без '#'
}

// ParseDirective parses a logical line (continuations already joined) that
// starts with '#'. The span covers the whole logical line.
func ParseDirective(line string, span source.Span) Directive {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))
	d := Directive{Span: span, Raw: rest}

	word := rest
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		word = rest[:i]
		rest = strings.TrimSpace(rest[i+1:])
	} else {
		rest = ""
	}

	switch word {
	case "if":
		d.Kind = DirIf
		d.Cond = rest
	case "ifdef":
		d.Kind = DirIfdef
		d.Name = firstWord(rest)
	case "ifndef":
		d.Kind = DirIfndef
		d.Name = firstWord(rest)
	case "elif":
		d.Kind = DirElif
		d.Cond = rest
	case "else":
		d.Kind = DirElse
	case "endif":
		d.Kind = DirEndif
	case "define":
		d.Kind = DirDefine
		d.Macro = parseDefine(rest)
		d.Name = d.Macro.Name
	case "undef":
		d.Kind = DirUndef
		d.Name = firstWord(rest)
	case "include":
		d.Kind = DirInclude
		d.Target, d.Angle = parseIncludeTarget(rest)
	case "pragma":
		if firstWord(rest) == "once" {
			d.Kind = DirPragmaOnce
		} else {
			d.Kind = DirPragma
		}
	case "error":
		d.Kind = DirError
		d.Message = strings.Trim(rest, "\"")
	case "":
		// одинокий '#' — легальная пустая директива
		d.Kind = DirNone
	default:
		d.Kind = DirUnknown
		d.Name = word
	}
	return d
}

func firstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}

// parseDefine разбирает "NAME body" и "NAME(a, b) body".
// Скобка приклеена к имени — признак функционального макроса.
func parseDefine(rest string) Macro {
	m := Macro{}
	i := 0
	for i < len(rest) && isCondIdentByte(rest[i], i == 0) {
		i++
	}
	m.Name = rest[:i]

	if i < len(rest) && rest[i] == '(' {
		m.FnLike = true
		end := strings.IndexByte(rest[i:], ')')
		if end < 0 {
			// незакрытый список параметров; оставшееся — тело
			m.Body = strings.TrimSpace(rest[i:])
			return m
		}
		params := rest[i+1 : i+end]
		for _, p := range strings.Split(params, ",") {
			if p = strings.TrimSpace(p); p != "" {
				m.Params = append(m.Params, p)
			}
		}
		m.Body = strings.TrimSpace(rest[i+end+1:])
		return m
	}
	m.Body = strings.TrimSpace(rest[i:])
	return m
}

func parseIncludeTarget(rest string) (target string, angle bool) {
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "<") {
		if end := strings.IndexByte(rest, '>'); end > 0 {
			return rest[1:end], true
		}
		return strings.TrimPrefix(rest, "<"), true
	}
	if strings.HasPrefix(rest, "\"") {
		body := rest[1:]
		if end := strings.IndexByte(body, '"'); end >= 0 {
			return body[:end], false
		}
		return body, false
	}
	return firstWord(rest), false
}
