package preproc

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"metalint/internal/diag"
	"metalint/internal/source"
)

// Segment is one ordered event of a file scan: either an active text span to
// hand to the lexer, or an include edge with the macro environment captured
// at the point of inclusion.
type Segment struct {
	// Text segment: полуинтервал активного кода.
	Start, End uint32

	// Include segment (Include != nil): цель и снапшот окружения.
	Include *IncludeEdge
}

// IncludeEdge captures one #include reached in an active region.
type IncludeEdge struct {
	Target string
	Angle  bool
	Span   source.Span
	Env    *Env // иммутабельный снапшот на момент включения
}

// Result of scanning one file under one macro environment.
type Result struct {
	Segments   []Segment
	PragmaOnce bool
	// Fatal: остаток файла не анализировался (#error в активной области
	// или структурная ошибка условных директив).
	Fatal bool
}

// условный фрейм: ровно ноль или одна ветка цепочки активна
type condFrame struct {
	active   bool // тело текущей ветки активно
	parent   bool // был ли активен внешний контекст
	taken    bool // какая-то ветка цепочки уже сработала
	elseSeen bool
	span     source.Span
}

// Scanner walks the directive structure of one file against a macro
// environment, deciding which spans are active. It mutates env in place:
// the caller owns the copy and must pass a fresh Clone per include edge.
type Scanner struct {
	file     *source.File
	env      *Env
	reporter diag.Reporter

	frames []condFrame
	out    Result

	segStart  uint32 // начало текущего текстового сегмента
	inText    bool
	inComment bool // открытый /* */ переносится между строками
}

// NewScanner creates a scanner for file under env.
func NewScanner(file *source.File, env *Env, reporter diag.Reporter) *Scanner {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Scanner{file: file, env: env, reporter: reporter}
}

// Scan performs the single forward pass and returns the ordered segments.
func (s *Scanner) Scan() Result {
	content := s.file.Content
	lineStart := uint32(0)
	n, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("file content overflow: %w", err))
	}

	for lineStart < n {
		lineEnd := lineStart
		for lineEnd < n && content[lineEnd] != '\n' {
			lineEnd++
		}

		logicalEnd := lineEnd
		line := string(content[lineStart:lineEnd])

		// строка, начинающаяся внутри блочного комментария, — не директива:
		// закомментированный #error или #endif должен быть проигнорирован
		isDirective := !s.inComment && isDirectiveLine(line)
		if isDirective {
			// склейка продолжений: backslash в конце строки
			for strings.HasSuffix(strings.TrimRight(line, " \t"), "\\") && logicalEnd < n {
				nextStart := logicalEnd + 1
				nextEnd := nextStart
				for nextEnd < n && content[nextEnd] != '\n' {
					nextEnd++
				}
				line = strings.TrimSuffix(strings.TrimRight(line, " \t"), "\\") + " " + string(content[nextStart:nextEnd])
				logicalEnd = nextEnd
			}
		}
		s.trackComment(line)

		if isDirective {
			s.flushText(lineStart)
			span := source.Span{File: s.file.ID, Start: lineStart, End: logicalEnd}
			if stop := s.handleDirective(ParseDirective(line, span)); stop {
				s.out.Fatal = true
				return s.out
			}
		} else if s.active() {
			if !s.inText {
				s.inText = true
				s.segStart = lineStart
			}
		} else {
			s.flushText(lineStart)
		}

		lineStart = logicalEnd + 1
	}
	s.flushText(n)

	// незакрытые цепочки — структурная ошибка
	if len(s.frames) > 0 {
		top := s.frames[len(s.frames)-1]
		s.reporter.Report(diag.PPMalformedDirective, diag.SevError, top.span,
			"unterminated conditional directive", nil)
		s.out.Fatal = true
	}
	return s.out
}

func (s *Scanner) active() bool {
	for i := range s.frames {
		if !s.frames[i].active {
			return false
		}
	}
	return true
}

func (s *Scanner) flushText(end uint32) {
	if s.inText && end > s.segStart {
		s.out.Segments = append(s.out.Segments, Segment{Start: s.segStart, End: end})
	}
	s.inText = false
}

// handleDirective применяет директиву. Возвращает true, если разбор файла
// должен быть прекращён (активный #error, сломанная цепочка).
func (s *Scanner) handleDirective(d Directive) bool {
	switch d.Kind {
	case DirIf:
		val := false
		if s.active() {
			var err error
			val, err = Evaluate(d.Cond, s.env)
			if err != nil {
				s.reporter.Report(diag.PPBadCondition, diag.SevError, d.Span,
					fmt.Sprintf("cannot evaluate #if condition: %v", err), nil)
			}
		}
		s.push(val, d.Span)

	case DirIfdef:
		s.push(s.active() && s.env.IsDefined(d.Name), d.Span)

	case DirIfndef:
		s.push(s.active() && !s.env.IsDefined(d.Name), d.Span)

	case DirElif:
		top := s.top()
		if top == nil || top.elseSeen {
			s.reporter.Report(diag.PPMalformedDirective, diag.SevError, d.Span,
				"#elif without matching #if", nil)
			return true
		}
		top.active = false
		if top.parent && !top.taken {
			val, err := Evaluate(d.Cond, s.env)
			if err != nil {
				s.reporter.Report(diag.PPBadCondition, diag.SevError, d.Span,
					fmt.Sprintf("cannot evaluate #elif condition: %v", err), nil)
			}
			if val {
				top.active = true
				top.taken = true
			}
		}

	case DirElse:
		top := s.top()
		if top == nil || top.elseSeen {
			s.reporter.Report(diag.PPMalformedDirective, diag.SevError, d.Span,
				"#else without matching #if", nil)
			return true
		}
		top.elseSeen = true
		top.active = top.parent && !top.taken
		if top.active {
			top.taken = true
		}

	case DirEndif:
		if s.top() == nil {
			s.reporter.Report(diag.PPMalformedDirective, diag.SevError, d.Span,
				"#endif without matching #if", nil)
			return true
		}
		s.frames = s.frames[:len(s.frames)-1]

	case DirDefine:
		if s.active() {
			s.env.Define(d.Macro)
		}

	case DirUndef:
		if s.active() {
			s.env.Undef(d.Name)
		}

	case DirInclude:
		if s.active() {
			s.out.Segments = append(s.out.Segments, Segment{Include: &IncludeEdge{
				Target: d.Target,
				Angle:  d.Angle,
				Span:   d.Span,
				Env:    s.env.Clone(),
			}})
		}

	case DirPragmaOnce:
		if s.active() {
			s.out.PragmaOnce = true
		}

	case DirPragma:
		// прочие #pragma анализатору не интересны

	case DirError:
		if s.active() {
			s.reporter.Report(diag.PPExplicitError, diag.SevError, d.Span, d.Message, nil)
			// остаток области недоступен для объявления символов
			return true
		}

	case DirUnknown:
		if s.active() {
			s.reporter.Report(diag.PPUnknownDirective, diag.SevWarning, d.Span,
				fmt.Sprintf("unknown preprocessor directive #%s", d.Name), nil)
		}

	case DirNone:
	}
	return false
}

func (s *Scanner) push(active bool, span source.Span) {
	s.frames = append(s.frames, condFrame{
		active: active,
		parent: s.active(),
		taken:  active,
		span:   span,
	})
}

func (s *Scanner) top() *condFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

func isDirectiveLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// trackComment протягивает состояние /* */ через строку. Кавычки и //
// учитываются, чтобы /* внутри литерала или строчного комментария не
// открывал блок.
func (s *Scanner) trackComment(line string) {
	for i := 0; i < len(line); i++ {
		if s.inComment {
			if line[i] == '*' && i+1 < len(line) && line[i+1] == '/' {
				s.inComment = false
				i++
			}
			continue
		}
		switch line[i] {
		case '/':
			if i+1 < len(line) {
				switch line[i+1] {
				case '/':
					return
				case '*':
					s.inComment = true
					i++
				}
			}
		case '"', '\'':
			quote := line[i]
			i++
			for i < len(line) && line[i] != quote {
				if line[i] == '\\' {
					i++
				}
				i++
			}
		}
	}
}
