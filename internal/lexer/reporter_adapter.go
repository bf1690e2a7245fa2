package lexer

import (
	"metalint/internal/diag"
	"metalint/internal/source"
)

// DiagReporter адаптирует lexer.Reporter к diag.Reporter.
type DiagReporter struct {
	R diag.Reporter
}

func (a DiagReporter) Report(kind string, span source.Span, msg string) {
	if a.R == nil {
		return
	}
	code := diag.LexInfo
	switch kind {
	case KindUnknownChar:
		code = diag.LexUnknownChar
	case KindUnterminatedString:
		code = diag.LexUnterminatedString
	case KindUnterminatedComment:
		code = diag.LexUnterminatedBlockComment
	case KindBadNumber:
		code = diag.LexBadNumber
	}
	a.R.Report(code, diag.SevError, span, msg, nil)
}
