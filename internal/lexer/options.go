package lexer

import (
	"metalint/internal/source"
)

// Reporter — тонкий интерфейс, чтобы не тянуть diag сюда.
// Лексер **только вызывает** его с параметрами; в diag переводит адаптер.
type Reporter interface {
	Report(kind string, span source.Span, msg string)
}

// Report kinds understood by the diag adapter.
const (
	KindUnknownChar         = "unknown_char"
	KindUnterminatedString  = "unterminated_string"
	KindUnterminatedComment = "unterminated_block_comment"
	KindBadNumber           = "bad_number"
)

type Options struct {
	Reporter Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) report(kind string, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(kind, sp, msg)
	}
}
