package lexer

import (
	"metalint/internal/source"
	"metalint/internal/token"
)

// scanNumber сканирует целые и вещественные литералы:
// 123, 0x1F, 1u, 1.0, 1.0f, .5h, 1e-3f. Суффиксы: u/U, l/L для целых,
// f/F/h/H для вещественных (half — металловский суффикс).
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	isFloat := false

	// hex fast-path
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for !lx.cursor.EOF() && isHex(lx.cursor.Peek()) {
			lx.cursor.Bump()
			digits++
		}
		if digits == 0 {
			sp := lx.cursor.SpanFrom(start)
			lx.report(KindBadNumber, sp, "hex literal without digits")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.textFrom(sp)}
		}
		lx.scanIntSuffix()
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.IntLit, Span: sp, Text: lx.textFrom(sp)}
	}

	for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// дробная часть
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		isFloat = true
		lx.cursor.Bump()
		for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else if lx.cursor.Peek() == '.' {
		// "1." — тоже вещественное
		isFloat = true
		lx.cursor.Bump()
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		if _, b1, ok := lx.cursor.Peek2(); ok && (isDec(b1) || b1 == '+' || b1 == '-') {
			isFloat = true
			lx.cursor.Bump()
			if b := lx.cursor.Peek(); b == '+' || b == '-' {
				lx.cursor.Bump()
			}
			digits := 0
			for !lx.cursor.EOF() && isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
				digits++
			}
			if digits == 0 {
				sp := lx.cursor.SpanFrom(start)
				lx.report(KindBadNumber, sp, "exponent without digits")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.textFrom(sp)}
			}
		}
	}

	// суффиксы
	switch b := lx.cursor.Peek(); b {
	case 'f', 'F', 'h', 'H':
		isFloat = true
		lx.cursor.Bump()
	default:
		if !isFloat {
			lx.scanIntSuffix()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	kind := token.IntLit
	if isFloat {
		kind = token.FloatLit
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.textFrom(sp)}
}

func (lx *Lexer) scanIntSuffix() {
	for {
		switch b := lx.cursor.Peek(); b {
		case 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

func (lx *Lexer) textFrom(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
