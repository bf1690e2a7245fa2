package decl

import (
	"strings"

	"metalint/internal/token"
)

// multiWordBases — первые слова составных базовых типов C.
var multiWordBases = map[string]bool{
	"unsigned": true,
	"signed":   true,
	"long":     true,
	"short":    true,
}

// multiWordTails — слова, которые могут продолжать составной базовый тип.
var multiWordTails = map[string]bool{
	"unsigned": true,
	"signed":   true,
	"long":     true,
	"short":    true,
	"int":      true,
	"char":     true,
	"double":   true,
}

// parseType разбирает тип в позиции объявления:
//
//	[addrspace] [const] base[::seg]*[<args>] [*|&] [const]
//
// Возвращает false, не двигая позицию, если в текущей точке тип не начинается.
func (ex *Extractor) parseType() (Type, bool) {
	start := ex.pos
	var ty Type

	if token.IsAddressSpace(ex.peek().Kind) {
		ty.AddrSpace = ex.next().Text
	}
	if ex.accept(token.KwConst) {
		ty.Const = true
	}
	if token.IsAddressSpace(ex.peek().Kind) && ty.AddrSpace == "" {
		ty.AddrSpace = ex.next().Text
	}

	if ex.peek().Kind != token.Ident {
		ex.pos = start
		return Type{}, false
	}
	base := ex.next().Text

	// unsigned int, long long, unsigned long long
	for multiWordBases[base[strings.LastIndexByte(base, ' ')+1:]] &&
		ex.peek().Kind == token.Ident && multiWordTails[ex.peek().Text] {
		base += " " + ex.next().Text
	}

	// квалифицированное имя metal::uint
	for ex.peek().Kind == token.ColonColon && ex.peekAt(1).Kind == token.Ident {
		ex.pos++
		base += "::" + ex.next().Text
	}

	// шаблонные аргументы TensorRef<T>
	if ex.peek().Kind == token.Lt {
		ex.pos++
		var sb strings.Builder
		sb.WriteByte('<')
		depth := 1
		for !ex.eof() && depth > 0 {
			t := ex.next()
			switch t.Kind {
			case token.Lt:
				depth++
			case token.Gt:
				depth--
				if depth == 0 {
					continue
				}
			case token.Shr:
				depth -= 2
				if depth == 0 {
					sb.WriteByte('>')
					continue
				}
			case token.Comma:
				sb.WriteString(", ")
				continue
			}
			if depth > 0 {
				sb.WriteString(t.Text)
			}
		}
		sb.WriteByte('>')
		base += sb.String()
	}
	ty.Name = base

	for {
		switch ex.peek().Kind {
		case token.Star:
			ty.Ptr = true
			ex.pos++
			continue
		case token.Amp:
			ty.Ref = true
			ex.pos++
			continue
		case token.KwConst:
			ty.Const = true
			ex.pos++
			continue
		}
		break
	}
	return ty, true
}
