package token

import (
	"metalint/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, string, or char literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, CharLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a dialect keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwNamespace, KwStruct, KwClass, KwUnion, KwEnum, KwTemplate, KwTypename,
		KwOperator, KwUsing, KwTypedef, KwInline, KwStatic, KwConst, KwConstexpr,
		KwReturn, KwDevice, KwThread, KwConstant, KwThreadgroup, KwRayData,
		KwObjectData, KwKernel, KwVertex, KwFragment:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsOverloadableOp reports whether the token can follow the 'operator'
// keyword to form an operator-function name (operator+, operator== и т.д.).
func (t Token) IsOverloadableOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent, Assign, EqEq, BangEq, Lt, LtEq, Gt,
		GtEq, Shl, Shr, Amp, Pipe, Caret, Tilde, Bang, AndAnd, OrOr:
		return true
	default:
		return false
	}
}
