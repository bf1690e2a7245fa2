package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the scanned region.
	EOF

	// Ident represents an identifier token (including type names).
	Ident

	// KwNamespace represents the 'namespace' keyword.
	KwNamespace // namespace
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwClass represents the 'class' keyword.
	KwClass // class
	// KwUnion represents the 'union' keyword.
	KwUnion // union
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwTemplate represents the 'template' keyword.
	KwTemplate // template
	// KwTypename represents the 'typename' keyword.
	KwTypename // typename
	// KwOperator represents the 'operator' keyword.
	KwOperator // operator
	// KwUsing represents the 'using' keyword.
	KwUsing // using
	// KwTypedef represents the 'typedef' keyword.
	KwTypedef // typedef
	// KwInline represents the 'inline' keyword.
	KwInline // inline
	// KwStatic represents the 'static' keyword.
	KwStatic // static
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwConstexpr represents the 'constexpr' keyword.
	KwConstexpr // constexpr
	// KwReturn represents the 'return' keyword.
	KwReturn // return

	// Address-space qualifiers. Part of the semantic type for overload
	// matching, never dropped during signature extraction.

	// KwDevice represents the 'device' address space.
	KwDevice // device
	// KwThread represents the 'thread' address space.
	KwThread // thread
	// KwConstant represents the 'constant' address space.
	KwConstant // constant
	// KwThreadgroup represents the 'threadgroup' address space.
	KwThreadgroup // threadgroup
	// KwRayData represents the 'ray_data' address space.
	KwRayData // ray_data
	// KwObjectData represents the 'object_data' address space.
	KwObjectData // object_data

	// KwKernel represents the 'kernel' entry qualifier.
	KwKernel // kernel
	// KwVertex represents the 'vertex' entry qualifier.
	KwVertex // vertex
	// KwFragment represents the 'fragment' entry qualifier.
	KwFragment // fragment

	// IntLit represents an integer literal token.
	IntLit
	// FloatLit represents a floating-point literal token (включая форму 1.0f).
	FloatLit
	// StringLit represents a string literal token.
	StringLit
	// CharLit represents a character literal token.
	CharLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
	// Percent represents the percent operator token.
	Percent // %
	// Assign represents the assignment operator token.
	Assign // =
	// EqEq represents the equality operator token.
	EqEq // ==
	// Bang represents the logical-not operator token.
	Bang // !
	// BangEq represents the inequality operator token.
	BangEq // !=
	// Lt represents the less-than token.
	Lt // <
	// LtEq represents the less-or-equal token.
	LtEq // <=
	// Gt represents the greater-than token.
	Gt // >
	// GtEq represents the greater-or-equal token.
	GtEq // >=
	// Shl represents the left-shift token.
	Shl // <<
	// Shr represents the right-shift token.
	Shr // >>
	// Amp represents the ampersand token (bitwise and / reference declarator).
	Amp // &
	// Pipe represents the pipe token.
	Pipe // |
	// Caret represents the caret token.
	Caret // ^
	// Tilde represents the tilde token.
	Tilde // ~
	// AndAnd represents the logical-and token.
	AndAnd // &&
	// OrOr represents the logical-or token.
	OrOr // ||
	// Question represents the question-mark token.
	Question // ?
	// Colon represents the colon token.
	Colon // :
	// ColonColon represents the scope-resolution token.
	ColonColon // ::
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the dot token.
	Dot // .
	// Arrow represents the arrow token.
	Arrow // ->
	// LParen represents the left parenthesis.
	LParen // (
	// RParen represents the right parenthesis.
	RParen // )
	// LBrace represents the left brace.
	LBrace // {
	// RBrace represents the right brace.
	RBrace // }
	// LBracket represents the left square bracket.
	LBracket // [
	// RBracket represents the right square bracket.
	RBracket // ]
	// Hash represents the '#' punctuation (only meaningful in directive lines).
	Hash // #
	// HashHash represents the '##' paste operator.
	HashHash // ##
	// Ellipsis represents the '...' token.
	Ellipsis // ...
)

var kindNames = map[Kind]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	KwNamespace:   "namespace",
	KwStruct:      "struct",
	KwClass:       "class",
	KwUnion:       "union",
	KwEnum:        "enum",
	KwTemplate:    "template",
	KwTypename:    "typename",
	KwOperator:    "operator",
	KwUsing:       "using",
	KwTypedef:     "typedef",
	KwInline:      "inline",
	KwStatic:      "static",
	KwConst:       "const",
	KwConstexpr:   "constexpr",
	KwReturn:      "return",
	KwDevice:      "device",
	KwThread:      "thread",
	KwConstant:    "constant",
	KwThreadgroup: "threadgroup",
	KwRayData:     "ray_data",
	KwObjectData:  "object_data",
	KwKernel:      "kernel",
	KwVertex:      "vertex",
	KwFragment:    "fragment",
	IntLit:        "IntLit",
	FloatLit:      "FloatLit",
	StringLit:     "StringLit",
	CharLit:       "CharLit",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Assign:        "=",
	EqEq:          "==",
	Bang:          "!",
	BangEq:        "!=",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	Shl:           "<<",
	Shr:           ">>",
	Amp:           "&",
	Pipe:          "|",
	Caret:         "^",
	Tilde:         "~",
	AndAnd:        "&&",
	OrOr:          "||",
	Question:      "?",
	Colon:         ":",
	ColonColon:    "::",
	Semicolon:     ";",
	Comma:         ",",
	Dot:           ".",
	Arrow:         "->",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Hash:          "#",
	HashHash:      "##",
	Ellipsis:      "...",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}
