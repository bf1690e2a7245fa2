package token

var keywords = map[string]Kind{
	"namespace":   KwNamespace,
	"struct":      KwStruct,
	"class":       KwClass,
	"union":       KwUnion,
	"enum":        KwEnum,
	"template":    KwTemplate,
	"typename":    KwTypename,
	"operator":    KwOperator,
	"using":       KwUsing,
	"typedef":     KwTypedef,
	"inline":      KwInline,
	"static":      KwStatic,
	"const":       KwConst,
	"constexpr":   KwConstexpr,
	"return":      KwReturn,
	"device":      KwDevice,
	"thread":      KwThread,
	"constant":    KwConstant,
	"threadgroup": KwThreadgroup,
	"ray_data":    KwRayData,
	"object_data": KwObjectData,
	"kernel":      KwKernel,
	"vertex":      KwVertex,
	"fragment":    KwFragment,
}

// LookupKeyword returns the keyword kind for an identifier text,
// or Ident when the text is not a keyword of the dialect.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}

// IsAddressSpace reports whether the kind is an address-space qualifier.
func IsAddressSpace(k Kind) bool {
	switch k {
	case KwDevice, KwThread, KwConstant, KwThreadgroup, KwRayData, KwObjectData:
		return true
	default:
		return false
	}
}
