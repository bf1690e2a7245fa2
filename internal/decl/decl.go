package decl

import (
	"strings"

	"metalint/internal/source"
)

// Kind is the tagged variant of a declaration. Keeping the model a flat
// tagged container (not an interface hierarchy) keeps overload matching
// exhaustive and switch-checkable.
type Kind uint8

const (
	// KindFunction is a free function or member function.
	KindFunction Kind = iota
	// KindOperator is an overloaded operator function (operator+ и т.д.).
	KindOperator
	// KindStruct is a struct/class definition.
	KindStruct
	// KindTemplate is a templated struct or function.
	KindTemplate
	// KindAlias is a typedef or using alias.
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindOperator:
		return "operator"
	case KindStruct:
		return "struct"
	case KindTemplate:
		return "template"
	case KindAlias:
		return "alias"
	}
	return "unknown"
}

// Type is the semantic type of a parameter, field, or return value.
// Address-space qualifiers are part of the type for overload matching:
// одинаковые сигнатуры с разными address space не конфликтуют.
type Type struct {
	AddrSpace string // "", "device", "thread", "constant", "threadgroup", ...
	Name      string // базовое имя: float, uint, T, ComplexLite, metal::uint
	Const     bool
	Ptr       bool
	Ref       bool
}

func (t Type) String() string {
	var b strings.Builder
	if t.AddrSpace != "" {
		b.WriteString(t.AddrSpace)
		b.WriteByte(' ')
	}
	if t.Const {
		b.WriteString("const ")
	}
	b.WriteString(t.Name)
	if t.Ptr {
		b.WriteByte('*')
	}
	if t.Ref {
		b.WriteByte('&')
	}
	return b.String()
}

// Param is one function parameter.
type Param struct {
	Type Type
	Name string
}

// Field is one struct field.
type Field struct {
	Type Type
	Name string
}

// Signature captures what distinguishes function overloads.
type Signature struct {
	Params []Param
	Return Type
}

// Key returns the syntactic distinguisher of the signature: the ordered
// parameter types. Two function declarations in one overload set with the
// same key are a conflicting redefinition.
func (s Signature) Key() string {
	parts := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		parts = append(parts, p.Type.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Declaration is one extracted declaration.
type Declaration struct {
	Kind       Kind
	Namespace  []string // полный путь: вложенные namespace + имя структуры для членов
	Name       string
	Signature  Signature // для function/operator/template-функций
	TypeParams []string  // для шаблонов
	Fields     []Field   // для struct/alias
	Span       source.Span
}

// QualifiedName returns the namespace-qualified name, e.g. fixture::Ops::apply.
func (d *Declaration) QualifiedName() string {
	if len(d.Namespace) == 0 {
		return d.Name
	}
	return strings.Join(d.Namespace, "::") + "::" + d.Name
}

// IsCallable reports whether the declaration participates in call-site
// overload resolution.
func (d *Declaration) IsCallable() bool {
	switch d.Kind {
	case KindFunction, KindOperator:
		return true
	case KindTemplate:
		return len(d.Fields) == 0 // шаблонная функция, не шаблонный struct
	default:
		return false
	}
}

// Ref is one call/reference site discovered inside a function body.
type Ref struct {
	Name       string
	Qualifier  []string // явный префикс fixture::f(...), nil для простых имён
	Namespace  []string // область, в которой стоит вызов
	Usings     []string // активные using namespace (пути через ::)
	ArgTypes   []string // "" — тип аргумента статически неизвестен
	Span       source.Span
	InTemplate bool // внутри шаблона проверяем только арность
}

// FileResult is the per-file output of extraction: declarations plus the
// reference sites found in their bodies, in source order.
type FileResult struct {
	Decls []*Declaration
	Refs  []Ref
}
