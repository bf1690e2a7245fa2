// Package resolve checks the extracted declaration model: переопределения
// с одинаковой сигнатурой и разрешение ссылок по перегрузкам.
package resolve

import (
	"fmt"
	"strings"

	"metalint/internal/decl"
	"metalint/internal/diag"
)

// Resolver binds call sites to declarations and reports semantic
// diagnostics through rep.
type Resolver struct {
	table *decl.Table
	rep   diag.Reporter
}

// New creates a resolver over a fully populated symbol table.
func New(table *decl.Table, rep diag.Reporter) *Resolver {
	return &Resolver{table: table, rep: rep}
}

// CheckDuplicates reports SemaDuplicateDefinition for overload sets that
// contain two callables with the same signature key and for type names
// defined more than once. Порядок объявления сохранён таблицей, поэтому
// диагностика встаёт на повторное определение.
func (r *Resolver) CheckDuplicates() {
	for _, set := range r.table.Sets() {
		seen := make(map[string]*decl.Declaration, len(set.Decls))
		for _, d := range set.Decls {
			key := d.Signature.Key()
			first, dup := seen[key]
			if !dup {
				seen[key] = d
				continue
			}
			r.rep.Report(diag.SemaDuplicateDefinition, diag.SevError, d.Span,
				fmt.Sprintf("duplicate definition of '%s%s'", set.Name, key),
				[]diag.Note{{Span: first.Span, Msg: "previously defined here"}})
		}
	}

	for _, d := range r.table.Types() {
		if d.Kind == decl.KindAlias {
			continue
		}
		defs := r.table.TypeDefs(d.QualifiedName())
		if len(defs) < 2 || defs[0] == d {
			continue
		}
		r.rep.Report(diag.SemaDuplicateDefinition, diag.SevError, d.Span,
			fmt.Sprintf("duplicate definition of '%s'", d.QualifiedName()),
			[]diag.Note{{Span: defs[0].Span, Msg: "previously defined here"}})
	}
}

// ResolveRefs resolves every call site of one file.
func (r *Resolver) ResolveRefs(refs []decl.Ref) {
	for i := range refs {
		r.resolveRef(&refs[i])
	}
}

func (r *Resolver) resolveRef(ref *decl.Ref) {
	set, typeHit := r.lookupName(ref)
	if typeHit {
		// вызов конструктора / приведение к пользовательскому типу
		return
	}
	if set == nil {
		if decl.IsBuiltinFunction(ref.Name) && builtinQualifier(ref.Qualifier) {
			return
		}
		r.rep.Report(diag.SemaUnresolvedReference, diag.SevError, ref.Span,
			fmt.Sprintf("unresolved reference to '%s'", displayName(ref)), nil)
		return
	}
	r.narrow(ref, set)
}

// lookupName walks the enclosing scopes outward, then using-директивы,
// and returns the first overload set matching the reference. Второй
// результат true, если имя оказалось типом (конструктор).
func (r *Resolver) lookupName(ref *decl.Ref) (*decl.OverloadSet, bool) {
	tail := append(append([]string{}, ref.Qualifier...), ref.Name)

	for k := len(ref.Namespace); k >= 0; k-- {
		qn := decl.JoinPath(append(append([]string{}, ref.Namespace[:k]...), tail...)...)
		if set := r.table.Lookup(qn); set != nil {
			return set, false
		}
		if r.table.LookupType(qn) != nil {
			return nil, true
		}
	}
	for _, u := range ref.Usings {
		qn := decl.JoinPath(append([]string{u}, tail...)...)
		if set := r.table.Lookup(qn); set != nil {
			return set, false
		}
		if r.table.LookupType(qn) != nil {
			return nil, true
		}
	}
	return nil, false
}

// narrow applies the overload policy: арность, затем точное совпадение
// типов, затем числовая совместимость. Ноль кандидатов — unresolved,
// больше одного — предупреждение и первый объявленный.
func (r *Resolver) narrow(ref *decl.Ref, set *decl.OverloadSet) {
	arity := make([]*decl.Declaration, 0, len(set.Decls))
	for _, d := range set.Decls {
		if len(d.Signature.Params) == len(ref.ArgTypes) {
			arity = append(arity, d)
		}
	}
	if len(arity) == 0 {
		r.rep.Report(diag.SemaUnresolvedReference, diag.SevError, ref.Span,
			fmt.Sprintf("no overload of '%s' takes %d argument(s)",
				displayName(ref), len(ref.ArgTypes)), nil)
		return
	}

	// внутри шаблона типы аргументов зависят от подстановки,
	// проверяем только арность
	if ref.InTemplate {
		return
	}

	exact := filterMatches(arity, ref.ArgTypes, typeExact)
	switch {
	case len(exact) == 1:
		return
	case len(exact) == 0:
		exact = filterMatches(arity, ref.ArgTypes, typeConvertible)
		if len(exact) == 1 {
			return
		}
		if len(exact) == 0 {
			r.rep.Report(diag.SemaUnresolvedReference, diag.SevError, ref.Span,
				fmt.Sprintf("no matching overload for '%s(%s)'",
					displayName(ref), strings.Join(ref.ArgTypes, ", ")), nil)
			return
		}
	}

	chosen := exact[0]
	r.rep.Report(diag.SemaAmbiguousOverload, diag.SevWarning, ref.Span,
		fmt.Sprintf("ambiguous call to '%s': %d candidates match",
			displayName(ref), len(exact)),
		[]diag.Note{{Span: chosen.Span, Msg: "first declared candidate chosen"}})
}

func filterMatches(cands []*decl.Declaration, args []string,
	match func(arg, param string) bool) []*decl.Declaration {
	var out []*decl.Declaration
cand:
	for _, d := range cands {
		for i, arg := range args {
			if arg == "" {
				continue // тип аргумента неизвестен, не отфильтровываем
			}
			if !match(arg, d.Signature.Params[i].Type.Name) {
				continue cand
			}
		}
		out = append(out, d)
	}
	return out
}

func typeExact(arg, param string) bool {
	return arg == param
}

var numericTypes = map[string]bool{
	"bool": true, "char": true, "short": true, "int": true, "uint": true,
	"long": true, "size_t": true, "ptrdiff_t": true,
	"uchar": true, "ushort": true, "ulong": true,
	"half": true, "float": true, "double": true,
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"unsigned int": true, "unsigned long": true, "unsigned char": true,
}

func typeConvertible(arg, param string) bool {
	if arg == param {
		return true
	}
	return numericTypes[arg] && numericTypes[param]
}

// builtinQualifier reports whether the qualifier prefix still allows the
// metal stdlib fallback (нет префикса либо metal::).
func builtinQualifier(q []string) bool {
	return len(q) == 0 || (len(q) == 1 && q[0] == "metal")
}

func displayName(ref *decl.Ref) string {
	if len(ref.Qualifier) == 0 {
		return ref.Name
	}
	return strings.Join(ref.Qualifier, "::") + "::" + ref.Name
}
