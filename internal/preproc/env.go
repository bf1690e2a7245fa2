package preproc

import (
	"encoding/hex"
	"sort"
	"strings"

	"lukechampine.com/blake3"
)

// Macro is one preprocessor definition. Object-like macros carry a raw
// replacement body; function-like macros additionally carry parameter names.
// Для анализатора тело — непрозрачная строка: подстановка нужна только в
// условиях #if, и только для объектных макросов.
type Macro struct {
	Name   string
	Params []string // nil для объектных макросов
	FnLike bool
	Body   string
}

// Env is a macro environment: the definition state flowing through one
// file's linear scan. It is mutated in place by #define/#undef and snapshotted
// (Clone) at every include edge, so state changes inside an included file
// never leak back to the includer.
type Env struct {
	defs map[string]Macro
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{defs: make(map[string]Macro)}
}

// NewEnvWith creates an environment pre-seeded with object-like defines,
// e.g. the platform predicates supplied by the caller.
func NewEnvWith(defines map[string]string) *Env {
	env := NewEnv()
	for name, body := range defines {
		env.Define(Macro{Name: name, Body: body})
	}
	return env
}

// Define adds or replaces a macro definition.
func (e *Env) Define(m Macro) {
	e.defs[m.Name] = m
}

// Undef removes a macro definition. Removing an unknown name is a no-op.
func (e *Env) Undef(name string) {
	delete(e.defs, name)
}

// IsDefined reports whether the macro is currently defined.
func (e *Env) IsDefined(name string) bool {
	_, ok := e.defs[name]
	return ok
}

// Lookup returns the macro definition, if present.
func (e *Env) Lookup(name string) (Macro, bool) {
	m, ok := e.defs[name]
	return m, ok
}

// Len returns the number of definitions.
func (e *Env) Len() int {
	return len(e.defs)
}

// Clone возвращает независимую копию окружения: иммутабельный снапшот
// для рекурсивного resolve.
func (e *Env) Clone() *Env {
	out := &Env{defs: make(map[string]Macro, len(e.defs))}
	for k, v := range e.defs {
		out.defs[k] = v
	}
	return out
}

// Fingerprint returns a stable identity of the environment contents,
// independent of definition insertion order. Together with a file path it
// keys include memoization and cycle detection.
func (e *Env) Fingerprint() string {
	names := make([]string, 0, len(e.defs))
	for name := range e.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		m := e.defs[name]
		b.WriteString(name)
		b.WriteByte('=')
		if m.FnLike {
			b.WriteByte('(')
			b.WriteString(strings.Join(m.Params, ","))
			b.WriteByte(')')
		}
		b.WriteString(m.Body)
		b.WriteByte(0)
	}
	sum := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}
