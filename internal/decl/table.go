package decl

import (
	"sort"
	"strings"
)

// OverloadSet groups the callable declarations sharing a qualified name,
// in declaration order. Порядок объявления важен: при неоднозначности
// берётся первый объявленный кандидат.
type OverloadSet struct {
	Name  string // полное имя через ::
	Decls []*Declaration
}

// Table is the global symbol table accumulated over all analyzed files.
// Ключи — полные имена (fixture::mix_add); значения хранят перегрузки.
type Table struct {
	sets  map[string]*OverloadSet
	types map[string][]*Declaration // struct/template-struct/alias по полному имени
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		sets:  make(map[string]*OverloadSet),
		types: make(map[string][]*Declaration),
	}
}

// Insert adds a declaration to the table. Конфликты переопределений
// обнаруживает resolve, таблица только накапливает.
func (t *Table) Insert(d *Declaration) {
	qn := d.QualifiedName()
	if d.IsCallable() {
		set := t.sets[qn]
		if set == nil {
			set = &OverloadSet{Name: qn}
			t.sets[qn] = set
		}
		set.Decls = append(set.Decls, d)
		return
	}
	t.types[qn] = append(t.types[qn], d)
}

// Lookup returns the overload set for a fully qualified name, or nil.
func (t *Table) Lookup(qualified string) *OverloadSet {
	return t.sets[qualified]
}

// LookupType returns the first struct/alias declaration for a fully
// qualified name, or nil. Используется для вызовов-конструкторов.
func (t *Table) LookupType(qualified string) *Declaration {
	if ds := t.types[qualified]; len(ds) > 0 {
		return ds[0]
	}
	return nil
}

// TypeDefs returns every declaration recorded for a qualified type name.
func (t *Table) TypeDefs(qualified string) []*Declaration {
	return t.types[qualified]
}

// Sets returns all overload sets sorted by name for deterministic walks.
func (t *Table) Sets() []*OverloadSet {
	out := make([]*OverloadSet, 0, len(t.sets))
	for _, s := range t.sets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Types returns all type declarations sorted by qualified name.
// При переопределении имени в срез попадают все версии.
func (t *Table) Types() []*Declaration {
	out := make([]*Declaration, 0, len(t.types))
	for _, ds := range t.types {
		out = append(out, ds...)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QualifiedName() < out[j].QualifiedName()
	})
	return out
}

// JoinPath собирает сегменты имени в полный путь через ::.
func JoinPath(segs ...string) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "::")
}
