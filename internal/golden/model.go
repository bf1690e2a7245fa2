// Package golden snapshots analysis output for regression comparison:
// текстовые golden-файлы с диагностиками и бинарные снимки модели
// объявлений.
package golden

import (
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"metalint/internal/analyzer"
	"metalint/internal/decl"
)

// FieldSnapshot is one aggregate field in the serialized model.
type FieldSnapshot struct {
	Name string `msgpack:"name"`
	Type string `msgpack:"type"`
}

// DeclSnapshot is one declaration in the serialized model. Поля строковые,
// чтобы снимок не зависел от внутренних типов экстрактора.
type DeclSnapshot struct {
	Kind       string          `msgpack:"kind"`
	Name       string          `msgpack:"name"` // полное имя через ::
	Signature  string          `msgpack:"signature,omitempty"`
	Return     string          `msgpack:"return,omitempty"`
	TypeParams []string        `msgpack:"type_params,omitempty"`
	Fields     []FieldSnapshot `msgpack:"fields,omitempty"`
	File       string          `msgpack:"file"`
}

// Model is the deterministic, serializable view of one analysis run.
type Model struct {
	Version int            `msgpack:"version"`
	Roots   []string       `msgpack:"roots"`
	Decls   []DeclSnapshot `msgpack:"decls"`
}

// ModelVersion bumps when the snapshot layout changes incompatibly.
const ModelVersion = 1

// BuildModel flattens the run result into a sorted snapshot.
func BuildModel(res *analyzer.Result) Model {
	m := Model{Version: ModelVersion, Roots: res.Roots}

	for _, set := range res.Table.Sets() {
		for _, d := range set.Decls {
			m.Decls = append(m.Decls, snapshotDecl(res, d))
		}
	}
	for _, d := range res.Table.Types() {
		m.Decls = append(m.Decls, snapshotDecl(res, d))
	}

	sort.SliceStable(m.Decls, func(i, j int) bool {
		a, b := m.Decls[i], m.Decls[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Signature < b.Signature
	})
	return m
}

func snapshotDecl(res *analyzer.Result, d *decl.Declaration) DeclSnapshot {
	snap := DeclSnapshot{
		Kind:       d.Kind.String(),
		Name:       d.QualifiedName(),
		TypeParams: d.TypeParams,
		File:       res.FileSet.Get(d.Span.File).Path,
	}
	if d.IsCallable() {
		snap.Signature = d.Signature.Key()
		snap.Return = d.Signature.Return.String()
	}
	for _, f := range d.Fields {
		snap.Fields = append(snap.Fields, FieldSnapshot{Name: f.Name, Type: f.Type.String()})
	}
	return snap
}

// Encode serializes the model for storage next to the golden file.
func (m Model) Encode() ([]byte, error) {
	return msgpack.Marshal(m)
}

// DecodeModel reads a stored snapshot back.
func DecodeModel(data []byte) (Model, error) {
	var m Model
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return Model{}, fmt.Errorf("decode model snapshot: %w", err)
	}
	if m.Version != ModelVersion {
		return Model{}, fmt.Errorf("model snapshot version %d, want %d", m.Version, ModelVersion)
	}
	return m, nil
}
