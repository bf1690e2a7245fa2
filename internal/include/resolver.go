// Package include expands the directive structure produced by preproc
// into a graph of (file, macro environment) units, memoizing repeated
// inclusions and detecting cycles.
package include

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"metalint/internal/diag"
	"metalint/internal/preproc"
	"metalint/internal/source"
)

// MaxDepth bounds the inclusion stack. Глубже этого — считаем циклом,
// даже если пути формально различаются.
const MaxDepth = 64

// Unit is one expanded (file, environment) pair: the active text spans of
// the file in source order, plus the child units resolved at its include
// edges. Один и тот же Unit переиспользуется для повторных включений с
// тем же отпечатком окружения.
type Unit struct {
	File     *source.File
	Spans    []source.Span
	Includes []*Unit
	Fatal    bool
}

type memoKey struct {
	path string
	fp   string
}

// Resolver expands include graphs over a shared FileSet. Не потокобезопасен:
// анализатор держит по одному на прогон.
type Resolver struct {
	fset  *source.FileSet
	roots []string // дополнительные каталоги поиска, corpus-relative
	rep   diag.Reporter

	memo  map[memoKey]*Unit
	once  map[string]*Unit // #pragma once: путь → первая экспансия
	stack map[string]bool  // пути в работе, для детекции циклов
	depth int

	units []*Unit // свежие единицы в порядке завершения обработки
}

// NewResolver creates a resolver over fset. searchRoots are extra
// corpus-relative directories tried for angle includes and as fallback
// for quoted ones.
func NewResolver(fset *source.FileSet, searchRoots []string, rep diag.Reporter) *Resolver {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Resolver{
		fset:  fset,
		roots: searchRoots,
		rep:   rep,
		memo:  make(map[memoKey]*Unit),
		once:  make(map[string]*Unit),
		stack: make(map[string]bool),
	}
}

// Units returns every unit expanded so far, in completion order. Каждая
// пара (файл, окружение) встречается ровно один раз.
func (r *Resolver) Units() []*Unit {
	return r.units
}

// Expand processes file under env and returns its unit. Повторный вызов
// с тем же файлом и эквивалентным окружением возвращает мемоизированную
// единицу без повторного сканирования.
func (r *Resolver) Expand(file *source.File, env *preproc.Env) *Unit {
	if u, ok := r.once[file.Path]; ok {
		return u
	}
	key := memoKey{path: file.Path, fp: env.Fingerprint()}
	if u, ok := r.memo[key]; ok {
		return u
	}

	u := &Unit{File: file}
	r.memo[key] = u
	r.stack[file.Path] = true
	r.depth++

	// сканер мутирует окружение: даём ему собственную копию
	res := preproc.NewScanner(file, env.Clone(), r.rep).Scan()
	u.Fatal = res.Fatal
	if res.PragmaOnce {
		r.once[file.Path] = u
	}

	for _, seg := range res.Segments {
		if seg.Include == nil {
			u.Spans = append(u.Spans, source.Span{
				File:  file.ID,
				Start: seg.Start,
				End:   seg.End,
			})
			continue
		}
		if child := r.resolveEdge(file, seg.Include); child != nil {
			u.Includes = append(u.Includes, child)
		}
	}

	r.depth--
	delete(r.stack, file.Path)
	r.units = append(r.units, u)
	return u
}

// resolveEdge locates and expands one include target. Возвращает nil для
// системных заголовков и для ошибок (они уже зарепорчены).
func (r *Resolver) resolveEdge(from *source.File, edge *preproc.IncludeEdge) *Unit {
	if edge.Angle && IsBuiltinHeader(edge.Target) {
		return nil
	}

	target, err := r.locate(from, edge)
	if err != nil {
		r.rep.Report(diag.IncLoadError, diag.SevError, edge.Span,
			fmt.Sprintf("cannot read include %q: %v", edge.Target, err), nil)
		return nil
	}
	if target == nil {
		r.rep.Report(diag.IncMissingInclude, diag.SevError, edge.Span,
			fmt.Sprintf("include %q not found", edge.Target), nil)
		return nil
	}

	if r.stack[target.Path] {
		r.rep.Report(diag.IncIncludeCycle, diag.SevError, edge.Span,
			fmt.Sprintf("include cycle: %q is already being processed", target.Path), nil)
		return nil
	}
	if r.depth >= MaxDepth {
		r.rep.Report(diag.IncIncludeCycle, diag.SevError, edge.Span,
			fmt.Sprintf("include depth limit (%d) exceeded at %q", MaxDepth, edge.Target), nil)
		return nil
	}

	return r.Expand(target, edge.Env)
}

// locate tries candidate corpus-relative paths in order. Возвращает
// (nil, nil), если цель не существует ни в одном каталоге.
func (r *Resolver) locate(from *source.File, edge *preproc.IncludeEdge) (*source.File, error) {
	var cands []string
	if edge.Angle {
		for _, root := range r.roots {
			cands = append(cands, path.Join(root, edge.Target))
		}
		cands = append(cands, edge.Target)
	} else {
		cands = append(cands, path.Join(path.Dir(from.Path), edge.Target))
		cands = append(cands, edge.Target)
		for _, root := range r.roots {
			cands = append(cands, path.Join(root, edge.Target))
		}
	}

	for _, cand := range cands {
		if f, ok := r.fset.GetByPath(cand); ok {
			return f, nil
		}
		id, err := r.fset.Load(cand)
		if err == nil {
			return r.fset.Get(id), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, nil
}
