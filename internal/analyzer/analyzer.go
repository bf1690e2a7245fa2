// Package analyzer is the driver: обход корпуса, препроцессор, граф
// включений, извлечение модели и семантические проверки одним прогоном.
package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"metalint/internal/decl"
	"metalint/internal/diag"
	"metalint/internal/include"
	"metalint/internal/lexer"
	"metalint/internal/preproc"
	"metalint/internal/resolve"
	"metalint/internal/source"
	"metalint/internal/token"
)

// CorpusPattern matches every shading-language header the walker picks up.
const CorpusPattern = "**/*.{h,hh,hpp,hxx,metal}"

// Config controls one analysis run.
type Config struct {
	// Root is the corpus directory to walk.
	Root string
	// Defines — начальное макроокружение (имя → тело).
	Defines map[string]string
	// SearchRoots — дополнительные каталоги поиска включений,
	// относительно Root.
	SearchRoots []string
	// Jobs bounds parallel file reads. <=0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the bag. 0 — лимит по умолчанию.
	MaxDiagnostics int
}

// Result of a full corpus analysis.
type Result struct {
	FileSet *source.FileSet
	Bag     *diag.Bag
	Table   *decl.Table
	Units   []*include.Unit
	// Roots — проанализированные файлы корпуса в лексическом порядке.
	Roots []string
}

// Run analyzes every corpus file under cfg.Root as an independent root
// sharing one include memo, so each (file, environment) pair is scanned
// and extracted exactly once.
func Run(cfg Config) (*Result, error) {
	paths, err := discover(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no corpus files under %s", cfg.Root)
	}

	fset := source.NewFileSetWithRoot(cfg.Root)
	if err := prescan(fset, cfg.Root, paths, cfg.Jobs); err != nil {
		return nil, err
	}

	bag := diag.NewBag(cfg.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	baseEnv := preproc.NewEnvWith(cfg.Defines)
	inc := include.NewResolver(fset, cfg.SearchRoots, rep)
	for _, p := range paths {
		f, ok := fset.GetByPath(p)
		if !ok {
			continue
		}
		inc.Expand(f, baseEnv)
	}

	table := decl.NewTable()
	var refs []decl.Ref
	seen := make(map[string]bool, len(inc.Units()))
	for _, u := range inc.Units() {
		// разные окружения могут дать одинаковый активный текст
		// (классический include guard у включающего файла);
		// извлекаем каждый активный текст один раз
		key := unitKey(u)
		if seen[key] {
			continue
		}
		seen[key] = true

		fr := extractUnit(fset, u, rep)
		for _, d := range fr.Decls {
			table.Insert(d)
		}
		refs = append(refs, fr.Refs...)
	}

	sem := resolve.New(table, rep)
	sem.CheckDuplicates()
	sem.ResolveRefs(refs)

	bag.Sort()
	bag.Dedup()

	return &Result{
		FileSet: fset,
		Bag:     bag,
		Table:   table,
		Units:   inc.Units(),
		Roots:   paths,
	}, nil
}

// discover lists corpus files under root, sorted for determinism.
func discover(root string) ([]string, error) {
	paths, err := doublestar.Glob(os.DirFS(root), CorpusPattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// prescan reads corpus files in parallel and registers them sequentially:
// FileSet не потокобезопасен, а диск охотно читается конкурентно.
func prescan(fset *source.FileSet, root string, paths []string, jobs int) error {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	contents := make([][]byte, len(paths))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			// #nosec G304 -- paths come from the corpus walker
			raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			contents[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, p := range paths {
		fset.AddBytes(p, contents[i])
	}
	return nil
}

// unitKey identifies the active text of a unit: файл плюс границы спанов.
func unitKey(u *include.Unit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", u.File.ID)
	for _, sp := range u.Spans {
		fmt.Fprintf(&b, ":%d-%d", sp.Start, sp.End)
	}
	return b.String()
}

// extractUnit lexes the active spans of one unit and extracts its
// declaration model. Порядок спанов повторяет порядок в файле.
func extractUnit(fset *source.FileSet, u *include.Unit, rep diag.Reporter) decl.FileResult {
	opts := lexer.Options{Reporter: lexer.DiagReporter{R: rep}}
	var toks []token.Token
	for _, sp := range u.Spans {
		lx := lexer.NewRange(fset.Get(sp.File), sp.Start, sp.End, opts)
		toks = append(toks, lx.Tokens()...)
	}
	return decl.NewExtractor(toks).Extract()
}
