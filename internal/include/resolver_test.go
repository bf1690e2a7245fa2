package include

import (
	"testing"

	"metalint/internal/diag"
	"metalint/internal/preproc"
	"metalint/internal/source"
)

func newCorpus(t *testing.T, files map[string]string) *source.FileSet {
	t.Helper()
	fset := source.NewFileSet()
	for path, content := range files {
		fset.AddVirtual(path, []byte(content))
	}
	return fset
}

func expand(t *testing.T, fset *source.FileSet, root string, env *preproc.Env) (*Resolver, *diag.Bag, *Unit) {
	t.Helper()
	bag := diag.NewBag(0)
	r := NewResolver(fset, nil, diag.BagReporter{Bag: bag})
	f, ok := fset.GetByPath(root)
	if !ok {
		t.Fatalf("root %q not in file set", root)
	}
	u := r.Expand(f, env)
	return r, bag, u
}

func activeBytes(u *Unit) int {
	n := 0
	for _, sp := range u.Spans {
		n += int(sp.Len())
	}
	return n
}

func TestExpandSimpleInclude(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"a.h": "#include \"b.h\"\nfloat a_func(float x);\n",
		"b.h": "float b_func(float x);\n",
	})
	r, bag, u := expand(t, fset, "a.h", preproc.NewEnv())
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if len(u.Includes) != 1 || u.Includes[0].File.Path != "b.h" {
		t.Fatalf("includes = %+v", u.Includes)
	}
	// b.h завершается раньше a.h
	units := r.Units()
	if len(units) != 2 || units[0].File.Path != "b.h" || units[1].File.Path != "a.h" {
		t.Fatalf("units order = %v", unitPaths(units))
	}
}

func unitPaths(units []*Unit) []string {
	var out []string
	for _, u := range units {
		out = append(out, u.File.Path)
	}
	return out
}

func TestRepeatedIncludeIsMemoized(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"root.h":   "#include \"common.h\"\n#include \"common.h\"\n",
		"common.h": "float shared_func(float x);\n",
	})
	r, bag, u := expand(t, fset, "root.h", preproc.NewEnv())
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if len(u.Includes) != 2 || u.Includes[0] != u.Includes[1] {
		t.Fatal("same (file, env) must reuse one unit")
	}
	if len(r.Units()) != 2 {
		t.Fatalf("units = %v", unitPaths(r.Units()))
	}
}

func TestIncludeGuardSecondPassIsEmpty(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"root.h": "#include \"guarded.h\"\n#define EXTRA 1\n#include \"guarded.h\"\n",
		"guarded.h": `#ifndef GUARD_H
#define GUARD_H
float guarded_func(float x);
#endif
`,
	})
	r, bag, u := expand(t, fset, "root.h", preproc.NewEnv())
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	// окружения различаются (EXTRA), кэш не срабатывает, но guard
	// оставляет второй экземпляр пустым
	if len(u.Includes) != 2 {
		t.Fatalf("includes = %+v", u.Includes)
	}
	if activeBytes(u.Includes[0]) == 0 {
		t.Fatal("first inclusion must produce active code")
	}
	if activeBytes(u.Includes[1]) != 0 {
		t.Fatal("second inclusion must be guarded out")
	}
	if len(r.Units()) != 3 {
		t.Fatalf("units = %v", unitPaths(r.Units()))
	}
}

func TestPragmaOnceShortCircuits(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"root.h": "#include \"once.h\"\n#define EXTRA 1\n#include \"once.h\"\n",
		"once.h": "#pragma once\nfloat once_func(float x);\n",
	})
	r, bag, u := expand(t, fset, "root.h", preproc.NewEnv())
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if len(u.Includes) != 2 || u.Includes[0] != u.Includes[1] {
		t.Fatal("pragma once must reuse the first unit even under a new env")
	}
	if len(r.Units()) != 2 {
		t.Fatalf("units = %v", unitPaths(r.Units()))
	}
}

func TestMacroVisibleInsideInclude(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"root.h": "#define FEATURE 1\n#include \"cond.h\"\n",
		"cond.h": `#ifdef FEATURE
float feature_func(float x);
#endif
`,
	})
	_, bag, u := expand(t, fset, "root.h", preproc.NewEnv())
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if len(u.Includes) != 1 || activeBytes(u.Includes[0]) == 0 {
		t.Fatal("macro defined before include must be visible inside")
	}
}

func TestIncludeCycleReportedOnce(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"a.h": "#include \"b.h\"\nfloat a_func(float x);\n",
		"b.h": "#include \"a.h\"\nfloat b_func(float x);\n",
	})
	_, bag, _ := expand(t, fset, "a.h", preproc.NewEnv())
	var cycles int
	for _, d := range bag.Items() {
		if d.Code == diag.IncIncludeCycle {
			cycles++
		}
	}
	if cycles != 1 {
		t.Fatalf("want exactly one cycle diagnostic, got %d: %+v", cycles, bag.Items())
	}
}

func TestSelfIncludeIsCycle(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"self.h": "#include \"self.h\"\n",
	})
	_, bag, _ := expand(t, fset, "self.h", preproc.NewEnv())
	if bag.Len() != 1 || bag.Items()[0].Code != diag.IncIncludeCycle {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
}

func TestMissingInclude(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"root.h": "#include \"nowhere/gone.h\"\n",
	})
	_, bag, _ := expand(t, fset, "root.h", preproc.NewEnv())
	if bag.Len() != 1 || bag.Items()[0].Code != diag.IncMissingInclude {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if bag.Items()[0].Severity != diag.SevError {
		t.Fatalf("severity = %v", bag.Items()[0].Severity)
	}
}

func TestBuiltinHeaderResolvesSilently(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"root.h": "#include <metal_stdlib>\n#include <metal_math>\nfloat f(float x);\n",
	})
	_, bag, u := expand(t, fset, "root.h", preproc.NewEnv())
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if len(u.Includes) != 0 {
		t.Fatalf("builtin headers must not produce units: %+v", u.Includes)
	}
}

func TestInactiveIncludeNotResolved(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"root.h": "#if 0\n#include \"nowhere.h\"\n#endif\nfloat f(float x);\n",
	})
	_, bag, u := expand(t, fset, "root.h", preproc.NewEnv())
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if len(u.Includes) != 0 {
		t.Fatalf("includes = %+v", u.Includes)
	}
}

func TestQuotedIncludeRelativeToIncluder(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"sub/root.h":  "#include \"dep.h\"\n",
		"sub/dep.h":   "float sub_dep(float x);\n",
		"root_dep.h":  "float root_dep(float x);\n",
		"sub/root2.h": "#include \"root_dep.h\"\n",
	})
	// сосед в каталоге включающего файла
	_, bag, u := expand(t, fset, "sub/root.h", preproc.NewEnv())
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}
	if len(u.Includes) != 1 || u.Includes[0].File.Path != "sub/dep.h" {
		t.Fatalf("includes = %v", unitPaths(u.Includes))
	}

	// fallback на корень корпуса
	bag2 := diag.NewBag(0)
	r2 := NewResolver(fset, nil, diag.BagReporter{Bag: bag2})
	f2, _ := fset.GetByPath("sub/root2.h")
	u2 := r2.Expand(f2, preproc.NewEnv())
	if bag2.Len() != 0 {
		t.Fatalf("diagnostics: %+v", bag2.Items())
	}
	if len(u2.Includes) != 1 || u2.Includes[0].File.Path != "root_dep.h" {
		t.Fatalf("includes = %v", unitPaths(u2.Includes))
	}
}

func TestFatalErrorDirectiveStopsUnit(t *testing.T) {
	fset := newCorpus(t, map[string]string{
		"root.h": `#ifndef REQUIRED_DEFINE
#error required define is missing
#endif
float f(float x);
`,
	})
	_, bag, u := expand(t, fset, "root.h", preproc.NewEnv())
	if !u.Fatal {
		t.Fatal("unit must be fatal after active #error")
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.PPExplicitError {
		t.Fatalf("diagnostics: %+v", bag.Items())
	}

	// с определённым макросом файл чист
	fset2 := newCorpus(t, map[string]string{"root.h": `#ifndef REQUIRED_DEFINE
#error required define is missing
#endif
float f(float x);
`})
	env := preproc.NewEnvWith(map[string]string{"REQUIRED_DEFINE": "1"})
	_, bag2, u2 := expand(t, fset2, "root.h", env)
	if u2.Fatal || bag2.Len() != 0 {
		t.Fatalf("fatal=%v diagnostics=%+v", u2.Fatal, bag2.Items())
	}
}
