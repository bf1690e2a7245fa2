package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"metalint/internal/diag"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func countCode(res *Result, code diag.Code) int {
	n := 0
	for _, d := range res.Bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

// корпус по мотивам реальных шейдерных заголовков: общие дефайны, типы,
// сгенерированные параметры, операторы и файл, требующий внешний макрос
var fixtureCorpus = map[string]string{
	"defines.h": `#ifndef FIXTURE_DEFINES_H
#define FIXTURE_DEFINES_H
#define TILE_SIZE 16
#define USE_FAST_MATH 1
#endif
`,
	"types.h": `#ifndef FIXTURE_TYPES_H
#define FIXTURE_TYPES_H
#include <metal_stdlib>

template <typename T>
struct TensorRef {
    device T* data;
    uint len;
};
#endif
`,
	"utils.h": `#ifndef FIXTURE_UTILS_H
#define FIXTURE_UTILS_H
#include "defines.h"
#include "types.h"

namespace fixture {
inline float mix_add(float a, float b) { return a + b; }
inline float mix_add(float a, float b, float t) { return a + (b - a) * t; }
}
#endif
`,
	"generated/matmul.h": `#ifndef FIXTURE_MATMUL_H
#define FIXTURE_MATMUL_H
#ifdef __METAL_VERSION__
struct MatmulParams {
    unsigned int rows;
    unsigned int cols;
};
#else
typedef struct {
    unsigned int rows;
    unsigned int cols;
} MatmulParams;
#endif
#endif
`,
	"operators.h": `#ifndef FIXTURE_OPERATORS_H
#define FIXTURE_OPERATORS_H
struct ComplexLite {
    float re;
    float im;
};

inline ComplexLite operator+(ComplexLite a, ComplexLite b) {
    ComplexLite r;
    r.re = a.re + b.re;
    r.im = a.im + b.im;
    return r;
}
#endif
`,
	"problematic_owner_only.h": `#ifndef OWNER_ONLY_DEFINE
#error owner_missing_symbol
#endif
float owner_only_helper(float x);
`,
	"template_math.h": `#ifndef FIXTURE_TEMPLATE_MATH_H
#define FIXTURE_TEMPLATE_MATH_H
#include "utils.h"

float overloaded(int v);
float overloaded(float v);

struct Ops {
    template <typename T>
    static T apply(T x) { return overloaded(x); }
};
#endif
`,
}

func TestFixtureCorpusWithoutOwnerDefine(t *testing.T) {
	root := writeCorpus(t, fixtureCorpus)
	res, err := Run(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if got := countCode(res, diag.PPExplicitError); got != 1 {
		t.Fatalf("PPExplicitError count = %d, items = %+v", got, res.Bag.Items())
	}
	if res.Bag.Len() != 1 {
		t.Fatalf("unexpected extra diagnostics: %+v", res.Bag.Items())
	}
	if len(res.Roots) != 7 {
		t.Fatalf("roots = %v", res.Roots)
	}
}

func TestFixtureCorpusWithOwnerDefine(t *testing.T) {
	root := writeCorpus(t, fixtureCorpus)
	res, err := Run(Config{
		Root:    root,
		Defines: map[string]string{"OWNER_ONLY_DEFINE": "1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("diagnostics: %+v", res.Bag.Items())
	}
}

func TestFixtureCorpusMetalVersionRuns(t *testing.T) {
	root := writeCorpus(t, fixtureCorpus)
	fields := make(map[bool]int)
	for _, metal := range []bool{false, true} {
		defines := map[string]string{"OWNER_ONLY_DEFINE": "1"}
		if metal {
			defines["__METAL_VERSION__"] = "310"
		}
		res, err := Run(Config{Root: root, Defines: defines})
		if err != nil {
			t.Fatal(err)
		}
		if res.Bag.Len() != 0 {
			t.Fatalf("defines %v: diagnostics %+v", defines, res.Bag.Items())
		}
		// MatmulParams определён ровно в одной ветке условия
		d := res.Table.LookupType("MatmulParams")
		if d == nil {
			t.Fatalf("defines %v: MatmulParams not extracted", defines)
		}
		fields[metal] = len(d.Fields)
	}
	// обе ветки описывают одну и ту же раскладку
	if fields[false] != 2 || fields[true] != 2 {
		t.Fatalf("branch field counts differ: %v", fields)
	}
}

func TestErrorHeaderCascadesToDependents(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"problematic_owner_only.h": fixtureCorpus["problematic_owner_only.h"],
		"caller.h": `#include "problematic_owner_only.h"
float dependent(float x) { return owner_only_helper(x); }
`,
	})
	res, err := Run(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	// заголовок упал на #error, его объявления недоступны зависимому
	if got := countCode(res, diag.PPExplicitError); got != 1 {
		t.Fatalf("explicit-error count = %d: %+v", got, res.Bag.Items())
	}
	if got := countCode(res, diag.SemaUnresolvedReference); got != 1 {
		t.Fatalf("unresolved count = %d: %+v", got, res.Bag.Items())
	}
	if res.Table.Lookup("owner_only_helper") != nil {
		t.Fatal("declarations after an active #error must not be extracted")
	}
}

func TestSharedHeaderExtractedOnce(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"shared.h": `#ifndef SHARED_H
#define SHARED_H
float shared_func(float x) { return x; }
#endif
`,
		"user_a.h": "#include \"shared.h\"\n",
		"user_b.h": "#include \"shared.h\"\n",
	})
	res, err := Run(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	// три корня, общий заголовок сканируется один раз: дублей нет
	if got := countCode(res, diag.SemaDuplicateDefinition); got != 0 {
		t.Fatalf("duplicate definitions reported: %+v", res.Bag.Items())
	}
	set := res.Table.Lookup("shared_func")
	if set == nil || len(set.Decls) != 1 {
		t.Fatalf("shared_func extracted %v times", set)
	}
}

func TestDuplicateAcrossHeaders(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"a.h": "float clash(float x) { return x; }\n",
		"b.h": "float clash(float x) { return x * 2.0f; }\n",
	})
	res, err := Run(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if got := countCode(res, diag.SemaDuplicateDefinition); got != 1 {
		t.Fatalf("diagnostics: %+v", res.Bag.Items())
	}
}

func TestIncludeCycleDiagnosedOnce(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"a.h": "#include \"b.h\"\nfloat a_func(float x);\n",
		"b.h": "#include \"a.h\"\nfloat b_func(float x);\n",
	})
	res, err := Run(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if got := countCode(res, diag.IncIncludeCycle); got != 1 {
		t.Fatalf("cycle diagnostics = %d: %+v", got, res.Bag.Items())
	}
}

func TestMissingIncludeDiagnosed(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"root.h": "#include \"gone.h\"\nfloat f(float x);\n",
	})
	res, err := Run(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if got := countCode(res, diag.IncMissingInclude); got != 1 {
		t.Fatalf("diagnostics: %+v", res.Bag.Items())
	}
}

func TestUnresolvedReferenceAcrossFiles(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"lib.h":  "float helper(float x) { return x; }\n",
		"user.h": "#include \"lib.h\"\nfloat entry(float x) { return helper(x) + missing(x); }\n",
	})
	res, err := Run(Config{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if got := countCode(res, diag.SemaUnresolvedReference); got != 1 {
		t.Fatalf("diagnostics: %+v", res.Bag.Items())
	}
}

func TestParallelAndSerialAgree(t *testing.T) {
	root := writeCorpus(t, fixtureCorpus)
	serial, err := Run(Config{Root: root, Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := Run(Config{Root: root, Jobs: 4})
	if err != nil {
		t.Fatal(err)
	}
	want := diag.FormatGolden(serial.Bag.Items(), serial.FileSet, false)
	got := diag.FormatGolden(parallel.Bag.Items(), parallel.FileSet, false)
	if want != got {
		t.Fatalf("jobs=1 vs jobs=4 mismatch:\n%s\n---\n%s", want, got)
	}
}

func TestEmptyCorpusIsAnError(t *testing.T) {
	root := t.TempDir()
	if _, err := Run(Config{Root: root}); err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestMaxDiagnosticsCapsBag(t *testing.T) {
	root := writeCorpus(t, map[string]string{
		"many.h": `float a() { return u1(); }
float b() { return u2(); }
float c() { return u3(); }
float d() { return u4(); }
`,
	})
	res, err := Run(Config{Root: root, MaxDiagnostics: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 2 {
		t.Fatalf("bag len = %d", res.Bag.Len())
	}
}
