package decl

import (
	"testing"

	"metalint/internal/lexer"
	"metalint/internal/source"
)

func extractSrc(t *testing.T, src string) FileResult {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.h", []byte(src))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	return NewExtractor(lx.Tokens()).Extract()
}

func findDecl(res FileResult, name string) *Declaration {
	for _, d := range res.Decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func TestExtractFreeFunction(t *testing.T) {
	res := extractSrc(t, `
inline float mix_add(float a, float b) { return a + b; }
`)
	d := findDecl(res, "mix_add")
	if d == nil {
		t.Fatal("mix_add not extracted")
	}
	if d.Kind != KindFunction {
		t.Fatalf("kind = %v, want function", d.Kind)
	}
	if got := d.Signature.Key(); got != "(float, float)" {
		t.Fatalf("signature key = %q", got)
	}
	if d.Signature.Return.Name != "float" {
		t.Fatalf("return = %q", d.Signature.Return.Name)
	}
}

func TestExtractNamespaceNesting(t *testing.T) {
	res := extractSrc(t, `
namespace fixture {
namespace detail {
int helper(int x);
}
}
`)
	d := findDecl(res, "helper")
	if d == nil {
		t.Fatal("helper not extracted")
	}
	if got := d.QualifiedName(); got != "fixture::detail::helper" {
		t.Fatalf("qualified name = %q", got)
	}
}

func TestExtractStructWithOperator(t *testing.T) {
	res := extractSrc(t, `
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
`)
	s := findDecl(res, "ComplexLite")
	if s == nil || s.Kind != KindStruct {
		t.Fatal("ComplexLite struct not extracted")
	}
	if len(s.Fields) != 2 || s.Fields[0].Name != "re" || s.Fields[1].Name != "im" {
		t.Fatalf("fields = %+v", s.Fields)
	}

	op := findDecl(res, "operator+")
	if op == nil || op.Kind != KindOperator {
		t.Fatal("operator+ not extracted")
	}
	if got := op.Signature.Key(); got != "(ComplexLite, ComplexLite)" {
		t.Fatalf("operator key = %q", got)
	}
}

func TestExtractTemplateStruct(t *testing.T) {
	res := extractSrc(t, `
template <typename T>
struct TensorRef {
    device T* data;
    uint len;
};
`)
	d := findDecl(res, "TensorRef")
	if d == nil {
		t.Fatal("TensorRef not extracted")
	}
	if d.Kind != KindTemplate {
		t.Fatalf("kind = %v, want template", d.Kind)
	}
	if len(d.TypeParams) != 1 || d.TypeParams[0] != "T" {
		t.Fatalf("type params = %v", d.TypeParams)
	}
	if len(d.Fields) != 2 {
		t.Fatalf("fields = %+v", d.Fields)
	}
	if d.Fields[0].Type.AddrSpace != "device" || !d.Fields[0].Type.Ptr {
		t.Fatalf("field type = %+v", d.Fields[0].Type)
	}
}

func TestExtractTypedefStructFallback(t *testing.T) {
	res := extractSrc(t, `
typedef struct {
    unsigned int rows;
    unsigned int cols;
} MatmulParams;
`)
	d := findDecl(res, "MatmulParams")
	if d == nil || d.Kind != KindAlias {
		t.Fatal("MatmulParams alias not extracted")
	}
	if len(d.Fields) != 2 || d.Fields[0].Type.Name != "unsigned int" {
		t.Fatalf("fields = %+v", d.Fields)
	}
}

func TestExtractUsingNamespaceAndAlias(t *testing.T) {
	res := extractSrc(t, `
using namespace metal;
using Scalar = float;
float f(Scalar s);
`)
	a := findDecl(res, "Scalar")
	if a == nil || a.Kind != KindAlias {
		t.Fatal("Scalar alias not extracted")
	}
	// using namespace должен попасть в снимок usings у рефов
	res2 := extractSrc(t, `
using namespace metal;
float g(float x) { return h(x); }
`)
	if len(res2.Refs) != 1 {
		t.Fatalf("refs = %+v", res2.Refs)
	}
	if len(res2.Refs[0].Usings) != 1 || res2.Refs[0].Usings[0] != "metal" {
		t.Fatalf("usings = %v", res2.Refs[0].Usings)
	}
}

func TestBodyRefsWithArgTypes(t *testing.T) {
	res := extractSrc(t, `
float caller(float x, int n) {
    float a = target(x);
    float b = target(n, 1.5f);
    return other(-2);
}
`)
	if len(res.Refs) != 3 {
		t.Fatalf("got %d refs: %+v", len(res.Refs), res.Refs)
	}
	r0 := res.Refs[0]
	if r0.Name != "target" || len(r0.ArgTypes) != 1 || r0.ArgTypes[0] != "float" {
		t.Fatalf("ref0 = %+v", r0)
	}
	r1 := res.Refs[1]
	if len(r1.ArgTypes) != 2 || r1.ArgTypes[0] != "int" || r1.ArgTypes[1] != "float" {
		t.Fatalf("ref1 args = %v", r1.ArgTypes)
	}
	r2 := res.Refs[2]
	if r2.Name != "other" || len(r2.ArgTypes) != 1 || r2.ArgTypes[0] != "int" {
		t.Fatalf("ref2 = %+v", r2)
	}
}

func TestBodyRefsSkipControlFlowAndMembers(t *testing.T) {
	res := extractSrc(t, `
float f(float x) {
    if (x > 0.0f) {
        return g(x);
    }
    while (x < 1.0f) { x = x * 2.0f; }
    obj.method(x);
    ptr->call(x);
    return float(x);
}
`)
	if len(res.Refs) != 1 {
		t.Fatalf("got %d refs: %+v", len(res.Refs), res.Refs)
	}
	if res.Refs[0].Name != "g" {
		t.Fatalf("ref = %+v", res.Refs[0])
	}
}

func TestBodyRefsQualifiedCall(t *testing.T) {
	res := extractSrc(t, `
namespace outer {
float f(float x) { return fixture::detail::calc(x); }
}
`)
	if len(res.Refs) != 1 {
		t.Fatalf("refs = %+v", res.Refs)
	}
	r := res.Refs[0]
	if r.Name != "calc" {
		t.Fatalf("name = %q", r.Name)
	}
	if len(r.Qualifier) != 2 || r.Qualifier[0] != "fixture" || r.Qualifier[1] != "detail" {
		t.Fatalf("qualifier = %v", r.Qualifier)
	}
	if len(r.Namespace) != 1 || r.Namespace[0] != "outer" {
		t.Fatalf("namespace = %v", r.Namespace)
	}
}

func TestTemplateFunctionRefsArityOnly(t *testing.T) {
	res := extractSrc(t, `
template <typename T>
T apply(T x) { return overloaded(x); }
`)
	d := findDecl(res, "apply")
	if d == nil || d.Kind != KindTemplate {
		t.Fatal("apply not extracted as template")
	}
	if len(res.Refs) != 1 || !res.Refs[0].InTemplate {
		t.Fatalf("refs = %+v", res.Refs)
	}
	// тип аргумента x известен лишь как T
	if res.Refs[0].ArgTypes[0] != "T" {
		t.Fatalf("arg types = %v", res.Refs[0].ArgTypes)
	}
}

func TestStructMemberFunctionPath(t *testing.T) {
	res := extractSrc(t, `
struct Ops {
    static float apply(float x) { return overloaded(x); }
};
`)
	d := findDecl(res, "apply")
	if d == nil {
		t.Fatal("apply not extracted")
	}
	if got := d.QualifiedName(); got != "Ops::apply" {
		t.Fatalf("qualified name = %q", got)
	}
	if len(res.Refs) != 1 || res.Refs[0].Namespace[0] != "Ops" {
		t.Fatalf("refs = %+v", res.Refs)
	}
}

func TestAddressSpaceInSignature(t *testing.T) {
	res := extractSrc(t, `
void store(device float* dst, constant float& src);
void store(thread float* dst, constant float& src);
`)
	var keys []string
	for _, d := range res.Decls {
		keys = append(keys, d.Signature.Key())
	}
	if len(keys) != 2 {
		t.Fatalf("decls = %v", keys)
	}
	if keys[0] == keys[1] {
		t.Fatalf("address space must distinguish signatures, both %q", keys[0])
	}
}

func TestTableOverloadSets(t *testing.T) {
	res := extractSrc(t, `
namespace fixture {
float overloaded(int v);
float overloaded(float v);
struct Thing { int n; };
}
`)
	tbl := NewTable()
	for _, d := range res.Decls {
		tbl.Insert(d)
	}
	set := tbl.Lookup("fixture::overloaded")
	if set == nil || len(set.Decls) != 2 {
		t.Fatalf("overload set = %+v", set)
	}
	if ty := tbl.LookupType("fixture::Thing"); ty == nil {
		t.Fatal("Thing not in type table")
	}
	if tbl.Lookup("fixture::Thing") != nil {
		t.Fatal("struct must not be in callable sets")
	}
}
