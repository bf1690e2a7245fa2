package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"metalint/internal/diag"
	"metalint/internal/source"
)

func testBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("shaders/util.h", []byte("float f(float x);\nfloat g() { return missing(1); }\n"))
	bag := diag.NewBag(0)

	// missing на второй строке: смещение 37, длина 7
	sp := source.Span{File: id, Start: 37, End: 44}
	bag.Add(diag.NewError(diag.SemaUnresolvedReference, sp, "unresolved reference to 'missing'"))
	bag.Add(diag.NewWarning(diag.SemaAmbiguousOverload,
		source.Span{File: id, Start: 6, End: 7}, "ambiguous call to 'f': 2 candidates match"))
	bag.Sort()
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := testBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	out := buf.String()

	if !strings.Contains(out, "shaders/util.h:2:20: ERROR SEM3002: unresolved reference to 'missing'") {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.Contains(out, "^~~~~~") {
		t.Fatalf("missing caret marker:\n%s", out)
	}
	if !strings.Contains(out, "1 error(s), 1 warning(s)") {
		t.Fatalf("missing summary:\n%s", out)
	}
}

func TestPrettyNoWarnings(t *testing.T) {
	bag, fs := testBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{NoWarnings: true})
	out := buf.String()

	if strings.Contains(out, "WARNING") {
		t.Fatalf("warning leaked through NoWarnings:\n%s", out)
	}
	if !strings.Contains(out, "1 error(s), 0 warning(s)") {
		t.Fatalf("summary:\n%s", out)
	}
}

func TestPrettyBasenamePath(t *testing.T) {
	bag, fs := testBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "util.h:2:20:") {
		t.Fatalf("output:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "shaders/") {
		t.Fatalf("basename mode kept directory:\n%s", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	bag, fs := testBag(t)
	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true})
	if err != nil {
		t.Fatal(err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("counts = %d/%d", out.Errors, out.Warnings)
	}
	if len(out.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %+v", out.Diagnostics)
	}
	first := out.Diagnostics[0]
	if first.Code != "SEM3003" || first.Class != "ambiguous-overload" {
		t.Fatalf("first = %+v", first)
	}
	if first.Location.StartLine != 1 {
		t.Fatalf("location = %+v", first.Location)
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	bag, fs := testBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Diagnostics) != 1 || !out.Truncated {
		t.Fatalf("out = %+v", out)
	}
	// счётчики считаются по всему мешку
	if out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("counts = %d/%d", out.Errors, out.Warnings)
	}
}
