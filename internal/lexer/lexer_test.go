package lexer_test

import (
	"testing"

	"metalint/internal/lexer"
	"metalint/internal/source"
	"metalint/internal/token"
)

// testReporter собирает все сообщения, полученные от лексера
type testReporter struct {
	kinds []string
}

func (r *testReporter) Report(kind string, _ source.Span, _ string) {
	r.kinds = append(r.kinds, kind)
}

func lexAll(t *testing.T, text string) ([]token.Token, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.h", []byte(text))
	rep := &testReporter{}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	return lx.Tokens(), rep
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestKeywordsAndIdents(t *testing.T) {
	toks, rep := lexAll(t, "namespace fixture { struct TensorRef; device float x; }")
	want := []token.Kind{
		token.KwNamespace, token.Ident, token.LBrace,
		token.KwStruct, token.Ident, token.Semicolon,
		token.KwDevice, token.Ident, token.Ident, token.Semicolon,
		token.RBrace,
	}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("token count: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if len(rep.kinds) != 0 {
		t.Errorf("unexpected lex reports: %v", rep.kinds)
	}
}

func TestNumbers(t *testing.T) {
	cases := []struct {
		text string
		kind token.Kind
	}{
		{"42", token.IntLit},
		{"0x1F", token.IntLit},
		{"7u", token.IntLit},
		{"1.0", token.FloatLit},
		{"1.0f", token.FloatLit},
		{"0.5h", token.FloatLit},
		{".25", token.FloatLit},
		{"1e-3f", token.FloatLit},
		{"2.", token.FloatLit},
	}
	for _, tc := range cases {
		toks, _ := lexAll(t, tc.text)
		if len(toks) != 1 {
			t.Errorf("%q: expected 1 token, got %d", tc.text, len(toks))
			continue
		}
		if toks[0].Kind != tc.kind {
			t.Errorf("%q: got %v, want %v", tc.text, toks[0].Kind, tc.kind)
		}
		if toks[0].Text != tc.text {
			t.Errorf("%q: text %q", tc.text, toks[0].Text)
		}
	}
}

func TestOperatorName(t *testing.T) {
	toks, _ := lexAll(t, "ComplexLite operator+(ComplexLite lhs, ComplexLite rhs)")
	got := kindsOf(toks)
	want := []token.Kind{
		token.Ident, token.KwOperator, token.Plus, token.LParen,
		token.Ident, token.Ident, token.Comma,
		token.Ident, token.Ident, token.RParen,
	}
	if len(got) != len(want) {
		t.Fatalf("token count: got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScopeAndTemplatePunct(t *testing.T) {
	toks, _ := lexAll(t, "metal::abs<T>(x);")
	got := kindsOf(toks)
	want := []token.Kind{
		token.Ident, token.ColonColon, token.Ident,
		token.Lt, token.Ident, token.Gt,
		token.LParen, token.Ident, token.RParen, token.Semicolon,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCommentsSkipped(t *testing.T) {
	toks, rep := lexAll(t, "int x; // trailing\n/* block\ncomment */ float y;")
	got := kindsOf(toks)
	want := []token.Kind{
		token.Ident, token.Ident, token.Semicolon,
		token.Ident, token.Ident, token.Semicolon,
	}
	if len(got) != len(want) {
		t.Fatalf("token count: got %v", got)
	}
	if len(rep.kinds) != 0 {
		t.Errorf("unexpected reports: %v", rep.kinds)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, rep := lexAll(t, "/* never closed")
	if len(rep.kinds) != 1 || rep.kinds[0] != lexer.KindUnterminatedComment {
		t.Fatalf("expected one unterminated_block_comment report, got %v", rep.kinds)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, rep := lexAll(t, "\"no closing quote\n")
	if len(rep.kinds) != 1 || rep.kinds[0] != lexer.KindUnterminatedString {
		t.Fatalf("expected one unterminated_string report, got %v", rep.kinds)
	}
}

func TestRangeLexing(t *testing.T) {
	fs := source.NewFileSet()
	text := "#define X 1\nfloat f;\n#endif\n"
	id := fs.AddVirtual("r.h", []byte(text))
	// лексим только среднюю строку
	start := uint32(12)
	end := uint32(20)
	lx := lexer.NewRange(fs.Get(id), start, end, lexer.Options{})
	got := kindsOf(lx.Tokens())
	want := []token.Kind{token.Ident, token.Ident, token.Semicolon}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
