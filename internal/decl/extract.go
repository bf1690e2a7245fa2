package decl

import (
	"metalint/internal/source"
	"metalint/internal/token"
)

// Extractor walks the active token stream of one resolved file and builds
// the declaration model: свободные функции (с перегрузками), структуры с
// членами и операторами, шаблоны, алиасы, пространства имён.
//
// Это эвристический разбор без полного C++: извлекаем то, что нужно для
// диагностик, и молча пропускаем конструкции вне модели.
type Extractor struct {
	toks []token.Token
	pos  int

	ns      []string
	usings  []string
	pending []string // параметры ближайшего template<...>
	out     FileResult
}

// NewExtractor creates an extractor over the file's active tokens.
func NewExtractor(toks []token.Token) *Extractor {
	return &Extractor{toks: toks}
}

// Extract runs the pass and returns the per-file result.
func (ex *Extractor) Extract() FileResult {
	ex.parseScope(nil)
	return ex.out
}

// ===== движение по токенам =====

func (ex *Extractor) eof() bool {
	return ex.pos >= len(ex.toks)
}

func (ex *Extractor) peek() token.Token {
	if ex.eof() {
		return token.Token{Kind: token.EOF}
	}
	return ex.toks[ex.pos]
}

func (ex *Extractor) peekAt(n int) token.Token {
	if ex.pos+n >= len(ex.toks) {
		return token.Token{Kind: token.EOF}
	}
	return ex.toks[ex.pos+n]
}

func (ex *Extractor) next() token.Token {
	t := ex.peek()
	ex.pos++
	return t
}

func (ex *Extractor) accept(k token.Kind) bool {
	if ex.peek().Kind == k {
		ex.pos++
		return true
	}
	return false
}

// skipBalanced пропускает сбалансированную группу, открывашка которой уже потреблена.
func (ex *Extractor) skipBalanced(open, close token.Kind) {
	depth := 1
	for !ex.eof() && depth > 0 {
		switch ex.next().Kind {
		case open:
			depth++
		case close:
			depth--
		}
	}
}

// skipToSemicolon пропускает до ';' включительно, уважая вложенные скобки.
func (ex *Extractor) skipToSemicolon() {
	for !ex.eof() {
		switch ex.next().Kind {
		case token.Semicolon:
			return
		case token.LBrace:
			ex.skipBalanced(token.LBrace, token.RBrace)
		case token.LParen:
			ex.skipBalanced(token.LParen, token.RParen)
		}
	}
}

// ===== верхний уровень =====

// parseScope разбирает объявления до закрывающей '}' текущего scope
// (или до EOF на верхнем уровне). structDecl != nil — мы внутри тела
// структуры и собираем поля.
func (ex *Extractor) parseScope(structDecl *Declaration) {
	for !ex.eof() {
		switch ex.peek().Kind {
		case token.RBrace:
			return

		case token.KwNamespace:
			ex.parseNamespace()

		case token.KwUsing:
			ex.parseUsing()

		case token.KwTemplate:
			ex.parseTemplateHeader()

		case token.KwTypedef:
			ex.parseTypedef()

		case token.KwStruct, token.KwClass, token.KwUnion:
			ex.parseStructOrForward()

		case token.KwEnum:
			// enum [class] Name { ... }; — вне модели, пропускаем
			ex.skipToSemicolon()

		case token.Semicolon:
			ex.pos++

		default:
			ex.parseFunctionOrMember(structDecl)
		}
	}
}

func (ex *Extractor) parseNamespace() {
	ex.pos++ // namespace
	if ex.peek().Kind != token.Ident {
		// анонимный namespace: { ... } в том же пути
		if ex.accept(token.LBrace) {
			ex.parseScope(nil)
			ex.accept(token.RBrace)
		}
		return
	}
	name := ex.next().Text
	if !ex.accept(token.LBrace) {
		ex.skipToSemicolon()
		return
	}
	ex.ns = append(ex.ns, name)
	ex.parseScope(nil)
	ex.accept(token.RBrace)
	ex.ns = ex.ns[:len(ex.ns)-1]
}

func (ex *Extractor) parseUsing() {
	ex.pos++ // using
	if ex.accept(token.KwNamespace) {
		// using namespace metal;
		path := ""
		for ex.peek().Kind == token.Ident {
			if path != "" {
				path += "::"
			}
			path += ex.next().Text
			if !ex.accept(token.ColonColon) {
				break
			}
		}
		if path != "" {
			ex.usings = append(ex.usings, path)
		}
		ex.accept(token.Semicolon)
		return
	}

	// using Alias = Type;
	if ex.peek().Kind == token.Ident && ex.peekAt(1).Kind == token.Assign {
		name := ex.next()
		ex.pos++ // '='
		ex.out.Decls = append(ex.out.Decls, &Declaration{
			Kind:      KindAlias,
			Namespace: ex.nsPath(),
			Name:      name.Text,
			Span:      name.Span,
		})
	}
	ex.skipToSemicolon()
}

// parseTemplateHeader собирает template<typename T, class U> в ex.pending.
func (ex *Extractor) parseTemplateHeader() {
	ex.pos++ // template
	if !ex.accept(token.Lt) {
		return
	}
	var params []string
	depth := 1
	for !ex.eof() && depth > 0 {
		t := ex.next()
		switch t.Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		case token.Shr:
			depth -= 2
		case token.KwTypename, token.KwClass:
			if depth == 1 && ex.peek().Kind == token.Ident {
				params = append(params, ex.next().Text)
			}
		}
	}
	ex.pending = params
}

// parseTypedef обрабатывает typedef struct { ... } Name; и typedef A B;
func (ex *Extractor) parseTypedef() {
	ex.pos++ // typedef
	if ex.peek().Kind == token.KwStruct || ex.peek().Kind == token.KwClass ||
		ex.peek().Kind == token.KwUnion {
		ex.pos++
		// опциональный тег
		if ex.peek().Kind == token.Ident && ex.peekAt(1).Kind == token.LBrace {
			ex.pos++
		}
		if ex.accept(token.LBrace) {
			fields := ex.parseFieldBlock()
			if ex.peek().Kind == token.Ident {
				name := ex.next()
				ex.out.Decls = append(ex.out.Decls, &Declaration{
					Kind:      KindAlias,
					Namespace: ex.nsPath(),
					Name:      name.Text,
					Fields:    fields,
					Span:      name.Span,
				})
			}
		}
		ex.skipToSemicolon()
		return
	}

	// typedef A B; — имя алиаса перед ';'
	var last token.Token
	for !ex.eof() && ex.peek().Kind != token.Semicolon {
		t := ex.next()
		if t.Kind == token.Ident {
			last = t
		}
	}
	ex.accept(token.Semicolon)
	if last.Kind == token.Ident {
		ex.out.Decls = append(ex.out.Decls, &Declaration{
			Kind:      KindAlias,
			Namespace: ex.nsPath(),
			Name:      last.Text,
			Span:      last.Span,
		})
	}
}

// parseFieldBlock разбирает тело простого агрегата до '}' и возвращает поля.
// Используется для typedef struct { ... }.
func (ex *Extractor) parseFieldBlock() []Field {
	var fields []Field
	for !ex.eof() && ex.peek().Kind != token.RBrace {
		ty, ok := ex.parseType()
		if !ok {
			ex.skipToSemicolon()
			continue
		}
		if ex.peek().Kind == token.Ident {
			name := ex.next()
			fields = append(fields, Field{Type: ty, Name: name.Text})
		}
		ex.skipToSemicolon()
	}
	ex.accept(token.RBrace)
	return fields
}

func (ex *Extractor) parseStructOrForward() {
	ex.pos++ // struct/class/union
	if ex.peek().Kind != token.Ident {
		ex.skipToSemicolon()
		return
	}
	name := ex.next()

	if !ex.accept(token.LBrace) {
		// forward declaration — не вносим в модель
		ex.pending = nil
		ex.skipToSemicolon()
		return
	}

	d := &Declaration{
		Kind:      KindStruct,
		Namespace: ex.nsPath(),
		Name:      name.Text,
		Span:      name.Span,
	}
	if len(ex.pending) > 0 {
		d.Kind = KindTemplate
		d.TypeParams = ex.pending
		ex.pending = nil
	}
	ex.out.Decls = append(ex.out.Decls, d)

	// члены структуры видят её имя как часть пути
	ex.ns = append(ex.ns, name.Text)
	ex.parseScope(d)
	ex.ns = ex.ns[:len(ex.ns)-1]

	ex.accept(token.RBrace)
	ex.accept(token.Semicolon)
}

// parseFunctionOrMember пытается разобрать функцию/оператор/поле.
// Если паттерн не распознан, токен пропускается (error recovery).
func (ex *Extractor) parseFunctionOrMember(structDecl *Declaration) {
	start := ex.pos
	templateParams := ex.pending
	ex.pending = nil

	// квалификаторы перед типом
	for {
		switch ex.peek().Kind {
		case token.KwInline, token.KwStatic, token.KwConstexpr,
			token.KwKernel, token.KwVertex, token.KwFragment:
			ex.pos++
			continue
		}
		break
	}

	ty, ok := ex.parseType()
	if !ok {
		ex.pos = start
		ex.pos++ // recovery: не зациклиться
		return
	}

	// operator-функция
	if ex.peek().Kind == token.KwOperator {
		opTok := ex.next()
		op := ex.next()
		if !op.IsOverloadableOp() && op.Kind != token.LParen && op.Kind != token.LBracket {
			ex.skipToSemicolon()
			return
		}
		name := "operator" + op.Text
		if op.Kind == token.LParen && ex.accept(token.RParen) {
			name = "operator()"
		}
		if op.Kind == token.LBracket && ex.accept(token.RBracket) {
			name = "operator[]"
		}
		kind := KindOperator
		if len(templateParams) > 0 {
			kind = KindTemplate
		}
		ex.finishCallable(kind, name, opTok.Span, ty, templateParams)
		return
	}

	if ex.peek().Kind != token.Ident {
		ex.pos = start
		ex.pos++
		return
	}
	name := ex.next()

	switch ex.peek().Kind {
	case token.LParen:
		kind := KindFunction
		if len(templateParams) > 0 {
			kind = KindTemplate
		}
		ex.finishCallable(kind, name.Text, name.Span, ty, templateParams)

	case token.Semicolon, token.Assign, token.LBracket, token.Comma:
		// поле структуры или переменная
		if structDecl != nil {
			structDecl.Fields = append(structDecl.Fields, Field{Type: ty, Name: name.Text})
		}
		ex.skipToSemicolon()

	default:
		ex.skipToSemicolon()
	}
}

// finishCallable дочитывает параметры и тело функции/оператора.
func (ex *Extractor) finishCallable(kind Kind, name string, sp source.Span, ret Type, templateParams []string) {
	if !ex.accept(token.LParen) {
		ex.skipToSemicolon()
		return
	}
	params := ex.parseParams()

	d := &Declaration{
		Kind:       kind,
		Namespace:  ex.nsPath(),
		Name:       name,
		Signature:  Signature{Params: params, Return: ret},
		TypeParams: templateParams,
		Span:       sp,
	}
	ex.out.Decls = append(ex.out.Decls, d)

	// хвостовые квалификаторы: const, -> trailing return и т.п.
	for !ex.eof() {
		switch ex.peek().Kind {
		case token.KwConst, token.Ident:
			ex.pos++
			continue
		}
		break
	}

	switch ex.peek().Kind {
	case token.LBrace:
		ex.pos++
		ex.scanBody(d)
	case token.Semicolon:
		ex.pos++
	default:
		ex.skipToSemicolon()
	}
}

// parseParams разбирает список параметров; '(' уже потреблена.
func (ex *Extractor) parseParams() []Param {
	var params []Param
	if ex.accept(token.RParen) {
		return params
	}
	for !ex.eof() {
		ty, ok := ex.parseType()
		if !ok {
			// не тип — пропускаем аргумент до ',' или ')'
			ex.skipParamTail()
			if ex.peekPrev().Kind == token.RParen {
				return params
			}
			continue
		}
		p := Param{Type: ty}
		if ex.peek().Kind == token.Ident {
			p.Name = ex.next().Text
		}
		params = append(params, p)

		// значение по умолчанию и прочий хвост
		ex.skipParamTail()
		if ex.peekPrev().Kind == token.RParen {
			return params
		}
	}
	return params
}

// skipParamTail пропускает до ',' или закрывающей ')' включительно.
func (ex *Extractor) skipParamTail() {
	depth := 0
	for !ex.eof() {
		switch ex.next().Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RBracket, token.RBrace:
			if depth > 0 {
				depth--
			}
		case token.RParen:
			if depth == 0 {
				return
			}
			depth--
		case token.Comma:
			if depth == 0 {
				return
			}
		}
	}
}

func (ex *Extractor) peekPrev() token.Token {
	if ex.pos == 0 || ex.pos > len(ex.toks) {
		return token.Token{Kind: token.EOF}
	}
	return ex.toks[ex.pos-1]
}

func (ex *Extractor) nsPath() []string {
	out := make([]string, len(ex.ns))
	copy(out, ex.ns)
	return out
}
