package decl

import (
	"strings"

	"metalint/internal/token"
)

// scanBody walks a function body (открывающая '{' уже потреблена) and
// records call sites as Refs. Это не разбор выражений: нас интересуют
// только паттерны вида name(...) и ns::name(...), не стоящие за ./->.
func (ex *Extractor) scanBody(d *Declaration) {
	paramEnv := make(map[string]string, len(d.Signature.Params))
	for _, p := range d.Signature.Params {
		if p.Name != "" {
			paramEnv[p.Name] = p.Type.String()
		}
	}
	inTemplate := len(d.TypeParams) > 0

	depth := 1
	prev := token.Invalid
	for !ex.eof() && depth > 0 {
		t := ex.peek()
		switch t.Kind {
		case token.LBrace:
			depth++
			ex.pos++

		case token.RBrace:
			depth--
			ex.pos++

		case token.Ident:
			if prev == token.Dot || prev == token.Arrow {
				// обращение к члену, не вызов свободной функции
				ex.pos++
				break
			}
			ex.scanCallChain(d, paramEnv, inTemplate)

		default:
			ex.pos++
		}
		prev = ex.peekPrev().Kind
	}
}

// scanCallChain потребляет цепочку Ident (:: Ident)* и, если за ней идёт
// '(', записывает Ref. Аргументы классифицируются без потребления, чтобы
// вложенные вызовы обходились дальше обычным порядком.
func (ex *Extractor) scanCallChain(d *Declaration, paramEnv map[string]string, inTemplate bool) {
	var chain []token.Token
	chain = append(chain, ex.toks[ex.pos])
	ex.pos++
	for ex.peek().Kind == token.ColonColon && ex.peekAt(1).Kind == token.Ident {
		ex.pos++
		chain = append(chain, ex.next())
	}

	last := chain[len(chain)-1]
	if ex.peek().Kind != token.LParen {
		return
	}
	name := last.Text

	if controlFlowWords[name] {
		return
	}
	if IsBuiltinType(name) {
		// float(x) и подобные касты вне модели вызовов
		return
	}

	var qualifier []string
	for _, q := range chain[:len(chain)-1] {
		qualifier = append(qualifier, q.Text)
	}

	ex.out.Refs = append(ex.out.Refs, Ref{
		Name:       name,
		Qualifier:  qualifier,
		Namespace:  d.Namespace,
		Usings:     ex.usingsSnapshot(),
		ArgTypes:   ex.classifyArgs(paramEnv),
		Span:       last.Span,
		InTemplate: inTemplate,
	})
	ex.pos++ // '(' — аргументы обойдёт внешний цикл
}

func (ex *Extractor) usingsSnapshot() []string {
	if len(ex.usings) == 0 {
		return nil
	}
	out := make([]string, len(ex.usings))
	copy(out, ex.usings)
	return out
}

// classifyArgs просматривает аргументы вызова вперёд, не двигая позицию.
// Текущий токен — '('. Возвращает по одной строке на аргумент: имя типа,
// если он статически очевиден, иначе "".
func (ex *Extractor) classifyArgs(paramEnv map[string]string) []string {
	i := ex.pos + 1
	if i < len(ex.toks) && ex.toks[i].Kind == token.RParen {
		return nil
	}

	var args []string
	var arg []token.Token
	depth := 1
	for i < len(ex.toks) && depth > 0 {
		t := ex.toks[i]
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RBracket, token.RBrace:
			depth--
		case token.RParen:
			depth--
			if depth == 0 {
				args = append(args, classifyArg(arg, paramEnv))
				return args
			}
		case token.Comma:
			if depth == 1 {
				args = append(args, classifyArg(arg, paramEnv))
				arg = arg[:0]
				i++
				continue
			}
		}
		arg = append(arg, t)
		i++
	}
	if len(arg) > 0 {
		args = append(args, classifyArg(arg, paramEnv))
	}
	return args
}

// classifyArg выводит тип одного аргумента из простых форм: литерал,
// имя параметра, унарный минус перед литералом. Всё прочее неизвестно.
func classifyArg(arg []token.Token, paramEnv map[string]string) string {
	if len(arg) == 2 && (arg[0].Kind == token.Minus || arg[0].Kind == token.Plus) {
		arg = arg[1:]
	}
	if len(arg) != 1 {
		return ""
	}
	t := arg[0]
	switch t.Kind {
	case token.IntLit:
		if strings.ContainsAny(t.Text, "uU") {
			return "uint"
		}
		return "int"
	case token.FloatLit:
		switch {
		case strings.ContainsAny(t.Text, "hH"):
			return "half"
		default:
			return "float"
		}
	case token.CharLit:
		return "char"
	case token.Ident:
		if t.Text == "true" || t.Text == "false" {
			return "bool"
		}
		return paramEnv[t.Text]
	}
	return ""
}
