package preproc

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluate computes a preprocessor condition against the environment.
// Поддерживается подмножество выражений C-препроцессора: defined(X) /
// defined X, целые литералы, подстановка объектных макросов, унарные
// ! - + ~, бинарные * / % + - << >> < <= > >= == != & ^ | && ||.
// Неопределённый идентификатор считается нулём, как в настоящем cpp.
func Evaluate(expr string, env *Env) (bool, error) {
	p := &condParser{env: env}
	p.tokens = condLex(expr)
	v, err := p.parseExpr(0)
	if err != nil {
		return false, err
	}
	if !p.eof() {
		return false, fmt.Errorf("unexpected %q in condition", p.peek())
	}
	return v != 0, nil
}

type condParser struct {
	tokens []string
	pos    int
	env    *Env
	depth  int
}

// substitution depth guard: самоссылающийся макрос не должен зациклить eval
const maxSubstDepth = 16

func (p *condParser) eof() bool { return p.pos >= len(p.tokens) }

func (p *condParser) peek() string { return p.tokens[p.pos] }

func (p *condParser) next() string { t := p.tokens[p.pos]; p.pos++; return t }

func (p *condParser) accept(t string) bool {
	if !p.eof() && p.tokens[p.pos] == t {
		p.pos++
		return true
	}
	return false
}

// бинарные операторы по убыванию приоритета (как в C)
var condPrec = map[string]int{
	"*": 10, "/": 10, "%": 10,
	"+": 9, "-": 9,
	"<<": 8, ">>": 8,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"==": 6, "!=": 6,
	"&": 5, "^": 4, "|": 3,
	"&&": 2, "||": 1,
}

func (p *condParser) parseExpr(minPrec int) (int64, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for !p.eof() {
		op := p.peek()
		prec, ok := condPrec[op]
		if !ok || prec < minPrec {
			break
		}
		p.next()
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return 0, err
		}
		lhs, err = applyBinary(op, lhs, rhs)
		if err != nil {
			return 0, err
		}
	}
	return lhs, nil
}

func (p *condParser) parseUnary() (int64, error) {
	if p.eof() {
		return 0, fmt.Errorf("unexpected end of condition")
	}
	switch p.peek() {
	case "!":
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if v == 0 {
			return 1, nil
		}
		return 0, nil
	case "-":
		p.next()
		v, err := p.parseUnary()
		return -v, err
	case "+":
		p.next()
		return p.parseUnary()
	case "~":
		p.next()
		v, err := p.parseUnary()
		return ^v, err
	}
	return p.parsePrimary()
}

func (p *condParser) parsePrimary() (int64, error) {
	tok := p.next()
	switch {
	case tok == "(":
		v, err := p.parseExpr(0)
		if err != nil {
			return 0, err
		}
		if !p.accept(")") {
			return 0, fmt.Errorf("missing ')' in condition")
		}
		return v, nil

	case tok == "defined":
		name := ""
		if p.accept("(") {
			if p.eof() {
				return 0, fmt.Errorf("defined() without a name")
			}
			name = p.next()
			if !p.accept(")") {
				return 0, fmt.Errorf("missing ')' after defined(%s", name)
			}
		} else {
			if p.eof() {
				return 0, fmt.Errorf("defined without a name")
			}
			name = p.next()
		}
		if !isCondIdent(name) {
			return 0, fmt.Errorf("defined applied to %q", name)
		}
		if p.env.IsDefined(name) {
			return 1, nil
		}
		return 0, nil

	case isCondNumber(tok):
		return parseCondInt(tok)

	case isCondIdent(tok):
		return p.substMacro(tok)
	}
	return 0, fmt.Errorf("unexpected %q in condition", tok)
}

// substMacro рекурсивно подставляет объектный макрос как целое.
// Неопределённое имя → 0. Функциональный макрос в условии → 0 (анализатор
// не раскрывает вызовы).
func (p *condParser) substMacro(name string) (int64, error) {
	if p.depth >= maxSubstDepth {
		return 0, fmt.Errorf("macro substitution too deep at %q", name)
	}
	m, ok := p.env.Lookup(name)
	if !ok || m.FnLike {
		return 0, nil
	}
	body := strings.TrimSpace(m.Body)
	if body == "" {
		// определён без значения: в условии это 1? Нет — пустое тело
		// подставляется как пустота; классический cpp выдал бы ошибку,
		// мы считаем 0, чтобы не падать на #if GUARD после #define GUARD.
		return 0, nil
	}
	p.depth++
	defer func() { p.depth-- }()

	sub := &condParser{env: p.env, depth: p.depth, tokens: condLex(body)}
	v, err := sub.parseExpr(0)
	if err != nil {
		return 0, fmt.Errorf("in expansion of %s: %w", name, err)
	}
	if !sub.eof() {
		return 0, fmt.Errorf("in expansion of %s: trailing %q", name, sub.peek())
	}
	return v, nil
}

func applyBinary(op string, l, r int64) (int64, error) {
	b2i := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}
	switch op {
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("division by zero in condition")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, fmt.Errorf("division by zero in condition")
		}
		return l % r, nil
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "<<":
		return l << uint(r&63), nil
	case ">>":
		return l >> uint(r&63), nil
	case "<":
		return b2i(l < r), nil
	case "<=":
		return b2i(l <= r), nil
	case ">":
		return b2i(l > r), nil
	case ">=":
		return b2i(l >= r), nil
	case "==":
		return b2i(l == r), nil
	case "!=":
		return b2i(l != r), nil
	case "&":
		return l & r, nil
	case "^":
		return l ^ r, nil
	case "|":
		return l | r, nil
	case "&&":
		return b2i(l != 0 && r != 0), nil
	case "||":
		return b2i(l != 0 || r != 0), nil
	}
	return 0, fmt.Errorf("unknown operator %q", op)
}

// condLex разбивает условие на токены-строки. Самодостаточный мини-лексер:
// условия короткие, токены диалекта здесь не нужны.
func condLex(s string) []string {
	var out []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isCondIdentByte(c, true):
			j := i + 1
			for j < len(s) && isCondIdentByte(s[j], false) {
				j++
			}
			out = append(out, s[i:j])
			i = j
		case c >= '0' && c <= '9':
			j := i + 1
			for j < len(s) && (isCondIdentByte(s[j], false) || s[j] == 'x' || s[j] == 'X') {
				j++
			}
			out = append(out, s[i:j])
			i = j
		default:
			// двухсимвольные операторы вперёд
			if i+1 < len(s) {
				two := s[i : i+2]
				switch two {
				case "&&", "||", "==", "!=", "<=", ">=", "<<", ">>":
					out = append(out, two)
					i += 2
					continue
				}
			}
			out = append(out, string(c))
			i++
		}
	}
	return out
}

func isCondIdentByte(b byte, start bool) bool {
	if b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return true
	}
	return !start && b >= '0' && b <= '9'
}

func isCondIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isCondIdentByte(s[i], i == 0) {
			return false
		}
	}
	return true
}

func isCondNumber(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func parseCondInt(s string) (int64, error) {
	// суффиксы u/U/l/L допустимы и игнорируются
	trimmed := strings.TrimRight(s, "uUlL")
	v, err := strconv.ParseInt(trimmed, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad integer %q in condition", s)
	}
	return v, nil
}
