package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ParseError reports the byte offset at which parsing failed.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Pos, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokEq
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse reads an infix expression such as "x^3 - 6x^2 + 11*x - 6".
//
// Supported: decimal and integer literals (kept exact), identifiers, the
// operators + - * / ^ (** is accepted for ^), unary minus, parentheses,
// implicit multiplication ("2x", "3(x+1)"), function calls from the kernel's
// function table plus sqrt and log, and the constants pi and e.
// "lhs = rhs" parses to the residual lhs - rhs.
func Parse(src string) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	lhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokEq {
		p.next()
		rhs, err := p.expr()
		if err != nil {
			return nil, err
		}
		lhs = Eq(lhs, rhs).Residual()
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	return lhs, nil
}

// MustParse is like Parse but panics on error. Intended for literals in
// tests and examples.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case unicode.IsDigit(c) || c == '.':
			start := i
			for i < len(src) && (unicode.IsDigit(rune(src[i])) || src[i] == '.') {
				i++
			}
			// exponent suffix: 1e-4, 2.5E3
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && unicode.IsDigit(rune(src[j])) {
					for j < len(src) && unicode.IsDigit(rune(src[j])) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNum, text: src[start:i], pos: start})
		case unicode.IsLetter(c) || c == '_':
			start := i
			for i < len(src) && (unicode.IsLetter(rune(src[i])) || unicode.IsDigit(rune(src[i])) || src[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case c == '*' && i+1 < len(src) && src[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "^", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^", c):
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '=':
			toks = append(toks, token{kind: tokEq, text: "=", pos: i})
			i++
		default:
			return nil, &ParseError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

// maxNesting bounds the depth of parentheses, unary signs and exponents.
const maxNesting = 256

type parser struct {
	toks  []token
	pos   int
	depth int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(s string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == s
}

// expr := term { ("+" | "-") term }
func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			left = AddOf(left, right)
		} else {
			left = SubOf(left, right)
		}
	}
	return left, nil
}

// term := unary { ("*" | "/" | <implicit>) unary }
func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch {
		case p.isOp("*"), p.isOp("/"):
			op := p.next().text
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			if op == "*" {
				left = MulOf(left, right)
			} else {
				left = DivOf(left, right)
			}
		case t.kind == tokNum, t.kind == tokIdent, t.kind == tokLParen:
			right, err := p.power()
			if err != nil {
				return nil, err
			}
			left = MulOf(left, right)
		default:
			return left, nil
		}
	}
}

// unary := ("-" | "+") unary | power
func (p *parser) unary() (Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNesting {
		return nil, &ParseError{Pos: p.peek().pos, Msg: "expression nested too deeply"}
	}
	if p.isOp("-") {
		p.next()
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		return MulOf(N(-1), e), nil
	}
	if p.isOp("+") {
		p.next()
		return p.unary()
	}
	return p.power()
}

// power := primary [ "^" unary ]   (right associative)
func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^") {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("invalid number %q", t.text)}
		}
		return nRat(r), nil
	case tokIdent:
		if p.peek().kind != tokLParen || !isFuncName(t.text) {
			return S(t.text), nil
		}
		p.next()
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		f, err := FuncOf(t.text, arg)
		if err != nil {
			return nil, &ParseError{Pos: t.pos, Msg: err.Error()}
		}
		return f, nil
	case tokLParen:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil
	case tokEOF:
		return nil, &ParseError{Pos: t.pos, Msg: "unexpected end of input"}
	}
	return nil, &ParseError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
}

func isFuncName(name string) bool {
	if name == "sqrt" || name == "log" {
		return true
	}
	_, ok := mathFuncs[name]
	return ok
}

func (p *parser) expect(kind tokenKind) error {
	t := p.next()
	if t.kind != kind {
		if t.kind == tokEOF {
			return &ParseError{Pos: t.pos, Msg: "unexpected end of input"}
		}
		return &ParseError{Pos: t.pos, Msg: fmt.Sprintf("unexpected %q", t.text)}
	}
	return nil
}
