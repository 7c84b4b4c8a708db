package arith

import (
	"math"
	"sort"
	"strconv"
)

// functions maps each callable name to its implementation.
// Trigonometric functions take radians.
var functions = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"log10": math.Log10,
	"ln":    math.Log,
}

// FunctionNames returns the recognized function names in sorted order.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eval parses and evaluates src in canonical form.
//
// It returns a *SyntaxError for malformed input and ErrNonFinite when the
// result is NaN or infinite. Eval has no side effects.
func Eval(src string) (float64, error) {
	p := &parser{s: scanner{src: src}}
	if err := p.advance(); err != nil {
		return 0, err
	}

	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.tok.kind != tokEOF {
		return 0, p.unexpected()
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}

// parser holds one token of lookahead.
type parser struct {
	s   scanner
	tok token
}

func (p *parser) advance() error {
	tok, err := p.s.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) unexpected() *SyntaxError {
	return syntaxErrorf(p.tok.pos, "unexpected %s", describe(p.tok))
}

func describe(tok token) string {
	switch tok.kind {
	case tokNumber, tokIdent:
		return tok.kind.String() + " " + strconv.Quote(tok.text)
	}
	return tok.kind.String()
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == tokPlus {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash || p.tok.kind == tokPercent {
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		switch op {
		case tokStar:
			left *= right
		case tokSlash:
			left /= right
		case tokPercent:
			left = math.Mod(left, right)
		}
	}
	return left, nil
}

func (p *parser) unary() (float64, error) {
	switch p.tok.kind {
	case tokPlus:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return p.unary()
	case tokMinus:
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.unary()
		return -v, err
	}
	return p.power()
}

func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.tok.kind != tokPow {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	// The exponent is a unary so that 2**-1 and 2**3**2 both parse.
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	return math.Pow(base, exp), nil
}

func (p *parser) primary() (float64, error) {
	switch p.tok.kind {
	case tokNumber:
		v := p.tok.num
		return v, p.advance()

	case tokLParen:
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokRParen); err != nil {
			return 0, err
		}
		return v, nil

	case tokIdent:
		name, pos := p.tok.text, p.tok.pos
		fn, ok := functions[name]
		if !ok {
			return 0, syntaxErrorf(pos, "unknown function %q", name)
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		if err := p.expect(tokLParen); err != nil {
			return 0, err
		}
		arg, err := p.expr()
		if err != nil {
			return 0, err
		}
		if err := p.expect(tokRParen); err != nil {
			return 0, err
		}
		return fn(arg), nil
	}
	return 0, p.unexpected()
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return syntaxErrorf(p.tok.pos, "expected %s, got %s", kind, describe(p.tok))
	}
	return p.advance()
}
