// Package normalize rewrites display expressions, as typed on the keypad,
// into the canonical form understood by package arith.
//
// Input is lexed into discrete tokens before any substitution happens, so a
// constant such as "e" can never corrupt the "EXP" key or a function name.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Kind classifies a display token.
type Kind int

const (
	Number   Kind = iota // digits and decimal points, e.g. "12.5"
	Operator             // + - × ÷ * / ^ %
	LParen
	RParen
	Func  // a function key including its "(", e.g. "sin("
	Const // π or e
	Exp   // the EXP key: scientific-notation exponent of the preceding number
	Other // anything outside the keypad grammar, passed through verbatim
)

// Token is one lexed display token.
type Token struct {
	Kind Kind
	Text string
}

// Canonical constant values.
var (
	Pi    = strconv.FormatFloat(math.Pi, 'g', -1, 64)
	Euler = strconv.FormatFloat(math.E, 'g', -1, 64)
)

// functionKeys lists multi-character keys in match order.
var functionKeys = []struct {
	key       string
	canonical string
}{
	{"sin(", "sin("},
	{"cos(", "cos("},
	{"tan(", "tan("},
	{"log(", "log10("},
	{"ln(", "ln("},
	{"√(", "sqrt("},
}

var operators = map[rune]string{
	'+': "+",
	'-': "-",
	'×': "*",
	'*': "*",
	'÷': "/",
	'/': "/",
	'^': "**",
	'%': "%",
}

// Lex splits a display expression into tokens. Whitespace is dropped.
func Lex(s string) []Token {
	s = norm.NFC.String(s)

	var toks []Token
	for len(s) > 0 {
		if strings.HasPrefix(s, "EXP") {
			toks = append(toks, Token{Kind: Exp, Text: "EXP"})
			s = s[len("EXP"):]
			continue
		}
		if key, ok := matchFunction(s); ok {
			toks = append(toks, Token{Kind: Func, Text: key})
			s = s[len(key):]
			continue
		}

		r, size := utf8.DecodeRuneInString(s)
		switch {
		case r == '.' || (r >= '0' && r <= '9'):
			n := strings.IndexFunc(s, func(r rune) bool { return r != '.' && (r < '0' || r > '9') })
			if n < 0 {
				n = len(s)
			}
			toks = append(toks, Token{Kind: Number, Text: s[:n]})
			s = s[n:]
			continue
		case r == 'π' || r == 'e':
			toks = append(toks, Token{Kind: Const, Text: string(r)})
		case r == '(':
			toks = append(toks, Token{Kind: LParen, Text: "("})
		case r == ')':
			toks = append(toks, Token{Kind: RParen, Text: ")"})
		case unicode.IsSpace(r):
		default:
			if _, ok := operators[r]; ok {
				toks = append(toks, Token{Kind: Operator, Text: string(r)})
			} else {
				toks = append(toks, Token{Kind: Other, Text: s[:size]})
			}
		}
		s = s[size:]
	}
	return toks
}

// Normalize renders a display expression in canonical evaluator form.
//
// Implicit multiplication is made explicit between an operand that ends
// (number, constant, ")") and one that starts (number, constant, function,
// "("), so "2π" becomes "2*3.141592653589793". Balance and operator
// adjacency are not checked here.
func Normalize(s string) string {
	toks := Lex(s)
	var b strings.Builder
	for i, tok := range toks {
		if i > 0 && endsOperand(toks[i-1].Kind) && startsOperand(tok.Kind) {
			b.WriteByte('*')
		}
		b.WriteString(canonical(tok))
	}
	return b.String()
}

func canonical(tok Token) string {
	switch tok.Kind {
	case Operator:
		r, _ := utf8.DecodeRuneInString(tok.Text)
		return operators[r]
	case Func:
		for _, fk := range functionKeys {
			if fk.key == tok.Text {
				return fk.canonical
			}
		}
	case Const:
		if tok.Text == "π" {
			return Pi
		}
		return Euler
	case Exp:
		return "e"
	}
	return tok.Text
}

func matchFunction(s string) (string, bool) {
	for _, fk := range functionKeys {
		if strings.HasPrefix(s, fk.key) {
			return fk.key, true
		}
	}
	return "", false
}

func endsOperand(k Kind) bool {
	return k == Number || k == Const || k == RParen
}

func startsOperand(k Kind) bool {
	return k == Number || k == Const || k == Func || k == LParen
}
