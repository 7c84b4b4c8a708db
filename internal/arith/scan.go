package arith

import (
	"strconv"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokPow
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return `"+"`
	case tokMinus:
		return `"-"`
	case tokStar:
		return `"*"`
	case tokSlash:
		return `"/"`
	case tokPercent:
		return `"%"`
	case tokPow:
		return `"**"`
	case tokLParen:
		return `"("`
	case tokRParen:
		return `")"`
	default:
		return "unknown token"
	}
}

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

// scanner splits canonical source into tokens one at a time.
type scanner struct {
	src string
	pos int
}

func (s *scanner) next() (token, error) {
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.src) {
		return token{kind: tokEOF, pos: s.pos}, nil
	}

	start := s.pos
	c := s.src[s.pos]
	switch {
	case isDigit(c) || c == '.':
		return s.number()
	case isLetter(c):
		for s.pos < len(s.src) && (isLetter(s.src[s.pos]) || isDigit(s.src[s.pos])) {
			s.pos++
		}
		return token{kind: tokIdent, pos: start, text: s.src[start:s.pos]}, nil
	}

	s.pos++
	switch c {
	case '+':
		return token{kind: tokPlus, pos: start, text: "+"}, nil
	case '-':
		return token{kind: tokMinus, pos: start, text: "-"}, nil
	case '*':
		if s.pos < len(s.src) && s.src[s.pos] == '*' {
			s.pos++
			return token{kind: tokPow, pos: start, text: "**"}, nil
		}
		return token{kind: tokStar, pos: start, text: "*"}, nil
	case '/':
		return token{kind: tokSlash, pos: start, text: "/"}, nil
	case '%':
		return token{kind: tokPercent, pos: start, text: "%"}, nil
	case '(':
		return token{kind: tokLParen, pos: start, text: "("}, nil
	case ')':
		return token{kind: tokRParen, pos: start, text: ")"}, nil
	}

	r, _ := utf8.DecodeRuneInString(s.src[start:])
	return token{}, syntaxErrorf(start, "unexpected character %q", r)
}

// number scans digits [ "." digits ] [ exponent ]. At least one mantissa
// digit is required; the exponent is only consumed when digits follow it.
func (s *scanner) number() (token, error) {
	start := s.pos
	digits := 0
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
		digits++
	}
	if s.pos < len(s.src) && s.src[s.pos] == '.' {
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
			digits++
		}
	}
	if digits == 0 {
		return token{}, syntaxErrorf(start, "malformed number %q", s.src[start:s.pos])
	}

	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		p := s.pos + 1
		if p < len(s.src) && (s.src[p] == '+' || s.src[p] == '-') {
			p++
		}
		if p < len(s.src) && isDigit(s.src[p]) {
			for p < len(s.src) && isDigit(s.src[p]) {
				p++
			}
			s.pos = p
		} else {
			return token{}, syntaxErrorf(s.pos, "malformed exponent in %q", s.src[start:p])
		}
	}

	text := s.src[start:s.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// ParseFloat only fails here on range errors; the value itself is
		// still ±Inf or 0 and the finiteness check reports it.
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			return token{}, syntaxErrorf(start, "malformed number %q", text)
		}
	}
	return token{kind: tokNumber, pos: start, text: text, num: v}, nil
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' }
