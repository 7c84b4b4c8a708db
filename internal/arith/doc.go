// Package arith evaluates the canonical calculator expression form.
//
// The evaluator is a restricted recursive-descent parser. It accepts exactly
// the grammar below and nothing else, so user text can never reach a
// general-purpose interpreter:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "**" unary ]
//	primary = number | call | "(" expr ")"
//	call    = ident "(" expr ")"
//	number  = digits [ "." digits ] [ ("e" | "E") [ "+" | "-" ] digits ]
//
// Exponentiation is right-associative and binds tighter than unary minus,
// so "-2**2" is -4. "%" is the truncated remainder (math.Mod). All values are
// IEEE 754 doubles; a NaN or infinite final result is reported as
// ErrNonFinite.
//
// Recognized functions: sqrt, sin, cos, tan (radians), log10 and ln.
package arith
