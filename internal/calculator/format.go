package calculator

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// ExpKey is the keypad key for a scientific-notation exponent. Formatted
// results use it instead of "e" so that a chained result lexes back to the
// same number rather than to Euler's constant.
const ExpKey = "EXP"

// Magnitudes outside [minPlain, maxPlain) are written in exponent form.
const (
	minPlain = 1e-6
	maxPlain = 1e21
)

// FormatResult returns the canonical display form of v: the shortest
// decimal that reads back as the same float64. Negative zero prints as "0".
// Very large or very small magnitudes use ExpKey, e.g. "1EXP21" and
// "1.5EXP-7".
//
// A non-negative precision first rounds v to that many decimal places.
func FormatResult(v float64, precision int) string {
	if precision >= 0 {
		v = scalar.Round(v, precision)
	}
	if v == 0 {
		return "0"
	}

	abs := math.Abs(v)
	if abs >= minPlain && abs < maxPlain {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mant + ExpKey + strconv.Itoa(n)
}
