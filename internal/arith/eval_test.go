package arith

import (
	"math"
	"testing"

	"github.com/expr-lang/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-12

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"2+2", 4},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10-3-2", 5},
		{"100/10/2", 5},
		{"7/2", 3.5},
		{"17%5", 2},
		{"-17%5", -2},
		{"5.5%2", 1.5},
		{"2**10", 1024},
		{"2**3**2", 512},
		{"-2**2", -4},
		{"(-2)**2", 4},
		{"2**-1", 0.5},
		{"-3+4", 1},
		{"+3", 3},
		{"--3", 3},
		{"2*-3", -6},
		{".5+.5", 1},
		{"5.", 5},
		{"1e3", 1000},
		{"1.5e-3", 0.0015},
		{"2E+2", 200},
		{" 1 + 2 ", 3},
		{"((((1))))", 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Eval(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_Functions(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"sqrt(16)", 4},
		{"sqrt(2)", math.Sqrt2},
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"sin(3.141592653589793/2)", 1},
		{"tan(3.141592653589793/4)", 1},
		{"log10(1000)", 3},
		{"ln(2.718281828459045)", 1},
		{"sqrt(9)+log10(100)*2", 7},
		{"sqrt(sqrt(16))", 2},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Eval(tt.src)
			require.NoError(t, err)
			assert.True(t, scalar.EqualWithinAbsOrRel(got, tt.want, tol, tol),
				"Eval(%q) = %v, want %v", tt.src, got, tt.want)
		})
	}
}

func TestEval_NonFinite(t *testing.T) {
	for _, src := range []string{"5/0", "-5/0", "0/0", "sqrt(-1)", "log10(0)", "ln(-1)", "10**400", "5%0"} {
		t.Run(src, func(t *testing.T) {
			_, err := Eval(src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNonFinite)
		})
	}
}

func TestEval_SyntaxErrors(t *testing.T) {
	tests := []struct {
		src     string
		wantMsg string
	}{
		{"", "unexpected end of input"},
		{"2+", "unexpected end of input"},
		{"*2", `unexpected "*"`},
		{"(1+2", `expected ")"`},
		{"1+2)", `unexpected ")"`},
		{"2 3", `unexpected number "3"`},
		{"1.2.3", `unexpected number ".3"`},
		{".", "malformed number"},
		{"2e", "malformed exponent"},
		{"foo(1)", `unknown function "foo"`},
		{"alert(1)", `unknown function "alert"`},
		{"sqrt 4", `expected "("`},
		{"2^3", "unexpected character"},
		{"2×3", "unexpected character '×'"},
		{"sin()", `unexpected ")"`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Eval(tt.src)
			require.Error(t, err)
			assert.True(t, IsSyntaxError(err), "expected *SyntaxError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSyntaxError_Position(t *testing.T) {
	_, err := Eval("1+2)")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3, se.Pos)
}

func TestFunctionNames(t *testing.T) {
	assert.Equal(t, []string{"cos", "ln", "log10", "sin", "sqrt", "tan"}, FunctionNames())
}

// TestEval_MatchesExprLang cross-checks the shared + - * / ** subset against
// a general-purpose evaluator.
func TestEval_MatchesExprLang(t *testing.T) {
	sources := []string{
		"1+2*3",
		"(1+2)*3",
		"10/4",
		"2**8",
		"(1+2)**3",
		"100-3*7+2",
		"1.5*4-0.25",
		"((2+3)*(4-1))/5",
		"17 % 5",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			out, err := expr.Eval(src, nil)
			require.NoError(t, err)

			var want float64
			switch v := out.(type) {
			case int:
				want = float64(v)
			case float64:
				want = v
			default:
				t.Fatalf("unexpected result type %T", out)
			}

			got, err := Eval(src)
			require.NoError(t, err)
			assert.True(t, scalar.EqualWithinAbsOrRel(got, want, tol, tol),
				"Eval(%q) = %v, expr-lang = %v", src, got, want)
		})
	}
}
