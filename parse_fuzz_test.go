package formula_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/formula"
)

// roundTripVars is the environment that rendered formulas are checked in.
var roundTripVars = map[string]formula.Value{
	"x": num(0.5),
	"y": num(2),
	"z": num(-3),
	"a": num(3),
	"b": num(4),
	"c": num(5),
	"n": num(3),
	"p": formula.NewLogical(true, nil),
}

var errKinds = []error{
	formula.ErrSyntax,
	formula.ErrArity,
	formula.ErrType,
	formula.ErrUnsupported,
	formula.ErrDomain,
}

// checkRoundTrip renders e, parses the result, and checks that both trees
// evaluate to the same value or fail the same way.
func checkRoundTrip(t *testing.T, src string, e *formula.Expr) {
	t.Helper()
	r := e.String()
	f, err := formula.Parse(r)
	if err != nil {
		t.Errorf("%q rendered as %q, which fails to parse: %v", src, r, err)
		return
	}
	v, err := e.Eval(roundTripVars)
	w, err2 := f.Eval(roundTripVars)
	if (err == nil) != (err2 == nil) {
		t.Errorf("%q rendered as %q: errors differ: %v and %v", src, r, err, err2)
		return
	}
	if err != nil {
		for _, k := range errKinds {
			if errors.Is(err, k) != errors.Is(err2, k) {
				t.Errorf("%q rendered as %q: errors differ: %v and %v", src, r, err, err2)
			}
		}
		return
	}
	if v.String() != w.String() {
		t.Errorf("%q rendered as %q: values differ: %v and %v", src, r, v, w)
	}
}

func TestRenderEval(t *testing.T) {
	srcs := []string{
		"--x",
		"x - -y",
		"-2^2",
		"2^-x^2",
		"(2^3)^2",
		"a^b^c",
		"a/b c",
		"a/(b c)",
		"x-(y-z)",
		"!(x<1) = true",
		"!p | p & false",
		"(p | false) & p",
		"(x <= y) = (a > b)",
		"pi(2)",
		"pi 2",
		"exp x^2",
		"e",
		"1e400",
		"0.1 + 0.2",
		"1/3",
		"-(a+b)*c",
		"sum(i, 1, n, i*x)",
		"sum{i, 0.5, n, -i]",
		"if(x > 1, a, b)",
		"if(p, a)",
		"ln(z)",
		"sqrt(abs(z))",
		"unbound + 1",
		"p + 1",
	}
	for _, src := range srcs {
		e, err := formula.Parse(src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", src, err)
			continue
		}
		checkRoundTrip(t, src, e)
	}
}

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("sum{i, 1, n, i^2]")
	f.Add("if(x > 1, 2)")
	f.Add("2^-x^2")
	f.Add("a/b c")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := formula.Parse(s)
		if err != nil {
			return
		}
		checkRoundTrip(t, s, e)
	})
}
