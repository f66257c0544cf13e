package formula_test

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/zephyrtronium/formula"
)

type nargin struct{}

func (nargin) CanCall(n int) bool {
	return true
}

func (nargin) Bind(name string, args []formula.Node) (formula.Node, error) {
	return count(args), nil
}

// count is a call of nargin.
type count []formula.Node

func (c count) Eval(env *formula.Env) (formula.Value, error) {
	return formula.NewNumber(float64(len(c)), nil), nil
}

func (c count) Derive(v string) (formula.Node, bool) {
	return &formula.Const{Value: formula.Zero(nil)}, true
}

func (c count) Integrate(v string) (formula.Node, bool) {
	return nil, false
}

func (c count) Prec() int {
	return 100
}

func (c count) Render(b *strings.Builder) {
	b.WriteString("nargin(")
	for i, a := range c {
		if i > 0 {
			b.WriteString(", ")
		}
		a.Render(b)
	}
	b.WriteByte(')')
}

func ExampleFunc() {
	opt := formula.ParseFunc("nargin", nargin{})
	a, _ := formula.Parse("nargin", opt)
	b, _ := formula.Parse("nargin 100", opt)
	c, _ := formula.Parse("nargin{3, 2, 1}", opt)
	for _, e := range []*formula.Expr{a, b, c} {
		v, _ := e.Eval(nil)
		fmt.Println(v, e)
	}

	// Output:
	// 0 nargin()
	// 1 nargin(100)
	// 3 nargin(3, 2, 1)
}

func ExampleMonadic() {
	cube := formula.Monadic(func(out, in *big.Float) *big.Float {
		return out.Mul(in, new(big.Float).Mul(in, in))
	})
	v, _ := formula.Eval("cube 3 + 1", nil, formula.ParseFunc("cube", cube))
	fmt.Println(v)

	// Output:
	// 28
}

func ExampleRegistry() {
	r := formula.NewRegistry()
	r.Declare("sq(x) = x^2")
	r.Declare("hyp(a, b) = sqrt(sq(a) + sq(b))")

	e, _ := formula.Parse("hyp(3, 4) + 1", formula.WithRegistry(r))
	v, _ := e.Eval(nil)
	fmt.Println(e, "=", v)

	e, _ = formula.Parse("sq(t) + t", formula.WithRegistry(r))
	d, _ := e.Derive("t")
	fmt.Println(d)

	// Output:
	// hyp(3, 4) + 1 = 6
	// 2 * t + 1
}
