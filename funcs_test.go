package formula_test

import (
	"errors"
	"math"
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/zephyrtronium/formula"
)

func TestBuiltins(t *testing.T) {
	want := []string{"abs", "e", "exp", "if", "ln", "log", "pi", "sqrt", "sum"}
	if got := formula.Builtins(); !reflect.DeepEqual(got, want) {
		t.Errorf("want builtins %q, got %q", want, got)
	}
}

func TestBuiltinValues(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"pi", math.Pi},
		{"e", math.E},
		{"exp(1)", math.E},
		{"exp 0", 1},
		{"ln(e)", 1},
		{"log(1000)", 3},
		{"sqrt(16)", 4},
		{"sqrt(2)^2", 2},
		{"sqrt 0", 0},
		{"abs(-3)", 3},
		{"abs 3", 3},
		{"pi(2)", 2 * math.Pi},
		{"pi^2", math.Pi * math.Pi},
		{"exp ln 5", 5},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			v, err := formula.Eval(c.src, nil)
			if err != nil {
				t.Fatalf("%q: %v", c.src, err)
			}
			if got := v.(*formula.Number).Float64(); !near(got, c.want) {
				t.Errorf("%q: want %g, got %g", c.src, c.want, got)
			}
		})
	}
}

func TestBuiltinDomain(t *testing.T) {
	for _, src := range []string{"ln(0)", "ln(-1)", "log 0", "sqrt(-1)", "sqrt(0 - 2)"} {
		v, err := formula.Eval(src, nil)
		if err == nil {
			t.Errorf("%q evaluated to %v", src, v)
			continue
		}
		var de *formula.DomainError
		if !errors.As(err, &de) {
			t.Errorf("%q: want *DomainError, got %v", src, err)
			continue
		}
		if de.Arg != 1 {
			t.Errorf("%q: error about argument %d", src, de.Arg)
		}
	}
}

func TestMonadic(t *testing.T) {
	inv := formula.Monadic(func(out, in *big.Float) *big.Float {
		if in.Sign() == 0 {
			panic(big.ErrNaN{})
		}
		return out.Quo(big.NewFloat(1), in)
	})
	opt := formula.ParseFunc("inv", inv)
	v, err := formula.Eval("inv 4 + inv(2)", nil, opt)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.(*formula.Number).Float64(); got != 0.75 {
		t.Errorf("want 0.75, got %g", got)
	}
	if _, err := formula.Eval("inv 0", nil, opt); !errors.Is(err, formula.ErrDomain) {
		t.Errorf("inv 0: want a domain error, got %v", err)
	}
	if _, err := formula.Eval("inv true", nil, opt); !errors.Is(err, formula.ErrType) {
		t.Errorf("inv true: want a type error, got %v", err)
	}
	if _, err := formula.Parse("inv(1, 2)", opt); !errors.Is(err, formula.ErrArity) {
		t.Errorf("inv(1, 2): want an arity error, got %v", err)
	}
	if !inv.CanCall(1) || inv.CanCall(0) || inv.CanCall(2) {
		t.Error("monadic function has the wrong arity")
	}
}

func TestNiladic(t *testing.T) {
	three := formula.Niladic(func(out *big.Float) *big.Float {
		return out.SetInt64(3)
	})
	opt := formula.ParseFunc("three", three)
	cases := []struct {
		src  string
		want float64
	}{
		{"three", 3},
		{"three + 1", 4},
		{"three x", 6},
		{"three(x + 1)", 9},
		{"x^three", 8},
	}
	for _, c := range cases {
		v, err := formula.Eval(c.src, map[string]formula.Value{"x": num(2)}, opt)
		if err != nil {
			t.Errorf("%q: %v", c.src, err)
			continue
		}
		if got := v.(*formula.Number).Float64(); got != c.want {
			t.Errorf("%q: want %g, got %g", c.src, c.want, got)
		}
	}
	if _, err := formula.Parse("three(1, 2)", opt); !errors.Is(err, formula.ErrArity) {
		t.Errorf("three(1, 2): want an arity error, got %v", err)
	}
}

func TestDisableFuncs(t *testing.T) {
	vars := map[string]formula.Value{"exp": num(2), "pi": num(3)}
	v, err := formula.Eval("exp + 1", vars, formula.ParseFunc("exp", nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := v.(*formula.Number).Float64(); got != 3 {
		t.Errorf("exp as a variable: want 3, got %g", got)
	}
	v, err = formula.Eval("exp * pi", vars, formula.DisableDefaultFuncs())
	if err != nil {
		t.Fatal(err)
	}
	if got := v.(*formula.Number).Float64(); got != 6 {
		t.Errorf("no builtins: want 6, got %g", got)
	}
	// Options apply in order.
	v, err = formula.Eval("pi", nil, formula.DisableDefaultFuncs(), formula.ParseFunc("pi", formula.Niladic(func(out *big.Float) *big.Float {
		return out.SetInt64(3)
	})))
	if err != nil {
		t.Fatal(err)
	}
	if got := v.(*formula.Number).Float64(); got != 3 {
		t.Errorf("replaced pi: want 3, got %g", got)
	}
}

type double struct{}

func (double) CanCall(n int) bool {
	return n == 1
}

func (double) Bind(name string, args []formula.Node) (formula.Node, error) {
	return twice{args[0]}, nil
}

// twice is a call of double. It exposes its operand as a formula.Parent.
type twice struct {
	x formula.Node
}

func (n twice) Eval(env *formula.Env) (formula.Value, error) {
	v, err := n.x.Eval(env)
	if err != nil {
		return nil, err
	}
	return v.Add(v, true)
}

func (n twice) Derive(v string) (formula.Node, bool) {
	d, ok := n.x.Derive(v)
	return twice{d}, ok
}

func (n twice) Integrate(v string) (formula.Node, bool) {
	d, ok := n.x.Integrate(v)
	return twice{d}, ok
}

func (n twice) Prec() int {
	return 100
}

func (n twice) Render(b *strings.Builder) {
	b.WriteString("double(")
	n.x.Render(b)
	b.WriteByte(')')
}

func (n twice) Children() []formula.Node {
	return []formula.Node{n.x}
}

func (n twice) WithChildren(children []formula.Node) formula.Node {
	return twice{children[0]}
}

func TestForeignNodes(t *testing.T) {
	opt := formula.ParseFunc("double", double{})
	e, err := formula.Parse("double(x + y) * z", opt)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := e.Vars(), []string{"x", "y", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("want vars %q, got %q", want, got)
	}
	v, err := e.Eval(map[string]formula.Value{"x": num(1), "y": num(2), "z": num(3)})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.(*formula.Number).Float64(); got != 18 {
		t.Errorf("want 18, got %g", got)
	}

	// Arguments of a user function reach through the node's children.
	f, err := formula.ParseUserFunc("f(a)=double(a) + a", opt)
	if err != nil {
		t.Fatal(err)
	}
	g, err := formula.Parse("f(t^2)", formula.ParseFunc("f", f))
	if err != nil {
		t.Fatal(err)
	}
	d, err := g.Derive("t")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := d.String(), "double(2 * t) + 2 * t"; got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

// opaque is a node that this package knows nothing about.
type opaque struct{}

func (opaque) Eval(env *formula.Env) (formula.Value, error) {
	return formula.NewNumber(7, nil), nil
}

func (opaque) Derive(v string) (formula.Node, bool) {
	return &formula.Const{Value: formula.Zero(nil)}, true
}

func (opaque) Integrate(v string) (formula.Node, bool) {
	return nil, false
}

func (opaque) Prec() int {
	return 100
}

func (opaque) Render(b *strings.Builder) {
	b.WriteString("seven")
}

type seven struct{}

func (seven) CanCall(n int) bool {
	return n == 0
}

func (seven) Bind(name string, args []formula.Node) (formula.Node, error) {
	return opaque{}, nil
}

func TestOpaqueNodes(t *testing.T) {
	opt := formula.ParseFunc("seven", seven{})
	e, err := formula.Parse("seven + x", opt)
	if err != nil {
		t.Fatal(err)
	}
	if got := e.Vars(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("want vars [x], got %q", got)
	}
	f, err := formula.ParseUserFunc("f(a)=a*seven", opt)
	if err != nil {
		t.Fatal(err)
	}
	g, err := formula.Parse("f(t)", formula.ParseFunc("f", f))
	if err != nil {
		t.Fatal(err)
	}
	d, err := g.Derive("t")
	if err != nil {
		t.Fatal(err)
	}
	if got := d.String(); got != "seven" {
		t.Errorf("want seven, got %q", got)
	}
}
