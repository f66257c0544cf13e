package formula_test

import (
	"errors"
	"math/big"
	"testing"

	"golang.org/x/text/language"

	"github.com/zephyrtronium/formula"
)

func TestNumberFormat(t *testing.T) {
	de := formula.NewFormat(language.German, 2)
	if f := formula.NewNumber(1, nil).Format(); f != formula.DefaultFormat {
		t.Errorf("number without a format has %v, not the default", f)
	}
	cases := []struct {
		name string
		a, b *formula.Format
		want *formula.Format
	}{
		{"neither", nil, nil, formula.DefaultFormat},
		{"left", de, nil, de},
		{"right", nil, de, de},
		{"both", formula.DefaultFormat, de, formula.DefaultFormat},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := formula.NewNumber(3, c.a)
			b := formula.NewNumber(2, c.b)
			sum, err := a.Add(b, true)
			if err != nil {
				t.Fatal(err)
			}
			if sum.Format() != c.want {
				t.Errorf("sum has format %v, want %v", sum.Format(), c.want)
			}
			prod, err := a.Mul(b)
			if err != nil {
				t.Fatal(err)
			}
			if prod.Format() != c.want {
				t.Errorf("product has format %v, want %v", prod.Format(), c.want)
			}
			quo, err := a.Quo(b)
			if err != nil {
				t.Fatal(err)
			}
			if quo.Format() != c.want {
				t.Errorf("quotient has format %v, want %v", quo.Format(), c.want)
			}
			pow, err := a.Pow(b)
			if err != nil {
				t.Fatal(err)
			}
			if pow.Format() != c.want {
				t.Errorf("power has format %v, want %v", pow.Format(), c.want)
			}
			if n := a.Neg(); n.Format() != a.Format() {
				t.Errorf("negation changed format from %v to %v", a.Format(), n.Format())
			}
		})
	}
}

func TestNumberArithmetic(t *testing.T) {
	a := formula.NewNumber(7, nil)
	b := formula.NewNumber(2, nil)
	check := func(name string, v formula.Value, err error, want float64) {
		t.Helper()
		if err != nil {
			t.Errorf("%s: %v", name, err)
			return
		}
		if got := v.(*formula.Number).Float64(); got != want {
			t.Errorf("%s: want %g, got %g", name, want, got)
		}
	}
	v, err := a.Add(b, true)
	check("add", v, err, 9)
	v, err = a.Add(b, false)
	check("sub", v, err, 5)
	n, err := a.Mul(b)
	check("mul", n, err, 14)
	n, err = a.Quo(b)
	check("quo", n, err, 3.5)
	n, err = a.Pow(b)
	check("pow", n, err, 49)
	n, err = b.Pow(formula.NewNumber(-3, nil))
	check("pow-neg", n, err, 0.125)
	check("neg", a.Neg(), nil, -7)

	if c, err := a.Cmp(b); err != nil || c != 1 {
		t.Errorf("7 cmp 2: want 1, got %d (%v)", c, err)
	}
	if c, err := b.Cmp(a); err != nil || c != -1 {
		t.Errorf("2 cmp 7: want -1, got %d (%v)", c, err)
	}
	if eq, err := a.Equal(formula.NewNumber(7, nil)); err != nil || !eq {
		t.Errorf("7 == 7: got %t (%v)", eq, err)
	}
	if !b.IsInt() || a.Neg().Sign() != -1 || a.IsInf() {
		t.Error("wrong predicates")
	}
}

func TestNumberPowLarge(t *testing.T) {
	// Integer powers are exact within the precision.
	two := formula.NewNumber(2, nil)
	n, err := two.Pow(formula.NewNumber(100, nil))
	if err != nil {
		t.Fatal(err)
	}
	want := new(big.Float).SetMantExp(big.NewFloat(1), 100)
	if n.Big().Cmp(want) != 0 {
		t.Errorf("2^100: want %v, got %v", want, n.Big())
	}
	// Negative bases with huge integer exponents keep their sign.
	m, err := formula.NewNumber(-1, nil).Pow(formula.NewNumber(1<<20+1, nil))
	if err != nil {
		t.Fatal(err)
	}
	if d := m.Float64() + 1; d < -1e-15 || d > 1e-15 {
		t.Errorf("(-1)^(2^20+1): want -1, got %v", m)
	}
}

func TestNumberCopy(t *testing.T) {
	x := big.NewFloat(1.5)
	n := formula.NumberOf(x, nil)
	x.SetInt64(3)
	if n.Float64() != 1.5 {
		t.Errorf("NumberOf shares its argument: %v", n)
	}
	b := n.Big()
	b.SetInt64(4)
	if n.Float64() != 1.5 {
		t.Errorf("Big shares the number: %v", n)
	}
	c := n.Copy()
	if eq, err := c.Equal(n); err != nil || !eq {
		t.Errorf("copy %v differs from %v", c, n)
	}
	if c == formula.Value(n) {
		t.Error("copy is the same number")
	}
	if n.Big().Prec() != formula.Prec {
		t.Errorf("precision is %d, not %d", n.Big().Prec(), formula.Prec)
	}
}

func TestLogical(t *testing.T) {
	de := formula.NewFormat(language.German, 2)
	tr := formula.NewLogical(true, de)
	if !tr.Bool() || tr.Not().Bool() {
		t.Error("wrong truth values")
	}
	if tr.Format() != de || tr.Not().Format() != de {
		t.Error("logical lost its format")
	}
	if formula.NewLogical(false, nil).Format() != formula.DefaultFormat {
		t.Error("logical without a format should have the default")
	}
	if tr.String() != "true" || tr.Not().String() != "false" {
		t.Errorf("wrong strings %q %q", tr, tr.Not())
	}
	if eq, err := tr.Equal(formula.NewLogical(true, nil)); err != nil || !eq {
		t.Errorf("true == true: got %t (%v)", eq, err)
	}
	if c := tr.Copy(); c != formula.Value(tr) {
		t.Errorf("copy %v differs from %v", c, tr)
	}
}

func TestValueTypeErrors(t *testing.T) {
	n := formula.NewNumber(1, nil)
	l := formula.NewLogical(true, nil)
	errs := []error{}
	_, err := n.Add(l, true)
	errs = append(errs, err)
	_, err = l.Add(n, true)
	errs = append(errs, err)
	_, err = l.Add(l, false)
	errs = append(errs, err)
	_, err = n.Cmp(l)
	errs = append(errs, err)
	_, err = l.Cmp(l)
	errs = append(errs, err)
	_, err = n.Equal(l)
	errs = append(errs, err)
	_, err = l.Equal(n)
	errs = append(errs, err)
	for i, err := range errs {
		var te *formula.TypeError
		if !errors.As(err, &te) {
			t.Errorf("operation %d: want *TypeError, got %v", i, err)
			continue
		}
		if !errors.Is(err, formula.ErrType) {
			t.Errorf("operation %d: %v is not a type error", i, err)
		}
	}
}

func TestNumberDomainErrors(t *testing.T) {
	zero := formula.Zero(nil)
	inf := formula.NewNumber(1, nil)
	inf, _ = inf.Quo(zero)
	if !inf.IsInf() {
		t.Fatalf("1/0 gave %v", inf)
	}
	cases := []struct {
		name string
		f    func() error
	}{
		{"0/0", func() error { _, err := zero.Quo(zero); return err }},
		{"inf/inf", func() error { _, err := inf.Quo(inf); return err }},
		{"inf-inf", func() error { _, err := inf.Add(inf, false); return err }},
		{"0*inf", func() error { _, err := zero.Mul(inf); return err }},
		{"(-8)^(1/3)", func() error {
			third, _ := formula.One(nil).Quo(formula.NewNumber(3, nil))
			_, err := formula.NewNumber(-8, nil).Pow(third)
			return err
		}},
	}
	for _, c := range cases {
		err := c.f()
		if !errors.Is(err, formula.ErrDomain) {
			t.Errorf("%s: want a domain error, got %v", c.name, err)
		}
	}
}
