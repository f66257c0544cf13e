package formula

import (
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Prec is the precision in bits of every Number's mantissa.
const Prec = 64

// Value is the result of evaluating a formula: either a *Number or a Logical.
// Operations are defined only between values of the same kind; mixing them is
// a *TypeError, never a conversion.
type Value interface {
	// Format returns the format the value displays with.
	Format() *Format
	// Copy returns a value equal to this one that shares no state with it.
	Copy() Value
	// Add returns the sum of the value and w, or the difference if additive
	// is false.
	Add(w Value, additive bool) (Value, error)
	// Cmp compares the value to w, returning -1, 0, or +1.
	Cmp(w Value) (int, error)
	// Equal reports whether the value equals w.
	Equal(w Value) (bool, error)
	// String formats the value for display using its Format.
	String() string

	// raw returns the value's own format, which is nil for values that
	// inherit the format of whatever they are combined with.
	raw() *Format
	// render writes the value as formula text.
	render(b *strings.Builder)
	typeName() string
}

// pick chooses the format for a result computed from two operands.
func pick(a, b *Format) *Format {
	if a != nil {
		return a
	}
	return b
}

// Number is a real number. Numbers are immutable.
type Number struct {
	f   *big.Float
	fmt *Format
}

// NewNumber creates a Number from a float64. A nil format means the format of
// whatever the number is combined with, or DefaultFormat. Panics if x is NaN.
func NewNumber(x float64, f *Format) *Number {
	return &Number{f: new(big.Float).SetPrec(Prec).SetFloat64(x), fmt: f}
}

// NumberOf creates a Number from a copy of x rounded to Prec bits.
func NumberOf(x *big.Float, f *Format) *Number {
	return &Number{f: new(big.Float).SetPrec(Prec).Set(x), fmt: f}
}

// Zero returns the number 0 with the given format.
func Zero(f *Format) *Number {
	return &Number{f: new(big.Float).SetPrec(Prec), fmt: f}
}

// One returns the number 1 with the given format.
func One(f *Format) *Number {
	return NewNumber(1, f)
}

func (n *Number) Format() *Format {
	if n.fmt == nil {
		return DefaultFormat
	}
	return n.fmt
}

func (n *Number) raw() *Format {
	return n.fmt
}

func (n *Number) typeName() string {
	return "number"
}

func (n *Number) Copy() Value {
	return NumberOf(n.f, n.fmt)
}

// Big returns a copy of the number's value.
func (n *Number) Big() *big.Float {
	return new(big.Float).Copy(n.f)
}

// Float64 returns the float64 nearest the number.
func (n *Number) Float64() float64 {
	f, _ := n.f.Float64()
	return f
}

// Sign returns -1, 0, or +1 according to the sign of the number.
func (n *Number) Sign() int {
	return n.f.Sign()
}

// IsInt reports whether the number is an integer.
func (n *Number) IsInt() bool {
	return n.f.IsInt()
}

// IsInf reports whether the number is infinite.
func (n *Number) IsInf() bool {
	return n.f.IsInf()
}

func (n *Number) String() string {
	return n.Format().Display(n.f)
}

func (n *Number) render(b *strings.Builder) {
	b.WriteString(n.f.Text('g', -1))
}

func (n *Number) Add(w Value, additive bool) (Value, error) {
	op := "+"
	if !additive {
		op = "-"
	}
	m, err := asNumber(w, op)
	if err != nil {
		return nil, err
	}
	r := new(big.Float).SetPrec(Prec)
	err = guard(op, m.f, func() {
		if additive {
			r.Add(n.f, m.f)
		} else {
			r.Sub(n.f, m.f)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Number{f: r, fmt: pick(n.fmt, m.fmt)}, nil
}

func (n *Number) Cmp(w Value) (int, error) {
	m, err := asNumber(w, "compare")
	if err != nil {
		return 0, err
	}
	return n.f.Cmp(m.f), nil
}

func (n *Number) Equal(w Value) (bool, error) {
	c, err := n.Cmp(w)
	return c == 0, err
}

// Neg returns the negation of the number.
func (n *Number) Neg() *Number {
	return &Number{f: new(big.Float).SetPrec(Prec).Neg(n.f), fmt: n.fmt}
}

// Mul returns the product of the number and m.
func (n *Number) Mul(m *Number) (*Number, error) {
	r := new(big.Float).SetPrec(Prec)
	if err := guard("*", m.f, func() { r.Mul(n.f, m.f) }); err != nil {
		return nil, err
	}
	return &Number{f: r, fmt: pick(n.fmt, m.fmt)}, nil
}

// Quo returns the quotient of the number by m. Dividing a nonzero number by
// zero gives an infinity; 0/0 and ∞/∞ are domain errors.
func (n *Number) Quo(m *Number) (*Number, error) {
	if n.f.Sign() == 0 && m.f.Sign() == 0 || n.f.IsInf() && m.f.IsInf() {
		return nil, &DomainError{X: m.Big(), Func: "/"}
	}
	r := new(big.Float).SetPrec(Prec)
	if err := guard("/", m.f, func() { r.Quo(n.f, m.f) }); err != nil {
		return nil, err
	}
	return &Number{f: r, fmt: pick(n.fmt, m.fmt)}, nil
}

// maxIntPow is the largest exponent magnitude computed by repeated squaring.
const maxIntPow = 1 << 16

// Pow returns the number raised to the power m. A negative base requires an
// integer exponent.
func (n *Number) Pow(m *Number) (*Number, error) {
	f := pick(n.fmt, m.fmt)
	x, y := n.f, m.f
	switch {
	case y.Sign() == 0:
		return One(f), nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return &Number{f: new(big.Float).SetPrec(Prec).SetInf(false), fmt: f}, nil
		}
		return Zero(f), nil
	}
	if y.IsInt() {
		if k, acc := y.Int64(); acc == big.Exact && -maxIntPow <= k && k <= maxIntPow {
			return &Number{f: powInt(x, k), fmt: f}, nil
		}
	}
	if x.Signbit() {
		if !y.IsInt() {
			return nil, &DomainError{X: n.Big(), Arg: 1, Func: "^"}
		}
		// Negative base with a huge integer exponent.
		abs := new(big.Float).SetPrec(Prec).Abs(x)
		r := new(big.Float).SetPrec(Prec)
		if err := guard("^", x, func() { bigfloat.Pow(r, abs, y) }); err != nil {
			return nil, err
		}
		k, _ := y.Int(nil)
		if k.Bit(0) == 1 {
			r.Neg(r)
		}
		return &Number{f: r, fmt: f}, nil
	}
	r := new(big.Float).SetPrec(Prec)
	if err := guard("^", x, func() { bigfloat.Pow(r, x, y) }); err != nil {
		return nil, err
	}
	return &Number{f: r, fmt: f}, nil
}

// powInt computes x^k by repeated squaring.
func powInt(x *big.Float, k int64) *big.Float {
	neg := k < 0
	if neg {
		k = -k
	}
	r := new(big.Float).SetPrec(Prec).SetInt64(1)
	b := new(big.Float).SetPrec(Prec).Set(x)
	for k > 0 {
		if k&1 != 0 {
			r.Mul(r, b)
		}
		k >>= 1
		if k > 0 {
			b.Mul(b, b)
		}
	}
	if neg {
		r.Quo(new(big.Float).SetPrec(Prec).SetInt64(1), r)
	}
	return r
}

// Logical is a truth value.
type Logical struct {
	b   bool
	fmt *Format
}

// NewLogical creates a Logical. A nil format means the format of whatever the
// value is combined with, or DefaultFormat.
func NewLogical(b bool, f *Format) Logical {
	return Logical{b: b, fmt: f}
}

// Bool returns the truth value.
func (l Logical) Bool() bool {
	return l.b
}

// Not returns the negation of the value.
func (l Logical) Not() Logical {
	return Logical{b: !l.b, fmt: l.fmt}
}

func (l Logical) Format() *Format {
	if l.fmt == nil {
		return DefaultFormat
	}
	return l.fmt
}

func (l Logical) raw() *Format {
	return l.fmt
}

func (l Logical) typeName() string {
	return "logical"
}

func (l Logical) Copy() Value {
	return l
}

func (l Logical) Add(w Value, additive bool) (Value, error) {
	op := "+"
	if !additive {
		op = "-"
	}
	return nil, &TypeError{Op: op, Want: "number", Got: l.typeName()}
}

func (l Logical) Cmp(w Value) (int, error) {
	return 0, &TypeError{Op: "compare", Want: "number", Got: l.typeName()}
}

func (l Logical) Equal(w Value) (bool, error) {
	m, ok := w.(Logical)
	if !ok {
		return false, &TypeError{Op: "=", Want: l.typeName(), Got: typeName(w)}
	}
	return l.b == m.b, nil
}

func (l Logical) String() string {
	if l.b {
		return "true"
	}
	return "false"
}

func (l Logical) render(b *strings.Builder) {
	b.WriteString(l.String())
}

// asNumber converts a value for use as an operand of op.
func asNumber(v Value, op string) (*Number, error) {
	n, ok := v.(*Number)
	if !ok {
		return nil, &TypeError{Op: op, Want: "number", Got: typeName(v)}
	}
	return n, nil
}

// asLogical converts a value for use as an operand of op.
func asLogical(v Value, op string) (Logical, error) {
	l, ok := v.(Logical)
	if !ok {
		return Logical{}, &TypeError{Op: op, Want: "logical", Got: typeName(v)}
	}
	return l, nil
}

func typeName(v Value) string {
	if v == nil {
		return "nothing"
	}
	return v.typeName()
}

// guard runs f, converting a big.ErrNaN panic into a DomainError about x.
func guard(op string, x *big.Float, f func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(big.ErrNaN); ok {
			err = &DomainError{X: new(big.Float).Copy(x), Func: op}
			return
		}
		panic(r)
	}()
	f()
	return nil
}
