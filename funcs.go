package formula

import (
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function that can be called in formula text. The parser consults
// CanCall to decide how to read the text following a function name:
//
// 	1.	If a bracketed list of n expressions follows a function, the parser
// 		treats it as an argument list if CanCall(n). (If n is 1 and
// 		!CanCall(1) and CanCall(0), then the list is a multiplication;
// 		otherwise, it is rejected.)
//
// 	2.	If a bare term follows a function and CanCall(1), then the parser
// 		treats the term as an argument to the function. E.g., "exp x" is
// 		parsed as "exp(x)". (If !CanCall(1), then it is a multiplication.)
//
// Bind then creates the call node from the parsed arguments.
type Func interface {
	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
	// Bind creates a node calling the function by the given name with the
	// given argument nodes. len(args) is a length for which CanCall returned
	// true.
	Bind(name string, args []Node) (Node, error)
}

// Call holds the parameter slots of a function call node.
type Call struct {
	// Name is the function name the call was written with.
	Name string
	// Min and Max bound the number of arguments.
	Min, Max int
	// Args are the argument nodes, in order.
	Args []Node
}

// CanCall returns whether n is within the call's argument bounds.
func (c *Call) CanCall(n int) bool {
	return c.Min <= n && n <= c.Max
}

func (c *Call) Prec() int {
	return precAtom
}

func (c *Call) Render(b *strings.Builder) {
	b.WriteString(c.Name)
	b.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.Render(b)
	}
	b.WriteByte(')')
}

// with returns a copy of the call with its arguments replaced by f(arg).
func (c Call) with(f func(int, Node) Node) Call {
	args := make([]Node, len(c.Args))
	for i, a := range c.Args {
		args[i] = f(i, a)
	}
	c.Args = args
	return c
}

// builtin is a Func for a built-in function with its own node type.
type builtin struct {
	min, max int
	bind     func(c Call) (Node, error)
}

func (f builtin) CanCall(n int) bool {
	return f.min <= n && n <= f.max
}

func (f builtin) Bind(name string, args []Node) (Node, error) {
	if !f.CanCall(len(args)) {
		return nil, &ArityError{Func: name, Len: len(args)}
	}
	return f.bind(Call{Name: name, Min: f.min, Max: f.max, Args: args})
}

// builtins maps the names of built-in functions to their definitions.
var builtins map[string]Func

func init() {
	builtins = map[string]Func{
		"if":  builtin{2, 3, newIf},
		"sum": builtin{4, 4, newSum},

		"exp":  &monadic{f: bigfloat.Exp, rule: ruleExp},
		"ln":   &monadic{f: bigfloat.Log, domain: positive, rule: ruleLn},
		"log":  &monadic{f: log10, domain: positive, rule: ruleLog},
		"sqrt": &monadic{f: (*big.Float).Sqrt, domain: nonnegative, rule: ruleSqrt},
		"abs":  &monadic{f: (*big.Float).Abs, rule: ruleAbs},

		// constants
		"pi": Niladic(bigfloat.Pi),
		"e": Niladic(func(out *big.Float) *big.Float {
			one := new(big.Float).SetPrec(out.Prec()).SetInt64(1)
			return bigfloat.Exp(out, one)
		}),
	}
}

// Builtins returns the names of the built-in functions in sorted order.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for k := range builtins {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

func log10(out, in *big.Float) *big.Float {
	bigfloat.Log(out, in)
	ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
	bigfloat.Log(ten, ten)
	return out.Quo(out, ten)
}

func positive(x *big.Float) bool {
	return x.Sign() > 0
}

func nonnegative(x *big.Float) bool {
	return x.Sign() >= 0
}

// calcRule selects the symbolic rules of a built-in monadic function.
type calcRule int8

const (
	ruleNone calcRule = iota
	ruleExp
	ruleLn
	ruleLog
	ruleSqrt
	ruleAbs
)

type monadic struct {
	f func(out, in *big.Float) *big.Float
	// domain reports whether an argument is valid; nil means all are.
	domain func(x *big.Float) bool
	rule   calcRule
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f is
// called on an argument outside f's domain, it should panic with an error of
// type big.ErrNaN. Calls of the function cannot be differentiated or
// integrated.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return &monadic{f: f}
}

func (m *monadic) CanCall(n int) bool {
	return n == 1
}

func (m *monadic) Bind(name string, args []Node) (Node, error) {
	if len(args) != 1 {
		return nil, &ArityError{Func: name, Len: len(args)}
	}
	return &Apply{Call: Call{Name: name, Min: 1, Max: 1, Args: args}, fn: m}, nil
}

// derivative returns f'(u).
func (m *monadic) derivative(u Node) (Node, bool) {
	switch m.rule {
	case ruleExp:
		return call1("exp", u), true
	case ruleLn:
		return div(konst(1), u), true
	case ruleLog:
		return div(konst(1), mul(u, call1("ln", konst(10)))), true
	case ruleSqrt:
		return div(konst(1), mul(konst(2), call1("sqrt", u))), true
	case ruleAbs:
		return div(u, call1("abs", u)), true
	default:
		return nil, false
	}
}

// antiderivative returns the integral of f(x) with respect to the variable x.
func (m *monadic) antiderivative(x Node) (Node, bool) {
	switch m.rule {
	case ruleExp:
		return call1("exp", x), true
	case ruleLn:
		return sub(mul(x, call1("ln", x)), x), true
	case ruleLog:
		return div(sub(mul(x, call1("ln", x)), x), call1("ln", konst(10))), true
	case ruleSqrt:
		return div(mul(konst(2), mul(x, call1("sqrt", x))), konst(3)), true
	case ruleAbs:
		return div(mul(x, call1("abs", x)), konst(2)), true
	default:
		return nil, false
	}
}

// call1 creates a call of a built-in monadic function.
func call1(name string, x Node) Node {
	return &Apply{Call: Call{Name: name, Min: 1, Max: 1, Args: []Node{x}}, fn: builtins[name].(*monadic)}
}

// Apply is a call of a function of one number.
type Apply struct {
	Call
	fn *monadic
}

func (a *Apply) Eval(env *Env) (Value, error) {
	v, err := a.Args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	x, err := asNumber(v, a.Name)
	if err != nil {
		return nil, err
	}
	if a.fn.domain != nil && !a.fn.domain(x.f) {
		return nil, &DomainError{X: x.Big(), Arg: 1, Func: a.Name}
	}
	r := new(big.Float).SetPrec(Prec)
	if err := guard(a.Name, x.f, func() { a.fn.f(r, x.Big()) }); err != nil {
		return nil, err
	}
	return &Number{f: r, fmt: x.fmt}, nil
}

func (a *Apply) call() *Call {
	return &a.Call
}

func (a *Apply) withArgs(args []Node) Node {
	c := a.Call
	c.Args = args
	return &Apply{Call: c, fn: a.fn}
}

func (a *Apply) Derive(v string) (Node, bool) {
	u := a.Args[0]
	du, ok := u.Derive(v)
	if !ok {
		return nil, false
	}
	if isNum(du, 0) {
		return konst(0), true
	}
	d, ok := a.fn.derivative(u)
	if !ok {
		return nil, false
	}
	return mul(d, du), true
}

func (a *Apply) Integrate(v string) (Node, bool) {
	u := a.Args[0]
	switch {
	case !uses(u, v):
		return mul(a, &Var{Name: v}), true
	case isVar(u, v):
		return a.fn.antiderivative(u)
	default:
		return nil, false
	}
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored. Unlike Monadic, the wrapped function is expected
// never to panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return &niladic{f}
}

func (n *niladic) CanCall(k int) bool {
	return k == 0
}

func (n *niladic) Bind(name string, args []Node) (Node, error) {
	if len(args) != 0 {
		return nil, &ArityError{Func: name, Len: len(args)}
	}
	return &NamedConst{Name: name, fn: n}, nil
}

// NamedConst is a call of a function of no arguments, such as pi.
type NamedConst struct {
	Name string
	fn   *niladic
}

func (c *NamedConst) Eval(env *Env) (Value, error) {
	r := new(big.Float).SetPrec(Prec)
	c.fn.f(r)
	return &Number{f: r}, nil
}

func (c *NamedConst) Derive(v string) (Node, bool) {
	return konst(0), true
}

func (c *NamedConst) Integrate(v string) (Node, bool) {
	return mul(c, &Var{Name: v}), true
}

func (c *NamedConst) Prec() int {
	return precAtom
}

func (c *NamedConst) Render(b *strings.Builder) {
	b.WriteString(c.Name)
}
