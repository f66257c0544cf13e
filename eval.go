package formula

import (
	"math/big"
	"strconv"
)

// Eval evaluates the expression with the given variable bindings.
func (e *Expr) Eval(vars map[string]Value) (Value, error) {
	return e.n.Eval(NewEnv(vars))
}

// EvalEnv evaluates the expression in an environment.
func (e *Expr) EvalEnv(env *Env) (Value, error) {
	return e.n.Eval(env)
}

// Eval is a shortcut to parse a formula and evaluate it with the given
// variable bindings.
func Eval(src string, vars map[string]Value, opts ...ParseOption) (Value, error) {
	a, err := Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	return a.Eval(vars)
}

func (c *Const) Eval(env *Env) (Value, error) {
	return c.Value, nil
}

func (v *Var) Eval(env *Env) (Value, error) {
	x, ok := env.Lookup(v.Name)
	if !ok {
		return nil, &NameError{Name: v.Name}
	}
	return x, nil
}

func (n *Unary) Eval(env *Env) (Value, error) {
	x, err := n.X.Eval(env)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case opNeg:
		a, err := asNumber(x, "-")
		if err != nil {
			return nil, err
		}
		return a.Neg(), nil
	case opPlus:
		if _, err := asNumber(x, "+"); err != nil {
			return nil, err
		}
		return x, nil
	case opNot:
		l, err := asLogical(x, "!")
		if err != nil {
			return nil, err
		}
		return l.Not(), nil
	default:
		panic("formula: invalid unary operator " + n.op.String())
	}
}

func (n *Binary) Eval(env *Env) (Value, error) {
	if n.op == opAnd || n.op == opOr {
		return n.evalLogic(env)
	}
	l, err := n.L.Eval(env)
	if err != nil {
		return nil, err
	}
	r, err := n.R.Eval(env)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case opAdd:
		return l.Add(r, true)
	case opSub:
		return l.Add(r, false)
	case opMul, opDiv, opPow:
		a, b, err := numbers(l, r, n.op.String())
		if err != nil {
			return nil, err
		}
		switch n.op {
		case opMul:
			return value(a.Mul(b))
		case opDiv:
			return value(a.Quo(b))
		default:
			return value(a.Pow(b))
		}
	case opEQ, opNE:
		eq, err := l.Equal(r)
		if err != nil {
			return nil, err
		}
		return NewLogical(eq == (n.op == opEQ), pick(l.raw(), r.raw())), nil
	case opLT, opLE, opGT, opGE:
		c, err := l.Cmp(r)
		if err != nil {
			return nil, err
		}
		var b bool
		switch n.op {
		case opLT:
			b = c < 0
		case opLE:
			b = c <= 0
		case opGT:
			b = c > 0
		default:
			b = c >= 0
		}
		return NewLogical(b, pick(l.raw(), r.raw())), nil
	default:
		panic("formula: invalid binary operator " + n.op.String())
	}
}

// evalLogic evaluates & and |, skipping the right operand when the left
// decides the result.
func (n *Binary) evalLogic(env *Env) (Value, error) {
	x, err := n.L.Eval(env)
	if err != nil {
		return nil, err
	}
	l, err := asLogical(x, n.op.String())
	if err != nil {
		return nil, err
	}
	if l.Bool() == (n.op == opOr) {
		return l, nil
	}
	y, err := n.R.Eval(env)
	if err != nil {
		return nil, err
	}
	r, err := asLogical(y, n.op.String())
	if err != nil {
		return nil, err
	}
	return NewLogical(r.Bool(), pick(l.raw(), r.raw())), nil
}

func numbers(l, r Value, op string) (*Number, *Number, error) {
	a, err := asNumber(l, op)
	if err != nil {
		return nil, nil, err
	}
	b, err := asNumber(r, op)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// value converts a numeric result to a Value without boxing a nil *Number.
func value(n *Number, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation environment. It matches ErrType.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Is(target error) bool {
	return target == ErrType
}

// TypeError is an error from an operation on the wrong kind of value.
type TypeError struct {
	// Op names the operation.
	Op string
	// Want is the kind of value the operation accepts.
	Want string
	// Got is the kind of value it was given.
	Got string
}

func (err *TypeError) Error() string {
	return "cannot use " + err.Got + " in " + strconv.Quote(err.Op) + " (need " + err.Want + ")"
}

func (err *TypeError) Is(target error) bool {
	return target == ErrType
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument, if known.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := "argument outside domain"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// UnsupportedError is an error from a symbolic operation on an expression
// that has no rule for it.
type UnsupportedError struct {
	// Op is "derive" or "integrate".
	Op string
	// Var is the variable of the operation.
	Var string
	// Expr is the rendered expression.
	Expr string
}

func (err *UnsupportedError) Error() string {
	return "cannot " + err.Op + " " + err.Expr + " with respect to " + err.Var
}

func (err *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}
