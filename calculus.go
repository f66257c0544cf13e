package formula

import "math/big"

// Derive returns the derivative of the expression with respect to v. If some
// part of the expression has no differentiation rule, the error is an
// *UnsupportedError.
func (e *Expr) Derive(v string) (*Expr, error) {
	n, ok := e.n.Derive(v)
	if !ok {
		return nil, &UnsupportedError{Op: "derive", Var: v, Expr: e.String()}
	}
	return NewExpr(n), nil
}

// Integrate returns an antiderivative of the expression with respect to v,
// without a constant of integration. If no rule applies, the error is an
// *UnsupportedError.
func (e *Expr) Integrate(v string) (*Expr, error) {
	n, ok := e.n.Integrate(v)
	if !ok {
		return nil, &UnsupportedError{Op: "integrate", Var: v, Expr: e.String()}
	}
	return NewExpr(n), nil
}

func (c *Const) Derive(v string) (Node, bool) {
	if _, ok := c.Value.(*Number); !ok {
		return nil, false
	}
	return konst(0), true
}

func (c *Const) Integrate(v string) (Node, bool) {
	if _, ok := c.Value.(*Number); !ok {
		return nil, false
	}
	return mul(c, &Var{Name: v}), true
}

func (x *Var) Derive(v string) (Node, bool) {
	if x.Name == v {
		return konst(1), true
	}
	return konst(0), true
}

func (x *Var) Integrate(v string) (Node, bool) {
	if x.Name == v {
		return div(pow(x, konst(2)), konst(2)), true
	}
	return mul(x, &Var{Name: v}), true
}

func (n *Unary) Derive(v string) (Node, bool) {
	if n.op == opNot {
		return nil, false
	}
	d, ok := n.X.Derive(v)
	if !ok {
		return nil, false
	}
	if n.op == opNeg {
		return neg(d), true
	}
	return d, true
}

func (n *Unary) Integrate(v string) (Node, bool) {
	if n.op == opNot {
		return nil, false
	}
	d, ok := n.X.Integrate(v)
	if !ok {
		return nil, false
	}
	if n.op == opNeg {
		return neg(d), true
	}
	return d, true
}

func (n *Binary) Derive(v string) (Node, bool) {
	switch n.op {
	case opAdd, opSub, opMul, opDiv, opPow:
	default:
		// Comparisons and logic have no derivative.
		return nil, false
	}
	dl, ok := n.L.Derive(v)
	if !ok {
		return nil, false
	}
	dr, ok := n.R.Derive(v)
	if !ok {
		return nil, false
	}
	switch n.op {
	case opAdd:
		return add(dl, dr), true
	case opSub:
		return sub(dl, dr), true
	case opMul:
		return add(mul(dl, n.R), mul(n.L, dr)), true
	case opDiv:
		if isNum(dr, 0) {
			return div(dl, n.R), true
		}
		return div(sub(mul(dl, n.R), mul(n.L, dr)), pow(n.R, konst(2))), true
	default:
		switch {
		case isNum(dr, 0):
			// Power rule.
			return mul(mul(n.R, pow(n.L, sub(n.R, konst(1)))), dl), true
		case isNum(dl, 0):
			// Exponential rule.
			return mul(mul(n, call1("ln", n.L)), dr), true
		default:
			// d(u^w) = u^w (w' ln u + w u'/u)
			return mul(n, add(mul(dr, call1("ln", n.L)), div(mul(n.R, dl), n.L))), true
		}
	}
}

func (n *Binary) Integrate(v string) (Node, bool) {
	switch n.op {
	case opAdd, opSub, opMul, opDiv, opPow:
	default:
		return nil, false
	}
	lv, rv := uses(n.L, v), uses(n.R, v)
	if !lv && !rv {
		return mul(n, &Var{Name: v}), true
	}
	switch n.op {
	case opAdd, opSub:
		il, ok := n.L.Integrate(v)
		if !ok {
			return nil, false
		}
		ir, ok := n.R.Integrate(v)
		if !ok {
			return nil, false
		}
		if n.op == opAdd {
			return add(il, ir), true
		}
		return sub(il, ir), true
	case opMul:
		switch {
		case !lv:
			ir, ok := n.R.Integrate(v)
			if !ok {
				return nil, false
			}
			return mul(n.L, ir), true
		case !rv:
			il, ok := n.L.Integrate(v)
			if !ok {
				return nil, false
			}
			return mul(il, n.R), true
		}
	case opDiv:
		switch {
		case !rv:
			il, ok := n.L.Integrate(v)
			if !ok {
				return nil, false
			}
			return div(il, n.R), true
		case !lv && isVar(n.R, v):
			return mul(n.L, call1("ln", n.R)), true
		}
	case opPow:
		switch {
		case isVar(n.L, v) && !rv:
			if isNum(n.R, -1) {
				return call1("ln", n.L), true
			}
			e := add(n.R, konst(1))
			return div(pow(n.L, e), e), true
		case !lv && isVar(n.R, v):
			return div(n, call1("ln", n.L)), true
		}
	}
	return nil, false
}

// konst creates a numeric constant with no format of its own.
func konst(x float64) Node {
	return &Const{Value: NewNumber(x, nil)}
}

// numval returns the number of a numeric constant node.
func numval(n Node) (*Number, bool) {
	c, ok := n.(*Const)
	if !ok {
		return nil, false
	}
	x, ok := c.Value.(*Number)
	return x, ok
}

func isNum(n Node, x float64) bool {
	v, ok := numval(n)
	return ok && v.f.Cmp(big.NewFloat(x)) == 0
}

func isVar(n Node, v string) bool {
	x, ok := n.(*Var)
	return ok && x.Name == v
}

// The constructors below fold constants and drop identities so that symbolic
// results stay readable.

func add(a, b Node) Node {
	switch {
	case isNum(a, 0):
		return b
	case isNum(b, 0):
		return a
	}
	if x, ok := numval(a); ok {
		if y, ok := numval(b); ok {
			if r, err := x.Add(y, true); err == nil {
				return &Const{Value: r}
			}
		}
	}
	return &Binary{op: opAdd, L: a, R: b}
}

func sub(a, b Node) Node {
	switch {
	case isNum(b, 0):
		return a
	case isNum(a, 0):
		return neg(b)
	}
	if x, ok := numval(a); ok {
		if y, ok := numval(b); ok {
			if r, err := x.Add(y, false); err == nil {
				return &Const{Value: r}
			}
		}
	}
	return &Binary{op: opSub, L: a, R: b}
}

func mul(a, b Node) Node {
	switch {
	case isNum(a, 0), isNum(b, 0):
		return konst(0)
	case isNum(a, 1):
		return b
	case isNum(b, 1):
		return a
	case isNum(a, -1):
		return neg(b)
	case isNum(b, -1):
		return neg(a)
	}
	if x, ok := numval(a); ok {
		if y, ok := numval(b); ok {
			if r, err := x.Mul(y); err == nil {
				return &Const{Value: r}
			}
		}
	}
	return &Binary{op: opMul, L: a, R: b}
}

func div(a, b Node) Node {
	switch {
	case isNum(b, 1):
		return a
	case isNum(a, 0) && !isNum(b, 0):
		return konst(0)
	}
	if x, ok := numval(a); ok {
		if y, ok := numval(b); ok && y.Sign() != 0 && x.IsInt() && y.IsInt() {
			// Fold only exact quotients.
			if r, err := x.Quo(y); err == nil && r.IsInt() {
				return &Const{Value: r}
			}
		}
	}
	return &Binary{op: opDiv, L: a, R: b}
}

func pow(a, b Node) Node {
	switch {
	case isNum(b, 0):
		return konst(1)
	case isNum(b, 1):
		return a
	}
	if x, ok := numval(a); ok {
		if y, ok := numval(b); ok && y.IsInt() {
			if r, err := x.Pow(y); err == nil {
				return &Const{Value: r}
			}
		}
	}
	return &Binary{op: opPow, L: a, R: b}
}

func neg(a Node) Node {
	if x, ok := numval(a); ok {
		return &Const{Value: x.Neg()}
	}
	if u, ok := a.(*Unary); ok && u.op == opNeg {
		return u.X
	}
	return &Unary{op: opNeg, X: a}
}
