package formula

// If is a conditional: if(cond, then) or if(cond, then, else).
type If struct {
	Call
}

func newIf(c Call) (Node, error) {
	return &If{Call: c}, nil
}

// Eval evaluates the condition, which must be logical, and then only the
// chosen branch. A false condition with no else branch gives zero in the
// condition's format.
func (n *If) Eval(env *Env) (Value, error) {
	v, err := n.Args[0].Eval(env)
	if err != nil {
		return nil, err
	}
	c, err := asLogical(v, n.Name)
	if err != nil {
		return nil, err
	}
	switch {
	case c.Bool():
		return n.Args[1].Eval(env)
	case len(n.Args) > 2:
		return n.Args[2].Eval(env)
	default:
		return Zero(c.raw()), nil
	}
}

// Derive always reports false.
func (n *If) Derive(v string) (Node, bool) {
	return nil, false
}

// Integrate always reports false.
func (n *If) Integrate(v string) (Node, bool) {
	return nil, false
}

func (n *If) call() *Call {
	return &n.Call
}

func (n *If) withArgs(args []Node) Node {
	c := n.Call
	c.Args = args
	return &If{Call: c}
}

// Sum is a bounded summation: sum(i, start, end, body) adds body with the
// variable i bound to each of start, start+1, ... up to and including end.
type Sum struct {
	Call
}

func newSum(c Call) (Node, error) {
	if _, ok := c.Args[0].(*Var); !ok {
		return nil, &ArgError{Func: c.Name, Arg: 1, Want: "variable name"}
	}
	return &Sum{Call: c}, nil
}

// Var returns the name of the running variable.
func (n *Sum) Var() string {
	return n.Args[0].(*Var).Name
}

// Eval evaluates the bounds in env and the body in env extended with the
// running variable. The result is zero if start > end.
func (n *Sum) Eval(env *Env) (Value, error) {
	lo, hi, err := n.bounds(env)
	if err != nil {
		return nil, err
	}
	name := n.Var()
	var acc Value = Zero(lo.raw())
	one := One(lo.raw())
	var i Value = lo
	for {
		c, err := i.Cmp(hi)
		if err != nil {
			return nil, err
		}
		if c > 0 {
			return acc, nil
		}
		x, err := n.Args[3].Eval(env.With(name, i))
		if err != nil {
			return nil, err
		}
		if acc, err = acc.Add(x, true); err != nil {
			return nil, err
		}
		if c == 0 {
			return acc, nil
		}
		next, err := i.Add(one, true)
		if err != nil {
			return nil, err
		}
		if c, _ := next.Cmp(i); c == 0 {
			// The step is lost to rounding, so the loop could never end.
			return nil, &DomainError{X: i.(*Number).Big(), Arg: 3, Func: n.Name}
		}
		i = next
	}
}

// bounds evaluates the start and end of the summation.
func (n *Sum) bounds(env *Env) (lo, hi *Number, err error) {
	for k, p := range []**Number{&lo, &hi} {
		v, err := n.Args[k+1].Eval(env)
		if err != nil {
			return nil, nil, err
		}
		x, err := asNumber(v, n.Name)
		if err != nil {
			return nil, nil, err
		}
		if x.IsInf() {
			return nil, nil, &DomainError{X: x.Big(), Arg: k + 2, Func: n.Name}
		}
		*p = x
	}
	return lo, hi, nil
}

// Derive differentiates the body, keeping the bounds as they are. The result
// does not account for bounds that depend on v. When v is the running
// variable, the body is still the part that changes.
func (n *Sum) Derive(v string) (Node, bool) {
	d, ok := n.Args[3].Derive(v)
	if !ok {
		return nil, false
	}
	return n.withBody(d), true
}

// Integrate integrates the body, keeping the bounds as they are. The result
// does not account for bounds that depend on v.
func (n *Sum) Integrate(v string) (Node, bool) {
	d, ok := n.Args[3].Integrate(v)
	if !ok {
		return nil, false
	}
	return n.withBody(d), true
}

func (n *Sum) withBody(body Node) Node {
	return &Sum{Call: n.with(func(i int, a Node) Node {
		if i == 3 {
			return body
		}
		return a
	})}
}

func (n *Sum) call() *Call {
	return &n.Call
}

func (n *Sum) withArgs(args []Node) Node {
	c := n.Call
	c.Args = args
	return &Sum{Call: c}
}
