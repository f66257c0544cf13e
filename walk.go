package formula

import "strconv"

// caller is a node that calls a function with argument nodes.
type caller interface {
	Node
	call() *Call
	// withArgs returns a node calling the same function with other arguments.
	withArgs(args []Node) Node
}

// freeVars adds the names of the variables that n reads from its environment
// to set.
func freeVars(n Node, set map[string]bool) {
	switch n := n.(type) {
	case *Const, *NamedConst:
		// no variables
	case *Var:
		set[n.Name] = true
	case *Unary:
		freeVars(n.X, set)
	case *Binary:
		freeVars(n.L, set)
		freeVars(n.R, set)
	case *Sum:
		freeVars(n.Args[1], set)
		freeVars(n.Args[2], set)
		body := make(map[string]bool)
		freeVars(n.Args[3], body)
		delete(body, n.Var())
		for k := range body {
			set[k] = true
		}
	case *UserFunc:
		// The body sees only the parameters.
		for _, a := range n.Args {
			freeVars(a, set)
		}
	case caller:
		for _, a := range n.call().Args {
			freeVars(a, set)
		}
	case Parent:
		for _, a := range n.Children() {
			freeVars(a, set)
		}
	}
}

// uses reports whether n reads the variable v.
func uses(n Node, v string) bool {
	set := make(map[string]bool)
	freeVars(n, set)
	return set[v]
}

// substitute replaces the free variables of n named in m with their nodes.
// All replacements happen at once, so a replacement is never itself
// substituted into.
func substitute(n Node, m map[string]Node) Node {
	if len(m) == 0 {
		return n
	}
	switch n := n.(type) {
	case *Const, *NamedConst:
		return n
	case *Var:
		if r, ok := m[n.Name]; ok {
			return r
		}
		return n
	case *Unary:
		return &Unary{op: n.op, X: substitute(n.X, m)}
	case *Binary:
		return &Binary{op: n.op, L: substitute(n.L, m), R: substitute(n.R, m)}
	case *Sum:
		return n.substitute(m)
	case caller:
		args := n.call().Args
		r := make([]Node, len(args))
		for i, a := range args {
			r[i] = substitute(a, m)
		}
		return n.withArgs(r)
	case Parent:
		args := n.Children()
		r := make([]Node, len(args))
		for i, a := range args {
			r[i] = substitute(a, m)
		}
		return n.WithChildren(r)
	default:
		return n
	}
}

// substitute replaces free variables in the sum's bounds and body. The
// running variable shadows m in the body and is renamed if a replacement
// would be captured by it.
func (s *Sum) substitute(m map[string]Node) Node {
	v := s.Var()
	lo := substitute(s.Args[1], m)
	hi := substitute(s.Args[2], m)
	inner := make(map[string]Node, len(m))
	body := make(map[string]bool)
	freeVars(s.Args[3], body)
	captured := false
	for k, r := range m {
		if k == v || !body[k] {
			continue
		}
		inner[k] = r
		captured = captured || uses(r, v)
	}
	if captured {
		used := make(map[string]bool)
		for k := range body {
			used[k] = true
		}
		for _, r := range inner {
			freeVars(r, used)
		}
		fresh := v
		for i := 1; used[fresh]; i++ {
			fresh = v + "_" + strconv.Itoa(i)
		}
		inner[v] = &Var{Name: fresh}
		v = fresh
	}
	return &Sum{Call: s.with(func(i int, a Node) Node {
		switch i {
		case 0:
			return &Var{Name: v}
		case 1:
			return lo
		case 2:
			return hi
		default:
			return substitute(a, inner)
		}
	})}
}
