package formula

// Env is a set of variable bindings for evaluating formulas. An Env is
// immutable: binding a variable produces a new Env layered on the old one, so
// scoped bindings never leak back to the caller. A nil *Env has no bindings.
type Env struct {
	parent *Env
	layer  bool
	// vars holds the bindings of a root Env.
	vars map[string]Value
	// name and val hold the single binding of a layer.
	name string
	val  Value
}

// NewEnv creates an environment from a copy of vars.
func NewEnv(vars map[string]Value) *Env {
	m := make(map[string]Value, len(vars))
	for k, v := range vars {
		m[k] = v
	}
	return &Env{vars: m}
}

// With returns an environment in which name is bound to v and every other name
// is bound as in e.
func (e *Env) With(name string, v Value) *Env {
	return &Env{parent: e, layer: true, name: name, val: v}
}

// Lookup returns the value bound to name.
func (e *Env) Lookup(name string) (Value, bool) {
	for ; e != nil; e = e.parent {
		if !e.layer {
			v, ok := e.vars[name]
			return v, ok
		}
		if e.name == name {
			return e.val, true
		}
	}
	return nil, false
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for ; e != nil; e = e.parent {
		if !e.layer {
			for k := range e.vars {
				if !seen[k] {
					seen[k] = true
					names = append(names, k)
				}
			}
			break
		}
		if !seen[e.name] {
			seen[e.name] = true
			names = append(names, e.name)
		}
	}
	sortstrs(names)
	return names
}

// Vars returns a copy of the bindings visible in e.
func (e *Env) Vars() map[string]Value {
	m := make(map[string]Value)
	for _, k := range e.Names() {
		m[k], _ = e.Lookup(k)
	}
	return m
}
