package formula

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt  map[string]Func
	formatopt struct{ f *Format }
	regopt    struct{ r *Registry }
	depthopt  int
)

// DefaultMaxDepth is the nesting limit used when no MaxDepth option is given.
const DefaultMaxDepth = 256

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// funcs is the set of function names that trigger special parsing for
	// ids. A nil map means the built-in functions.
	funcs map[string]Func
	// reg holds user-defined functions, consulted after funcs.
	reg *Registry
	// format is attached to every numeric literal.
	format *Format
	// maxDepth bounds the nesting of brackets and calls.
	maxDepth int
	// depth is the current nesting depth.
	depth int
}

func newParsectx(opts []ParseOption) parsectx {
	p := parsectx{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}

// lookup finds the function for a name. Built-ins and functions set by options
// take priority over the registry. The result is nil if name is a variable.
func (p *parsectx) lookup(name string) Func {
	if p.funcs == nil {
		if fn := builtins[name]; fn != nil {
			return fn
		}
	} else if fn, ok := p.funcs[name]; ok {
		if fn != nil {
			return fn
		}
		// Explicitly disabled.
		return nil
	}
	if p.reg != nil {
		if fn, ok := p.reg.Lookup(name); ok {
			return fn
		}
	}
	return nil
}

// ownfuncs makes p.funcs a private copy that includes the built-ins.
func (p *parsectx) ownfuncs() {
	m := make(map[string]Func, len(builtins)+len(p.funcs))
	if p.funcs == nil {
		for k, v := range builtins {
			m[k] = v
		}
	} else {
		for k, v := range p.funcs {
			m[k] = v
		}
	}
	p.funcs = m
}

// ParseFunc sets a function for parsing. To disable parsing a function, pass
// nil for fn.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	p.ownfuncs()
	p.funcs[o.name] = o.fn
	return p
}

// ParseFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to nil.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	p.ownfuncs()
	for k, v := range o {
		p.funcs[k] = v
	}
	return p
}

// DisableDefaultFuncs disables all built-in functions during parsing. Their
// names will be parsed as variables instead, unless a Registry or a later
// ParseFunc supplies them.
func DisableDefaultFuncs() ParseOption {
	m := make(funcsopt, len(builtins))
	for k := range builtins {
		m[k] = nil
	}
	return m
}

// WithFormat sets the format attached to numeric literals, and through them
// to evaluation results. The default is DefaultFormat.
func WithFormat(f *Format) ParseOption {
	return formatopt{f}
}

func (o formatopt) parseOption(p parsectx) parsectx {
	p.format = o.f
	return p
}

// WithRegistry makes the user-defined functions in r callable. Functions are
// resolved when the formula is parsed, so later declarations in r do not
// affect formulas parsed earlier.
func WithRegistry(r *Registry) ParseOption {
	return regopt{r}
}

func (o regopt) parseOption(p parsectx) parsectx {
	p.reg = o.r
	return p
}

// MaxDepth limits how deeply brackets and function calls may nest. Parsing
// deeper input fails with a *DepthError. A limit of zero or less uses
// DefaultMaxDepth.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxDepth = int(o)
	if p.maxDepth <= 0 {
		p.maxDepth = DefaultMaxDepth
	}
	return p
}
