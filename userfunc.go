package formula

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// declaration is the part of a user function shared by all its call sites.
type declaration struct {
	name   string
	params []string
	body   Node
	format *Format
	text   string
}

// UserFunc is a function declared in formula text, such as "f(x)=3*x+5". A
// UserFunc is both a Func, creating calls of itself, and the Node for one such
// call. Call sites share the declaration and each have their own arguments.
type UserFunc struct {
	Call
	decl *declaration
}

// ParseUserFunc parses a declaration of the form "name(params)=body". The
// declaration is split at its first '='. Parameter names shadow functions and
// variables of the same name in the body. The body may read no variables
// besides the parameters: a body such as "x+y" in "f(x)=x+y" is rejected
// here with a *DeclarationError instead of failing each time f is evaluated.
// Options apply to parsing the body.
func ParseUserFunc(decl string, opts ...ParseOption) (*UserFunc, error) {
	eq := strings.IndexByte(decl, '=')
	if eq < 0 {
		return nil, &DeclarationError{Decl: decl, Msg: "missing '='"}
	}
	lhs := strings.TrimRightFunc(decl[:eq], unicode.IsSpace)
	open := strings.IndexAny(lhs, OpenBrackets)
	if open < 0 {
		return nil, &DeclarationError{Decl: decl, Col: eq + 1, Msg: "missing parameter list"}
	}
	name := strings.TrimSpace(lhs[:open])
	if !isIdent(name) || name == "true" || name == "false" {
		return nil, &DeclarationError{Decl: decl, Col: 1, Msg: "invalid function name " + strconv.Quote(name)}
	}
	col := utf8.RuneCountInString(decl[:open]) + 1
	list := lhs[open:]
	spans, err := splitArgs(list, col)
	if err != nil {
		return nil, &DeclarationError{Decl: decl, Col: col, Msg: "bad parameter list", Err: err}
	}
	params := make([]string, len(spans))
	shadow := make(map[string]Func, len(spans))
	for i, s := range spans {
		p := strings.TrimSpace(list[s.start:s.end])
		pcol := col + utf8.RuneCountInString(list[:s.start])
		if !isIdent(p) || p == "true" || p == "false" {
			return nil, &DeclarationError{Decl: decl, Col: pcol, Msg: "invalid parameter name " + strconv.Quote(p)}
		}
		if _, ok := shadow[p]; ok {
			return nil, &DeclarationError{Decl: decl, Col: pcol, Msg: "duplicate parameter " + strconv.Quote(p)}
		}
		params[i] = p
		shadow[p] = nil
	}
	ctx := newParsectx(append(opts[:len(opts):len(opts)], ParseFuncs(shadow)))
	bcol := utf8.RuneCountInString(decl[:eq+1]) + 1
	body, err := ctx.parse(decl[eq+1:], bcol)
	if err != nil {
		return nil, &DeclarationError{Decl: decl, Col: bcol, Msg: "bad body", Err: err}
	}
	free := make(map[string]bool)
	freeVars(body, free)
	for _, p := range params {
		delete(free, p)
	}
	if len(free) != 0 {
		names := make([]string, 0, len(free))
		for k := range free {
			names = append(names, k)
		}
		sortstrs(names)
		return nil, &DeclarationError{Decl: decl, Col: bcol, Msg: "undefined name " + strconv.Quote(names[0]) + " in body"}
	}
	d := &declaration{
		name:   name,
		params: params,
		body:   body,
		format: ctx.format,
		text:   decl,
	}
	return d.call(nil), nil
}

func (d *declaration) call(args []Node) *UserFunc {
	n := len(d.params)
	return &UserFunc{
		Call: Call{Name: d.name, Min: n, Max: n, Args: args},
		decl: d,
	}
}

// Copy returns a call site of the same function with empty argument slots.
func (f *UserFunc) Copy() *UserFunc {
	return f.decl.call(nil)
}

// FuncName returns the declared function name.
func (f *UserFunc) FuncName() string {
	return f.decl.name
}

// Params returns the parameter names in order.
func (f *UserFunc) Params() []string {
	return append([]string(nil), f.decl.params...)
}

// Body returns the parsed body.
func (f *UserFunc) Body() Node {
	return f.decl.body
}

// Format returns the format given when the function was declared, or nil.
func (f *UserFunc) Format() *Format {
	return f.decl.format
}

// Declaration returns the declaration text.
func (f *UserFunc) Declaration() string {
	return f.decl.text
}

// Bind creates a call site with the given arguments.
func (f *UserFunc) Bind(name string, args []Node) (Node, error) {
	if !f.CanCall(len(args)) {
		return nil, &ArityError{Func: name, Len: len(args)}
	}
	return f.decl.call(args), nil
}

// Eval evaluates the arguments in env and then the body in an environment
// holding only the parameters.
func (f *UserFunc) Eval(env *Env) (Value, error) {
	if len(f.Args) != len(f.decl.params) {
		return nil, &ArityError{Func: f.Name, Len: len(f.Args)}
	}
	var inner *Env
	for i, a := range f.Args {
		v, err := a.Eval(env)
		if err != nil {
			return nil, err
		}
		inner = inner.With(f.decl.params[i], v)
	}
	return f.decl.body.Eval(inner)
}

// inline returns the body with the arguments substituted for the parameters.
func (f *UserFunc) inline() (Node, bool) {
	if len(f.Args) != len(f.decl.params) {
		return nil, false
	}
	m := make(map[string]Node, len(f.Args))
	for i, a := range f.Args {
		m[f.decl.params[i]] = a
	}
	return substitute(f.decl.body, m), true
}

func (f *UserFunc) Derive(v string) (Node, bool) {
	n, ok := f.inline()
	if !ok {
		return nil, false
	}
	return n.Derive(v)
}

func (f *UserFunc) Integrate(v string) (Node, bool) {
	n, ok := f.inline()
	if !ok {
		return nil, false
	}
	return n.Integrate(v)
}

func (f *UserFunc) call() *Call {
	return &f.Call
}

func (f *UserFunc) withArgs(args []Node) Node {
	return f.decl.call(args)
}

// Registry holds user-defined functions by name. A Registry is not safe for
// concurrent use.
type Registry struct {
	funcs map[string]*UserFunc
	opts  []ParseOption
}

// NewRegistry creates an empty registry. The options apply to parsing the
// bodies of declarations.
func NewRegistry(opts ...ParseOption) *Registry {
	return &Registry{
		funcs: make(map[string]*UserFunc),
		opts:  opts,
	}
}

// Declare parses a declaration and registers the function under its name,
// replacing any earlier function of that name. Bodies may call functions
// declared before them. Built-in names cannot be declared. On error, the
// registry is unchanged.
func (r *Registry) Declare(decl string) (*UserFunc, error) {
	opts := append(r.opts[:len(r.opts):len(r.opts)], WithRegistry(r))
	f, err := ParseUserFunc(decl, opts...)
	if err != nil {
		return nil, err
	}
	if builtins[f.decl.name] != nil {
		return nil, &DeclarationError{Decl: decl, Col: 1, Msg: "cannot redeclare built-in " + strconv.Quote(f.decl.name)}
	}
	r.funcs[f.decl.name] = f
	return f.Copy(), nil
}

// Lookup returns a call site with empty arguments for the function declared
// with the given name.
func (r *Registry) Lookup(name string) (*UserFunc, bool) {
	f, ok := r.funcs[name]
	if !ok {
		return nil, false
	}
	return f.Copy(), true
}

// Names returns the names of the declared functions in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for k := range r.funcs {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}
