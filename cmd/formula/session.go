package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/config"
	"github.com/zephyrtronium/formula/internal/style"
)

// session is the state shared by the formulas of one command or REPL run.
type session struct {
	format *formula.Format
	reg    *formula.Registry
	env    *formula.Env
	opts   []formula.ParseOption
}

func newSession(cfg *config.Config) (*session, error) {
	f, err := cfg.Format()
	if err != nil {
		return nil, err
	}
	depth := formula.MaxDepth(cfg.MaxDepth)
	s := &session{
		format: f,
		reg:    formula.NewRegistry(formula.WithFormat(f), depth),
	}
	s.opts = []formula.ParseOption{formula.WithFormat(f), formula.WithRegistry(s.reg), depth}
	for _, decl := range cfg.Functions {
		if _, err := s.reg.Declare(decl); err != nil {
			return nil, &srcError{src: decl, err: err}
		}
	}
	for _, name := range cfg.VarNames() {
		if err := s.let(name, cfg.Vars[name]); err != nil {
			return nil, fmt.Errorf("setting %s: %w", name, err)
		}
	}
	return s, nil
}

// parse parses a formula with the session's functions and format.
func (s *session) parse(src string) (*formula.Expr, error) {
	e, err := formula.Parse(src, s.opts...)
	if err != nil {
		return nil, &srcError{src: src, err: err}
	}
	return e, nil
}

// eval evaluates a formula with the session's variables.
func (s *session) eval(src string) (*formula.Expr, formula.Value, error) {
	e, err := s.parse(src)
	if err != nil {
		return nil, nil, err
	}
	v, err := e.EvalEnv(s.env)
	if err != nil {
		return e, nil, err
	}
	return e, v, nil
}

// value reads the value for a variable binding: a number written for the
// locale, or else a formula.
func (s *session) value(text string) (formula.Value, error) {
	if n, err := s.format.Parse(text); err == nil {
		return n, nil
	}
	_, v, err := s.eval(text)
	return v, err
}

// let binds a variable for the rest of the session.
func (s *session) let(name, text string) error {
	e, err := formula.Parse(name, formula.DisableDefaultFuncs())
	if err != nil {
		return fmt.Errorf("invalid variable name %q", name)
	}
	if x, ok := e.Root().(*formula.Var); !ok || x.Name != name {
		return fmt.Errorf("invalid variable name %q", name)
	}
	v, err := s.value(text)
	if err != nil {
		return err
	}
	s.env = s.env.With(name, v)
	return nil
}

// define declares a function for the rest of the session.
func (s *session) define(decl string) (*formula.UserFunc, error) {
	f, err := s.reg.Declare(decl)
	if err != nil {
		return nil, &srcError{src: decl, err: err}
	}
	return f, nil
}

func (s *session) derive(v, src string) (*formula.Expr, error) {
	e, err := s.parse(src)
	if err != nil {
		return nil, err
	}
	return e.Derive(v)
}

func (s *session) integrate(v, src string) (*formula.Expr, error) {
	e, err := s.parse(src)
	if err != nil {
		return nil, err
	}
	return e.Integrate(v)
}

// vars lists the session's variable bindings.
func (s *session) vars() []string {
	var lines []string
	for _, k := range s.env.Names() {
		v, _ := s.env.Lookup(k)
		lines = append(lines, style.Render(style.Name, k)+" = "+v.String())
	}
	return lines
}

// funcs lists the declared functions.
func (s *session) funcs() []string {
	var lines []string
	for _, k := range s.reg.Names() {
		f, _ := s.reg.Lookup(k)
		lines = append(lines, style.Render(style.Name, k)+"("+strings.Join(f.Params(), ", ")+") = "+formula.Render(f.Body()))
	}
	return lines
}

// completions returns the names and commands that start with prefix.
func (s *session) completions(prefix string) []string {
	var c []string
	add := func(names ...string) {
		for _, n := range names {
			if strings.HasPrefix(n, prefix) {
				c = append(c, n)
			}
		}
	}
	if strings.HasPrefix(prefix, ":") {
		for _, cmd := range replCommands {
			add(cmd.name)
		}
	} else {
		add(formula.Builtins()...)
		add(s.reg.Names()...)
		add(s.env.Names()...)
	}
	sort.Strings(c)
	return c
}

var errQuit = errors.New("quit")

type replCommand struct {
	name string
	args string
	help string
	run  func(s *session, arg string) (string, error)
}

var replCommands []replCommand

func init() {
	replCommands = []replCommand{
		{":def", "name(params) = body", "declare a function", (*session).cmdDef},
		{":let", "name = formula", "bind a variable", (*session).cmdLet},
		{":d", "var formula", "differentiate a formula", (*session).cmdDerive},
		{":i", "var formula", "integrate a formula", (*session).cmdIntegrate},
		{":vars", "", "list variables", (*session).cmdVars},
		{":funcs", "", "list declared functions", (*session).cmdFuncs},
		{":help", "", "show this help", (*session).cmdHelp},
		{":quit", "", "leave", func(*session, string) (string, error) { return "", errQuit }},
	}
}

// exec runs one line of REPL input and returns the text to show.
func (s *session) exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if !strings.HasPrefix(line, ":") {
		_, v, err := s.eval(line)
		if err != nil {
			return "", err
		}
		return style.Render(style.Result, v.String()), nil
	}
	name, arg, _ := strings.Cut(line, " ")
	for _, c := range replCommands {
		if c.name == name {
			return c.run(s, strings.TrimSpace(arg))
		}
	}
	return "", fmt.Errorf("unknown command %s, try :help", name)
}

func (s *session) cmdDef(arg string) (string, error) {
	f, err := s.define(arg)
	if err != nil {
		return "", err
	}
	return style.Render(style.Dim, "defined "+f.FuncName()), nil
}

func (s *session) cmdLet(arg string) (string, error) {
	name, text, ok := strings.Cut(arg, "=")
	if !ok {
		return "", errors.New("usage: :let name = formula")
	}
	name = strings.TrimSpace(name)
	if err := s.let(name, strings.TrimSpace(text)); err != nil {
		return "", err
	}
	v, _ := s.env.Lookup(name)
	return style.Render(style.Name, name) + " = " + style.Render(style.Result, v.String()), nil
}

func (s *session) cmdDerive(arg string) (string, error) {
	v, src, ok := strings.Cut(arg, " ")
	if !ok {
		return "", errors.New("usage: :d var formula")
	}
	d, err := s.derive(v, src)
	if err != nil {
		return "", err
	}
	return style.Render(style.Result, d.String()), nil
}

func (s *session) cmdIntegrate(arg string) (string, error) {
	v, src, ok := strings.Cut(arg, " ")
	if !ok {
		return "", errors.New("usage: :i var formula")
	}
	d, err := s.integrate(v, src)
	if err != nil {
		return "", err
	}
	return style.Render(style.Result, d.String()), nil
}

func (s *session) cmdVars(string) (string, error) {
	return strings.Join(s.vars(), "\n"), nil
}

func (s *session) cmdFuncs(string) (string, error) {
	return strings.Join(s.funcs(), "\n"), nil
}

func (s *session) cmdHelp(string) (string, error) {
	var b strings.Builder
	b.WriteString("Enter a formula to evaluate it, or one of:\n")
	for _, c := range replCommands {
		fmt.Fprintf(&b, "  %-7s %-20s %s\n", c.name, c.args, style.Render(style.Dim, c.help))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// srcError attaches the text that an input error's position refers to.
type srcError struct {
	src string
	err error
}

func (e *srcError) Error() string {
	return e.err.Error()
}

func (e *srcError) Unwrap() error {
	return e.err
}

// describe formats an error for display, pointing at the position of input
// errors.
func describe(err error) string {
	msg := style.Render(style.Error, "error:") + " " + err.Error()
	var se *srcError
	var ie formula.InputError
	if !errors.As(err, &se) || !errors.As(err, &ie) || ie.Pos() <= 0 {
		return msg
	}
	if strings.ContainsRune(se.src, '\n') {
		return msg
	}
	return "  " + se.src + "\n  " + strings.Repeat(" ", ie.Pos()-1) + style.Render(style.Error, "^") + "\n" + msg
}
