package formula

import (
	"strconv"
	"strings"
)

// Node is an operation in the abstract syntax tree of a formula. Nodes are
// immutable once parsing completes, so one tree may be evaluated any number
// of times against different environments.
type Node interface {
	// Eval computes the node's value in env.
	Eval(env *Env) (Value, error)
	// Derive returns the derivative of the node with respect to the variable
	// v. The result is false if the node has no differentiation rule.
	Derive(v string) (Node, bool)
	// Integrate returns an antiderivative of the node with respect to the
	// variable v, without a constant of integration. The result is false if
	// the node has no integration rule.
	Integrate(v string) (Node, bool)
	// Prec returns the precedence level of the node's operation. Higher
	// levels bind more tightly. Function calls and constants bind tightest.
	Prec() int
	// Render writes the node as formula text that parses back to an
	// equivalent node.
	Render(b *strings.Builder)
}

// Parent is an optional interface for nodes built outside this package that
// hold other nodes, typically the result of a Func's Bind. Listing variables
// and substituting arguments into function bodies reach the children of a
// Parent. Any other node of an unknown type is opaque: it reads no variables
// and is left as it is by substitution.
type Parent interface {
	Node
	// Children returns the node's operands in order.
	Children() []Node
	// WithChildren returns a node of the same kind over the given operands.
	// It must not modify the receiver.
	WithChildren(children []Node) Node
}

// Precedence levels.
const (
	precOr      = -6
	precAnd     = -5
	precNot     = -4
	precCompare = -2
	precAdd     = 1
	precMul     = 5
	precUnary   = 10
	precPow     = 15
	precAtom    = 100
)

type opKind int8

const (
	opNone opKind = iota

	opNeg  // negate X
	opPlus // X
	opNot  // logical negation of X

	opAdd // L + R
	opSub // L - R
	opMul // L * R
	opDiv // L / R
	opPow // L ^ R

	opLT // L < R
	opLE // L <= R
	opGT // L > R
	opGE // L >= R
	opEQ // L == R
	opNE // L != R

	opAnd // L & R
	opOr  // L | R
)

var opinfo = [...]struct {
	text  string
	prec  int
	right bool
}{
	opNone: {"$", precAtom, false},
	opNeg:  {"-", precUnary, true},
	opPlus: {"+", precUnary, true},
	opNot:  {"!", precNot, true},
	opAdd:  {"+", precAdd, false},
	opSub:  {"-", precAdd, false},
	opMul:  {"*", precMul, false},
	opDiv:  {"/", precMul, false},
	opPow:  {"^", precPow, true},
	opLT:   {"<", precCompare, false},
	opLE:   {"<=", precCompare, false},
	opGT:   {">", precCompare, false},
	opGE:   {">=", precCompare, false},
	opEQ:   {"==", precCompare, false},
	opNE:   {"!=", precCompare, false},
	opAnd:  {"&", precAnd, false},
	opOr:   {"|", precOr, false},
}

func (k opKind) String() string {
	if k < 0 || int(k) >= len(opinfo) {
		return "opKind(" + strconv.Itoa(int(k)) + ")"
	}
	return opinfo[k].text
}

// Const is a literal value.
type Const struct {
	Value Value
}

func (c *Const) Prec() int {
	if n, ok := c.Value.(*Number); ok && (n.f.Signbit() || n.f.IsInf()) {
		// Rendered with a sign.
		return precUnary
	}
	return precAtom
}

func (c *Const) Render(b *strings.Builder) {
	c.Value.render(b)
}

// Var is a reference to a variable.
type Var struct {
	Name string
}

func (v *Var) Prec() int {
	return precAtom
}

func (v *Var) Render(b *strings.Builder) {
	b.WriteString(v.Name)
}

// Unary is a prefix operation: negation, unary plus, or logical not.
type Unary struct {
	op opKind
	X  Node
}

// Op returns the operator text.
func (n *Unary) Op() string {
	return n.op.String()
}

func (n *Unary) Prec() int {
	return opinfo[n.op].prec
}

func (n *Unary) Render(b *strings.Builder) {
	b.WriteString(n.op.String())
	group(b, n.X, n.Prec(), false)
}

// Binary is an infix operation.
type Binary struct {
	op   opKind
	L, R Node
}

// Op returns the operator text.
func (n *Binary) Op() string {
	return n.op.String()
}

func (n *Binary) Prec() int {
	return opinfo[n.op].prec
}

func (n *Binary) Render(b *strings.Builder) {
	info := opinfo[n.op]
	group(b, n.L, info.prec, info.right)
	b.WriteByte(' ')
	b.WriteString(info.text)
	b.WriteByte(' ')
	group(b, n.R, info.prec, !info.right)
}

// group renders n, in brackets if its precedence is lower than prec, or equal
// to it when strict.
func group(b *strings.Builder, n Node, prec int, strict bool) {
	p := n.Prec()
	if p < prec || p == prec && strict {
		b.WriteByte('(')
		n.Render(b)
		b.WriteByte(')')
		return
	}
	n.Render(b)
}

// Render formats a node as formula text.
func Render(n Node) string {
	var b strings.Builder
	n.Render(&b)
	return b.String()
}
