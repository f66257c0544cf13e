package formula

import (
	"strings"
	"unicode/utf8"
)

// Expr = num | name | true | false | Call | Unary | Binary | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = funcname | funcname Expr | funcname ArgList
// ArgList = '(' [ Expr { ',' Expr } ] ')'   (any bracket kind may open or close)
// Unary = ('-' | '+' | '!') Expr
// Binary = Expr op Expr | Expr Expr
// op = '+' | '-' | '*' | '×' | '/' | '÷' | '^' | '<' | '<=' | '>' | '>=' |
//      '=' | '==' | '!=' | '<>' | '&' | '&&' | '|' | '||'

// Expr is a parsed formula that can be evaluated against any number of
// environments.
type Expr struct {
	// n is the parsed tree.
	n Node
	// names is the list of free variable names in the expression.
	names []string
}

// NewExpr wraps a node tree as an expression.
func NewExpr(n Node) *Expr {
	set := make(map[string]bool)
	freeVars(n, set)
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(set)),
	}
	for k := range set {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex
}

// Parse parses a formula. The given options are applied in order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	p := newParsectx(opts)
	n, err := p.parse(src, 1)
	if err != nil {
		return nil, err
	}
	return NewExpr(n), nil
}

// parse parses an entire formula. col is the column of src's first rune.
func (p *parsectx) parse(src string, col int) (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, &DepthError{Col: col, Max: p.maxDepth}
	}
	scan := lex(src, col)
	n, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok)
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: tok.pos}
	}
	return n, nil
}

// sortstrs is an insertion sort for the short name lists of a formula.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseterm parses one term and leaves its last token, EOF included, pushed
// back on success. An empty term gives a nil node and no error; the caller
// decides whether that is allowed.
func parseterm(scan *lexer, p *parsectx, until operator) (Node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// (parsed) x -> (parsed) * (x)
			// (parsed) x^(expr) -> (parsed) * (x^(expr))
			// a^(parsed) x -> (a^(parsed)) * (x)
			// 2 (expr) -> (2) * (expr)
			scan.push(tok)
			prec := termprec
			if !prec.moreBinding(until) {
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			n = &Binary{op: opMul, L: n, R: rhs}
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == opNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.must()
				scan.push(end)
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = &Binary{op: prec.op, L: n, R: rhs}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("formula: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (Node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n Node
	switch tok.kind {
	case tokenNum:
		n = &Const{Value: literal(tok.text, p.format)}
	case tokenIdent:
		switch tok.text {
		case "true", "false":
			n = &Const{Value: NewLogical(tok.text == "true", p.format)}
		default:
			fn := p.lookup(tok.text)
			if fn == nil {
				n = &Var{Name: tok.text}
				break
			}
			n, err = parsecall(scan, p, until, fn, tok.text)
			if err != nil {
				return nil, err
			}
		}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == opNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// The juxtaposed term binds like the operator that follows it.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			scan.push(end)
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = &Unary{op: prec.op, X: rhs}
	case tokenOpen:
		p.depth++
		defer func() { p.depth-- }()
		if p.depth > p.maxDepth {
			return nil, &DepthError{Col: tok.pos, Max: p.maxDepth}
		}
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, tok.text)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = rhs
	case tokenClose, tokenSep:
		// Let the caller decide what to do.
		scan.push(tok)
		return nil, nil
	case tokenEOF:
		scan.push(tok)
		return nil, nil
	default:
		panic("formula: unknown token: " + tok.String())
	}
	return n, nil
}

// parsecall parses the arguments to a call of a given Func.
func parsecall(scan *lexer, p *parsectx, until operator, fn Func, name string) (Node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenOpen:
		return parsearglist(scan, p, fn, name, tok)
	case tokenOp, tokenNum, tokenIdent:
		if tok.kind == tokenOp && unop(tok.text).op == opNone {
			// A binary operator follows, so there are no arguments.
			if !fn.CanCall(0) {
				return nil, &ArityError{Col: tok.pos, Func: name}
			}
			scan.push(tok)
			break
		}
		switch {
		case fn.CanCall(1):
			// exp x -> exp(x)
			scan.push(tok)
			if termprec.moreBinding(until) {
				until = termprec
			}
			rhs, err := parseterm(scan, p, until)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.must()
				scan.push(end)
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n, err := fn.Bind(name, []Node{rhs})
			return n, atcol(err, tok.pos)
		case fn.CanCall(0):
			// pi x -> (pi) * (x)
			scan.push(tok)
		default:
			// Other arities need a bracketed list.
			return nil, &ArityError{Col: tok.pos, Func: name, Len: 1}
		}
	case tokenClose, tokenSep, tokenEOF:
		if !fn.CanCall(0) {
			return nil, &ArityError{Col: tok.pos, Func: name}
		}
		scan.push(tok)
	default:
		panic("formula: unknown token: " + tok.String())
	}
	n, err := fn.Bind(name, nil)
	return n, atcol(err, tok.pos)
}

// parsearglist parses a bracketed argument list starting at the open bracket
// tok. The list is cut out of the source by bracket depth and each argument is
// parsed as a formula of its own.
func parsearglist(scan *lexer, p *parsectx, fn Func, name string, tok lexToken) (Node, error) {
	end := closing(scan.src, tok.off)
	if end < 0 {
		return nil, &BracketError{Col: tok.pos, Left: tok.text}
	}
	text := scan.src[tok.off : end+1]
	spans, err := splitArgs(text, tok.pos)
	if err != nil {
		return nil, err
	}
	if !fn.CanCall(len(spans)) {
		if len(spans) == 1 && fn.CanCall(0) {
			// fn is niladic, so fn(a) is fn()*(a). Leave the bracket for the
			// caller to parse as a multiplication.
			scan.push(tok)
			n, err := fn.Bind(name, nil)
			return n, atcol(err, tok.pos)
		}
		return nil, &ArityError{Col: tok.pos, Func: name, Len: len(spans)}
	}
	scan.seek(end+1, tok.pos+utf8.RuneCountInString(text))
	args := make([]Node, len(spans))
	for i, s := range spans {
		col := tok.pos + utf8.RuneCountInString(text[:s.start])
		src := text[s.start:s.end]
		if strings.TrimSpace(src) == "" {
			return nil, &EmptyExpressionError{Col: col, End: text[s.end : s.end+1]}
		}
		a, err := p.parse(src, col)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	n, err := fn.Bind(name, args)
	return n, atcol(err, tok.pos)
}

// atcol fills in the position of errors from binding a call.
func atcol(err error, col int) error {
	switch err := err.(type) {
	case *ArityError:
		if err.Col == 0 {
			err.Col = col
		}
	case *ArgError:
		if err.Col == 0 {
			err.Col = col
		}
	}
	return err
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is the bracket that the
// subexpression is inside, or empty if none.
func itShouldNotHaveEndedThisWay(tok lexToken, open ...string) error {
	left := ""
	if len(open) > 0 {
		left = open[0]
	}
	switch tok.kind {
	case tokenEOF:
		// Input ran out inside a bracket.
		return &BracketError{Col: tok.pos, Left: left}
	case tokenClose:
		// A close bracket with nothing open.
		return &BracketError{Col: tok.pos, Right: tok.text}
	case tokenSep:
		// A comma outside any argument list.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("formula: it really should not have ended this way: " + tok.String())
	}
}

// Root returns the root node of the expression.
func (e *Expr) Root() Node {
	return e.n
}

// Vars returns the free variable names of the expression in sorted order.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String renders the expression as formula text. Parsing the result gives an
// expression that evaluates identically.
func (e *Expr) String() string {
	return Render(e.n)
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right is set for right-associative operators.
	right bool
	// op selects the node built for the operator.
	op opKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of opNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{precAdd, false, opAdd}
	case "-":
		return operator{precAdd, false, opSub}
	case "*", "×":
		return operator{precMul, false, opMul}
	case "/", "÷":
		return operator{precMul, false, opDiv}
	case "^":
		return operator{precPow, true, opPow}
	case "<":
		return operator{precCompare, false, opLT}
	case "<=":
		return operator{precCompare, false, opLE}
	case ">":
		return operator{precCompare, false, opGT}
	case ">=":
		return operator{precCompare, false, opGE}
	case "=", "==":
		return operator{precCompare, false, opEQ}
	case "!=", "<>":
		return operator{precCompare, false, opNE}
	case "&", "&&":
		return operator{precAnd, false, opAnd}
	case "|", "||":
		return operator{precOr, false, opOr}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of opNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{precUnary, true, opPlus}
	case "-":
		return operator{precUnary, true, opNeg}
	case "!":
		return operator{precNot, true, opNot}
	default:
		return operator{}
	}
}

var (
	// termprec parses a term. It equals the precedence of multiplication.
	termprec = operator{precMul, true, opMul}
	// exprprec parses a whole subexpression.
	exprprec = operator{-128, true, opNone}
)
