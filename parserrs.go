package formula

import (
	"errors"
	"strconv"
)

// Error categories. Every error returned by this package matches one of them
// under errors.Is. A *DeclarationError is a syntax error and also matches the
// category of the body error it wraps, so a declaration whose body calls a
// function with too few arguments matches both ErrSyntax and ErrArity.
var (
	// ErrSyntax is the category of malformed formula or declaration text.
	ErrSyntax = errors.New("syntax error")
	// ErrArity is the category of calls with the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")
	// ErrType is the category of operations on the wrong kind of value,
	// including lookups of unbound variables.
	ErrType = errors.New("type error")
	// ErrUnsupported is the category of symbolic operations on formulas that
	// have no rule for them.
	ErrUnsupported = errors.New("unsupported operation")
	// ErrDomain is the category of arithmetic outside a function's domain.
	ErrDomain = errors.New("domain error")
)

// OperatorError is an error indicating an operator token that is not
// understood by the parser. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool {
	return target == ErrSyntax
}

// BracketError is an error indicating unbalanced brackets in the input. Any
// closing bracket closes any opening bracket, so there is no mismatch between
// kinds. It implements InputError.
type BracketError struct {
	// Col is the position of the bracket.
	Col int
	// Left is the opening bracket, if any.
	Left string
	// Right is the closing bracket, if any.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "unexpected text after "+err.Left+"args"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == ErrSyntax
}

// SeparatorError is an error indicating a comma outside a function argument
// list. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

func (err *SeparatorError) Is(target error) bool {
	return target == ErrSyntax
}

// ArityError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type ArityError struct {
	// Col is the position of the argument list, or 0 if the call was not
	// made from formula text.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the function call tried to imply.
	Len int
}

func (err *ArityError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *ArityError) Pos() int {
	return err.Col
}

func (err *ArityError) Is(target error) bool {
	return target == ErrArity
}

// ArgError is an error indicating an argument that has the wrong shape for
// its parameter slot, e.g. a summation variable that is not a name.
type ArgError struct {
	// Col is the position of the argument list.
	Col int
	// Func is the function name that was called.
	Func string
	// Arg is the 1-based index of the argument.
	Arg int
	// Want describes what the parameter slot accepts.
	Want string
}

func (err *ArgError) Error() string {
	return errpos(err.Col, "argument "+strconv.Itoa(err.Arg)+" of "+err.Func+" must be "+err.Want)
}

func (err *ArgError) Pos() int {
	return err.Col
}

func (err *ArgError) Is(target error) bool {
	return target == ErrSyntax
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrSyntax
}

// DepthError is an error indicating input nested more deeply than the parser
// allows. See MaxDepth.
type DepthError struct {
	// Col is the position of the bracket or call that exceeded the limit.
	Col int
	// Max is the nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "nesting deeper than "+strconv.Itoa(err.Max))
}

func (err *DepthError) Pos() int {
	return err.Col
}

func (err *DepthError) Is(target error) bool {
	return target == ErrSyntax
}

// DeclarationError is an error indicating a malformed user function
// declaration. If the body failed to parse, Err holds the parse error, and
// Unwrap exposes it.
type DeclarationError struct {
	// Decl is the declaration text.
	Decl string
	// Col is the position in Decl of the problem.
	Col int
	// Msg describes the problem.
	Msg string
	// Err is the underlying parse error, if any.
	Err error
}

func (err *DeclarationError) Error() string {
	msg := err.Msg
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return "declaration " + strconv.Quote(err.Decl) + ": " + msg
}

func (err *DeclarationError) Pos() int {
	return err.Col
}

func (err *DeclarationError) Is(target error) bool {
	return target == ErrSyntax
}

func (err *DeclarationError) Unwrap() error {
	return err.Err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	if pos <= 0 {
		return msg
	}
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*ArityError)(nil)
	_ InputError = (*ArgError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*DeclarationError)(nil)
	_ InputError = (*LexError)(nil)
)
