package formula

import (
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	// pos is the rune column of the token, counting from 1 at the start of
	// the outermost formula text.
	pos int
	// off is the byte offset of the token in the lexer's source.
	off int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF marks the end of the formula.
	tokenEOF
	// tokenNum is an integer or real token.
	tokenNum
	// tokenIdent names a variable, constant, or function.
	tokenIdent
	// tokenOp is an operator rune, or a pair such as <= or !=.
	tokenOp
	// tokenOpen is any of ( [ {.
	tokenOpen
	// tokenClose is any of ) ] }.
	tokenClose
	// tokenSep is a function arguments separator.
	tokenSep
)

var tokenNames = [...]string{
	tokenNone:  "None",
	tokenEOF:   "EOF",
	tokenNum:   "Num",
	tokenIdent: "Ident",
	tokenOp:    "Op",
	tokenOpen:  "Open",
	tokenClose: "Close",
	tokenSep:   "Sep",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// Operators lists the runes that start an operator token.
const Operators = "+-*/^×÷<>=!&|"

// OpenBrackets and CloseBrackets list the grouping runes. Any closer matches
// any opener.
// Every kind of bracket counts the same towards nesting depth, so any closing
// bracket closes any opening bracket.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// digraphs are the two-rune operators.
var digraphs = map[string]bool{
	"<=": true,
	">=": true,
	"==": true,
	"!=": true,
	"<>": true,
	"&&": true,
	"||": true,
}

type lexer struct {
	src string
	off int
	// col is the rune column of the next rune to read.
	col int
	// last is the byte size of the last rune read, for unreading.
	last int
	buf  strings.Builder
	p    lexToken
	eof  bool
}

// lex creates a lexer over src. col is the column of the first rune of src
// within the outermost formula text.
func lex(src string, col int) *lexer {
	return &lexer{
		src: src,
		col: col,
	}
}

// push puts tok back so that next returns it again. Only one token can be
// held at a time.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("formula: double push")
	}
	l.p = tok
}

// must takes back the pushed token, which must exist.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("formula: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// seek moves the lexer to the byte offset off, which is at column col. Any
// pushed token is discarded.
func (l *lexer) seek(off, col int) {
	l.off = off
	l.col = col
	l.last = 0
	l.p = lexToken{}
}

// readRune takes the next rune of the formula and advances the column.
func (l *lexer) readRune() (rune, error) {
	if l.off >= len(l.src) {
		l.last = 0
		return 0, io.EOF
	}
	r, sz := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += sz
	l.last = sz
	l.col++
	return r, nil
}

// unreadRune unreads the last rune read. Panics if there is none.
func (l *lexer) unreadRune() {
	if l.last == 0 {
		panic("formula: unread without read")
	}
	l.off -= l.last
	l.last = 0
	l.col--
}

// next scans the next token from the input. The first time the end of input
// is encountered, the result is an EOF token with a nil error. Subsequent
// times, if the EOF token is not pushed, the result is an empty token with
// io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		tok := lexToken{pos: l.col, off: l.off}
		r, err := l.readRune()
		if err != nil {
			tok.kind = tokenEOF
			l.eof = true
			return tok, nil
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			return tok, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			l.scanIdent()
			tok.text = l.buf.String()
			// inf and Inf lex as numbers although they look like names.
			switch tok.text {
			case "inf", "Inf":
				tok.kind = tokenNum
			default:
				tok.kind = tokenIdent
			}
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case r == '∞':
			tok.text = "∞"
			tok.kind = tokenNum
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.text = string(r)
			tok.kind = tokenOp
			if s, err := l.readRune(); err == nil {
				if digraphs[tok.text+string(s)] {
					tok.text += string(s)
				} else {
					l.unreadRune()
				}
			}
			return tok, nil
		case strings.ContainsRune(OpenBrackets, r):
			tok.text = string(r)
			tok.kind = tokenOpen
			return tok, nil
		case strings.ContainsRune(CloseBrackets, r):
			tok.text = string(r)
			tok.kind = tokenClose
			return tok, nil
		default:
			// Keep the bad rune for the error text.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

func (l *lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			break
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			break
		}
		if r == '+' || r == '-' {
			// A sign ends the number unless it directly follows e or E.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if strings.ContainsRune(Operators+OpenBrackets+CloseBrackets+",", r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error("number")
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number")
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number")
		}
	}
	if !dig || (e && !ed) {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() {
	for {
		r, err := l.readRune()
		if err != nil {
			// next unreads the rune that decides ident scanning before
			// calling scanIdent, so we have scanned at least one rune.
			return
		}
		if !isIdentRune(r) {
			l.unreadRune()
			return
		}
		l.buf.WriteRune(r)
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isIdent reports whether s lexes as exactly one identifier token.
func isIdent(s string) bool {
	if s == "" || s == "inf" || s == "Inf" {
		return false
	}
	for i, r := range s {
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.col - 1,
	}
}

// LexError reports text that is not a token. It is an InputError and a
// syntax error.
type LexError struct {
	// Text holds the partial token up to and including the bad rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number"
	// or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the position of the invalid rune.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Is(target error) bool {
	return target == ErrSyntax
}
