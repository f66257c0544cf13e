package formula

import (
	"strings"
	"unicode/utf8"
)

// SplitArgs splits a bracketed argument list such as "(1,(2,3),4)" at the
// commas that are not nested in further brackets. The result for that input
// is "1", "(2,3)", "4". An empty list such as "()" has no arguments. The
// arguments are returned exactly as written, including surrounding spaces.
//
// Every bracket kind counts the same towards nesting depth, so "[1,2)" is a
// list of two arguments.
func SplitArgs(text string) ([]string, error) {
	spans, err := splitArgs(text, 1)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, nil
	}
	args := make([]string, len(spans))
	for i, s := range spans {
		args[i] = text[s.start:s.end]
	}
	return args, nil
}

// span is a byte range of an argument in an argument list.
type span struct {
	start, end int
}

// splitArgs finds the arguments in text, which must begin with an opening
// bracket and end with the closing bracket that returns to depth zero. col is
// the column of text's first rune, for errors.
func splitArgs(text string, col int) ([]span, error) {
	if text == "" || !isOpen(text[0]) {
		return nil, &BracketError{Col: col, Right: firstRune(text)}
	}
	var spans []span
	start := 1
	depth := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case isOpen(c):
			depth++
		case isClose(c):
			depth--
			if depth > 0 {
				continue
			}
			if i != len(text)-1 {
				return nil, &BracketError{
					Col:   col + utf8.RuneCountInString(text[:i]),
					Left:  text[:1],
					Right: text[i : i+1],
				}
			}
			if len(spans) == 0 && strings.TrimSpace(text[start:i]) == "" {
				// No arguments.
				return nil, nil
			}
			return append(spans, span{start, i}), nil
		case c == ',' && depth == 1:
			spans = append(spans, span{start, i})
			start = i + 1
		}
	}
	return nil, &BracketError{Col: col, Left: text[:1]}
}

// closing finds the byte offset of the bracket that closes the opening bracket
// at src[open]. The result is -1 if there is none.
func closing(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch {
		case isOpen(src[i]):
			depth++
		case isClose(src[i]):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isOpen(c byte) bool {
	return strings.IndexByte(OpenBrackets, c) >= 0
}

func isClose(c byte) bool {
	return strings.IndexByte(CloseBrackets, c) >= 0
}

func firstRune(s string) string {
	_, sz := utf8.DecodeRuneInString(s)
	return s[:sz]
}
