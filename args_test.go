package formula

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		name string
		text string
		args []string
	}{
		{"nested", "(1,(2,3),4)", []string{"1", "(2,3)", "4"}},
		{"empty", "()", nil},
		{"blank", "(  )", nil},
		{"one", "(x)", []string{"x"}},
		{"spaces", "( a , b )", []string{" a ", " b "}},
		{"kinds", "[1,{2,3})", []string{"1", "{2,3}"}},
		{"mismatched", "(1,[2,3),4]", []string{"1", "[2,3)", "4"}},
		{"deep", "(f(g(x,y),z),w)", []string{"f(g(x,y),z)", "w"}},
		{"empty-arg", "(1,,2)", []string{"1", "", "2"}},
		{"trailing", "(1,)", []string{"1", ""}},
		{"unicode", "(π,∞×2)", []string{"π", "∞×2"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			args, err := SplitArgs(c.text)
			if err != nil {
				t.Fatalf("%q: %v", c.text, err)
			}
			if !reflect.DeepEqual(args, c.args) {
				t.Errorf("%q: want %q, got %q", c.text, c.args, args)
			}
		})
	}
}

func TestSplitArgsErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		pos  int
	}{
		{"nothing", "", 1},
		{"no-open", "1,2)", 1},
		{"unclosed", "(1,2", 1},
		{"unclosed-inner", "(1,(2)", 1},
		{"after-close", "(1)2", 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			args, err := SplitArgs(c.text)
			if err == nil {
				t.Fatalf("%q split as %q", c.text, args)
			}
			var be *BracketError
			if !errors.As(err, &be) {
				t.Fatalf("%q: want *BracketError, got %v", c.text, err)
			}
			if be.Pos() != c.pos {
				t.Errorf("%q: want error at %d, got %d", c.text, c.pos, be.Pos())
			}
		})
	}
}

func TestClosing(t *testing.T) {
	cases := []struct {
		src  string
		open int
		want int
	}{
		{"()", 0, 1},
		{"f(x)+1", 1, 3},
		{"f(g(x),[y})", 1, 10},
		{"f(g(x)", 1, -1},
		{"(a)(b)", 3, 5},
	}
	for _, c := range cases {
		if got := closing(c.src, c.open); got != c.want {
			t.Errorf("closing(%q, %d): want %d, got %d", c.src, c.open, c.want, got)
		}
	}
}
