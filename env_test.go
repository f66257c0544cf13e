package formula

import (
	"reflect"
	"testing"
)

func TestEnvWith(t *testing.T) {
	vars := map[string]Value{"x": NewNumber(5, nil), "y": NewNumber(1, nil)}
	root := NewEnv(vars)
	vars["x"] = NewNumber(6, nil)
	if v, _ := root.Lookup("x"); v.(*Number).Float64() != 5 {
		t.Errorf("NewEnv shares its map: x is %v", v)
	}

	inner := root.With("x", NewNumber(1, nil)).With("i", NewNumber(2, nil))
	if v, _ := inner.Lookup("x"); v.(*Number).Float64() != 1 {
		t.Errorf("inner x should be 1, got %v", v)
	}
	if v, _ := root.Lookup("x"); v.(*Number).Float64() != 5 {
		t.Errorf("outer x should still be 5, got %v", v)
	}
	if _, ok := root.Lookup("i"); ok {
		t.Error("inner binding leaked to the outer environment")
	}
	if v, ok := inner.Lookup("y"); !ok || v.(*Number).Float64() != 1 {
		t.Errorf("inner y should come from the outer environment, got %v", v)
	}
	if _, ok := inner.Lookup("z"); ok {
		t.Error("found unbound z")
	}
}

func TestEnvNames(t *testing.T) {
	root := NewEnv(map[string]Value{"b": NewNumber(1, nil), "a": NewNumber(2, nil)})
	e := root.With("c", NewLogical(true, nil)).With("a", NewNumber(3, nil))
	if got, want := e.Names(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("want names %q, got %q", want, got)
	}
	m := e.Vars()
	if len(m) != 3 {
		t.Fatalf("want 3 vars, got %v", m)
	}
	if m["a"].(*Number).Float64() != 3 {
		t.Errorf("a should be shadowed to 3, got %v", m["a"])
	}
}

func TestEnvNil(t *testing.T) {
	var e *Env
	if _, ok := e.Lookup("x"); ok {
		t.Error("nil env has a binding")
	}
	if names := e.Names(); len(names) != 0 {
		t.Errorf("nil env has names %q", names)
	}
	e2 := e.With("x", NewNumber(2, nil))
	if v, ok := e2.Lookup("x"); !ok || v.(*Number).Float64() != 2 {
		t.Errorf("layer over nil env lost its binding: %v", v)
	}
	if got := e2.Names(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("want [x], got %q", got)
	}
}
