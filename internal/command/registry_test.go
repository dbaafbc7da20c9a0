package command

import (
	"errors"
	"strings"
	"testing"
)

func TestRegistry_RegisterAndExecute(t *testing.T) {
	reg := NewRegistry()
	var got []any
	reg.Register("demo", func(args []any) error {
		got = args
		return nil
	})

	if err := reg.Execute("demo", "a", 2); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != 2 {
		t.Errorf("handler received %v", got)
	}
}

func TestRegistry_ExecuteUnknown(t *testing.T) {
	reg := NewRegistry()
	err := reg.Execute("missing")
	if !errors.Is(err, ErrNoHandler) {
		t.Fatalf("err = %v, want ErrNoHandler", err)
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error %q does not name the command", err)
	}
}

func TestRegistry_HandlerErrorPropagates(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("boom")
	reg.Register("demo", func([]any) error { return boom })

	if err := reg.Execute("demo"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestRegistry_ReplaceHandler(t *testing.T) {
	reg := NewRegistry()
	reg.Register("demo", func([]any) error { return errors.New("old") })
	reg.Register("demo", func([]any) error { return nil })

	if err := reg.Execute("demo"); err != nil {
		t.Errorf("Execute after replace: %v", err)
	}
	if reg.Count() != 1 {
		t.Errorf("Count = %d, want 1", reg.Count())
	}
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("demo", func([]any) error { return nil })
	reg.Unregister("demo")

	if reg.Has("demo") {
		t.Error("Has after Unregister")
	}
	if err := reg.Execute("demo"); !errors.Is(err, ErrNoHandler) {
		t.Errorf("err = %v, want ErrNoHandler", err)
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		reg.Register(name, func([]any) error { return nil })
	}

	got := reg.List()
	want := []string{"a", "b", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestRegistry_Clear(t *testing.T) {
	reg := NewRegistry()
	reg.Register("a", func([]any) error { return nil })
	reg.Register("b", func([]any) error { return nil })
	reg.Clear()

	if reg.Count() != 0 {
		t.Errorf("Count after Clear = %d", reg.Count())
	}
}
