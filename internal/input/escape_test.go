package input

import (
	"testing"
	"time"
)

func TestCompositeEscape_DoubleTapEscapes(t *testing.T) {
	f := newFixture(t)
	f.r.HandleModeChange("insert")

	if err := f.r.CompositeEscapeFirst("j"); err != nil {
		t.Fatalf("first tap: %v", err)
	}
	if typed := f.ui.Typed(); len(typed) != 1 || typed[0] != "j" {
		t.Fatalf("typed after first tap = %v, want [j]", typed)
	}

	if err := f.r.CompositeEscapeFirst("j"); err != nil {
		t.Fatalf("second tap: %v", err)
	}
	names := f.ui.OpNames()
	deletes := 0
	for _, n := range names {
		if n == "DeleteLeft" {
			deletes++
		}
	}
	if deletes != 1 {
		t.Errorf("DeleteLeft calls = %d, want 1", deletes)
	}
	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "<Esc>" {
		t.Fatalf("inputs = %v, want [<Esc>]", got)
	}
}

func TestCompositeEscape_FirstThenSecondKey(t *testing.T) {
	f := newFixture(t)
	f.r.HandleModeChange("insert")

	f.r.CompositeEscapeFirst("j")
	if err := f.r.CompositeEscapeSecond("k"); err != nil {
		t.Fatalf("second key: %v", err)
	}

	// "j" was typed by the first tap, then deleted; only the escape
	// reaches the backend.
	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "<Esc>" {
		t.Fatalf("inputs = %v, want [<Esc>]", got)
	}
}

func TestCompositeEscape_WindowExpires(t *testing.T) {
	f := newFixture(t)
	f.r.cfg.CompositeWindow = 10 * time.Millisecond
	f.r.HandleModeChange("insert")

	f.r.CompositeEscapeFirst("j")
	time.Sleep(30 * time.Millisecond)
	f.r.CompositeEscapeSecond("k")

	typed := f.ui.Typed()
	if len(typed) != 2 || typed[0] != "j" || typed[1] != "k" {
		t.Fatalf("typed = %v, want [j k]", typed)
	}
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("inputs = %v, want none", got)
	}
}

func TestCompositeEscape_SecondKeyAloneTypes(t *testing.T) {
	f := newFixture(t)
	f.r.HandleModeChange("insert")

	f.r.CompositeEscapeSecond("k")
	typed := f.ui.Typed()
	if len(typed) != 1 || typed[0] != "k" {
		t.Fatalf("typed = %v, want [k]", typed)
	}
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("inputs = %v, want none", got)
	}
}

func TestCompositeEscape_IgnoredOutsideInsert(t *testing.T) {
	f := newFixture(t)

	f.r.CompositeEscapeFirst("j")
	f.r.CompositeEscapeFirst("j")

	if typed := f.ui.Typed(); len(typed) != 0 {
		t.Errorf("typed = %v, want none", typed)
	}
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("inputs = %v, want none", got)
	}
}
