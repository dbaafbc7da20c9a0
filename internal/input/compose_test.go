package input

import "testing"

func TestComposition_ForwardsOnEndOutsideInsert(t *testing.T) {
	f := newFixture(t)

	f.r.CompositionStart()
	if st := f.r.State(); st != StateComposing {
		t.Fatalf("state = %v, want %v", st, StateComposing)
	}
	f.r.TypeText("に")
	f.r.TypeText("ほ")
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Fatalf("keys forwarded mid-composition: %v", got)
	}

	if err := f.r.CompositionEnd(); err != nil {
		t.Fatalf("CompositionEnd: %v", err)
	}
	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "にほ" {
		t.Fatalf("inputs = %v, want [にほ]", got)
	}
	if st := f.r.State(); st != StateNormal {
		t.Errorf("state = %v, want %v", st, StateNormal)
	}

	// The accumulator does not survive the session.
	if err := f.r.CompositionEnd(); err != nil {
		t.Fatalf("empty CompositionEnd: %v", err)
	}
	if got := f.fake.Inputs(); len(got) != 1 {
		t.Errorf("second end re-sent text: %v", got)
	}
}

func TestComposition_HandsBackInInsert(t *testing.T) {
	f := newFixture(t)
	f.r.HandleModeChange("insert")

	f.r.CompositionStart()
	f.r.TypeText("あ")
	if err := f.r.CompositionEnd(); err != nil {
		t.Fatalf("CompositionEnd: %v", err)
	}

	typed := f.ui.Typed()
	if len(typed) != 1 || typed[0] != "あ" {
		t.Errorf("typed = %v, want [あ]", typed)
	}
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("inputs = %v, want none", got)
	}
}

func TestComposition_EscapeCancels(t *testing.T) {
	f := newFixture(t)

	f.r.CompositionStart()
	f.r.TypeText("か")
	if err := f.r.Escape(); err != nil {
		t.Fatalf("Escape: %v", err)
	}

	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "<Esc>" {
		t.Fatalf("inputs = %v, want [<Esc>]", got)
	}
	if st := f.r.State(); st != StateNormal {
		t.Errorf("state = %v, want %v", st, StateNormal)
	}
}

func TestReplacePrevChar_EditsComposition(t *testing.T) {
	f := newFixture(t)

	f.r.CompositionStart()
	f.r.TypeText("か")
	if err := f.r.ReplacePrevChar("が", 1); err != nil {
		t.Fatalf("ReplacePrevChar: %v", err)
	}
	f.r.CompositionEnd()

	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "が" {
		t.Fatalf("inputs = %v, want [が]", got)
	}
}

func TestReplacePrevChar_TrimsWholeGraphemes(t *testing.T) {
	f := newFixture(t)

	f.r.CompositionStart()
	f.r.TypeText("x")
	f.r.TypeText("🇯🇵")
	if err := f.r.ReplacePrevChar("y", 1); err != nil {
		t.Fatalf("ReplacePrevChar: %v", err)
	}
	f.r.CompositionEnd()

	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "xy" {
		t.Fatalf("inputs = %v, want [xy]", got)
	}
}

func TestReplacePrevChar_SynthesizesBackspaces(t *testing.T) {
	f := newFixture(t)

	if err := f.r.ReplacePrevChar("は", 2); err != nil {
		t.Fatalf("ReplacePrevChar: %v", err)
	}
	got := f.fake.Inputs()
	if len(got) != 1 || got[0] != "<BS><BS>は" {
		t.Fatalf("inputs = %v, want [<BS><BS>は]", got)
	}
}

func TestReplacePrevChar_HandsBackInInsert(t *testing.T) {
	f := newFixture(t)
	f.r.HandleModeChange("insert")

	if err := f.r.ReplacePrevChar("x", 1); err != nil {
		t.Fatalf("ReplacePrevChar: %v", err)
	}
	found := false
	for _, op := range f.ui.Ops() {
		if op.Name == "ReplacePrevChar" {
			found = true
		}
	}
	if !found {
		t.Error("host never received ReplacePrevChar")
	}
	if got := f.fake.Inputs(); len(got) != 0 {
		t.Errorf("inputs = %v, want none", got)
	}
}
