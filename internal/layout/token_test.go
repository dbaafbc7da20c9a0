package layout

import "testing"

func TestToken_NewRunSupersedesOld(t *testing.T) {
	var src TokenSource

	first := src.Next()
	if first.Cancelled() {
		t.Fatal("fresh token reports cancelled")
	}

	second := src.Next()
	if !first.Cancelled() {
		t.Error("older token not cancelled by newer run")
	}
	if second.Cancelled() {
		t.Error("newest token reports cancelled")
	}
}

func TestToken_InvalidateCancelsAll(t *testing.T) {
	var src TokenSource
	tok := src.Next()

	src.Invalidate()

	if !tok.Cancelled() {
		t.Error("token survives Invalidate")
	}
}
