package layout

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSignal_ResolveReleasesWaiters(t *testing.T) {
	s := NewSignal()

	if s.Resolved() {
		t.Fatal("fresh signal reports resolved")
	}
	select {
	case <-s.Done():
		t.Fatal("Done closed before Resolve")
	default:
	}

	want := errors.New("boom")
	s.Resolve(want)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed after Resolve")
	}
	if !s.Resolved() {
		t.Error("Resolved() = false after Resolve")
	}
	if got := s.Err(); got != want {
		t.Errorf("Err() = %v, want %v", got, want)
	}
}

func TestSignal_FirstResolveWins(t *testing.T) {
	s := NewSignal()
	s.Resolve(nil)
	s.Resolve(errors.New("late"))

	if got := s.Err(); got != nil {
		t.Errorf("Err() = %v, want nil", got)
	}
}

func TestSignal_WaitHonorsContext(t *testing.T) {
	s := NewSignal()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := s.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait on unresolved signal = %v, want deadline exceeded", err)
	}

	s.Resolve(nil)
	if err := s.Wait(context.Background()); err != nil {
		t.Errorf("Wait after resolve = %v, want nil", err)
	}
}

func TestResolvedSignal(t *testing.T) {
	s := ResolvedSignal(nil)
	if !s.Resolved() {
		t.Fatal("ResolvedSignal reports unresolved")
	}
	select {
	case <-s.Done():
	default:
		t.Error("ResolvedSignal Done not closed")
	}
}
