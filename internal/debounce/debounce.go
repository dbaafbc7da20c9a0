package debounce

import (
	"sync"
	"time"
)

// Debouncer groups rapid successive calls into a single call after a
// quiet period.
//
// Thread-safety: all methods are safe for concurrent use. The callback is
// guaranteed to not be called concurrently with itself from the debouncer.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	seq      uint64 // sequence number to detect stale timer callbacks
	callback func()
}

// New creates a debouncer that invokes callback after no new calls have
// been made for at least delay.
func New(delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		delay:    delay,
		callback: callback,
	}
}

// Call schedules the callback to run after the debounce delay.
//
// If called multiple times within the delay period, only the last call's
// timing is used: the callback fires once after the final quiet period.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	d.seq++
	currentSeq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending && d.seq == currentSeq && d.callback != nil {
			d.pending = false
			d.mu.Unlock()
			d.callback()
		} else {
			d.mu.Unlock()
		}
	})
}

// CallImmediate runs the callback right away if a call is pending,
// canceling the scheduled debounced call.
func (d *Debouncer) CallImmediate() {
	d.mu.Lock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++

	if d.pending && d.callback != nil {
		d.pending = false
		d.mu.Unlock()
		d.callback()
	} else {
		d.mu.Unlock()
	}
}

// Cancel cancels any pending debounced call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// IsPending reports whether a debounced call is scheduled.
func (d *Debouncer) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// SetDelay changes the quiet period for subsequent calls. A call already
// scheduled keeps its original timing.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Delay returns the current quiet period.
func (d *Debouncer) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}

// Latest groups rapid successive calls carrying a value into a single
// trailing call that receives the most recent value.
//
// Thread-safety: all methods are safe for concurrent use. The callback is
// guaranteed to not be called concurrently with itself from the debouncer.
type Latest[T any] struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	pending  bool
	latest   T
	seq      uint64 // sequence number to detect stale timer callbacks
	callback func(T)
}

// NewLatest creates a latest-value debouncer with the specified delay.
func NewLatest[T any](delay time.Duration, callback func(T)) *Latest[T] {
	return &Latest[T]{
		delay:    delay,
		callback: callback,
	}
}

// Call records v as the most recent value and schedules the callback to
// run with it after the debounce delay. Values from superseded calls are
// discarded.
func (l *Latest[T]) Call(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = true
	l.latest = v
	l.seq++
	currentSeq := l.seq

	if l.timer != nil {
		l.timer.Stop()
	}

	l.timer = time.AfterFunc(l.delay, func() {
		l.mu.Lock()
		if l.pending && l.seq == currentSeq && l.callback != nil {
			l.pending = false
			arg := l.latest
			l.mu.Unlock()
			l.callback(arg)
		} else {
			l.mu.Unlock()
		}
	})
}

// CallImmediate runs the callback right away with the most recent value
// if a call is pending, canceling the scheduled debounced call.
func (l *Latest[T]) CallImmediate() {
	l.mu.Lock()

	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.seq++

	if l.pending && l.callback != nil {
		l.pending = false
		arg := l.latest
		l.mu.Unlock()
		l.callback(arg)
	} else {
		l.mu.Unlock()
	}
}

// Cancel cancels any pending debounced call and drops the stored value.
func (l *Latest[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.seq++
	l.pending = false
	var zero T
	l.latest = zero
}

// IsPending reports whether a debounced call is scheduled.
func (l *Latest[T]) IsPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// SetDelay changes the quiet period for subsequent calls. A call already
// scheduled keeps its original timing.
func (l *Latest[T]) SetDelay(delay time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.delay = delay
}

// Delay returns the current quiet period.
func (l *Latest[T]) Delay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.delay
}
