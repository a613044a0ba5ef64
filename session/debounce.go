package session

import (
	"sync"
	"time"
)

// DefaultDelay is the debounce delay used by sessions.
const DefaultDelay = 300 * time.Millisecond

// Timer is a pending function call that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d. time.AfterFunc is the default.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type debounceConfig struct {
	afterFunc AfterFunc
}

// DebounceOption configures a Debouncer.
type DebounceOption func(*debounceConfig)

// WithAfterFunc replaces the timer factory.
func WithAfterFunc(fn AfterFunc) DebounceOption {
	return func(c *debounceConfig) {
		if fn != nil {
			c.afterFunc = fn
		}
	}
}

// Debouncer delays a changing value until it has been stable for a delay.
// At most one timer is pending per Debouncer. emit runs on the timer's
// goroutine without any Debouncer lock held.
type Debouncer[T comparable] struct {
	mu        sync.Mutex
	delay     time.Duration
	emit      func(T)
	afterFunc AfterFunc
	timer     Timer
	gen       uint64
	input     T
	value     T
}

// NewDebouncer creates a debouncer whose current value is initial.
func NewDebouncer[T comparable](initial T, delay time.Duration, emit func(T), opts ...DebounceOption) *Debouncer[T] {
	cfg := debounceConfig{afterFunc: realAfterFunc}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Debouncer[T]{
		delay:     delay,
		emit:      emit,
		afterFunc: cfg.afterFunc,
		input:     initial,
		value:     initial,
	}
}

// Set records a new input value and restarts the delay.
// Setting the value already pending is a no-op.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if v == d.input {
		return
	}
	d.input = v
	d.stopLocked()
	gen := d.gen
	d.timer = d.afterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	changed := d.value != d.input
	d.value = d.input
	v := d.value
	d.mu.Unlock()

	if changed && d.emit != nil {
		d.emit(v)
	}
}

// Value returns the last emitted value.
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

// Pending reports whether an emission is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending emission. The input falls back to the last
// emitted value.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.input = d.value
}

// Reset cancels any pending emission and sets both input and value to v
// without emitting.
func (d *Debouncer[T]) Reset(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.input = v
	d.value = v
}

func (d *Debouncer[T]) stopLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
