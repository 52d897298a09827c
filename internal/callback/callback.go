// Package callback wraps zero-argument closures behind a single-method interface so
// that callables with different captured state can sit side by side in one queue.
//
// A Handle is owned by exactly one holder. The holder invokes it as often as it
// needs and then releases it exactly once; the Allocator that produced it keeps
// count so that leaks and double releases show up instead of going unnoticed.
package callback

import (
	"errors"
	"sync"
)

var (
	ErrReleased       = errors.New("callback: handle already released")
	ErrNilCallback    = errors.New("callback: nil function")
	ErrBudgetExceeded = errors.New("callback: live handle budget exceeded")
)

// Callback can be invoked with no arguments and returns nothing.
type Callback interface {
	Call()
}

// Func adapts an ordinary func() to Callback.
type Func func()

func (f Func) Call() { f() }

// Allocator hands out Handles and tracks how many are still alive.
// Limit bounds the number of live handles; zero means unbounded.
type Allocator struct {
	Limit int

	mu        sync.Mutex
	allocated int
	releases  int
}

// Default backs the package level Wrap and Bind helpers.
var Default = &Allocator{}

// Wrap stores fn behind a new Handle owned by the caller.
func (a *Allocator) Wrap(fn func()) (*Handle, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Limit > 0 && a.allocated-a.releases >= a.Limit {
		return nil, ErrBudgetExceeded
	}
	a.allocated++
	return &Handle{fn: Func(fn), alloc: a}, nil
}

func (a *Allocator) release() {
	a.mu.Lock()
	a.releases++
	a.mu.Unlock()
}

// Live is the number of handles allocated and not yet released.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocated - a.releases
}

func (a *Allocator) Allocated() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocated
}

func (a *Allocator) Releases() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.releases
}

// Wrap wraps fn using the Default allocator. It panics on a nil fn or when
// Default.Limit is exhausted; use Allocator.Wrap to handle those as errors.
func Wrap(fn func()) *Handle {
	h, err := Default.Wrap(fn)
	if err != nil {
		panic(err)
	}
	return h
}

// Bind captures arg by value and wraps fn(arg) using the Default allocator.
func Bind[T any](fn func(T), arg T) *Handle {
	if fn == nil {
		panic(ErrNilCallback)
	}
	return Wrap(func() { fn(arg) })
}
