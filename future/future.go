// MIT License
//
// Copyright (c) 2022-2026 ActorPool Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package future provides the pending-reply primitive behind ask. A future
// resolves exactly once with either a value or a failure; late completions
// are discarded without effect.
package future

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tochemey/actorpool/errors"
)

// Future is a value that will be available at some point, or an error if
// the value could not be produced.
type Future interface {
	// Await blocks until the future resolves or ctx expires. A context
	// whose deadline passed resolves the wait with ErrTimeout; the receiver
	// side is never aborted.
	Await(ctx context.Context) (any, error)
}

// Completable is a Future that the runtime resolves when the correlated
// reply or error envelope arrives.
type Completable struct {
	done     chan struct{}
	once     sync.Once
	resolved atomic.Bool
	value    any
	err      error
}

var _ Future = (*Completable)(nil)

// NewCompletable creates an unresolved future.
func NewCompletable() *Completable {
	return &Completable{
		done: make(chan struct{}),
	}
}

// Complete resolves the future with a value. It returns false when the
// future was already resolved; the late value is discarded.
func (f *Completable) Complete(value any) bool {
	completed := false
	f.once.Do(func() {
		f.value = value
		f.resolved.Store(true)
		close(f.done)
		completed = true
	})
	return completed
}

// Fail resolves the future with an error. It returns false when the future
// was already resolved; the late error is discarded.
func (f *Completable) Fail(err error) bool {
	completed := false
	f.once.Do(func() {
		f.err = err
		f.resolved.Store(true)
		close(f.done)
		completed = true
	})
	return completed
}

// Resolved reports whether the future has been completed or failed.
func (f *Completable) Resolved() bool {
	return f.resolved.Load()
}

// Await implements Future.
func (f *Completable) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.ErrTimeout
		}
		return nil, ctx.Err()
	}
}
