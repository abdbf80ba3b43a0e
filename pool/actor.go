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

// Package pool hosts actors. A Pool owns the actors spawned on it, runs
// their handlers one message at a time over a shared worker budget, and
// applies supervision when a handler raises. Pools never talk to each other
// directly; envelope routing between pools is the Router's job.
package pool

import "context"

// Actor is a stateful message handler. The runtime guarantees that Receive
// is never invoked concurrently for the same actor; handlers read and write
// actor state without synchronization.
type Actor interface {
	// PreStart runs before the first message is processed, and again after
	// each restart. A PreStart failure aborts the spawn (or restart).
	PreStart(ctx context.Context) error
	// Receive processes one message. Replying to an ask, raising a failure
	// and messaging other actors all go through the Context.
	Receive(rctx *Context)
	// PostStop runs after the last message, when the actor is destroyed or
	// about to restart.
	PostStop(ctx context.Context) error
}

// FuncActor adapts a plain function into a stateless Actor.
type FuncActor struct {
	receive func(rctx *Context)
}

var _ Actor = (*FuncActor)(nil)

// NewFuncActor creates an Actor whose Receive is the given function.
func NewFuncActor(receive func(rctx *Context)) *FuncActor {
	return &FuncActor{receive: receive}
}

// PreStart implements Actor.
func (f *FuncActor) PreStart(context.Context) error { return nil }

// Receive implements Actor.
func (f *FuncActor) Receive(rctx *Context) { f.receive(rctx) }

// PostStop implements Actor.
func (f *FuncActor) PostStop(context.Context) error { return nil }
