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

package pool

import (
	"context"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/log"
)

// Context is handed to Actor.Receive for every message. It carries the
// message and its metadata, collects the handler's response or failure, and
// lets the handler message other actors. A Context is only valid for the
// duration of the Receive call that got it.
type Context struct {
	ctx           context.Context
	self          address.ActorRef
	sender        address.ActorRef
	kind          envelope.Kind
	correlationID string
	payload       any
	buffers       [][]byte

	response        any
	responseBuffers [][]byte
	err             error

	pool *Pool
}

// Context returns the context bound to the message processing.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Self returns the ref of the actor processing the message.
func (c *Context) Self() address.ActorRef {
	return c.self
}

// Sender returns the ref of the actor (or deployment caller) that sent the
// message. It is NoSender for anonymous tells.
func (c *Context) Sender() address.ActorRef {
	return c.sender
}

// Message returns the message payload.
func (c *Context) Message() any {
	return c.payload
}

// Buffers returns the raw binary segments attached to the message. On a
// local delivery they are the very slices the sender attached; on a remote
// delivery they alias the connection read buffer and are only valid during
// the Receive call.
func (c *Context) Buffers() [][]byte {
	return c.buffers
}

// IsAsk reports whether the sender awaits a reply.
func (c *Context) IsAsk() bool {
	return c.kind == envelope.KindAsk
}

// Respond sets the reply value of an ask, with optional out-of-band
// buffers. Responding to a tell is a no-op. The last call wins.
func (c *Context) Respond(value any, buffers ...[]byte) {
	c.response = value
	c.responseBuffers = buffers
}

// Err raises a handler failure. For an ask the failure text is returned to
// the caller; either way it is reported to the supervisor.
func (c *Context) Err(err error) {
	c.err = err
}

// Tell sends a fire-and-forget message to another actor, local or remote.
func (c *Context) Tell(ctx context.Context, target address.ActorRef, payload any) error {
	return c.pool.router.Route(ctx, envelope.NewTell(c.self, target, payload))
}

// Ask sends a request to another actor and blocks until its reply, a
// failure, or the pool's ask timeout. The worker slot is released for the
// wait, so other actors on the pool keep processing; the asking actor
// itself stays busy, which means two actors asking each other wait out the
// timeout.
func (c *Context) Ask(ctx context.Context, target address.ActorRef, payload any) (any, error) {
	c.pool.releaseSlot()
	defer c.pool.acquireSlot()
	return c.pool.router.Ask(ctx, c.self, target, payload, c.pool.askTimeout)
}

// Logger returns the pool logger.
func (c *Context) Logger() log.Logger {
	return c.pool.logger
}
