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

package transport

import (
	"context"
	"sync"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
)

// Sink is the receiving end of an in-process channel, typically a pool's
// Deliver method.
type Sink func(ctx context.Context, env *envelope.Envelope) error

// InProc is the channel between two pools hosted by the same process: no
// serialization, no socket, a synchronous function call. Backpressure from
// the target (a blocking bounded mailbox, ErrMailboxFull) surfaces directly
// in Send.
type InProc struct {
	remote address.PoolAddress
	sink   Sink

	once   sync.Once
	closed chan struct{}
}

var _ Channel = (*InProc)(nil)

// NewInProc creates an in-process channel delivering into sink.
func NewInProc(remote address.PoolAddress, sink Sink) *InProc {
	return &InProc{
		remote: remote,
		sink:   sink,
		closed: make(chan struct{}),
	}
}

// Send implements Channel. Delivery is synchronous; buffers are passed by
// reference and never copied.
func (c *InProc) Send(ctx context.Context, env *envelope.Envelope) error {
	select {
	case <-c.closed:
		return errors.ErrChannelClosed
	default:
	}
	return c.sink(ctx, env)
}

// Recv implements Channel. An in-process channel has no inbound direction
// of its own: replies flow back through the peer pool's router. Recv only
// reports the channel closing.
func (c *InProc) Recv(ctx context.Context) (*envelope.Envelope, error) {
	select {
	case <-c.closed:
		return nil, errors.ErrChannelClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RemoteAddress implements Channel.
func (c *InProc) RemoteAddress() address.PoolAddress {
	return c.remote
}

// Close implements Channel.
func (c *InProc) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}
