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

// Package transport moves envelopes between processes. A Channel is one
// ordered, bidirectional lane to a peer pool; the medium underneath (direct
// function call, unix domain socket, TCP) is picked from the pair of pool
// addresses and is invisible above this package.
package transport

import (
	"context"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
)

// Channel is one lane to a peer pool. Envelopes sent on a channel arrive in
// send order. Send is safe for concurrent use; Recv is single-consumer.
type Channel interface {
	// Send ships one envelope with its out-of-band buffers. A send to a
	// dead peer fails with ErrChannelClosed.
	Send(ctx context.Context, env *envelope.Envelope) error
	// Recv blocks until the next inbound envelope. It fails with
	// ErrChannelClosed once the channel is closed.
	Recv(ctx context.Context) (*envelope.Envelope, error)
	// RemoteAddress returns the peer pool's address.
	RemoteAddress() address.PoolAddress
	// Close tears the lane down. In-flight sends fail with
	// ErrChannelClosed.
	Close() error
}
