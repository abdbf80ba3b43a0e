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
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
)

// Socket is a Channel over a stream connection, unix domain or TCP. Writes
// are serialized by a mutex; reads are single-consumer by contract.
type Socket struct {
	conn       net.Conn
	remote     address.PoolAddress
	serializer *envelope.Serializer

	writeMu sync.Mutex
	closed  atomic.Bool
}

var _ Channel = (*Socket)(nil)

// NewSocket creates a Socket channel over an already-handshaken connection.
func NewSocket(conn net.Conn, remote address.PoolAddress, serializer *envelope.Serializer) *Socket {
	return &Socket{
		conn:       conn,
		remote:     remote,
		serializer: serializer,
	}
}

// Send implements Channel. Buffer segments are written straight from the
// envelope's slices without an intermediate copy.
func (s *Socket) Send(ctx context.Context, env *envelope.Envelope) error {
	if s.closed.Load() {
		return errors.ErrChannelClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.serializer.Serialize(env)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	err = envelope.WriteFrame(s.conn, data, env.Buffers)
	s.writeMu.Unlock()
	if err != nil {
		return s.fail(err)
	}
	return nil
}

// Recv implements Channel. The returned envelope's buffers alias one read
// buffer; they stay valid until the caller is done with the envelope.
func (s *Socket) Recv(ctx context.Context) (*envelope.Envelope, error) {
	if s.closed.Load() {
		return nil, errors.ErrChannelClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, buffers, err := envelope.ReadFrame(s.conn)
	if err != nil {
		return nil, s.fail(err)
	}

	env, err := s.serializer.Deserialize(raw)
	if err != nil {
		return nil, err
	}
	env.Buffers = buffers
	return env, nil
}

// RemoteAddress implements Channel.
func (s *Socket) RemoteAddress() address.PoolAddress {
	return s.remote
}

// Close implements Channel.
func (s *Socket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}

// fail classifies a transport error: codec errors pass through, anything
// that smells like a dead peer poisons the channel with ErrChannelClosed.
func (s *Socket) fail(err error) error {
	if stderrors.Is(err, errors.ErrProtocolMismatch) || stderrors.Is(err, errors.ErrSerialization) {
		return err
	}
	s.closed.Store(true)
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, net.ErrClosed) {
		return errors.ErrChannelClosed
	}
	return fmt.Errorf("%w: %v", errors.ErrChannelClosed, err)
}
