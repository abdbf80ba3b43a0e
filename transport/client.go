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
	"net"
	"os"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
	"github.com/tochemey/actorpool/log"
)

type dialConfig struct {
	codec      Codec
	wrapper    ConnWrapper
	serializer *envelope.Serializer
	logger     log.Logger
	timeout    time.Duration
	maxRetries int
}

// DialOption configures Dial.
type DialOption func(*dialConfig)

// WithDialCodec compresses the channel with the given codec. The peer must
// accept it.
func WithDialCodec(codec Codec, wrapper ConnWrapper) DialOption {
	return func(c *dialConfig) {
		c.codec = codec
		c.wrapper = wrapper
	}
}

// WithDialSerializer sets the serializer the channel encodes with.
func WithDialSerializer(serializer *envelope.Serializer) DialOption {
	return func(c *dialConfig) { c.serializer = serializer }
}

// WithDialLogger sets the dial logger.
func WithDialLogger(logger log.Logger) DialOption {
	return func(c *dialConfig) { c.logger = logger }
}

// WithDialTimeout bounds the whole dial, retries included.
func WithDialTimeout(d time.Duration) DialOption {
	return func(c *dialConfig) { c.timeout = d }
}

// WithDialRetries sets how many times a refused connection is retried.
func WithDialRetries(n int) DialOption {
	return func(c *dialConfig) { c.maxRetries = n }
}

// Dial opens a channel from the local pool to the remote one. Pools on the
// same machine are reached over the unix domain socket when one is
// listening; everything else goes over TCP. Connection failures are retried
// with backoff; a protocol or codec disagreement fails immediately.
func Dial(ctx context.Context, local, remote address.PoolAddress, opts ...DialOption) (Channel, error) {
	cfg := dialConfig{
		codec:      CodecNone,
		serializer: envelope.NewSerializer(),
		logger:     log.DefaultLogger,
		timeout:    10 * time.Second,
		maxRetries: 5,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	network, target := route(local, remote)

	var ch Channel
	retrier := retry.NewRetrier(cfg.maxRetries, 100*time.Millisecond, cfg.timeout)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, network, target)
		if err != nil {
			return err
		}

		if err := clientHandshake(conn, local, cfg.codec); err != nil {
			_ = conn.Close()
			if stderrors.Is(err, errors.ErrProtocolMismatch) || stderrors.Is(err, ErrCodecUnsupported) {
				return retry.Stop(err)
			}
			return err
		}

		if cfg.codec != CodecNone {
			wrapped, err := cfg.wrapper.Wrap(conn)
			if err != nil {
				_ = conn.Close()
				return retry.Stop(err)
			}
			conn = wrapped
		}

		ch = NewSocket(conn, remote, cfg.serializer)
		return nil
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrProtocolMismatch) || stderrors.Is(err, ErrCodecUnsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: dialing %s://%s: %v", errors.ErrPoolUnreachable, network, target, err)
	}

	cfg.logger.Debugf("channel to pool %s open over %s codec=%s", remote.String(), network, cfg.codec.String())
	return ch, nil
}

// route picks the medium for a remote pool: the unix socket when the peer
// is on this machine and listening on one, TCP otherwise.
func route(local, remote address.PoolAddress) (network, target string) {
	if local.SameHost(remote) {
		path := SocketPath(remote)
		if _, err := os.Stat(path); err == nil {
			return "unix", path
		}
	}
	return "tcp", remote.HostPort()
}

func clientHandshake(conn net.Conn, local address.PoolAddress, codec Codec) error {
	_ = conn.SetDeadline(time.Now().Add(handshakeTimeout))
	defer func() { _ = conn.SetDeadline(time.Time{}) }()

	if err := writeClientHello(conn, local, codec); err != nil {
		return err
	}
	return readServerResponse(conn)
}
