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
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/log"
)

// Handler adopts an inbound channel after the handshake. The peer address
// is the client pool's identity, so replies to that pool flow back on this
// channel instead of dialing a new one.
type Handler func(ch Channel, peer address.PoolAddress)

// SocketPath returns the unix domain socket path a pool at the given
// address listens on. Pools on the same machine dial this instead of TCP.
func SocketPath(addr address.PoolAddress) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("actorpool-%d.sock", addr.Port))
}

// Server accepts inbound channels for one pool. It listens on TCP at the
// pool address and on a unix domain socket for same-machine peers.
type Server struct {
	addr       address.PoolAddress
	handler    Handler
	serializer *envelope.Serializer
	logger     log.Logger
	wrappers   map[Codec]ConnWrapper

	listeners []net.Listener
	unixPath  string
	stopped   atomic.Bool
	wg        sync.WaitGroup
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the server logger.
func WithServerLogger(logger log.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// WithServerSerializer sets the serializer inbound channels decode with. It
// must know the same payload types as the peers'.
func WithServerSerializer(serializer *envelope.Serializer) ServerOption {
	return func(s *Server) { s.serializer = serializer }
}

// WithServerWrapper accepts connections compressed with the given codec.
func WithServerWrapper(codec Codec, wrapper ConnWrapper) ServerOption {
	return func(s *Server) { s.wrappers[codec] = wrapper }
}

// NewServer creates a stopped Server for the pool at the given address.
func NewServer(addr address.PoolAddress, handler Handler, opts ...ServerOption) *Server {
	s := &Server{
		addr:       addr,
		handler:    handler,
		serializer: envelope.NewSerializer(),
		logger:     log.DefaultLogger,
		wrappers:   make(map[Codec]ConnWrapper),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the TCP and unix listeners and begins accepting channels.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig

	tcpLn, err := lc.Listen(ctx, "tcp", s.addr.HostPort())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr.HostPort(), err)
	}
	s.listeners = append(s.listeners, tcpLn)

	s.unixPath = SocketPath(s.addr)
	_ = os.Remove(s.unixPath)
	unixLn, err := lc.Listen(ctx, "unix", s.unixPath)
	if err != nil {
		// TCP still serves same-machine peers, at a copy cost
		s.logger.Warnf("failed to listen on unix socket %s: %v", s.unixPath, err)
		s.unixPath = ""
	} else {
		s.listeners = append(s.listeners, unixLn)
	}

	for _, ln := range s.listeners {
		s.wg.Add(1)
		go s.accept(ln)
	}
	s.logger.Infof("transport server listening on %s", s.addr.HostPort())
	return nil
}

// Stop closes the listeners. Channels already handed to the handler stay
// open; their owner closes them.
func (s *Server) Stop(context.Context) error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	var errs []error
	for _, ln := range s.listeners {
		if err := ln.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.unixPath != "" {
		_ = os.Remove(s.unixPath)
	}
	s.wg.Wait()
	return stderrors.Join(errs...)
}

func (s *Server) accept(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.stopped.Load() || stderrors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Errorf("accept on %s failed: %v", ln.Addr().String(), err)
			return
		}
		go s.setup(conn)
	}
}

// setup runs the server side of the handshake and hands the channel to the
// handler.
func (s *Server) setup(conn net.Conn) {
	_ = conn.SetDeadline(time.Now().Add(handshakeTimeout))

	peer, codec, version, err := readClientHello(conn)
	if err != nil {
		s.logger.Warnf("handshake from %s failed: %v", conn.RemoteAddr().String(), err)
		_ = conn.Close()
		return
	}
	if version != envelope.ProtocolVersion {
		_ = writeServerResponse(conn, statusVersionMismatch)
		_ = conn.Close()
		return
	}

	wrapper, ok := s.wrappers[codec]
	if codec != CodecNone && !ok {
		_ = writeServerResponse(conn, statusCodecUnsupported)
		_ = conn.Close()
		return
	}
	if err := writeServerResponse(conn, statusOK); err != nil {
		_ = conn.Close()
		return
	}
	_ = conn.SetDeadline(time.Time{})

	if codec != CodecNone {
		wrapped, err := wrapper.Wrap(conn)
		if err != nil {
			s.logger.Warnf("failed to apply %s codec for %s: %v", codec.String(), peer.String(), err)
			_ = conn.Close()
			return
		}
		conn = wrapped
	}

	s.logger.Debugf("inbound channel from pool %s codec=%s", peer.String(), codec.String())
	s.handler(NewSocket(conn, peer, s.serializer), peer)
}
