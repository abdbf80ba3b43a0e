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
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
)

// The handshake runs uncompressed, before any frame, and settles three
// things: that both peers speak the same protocol version, which codec the
// connection uses, and the client pool's address so the server can route
// replies back on this very connection.
//
//	client hello:    4B magic | 1B version | 1B codec | 2B reserved | 4B addrLen | addr CBOR
//	server response: 4B magic | 1B version | 1B status | 2B reserved

const (
	handshakeMagic   = "APKT"
	handshakeTimeout = 5 * time.Second
	maxHelloAddrLen  = 4 << 10
)

const (
	statusOK byte = iota
	statusVersionMismatch
	statusCodecUnsupported
)

// ErrCodecUnsupported is returned when the server has no wrapper for the
// codec the client requested.
var ErrCodecUnsupported = stderrors.New("compression codec not supported by peer")

func writeClientHello(conn net.Conn, local address.PoolAddress, codec Codec) error {
	raw, err := cbor.Marshal(local)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrSerialization, err)
	}

	hello := make([]byte, 0, 12+len(raw))
	hello = append(hello, handshakeMagic...)
	hello = append(hello, envelope.ProtocolVersion, byte(codec), 0, 0)
	hello = binary.BigEndian.AppendUint32(hello, uint32(len(raw)))
	hello = append(hello, raw...)

	_, err = conn.Write(hello)
	return err
}

func readClientHello(conn net.Conn) (address.PoolAddress, Codec, byte, error) {
	var head [12]byte
	if _, err := io.ReadFull(conn, head[:]); err != nil {
		return address.PoolAddress{}, CodecNone, 0, err
	}
	if string(head[:4]) != handshakeMagic {
		return address.PoolAddress{}, CodecNone, 0, fmt.Errorf("%w: bad handshake magic", errors.ErrProtocolMismatch)
	}

	version := head[4]
	codec := Codec(head[5])
	addrLen := binary.BigEndian.Uint32(head[8:12])
	if addrLen == 0 || addrLen > maxHelloAddrLen {
		return address.PoolAddress{}, CodecNone, 0, fmt.Errorf("%w: hello address length %d", errors.ErrProtocolMismatch, addrLen)
	}

	raw := make([]byte, addrLen)
	if _, err := io.ReadFull(conn, raw); err != nil {
		return address.PoolAddress{}, CodecNone, 0, err
	}

	var peer address.PoolAddress
	if err := cbor.Unmarshal(raw, &peer); err != nil {
		return address.PoolAddress{}, CodecNone, 0, fmt.Errorf("%w: %v", errors.ErrSerialization, err)
	}
	return peer, codec, version, nil
}

func writeServerResponse(conn net.Conn, status byte) error {
	resp := make([]byte, 0, 8)
	resp = append(resp, handshakeMagic...)
	resp = append(resp, envelope.ProtocolVersion, status, 0, 0)
	_, err := conn.Write(resp)
	return err
}

func readServerResponse(conn net.Conn) error {
	var resp [8]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return err
	}
	if string(resp[:4]) != handshakeMagic {
		return fmt.Errorf("%w: bad handshake magic", errors.ErrProtocolMismatch)
	}

	switch resp[5] {
	case statusOK:
		if resp[4] != envelope.ProtocolVersion {
			return fmt.Errorf("%w: peer speaks version %d, want %d", errors.ErrProtocolMismatch, resp[4], envelope.ProtocolVersion)
		}
		return nil
	case statusVersionMismatch:
		return fmt.Errorf("%w: peer speaks version %d, want %d", errors.ErrProtocolMismatch, resp[4], envelope.ProtocolVersion)
	case statusCodecUnsupported:
		return ErrCodecUnsupported
	default:
		return fmt.Errorf("%w: unknown handshake status %d", errors.ErrProtocolMismatch, resp[5])
	}
}
