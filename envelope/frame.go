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

package envelope

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tochemey/actorpool/errors"
	"github.com/tochemey/actorpool/internal/bufferpool"
)

// ProtocolVersion is the wire protocol version stamped on every frame. Both
// peers must agree on it; a mismatch fails the connection rather than
// attempting a partial decode.
const ProtocolVersion byte = 1

// maxFrameSize bounds a single frame to protect the reader from a corrupt
// or hostile length prefix.
const maxFrameSize = 512 << 20 // 512 MiB

// Frame layout (all integers are big-endian uint32):
//
//	┌──────────┬─────────┬──────────┬────────────┬─────────────────────────┐
//	│ totalLen │ version │ envLen   │ env bytes  │ buffer segments…        │
//	│ 4 bytes  │ 1 byte  │ 4 bytes  │ N bytes    │ each: 4-byte len + raw  │
//	└──────────┴─────────┴──────────┴────────────┴─────────────────────────┘
//
//	totalLen = 1 + 4 + N + Σ(4 + len(buffer))   (everything after itself)
//
// Buffer segments are the envelope's out-of-band binary payloads. They are
// written straight from the caller's slices and sliced straight out of the
// read buffer, so a large binary payload crosses the stack without ever
// being copied through the CBOR encoder.

// WriteFrame writes one frame carrying the serialized envelope and its raw
// buffer segments. The caller must serialize writes to w.
func WriteFrame(w io.Writer, env []byte, buffers [][]byte) error {
	total := 1 + 4 + len(env)
	for _, b := range buffers {
		total += 4 + len(b)
	}
	if total > maxFrameSize {
		return fmt.Errorf("%w: frame of %d bytes exceeds limit", errors.ErrSerialization, total)
	}

	head := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(head)

	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(total))
	head.Write(hdr[:])
	head.WriteByte(ProtocolVersion)
	binary.BigEndian.PutUint32(hdr[:], uint32(len(env)))
	head.Write(hdr[:])
	head.Write(env)

	if _, err := w.Write(head.Bytes()); err != nil {
		return err
	}

	for _, b := range buffers {
		binary.BigEndian.PutUint32(hdr[:], uint32(len(b)))
		if _, err := w.Write(hdr[:]); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// ReadFrame reads one frame from r and returns the serialized envelope and
// its buffer segments. The returned slices alias one internal read buffer.
// A frame with an unexpected protocol version fails with ErrProtocolMismatch.
func ReadFrame(r io.Reader) ([]byte, [][]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, nil, err
	}

	total := binary.BigEndian.Uint32(hdr[:])
	if total < 5 || total > maxFrameSize {
		return nil, nil, fmt.Errorf("%w: frame length %d", errors.ErrSerialization, total)
	}

	body := make([]byte, total)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, nil, err
	}

	if body[0] != ProtocolVersion {
		return nil, nil, fmt.Errorf("%w: got version %d, want %d", errors.ErrProtocolMismatch, body[0], ProtocolVersion)
	}

	// length fields are peer-controlled 32-bit values: every bound below is
	// checked in uint64 so a length near MaxUint32 cannot wrap past it
	envLen := binary.BigEndian.Uint32(body[1:5])
	offset := 5
	if uint64(envLen) > uint64(len(body)-offset) {
		return nil, nil, fmt.Errorf("%w: envelope length %d overruns frame", errors.ErrSerialization, envLen)
	}
	env := body[offset : offset+int(envLen)]
	offset += int(envLen)

	var buffers [][]byte
	for offset < len(body) {
		if len(body)-offset < 4 {
			return nil, nil, fmt.Errorf("%w: truncated buffer segment header", errors.ErrSerialization)
		}
		segLen := binary.BigEndian.Uint32(body[offset : offset+4])
		offset += 4
		if uint64(segLen) > uint64(len(body)-offset) {
			return nil, nil, fmt.Errorf("%w: buffer segment of %d bytes overruns frame", errors.ErrSerialization, segLen)
		}
		buffers = append(buffers, body[offset:offset+int(segLen)])
		offset += int(segLen)
	}
	return env, buffers, nil
}
