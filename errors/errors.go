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

// Package errors defines the runtime's error taxonomy. Call sites wrap these
// sentinels with fmt.Errorf("...: %w", ...) and callers classify failures
// with errors.Is.
package errors

import "errors"

var (
	// ErrSerialization is returned when a payload cannot be encoded or
	// decoded. The wrapping error names the offending payload type.
	ErrSerialization = errors.New("payload cannot be serialized")

	// ErrProtocolMismatch is returned when the two peers of a connection
	// disagree on the wire protocol version. The connection is failed rather
	// than partially decoded.
	ErrProtocolMismatch = errors.New("wire protocol version mismatch")

	// ErrChannelClosed is returned when a send or receive is attempted on a
	// channel whose peer is gone (process exit, connection reset). The next
	// send to the same pool triggers channel re-resolution.
	ErrChannelClosed = errors.New("channel is closed")

	// ErrPoolUnreachable resolves every outstanding ask addressed to a pool
	// whose process is no longer reachable.
	ErrPoolUnreachable = errors.New("actor pool is unreachable")

	// ErrUnknownPool is returned when a pool address is not part of the
	// deployment's address table.
	ErrUnknownPool = errors.New("unknown actor pool")

	// ErrActorNotFound is returned when the target pool reports that the
	// actor id does not exist. Detected at first use, never eagerly.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorStopped is returned when the target actor has been destroyed.
	// Envelopes still queued when an actor stops are resolved with this
	// error; they are never silently replayed.
	ErrActorStopped = errors.New("actor is stopped")

	// ErrActorAlreadyExists is returned when spawning an actor with an id
	// already registered on the pool.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrMailboxFull is the backpressure rejection of a bounded mailbox
	// configured to fail fast instead of blocking the sender.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrTimeout is returned to a caller whose ask wait expired. The
	// in-flight handler invocation on the receiver is not aborted.
	ErrTimeout = errors.New("ask timed out")

	// ErrHandlerFailure wraps a condition raised by an actor handler. It is
	// reported to the supervisor and, for an ask, returned to the caller.
	ErrHandlerFailure = errors.New("handler failure")

	// ErrTypeNotRegistered is returned at send time when a payload type (or
	// at create time when an actor kind) is not in the type registry.
	ErrTypeNotRegistered = errors.New("type is not registered")

	// ErrPoolNotStarted is returned when an operation requires a running
	// pool.
	ErrPoolNotStarted = errors.New("actor pool is not started")

	// ErrDeploymentNotStarted is returned when an operation requires a
	// running deployment.
	ErrDeploymentNotStarted = errors.New("deployment is not started")

	// ErrInvalidAddress is returned when a pool address fails validation.
	ErrInvalidAddress = errors.New("invalid pool address")

	// ErrInvalidMessage is returned when an envelope is structurally
	// invalid for the operation.
	ErrInvalidMessage = errors.New("invalid message")
)
