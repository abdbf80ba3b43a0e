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

// Package envelope defines the wire representation of a message and its
// CBOR serializer. An Envelope is immutable once sent; raw binary buffers
// are carried by reference and travel out-of-band in the transport frame so
// large payloads are never copied through the CBOR body.
package envelope

import (
	"github.com/tochemey/actorpool/address"
)

// Kind classifies an envelope.
type Kind uint8

const (
	// KindTell is a fire-and-forget message. No reply is expected.
	KindTell Kind = iota + 1
	// KindAsk is a request-reply message. The caller awaits a correlated
	// KindReply or KindError envelope.
	KindAsk
	// KindReply carries the value an ask resolved with.
	KindReply
	// KindError carries the failure an ask resolved with.
	KindError
	// KindControl carries a runtime control operation (create, destroy,
	// existence check, watch, termination notice).
	KindControl
)

// String returns the text representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTell:
		return "tell"
	case KindAsk:
		return "ask"
	case KindReply:
		return "reply"
	case KindError:
		return "error"
	case KindControl:
		return "control"
	default:
		return "unknown"
	}
}

// ControlOp identifies the operation of a KindControl envelope.
type ControlOp uint8

const (
	// OpNone marks a non-control envelope.
	OpNone ControlOp = iota
	// OpCreate asks the target pool to create an actor of Target.Kind with
	// id Target.ID. The reply payload is the new actor's ref.
	OpCreate
	// OpDestroy asks the target pool to destroy the actor named by Target.
	OpDestroy
	// OpHas asks the target pool whether the actor named by Target exists.
	OpHas
	// OpWatch registers the sender's deployment as a watcher of the actor
	// named by Target.
	OpWatch
	// OpTerminated notifies a watcher that a watched actor stopped.
	OpTerminated
)

// String returns the text representation of the control operation.
func (op ControlOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpDestroy:
		return "destroy"
	case OpHas:
		return "has"
	case OpWatch:
		return "watch"
	case OpTerminated:
		return "terminated"
	default:
		return "none"
	}
}

// Envelope is the unit of delivery between actors. CorrelationID links an
// ask to its eventual reply or error. Buffers carry raw binary segments by
// reference; they are reattached verbatim on the receiving side.
type Envelope struct {
	Sender        address.ActorRef
	Target        address.ActorRef
	Kind          Kind
	Op            ControlOp
	CorrelationID string
	Payload       any
	Buffers       [][]byte
	Failure       string
}

// NewTell creates a fire-and-forget envelope.
func NewTell(sender, target address.ActorRef, payload any) *Envelope {
	return &Envelope{
		Sender:  sender,
		Target:  target,
		Kind:    KindTell,
		Payload: payload,
	}
}

// NewAsk creates a request envelope correlated by the given id.
func NewAsk(sender, target address.ActorRef, correlationID string, payload any) *Envelope {
	return &Envelope{
		Sender:        sender,
		Target:        target,
		Kind:          KindAsk,
		CorrelationID: correlationID,
		Payload:       payload,
	}
}

// NewReply creates the success reply to an ask.
func NewReply(sender, target address.ActorRef, correlationID string, payload any) *Envelope {
	return &Envelope{
		Sender:        sender,
		Target:        target,
		Kind:          KindReply,
		CorrelationID: correlationID,
		Payload:       payload,
	}
}

// NewError creates the failure reply to an ask.
func NewError(sender, target address.ActorRef, correlationID string, failure string) *Envelope {
	return &Envelope{
		Sender:        sender,
		Target:        target,
		Kind:          KindError,
		CorrelationID: correlationID,
		Failure:       failure,
	}
}

// NewControl creates a control envelope.
func NewControl(op ControlOp, sender, target address.ActorRef, correlationID string, payload any) *Envelope {
	return &Envelope{
		Sender:        sender,
		Target:        target,
		Kind:          KindControl,
		Op:            op,
		CorrelationID: correlationID,
		Payload:       payload,
	}
}
