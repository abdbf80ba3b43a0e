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
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/errors"
	"github.com/tochemey/actorpool/internal/types"
)

var (
	cborEncOpts = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnixDynamic,
	}
	cborDecOpts = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8DecodeInvalid,
		// decode small integers as int64 so numeric payloads round-trip
		// to the type they were sent with
		IntDec: cbor.IntDecConvertSigned,
	}
)

// wireEnvelope is the CBOR shape of an Envelope. Buffers are deliberately
// absent: they travel out-of-band in the transport frame.
type wireEnvelope struct {
	Sender        address.ActorRef `cbor:"sender"`
	Target        address.ActorRef `cbor:"target"`
	Kind          uint8            `cbor:"kind"`
	Op            uint8            `cbor:"op"`
	CorrelationID string           `cbor:"cid"`
	PayloadType   string           `cbor:"ptype"`
	Payload       cbor.RawMessage  `cbor:"payload,omitempty"`
	Failure       string           `cbor:"failure,omitempty"`
}

// Serializer converts envelopes to and from their CBOR wire form.
// Serialize and Deserialize are deterministic inverses for any payload made
// of primitive values, nested containers of primitives, and registered
// struct types.
//
// Struct payloads must be registered ahead of the first send: the encoding
// must be self-describing so the receiver can rebuild the concrete Go type,
// and requiring registration up front surfaces the error at send time, near
// its cause, instead of on the receiving side.
//
// A Serializer is safe for concurrent use.
type Serializer struct {
	registry types.Registry
	enc      cbor.EncMode
	dec      cbor.DecMode
}

// NewSerializer creates a Serializer with the runtime's internal control
// payload types pre-registered.
func NewSerializer() *Serializer {
	enc, _ := cborEncOpts.EncMode()
	dec, _ := cborDecOpts.DecMode()
	s := &Serializer{
		registry: types.NewRegistry(),
		enc:      enc,
		dec:      dec,
	}
	s.Register(address.ActorRef{})
	return s
}

// Register adds the runtime type of v to the serializer's type registry.
// Deserialized payloads of that type are returned as *T.
func (s *Serializer) Register(v any) {
	s.registry.Register(v)
}

// Registered reports whether the runtime type of v can be serialized.
func (s *Serializer) Registered(v any) bool {
	return s.registry.Exists(v)
}

// Serialize encodes the envelope, excluding its out-of-band buffers.
func (s *Serializer) Serialize(e *Envelope) ([]byte, error) {
	ptype, praw, err := s.encodePayload(e.Payload)
	if err != nil {
		return nil, err
	}

	wire := wireEnvelope{
		Sender:        e.Sender,
		Target:        e.Target,
		Kind:          uint8(e.Kind),
		Op:            uint8(e.Op),
		CorrelationID: e.CorrelationID,
		PayloadType:   ptype,
		Payload:       praw,
		Failure:       e.Failure,
	}

	bytea, err := s.enc.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSerialization, err)
	}
	return bytea, nil
}

// Deserialize decodes an envelope produced by Serialize. Buffers must be
// reattached by the caller from the transport frame.
func (s *Serializer) Deserialize(data []byte) (*Envelope, error) {
	wire := wireEnvelope{}
	if err := s.dec.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrSerialization, err)
	}

	payload, err := s.decodePayload(wire.PayloadType, wire.Payload)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Sender:        wire.Sender,
		Target:        wire.Target,
		Kind:          Kind(wire.Kind),
		Op:            ControlOp(wire.Op),
		CorrelationID: wire.CorrelationID,
		Payload:       payload,
		Failure:       wire.Failure,
	}, nil
}

func (s *Serializer) encodePayload(payload any) (string, cbor.RawMessage, error) {
	if payload == nil {
		return "", nil, nil
	}

	name := ""
	if isStructured(payload) {
		if !s.registry.Exists(payload) {
			return "", nil, fmt.Errorf("%w: payload type %T is not registered", errors.ErrSerialization, payload)
		}
		name = types.Name(payload)
	}

	raw, err := s.enc.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: payload type %T: %v", errors.ErrSerialization, payload, err)
	}
	return name, raw, nil
}

func (s *Serializer) decodePayload(name string, raw cbor.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	if name == "" {
		var payload any
		if err := s.dec.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrSerialization, err)
		}
		return payload, nil
	}

	rtype, ok := s.registry.TypeOf(name)
	if !ok {
		return nil, fmt.Errorf("%w: payload type %q is not registered", errors.ErrSerialization, name)
	}

	instance := types.Instance(rtype)
	if err := s.dec.Unmarshal(raw, instance); err != nil {
		return nil, fmt.Errorf("%w: payload type %q: %v", errors.ErrSerialization, name, err)
	}
	return instance, nil
}

// isStructured reports whether the payload needs a registered type name on
// the wire. Primitives, byte slices and containers of primitives are
// self-describing in CBOR; structs are not.
func isStructured(payload any) bool {
	rtype := reflect.TypeOf(payload)
	for rtype.Kind() == reflect.Ptr {
		rtype = rtype.Elem()
	}
	return rtype.Kind() == reflect.Struct
}
