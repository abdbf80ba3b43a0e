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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/errors"
)

type inc struct {
	By int64 `cbor:"by"`
}

func testRefs(t *testing.T) (address.ActorRef, address.ActorRef) {
	t.Helper()
	addr, err := address.New("127.0.0.1", 9000, "proc-1")
	require.NoError(t, err)
	sender := address.NewActorRef(addr, "caller", "caller-1")
	target := address.NewActorRef(addr, "counter", "counter-1")
	return sender, target
}

func TestSerializerRoundTripRegisteredStruct(t *testing.T) {
	s := NewSerializer()
	s.Register(new(inc))

	sender, target := testRefs(t)
	in := NewAsk(sender, target, "cid-1", &inc{By: 7})

	raw, err := s.Serialize(in)
	require.NoError(t, err)

	out, err := s.Deserialize(raw)
	require.NoError(t, err)

	assert.Equal(t, in.Sender, out.Sender)
	assert.Equal(t, in.Target, out.Target)
	assert.Equal(t, KindAsk, out.Kind)
	assert.Equal(t, "cid-1", out.CorrelationID)
	require.IsType(t, new(inc), out.Payload)
	assert.EqualValues(t, 7, out.Payload.(*inc).By)
}

func TestSerializerRoundTripPrimitives(t *testing.T) {
	s := NewSerializer()
	sender, target := testRefs(t)

	testCases := []any{
		int64(42),
		"hello",
		true,
		3.25,
		[]any{int64(1), "two", false},
		map[any]any{"a": int64(1), "b": "two"},
	}

	for _, payload := range testCases {
		raw, err := s.Serialize(NewTell(sender, target, payload))
		require.NoError(t, err)

		out, err := s.Deserialize(raw)
		require.NoError(t, err)
		assert.EqualValues(t, payload, out.Payload)
	}
}

func TestSerializerNilPayload(t *testing.T) {
	s := NewSerializer()
	sender, target := testRefs(t)

	raw, err := s.Serialize(NewControl(OpDestroy, sender, target, "cid-9", nil))
	require.NoError(t, err)

	out, err := s.Deserialize(raw)
	require.NoError(t, err)
	assert.Nil(t, out.Payload)
	assert.Equal(t, OpDestroy, out.Op)
}

func TestSerializerUnregisteredStructFailsAtSend(t *testing.T) {
	type unknown struct{ X int }
	s := NewSerializer()
	sender, target := testRefs(t)

	_, err := s.Serialize(NewTell(sender, target, &unknown{X: 1}))
	require.ErrorIs(t, err, errors.ErrSerialization)
	assert.Contains(t, err.Error(), "unknown")
}

func TestSerializerActorRefPayload(t *testing.T) {
	s := NewSerializer()
	sender, target := testRefs(t)

	raw, err := s.Serialize(NewReply(target, sender, "cid-2", target))
	require.NoError(t, err)

	out, err := s.Deserialize(raw)
	require.NoError(t, err)

	ref, ok := out.Payload.(*address.ActorRef)
	require.True(t, ok)
	assert.True(t, target.Equals(*ref))
}

func TestSerializerErrorEnvelope(t *testing.T) {
	s := NewSerializer()
	sender, target := testRefs(t)

	raw, err := s.Serialize(NewError(target, sender, "cid-3", "boom"))
	require.NoError(t, err)

	out, err := s.Deserialize(raw)
	require.NoError(t, err)
	assert.Equal(t, KindError, out.Kind)
	assert.Equal(t, "boom", out.Failure)
}
