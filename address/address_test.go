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

package address

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorpool/errors"
)

func TestPoolAddress(t *testing.T) {
	addr, err := New("127.0.0.1", 9000, "proc-1")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", addr.HostPort())
	assert.Equal(t, "127.0.0.1:9000", addr.String())
	assert.False(t, addr.IsZero())

	other, err := New("127.0.0.1", 9001, "proc-1")
	require.NoError(t, err)
	assert.False(t, addr.Equals(other))
	assert.True(t, addr.SameProcess(other))
	assert.True(t, addr.SameHost(other))

	remote, err := New("10.0.0.8", 9000, "proc-2")
	require.NoError(t, err)
	assert.False(t, addr.SameProcess(remote))
	assert.False(t, addr.SameHost(remote))
}

func TestPoolAddressWildcardHostIsResolved(t *testing.T) {
	addr, err := New("0.0.0.0", 9000, "proc-1")
	require.NoError(t, err)
	assert.NotEqual(t, "0.0.0.0", addr.Host)
	assert.NotEmpty(t, addr.Host)
}

func TestPoolAddressValidate(t *testing.T) {
	bad := PoolAddress{Host: "", Port: 9000}
	assert.ErrorIs(t, bad.Validate(), errors.ErrInvalidAddress)

	bad = PoolAddress{Host: "127.0.0.1", Port: -1}
	assert.ErrorIs(t, bad.Validate(), errors.ErrInvalidAddress)
}

func TestActorRef(t *testing.T) {
	addr, err := New("127.0.0.1", 9000, "proc-1")
	require.NoError(t, err)

	ref := NewActorRef(addr, "counter", "counter-1")
	require.NoError(t, ref.Validate())
	assert.Equal(t, "127.0.0.1:9000/counter-1", ref.String())
	assert.False(t, ref.IsNoSender())
	assert.True(t, NoSender.IsNoSender())

	missing := NewActorRef(addr, "counter", "")
	assert.ErrorIs(t, missing.Validate(), errors.ErrInvalidAddress)
}

func TestActorRefRoundTrip(t *testing.T) {
	addr, err := New("127.0.0.1", 9000, "proc-1")
	require.NoError(t, err)
	ref := NewActorRef(addr, "counter", "counter-1")

	raw, err := cbor.Marshal(ref)
	require.NoError(t, err)

	var decoded ActorRef
	require.NoError(t, cbor.Unmarshal(raw, &decoded))
	assert.True(t, ref.Equals(decoded))
}
