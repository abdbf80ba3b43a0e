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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Value int
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.Exists(new(testPayload)))

	r.Register(new(testPayload))
	assert.True(t, r.Exists(new(testPayload)))
	assert.True(t, r.Exists(testPayload{}))

	name := Name(new(testPayload))
	rtype, ok := r.TypeOf(name)
	require.True(t, ok)

	instance := Instance(rtype)
	payload, ok := instance.(*testPayload)
	require.True(t, ok)
	assert.Zero(t, payload.Value)

	r.Deregister(testPayload{})
	assert.False(t, r.Exists(new(testPayload)))
	_, ok = r.TypeOf(name)
	assert.False(t, ok)
}

func TestRegistryNameIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(new(testPayload))

	_, ok := r.TypeOf("TYPES.TESTPAYLOAD")
	assert.True(t, ok)
}
