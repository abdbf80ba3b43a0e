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

package syncmap

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	m := New[string, int]()

	m.Set("a", 1)
	m.Set("b", 2)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, m.Len())

	v, existed := m.GetOrSet("a", 10)
	assert.True(t, existed)
	assert.Equal(t, 1, v)

	v, existed = m.GetOrSet("c", 3)
	assert.False(t, existed)
	assert.Equal(t, 3, v)

	v, ok = m.Take("b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = m.Get("b")
	assert.False(t, ok)

	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"c"}, m.Keys())
	assert.ElementsMatch(t, []int{3}, m.Values())

	m.Reset()
	assert.Zero(t, m.Len())
}

func TestShardedConcurrent(t *testing.T) {
	m := NewSharded[int]()
	const writers = 16
	const perWriter = 200

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := range writers {
		go func() {
			defer wg.Done()
			for i := range perWriter {
				m.Set(fmt.Sprintf("key-%d-%d", w, i), i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, m.Len())

	v, ok := m.Get("key-3-42")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	v, ok = m.Take("key-3-42")
	require.True(t, ok)
	assert.Equal(t, 42, v)
	_, ok = m.Get("key-3-42")
	assert.False(t, ok)

	count := 0
	m.Range(func(string, int) { count++ })
	assert.Equal(t, writers*perWriter-1, count)

	m.Reset()
	assert.Zero(t, m.Len())
}
