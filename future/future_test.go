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

package future

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorpool/errors"
)

func TestCompletableResolvesWithValue(t *testing.T) {
	f := NewCompletable()
	assert.False(t, f.Resolved())

	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Complete(41)
	}()

	value, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 41, value)
	assert.True(t, f.Resolved())
}

func TestCompletableResolvesWithError(t *testing.T) {
	f := NewCompletable()
	f.Fail(errors.ErrActorStopped)

	value, err := f.Await(context.Background())
	assert.Nil(t, value)
	assert.ErrorIs(t, err, errors.ErrActorStopped)
}

func TestCompletableResolvesExactlyOnce(t *testing.T) {
	f := NewCompletable()
	assert.True(t, f.Complete(1))
	assert.False(t, f.Complete(2))
	assert.False(t, f.Fail(errors.ErrTimeout))

	value, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestAwaitTimeout(t *testing.T) {
	f := NewCompletable()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	started := time.Now()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, errors.ErrTimeout)
	assert.WithinDuration(t, started.Add(20*time.Millisecond), time.Now(), 200*time.Millisecond)

	// a late completion after the timeout is discarded without effect
	assert.True(t, f.Complete("late"))
	value, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", value)
}

func TestAwaitCancellation(t *testing.T) {
	f := NewCompletable()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
