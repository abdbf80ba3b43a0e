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

package pool

import (
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/internal/queue"
)

// UnboundedMailbox is a lock-free MPSC mailbox with no capacity limit.
// Enqueue never blocks and never fails. This is the default mailbox.
type UnboundedMailbox struct {
	underlying *queue.MPSC[*envelope.Envelope]
}

var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox creates an UnboundedMailbox.
func NewUnboundedMailbox() *UnboundedMailbox {
	return &UnboundedMailbox{
		underlying: queue.New[*envelope.Envelope](),
	}
}

// Enqueue implements Mailbox. It never fails.
func (m *UnboundedMailbox) Enqueue(env *envelope.Envelope) error {
	m.underlying.Push(env)
	return nil
}

// Dequeue implements Mailbox.
func (m *UnboundedMailbox) Dequeue() *envelope.Envelope {
	env, ok := m.underlying.Pop()
	if !ok {
		return nil
	}
	return env
}

// IsEmpty implements Mailbox.
func (m *UnboundedMailbox) IsEmpty() bool {
	return m.underlying.IsEmpty()
}

// Len implements Mailbox.
func (m *UnboundedMailbox) Len() int64 {
	return m.underlying.Len()
}

// Dispose implements Mailbox. It is a no-op.
func (m *UnboundedMailbox) Dispose() {}
