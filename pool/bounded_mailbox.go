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
	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
)

// OverflowPolicy decides what a full bounded mailbox does with a new
// envelope.
type OverflowPolicy int

const (
	// Block parks the sender until space frees up. This propagates
	// backpressure synchronously to local senders.
	Block OverflowPolicy = iota
	// Fail rejects the envelope with ErrMailboxFull.
	Fail
)

// BoundedMailbox is an MPSC mailbox with a fixed capacity backed by a ring
// buffer. The overflow policy picks between blocking the producer and
// failing fast.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
	policy     OverflowPolicy
}

var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a BoundedMailbox with the given capacity and
// overflow policy. Capacity must be positive.
func NewBoundedMailbox(capacity int, policy OverflowPolicy) *BoundedMailbox {
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
		policy:     policy,
	}
}

// Enqueue implements Mailbox. With the Block policy it parks until space is
// available or the mailbox is disposed; with the Fail policy a full mailbox
// rejects with ErrMailboxFull.
func (m *BoundedMailbox) Enqueue(env *envelope.Envelope) error {
	if m.policy == Block {
		if err := m.underlying.Put(env); err != nil {
			return errors.ErrActorStopped
		}
		return nil
	}

	ok, err := m.underlying.Offer(env)
	if err != nil {
		return errors.ErrActorStopped
	}
	if !ok {
		return errors.ErrMailboxFull
	}
	return nil
}

// Dequeue implements Mailbox. Single consumer only: the length check and the
// Get below are only race-free because no other goroutine consumes.
func (m *BoundedMailbox) Dequeue() *envelope.Envelope {
	if m.underlying.Len() > 0 {
		item, _ := m.underlying.Get()
		if env, ok := item.(*envelope.Envelope); ok {
			return env
		}
	}
	return nil
}

// IsEmpty implements Mailbox.
func (m *BoundedMailbox) IsEmpty() bool {
	return m.underlying.Len() == 0
}

// Len implements Mailbox.
func (m *BoundedMailbox) Len() int64 {
	return int64(m.underlying.Len())
}

// Dispose implements Mailbox. It unblocks parked producers.
func (m *BoundedMailbox) Dispose() {
	m.underlying.Dispose()
}
