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

import "github.com/tochemey/actorpool/envelope"

// Mailbox is the per-actor FIFO queue of pending envelopes. Implementations
// must be safe for multiple producers and a single consumer.
type Mailbox interface {
	// Enqueue inserts an envelope. A bounded mailbox may block or reject
	// with ErrMailboxFull depending on its overflow policy.
	Enqueue(env *envelope.Envelope) error
	// Dequeue removes and returns the next envelope, or nil when the
	// mailbox is empty. Single consumer only.
	Dequeue() *envelope.Envelope
	// IsEmpty reports whether the mailbox currently has no envelopes.
	IsEmpty() bool
	// Len returns a snapshot of the number of queued envelopes.
	Len() int64
	// Dispose releases the mailbox resources and unblocks any waiting
	// producers. The mailbox must not be used afterwards.
	Dispose()
}

// MailboxFactory builds one mailbox per spawned actor.
type MailboxFactory func() Mailbox
