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

package queue

import (
	"sync/atomic"
)

// node is a single link of the queue.
type node[T any] struct {
	next atomic.Pointer[node[T]]
	data T
}

// MPSC is a Multi-Producer-Single-Consumer FIFO queue.
//
// Any number of goroutines may call Push concurrently, but exactly one
// goroutine may call Pop. The queue is unbounded and lock-free: producers
// append by swapping the tail pointer and linking through the previous node.
// Reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type MPSC[T any] struct {
	head   atomic.Pointer[node[T]] // consumer side
	_      [64]byte                // keep producers and consumer on separate cache lines
	tail   atomic.Pointer[node[T]] // producers side
	_      [64]byte
	length atomic.Int64
}

// New creates an empty MPSC queue. The queue starts with a dummy node so
// that producers never contend with the consumer on an empty queue.
func New[T any]() *MPSC[T] {
	dummy := new(node[T])
	q := new(MPSC[T])
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Push appends value to the queue. Safe for concurrent producers and never
// blocks.
func (q *MPSC[T]) Push(value T) {
	n := &node[T]{data: value}
	prev := q.tail.Swap(n)
	prev.next.Store(n)
	q.length.Add(1)
}

// Pop removes and returns the value at the head of the queue. The second
// return value is false when the queue is empty. Must be called from a
// single consumer goroutine.
func (q *MPSC[T]) Pop() (T, bool) {
	var zero T
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		return zero, false
	}

	q.head.Store(next)
	value := next.data
	next.data = zero
	q.length.Add(-1)
	return value, true
}

// Len returns a snapshot of the number of queued items.
func (q *MPSC[T]) Len() int64 {
	return q.length.Load()
}

// IsEmpty reports whether the queue has no items. Between a producer's tail
// swap and its link store the queue can briefly report empty; no items are
// ever lost.
func (q *MPSC[T]) IsEmpty() bool {
	return q.head.Load().next.Load() == nil
}
