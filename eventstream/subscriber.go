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

package eventstream

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind starts losing the oldest messages.
const subscriberBuffer = 256

// Subscriber consumes messages published on the topics it subscribed to.
//
// The unexported methods intentionally prevent external implementations;
// subscribers are created by a Stream via AddSubscriber.
type Subscriber interface {
	// ID returns the unique subscriber id.
	ID() string
	// Active reports whether the subscriber can still receive messages.
	Active() bool
	// Topics returns the topics the subscriber is subscribed to.
	Topics() []string
	// Messages returns the channel the subscriber receives on. The channel
	// is closed when the subscriber shuts down.
	Messages() <-chan *Message
	// Shutdown deactivates the subscriber and closes its channel.
	Shutdown()

	signal(message *Message)
	subscribe(topic string)
	unsubscribe(topic string)
}

type subscriber struct {
	id string

	topicsMu sync.Mutex
	topics   map[string]bool

	// lifecycle guards signal against a concurrent Shutdown closing the
	// channel mid-send
	lifecycle sync.RWMutex
	messages  chan *Message
	active    atomic.Bool
	stop      sync.Once
}

var _ Subscriber = (*subscriber)(nil)

func newSubscriber() *subscriber {
	s := &subscriber{
		id:       uuid.NewString(),
		topics:   make(map[string]bool),
		messages: make(chan *Message, subscriberBuffer),
	}
	s.active.Store(true)
	return s
}

func (s *subscriber) ID() string {
	return s.id
}

func (s *subscriber) Active() bool {
	return s.active.Load()
}

func (s *subscriber) Topics() []string {
	s.topicsMu.Lock()
	defer s.topicsMu.Unlock()

	topics := make([]string, 0, len(s.topics))
	for topic := range s.topics {
		topics = append(topics, topic)
	}
	return topics
}

func (s *subscriber) Messages() <-chan *Message {
	return s.messages
}

func (s *subscriber) Shutdown() {
	s.stop.Do(func() {
		s.lifecycle.Lock()
		s.active.Store(false)
		close(s.messages)
		s.lifecycle.Unlock()
	})
}

// signal delivers a message without ever blocking the publisher. When the
// buffer is full the oldest message is dropped to make room.
func (s *subscriber) signal(message *Message) {
	s.lifecycle.RLock()
	defer s.lifecycle.RUnlock()
	if !s.active.Load() {
		return
	}
	select {
	case s.messages <- message:
	default:
		select {
		case <-s.messages:
		default:
		}
		select {
		case s.messages <- message:
		default:
		}
	}
}

func (s *subscriber) subscribe(topic string) {
	s.topicsMu.Lock()
	s.topics[topic] = true
	s.topicsMu.Unlock()
}

func (s *subscriber) unsubscribe(topic string) {
	s.topicsMu.Lock()
	delete(s.topics, topic)
	s.topicsMu.Unlock()
}
