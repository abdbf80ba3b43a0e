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
	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
)

// Event stream topics published by a Pool.
const (
	// TopicLifecycle carries ActorStarted, ActorRestarted and Terminated
	// events.
	TopicLifecycle = "actorpool.lifecycle"
	// TopicDeadletters carries Deadletter events.
	TopicDeadletters = "actorpool.deadletters"
)

// ActorStarted is published when an actor finished its PreStart hook.
type ActorStarted struct {
	Ref address.ActorRef
}

// ActorRestarted is published when the supervisor recreated an actor.
type ActorRestarted struct {
	Ref    address.ActorRef
	Reason string
}

// Terminated is published when an actor stopped for good. It is also the
// payload of the termination notices shipped to remote watchers.
type Terminated struct {
	Ref    address.ActorRef `cbor:"ref"`
	Reason string           `cbor:"reason"`
}

// Deadletter is published when an envelope could not be delivered and no
// caller is waiting to hear about it.
type Deadletter struct {
	Envelope *envelope.Envelope
	Reason   string
}
