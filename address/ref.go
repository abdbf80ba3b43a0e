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
	"fmt"

	"github.com/tochemey/actorpool/errors"
)

// ActorRef is the location-independent, serializable name of an actor:
// the address of the pool that owns it plus the actor's id and kind tag.
// Many refs may point at one actor; none owns its lifetime. A ref stays
// valid across an actor restart on the same pool.
type ActorRef struct {
	Address PoolAddress `cbor:"address"`
	ID      string      `cbor:"id"`
	Kind    string      `cbor:"kind"`
}

// NoSender is the zero ActorRef used on envelopes that carry no sender.
var NoSender = ActorRef{}

// NewActorRef creates an ActorRef for the given pool address, kind tag and
// actor id.
func NewActorRef(addr PoolAddress, kind, id string) ActorRef {
	return ActorRef{
		Address: addr,
		Kind:    kind,
		ID:      id,
	}
}

// Validate reports whether the ref is well formed.
func (r ActorRef) Validate() error {
	if err := r.Address.Validate(); err != nil {
		return err
	}
	if r.ID == "" {
		return fmt.Errorf("%w: actor id is not set", errors.ErrInvalidAddress)
	}
	return nil
}

// Equals compares two refs by value.
func (r ActorRef) Equals(other ActorRef) bool {
	return r == other
}

// IsNoSender reports whether the ref is the NoSender sentinel.
func (r ActorRef) IsNoSender() bool {
	return r == NoSender
}

// String implements fmt.Stringer.
func (r ActorRef) String() string {
	return fmt.Sprintf("%s/%s", r.Address.String(), r.ID)
}
