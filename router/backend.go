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

package router

import (
	"context"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/pool"
)

// Backend creates and tears down pools. The Deployment is the in-process
// implementation; alternative backends can place pools in sub-processes or
// on other machines and register them as peers.
type Backend interface {
	// SpawnPool creates a started pool on a fresh port of this machine and
	// wires it into the deployment.
	SpawnPool(ctx context.Context, opts ...pool.Option) (*pool.Pool, error)
	// TerminatePool destroys a local pool and every actor on it.
	TerminatePool(ctx context.Context, addr address.PoolAddress) error
}
