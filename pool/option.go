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
	"runtime"
	"time"

	"github.com/tochemey/actorpool/log"
	"github.com/tochemey/actorpool/supervisor"
)

// DefaultAskTimeout bounds an ask wait when the caller sets no deadline.
const DefaultAskTimeout = 5 * time.Second

// DefaultWorkerCount is the default size of the pool's worker budget.
var DefaultWorkerCount = 2 * runtime.NumCPU()

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLogger sets the pool logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Pool) { p.logger = logger }
}

// WithSupervisor sets the supervisor applied to failing actors.
func WithSupervisor(s *supervisor.Supervisor) Option {
	return func(p *Pool) { p.supervisor = s }
}

// WithWorkerCount bounds how many handler invocations the pool runs
// concurrently across all its actors. A handler that asks an actor on the
// same pool holds its slot while waiting, so leave headroom for such
// call chains.
func WithWorkerCount(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.slots = make(chan struct{}, n)
		}
	}
}

// WithAskTimeout sets the default timeout of asks issued from handler
// contexts on this pool.
func WithAskTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.askTimeout = d
		}
	}
}

// WithMailboxFactory sets the mailbox built for each spawned actor. The
// default is an unbounded mailbox.
func WithMailboxFactory(factory MailboxFactory) Option {
	return func(p *Pool) {
		if factory != nil {
			p.mailboxFactory = factory
		}
	}
}

// WithRouter sets the envelope router. The deployment installs itself here
// when it adopts the pool.
func WithRouter(r Router) Option {
	return func(p *Pool) { p.router = r }
}
