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
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
	"github.com/tochemey/actorpool/supervisor"
)

const (
	// idle means no drain goroutine is running for the actor
	idle int32 = iota
	// busy means a drain goroutine owns the actor's mailbox
	busy
)

// pid is the runtime cell of one actor: its mailbox, its current instance
// and the state machine that guarantees one-message-at-a-time processing.
type pid struct {
	ref     address.ActorRef
	actor   Actor
	factory func() Actor
	mailbox Mailbox
	pool    *Pool

	// idle/busy guard: exactly one drain goroutine at a time
	processing atomic.Int32
	stopping   atomic.Bool
	reason     atomic.Value // string

	finalizeOnce sync.Once
	// closed by finalize; external stoppers wait on it
	done chan struct{}
}

func newPID(ref address.ActorRef, actor Actor, factory func() Actor, mailbox Mailbox, pool *Pool) *pid {
	p := &pid{
		ref:     ref,
		actor:   actor,
		factory: factory,
		mailbox: mailbox,
		pool:    pool,
		done:    make(chan struct{}),
	}
	p.processing.Store(idle)
	return p
}

// schedule starts a drain goroutine when transitioning idle -> busy. If a
// drain loop is already running the new envelope is picked up by it.
func (p *pid) schedule() {
	if !p.processing.CompareAndSwap(idle, busy) {
		return
	}
	go p.drain()
}

// drain processes the mailbox until it is empty, holding one of the pool's
// worker slots for the whole run. Exclusivity comes from the idle/busy
// guard: only the goroutine that won the CAS in schedule runs here.
func (p *pid) drain() {
	p.pool.acquireSlot()
	defer p.pool.releaseSlot()

	ctx := p.pool.baseContext()
	for {
		for env := p.mailbox.Dequeue(); env != nil; env = p.mailbox.Dequeue() {
			if p.stopping.Load() {
				p.pool.reject(ctx, env, errors.ErrActorStopped)
				continue
			}
			p.invoke(ctx, env)
		}

		if p.stopping.Load() {
			p.finalize(ctx)
			p.processing.Store(idle)
			return
		}

		p.processing.Store(idle)
		// a producer may have enqueued between the last Dequeue and the
		// store above; reclaim the loop or let its schedule win the CAS
		if p.mailbox.IsEmpty() || !p.processing.CompareAndSwap(idle, busy) {
			return
		}
	}
}

// invoke runs the handler for one envelope, replies when the envelope is an
// ask, and applies the supervisor directive when the handler raised.
func (p *pid) invoke(ctx context.Context, env *envelope.Envelope) {
	rctx := &Context{
		ctx:           ctx,
		self:          p.ref,
		sender:        env.Sender,
		kind:          env.Kind,
		correlationID: env.CorrelationID,
		payload:       env.Payload,
		buffers:       env.Buffers,
		pool:          p.pool,
	}

	failure := p.receive(rctx)
	p.pool.metrics.MessageProcessed(ctx)

	if env.Kind == envelope.KindAsk && env.CorrelationID != "" {
		var reply *envelope.Envelope
		if failure != nil {
			reply = envelope.NewError(p.ref, env.Sender, env.CorrelationID, failure.Error())
		} else {
			reply = envelope.NewReply(p.ref, env.Sender, env.CorrelationID, rctx.response)
			reply.Buffers = rctx.responseBuffers
		}
		if err := p.pool.router.Route(ctx, reply); err != nil {
			p.pool.deadletter(ctx, reply, err.Error())
		}
	}

	if failure == nil {
		return
	}

	p.pool.metrics.HandlerFailure(ctx)
	p.pool.logger.Warnf("actor=%s handler raised: %v", p.ref.String(), failure)

	switch p.pool.supervisor.Decide(p.ref.ID, failure) {
	case supervisor.RestartDirective:
		p.restart(ctx, failure)
	case supervisor.StopDirective:
		p.beginStop(failure.Error())
	default:
		// resume with current state
	}
}

// receive calls the handler and turns a panic or a Context.Err into an
// error the supervisor can act on.
func (p *pid) receive(rctx *Context) (failure error) {
	defer func() {
		if r := recover(); r != nil {
			failure = fmt.Errorf("%w: %v", errors.ErrHandlerFailure, r)
		}
	}()
	p.actor.Receive(rctx)
	return rctx.err
}

// restart swaps in a fresh actor instance. The old instance gets its
// PostStop; a PreStart failure consumes restart budget until the supervisor
// gives up and stops the actor.
func (p *pid) restart(ctx context.Context, cause error) {
	if err := p.actor.PostStop(ctx); err != nil {
		p.pool.logger.Warnf("actor=%s post-stop before restart raised: %v", p.ref.String(), err)
	}

	for {
		fresh := p.factory()
		if err := fresh.PreStart(ctx); err != nil {
			p.pool.logger.Warnf("actor=%s pre-start during restart raised: %v", p.ref.String(), err)
			if p.pool.supervisor.DecideTermination(p.ref.ID) != supervisor.RestartDirective {
				p.beginStop(fmt.Sprintf("restart failed: %v", err))
				return
			}
			continue
		}

		p.actor = fresh
		p.pool.metrics.ActorRestarted(ctx)
		p.pool.events.Publish(TopicLifecycle, &ActorRestarted{Ref: p.ref, Reason: cause.Error()})
		return
	}
}

// beginStop marks the actor as stopping. The drain loop finalizes it after
// the current envelope.
func (p *pid) beginStop(reason string) {
	p.reason.Store(reason)
	p.stopping.Store(true)
}

// shutdown stops the actor from outside the drain loop (destroy, pool
// stop). The mailbox has a single-consumer contract, so shutdown never
// dequeues itself: it marks the actor stopping, keeps a drain scheduled,
// and waits for that drain to finalize.
func (p *pid) shutdown(ctx context.Context, reason string) {
	p.beginStop(reason)
	for {
		// covers the window where a running drain went idle without seeing
		// the stopping flag
		p.schedule()
		select {
		case <-p.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(500 * time.Microsecond):
		}
	}
}

// finalize runs the teardown exactly once: queued envelopes are resolved
// with ErrActorStopped, the mailbox is disposed, PostStop runs, and the
// termination is published. Concurrent callers block until the first one is
// done.
func (p *pid) finalize(ctx context.Context) {
	p.finalizeOnce.Do(func() {
		for env := p.mailbox.Dequeue(); env != nil; env = p.mailbox.Dequeue() {
			p.pool.reject(ctx, env, errors.ErrActorStopped)
		}
		p.mailbox.Dispose()

		if err := p.actor.PostStop(ctx); err != nil {
			p.pool.logger.Warnf("actor=%s post-stop raised: %v", p.ref.String(), err)
		}

		p.pool.unregister(p.ref.ID)

		reason := "stopped"
		if r, ok := p.reason.Load().(string); ok && r != "" {
			reason = r
		}
		p.pool.events.Publish(TopicLifecycle, &Terminated{Ref: p.ref, Reason: reason})
		p.pool.logger.Infof("actor=%s stopped: %s", p.ref.String(), reason)
		close(p.done)
	})
}
