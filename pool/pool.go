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
	"reflect"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
	"github.com/tochemey/actorpool/eventstream"
	"github.com/tochemey/actorpool/internal/syncmap"
	"github.com/tochemey/actorpool/internal/types"
	"github.com/tochemey/actorpool/log"
	"github.com/tochemey/actorpool/supervisor"
	"github.com/tochemey/actorpool/telemetry"
)

// Router moves envelopes between pools. The deployment implements it; a
// standalone pool falls back to a local-only loopback.
type Router interface {
	// Route delivers the envelope to the pool owning its target. Local
	// targets are a function call; remote targets go over a channel.
	Route(ctx context.Context, env *envelope.Envelope) error
	// Ask sends a request envelope and blocks until the correlated reply,
	// error, or timeout.
	Ask(ctx context.Context, sender, target address.ActorRef, payload any, timeout time.Duration) (any, error)
}

// Pool hosts actors at one PoolAddress. Handler invocations across all its
// actors share a bounded worker budget while each actor still processes one
// message at a time.
type Pool struct {
	address    address.PoolAddress
	logger     log.Logger
	supervisor *supervisor.Supervisor
	events     eventstream.Stream
	kinds      types.Registry
	registry   *syncmap.Sharded[*pid]
	metrics    *telemetry.Metrics

	router         Router
	mailboxFactory MailboxFactory
	askTimeout     time.Duration
	slots          chan struct{}

	started atomic.Bool
	ctx     atomic.Value // context.Context stored at Start
}

// New creates a stopped Pool listening at the given address.
func New(addr address.PoolAddress, opts ...Option) (*Pool, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}

	metrics, err := telemetry.New(addr.String())
	if err != nil {
		return nil, err
	}

	p := &Pool{
		address:        addr,
		logger:         log.DefaultLogger,
		events:         eventstream.New(),
		kinds:          types.NewRegistry(),
		registry:       syncmap.NewSharded[*pid](),
		metrics:        metrics,
		mailboxFactory: func() Mailbox { return NewUnboundedMailbox() },
		askTimeout:     DefaultAskTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.supervisor == nil {
		p.supervisor = supervisor.New(supervisor.WithLogger(p.logger))
	}
	if p.slots == nil {
		p.slots = make(chan struct{}, DefaultWorkerCount)
	}
	if p.router == nil {
		p.router = &loopback{pool: p}
	}
	return p, nil
}

// Address returns the pool's address.
func (p *Pool) Address() address.PoolAddress {
	return p.address
}

// Events returns the pool's event stream, carrying lifecycle events and
// dead letters.
func (p *Pool) Events() eventstream.Stream {
	return p.events
}

// Supervisor returns the pool's supervisor.
func (p *Pool) Supervisor() *supervisor.Supervisor {
	return p.supervisor
}

// SetRouter installs the deployment router. It must be called before Start.
func (p *Pool) SetRouter(r Router) {
	p.router = r
}

// Start makes the pool accept deliveries. ctx becomes the base context of
// every handler invocation.
func (p *Pool) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return nil
	}
	p.ctx.Store(ctx)
	p.logger.Infof("actor pool started at %s", p.address.String())
	return nil
}

// Stop destroys every actor on the pool and closes its event stream.
// Queued envelopes are resolved with ErrActorStopped.
func (p *Pool) Stop(ctx context.Context) error {
	if !p.started.CompareAndSwap(true, false) {
		return nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	p.registry.Range(func(_ string, cell *pid) {
		eg.Go(func() error {
			cell.shutdown(egCtx, "pool stopped")
			return nil
		})
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	p.registry.Reset()
	p.events.Close()
	p.logger.Infof("actor pool at %s stopped", p.address.String())
	return nil
}

// RegisterKind registers the actor's runtime type so peers can create
// instances of it by name.
func (p *Pool) RegisterKind(actor Actor) {
	p.kinds.Register(actor)
}

// Spawn creates an actor from the given instance under the given id. The
// returned ref stays valid across restarts of the actor.
func (p *Pool) Spawn(ctx context.Context, id string, actor Actor) (address.ActorRef, error) {
	return p.spawn(ctx, id, actor, instanceFactory(actor))
}

// SpawnKind creates an actor of a registered kind under the given id. This
// is the create-by-name path used by remote create requests.
func (p *Pool) SpawnKind(ctx context.Context, kind, id string) (address.ActorRef, error) {
	rtype, ok := p.kinds.TypeOf(kind)
	if !ok {
		return address.NoSender, fmt.Errorf("%w: actor kind %q", errors.ErrTypeNotRegistered, kind)
	}
	actor, ok := types.Instance(rtype).(Actor)
	if !ok {
		return address.NoSender, fmt.Errorf("%w: kind %q does not implement Actor", errors.ErrTypeNotRegistered, kind)
	}
	factory := func() Actor { return types.Instance(rtype).(Actor) }
	return p.spawn(ctx, id, actor, factory)
}

func (p *Pool) spawn(ctx context.Context, id string, actor Actor, factory func() Actor) (address.ActorRef, error) {
	if !p.started.Load() {
		return address.NoSender, errors.ErrPoolNotStarted
	}

	ref := address.NewActorRef(p.address, types.Name(actor), id)
	if err := ref.Validate(); err != nil {
		return address.NoSender, err
	}
	if _, exists := p.registry.Get(id); exists {
		return address.NoSender, fmt.Errorf("%w: id %q", errors.ErrActorAlreadyExists, id)
	}

	if err := actor.PreStart(ctx); err != nil {
		return address.NoSender, fmt.Errorf("actor %q pre-start: %w", id, err)
	}

	cell := newPID(ref, actor, factory, p.mailboxFactory(), p)
	if _, loaded := p.registry.GetOrSet(id, cell); loaded {
		cell.mailbox.Dispose()
		return address.NoSender, fmt.Errorf("%w: id %q", errors.ErrActorAlreadyExists, id)
	}

	p.events.Publish(TopicLifecycle, &ActorStarted{Ref: ref})
	p.logger.Infof("actor=%s started", ref.String())
	return ref, nil
}

// Kill destroys the actor with the given id after its in-flight message.
// Queued envelopes are resolved with ErrActorStopped.
func (p *Pool) Kill(ctx context.Context, id string) error {
	if !p.started.Load() {
		return errors.ErrPoolNotStarted
	}
	cell, ok := p.registry.Get(id)
	if !ok {
		return fmt.Errorf("%w: id %q", errors.ErrActorNotFound, id)
	}
	cell.shutdown(ctx, "destroyed")
	return nil
}

// Has reports whether an actor with the given id lives on the pool.
func (p *Pool) Has(id string) bool {
	_, ok := p.registry.Get(id)
	return ok
}

// Refs returns the refs of the actors currently on the pool.
func (p *Pool) Refs() []address.ActorRef {
	refs := make([]address.ActorRef, 0, p.registry.Len())
	p.registry.Range(func(_ string, cell *pid) {
		refs = append(refs, cell.ref)
	})
	return refs
}

// Deliver hands an envelope to the pool. A nil return means the envelope
// was accepted and any ask reply will be routed asynchronously; an error
// return means nothing was enqueued and the caller owns turning the error
// into an error reply or a dead letter.
func (p *Pool) Deliver(ctx context.Context, env *envelope.Envelope) error {
	if !p.started.Load() {
		return errors.ErrPoolNotStarted
	}

	switch env.Kind {
	case envelope.KindControl:
		return p.control(ctx, env)
	case envelope.KindTell, envelope.KindAsk:
		return p.enqueue(ctx, env)
	default:
		return fmt.Errorf("%w: a %s envelope cannot be delivered to a pool", errors.ErrInvalidMessage, env.Kind.String())
	}
}

// control executes create, destroy and existence checks. The target ref
// carries the subject: Target.ID the actor id, Target.Kind the actor kind
// for creates.
func (p *Pool) control(ctx context.Context, env *envelope.Envelope) error {
	switch env.Op {
	case envelope.OpCreate:
		ref, err := p.SpawnKind(ctx, env.Target.Kind, env.Target.ID)
		if err != nil {
			return err
		}
		return p.replyTo(ctx, env, ref)
	case envelope.OpDestroy:
		if err := p.Kill(ctx, env.Target.ID); err != nil {
			return err
		}
		return p.replyTo(ctx, env, true)
	case envelope.OpHas:
		return p.replyTo(ctx, env, p.Has(env.Target.ID))
	default:
		return fmt.Errorf("%w: control op %s is not a pool operation", errors.ErrInvalidMessage, env.Op.String())
	}
}

func (p *Pool) enqueue(ctx context.Context, env *envelope.Envelope) error {
	cell, ok := p.registry.Get(env.Target.ID)
	if !ok {
		return fmt.Errorf("%w: id %q", errors.ErrActorNotFound, env.Target.ID)
	}
	if cell.stopping.Load() {
		return errors.ErrActorStopped
	}

	p.metrics.MessageReceived(ctx)
	if err := cell.mailbox.Enqueue(env); err != nil {
		p.metrics.MessageProcessed(ctx)
		return err
	}
	cell.schedule()
	return nil
}

// replyTo routes the success reply of a control ask. Control tells get no
// reply.
func (p *Pool) replyTo(ctx context.Context, env *envelope.Envelope, payload any) error {
	if env.CorrelationID == "" {
		return nil
	}
	self := address.NewActorRef(p.address, "pool", "system")
	return p.router.Route(ctx, envelope.NewReply(self, env.Sender, env.CorrelationID, payload))
}

// reject resolves an undeliverable envelope: asks get an error reply, tells
// become dead letters.
func (p *Pool) reject(ctx context.Context, env *envelope.Envelope, cause error) {
	if env.Kind == envelope.KindAsk && env.CorrelationID != "" {
		reply := envelope.NewError(env.Target, env.Sender, env.CorrelationID, cause.Error())
		if err := p.router.Route(ctx, reply); err == nil {
			return
		}
	}
	p.deadletter(ctx, env, cause.Error())
}

// deadletter publishes an undeliverable envelope on the dead letter topic.
func (p *Pool) deadletter(ctx context.Context, env *envelope.Envelope, reason string) {
	p.metrics.Deadletter(ctx)
	p.events.Publish(TopicDeadletters, &Deadletter{Envelope: env, Reason: reason})
	p.logger.Warnf("deadletter target=%s kind=%s: %s", env.Target.String(), env.Kind.String(), reason)
}

func (p *Pool) unregister(id string) {
	p.registry.Delete(id)
	p.supervisor.Forget(id)
}

func (p *Pool) acquireSlot() { p.slots <- struct{}{} }
func (p *Pool) releaseSlot() { <-p.slots }

func (p *Pool) baseContext() context.Context {
	if ctx, ok := p.ctx.Load().(context.Context); ok {
		return ctx
	}
	return context.Background()
}

// instanceFactory builds the restart factory for an actor spawned from an
// instance: a fresh value of the same runtime type. FuncActor is stateless
// and carries its closure, so the instance itself is reused.
func instanceFactory(actor Actor) func() Actor {
	if _, ok := actor.(*FuncActor); ok {
		return func() Actor { return actor }
	}
	rtype := reflect.TypeOf(actor)
	for rtype.Kind() == reflect.Ptr {
		rtype = rtype.Elem()
	}
	return func() Actor {
		if fresh, ok := reflect.New(rtype).Interface().(Actor); ok {
			return fresh
		}
		return actor
	}
}

// loopback is the default router of a standalone pool: local targets only.
type loopback struct {
	pool *Pool
}

var _ Router = (*loopback)(nil)

func (l *loopback) Route(ctx context.Context, env *envelope.Envelope) error {
	if env.Target.Address.Equals(l.pool.address) {
		return l.pool.Deliver(ctx, env)
	}
	return fmt.Errorf("%w: no route to %s", errors.ErrDeploymentNotStarted, env.Target.Address.String())
}

func (l *loopback) Ask(context.Context, address.ActorRef, address.ActorRef, any, time.Duration) (any, error) {
	return nil, fmt.Errorf("%w: ask requires a deployment", errors.ErrDeploymentNotStarted)
}
