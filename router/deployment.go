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

// Package router is the location-transparent plumbing between pools. A
// Deployment owns the address table, keeps one channel per peer pool, and
// correlates asks with their replies so a caller never knows whether the
// target actor was a function call or two machines away.
package router

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/travisjeffery/go-dynaport"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
	"github.com/tochemey/actorpool/eventstream"
	"github.com/tochemey/actorpool/future"
	"github.com/tochemey/actorpool/internal/syncmap"
	"github.com/tochemey/actorpool/log"
	"github.com/tochemey/actorpool/pool"
	"github.com/tochemey/actorpool/transport"
)

// DefaultAskTimeout bounds an ask when the caller sets no timeout.
const DefaultAskTimeout = 5 * time.Second

// pendingAsk is one outstanding ask: the future its caller awaits and the
// peer it was sent to, so a lost peer can fail its asks in one sweep.
type pendingAsk struct {
	future *future.Completable
	peer   string
}

// watchEntry collects the local subscribers watching one actor.
type watchEntry struct {
	ref   address.ActorRef
	chans []chan *pool.Terminated
}

// Deployment is the set of pools that know about each other. It hosts the
// local pools, dials the remote ones, and implements pool.Router so every
// envelope in the process flows through one place.
type Deployment struct {
	address    address.PoolAddress
	processID  string
	logger     log.Logger
	serializer *envelope.Serializer
	askTimeout time.Duration

	dialCodec   transport.Codec
	dialWrapper transport.ConnWrapper
	wrappers    map[transport.Codec]transport.ConnWrapper
	dialRetries int
	dialTimeout time.Duration

	pools      *syncmap.Map[string, *pool.Pool]
	servers    *syncmap.Map[string, *transport.Server]
	membership mapset.Set[string]
	channels   *syncmap.Map[string, transport.Channel]
	dialGroup  singleflight.Group
	pending    *syncmap.Sharded[*pendingAsk]

	// every live socket channel, registered in the routing table or not;
	// Stop closes them all so no readLoop outlives the deployment
	laneMu sync.Mutex
	lanes  map[transport.Channel]struct{}

	watchMu        sync.Mutex
	watchers       map[string]*watchEntry
	remoteWatchers map[string][]address.PoolAddress

	identityServer *transport.Server
	started        atomic.Bool
	wg             sync.WaitGroup
}

var (
	_ pool.Router = (*Deployment)(nil)
	_ Backend     = (*Deployment)(nil)
)

// New creates a stopped Deployment whose identity listens at host:port.
// The process id is generated; every pool spawned by this deployment
// shares it, which is how peers recognize in-process targets.
func New(host string, port int, opts ...Option) (*Deployment, error) {
	d := &Deployment{
		processID:      uuid.NewString(),
		logger:         log.DefaultLogger,
		serializer:     envelope.NewSerializer(),
		askTimeout:     DefaultAskTimeout,
		dialCodec:      transport.CodecNone,
		wrappers:       make(map[transport.Codec]transport.ConnWrapper),
		dialRetries:    5,
		dialTimeout:    10 * time.Second,
		pools:          syncmap.New[string, *pool.Pool](),
		servers:        syncmap.New[string, *transport.Server](),
		membership:     mapset.NewSet[string](),
		channels:       syncmap.New[string, transport.Channel](),
		pending:        syncmap.NewSharded[*pendingAsk](),
		lanes:          make(map[transport.Channel]struct{}),
		watchers:       make(map[string]*watchEntry),
		remoteWatchers: make(map[string][]address.PoolAddress),
	}
	for _, opt := range opts {
		opt(d)
	}

	addr, err := address.New(host, port, d.processID)
	if err != nil {
		return nil, err
	}
	d.address = addr
	d.serializer.Register(pool.Terminated{})
	return d, nil
}

// Address returns the deployment's identity address. Peers route ask
// replies and termination notices to it.
func (d *Deployment) Address() address.PoolAddress {
	return d.address
}

// Self returns the ref the deployment stamps as sender on the envelopes it
// originates.
func (d *Deployment) Self() address.ActorRef {
	return address.NewActorRef(d.address, "deployment", d.processID)
}

// RegisterType registers a struct payload type with the wire serializer.
// Every deployment exchanging this type must register it.
func (d *Deployment) RegisterType(v any) {
	d.serializer.Register(v)
}

// Start opens the identity listener and makes the deployment route.
func (d *Deployment) Start(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return nil
	}

	server := transport.NewServer(d.address, d.adopt, d.serverOptions()...)
	if err := server.Start(ctx); err != nil {
		d.started.Store(false)
		return err
	}
	d.identityServer = server
	d.logger.Infof("deployment %s started at %s", d.processID, d.address.String())
	return nil
}

// Stop tears the deployment down: local pools and their actors are
// destroyed, outstanding asks fail, channels and listeners close.
func (d *Deployment) Stop(ctx context.Context) error {
	if !d.started.CompareAndSwap(true, false) {
		return nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	d.pools.Range(func(_ string, p *pool.Pool) {
		eg.Go(func() error { return p.Stop(egCtx) })
	})
	err := eg.Wait()

	d.servers.Range(func(_ string, server *transport.Server) {
		err = multierr.Append(err, server.Stop(ctx))
	})
	if d.identityServer != nil {
		err = multierr.Append(err, d.identityServer.Stop(ctx))
	}

	d.pending.Range(func(_ string, pa *pendingAsk) {
		pa.future.Fail(errors.ErrDeploymentNotStarted)
	})
	d.pending.Reset()

	d.channels.Range(func(_ string, ch transport.Channel) {
		_ = ch.Close()
	})
	d.channels.Reset()

	d.laneMu.Lock()
	for ch := range d.lanes {
		_ = ch.Close()
	}
	d.laneMu.Unlock()
	d.pools.Reset()
	d.servers.Reset()

	d.wg.Wait()
	d.logger.Infof("deployment %s stopped", d.processID)
	return err
}

// SpawnPool implements Backend. The pool gets a fresh port on the
// deployment host, its own listeners, and this deployment as router.
func (d *Deployment) SpawnPool(ctx context.Context, opts ...pool.Option) (*pool.Pool, error) {
	if !d.started.Load() {
		return nil, errors.ErrDeploymentNotStarted
	}

	ports := dynaport.Get(1)
	addr, err := address.New(d.address.Host, ports[0], d.processID)
	if err != nil {
		return nil, err
	}

	opts = append([]pool.Option{pool.WithLogger(d.logger)}, opts...)
	p, err := pool.New(addr, opts...)
	if err != nil {
		return nil, err
	}
	p.SetRouter(d)

	server := transport.NewServer(addr, d.adopt, d.serverOptions()...)
	if err := server.Start(ctx); err != nil {
		return nil, err
	}
	if err := p.Start(ctx); err != nil {
		_ = server.Stop(ctx)
		return nil, err
	}

	key := addr.String()
	d.pools.Set(key, p)
	d.servers.Set(key, server)
	d.membership.Add(key)
	// in-process lane: same-process targets are a function call
	d.channels.Set(key, transport.NewInProc(addr, p.Deliver))

	sub := p.Events().AddSubscriber()
	p.Events().Subscribe(sub, pool.TopicLifecycle)
	d.wg.Add(1)
	go d.lifecycleLoop(sub.Messages())

	return p, nil
}

// TerminatePool implements Backend.
func (d *Deployment) TerminatePool(ctx context.Context, addr address.PoolAddress) error {
	key := addr.String()
	p, ok := d.pools.Take(key)
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrUnknownPool, key)
	}

	d.membership.Remove(key)
	if ch, found := d.channels.Take(key); found {
		_ = ch.Close()
	}

	var err error
	if server, found := d.servers.Take(key); found {
		err = server.Stop(ctx)
	}
	return multierr.Append(err, p.Stop(ctx))
}

// AddPeer adds a pool hosted by another process to the address table.
// Channels to it are opened lazily, on first send.
func (d *Deployment) AddPeer(addr address.PoolAddress) {
	d.membership.Add(addr.String())
}

// RemovePeer removes a remote pool from the address table, drops its
// channel and fails its outstanding asks with ErrPoolUnreachable.
func (d *Deployment) RemovePeer(addr address.PoolAddress) {
	key := addr.String()
	d.membership.Remove(key)
	if ch, ok := d.channels.Take(key); ok {
		_ = ch.Close()
	}
	d.failPeer(key)
}

// Route implements pool.Router. Envelopes addressed to the deployment
// itself (ask replies, termination notices) are consumed in place; local
// pool targets ride the in-process lane; everything else goes over a
// socket channel.
func (d *Deployment) Route(ctx context.Context, env *envelope.Envelope) error {
	if !d.started.Load() {
		return errors.ErrDeploymentNotStarted
	}

	target := env.Target.Address
	if target.Equals(d.address) {
		return d.consume(env)
	}

	ch, err := d.channel(ctx, target)
	if err != nil {
		return err
	}
	if err := ch.Send(ctx, env); err != nil {
		if stderrors.Is(err, errors.ErrChannelClosed) {
			d.peerLost(ch)
			return fmt.Errorf("%w: %s", errors.ErrPoolUnreachable, target.String())
		}
		return err
	}
	return nil
}

// Ask implements pool.Router. It registers a future under a fresh
// correlation id, routes the request, and awaits the correlated reply. A
// timeout resolves the wait with ErrTimeout; the reply, if it still comes,
// is discarded.
func (d *Deployment) Ask(ctx context.Context, sender, target address.ActorRef, payload any, timeout time.Duration) (any, error) {
	env := envelope.NewAsk(d.callerRef(sender), target, uuid.NewString(), payload)
	return d.await(ctx, env, timeout)
}

// Tell sends a fire-and-forget message from the deployment itself.
func (d *Deployment) Tell(ctx context.Context, target address.ActorRef, payload any) error {
	return d.Route(ctx, envelope.NewTell(d.Self(), target, payload))
}

// SpawnActor creates an actor of a registered kind on the given pool,
// local or remote, and returns its ref.
func (d *Deployment) SpawnActor(ctx context.Context, addr address.PoolAddress, kind, id string) (address.ActorRef, error) {
	if p, ok := d.pools.Get(addr.String()); ok {
		return p.SpawnKind(ctx, kind, id)
	}

	target := address.NewActorRef(addr, kind, id)
	v, err := d.askControl(ctx, envelope.OpCreate, target)
	if err != nil {
		return address.NoSender, err
	}
	switch ref := v.(type) {
	case address.ActorRef:
		return ref, nil
	case *address.ActorRef:
		return *ref, nil
	default:
		return address.NoSender, fmt.Errorf("%w: create reply carried %T", errors.ErrInvalidMessage, v)
	}
}

// DestroyActor destroys the actor, local or remote. Its queued envelopes
// are resolved with ErrActorStopped.
func (d *Deployment) DestroyActor(ctx context.Context, ref address.ActorRef) error {
	if p, ok := d.pools.Get(ref.Address.String()); ok {
		return p.Kill(ctx, ref.ID)
	}
	_, err := d.askControl(ctx, envelope.OpDestroy, ref)
	return err
}

// HasActor reports whether the actor currently exists on its pool.
func (d *Deployment) HasActor(ctx context.Context, ref address.ActorRef) (bool, error) {
	if p, ok := d.pools.Get(ref.Address.String()); ok {
		return p.Has(ref.ID), nil
	}
	v, err := d.askControl(ctx, envelope.OpHas, ref)
	if err != nil {
		return false, err
	}
	has, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: existence reply carried %T", errors.ErrInvalidMessage, v)
	}
	return has, nil
}

// Watch subscribes to the actor's termination. The returned channel gets
// exactly one notice, then closes. A pool becoming unreachable counts as
// termination of everything watched on it.
func (d *Deployment) Watch(ctx context.Context, ref address.ActorRef) (<-chan *pool.Terminated, error) {
	if p, ok := d.pools.Get(ref.Address.String()); ok {
		if !p.Has(ref.ID) {
			return nil, fmt.Errorf("%w: id %q", errors.ErrActorNotFound, ref.ID)
		}
	} else {
		if _, err := d.askControl(ctx, envelope.OpWatch, ref); err != nil {
			return nil, err
		}
	}

	notice := make(chan *pool.Terminated, 1)
	key := ref.String()
	d.watchMu.Lock()
	entry, ok := d.watchers[key]
	if !ok {
		entry = &watchEntry{ref: ref}
		d.watchers[key] = entry
	}
	entry.chans = append(entry.chans, notice)
	d.watchMu.Unlock()
	return notice, nil
}

// await registers the envelope's correlation id, routes it, and blocks for
// the reply.
func (d *Deployment) await(ctx context.Context, env *envelope.Envelope, timeout time.Duration) (any, error) {
	if !d.started.Load() {
		return nil, errors.ErrDeploymentNotStarted
	}
	if timeout <= 0 {
		timeout = d.askTimeout
	}

	fut := future.NewCompletable()
	d.pending.Set(env.CorrelationID, &pendingAsk{future: fut, peer: env.Target.Address.String()})
	defer d.pending.Delete(env.CorrelationID)

	if err := d.Route(ctx, env); err != nil {
		return nil, err
	}

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fut.Await(actx)
}

func (d *Deployment) askControl(ctx context.Context, op envelope.ControlOp, target address.ActorRef) (any, error) {
	env := envelope.NewControl(op, d.Self(), target, uuid.NewString(), nil)
	return d.await(ctx, env, 0)
}

// callerRef rewrites a sender ref onto the deployment identity so the
// peer's reply routes back here, where the pending table lives.
func (d *Deployment) callerRef(sender address.ActorRef) address.ActorRef {
	if sender.IsNoSender() {
		return d.Self()
	}
	return address.NewActorRef(d.address, sender.Kind, sender.ID)
}

// consume handles an envelope addressed to the deployment identity.
func (d *Deployment) consume(env *envelope.Envelope) error {
	switch {
	case env.Kind == envelope.KindReply:
		d.complete(env)
		return nil
	case env.Kind == envelope.KindError:
		d.failAsk(env)
		return nil
	case env.Kind == envelope.KindControl && env.Op == envelope.OpTerminated:
		if term, ok := env.Payload.(*pool.Terminated); ok {
			d.notifyWatchers(term)
		}
		return nil
	default:
		return fmt.Errorf("%w: a %s envelope cannot target the deployment", errors.ErrInvalidMessage, env.Kind.String())
	}
}

func (d *Deployment) complete(env *envelope.Envelope) {
	pa, ok := d.pending.Take(env.CorrelationID)
	if !ok {
		// the ask timed out; the late reply is dropped, never replayed
		d.logger.Debugf("discarding late reply cid=%s from %s", env.CorrelationID, env.Sender.String())
		return
	}
	pa.future.Complete(env.Payload)
}

func (d *Deployment) failAsk(env *envelope.Envelope) {
	pa, ok := d.pending.Take(env.CorrelationID)
	if !ok {
		d.logger.Debugf("discarding late error cid=%s from %s", env.CorrelationID, env.Sender.String())
		return
	}
	pa.future.Fail(errors.FromWire(env.Failure))
}

// channel returns the lane to the given pool, dialing it on first use.
// Concurrent senders to the same new peer share one dial.
func (d *Deployment) channel(ctx context.Context, addr address.PoolAddress) (transport.Channel, error) {
	key := addr.String()
	if ch, ok := d.channels.Get(key); ok {
		return ch, nil
	}

	v, err, _ := d.dialGroup.Do(key, func() (any, error) {
		if ch, ok := d.channels.Get(key); ok {
			return ch, nil
		}
		if !d.membership.Contains(key) {
			return nil, fmt.Errorf("%w: %s is not in the address table", errors.ErrUnknownPool, key)
		}

		dialOpts := []transport.DialOption{
			transport.WithDialSerializer(d.serializer),
			transport.WithDialLogger(d.logger),
			transport.WithDialRetries(d.dialRetries),
			transport.WithDialTimeout(d.dialTimeout),
		}
		if d.dialCodec != transport.CodecNone {
			dialOpts = append(dialOpts, transport.WithDialCodec(d.dialCodec, d.dialWrapper))
		}

		ch, err := transport.Dial(ctx, d.address, addr, dialOpts...)
		if err != nil {
			return nil, err
		}
		d.channels.Set(key, ch)
		d.track(ch)
		d.wg.Add(1)
		go d.readLoop(ch)
		return ch, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(transport.Channel), nil
}

// adopt registers an inbound channel under the dialing peer's identity so
// replies to that peer ride the connection it opened. A second connection
// from the same peer (one arrives per local pool server) keeps the first
// lane in the routing table and is read alongside it.
func (d *Deployment) adopt(ch transport.Channel, peer address.PoolAddress) {
	d.channels.GetOrSet(peer.String(), ch)
	d.track(ch)
	d.wg.Add(1)
	go d.readLoop(ch)
}

func (d *Deployment) track(ch transport.Channel) {
	d.laneMu.Lock()
	d.lanes[ch] = struct{}{}
	d.laneMu.Unlock()
}

func (d *Deployment) untrack(ch transport.Channel) {
	d.laneMu.Lock()
	delete(d.lanes, ch)
	d.laneMu.Unlock()
}

// readLoop drains one channel and dispatches every inbound envelope. It
// exits when the channel dies, sweeping the peer's state.
func (d *Deployment) readLoop(ch transport.Channel) {
	defer d.wg.Done()
	defer d.untrack(ch)
	for {
		env, err := ch.Recv(context.Background())
		if err != nil {
			if d.started.Load() {
				d.peerLost(ch)
			}
			return
		}
		d.handleInbound(ch, env)
	}
}

func (d *Deployment) handleInbound(ch transport.Channel, env *envelope.Envelope) {
	ctx := context.Background()
	switch {
	case env.Kind == envelope.KindReply:
		d.complete(env)
	case env.Kind == envelope.KindError:
		d.failAsk(env)
	case env.Kind == envelope.KindControl && env.Op == envelope.OpWatch:
		d.handleRemoteWatch(ctx, ch, env)
	case env.Kind == envelope.KindControl && env.Op == envelope.OpTerminated:
		if term, ok := env.Payload.(*pool.Terminated); ok {
			d.notifyWatchers(term)
		}
	default:
		p, ok := d.pools.Get(env.Target.Address.String())
		if !ok {
			d.replyError(ctx, ch, env, fmt.Errorf("%w: %s", errors.ErrUnknownPool, env.Target.Address.String()))
			return
		}
		if err := p.Deliver(ctx, env); err != nil {
			d.replyError(ctx, ch, env, err)
		}
	}
}

// handleRemoteWatch registers a peer deployment as watcher of a local
// actor.
func (d *Deployment) handleRemoteWatch(ctx context.Context, ch transport.Channel, env *envelope.Envelope) {
	p, ok := d.pools.Get(env.Target.Address.String())
	if !ok || !p.Has(env.Target.ID) {
		d.replyError(ctx, ch, env, fmt.Errorf("%w: %s", errors.ErrActorNotFound, env.Target.String()))
		return
	}

	key := env.Target.String()
	d.watchMu.Lock()
	d.remoteWatchers[key] = append(d.remoteWatchers[key], env.Sender.Address)
	d.watchMu.Unlock()

	if env.CorrelationID != "" {
		reply := envelope.NewReply(env.Target, env.Sender, env.CorrelationID, true)
		if err := ch.Send(ctx, reply); err != nil {
			d.logger.Warnf("failed to acknowledge watch of %s: %v", key, err)
		}
	}
}

// replyError turns a delivery failure into an error reply when a caller is
// waiting for one, and a log line otherwise.
func (d *Deployment) replyError(ctx context.Context, ch transport.Channel, env *envelope.Envelope, cause error) {
	if env.CorrelationID != "" {
		reply := envelope.NewError(env.Target, env.Sender, env.CorrelationID, cause.Error())
		if err := ch.Send(ctx, reply); err == nil {
			return
		}
	}
	d.logger.Warnf("dropping undeliverable %s envelope for %s: %v", env.Kind.String(), env.Target.String(), cause)
}

// lifecycleLoop fans local actor terminations out to watchers, local and
// remote. It ends when the pool's event stream closes.
func (d *Deployment) lifecycleLoop(messages <-chan *eventstream.Message) {
	defer d.wg.Done()
	for msg := range messages {
		if term, ok := msg.Payload.(*pool.Terminated); ok {
			d.notifyWatchers(term)
			d.notifyRemoteWatchers(term)
		}
	}
}

func (d *Deployment) notifyWatchers(term *pool.Terminated) {
	key := term.Ref.String()
	d.watchMu.Lock()
	entry, ok := d.watchers[key]
	delete(d.watchers, key)
	d.watchMu.Unlock()
	if !ok {
		return
	}
	for _, notice := range entry.chans {
		notice <- term
		close(notice)
	}
}

func (d *Deployment) notifyRemoteWatchers(term *pool.Terminated) {
	key := term.Ref.String()
	d.watchMu.Lock()
	peers := d.remoteWatchers[key]
	delete(d.remoteWatchers, key)
	d.watchMu.Unlock()

	for _, peer := range peers {
		target := address.NewActorRef(peer, "deployment", "deployment")
		env := envelope.NewControl(envelope.OpTerminated, d.Self(), target, "", term)
		if err := d.Route(context.Background(), env); err != nil {
			d.logger.Warnf("failed to notify %s of %s termination: %v", peer.String(), key, err)
		}
	}
}

// peerLost sweeps the state of a dead channel: its asks fail with
// ErrPoolUnreachable and everything watched on that pool is reported
// terminated. The next send to the pool re-resolves a channel. A dead
// channel that was never in the routing table carried no routing state, so
// it is only closed.
func (d *Deployment) peerLost(ch transport.Channel) {
	_ = ch.Close()
	key := ch.RemoteAddress().String()
	cur, ok := d.channels.Get(key)
	if !ok || cur != ch {
		return
	}
	d.channels.Delete(key)
	d.logger.Warnf("channel to pool %s lost", key)
	d.failPeer(key)
}

// failPeer resolves every outstanding ask to the pool and every watch of
// its actors.
func (d *Deployment) failPeer(key string) {
	d.pending.Range(func(_ string, pa *pendingAsk) {
		if pa.peer == key {
			pa.future.Fail(fmt.Errorf("%w: %s", errors.ErrPoolUnreachable, key))
		}
	})

	d.watchMu.Lock()
	var lost []*pool.Terminated
	for _, entry := range d.watchers {
		if entry.ref.Address.String() == key {
			lost = append(lost, &pool.Terminated{Ref: entry.ref, Reason: "pool unreachable"})
		}
	}
	d.watchMu.Unlock()

	for _, term := range lost {
		d.notifyWatchers(term)
	}
}

func (d *Deployment) serverOptions() []transport.ServerOption {
	opts := []transport.ServerOption{
		transport.WithServerLogger(d.logger),
		transport.WithServerSerializer(d.serializer),
	}
	for codec, wrapper := range d.wrappers {
		opts = append(opts, transport.WithServerWrapper(codec, wrapper))
	}
	return opts
}
