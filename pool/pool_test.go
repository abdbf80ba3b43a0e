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
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tochemey/actorpool/address"
	"github.com/tochemey/actorpool/envelope"
	"github.com/tochemey/actorpool/errors"
	"github.com/tochemey/actorpool/internal/types"
	"github.com/tochemey/actorpool/log"
	"github.com/tochemey/actorpool/supervisor"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// captureRouter delivers locally and captures outbound replies the way a
// deployment would forward them to a caller.
type captureRouter struct {
	pool    *Pool
	replies chan *envelope.Envelope
}

func newCaptureRouter(p *Pool) *captureRouter {
	r := &captureRouter{pool: p, replies: make(chan *envelope.Envelope, 64)}
	p.SetRouter(r)
	return r
}

func (r *captureRouter) Route(ctx context.Context, env *envelope.Envelope) error {
	switch env.Kind {
	case envelope.KindReply, envelope.KindError:
		r.replies <- env
		return nil
	default:
		return r.pool.Deliver(ctx, env)
	}
}

func (r *captureRouter) Ask(context.Context, address.ActorRef, address.ActorRef, any, time.Duration) (any, error) {
	return nil, errors.ErrDeploymentNotStarted
}

func (r *captureRouter) await(t *testing.T) *envelope.Envelope {
	t.Helper()
	select {
	case env := <-r.replies:
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reply envelope")
		return nil
	}
}

func newTestPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	addr, err := address.New("127.0.0.1", 2280, uuid.NewString())
	require.NoError(t, err)

	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	p, err := New(addr, opts...)
	require.NoError(t, err)
	require.NoError(t, p.Start(context.TODO()))
	t.Cleanup(func() {
		require.NoError(t, p.Stop(context.TODO()))
	})
	return p
}

func callerRef(t *testing.T) address.ActorRef {
	t.Helper()
	addr, err := address.New("127.0.0.1", 2281, uuid.NewString())
	require.NoError(t, err)
	return address.NewActorRef(addr, "caller", "caller-1")
}

func TestTellProcessesInOrder(t *testing.T) {
	p := newTestPool(t)

	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	actor := NewFuncActor(func(rctx *Context) {
		mu.Lock()
		got = append(got, rctx.Message().(int))
		if len(got) == 3 {
			close(done)
		}
		mu.Unlock()
	})

	ref, err := p.Spawn(context.TODO(), "orderly", actor)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, i)))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("messages were not processed")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestOneMessageAtATime(t *testing.T) {
	p := newTestPool(t, WithWorkerCount(8))

	var active, processed atomic.Int32
	var overlapped atomic.Bool
	actor := NewFuncActor(func(*Context) {
		if active.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(50 * time.Microsecond)
		active.Add(-1)
		processed.Add(1)
	})

	ref, err := p.Spawn(context.TODO(), "exclusive", actor)
	require.NoError(t, err)

	const total = 200
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range total / 8 {
				assert.NoError(t, p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "ping")))
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return processed.Load() == total
	}, 5*time.Second, 10*time.Millisecond)
	assert.False(t, overlapped.Load(), "two handler invocations overlapped for one actor")
}

func TestAskRepliesThroughRouter(t *testing.T) {
	p := newTestPool(t)
	router := newCaptureRouter(p)

	actor := NewFuncActor(func(rctx *Context) {
		rctx.Respond(rctx.Message().(int64) * 2)
	})
	ref, err := p.Spawn(context.TODO(), "doubler", actor)
	require.NoError(t, err)

	caller := callerRef(t)
	cid := uuid.NewString()
	require.NoError(t, p.Deliver(context.TODO(), envelope.NewAsk(caller, ref, cid, int64(21))))

	reply := router.await(t)
	assert.Equal(t, envelope.KindReply, reply.Kind)
	assert.Equal(t, cid, reply.CorrelationID)
	assert.Equal(t, caller, reply.Target)
	assert.Equal(t, int64(42), reply.Payload)
}

func TestAskHandlerFailureReturnsError(t *testing.T) {
	p := newTestPool(t)
	router := newCaptureRouter(p)

	actor := NewFuncActor(func(rctx *Context) {
		rctx.Err(errors.ErrInvalidMessage)
	})
	ref, err := p.Spawn(context.TODO(), "grumpy", actor)
	require.NoError(t, err)

	cid := uuid.NewString()
	require.NoError(t, p.Deliver(context.TODO(), envelope.NewAsk(callerRef(t), ref, cid, "hi")))

	reply := router.await(t)
	assert.Equal(t, envelope.KindError, reply.Kind)
	assert.Equal(t, cid, reply.CorrelationID)
	assert.ErrorIs(t, errors.FromWire(reply.Failure), errors.ErrInvalidMessage)
}

func TestPanicIsContained(t *testing.T) {
	p := newTestPool(t)
	router := newCaptureRouter(p)

	actor := NewFuncActor(func(rctx *Context) {
		if rctx.Message() == "explode" {
			panic("kaboom")
		}
		rctx.Respond("ok")
	})
	ref, err := p.Spawn(context.TODO(), "volatile", actor)
	require.NoError(t, err)

	require.NoError(t, p.Deliver(context.TODO(), envelope.NewAsk(callerRef(t), ref, uuid.NewString(), "explode")))
	reply := router.await(t)
	assert.Equal(t, envelope.KindError, reply.Kind)
	assert.ErrorIs(t, errors.FromWire(reply.Failure), errors.ErrHandlerFailure)

	// default directive is resume: the actor keeps serving
	require.NoError(t, p.Deliver(context.TODO(), envelope.NewAsk(callerRef(t), ref, uuid.NewString(), "hello")))
	reply = router.await(t)
	assert.Equal(t, envelope.KindReply, reply.Kind)
	assert.Equal(t, "ok", reply.Payload)
}

func TestSpawnDuplicateID(t *testing.T) {
	p := newTestPool(t)

	_, err := p.Spawn(context.TODO(), "dup", NewFuncActor(func(*Context) {}))
	require.NoError(t, err)
	_, err = p.Spawn(context.TODO(), "dup", NewFuncActor(func(*Context) {}))
	assert.ErrorIs(t, err, errors.ErrActorAlreadyExists)
}

func TestDeliverToUnknownActor(t *testing.T) {
	p := newTestPool(t)
	ref := address.NewActorRef(p.Address(), "ghost", "nobody")
	err := p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "hi"))
	assert.ErrorIs(t, err, errors.ErrActorNotFound)
}

func TestKillDrainsQueuedAsksAsStopped(t *testing.T) {
	p := newTestPool(t)
	router := newCaptureRouter(p)

	started := make(chan struct{})
	actor := NewFuncActor(func(rctx *Context) {
		if rctx.Message() == "block" {
			close(started)
			time.Sleep(100 * time.Millisecond)
			return
		}
		rctx.Respond("late")
	})
	ref, err := p.Spawn(context.TODO(), "doomed", actor)
	require.NoError(t, err)

	require.NoError(t, p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "block")))
	<-started

	caller := callerRef(t)
	for range 3 {
		require.NoError(t, p.Deliver(context.TODO(), envelope.NewAsk(caller, ref, uuid.NewString(), "queued")))
	}

	require.NoError(t, p.Kill(context.TODO(), "doomed"))

	for range 3 {
		reply := router.await(t)
		require.Equal(t, envelope.KindError, reply.Kind)
		assert.ErrorIs(t, errors.FromWire(reply.Failure), errors.ErrActorStopped)
	}
	assert.False(t, p.Has("doomed"))

	err = p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "hi"))
	assert.ErrorIs(t, err, errors.ErrActorNotFound)
}

func TestBoundedMailboxBackpressureOnDeliver(t *testing.T) {
	p := newTestPool(t, WithMailboxFactory(func() Mailbox {
		return NewBoundedMailbox(1, Fail)
	}))

	started := make(chan struct{})
	release := make(chan struct{})
	actor := NewFuncActor(func(rctx *Context) {
		if rctx.Message() == "block" {
			close(started)
			<-release
		}
	})
	ref, err := p.Spawn(context.TODO(), "pressured", actor)
	require.NoError(t, err)

	require.NoError(t, p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "block")))
	<-started

	require.NoError(t, p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "queued")))
	err = p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "overflow"))
	assert.ErrorIs(t, err, errors.ErrMailboxFull)
	close(release)
}

// restartSeq is package-level so a reflection-fresh restarted instance can
// still reach it.
var restartSeq = make(chan int, 8)

type sequencer struct {
	n int
}

func (s *sequencer) PreStart(context.Context) error { return nil }
func (s *sequencer) PostStop(context.Context) error { return nil }
func (s *sequencer) Receive(rctx *Context) {
	if rctx.Message() == "boom" {
		rctx.Err(errors.ErrHandlerFailure)
		return
	}
	s.n++
	restartSeq <- s.n
}

func TestRestartResetsState(t *testing.T) {
	p := newTestPool(t, WithSupervisor(supervisor.New(
		supervisor.WithRestartPolicy(supervisor.Always),
		supervisor.WithLogger(log.DiscardLogger),
	)))

	sub := p.Events().AddSubscriber()
	p.Events().Subscribe(sub, TopicLifecycle)

	ref, err := p.Spawn(context.TODO(), "seq", &sequencer{})
	require.NoError(t, err)

	for _, msg := range []string{"inc", "inc", "boom", "inc"} {
		require.NoError(t, p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, msg)))
	}

	var got []int
	for range 3 {
		select {
		case n := <-restartSeq:
			got = append(got, n)
		case <-time.After(2 * time.Second):
			t.Fatal("sequencer made no progress")
		}
	}
	// the third value restarts at 1: the boom recreated the instance
	assert.Equal(t, []int{1, 2, 1}, got)

	restarted := false
	deadline := time.After(2 * time.Second)
	for !restarted {
		select {
		case msg := <-sub.Messages():
			if _, ok := msg.Payload.(*ActorRestarted); ok {
				restarted = true
			}
		case <-deadline:
			t.Fatal("expected an ActorRestarted event")
		}
	}
}

func TestStopDirectiveTerminatesActor(t *testing.T) {
	p := newTestPool(t, WithSupervisor(supervisor.New(
		supervisor.WithFailFast(),
		supervisor.WithLogger(log.DiscardLogger),
	)))

	actor := NewFuncActor(func(rctx *Context) {
		rctx.Err(errors.ErrHandlerFailure)
	})
	ref, err := p.Spawn(context.TODO(), "failfast", actor)
	require.NoError(t, err)

	require.NoError(t, p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "boom")))
	require.Eventually(t, func() bool {
		return !p.Has("failfast")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestControlCreateHasDestroy(t *testing.T) {
	p := newTestPool(t)
	router := newCaptureRouter(p)
	p.RegisterKind(&sequencer{})

	caller := callerRef(t)
	kind := types.Name(&sequencer{})

	// create
	target := address.NewActorRef(p.Address(), kind, "seq-1")
	cid := uuid.NewString()
	require.NoError(t, p.Deliver(context.TODO(), envelope.NewControl(envelope.OpCreate, caller, target, cid, nil)))
	reply := router.await(t)
	require.Equal(t, envelope.KindReply, reply.Kind)
	assert.Equal(t, cid, reply.CorrelationID)
	created, ok := reply.Payload.(address.ActorRef)
	require.True(t, ok)
	assert.Equal(t, "seq-1", created.ID)
	assert.True(t, p.Has("seq-1"))

	// create with an unregistered kind fails synchronously
	bogus := address.NewActorRef(p.Address(), "nosuchkind", "x")
	err := p.Deliver(context.TODO(), envelope.NewControl(envelope.OpCreate, caller, bogus, uuid.NewString(), nil))
	assert.ErrorIs(t, err, errors.ErrTypeNotRegistered)

	// has
	require.NoError(t, p.Deliver(context.TODO(), envelope.NewControl(envelope.OpHas, caller, target, uuid.NewString(), nil)))
	reply = router.await(t)
	assert.Equal(t, true, reply.Payload)

	// destroy
	require.NoError(t, p.Deliver(context.TODO(), envelope.NewControl(envelope.OpDestroy, caller, target, uuid.NewString(), nil)))
	reply = router.await(t)
	assert.Equal(t, true, reply.Payload)
	assert.False(t, p.Has("seq-1"))
}

func TestTerminatedEventOnKill(t *testing.T) {
	p := newTestPool(t)

	sub := p.Events().AddSubscriber()
	p.Events().Subscribe(sub, TopicLifecycle)

	_, err := p.Spawn(context.TODO(), "watched", NewFuncActor(func(*Context) {}))
	require.NoError(t, err)
	require.NoError(t, p.Kill(context.TODO(), "watched"))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-sub.Messages():
			if terminated, ok := msg.Payload.(*Terminated); ok {
				assert.Equal(t, "watched", terminated.Ref.ID)
				return
			}
		case <-deadline:
			t.Fatal("expected a Terminated event")
		}
	}
}

func TestDeliverOnStoppedPool(t *testing.T) {
	addr, err := address.New("127.0.0.1", 2282, uuid.NewString())
	require.NoError(t, err)
	p, err := New(addr, WithLogger(log.DiscardLogger))
	require.NoError(t, err)

	ref := address.NewActorRef(addr, "any", "a")
	err = p.Deliver(context.TODO(), envelope.NewTell(address.NoSender, ref, "hi"))
	assert.ErrorIs(t, err, errors.ErrPoolNotStarted)

	_, err = p.Spawn(context.TODO(), "a", NewFuncActor(func(*Context) {}))
	assert.ErrorIs(t, err, errors.ErrPoolNotStarted)
}

func TestConcurrentKillResolvesEachAskOnce(t *testing.T) {
	p := newTestPool(t, WithWorkerCount(4))
	router := newCaptureRouter(p)

	actor := NewFuncActor(func(rctx *Context) {
		time.Sleep(200 * time.Microsecond)
		if rctx.IsAsk() {
			rctx.Respond("ok")
		}
	})
	ref, err := p.Spawn(context.TODO(), "victim", actor)
	require.NoError(t, err)

	var mu sync.Mutex
	seen := make(map[string]int)
	stopCollect := make(chan struct{})
	var collectWG sync.WaitGroup
	collectWG.Add(1)
	go func() {
		defer collectWG.Done()
		for {
			select {
			case env := <-router.replies:
				mu.Lock()
				seen[env.CorrelationID]++
				mu.Unlock()
			case <-stopCollect:
				return
			}
		}
	}()

	caller := callerRef(t)
	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 40; j++ {
				cid := uuid.NewString()
				err := p.Deliver(context.TODO(), envelope.NewAsk(caller, ref, cid, j))
				if err != nil {
					// racing the kill: rejected sends resolve at the caller
					ok := stderrors.Is(err, errors.ErrActorStopped) ||
						stderrors.Is(err, errors.ErrActorNotFound)
					assert.True(t, ok, "unexpected delivery error: %v", err)
					continue
				}
				accepted.Add(1)
			}
		}()
	}

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, p.Kill(context.TODO(), "victim"))
	wg.Wait()

	// every accepted ask resolves exactly once, as a reply or as stopped
	want := int(accepted.Load())
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		total := 0
		for _, n := range seen {
			total += n
		}
		return total >= want
	}, 5*time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond) // catch any duplicate resolution
	close(stopCollect)
	collectWG.Wait()

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for cid, n := range seen {
		require.Equalf(t, 1, n, "correlation id %s resolved %d times", cid, n)
		total += n
	}
	require.Equal(t, want, total)
}
