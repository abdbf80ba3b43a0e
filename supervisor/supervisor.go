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

// Package supervisor decides what happens to an actor after its handler
// raises: keep it running, stop it, or recreate it with fresh state.
package supervisor

import (
	"sync"
	"time"

	"github.com/tochemey/actorpool/log"
)

// RestartPolicy configures whether a crashed actor is recreated.
type RestartPolicy int

const (
	// NoRestart keeps the failing actor running with its current state
	// (isolate-and-continue). The failure is still reported.
	NoRestart RestartPolicy = iota
	// Always recreates the actor after any abnormal stop, handler failure
	// or not.
	Always
	// OnFailureOnly recreates the actor only when the stop was caused by a
	// handler failure.
	OnFailureOnly
)

// String returns the text representation of the policy.
func (p RestartPolicy) String() string {
	switch p {
	case NoRestart:
		return "none"
	case Always:
		return "always"
	case OnFailureOnly:
		return "onFailureOnly"
	default:
		return ""
	}
}

// Directive is the action taken on a failing actor.
type Directive int

const (
	// ResumeDirective keeps the actor running without a state reset.
	ResumeDirective Directive = iota
	// StopDirective stops the actor. Its queued envelopes are drained as
	// failures.
	StopDirective
	// RestartDirective recreates the actor with the same id and fresh
	// state. Its ref stays valid across the restart.
	RestartDirective
)

// String returns the text representation of the directive.
func (d Directive) String() string {
	switch d {
	case ResumeDirective:
		return "Resume"
	case StopDirective:
		return "Stop"
	case RestartDirective:
		return "Restart"
	default:
		return ""
	}
}

const (
	// DefaultMaxRestarts is the restart budget within the restart window.
	DefaultMaxRestarts uint32 = 5
	// DefaultRestartWindow is the sliding window the restart budget
	// applies to.
	DefaultRestartWindow = 30 * time.Second
)

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithRestartPolicy sets the restart policy.
func WithRestartPolicy(policy RestartPolicy) Option {
	return func(s *Supervisor) { s.policy = policy }
}

// WithFailFast stops a failing actor regardless of the restart policy.
func WithFailFast() Option {
	return func(s *Supervisor) { s.failFast = true }
}

// WithRetry bounds how many restarts an actor gets within the given window
// before the supervisor gives up and stops it.
func WithRetry(maxRestarts uint32, window time.Duration) Option {
	return func(s *Supervisor) {
		s.maxRestarts = maxRestarts
		s.window = window
	}
}

// WithLogger sets the supervisor logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Supervisor) { s.logger = logger }
}

// Supervisor tracks actor failures on one pool and turns them into
// directives. It is safe for concurrent use.
type Supervisor struct {
	policy      RestartPolicy
	failFast    bool
	maxRestarts uint32
	window      time.Duration
	logger      log.Logger

	mu       sync.Mutex
	restarts map[string]*restartState
}

type restartState struct {
	count uint32
	since time.Time
}

// New creates a Supervisor. The default policy is NoRestart with a budget
// of DefaultMaxRestarts per DefaultRestartWindow.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		policy:      NoRestart,
		maxRestarts: DefaultMaxRestarts,
		window:      DefaultRestartWindow,
		logger:      log.DefaultLogger,
		restarts:    make(map[string]*restartState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured restart policy.
func (s *Supervisor) Policy() RestartPolicy {
	return s.policy
}

// Decide returns the directive for an actor whose handler raised. The
// failure is already reported to the caller (for an ask) before the
// directive is applied.
func (s *Supervisor) Decide(actorID string, failure error) Directive {
	if s.failFast {
		s.logger.Warnf("actor=%s failed, stopping per fail-fast: %v", actorID, failure)
		return StopDirective
	}

	switch s.policy {
	case Always, OnFailureOnly:
		if s.consumeRestart(actorID) {
			return RestartDirective
		}
		s.logger.Warnf("actor=%s exhausted its restart budget, stopping", actorID)
		return StopDirective
	default:
		return ResumeDirective
	}
}

// DecideTermination returns the directive for an actor that stopped
// abnormally for a non-handler reason, e.g. its PreStart hook failed while
// restarting.
func (s *Supervisor) DecideTermination(actorID string) Directive {
	if s.failFast || s.policy != Always {
		return StopDirective
	}
	if s.consumeRestart(actorID) {
		return RestartDirective
	}
	return StopDirective
}

// Forget clears the restart accounting of a destroyed actor.
func (s *Supervisor) Forget(actorID string) {
	s.mu.Lock()
	delete(s.restarts, actorID)
	s.mu.Unlock()
}

// consumeRestart takes one restart from the actor's budget. It returns
// false when the budget within the sliding window is exhausted.
func (s *Supervisor) consumeRestart(actorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	state, ok := s.restarts[actorID]
	if !ok || now.Sub(state.since) > s.window {
		s.restarts[actorID] = &restartState{count: 1, since: now}
		return true
	}
	if state.count >= s.maxRestarts {
		return false
	}
	state.count++
	return true
}
