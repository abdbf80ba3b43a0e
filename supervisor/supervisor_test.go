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

package supervisor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tochemey/actorpool/log"
)

var errBoom = errors.New("boom")

func TestDefaultPolicyResumes(t *testing.T) {
	s := New(WithLogger(log.DiscardLogger))
	assert.Equal(t, NoRestart, s.Policy())
	assert.Equal(t, ResumeDirective, s.Decide("a", errBoom))
}

func TestFailFastStops(t *testing.T) {
	s := New(WithFailFast(), WithRestartPolicy(Always), WithLogger(log.DiscardLogger))
	assert.Equal(t, StopDirective, s.Decide("a", errBoom))
}

func TestRestartPolicies(t *testing.T) {
	for _, policy := range []RestartPolicy{Always, OnFailureOnly} {
		s := New(WithRestartPolicy(policy), WithLogger(log.DiscardLogger))
		assert.Equal(t, RestartDirective, s.Decide("a", errBoom), policy.String())
	}
}

func TestRestartBudgetExhaustion(t *testing.T) {
	s := New(
		WithRestartPolicy(OnFailureOnly),
		WithRetry(2, time.Minute),
		WithLogger(log.DiscardLogger),
	)

	assert.Equal(t, RestartDirective, s.Decide("a", errBoom))
	assert.Equal(t, RestartDirective, s.Decide("a", errBoom))
	assert.Equal(t, StopDirective, s.Decide("a", errBoom))

	// a different actor has its own budget
	assert.Equal(t, RestartDirective, s.Decide("b", errBoom))

	// forgetting the actor resets the accounting
	s.Forget("a")
	assert.Equal(t, RestartDirective, s.Decide("a", errBoom))
}

func TestRestartWindowSlides(t *testing.T) {
	s := New(
		WithRestartPolicy(Always),
		WithRetry(1, 10*time.Millisecond),
		WithLogger(log.DiscardLogger),
	)

	assert.Equal(t, RestartDirective, s.Decide("a", errBoom))
	assert.Equal(t, StopDirective, s.Decide("a", errBoom))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, RestartDirective, s.Decide("a", errBoom))
}

func TestDecideTermination(t *testing.T) {
	always := New(WithRestartPolicy(Always), WithLogger(log.DiscardLogger))
	assert.Equal(t, RestartDirective, always.DecideTermination("a"))

	onFailure := New(WithRestartPolicy(OnFailureOnly), WithLogger(log.DiscardLogger))
	assert.Equal(t, StopDirective, onFailure.DecideTermination("a"))
}
