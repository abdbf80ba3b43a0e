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

// Package telemetry exposes the runtime's OpenTelemetry metric instruments.
// Instruments are no-ops unless the host application installs a global
// MeterProvider.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tochemey/actorpool"

// Metrics bundles the per-pool instruments.
type Metrics struct {
	attrs       metric.MeasurementOption
	received    metric.Int64Counter
	processed   metric.Int64Counter
	failures    metric.Int64Counter
	restarts    metric.Int64Counter
	deadletters metric.Int64Counter
	mailboxSize metric.Int64UpDownCounter
}

// New creates the instruments for the pool at the given address.
func New(poolAddress string) (*Metrics, error) {
	meter := otel.GetMeterProvider().Meter(instrumentationName)

	received, err := meter.Int64Counter(
		"actorpool.messages.received",
		metric.WithDescription("Envelopes enqueued to actor mailboxes"),
	)
	if err != nil {
		return nil, err
	}

	processed, err := meter.Int64Counter(
		"actorpool.messages.processed",
		metric.WithDescription("Handler invocations completed"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"actorpool.handler.failures",
		metric.WithDescription("Handler invocations that raised"),
	)
	if err != nil {
		return nil, err
	}

	restarts, err := meter.Int64Counter(
		"actorpool.actor.restarts",
		metric.WithDescription("Actors recreated by the supervisor"),
	)
	if err != nil {
		return nil, err
	}

	deadletters, err := meter.Int64Counter(
		"actorpool.deadletters",
		metric.WithDescription("Envelopes that could not be delivered"),
	)
	if err != nil {
		return nil, err
	}

	mailboxSize, err := meter.Int64UpDownCounter(
		"actorpool.mailbox.size",
		metric.WithDescription("Envelopes waiting in mailboxes"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		attrs:       metric.WithAttributes(attribute.String("pool", poolAddress)),
		received:    received,
		processed:   processed,
		failures:    failures,
		restarts:    restarts,
		deadletters: deadletters,
		mailboxSize: mailboxSize,
	}, nil
}

// MessageReceived records an envelope entering a mailbox.
func (m *Metrics) MessageReceived(ctx context.Context) {
	m.received.Add(ctx, 1, m.attrs)
	m.mailboxSize.Add(ctx, 1, m.attrs)
}

// MessageProcessed records a completed handler invocation.
func (m *Metrics) MessageProcessed(ctx context.Context) {
	m.processed.Add(ctx, 1, m.attrs)
	m.mailboxSize.Add(ctx, -1, m.attrs)
}

// HandlerFailure records a handler invocation that raised.
func (m *Metrics) HandlerFailure(ctx context.Context) {
	m.failures.Add(ctx, 1, m.attrs)
}

// ActorRestarted records a supervisor-driven restart.
func (m *Metrics) ActorRestarted(ctx context.Context) {
	m.restarts.Add(ctx, 1, m.attrs)
}

// Deadletter records an undeliverable envelope.
func (m *Metrics) Deadletter(ctx context.Context) {
	m.deadletters.Add(ctx, 1, m.attrs)
}
