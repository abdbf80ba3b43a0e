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
	"time"

	"github.com/tochemey/actorpool/log"
	"github.com/tochemey/actorpool/transport"
)

// Option configures a Deployment at construction time.
type Option func(*Deployment)

// WithLogger sets the deployment logger.
func WithLogger(logger log.Logger) Option {
	return func(d *Deployment) { d.logger = logger }
}

// WithAskTimeout sets the default timeout applied to asks that carry no
// explicit one.
func WithAskTimeout(timeout time.Duration) Option {
	return func(d *Deployment) {
		if timeout > 0 {
			d.askTimeout = timeout
		}
	}
}

// WithCompression compresses every socket channel of this deployment with
// the given codec, inbound and outbound. Peers must be configured with the
// same codec. Uncompressed peers are still accepted.
func WithCompression(codec transport.Codec, wrapper transport.ConnWrapper) Option {
	return func(d *Deployment) {
		d.dialCodec = codec
		d.dialWrapper = wrapper
		d.wrappers[codec] = wrapper
	}
}

// WithDialRetries sets how many times a refused peer connection is retried
// before the peer is reported unreachable.
func WithDialRetries(n int) Option {
	return func(d *Deployment) {
		if n > 0 {
			d.dialRetries = n
		}
	}
}

// WithDialTimeout bounds a whole peer dial, retries included.
func WithDialTimeout(timeout time.Duration) Option {
	return func(d *Deployment) {
		if timeout > 0 {
			d.dialTimeout = timeout
		}
	}
}
