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

package errors

import (
	"fmt"
	"strings"
)

// wireSentinels are the sentinels a remote pool may report back as the
// failure text of an error envelope. Order matters only for readability.
var wireSentinels = []error{
	ErrActorNotFound,
	ErrActorStopped,
	ErrActorAlreadyExists,
	ErrMailboxFull,
	ErrTypeNotRegistered,
	ErrPoolNotStarted,
	ErrInvalidMessage,
	ErrHandlerFailure,
}

// FromWire rebuilds an error from the failure text of an error envelope so
// that errors.Is keeps working across a process boundary. A failure text
// that matches no known sentinel is wrapped in ErrHandlerFailure.
func FromWire(failure string) error {
	for _, sentinel := range wireSentinels {
		text := sentinel.Error()
		if failure == text {
			return sentinel
		}
		if strings.HasPrefix(failure, text+":") {
			return fmt.Errorf("%w%s", sentinel, failure[len(text):])
		}
	}
	return fmt.Errorf("%w: %s", ErrHandlerFailure, failure)
}
