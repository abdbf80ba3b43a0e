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

package types

import (
	"reflect"
	"strings"
	"sync"
)

// Registry maps wire names to Go runtime types. It backs two lookups:
// payload types on the serializer's receive path and actor kinds for
// create-by-kind requests.
type Registry interface {
	// Register adds the runtime type of v to the registry under its
	// canonical name. v may be a value, a pointer, or a reflect.Type.
	Register(v any)
	// Deregister removes the runtime type of v from the registry.
	Deregister(v any)
	// Exists reports whether the runtime type of v is registered.
	Exists(v any) bool
	// TypeOf returns the registered type for the given wire name.
	TypeOf(name string) (reflect.Type, bool)
}

type registry struct {
	mu    sync.RWMutex
	names map[string]reflect.Type
}

var _ Registry = (*registry)(nil)

// NewRegistry creates an empty Registry.
func NewRegistry() Registry {
	return &registry{
		names: make(map[string]reflect.Type),
	}
}

func (r *registry) Register(v any) {
	rtype := reflectType(v)
	r.mu.Lock()
	r.names[canonical(rtype.String())] = rtype
	r.mu.Unlock()
}

func (r *registry) Deregister(v any) {
	rtype := reflectType(v)
	r.mu.Lock()
	delete(r.names, canonical(rtype.String()))
	r.mu.Unlock()
}

func (r *registry) Exists(v any) bool {
	rtype := reflectType(v)
	r.mu.RLock()
	_, ok := r.names[canonical(rtype.String())]
	r.mu.RUnlock()
	return ok
}

func (r *registry) TypeOf(name string) (reflect.Type, bool) {
	r.mu.RLock()
	rtype, ok := r.names[canonical(name)]
	r.mu.RUnlock()
	return rtype, ok
}

// Name returns the canonical wire name of the runtime type of v.
func Name(v any) string {
	return canonical(reflectType(v).String())
}

// Instance allocates a fresh value of the given type and returns a pointer
// to it as an interface.
func Instance(rtype reflect.Type) any {
	return reflect.New(rtype).Interface()
}

// reflectType returns the element runtime type of v, unwrapping pointers.
func reflectType(v any) reflect.Type {
	if rtype, ok := v.(reflect.Type); ok {
		return rtype
	}
	rtype := reflect.TypeOf(v)
	for rtype.Kind() == reflect.Ptr {
		rtype = rtype.Elem()
	}
	return rtype
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
