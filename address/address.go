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

// Package address defines the location-independent naming of pools and
// actors. A PoolAddress names one actor pool in a deployment; an ActorRef
// names one actor. Both are immutable value types, comparable and
// serializable, and carry no transport state.
package address

import (
	"fmt"
	"net"

	"github.com/hashicorp/go-sockaddr"

	"github.com/tochemey/actorpool/errors"
)

// PoolAddress identifies one actor pool uniquely within a deployment. It is
// stable for the pool's process lifetime. Pools hosted by the same process
// share the same ProcessID, which is how the router recognizes that a peer
// is a function call away rather than a network hop.
type PoolAddress struct {
	Host      string `cbor:"host"`
	Port      int    `cbor:"port"`
	ProcessID string `cbor:"process_id"`
}

// New creates a PoolAddress. An empty or wildcard host ("0.0.0.0") is
// replaced with a routable interface address so the PoolAddress stays
// meaningful once serialized and shipped to a peer machine.
func New(host string, port int, processID string) (PoolAddress, error) {
	resolved, err := bindHost(host)
	if err != nil {
		return PoolAddress{}, fmt.Errorf("%w: %v", errors.ErrInvalidAddress, err)
	}
	addr := PoolAddress{
		Host:      resolved,
		Port:      port,
		ProcessID: processID,
	}
	return addr, addr.Validate()
}

// Validate reports whether the address is well formed.
func (a PoolAddress) Validate() error {
	if a.Host == "" {
		return fmt.Errorf("%w: host is not set", errors.ErrInvalidAddress)
	}
	if a.Port < 0 || a.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", errors.ErrInvalidAddress, a.Port)
	}
	return nil
}

// HostPort returns the dialable "host:port" form of the address.
func (a PoolAddress) HostPort() string {
	return net.JoinHostPort(a.Host, fmt.Sprint(a.Port))
}

// String implements fmt.Stringer. The rendered form is unique per pool
// within a deployment and is used as the address-table key.
func (a PoolAddress) String() string {
	return a.HostPort()
}

// Equals compares two addresses by value.
func (a PoolAddress) Equals(other PoolAddress) bool {
	return a == other
}

// SameProcess reports whether both addresses live in the same OS process.
func (a PoolAddress) SameProcess(other PoolAddress) bool {
	return a.ProcessID != "" && a.ProcessID == other.ProcessID
}

// SameHost reports whether both addresses live on the same machine.
func (a PoolAddress) SameHost(other PoolAddress) bool {
	return a.Host == other.Host
}

// IsZero reports whether the address is unset.
func (a PoolAddress) IsZero() bool {
	return a == PoolAddress{}
}

// bindHost resolves the wildcard or empty host to a concrete interface
// address, preferring a private IP and falling back to a public one.
func bindHost(host string) (string, error) {
	if host != "" && host != "0.0.0.0" && host != "::" {
		return host, nil
	}

	ipStr, err := sockaddr.GetPrivateIP()
	if err != nil {
		return "", fmt.Errorf("failed to get private interface addresses: %w", err)
	}
	if ipStr == "" {
		ipStr, err = sockaddr.GetPublicIP()
		if err != nil {
			return "", fmt.Errorf("failed to get public interface addresses: %w", err)
		}
	}
	if ipStr == "" {
		return "", fmt.Errorf("no routable IP address found, and explicit host not provided")
	}

	parsed := net.ParseIP(ipStr)
	if parsed == nil {
		return "", fmt.Errorf("failed to parse interface address: %q", ipStr)
	}
	return parsed.String(), nil
}
