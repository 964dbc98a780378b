/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package endpoint

import (
	"net"
)

// Kind discriminates the address family stored in an Endpoint.
type Kind uint8

const (
	// KindUnspec is an endpoint with no address family set.
	KindUnspec Kind = iota

	// KindIPv4 is an IPv4 endpoint.
	KindIPv4

	// KindIPv6 is an IPv6 endpoint.
	KindIPv6
)

func (k Kind) String() string {
	switch k {
	case KindIPv4:
		return "ipv4"
	case KindIPv6:
		return "ipv6"
	default:
		return "unspec"
	}
}

// Endpoint is an abstract IP address with a port.
//
// The zero value is an unspecified endpoint. Equality between endpoints is
// structural: same kind, same address bytes, same scope and same port.
// The scope identifier is non-zero only for link-local IPv6 addresses.
type Endpoint struct {
	kind  Kind
	addr  [16]byte
	scope uint32
	port  uint16
}

// NewV4 builds an IPv4 endpoint from 4 address bytes and a port.
func NewV4(addr [4]byte, port uint16) Endpoint {
	var e = Endpoint{
		kind: KindIPv4,
		port: port,
	}

	copy(e.addr[:4], addr[:])
	return e
}

// NewV6 builds an IPv6 endpoint from 16 address bytes, a scope identifier
// and a port. The scope is stored only when the address is link-local,
// otherwise it is forced to zero.
func NewV6(addr [16]byte, scope uint32, port uint16) Endpoint {
	var e = Endpoint{
		kind: KindIPv6,
		addr: addr,
		port: port,
	}

	if e.IsLinkLocal() {
		e.scope = scope
	}

	return e
}

// NewAny builds a wildcard endpoint of the given kind with a port.
func NewAny(kind Kind, port uint16) Endpoint {
	return Endpoint{
		kind: kind,
		port: port,
	}
}

// ParseIP builds an endpoint from a textual IP address and a port.
// An unparsable address returns the zero Endpoint.
func ParseIP(host string, port uint16) Endpoint {
	var zone string

	if i := indexByte(host, '%'); i >= 0 {
		zone = host[i+1:]
		host = host[:i]
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return Endpoint{}
	}

	return fromIP(ip, zone, port)
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// Kind returns the address family of the endpoint.
func (e Endpoint) Kind() Kind {
	return e.kind
}

// Port returns the endpoint port.
func (e Endpoint) Port() uint16 {
	return e.port
}

// WithPort returns a copy of the endpoint carrying the given port.
func (e Endpoint) WithPort(port uint16) Endpoint {
	e.port = port
	return e
}

// Scope returns the IPv6 scope identifier, zero for any non link-local
// address and for IPv4 endpoints.
func (e Endpoint) Scope() uint32 {
	return e.scope
}

// V4 returns the 4 address bytes of an IPv4 endpoint.
func (e Endpoint) V4() (addr [4]byte) {
	copy(addr[:], e.addr[:4])
	return addr
}

// V6 returns the 16 address bytes of an IPv6 endpoint.
func (e Endpoint) V6() (addr [16]byte) {
	return e.addr
}

// IsAny returns true when the endpoint address is the wildcard address of
// its family, or when the endpoint is unspecified.
func (e Endpoint) IsAny() bool {
	switch e.kind {
	case KindIPv4:
		return e.addr[0] == 0 && e.addr[1] == 0 && e.addr[2] == 0 && e.addr[3] == 0
	case KindIPv6:
		for _, b := range e.addr {
			if b != 0 {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsLinkLocal returns true for IPv6 link-local unicast (fe80::/10) and
// link-local multicast (ffx2::/16) addresses. The scope identifier is
// meaningful only when this predicate holds.
func (e Endpoint) IsLinkLocal() bool {
	if e.kind != KindIPv6 {
		return false
	}

	if e.addr[0] == 0xfe && (e.addr[1]&0xc0) == 0x80 {
		return true
	}

	return e.addr[0] == 0xff && (e.addr[1]&0x0f) == 0x02
}

// Equal reports structural equality between two endpoints.
func (e Endpoint) Equal(o Endpoint) bool {
	return e.kind == o.kind && e.addr == o.addr && e.scope == o.scope && e.port == o.port
}

func fromIP(ip net.IP, zone string, port uint16) Endpoint {
	if v4 := ip.To4(); v4 != nil {
		var a [4]byte
		copy(a[:], v4)
		return NewV4(a, port)
	}

	var a [16]byte
	copy(a[:], ip.To16())

	return NewV6(a, zoneToScope(zone), port)
}
