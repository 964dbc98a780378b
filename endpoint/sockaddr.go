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

//go:build !windows

package endpoint

import (
	"golang.org/x/sys/unix"
)

// SaveSockaddr converts a platform socket address into an Endpoint.
//
// The returned size is the byte size of the corresponding platform structure
// (sockaddr_in or sockaddr_in6) so callers can reuse it as an address length.
// An address of any other family is a programming error and returns a zero
// Endpoint with size 0. For IPv6, the scope identifier is preserved only for
// link-local addresses.
func SaveSockaddr(sa unix.Sockaddr) (e Endpoint, size int) {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		if v == nil {
			return Endpoint{}, 0
		}
		return NewV4(v.Addr, uint16(v.Port)), unix.SizeofSockaddrInet4

	case *unix.SockaddrInet6:
		if v == nil {
			return Endpoint{}, 0
		}
		return NewV6(v.Addr, v.ZoneId, uint16(v.Port)), unix.SizeofSockaddrInet6

	default:
		return Endpoint{}, 0
	}
}

// LoadSockaddr converts the endpoint into a platform socket address.
//
// A wildcard endpoint produces the family wildcard address. The scope
// identifier is written only for link-local IPv6 addresses. An unspecified
// endpoint returns nil.
func (e Endpoint) LoadSockaddr() unix.Sockaddr {
	switch e.kind {
	case KindIPv4:
		var sa = &unix.SockaddrInet4{
			Port: int(e.port),
		}
		if !e.IsAny() {
			sa.Addr = e.V4()
		}
		return sa

	case KindIPv6:
		var sa = &unix.SockaddrInet6{
			Port: int(e.port),
		}
		if !e.IsAny() {
			sa.Addr = e.addr
		}
		if e.IsLinkLocal() {
			sa.ZoneId = e.scope
		}
		return sa

	default:
		return nil
	}
}
