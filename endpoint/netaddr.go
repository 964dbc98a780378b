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
	"strconv"
)

// FromNetAddr converts a standard library address into an Endpoint.
// Supported concrete types are *net.TCPAddr, *net.UDPAddr and *net.IPAddr;
// anything else returns the zero Endpoint.
func FromNetAddr(a net.Addr) Endpoint {
	switch v := a.(type) {
	case *net.TCPAddr:
		if v == nil {
			return Endpoint{}
		}
		return fromIP(v.IP, v.Zone, uint16(v.Port))

	case *net.UDPAddr:
		if v == nil {
			return Endpoint{}
		}
		return fromIP(v.IP, v.Zone, uint16(v.Port))

	case *net.IPAddr:
		if v == nil {
			return Endpoint{}
		}
		return fromIP(v.IP, v.Zone, 0)

	default:
		return Endpoint{}
	}
}

// IP returns the endpoint address as a net.IP, nil for unspecified endpoints.
func (e Endpoint) IP() net.IP {
	switch e.kind {
	case KindIPv4:
		return net.IPv4(e.addr[0], e.addr[1], e.addr[2], e.addr[3])
	case KindIPv6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, e.addr[:])
		return ip
	default:
		return nil
	}
}

// TCPAddr returns the endpoint as a *net.TCPAddr, nil for unspecified
// endpoints.
func (e Endpoint) TCPAddr() *net.TCPAddr {
	if e.kind == KindUnspec {
		return nil
	}

	return &net.TCPAddr{
		IP:   e.IP(),
		Port: int(e.port),
		Zone: scopeToZone(e.scope),
	}
}

// UDPAddr returns the endpoint as a *net.UDPAddr, nil for unspecified
// endpoints.
func (e Endpoint) UDPAddr() *net.UDPAddr {
	if e.kind == KindUnspec {
		return nil
	}

	return &net.UDPAddr{
		IP:   e.IP(),
		Port: int(e.port),
		Zone: scopeToZone(e.scope),
	}
}

// String returns the usual host:port form, with IPv6 addresses bracketed.
func (e Endpoint) String() string {
	switch e.kind {
	case KindIPv4, KindIPv6:
		host := e.IP().String()
		if e.scope != 0 {
			host += "%" + scopeToZone(e.scope)
		}
		return net.JoinHostPort(host, strconv.Itoa(int(e.port)))
	default:
		return ""
	}
}

// zoneToScope resolves a zone string to an interface index. Numeric zones
// are used as-is, names are resolved through the interface table.
func zoneToScope(zone string) uint32 {
	if zone == "" {
		return 0
	}

	if n, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(n)
	}

	if ifi, err := net.InterfaceByName(zone); err == nil {
		return uint32(ifi.Index)
	}

	return 0
}

// scopeToZone renders a scope identifier as a zone string, preferring the
// interface name when the index resolves.
func scopeToZone(scope uint32) string {
	if scope == 0 {
		return ""
	}

	if ifi, err := net.InterfaceByIndex(int(scope)); err == nil {
		return ifi.Name
	}

	return strconv.FormatUint(uint64(scope), 10)
}
