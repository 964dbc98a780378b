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

//go:build !linux

package network

import (
	"net"

	liberr "github.com/nabbar/golib/errors"
	libedp "github.com/sabouaram/goaio/endpoint"
)

// loadIfaces enumerates the interface table through the standard library,
// the getifaddrs analogue.
func loadIfaces() ([]Iface, liberr.Error) {
	lst, err := net.Interfaces()
	if err != nil {
		return nil, ErrorIfaceList.Error(err)
	}

	res := make([]Iface, 0, len(lst))

	for _, l := range lst {
		itf := Iface{
			Index:  l.Index,
			Name:   l.Name,
			Flags:  l.Flags,
			HWAddr: l.HardwareAddr,
		}

		adr, err := l.Addrs()
		if err != nil {
			return nil, ErrorIfaceAddr.Error(err)
		}

		for _, a := range adr {
			ipn, k := a.(*net.IPNet)
			if !k || ipn.IP == nil {
				continue
			}

			if v4 := ipn.IP.To4(); v4 != nil {
				var b [4]byte
				copy(b[:], v4)
				itf.IPv4 = append(itf.IPv4, libedp.NewV4(b, 0))
			} else {
				var b [16]byte
				copy(b[:], ipn.IP.To16())
				itf.IPv6 = append(itf.IPv6, libedp.NewV6(b, uint32(l.Index), 0))
			}
		}

		res = append(res, itf)
	}

	return res, nil
}
