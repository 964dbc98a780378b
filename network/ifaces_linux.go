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

//go:build linux

package network

import (
	libnlk "github.com/vishvananda/netlink"

	liberr "github.com/nabbar/golib/errors"
	libedp "github.com/sabouaram/goaio/endpoint"
)

// loadIfaces enumerates the interface table through netlink.
func loadIfaces() ([]Iface, liberr.Error) {
	lnk, err := libnlk.LinkList()
	if err != nil {
		return nil, ErrorIfaceList.Error(err)
	}

	res := make([]Iface, 0, len(lnk))

	for _, l := range lnk {
		att := l.Attrs()
		if att == nil {
			continue
		}

		itf := Iface{
			Index:  att.Index,
			Name:   att.Name,
			Flags:  att.Flags,
			HWAddr: att.HardwareAddr,
		}

		ad4, err := libnlk.AddrList(l, libnlk.FAMILY_V4)
		if err != nil {
			return nil, ErrorIfaceAddr.Error(err)
		}

		for _, a := range ad4 {
			if a.IPNet == nil {
				continue
			}
			if e := libedp.ParseIP(a.IPNet.IP.String(), 0); e.Kind() == libedp.KindIPv4 {
				itf.IPv4 = append(itf.IPv4, e)
			}
		}

		ad6, err := libnlk.AddrList(l, libnlk.FAMILY_V6)
		if err != nil {
			return nil, ErrorIfaceAddr.Error(err)
		}

		for _, a := range ad6 {
			if a.IPNet == nil {
				continue
			}

			var b [16]byte
			copy(b[:], a.IPNet.IP.To16())

			e := libedp.NewV6(b, uint32(att.Index), 0)
			itf.IPv6 = append(itf.IPv6, e)
		}

		res = append(res, itf)
	}

	return res, nil
}
