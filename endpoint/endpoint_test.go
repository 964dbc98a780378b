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

package endpoint_test

import (
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/sabouaram/goaio/endpoint"

	"golang.org/x/sys/unix"
)

var _ = Describe("Endpoint Construction", func() {
	Context("IPv4", func() {
		It("should build a loopback endpoint", func() {
			e := NewV4([4]byte{127, 0, 0, 1}, 9999)
			Expect(e.Kind()).To(Equal(KindIPv4))
			Expect(e.Port()).To(Equal(uint16(9999)))
			Expect(e.IsAny()).To(BeFalse())
			Expect(e.String()).To(Equal("127.0.0.1:9999"))
		})

		It("should build a wildcard endpoint", func() {
			e := NewAny(KindIPv4, 80)
			Expect(e.IsAny()).To(BeTrue())
			Expect(e.Port()).To(Equal(uint16(80)))
		})
	})

	Context("IPv6", func() {
		It("should keep the scope only for link local addresses", func() {
			var ll [16]byte
			ll[0] = 0xfe
			ll[1] = 0x80
			ll[15] = 0x01

			e := NewV6(ll, 3, 443)
			Expect(e.Scope()).To(Equal(uint32(3)))
			Expect(e.IsLinkLocal()).To(BeTrue())
		})

		It("should zero the scope for global addresses", func() {
			var ga [16]byte
			ga[0] = 0x20
			ga[1] = 0x01
			ga[15] = 0x01

			e := NewV6(ga, 3, 443)
			Expect(e.Scope()).To(BeZero())
			Expect(e.IsLinkLocal()).To(BeFalse())
		})

		It("should detect link local multicast", func() {
			var mc [16]byte
			mc[0] = 0xff
			mc[1] = 0x02
			mc[15] = 0x01

			e := NewV6(mc, 2, 0)
			Expect(e.IsLinkLocal()).To(BeTrue())
			Expect(e.Scope()).To(Equal(uint32(2)))
		})
	})

	Context("ParseIP", func() {
		It("should parse an IPv4 literal", func() {
			e := ParseIP("192.168.1.10", 8080)
			Expect(e.Kind()).To(Equal(KindIPv4))
			Expect(e.V4()).To(Equal([4]byte{192, 168, 1, 10}))
		})

		It("should parse an IPv6 literal", func() {
			e := ParseIP("2001:db8::1", 8080)
			Expect(e.Kind()).To(Equal(KindIPv6))
		})

		It("should return the zero endpoint for garbage", func() {
			e := ParseIP("not-an-ip", 0)
			Expect(e.Kind()).To(Equal(KindUnspec))
		})
	})
})

var _ = Describe("Endpoint Equality", func() {
	It("should be structural", func() {
		a := NewV4([4]byte{10, 0, 0, 1}, 53)
		b := NewV4([4]byte{10, 0, 0, 1}, 53)
		c := NewV4([4]byte{10, 0, 0, 2}, 53)

		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.Equal(c)).To(BeFalse())
		Expect(a.Equal(a.WithPort(54))).To(BeFalse())
	})
})

var _ = Describe("Sockaddr Codec", func() {
	Context("save then load", func() {
		It("should round trip any non wildcard IPv4 endpoint", func() {
			e := NewV4([4]byte{192, 0, 2, 7}, 4242)

			sa := e.LoadSockaddr()
			Expect(sa).ToNot(BeNil())

			r, size := SaveSockaddr(sa)
			Expect(size).To(Equal(unix.SizeofSockaddrInet4))
			Expect(r.Equal(e)).To(BeTrue())
		})

		It("should round trip IPv6 endpoints with consistent scope", func() {
			var ll [16]byte
			ll[0] = 0xfe
			ll[1] = 0x80
			ll[15] = 0x42

			e := NewV6(ll, 7, 6666)

			sa := e.LoadSockaddr()
			r, size := SaveSockaddr(sa)
			Expect(size).To(Equal(unix.SizeofSockaddrInet6))
			Expect(r.Equal(e)).To(BeTrue())
		})

		It("should write the wildcard address for any endpoints", func() {
			e := NewAny(KindIPv4, 7)

			sa, ok := e.LoadSockaddr().(*unix.SockaddrInet4)
			Expect(ok).To(BeTrue())
			Expect(sa.Addr).To(Equal([4]byte{0, 0, 0, 0}))
			Expect(sa.Port).To(Equal(7))
		})

		It("should reject unknown families", func() {
			_, size := SaveSockaddr(&unix.SockaddrUnix{Name: "/tmp/x"})
			Expect(size).To(BeZero())
		})
	})
})

var _ = Describe("Net Addr Bridges", func() {
	It("should convert from net.TCPAddr", func() {
		e := FromNetAddr(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9998})
		Expect(e.Kind()).To(Equal(KindIPv4))
		Expect(e.Port()).To(Equal(uint16(9998)))
	})

	It("should convert to net.UDPAddr and back", func() {
		e := NewV4([4]byte{127, 0, 0, 1}, 9998)
		u := e.UDPAddr()
		Expect(u).ToNot(BeNil())
		Expect(FromNetAddr(u).Equal(e)).To(BeTrue())
	})

	It("should return nil addresses for the zero endpoint", func() {
		var e Endpoint
		Expect(e.TCPAddr()).To(BeNil())
		Expect(e.UDPAddr()).To(BeNil())
		Expect(e.IP()).To(BeNil())
		Expect(e.String()).To(BeEmpty())
	})
})
