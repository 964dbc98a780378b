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

package network_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/sabouaram/goaio/network"

	libedp "github.com/sabouaram/goaio/endpoint"
)

var _ = Describe("Interface Inventory", func() {
	It("should list at least the loopback interface", func() {
		inv := NewInventory()

		lst, err := inv.List()
		Expect(err).To(BeNil())
		Expect(lst).ToNot(BeEmpty())

		var found bool
		for _, i := range lst {
			if i.IsLoopback() {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("should find the loopback interface by name and index", func() {
		inv := NewInventory()

		lst, err := inv.List()
		Expect(err).To(BeNil())

		for _, i := range lst {
			if !i.IsLoopback() {
				continue
			}

			byn, err := inv.ByName(i.Name)
			Expect(err).To(BeNil())
			Expect(byn).ToNot(BeNil())
			Expect(byn.Index).To(Equal(i.Index))

			byi, err := inv.ByIndex(i.Index)
			Expect(err).To(BeNil())
			Expect(byi).ToNot(BeNil())
			Expect(byi.Name).To(Equal(i.Name))

			return
		}

		Fail("no loopback interface found")
	})

	It("should return nil for an unknown interface", func() {
		inv := NewInventory()

		itf, err := inv.ByName("no-such-interface-0")
		Expect(err).To(BeNil())
		Expect(itf).To(BeNil())
	})

	It("should survive a reload", func() {
		inv := NewInventory()

		_, err := inv.List()
		Expect(err).To(BeNil())

		Expect(inv.Reload()).To(BeNil())

		lst, err := inv.List()
		Expect(err).To(BeNil())
		Expect(lst).ToNot(BeEmpty())
	})
})

var _ = Describe("Address Lookup", func() {
	It("should short-circuit literal addresses", func() {
		res, err := NameToAddr(context.Background(), "127.0.0.1", 80, "")
		Expect(err).To(BeNil())
		Expect(res).To(HaveLen(1))
		Expect(res[0].Kind()).To(Equal(libedp.KindIPv4))
		Expect(res[0].Port()).To(Equal(uint16(80)))
	})

	It("should resolve localhost", func() {
		res, err := NameToAddr(context.Background(), "localhost", 443, "")
		Expect(err).To(BeNil())
		Expect(res).ToNot(BeEmpty())
	})

	It("should reject an empty host", func() {
		_, err := NameToAddr(context.Background(), "", 0, "")
		Expect(err).ToNot(BeNil())
	})

	It("should reject the zero endpoint in reverse lookup", func() {
		var e libedp.Endpoint
		_, err := AddrToName(context.Background(), e)
		Expect(err).ToNot(BeNil())
	})
})
