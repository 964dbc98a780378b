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

package sockpool_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/sabouaram/goaio/sockpool"
)

var _ = Describe("Socket Pool", func() {
	Context("put and get", func() {
		It("should return a pooled live connection for its remote address", func() {
			cli, srv := pipePair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
			}()
			drainClose(srv)

			p := New(0, 0)
			defer func() { _ = p.Close() }()

			key := cli.RemoteAddr().String()

			Expect(p.Put(cli)).To(BeTrue())
			Expect(p.Len()).To(Equal(1))

			got := p.Get(key)
			Expect(got).To(Equal(cli))
			Expect(p.Len()).To(BeZero())
		})

		It("should return nil for an unknown key", func() {
			p := New(0, 0)
			defer func() { _ = p.Close() }()

			Expect(p.Get("203.0.113.1:9")).To(BeNil())
		})

		It("should drop a dead connection instead of returning it", func() {
			cli, srv := pipePair()

			p := New(0, 0)
			defer func() { _ = p.Close() }()

			key := cli.RemoteAddr().String()
			Expect(p.Put(cli)).To(BeTrue())

			// closing the peer makes the pooled entry dead
			_ = srv.Close()

			Eventually(func() any {
				return p.Get(key)
			}, "2s", "50ms").Should(BeNil())
		})

		It("should refuse a nil connection", func() {
			p := New(0, 0)
			defer func() { _ = p.Close() }()

			Expect(p.Put(nil)).To(BeFalse())
		})
	})

	Context("bounds", func() {
		It("should cap entries per key", func() {
			p := New(1, 10)
			defer func() { _ = p.Close() }()

			c1, s1 := pipePair()
			defer func() { _ = c1.Close(); _ = s1.Close() }()
			drainClose(s1)

			Expect(p.Put(c1)).To(BeTrue())
			Expect(p.Put(c1)).To(BeFalse())
		})

		It("should evict the oldest entry when the global cap is hit", func() {
			p := New(4, 1)
			defer func() { _ = p.Close() }()

			c1, s1 := pipePair()
			defer func() { _ = s1.Close() }()
			drainClose(s1)

			c2, s2 := pipePair()
			defer func() { _ = c2.Close(); _ = s2.Close() }()
			drainClose(s2)

			Expect(p.Put(c1)).To(BeTrue())
			Expect(p.Put(c2)).To(BeTrue())
			Expect(p.Len()).To(Equal(1))
		})
	})

	Context("lifecycle", func() {
		It("should refuse puts after close", func() {
			cli, srv := pipePair()
			defer func() { _ = cli.Close(); _ = srv.Close() }()

			p := New(0, 0)
			Expect(p.Close()).To(Succeed())
			Expect(p.Put(cli)).To(BeFalse())
		})

		It("should drop everything on clean", func() {
			cli, srv := pipePair()
			defer func() { _ = srv.Close() }()
			drainClose(srv)

			p := New(0, 0)
			defer func() { _ = p.Close() }()

			Expect(p.Put(cli)).To(BeTrue())
			p.Clean()
			Expect(p.Len()).To(BeZero())
		})
	})
})
