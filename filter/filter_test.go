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

package filter_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/sabouaram/goaio/filter"
)

// upper is a trivial codec turning ascii lowercase into uppercase.
type upper struct{}

func (upper) Open() bool { return true }
func (upper) Close()     {}

func (upper) Spak(in []byte, out []byte, sync Sync) (int, int, bool) {
	n := len(in)
	if n > len(out) {
		n = len(out)
	}

	for i := 0; i < n; i++ {
		c := in[i]
		if c >= 'a' && c <= 'z' {
			c -= 32
		}
		out[i] = c
	}

	return n, n, false
}

// drain pulls everything out of the filter with end-sync calls.
func drain(f Filter) []byte {
	var res []byte

	for i := 0; i < 64; i++ {
		out, end := f.Spak(nil, 0, SyncEnd)
		res = append(res, out...)

		if end {
			return res
		}
	}

	Fail("filter did not drain within the bounded number of calls")
	return nil
}

var _ = Describe("Filter Shell", func() {
	It("should refuse a nil codec", func() {
		Expect(New(nil)).To(BeNil())
	})

	It("should transform pushed bytes", func() {
		f := New(upper{})
		Expect(f.Open()).To(BeTrue())
		defer f.Close()

		out, end := f.Spak([]byte("hello"), 5, SyncFlush)
		Expect(end).To(BeFalse())
		Expect(string(out)).To(Equal("HELLO"))
	})

	It("should withhold output until the needed count in steady state", func() {
		f := New(upper{})
		Expect(f.Open()).To(BeTrue())
		defer f.Close()

		out, end := f.Spak([]byte("ab"), 8, SyncNone)
		Expect(end).To(BeFalse())
		Expect(out).To(BeEmpty())

		out, end = f.Spak([]byte("cdefgh"), 8, SyncNone)
		Expect(end).To(BeFalse())
		Expect(string(out)).To(Equal("ABCDEFGH"))
	})

	It("should count input offset and honor the input limit", func() {
		f := New(upper{})
		Expect(f.Open()).To(BeTrue())
		defer f.Close()

		f.SetLimit(4)

		out, end := f.Spak([]byte("abcd"), 4, SyncFlush)
		Expect(string(out)).To(Equal("ABCD"))
		Expect(end).To(BeFalse())
		Expect(f.IsEOF()).To(BeTrue())
		Expect(f.Offset()).To(Equal(int64(4)))

		out, end = f.Spak(nil, 0, SyncEnd)
		Expect(out).To(BeEmpty())
		Expect(end).To(BeTrue())
	})

	It("should drain the ring then report the end after EOF", func() {
		f := New(upper{})
		Expect(f.Open()).To(BeTrue())
		defer f.Close()

		out, end := f.Spak([]byte("xyz"), 0, SyncEnd)
		Expect(end).To(BeFalse())
		Expect(string(out)).To(Equal("XYZ"))

		out, end = f.Spak(nil, 0, SyncEnd)
		Expect(out).To(BeEmpty())
		Expect(end).To(BeTrue())
	})

	It("should reset state on close and reopen", func() {
		f := New(upper{})
		Expect(f.Open()).To(BeTrue())

		f.SetLimit(3)
		_, _ = f.Spak([]byte("abc"), 0, SyncFlush)
		Expect(f.IsEOF()).To(BeTrue())

		f.Close()
		Expect(f.IsOpened()).To(BeFalse())

		Expect(f.Open()).To(BeTrue())
		Expect(f.IsEOF()).To(BeFalse())
		Expect(f.Offset()).To(BeZero())
		Expect(f.Limit()).To(Equal(int64(-1)))

		f.Close()
	})
})
