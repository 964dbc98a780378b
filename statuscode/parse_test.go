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

package statuscode_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/sabouaram/goaio/statuscode"
)

var _ = Describe("Status Parsing", func() {
	Context("with valid status strings", func() {
		It("should parse ok (lowercase)", func() {
			Expect(Parse("ok")).To(Equal(OK))
		})

		It("should parse OK (uppercase)", func() {
			Expect(Parse("OK")).To(Equal(OK))
		})

		It("should parse timeout", func() {
			Expect(Parse("timeout")).To(Equal(Timeout))
		})

		It("should parse no-buffers with dash", func() {
			Expect(Parse("no-buffers")).To(Equal(NoBuffers))
		})

		It("should parse not_supported with underscore", func() {
			Expect(Parse("not_supported")).To(Equal(NotSupported))
		})

		It("should parse Invalid Argument with space and mixed case", func() {
			Expect(Parse("Invalid Argument")).To(Equal(InvalidArgument))
		})

		It("should parse quoted values", func() {
			Expect(Parse("\"eof\"")).To(Equal(EOF))
		})
	})

	Context("with invalid status strings", func() {
		It("should return Unknown for an empty string", func() {
			Expect(Parse("")).To(Equal(Unknown))
		})

		It("should return Unknown for garbage", func() {
			Expect(Parse("whatever")).To(Equal(Unknown))
		})
	})

	Context("round trip over List", func() {
		It("should parse back every known status from its Code", func() {
			for _, s := range List() {
				Expect(Parse(s.Code())).To(Equal(s), "status %s", s.String())
			}
		})

		It("should parse back every known status from its String", func() {
			for _, s := range List() {
				Expect(Parse(s.String())).To(Equal(s), "status %s", s.String())
			}
		})
	})

	Context("ParseInt", func() {
		It("should match the integer form of each status", func() {
			for _, s := range List() {
				Expect(ParseInt(s.Int())).To(Equal(s))
			}
		})

		It("should return Unknown for out of range values", func() {
			Expect(ParseInt(-1)).To(Equal(Unknown))
			Expect(ParseInt(250)).To(Equal(Unknown))
		})
	})
})

var _ = Describe("Status Predicates", func() {
	It("should report IsOK only for OK", func() {
		Expect(OK.IsOK()).To(BeTrue())
		Expect(Failed.IsOK()).To(BeFalse())
	})

	It("should report Pending and Waiting as not final", func() {
		Expect(Pending.IsFinal()).To(BeFalse())
		Expect(Waiting.IsFinal()).To(BeFalse())
		Expect(OK.IsFinal()).To(BeTrue())
		Expect(Killed.IsFinal()).To(BeTrue())
	})
})
