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

// Package charset converts bytes between two character sets as a filter
// codec, carrying multi-byte sequences split across calls over to the next
// one.
package charset

import (
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	libflt "github.com/sabouaram/goaio/filter"
)

// New returns a filter converting from one charset to another. Charset
// names follow the WHATWG encoding labels ("utf-8", "latin1", "gbk", ...).
// Unknown names fail the filter open.
func New(from, to string) libflt.Filter {
	return libflt.New(NewCodec(from, to))
}

// NewCodec returns the bare codec for composition.
func NewCodec(from, to string) libflt.Codec {
	return &cnv{
		frm: from,
		too: to,
	}
}

type cnv struct {
	frm string
	too string
	trn transform.Transformer
}

func (o *cnv) Open() bool {
	src, err := htmlindex.Get(o.frm)
	if err != nil {
		return false
	}

	dst, err := htmlindex.Get(o.too)
	if err != nil {
		return false
	}

	o.trn = transform.Chain(src.NewDecoder(), dst.NewEncoder())

	return true
}

func (o *cnv) Close() {
	o.trn = nil
}

func (o *cnv) Spak(in []byte, out []byte, sync libflt.Sync) (consumed, produced int, end bool) {
	if o.trn == nil {
		return 0, 0, true
	}

	atEOF := sync == libflt.SyncEnd

	nDst, nSrc, err := o.trn.Transform(out, in, atEOF)

	switch err {
	case nil:
		return nSrc, nDst, atEOF && nSrc == len(in)
	case transform.ErrShortSrc, transform.ErrShortDst:
		// partial sequence or full window, carry over and continue
		return nSrc, nDst, false
	default:
		return nSrc, nDst, true
	}
}
