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

package zip

import (
	"bytes"
	"io"

	arccmp "github.com/nabbar/golib/archive/compress"
	iotnwc "github.com/nabbar/golib/ioutils/nopwritecloser"

	libflt "github.com/sabouaram/goaio/filter"
)

// deflate compresses through the algorithm writer into a local buffer that
// the codec drains into the output window.
type deflate struct {
	alg arccmp.Algorithm
	buf bytes.Buffer
	wrt io.WriteCloser
}

func (o *deflate) Open() bool {
	o.buf.Reset()

	w, err := o.alg.Writer(iotnwc.New(&o.buf))
	if err != nil {
		return false
	}

	o.wrt = w

	return true
}

func (o *deflate) Close() {
	if o.wrt != nil {
		_ = o.wrt.Close()
		o.wrt = nil
	}

	o.buf.Reset()
}

func (o *deflate) Spak(in []byte, out []byte, sync libflt.Sync) (consumed, produced int, end bool) {
	if o.wrt != nil && len(in) > 0 {
		n, err := o.wrt.Write(in)
		consumed = n

		if err != nil {
			return consumed, 0, true
		}
	} else {
		consumed = len(in)
	}

	// the end of stream flushes the algorithm tail into the buffer
	if sync == libflt.SyncEnd && o.wrt != nil {
		_ = o.wrt.Close()
		o.wrt = nil
	}

	n := o.buf.Len()
	if n > len(out) {
		n = len(out)
	}

	if n > 0 {
		copy(out, o.buf.Next(n))
		produced = n
	}

	end = sync == libflt.SyncEnd && o.wrt == nil && o.buf.Len() == 0

	return consumed, produced, end
}
