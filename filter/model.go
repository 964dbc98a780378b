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

package filter

func (o *fil) Open() bool {
	if o.opn {
		return true
	}

	o.opn = o.cdc.Open()

	return o.opn
}

func (o *fil) Close() {
	if !o.opn {
		return
	}

	o.cdc.Close()

	o.eof = false
	o.fin = false
	o.lim = -1
	o.off = 0
	o.idt.Reset()
	o.odt.Reset()
	o.opn = false
}

func (o *fil) IsOpened() bool {
	return o.opn
}

func (o *fil) IsEOF() bool {
	return o.eof
}

func (o *fil) SetLimit(n int64) {
	if n < 0 {
		n = -1
	}

	o.lim = n
}

func (o *fil) Limit() int64 {
	return o.lim
}

func (o *fil) Offset() int64 {
	return o.off
}

func (o *fil) Spak(data []byte, need int, sync Sync) ([]byte, bool) {
	if !o.opn {
		return nil, true
	}

	if o.fin {
		return nil, true
	}

	o.off += int64(len(data))

	if o.lim >= 0 && o.off >= o.lim {
		o.eof = true
	}

	// a caller-side end closes the input as well
	if sync == SyncEnd {
		o.eof = true
	}

	// the end is only reported by a call that starts with EOF latched; a
	// codec ending during this call surfaces the end on the next call
	latched := o.eof

	if o.eof {
		sync = SyncEnd
	}

	// select the transform input: the caller slice directly when no
	// carry-over exists, the extended carry-over buffer otherwise
	var (
		in    []byte
		cache bool
	)

	if o.idt.Len() > 0 {
		if len(data) > 0 {
			o.idt.Write(data)
		}
		in = o.idt.Bytes()
		cache = true
	} else {
		in = data
	}

	if len(in) == 0 && sync == SyncNone {
		return nil, false
	}

	if need <= 0 {
		need = len(data)
		if l := o.idt.Len(); l > need {
			need = l
		}
		if l := o.odt.Len(); l > need {
			need = l
		}
		if need < defaultNeed {
			need = defaultNeed
		}
	}

	// enough buffered output: serve it without running the transform
	if o.odt.Len() >= need && sync == SyncNone {
		if !cache && len(data) > 0 {
			o.idt.Write(data)
		}
		return o.odt.Next(need), false
	}

	// run the transform into the ring tail
	want := need - o.odt.Len()
	if want < 1 {
		want = 1
	}

	if cap(o.win) < want {
		o.win = make([]byte, want)
	}

	win := o.win[:want]

	consumed, produced, end := o.cdc.Spak(in, win, sync)

	if produced > 0 {
		o.odt.Write(win[:produced])
	}

	if end {
		o.eof = true
		sync = SyncEnd
	}

	// keep the unconsumed input for the next call; a codec that ended will
	// never consume again, so its leftover is dropped
	if end {
		o.idt.Reset()
	} else if cache {
		o.idt.Next(consumed)
	} else if left := in[consumed:]; len(left) > 0 {
		o.idt.Write(left)
	}

	if sync == SyncNone {
		if o.odt.Len() >= need {
			return o.odt.Next(need), false
		}
		return nil, false
	}

	n := need
	if l := o.odt.Len(); l < n {
		n = l
	}

	if n == 0 {
		if latched && o.idt.Len() == 0 {
			o.fin = true
			return nil, true
		}
		return nil, false
	}

	return o.odt.Next(n), false
}
