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

// Package filter composes any stream with a byte filter.
//
// Reads pull from the child stream, feed the filter and deliver the
// transformed bytes; when the child ends while the filter still holds
// buffered output, the remainder drains before the end surfaces. Writes
// push caller bytes through the filter and forward whatever it emits to
// the child. The offset counts bytes on the transformed side, and kill
// propagates to the child.
package filter

import (
	"os"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libflt "github.com/sabouaram/goaio/filter"
	libstc "github.com/sabouaram/goaio/statuscode"
	libstr "github.com/sabouaram/goaio/stream"
)

// NewStream composes the child stream with the filter. The child is owned
// by the caller but driven by the composition; it must not be used directly
// while the composed stream is open.
func NewStream(p libcpl.Proactor, child libstr.Stream, f libflt.Filter) (libstr.Stream, liberr.Error) {
	if child == nil || f == nil {
		return nil, libstr.ErrorParamEmpty.Error(nil)
	}

	return libstr.New(p, child.URL(), &bck{
		chd: child,
		flt: f,
	})
}

type bck struct {
	cor libstr.Core
	chd libstr.Stream
	flt libflt.Filter
}

func (o *bck) Bind(c libstr.Core) {
	o.cor = c
}

func (o *bck) Type() libstr.Type {
	return libstr.TypeFilter
}

func (o *bck) Open(fct libstr.FuncOpen) liberr.Error {
	if !o.flt.Open() {
		return libstr.ErrorParamInvalid.Error(nil)
	}

	if o.chd.State() == libstr.StateOpened {
		return o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
			o.cor.SetOffset(0)
			fct(libstc.OK)
			return false
		})
	}

	return o.chd.Open(func(st libstc.Status) {
		if st.IsOK() {
			o.cor.SetOffset(0)
		} else {
			o.flt.Close()
		}

		fct(st)
	})
}

func (o *bck) OpenTry() bool {
	if !o.flt.Open() {
		return false
	}

	if o.chd.State() == libstr.StateOpened || o.chd.OpenTry() {
		o.cor.SetOffset(0)
		return true
	}

	o.flt.Close()

	return false
}

func (o *bck) Close(fct libstr.FuncClose) liberr.Error {
	if o.chd.State() != libstr.StateOpened {
		o.flt.Close()

		return o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
			fct(libstc.OK)
			return false
		})
	}

	return o.chd.Close(func(st libstc.Status) {
		o.flt.Close()
		fct(st)
	})
}

func (o *bck) CloseTry() bool {
	if o.chd.CloseTry() {
		o.flt.Close()
		return true
	}

	return false
}

// deliver copies the transformed slice into the read window and fires the
// callback.
func (o *bck) deliver(out []byte, buf []byte, fct libstr.FuncRead) {
	n := copy(buf, out)
	o.cor.AddOffset(int64(n))
	fct(libstc.OK, buf[:n])
}

func (o *bck) Read(size int, buf []byte, fct libstr.FuncRead) {
	// buffered transformed bytes first
	out, end := o.flt.Spak(nil, size, libflt.SyncFlush)

	if len(out) > 0 {
		o.deliver(out, buf, fct)
		return
	}

	if end {
		fct(libstc.Closed, nil)
		return
	}

	o.chd.Read(size, func(st libstc.Status, data []byte) bool {
		switch {
		case st.IsOK():
			out, end := o.flt.Spak(data, size, libflt.SyncFlush)

			switch {
			case len(out) > 0:
				o.deliver(out, buf, fct)
			case end:
				fct(libstc.Closed, nil)
			default:
				// the filter needs more input
				o.Read(size, buf, fct)
			}

		case st == libstc.Closed || st == libstc.EOF:
			// the source ended: drain the filter tail through a deferred
			// task so buffered output still surfaces
			_ = o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
				out, _ := o.flt.Spak(nil, size, libflt.SyncEnd)

				if len(out) > 0 {
					o.deliver(out, buf, fct)
				} else {
					fct(libstc.Closed, nil)
				}

				return false
			})

		default:
			fct(st, nil)
		}

		return false
	})
}

func (o *bck) Write(p []byte, fct libstr.FuncWrite) {
	out, end := o.flt.Spak(p, 0, libflt.SyncNone)

	if end {
		fct(libstc.Failed, 0, len(p))
		return
	}

	if len(out) == 0 {
		// accepted into the filter, nothing to forward yet
		fct(libstc.OK, len(p), len(p))
		return
	}

	chunk := make([]byte, len(out))
	copy(chunk, out)

	o.chd.Write(chunk, func(st libstc.Status, sent, size int) bool {
		if st.IsOK() && sent < size {
			return true
		}

		if st.IsOK() {
			o.cor.AddOffset(int64(size))
		}

		fct(st, len(p), len(p))
		return false
	})
}

// SendFile cannot pass through the transform; the bytes must travel the
// filtered write path.
func (o *bck) SendFile(f *os.File, offset, size int64, fct libstr.FuncWrite) {
	fct(libstc.NotSupported, 0, int(size))
}

func (o *bck) Seek(offset int64, fct libstr.FuncSeek) {
	fct(libstc.NotSupported, o.cor.Offset())
}

// Sync flushes the filter with the end indication, forwards the tail to the
// child, then syncs the child.
func (o *bck) Sync(fct libstr.FuncSync) {
	out, _ := o.flt.Spak(nil, 0, libflt.SyncEnd)

	if len(out) == 0 {
		o.chd.Sync(func(st libstc.Status) {
			fct(st)
		})
		return
	}

	chunk := make([]byte, len(out))
	copy(chunk, out)

	o.chd.Write(chunk, func(st libstc.Status, sent, size int) bool {
		if st.IsOK() && sent < size {
			return true
		}

		if !st.IsOK() {
			fct(st)
			return false
		}

		o.cor.AddOffset(int64(size))

		// more of the tail may remain buffered
		o.Sync(fct)
		return false
	})
}

func (o *bck) Kill() {
	o.chd.Kill()
}

func (o *bck) Exit() {
	o.flt.Close()
}

func (o *bck) Size() int64 {
	return -1
}

func (o *bck) Ctrl(code libstr.CtrlCode, args []any) bool {
	switch code {
	case libstr.CtrlFilterGetFilter:
		if len(args) == 1 {
			if p, k := args[0].(*libflt.Filter); k {
				*p = o.flt
				return true
			}
		}

	case libstr.CtrlFilterGetChild:
		if len(args) == 1 {
			if p, k := args[0].(*libstr.Stream); k {
				*p = o.chd
				return true
			}
		}
	}

	return false
}
