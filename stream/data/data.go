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

// Package data is the in-memory stream backend.
//
// The buffer is either owned (grown on demand, decoded from a data://BASE64
// URL) or referenced (installed through ctrl, bounded by its length).
// Callbacks are deferred onto the proactor so the observable behavior
// matches the network backends.
package data

import (
	"encoding/base64"
	"net/url"
	"os"
	"sync"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libstc "github.com/sabouaram/goaio/statuscode"
	libstr "github.com/sabouaram/goaio/stream"
)

func init() {
	libstr.Register("data", New)
}

// New builds an in-memory stream from a data URL.
func New(p libcpl.Proactor, u *url.URL) (libstr.Stream, liberr.Error) {
	return libstr.New(p, u, &bck{})
}

type bck struct {
	cor libstr.Core
	mux sync.Mutex
	buf []byte
	ref bool // buffer installed by the caller, fixed capacity
	opn bool
}

func (o *bck) Bind(c libstr.Core) {
	o.cor = c
}

func (o *bck) Type() libstr.Type {
	return libstr.TypeData
}

// task defers a callback onto the proactor worker.
func (o *bck) task(f func()) {
	_ = o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
		f()
		return false
	})
}

// payload extracts the inline bytes of a data URL, tolerant to the base64
// padding and slash characters landing in the host or path part.
func (o *bck) payload() []byte {
	u := o.cor.URL()
	if u == nil {
		return nil
	}

	raw := u.Opaque
	if raw == "" {
		raw = u.Host + u.Path
	}

	if raw == "" {
		return nil
	}

	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return b
	}

	if b, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return b
	}

	if b, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
		return b
	}

	return nil
}

func (o *bck) Open(fct libstr.FuncOpen) liberr.Error {
	o.task(func() {
		o.mux.Lock()

		if !o.ref && o.buf == nil {
			o.buf = o.payload()
		}

		o.opn = true
		o.mux.Unlock()

		o.cor.SetOffset(0)
		fct(libstc.OK)
	})

	return nil
}

func (o *bck) OpenTry() bool {
	o.mux.Lock()
	defer o.mux.Unlock()

	if !o.ref && o.buf == nil {
		o.buf = o.payload()
	}

	o.opn = true

	return true
}

func (o *bck) Close(fct libstr.FuncClose) liberr.Error {
	o.task(func() {
		o.mux.Lock()
		o.opn = false
		o.mux.Unlock()

		fct(libstc.OK)
	})

	return nil
}

func (o *bck) CloseTry() bool {
	o.mux.Lock()
	o.opn = false
	o.mux.Unlock()

	return true
}

func (o *bck) Read(size int, buf []byte, fct libstr.FuncRead) {
	o.task(func() {
		if size == 0 {
			fct(libstc.OK, buf[:0])
			return
		}

		o.mux.Lock()

		off := o.cor.Offset()

		if off >= int64(len(o.buf)) {
			o.mux.Unlock()
			fct(libstc.Closed, nil)
			return
		}

		n := copy(buf, o.buf[off:])
		o.mux.Unlock()

		o.cor.AddOffset(int64(n))
		fct(libstc.OK, buf[:n])
	})
}

func (o *bck) Write(p []byte, fct libstr.FuncWrite) {
	o.task(func() {
		o.mux.Lock()

		off := o.cor.Offset()

		var n int

		if o.ref {
			if off < int64(len(o.buf)) {
				n = copy(o.buf[off:], p)
			}
		} else {
			if need := int(off) + len(p); need > len(o.buf) {
				grown := make([]byte, need)
				copy(grown, o.buf)
				o.buf = grown
			}

			n = copy(o.buf[off:], p)
		}

		o.mux.Unlock()

		if n == 0 && len(p) > 0 {
			fct(libstc.NoBuffers, 0, len(p))
			return
		}

		o.cor.AddOffset(int64(n))
		fct(libstc.OK, n, len(p))
	})
}

func (o *bck) SendFile(f *os.File, offset, size int64, fct libstr.FuncWrite) {
	o.task(func() {
		fct(libstc.NotSupported, 0, int(size))
	})
}

func (o *bck) Seek(offset int64, fct libstr.FuncSeek) {
	o.task(func() {
		o.mux.Lock()
		max := int64(len(o.buf))
		o.mux.Unlock()

		if offset > max {
			fct(libstc.InvalidArgument, o.cor.Offset())
			return
		}

		o.cor.SetOffset(offset)
		fct(libstc.OK, offset)
	})
}

func (o *bck) Sync(fct libstr.FuncSync) {
	o.task(func() {
		fct(libstc.OK)
	})
}

func (o *bck) Kill() {}

func (o *bck) Exit() {
	o.mux.Lock()
	o.buf = nil
	o.ref = false
	o.mux.Unlock()
}

func (o *bck) Size() int64 {
	o.mux.Lock()
	defer o.mux.Unlock()
	return int64(len(o.buf))
}

func (o *bck) Ctrl(code libstr.CtrlCode, args []any) bool {
	switch code {
	case libstr.CtrlDataSet:
		if len(args) == 1 {
			if b, k := args[0].([]byte); k {
				o.mux.Lock()
				o.buf = b
				o.ref = true
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlDataGet:
		if len(args) == 1 {
			if p, k := args[0].(*[]byte); k {
				o.mux.Lock()
				*p = o.buf
				o.mux.Unlock()
				return true
			}
		}
	}

	return false
}
