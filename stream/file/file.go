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

// Package file is the file stream backend.
//
// The path comes from the URL (a leading ~ expands to the user home), the
// open mode flags are set through ctrl before open, and sequential reads
// and writes go through the proactor at the tracked offset, which advances
// atomically on successful completion. Stream-mode files reject seek.
package file

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	libhmd "github.com/mitchellh/go-homedir"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libstc "github.com/sabouaram/goaio/statuscode"
	libstr "github.com/sabouaram/goaio/stream"
)

func init() {
	libstr.Register("file", New)
}

// New builds a file stream from a file URL.
func New(p libcpl.Proactor, u *url.URL) (libstr.Stream, liberr.Error) {
	return libstr.New(p, u, &bck{
		mod: os.O_RDONLY,
	})
}

type bck struct {
	cor libstr.Core
	mux sync.Mutex
	fil *os.File
	mod int   // os.O_* flags
	stm bool  // stream mode: no size, no seek
	drt bool  // direct I/O hint, recorded even when the platform ignores it
	siz int64 // size at open, -1 in stream mode
}

func (o *bck) Bind(c libstr.Core) {
	o.cor = c
}

func (o *bck) Type() libstr.Type {
	return libstr.TypeFile
}

// path resolves the URL path, expanding a leading tilde to the user home.
func (o *bck) path() (string, error) {
	u := o.cor.URL()
	if u == nil {
		return "", os.ErrInvalid
	}

	p := u.Path
	if u.Host != "" && u.Host != "localhost" {
		// a relative path parsed as host://path
		p = filepath.Join(u.Host, p)
	}

	if strings.HasPrefix(p, "/~") {
		p = p[1:]
	}

	if strings.HasPrefix(p, "~") {
		return libhmd.Expand(p)
	}

	return p, nil
}

func (o *bck) openFile() libstc.Status {
	p, err := o.path()
	if err != nil || p == "" {
		return libstc.InvalidArgument
	}

	o.mux.Lock()
	defer o.mux.Unlock()

	f, err := os.OpenFile(p, o.mod, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return libstc.Failed
		}
		return libstc.FromError(err)
	}

	o.fil = f
	o.siz = -1

	if !o.stm {
		if nfo, err := f.Stat(); err == nil {
			o.siz = nfo.Size()
		}
	}

	o.cor.SetOffset(0)

	return libstc.OK
}

// Open delegates to the proactor task path so the callback runs off the
// caller stack like every other backend.
func (o *bck) Open(fct libstr.FuncOpen) liberr.Error {
	return o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
		if res.Status != libstc.OK {
			fct(res.Status)
			return false
		}

		fct(o.openFile())
		return false
	})
}

func (o *bck) OpenTry() bool {
	return o.openFile() == libstc.OK
}

func (o *bck) Close(fct libstr.FuncClose) liberr.Error {
	o.mux.Lock()
	f := o.fil
	o.fil = nil
	o.mux.Unlock()

	if f == nil {
		return o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
			fct(libstc.OK)
			return false
		})
	}

	return o.cor.Proactor().PostClose(f, nil, func(res libcpl.Result) bool {
		fct(res.Status)
		return false
	})
}

func (o *bck) CloseTry() bool {
	o.mux.Lock()
	f := o.fil
	o.fil = nil
	o.mux.Unlock()

	if f != nil {
		o.cor.Proactor().RemoveHandle(f)
		_ = f.Close()
	}

	return true
}

func (o *bck) Read(size int, buf []byte, fct libstr.FuncRead) {
	o.mux.Lock()
	f := o.fil
	o.mux.Unlock()

	if f == nil {
		fct(libstc.Closed, nil)
		return
	}

	_ = o.cor.Proactor().PostRead(f, o.cor.Offset(), buf, o.cor.Timeout(), nil, func(res libcpl.Result) bool {
		if res.Status == libstc.OK {
			o.cor.AddOffset(int64(res.Bytes))
			fct(libstc.OK, buf[:res.Bytes])
		} else {
			fct(res.Status, nil)
		}
		return false
	})
}

func (o *bck) Write(p []byte, fct libstr.FuncWrite) {
	o.mux.Lock()
	f := o.fil
	o.mux.Unlock()

	if f == nil {
		fct(libstc.Closed, 0, len(p))
		return
	}

	_ = o.cor.Proactor().PostWrite(f, o.cor.Offset(), p, o.cor.Timeout(), nil, func(res libcpl.Result) bool {
		if res.Status == libstc.OK {
			o.cor.AddOffset(int64(res.Bytes))

			o.mux.Lock()
			if !o.stm && o.cor.Offset() > o.siz {
				o.siz = o.cor.Offset()
			}
			o.mux.Unlock()
		}

		fct(res.Status, res.Bytes, len(p))
		return false
	})
}

func (o *bck) SendFile(f *os.File, offset, size int64, fct libstr.FuncWrite) {
	fct(libstc.NotSupported, 0, int(size))
}

func (o *bck) Seek(offset int64, fct libstr.FuncSeek) {
	o.mux.Lock()
	stm := o.stm
	o.mux.Unlock()

	if stm {
		fct(libstc.NotSupported, o.cor.Offset())
		return
	}

	o.cor.SetOffset(offset)
	fct(libstc.OK, offset)
}

func (o *bck) Sync(fct libstr.FuncSync) {
	o.mux.Lock()
	f := o.fil
	o.mux.Unlock()

	if f == nil {
		fct(libstc.Closed)
		return
	}

	_ = o.cor.Proactor().PostFSync(f, nil, func(res libcpl.Result) bool {
		fct(res.Status)
		return false
	})
}

func (o *bck) Kill() {
	o.mux.Lock()
	f := o.fil
	o.mux.Unlock()

	if f != nil {
		o.cor.Proactor().KillHandle(f)
	}
}

func (o *bck) Exit() {
	_ = o.CloseTry()
}

func (o *bck) Size() int64 {
	o.mux.Lock()
	defer o.mux.Unlock()

	if o.stm {
		return -1
	}

	return o.siz
}

func (o *bck) Ctrl(code libstr.CtrlCode, args []any) bool {
	switch code {
	case libstr.CtrlFileSetMode:
		if len(args) == 1 {
			if m, k := args[0].(int); k {
				o.mux.Lock()
				o.mod = m
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlFileGetMode:
		if len(args) == 1 {
			if p, k := args[0].(*int); k {
				o.mux.Lock()
				*p = o.mod
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlFileStreamMode:
		if len(args) == 1 {
			if b, k := args[0].(bool); k {
				o.mux.Lock()
				o.stm = b
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlFileIsStream:
		if len(args) == 1 {
			if p, k := args[0].(*bool); k {
				o.mux.Lock()
				*p = o.stm
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlFileSetDirect:
		if len(args) == 1 {
			if b, k := args[0].(bool); k {
				o.mux.Lock()
				o.drt = b
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlFileGetDirect:
		if len(args) == 1 {
			if p, k := args[0].(*bool); k {
				o.mux.Lock()
				*p = o.drt
				o.mux.Unlock()
				return true
			}
		}
	}

	return false
}
