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

package stream

import (
	"bytes"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libstc "github.com/sabouaram/goaio/statuscode"
)

const (
	// exitPollCount bounds the CloseTry polling of Exit.
	exitPollCount = 30

	// exitPollDelay spaces the CloseTry polling of Exit.
	exitPollDelay = 200 * time.Millisecond
)

type bas struct {
	prc libcpl.Proactor
	uri *url.URL
	bck Backend
	stt atomic.Int32
	tmo atomic.Int64
	off atomic.Int64

	mux sync.Mutex
	rcm int          // read cache max, 0 = direct
	wcm int          // write cache max, 0 = direct
	rcb []byte       // read cache window, grown once to rcm
	wcb bytes.Buffer // write cache
	pcl FuncClose    // close requested while opening
}

func (o *bas) Type() Type {
	return o.bck.Type()
}

func (o *bas) URL() *url.URL {
	return o.uri
}

func (o *bas) Proactor() libcpl.Proactor {
	return o.prc
}

func (o *bas) State() State {
	return State(o.stt.Load())
}

func (o *bas) setState(s State) {
	o.stt.Store(int32(s))
}

func (o *bas) casState(old, new State) bool {
	return o.stt.CompareAndSwap(int32(old), int32(new))
}

func (o *bas) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}

	o.tmo.Store(int64(d))
}

func (o *bas) Timeout() time.Duration {
	return time.Duration(o.tmo.Load())
}

func (o *bas) Offset() int64 {
	return o.off.Load()
}

func (o *bas) SetOffset(off int64) {
	o.off.Store(off)
}

func (o *bas) AddOffset(n int64) {
	o.off.Add(n)
}

func (o *bas) Size() int64 {
	return o.bck.Size()
}

// Open drives closed -> opening -> opened; a failure settles back closed,
// and a close requested while opening runs after the open callback fired.
func (o *bas) Open(fct FuncOpen) liberr.Error {
	if fct == nil {
		return ErrorParamEmpty.Error(nil)
	}

	if !o.casState(StateClosed, StateOpening) {
		return ErrorBadState.Error(nil)
	}

	if e := o.bck.Open(func(st libstc.Status) {
		o.openDone(st, fct)
	}); e != nil {
		o.setState(StateClosed)
		return e
	}

	return nil
}

func (o *bas) openDone(st libstc.Status, fct FuncOpen) {
	o.mux.Lock()
	cls := o.pcl
	o.pcl = nil
	o.mux.Unlock()

	if o.State() == StateKilling {
		_ = o.bck.CloseTry()
		o.setState(StateKilled)
		fct(libstc.Killed)
		return
	}

	if !st.IsOK() {
		_ = o.bck.CloseTry()
		o.setState(StateClosed)
		fct(st)

		if cls != nil {
			cls(libstc.OK)
		}

		return
	}

	o.setState(StateOpened)
	fct(libstc.OK)

	if cls != nil {
		_ = o.Close(cls)
	}
}

func (o *bas) OpenTry() bool {
	if o.State() == StateOpened {
		return true
	}

	if !o.casState(StateClosed, StateOpening) {
		return false
	}

	if o.bck.OpenTry() {
		o.setState(StateOpened)
		return true
	}

	o.setState(StateClosed)

	return false
}

func (o *bas) Read(size int, fct FuncRead) liberr.Error {
	if fct == nil || size < 0 {
		return ErrorParamEmpty.Error(nil)
	}

	if o.State() != StateOpened {
		return ErrorBadState.Error(nil)
	}

	// a pending write cache is drained before reading so the backend
	// observes every byte in order
	if o.cacheLen() > 0 {
		return o.Sync(func(st libstc.Status) {
			if !st.IsOK() {
				fct(st, nil)
				return
			}

			o.doRead(size, fct)
		})
	}

	o.doRead(size, fct)

	return nil
}

func (o *bas) doRead(size int, fct FuncRead) {
	var buf []byte

	o.mux.Lock()

	if o.rcm > 0 {
		if cap(o.rcb) < o.rcm {
			o.rcb = make([]byte, o.rcm)
		}

		if size > o.rcm {
			size = o.rcm
		}

		buf = o.rcb[:size]
	} else {
		buf = make([]byte, size)
	}

	o.mux.Unlock()

	o.bck.Read(size, buf, func(st libstc.Status, data []byte) bool {
		if fct(st, data) && st.IsOK() && o.State() == StateOpened {
			o.doRead(size, fct)
		}
		return false
	})
}

func (o *bas) Write(p []byte, fct FuncWrite) liberr.Error {
	if fct == nil || p == nil {
		return ErrorParamEmpty.Error(nil)
	}

	if o.State() != StateOpened {
		return ErrorBadState.Error(nil)
	}

	o.mux.Lock()
	max := o.wcm
	fit := o.wcb.Len()+len(p) <= max
	o.mux.Unlock()

	if max > 0 && fit {
		o.mux.Lock()
		o.wcb.Write(p)
		o.mux.Unlock()

		fct(libstc.OK, len(p), len(p))
		return nil
	}

	if max > 0 {
		// the cache cannot take the bytes: drain it, then retry the write
		o.flush(func(st libstc.Status) {
			if !st.IsOK() {
				fct(st, 0, len(p))
				return
			}

			if len(p) <= max {
				o.mux.Lock()
				o.wcb.Write(p)
				o.mux.Unlock()
				fct(libstc.OK, len(p), len(p))
				return
			}

			o.doWrite(p, 0, fct)
		})

		return nil
	}

	o.doWrite(p, 0, fct)

	return nil
}

// doWrite issues one backend write, continuing with the remainder while
// the callback asks for it.
func (o *bas) doWrite(p []byte, done int, fct FuncWrite) {
	o.bck.Write(p[done:], func(st libstc.Status, sent, size int) bool {
		if st.IsOK() {
			done += sent
		}

		if fct(st, done, len(p)) && st.IsOK() && done < len(p) && o.State() == StateOpened {
			o.doWrite(p, done, fct)
		}

		return false
	})
}

// SendFile drains the write cache so bytes stay in order, then hands the
// file range to the backend sendfile path.
func (o *bas) SendFile(f *os.File, offset, size int64, fct FuncWrite) liberr.Error {
	if fct == nil || f == nil || size < 0 {
		return ErrorParamEmpty.Error(nil)
	}

	if o.State() != StateOpened {
		return ErrorBadState.Error(nil)
	}

	o.flush(func(st libstc.Status) {
		if !st.IsOK() {
			fct(st, 0, int(size))
			return
		}

		o.bck.SendFile(f, offset, size, fct)
	})

	return nil
}

func (o *bas) cacheLen() int {
	o.mux.Lock()
	defer o.mux.Unlock()
	return o.wcb.Len()
}

// flush drains the write cache through as many backend writes as needed.
func (o *bas) flush(fct FuncSync) {
	o.mux.Lock()

	if o.wcb.Len() == 0 {
		o.mux.Unlock()
		fct(libstc.OK)
		return
	}

	chunk := make([]byte, o.wcb.Len())
	copy(chunk, o.wcb.Bytes())
	o.wcb.Reset()

	o.mux.Unlock()

	o.doWrite(chunk, 0, func(st libstc.Status, sent, size int) bool {
		if !st.IsOK() {
			fct(st)
			return false
		}

		if sent < size {
			return true
		}

		fct(libstc.OK)
		return false
	})
}

func (o *bas) Sync(fct FuncSync) liberr.Error {
	if fct == nil {
		return ErrorParamEmpty.Error(nil)
	}

	if o.State() != StateOpened {
		return ErrorBadState.Error(nil)
	}

	o.flush(func(st libstc.Status) {
		if !st.IsOK() {
			fct(st)
			return
		}

		o.bck.Sync(fct)
	})

	return nil
}

func (o *bas) Seek(offset int64, fct FuncSeek) liberr.Error {
	if fct == nil || offset < 0 {
		return ErrorParamEmpty.Error(nil)
	}

	if o.State() != StateOpened {
		return ErrorBadState.Error(nil)
	}

	if o.cacheLen() > 0 {
		return o.Sync(func(st libstc.Status) {
			if !st.IsOK() {
				fct(st, o.Offset())
				return
			}

			o.doSeek(offset, fct)
		})
	}

	o.doSeek(offset, fct)

	return nil
}

func (o *bas) doSeek(offset int64, fct FuncSeek) {
	if offset == o.Offset() {
		fct(libstc.OK, offset)
		return
	}

	o.bck.Seek(offset, fct)
}

func (o *bas) RunTask(delay time.Duration, fct FuncTask) liberr.Error {
	if fct == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.prc.PostRunTaskAfter(delay, nil, func(res libcpl.Result) bool {
		fct(res.Status)
		return false
	})
}

func (o *bas) OpenRead(size int, fct FuncRead) liberr.Error {
	if fct == nil {
		return ErrorParamEmpty.Error(nil)
	}

	if o.State() == StateOpened {
		return o.Read(size, fct)
	}

	return o.Open(func(st libstc.Status) {
		if !st.IsOK() {
			fct(st, nil)
			return
		}

		if e := o.Read(size, fct); e != nil {
			fct(libstc.Failed, nil)
		}
	})
}

func (o *bas) OpenWrite(p []byte, fct FuncWrite) liberr.Error {
	if fct == nil {
		return ErrorParamEmpty.Error(nil)
	}

	if o.State() == StateOpened {
		return o.Write(p, fct)
	}

	return o.Open(func(st libstc.Status) {
		if !st.IsOK() {
			fct(st, 0, len(p))
			return
		}

		if e := o.Write(p, fct); e != nil {
			fct(libstc.Failed, 0, len(p))
		}
	})
}

func (o *bas) OpenSeek(offset int64, fct FuncSeek) liberr.Error {
	if fct == nil {
		return ErrorParamEmpty.Error(nil)
	}

	if o.State() == StateOpened {
		return o.Seek(offset, fct)
	}

	return o.Open(func(st libstc.Status) {
		if !st.IsOK() {
			fct(st, 0)
			return
		}

		if e := o.Seek(offset, fct); e != nil {
			fct(libstc.Failed, 0)
		}
	})
}

func (o *bas) Close(fct FuncClose) liberr.Error {
	if fct == nil {
		return ErrorParamEmpty.Error(nil)
	}

	switch o.State() {
	case StateOpening:
		// deferred until the open settles
		o.mux.Lock()
		o.pcl = fct
		o.mux.Unlock()
		return nil

	case StateOpened, StateKilling:
		kld := o.State() == StateKilling

		return o.bck.Close(func(st libstc.Status) {
			o.reset()

			if kld {
				o.setState(StateKilled)
			} else {
				o.setState(StateClosed)
			}

			fct(st)
		})

	default:
		return ErrorBadState.Error(nil)
	}
}

func (o *bas) CloseTry() bool {
	switch o.State() {
	case StateClosed, StateKilled:
		return true

	case StateOpened:
		if o.bck.CloseTry() {
			o.reset()
			o.setState(StateClosed)
			return true
		}

	case StateKilling:
		if o.bck.CloseTry() {
			o.reset()
			o.setState(StateKilled)
			return true
		}
	}

	return false
}

func (o *bas) reset() {
	o.mux.Lock()
	o.wcb.Reset()
	o.rcb = nil
	o.mux.Unlock()

	o.off.Store(0)
}

func (o *bas) Kill() {
	if o.casState(StateOpened, StateKilling) || o.casState(StateOpening, StateKilling) {
		o.bck.Kill()
		return
	}

	o.casState(StateClosed, StateKilled)
}

func (o *bas) Exit() liberr.Error {
	switch o.State() {
	case StateOpened, StateOpening:
		o.Kill()
	}

	for i := 0; i < exitPollCount; i++ {
		if o.CloseTry() {
			break
		}

		time.Sleep(exitPollDelay)
	}

	switch o.State() {
	case StateClosed, StateKilled:
		o.bck.Exit()
		return nil
	default:
		return ErrorExitNotClosed.Error(nil)
	}
}

func (o *bas) Ctrl(code CtrlCode, args ...any) bool {
	switch code {
	case CtrlGetURL:
		if len(args) == 1 {
			if p, k := args[0].(**url.URL); k {
				*p = o.uri
				return true
			}
		}
		return false

	case CtrlSetTimeout:
		if len(args) == 1 {
			if d, k := args[0].(time.Duration); k {
				o.SetTimeout(d)
				return true
			}
		}
		return false

	case CtrlGetTimeout:
		if len(args) == 1 {
			if p, k := args[0].(*time.Duration); k {
				*p = o.Timeout()
				return true
			}
		}
		return false

	case CtrlGetSize:
		if len(args) == 1 {
			if p, k := args[0].(*int64); k {
				*p = o.Size()
				return true
			}
		}
		return false

	case CtrlGetOffset:
		if len(args) == 1 {
			if p, k := args[0].(*int64); k {
				*p = o.Offset()
				return true
			}
		}
		return false

	case CtrlSetReadCache:
		if len(args) == 1 {
			if n, k := args[0].(int); k && n >= 0 {
				o.mux.Lock()
				o.rcm = n
				o.rcb = nil
				o.mux.Unlock()
				return true
			}
		}
		return false

	case CtrlSetWriteCache:
		if len(args) == 1 {
			if n, k := args[0].(int); k && n >= 0 {
				o.mux.Lock()
				o.wcm = n
				o.mux.Unlock()
				return true
			}
		}
		return false

	default:
		return o.bck.Ctrl(code, args)
	}
}
