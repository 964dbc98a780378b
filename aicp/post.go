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

package aicp

import (
	"net"
	"os"
	"time"

	liberr "github.com/nabbar/golib/errors"
	libedp "github.com/sabouaram/goaio/endpoint"
)

// operation is one posted request, queued until the worker issues it.
type operation struct {
	cod OpCode
	hdl any
	cnn net.Conn
	pkc net.PacketConn
	lst net.Listener
	fil *os.File
	buf []byte
	vec [][]byte
	per libedp.Endpoint
	ntw string
	off int64
	siz int64
	tmo time.Duration
	whn time.Time
	cok any
	fct FuncComplete
	rem bool // internal handle removal request
}

// size returns the requested byte count of the operation.
func (op *operation) size() int {
	if op.buf != nil {
		return len(op.buf)
	}

	var n int
	for _, b := range op.vec {
		n += len(b)
	}

	if n == 0 && op.siz > 0 {
		n = int(op.siz)
	}

	return n
}

func (o *prc) enqueue(op *operation) liberr.Error {
	if op.fct == nil {
		return ErrorParamEmpty.Error(nil)
	}

	if !o.run.Load() || o.kil.Load() {
		return ErrorProactorClosed.Error(nil)
	}

	o.mux.Lock()

	if op.cod.IsPriority() {
		o.qhi = append(o.qhi, op)
	} else {
		o.qlo = append(o.qlo, op)
	}

	o.mux.Unlock()
	o.wake()

	return nil
}

func (o *prc) wake() {
	select {
	case o.wke <- struct{}{}:
	default:
	}
}

func (o *prc) PostAccept(l net.Listener, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if l == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpAccept,
		hdl: l,
		lst: l,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostConnect(network string, e libedp.Endpoint, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if network == "" || e.Kind() == libedp.KindUnspec {
		return ErrorParamEmpty.Error(nil)
	}

	op := &operation{
		cod: OpConnect,
		ntw: network,
		per: e,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	}
	op.hdl = op // connect has no handle before completion

	return o.enqueue(op)
}

func (o *prc) PostRecv(c net.Conn, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpRecv,
		hdl: c,
		cnn: c,
		buf: buf,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostSend(c net.Conn, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpSend,
		hdl: c,
		cnn: c,
		buf: buf,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostRecvV(c net.Conn, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil || len(bufs) == 0 {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpRecvV,
		hdl: c,
		cnn: c,
		vec: bufs,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostSendV(c net.Conn, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil || len(bufs) == 0 {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpSendV,
		hdl: c,
		cnn: c,
		vec: bufs,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostURecv(c net.PacketConn, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpURecv,
		hdl: c,
		pkc: c,
		buf: buf,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostUSend(c net.PacketConn, e libedp.Endpoint, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil || e.Kind() == libedp.KindUnspec {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpUSend,
		hdl: c,
		pkc: c,
		per: e,
		buf: buf,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostURecvV(c net.PacketConn, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil || len(bufs) == 0 {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpURecvV,
		hdl: c,
		pkc: c,
		vec: bufs,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostUSendV(c net.PacketConn, e libedp.Endpoint, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil || e.Kind() == libedp.KindUnspec || len(bufs) == 0 {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpUSendV,
		hdl: c,
		pkc: c,
		per: e,
		vec: bufs,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostSendFile(c net.Conn, f *os.File, offset, size int64, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if c == nil || f == nil || size < 0 {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpSendFile,
		hdl: c,
		cnn: c,
		fil: f,
		off: offset,
		siz: size,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostRead(f *os.File, offset int64, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if f == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpRead,
		hdl: f,
		fil: f,
		off: offset,
		buf: buf,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostWrite(f *os.File, offset int64, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if f == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpWrite,
		hdl: f,
		fil: f,
		off: offset,
		buf: buf,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostReadV(f *os.File, offset int64, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if f == nil || len(bufs) == 0 {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpReadV,
		hdl: f,
		fil: f,
		off: offset,
		vec: bufs,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostWriteV(f *os.File, offset int64, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error {
	if f == nil || len(bufs) == 0 {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpWriteV,
		hdl: f,
		fil: f,
		off: offset,
		vec: bufs,
		tmo: timeout,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostFSync(f *os.File, cookie any, fct FuncComplete) liberr.Error {
	if f == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpFSync,
		hdl: f,
		fil: f,
		cok: cookie,
		fct: fct,
	})
}

func (o *prc) PostRunTask(when time.Time, cookie any, fct FuncComplete) liberr.Error {
	op := &operation{
		cod: OpRunTask,
		whn: when,
		cok: cookie,
		fct: fct,
	}
	op.hdl = op

	return o.enqueue(op)
}

func (o *prc) PostRunTaskAfter(delay time.Duration, cookie any, fct FuncComplete) liberr.Error {
	return o.PostRunTask(time.Now().Add(delay), cookie, fct)
}

func (o *prc) PostClose(h any, cookie any, fct FuncComplete) liberr.Error {
	if h == nil {
		return ErrorParamEmpty.Error(nil)
	}

	return o.enqueue(&operation{
		cod: OpClose,
		hdl: h,
		cok: cookie,
		fct: fct,
	})
}
