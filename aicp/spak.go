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
	"errors"
	"io"
	"net"
	"os"

	loglvl "github.com/nabbar/golib/logger/level"
	libstc "github.com/sabouaram/goaio/statuscode"
)

var (
	errInvalidHandle  = errors.New("invalid handle")
	errHandleBusy     = errors.New("handle busy")
	errNotImplemented = errors.New("operation not implemented")
)

// complete delivers one completion: through the port for the worker to
// dispatch, or inline when the skip flag is armed and the operation finished
// synchronously without timeout or kill interference.
func (o *prc) complete(c *completion) {
	if c.obj != nil && c.obj.skp && c.err == nil &&
		!c.obj.tmf.Load() && !c.obj.klf.Load() {
		o.dispatch(c)
		return
	}

	select {
	case o.prt <- c:
	case <-o.end:
		if c.op.fct != nil {
			c.op.fct(Result{
				Op:     c.op.cod,
				Status: libstc.Killed,
				Size:   c.op.size(),
				Cookie: c.op.cok,
			})
		}
	}
}

// dispatch finalizes one completion: it cancels the pending timeout task,
// runs the per-op-code handler, fires the user callback and reposts
// repeatable operations.
func (o *prc) dispatch(c *completion) {
	var (
		op  = c.op
		obj = c.obj
	)

	if obj != nil && obj.tmo != nil {
		o.lpw.TaskExit(obj.tmo)
		obj.tmo = nil
	}

	// an object parked killing belongs to the cache, not to the user
	if obj != nil && obj.state() == StateKilling {
		if c.cnn != nil {
			_ = c.cnn.Close()
		}
		o.objReclaim(obj)
		return
	}

	res := Result{
		Op:     op.cod,
		Bytes:  c.n,
		Size:   op.size(),
		Peer:   c.pee,
		Conn:   c.cnn,
		Cookie: op.cok,
	}

	res.Status = o.spakOp(op, obj, c)

	if obj != nil {
		obj.setState(StateFinished)

		if obj.tmf.Load() {
			unpoison(op.hdl)
		}
	}

	cont := op.fct(res)

	if obj != nil {
		obj.clear()
	}

	// connect and runtask use the posting itself as their handle; their
	// object leaves the map once delivered
	if obj != nil && (op.cod == OpConnect || op.cod == OpRunTask) {
		delete(o.obj, op.hdl)
	}

	if op.cod == OpAccept && cont && res.Status == libstc.OK && !o.kil.Load() {
		_ = o.enqueue(op)
	}
}

// spakOp is the per-op-code completion handler, run before the user callback
// fires. The common preamble resolves kill and timeout precedence: a killed
// object always reports Killed, and a timeout recorded before completion is
// reported instead of the poisoned platform error.
func (o *prc) spakOp(op *operation, obj *object, c *completion) libstc.Status {
	switch {
	case errors.Is(c.err, errInvalidHandle), errors.Is(c.err, errHandleBusy):
		return libstc.InvalidArgument
	case errors.Is(c.err, errNotImplemented):
		return libstc.NotImplemented
	}

	if obj != nil && obj.klf.Load() {
		return libstc.Killed
	}

	if obj != nil && obj.tmf.Load() {
		return libstc.Timeout
	}

	switch op.cod {
	case OpAccept:
		return o.spakAccept(c)

	case OpConnect:
		return o.spakConnect(c)

	case OpRecv, OpRecvV, OpURecv, OpURecvV, OpRead, OpReadV:
		return o.spakRecv(c)

	case OpSend, OpSendV, OpUSend, OpUSendV, OpSendFile, OpWrite, OpWriteV:
		return o.spakSend(c)

	case OpFSync:
		return o.spakFSync(c)

	case OpRunTask:
		if c.kld {
			return libstc.Killed
		}
		if c.err != nil {
			return libstc.Failed
		}
		return libstc.OK

	default:
		if errors.Is(c.err, errNotImplemented) {
			return libstc.NotImplemented
		}
		return libstc.InvalidArgument
	}
}

// spakAccept configures the accepted connection: a completion object is
// created for it, Nagle is disabled and the peer address is decoded.
func (o *prc) spakAccept(c *completion) libstc.Status {
	if c.err != nil {
		st := libstc.FromError(c.err)

		switch st {
		case libstc.Timeout, libstc.Killed:
			return libstc.Timeout
		default:
			return libstc.Failed
		}
	}

	if c.cnn == nil {
		return libstc.Failed
	}

	if v := o.objGet(c.cnn); v == nil {
		o.log(loglvl.ErrorLevel, "accept: creating client completion object")
	}

	if tc, k := c.cnn.(*net.TCPConn); k {
		if e := tc.SetNoDelay(true); e != nil {
			o.log(loglvl.DebugLevel, "accept: set nodelay", e)
		}
	}

	return libstc.OK
}

func (o *prc) spakConnect(c *completion) libstc.Status {
	if c.err == nil {
		if c.cnn == nil {
			return libstc.Failed
		}
		return libstc.OK
	}

	switch st := libstc.FromError(c.err); st {
	case libstc.Timeout, libstc.Killed:
		return libstc.Timeout
	case libstc.Refused, libstc.Unreachable:
		return st
	default:
		o.log(loglvl.DebugLevel, "connect", c.err)
		return libstc.Failed
	}
}

// spakRecv classifies every read-like completion. Bytes already transferred
// win over the error; a clean zero-byte end reports a half shutdown.
func (o *prc) spakRecv(c *completion) libstc.Status {
	if c.n > 0 {
		return libstc.OK
	}

	if c.err == nil {
		if c.op.size() == 0 {
			return libstc.OK
		}
		return libstc.Closed
	}

	switch libstc.FromError(c.err) {
	case libstc.Timeout:
		return libstc.Timeout
	case libstc.EOF, libstc.Reset, libstc.Closed:
		return libstc.Closed
	case libstc.MessageTooBig:
		return libstc.MessageTooBig
	default:
		return libstc.Failed
	}
}

func (o *prc) spakSend(c *completion) libstc.Status {
	if c.err == nil {
		return libstc.OK
	}

	if c.n > 0 {
		// short transfer: surface the byte count, the caller decides
		return libstc.OK
	}

	switch libstc.FromError(c.err) {
	case libstc.Timeout:
		return libstc.Timeout
	case libstc.EOF, libstc.Reset, libstc.Closed:
		return libstc.Closed
	default:
		return libstc.Failed
	}
}

func (o *prc) spakFSync(c *completion) libstc.Status {
	if c.err == nil {
		return libstc.OK
	}

	switch libstc.FromError(c.err) {
	case libstc.Closed, libstc.EOF:
		return libstc.Closed
	default:
		return libstc.Failed
	}
}

// closeHandle closes any of the supported handle kinds.
func closeHandle(h any) error {
	switch v := h.(type) {
	case net.Conn:
		return v.Close()
	case net.PacketConn:
		return v.Close()
	case net.Listener:
		return v.Close()
	case *os.File:
		return v.Close()
	case io.Closer:
		return v.Close()
	default:
		return errInvalidHandle
	}
}
