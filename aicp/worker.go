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
	"time"

	liberr "github.com/nabbar/golib/errors"
	loglvl "github.com/nabbar/golib/logger/level"
	libedp "github.com/sabouaram/goaio/endpoint"
	libstc "github.com/sabouaram/goaio/statuscode"
)

// idleGuard bounds the idle sleep so the worker periodically re-checks its
// kill flag even with empty wheels.
const idleGuard = 500 * time.Millisecond

// completion is one completed operation travelling through the port.
type completion struct {
	op  *operation
	obj *object
	n   int
	err error
	pee libedp.Endpoint
	cnn net.Conn
	kld bool // wheel delivered the killed flag (runtask)
}

func (o *prc) worker() {
	defer func() {
		o.run.Store(false)
		close(o.end)
	}()

	for {
		if o.kil.Load() {
			o.shutdown()
			return
		}

		o.mux.Lock()

		var op *operation

		if len(o.qhi) > 0 {
			op = o.qhi[0]
			o.qhi = o.qhi[1:]
		} else if len(o.qlo) > 0 {
			op = o.qlo[0]
			o.qlo = o.qlo[1:]
		}

		kills := o.kls
		o.kls = make([]any, 0, o.cfg.killSize())

		o.mux.Unlock()

		for _, h := range kills {
			if v, k := o.obj[h]; k {
				v.klf.Store(true)
			}
			poison(h)
		}

		if op != nil {
			o.issue(op)
		}

		o.hpw.Spak()
		o.lpw.Spak()

		busy := o.drain()

		if op == nil && !busy {
			o.idle()
		}
	}
}

// drain dispatches every completion currently queued on the port without
// blocking. It returns true when at least one entry was dispatched.
func (o *prc) drain() bool {
	var got bool

	for {
		select {
		case c := <-o.prt:
			o.dispatch(c)
			got = true
		default:
			return got
		}
	}
}

// idle sleeps until a posting wakes the worker, a completion arrives, or the
// nearer timer wheel is due.
func (o *prc) idle() {
	d := o.hpw.Delay()

	if l := o.lpw.Delay(); l < d {
		d = l
	}

	if d > idleGuard {
		d = idleGuard
	}

	if d < 0 {
		d = 0
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-o.wke:
	case c := <-o.prt:
		o.dispatch(c)
	case <-t.C:
	}
}

// issue translates one dequeued operation into its platform primitive.
func (o *prc) issue(op *operation) {
	if op.rem {
		o.objRemove(op.hdl)
		return
	}

	switch op.cod {
	case OpRunTask:
		o.issueRunTask(op)
		return
	case OpClose:
		o.issueClose(op)
		return
	}

	obj := o.objGet(op.hdl)

	// synthetic failures dispatch inline: the worker cannot wait on its
	// own completion port
	if obj == nil {
		o.dispatch(&completion{op: op, err: errInvalidHandle})
		return
	}

	if obj.state() != StateOK {
		o.dispatch(&completion{op: op, err: errHandleBusy})
		return
	}

	fn := issuers[op.cod]
	if fn == nil {
		o.dispatch(&completion{op: op, obj: obj, err: errNotImplemented})
		return
	}

	obj.opc = op.cod
	obj.skp = o.skipArmed(op.hdl)
	obj.setState(StateWaiting)

	if op.tmo > 0 {
		h := op.hdl
		obj.tmo = o.lpw.TaskInit(op.tmo, 0, func(killed bool) {
			if killed {
				return
			}
			obj.tmf.Store(true)
			poison(h)
		})
	}

	go fn(o, op, obj)
}

// issueRunTask arms the high-precision wheel for the absolute fire time.
func (o *prc) issueRunTask(op *operation) {
	obj := o.objGet(op.hdl)
	if obj == nil {
		o.dispatch(&completion{op: op, err: errInvalidHandle})
		return
	}

	obj.opc = OpRunTask
	obj.setState(StateWaiting)

	// the wheel fires on the worker, so the completion dispatches inline
	tsk := o.hpw.TaskInitAt(op.whn, 0, func(killed bool) {
		o.dispatch(&completion{op: op, obj: obj, kld: killed})
	})

	if tsk == nil {
		o.dispatch(&completion{op: op, obj: obj, err: errInvalidHandle})
	}
}

// issueClose runs inline on the worker: the handle is closed or recycled to
// the socket pool and the callback observes OK.
func (o *prc) issueClose(op *operation) {
	var (
		h      = op.hdl
		v      = o.obj[h]
		killed bool
		pooled bool
	)

	if v != nil {
		killed = v.klf.Load() || v.state() == StateKilling
		if v.tmo != nil {
			o.lpw.TaskExit(v.tmo)
			v.tmo = nil
		}
	}

	// pool-on-close-unless-killed
	if cn, k := h.(net.Conn); k && o.cfg.Pool != nil && !killed {
		pooled = o.cfg.Pool.Put(cn)
	}

	if !pooled {
		if e := closeHandle(h); e != nil {
			o.log(loglvl.ErrorLevel, "closing handle", e)
		}
	}

	o.objRemove(h)

	op.fct(Result{
		Op:     OpClose,
		Status: libstc.OK,
		Cookie: op.cok,
	})
}

// shutdown fails the queued operations, cancels the in-flight ones and
// drains their completions, then destroys the wheels.
func (o *prc) shutdown() {
	o.mux.Lock()
	ops := make([]*operation, 0, len(o.qhi)+len(o.qlo))
	ops = append(ops, o.qhi...)
	ops = append(ops, o.qlo...)
	o.qhi = nil
	o.qlo = nil
	o.mux.Unlock()

	for _, op := range ops {
		if op.fct != nil {
			op.fct(Result{
				Op:     op.cod,
				Status: libstc.Killed,
				Size:   op.size(),
				Cookie: op.cok,
			})
		}
	}

	for h, v := range o.obj {
		if v.state() == StateWaiting {
			v.klf.Store(true)
			poison(h)
		}
	}

	// exiting the wheels first settles every scheduled task inline as
	// killed, so only true in-flight I/O remains to drain
	o.hpw.Exit()
	o.lpw.Exit()

	dl := time.Now().Add(o.cfg.ExitTimeout)

	for o.waiting() > 0 && time.Now().Before(dl) {
		select {
		case c := <-o.prt:
			o.dispatch(c)
		case <-time.After(10 * time.Millisecond):
		}
	}

	o.drain()
}

func (o *prc) waiting() int {
	var n int

	for _, v := range o.obj {
		if v.state() == StateWaiting {
			n++
		}
	}

	return n
}

func (o *prc) Kill() {
	o.kil.Store(true)
	o.wake()
}

func (o *prc) Exit() liberr.Error {
	o.Kill()

	select {
	case <-o.end:
		return nil
	case <-time.After(o.cfg.ExitTimeout + time.Second):
		return ErrorExitTimeout.Error(nil)
	}
}

func (o *prc) IsRunning() bool {
	return o.run.Load()
}

func (o *prc) KillHandle(h any) {
	if h == nil {
		return
	}

	o.mux.Lock()
	o.kls = append(o.kls, h)
	o.mux.Unlock()

	o.wake()
}

func (o *prc) RemoveHandle(h any) {
	if h == nil {
		return
	}

	op := &operation{hdl: h, rem: true}

	o.mux.Lock()
	o.qhi = append(o.qhi, op)
	o.mux.Unlock()

	o.wake()
}

func (o *prc) SetSkipOnSuccess(h any, skip bool) {
	if h == nil {
		return
	}

	o.mux.Lock()

	if o.skp == nil {
		o.skp = make(map[any]bool)
	}

	if skip {
		o.skp[h] = true
	} else {
		delete(o.skp, h)
	}

	o.mux.Unlock()
}

func (o *prc) skipArmed(h any) bool {
	o.mux.Lock()
	defer o.mux.Unlock()
	return o.skp[h]
}

func (o *prc) log(lvl loglvl.Level, msg string, err ...error) {
	if o.cfg.Logger == nil {
		return
	}

	if l := o.cfg.Logger(); l != nil {
		l.Entry(lvl, msg).ErrorAdd(true, err...).Log()
	}
}
