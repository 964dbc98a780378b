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
	"sync/atomic"
	"time"

	libtmw "github.com/sabouaram/goaio/timerwheel"
)

// State is the lifecycle state of a completion object.
type State uint8

const (
	// StateOK is the idle state of a cleared object.
	StateOK State = iota

	// StateKilling marks an object parked in the cache while its cancelled
	// operation has not completed yet.
	StateKilling

	// StatePending marks an operation dequeued by the worker but not yet
	// issued.
	StatePending

	// StateWaiting marks an operation in flight.
	StateWaiting

	// StateFinished marks an operation whose completion arrived and is
	// being delivered.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateKilling:
		return "killing"
	case StatePending:
		return "pending"
	case StateWaiting:
		return "waiting"
	case StateFinished:
		return "finished"
	default:
		return "ok"
	}
}

// object is the per-handle completion state record. It is owned by the
// worker goroutine; only the killed and timeout flags are shared.
type object struct {
	hdl any
	stt atomic.Int32
	opc OpCode
	tmo libtmw.Task // armed timeout task, nil when none
	tmf atomic.Bool // timeout fired before completion
	klf atomic.Bool // handle killed while in flight
	skp bool        // skip completion port on synchronous success
	prv []byte      // private scratch buffer, reused across operations
}

func (o *object) state() State {
	return State(o.stt.Load())
}

func (o *object) setState(s State) {
	o.stt.Store(int32(s))
}

func (o *object) casState(old, new State) bool {
	return o.stt.CompareAndSwap(int32(old), int32(new))
}

// clear resets the object to its idle state. The private buffer is kept for
// reuse; flags and op code are dropped.
func (o *object) clear() {
	o.opc = OpNone
	o.tmo = nil
	o.tmf.Store(false)
	o.klf.Store(false)
	o.setState(StateOK)
}

// scratch returns the private buffer grown to at least n bytes.
func (o *object) scratch(n int) []byte {
	if cap(o.prv) < n {
		o.prv = make([]byte, n)
	}
	return o.prv[:n]
}

// objGet returns the completion object of the handle, reclaiming an idle
// cache entry or allocating when the handle is seen for the first time.
// Only the worker goroutine may call it.
func (o *prc) objGet(h any) *object {
	if h == nil {
		return nil
	}

	if v, k := o.obj[h]; k {
		return v
	}

	var v *object

	for i, c := range o.cch {
		if c.state() != StateKilling {
			o.cch = append(o.cch[:i], o.cch[i+1:]...)
			v = c
			break
		}
	}

	if v == nil {
		v = new(object)
	}

	v.clear()
	v.hdl = h
	o.obj[h] = v

	return v
}

// objRemove detaches the handle. An idle object is cleared and cached; an
// object with an operation in flight is parked as killing, its handle
// poisoned, and reclaimed by the cache when the cancelled completion
// arrives. Cache entries beyond the cap are swept first.
func (o *prc) objRemove(h any) {
	v, k := o.obj[h]
	if !k {
		return
	}

	o.objSweep()

	delete(o.obj, h)

	if v.state() == StateWaiting {
		v.setState(StateKilling)
		v.klf.Store(true)
		poison(h)
		o.cch = append(o.cch, v)
		return
	}

	v.clear()
	v.hdl = nil

	if len(o.cch) < o.cfg.CacheMax {
		o.cch = append(o.cch, v)
	}
}

// objSweep frees cache entries beyond the cap that are not killing.
func (o *prc) objSweep() {
	if len(o.cch) <= o.cfg.CacheMax {
		return
	}

	var keep = make([]*object, 0, o.cfg.CacheMax)

	for _, c := range o.cch {
		if c.state() == StateKilling || len(keep) < o.cfg.CacheMax {
			keep = append(keep, c)
		}
	}

	o.cch = keep
}

// objReclaim returns a killing object to the cache pool once its cancelled
// completion has drained.
func (o *prc) objReclaim(v *object) {
	v.clear()
	v.hdl = nil

	if len(o.cch) > o.cfg.CacheMax {
		o.objSweep()
	}
}

// deadliner is implemented by every handle whose in-flight operations can be
// cancelled by poisoning its deadline.
type deadliner interface {
	SetDeadline(t time.Time) error
}

// poison forces any blocked operation on the handle to complete immediately.
func poison(h any) {
	if d, k := h.(deadliner); k {
		_ = d.SetDeadline(time.Unix(1, 0))
	}
}

// unpoison clears the handle deadline so the handle stays usable after a
// timeout completion.
func unpoison(h any) {
	if d, k := h.(deadliner); k {
		_ = d.SetDeadline(time.Time{})
	}
}
