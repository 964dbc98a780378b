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

package timerwheel

import (
	"container/heap"
	"math"
	"sync"
	"time"
)

type task struct {
	dl int64 // absolute deadline, monotonic ms
	pd int64 // period ms, 0 = one shot
	fn FuncTask
	kl bool // killed
	ix int  // heap index, -1 once out of the wheel
}

func (t *task) Deadline() int64 {
	return t.dl
}

func (t *task) Period() time.Duration {
	return time.Duration(t.pd) * time.Millisecond
}

func (t *task) IsKilled() bool {
	return t.kl
}

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	// killed tasks sort first so the next spak collects them immediately
	if h[i].kl != h[j].kl {
		return h[i].kl
	}
	return h[i].dl < h[j].dl
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].ix = i
	h[j].ix = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.ix = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.ix = -1
	*h = old[:n-1]
	return t
}

type wheel struct {
	m sync.Mutex
	e time.Time // monotonic epoch
	p int64     // precision ms
	c bool      // cached clock mode
	n int64     // cached now
	t taskHeap
	x bool // exited
}

func (o *wheel) nowLocked() int64 {
	if o.c {
		return o.n
	}
	return time.Since(o.e).Milliseconds()
}

func (o *wheel) Clock() int64 {
	o.m.Lock()
	defer o.m.Unlock()
	return o.nowLocked()
}

func (o *wheel) Top() int64 {
	o.m.Lock()
	defer o.m.Unlock()

	if len(o.t) == 0 {
		return math.MaxInt64
	}

	return o.t[0].dl
}

func (o *wheel) Delay() time.Duration {
	o.m.Lock()
	defer o.m.Unlock()

	if len(o.t) == 0 {
		return InfiniteDelay
	}

	d := o.t[0].dl - time.Since(o.e).Milliseconds()
	if d <= 0 || o.t[0].kl {
		return 0
	}

	return time.Duration(d) * time.Millisecond
}

// align rounds a deadline up to the next slot boundary so that tasks with
// close deadlines share a fire.
func (o *wheel) align(dl int64) int64 {
	if o.p <= 1 {
		return dl
	}

	if r := dl % o.p; r != 0 {
		return dl + o.p - r
	}

	return dl
}

func (o *wheel) schedule(dl int64, period time.Duration, fct FuncTask) Task {
	if fct == nil {
		return nil
	}

	var pd int64
	if period > 0 {
		pd = period.Milliseconds()
		if pd < 1 {
			pd = 1
		}
	}

	t := &task{
		dl: o.align(dl),
		pd: pd,
		fn: fct,
	}

	o.m.Lock()
	defer o.m.Unlock()

	if o.x {
		return nil
	}

	heap.Push(&o.t, t)
	return t
}

func (o *wheel) Post(delay time.Duration, fct FuncTask) {
	o.schedule(time.Since(o.e).Milliseconds()+delay.Milliseconds(), 0, fct)
}

func (o *wheel) PostAt(when time.Time, fct FuncTask) {
	o.schedule(when.Sub(o.e).Milliseconds(), 0, fct)
}

func (o *wheel) TaskInit(delay, period time.Duration, fct FuncTask) Task {
	return o.schedule(time.Since(o.e).Milliseconds()+delay.Milliseconds(), period, fct)
}

func (o *wheel) TaskInitAt(when time.Time, period time.Duration, fct FuncTask) Task {
	return o.schedule(when.Sub(o.e).Milliseconds(), period, fct)
}

func (o *wheel) Kill(t Task) {
	v, k := t.(*task)
	if !k || v == nil {
		return
	}

	o.m.Lock()
	defer o.m.Unlock()

	if v.ix < 0 || v.kl {
		return
	}

	v.kl = true
	heap.Fix(&o.t, v.ix)
}

func (o *wheel) TaskExit(t Task) {
	v, k := t.(*task)
	if !k || v == nil {
		return
	}

	o.m.Lock()
	defer o.m.Unlock()

	if v.ix < 0 {
		return
	}

	heap.Remove(&o.t, v.ix)
}

func (o *wheel) Len() int {
	o.m.Lock()
	defer o.m.Unlock()
	return len(o.t)
}

func (o *wheel) Spak() bool {
	o.m.Lock()

	if o.x {
		o.m.Unlock()
		return false
	}

	if o.c {
		o.n = time.Since(o.e).Milliseconds()
	}

	now := time.Since(o.e).Milliseconds()

	var due []*task

	for len(o.t) > 0 && (o.t[0].kl || o.t[0].dl <= now) {
		t := heap.Pop(&o.t).(*task)

		if !t.kl && t.pd > 0 {
			r := &task{
				dl: o.align(now + t.pd),
				pd: t.pd,
				fn: t.fn,
			}
			heap.Push(&o.t, r)
		}

		due = append(due, t)
	}

	o.m.Unlock()

	// callbacks run without the lock so a task may reschedule freely
	for _, t := range due {
		t.fn(t.kl)
	}

	return true
}

func (o *wheel) Exit() {
	o.m.Lock()

	if o.x {
		o.m.Unlock()
		return
	}

	o.x = true
	drop := o.t
	o.t = nil

	o.m.Unlock()

	for _, t := range drop {
		t.ix = -1
		t.fn(true)
	}
}
