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
	"math"
	"sync"
	"time"
)

// InfiniteDelay is returned by Delay when the wheel holds no task.
const InfiniteDelay = time.Duration(math.MaxInt64)

// DefaultLowPrecision is the slot granularity of a low-precision wheel.
const DefaultLowPrecision = time.Second

// FuncTask is the callback invoked when a task fires or is killed.
// The killed flag is true when the task was cancelled instead of expiring.
type FuncTask func(killed bool)

// Task is the handle of a scheduled task. A task belongs to exactly one
// wheel from schedule until fire, kill or exit.
type Task interface {
	// Deadline returns the absolute fire time of the task on the wheel's
	// monotonic clock, in milliseconds.
	Deadline() int64

	// Period returns the repeat period, zero for a one-shot task.
	Period() time.Duration

	// IsKilled returns true once the task has been cancelled.
	IsKilled() bool
}

// Wheel is a monotonic timer wheel.
//
// The structure itself is safe for concurrent scheduling, but Spak is meant
// to be driven by a single owner (the proactor worker).
type Wheel interface {
	// Clock returns the wheel's monotonic now in milliseconds. In cached
	// mode the value only advances on Spak.
	Clock() int64

	// Top returns the next absolute deadline in milliseconds, or
	// math.MaxInt64 when the wheel is empty.
	Top() int64

	// Delay returns the duration until the next fire, zero when a task is
	// already due, or InfiniteDelay when the wheel is empty.
	Delay() time.Duration

	// Spak fires every task that is due, delivering the killed flag to
	// cancelled tasks. It returns false only on a wheel that was exited.
	Spak() bool

	// Post schedules a fire-and-forget one-shot task after the delay.
	Post(delay time.Duration, fct FuncTask)

	// PostAt schedules a fire-and-forget one-shot task at the absolute time.
	PostAt(when time.Time, fct FuncTask)

	// TaskInit schedules a task after the delay and returns its handle.
	// A zero period makes the task one-shot. A nil callback returns nil.
	TaskInit(delay, period time.Duration, fct FuncTask) Task

	// TaskInitAt schedules a task at the absolute time, see TaskInit.
	TaskInitAt(when time.Time, period time.Duration, fct FuncTask) Task

	// Kill cancels a task: its callback fires with the killed flag at the
	// next Spak and the task leaves the wheel.
	Kill(t Task)

	// TaskExit removes a task from the wheel without firing its callback.
	TaskExit(t Task)

	// Len returns the number of scheduled tasks.
	Len() int

	// Exit poisons the wheel: pending tasks are dropped, their callbacks
	// fire once with the killed flag, and any further Spak returns false.
	Exit()
}

// New returns a Wheel with the given initial capacity and slot precision.
//
// A precision of one millisecond or lower yields a high-precision wheel;
// larger precisions round every deadline up to the next slot boundary so
// that tasks with near deadlines fire together. When cacheTime is true, the
// monotonic clock is only refreshed on Spak, trading accuracy for fewer
// clock reads on hot paths.
func New(capacity int, precision time.Duration, cacheTime bool) Wheel {
	if capacity < 0 {
		capacity = 0
	}

	if precision < time.Millisecond {
		precision = time.Millisecond
	}

	return &wheel{
		m: sync.Mutex{},
		e: time.Now(),
		p: precision.Milliseconds(),
		c: cacheTime,
		t: make(taskHeap, 0, capacity),
	}
}

// HighPrecision returns a millisecond-granularity wheel.
func HighPrecision(capacity int) Wheel {
	return New(capacity, time.Millisecond, false)
}

// LowPrecision returns a wheel with DefaultLowPrecision granularity and a
// cached clock, suitable for the default operation timeouts.
func LowPrecision(capacity int) Wheel {
	return New(capacity, DefaultLowPrecision, true)
}
