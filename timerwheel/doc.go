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

// Package timerwheel provides the two monotonic timer structures used by the
// proactor: a high-precision wheel (millisecond granularity) for absolute
// scheduled tasks and opt-in fine timeouts, and a low-precision wheel
// (second granularity by default) for the bulk of the per-operation
// timeouts, where many tasks with similar deadlines share a slot.
//
// Both wheels share the same contract: schedule at an absolute time or after
// a delay, cancel (the callback observes a killed flag), query the delay
// until the next fire, and Spak to run every task that is due. Deadlines are
// measured on a monotonic clock so wall-clock skips never fire or starve a
// task. One-shot tasks are discarded after they fire; periodic tasks are
// rescheduled at now plus their period.
package timerwheel
