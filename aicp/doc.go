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

// Package aicp implements the completion-based asynchronous I/O proactor.
//
// A Proactor accepts complete operations (accept, connect, receive, send,
// file read/write, fsync, scheduled tasks, close) posted together with a
// completion callback, runs them against the underlying handles, and invokes
// the callback exactly once with the final Result. Operations are queued on
// two priority FIFOs (connection-level postings ahead of data postings),
// consumed by a single worker goroutine that owns the completion port, the
// two timer wheels and the per-handle completion objects.
//
// Timeouts are tracked per operation on the low-precision wheel (the
// high-precision wheel serves absolute scheduled tasks); a fired timeout
// poisons the handle deadline so the in-flight operation completes, and the
// completion path reports Timeout instead of the poisoned platform error.
// Cancellation follows the same path: killing a handle from any goroutine
// appends it to the kill list, the worker poisons it, and every aborted
// operation is delivered with the Killed status, never lost and never
// delivered twice.
//
// Completion objects are cached per proactor (up to CacheMax idle entries)
// so hot accept and read paths do not churn the allocator, and a handle
// removed while an operation is in flight parks its object in the cache in
// the killing state until the cancelled completion arrives.
package aicp
