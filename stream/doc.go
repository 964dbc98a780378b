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

// Package stream provides the uniform asynchronous stream surface of the
// engine: open, read, write, seek, sync, task and close over exchangeable
// backends (in-memory data, file, socket, http, filter composition).
//
// A stream is guarded by a finite state machine (closed, opening, opened,
// killing, killed) with CAS-protected transitions; overlapping operations
// of the same kind are forbidden, and a close arriving while the stream is
// opening is deferred until the open settles. Optional read and write
// caches batch small operations: writes accumulate until the cache fills,
// reads clamp to the cache window, and a sync drains every previously
// accepted byte before its callback fires. Chained helpers (OpenRead,
// OpenWrite, OpenSeek) open the stream on demand and then run the
// operation, forwarding the open failure to the operation callback when
// the open does not settle.
//
// Streams are created from URLs; backend packages register their scheme at
// init time, so integrators import the backends they need (or the env
// package which imports them all) and call FromURL.
//
// A stream is single-owner: one goroutine drives it, even through the
// asynchronous API.
package stream
