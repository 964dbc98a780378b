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

// Package filter provides the incremental push/pull byte transformer driven
// by the stream layer.
//
// A Filter accepts arbitrary input slices through Spak and yields
// transformed bytes on demand. Input the per-filter codec does not consume
// is preserved in a carry-over buffer for the next call, transformed output
// accumulates in a bounded ring drained by the caller, and an input byte
// limit or the codec itself may raise the EOF condition. Once EOF is
// reached, further Spak calls only drain the ring and finally report the
// end.
//
// The sync argument drives flushing: SyncNone is the steady state, SyncFlush
// asks for whatever the ring holds, SyncEnd closes the transform and drains
// everything, including bytes the codec had buffered internally.
//
// Concrete transforms live in the sub-packages: chunked (HTTP/1.1 chunked
// decoding), zip (compression algorithms), charset (character set
// conversion) and cache (identity buffering).
package filter
