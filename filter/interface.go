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

package filter

import (
	"bytes"
)

// defaultNeed is the output window used when the caller asks for whatever
// is available.
const defaultNeed = 8192

// Sync drives the flushing behavior of a Spak call.
type Sync int8

const (
	// SyncEnd closes the transform: every buffered byte is drained and the
	// filter reports the end when empty.
	SyncEnd Sync = -1

	// SyncNone is the steady state: output is returned only once the ring
	// holds at least the needed byte count.
	SyncNone Sync = 0

	// SyncFlush returns whatever the ring holds, up to the needed count.
	SyncFlush Sync = 1
)

// Codec is one concrete transform hosted by a Filter.
//
// Spak consumes bytes from in, produces bytes into out, and returns how many
// of each, plus the end flag once the transform will never produce again.
// Unconsumed input is handed back on the next call, extended with newly
// arrived bytes.
type Codec interface {
	// Open prepares the transform; false fails the hosting filter open.
	Open() bool

	// Close releases the transform state; the codec may be opened again.
	Close()

	// Spak transforms in into out with the given sync flag.
	Spak(in []byte, out []byte, sync Sync) (consumed int, produced int, end bool)
}

// Filter is an incremental byte transformer with carry-over input and a
// bounded output ring.
//
// A Filter is single-owner: the hosting stream drives it without locking.
type Filter interface {
	// Open opens the codec; a Filter must be opened before Spak.
	Open() bool

	// Close drops the buffered state and closes the codec; the filter can
	// be opened again afterwards.
	Close()

	// IsOpened returns true between Open and Close.
	IsOpened() bool

	// IsEOF returns true once the input limit was reached, a SyncEnd call
	// was made, or the codec signalled the end.
	IsEOF() bool

	// SetLimit bounds the total input byte count, -1 meaning unlimited.
	// Reaching the limit raises EOF.
	SetLimit(n int64)

	// Limit returns the input byte limit, -1 when unlimited.
	Limit() int64

	// Offset returns the total input bytes accepted so far.
	Offset() int64

	// Spak feeds data and asks for need transformed bytes (zero means
	// whatever is available). The returned slice is only valid until the
	// next call. The end result is true once the filter is fully drained
	// after EOF.
	Spak(data []byte, need int, sync Sync) (out []byte, end bool)
}

// New hosts the codec in a filter shell.
func New(c Codec) Filter {
	if c == nil {
		return nil
	}

	return &fil{
		cdc: c,
		lim: -1,
	}
}

type fil struct {
	cdc Codec
	opn bool
	eof bool
	fin bool // end already reported once drained
	lim int64
	off int64
	idt bytes.Buffer // carry-over input
	odt bytes.Buffer // output ring
	win []byte       // reusable transform window
}
