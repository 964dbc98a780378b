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

// Package chunked decodes the HTTP/1.1 chunked transfer encoding as a
// filter codec: hex size line, chunk body, terminating zero chunk and
// optional trailer lines.
package chunked

import (
	libflt "github.com/sabouaram/goaio/filter"
)

// New returns a filter decoding chunked transfer encoding.
func New() libflt.Filter {
	return libflt.New(&dec{})
}

// NewCodec returns the bare codec for composition.
func NewCodec() libflt.Codec {
	return &dec{}
}

type state uint8

const (
	stSize state = iota
	stExt
	stSizeLF
	stData
	stDataCR
	stDataLF
	stTrailer
	stTrailerLF
	stLast
	stLastLF
	stEnd
)

type dec struct {
	st  state
	siz int64
}

func (o *dec) Open() bool {
	o.st = stSize
	o.siz = 0
	return true
}

func (o *dec) Close() {
	o.st = stSize
	o.siz = 0
}

// Spak walks the framing state machine, copying chunk payload bytes to the
// output window. The end raises once the trailer section is fully consumed.
func (o *dec) Spak(in []byte, out []byte, sync libflt.Sync) (consumed, produced int, end bool) {
	for consumed < len(in) && o.st != stEnd {
		c := in[consumed]

		switch o.st {
		case stSize:
			switch {
			case c >= '0' && c <= '9':
				o.siz = o.siz<<4 + int64(c-'0')
			case c >= 'a' && c <= 'f':
				o.siz = o.siz<<4 + int64(c-'a'+10)
			case c >= 'A' && c <= 'F':
				o.siz = o.siz<<4 + int64(c-'A'+10)
			case c == ';':
				o.st = stExt
			case c == '\r':
				o.st = stSizeLF
			default:
				return consumed, produced, true
			}
			consumed++

		case stExt:
			if c == '\r' {
				o.st = stSizeLF
			}
			consumed++

		case stSizeLF:
			if c != '\n' {
				return consumed, produced, true
			}
			consumed++

			if o.siz == 0 {
				o.st = stLast
			} else {
				o.st = stData
			}

		case stData:
			if produced >= len(out) {
				return consumed, produced, false
			}

			n := int64(len(in) - consumed)
			if n > o.siz {
				n = o.siz
			}
			if m := int64(len(out) - produced); n > m {
				n = m
			}

			copy(out[produced:], in[consumed:consumed+int(n)])
			consumed += int(n)
			produced += int(n)
			o.siz -= n

			if o.siz == 0 {
				o.st = stDataCR
			}

		case stDataCR:
			if c != '\r' {
				return consumed, produced, true
			}
			consumed++
			o.st = stDataLF

		case stDataLF:
			if c != '\n' {
				return consumed, produced, true
			}
			consumed++
			o.st = stSize

		// the zero chunk was read: an immediate CRLF ends the stream,
		// anything else is a trailer line to discard
		case stLast:
			if c == '\r' {
				o.st = stLastLF
			} else {
				o.st = stTrailer
			}
			consumed++

		case stLastLF:
			if c != '\n' {
				return consumed, produced, true
			}
			consumed++
			o.st = stEnd

		case stTrailer:
			if c == '\r' {
				o.st = stTrailerLF
			}
			consumed++

		case stTrailerLF:
			if c != '\n' {
				return consumed, produced, true
			}
			consumed++
			o.st = stLast
		}
	}

	return consumed, produced, o.st == stEnd
}
