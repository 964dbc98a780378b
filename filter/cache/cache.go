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

// Package cache is the identity filter: bytes pass through unchanged, but
// output is withheld until a minimum chunk accumulates, forcing buffering
// onto the hosting stream.
package cache

import (
	libflt "github.com/sabouaram/goaio/filter"
)

// DefaultChunk is the buffering threshold when none is given.
const DefaultChunk = 4096

// New returns an identity filter gathering at least min bytes per output,
// DefaultChunk when min is not positive.
func New(min int) libflt.Filter {
	return libflt.New(NewCodec(min))
}

// NewCodec returns the bare codec for composition.
func NewCodec(min int) libflt.Codec {
	if min <= 0 {
		min = DefaultChunk
	}

	return &idt{min: min}
}

type idt struct {
	min int
}

func (o *idt) Open() bool {
	return true
}

func (o *idt) Close() {}

func (o *idt) Spak(in []byte, out []byte, sync libflt.Sync) (consumed, produced int, end bool) {
	// steady state holds input back until the chunk threshold
	if sync == libflt.SyncNone && len(in) < o.min {
		return 0, 0, false
	}

	n := len(in)
	if n > len(out) {
		n = len(out)
	}

	copy(out, in[:n])

	return n, n, false
}
