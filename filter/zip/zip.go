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

// Package zip compresses or decompresses a byte stream as a filter codec.
//
// The algorithm (gzip, bzip2, lz4, xz) and the action (deflate or inflate)
// are fixed at construction; the incremental transform rides the golib
// archive compression engines.
package zip

import (
	arccmp "github.com/nabbar/golib/archive/compress"

	libflt "github.com/sabouaram/goaio/filter"
)

// Action selects the direction of the transform.
type Action uint8

const (
	// Deflate compresses the input stream.
	Deflate Action = iota

	// Inflate decompresses the input stream.
	Inflate
)

func (a Action) String() string {
	if a == Inflate {
		return "inflate"
	}

	return "deflate"
}

// New returns a filter running the algorithm in the given direction.
func New(algo arccmp.Algorithm, act Action) libflt.Filter {
	return libflt.New(NewCodec(algo, act))
}

// NewCodec returns the bare codec for composition.
func NewCodec(algo arccmp.Algorithm, act Action) libflt.Codec {
	if act == Inflate {
		return &inflate{alg: algo}
	}

	return &deflate{alg: algo}
}
