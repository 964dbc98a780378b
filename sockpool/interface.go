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

package sockpool

import (
	"net"
	"sync"
)

const (
	// DefaultMaxPerKey caps pooled connections per remote address.
	DefaultMaxPerKey = 8

	// DefaultMaxTotal caps pooled connections across all keys.
	DefaultMaxTotal = 64
)

// Pool is a keep-alive socket pool keyed by remote address.
//
// All methods are safe for concurrent use.
type Pool interface {
	// Put parks the connection for reuse. It returns false when the pool is
	// full, the connection carries no usable remote address, or the pool is
	// closed; the caller then owns the close.
	Put(c net.Conn) bool

	// Get returns a live pooled connection to the given remote address, or
	// nil when none is available. Dead entries found on the way are closed
	// and dropped.
	Get(key string) net.Conn

	// Len returns the number of pooled connections.
	Len() int

	// Clean closes and drops every pooled connection.
	Clean()

	// Close cleans the pool and refuses further puts.
	Close() error
}

// New creates a Pool with the given bounds; zero values select the defaults.
func New(maxPerKey, maxTotal int) Pool {
	if maxPerKey <= 0 {
		maxPerKey = DefaultMaxPerKey
	}

	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotal
	}

	return &pool{
		kmx: maxPerKey,
		tmx: maxTotal,
		ent: make(map[string][]net.Conn),
	}
}

type pool struct {
	mux sync.Mutex
	kmx int
	tmx int
	cnt int
	cls bool
	ent map[string][]net.Conn
	ord []string // insertion order for oldest-first eviction
}
