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
	"errors"
	"net"
	"os"
	"time"
)

func (o *pool) Put(c net.Conn) bool {
	if c == nil || c.RemoteAddr() == nil {
		return false
	}

	key := c.RemoteAddr().String()
	if key == "" {
		return false
	}

	o.mux.Lock()
	defer o.mux.Unlock()

	if o.cls {
		return false
	}

	if len(o.ent[key]) >= o.kmx {
		return false
	}

	if o.cnt >= o.tmx {
		o.evictLocked()
	}

	if o.cnt >= o.tmx {
		return false
	}

	o.ent[key] = append(o.ent[key], c)
	o.ord = append(o.ord, key)
	o.cnt++

	return true
}

func (o *pool) Get(key string) net.Conn {
	if key == "" {
		return nil
	}

	for {
		o.mux.Lock()

		lst := o.ent[key]
		if len(lst) == 0 {
			o.mux.Unlock()
			return nil
		}

		c := lst[0]
		o.ent[key] = lst[1:]
		o.cnt--
		o.dropOrderLocked(key)

		o.mux.Unlock()

		if alive(c) {
			return c
		}

		_ = c.Close()
	}
}

func (o *pool) Len() int {
	o.mux.Lock()
	defer o.mux.Unlock()
	return o.cnt
}

func (o *pool) Clean() {
	o.mux.Lock()

	ent := o.ent
	o.ent = make(map[string][]net.Conn)
	o.ord = nil
	o.cnt = 0

	o.mux.Unlock()

	for _, lst := range ent {
		for _, c := range lst {
			_ = c.Close()
		}
	}
}

func (o *pool) Close() error {
	o.mux.Lock()
	o.cls = true
	o.mux.Unlock()

	o.Clean()

	return nil
}

// evictLocked drops the oldest pooled connection.
func (o *pool) evictLocked() {
	for len(o.ord) > 0 {
		key := o.ord[0]
		o.ord = o.ord[1:]

		lst := o.ent[key]
		if len(lst) == 0 {
			continue
		}

		c := lst[0]
		o.ent[key] = lst[1:]
		o.cnt--

		go func() {
			_ = c.Close()
		}()

		return
	}
}

// dropOrderLocked removes one occurrence of the key from the age list.
func (o *pool) dropOrderLocked(key string) {
	for i, k := range o.ord {
		if k == key {
			o.ord = append(o.ord[:i], o.ord[i+1:]...)
			return
		}
	}
}

// alive probes the connection with an immediate read deadline: a deadline
// error means the peer is still silent and the connection usable; anything
// else (data, EOF, reset) disqualifies it.
func alive(c net.Conn) bool {
	if e := c.SetReadDeadline(time.Now().Add(time.Millisecond)); e != nil {
		return false
	}

	var b [1]byte

	n, err := c.Read(b[:])

	if e := c.SetReadDeadline(time.Time{}); e != nil {
		return false
	}

	if n > 0 {
		return false
	}

	return errors.Is(err, os.ErrDeadlineExceeded)
}
