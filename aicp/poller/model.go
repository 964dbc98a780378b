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

package poller

import (
	"net"
	"time"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libedp "github.com/sabouaram/goaio/endpoint"
)

// record converts a completion into an entry and signals the waiters.
// Accept completions are never reposted from here: the integrator drives
// the pace by posting again after draining the event.
func (o *pol) record(res libcpl.Result) bool {
	o.mux.Lock()

	o.que = append(o.que, Entry{
		Events: eventOf(res.Op, res.Status),
		Status: res.Status,
		Bytes:  res.Bytes,
		Peer:   res.Peer,
		Conn:   res.Conn,
		Cookie: res.Cookie,
	})

	o.mux.Unlock()

	select {
	case o.sig <- struct{}{}:
	default:
	}

	return false
}

func (o *pol) PostAccept(l net.Listener, timeout time.Duration, cookie any) liberr.Error {
	return o.prc.PostAccept(l, timeout, cookie, o.record)
}

func (o *pol) PostConnect(network string, e libedp.Endpoint, timeout time.Duration, cookie any) liberr.Error {
	return o.prc.PostConnect(network, e, timeout, cookie, o.record)
}

func (o *pol) PostRecv(c net.Conn, buf []byte, timeout time.Duration, cookie any) liberr.Error {
	return o.prc.PostRecv(c, buf, timeout, cookie, o.record)
}

func (o *pol) PostSend(c net.Conn, buf []byte, timeout time.Duration, cookie any) liberr.Error {
	return o.prc.PostSend(c, buf, timeout, cookie, o.record)
}

func (o *pol) PostURecv(c net.PacketConn, buf []byte, timeout time.Duration, cookie any) liberr.Error {
	return o.prc.PostURecv(c, buf, timeout, cookie, o.record)
}

func (o *pol) PostUSend(c net.PacketConn, e libedp.Endpoint, buf []byte, timeout time.Duration, cookie any) liberr.Error {
	return o.prc.PostUSend(c, e, buf, timeout, cookie, o.record)
}

func (o *pol) Pending() int {
	o.mux.Lock()
	defer o.mux.Unlock()
	return len(o.que)
}

func (o *pol) Wait(max int, timeout time.Duration) []Entry {
	if max <= 0 {
		max = 1
	}

	var dl <-chan time.Time

	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		dl = t.C
	}

	for {
		if res := o.take(max); res != nil {
			return res
		}

		select {
		case <-o.sig:
		case <-dl:
			return o.take(max)
		}
	}
}

func (o *pol) take(max int) []Entry {
	o.mux.Lock()
	defer o.mux.Unlock()

	if len(o.que) == 0 {
		return nil
	}

	n := max
	if n > len(o.que) {
		n = len(o.que)
	}

	res := make([]Entry, n)
	copy(res, o.que)
	o.que = o.que[n:]

	return res
}
