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
	"sync"
	"time"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libedp "github.com/sabouaram/goaio/endpoint"
	libstc "github.com/sabouaram/goaio/statuscode"
)

// Event is a bitmask of completion kinds.
type Event uint8

const (
	// EventRecv marks a completed receive-like operation.
	EventRecv Event = 1 << iota

	// EventSend marks a completed send-like operation.
	EventSend

	// EventAccept marks an accepted connection.
	EventAccept

	// EventConn marks a completed outbound connect.
	EventConn

	// EventError marks a completion that did not end with the OK status.
	EventError
)

// Has returns true when the mask contains the given event.
func (e Event) Has(v Event) bool {
	return e&v != 0
}

// Entry is one drained completion, presented as an event.
type Entry struct {
	// Events is the completion kind mask.
	Events Event

	// Status is the final state of the underlying operation.
	Status libstc.Status

	// Bytes is the number of bytes transferred.
	Bytes int

	// Peer is the remote endpoint for accept and unconnected receive.
	Peer libedp.Endpoint

	// Conn is the new connection for accept and connect.
	Conn net.Conn

	// Cookie is the opaque value given at posting time.
	Cookie any
}

// Poller drains proactor completions as event batches.
//
// Operations are posted with the same semantics as the proactor Post
// methods; completions accumulate until collected by Wait.
type Poller interface {
	// PostAccept queues one accept on the listener.
	PostAccept(l net.Listener, timeout time.Duration, cookie any) liberr.Error

	// PostConnect queues one outbound connect.
	PostConnect(network string, e libedp.Endpoint, timeout time.Duration, cookie any) liberr.Error

	// PostRecv queues one receive on the connection.
	PostRecv(c net.Conn, buf []byte, timeout time.Duration, cookie any) liberr.Error

	// PostSend queues one send on the connection.
	PostSend(c net.Conn, buf []byte, timeout time.Duration, cookie any) liberr.Error

	// PostURecv queues one datagram receive.
	PostURecv(c net.PacketConn, buf []byte, timeout time.Duration, cookie any) liberr.Error

	// PostUSend queues one datagram send to the endpoint.
	PostUSend(c net.PacketConn, e libedp.Endpoint, buf []byte, timeout time.Duration, cookie any) liberr.Error

	// Wait blocks until at least one completion is available or the timeout
	// elapses, then returns up to max entries. A nil slice means timeout.
	Wait(max int, timeout time.Duration) []Entry

	// Pending returns the number of completions waiting to be drained.
	Pending() int
}

// New wraps the proactor with the event front-end.
func New(p libcpl.Proactor) (Poller, liberr.Error) {
	if p == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	return &pol{
		prc: p,
		sig: make(chan struct{}, 1),
	}, nil
}

type pol struct {
	mux sync.Mutex
	prc libcpl.Proactor
	que []Entry
	sig chan struct{}
}

// eventOf converts an operation code and status into the event mask.
func eventOf(op libcpl.OpCode, st libstc.Status) Event {
	var e Event

	switch op {
	case libcpl.OpAccept:
		e = EventAccept
	case libcpl.OpConnect:
		e = EventConn
	case libcpl.OpRecv, libcpl.OpRecvV, libcpl.OpURecv, libcpl.OpURecvV,
		libcpl.OpRead, libcpl.OpReadV:
		e = EventRecv
	case libcpl.OpSend, libcpl.OpSendV, libcpl.OpUSend, libcpl.OpUSendV,
		libcpl.OpSendFile, libcpl.OpWrite, libcpl.OpWriteV:
		e = EventSend
	}

	if st != libstc.OK {
		e |= EventError
	}

	return e
}
