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

package aicp

import (
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/golib/errors"
	libedp "github.com/sabouaram/goaio/endpoint"
	libstc "github.com/sabouaram/goaio/statuscode"
	libtmw "github.com/sabouaram/goaio/timerwheel"
)

// Result is the outcome of one posted operation, delivered exactly once to
// the completion callback.
type Result struct {
	// Op is the code of the completed operation.
	Op OpCode

	// Status is the final state of the operation.
	Status libstc.Status

	// Bytes is the number of bytes actually transferred.
	Bytes int

	// Size is the number of bytes the caller requested.
	Size int

	// Peer carries the remote endpoint for accept and unconnected receive.
	Peer libedp.Endpoint

	// Conn carries the new connection for accept and connect.
	Conn net.Conn

	// Cookie is the opaque value given at posting time.
	Cookie any
}

// FuncComplete is the completion callback of a posted operation.
//
// For repeatable operations (accept), returning true reposts the same
// operation; the returned value is ignored otherwise. Callbacks run on the
// proactor worker goroutine and must not block it.
type FuncComplete func(res Result) bool

// Proactor is a completion-based asynchronous I/O engine.
//
// All Post methods are safe for concurrent use; completion callbacks are
// serialized on the single worker goroutine. At most one operation may be
// in flight per handle: posting a second one completes it with the
// InvalidArgument status through the normal callback path.
type Proactor interface {
	// PostAccept accepts one connection on the listener. With a true
	// callback return and an OK status, the accept is reposted.
	PostAccept(l net.Listener, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostConnect dials the endpoint with the given network ("tcp", "udp").
	// The new connection is delivered in Result.Conn.
	PostConnect(network string, e libedp.Endpoint, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostRecv receives at most len(buf) bytes on the connection.
	PostRecv(c net.Conn, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostSend sends len(buf) bytes on the connection.
	PostSend(c net.Conn, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostRecvV receives into the buffer vector, filling in order.
	PostRecvV(c net.Conn, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostSendV sends the buffer vector with a gathered write.
	PostSendV(c net.Conn, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostURecv receives one datagram; the source is delivered in Result.Peer.
	PostURecv(c net.PacketConn, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostUSend sends one datagram to the endpoint.
	PostUSend(c net.PacketConn, e libedp.Endpoint, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostURecvV receives one datagram scattered over the buffer vector.
	PostURecvV(c net.PacketConn, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostUSendV sends one datagram gathered from the buffer vector.
	PostUSendV(c net.PacketConn, e libedp.Endpoint, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostSendFile streams size bytes of the file from the offset onto the
	// connection.
	PostSendFile(c net.Conn, f *os.File, offset, size int64, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostRead reads at most len(buf) bytes from the file at the offset.
	PostRead(f *os.File, offset int64, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostWrite writes len(buf) bytes to the file at the offset.
	PostWrite(f *os.File, offset int64, buf []byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostReadV reads into the buffer vector from the file at the offset.
	PostReadV(f *os.File, offset int64, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostWriteV writes the buffer vector to the file at the offset.
	PostWriteV(f *os.File, offset int64, bufs [][]byte, timeout time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostFSync flushes the file to stable storage.
	PostFSync(f *os.File, cookie any, fct FuncComplete) liberr.Error

	// PostRunTask fires the callback at the absolute time on the
	// high-precision wheel.
	PostRunTask(when time.Time, cookie any, fct FuncComplete) liberr.Error

	// PostRunTaskAfter fires the callback after the delay.
	PostRunTaskAfter(delay time.Duration, cookie any, fct FuncComplete) liberr.Error

	// PostClose closes the handle through the completion path. Connections
	// are recycled to the socket pool when one is configured and the handle
	// was never killed.
	PostClose(h any, cookie any, fct FuncComplete) liberr.Error

	// SetSkipOnSuccess arms or disarms the skip flag on the handle: when
	// armed, an operation finishing synchronously delivers its callback
	// inline instead of travelling through the completion port.
	SetSkipOnSuccess(h any, skip bool)

	// KillHandle cancels the in-flight operation of the handle from any
	// goroutine; the operation is delivered with the Killed status.
	KillHandle(h any)

	// RemoveHandle detaches the handle from the proactor, reclaiming its
	// completion object. An in-flight operation is cancelled first.
	RemoveHandle(h any)

	// Kill stops the worker loop; pending operations are delivered with
	// the Killed status.
	Kill()

	// Exit kills the proactor and waits for the worker to drain, up to
	// the configured exit timeout (5s by default).
	Exit() liberr.Error

	// IsRunning returns true while the worker loop is alive.
	IsRunning() bool
}

// New creates a Proactor from the configuration and starts its worker.
func New(cfg Config) (Proactor, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.complete()

	p := &prc{
		cfg: cfg,
		hpw: libtmw.HighPrecision(cfg.ObjectCount/256 + 1),
		lpw: libtmw.New(cfg.ObjectCount/256+1, cfg.Precision, true),
		qhi: make([]*operation, 0, cfg.queueSize()),
		qlo: make([]*operation, 0, cfg.queueSize()),
		kls: make([]any, 0, cfg.killSize()),
		prt: make(chan *completion, cfg.queueSize()),
		wke: make(chan struct{}, 1),
		end: make(chan struct{}),
		obj: make(map[any]*object, cfg.ObjectCount),
		cch: make([]*object, 0, cfg.CacheMax),
	}

	p.run.Store(true)
	go p.worker()

	return p, nil
}

type prc struct {
	mux sync.Mutex
	cfg Config
	hpw libtmw.Wheel
	lpw libtmw.Wheel
	qhi []*operation
	qlo []*operation
	kls []any
	prt chan *completion
	wke chan struct{}
	end chan struct{}
	run atomic.Bool
	kil atomic.Bool

	// skip-on-success flags, guarded by mux
	skp map[any]bool

	// worker-owned, never touched outside the worker goroutine
	obj map[any]*object
	cch []*object
}
