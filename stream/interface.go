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

package stream

import (
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libstc "github.com/sabouaram/goaio/statuscode"
)

// DefaultTimeout is the per-operation timeout of a stream when none is set.
const DefaultTimeout = 10 * time.Second

// State is the lifecycle state of a stream.
type State uint8

const (
	// StateClosed is the initial and post-close state.
	StateClosed State = iota

	// StateOpening marks an open in progress.
	StateOpening

	// StateOpened marks a stream ready for operations.
	StateOpened

	// StateKilling marks a kill in progress.
	StateKilling

	// StateKilled marks a killed stream awaiting exit.
	StateKilled
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpened:
		return "opened"
	case StateKilling:
		return "killing"
	case StateKilled:
		return "killed"
	default:
		return "closed"
	}
}

// Type tags the backend kind of a stream.
type Type uint8

const (
	// TypeNone is an invalid stream type.
	TypeNone Type = iota

	// TypeData is the in-memory buffer backend.
	TypeData

	// TypeFile is the file backend.
	TypeFile

	// TypeSock is the TCP/UDP socket backend.
	TypeSock

	// TypeHTTP is the http client backend.
	TypeHTTP

	// TypeFilter is the filter composition backend.
	TypeFilter
)

func (t Type) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeFile:
		return "file"
	case TypeSock:
		return "sock"
	case TypeHTTP:
		return "http"
	case TypeFilter:
		return "filter"
	default:
		return "none"
	}
}

// FuncOpen delivers the final state of an open.
type FuncOpen func(st libstc.Status)

// FuncRead delivers one read completion. The data slice is only valid for
// the duration of the callback. Returning true with an OK status reposts
// another read of the same size.
type FuncRead func(st libstc.Status, data []byte) bool

// FuncWrite delivers one write completion with the accepted and requested
// byte counts. Returning true with bytes left continues the write.
type FuncWrite func(st libstc.Status, sent, size int) bool

// FuncSeek delivers the final offset of a seek.
type FuncSeek func(st libstc.Status, offset int64)

// FuncSync delivers the completion of a sync.
type FuncSync func(st libstc.Status)

// FuncTask delivers a scheduled task tick.
type FuncTask func(st libstc.Status)

// FuncClose delivers the completion of a close.
type FuncClose func(st libstc.Status)

// CtrlCode selects a control operation, see Stream.Ctrl.
type CtrlCode int

const (
	// CtrlGetURL reads the stream URL into a **url.URL argument.
	CtrlGetURL CtrlCode = iota + 1

	// CtrlSetTimeout sets the default operation timeout (time.Duration).
	CtrlSetTimeout

	// CtrlGetTimeout reads the default operation timeout (*time.Duration).
	CtrlGetTimeout

	// CtrlGetSize reads the stream size into an *int64, -1 when unknown.
	CtrlGetSize

	// CtrlGetOffset reads the current offset into an *int64.
	CtrlGetOffset

	// CtrlSetReadCache sets the read cache limit in bytes (int).
	CtrlSetReadCache

	// CtrlSetWriteCache sets the write cache limit in bytes (int).
	CtrlSetWriteCache

	// CtrlSockGetTransport reads the socket transport (*string: tcp, udp).
	CtrlSockGetTransport

	// CtrlSockKeepAlive enables pooling the socket on close (bool).
	CtrlSockKeepAlive

	// CtrlSockSkipOnSuccess arms the skip-on-success fast path (bool).
	CtrlSockSkipOnSuccess

	// CtrlSockGetConn reads the underlying connection (*net.Conn).
	CtrlSockGetConn

	// CtrlSockGetPeer reads the last datagram peer (*endpoint.Endpoint).
	CtrlSockGetPeer

	// CtrlSockSetTLS installs a TLS configuration (*tls.Config).
	CtrlSockSetTLS

	// CtrlFileSetMode sets the open mode flags before open (int, os.O_*).
	CtrlFileSetMode

	// CtrlFileGetMode reads the open mode flags (*int).
	CtrlFileGetMode

	// CtrlFileStreamMode marks the file non-seekable (bool).
	CtrlFileStreamMode

	// CtrlFileIsStream reads the stream-mode flag (*bool).
	CtrlFileIsStream

	// CtrlFileSetDirect records the direct I/O hint (bool); the flag is
	// accepted even where the platform cannot honour it.
	CtrlFileSetDirect

	// CtrlFileGetDirect reads the direct I/O hint (*bool).
	CtrlFileGetDirect

	// CtrlDataSet installs the data buffer ([]byte, referenced).
	CtrlDataSet

	// CtrlDataGet reads the data buffer (*[]byte).
	CtrlDataGet

	// CtrlHTTPSetMethod sets the request method (string).
	CtrlHTTPSetMethod

	// CtrlHTTPSetHeader sets one request header (key, value strings).
	CtrlHTTPSetHeader

	// CtrlHTTPSetRange sets the request byte range (from, to int64).
	CtrlHTTPSetRange

	// CtrlHTTPSetRedirect caps the redirect count (int).
	CtrlHTTPSetRedirect

	// CtrlHTTPSetBody installs the request body ([]byte).
	CtrlHTTPSetBody

	// CtrlHTTPAutoUnzip decompresses gzip responses transparently (bool).
	CtrlHTTPAutoUnzip

	// CtrlHTTPGetStatus reads the response status code (*int).
	CtrlHTTPGetStatus

	// CtrlHTTPGetHeader reads one response header (key string, *string).
	CtrlHTTPGetHeader

	// CtrlFilterGetFilter reads the hosted filter (*filter.Filter).
	CtrlFilterGetFilter

	// CtrlFilterGetChild reads the wrapped child stream (*Stream).
	CtrlFilterGetChild
)

// Stream is the uniform asynchronous stream surface.
type Stream interface {
	// Type returns the backend kind.
	Type() Type

	// URL returns the stream URL.
	URL() *url.URL

	// State returns the current lifecycle state.
	State() State

	// Proactor returns the engine the stream posts into.
	Proactor() libcpl.Proactor

	// SetTimeout replaces the default operation timeout.
	SetTimeout(d time.Duration)

	// Timeout returns the default operation timeout.
	Timeout() time.Duration

	// Offset returns the byte position after the last completed operation.
	Offset() int64

	// Size returns the stream size, -1 when unknown.
	Size() int64

	// Open begins opening the stream; the callback fires exactly once.
	Open(fct FuncOpen) liberr.Error

	// OpenTry attempts a synchronous open; true means the stream is opened.
	OpenTry() bool

	// Read requests up to size bytes.
	Read(size int, fct FuncRead) liberr.Error

	// Write sends the bytes, possibly through the write cache.
	Write(p []byte, fct FuncWrite) liberr.Error

	// SendFile streams size bytes of the file from the offset onto the
	// stream; the write cache is drained first. Only socket streams over
	// TCP support it.
	SendFile(f *os.File, offset, size int64, fct FuncWrite) liberr.Error

	// Seek moves the offset; the write cache is drained first.
	Seek(offset int64, fct FuncSeek) liberr.Error

	// Sync drains the write cache into the backend and flushes it.
	Sync(fct FuncSync) liberr.Error

	// RunTask fires the callback after the delay on the proactor.
	RunTask(delay time.Duration, fct FuncTask) liberr.Error

	// OpenRead opens the stream when needed, then reads.
	OpenRead(size int, fct FuncRead) liberr.Error

	// OpenWrite opens the stream when needed, then writes.
	OpenWrite(p []byte, fct FuncWrite) liberr.Error

	// OpenSeek opens the stream when needed, then seeks.
	OpenSeek(offset int64, fct FuncSeek) liberr.Error

	// Close closes the stream; a close during opening is deferred until
	// the open settles.
	Close(fct FuncClose) liberr.Error

	// CloseTry attempts a synchronous close; true means the stream is
	// closed.
	CloseTry() bool

	// Kill aborts the stream: pending operations deliver Killed.
	Kill()

	// Exit kills the stream, polls CloseTry and releases the backend. It
	// refuses when the stream cannot settle closed.
	Exit() liberr.Error

	// Ctrl runs one control operation; false means the code or arguments
	// were not accepted.
	Ctrl(code CtrlCode, args ...any) bool
}

// Core is the view of the stream base handed to its backend.
type Core interface {
	// Proactor returns the engine the stream posts into.
	Proactor() libcpl.Proactor

	// URL returns the stream URL.
	URL() *url.URL

	// Timeout returns the default operation timeout.
	Timeout() time.Duration

	// Offset returns the tracked offset.
	Offset() int64

	// SetOffset stores the tracked offset.
	SetOffset(off int64)

	// AddOffset advances the tracked offset.
	AddOffset(n int64)

	// State returns the lifecycle state.
	State() State
}

// Backend is one concrete stream implementation driven by the base.
//
// Operation hooks are invoked only in the states the base allows, and each
// callback must fire exactly once.
type Backend interface {
	// Bind hands the backend its base view; called once before any hook.
	Bind(c Core)

	// Type returns the backend kind.
	Type() Type

	// Open begins the backend open.
	Open(fct FuncOpen) liberr.Error

	// OpenTry attempts a synchronous open.
	OpenTry() bool

	// Close begins the backend close.
	Close(fct FuncClose) liberr.Error

	// CloseTry attempts a synchronous close.
	CloseTry() bool

	// Read requests up to size bytes into buf.
	Read(size int, buf []byte, fct FuncRead)

	// Write sends the bytes.
	Write(p []byte, fct FuncWrite)

	// SendFile streams a file range onto the backend; backends without a
	// sendfile path deliver NotSupported.
	SendFile(f *os.File, offset, size int64, fct FuncWrite)

	// Seek moves the backend position.
	Seek(offset int64, fct FuncSeek)

	// Sync flushes the backend.
	Sync(fct FuncSync)

	// Kill cancels outstanding backend work.
	Kill()

	// Exit releases the backend for good.
	Exit()

	// Size returns the backend size, -1 when unknown.
	Size() int64

	// Ctrl runs one backend control operation.
	Ctrl(code CtrlCode, args []any) bool
}

// FuncFactory builds a backend-specific stream from a parsed URL.
type FuncFactory func(p libcpl.Proactor, u *url.URL) (Stream, liberr.Error)

var (
	regMux sync.Mutex
	regMap = make(map[string]FuncFactory)
)

// Register installs the factory for a URL scheme. Backend packages call it
// from init; a later registration replaces the earlier one.
func Register(scheme string, f FuncFactory) {
	if scheme == "" || f == nil {
		return
	}

	regMux.Lock()
	regMap[strings.ToLower(scheme)] = f
	regMux.Unlock()
}

// FromURL parses the URL and builds the stream registered for its scheme.
func FromURL(p libcpl.Proactor, raw string) (Stream, liberr.Error) {
	if p == nil || raw == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrorBadURL.Error(err)
	}

	regMux.Lock()
	f := regMap[strings.ToLower(u.Scheme)]
	regMux.Unlock()

	if f == nil {
		return nil, ErrorBadURL.Error(nil)
	}

	return f(p, u)
}

// New wraps the backend into a stream base. Backend constructors call it
// after building their state.
func New(p libcpl.Proactor, u *url.URL, b Backend) (Stream, liberr.Error) {
	if p == nil || b == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	o := &bas{
		prc: p,
		uri: u,
		bck: b,
	}

	o.tmo.Store(int64(DefaultTimeout))
	b.Bind(o)

	return o, nil
}
