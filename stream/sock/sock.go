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

// Package sock is the socket stream backend.
//
// The transport is selected through the URL query (tcp= or udp=, TCP by
// default) and TLS is layered on TCP when the query carries ssl= or a
// configuration is installed through ctrl. Opening a TCP stream resolves
// the host asynchronously, connects through the proactor and runs the
// optional TLS handshake; UDP binds a local socket and targets the
// resolved peer. In keep-alive mode a close recycles the connection into
// the engine socket pool instead of destroying it.
package sock

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"os"
	"strconv"
	"sync"

	libptc "github.com/nabbar/golib/network/protocol"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libedp "github.com/sabouaram/goaio/endpoint"
	librsv "github.com/sabouaram/goaio/resolver"
	libstc "github.com/sabouaram/goaio/statuscode"
	libstr "github.com/sabouaram/goaio/stream"
)

func init() {
	libstr.Register("sock", New)
	libstr.Register("tcp", New)
	libstr.Register("udp", New)
}

// New builds a socket stream from a sock URL.
func New(p libcpl.Proactor, u *url.URL) (libstr.Stream, liberr.Error) {
	o := &bck{
		ptc: libptc.NetworkTCP,
		rsv: librsv.New(""),
	}

	if u != nil {
		q := u.Query()

		switch {
		case q.Has("udp"), u.Scheme == "udp":
			o.ptc = libptc.NetworkUDP
		case q.Has("tcp"), u.Scheme == "tcp":
			o.ptc = libptc.NetworkTCP
		}

		if q.Has("ssl") {
			o.ssl = true
		}
	}

	return libstr.New(p, u, o)
}

type bck struct {
	cor libstr.Core
	mux sync.Mutex
	ptc libptc.NetworkProtocol
	rsv librsv.Resolver
	cnn net.Conn
	pkc net.PacketConn
	cfg *tls.Config
	pee libedp.Endpoint
	ssl bool
	kpa bool
	skp bool
}

func (o *bck) Bind(c libstr.Core) {
	o.cor = c
}

func (o *bck) Type() libstr.Type {
	return libstr.TypeSock
}

func (o *bck) isUDP() bool {
	return o.ptc == libptc.NetworkUDP
}

// target extracts host and port from the URL.
func (o *bck) target() (host string, port uint16, ok bool) {
	u := o.cor.URL()
	if u == nil {
		return "", 0, false
	}

	host = u.Hostname()

	if p, err := strconv.ParseUint(u.Port(), 10, 16); err == nil {
		port = uint16(p)
	}

	return host, port, host != "" && port != 0
}

func (o *bck) Open(fct libstr.FuncOpen) liberr.Error {
	host, port, ok := o.target()
	if !ok {
		return libstr.ErrorBadURL.Error(nil)
	}

	if o.isUDP() && (o.ssl || o.tlsConfig() != nil) {
		return libstr.ErrorNotSupported.Error(nil)
	}

	o.rsv.Resolve(host, port, o.cor.Timeout(), func(st libstc.Status, eps []libedp.Endpoint) {
		if !st.IsOK() {
			fct(st)
			return
		}

		if o.isUDP() {
			o.openUDP(eps[0], fct)
		} else {
			o.openTCP(host, eps[0], fct)
		}
	})

	return nil
}

func (o *bck) openUDP(peer libedp.Endpoint, fct libstr.FuncOpen) {
	pc, err := net.ListenPacket(libptc.NetworkUDP.Code(), ":0")
	if err != nil {
		fct(libstc.FromError(err))
		return
	}

	o.mux.Lock()
	o.pkc = pc
	o.pee = peer
	o.mux.Unlock()

	o.cor.SetOffset(0)
	fct(libstc.OK)
}

func (o *bck) openTCP(host string, peer libedp.Endpoint, fct libstr.FuncOpen) {
	e := o.cor.Proactor().PostConnect(libptc.NetworkTCP.Code(), peer, o.cor.Timeout(), nil, func(res libcpl.Result) bool {
		if res.Status != libstc.OK || res.Conn == nil {
			fct(res.Status)
			return false
		}

		if cfg := o.tlsConfig(); cfg != nil || o.ssl {
			o.handshake(host, res.Conn, fct)
			return false
		}

		o.install(res.Conn)
		fct(libstc.OK)

		return false
	})

	if e != nil {
		fct(libstc.Failed)
	}
}

// handshake runs the TLS client handshake off the worker and installs the
// wrapped connection.
func (o *bck) handshake(host string, raw net.Conn, fct libstr.FuncOpen) {
	cfg := o.tlsConfig()
	if cfg == nil {
		cfg = &tls.Config{}
	}

	if cfg.ServerName == "" {
		cfg = cfg.Clone()
		cfg.ServerName = host
	}

	tc := tls.Client(raw, cfg)

	go func() {
		ctx, cnl := context.WithTimeout(context.Background(), o.cor.Timeout())
		defer cnl()

		if err := tc.HandshakeContext(ctx); err != nil {
			_ = raw.Close()
			fct(libstc.SSLFailed)
			return
		}

		o.install(tc)
		fct(libstc.OK)
	}()
}

func (o *bck) install(c net.Conn) {
	o.mux.Lock()
	o.cnn = c
	skp := o.skp
	o.mux.Unlock()

	o.cor.SetOffset(0)

	if skp {
		o.cor.Proactor().SetSkipOnSuccess(c, true)
	}
}

func (o *bck) OpenTry() bool {
	return false
}

func (o *bck) tlsConfig() *tls.Config {
	o.mux.Lock()
	defer o.mux.Unlock()
	return o.cfg
}

func (o *bck) handles() (net.Conn, net.PacketConn) {
	o.mux.Lock()
	defer o.mux.Unlock()
	return o.cnn, o.pkc
}

func (o *bck) Read(size int, buf []byte, fct libstr.FuncRead) {
	cnn, pkc := o.handles()

	switch {
	case cnn != nil:
		_ = o.cor.Proactor().PostRecv(cnn, buf, o.cor.Timeout(), nil, func(res libcpl.Result) bool {
			o.deliverRead(res, buf, fct)
			return false
		})

	case pkc != nil:
		_ = o.cor.Proactor().PostURecv(pkc, buf, o.cor.Timeout(), nil, func(res libcpl.Result) bool {
			if res.Status == libstc.OK {
				o.mux.Lock()
				o.pee = res.Peer
				o.mux.Unlock()
			}

			o.deliverRead(res, buf, fct)
			return false
		})

	default:
		fct(libstc.Closed, nil)
	}
}

func (o *bck) deliverRead(res libcpl.Result, buf []byte, fct libstr.FuncRead) {
	if res.Status == libstc.OK {
		o.cor.AddOffset(int64(res.Bytes))
		fct(libstc.OK, buf[:res.Bytes])
		return
	}

	fct(res.Status, nil)
}

func (o *bck) Write(p []byte, fct libstr.FuncWrite) {
	cnn, pkc := o.handles()

	switch {
	case cnn != nil:
		_ = o.cor.Proactor().PostSend(cnn, p, o.cor.Timeout(), nil, func(res libcpl.Result) bool {
			o.deliverWrite(res, len(p), fct)
			return false
		})

	case pkc != nil:
		o.mux.Lock()
		pee := o.pee
		o.mux.Unlock()

		_ = o.cor.Proactor().PostUSend(pkc, pee, p, o.cor.Timeout(), nil, func(res libcpl.Result) bool {
			o.deliverWrite(res, len(p), fct)
			return false
		})

	default:
		fct(libstc.Closed, 0, len(p))
	}
}

// SendFile is a dedicated TCP operation; datagram sockets and unopened
// streams refuse it.
func (o *bck) SendFile(f *os.File, offset, size int64, fct libstr.FuncWrite) {
	cnn, _ := o.handles()

	if cnn == nil || o.isUDP() {
		fct(libstc.NotSupported, 0, int(size))
		return
	}

	_ = o.cor.Proactor().PostSendFile(cnn, f, offset, size, o.cor.Timeout(), nil, func(res libcpl.Result) bool {
		o.deliverWrite(res, int(size), fct)
		return false
	})
}

func (o *bck) deliverWrite(res libcpl.Result, size int, fct libstr.FuncWrite) {
	if res.Status == libstc.OK {
		o.cor.AddOffset(int64(res.Bytes))
	}

	fct(res.Status, res.Bytes, size)
}

func (o *bck) Seek(offset int64, fct libstr.FuncSeek) {
	fct(libstc.NotSupported, o.cor.Offset())
}

func (o *bck) Sync(fct libstr.FuncSync) {
	_ = o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
		fct(res.Status)
		return false
	})
}

func (o *bck) Close(fct libstr.FuncClose) liberr.Error {
	cnn, pkc := o.handles()

	o.mux.Lock()
	o.cnn = nil
	o.pkc = nil
	kpa := o.kpa
	o.mux.Unlock()

	var h any

	switch {
	case cnn != nil:
		h = cnn
	case pkc != nil:
		h = pkc
	default:
		return o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
			fct(libstc.OK)
			return false
		})
	}

	if kpa {
		// the pool decision lives in the engine close path
		return o.cor.Proactor().PostClose(h, nil, func(res libcpl.Result) bool {
			fct(res.Status)
			return false
		})
	}

	o.cor.Proactor().RemoveHandle(h)

	return o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
		if c, k := h.(net.Conn); k {
			_ = c.Close()
		} else if c, k := h.(net.PacketConn); k {
			_ = c.Close()
		}

		fct(libstc.OK)
		return false
	})
}

func (o *bck) CloseTry() bool {
	cnn, pkc := o.handles()

	o.mux.Lock()
	o.cnn = nil
	o.pkc = nil
	o.mux.Unlock()

	if cnn != nil {
		o.cor.Proactor().RemoveHandle(cnn)
		_ = cnn.Close()
	}

	if pkc != nil {
		o.cor.Proactor().RemoveHandle(pkc)
		_ = pkc.Close()
	}

	return true
}

func (o *bck) Kill() {
	o.rsv.Kill()

	cnn, pkc := o.handles()

	if cnn != nil {
		o.cor.Proactor().KillHandle(cnn)
	}

	if pkc != nil {
		o.cor.Proactor().KillHandle(pkc)
	}
}

func (o *bck) Exit() {
	_ = o.CloseTry()
}

func (o *bck) Size() int64 {
	return -1
}

func (o *bck) Ctrl(code libstr.CtrlCode, args []any) bool {
	switch code {
	case libstr.CtrlSockGetTransport:
		if len(args) == 1 {
			if p, k := args[0].(*string); k {
				*p = o.ptc.Code()
				return true
			}
		}

	case libstr.CtrlSockKeepAlive:
		if len(args) == 1 {
			if b, k := args[0].(bool); k {
				o.mux.Lock()
				o.kpa = b
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlSockSkipOnSuccess:
		if len(args) == 1 {
			if b, k := args[0].(bool); k {
				o.mux.Lock()
				o.skp = b
				cnn := o.cnn
				o.mux.Unlock()

				if cnn != nil {
					o.cor.Proactor().SetSkipOnSuccess(cnn, b)
				}

				return true
			}
		}

	case libstr.CtrlSockGetConn:
		if len(args) == 1 {
			if p, k := args[0].(*net.Conn); k {
				o.mux.Lock()
				*p = o.cnn
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlSockGetPeer:
		if len(args) == 1 {
			if p, k := args[0].(*libedp.Endpoint); k {
				o.mux.Lock()
				*p = o.pee
				o.mux.Unlock()
				return true
			}
		}

	case libstr.CtrlSockSetTLS:
		if len(args) == 1 {
			if c, k := args[0].(*tls.Config); k {
				o.mux.Lock()
				o.cfg = c
				o.mux.Unlock()
				return true
			}
		}
	}

	return false
}
