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

// Package http is the http client stream backend.
//
// Every operation delegates to an HTTP client: open performs the request,
// read pulls the next body chunk, seek issues a byte-range request and
// close drops the response. The document size is known only when the
// response is neither chunked nor compressed. Request shaping (method,
// headers, body, range, redirect cap, transparent gunzip) goes through
// ctrl before open.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	libhtr "github.com/hashicorp/go-retryablehttp"
	arccmp "github.com/nabbar/golib/archive/compress"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libstc "github.com/sabouaram/goaio/statuscode"
	libstr "github.com/sabouaram/goaio/stream"
)

func init() {
	libstr.Register("http", New)
	libstr.Register("https", New)
}

// New builds an http stream from an http or https URL.
func New(p libcpl.Proactor, u *url.URL) (libstr.Stream, liberr.Error) {
	rcl := libhtr.NewClient()
	rcl.RetryMax = 2
	rcl.Logger = nil

	return libstr.New(p, u, &bck{
		cli: rcl.StandardClient(),
		mth: http.MethodGet,
		hdr: make(http.Header),
		rng: [2]int64{-1, -1},
	})
}

type bck struct {
	cor libstr.Core
	mux sync.Mutex
	cli *http.Client
	mth string
	hdr http.Header
	bdy []byte
	rng [2]int64
	red int
	unz bool
	rsp *http.Response
	rbd io.ReadCloser
	siz int64
	cnl context.CancelFunc
}

func (o *bck) Bind(c libstr.Core) {
	o.cor = c
}

func (o *bck) Type() libstr.Type {
	return libstr.TypeHTTP
}

// request builds the next request from the recorded shaping.
func (o *bck) request(ctx context.Context) (*http.Request, error) {
	u := o.cor.URL()
	if u == nil {
		return nil, http.ErrMissingFile
	}

	var body io.Reader
	if len(o.bdy) > 0 {
		body = bytes.NewReader(o.bdy)
	}

	req, err := http.NewRequestWithContext(ctx, o.mth, u.String(), body)
	if err != nil {
		return nil, err
	}

	for k, v := range o.hdr {
		req.Header[k] = v
	}

	if o.rng[0] >= 0 {
		if o.rng[1] >= o.rng[0] {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", o.rng[0], o.rng[1]))
		} else {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-", o.rng[0]))
		}
	}

	return req, nil
}

// perform runs one request and installs the response.
func (o *bck) perform(fct libstr.FuncOpen) {
	o.mux.Lock()

	ctx, cnl := context.WithCancel(context.Background())
	o.cnl = cnl

	if o.red > 0 {
		max := o.red
		o.cli.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= max {
				return http.ErrUseLastResponse
			}
			return nil
		}
	}

	req, err := o.request(ctx)
	o.mux.Unlock()

	if err != nil {
		fct(libstc.InvalidArgument)
		return
	}

	go func() {
		rsp, err := o.cli.Do(req)
		if err != nil {
			fct(libstc.FromError(err))
			return
		}

		body := rsp.Body

		// size is the document length only for identity, un-chunked bodies
		siz := int64(-1)

		enc := strings.ToLower(rsp.Header.Get("Content-Encoding"))
		chk := false

		for _, te := range rsp.TransferEncoding {
			if strings.EqualFold(te, "chunked") {
				chk = true
			}
		}

		if enc != "gzip" && enc != "deflate" && !chk && rsp.ContentLength >= 0 {
			siz = rsp.ContentLength
		}

		o.mux.Lock()

		if o.unz && enc == "gzip" {
			if rc, e := arccmp.Gzip.Reader(body); e == nil {
				body = rc
				siz = -1
			}
		}

		o.rsp = rsp
		o.rbd = body
		o.siz = siz
		o.mux.Unlock()

		o.cor.SetOffset(0)
		fct(libstc.OK)
	}()
}

func (o *bck) Open(fct libstr.FuncOpen) liberr.Error {
	o.perform(fct)
	return nil
}

func (o *bck) OpenTry() bool {
	return false
}

func (o *bck) Close(fct libstr.FuncClose) liberr.Error {
	return o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
		_ = o.CloseTry()
		fct(libstc.OK)
		return false
	})
}

func (o *bck) CloseTry() bool {
	o.mux.Lock()
	bdy := o.rbd
	cnl := o.cnl
	o.rbd = nil
	o.rsp = nil
	o.cnl = nil
	o.mux.Unlock()

	if bdy != nil {
		_ = bdy.Close()
	}

	if cnl != nil {
		cnl()
	}

	return true
}

func (o *bck) Read(size int, buf []byte, fct libstr.FuncRead) {
	o.mux.Lock()
	bdy := o.rbd
	o.mux.Unlock()

	if bdy == nil {
		fct(libstc.Closed, nil)
		return
	}

	go func() {
		n, err := bdy.Read(buf)

		switch {
		case n > 0:
			o.cor.AddOffset(int64(n))
			fct(libstc.OK, buf[:n])
		case err == io.EOF:
			fct(libstc.Closed, nil)
		case err != nil:
			fct(libstc.FromError(err), nil)
		default:
			fct(libstc.OK, buf[:0])
		}
	}()
}

func (o *bck) Write(p []byte, fct libstr.FuncWrite) {
	fct(libstc.NotSupported, 0, len(p))
}

func (o *bck) SendFile(f *os.File, offset, size int64, fct libstr.FuncWrite) {
	fct(libstc.NotSupported, 0, int(size))
}

// Seek re-issues the request with a byte range starting at the offset.
func (o *bck) Seek(offset int64, fct libstr.FuncSeek) {
	_ = o.CloseTry()

	o.mux.Lock()
	o.rng[0] = offset
	o.rng[1] = -1
	o.mux.Unlock()

	o.perform(func(st libstc.Status) {
		if st.IsOK() {
			o.cor.SetOffset(offset)
			fct(libstc.OK, offset)
			return
		}

		fct(st, o.cor.Offset())
	})
}

func (o *bck) Sync(fct libstr.FuncSync) {
	_ = o.cor.Proactor().PostRunTaskAfter(0, nil, func(res libcpl.Result) bool {
		fct(res.Status)
		return false
	})
}

func (o *bck) Kill() {
	o.mux.Lock()
	cnl := o.cnl
	o.mux.Unlock()

	if cnl != nil {
		cnl()
	}
}

func (o *bck) Exit() {
	_ = o.CloseTry()
	o.cli.CloseIdleConnections()
}

func (o *bck) Size() int64 {
	o.mux.Lock()
	defer o.mux.Unlock()

	if o.rsp == nil {
		return -1
	}

	return o.siz
}

func (o *bck) Ctrl(code libstr.CtrlCode, args []any) bool {
	o.mux.Lock()
	defer o.mux.Unlock()

	switch code {
	case libstr.CtrlHTTPSetMethod:
		if len(args) == 1 {
			if m, k := args[0].(string); k && m != "" {
				o.mth = strings.ToUpper(m)
				return true
			}
		}

	case libstr.CtrlHTTPSetHeader:
		if len(args) == 2 {
			key, k1 := args[0].(string)
			val, k2 := args[1].(string)

			if k1 && k2 && key != "" {
				o.hdr.Set(key, val)
				return true
			}
		}

	case libstr.CtrlHTTPSetRange:
		if len(args) == 2 {
			from, k1 := args[0].(int64)
			to, k2 := args[1].(int64)

			if k1 && k2 {
				o.rng = [2]int64{from, to}
				return true
			}
		}

	case libstr.CtrlHTTPSetRedirect:
		if len(args) == 1 {
			if n, k := args[0].(int); k && n >= 0 {
				o.red = n
				return true
			}
		}

	case libstr.CtrlHTTPSetBody:
		if len(args) == 1 {
			if b, k := args[0].([]byte); k {
				o.bdy = b
				return true
			}
		}

	case libstr.CtrlHTTPAutoUnzip:
		if len(args) == 1 {
			if b, k := args[0].(bool); k {
				o.unz = b
				return true
			}
		}

	case libstr.CtrlHTTPGetStatus:
		if len(args) == 1 {
			if p, k := args[0].(*int); k {
				if o.rsp != nil {
					*p = o.rsp.StatusCode
					return true
				}
			}
		}

	case libstr.CtrlHTTPGetHeader:
		if len(args) == 2 {
			key, k1 := args[0].(string)
			out, k2 := args[1].(*string)

			if k1 && k2 && o.rsp != nil {
				*out = o.rsp.Header.Get(key)
				return true
			}
		}
	}

	return false
}
