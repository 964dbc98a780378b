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

package resolver

import (
	"context"
	"sync"
	"time"

	libedp "github.com/sabouaram/goaio/endpoint"
	libnet "github.com/sabouaram/goaio/network"
	libstc "github.com/sabouaram/goaio/statuscode"
)

// DefaultTimeout bounds a resolution when the caller passes none.
const DefaultTimeout = 10 * time.Second

// FuncResolved delivers the outcome of one resolution. The endpoint list is
// non-empty exactly when the status is OK.
type FuncResolved func(st libstc.Status, eps []libedp.Endpoint)

// Resolver resolves host names asynchronously.
type Resolver interface {
	// Resolve looks the host up and delivers the endpoints carrying the
	// port through the callback. A nil callback is ignored.
	Resolve(host string, port uint16, timeout time.Duration, fct FuncResolved)

	// Kill cancels every outstanding resolution; their callbacks observe
	// the Killed status.
	Kill()
}

// New returns a Resolver using the given DNS fallback server, the package
// default when empty.
func New(server string) Resolver {
	x, n := context.WithCancel(context.Background())

	return &rsv{
		srv: server,
		ctx: x,
		cnl: n,
	}
}

type rsv struct {
	mux sync.Mutex
	srv string
	ctx context.Context
	cnl context.CancelFunc
}

func (o *rsv) Resolve(host string, port uint16, timeout time.Duration, fct FuncResolved) {
	if fct == nil {
		return
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	o.mux.Lock()
	ctx := o.ctx
	o.mux.Unlock()

	go func() {
		x, n := context.WithTimeout(ctx, timeout)
		defer n()

		eps, err := libnet.NameToAddr(x, host, port, o.srv)

		switch {
		case ctx.Err() != nil:
			fct(libstc.Killed, nil)
		case x.Err() != nil && err != nil:
			fct(libstc.Timeout, nil)
		case err != nil:
			fct(libstc.DNSFailed, nil)
		case len(eps) == 0:
			fct(libstc.DNSFailed, nil)
		default:
			fct(libstc.OK, eps)
		}
	}()
}

// Kill cancels the shared context and installs a fresh one so the resolver
// stays usable for later requests.
func (o *rsv) Kill() {
	o.mux.Lock()
	defer o.mux.Unlock()

	o.cnl()

	o.ctx, o.cnl = context.WithCancel(context.Background())
}
