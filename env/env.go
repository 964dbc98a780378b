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

// Package env holds the process-wide state of the engine: the shared socket
// pool, the default proactor riding it, the default resolver and the page
// size cache.
//
// Init must run once before streams are created from here, and Exit tears
// the engine down; both are idempotent. Importing this package registers
// every stream backend, so FromURL resolves any scheme of the engine.
package env

import (
	"os"
	"sync"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	librsv "github.com/sabouaram/goaio/resolver"
	libpol "github.com/sabouaram/goaio/sockpool"
	libstr "github.com/sabouaram/goaio/stream"

	_ "github.com/sabouaram/goaio/stream/data"
	_ "github.com/sabouaram/goaio/stream/file"
	_ "github.com/sabouaram/goaio/stream/http"
	_ "github.com/sabouaram/goaio/stream/sock"
)

var (
	mux sync.Mutex
	prc libcpl.Proactor
	pol libpol.Pool
	rsv librsv.Resolver
	pgz int
)

// Init establishes the process-wide engine state: the socket pool, the
// default proactor, the default resolver and the page size cache. Calling
// it on an initialized environment is a no-op.
func Init(cfg libcpl.Config) liberr.Error {
	mux.Lock()
	defer mux.Unlock()

	if prc != nil {
		return nil
	}

	pol = libpol.New(0, 0)
	rsv = librsv.New("")
	pgz = os.Getpagesize()

	cfg.Pool = pol

	p, err := libcpl.New(cfg)
	if err != nil {
		_ = pol.Close()
		pol = nil
		return err
	}

	prc = p

	return nil
}

// Exit tears the engine down: outstanding resolutions are cancelled, the
// proactor drains and the pool closes. The environment can be initialized
// again afterwards.
func Exit() liberr.Error {
	mux.Lock()
	defer mux.Unlock()

	if prc == nil {
		return nil
	}

	rsv.Kill()

	err := prc.Exit()
	prc = nil

	_ = pol.Close()
	pol = nil

	return err
}

// Proactor returns the default proactor, nil before Init.
func Proactor() libcpl.Proactor {
	mux.Lock()
	defer mux.Unlock()
	return prc
}

// Pool returns the process socket pool, nil before Init.
func Pool() libpol.Pool {
	mux.Lock()
	defer mux.Unlock()
	return pol
}

// Resolver returns the default resolver, nil before Init.
func Resolver() librsv.Resolver {
	mux.Lock()
	defer mux.Unlock()
	return rsv
}

// PageSize returns the cached platform page size, zero before Init.
func PageSize() int {
	mux.Lock()
	defer mux.Unlock()
	return pgz
}

// FromURL builds a stream on the default proactor.
func FromURL(raw string) (libstr.Stream, liberr.Error) {
	mux.Lock()
	p := prc
	mux.Unlock()

	if p == nil {
		return nil, libstr.ErrorBadState.Error(nil)
	}

	return libstr.FromURL(p, raw)
}
