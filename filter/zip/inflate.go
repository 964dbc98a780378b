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

package zip

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	arccmp "github.com/nabbar/golib/archive/compress"

	libflt "github.com/sabouaram/goaio/filter"
)

// blockBuf is a reader over a growing buffer that blocks instead of
// returning EOF while the buffer is open but starved, so the algorithm
// reader can pull across Spak boundaries.
type blockBuf struct {
	m sync.Mutex
	b bytes.Buffer
	c atomic.Bool
}

func (o *blockBuf) Read(p []byte) (n int, err error) {
	for {
		o.m.Lock()

		if o.b.Len() > 0 {
			n, _ = o.b.Read(p)
			o.m.Unlock()
			return n, nil
		}

		o.m.Unlock()

		if o.c.Load() {
			return 0, io.EOF
		}

		time.Sleep(100 * time.Microsecond)
	}
}

func (o *blockBuf) Write(p []byte) (n int, err error) {
	if o.c.Load() {
		return 0, errors.New("closed buffer")
	}

	o.m.Lock()
	defer o.m.Unlock()

	return o.b.Write(p)
}

func (o *blockBuf) Len() int {
	o.m.Lock()
	defer o.m.Unlock()
	return o.b.Len()
}

func (o *blockBuf) Close() error {
	o.c.Store(true)
	return nil
}

// lockBuf is the synchronized decompressed output sink.
type lockBuf struct {
	m sync.Mutex
	b bytes.Buffer
}

func (o *lockBuf) Write(p []byte) (n int, err error) {
	o.m.Lock()
	defer o.m.Unlock()
	return o.b.Write(p)
}

func (o *lockBuf) Take(p []byte) int {
	o.m.Lock()
	defer o.m.Unlock()

	n := o.b.Len()
	if n > len(p) {
		n = len(p)
	}

	copy(p, o.b.Next(n))

	return n
}

func (o *lockBuf) Len() int {
	o.m.Lock()
	defer o.m.Unlock()
	return o.b.Len()
}

// inflate pushes compressed bytes into a blocking source pulled by the
// algorithm reader on a private goroutine; decompressed bytes surface in
// the sink for the codec to drain.
type inflate struct {
	alg arccmp.Algorithm
	src *blockBuf
	dst *lockBuf
	don atomic.Bool
	bad atomic.Bool
	wg  sync.WaitGroup
}

func (o *inflate) Open() bool {
	o.src = &blockBuf{}
	o.dst = &lockBuf{}
	o.don.Store(false)
	o.bad.Store(false)

	o.wg.Add(1)

	go func() {
		defer o.wg.Done()
		defer o.don.Store(true)

		r, err := o.alg.Reader(o.src)
		if err != nil {
			o.bad.Store(true)
			return
		}

		if _, err = io.Copy(o.dst, r); err != nil {
			o.bad.Store(true)
		}

		_ = r.Close()
	}()

	return true
}

func (o *inflate) Close() {
	if o.src != nil {
		_ = o.src.Close()
	}

	o.wg.Wait()

	o.src = nil
	o.dst = nil
}

func (o *inflate) Spak(in []byte, out []byte, sync libflt.Sync) (consumed, produced int, end bool) {
	if o.src == nil || o.dst == nil {
		return 0, 0, true
	}

	if len(in) > 0 && !o.don.Load() {
		n, err := o.src.Write(in)
		consumed = n

		if err != nil {
			return consumed, 0, true
		}
	} else {
		consumed = len(in)
	}

	if sync == libflt.SyncEnd {
		_ = o.src.Close()
		o.wg.Wait()
	} else {
		// wait for the decoder to drain the pushed bytes so steady-state
		// output is observable by the caller
		for o.src.Len() > 0 && !o.don.Load() {
			time.Sleep(100 * time.Microsecond)
		}
	}

	if o.bad.Load() {
		return consumed, 0, true
	}

	produced = o.dst.Take(out)

	end = o.don.Load() && o.dst.Len() == 0 && sync == libflt.SyncEnd

	return consumed, produced, end
}
