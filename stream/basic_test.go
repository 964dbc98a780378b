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

// basic_test.go validates the base state machine, the caches and the
// chained operations against the in-memory data backend and a scripted
// fake backend for the timing-sensitive transitions.
package stream_test

import (
	"net/url"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/nabbar/golib/errors"
	libcpl "github.com/sabouaram/goaio/aicp"
	libstc "github.com/sabouaram/goaio/statuscode"
	libstr "github.com/sabouaram/goaio/stream"

	_ "github.com/sabouaram/goaio/stream/data"
)

// slow is a scripted backend whose open settles after a delay.
type slow struct {
	cor   libstr.Core
	delay time.Duration
	st    libstc.Status
}

func (o *slow) Bind(c libstr.Core) { o.cor = c }
func (o *slow) Type() libstr.Type  { return libstr.TypeData }
func (o *slow) OpenTry() bool      { return false }
func (o *slow) CloseTry() bool     { return true }
func (o *slow) Kill()              {}
func (o *slow) Exit()              {}
func (o *slow) Size() int64        { return -1 }

func (o *slow) Open(fct libstr.FuncOpen) liberr.Error {
	go func() {
		time.Sleep(o.delay)
		fct(o.st)
	}()
	return nil
}

func (o *slow) Close(fct libstr.FuncClose) liberr.Error {
	go fct(libstc.OK)
	return nil
}

func (o *slow) Read(size int, buf []byte, fct libstr.FuncRead) {
	go fct(libstc.Closed, nil)
}

func (o *slow) Write(p []byte, fct libstr.FuncWrite) {
	go fct(libstc.OK, len(p), len(p))
}

func (o *slow) SendFile(f *os.File, offset, size int64, fct libstr.FuncWrite) {
	go fct(libstc.NotSupported, 0, int(size))
}

func (o *slow) Seek(offset int64, fct libstr.FuncSeek) {
	o.cor.SetOffset(offset)
	go fct(libstc.OK, offset)
}

func (o *slow) Sync(fct libstr.FuncSync) {
	go fct(libstc.OK)
}

func (o *slow) Ctrl(code libstr.CtrlCode, args []any) bool { return false }

func newSlow(p libcpl.Proactor, delay time.Duration, st libstc.Status) libstr.Stream {
	u, _ := url.Parse("data://")

	s, err := libstr.New(p, u, &slow{delay: delay, st: st})
	Expect(err).To(BeNil())

	return s
}

var _ = Describe("Stream State Machine", func() {
	var p libcpl.Proactor

	BeforeEach(func() {
		p = newProactor()
	})

	AfterEach(func() {
		Expect(p.Exit()).To(BeNil())
	})

	Context("open and close", func() {
		It("should walk closed, opening, opened, closed", func() {
			s := newSlow(p, 50*time.Millisecond, libstc.OK)

			Expect(s.State()).To(Equal(libstr.StateClosed))

			opn := make(chan libstc.Status, 1)
			Expect(s.Open(func(st libstc.Status) { opn <- st })).To(BeNil())
			Expect(s.State()).To(Equal(libstr.StateOpening))

			var st libstc.Status
			Eventually(opn, "2s").Should(Receive(&st))
			Expect(st).To(Equal(libstc.OK))
			Expect(s.State()).To(Equal(libstr.StateOpened))

			cls := make(chan libstc.Status, 1)
			Expect(s.Close(func(st libstc.Status) { cls <- st })).To(BeNil())

			Eventually(cls, "2s").Should(Receive(&st))
			Expect(st).To(Equal(libstc.OK))
			Expect(s.State()).To(Equal(libstr.StateClosed))
		})

		It("should settle back closed when the open fails", func() {
			s := newSlow(p, 10*time.Millisecond, libstc.Refused)

			opn := make(chan libstc.Status, 1)
			Expect(s.Open(func(st libstc.Status) { opn <- st })).To(BeNil())

			var st libstc.Status
			Eventually(opn, "2s").Should(Receive(&st))
			Expect(st).To(Equal(libstc.Refused))
			Expect(s.State()).To(Equal(libstr.StateClosed))
		})

		It("should refuse a second open while opening", func() {
			s := newSlow(p, 100*time.Millisecond, libstc.OK)

			opn := make(chan libstc.Status, 1)
			Expect(s.Open(func(st libstc.Status) { opn <- st })).To(BeNil())
			Expect(s.Open(func(st libstc.Status) {})).ToNot(BeNil())

			Eventually(opn, "2s").Should(Receive())
		})

		It("should deliver the open callback before a deferred close", func() {
			s := newSlow(p, 100*time.Millisecond, libstc.Failed)

			var order []string
			done := make(chan struct{})

			Expect(s.Open(func(st libstc.Status) {
				order = append(order, "open:"+st.Code())
			})).To(BeNil())

			Expect(s.Close(func(st libstc.Status) {
				order = append(order, "close")
				close(done)
			})).To(BeNil())

			Eventually(done, "2s").Should(BeClosed())
			Expect(order).To(Equal([]string{"open:failed", "close"}))
		})
	})

	Context("kill", func() {
		It("should move an opened stream to killing then killed", func() {
			s := newSlow(p, 10*time.Millisecond, libstc.OK)

			opn := make(chan libstc.Status, 1)
			Expect(s.Open(func(st libstc.Status) { opn <- st })).To(BeNil())
			Eventually(opn, "2s").Should(Receive())

			s.Kill()
			Expect(s.State()).To(Equal(libstr.StateKilling))

			Expect(s.Exit()).To(BeNil())
			Expect(s.State()).To(Equal(libstr.StateKilled))
		})

		It("should mark a closed stream killed directly", func() {
			s := newSlow(p, 0, libstc.OK)

			s.Kill()
			Expect(s.State()).To(Equal(libstr.StateKilled))
		})
	})
})

var _ = Describe("Stream Caches And Chains", func() {
	var p libcpl.Proactor

	BeforeEach(func() {
		p = newProactor()
	})

	AfterEach(func() {
		Expect(p.Exit()).To(BeNil())
	})

	open := func(s libstr.Stream) {
		ch := make(chan libstc.Status, 1)
		Expect(s.Open(func(st libstc.Status) { ch <- st })).To(BeNil())

		var st libstc.Status
		Eventually(ch, "2s").Should(Receive(&st))
		Expect(st).To(Equal(libstc.OK))
	}

	It("should round trip write, seek zero, read on the data backend", func() {
		s, err := libstr.FromURL(p, "data://")
		Expect(err).To(BeNil())

		open(s)

		wrt := make(chan libstc.Status, 1)
		Expect(s.Write([]byte("payload"), func(st libstc.Status, sent, size int) bool {
			Expect(sent).To(Equal(7))
			wrt <- st
			return false
		})).To(BeNil())
		Eventually(wrt, "2s").Should(Receive(Equal(libstc.OK)))

		sek := make(chan int64, 1)
		Expect(s.Seek(0, func(st libstc.Status, off int64) {
			Expect(st).To(Equal(libstc.OK))
			sek <- off
		})).To(BeNil())
		Eventually(sek, "2s").Should(Receive(Equal(int64(0))))

		rdd := make(chan []byte, 1)
		Expect(s.Read(16, func(st libstc.Status, data []byte) bool {
			Expect(st).To(Equal(libstc.OK))
			cp := make([]byte, len(data))
			copy(cp, data)
			rdd <- cp
			return false
		})).To(BeNil())

		var data []byte
		Eventually(rdd, "2s").Should(Receive(&data))
		Expect(data).To(Equal([]byte("payload")))
	})

	It("should accumulate cached writes and drain them on sync", func() {
		s, err := libstr.FromURL(p, "data://")
		Expect(err).To(BeNil())

		Expect(s.Ctrl(libstr.CtrlSetWriteCache, 64)).To(BeTrue())

		open(s)

		// cached writes complete without touching the backend
		for _, part := range []string{"aa", "bb", "cc"} {
			done := make(chan struct{})
			Expect(s.Write([]byte(part), func(st libstc.Status, sent, size int) bool {
				Expect(st).To(Equal(libstc.OK))
				close(done)
				return false
			})).To(BeNil())
			Eventually(done).Should(BeClosed())
		}

		Expect(s.Size()).To(BeZero())

		syn := make(chan libstc.Status, 1)
		Expect(s.Sync(func(st libstc.Status) { syn <- st })).To(BeNil())
		Eventually(syn, "2s").Should(Receive(Equal(libstc.OK)))

		Expect(s.Size()).To(Equal(int64(6)))
		Expect(s.Offset()).To(Equal(int64(6)))
	})

	It("should sync the write cache before a read", func() {
		s, err := libstr.FromURL(p, "data://")
		Expect(err).To(BeNil())

		Expect(s.Ctrl(libstr.CtrlSetWriteCache, 64)).To(BeTrue())

		open(s)

		done := make(chan struct{})
		Expect(s.Write([]byte("xyz"), func(st libstc.Status, sent, size int) bool {
			close(done)
			return false
		})).To(BeNil())
		Eventually(done).Should(BeClosed())

		// the read drains the cache first, then reads from the buffer end
		rdd := make(chan libstc.Status, 1)
		Expect(s.Read(8, func(st libstc.Status, data []byte) bool {
			rdd <- st
			return false
		})).To(BeNil())

		Eventually(rdd, "2s").Should(Receive(Equal(libstc.Closed)))
		Expect(s.Size()).To(Equal(int64(3)))
	})

	It("should clamp reads to the read cache window", func() {
		s, err := libstr.FromURL(p, "data://aGVsbG8gd29ybGQ=")
		Expect(err).To(BeNil())

		Expect(s.Ctrl(libstr.CtrlSetReadCache, 4)).To(BeTrue())

		open(s)

		rdd := make(chan int, 1)
		Expect(s.Read(64, func(st libstc.Status, data []byte) bool {
			Expect(st).To(Equal(libstc.OK))
			rdd <- len(data)
			return false
		})).To(BeNil())

		Eventually(rdd, "2s").Should(Receive(Equal(4)))
	})

	It("should open then read through the chained helper", func() {
		s, err := libstr.FromURL(p, "data://aGVsbG8=")
		Expect(err).To(BeNil())

		rdd := make(chan []byte, 1)
		Expect(s.OpenRead(16, func(st libstc.Status, data []byte) bool {
			Expect(st).To(Equal(libstc.OK))
			cp := make([]byte, len(data))
			copy(cp, data)
			rdd <- cp
			return false
		})).To(BeNil())

		var data []byte
		Eventually(rdd, "2s").Should(Receive(&data))
		Expect(data).To(Equal([]byte("hello")))
		Expect(s.State()).To(Equal(libstr.StateOpened))
	})

	It("should forward an open failure to the chained callback", func() {
		s := newSlow(p, 10*time.Millisecond, libstc.Refused)

		rdd := make(chan libstc.Status, 1)
		Expect(s.OpenRead(16, func(st libstc.Status, data []byte) bool {
			rdd <- st
			return false
		})).To(BeNil())

		Eventually(rdd, "2s").Should(Receive(Equal(libstc.Refused)))
	})

	It("should complete a seek to the current offset synchronously", func() {
		s, err := libstr.FromURL(p, "data://aGVsbG8=")
		Expect(err).To(BeNil())

		open(s)

		var got int64 = -1
		Expect(s.Seek(0, func(st libstc.Status, off int64) {
			Expect(st).To(Equal(libstc.OK))
			got = off
		})).To(BeNil())

		// same-offset seek completes before Seek returns
		Expect(got).To(Equal(int64(0)))
	})

	It("should refuse sendfile on a backend without a sendfile path", func() {
		s, err := libstr.FromURL(p, "data://")
		Expect(err).To(BeNil())

		open(s)

		f, ferr := os.CreateTemp(GinkgoT().TempDir(), "payload")
		Expect(ferr).ToNot(HaveOccurred())
		defer func() { _ = f.Close() }()

		snt := make(chan libstc.Status, 1)
		Expect(s.SendFile(f, 0, 1, func(st libstc.Status, sent, size int) bool {
			snt <- st
			return false
		})).To(BeNil())

		Eventually(snt, "2s").Should(Receive(Equal(libstc.NotSupported)))
	})

	It("should report a zero byte read as ok without advancing", func() {
		s, err := libstr.FromURL(p, "data://aGVsbG8=")
		Expect(err).To(BeNil())

		open(s)

		rdd := make(chan libstc.Status, 1)
		Expect(s.Read(0, func(st libstc.Status, data []byte) bool {
			Expect(data).To(BeEmpty())
			rdd <- st
			return false
		})).To(BeNil())

		Eventually(rdd, "2s").Should(Receive(Equal(libstc.OK)))
		Expect(s.Offset()).To(BeZero())
	})
})
