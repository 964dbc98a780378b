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

// robustness_test.go validates timeout delivery, cancellation, recycling and
// shutdown behaviors of the proactor.
package aicp_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libcpl "github.com/sabouaram/goaio/aicp"
	libedp "github.com/sabouaram/goaio/endpoint"
	libpol "github.com/sabouaram/goaio/sockpool"
	libstc "github.com/sabouaram/goaio/statuscode"
)

var _ = Describe("Proactor Robustness", func() {
	Context("timeouts", func() {
		It("should deliver timeout on an idle receive within one wheel tick", func() {
			p := newProactor()
			defer func() { _ = p.Exit() }()

			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			rcv := make(chan libcpl.Result, 1)
			before := time.Now()

			Expect(p.PostRecv(srv, make([]byte, 8), 200*time.Millisecond, nil, collect(rcv))).To(BeNil())

			var res libcpl.Result
			Eventually(rcv, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.Timeout))
			Expect(time.Since(before)).To(BeNumerically("<", 2*time.Second))
		})

		It("should keep the connection usable after a timeout", func() {
			p := newProactor()
			defer func() { _ = p.Exit() }()

			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			rcv := make(chan libcpl.Result, 1)

			Expect(p.PostRecv(srv, make([]byte, 8), 100*time.Millisecond, nil, collect(rcv))).To(BeNil())

			var res libcpl.Result
			Eventually(rcv, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.Timeout))

			// the deadline poison must have been cleared
			_, _ = cli.Write([]byte("late"))

			two := make(chan libcpl.Result, 1)
			buf := make([]byte, 8)

			Expect(p.PostRecv(srv, buf, time.Second, nil, collect(two))).To(BeNil())
			Eventually(two, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(buf[:res.Bytes]).To(Equal([]byte("late")))
		})
	})

	Context("cancellation", func() {
		It("should deliver killed for a handle killed from another goroutine", func() {
			p := newProactor()
			defer func() { _ = p.Exit() }()

			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			rcv := make(chan libcpl.Result, 1)

			Expect(p.PostRecv(srv, make([]byte, 8), 0, nil, collect(rcv))).To(BeNil())

			time.Sleep(100 * time.Millisecond)
			p.KillHandle(srv)

			var res libcpl.Result
			Eventually(rcv, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.Killed))
		})

		It("should deliver killed for operations pending at shutdown", func() {
			p := newProactor()

			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			rcv := make(chan libcpl.Result, 1)

			Expect(p.PostRecv(srv, make([]byte, 8), 0, nil, collect(rcv))).To(BeNil())

			time.Sleep(50 * time.Millisecond)
			Expect(p.Exit()).To(BeNil())

			var res libcpl.Result
			Eventually(rcv, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.Killed))
			Expect(p.IsRunning()).To(BeFalse())
		})

		It("should refuse postings after kill", func() {
			p := newProactor()
			p.Kill()

			Eventually(p.IsRunning, "2s").Should(BeFalse())

			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			Expect(p.PostRecv(srv, make([]byte, 1), 0, nil, collect(make(chan libcpl.Result, 1)))).ToNot(BeNil())
		})
	})

	Context("close and recycling", func() {
		It("should recycle a closed connection into the pool", func() {
			pool := libpol.New(0, 0)
			defer func() { _ = pool.Close() }()

			p, err := libcpl.New(libcpl.Config{
				ObjectCount: 64,
				Precision:   50 * time.Millisecond,
				ExitTimeout: 2 * time.Second,
				Pool:        pool,
			})
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = p.Exit() }()

			cli, srv, lst := tcpPair()
			defer func() {
				_ = srv.Close()
				_ = lst.Close()
			}()

			cls := make(chan libcpl.Result, 1)

			Expect(p.PostClose(cli, nil, collect(cls))).To(BeNil())

			var res libcpl.Result
			Eventually(cls, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(pool.Len()).To(Equal(1))
		})

		It("should close outright without a pool", func() {
			p := newProactor()
			defer func() { _ = p.Exit() }()

			cli, srv, lst := tcpPair()
			defer func() {
				_ = srv.Close()
				_ = lst.Close()
			}()

			cls := make(chan libcpl.Result, 1)

			Expect(p.PostClose(cli, nil, collect(cls))).To(BeNil())

			var res libcpl.Result
			Eventually(cls, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))

			// the handle is really closed
			Eventually(func() error {
				_, e := cli.Write([]byte("x"))
				return e
			}, "2s").Should(HaveOccurred())
		})
	})

	Context("connect", func() {
		It("should report refused for a closed port", func() {
			p := newProactor()
			defer func() { _ = p.Exit() }()

			// grab a free port then close it
			lst, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).ToNot(HaveOccurred())

			adr := lst.Addr().(*net.TCPAddr)
			Expect(lst.Close()).To(Succeed())

			cnt := make(chan libcpl.Result, 1)

			var e4 [4]byte
			copy(e4[:], adr.IP.To4())

			ep := libedp.NewV4(e4, uint16(adr.Port))

			Expect(p.PostConnect("tcp", ep, 2*time.Second, nil, collect(cnt))).To(BeNil())

			var res libcpl.Result
			Eventually(cnt, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.Refused))
		})

		It("should deliver the connection on success", func() {
			p := newProactor()
			defer func() { _ = p.Exit() }()

			lst, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = lst.Close() }()

			go func() {
				c, e := lst.Accept()
				if e == nil {
					_ = c.Close()
				}
			}()

			adr := lst.Addr().(*net.TCPAddr)

			var e4 [4]byte
			copy(e4[:], adr.IP.To4())

			cnt := make(chan libcpl.Result, 1)

			Expect(p.PostConnect("tcp", libedp.NewV4(e4, uint16(adr.Port)), 2*time.Second, nil, collect(cnt))).To(BeNil())

			var res libcpl.Result
			Eventually(cnt, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Conn).ToNot(BeNil())

			_ = res.Conn.Close()
		})
	})
})
