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

// basic_test.go validates the fundamental proactor operations: socket send
// and receive, datagram round trips, file I/O and scheduled tasks.
package aicp_test

import (
	"net"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libcpl "github.com/sabouaram/goaio/aicp"
	libedp "github.com/sabouaram/goaio/endpoint"
	libstc "github.com/sabouaram/goaio/statuscode"
)

var _ = Describe("Proactor Basic Operations", func() {
	var p libcpl.Proactor

	BeforeEach(func() {
		p = newProactor()
	})

	AfterEach(func() {
		if p != nil {
			Expect(p.Exit()).To(BeNil())
		}
	})

	Context("tcp send and receive", func() {
		It("should echo bytes through posted operations", func() {
			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			var (
				snt = make(chan libcpl.Result, 1)
				rcv = make(chan libcpl.Result, 1)
				buf = make([]byte, 16)
			)

			Expect(p.PostRecv(srv, buf, time.Second, "rcv", collect(rcv))).To(BeNil())
			Expect(p.PostSend(cli, []byte("hello"), time.Second, "snt", collect(snt))).To(BeNil())

			var res libcpl.Result

			Eventually(snt, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Bytes).To(Equal(5))
			Expect(res.Cookie).To(Equal("snt"))

			Eventually(rcv, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Bytes).To(Equal(5))
			Expect(buf[:res.Bytes]).To(Equal([]byte("hello")))
		})

		It("should report a half shutdown as closed", func() {
			cli, srv, lst := tcpPair()
			defer func() {
				_ = srv.Close()
				_ = lst.Close()
			}()

			rcv := make(chan libcpl.Result, 1)

			Expect(p.PostRecv(srv, make([]byte, 8), 2*time.Second, nil, collect(rcv))).To(BeNil())

			_ = cli.Close()

			var res libcpl.Result
			Eventually(rcv, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.Closed))
			Expect(res.Bytes).To(BeZero())
		})

		It("should gather a vectored send", func() {
			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			var (
				snt = make(chan libcpl.Result, 1)
				rcv = make(chan libcpl.Result, 1)
				buf = make([]byte, 16)
			)

			Expect(p.PostRecv(srv, buf, time.Second, nil, collect(rcv))).To(BeNil())
			Expect(p.PostSendV(cli, [][]byte{[]byte("he"), []byte("llo")}, time.Second, nil, collect(snt))).To(BeNil())

			var res libcpl.Result

			Eventually(snt, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Bytes).To(Equal(5))

			Eventually(rcv, "2s").Should(Receive(&res))
			Expect(buf[:res.Bytes]).To(Equal([]byte("hello")))
		})
	})

	Context("accept", func() {
		It("should deliver the accepted connection with its peer", func() {
			lst, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = lst.Close() }()

			acc := make(chan libcpl.Result, 1)

			Expect(p.PostAccept(lst, 2*time.Second, nil, collect(acc))).To(BeNil())

			cli, err := net.Dial("tcp", lst.Addr().String())
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = cli.Close() }()

			var res libcpl.Result
			Eventually(acc, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Conn).ToNot(BeNil())
			Expect(res.Peer.Kind()).To(Equal(libedp.KindIPv4))

			defer func() { _ = res.Conn.Close() }()
		})
	})

	Context("udp round trip", func() {
		It("should send and receive one datagram with its peer address", func() {
			pc, err := net.ListenPacket("udp", "127.0.0.1:0")
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = pc.Close() }()

			sdr, err := net.ListenPacket("udp", "127.0.0.1:0")
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = sdr.Close() }()

			var (
				snt = make(chan libcpl.Result, 1)
				rcv = make(chan libcpl.Result, 1)
				buf = make([]byte, 16)
			)

			dst := libedp.FromNetAddr(pc.LocalAddr())
			Expect(dst.Kind()).To(Equal(libedp.KindIPv4))

			Expect(p.PostURecv(pc, buf, 2*time.Second, nil, collect(rcv))).To(BeNil())
			Expect(p.PostUSend(sdr, dst, []byte("ping"), time.Second, nil, collect(snt))).To(BeNil())

			var res libcpl.Result

			Eventually(snt, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Bytes).To(Equal(4))

			Eventually(rcv, "3s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Bytes).To(Equal(4))
			Expect(buf[:4]).To(Equal([]byte("ping")))
			Expect(res.Peer.Equal(libedp.FromNetAddr(sdr.LocalAddr()))).To(BeTrue())
		})
	})

	Context("file operations", func() {
		It("should write, sync and read back at an offset", func() {
			f, err := os.CreateTemp(GinkgoT().TempDir(), "aicp")
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = f.Close() }()

			var (
				wrt = make(chan libcpl.Result, 1)
				syn = make(chan libcpl.Result, 1)
				rdd = make(chan libcpl.Result, 1)
				buf = make([]byte, 5)
			)

			Expect(p.PostWrite(f, 0, []byte("hello"), 0, nil, collect(wrt))).To(BeNil())

			var res libcpl.Result
			Eventually(wrt, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Bytes).To(Equal(5))

			Expect(p.PostFSync(f, nil, collect(syn))).To(BeNil())
			Eventually(syn, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))

			Expect(p.PostRead(f, 0, buf, 0, nil, collect(rdd))).To(BeNil())
			Eventually(rdd, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(buf).To(Equal([]byte("hello")))
		})

		It("should report end of file as closed", func() {
			name := filepath.Join(GinkgoT().TempDir(), "empty")
			Expect(os.WriteFile(name, nil, 0o600)).To(Succeed())

			f, err := os.Open(name)
			Expect(err).ToNot(HaveOccurred())
			defer func() { _ = f.Close() }()

			rdd := make(chan libcpl.Result, 1)

			Expect(p.PostRead(f, 0, make([]byte, 8), 0, nil, collect(rdd))).To(BeNil())

			var res libcpl.Result
			Eventually(rdd, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.Closed))
			Expect(res.Bytes).To(BeZero())
		})
	})

	Context("scheduled tasks", func() {
		It("should fire a task at its absolute time", func() {
			tsk := make(chan libcpl.Result, 1)

			before := time.Now()
			Expect(p.PostRunTask(time.Now().Add(30*time.Millisecond), "t", collect(tsk))).To(BeNil())

			var res libcpl.Result
			Eventually(tsk, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
			Expect(res.Cookie).To(Equal("t"))
			Expect(time.Since(before)).To(BeNumerically(">=", 25*time.Millisecond))
		})
	})

	Context("posting validation", func() {
		It("should reject a nil callback", func() {
			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			Expect(p.PostRecv(srv, make([]byte, 1), 0, nil, nil)).ToNot(BeNil())
		})

		It("should reject a nil handle", func() {
			Expect(p.PostRecv(nil, make([]byte, 1), 0, nil, collect(make(chan libcpl.Result, 1)))).ToNot(BeNil())
		})

		It("should complete an overlapping post with invalid argument", func() {
			cli, srv, lst := tcpPair()
			defer func() {
				_ = cli.Close()
				_ = srv.Close()
				_ = lst.Close()
			}()

			var (
				one = make(chan libcpl.Result, 1)
				two = make(chan libcpl.Result, 1)
			)

			Expect(p.PostRecv(srv, make([]byte, 4), 2*time.Second, nil, collect(one))).To(BeNil())

			// second post on the same handle while the first is in flight:
			// the queues are FIFO, so the first is always issued first
			Expect(p.PostRecv(srv, make([]byte, 4), 2*time.Second, nil, collect(two))).To(BeNil())

			var res libcpl.Result
			Eventually(two, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.InvalidArgument))

			// release the first operation
			_, _ = cli.Write([]byte("data"))

			Eventually(one, "2s").Should(Receive(&res))
			Expect(res.Status).To(Equal(libstc.OK))
		})
	})
})
