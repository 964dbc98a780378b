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

package statuscode_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/sabouaram/goaio/statuscode"

	"golang.org/x/sys/unix"
)

var _ = Describe("NT Status Mapping", func() {
	Context("with listed codes", func() {
		It("should map success to OK", func() {
			st, w32 := FromNTStatus(NTStatusSuccess)
			Expect(st).To(Equal(OK))
			Expect(w32).To(BeZero())
		})

		It("should map pending to Pending", func() {
			st, _ := FromNTStatus(NTStatusPending)
			Expect(st).To(Equal(Pending))
		})

		It("should map all timeout flavours to Timeout", func() {
			for _, c := range []uint32{NTStatusTimeout, NTStatusLinkTimeout, NTStatusIOTimeout} {
				st, _ := FromNTStatus(c)
				Expect(st).To(Equal(Timeout), "code %#08x", c)
			}
		})

		It("should map reset flavours to Reset", func() {
			for _, c := range []uint32{NTStatusConnectionReset, NTStatusRemoteDisconnect, NTStatusLinkFailed, NTStatusPortUnreachable, NTStatusHopLimitExceeded} {
				st, _ := FromNTStatus(c)
				Expect(st).To(Equal(Reset), "code %#08x", c)
			}
		})

		It("should map aborts to Killed", func() {
			for _, c := range []uint32{NTStatusCancelled, NTStatusRequestAborted, NTStatusLocalDisconnect} {
				st, _ := FromNTStatus(c)
				Expect(st).To(Equal(Killed), "code %#08x", c)
			}
		})

		It("should map buffer size issues to MessageTooBig", func() {
			for _, c := range []uint32{NTStatusBufferOverflow, NTStatusInvalidBufferSize} {
				st, _ := FromNTStatus(c)
				Expect(st).To(Equal(MessageTooBig), "code %#08x", c)
			}
		})

		It("should map resource exhaustion to NoBuffers", func() {
			for _, c := range []uint32{NTStatusNoMemory, NTStatusPageFileQuota, NTStatusWorkingSetQuota, NTStatusCommitmentLimit, NTStatusConflictingAddr, NTStatusQuotaExceeded, NTStatusRemoteResources, NTStatusTooManyPagingFiles, NTStatusTooManyAddresses, NTStatusTooManySessions, NTStatusTooManyCommands} {
				st, _ := FromNTStatus(c)
				Expect(st).To(Equal(NoBuffers), "code %#08x", c)
			}
		})

		It("should map end of file to EOF", func() {
			st, _ := FromNTStatus(NTStatusEndOfFile)
			Expect(st).To(Equal(EOF))
		})

		It("should map refusal to Refused", func() {
			for _, c := range []uint32{NTStatusConnectionRefused, NTStatusRemoteNotListening} {
				st, _ := FromNTStatus(c)
				Expect(st).To(Equal(Refused), "code %#08x", c)
			}
		})

		It("should map network failures to Unreachable", func() {
			for _, c := range []uint32{NTStatusNetworkUnreachable, NTStatusHostUnreachable, NTStatusProtoUnreachable, NTStatusBadNetworkPath, NTStatusNetworkBusy} {
				st, _ := FromNTStatus(c)
				Expect(st).To(Equal(Unreachable), "code %#08x", c)
			}
		})

		It("should map graceful disconnect to Closed", func() {
			st, _ := FromNTStatus(NTStatusGracefulDisconnect)
			Expect(st).To(Equal(Closed))
		})
	})

	Context("with unlisted codes", func() {
		It("should extract the win32 code from an NT-Win32 error", func() {
			// severity error (11), facility win32 (0x7), win32 code 10060
			code := uint32(0xC0070000) | 10060
			st, w32 := FromNTStatus(code)
			Expect(st).To(Equal(Failed))
			Expect(w32).To(Equal(uint16(10060)))
		})

		It("should map any other unknown code to InvalidArgument", func() {
			st, w32 := FromNTStatus(0xC0000999)
			Expect(st).To(Equal(InvalidArgument))
			Expect(w32).To(BeZero())
		})
	})
})

var _ = Describe("Errno Mapping", func() {
	It("should map a zero errno to OK", func() {
		Expect(FromErrno(0)).To(Equal(OK))
	})

	It("should map connection errors", func() {
		Expect(FromErrno(unix.ETIMEDOUT)).To(Equal(Timeout))
		Expect(FromErrno(unix.ECONNREFUSED)).To(Equal(Refused))
		Expect(FromErrno(unix.ECONNRESET)).To(Equal(Reset))
		Expect(FromErrno(unix.EPIPE)).To(Equal(Closed))
		Expect(FromErrno(unix.EHOSTUNREACH)).To(Equal(Unreachable))
	})

	It("should map resource errors", func() {
		Expect(FromErrno(unix.ENOBUFS)).To(Equal(NoBuffers))
		Expect(FromErrno(unix.ENOMEM)).To(Equal(OutOfMemory))
		Expect(FromErrno(unix.EMSGSIZE)).To(Equal(MessageTooBig))
	})

	It("should map cancellation and unsupported operations", func() {
		Expect(FromErrno(unix.ECANCELED)).To(Equal(Killed))
		Expect(FromErrno(unix.EOPNOTSUPP)).To(Equal(NotSupported))
		Expect(FromErrno(unix.ENOSYS)).To(Equal(NotImplemented))
		Expect(FromErrno(unix.EINVAL)).To(Equal(InvalidArgument))
	})

	It("should map anything else to Failed", func() {
		Expect(FromErrno(unix.EXDEV)).To(Equal(Failed))
	})
})

var _ = Describe("Error Classification", func() {
	It("should return OK for a nil error", func() {
		Expect(FromError(nil)).To(Equal(OK))
	})

	It("should classify io errors", func() {
		Expect(FromError(io.EOF)).To(Equal(EOF))
		Expect(FromError(io.ErrUnexpectedEOF)).To(Equal(EOF))
	})

	It("should classify deadline and cancellation errors", func() {
		Expect(FromError(os.ErrDeadlineExceeded)).To(Equal(Timeout))
		Expect(FromError(context.DeadlineExceeded)).To(Equal(Timeout))
		Expect(FromError(context.Canceled)).To(Equal(Killed))
	})

	It("should classify closed network connections", func() {
		Expect(FromError(net.ErrClosed)).To(Equal(Closed))
	})

	It("should classify DNS failures", func() {
		Expect(FromError(&net.DNSError{Err: "no such host", Name: "nowhere.invalid"})).To(Equal(DNSFailed))
	})

	It("should unwrap wrapped syscall errors", func() {
		err := fmt.Errorf("recv: %w", os.NewSyscallError("read", unix.ECONNRESET))
		Expect(FromError(err)).To(Equal(Reset))
	})

	It("should unwrap net.OpError chains", func() {
		err := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", unix.ECONNREFUSED)}
		Expect(FromError(err)).To(Equal(Refused))
	})

	It("should classify anything else as Failed", func() {
		Expect(FromError(fmt.Errorf("some error"))).To(Equal(Failed))
	})
})
