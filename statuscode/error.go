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

//go:build !windows

package statuscode

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// FromError classifies any Go error into the completion taxonomy.
//
// The classification unwraps net.OpError and os.SyscallError chains down to
// the raw errno when one is present. A nil error returns OK.
func FromError(err error) Status {
	if err == nil {
		return OK
	}

	var (
		errno unix.Errno
		edns  *net.DNSError
		ecrt  *tls.CertificateVerificationError
		ehdr  tls.RecordHeaderError
	)

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return EOF

	case errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return Timeout

	case errors.Is(err, context.Canceled):
		return Killed

	case errors.Is(err, net.ErrClosed), errors.Is(err, os.ErrClosed):
		return Closed

	case errors.As(err, &edns):
		return DNSFailed

	case errors.As(err, &ecrt), errors.As(err, &ehdr):
		return SSLFailed

	case errors.As(err, &errno):
		return FromErrno(errno)

	case errors.Is(err, os.ErrInvalid):
		return InvalidArgument
	}

	return Failed
}
