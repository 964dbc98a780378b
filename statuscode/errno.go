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
	"golang.org/x/sys/unix"
)

// FromErrno converts a unix errno into the completion taxonomy.
//
// The mapping is total: any errno not explicitly classified returns Failed.
func FromErrno(errno unix.Errno) Status {
	switch errno {
	case 0:
		return OK

	case unix.EINPROGRESS, unix.EALREADY:
		return Pending

	case unix.EAGAIN, unix.EINTR:
		return Waiting

	case unix.ETIMEDOUT:
		return Timeout

	case unix.ECONNREFUSED:
		return Refused

	case unix.ENETUNREACH, unix.EHOSTUNREACH, unix.ENETDOWN, unix.EHOSTDOWN:
		return Unreachable

	case unix.ECONNRESET, unix.ECONNABORTED, unix.ENETRESET:
		return Reset

	case unix.EPIPE, unix.ESHUTDOWN, unix.ENOTCONN:
		return Closed

	case unix.ENOBUFS:
		return NoBuffers

	case unix.ENOMEM:
		return OutOfMemory

	case unix.EMSGSIZE:
		return MessageTooBig

	case unix.ECANCELED:
		return Killed

	case unix.EOPNOTSUPP, unix.EPROTONOSUPPORT, unix.EAFNOSUPPORT:
		return NotSupported

	case unix.ENOSYS:
		return NotImplemented

	case unix.EINVAL, unix.EFAULT, unix.EBADF, unix.ENOTSOCK:
		return InvalidArgument

	default:
		return Failed
	}
}
