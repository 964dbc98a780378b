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

package statuscode

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Pending:
		return "Pending"
	case Waiting:
		return "Waiting"
	case Failed:
		return "Failed"
	case Killed:
		return "Killed"
	case Closed:
		return "Closed"
	case Timeout:
		return "Timeout"
	case Refused:
		return "Refused"
	case Unreachable:
		return "Unreachable"
	case Reset:
		return "Reset"
	case NoBuffers:
		return "No Buffers"
	case MessageTooBig:
		return "Message Too Big"
	case NotSupported:
		return "Not Supported"
	case NotImplemented:
		return "Not Implemented"
	case InvalidArgument:
		return "Invalid Argument"
	case EOF:
		return "EOF"
	case OutOfMemory:
		return "Out Of Memory"
	case DNSFailed:
		return "DNS Failed"
	case SSLFailed:
		return "SSL Failed"
	default:
		return "Unknown"
	}
}

// Code returns the status as a lowercase snake_case token, suitable for
// logging fields or configuration values.
func (s Status) Code() string {
	switch s {
	case NoBuffers:
		return "no_buffers"
	case MessageTooBig:
		return "message_too_big"
	case NotSupported:
		return "not_supported"
	case NotImplemented:
		return "not_implemented"
	case InvalidArgument:
		return "invalid_argument"
	case OutOfMemory:
		return "out_of_memory"
	case DNSFailed:
		return "dns_failed"
	case SSLFailed:
		return "ssl_failed"
	case EOF:
		return "eof"
	default:
		var res = make([]rune, 0, len(s.String()))
		for _, r := range s.String() {
			if r >= 'A' && r <= 'Z' {
				res = append(res, r+32)
			} else {
				res = append(res, r)
			}
		}
		return string(res)
	}
}

func (s Status) Int() int {
	return int(s)
}

func (s Status) Uint8() uint8 {
	return uint8(s)
}
