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

import (
	"strings"
)

// Status is the completion state of an asynchronous operation.
//
// The zero value is Unknown so that an uninitialised field can never be
// mistaken for a successful completion.
type Status uint8

const (
	// Unknown represents an unrecognized or unset completion state.
	Unknown Status = iota

	// OK means the operation completed successfully.
	OK

	// Pending means the operation has been accepted and is still in flight.
	Pending

	// Waiting means the operation is queued but not yet issued.
	Waiting

	// Failed means the operation terminated with an unclassified error.
	Failed

	// Killed means the operation was aborted by an explicit cancellation.
	Killed

	// Closed means the remote side performed an orderly shutdown, or the
	// underlying handle was closed while the operation was in flight.
	Closed

	// Timeout means the operation did not complete within its deadline.
	Timeout

	// Refused means the remote side actively refused the connection.
	Refused

	// Unreachable means no route to the remote network or host exists.
	Unreachable

	// Reset means the connection was reset by the peer or the link failed.
	Reset

	// NoBuffers means the platform ran out of buffer space or quota.
	NoBuffers

	// MessageTooBig means the datagram exceeded the buffer or message limit.
	MessageTooBig

	// NotSupported means the operation is not supported by this backend.
	NotSupported

	// NotImplemented means the operation is not implemented at all.
	NotImplemented

	// InvalidArgument means a caller-supplied parameter was rejected.
	InvalidArgument

	// EOF means the end of the byte source was reached.
	EOF

	// OutOfMemory means an allocation failed.
	OutOfMemory

	// DNSFailed means host name resolution failed.
	DNSFailed

	// SSLFailed means the TLS layer failed during handshake or transfer.
	SSLFailed
)

// List returns all known Status values, successful first.
func List() []Status {
	return []Status{
		OK,
		Pending,
		Waiting,
		Failed,
		Killed,
		Closed,
		Timeout,
		Refused,
		Unreachable,
		Reset,
		NoBuffers,
		MessageTooBig,
		NotSupported,
		NotImplemented,
		InvalidArgument,
		EOF,
		OutOfMemory,
		DNSFailed,
		SSLFailed,
	}
}

// Parse returns the Status matching the given string.
//
// Matching is case-insensitive and ignores quotes, spaces, dashes and
// underscores. An unrecognized string returns Unknown.
func Parse(s string) Status {
	s = strings.ToLower(s)
	s = strings.Replace(s, "\"", "", -1) // nolint
	s = strings.Replace(s, "'", "", -1)  // nolint
	s = strings.Replace(s, "-", "", -1)  // nolint
	s = strings.Replace(s, "_", "", -1)  // nolint
	s = strings.Replace(s, " ", "", -1)  // nolint
	s = strings.TrimSpace(s)

	for _, v := range List() {
		if strings.EqualFold(s, strings.Replace(v.Code(), "_", "", -1)) {
			return v
		}
	}

	return Unknown
}

// ParseBytes returns the Status matching the given byte slice, see Parse.
func ParseBytes(p []byte) Status {
	return Parse(string(p))
}

// ParseInt returns the Status matching the given integer value, or Unknown
// if the value is not a known Status.
func ParseInt(d int) Status {
	if d > 0 && d <= int(SSLFailed) {
		return Status(d)
	}

	return Unknown
}

// IsOK returns true if the status is a successful completion.
func (s Status) IsOK() bool {
	return s == OK
}

// IsFinal returns true if the status terminates the operation, i.e. the
// operation is neither queued nor still in flight.
func (s Status) IsFinal() bool {
	switch s {
	case Pending, Waiting:
		return false
	default:
		return true
	}
}
