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

package aicp

// OpCode identifies the kind of a posted operation. It is immutable for the
// lifetime of a single posting.
type OpCode uint8

const (
	// OpNone is the idle operation code of a cleared completion object.
	OpNone OpCode = iota

	// OpAccept accepts one client connection on a listener.
	OpAccept

	// OpConnect establishes an outbound connection.
	OpConnect

	// OpRecv receives bytes on a connected socket.
	OpRecv

	// OpSend sends bytes on a connected socket.
	OpSend

	// OpURecv receives one datagram on an unconnected socket.
	OpURecv

	// OpUSend sends one datagram to an explicit peer.
	OpUSend

	// OpRecvV receives into a vector of buffers on a connected socket.
	OpRecvV

	// OpSendV sends a vector of buffers on a connected socket.
	OpSendV

	// OpURecvV receives one datagram scattered into a vector of buffers.
	OpURecvV

	// OpUSendV sends one datagram gathered from a vector of buffers.
	OpUSendV

	// OpSendFile streams a file range onto a connected socket.
	OpSendFile

	// OpRead reads bytes from a file at the tracked offset.
	OpRead

	// OpWrite writes bytes to a file at the tracked offset.
	OpWrite

	// OpReadV reads a vector of buffers from a file.
	OpReadV

	// OpWriteV writes a vector of buffers to a file.
	OpWriteV

	// OpFSync flushes a file to stable storage.
	OpFSync

	// OpRunTask fires a callback at an absolute time.
	OpRunTask

	// OpClose closes a handle, recycling sockets to the pool when possible.
	OpClose
)

func (c OpCode) String() string {
	switch c {
	case OpAccept:
		return "accept"
	case OpConnect:
		return "connect"
	case OpRecv:
		return "recv"
	case OpSend:
		return "send"
	case OpURecv:
		return "urecv"
	case OpUSend:
		return "usend"
	case OpRecvV:
		return "recvv"
	case OpSendV:
		return "sendv"
	case OpURecvV:
		return "urecvv"
	case OpUSendV:
		return "usendv"
	case OpSendFile:
		return "sendfile"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpReadV:
		return "readv"
	case OpWriteV:
		return "writev"
	case OpFSync:
		return "fsync"
	case OpRunTask:
		return "runtask"
	case OpClose:
		return "close"
	default:
		return "none"
	}
}

// IsPriority returns true for operation codes posted on the higher priority
// queue: connection-level postings, scheduled tasks and closes run ahead of
// data operations.
func (c OpCode) IsPriority() bool {
	switch c {
	case OpAccept, OpConnect, OpRunTask, OpClose:
		return true
	default:
		return false
	}
}

// IsData returns true for byte-moving operation codes.
func (c OpCode) IsData() bool {
	switch c {
	case OpRecv, OpSend, OpURecv, OpUSend, OpRecvV, OpSendV, OpURecvV,
		OpUSendV, OpSendFile, OpRead, OpWrite, OpReadV, OpWriteV:
		return true
	default:
		return false
	}
}
