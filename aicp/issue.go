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

import (
	"io"
	"net"

	libedp "github.com/sabouaram/goaio/endpoint"
)

// funcIssue runs one platform primitive on its own goroutine and posts the
// completion. The dispatch is array-indexed by op code.
type funcIssue func(o *prc, op *operation, obj *object)

var issuers [OpClose + 1]funcIssue

func init() {
	issuers[OpAccept] = issueAccept
	issuers[OpConnect] = issueConnect
	issuers[OpRecv] = issueRecv
	issuers[OpSend] = issueSend
	issuers[OpRecvV] = issueRecvV
	issuers[OpSendV] = issueSendV
	issuers[OpURecv] = issueURecv
	issuers[OpUSend] = issueUSend
	issuers[OpURecvV] = issueURecvV
	issuers[OpUSendV] = issueUSendV
	issuers[OpSendFile] = issueSendFile
	issuers[OpRead] = issueRead
	issuers[OpWrite] = issueWrite
	issuers[OpReadV] = issueReadV
	issuers[OpWriteV] = issueWriteV
	issuers[OpFSync] = issueFSync
}

func issueAccept(o *prc, op *operation, obj *object) {
	cnn, err := op.lst.Accept()

	c := &completion{op: op, obj: obj, cnn: cnn, err: err}

	if cnn != nil {
		c.pee = libedp.FromNetAddr(cnn.RemoteAddr())
	}

	o.complete(c)
}

func issueConnect(o *prc, op *operation, obj *object) {
	d := net.Dialer{}

	if op.tmo > 0 {
		d.Timeout = op.tmo
	}

	cnn, err := d.Dial(op.ntw, op.per.String())

	c := &completion{op: op, obj: obj, cnn: cnn, err: err}

	if cnn != nil {
		c.pee = libedp.FromNetAddr(cnn.RemoteAddr())
	}

	o.complete(c)
}

func issueRecv(o *prc, op *operation, obj *object) {
	var (
		n   int
		err error
	)

	if len(op.buf) > 0 {
		n, err = op.cnn.Read(op.buf)
	}

	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

func issueSend(o *prc, op *operation, obj *object) {
	var (
		n   int
		err error
	)

	if len(op.buf) > 0 {
		n, err = op.cnn.Write(op.buf)
	}

	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

// issueRecvV reads once into the object scratch buffer, then scatters over
// the caller vector, preserving single-receive semantics.
func issueRecvV(o *prc, op *operation, obj *object) {
	buf := obj.scratch(op.size())
	n, err := op.cnn.Read(buf)
	scatter(buf[:n], op.vec)
	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

// issueSendV uses the gathered write of net.Buffers. The outer vector is
// cloned because WriteTo consumes it.
func issueSendV(o *prc, op *operation, obj *object) {
	bufs := make(net.Buffers, len(op.vec))
	copy(bufs, op.vec)

	n, err := bufs.WriteTo(op.cnn)
	o.complete(&completion{op: op, obj: obj, n: int(n), err: err})
}

func issueURecv(o *prc, op *operation, obj *object) {
	n, adr, err := op.pkc.ReadFrom(op.buf)

	c := &completion{op: op, obj: obj, n: n, err: err}

	if adr != nil {
		c.pee = libedp.FromNetAddr(adr)
	}

	o.complete(c)
}

func issueUSend(o *prc, op *operation, obj *object) {
	n, err := op.pkc.WriteTo(op.buf, op.per.UDPAddr())
	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

func issueURecvV(o *prc, op *operation, obj *object) {
	buf := obj.scratch(op.size())
	n, adr, err := op.pkc.ReadFrom(buf)
	scatter(buf[:n], op.vec)

	c := &completion{op: op, obj: obj, n: n, err: err}

	if adr != nil {
		c.pee = libedp.FromNetAddr(adr)
	}

	o.complete(c)
}

func issueUSendV(o *prc, op *operation, obj *object) {
	buf := obj.scratch(op.size())
	gather(buf, op.vec)

	n, err := op.pkc.WriteTo(buf, op.per.UDPAddr())
	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

// issueSendFile streams the file range; on TCP the transfer goes through the
// platform sendfile path of ReadFrom.
func issueSendFile(o *prc, op *operation, obj *object) {
	var (
		n   int64
		err error
	)

	if op.off >= 0 {
		_, err = op.fil.Seek(op.off, io.SeekStart)
	}

	if err == nil {
		if tc, k := op.cnn.(*net.TCPConn); k {
			n, err = tc.ReadFrom(io.LimitReader(op.fil, op.siz))
		} else {
			n, err = io.CopyN(op.cnn, op.fil, op.siz)
			if err == io.EOF && n > 0 {
				err = nil
			}
		}
	}

	o.complete(&completion{op: op, obj: obj, n: int(n), err: err})
}

func issueRead(o *prc, op *operation, obj *object) {
	var (
		n   int
		err error
	)

	if len(op.buf) > 0 {
		n, err = op.fil.ReadAt(op.buf, op.off)
		if err == io.EOF && n > 0 {
			err = nil
		}
	}

	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

func issueWrite(o *prc, op *operation, obj *object) {
	var (
		n   int
		err error
	)

	if len(op.buf) > 0 {
		n, err = op.fil.WriteAt(op.buf, op.off)
	}

	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

func issueReadV(o *prc, op *operation, obj *object) {
	buf := obj.scratch(op.size())

	n, err := op.fil.ReadAt(buf, op.off)
	if err == io.EOF && n > 0 {
		err = nil
	}

	scatter(buf[:n], op.vec)
	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

func issueWriteV(o *prc, op *operation, obj *object) {
	buf := obj.scratch(op.size())
	gather(buf, op.vec)

	n, err := op.fil.WriteAt(buf, op.off)
	o.complete(&completion{op: op, obj: obj, n: n, err: err})
}

func issueFSync(o *prc, op *operation, obj *object) {
	err := op.fil.Sync()
	o.complete(&completion{op: op, obj: obj, err: err})
}

func scatter(src []byte, vec [][]byte) {
	for _, b := range vec {
		if len(src) == 0 {
			return
		}
		n := copy(b, src)
		src = src[n:]
	}
}

func gather(dst []byte, vec [][]byte) {
	for _, b := range vec {
		n := copy(dst, b)
		dst = dst[n:]
	}
}
