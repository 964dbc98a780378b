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

// NT status words, as found in the Internal field of a completed overlapped
// structure. Only the codes the completion path can observe are listed.
const (
	NTStatusSuccess            uint32 = 0x00000000
	NTStatusTimeout            uint32 = 0x00000102
	NTStatusPending            uint32 = 0x00000103
	NTStatusBufferOverflow     uint32 = 0x80000005
	NTStatusEndOfFile          uint32 = 0xC0000011
	NTStatusNoMemory           uint32 = 0xC0000017
	NTStatusConflictingAddr    uint32 = 0xC0000018
	NTStatusPageFileQuota      uint32 = 0xC0000007
	NTStatusQuotaExceeded      uint32 = 0xC0000044
	NTStatusTooManyPagingFiles uint32 = 0xC0000097
	NTStatusWorkingSetQuota    uint32 = 0xC00000A1
	NTStatusIOTimeout          uint32 = 0xC00000B5
	NTStatusRemoteNotListening uint32 = 0xC00000BC
	NTStatusBadNetworkPath     uint32 = 0xC00000BE
	NTStatusNetworkBusy        uint32 = 0xC00000BF
	NTStatusTooManyCommands    uint32 = 0xC00000C1
	NTStatusTooManySessions    uint32 = 0xC00000CE
	NTStatusRequestAborted     uint32 = 0xC0000240
	NTStatusLocalDisconnect    uint32 = 0xC000013B
	NTStatusRemoteDisconnect   uint32 = 0xC000013C
	NTStatusRemoteResources    uint32 = 0xC000013D
	NTStatusLinkFailed         uint32 = 0xC000013E
	NTStatusLinkTimeout        uint32 = 0xC000013F
	NTStatusCancelled          uint32 = 0xC0000120
	NTStatusCommitmentLimit    uint32 = 0xC000012D
	NTStatusInvalidBufferSize  uint32 = 0xC0000206
	NTStatusTooManyAddresses   uint32 = 0xC0000209
	NTStatusConnectionReset    uint32 = 0xC000020D
	NTStatusConnectionRefused  uint32 = 0xC0000236
	NTStatusGracefulDisconnect uint32 = 0xC0000237
	NTStatusNetworkUnreachable uint32 = 0xC000023C
	NTStatusHostUnreachable    uint32 = 0xC000023D
	NTStatusProtoUnreachable   uint32 = 0xC000023E
	NTStatusPortUnreachable    uint32 = 0xC000023F
	NTStatusHopLimitExceeded   uint32 = 0xC000A012

	ntFacilityWin32 uint32 = 0x0007
	ntSeverityError uint32 = 0x0003
)

// FromNTStatus converts an NT status word into the completion taxonomy.
//
// For a code outside the known table whose facility is NT-Win32 and whose
// severity bits are set, the returned win32 value holds the embedded win32
// error (the low 16 bits of the word) and the Status is Failed. Every other
// unknown code maps to InvalidArgument with a zero win32 value.
func FromNTStatus(code uint32) (st Status, win32 uint16) {
	switch code {
	case NTStatusSuccess:
		return OK, 0

	case NTStatusPending:
		return Pending, 0

	case NTStatusTimeout, NTStatusLinkTimeout, NTStatusIOTimeout:
		return Timeout, 0

	case NTStatusConnectionReset, NTStatusRemoteDisconnect, NTStatusLinkFailed,
		NTStatusPortUnreachable, NTStatusHopLimitExceeded:
		return Reset, 0

	case NTStatusCancelled, NTStatusRequestAborted, NTStatusLocalDisconnect:
		return Killed, 0

	case NTStatusBufferOverflow, NTStatusInvalidBufferSize:
		return MessageTooBig, 0

	case NTStatusNoMemory, NTStatusPageFileQuota, NTStatusWorkingSetQuota,
		NTStatusCommitmentLimit, NTStatusConflictingAddr, NTStatusQuotaExceeded,
		NTStatusRemoteResources, NTStatusTooManyPagingFiles,
		NTStatusTooManyAddresses, NTStatusTooManySessions, NTStatusTooManyCommands:
		return NoBuffers, 0

	case NTStatusEndOfFile:
		return EOF, 0

	case NTStatusConnectionRefused, NTStatusRemoteNotListening:
		return Refused, 0

	case NTStatusNetworkUnreachable, NTStatusHostUnreachable,
		NTStatusProtoUnreachable, NTStatusBadNetworkPath, NTStatusNetworkBusy:
		return Unreachable, 0

	case NTStatusGracefulDisconnect:
		return Closed, 0
	}

	if (code>>30) == ntSeverityError && ((code>>16)&0x0FFF) == ntFacilityWin32 {
		return Failed, uint16(code & 0xFFFF)
	}

	return InvalidArgument, 0
}
