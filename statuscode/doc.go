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

// Package statuscode defines the completion taxonomy shared by the proactor,
// the async streams and the filter pipeline.
//
// Every asynchronous operation terminates with exactly one Status value that
// is delivered through the completion callback. The package also provides the
// total normalisation tables converting platform results into that taxonomy:
//
//   - FromErrno converts a unix errno into a Status
//   - FromNTStatus converts an NT status word (the Internal field of a
//     completed overlapped) into a Status, extracting the embedded win32
//     error code when the facility is NT-Win32
//   - FromError classifies any Go error (net, os, io, context) into a Status
//
// The type follows the usual enum conventions of this code base: Parse,
// String, Code and the text/JSON/YAML/TOML/CBOR marshalling set.
package statuscode
