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

package stream

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

const (
	// ErrorParamEmpty is returned when a required parameter is missing.
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinAvailable + 60
	// ErrorParamInvalid is returned when a given parameter is invalid.
	ErrorParamInvalid
	// ErrorBadState is returned when the stream state forbids the operation.
	ErrorBadState
	// ErrorBadURL is returned when the URL cannot be parsed or has no backend.
	ErrorBadURL
	// ErrorNotSupported is returned when the backend cannot run the operation.
	ErrorNotSupported
	// ErrorExitNotClosed is returned when Exit cannot settle the stream closed.
	ErrorExitNotClosed
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamEmpty) {
		panic(fmt.Errorf("error code collision with package goaio/stream"))
	}
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamEmpty:
		return "at least one given parameters is empty"
	case ErrorParamInvalid:
		return "at least one given parameters is invalid"
	case ErrorBadState:
		return "stream state forbids this operation"
	case ErrorBadURL:
		return "url is invalid or has no registered backend"
	case ErrorNotSupported:
		return "operation is not supported by this stream backend"
	case ErrorExitNotClosed:
		return "stream did not close before exit deadline"
	}

	return liberr.NullMessage
}
