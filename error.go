// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine

import "errors"

// ErrorKind enumerates the ways a request header block fails to decode.
// The zero value None means the session has not failed.
type ErrorKind uint8

const (
	// None: no decode failure has occurred.
	None ErrorKind = iota
	// MalformedRequestLine: the request line does not split into exactly
	// three space-separated fields.
	MalformedRequestLine
	// MalformedRequestHeader: a header line contains no ":" separator.
	MalformedRequestHeader
	// InvalidHTTPVersion: the version token is neither "HTTP/1.0" nor
	// "HTTP/1.1".
	InvalidHTTPVersion
	// IncompleteHeader: the header block ended (or outgrew the configured
	// bound) before the CRLFCRLF terminator appeared.
	IncompleteHeader
)

// String returns the human-readable description of the failure.
func (k ErrorKind) String() string {
	switch k {
	case None:
		return "no error"
	case MalformedRequestLine:
		return "malformed request line"
	case MalformedRequestHeader:
		return "malformed request header"
	case InvalidHTTPVersion:
		return "invalid HTTP version"
	case IncompleteHeader:
		return "incomplete header received"
	}
	return "unknown error"
}

// SocketError is a latched decode failure. The first failure wins: once a
// socket carries a SocketError it performs no further parsing transitions
// and the session is considered broken.
type SocketError struct {
	Kind ErrorKind
}

func newSocketError(kind ErrorKind) *SocketError {
	return &SocketError{Kind: kind}
}

// Error implements the error interface.
func (e *SocketError) Error() string {
	return "qhttpengine: " + e.Kind.String()
}

var (
	// ErrHeadersPending reports a request accessor called before the header
	// block has been parsed.
	ErrHeadersPending = errors.New("qhttpengine: request headers not yet parsed")

	// ErrPreambleSent reports a response mutator called after the preamble
	// has already been handed to the transport. The mutation is still
	// applied, but it can no longer reach the wire.
	ErrPreambleSent = errors.New("qhttpengine: response headers already written")
)
