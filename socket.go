// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine

import (
	"errors"
	"io"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// DefaultMaxHeaderBytes bounds the header block while the socket awaits the
// CRLFCRLF terminator. Exceeding it latches IncompleteHeader.
const DefaultMaxHeaderBytes = 32 << 10

// Socket is one server-side HTTP/1.x connection session layered over a raw
// byte transport. It is a duplex stream: reads yield the request body,
// writes go to the response body, and the response preamble is emitted
// lazily exactly once before the first body byte, or on close if no body is
// written.
//
// One goroutine drives the socket: OnReadable on every transport readable
// notification, plus Read, Write, Close, the accessors and the mutators.
// PollEvent may run on one other goroutine (the notification queue is
// single-producer single-consumer). Any wider sharing needs an external
// critical section around the socket.
type Socket struct {
	transport Transport
	serial    Serial

	buf            recvBuffer
	maxHeaderBytes int

	headersParsed atomix.Uint32
	req           *Request
	err           *SocketError

	status          string
	respFields      []headerField
	preambleWritten atomix.Uint32

	events eventQueue
}

// New wraps transport in a connection session. The socket takes exclusive
// ownership of the transport for the whole session lifetime.
func New(transport Transport) *Socket {
	s := &Socket{
		transport:      transport,
		serial:         nextSerial(),
		maxHeaderBytes: DefaultMaxHeaderBytes,
		status:         DefaultStatus,
	}
	s.events.init()
	return s
}

// Serial returns the serial number assigned to this socket.
func (s *Socket) Serial() Serial {
	return s.serial
}

// SetMaxHeaderBytes bounds the buffered header block; 0 disables the bound
// and the socket buffers an unterminated header block indefinitely.
func (s *Socket) SetMaxHeaderBytes(n int) {
	s.maxHeaderBytes = n
}

// HeadersParsed reports whether the header-block terminator has been
// consumed. True even when the block failed to decode (check Err).
// Monotonic: never reverts to false.
func (s *Socket) HeadersParsed() bool {
	return s.headersParsed.Load() != 0
}

// Err returns the latched decode failure, or nil while the session is
// healthy.
func (s *Socket) Err() *SocketError {
	return s.err
}

// PollEvent returns the next pending notification.
// Non-blocking: iox.ErrWouldBlock when no event is queued.
func (s *Socket) PollEvent() (Event, error) {
	return s.events.poll()
}

// OnReadable drains all currently available transport bytes and advances
// the parsing state machine. Call it on every transport readable
// notification.
//
// Returns iox.ErrWouldBlock when the transport had nothing to drain, io.EOF
// once the peer is done sending, and any other transport error verbatim.
// io.EOF before the header terminator latches IncompleteHeader.
func (s *Socket) OnReadable() error {
	chunk, err := s.transport.DrainAll()
	if err != nil {
		if errors.Is(err, io.EOF) && !s.HeadersParsed() {
			s.fail(IncompleteHeader)
		}
		return err
	}
	s.buf.append(chunk)

	if s.HeadersParsed() {
		s.events.emit(Event{Kind: EventReadyRead})
		return nil
	}
	if s.err != nil {
		// Failed before delimitation (oversized header block): bytes keep
		// accumulating, no transitions occur.
		return nil
	}
	k := s.buf.indexTerminator()
	if k < 0 {
		if s.maxHeaderBytes > 0 && s.buf.size() > s.maxHeaderBytes {
			s.fail(IncompleteHeader)
		}
		return nil
	}
	block := s.buf.consumePrefix(k + len(crlfcrlf))[:k]
	req, serr := decodeHeaderBlock(block)
	if serr != nil {
		s.fail(serr.Kind)
	} else {
		s.req = req
	}
	// The terminator delimits the header block: the socket enters body
	// streaming whether or not the block decoded, so body bytes stay
	// readable on a broken session.
	s.headersParsed.Store(1)
	s.events.emit(Event{Kind: EventRequestParsed})
	return nil
}

// fail latches the first decode failure and emits the one-shot error event.
// Later failures are ignored.
func (s *Socket) fail(kind ErrorKind) {
	if s.err != nil {
		return
	}
	s.err = newSocketError(kind)
	s.events.emit(Event{Kind: EventErrorChanged, Err: kind})
}

// Read drains up to len(p) buffered body bytes. Consumed bytes are removed
// from the receive buffer and never re-delivered.
//
// Non-blocking: before the header-block terminator arrives the body
// contractually has no bytes, and afterwards the buffer may be momentarily
// empty; both report iox.ErrWouldBlock rather than a terminal failure.
func (s *Socket) Read(p []byte) (int, error) {
	if !s.HeadersParsed() {
		return 0, iox.ErrWouldBlock
	}
	n := s.buf.consumeInto(p)
	if n == 0 && len(p) > 0 {
		return 0, iox.ErrWouldBlock
	}
	return n, nil
}

// Buffered returns the number of body bytes currently buffered, which is 0
// until the header block has been parsed.
func (s *Socket) Buffered() int {
	if !s.HeadersParsed() {
		return 0
	}
	return s.buf.size()
}

// Write forwards p to the transport, emitting the response preamble first
// if it has not been written yet. The accepted byte count is returned and
// also reported via EventBytesWritten.
func (s *Socket) Write(p []byte) (int, error) {
	if err := s.writePreamble(); err != nil {
		return 0, err
	}
	n, err := s.transport.Write(p)
	if n > 0 {
		s.events.emit(Event{Kind: EventBytesWritten, N: n})
	}
	return n, err
}

// Close emits the response preamble if needed, then closes the transport.
// The preamble always precedes the close on the wire.
func (s *Socket) Close() error {
	werr := s.writePreamble()
	cerr := s.transport.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// Request returns the decoded request as an explicit result: Right once the
// header block has decoded, Left ErrHeadersPending while the terminator has
// not arrived, and Left the latched *SocketError once the session has
// failed.
func (s *Socket) Request() kont.Either[error, *Request] {
	if s.err != nil {
		return kont.Left[error, *Request](s.err)
	}
	if s.HeadersParsed() {
		return kont.Right[error](s.req)
	}
	return kont.Left[error, *Request](ErrHeadersPending)
}

// Method returns the decoded request method, or "" while the header block
// is pending or failed to decode. Wait for EventRequestParsed, or use
// Request for an explicit pending/failed result.
func (s *Socket) Method() string {
	if s.req == nil {
		return ""
	}
	return s.req.Method
}

// URI returns the decoded request URI, or "" until the header block has
// been parsed.
func (s *Socket) URI() string {
	if s.req == nil {
		return ""
	}
	return s.req.URI
}

// RequestHeaders returns the lower-cased request header names in decode
// order, or nil until the header block has been parsed.
func (s *Socket) RequestHeaders() []string {
	if s.req == nil {
		return nil
	}
	return s.req.Headers()
}

// RequestHeader returns the value for name, matching case-insensitively,
// or "" until the header block has been parsed.
func (s *Socket) RequestHeader(name string) string {
	if s.req == nil {
		return ""
	}
	return s.req.Header(name)
}
