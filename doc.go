// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package qhttpengine provides a minimal server-side HTTP/1.x request-line
// and header decoder layered transparently over a raw bidirectional byte
// stream.
//
// A [Socket] is a duplex stream per accepted connection: reads yield the
// request body, writes go to the response body, and the response preamble
// (status line and headers) is emitted lazily and exactly once before the
// first body byte, or on close if no body is written.
//
// # Architecture
//
//   - Transport: a [Transport] supplies drained bytes and accepts writes.
//     [ConnTransport] adapts a net.Conn; [Pipe] is an in-memory transport
//     over bounded SPSC chunk queues via [code.hybscloud.com/lfq].
//   - Non-blocking: [Socket.Read], [Socket.PollEvent] and [Pipe.Feed]
//     return [code.hybscloud.com/iox.ErrWouldBlock] when no progress is
//     possible yet.
//   - Parsing: each [Socket.OnReadable] appends the drained bytes to the
//     receive buffer; once the CRLFCRLF terminator arrives the header block
//     is decoded in one step and the socket switches to body streaming,
//     whether or not the block decoded.
//   - Error handling: the first decode failure latches a [SocketError] and
//     the session is considered broken; bytes past the terminator stay
//     readable as body, and [Socket.Request] and the drivers report
//     results as [code.hybscloud.com/kont.Either].
//
// # Integration
//
//   - Stepping: call [Socket.OnReadable] from a readiness loop and consume
//     notifications with [Socket.PollEvent] — [EventRequestParsed] and
//     [EventErrorChanged] fire exactly once, [EventReadyRead] and
//     [EventBytesWritten] repeat.
//   - Blocking: [WaitRequest] and [ServeRequest] wait past would-block
//     boundaries using adaptive backoff.
//
// # Example
//
//	pipe := qhttpengine.NewPipe()
//	sock := qhttpengine.New(pipe)
//	pipe.FeedString("GET /index.html HTTP/1.1\r\nHost: example.com\r\n\r\n")
//	err := qhttpengine.ServeRequest(sock, func(s *qhttpengine.Socket, req *qhttpengine.Request) error {
//		s.SetResponseHeader("Content-Type", "text/plain")
//		_, werr := s.Write([]byte("hello " + req.URI))
//		return werr
//	})
package qhttpengine
