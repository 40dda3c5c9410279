// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// WaitRequest drives the socket until the request header block decodes or
// the session fails. Blocks on iox.ErrWouldBlock via adaptive backoff
// (iox.Backoff), without spawning goroutines or creating channels.
//
// Right holds the decoded request. Left holds the latched *SocketError, or
// the transport error that ended the drive before a request could decode.
func WaitRequest(s *Socket) kont.Either[error, *Request] {
	var bo iox.Backoff
	for {
		err := s.OnReadable()
		if iox.IsWouldBlock(err) {
			bo.Wait()
			continue
		}
		bo.Reset()
		if serr := s.Err(); serr != nil {
			return kont.Left[error, *Request](serr)
		}
		if s.HeadersParsed() {
			return kont.Right[error](s.req)
		}
		if err != nil {
			return kont.Left[error, *Request](err)
		}
	}
}

// ServeRequest waits for the request, invokes handler on success, and
// closes the socket in every case. The close path emits the response
// preamble if the handler never wrote a body, so the
// preamble-before-close guarantee holds for every outcome.
func ServeRequest(s *Socket, handler func(*Socket, *Request) error) error {
	result := WaitRequest(s)
	req, ok := result.GetRight()
	if !ok {
		failure, _ := result.GetLeft()
		_ = s.Close()
		return failure
	}
	if err := handler(s, req); err != nil {
		_ = s.Close()
		return err
	}
	return s.Close()
}
