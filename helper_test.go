// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine_test

import (
	"testing"

	"code.hybscloud.com/iox"
	"github.com/dogjin/qhttpengine"
)

// decodeInput feeds input through a pipe-backed socket and drives it until
// the session parses or fails.
func decodeInput(tb testing.TB, input string) (*qhttpengine.Socket, *qhttpengine.Pipe) {
	tb.Helper()
	pipe := qhttpengine.NewPipe()
	sock := qhttpengine.New(pipe)
	feed(tb, pipe, sock, []byte(input))
	pipe.CloseFeed()
	qhttpengine.WaitRequest(sock)
	return sock, pipe
}

// feed queues b on the pipe, draining into the socket whenever the chunk
// queue fills up.
func feed(tb testing.TB, pipe *qhttpengine.Pipe, sock *qhttpengine.Socket, b []byte) {
	tb.Helper()
	for pipe.Feed(b) != nil {
		if err := sock.OnReadable(); err != nil && !iox.IsWouldBlock(err) {
			tb.Fatalf("OnReadable() error = %v", err)
		}
	}
}

// drainEvents collects the kinds of every queued notification.
func drainEvents(sock *qhttpengine.Socket) []qhttpengine.EventKind {
	var kinds []qhttpengine.EventKind
	for {
		ev, err := sock.PollEvent()
		if err != nil {
			return kinds
		}
		kinds = append(kinds, ev.Kind)
	}
}

// countEvents returns how many queued notifications have kind k.
func countEvents(sock *qhttpengine.Socket, k qhttpengine.EventKind) int {
	n := 0
	for _, kind := range drainEvents(sock) {
		if kind == k {
			n++
		}
	}
	return n
}
