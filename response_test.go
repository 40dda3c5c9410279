// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dogjin/qhttpengine"
)

func TestCloseOnlyEmitsPreamble(t *testing.T) {
	pipe := qhttpengine.NewPipe()
	sock := qhttpengine.New(pipe)
	if err := sock.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := "HTTP/1.0 200 OK\r\n\r\n"
	if got := string(pipe.Output()); got != want {
		t.Fatalf("wire output = %q, want %q", got, want)
	}
}

func TestPreamblePrecedesBody(t *testing.T) {
	pipe := qhttpengine.NewPipe()
	sock := qhttpengine.New(pipe)
	if err := sock.SetStatus("404 Not Found"); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if err := sock.SetResponseHeader("Content-Type", "text/plain"); err != nil {
		t.Fatalf("SetResponseHeader() error = %v", err)
	}
	if err := sock.SetResponseHeader("X-Trace", "1"); err != nil {
		t.Fatalf("SetResponseHeader() error = %v", err)
	}
	if _, err := sock.Write([]byte("missing")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := sock.Write([]byte(" page")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := sock.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := "HTTP/1.0 404 Not Found\r\n" +
		"Content-Type: text/plain\r\n" +
		"X-Trace: 1\r\n" +
		"\r\n" +
		"missing page"
	if got := string(pipe.Output()); got != want {
		t.Fatalf("wire output = %q, want %q", got, want)
	}
}

func TestPreambleWrittenExactlyOnce(t *testing.T) {
	pipe := qhttpengine.NewPipe()
	sock := qhttpengine.New(pipe)
	if _, err := sock.Write([]byte("a")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := sock.Write([]byte("b")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := sock.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	out := pipe.Output()
	if n := bytes.Count(out, []byte("HTTP/1.0 ")); n != 1 {
		t.Fatalf("preamble appears %d times, want exactly 1: %q", n, out)
	}
	if !bytes.HasSuffix(out, []byte("\r\n\r\nab")) {
		t.Fatalf("body does not follow the preamble: %q", out)
	}
}

func TestResponseHeaderOverwriteKeepsPosition(t *testing.T) {
	pipe := qhttpengine.NewPipe()
	sock := qhttpengine.New(pipe)
	sock.SetResponseHeader("A", "1")
	sock.SetResponseHeader("B", "2")
	sock.SetResponseHeader("A", "3")
	if err := sock.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := "HTTP/1.0 200 OK\r\nA: 3\r\nB: 2\r\n\r\n"
	if got := string(pipe.Output()); got != want {
		t.Fatalf("wire output = %q, want %q", got, want)
	}
}

func TestMutatorsAfterPreambleReportButApply(t *testing.T) {
	pipe := qhttpengine.NewPipe()
	sock := qhttpengine.New(pipe)
	if _, err := sock.Write([]byte("body")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	before := string(pipe.Output())

	if err := sock.SetStatus("500 Internal Server Error"); !errors.Is(err, qhttpengine.ErrPreambleSent) {
		t.Fatalf("SetStatus() after preamble = %v, want ErrPreambleSent", err)
	}
	if err := sock.SetResponseHeader("Late", "yes"); !errors.Is(err, qhttpengine.ErrPreambleSent) {
		t.Fatalf("SetResponseHeader() after preamble = %v, want ErrPreambleSent", err)
	}
	if err := sock.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// The late mutations applied to the session state but never reach the
	// wire: the preamble already left.
	if got := string(pipe.Output()); got != before {
		t.Fatalf("wire output changed after late mutation: %q -> %q", before, got)
	}
}

func TestBytesWrittenEvents(t *testing.T) {
	pipe := qhttpengine.NewPipe()
	sock := qhttpengine.New(pipe)
	if _, err := sock.Write([]byte("hello")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	var counts []int
	for {
		ev, err := sock.PollEvent()
		if err != nil {
			break
		}
		if ev.Kind != qhttpengine.EventBytesWritten {
			t.Fatalf("event kind = %v, want BytesWritten", ev.Kind)
		}
		counts = append(counts, ev.N)
	}
	preamble := len("HTTP/1.0 200 OK\r\n\r\n")
	if len(counts) != 2 || counts[0] != preamble || counts[1] != len("hello") {
		t.Fatalf("BytesWritten counts = %v, want [%d 5]", counts, preamble)
	}
}
