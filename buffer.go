// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine

import "bytes"

// crlfcrlf terminates the request header block.
var crlfcrlf = []byte("\r\n\r\n")

// compactThreshold is the consumed-head size past which the buffer reclaims
// space before appending, once the head outweighs the live tail.
const compactThreshold = 4 << 10

// recvBuffer accumulates drained transport bytes. Append-only at the tail,
// consumed from the head; consumed bytes are never re-delivered.
type recvBuffer struct {
	data []byte
	head int
}

// size returns the number of unconsumed bytes.
func (b *recvBuffer) size() int {
	return len(b.data) - b.head
}

// append adds p at the tail.
func (b *recvBuffer) append(p []byte) {
	if b.head > compactThreshold && b.head > b.size() {
		n := copy(b.data, b.data[b.head:])
		b.data = b.data[:n]
		b.head = 0
	}
	b.data = append(b.data, p...)
}

// consumePrefix removes and returns the first n buffered bytes.
// Consuming beyond the buffered length is a programming error.
// The returned slice is valid until the next append.
func (b *recvBuffer) consumePrefix(n int) []byte {
	if n > b.size() {
		panic("qhttpengine: consumePrefix beyond buffered length")
	}
	p := b.data[b.head : b.head+n]
	b.head += n
	return p
}

// consumeInto removes up to len(p) buffered bytes, copying them into p.
func (b *recvBuffer) consumeInto(p []byte) int {
	n := copy(p, b.data[b.head:])
	b.head += n
	return n
}

// indexTerminator returns the offset of the first CRLFCRLF sequence in the
// unconsumed bytes, or -1 if it has not arrived yet.
func (b *recvBuffer) indexTerminator() int {
	return bytes.Index(b.data[b.head:], crlfcrlf)
}
