// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine

import (
	"io"
	"net"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// Transport is the raw bidirectional byte stream a Socket decodes. A
// transport is exclusively owned by one socket for the whole session.
type Transport interface {
	// DrainAll returns the bytes currently readable. Non-blocking
	// transports report iox.ErrWouldBlock when nothing has arrived yet;
	// io.EOF means the peer finished sending. The returned slice is only
	// valid until the next call.
	DrainAll() ([]byte, error)
	// Write hands p to the transport and reports the accepted byte count.
	Write(p []byte) (int, error)
	// Close releases the transport.
	Close() error
}

// connScratch is the per-drain read chunk size for ConnTransport.
const connScratch = 4096

// ConnTransport adapts a net.Conn. DrainAll performs one blocking read and
// returns whatever chunk arrived, so a goroutine looping over
// Socket.OnReadable acts as the readable-notification driver.
type ConnTransport struct {
	conn    net.Conn
	scratch [connScratch]byte
}

// NewConnTransport wraps conn. The transport takes ownership of the
// connection; closing the transport closes the connection.
func NewConnTransport(conn net.Conn) *ConnTransport {
	return &ConnTransport{conn: conn}
}

// DrainAll returns the next chunk read from the connection, blocking until
// bytes arrive. A read that returns data alongside an error delivers the
// data first; the error resurfaces on the next call.
func (t *ConnTransport) DrainAll() ([]byte, error) {
	n, err := t.conn.Read(t.scratch[:])
	if n > 0 {
		return t.scratch[:n], nil
	}
	return nil, err
}

// Write sends p over the connection.
func (t *ConnTransport) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

// Close closes the connection.
func (t *ConnTransport) Close() error {
	return t.conn.Close()
}

// pipeCapacity bounds the in-flight chunk queue of a Pipe.
const pipeCapacity = 16

// Pipe is an in-memory Transport for tests and loopback wiring. The peer
// side feeds request bytes with Feed and ends the stream with CloseFeed;
// response bytes written through the socket accumulate in Output.
//
// The chunk queue is single-producer single-consumer: Feed/CloseFeed on one
// goroutine, DrainAll on at most one other.
type Pipe struct {
	chunks lfq.SPSC[[]byte]
	slot   []byte
	fed    atomix.Uint32 // CloseFeed called
	closed atomix.Uint32 // Close called
	out    []byte
}

// NewPipe creates an empty pipe transport.
func NewPipe() *Pipe {
	p := &Pipe{}
	p.chunks.Init(pipeCapacity)
	return p
}

// Feed queues a copy of b for the socket to drain.
// Non-blocking: returns iox.ErrWouldBlock while the chunk queue is full.
func (p *Pipe) Feed(b []byte) error {
	p.slot = append([]byte(nil), b...)
	return p.chunks.Enqueue(&p.slot)
}

// FeedString queues a copy of s for the socket to drain.
func (p *Pipe) FeedString(s string) error {
	return p.Feed([]byte(s))
}

// CloseFeed marks the end of the request stream. DrainAll reports io.EOF
// once every queued chunk has been drained.
func (p *Pipe) CloseFeed() {
	p.fed.Store(1)
}

// DrainAll concatenates and returns every queued chunk. Reports
// iox.ErrWouldBlock while the queue is empty and the feed is still open,
// io.EOF after CloseFeed or Close.
func (p *Pipe) DrainAll() ([]byte, error) {
	b, err := p.chunks.Dequeue()
	if err != nil {
		if p.fed.Load() != 0 || p.closed.Load() != 0 {
			return nil, io.EOF
		}
		return nil, err
	}
	for {
		more, merr := p.chunks.Dequeue()
		if merr != nil {
			return b, nil
		}
		b = append(b, more...)
	}
}

// Write appends p to the captured response bytes.
func (p *Pipe) Write(b []byte) (int, error) {
	if p.closed.Load() != 0 {
		return 0, net.ErrClosed
	}
	p.out = append(p.out, b...)
	return len(b), nil
}

// Output returns the response bytes written so far.
func (p *Pipe) Output() []byte {
	return p.out
}

// Close marks the pipe closed. Idempotent.
func (p *Pipe) Close() error {
	p.closed.Store(1)
	return nil
}
