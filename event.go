// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine

import "code.hybscloud.com/lfq"

// EventKind identifies a socket notification.
type EventKind uint8

const (
	// EventRequestParsed fires exactly once, when the header-block
	// terminator is found and the socket enters body streaming — whether or
	// not the block decoded (a failure also emits EventErrorChanged).
	EventRequestParsed EventKind = iota + 1
	// EventReadyRead fires on every post-header transport drain: new body
	// bytes are buffered.
	EventReadyRead
	// EventErrorChanged fires exactly once, on the first decode failure.
	// Event.Err carries the failure kind.
	EventErrorChanged
	// EventBytesWritten reports a byte count accepted by the transport,
	// for the preamble and every body write. Event.N carries the count.
	EventBytesWritten
)

// String returns the notification name.
func (k EventKind) String() string {
	switch k {
	case EventRequestParsed:
		return "RequestParsed"
	case EventReadyRead:
		return "ReadyRead"
	case EventErrorChanged:
		return "ErrorChanged"
	case EventBytesWritten:
		return "BytesWritten"
	}
	return "Unknown"
}

// Event is one socket notification, delivered in emission order.
type Event struct {
	Kind EventKind
	Err  ErrorKind // EventErrorChanged only
	N    int       // EventBytesWritten only
}

// eventCapacity bounds the notification queue. 64 outlasts any realistic
// poll lag while keeping the ring small.
const eventCapacity = 64

// eventQueue carries notifications from the driving goroutine to the
// consumer. Single producer, single consumer.
type eventQueue struct {
	q    lfq.SPSC[Event]
	slot Event
}

func (eq *eventQueue) init() {
	eq.q.Init(eventCapacity)
}

// emit enqueues ev. When the ring is full the event is dropped: ReadyRead
// and BytesWritten are level-triggered and recoverable from socket state,
// and the one-shot kinds are mirrored in HeadersParsed and Err.
func (eq *eventQueue) emit(ev Event) {
	eq.slot = ev
	_ = eq.q.Enqueue(&eq.slot)
}

// poll dequeues the next pending event.
// Non-blocking: returns iox.ErrWouldBlock when none is queued.
func (eq *eventQueue) poll() (Event, error) {
	return eq.q.Dequeue()
}
