// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine

// DefaultStatus is the response status used unless SetStatus overrides it.
const DefaultStatus = "200 OK"

// headerField is one response header. Fields keep insertion order on the
// wire; re-setting a name overwrites its value in place.
type headerField struct {
	name  string
	value string
}

// appendPreamble serializes the response preamble:
//
//	HTTP/1.0 <status> CRLF
//	<name>: <value> CRLF    (per header, insertion order)
//	CRLF
func appendPreamble(dst []byte, status string, fields []headerField) []byte {
	dst = append(dst, "HTTP/1.0 "...)
	dst = append(dst, status...)
	dst = append(dst, '\r', '\n')
	for _, f := range fields {
		dst = append(dst, f.name...)
		dst = append(dst, ':', ' ')
		dst = append(dst, f.value...)
		dst = append(dst, '\r', '\n')
	}
	return append(dst, '\r', '\n')
}

// SetStatus sets the response status line text, e.g. "404 Not Found".
// After the preamble has been written the mutation still applies but can no
// longer reach the wire; ErrPreambleSent reports that condition.
func (s *Socket) SetStatus(status string) error {
	s.status = status
	if s.preambleWritten.Load() != 0 {
		return ErrPreambleSent
	}
	return nil
}

// SetResponseHeader sets a response header. Headers reach the wire in
// insertion order; setting an existing name keeps its position. After the
// preamble has been written the mutation still applies but can no longer
// reach the wire; ErrPreambleSent reports that condition.
func (s *Socket) SetResponseHeader(name, value string) error {
	replaced := false
	for i := range s.respFields {
		if s.respFields[i].name == name {
			s.respFields[i].value = value
			replaced = true
			break
		}
	}
	if !replaced {
		s.respFields = append(s.respFields, headerField{name: name, value: value})
	}
	if s.preambleWritten.Load() != 0 {
		return ErrPreambleSent
	}
	return nil
}

// writePreamble hands the serialized preamble to the transport exactly
// once: on the first body write or on close, whichever happens first. The
// one-shot flag is set before the bytes reach the transport, so no caller
// can observe a forwarded write ahead of the preamble.
func (s *Socket) writePreamble() error {
	if s.preambleWritten.Load() != 0 {
		return nil
	}
	s.preambleWritten.Store(1)
	n, err := s.transport.Write(appendPreamble(nil, s.status, s.respFields))
	if n > 0 {
		s.events.emit(Event{Kind: EventBytesWritten, N: n})
	}
	return err
}
