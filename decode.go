// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qhttpengine

import (
	"slices"
	"strings"
)

// Accepted version tokens. Matching is literal and case-sensitive.
const (
	versionHTTP10 = "HTTP/1.0"
	versionHTTP11 = "HTTP/1.1"
)

// Request is a decoded request line plus header fields. Header names are
// lower-cased at decode time; values keep their original case. Immutable
// once decoding succeeds.
type Request struct {
	// Method and URI are stored verbatim: no method validation and no
	// percent-decoding.
	Method string
	URI    string

	headers map[string]string
	order   []string
}

// Header returns the value for name, matching the name case-insensitively.
// Returns "" when the request carries no such header.
func (r *Request) Header(name string) string {
	return r.headers[strings.ToLower(name)]
}

// Headers returns the lower-cased header names in decode order.
func (r *Request) Headers() []string {
	return slices.Clone(r.order)
}

// decodeHeaderBlock decodes a complete header block (terminator already
// removed): the first CRLF-separated line is the request line, every
// following line is a header line. The first failure short-circuits;
// remaining lines are not examined.
func decodeHeaderBlock(block []byte) (*Request, *SocketError) {
	lines := strings.Split(string(block), "\r\n")
	req := &Request{headers: make(map[string]string, len(lines)-1)}
	if serr := req.decodeRequestLine(lines[0]); serr != nil {
		return nil, serr
	}
	for _, line := range lines[1:] {
		if serr := req.decodeHeaderLine(line); serr != nil {
			return nil, serr
		}
	}
	return req, nil
}

// decodeRequestLine splits line on single spaces into exactly
// {method, URI, version}.
func (r *Request) decodeRequestLine(line string) *SocketError {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return newSocketError(MalformedRequestLine)
	}
	if parts[2] != versionHTTP10 && parts[2] != versionHTTP11 {
		return newSocketError(InvalidHTTPVersion)
	}
	r.Method = parts[0]
	r.URI = parts[1]
	return nil
}

// decodeHeaderLine splits a header line at the first ":". A line with no
// ":" fails, which includes blank lines left by a stray trailing CRLF
// inside the block. Later identical names overwrite earlier values; the
// first occurrence fixes the enumeration position.
func (r *Request) decodeHeaderLine(line string) *SocketError {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return newSocketError(MalformedRequestHeader)
	}
	name := strings.ToLower(strings.TrimSpace(line[:i]))
	value := strings.TrimSpace(line[i+1:])
	if _, seen := r.headers[name]; !seen {
		r.order = append(r.order, name)
	}
	r.headers[name] = value
	return nil
}
