// Package multipart extracts a single form field from a raw multipart/form-data body.
//
// The extractor is a substring scanner, not a structured MIME parser. A field
// marker that happens to occur inside the payload of an earlier, unrelated part
// can produce a false match, and only the first matching part is returned.
// Callers go through Extract so a stricter parser can replace it later.
package multipart

import (
	"bytes"
	"errors"
	"strings"
)

// Errors returned by the extractor.
var (
	ErrNotFound   = errors.New("multipart field not found")
	ErrNoBoundary = errors.New("content type has no boundary")
)

var (
	dispositionMarker = []byte("Content-Disposition: form-data")
	headerSeparator   = []byte("\r\n\r\n")
	crlf              = []byte("\r\n")
)

// Extract returns the payload of the first part of body that carries a
// form-data disposition and contains fieldMarker. The body is split on
// "--"+boundary byte for byte; the payload is everything after the first blank
// line of the part, minus one trailing CRLF.
//
// The returned slice aliases body.
func Extract(body []byte, boundary, fieldMarker string) ([]byte, error) {
	if boundary == "" || len(body) == 0 || fieldMarker == "" {
		return nil, ErrNotFound
	}

	delimiter := []byte("--" + boundary)
	if !bytes.Contains(body, delimiter) {
		return nil, ErrNotFound
	}

	marker := []byte(fieldMarker)
	for _, part := range bytes.Split(body, delimiter) {
		if !bytes.Contains(part, dispositionMarker) || !bytes.Contains(part, marker) {
			continue
		}

		_, payload, ok := bytes.Cut(part, headerSeparator)
		if !ok {
			return nil, ErrNotFound
		}
		return bytes.TrimSuffix(payload, crlf), nil
	}

	return nil, ErrNotFound
}

// BoundaryFromContentType returns the boundary token of a multipart
// Content-Type header value. The token runs from "boundary=" up to the next
// ';' or the end of the header. Quotes are not removed.
func BoundaryFromContentType(contentType string) (string, error) {
	_, rest, ok := strings.Cut(contentType, "boundary=")
	if !ok {
		return "", ErrNoBoundary
	}

	boundary, _, _ := strings.Cut(rest, ";")
	if boundary == "" {
		return "", ErrNoBoundary
	}
	return boundary, nil
}
