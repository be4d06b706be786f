/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package middleware

import (
	"net/http"
)

// WrappedResponseWriter is a proxy around http.ResponseWriter that remembers
// the status code and the number of bytes written to the response.
type WrappedResponseWriter interface {
	http.ResponseWriter

	// Status returns the HTTP status of the response, or 0 if one has not yet been sent.
	Status() int

	// BytesWritten returns the total number of bytes sent to the client.
	BytesWritten() int
}

// WrapResponseWriter wraps an http.ResponseWriter recording the status code
// and bytes written. If rw is already wrapped, it is returned as is.
func WrapResponseWriter(rw http.ResponseWriter) WrappedResponseWriter {
	if wrw, ok := rw.(WrappedResponseWriter); ok {
		return wrw
	}
	return &wrappedResponseWriter{ResponseWriter: rw}
}

type wrappedResponseWriter struct {
	http.ResponseWriter
	status       int
	bytesWritten int
}

func (w *wrappedResponseWriter) WriteHeader(statusCode int) {
	if w.status == 0 {
		w.status = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *wrappedResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

func (w *wrappedResponseWriter) Status() int {
	return w.status
}

func (w *wrappedResponseWriter) BytesWritten() int {
	return w.bytesWritten
}

// Flush implements http.Flusher if the underlying writer supports it.
func (w *wrappedResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
