/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-linebot/internal/log/logtest"
)

func TestRecovery(t *testing.T) {
	t.Run("panic is recovered and 500 is returned", func(t *testing.T) {
		recorder := logtest.NewRecorder()
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			panic("something went wrong")
		})
		handler := Recovery(testErrorDomain)(next)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(NewContextWithLogger(req.Context(), recorder))
		resp := httptest.NewRecorder()
		require.NotPanics(t, func() {
			handler.ServeHTTP(resp, req)
		})

		require.Equal(t, http.StatusInternalServerError, resp.Code)
		require.Contains(t, resp.Body.String(), "internalError")

		entry, found := recorder.FindEntry("Panic: something went wrong")
		require.True(t, found)
		_, found = entry.FindField("stack")
		require.True(t, found)
	})

	t.Run("ErrAbortHandler propagates", func(t *testing.T) {
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})
		handler := Recovery(testErrorDomain)(next)
		require.PanicsWithValue(t, http.ErrAbortHandler, func() {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestRequestBodyLimit(t *testing.T) {
	next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
	handler := RequestBodyLimit(16, testErrorDomain)(next)

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("0123456789"))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("too large content length is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
		req.ContentLength = 17
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	})
}
