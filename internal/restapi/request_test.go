/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package restapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRequestJSON(t *testing.T) {
	type reqData struct {
		Destination string `json:"destination"`
	}

	makeReq := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", ContentTypeAppJSON)
		return req
	}

	t.Run("ok", func(t *testing.T) {
		var data reqData
		require.NoError(t, DecodeRequestJSON(makeReq(`{"destination":"U123"}`), &data))
		require.Equal(t, "U123", data.Destination)
	})

	t.Run("empty body", func(t *testing.T) {
		var data reqData
		err := DecodeRequestJSON(makeReq(""), &data)
		var reqErr *MalformedRequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusBadRequest, reqErr.HTTPStatusCode)
		require.Equal(t, "Request body must not be empty.", reqErr.Message)
	})

	t.Run("badly-formed json", func(t *testing.T) {
		var data reqData
		err := DecodeRequestJSON(makeReq(`{"destination":`), &data)
		var reqErr *MalformedRequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusBadRequest, reqErr.HTTPStatusCode)
	})

	t.Run("wrong field type", func(t *testing.T) {
		var data reqData
		err := DecodeRequestJSON(makeReq(`{"destination":42}`), &data)
		var reqErr *MalformedRequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusBadRequest, reqErr.HTTPStatusCode)
		require.Contains(t, reqErr.Message, `"destination"`)
	})

	t.Run("multiple json objects", func(t *testing.T) {
		var data reqData
		err := DecodeRequestJSON(makeReq(`{"destination":"a"}{"destination":"b"}`), &data)
		var reqErr *MalformedRequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, "Request body must only contain a single JSON object.", reqErr.Message)
	})

	t.Run("unsupported content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		var data reqData
		err := DecodeRequestJSON(req, &data)
		var reqErr *MalformedRequestError
		require.ErrorAs(t, err, &reqErr)
		require.Equal(t, http.StatusUnsupportedMediaType, reqErr.HTTPStatusCode)
	})
}

func TestSetRequestMaxBodySize(t *testing.T) {
	const maxBodySize = 64

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		bytes.NewReader(bytes.Repeat([]byte("a"), maxBodySize*2)))
	rec := httptest.NewRecorder()
	SetRequestMaxBodySize(rec, req, maxBodySize)

	buf := make([]byte, maxBodySize*2)
	_, err := req.Body.Read(buf)
	for err == nil {
		_, err = req.Body.Read(buf)
	}
	var tooLargeErr *RequestBodyTooLargeError
	require.ErrorAs(t, err, &tooLargeErr)
	require.Equal(t, uint64(maxBodySize), tooLargeErr.MaxSizeBytes)
}
