/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/acronis/go-linebot/internal/log"
	"github.com/acronis/go-linebot/internal/restapi"
	"github.com/acronis/go-linebot/internal/signature"
)

// HeaderSignature is the HTTP header carrying the webhook body signature.
const HeaderSignature = "X-Line-Signature"

type signatureAuthHandler struct {
	next          http.Handler
	channelSecret []byte
	errorDomain   string
}

// SignatureAuth is a middleware that authenticates webhook callbacks by verifying the HMAC
// signature of the raw request body against the shared channel secret.
// Requests without the signature header get 400, requests with a signature that doesn't
// match the body get 401. The body is restored for the next handler after verification.
func SignatureAuth(channelSecret string, errDomain string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return &signatureAuthHandler{next: next, channelSecret: []byte(channelSecret), errorDomain: errDomain}
	}
}

func (h *signatureAuthHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromContext(r.Context())

	headerValue := r.Header.Get(HeaderSignature)
	if headerValue == "" {
		restapi.RespondError(rw, http.StatusBadRequest,
			restapi.NewError(h.errorDomain, restapi.ErrCodeMissingSignature, restapi.ErrMessageMissingSignature), logger)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLargeErr *restapi.RequestBodyTooLargeError
		if errors.As(err, &tooLargeErr) {
			restapi.RespondMalformedRequestError(rw, h.errorDomain,
				restapi.NewTooLargeMalformedRequestError(tooLargeErr.MaxSizeBytes), logger)
			return
		}
		if logger != nil {
			logger.Error("error while reading webhook request body", log.Error(err))
		}
		restapi.RespondInternalError(rw, h.errorDomain, logger)
		return
	}
	_ = r.Body.Close()

	if !signature.Verify(h.channelSecret, body, headerValue) {
		if logger != nil {
			logger.Warn("webhook signature verification failed",
				log.Int("body_length", len(body)))
		}
		restapi.RespondError(rw, http.StatusUnauthorized,
			restapi.NewError(h.errorDomain, restapi.ErrCodeInvalidSignature, restapi.ErrMessageInvalidSignature), logger)
		return
	}

	// The body was consumed for verification, give the next handler a fresh reader.
	r.Body = io.NopCloser(bytes.NewReader(body))

	h.next.ServeHTTP(rw, r)
}
