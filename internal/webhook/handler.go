/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"errors"
	"net/http"

	"github.com/acronis/go-linebot/internal/log"
	"github.com/acronis/go-linebot/internal/restapi"
)

// Handler is an HTTP handler for webhook callbacks. Signature verification
// and rate limiting are expected to be done by middleware before the request
// reaches it. Once the batch is decoded the response is always 200: failures
// of individual events are logged and do not fail the batch.
type Handler struct {
	dispatcher     *Dispatcher
	errorDomain    string
	loggerProvider func(r *http.Request) log.FieldLogger
}

// HandlerOpts contains optional parameters for the Handler.
type HandlerOpts struct {
	// LoggerProvider extracts a request-scoped logger.
	// A disabled logger is used when not set.
	LoggerProvider func(r *http.Request) log.FieldLogger
}

// NewHandler creates a new webhook Handler.
func NewHandler(dispatcher *Dispatcher, errorDomain string) *Handler {
	return NewHandlerWithOpts(dispatcher, errorDomain, HandlerOpts{})
}

// NewHandlerWithOpts is a more configurable version of the NewHandler.
func NewHandlerWithOpts(dispatcher *Dispatcher, errorDomain string, opts HandlerOpts) *Handler {
	if opts.LoggerProvider == nil {
		disabledLogger := log.NewDisabledLogger()
		opts.LoggerProvider = func(r *http.Request) log.FieldLogger {
			return disabledLogger
		}
	}
	return &Handler{
		dispatcher:     dispatcher,
		errorDomain:    errorDomain,
		loggerProvider: opts.LoggerProvider,
	}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := h.loggerProvider(r)

	var req Request
	if err := restapi.DecodeRequestJSON(r, &req); err != nil {
		if reqErr := asMalformedBatchError(err); reqErr != nil {
			restapi.RespondMalformedRequestError(rw, h.errorDomain, reqErr, logger)
			return
		}
		restapi.RespondMalformedRequestOrInternalError(rw, h.errorDomain, err, logger)
		return
	}

	logger.Info("received webhook batch",
		log.Int("events_count", len(req.Events)),
		log.String("destination", req.Destination))

	// Events are processed in arrival order. An event that fails does not
	// prevent the following ones from being processed.
	for i := range req.Events {
		event := &req.Events[i]
		if err := h.dispatcher.Dispatch(r.Context(), logger, event); err != nil {
			logger.Error("failed to process webhook event",
				log.String("event_type", string(event.Type)),
				log.Error(err))
		}
	}

	rw.WriteHeader(http.StatusOK)
}

// asMalformedBatchError converts batch decoding failures caused by
// unsupported event, message, or source types into a malformed request error.
func asMalformedBatchError(err error) *restapi.MalformedRequestError {
	var unknownEvent *UnknownEventTypeError
	var unknownMessage *UnknownMessageTypeError
	var unknownSource *UnknownSourceTypeError
	if errors.As(err, &unknownEvent) || errors.As(err, &unknownMessage) || errors.As(err, &unknownSource) {
		return &restapi.MalformedRequestError{HTTPStatusCode: http.StatusBadRequest, Message: err.Error()}
	}
	return nil
}
