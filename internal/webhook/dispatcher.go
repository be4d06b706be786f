/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/acronis/go-linebot/internal/lineapi"
	"github.com/acronis/go-linebot/internal/log"
)

// Deliverer sends reply messages back to the messaging platform.
// *lineapi.Client satisfies it.
type Deliverer interface {
	ReplyMessage(ctx context.Context, replyToken string, messages []lineapi.Message) error
}

// DeliveryError is returned when reply messages could not be delivered.
type DeliveryError struct {
	Inner error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver reply: %s", e.Inner.Error())
}

func (e *DeliveryError) Unwrap() error {
	return e.Inner
}

// Dispatcher processes webhook events one by one and replies via the Deliverer.
type Dispatcher struct {
	deliverer        Deliverer
	textValidator    *TextValidator
	metricsCollector *MetricsCollector

	// now is made overridable for tests.
	now func() time.Time
}

// DispatcherOpts contains optional parameters for the Dispatcher.
type DispatcherOpts struct {
	// MetricsCollector, if set, accounts processed events and delivered replies.
	MetricsCollector *MetricsCollector
}

// NewDispatcher creates a new Dispatcher with default options.
func NewDispatcher(deliverer Deliverer) *Dispatcher {
	return NewDispatcherWithOpts(deliverer, DispatcherOpts{})
}

// NewDispatcherWithOpts is a more configurable version of the NewDispatcher.
func NewDispatcherWithOpts(deliverer Deliverer, opts DispatcherOpts) *Dispatcher {
	return &Dispatcher{
		deliverer:        deliverer,
		textValidator:    NewTextValidator(),
		metricsCollector: opts.MetricsCollector,
		now:              time.Now,
	}
}

// Dispatch processes a single webhook event. The passed logger is used for
// per-event diagnostics. An error is returned when the event could not be
// processed or its reply could not be delivered; the caller decides whether
// the rest of the batch continues.
func (d *Dispatcher) Dispatch(ctx context.Context, logger log.FieldLogger, event *Event) error {
	d.metricsCollector.observeEvent(event.Type)

	err := d.dispatch(ctx, logger, event)
	if err != nil {
		d.metricsCollector.observeDispatchError(event.Type)
	}
	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, logger log.FieldLogger, event *Event) error {
	switch event.Type {
	case EventTypeMessage:
		return d.dispatchMessage(ctx, logger, event)

	case EventTypeFollow:
		logger.Info("user followed", log.String("user_id", MaskUserID(event.Source.UserID)))
		return d.reply(ctx, event, lineapi.NewTextMessage("歡迎使用 LINE Bot！"))

	case EventTypeUnfollow:
		logger.Info("user unfollowed", log.String("user_id", MaskUserID(event.Source.UserID)))
		return nil

	case EventTypeJoin:
		logger.Info("bot joined conversation", log.String("source_type", string(event.Source.Type)))
		return d.reply(ctx, event, lineapi.NewTextMessage("大家好！我是你們的 LINE Bot 助手！"))

	case EventTypeLeave:
		logger.Info("bot left conversation", log.String("source_type", string(event.Source.Type)))
		return nil

	case EventTypePostback:
		logger.Info("postback received", log.String("postback_data", event.Postback.Data))
		return d.reply(ctx, event,
			lineapi.NewTextMessage(fmt.Sprintf("收到 postback: %s", event.Postback.Data)))
	}

	return &UnknownEventTypeError{Type: string(event.Type)}
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, logger log.FieldLogger, event *Event) error {
	if err := ValidateReplyToken(event.ReplyToken); err != nil {
		logger.Warn("message event with invalid reply token", log.Error(err))
		return err
	}

	logger.Info("processing message",
		log.String("message_type", string(event.Message.Type)),
		log.String("user_id", MaskUserID(senderUserID(&event.Source))))

	var messages []lineapi.Message
	switch event.Message.Type {
	case MessageContentTypeText:
		if err := d.textValidator.Validate(event.Message.Text); err != nil {
			logger.Warn("invalid text input", log.Error(err))
			messages = []lineapi.Message{lineapi.NewTextMessage("抱歉，您的訊息包含無效內容。")}
		} else {
			messages = RepliesForText(event.Message.Text, d.now())
		}

	case MessageContentTypeSticker:
		logger.Info("sticker received",
			log.String("package_id", event.Message.PackageID),
			log.String("sticker_id", event.Message.StickerID))
		messages = []lineapi.Message{lineapi.NewTextMessage("收到貼圖！")}

	case MessageContentTypeImage:
		logger.Info("image received")
		messages = []lineapi.Message{lineapi.NewTextMessage("收到圖片！")}

	default:
		return &UnknownMessageTypeError{Type: string(event.Message.Type)}
	}

	if len(messages) == 0 {
		return nil
	}
	return d.replyMessages(ctx, event, messages)
}

func (d *Dispatcher) reply(ctx context.Context, event *Event, messages ...lineapi.Message) error {
	if err := ValidateReplyToken(event.ReplyToken); err != nil {
		return err
	}
	return d.replyMessages(ctx, event, messages)
}

func (d *Dispatcher) replyMessages(ctx context.Context, event *Event, messages []lineapi.Message) error {
	if err := d.deliverer.ReplyMessage(ctx, event.ReplyToken, messages); err != nil {
		return &DeliveryError{Inner: err}
	}
	d.metricsCollector.observeReplySent()
	return nil
}

// senderUserID extracts the user that triggered the event. Group and room
// sources may not carry one.
func senderUserID(source *Source) string {
	if source.UserID != "" {
		return source.UserID
	}
	return "unknown"
}

// MaskUserID hides the middle of a user identifier so it can be logged safely.
func MaskUserID(userID string) string {
	if len(userID) <= 6 {
		return maskAll(userID)
	}
	return userID[:3] + "..." + userID[len(userID)-3:]
}

func maskAll(s string) string {
	masked := make([]byte, len(s))
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked)
}
