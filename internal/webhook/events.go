/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package webhook contains the wire models for incoming platform callbacks
// and the dispatcher that turns them into replies.
package webhook

import (
	"encoding/json"
	"fmt"
)

// EventType is the kind of an incoming webhook event.
type EventType string

// Webhook event types.
const (
	EventTypeMessage  EventType = "message"
	EventTypeFollow   EventType = "follow"
	EventTypeUnfollow EventType = "unfollow"
	EventTypeJoin     EventType = "join"
	EventTypeLeave    EventType = "leave"
	EventTypePostback EventType = "postback"
)

// MessageContentType is the kind of an incoming message.
type MessageContentType string

// Incoming message types.
const (
	MessageContentTypeText    MessageContentType = "text"
	MessageContentTypeSticker MessageContentType = "sticker"
	MessageContentTypeImage   MessageContentType = "image"
)

// SourceType tells where an event originated.
type SourceType string

// Event source types.
const (
	SourceTypeUser  SourceType = "user"
	SourceTypeGroup SourceType = "group"
	SourceTypeRoom  SourceType = "room"
)

// Request is the body of a webhook callback: a batch of events
// addressed to a single bot destination.
type Request struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is a single webhook event. ReplyToken is empty for event types
// that cannot be replied to (unfollow, leave).
type Event struct {
	Type       EventType       `json:"type"`
	Mode       string          `json:"mode,omitempty"`
	Timestamp  int64           `json:"timestamp"`
	Source     Source          `json:"source"`
	ReplyToken string          `json:"replyToken,omitempty"`
	Message    *MessageContent `json:"message,omitempty"`
	Postback   *Postback       `json:"postback,omitempty"`
}

// Source identifies the conversation an event came from.
// UserID may be empty for group and room sources.
type Source struct {
	Type    SourceType `json:"type"`
	UserID  string     `json:"userId,omitempty"`
	GroupID string     `json:"groupId,omitempty"`
	RoomID  string     `json:"roomId,omitempty"`
}

// MessageContent is the payload of a message event.
type MessageContent struct {
	ID              string             `json:"id,omitempty"`
	Type            MessageContentType `json:"type"`
	Text            string             `json:"text,omitempty"`
	StickerID       string             `json:"stickerId,omitempty"`
	PackageID       string             `json:"packageId,omitempty"`
	ContentProvider *ContentProvider   `json:"contentProvider,omitempty"`
}

// ContentProvider tells where binary message content is hosted.
type ContentProvider struct {
	Type               string `json:"type"`
	OriginalContentURL string `json:"originalContentUrl,omitempty"`
}

// Postback is the payload of a postback event.
type Postback struct {
	Data string `json:"data"`
}

// UnknownEventTypeError is returned when a webhook batch contains
// an event of a type the service does not understand.
type UnknownEventTypeError struct {
	Type string
}

func (e *UnknownEventTypeError) Error() string {
	return fmt.Sprintf("unknown event type %q", e.Type)
}

// UnknownMessageTypeError is returned when a message event carries
// a message of an unsupported type.
type UnknownMessageTypeError struct {
	Type string
}

func (e *UnknownMessageTypeError) Error() string {
	return fmt.Sprintf("unknown message type %q", e.Type)
}

// UnknownSourceTypeError is returned when an event source has an unsupported type.
type UnknownSourceTypeError struct {
	Type string
}

func (e *UnknownSourceTypeError) Error() string {
	return fmt.Sprintf("unknown source type %q", e.Type)
}

// UnmarshalJSON decodes an event and rejects unsupported event types.
// A single unsupported event fails the whole batch.
func (e *Event) UnmarshalJSON(data []byte) error {
	type eventAlias Event
	var ev eventAlias
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}
	switch ev.Type {
	case EventTypeMessage, EventTypeFollow, EventTypeUnfollow,
		EventTypeJoin, EventTypeLeave, EventTypePostback:
	default:
		return &UnknownEventTypeError{Type: string(ev.Type)}
	}
	if ev.Type == EventTypeMessage && ev.Message == nil {
		return fmt.Errorf("message event without message content")
	}
	if ev.Type == EventTypePostback && ev.Postback == nil {
		return fmt.Errorf("postback event without postback data")
	}
	*e = Event(ev)
	return nil
}

// UnmarshalJSON decodes message content and rejects unsupported message types.
func (m *MessageContent) UnmarshalJSON(data []byte) error {
	type messageAlias MessageContent
	var msg messageAlias
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	switch msg.Type {
	case MessageContentTypeText, MessageContentTypeSticker, MessageContentTypeImage:
	default:
		return &UnknownMessageTypeError{Type: string(msg.Type)}
	}
	*m = MessageContent(msg)
	return nil
}

// UnmarshalJSON decodes an event source and rejects unsupported source types.
func (s *Source) UnmarshalJSON(data []byte) error {
	type sourceAlias Source
	var src sourceAlias
	if err := json.Unmarshal(data, &src); err != nil {
		return err
	}
	switch src.Type {
	case SourceTypeUser, SourceTypeGroup, SourceTypeRoom:
	default:
		return &UnknownSourceTypeError{Type: string(src.Type)}
	}
	*s = Source(src)
	return nil
}
