/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lineapi

import "encoding/json"

// MessageType is a type of an outgoing message.
type MessageType string

// Outgoing message types.
const (
	MessageTypeText     MessageType = "text"
	MessageTypeSticker  MessageType = "sticker"
	MessageTypeTemplate MessageType = "template"
)

// Message is an outgoing message payload.
// The set of implementations is closed: TextMessage, StickerMessage and TemplateMessage.
type Message interface {
	MessageType() MessageType
}

// TextMessage is a plain text message.
type TextMessage struct {
	Text string
}

// NewTextMessage creates a new TextMessage.
func NewTextMessage(text string) *TextMessage {
	return &TextMessage{Text: text}
}

// MessageType implements Message.
func (m *TextMessage) MessageType() MessageType {
	return MessageTypeText
}

// MarshalJSON implements json.Marshaler.
func (m *TextMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type MessageType `json:"type"`
		Text string      `json:"text"`
	}{MessageTypeText, m.Text})
}

// StickerMessage is a sticker message referencing a sticker from a package.
type StickerMessage struct {
	PackageID string
	StickerID string
}

// NewStickerMessage creates a new StickerMessage.
func NewStickerMessage(packageID, stickerID string) *StickerMessage {
	return &StickerMessage{PackageID: packageID, StickerID: stickerID}
}

// MessageType implements Message.
func (m *StickerMessage) MessageType() MessageType {
	return MessageTypeSticker
}

// MarshalJSON implements json.Marshaler.
func (m *StickerMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type      MessageType `json:"type"`
		PackageID string      `json:"packageId"`
		StickerID string      `json:"stickerId"`
	}{MessageTypeSticker, m.PackageID, m.StickerID})
}

// TemplateMessage is a message carrying an interactive template.
// AltText is shown on devices that cannot render the template.
type TemplateMessage struct {
	AltText  string
	Template Template
}

// NewTemplateMessage creates a new TemplateMessage.
func NewTemplateMessage(altText string, template Template) *TemplateMessage {
	return &TemplateMessage{AltText: altText, Template: template}
}

// MessageType implements Message.
func (m *TemplateMessage) MessageType() MessageType {
	return MessageTypeTemplate
}

// MarshalJSON implements json.Marshaler.
func (m *TemplateMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type     MessageType `json:"type"`
		AltText  string      `json:"altText"`
		Template Template    `json:"template"`
	}{MessageTypeTemplate, m.AltText, m.Template})
}

// Template is a template payload of a TemplateMessage.
type Template interface {
	TemplateType() string
}

// ButtonsTemplate is a template with a text block and a list of action buttons.
type ButtonsTemplate struct {
	Text              string
	Title             string
	ThumbnailImageURL string
	Actions           []Action
}

// TemplateType implements Template.
func (t *ButtonsTemplate) TemplateType() string {
	return "buttons"
}

// MarshalJSON implements json.Marshaler.
func (t *ButtonsTemplate) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type              string   `json:"type"`
		Text              string   `json:"text"`
		Title             string   `json:"title,omitempty"`
		ThumbnailImageURL string   `json:"thumbnailImageUrl,omitempty"`
		Actions           []Action `json:"actions"`
	}{t.TemplateType(), t.Text, t.Title, t.ThumbnailImageURL, t.Actions})
}

// Action is a tap action attached to a template button.
type Action interface {
	ActionType() string
}

// MessageAction sends a text message from the user when tapped.
type MessageAction struct {
	Label string
	Text  string
}

// ActionType implements Action.
func (a *MessageAction) ActionType() string { return "message" }

// MarshalJSON implements json.Marshaler.
func (a *MessageAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type  string `json:"type"`
		Label string `json:"label"`
		Text  string `json:"text"`
	}{a.ActionType(), a.Label, a.Text})
}

// PostbackAction sends a postback event with the given data when tapped.
type PostbackAction struct {
	Label       string
	Data        string
	DisplayText string
}

// ActionType implements Action.
func (a *PostbackAction) ActionType() string { return "postback" }

// MarshalJSON implements json.Marshaler.
func (a *PostbackAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type        string `json:"type"`
		Label       string `json:"label"`
		Data        string `json:"data"`
		DisplayText string `json:"displayText,omitempty"`
	}{a.ActionType(), a.Label, a.Data, a.DisplayText})
}

// URIAction opens the given URI when tapped.
type URIAction struct {
	Label string
	URI   string
}

// ActionType implements Action.
func (a *URIAction) ActionType() string { return "uri" }

// MarshalJSON implements json.Marshaler.
func (a *URIAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Type  string `json:"type"`
		Label string `json:"label"`
		URI   string `json:"uri"`
	}{a.ActionType(), a.Label, a.URI})
}
