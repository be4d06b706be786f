/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package lineapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientReplyMessage(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var gotPath, gotContentType string
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotContentType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			rw.WriteHeader(http.StatusOK)
			_, _ = rw.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewClient(server.Client(), server.URL)
		err := client.ReplyMessage(context.Background(), "reply-token-123", []Message{
			NewTextMessage("你好！有什麼可以幫助你的嗎？"),
		})
		require.NoError(t, err)
		require.Equal(t, "/message/reply", gotPath)
		require.Equal(t, "application/json", gotContentType)
		require.JSONEq(t,
			`{"replyToken":"reply-token-123","messages":[{"type":"text","text":"你好！有什麼可以幫助你的嗎？"}]}`,
			string(gotBody))
	})

	t.Run("api error with details", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rw.WriteHeader(http.StatusBadRequest)
			_, _ = rw.Write([]byte(`{"message":"The request body has 1 error(s)","details":[` +
				`{"message":"May not be empty","property":"messages[0].text"}]}`))
		}))
		defer server.Close()

		client := NewClient(server.Client(), server.URL)
		err := client.ReplyMessage(context.Background(), "reply-token-123", []Message{NewTextMessage("")})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "The request body has 1 error(s)", apiErr.Message)
		require.Len(t, apiErr.Details, 1)
		require.Contains(t, apiErr.Error(), "May not be empty")
	})

	t.Run("non-json error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rw.WriteHeader(http.StatusBadGateway)
			_, _ = rw.Write([]byte("bad gateway"))
		}))
		defer server.Close()

		client := NewClient(server.Client(), server.URL)
		err := client.ReplyMessage(context.Background(), "reply-token-123", []Message{NewTextMessage("hi")})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		require.Equal(t, "unknown error", apiErr.Message)
	})
}

func TestClientPushAndMulticast(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = rw.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL)

	require.NoError(t, client.PushMessage(context.Background(), "U123", []Message{NewStickerMessage("1", "1")}))
	require.Equal(t, "/message/push", gotPath)
	require.Equal(t, "U123", gotBody["to"])

	require.NoError(t, client.MulticastMessage(context.Background(), []string{"U1", "U2"}, []Message{NewTextMessage("hi")}))
	require.Equal(t, "/message/multicast", gotPath)
	require.Equal(t, []interface{}{"U1", "U2"}, gotBody["to"])
}

func TestClientGetProfile(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/profile/U123", r.URL.Path)
			_, _ = rw.Write([]byte(`{"userId":"U123","displayName":"Alice","language":"zh-TW"}`))
		}))
		defer server.Close()

		client := NewClient(server.Client(), server.URL)
		profile, err := client.GetProfile(context.Background(), "U123")
		require.NoError(t, err)
		require.Equal(t, &Profile{UserID: "U123", DisplayName: "Alice", Language: "zh-TW"}, profile)
	})

	t.Run("not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rw.WriteHeader(http.StatusNotFound)
			_, _ = rw.Write([]byte(`{"message":"Not found"}`))
		}))
		defer server.Close()

		client := NewClient(server.Client(), server.URL)
		_, err := client.GetProfile(context.Background(), "U404")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}

func TestMessagesMarshaling(t *testing.T) {
	t.Run("template message", func(t *testing.T) {
		msg := NewTemplateMessage("menu", &ButtonsTemplate{
			Text:  "選擇一個動作",
			Title: "選單",
			Actions: []Action{
				&MessageAction{Label: "打招呼", Text: "hello"},
				&PostbackAction{Label: "更多", Data: "action=more"},
				&URIAction{Label: "官網", URI: "https://line.me"},
			},
		})
		data, err := json.Marshal(msg)
		require.NoError(t, err)
		require.JSONEq(t, `{
			"type": "template",
			"altText": "menu",
			"template": {
				"type": "buttons",
				"text": "選擇一個動作",
				"title": "選單",
				"actions": [
					{"type":"message","label":"打招呼","text":"hello"},
					{"type":"postback","label":"更多","data":"action=more"},
					{"type":"uri","label":"官網","uri":"https://line.me"}
				]
			}
		}`, string(data))
	})

	t.Run("sticker message", func(t *testing.T) {
		data, err := json.Marshal(NewStickerMessage("1", "2"))
		require.NoError(t, err)
		require.JSONEq(t, `{"type":"sticker","packageId":"1","stickerId":"2"}`, string(data))
	})
}
