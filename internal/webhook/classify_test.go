/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-linebot/internal/lineapi"
)

func TestRepliesForText(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 30, 45, 0, time.UTC)

	requireTextReply := func(t *testing.T, messages []lineapi.Message, wantText string) {
		t.Helper()
		require.Len(t, messages, 1)
		textMsg, ok := messages[0].(*lineapi.TextMessage)
		require.True(t, ok, "expected text message, got %T", messages[0])
		require.Equal(t, wantText, textMsg.Text)
	}

	t.Run("greeting", func(t *testing.T) {
		for _, input := range []string{"hello", "hi", "你好", "哈囉", "HELLO", "  hello  "} {
			requireTextReply(t, RepliesForText(input, now), "你好！有什麼可以幫助你的嗎？")
		}
	})

	t.Run("help", func(t *testing.T) {
		for _, input := range []string{"help", "幫助", "說明"} {
			messages := RepliesForText(input, now)
			require.Len(t, messages, 1)
			textMsg := messages[0].(*lineapi.TextMessage)
			require.Contains(t, textMsg.Text, "可用指令")
		}
	})

	t.Run("time", func(t *testing.T) {
		requireTextReply(t, RepliesForText("time", now), "目前時間：2025-06-15 12:30:45 UTC")
		requireTextReply(t, RepliesForText("時間", now), "目前時間：2025-06-15 12:30:45 UTC")
	})

	t.Run("sticker", func(t *testing.T) {
		messages := RepliesForText("sticker", now)
		require.Len(t, messages, 1)
		stickerMsg, ok := messages[0].(*lineapi.StickerMessage)
		require.True(t, ok)
		require.Equal(t, "1", stickerMsg.PackageID)
		require.Equal(t, "1", stickerMsg.StickerID)
	})

	t.Run("echo", func(t *testing.T) {
		requireTextReply(t, RepliesForText("echo test message", now), "回音：test message")
		requireTextReply(t, RepliesForText("回音 測試訊息", now), "回音：測試訊息")
	})

	t.Run("echo prefix is case-sensitive", func(t *testing.T) {
		requireTextReply(t, RepliesForText("Echo test", now), unknownCommandText)
	})

	t.Run("unknown command", func(t *testing.T) {
		requireTextReply(t, RepliesForText("unknown command", now), unknownCommandText)
	})
}
