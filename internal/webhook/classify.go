/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/acronis/go-linebot/internal/lineapi"
)

const helpText = "可用指令：\n" +
	"• hello - 打招呼\n" +
	"• help - 顯示說明\n" +
	"• time - 顯示目前時間\n" +
	"• sticker - 發送貼圖"

const unknownCommandText = "我不太理解你的意思，試試輸入 'help' 查看可用指令。"

// RepliesForText maps user text onto the bot's reply messages.
// Commands are matched case-insensitively and with surrounding
// whitespace ignored; echo prefixes are matched against the text as sent.
func RepliesForText(text string, now time.Time) []lineapi.Message {
	switch strings.TrimSpace(strings.ToLower(text)) {
	case "hello", "hi", "你好", "哈囉":
		return []lineapi.Message{lineapi.NewTextMessage("你好！有什麼可以幫助你的嗎？")}
	case "help", "幫助", "說明":
		return []lineapi.Message{lineapi.NewTextMessage(helpText)}
	case "time", "時間":
		return []lineapi.Message{lineapi.NewTextMessage(
			fmt.Sprintf("目前時間：%s", now.UTC().Format("2006-01-02 15:04:05 UTC")))}
	case "sticker", "貼圖":
		return []lineapi.Message{lineapi.NewStickerMessage("1", "1")}
	}
	if echoText, ok := strings.CutPrefix(text, "echo "); ok {
		return []lineapi.Message{lineapi.NewTextMessage("回音：" + echoText)}
	}
	if echoText, ok := strings.CutPrefix(text, "回音 "); ok {
		return []lineapi.Message{lineapi.NewTextMessage("回音：" + echoText)}
	}
	return []lineapi.Message{lineapi.NewTextMessage(unknownCommandText)}
}
