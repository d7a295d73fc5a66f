//go:build !integration

package telegram

import (
	"encoding/json"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func decode(t *testing.T, raw string) tgbotapi.Update {
	t.Helper()
	var u tgbotapi.Update
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return u
}

func TestToIncoming_CommandMessage(t *testing.T) {
	u := decode(t, `{"update_id":100,"message":{"message_id":5,"date":0,
		"from":{"id":7,"is_bot":false,"first_name":"A","username":"alice"},
		"chat":{"id":42,"type":"private"},
		"text":"/start@xeyronox_bot",
		"entities":[{"type":"bot_command","offset":0,"length":19}]}}`)

	in, ok := ToIncoming(u)
	if !ok {
		t.Fatal("expected usable update")
	}
	if in.UpdateID != 100 || in.ChatID != 42 || in.MessageID != 5 || in.FromID != 7 || in.Username != "alice" {
		t.Fatalf("fields: %+v", in)
	}
	if in.Command != "start" {
		t.Fatalf("command: %q", in.Command)
	}
}

func TestToIncoming_PlainText(t *testing.T) {
	in, ok := ToIncoming(decode(t, `{"update_id":1,"message":{"message_id":1,"date":0,"chat":{"id":3,"type":"private"},"text":"hello"}}`))
	if !ok || in.Command != "" || in.Text != "hello" {
		t.Fatalf("got %+v ok=%v", in, ok)
	}
}

func TestToIncoming_Callback(t *testing.T) {
	in, ok := ToIncoming(decode(t, `{"update_id":2,"callback_query":{"id":"cb-9","data":"lang_en",
		"from":{"id":7,"is_bot":false,"first_name":"A"},
		"message":{"message_id":11,"date":0,"chat":{"id":42,"type":"private"},"text":"pick"}}}`))
	if !ok {
		t.Fatal("expected usable update")
	}
	if !in.IsCallback() || in.CallbackData != "lang_en" || in.MessageID != 11 || in.ChatID != 42 {
		t.Fatalf("fields: %+v", in)
	}
}

func TestToIncoming_InlineCallbackStillAnswered(t *testing.T) {
	in, ok := ToIncoming(decode(t, `{"update_id":4,"callback_query":{"id":"x","data":"help","inline_message_id":"im",
		"from":{"id":1,"is_bot":false,"first_name":"A"}}}`))
	if !ok {
		t.Fatal("callback without a source message must still be acknowledged")
	}
	if in.CallbackQueryID != "x" || in.ChatID != 0 || in.MessageID != 0 {
		t.Fatalf("fields: %+v", in)
	}
}

func TestToIncoming_Unanswerable(t *testing.T) {
	tests := map[string]string{
		"empty":          `{"update_id":3}`,
		"edited message": `{"update_id":5,"edited_message":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"},"text":"/start"}}`,
		"photo": `{"update_id":6,"message":{"message_id":2,"date":0,"chat":{"id":1,"type":"private"},
			"photo":[{"file_id":"f","file_unique_id":"u","width":1,"height":1}]}}`,
		"sticker": `{"update_id":7,"message":{"message_id":3,"date":0,"chat":{"id":1,"type":"private"},
			"sticker":{"file_id":"f","file_unique_id":"u","width":1,"height":1,"is_animated":false}}}`,
		"member joined": `{"update_id":8,"message":{"message_id":4,"date":0,"chat":{"id":-100,"type":"supergroup"},
			"new_chat_members":[{"id":9,"is_bot":false,"first_name":"B"}]}}`,
		"pinned": `{"update_id":9,"message":{"message_id":5,"date":0,"chat":{"id":-100,"type":"supergroup"},
			"pinned_message":{"message_id":1,"date":0,"chat":{"id":-100,"type":"supergroup"},"text":"hi"}}}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if _, ok := ToIncoming(decode(t, raw)); ok {
				t.Fatal("expected update to be skipped")
			}
		})
	}
}
