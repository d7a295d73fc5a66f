package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"xeyronox-link-bot/internal/domain/model"
)

// ToIncoming flattens a Bot API update. The second result is false when the
// update carries nothing the bot answers: no callback and no text message.
// A callback from an inline-mode message has no chat; it is still returned
// so the query gets acknowledged, with ChatID left at zero.
func ToIncoming(u tgbotapi.Update) (model.IncomingUpdate, bool) {
	in := model.IncomingUpdate{UpdateID: u.UpdateID}

	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		in.CallbackQueryID = cq.ID
		in.CallbackData = cq.Data
		if cq.From != nil {
			in.FromID = cq.From.ID
			in.Username = cq.From.UserName
		}
		if cq.Message == nil || cq.Message.Chat == nil {
			return in, true
		}
		in.ChatID = cq.Message.Chat.ID
		in.MessageID = cq.Message.MessageID
		return in, true

	case u.Message != nil:
		m := u.Message
		// photos, stickers and service messages carry no text
		if m.Chat == nil || m.Text == "" {
			return in, false
		}
		in.ChatID = m.Chat.ID
		in.MessageID = m.MessageID
		in.Text = m.Text
		if m.From != nil {
			in.FromID = m.From.ID
			in.Username = m.From.UserName
		}
		if m.IsCommand() {
			in.Command = m.Command()
		}
		return in, true
	}
	return in, false
}
