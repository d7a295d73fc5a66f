package adapter

import (
	"context"

	"xeyronox-link-bot/internal/domain/model"
)

// TelegramBotAdapter is the outbound side of the bot. Implementations own
// transport, retries and callback acknowledgement.
type TelegramBotAdapter interface {
	Deliver(ctx context.Context, reply model.Reply) error
}
