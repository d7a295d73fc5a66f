package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/domain/model"
	"xeyronox-link-bot/internal/domain/ports/adapter"
	"xeyronox-link-bot/internal/infra/logging"
	"xeyronox-link-bot/internal/infra/metrics"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter logs replies instead of sending them. Used for DRY_RUN.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "NoopTelegram").Logger()
	return &NoopBotAdapter{log: &l}
}

func (b *NoopBotAdapter) Deliver(ctx context.Context, reply model.Reply) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	labels := make([]string, 0, len(reply.Response.Buttons))
	for _, btn := range reply.Response.Buttons {
		labels = append(labels, btn.Label)
	}
	logging.With(ctx, b.log).Info().
		Int64("chat_id", reply.ChatID).
		Str("command", reply.Command.String()).
		Int("edit_message_id", reply.EditMessageID).
		Bool("callback", reply.HasCallback()).
		Strs("buttons", labels).
		Str("text", reply.Response.Text).
		Msg("dry run reply")
	metrics.IncDelivery("noop", true)
	return nil
}
