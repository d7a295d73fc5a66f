package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/config"
	"xeyronox-link-bot/internal/domain"
	"xeyronox-link-bot/internal/domain/model"
	"xeyronox-link-bot/internal/domain/ports/adapter"
	"xeyronox-link-bot/internal/infra/logging"
	"xeyronox-link-bot/internal/infra/metrics"
	"xeyronox-link-bot/internal/infra/retry"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter delivers replies through the Bot API. Every call
// goes through the shared retry policy.
type RealTelegramBotAdapter struct {
	bot    *tgbotapi.BotAPI
	policy retry.Policy
	log    *zerolog.Logger
}

// NewRealTelegramBotAdapter calls getMe, so callers run it under the boot retry.
func NewRealTelegramBotAdapter(cfg config.BotConfig, policy retry.Policy, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: bot token is empty", domain.ErrConfiguration)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := &http.Client{Timeout: cfg.RequestTimeout()}

	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, client)
	if err != nil {
		return nil, classify(err)
	}
	l := logger.With().Str("component", "TelegramAdapter").Str("bot", bot.Self.UserName).Logger()
	return &RealTelegramBotAdapter{bot: bot, policy: policy, log: &l}, nil
}

func (r *RealTelegramBotAdapter) Username() string { return r.bot.Self.UserName }

// Deliver acknowledges the callback (if any) and then either edits the
// source message or sends a new one. A callback without a chat is only
// acknowledged.
func (r *RealTelegramBotAdapter) Deliver(ctx context.Context, reply model.Reply) error {
	l := logging.With(ctx, r.log)

	if reply.HasCallback() {
		cb := tgbotapi.NewCallback(reply.CallbackQueryID, "")
		err := r.call(ctx, "answerCallbackQuery", func() error {
			_, err := r.bot.Request(cb)
			return err
		})
		if reply.ChatID == 0 {
			// inline-mode button: there is no chat to answer in
			return err
		}
		if err != nil {
			// the reply itself is still worth sending
			l.Warn().Err(err).Msg("callback acknowledgement failed")
		}
	}
	if reply.ChatID == 0 {
		return fmt.Errorf("%w: reply has no chat", domain.ErrInvalidArgument)
	}

	resp := reply.Response
	markup := keyboard(resp.Buttons)

	if reply.EditMessageID != 0 {
		edit := tgbotapi.NewEditMessageText(reply.ChatID, reply.EditMessageID, resp.Text)
		edit.ParseMode = resp.ParseMode
		edit.DisableWebPagePreview = true
		if markup != nil {
			edit.ReplyMarkup = markup
		}
		return r.call(ctx, "editMessageText", func() error {
			_, err := r.bot.Send(edit)
			if isNotModified(err) {
				return nil
			}
			return err
		})
	}

	msg := tgbotapi.NewMessage(reply.ChatID, resp.Text)
	msg.ParseMode = resp.ParseMode
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	return r.call(ctx, "sendMessage", func() error {
		_, err := r.bot.Send(msg)
		return err
	})
}

// RegisterWebhook points Telegram at url.
func (r *RealTelegramBotAdapter) RegisterWebhook(ctx context.Context, url string, allowed []string, dropPending bool) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("%w: webhook url: %v", domain.ErrConfiguration, err)
	}
	wh.AllowedUpdates = allowed
	wh.DropPendingUpdates = dropPending
	return r.call(ctx, "setWebhook", func() error {
		_, err := r.bot.Request(wh)
		return err
	})
}

func (r *RealTelegramBotAdapter) call(ctx context.Context, method string, fn func() error) error {
	err := r.policy.Do(ctx, "telegram."+method, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return retry.Permanent(err)
		}
		return classify(fn())
	})
	metrics.IncDelivery(method, err == nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrDelivery, method, err)
	}
	return nil
}

// classify marks Bot API client errors as permanent. 429 and 5xx are retried,
// as are transport failures.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests {
			return retry.Permanent(err)
		}
	}
	return err
}

func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "message is not modified")
}

// keyboard lays out one button per row.
func keyboard(buttons []model.LinkButton) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		if b.IsCallback() {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data)))
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL)))
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
