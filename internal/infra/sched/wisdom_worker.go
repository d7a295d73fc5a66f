package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/application"
	"xeyronox-link-bot/internal/domain"
	"xeyronox-link-bot/internal/domain/model"
	"xeyronox-link-bot/internal/domain/ports/adapter"
	"xeyronox-link-bot/internal/infra/metrics"
)

// WisdomWorker posts the quote of the day to one chat on a cron schedule.
// Schedules are evaluated in UTC.
type WisdomWorker struct {
	cron       string
	chatID     int64
	dispatcher *application.Dispatcher
	sender     adapter.TelegramBotAdapter
	log        *zerolog.Logger
	now        func() time.Time
}

func NewWisdomWorker(cron string, chatID int64, dispatcher *application.Dispatcher, sender adapter.TelegramBotAdapter, logger *zerolog.Logger) (*WisdomWorker, error) {
	g := gronx.New()
	if !g.IsValid(cron) {
		return nil, fmt.Errorf("%w: invalid wisdom cron %q", domain.ErrConfiguration, cron)
	}
	if chatID == 0 {
		return nil, fmt.Errorf("%w: wisdom chat id is zero", domain.ErrInvalidArgument)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "WisdomWorker").Int64("chat_id", chatID).Logger()
	return &WisdomWorker{
		cron:       cron,
		chatID:     chatID,
		dispatcher: dispatcher,
		sender:     sender,
		log:        &l,
		now:        time.Now,
	}, nil
}

// Next returns the first scheduled post strictly after t.
func (w *WisdomWorker) Next(t time.Time) (time.Time, error) {
	return gronx.NextTickAfter(w.cron, t.UTC(), false)
}

func (w *WisdomWorker) Run(ctx context.Context) error {
	w.log.Info().Str("cron", w.cron).Msg("Starting wisdom worker")
	for {
		next, err := w.Next(w.now())
		if err != nil {
			w.log.Error().Err(err).Msg("cannot compute next run")
			return err
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info().Msg("Stopping wisdom worker")
			return ctx.Err()
		case <-timer.C:
			if err := w.Post(ctx); err != nil {
				w.log.Error().Err(err).Msg("wisdom post failed")
			}
		}
	}
}

// Post sends today's wisdom once.
func (w *WisdomWorker) Post(ctx context.Context) error {
	reply := model.Reply{
		ChatID:   w.chatID,
		Command:  model.CmdWisdom,
		Response: w.dispatcher.Wisdom(),
	}
	err := w.sender.Deliver(ctx, reply)
	metrics.IncWisdomBroadcast(err == nil)
	if err == nil {
		w.log.Info().Msg("wisdom posted")
	}
	return err
}
