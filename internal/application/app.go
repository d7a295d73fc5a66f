package application

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/domain"
	"xeyronox-link-bot/internal/domain/model"
	"xeyronox-link-bot/internal/domain/ports/adapter"
	"xeyronox-link-bot/internal/infra/logging"
)

// App is the process-wide handle the ingress and workers share. The sender
// is attached once the Bot API client is up; until then updates are refused.
type App struct {
	dispatcher *Dispatcher
	log        *zerolog.Logger

	mu     sync.RWMutex
	sender adapter.TelegramBotAdapter
}

func NewApp(dispatcher *Dispatcher, logger *zerolog.Logger) *App {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "App").Logger()
	return &App{dispatcher: dispatcher, log: &l}
}

func (a *App) Attach(sender adapter.TelegramBotAdapter) {
	a.mu.Lock()
	a.sender = sender
	a.mu.Unlock()
	a.log.Info().Msg("telegram sender attached")
}

func (a *App) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sender != nil
}

func (a *App) Sender() adapter.TelegramBotAdapter {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sender
}

// HandleUpdate dispatches u and delivers the reply. The delivery error is
// returned for logging only.
func (a *App) HandleUpdate(ctx context.Context, u model.IncomingUpdate) error {
	sender := a.Sender()
	if sender == nil {
		return domain.ErrNotInitialized
	}
	ctx = logging.WithUpdateID(ctx, u.UpdateID)
	ctx = logging.WithChatID(ctx, u.ChatID)
	l := logging.With(ctx, a.log)
	defer logging.TraceDuration(l, "App.HandleUpdate")()

	reply := a.dispatcher.Dispatch(u)
	if reply.Command == model.CmdUnknown {
		l.Debug().Err(domain.ErrDispatch).Bool("callback", u.IsCallback()).Msg("no command matched, answering with help")
	}
	l.Debug().Str("command", reply.Command.String()).Str("username", u.Username).Msg("dispatched")
	return sender.Deliver(ctx, reply)
}

func (a *App) Status() model.ProcessStatus { return a.dispatcher.Status() }

func (a *App) Dispatcher() *Dispatcher { return a.dispatcher }
