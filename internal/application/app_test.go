//go:build !integration

package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"xeyronox-link-bot/internal/application"
	"xeyronox-link-bot/internal/domain"
	"xeyronox-link-bot/internal/domain/model"
)

type fakeSender struct {
	mu      sync.Mutex
	replies []model.Reply
	err     error
}

func (f *fakeSender) Deliver(ctx context.Context, r model.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, r)
	return f.err
}

func TestApp_NotReadyUntilAttached(t *testing.T) {
	log := zerolog.Nop()
	app := application.NewApp(newDispatcher(t), &log)

	if app.Ready() {
		t.Fatal("app should not be ready before Attach")
	}
	err := app.HandleUpdate(context.Background(), model.IncomingUpdate{ChatID: 1, Text: "/start"})
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Fatalf("want ErrNotInitialized, got %v", err)
	}

	sender := &fakeSender{}
	app.Attach(sender)
	if !app.Ready() {
		t.Fatal("app should be ready after Attach")
	}
	if err := app.HandleUpdate(context.Background(), model.IncomingUpdate{ChatID: 1, Text: "/help"}); err != nil {
		t.Fatalf("HandleUpdate: %v", err)
	}
	if len(sender.replies) != 1 || sender.replies[0].Command != model.CmdHelp {
		t.Fatalf("unexpected deliveries: %+v", sender.replies)
	}
}

func TestApp_ReturnsDeliveryError(t *testing.T) {
	app := application.NewApp(newDispatcher(t), nil)
	sender := &fakeSender{err: domain.ErrDelivery}
	app.Attach(sender)

	err := app.HandleUpdate(context.Background(), model.IncomingUpdate{ChatID: 1, Text: "/shop"})
	if !errors.Is(err, domain.ErrDelivery) {
		t.Fatalf("want ErrDelivery, got %v", err)
	}
}

func TestApp_Status(t *testing.T) {
	app := application.NewApp(newDispatcher(t), nil)
	st := app.Status()
	if st.Environment != "staging" || st.Version != "1.2.3" {
		t.Fatalf("status: %+v", st)
	}
	if app.Dispatcher() == nil {
		t.Fatal("dispatcher not exposed")
	}
}
