package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestAlertSendsToConfiguredChat(t *testing.T) {
	fs := &fakeSender{}
	a := &Alerter{api: fs, chatID: -1001}

	if err := a.Alert(context.Background(), "New order ABC"); err != nil {
		t.Fatalf("Alert: %v", err)
	}
	if len(fs.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fs.sent))
	}
	if fs.sent[0].ChatID != -1001 || fs.sent[0].Text != "New order ABC" {
		t.Errorf("unexpected message: %+v", fs.sent[0])
	}
}

func TestAlertWrapsSendError(t *testing.T) {
	boom := errors.New("flood wait")
	a := &Alerter{api: &fakeSender{err: boom}, chatID: 1}
	if err := a.Alert(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

type stalledSender struct {
	release chan struct{}
}

func (s stalledSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	<-s.release
	return tgbotapi.Message{}, nil
}

func TestAlertHonorsDeadline(t *testing.T) {
	stalled := stalledSender{release: make(chan struct{})}
	defer close(stalled.release)
	a := &Alerter{api: stalled, chatID: 1}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := a.Alert(ctx, "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Alert blocked for %s past its deadline", elapsed)
	}
}

func TestAlertSkipsCancelledContext(t *testing.T) {
	fs := &fakeSender{}
	a := &Alerter{api: fs, chatID: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := a.Alert(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want Canceled", err)
	}
	if len(fs.sent) != 0 {
		t.Errorf("sent %d messages on a cancelled context", len(fs.sent))
	}
}
