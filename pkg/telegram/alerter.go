package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// requestTimeout caps every Bot API call, including sends abandoned by Alert.
const requestTimeout = 10 * time.Second

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Alerter posts plain text messages to one staff chat.
type Alerter struct {
	api    sender
	chatID int64
}

func NewAlerter(token string, chatID int64) (*Alerter, error) {
	client := &http.Client{Timeout: requestTimeout}
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Alerter{api: api, chatID: chatID}, nil
}

// Alert returns once the message is sent or ctx is done, whichever is first.
// The bot library takes no context, so an abandoned send finishes in the
// background within requestTimeout.
func (a *Alerter) Alert(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(a.chatID, text)
	msg.DisableWebPagePreview = true

	done := make(chan error, 1)
	go func() {
		_, err := a.api.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send telegram alert: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("telegram alert abandoned: %w", ctx.Err())
	}
}
