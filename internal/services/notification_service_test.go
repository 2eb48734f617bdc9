package services

import (
	"context"
	"errors"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/models"
	"testing"
	"time"
)

// stalledAlerter never delivers; it waits for the caller to give up.
type stalledAlerter struct {
	calls int
}

func (a *stalledAlerter) Alert(ctx context.Context, _ string) error {
	a.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("alert called without a deadline")
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestStalledAlerterDoesNotBlockNotifications(t *testing.T) {
	users := newFakeUserRepo(models.User{ID: 7, Username: "guest", Email: "guest@example.com"})
	mailer := &fakeMailer{}
	alerter := &stalledAlerter{}
	svc := NewNotificationService(mailer, alerter, users, logger.Discard()).(*notificationService)
	svc.alertWait = 20 * time.Millisecond

	tests := []struct {
		name string
		run  func()
	}{
		{"order placed", func() {
			res := svc.OrderPlaced(context.Background(), customer(7), &models.Order{ID: 1, Code: "ABC", UserID: 7})
			if !res.Success {
				t.Errorf("confirmation = %+v, want sent despite stalled alert", res)
			}
		}},
		{"low stock", func() {
			svc.LowStock(context.Background(), &models.InventoryItem{ID: 1, Name: "Rice", Quantity: price("1"), MinimumThreshold: price("5")})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			tt.run()
			if elapsed := time.Since(start); elapsed > time.Second {
				t.Errorf("took %s with a stalled alerter", elapsed)
			}
		})
	}
	if alerter.calls != 2 || len(mailer.sent) != 1 {
		t.Errorf("alerts = %d, mails = %v", alerter.calls, mailer.sent)
	}
}
