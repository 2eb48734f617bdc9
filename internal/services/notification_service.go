package services

import (
	"context"
	"fmt"
	"log/slog"
	"restaurant_ordering/internal/logger"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"strings"
	"time"
)

const (
	mailTimeout  = 10 * time.Second
	alertTimeout = 5 * time.Second
)

type NotificationService interface {
	// OrderPlaced emails the customer and alerts staff. It never returns an
	// error; the outcome of the email goes back to the caller as a status.
	OrderPlaced(ctx context.Context, actor *Session, order *models.Order) NotificationResult
	LowStock(ctx context.Context, item *models.InventoryItem)
}

type notificationService struct {
	mailer   Mailer
	alerter  StaffAlerter
	userRepo repository.UserRepository
	log      *logger.Logger
	// alertWait bounds each staff alert so a stalled chat cannot hold up
	// the request that triggered it.
	alertWait time.Duration
}

func NewNotificationService(mailer Mailer, alerter StaffAlerter, userRepo repository.UserRepository, log *logger.Logger) NotificationService {
	if alerter == nil {
		alerter = NopAlerter{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &notificationService{mailer: mailer, alerter: alerter, userRepo: userRepo, log: log, alertWait: alertTimeout}
}

func (s *notificationService) alert(ctx context.Context, text string) error {
	alertCtx, cancel := context.WithTimeout(ctx, s.alertWait)
	defer cancel()
	return s.alerter.Alert(alertCtx, text)
}

func (s *notificationService) OrderPlaced(ctx context.Context, actor *Session, order *models.Order) NotificationResult {
	if err := s.alert(ctx, FormatKitchenAlert(order)); err != nil {
		s.log.Error(ctx, "staff_alert_failed", "failed to alert staff about new order", err, slog.Uint64("order_id", uint64(order.ID)))
	}

	if s.mailer == nil {
		return NotificationResult{Success: false, Message: "email delivery is not configured"}
	}

	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		s.log.Error(ctx, "confirmation_email_failed", "failed to load order owner", err, slog.Uint64("order_id", uint64(order.ID)))
		return NotificationResult{Success: false, Message: "failed to send confirmation email"}
	}

	mailCtx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	subject := fmt.Sprintf("Order Confirmation - %s", order.Code)
	if err := s.mailer.Send(mailCtx, user.Email, subject, FormatConfirmation(user, order)); err != nil {
		s.log.Error(ctx, "confirmation_email_failed", "failed to send confirmation email", err,
			slog.Uint64("order_id", uint64(order.ID)), slog.String("to", user.Email))
		return NotificationResult{Success: false, Message: "failed to send confirmation email"}
	}

	s.log.Info(ctx, "confirmation_email_sent", "order confirmation sent", slog.Uint64("order_id", uint64(order.ID)))
	return NotificationResult{Success: true, Message: "confirmation email sent"}
}

func (s *notificationService) LowStock(ctx context.Context, item *models.InventoryItem) {
	text := fmt.Sprintf("Low stock: %s at %s %s (threshold %s)",
		item.Name, item.Quantity.StringFixed(2), item.Unit, item.MinimumThreshold.StringFixed(2))
	if err := s.alert(ctx, text); err != nil {
		s.log.Error(ctx, "staff_alert_failed", "failed to send low stock alert", err, slog.Uint64("inventory_id", uint64(item.ID)))
	}
}

func FormatConfirmation(user *models.User, order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", user.FullName())
	fmt.Fprintf(&b, "Thank you for your order! Your order %s has been received.\n\n", order.Code)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %d x %s @ %s = %s\n", item.Quantity, item.ItemName, item.UnitPrice.StringFixed(2), item.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", order.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Status: %s\n", order.Status)
	return b.String()
}

func FormatKitchenAlert(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s for %s", order.Code, order.CustomerName)
	if order.TableID != nil {
		fmt.Fprintf(&b, " (table id %d)", *order.TableID)
	}
	b.WriteString("\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%d x %s\n", item.Quantity, item.ItemName)
	}
	fmt.Fprintf(&b, "Total: %s", order.TotalAmount.StringFixed(2))
	return b.String()
}
