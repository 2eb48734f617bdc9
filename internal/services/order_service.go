package services

import (
	"context"
	"errors"
	"fmt"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type PlaceOrderInput struct {
	CustomerName string           `json:"customer_name"`
	TableID      *uint            `json:"table_id"`
	Items        []OrderItemInput `json:"items"`
}

type NotificationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type PlaceOrderResult struct {
	Order        *models.Order      `json:"order"`
	Notification NotificationResult `json:"notification"`
}

type Invoice struct {
	Order         *models.Order   `json:"order"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TipPercentage decimal.Decimal `json:"tip_percentage"`
	TipAmount     decimal.Decimal `json:"tip_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, actor *Session, in PlaceOrderInput) (*PlaceOrderResult, error)
	GetOrder(ctx context.Context, actor *Session, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, actor *Session, status string, page Pagination) ([]models.Order, int64, error)
	OrderHistory(ctx context.Context, actor *Session, status string, page Pagination) ([]models.Order, int64, error)
	ReplaceItems(ctx context.Context, actor *Session, id uint, items []OrderItemInput) (*models.Order, error)
	Cancel(ctx context.Context, actor *Session, id uint) (*models.Order, error)
	StartProcessing(ctx context.Context, actor *Session, id uint) (*models.Order, error)
	Complete(ctx context.Context, actor *Session, id uint) (*models.Order, error)
	DeleteOrder(ctx context.Context, actor *Session, id uint) error
	Invoice(ctx context.Context, actor *Session, id uint, tipPercentage decimal.Decimal) (*Invoice, error)
	KitchenQueue(ctx context.Context, actor *Session) ([]models.Order, error)
	StatusHistory(ctx context.Context, actor *Session, id uint) ([]models.OrderStatusHistory, error)
}

// transitions lists, for each target status, the statuses it may be entered from.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderProcessing: {models.OrderPending},
	models.OrderCompleted:  {models.OrderProcessing},
	models.OrderCancelled:  {models.OrderPending, models.OrderProcessing},
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
func CanTransition(from, to models.OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	for _, s := range transitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

type orderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	tableRepo repository.TableRepository
	notifier  NotificationService
	events    EventPublisher
	genCode   codeGenerator
	now       func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	tableRepo repository.TableRepository,
	notifier NotificationService,
	events EventPublisher,
) OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	return &orderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		tableRepo: tableRepo,
		notifier:  notifier,
		events:    events,
		genCode:   GenerateCode,
		now:       time.Now,
	}
}

func isOwner(actor *Session, order *models.Order) bool {
	return actor != nil && actor.UserID == order.UserID
}

func isStaff(actor *Session) bool {
	return actor != nil && models.IsStaffRole(actor.Role)
}

// buildItems validates the requested lines and snapshots current menu prices.
func (s *orderService) buildItems(ctx context.Context, in []OrderItemInput) ([]models.OrderItem, error) {
	if len(in) == 0 {
		return nil, invalid("items", "at least one item is required")
	}

	fields := fieldErrors{}
	ids := make([]uint, 0, len(in))
	for i, line := range in {
		key := "items[" + strconv.Itoa(i) + "]"
		if line.MenuItemID == 0 {
			fields.add(key+".menu_item_id", "this field is required")
		}
		if line.Quantity < 1 {
			fields.add(key+".quantity", "quantity must be at least 1")
		}
		ids = append(ids, line.MenuItemID)
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	menuItems, err := s.menuRepo.GetItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	byID := make(map[uint]models.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	items := make([]models.OrderItem, 0, len(in))
	for i, line := range in {
		key := "items[" + strconv.Itoa(i) + "].menu_item_id"
		m, ok := byID[line.MenuItemID]
		switch {
		case !ok:
			fields.add(key, "menu item does not exist")
			continue
		case !m.IsAvailable:
			fields.add(key, m.Name+" is not available")
			continue
		}
		items = append(items, models.OrderItem{
			MenuItemID: m.ID,
			ItemName:   m.Name,
			Quantity:   line.Quantity,
			UnitPrice:  m.Price,
		})
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *orderService) PlaceOrder(ctx context.Context, actor *Session, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		name = actor.Username
	}
	if len(name) > 100 {
		return nil, invalid("customer_name", "ensure this field has no more than 100 characters")
	}

	if in.TableID != nil {
		if _, err := s.tableRepo.GetByID(ctx, *in.TableID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalid("table_id", "table does not exist")
			}
			return nil, err
		}
	}

	items, err := s.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:       actor.UserID,
		CustomerName: name,
		TableID:      in.TableID,
		Status:       models.OrderPending,
		TotalAmount:  OrderTotal(items),
	}

	// The existence check narrows collisions; the unique index settles races.
	attempts := 0
	for {
		code, err := uniqueCode(ctx, s.genCode, OrderCodeLength, &attempts, s.orderRepo.CodeExists)
		if err != nil {
			return nil, err
		}
		order.ID = 0
		order.Code = code
		order.Items = append([]models.OrderItem(nil), items...)

		err = s.orderRepo.Create(ctx, order, actor.UserID)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
	}

	s.publish(ctx, models.EventOrderPlaced, order, "", actor.UserID)

	result := &PlaceOrderResult{Order: order}
	if s.notifier != nil {
		result.Notification = s.notifier.OrderPlaced(ctx, actor, order)
	}
	return result, nil
}

func (s *orderService) load(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor *Session, id uint) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isOwner(actor, order) && !isStaff(actor) {
		return nil, ErrForbidden
	}
	return order, nil
}

func parseStatusFilter(status string) (models.OrderStatus, error) {
	st := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return "", invalid("status", "unknown order status")
	}
	return st, nil
}

// ListOrders returns the caller's orders newest first; staff see every order.
func (s *orderService) ListOrders(ctx context.Context, actor *Session, status string, page Pagination) ([]models.Order, int64, error) {
	if actor == nil {
		return nil, 0, ErrForbidden
	}
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}
	filter := repository.OrderFilter{Status: st}
	if !isStaff(actor) {
		filter.UserID = &actor.UserID
	}
	return s.orderRepo.List(ctx, filter, page.repositoryPage())
}

// OrderHistory is always scoped to the caller and ordered oldest first.
func (s *orderService) OrderHistory(ctx context.Context, actor *Session, status string, page Pagination) ([]models.Order, int64, error) {
	if actor == nil {
		return nil, 0, ErrForbidden
	}
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}
	filter := repository.OrderFilter{UserID: &actor.UserID, Status: st, OldestFirst: true}
	return s.orderRepo.List(ctx, filter, page.repositoryPage())
}

// ReplaceItems swaps the whole item set of a pending order and recomputes its total.
func (s *orderService) ReplaceItems(ctx context.Context, actor *Session, id uint, in []OrderItemInput) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isOwner(actor, order) {
		return nil, ErrForbidden
	}
	if order.Status != models.OrderPending {
		return nil, ErrOrderNotEditable
	}

	items, err := s.buildItems(ctx, in)
	if err != nil {
		return nil, err
	}
	total := OrderTotal(items)

	ok, err := s.orderRepo.ReplaceItems(ctx, id, items, total)
	if err != nil {
		return nil, fmt.Errorf("failed to replace order items: %w", err)
	}
	if !ok {
		// Status moved on between the read and the write.
		return nil, ErrOrderNotEditable
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventOrderItemsReplaced, updated, "", actor.UserID)
	return updated, nil
}

func (s *orderService) transition(ctx context.Context, actor *Session, id uint, to models.OrderStatus, allowed func(*models.Order) bool) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed(order) {
		return nil, ErrForbidden
	}
	if !CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, to)
	}

	previous, ok, err := s.orderRepo.TransitionStatus(ctx, id, transitions[to], to, actor.UserID)
	if err != nil {
		return nil, notFound(err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, previous, to)
	}

	order.Status = to
	order.UpdatedAt = s.now()
	s.publish(ctx, models.EventOrderStatusChanged, order, previous, actor.UserID)
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, actor *Session, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, models.OrderCancelled, func(o *models.Order) bool {
		return isOwner(actor, o) || isStaff(actor)
	})
}

func (s *orderService) StartProcessing(ctx context.Context, actor *Session, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, models.OrderProcessing, func(*models.Order) bool {
		return isStaff(actor)
	})
}

func (s *orderService) Complete(ctx context.Context, actor *Session, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, models.OrderCompleted, func(*models.Order) bool {
		return isStaff(actor)
	})
}

// DeleteOrder removes a pending order. Anything past pending is history and stays.
func (s *orderService) DeleteOrder(ctx context.Context, actor *Session, id uint) error {
	order, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !isOwner(actor, order) && !isStaff(actor) {
		return ErrForbidden
	}
	if order.Status != models.OrderPending {
		return ErrOrderNotEditable
	}

	ok, err := s.orderRepo.DeletePending(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !ok {
		return ErrOrderNotEditable
	}
	s.publish(ctx, models.EventOrderDeleted, order, "", actor.UserID)
	return nil
}

func (s *orderService) Invoice(ctx context.Context, actor *Session, id uint, tipPercentage decimal.Decimal) (*Invoice, error) {
	order, err := s.GetOrder(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	subtotal := OrderTotal(order.Items)
	tip, err := TipAmount(subtotal, tipPercentage)
	if err != nil {
		return nil, err
	}
	return &Invoice{
		Order:         order,
		Subtotal:      subtotal,
		TipPercentage: tipPercentage,
		TipAmount:     tip,
		GrandTotal:    subtotal.Add(tip),
	}, nil
}

// KitchenQueue lists pending and processing orders, oldest first.
func (s *orderService) KitchenQueue(ctx context.Context, actor *Session) ([]models.Order, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	return s.orderRepo.ListActive(ctx)
}

func (s *orderService) StatusHistory(ctx context.Context, actor *Session, id uint) ([]models.OrderStatusHistory, error) {
	if _, err := s.GetOrder(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.orderRepo.History(ctx, id)
}

// publish never fails the caller; delivery problems are the publisher's to log.
func (s *orderService) publish(ctx context.Context, eventType string, order *models.Order, previous models.OrderStatus, changedBy uint) {
	_ = s.events.PublishOrderEvent(ctx, &models.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderCode:   order.Code,
		OldStatus:   previous,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ChangedBy:   changedBy,
		Timestamp:   s.now(),
	})
}
