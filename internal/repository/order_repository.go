package repository

import (
	"context"
	"restaurant_ordering/internal/models"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	UserID      *uint
	Status      models.OrderStatus
	OldestFirst bool
}

type SalesSummary struct {
	OrderCount  int64           `json:"order_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type OrderRepository interface {
	// Create writes the header, its items and the initial history row in one transaction.
	Create(ctx context.Context, order *models.Order, changedBy uint) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter, page Page) ([]models.Order, int64, error)
	ListActive(ctx context.Context) ([]models.Order, error)
	// ReplaceItems swaps the full item set and total while the order is still pending.
	ReplaceItems(ctx context.Context, orderID uint, items []models.OrderItem, total decimal.Decimal) (bool, error)
	// TransitionStatus moves the order to `to` only if its current status is one of `from`.
	// It returns the status observed before the attempt.
	TransitionStatus(ctx context.Context, id uint, from []models.OrderStatus, to models.OrderStatus, changedBy uint) (models.OrderStatus, bool, error)
	DeletePending(ctx context.Context, id uint) (bool, error)
	History(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error)
	SalesBetween(ctx context.Context, start, end time.Time) (*SalesSummary, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order, changedBy uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  order.Status,
			ChangedBy: changedBy,
		}).Error
	})
}

// CodeExists includes soft-deleted orders so a code is never handed out twice.
func (r *orderRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Order{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, page Page) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC, id DESC"
	if filter.OldestFirst {
		order = "created_at, id"
	}

	var orders []models.Order
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order(order).Scopes(paginate(page)).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) ListActive(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("status IN ?", []models.OrderStatus{models.OrderPending, models.OrderProcessing}).
		Order("created_at, id").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ReplaceItems(ctx context.Context, orderID uint, items []models.OrderItem, total decimal.Decimal) (bool, error) {
	replaced := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderPending).
			Update("total_amount", total)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].OrderID = orderID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		replaced = true
		return nil
	})
	return replaced, err
}

func (r *orderRepository) TransitionStatus(ctx context.Context, id uint, from []models.OrderStatus, to models.OrderStatus, changedBy uint) (models.OrderStatus, bool, error) {
	var previous models.OrderStatus
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "status").First(&order, id).Error; err != nil {
			return err
		}
		previous = order.Status

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ? AND status IN ?", id, order.Status, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		applied = true
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    id,
			FromStatus: previous,
			ToStatus:   to,
			ChangedBy:  changedBy,
		}).Error
	})
	return previous, applied, err
}

func (r *orderRepository) DeletePending(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.OrderPending).
		Delete(&models.Order{})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepository) History(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&history).Error
	return history, err
}

// SalesBetween covers [start, end) and ignores cancelled orders.
func (r *orderRepository) SalesBetween(ctx context.Context, start, end time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS total_amount").
		Where("created_at >= ? AND created_at < ? AND status <> ?", start, end, models.OrderCancelled).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
