package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Code         string          `json:"order_code" gorm:"size:12;uniqueIndex;not null"`
	UserID       uint            `json:"user_id" gorm:"not null;index"`
	CustomerName string          `json:"customer_name" gorm:"size:100;not null"`
	TableID      *uint           `json:"table_id"`
	Status       OrderStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Items        []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status" gorm:"type:varchar(20)"`
	ToStatus   OrderStatus `json:"to_status" gorm:"type:varchar(20);not null"`
	ChangedBy  uint        `json:"changed_by"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderEvent is the message published to the kitchen exchange.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     uint            `json:"order_id"`
	OrderCode   string          `json:"order_code"`
	OldStatus   OrderStatus     `json:"old_status,omitempty"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ChangedBy   uint            `json:"changed_by"`
	Timestamp   time.Time       `json:"timestamp"`
}

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderItemsReplaced = "order.items_replaced"
	EventOrderDeleted       = "order.deleted"
)
