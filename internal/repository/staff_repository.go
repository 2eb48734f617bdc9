package repository

import (
	"context"
	"restaurant_ordering/internal/models"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StaffRepository interface {
	// CreateWithUser inserts the login and its staff row in one transaction.
	CreateWithUser(ctx context.Context, user *models.User, member *models.StaffMember) error
	GetByID(ctx context.Context, id uint) (*models.StaffMember, error)
	List(ctx context.Context, role string) ([]models.StaffMember, error)
	Count(ctx context.Context) (int64, error)
	EmployeeIDExists(ctx context.Context, employeeID string) (bool, error)
}

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) CreateWithUser(ctx context.Context, user *models.User, member *models.StaffMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		member.UserID = user.ID
		return tx.Omit("User").Create(member).Error
	})
}

func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.StaffMember, error) {
	var member models.StaffMember
	if err := r.db.WithContext(ctx).Preload("User").First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *staffRepository) List(ctx context.Context, role string) ([]models.StaffMember, error) {
	var members []models.StaffMember
	q := r.db.WithContext(ctx).Preload("User").Order("employee_id")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	err := q.Find(&members).Error
	return members, err
}

func (r *staffRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StaffMember{}).Count(&count).Error
	return count, err
}

func (r *staffRepository) EmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StaffMember{}).Where("employee_id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uint) (*models.InventoryItem, error)
	List(ctx context.Context, category string) ([]models.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]models.InventoryItem, error)
	// Adjust adds delta to the stored quantity unless the result would be negative.
	Adjust(ctx context.Context, id uint, delta decimal.Decimal) (*models.InventoryItem, bool, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepository) GetByID(ctx context.Context, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) List(ctx context.Context, category string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	q := r.db.WithContext(ctx).Order("category, name")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).Where("quantity <= minimum_threshold").Order("name").Find(&items).Error
	return items, err
}

func (r *inventoryRepository) Adjust(ctx context.Context, id uint, delta decimal.Decimal) (*models.InventoryItem, bool, error) {
	res := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return nil, false, res.Error
	}
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return item, res.RowsAffected > 0, nil
}

type ShiftRepository interface {
	Create(ctx context.Context, shift *models.Shift) error
	// List returns shifts ordered by date and start time. Zero filters match all.
	List(ctx context.Context, staffID uint, date *time.Time) ([]models.Shift, error)
}

type shiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	return r.db.WithContext(ctx).Omit("Staff").Create(shift).Error
}

func (r *shiftRepository) List(ctx context.Context, staffID uint, date *time.Time) ([]models.Shift, error) {
	var shifts []models.Shift
	q := r.db.WithContext(ctx).Preload("Staff.User").Order("date, start_time")
	if staffID != 0 {
		q = q.Where("staff_id = ?", staffID)
	}
	if date != nil {
		q = q.Where("date = ?", date.Format("2006-01-02"))
	}
	err := q.Find(&shifts).Error
	return shifts, err
}
