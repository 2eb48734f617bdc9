package repository

import (
	"context"
	"restaurant_ordering/internal/models"

	"gorm.io/gorm"
)

type TableRepository interface {
	List(ctx context.Context, availableOnly bool) ([]models.DiningTable, error)
	GetByID(ctx context.Context, id uint) (*models.DiningTable, error)
	Create(ctx context.Context, table *models.DiningTable) error
	// Reserve flips the table to unavailable only if it is free and large
	// enough. It reports whether a row was updated.
	Reserve(ctx context.Context, id uint, partySize int) (bool, error)
	Release(ctx context.Context, id uint) (bool, error)
}

type tableRepository struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) List(ctx context.Context, availableOnly bool) ([]models.DiningTable, error) {
	var tables []models.DiningTable
	q := r.db.WithContext(ctx).Order("number")
	if availableOnly {
		q = q.Where("is_available = ?", true)
	}
	err := q.Find(&tables).Error
	return tables, err
}

func (r *tableRepository) GetByID(ctx context.Context, id uint) (*models.DiningTable, error) {
	var table models.DiningTable
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepository) Create(ctx context.Context, table *models.DiningTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepository) Reserve(ctx context.Context, id uint, partySize int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.DiningTable{}).
		Where("id = ? AND is_available = ? AND capacity >= ?", id, true, partySize).
		Update("is_available", false)
	return res.RowsAffected > 0, res.Error
}

func (r *tableRepository) Release(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.DiningTable{}).
		Where("id = ?", id).
		Update("is_available", true)
	return res.RowsAffected > 0, res.Error
}
