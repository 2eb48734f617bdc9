package services

import (
	"context"
	"errors"
	"fmt"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"

	"gorm.io/gorm"
)

type TableService interface {
	ListTables(ctx context.Context, availableOnly bool) ([]models.DiningTable, error)
	CreateTable(ctx context.Context, number, capacity int) (*models.DiningTable, error)
	Reserve(ctx context.Context, id uint, partySize int) (*models.DiningTable, error)
	Release(ctx context.Context, actor *Session, id uint) (*models.DiningTable, error)
}

type tableService struct {
	tableRepo repository.TableRepository
}

func NewTableService(tableRepo repository.TableRepository) TableService {
	return &tableService{tableRepo: tableRepo}
}

func (s *tableService) ListTables(ctx context.Context, availableOnly bool) ([]models.DiningTable, error) {
	return s.tableRepo.List(ctx, availableOnly)
}

func (s *tableService) CreateTable(ctx context.Context, number, capacity int) (*models.DiningTable, error) {
	fields := fieldErrors{}
	if number < 1 {
		fields.add("table_number", "table number must be positive")
	}
	if capacity < 1 {
		fields.add("capacity", "capacity must be at least 1")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	table := &models.DiningTable{Number: number, Capacity: capacity, IsAvailable: true}
	if err := s.tableRepo.Create(ctx, table); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("table_number", "table with this number already exists")
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return table, nil
}

// Reserve marks the table unavailable in one conditional update. If nothing
// was updated the table is reloaded to tell the caller why.
func (s *tableService) Reserve(ctx context.Context, id uint, partySize int) (*models.DiningTable, error) {
	if partySize < 1 {
		return nil, invalid("party_size", "party size must be at least 1")
	}

	ok, err := s.tableRepo.Reserve(ctx, id, partySize)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve table: %w", err)
	}

	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if ok {
		return table, nil
	}
	if !table.IsAvailable {
		return nil, ErrTableUnavailable
	}
	if table.Capacity < partySize {
		return nil, ErrInsufficientCapacity
	}
	return nil, ErrTableUnavailable
}

func (s *tableService) Release(ctx context.Context, actor *Session, id uint) (*models.DiningTable, error) {
	if actor == nil || !models.IsStaffRole(actor.Role) {
		return nil, ErrForbidden
	}
	ok, err := s.tableRepo.Release(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to release table: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return table, nil
}
