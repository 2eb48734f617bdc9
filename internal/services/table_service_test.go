package services

import (
	"context"
	"errors"
	"restaurant_ordering/internal/models"
	"testing"
)

func newTables() (*fakeTableRepo, TableService) {
	repo := newFakeTableRepo(
		models.DiningTable{ID: 1, Number: 1, Capacity: 4, IsAvailable: true},
		models.DiningTable{ID: 2, Number: 2, Capacity: 2, IsAvailable: false},
	)
	return repo, NewTableService(repo)
}

func TestReserveTable(t *testing.T) {
	tests := []struct {
		name      string
		id        uint
		party     int
		wantErr   error
		available bool
	}{
		{"fits", 1, 4, nil, false},
		{"party too large", 1, 6, ErrInsufficientCapacity, true},
		{"already taken", 2, 1, ErrTableUnavailable, false},
		{"missing table", 9, 2, ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, svc := newTables()
			table, err := svc.Reserve(context.Background(), tt.id, tt.party)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("Reserve: %v", err)
				}
				if table.IsAvailable {
					t.Error("returned table still available")
				}
			}
			if stored, ok := repo.tables[tt.id]; ok && stored.IsAvailable != tt.available {
				t.Errorf("stored availability = %v, want %v", stored.IsAvailable, tt.available)
			}
		})
	}
}

func TestReserveTableRejectsEmptyParty(t *testing.T) {
	_, svc := newTables()
	_, err := svc.Reserve(context.Background(), 1, 0)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["party_size"] == "" {
		t.Fatalf("err = %v, want party_size validation error", err)
	}
}

func TestReleaseTable(t *testing.T) {
	repo, svc := newTables()

	if _, err := svc.Release(context.Background(), customer(7), 2); !errors.Is(err, ErrForbidden) {
		t.Errorf("customer release err = %v, want ErrForbidden", err)
	}
	table, err := svc.Release(context.Background(), staffer(1), 2)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !table.IsAvailable || !repo.tables[2].IsAvailable {
		t.Error("table not released")
	}
	if _, err := svc.Release(context.Background(), staffer(1), 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing table err = %v, want ErrNotFound", err)
	}
}

func TestCreateTable(t *testing.T) {
	_, svc := newTables()

	if _, err := svc.CreateTable(context.Background(), 1, 4); err == nil {
		t.Error("duplicate table number accepted")
	}
	if _, err := svc.CreateTable(context.Background(), 0, 0); err == nil {
		t.Error("invalid table accepted")
	}
	table, err := svc.CreateTable(context.Background(), 3, 6)
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if !table.IsAvailable {
		t.Error("new table should be available")
	}
}
