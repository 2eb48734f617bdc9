package services

import "restaurant_ordering/internal/repository"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination is a 1-based page request.
type Pagination struct {
	Page     int
	PageSize int
}

// NewPagination clamps raw query values to sane bounds.
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

func (p Pagination) repositoryPage() repository.Page {
	p = NewPagination(p.Page, p.PageSize)
	return repository.Page{Offset: (p.Page - 1) * p.PageSize, Limit: p.PageSize}
}
