package services

import (
	"context"
	"restaurant_ordering/internal/repository"
	"time"

	"github.com/shopspring/decimal"
)

type DailySales struct {
	Date        string          `json:"date"`
	OrderCount  int64           `json:"order_count"`
	TotalAmount decimal.Decimal `json:"total_sales"`
}

type ReportService interface {
	DailySales(ctx context.Context, actor *Session, day time.Time) (*DailySales, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

// DailySales totals non-cancelled orders created on day, in day's location.
func (s *reportService) DailySales(ctx context.Context, actor *Session, day time.Time) (*DailySales, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	start, end := DayBounds(day)
	summary, err := s.orderRepo.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &DailySales{
		Date:        start.Format(dateLayout),
		OrderCount:  summary.OrderCount,
		TotalAmount: summary.TotalAmount,
	}, nil
}

// DayBounds returns the half-open range [midnight, next midnight) around t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
