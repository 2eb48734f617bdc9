package services

import (
	"context"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"time"
)

type RestaurantInfo struct {
	*models.Restaurant
	IsOpen bool `json:"is_open"`
}

type RestaurantService interface {
	Info(ctx context.Context) (*RestaurantInfo, error)
}

type restaurantService struct {
	repo repository.RestaurantRepository
	now  func() time.Time
}

func NewRestaurantService(repo repository.RestaurantRepository) RestaurantService {
	return &restaurantService{repo: repo, now: time.Now}
}

func (s *restaurantService) Info(ctx context.Context) (*RestaurantInfo, error) {
	r, err := s.repo.Get(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return &RestaurantInfo{Restaurant: r, IsOpen: IsOpenAt(s.now())}, nil
}

// IsOpenAt applies the house hours: 09:00-22:00 on weekdays, 10:00-23:00 at weekends.
// The closing hour itself counts as closed.
func IsOpenAt(t time.Time) bool {
	opens, closes := 9, 22
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		opens, closes = 10, 23
	}
	h := t.Hour()
	return h >= opens && h < closes
}
