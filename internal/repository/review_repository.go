package repository

import (
	"context"
	"restaurant_ordering/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.CustomerReview) error
	ExistsForOrder(ctx context.Context, orderID uint) (bool, error)
	ListApproved(ctx context.Context, page Page) ([]models.CustomerReview, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.CustomerReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ExistsForOrder(ctx context.Context, orderID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerReview{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) ListApproved(ctx context.Context, page Page) ([]models.CustomerReview, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.CustomerReview{}).Where("is_approved = ?", true)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reviews []models.CustomerReview
	err := q.Order("created_at DESC").Scopes(paginate(page)).Find(&reviews).Error
	return reviews, total, err
}

type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	List(ctx context.Context, unresolvedOnly bool) ([]models.Contact, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) List(ctx context.Context, unresolvedOnly bool) ([]models.Contact, error) {
	var contacts []models.Contact
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if unresolvedOnly {
		q = q.Where("is_resolved = ?", false)
	}
	err := q.Find(&contacts).Error
	return contacts, err
}

type RestaurantRepository interface {
	Get(ctx context.Context) (*models.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Get(ctx context.Context) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Order("id").First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}
