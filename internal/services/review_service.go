package services

import (
	"context"
	"errors"
	"fmt"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"strings"

	"gorm.io/gorm"
)

type ReviewInput struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, actor *Session, orderID uint, in ReviewInput) (*models.CustomerReview, error)
	ListReviews(ctx context.Context, page Pagination) ([]models.CustomerReview, int64, error)
	SubmitContact(ctx context.Context, in ContactInput) (*models.Contact, error)
	ListContacts(ctx context.Context, actor *Session, unresolvedOnly bool) ([]models.Contact, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	contactRepo repository.ContactRepository
	orderRepo   repository.OrderRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, contactRepo repository.ContactRepository, orderRepo repository.OrderRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, contactRepo: contactRepo, orderRepo: orderRepo}
}

// CreateReview accepts one review per completed order, from the order's owner.
func (s *reviewService) CreateReview(ctx context.Context, actor *Session, orderID uint, in ReviewInput) (*models.CustomerReview, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err)
	}
	if !isOwner(actor, order) {
		return nil, ErrForbidden
	}
	if order.Status != models.OrderCompleted {
		return nil, invalid("order", "only completed orders can be reviewed")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, invalid("rating", "rating must be between 1 and 5")
	}

	exists, err := s.reviewRepo.ExistsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.CustomerReview{
		OrderID:    orderID,
		CustomerID: actor.UserID,
		Rating:     in.Rating,
		ReviewText: strings.TrimSpace(in.ReviewText),
		IsApproved: true,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, page Pagination) ([]models.CustomerReview, int64, error) {
	return s.reviewRepo.ListApproved(ctx, page.repositoryPage())
}

func (s *reviewService) SubmitContact(ctx context.Context, in ContactInput) (*models.Contact, error) {
	fields := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fields.add("name", "this field is required")
	}
	if !validEmail(strings.TrimSpace(in.Email)) {
		fields.add("email", "enter a valid email address")
	}
	if strings.TrimSpace(in.Subject) == "" {
		fields.add("subject", "this field is required")
	} else if len(in.Subject) > 200 {
		fields.add("subject", "ensure this field has no more than 200 characters")
	}
	if strings.TrimSpace(in.Message) == "" {
		fields.add("message", "this field is required")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return contact, nil
}

func (s *reviewService) ListContacts(ctx context.Context, actor *Session, unresolvedOnly bool) ([]models.Contact, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	return s.contactRepo.List(ctx, unresolvedOnly)
}
