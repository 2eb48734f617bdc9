package services

import (
	"context"
	"errors"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"testing"
)

type fakeReviewRepo struct {
	reviews []models.CustomerReview
}

func (r *fakeReviewRepo) Create(_ context.Context, rev *models.CustomerReview) error {
	rev.ID = uint(len(r.reviews) + 1)
	r.reviews = append(r.reviews, *rev)
	return nil
}

func (r *fakeReviewRepo) ExistsForOrder(_ context.Context, orderID uint) (bool, error) {
	for _, rev := range r.reviews {
		if rev.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) ListApproved(context.Context, repository.Page) ([]models.CustomerReview, int64, error) {
	return r.reviews, int64(len(r.reviews)), nil
}

type fakeContactRepo struct {
	contacts []models.Contact
}

func (r *fakeContactRepo) Create(_ context.Context, c *models.Contact) error {
	c.ID = uint(len(r.contacts) + 1)
	r.contacts = append(r.contacts, *c)
	return nil
}

func (r *fakeContactRepo) List(context.Context, bool) ([]models.Contact, error) {
	return r.contacts, nil
}

func newReviews() (*fakeOrderRepo, *fakeReviewRepo, ReviewService) {
	orders := newFakeOrderRepo()
	orders.orders[1] = &models.Order{ID: 1, UserID: 7, Status: models.OrderCompleted}
	orders.orders[2] = &models.Order{ID: 2, UserID: 7, Status: models.OrderProcessing}
	reviews := &fakeReviewRepo{}
	return orders, reviews, NewReviewService(reviews, &fakeContactRepo{}, orders)
}

func TestCreateReview(t *testing.T) {
	_, reviews, svc := newReviews()

	review, err := svc.CreateReview(context.Background(), customer(7), 1, ReviewInput{Rating: 5, ReviewText: " Lovely "})
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if !review.IsApproved || review.ReviewText != "Lovely" || review.CustomerID != 7 {
		t.Errorf("review = %+v", review)
	}

	if _, err := svc.CreateReview(context.Background(), customer(7), 1, ReviewInput{Rating: 4}); !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("second review err = %v, want ErrAlreadyReviewed", err)
	}
	if len(reviews.reviews) != 1 {
		t.Errorf("stored %d reviews, want 1", len(reviews.reviews))
	}
}

func TestCreateReviewRejections(t *testing.T) {
	tests := []struct {
		name    string
		actor   *Session
		orderID uint
		rating  int
		check   func(error) bool
	}{
		{"not completed", customer(7), 2, 5, isValidation},
		{"not owner", customer(8), 1, 5, func(err error) bool { return errors.Is(err, ErrForbidden) }},
		{"missing order", customer(7), 9, 5, func(err error) bool { return errors.Is(err, ErrNotFound) }},
		{"rating too low", customer(7), 1, 0, isValidation},
		{"rating too high", customer(7), 1, 6, isValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, svc := newReviews()
			_, err := svc.CreateReview(context.Background(), tt.actor, tt.orderID, ReviewInput{Rating: tt.rating})
			if !tt.check(err) {
				t.Errorf("unexpected err = %v", err)
			}
		})
	}
}

func isValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func TestContactMessages(t *testing.T) {
	_, _, svc := newReviews()

	if _, err := svc.SubmitContact(context.Background(), ContactInput{Name: "Ann"}); !isValidation(err) {
		t.Errorf("incomplete contact err = %v", err)
	}
	contact, err := svc.SubmitContact(context.Background(), ContactInput{
		Name: "Ann", Email: "ann@example.com", Subject: "Booking", Message: "Table for six?",
	})
	if err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}
	if contact.IsResolved {
		t.Error("new contact should be unresolved")
	}

	if _, err := svc.ListContacts(context.Background(), customer(7), false); !errors.Is(err, ErrForbidden) {
		t.Errorf("customer list err = %v", err)
	}
	list, err := svc.ListContacts(context.Background(), staffer(1), true)
	if err != nil || len(list) != 1 {
		t.Errorf("staff list = %v, %v", list, err)
	}
}
