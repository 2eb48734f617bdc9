package services

import (
	"context"
	"errors"
	"fmt"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CouponInput struct {
	Code               string          `json:"code"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	IsActive           *bool           `json:"is_active"`
	ValidFrom          string          `json:"valid_from"`
	ValidUntil         string          `json:"valid_until"`
}

type CouponService interface {
	CreateCoupon(ctx context.Context, actor *Session, in CouponInput) (*models.Coupon, error)
	ListCoupons(ctx context.Context, actor *Session) ([]models.Coupon, error)
	// Validate looks a code up and checks it against today's date. Coupons are
	// informational only; no order total is ever discounted.
	Validate(ctx context.Context, code string) (*models.Coupon, error)
}

type couponService struct {
	couponRepo repository.CouponRepository
	genCode    codeGenerator
	now        func() time.Time
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponService{couponRepo: couponRepo, genCode: GenerateCode, now: time.Now}
}

const dateLayout = "2006-01-02"

func (s *couponService) CreateCoupon(ctx context.Context, actor *Session, in CouponInput) (*models.Coupon, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}

	fields := fieldErrors{}
	pct := in.DiscountPercentage
	if !pct.IsPositive() || pct.GreaterThan(hundred) {
		fields.add("discount_percentage", "discount must be greater than 0 and at most 100")
	}
	from, err := time.Parse(dateLayout, in.ValidFrom)
	if err != nil {
		fields.add("valid_from", "date has wrong format, use YYYY-MM-DD")
	}
	until, err := time.Parse(dateLayout, in.ValidUntil)
	if err != nil {
		fields.add("valid_until", "date has wrong format, use YYYY-MM-DD")
	}
	if len(fields) == 0 && until.Before(from) {
		fields.add("valid_until", "valid_until must not be before valid_from")
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if len(code) > 50 {
		fields.add("code", "ensure this field has no more than 50 characters")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	coupon := &models.Coupon{
		Code:               code,
		DiscountPercentage: pct.Round(2),
		IsActive:           in.IsActive == nil || *in.IsActive,
		ValidFrom:          from,
		ValidUntil:         until,
	}

	if code != "" {
		if err := s.couponRepo.Create(ctx, coupon); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, invalid("code", "coupon with this code already exists")
			}
			return nil, fmt.Errorf("failed to create coupon: %w", err)
		}
		return coupon, nil
	}

	attempts := 0
	for {
		generated, err := uniqueCode(ctx, s.genCode, CouponCodeLength, &attempts, s.couponRepo.CodeExists)
		if err != nil {
			return nil, err
		}
		coupon.ID = 0
		coupon.Code = generated
		err = s.couponRepo.Create(ctx, coupon)
		if err == nil {
			return coupon, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create coupon: %w", err)
		}
	}
}

func (s *couponService) ListCoupons(ctx context.Context, actor *Session) ([]models.Coupon, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	return s.couponRepo.List(ctx)
}

func (s *couponService) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, invalid("code", "this field is required")
	}
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponInvalid
		}
		return nil, err
	}
	if !coupon.ValidOn(s.now()) {
		return nil, ErrCouponInvalid
	}
	return coupon, nil
}

type PaymentMethodInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type PaymentService interface {
	ListMethods(ctx context.Context) ([]models.PaymentMethod, error)
	CreateMethod(ctx context.Context, actor *Session, in PaymentMethodInput) (*models.PaymentMethod, error)
}

type paymentService struct {
	repo repository.PaymentMethodRepository
}

func NewPaymentService(repo repository.PaymentMethodRepository) PaymentService {
	return &paymentService{repo: repo}
}

func (s *paymentService) ListMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	return s.repo.List(ctx, true)
}

func (s *paymentService) CreateMethod(ctx context.Context, actor *Session, in PaymentMethodInput) (*models.PaymentMethod, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "this field is required")
	}
	method := &models.PaymentMethod{
		Name:        name,
		Description: in.Description,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.repo.Create(ctx, method); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("name", "payment method with this name already exists")
		}
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return method, nil
}
