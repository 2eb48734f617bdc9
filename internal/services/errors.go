package services

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("you do not have permission to perform this action")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrOrderNotEditable     = errors.New("only pending orders can be changed")
	ErrTableUnavailable     = errors.New("table is not available")
	ErrInsufficientCapacity = errors.New("table capacity is smaller than the party")
	ErrCodeSpaceExhausted   = errors.New("could not generate a unique code")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrCouponInvalid        = errors.New("coupon is not valid")
	ErrAlreadyReviewed      = errors.New("order has already been reviewed")
	ErrInsufficientStock    = errors.New("adjustment would leave negative stock")
)

// ValidationError carries one message per offending input field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// notFound maps the ORM miss to ErrNotFound and passes everything else through.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
