package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 10

	OrderCodeLength  = 12
	CouponCodeLength = 10
)

// GenerateCode returns length characters drawn uniformly from A-Z0-9.
func GenerateCode(length int) (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

type codeGenerator func(length int) (string, error)

// uniqueCode retries generation until exists reports a free code, giving up
// after maxCodeAttempts.
func uniqueCode(ctx context.Context, gen codeGenerator, length int, attempts *int, exists func(context.Context, string) (bool, error)) (string, error) {
	for *attempts < maxCodeAttempts {
		*attempts++
		code, err := gen(length)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
