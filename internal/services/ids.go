package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Lengths of the random suffixes on generated references
const (
	orderSuffixLen       = 9
	partnershipSuffixLen = 6
)

// randomBase36 returns n uppercase base36 characters from src
func randomBase36(src io.Reader, n int) (string, error) {
	radix := big.NewInt(int64(len(base36Upper)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(src, radix)
		if err != nil {
			return "", err
		}
		out[i] = base36Upper[idx.Int64()]
	}
	return string(out), nil
}

// NewOrderID returns ORD-<epoch-ms>-<9 base36 chars>
func NewOrderID(now time.Time) (string, error) {
	suffix, err := randomBase36(rand.Reader, orderSuffixLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate order id: %w", err)
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix), nil
}

// NewPartnershipID returns PART-<epoch-ms>-<6 base36 chars>
func NewPartnershipID(now time.Time) (string, error) {
	suffix, err := randomBase36(rand.Reader, partnershipSuffixLen)
	if err != nil {
		return "", fmt.Errorf("failed to generate partnership id: %w", err)
	}
	return fmt.Sprintf("PART-%d-%s", now.UnixMilli(), suffix), nil
}
