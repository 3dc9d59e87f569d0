package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TrimBOM strips a leading UTF-8 BOM written by some Windows editors
func TrimBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == utf8BOM[0] && data[1] == utf8BOM[1] && data[2] == utf8BOM[2] {
		return data[3:]
	}
	return data
}

// WithBOM prefixes data with a UTF-8 BOM for proper display in Windows
func WithBOM(data []byte) []byte {
	return append(append([]byte{}, utf8BOM...), data...)
}

// ParseAmount parses a positive integer token amount (smallest units, no decimal point)
// Example: ParseAmount("1") = 1
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty amount")
	}
	if strings.ContainsAny(s, ".,") {
		return nil, fmt.Errorf("amount must be an integer: %s", s)
	}

	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount '%s': %w", s, err)
	}
	if amount.IsZero() {
		return nil, errors.New("amount must be greater than zero")
	}
	return amount, nil
}

// FormatAmount renders an amount for display, nil as "0"
func FormatAmount(amount *uint256.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.Dec()
}

// SumAmounts adds amounts, treating nil as zero.
// ok is false on 256-bit overflow.
func SumAmounts(amounts ...*uint256.Int) (sum *uint256.Int, ok bool) {
	sum = new(uint256.Int)
	for _, a := range amounts {
		if a == nil {
			continue
		}
		if _, overflow := sum.AddOverflow(sum, a); overflow {
			return nil, false
		}
	}
	return sum, true
}
