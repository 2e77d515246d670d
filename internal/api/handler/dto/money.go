package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lending-engine/internal/pkg/apperrors"
)

// Amounts cross the API as decimal strings ("2500.00") and live internally
// as integer minor units. The conversion is exact; sub-cent precision is
// rejected rather than rounded.
func ParseAmountMinor(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid numeric format for amount", apperrors.ErrInvalidAmount)
	}
	minor := d.Shift(2)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s has sub-cent precision", apperrors.ErrInvalidAmount, s)
	}
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: amount %s is out of range", apperrors.ErrInvalidAmount, s)
	}
	return minor.IntPart(), nil
}

func FormatAmountMinor(minor int64) string {
	return decimal.NewFromInt(minor).Shift(-2).StringFixed(2)
}
