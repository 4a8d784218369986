package issuance

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// ComputeAmount returns unitPrice × area truncated toward zero.
func ComputeAmount(unitPrice int64, area decimal.Decimal) (int64, error) {
	if unitPrice < 0 {
		return 0, domain.NewConfigurationError("unit_price", "unit price must not be negative")
	}
	if area.IsNegative() {
		return 0, domain.NewValidationError("area", "must be non-negative")
	}
	amount := decimal.NewFromInt(unitPrice).Mul(area).Truncate(0)
	if amount.GreaterThan(maxAmount) {
		return 0, domain.NewValidationError("area", "amount is out of range")
	}
	return amount.IntPart(), nil
}
