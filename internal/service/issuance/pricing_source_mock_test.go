package issuance

import (
	"context"
	"github.com/google/uuid"
	"sync"
)

var _ pricingSource = &pricingSourceMock{}

type pricingSourceMock struct {
	UnitPriceFunc func(ctx context.Context, districtID uuid.UUID, category string) (int64, error)

	calls struct {
		UnitPrice []struct {
			Ctx        context.Context
			DistrictID uuid.UUID
			Category   string
		}
	}
	lockUnitPrice sync.RWMutex
}

func (mock *pricingSourceMock) UnitPrice(ctx context.Context, districtID uuid.UUID, category string) (int64, error) {
	if mock.UnitPriceFunc == nil {
		panic("pricingSourceMock.UnitPriceFunc: method is nil but pricingSource.UnitPrice was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		DistrictID uuid.UUID
		Category   string
	}{Ctx: ctx, DistrictID: districtID, Category: category}
	mock.lockUnitPrice.Lock()
	mock.calls.UnitPrice = append(mock.calls.UnitPrice, callInfo)
	mock.lockUnitPrice.Unlock()
	return mock.UnitPriceFunc(ctx, districtID, category)
}

func (mock *pricingSourceMock) UnitPriceCalls() []struct {
	Ctx        context.Context
	DistrictID uuid.UUID
	Category   string
} {
	mock.lockUnitPrice.RLock()
	calls := mock.calls.UnitPrice
	mock.lockUnitPrice.RUnlock()
	return calls
}
