package issuance

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"sync"
)

var _ sequenceAllocator = &sequenceAllocatorMock{}

type sequenceAllocatorMock struct {
	NextFunc func(ctx context.Context, kind domain.DocumentKind, districtID uuid.UUID, year int) (string, error)

	calls struct {
		Next []struct {
			Ctx        context.Context
			Kind       domain.DocumentKind
			DistrictID uuid.UUID
			Year       int
		}
	}
	lockNext sync.RWMutex
}

func (mock *sequenceAllocatorMock) Next(ctx context.Context, kind domain.DocumentKind, districtID uuid.UUID, year int) (string, error) {
	if mock.NextFunc == nil {
		panic("sequenceAllocatorMock.NextFunc: method is nil but sequenceAllocator.Next was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Kind       domain.DocumentKind
		DistrictID uuid.UUID
		Year       int
	}{Ctx: ctx, Kind: kind, DistrictID: districtID, Year: year}
	mock.lockNext.Lock()
	mock.calls.Next = append(mock.calls.Next, callInfo)
	mock.lockNext.Unlock()
	return mock.NextFunc(ctx, kind, districtID, year)
}

func (mock *sequenceAllocatorMock) NextCalls() []struct {
	Ctx        context.Context
	Kind       domain.DocumentKind
	DistrictID uuid.UUID
	Year       int
} {
	mock.lockNext.RLock()
	calls := mock.calls.Next
	mock.lockNext.RUnlock()
	return calls
}
