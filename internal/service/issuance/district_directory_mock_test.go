package issuance

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"sync"
)

var _ districtDirectory = &districtDirectoryMock{}

type districtDirectoryMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.District, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *districtDirectoryMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.District, error) {
	if mock.GetByIDFunc == nil {
		panic("districtDirectoryMock.GetByIDFunc: method is nil but districtDirectory.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *districtDirectoryMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
