package issuance

import (
	"context"
	"github.com/google/uuid"
	"sync"
)

var _ downloadCounter = &downloadCounterMock{}

type downloadCounterMock struct {
	IncrementDownloadCountFunc func(ctx context.Context, id uuid.UUID) (int64, error)

	calls struct {
		IncrementDownloadCount []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
	}
	lockIncrementDownloadCount sync.RWMutex
}

func (mock *downloadCounterMock) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error) {
	if mock.IncrementDownloadCountFunc == nil {
		panic("downloadCounterMock.IncrementDownloadCountFunc: method is nil but downloadCounter.IncrementDownloadCount was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockIncrementDownloadCount.Lock()
	mock.calls.IncrementDownloadCount = append(mock.calls.IncrementDownloadCount, callInfo)
	mock.lockIncrementDownloadCount.Unlock()
	return mock.IncrementDownloadCountFunc(ctx, id)
}

func (mock *downloadCounterMock) IncrementDownloadCountCalls() []struct {
	Ctx context.Context
	Id  uuid.UUID
} {
	mock.lockIncrementDownloadCount.RLock()
	calls := mock.calls.IncrementDownloadCount
	mock.lockIncrementDownloadCount.RUnlock()
	return calls
}
