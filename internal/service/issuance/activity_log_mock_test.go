package issuance

import (
	"context"
	"github.com/heartmarshall/dossier-issuance/internal/domain"
	"sync"
)

var _ activityLog = &activityLogMock{}

type activityLogMock struct {
	RecordFunc func(ctx context.Context, ev domain.ActivityEvent) error

	calls struct {
		Record []struct {
			Ctx context.Context
			Ev  domain.ActivityEvent
		}
	}
	lockRecord sync.RWMutex
}

func (mock *activityLogMock) Record(ctx context.Context, ev domain.ActivityEvent) error {
	if mock.RecordFunc == nil {
		panic("activityLogMock.RecordFunc: method is nil but activityLog.Record was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ev  domain.ActivityEvent
	}{Ctx: ctx, Ev: ev}
	mock.lockRecord.Lock()
	mock.calls.Record = append(mock.calls.Record, callInfo)
	mock.lockRecord.Unlock()
	return mock.RecordFunc(ctx, ev)
}

func (mock *activityLogMock) RecordCalls() []struct {
	Ctx context.Context
	Ev  domain.ActivityEvent
} {
	mock.lockRecord.RLock()
	calls := mock.calls.Record
	mock.lockRecord.RUnlock()
	return calls
}
