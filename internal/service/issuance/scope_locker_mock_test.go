package issuance

import (
	"context"
	"sync"
)

var _ scopeLocker = &scopeLockerMock{}

type scopeLockerMock struct {
	LockFunc func(ctx context.Context, key string) error

	calls struct {
		Lock []struct {
			Ctx context.Context
			Key string
		}
	}
	lockLock sync.RWMutex
}

func (mock *scopeLockerMock) Lock(ctx context.Context, key string) error {
	if mock.LockFunc == nil {
		panic("scopeLockerMock.LockFunc: method is nil but scopeLocker.Lock was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Key string
	}{Ctx: ctx, Key: key}
	mock.lockLock.Lock()
	mock.calls.Lock = append(mock.calls.Lock, callInfo)
	mock.lockLock.Unlock()
	return mock.LockFunc(ctx, key)
}

func (mock *scopeLockerMock) LockCalls() []struct {
	Ctx context.Context
	Key string
} {
	mock.lockLock.RLock()
	calls := mock.calls.Lock
	mock.lockLock.RUnlock()
	return calls
}
