package issuance

import (
	"context"
	"io"
	"sync"
)

var _ artifactStore = &artifactStoreMock{}

type artifactStoreMock struct {
	WriteFunc  func(ctx context.Context, p string, data []byte) (int64, error)
	VerifyFunc func(ctx context.Context, p string, size int64) (bool, error)
	OpenFunc   func(ctx context.Context, p string) (io.ReadCloser, error)

	calls struct {
		Write []struct {
			Ctx  context.Context
			P    string
			Data []byte
		}
		Verify []struct {
			Ctx  context.Context
			P    string
			Size int64
		}
		Open []struct {
			Ctx context.Context
			P   string
		}
	}
	lockWrite  sync.RWMutex
	lockVerify sync.RWMutex
	lockOpen   sync.RWMutex
}

func (mock *artifactStoreMock) Write(ctx context.Context, p string, data []byte) (int64, error) {
	if mock.WriteFunc == nil {
		panic("artifactStoreMock.WriteFunc: method is nil but artifactStore.Write was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		P    string
		Data []byte
	}{Ctx: ctx, P: p, Data: data}
	mock.lockWrite.Lock()
	mock.calls.Write = append(mock.calls.Write, callInfo)
	mock.lockWrite.Unlock()
	return mock.WriteFunc(ctx, p, data)
}

func (mock *artifactStoreMock) WriteCalls() []struct {
	Ctx  context.Context
	P    string
	Data []byte
} {
	mock.lockWrite.RLock()
	calls := mock.calls.Write
	mock.lockWrite.RUnlock()
	return calls
}

func (mock *artifactStoreMock) Verify(ctx context.Context, p string, size int64) (bool, error) {
	if mock.VerifyFunc == nil {
		panic("artifactStoreMock.VerifyFunc: method is nil but artifactStore.Verify was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		P    string
		Size int64
	}{Ctx: ctx, P: p, Size: size}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, callInfo)
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(ctx, p, size)
}

func (mock *artifactStoreMock) VerifyCalls() []struct {
	Ctx  context.Context
	P    string
	Size int64
} {
	mock.lockVerify.RLock()
	calls := mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}

func (mock *artifactStoreMock) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if mock.OpenFunc == nil {
		panic("artifactStoreMock.OpenFunc: method is nil but artifactStore.Open was just called")
	}
	callInfo := struct {
		Ctx context.Context
		P   string
	}{Ctx: ctx, P: p}
	mock.lockOpen.Lock()
	mock.calls.Open = append(mock.calls.Open, callInfo)
	mock.lockOpen.Unlock()
	return mock.OpenFunc(ctx, p)
}

func (mock *artifactStoreMock) OpenCalls() []struct {
	Ctx context.Context
	P   string
} {
	mock.lockOpen.RLock()
	calls := mock.calls.Open
	mock.lockOpen.RUnlock()
	return calls
}
